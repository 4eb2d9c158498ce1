package teachlang

// Frame is one namespace scope: a mapping from declared name to the
// Pointer backing it.
type Frame map[string]Pointer

// Environment owns the runtime heap and the scoped namespace stack
// that names live in, per §3/§4.3. Scope 0 holds globals and is
// never popped.
type Environment struct {
	namespace []Frame
	Memory    *Memory
	symtab    *SymbolTable
}

func NewEnvironment(st *SymbolTable) *Environment {
	return &Environment{
		namespace: []Frame{make(Frame)},
		Memory:    NewMemory(),
		symtab:    st,
	}
}

// ScopeIn pushes a new, empty innermost namespace frame.
func (e *Environment) ScopeIn() {
	e.namespace = append(e.namespace, make(Frame))
}

// ScopeOut pops the innermost namespace frame, deallocating every
// pointer it owns that is neither still reachable from an outer frame
// nor kept alive by an outstanding link (§4.3/§4.6/P5), then rebuilds
// the free heap.
func (e *Environment) ScopeOut() {
	top := e.namespace[len(e.namespace)-1]
	e.namespace = e.namespace[:len(e.namespace)-1]

	for _, p := range top {
		if e.Memory.LinkCount(p.Address) > 0 {
			continue
		}
		if e.reachableFromOuter(p) {
			continue
		}
		e.Memory.Dealloc(p, e.symtab)
	}
	e.Memory.BuildHeap()
}

func (e *Environment) reachableFromOuter(p Pointer) bool {
	for _, frame := range e.namespace {
		for _, other := range frame {
			if other.Address == p.Address && other.Type.Equal(p.Type) {
				return true
			}
		}
	}
	return false
}

// GetID searches the namespace stack innermost-first for name.
func (e *Environment) GetID(name string, pos Position) (Pointer, error) {
	for i := len(e.namespace) - 1; i >= 0; i-- {
		if p, ok := e.namespace[i][name]; ok {
			return p, nil
		}
	}
	return Pointer{}, NewError(UnknownSymbol, pos, "Unknown symbol '%s'", name)
}

// InsertID binds name to p in the innermost frame. The analyzer
// already rejects duplicate declarations statically, so this only
// defends against an analyzer/evaluator desync.
func (e *Environment) InsertID(name string, p Pointer, pos Position) error {
	top := e.namespace[len(e.namespace)-1]
	if _, ok := top[name]; ok {
		return NewError(DuplicateDeclaration, pos, "Symbol '%s' already exists", name)
	}
	top[name] = p
	return nil
}

// Rebind overwrites name's Pointer in whichever frame currently holds
// it. Link-rebind assignment does not use it: `link x to y` rewrites
// the link's own cell (execAssign in eval_stmt.go).
func (e *Environment) Rebind(name string, p Pointer) {
	for i := len(e.namespace) - 1; i >= 0; i-- {
		if _, ok := e.namespace[i][name]; ok {
			e.namespace[i][name] = p
			return
		}
	}
}

func (e *Environment) Alloc(t PointerType) Pointer {
	size := SizeOf(t, e.symtab)
	addr := e.Memory.Alloc(size)
	return Pointer{Address: addr, Size: size, Type: t}
}
