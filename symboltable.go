package teachlang

import (
	"github.com/emirpasic/gods/maps/linkedhashmap"
)

// primitiveBasicTypes are the basic types every SymbolTable is seeded
// with, per §3.
var primitiveBasicTypes = []string{"number", "text", "nothing"}

// SymbolTable is the analyzer's scoped namespace plus the registries
// it builds up while walking `definitions`: structure field layouts
// and function signatures. It never holds runtime values — only
// static types.
type SymbolTable struct {
	symbols    []map[string]SymbolType
	basicTypes map[string]struct{}
	structArgs map[string]*linkedhashmap.Map // structure name -> field name -> SymbolType
	functions  map[string]FunctionObject
	depth      int
}

// NewSymbolTable creates a table seeded with the primitive types and
// the external function signatures supplied by lib (§6). Passing a
// nil lib seeds no external functions, which is useful in tests that
// only exercise user-defined declarations.
func NewSymbolTable(lib Library) *SymbolTable {
	st := &SymbolTable{
		symbols:    []map[string]SymbolType{make(map[string]SymbolType)},
		basicTypes: make(map[string]struct{}),
		structArgs: make(map[string]*linkedhashmap.Map),
		functions:  make(map[string]FunctionObject),
		depth:      0,
	}
	for _, t := range primitiveBasicTypes {
		st.basicTypes[t] = struct{}{}
	}
	if lib != nil {
		for name, fn := range lib.ExternalFunctions() {
			st.functions[name] = fn
		}
	}
	return st
}

// Depth returns the current scope index (0 = globals). Used by P1 to
// assert scope-stack depth balance around Block analysis.
func (st *SymbolTable) Depth() int { return st.depth }

// PushScope opens a new, empty innermost scope.
func (st *SymbolTable) PushScope() {
	st.symbols = append(st.symbols, make(map[string]SymbolType))
	st.depth++
}

// PopScope discards the innermost scope. Panics if called at depth 0,
// which would be a bug in the analyzer, not a user-facing error.
func (st *SymbolTable) PopScope() {
	if st.depth == 0 {
		panic("teachlang: PopScope at global depth")
	}
	st.symbols = st.symbols[:len(st.symbols)-1]
	st.depth--
}

// HasType reports whether name is a registered basic type.
func (st *SymbolTable) HasType(name string) bool {
	_, ok := st.basicTypes[name]
	return ok
}

// AddType registers a new basic type name (a structure). Returns
// DuplicateDeclaration if the name is already registered.
func (st *SymbolTable) AddType(name string, pos Position) error {
	if st.HasType(name) {
		return NewError(DuplicateDeclaration, pos, "Type '%s' already exists", name)
	}
	st.basicTypes[name] = struct{}{}
	return nil
}

// AddSymbol inserts name into the innermost scope. Fails with
// DuplicateDeclaration if already bound in that scope (I1/I2 hold: a
// symbol can only be added once its basic_type is registered).
func (st *SymbolTable) AddSymbol(name string, t SymbolType, pos Position) error {
	innermost := st.symbols[st.depth]
	if _, ok := innermost[name]; ok {
		return NewError(DuplicateDeclaration, pos, "Symbol '%s' already exists", name)
	}
	if !st.HasType(t.BasicType) && t.BasicType != WildcardType {
		return NewError(UnknownType, pos, "Unknown type: %s", t.BasicType)
	}
	innermost[name] = t
	return nil
}

// FindSymbol searches scopes innermost-first for name.
func (st *SymbolTable) FindSymbol(name string, pos Position) (SymbolType, error) {
	for i := st.depth; i >= 0; i-- {
		if t, ok := st.symbols[i][name]; ok {
			return t, nil
		}
	}
	return SymbolType{}, NewError(UnknownSymbol, pos, "Unknown symbol '%s'", name)
}

// AddFunction registers a function signature. Fails with
// DuplicateDeclaration on re-declaration, matching the "register
// every signature before any body" pass ordering in §4.2.
func (st *SymbolTable) AddFunction(name string, obj FunctionObject, pos Position) error {
	if _, ok := st.functions[name]; ok {
		return NewError(DuplicateDeclaration, pos, "Function %s has already been defined", name)
	}
	st.functions[name] = obj
	return nil
}

// FindFunction looks up a declared or external function signature.
func (st *SymbolTable) FindFunction(name string) (FunctionObject, bool) {
	fn, ok := st.functions[name]
	return fn, ok
}

// AddStruct registers a structure's ordered field map. Fields must be
// added to the returned map (via StructFields) before any symbol of
// this structure type is type-checked, satisfying I3.
func (st *SymbolTable) AddStruct(name string) *linkedhashmap.Map {
	fields := linkedhashmap.New()
	st.structArgs[name] = fields
	return fields
}

// StructFields returns the ordered field map for a registered
// structure, or nil if name isn't a structure.
func (st *SymbolTable) StructFields(name string) *linkedhashmap.Map {
	return st.structArgs[name]
}

// StructFieldType looks up one field's type by structure+field name,
// reporting UnknownStructureKey when the field doesn't exist.
func (st *SymbolTable) StructFieldType(structName, field string, pos Position) (SymbolType, error) {
	fields, ok := st.structArgs[structName]
	if !ok {
		return SymbolType{}, NewError(UnknownType, pos, "Unknown structure: %s", structName)
	}
	v, found := fields.Get(field)
	if !found {
		return SymbolType{}, NewError(UnknownStructureKey, pos, "Structure '%s' has no field '%s'", structName, field)
	}
	return v.(SymbolType), nil
}

// StructFieldOrdinal returns the zero-based declaration-order index of
// field within structName, used by eval_reference's GetStruct address
// arithmetic (§4.7).
func (st *SymbolTable) StructFieldOrdinal(structName, field string) (int, bool) {
	fields, ok := st.structArgs[structName]
	if !ok {
		return 0, false
	}
	for i, k := range fields.Keys() {
		if k.(string) == field {
			return i, true
		}
	}
	return 0, false
}

// StructFieldCount returns the number of fields declared for
// structName.
func (st *SymbolTable) StructFieldCount(structName string) int {
	fields, ok := st.structArgs[structName]
	if !ok {
		return 0
	}
	return fields.Size()
}
