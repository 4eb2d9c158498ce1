package teachlang

// LoopStatus is the register described in §4.7 that carries
// break/continue/return signals up through nested blocks without
// relying on Go panics.
type LoopStatus int

const (
	StatusDefault LoopStatus = iota
	StatusBreak
	StatusContinue
	StatusReturn
)

// funcDef is a user function's parse-tree pieces, kept separately from
// the SymbolTable (which only stores its static signature).
type funcDef struct {
	Params   Node
	RetNode  Node
	Body     Node
}

// Evaluator walks an analyzed parse tree and executes it against an
// Environment. One Evaluator runs exactly one program; function calls
// reuse it, tracking recursion depth against MaxCallDepth (§5 [ADDED]).
type Evaluator struct {
	Env          *Environment
	symtab       *SymbolTable
	Lib          Library
	funcs        map[string]funcDef
	loopStatus   LoopStatus
	returnValue  LiteralValue
	callDepth    int
	MaxCallDepth int
}

// NewEvaluator builds an Evaluator over an already-analyzed symbol
// table. maxCallDepth should come from Config's
// "interpreter.max_call_depth" key.
func NewEvaluator(st *SymbolTable, lib Library, maxCallDepth int) *Evaluator {
	return &Evaluator{
		Env:          NewEnvironment(st),
		symtab:       st,
		Lib:          lib,
		funcs:        make(map[string]funcDef),
		MaxCallDepth: maxCallDepth,
	}
}

// Run executes a Code node's definitions (function bodies registered
// for later calls, then global initializers) followed by the main
// program block.
func (ev *Evaluator) Run(root Node) error {
	kids := root.Children()
	defs, block := kids[0], kids[1]

	if defs != nil {
		if err := ev.runDefinitions(defs); err != nil {
			return unwrapQuit(err)
		}
	}
	err := ev.execBlock(block)
	return unwrapQuit(err)
}

// quitSignal is not an ErrorKind: `quit` is an intentional, successful
// termination of the program, not a failure.
type quitSignal struct{}

func (quitSignal) Error() string { return "quit" }

func unwrapQuit(err error) error {
	if _, ok := err.(quitSignal); ok {
		return nil
	}
	return err
}

func (ev *Evaluator) runDefinitions(defs Node) error {
	kids := defs.Children()
	_, globalDefs, funDefs := kids[0], kids[1], kids[2]

	if funDefs != nil {
		for _, fd := range funDefs.Children() {
			name := fd.Children()[0].(*IdNode).Name
			ev.funcs[name] = funcDef{
				Params:  fd.Children()[1],
				RetNode: fd.Children()[2],
				Body:    fd.Children()[3],
			}
		}
	}

	if globalDefs != nil {
		for _, stmt := range globalDefs.Children() {
			if err := ev.execStatement(stmt); err != nil {
				return err
			}
		}
	}
	return nil
}

// resolveType computes the concrete runtime PointerType for a
// Type/Pointer/ArrayDef node, evaluating any Bound expressions against
// the current environment (array bounds may reference globals).
func (ev *Evaluator) resolveType(n Node) (PointerType, error) {
	if n == nil {
		return PrimitiveType("nothing"), nil
	}
	switch n.Kind() {
	case KindType:
		name := n.(*TypeNode).Name
		if ev.symtab.StructFields(name) != nil {
			return StructureType(name), nil
		}
		return PrimitiveType(name), nil

	case KindPointer:
		inner, err := ev.resolveType(n.Children()[0])
		if err != nil {
			return PointerType{}, err
		}
		return LinkType(inner), nil

	case KindArrayDef:
		boundsNode := n.Children()[0]
		elemNode := n.Children()[1]
		elem, err := ev.resolveType(elemNode)
		if err != nil {
			return PointerType{}, err
		}
		var bounds []ArrayBound
		if boundsNode != nil {
			for _, b := range boundsNode.Children() {
				loNode, hiNode := b.Children()[0], b.Children()[1]
				hi, err := ev.evalIntExpr(hiNode)
				if err != nil {
					return PointerType{}, err
				}
				lo := 1
				if loNode != nil {
					lo, err = ev.evalIntExpr(loNode)
					if err != nil {
						return PointerType{}, err
					}
				}
				bounds = append(bounds, ArrayBound{Lo: lo, Hi: hi})
			}
		} else {
			bounds = []ArrayBound{{Lo: 1, Hi: 1}}
		}
		return ArrayType(bounds, elem), nil

	default:
		return PointerType{}, NewError(ParseError, n.Tok().Pos, "expected a type")
	}
}

func (ev *Evaluator) evalIntExpr(n Node) (int, error) {
	v, err := ev.evalExpr(n)
	if err != nil {
		return 0, err
	}
	return int(v.Number), nil
}
