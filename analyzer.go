package teachlang

// Analyzer walks a parse tree and builds the SymbolTable described in
// §4.2, performing every static type check along the way. It produces
// no runtime values — only a SymbolTable or an error.
type Analyzer struct {
	st                  *SymbolTable
	expectedReturnType  string
	inFunction          bool
}

// Analyze runs the full five-pass semantic analysis of §4.2 over a
// Code node and returns the resulting SymbolTable, or the first error
// encountered.
func Analyze(root Node, lib Library) (*SymbolTable, error) {
	a := &Analyzer{st: NewSymbolTable(lib)}
	code, ok := root.(*genNode)
	if !ok || code.Kind() != KindCode {
		return nil, NewError(ParseError, root.Tok().Pos, "expected Code at root")
	}
	defsNode := code.Children()[0]
	block := code.Children()[1]

	if defsNode != nil {
		if err := a.analyzeDefinitions(defsNode); err != nil {
			return nil, err
		}
	}

	depthBefore := a.st.Depth()
	if err := a.analyzeBlock(block); err != nil {
		return nil, err
	}
	if a.st.Depth() != depthBefore {
		panic("teachlang: analyzer scope depth imbalance (P1 violated)")
	}
	return a.st, nil
}

// analyzeDefinitions runs the five sub-passes described in §4.2 over
// Definitions.children = [StructDefs?, GlobalDefs?, FunDefs?].
func (a *Analyzer) analyzeDefinitions(defs Node) error {
	kids := defs.Children()
	structDefs, globalDefs, funDefs := kids[0], kids[1], kids[2]

	// Pass 1: register every structure name as a basic type.
	if structDefs != nil {
		for _, sd := range structDefs.Children() {
			name := sd.Children()[0].(*IdNode).Name
			if err := a.st.AddType(name, sd.Tok().Pos); err != nil {
				return err
			}
		}
	}

	// Pass 2: build each structure's ordered field map.
	if structDefs != nil {
		for _, sd := range structDefs.Children() {
			name := sd.Children()[0].(*IdNode).Name
			args := sd.Children()[1]
			fields := a.st.AddStruct(name)
			for _, arg := range args.Children() {
				fieldName := arg.Children()[0].(*IdNode).Name
				ft, err := a.analyzeType(arg.Children()[1])
				if err != nil {
					return err
				}
				fields.Put(fieldName, ft)
			}
		}
	}

	// Pass 3: globals.
	if globalDefs != nil {
		for _, stmt := range globalDefs.Children() {
			if err := a.analyzeStatement(stmt); err != nil {
				return err
			}
		}
	}

	// Pass 4: register every function signature up front (mutual recursion).
	if funDefs != nil {
		for _, fd := range funDefs.Children() {
			name := fd.Children()[0].(*IdNode).Name
			params := fd.Children()[1]
			retNode := fd.Children()[2]

			var sig []SymbolType
			for _, p := range params.Children() {
				pt, err := a.analyzeType(p.Children()[1])
				if err != nil {
					return err
				}
				sig = append(sig, pt)
			}
			retType, err := a.analyzeType(retNode)
			if err != nil {
				return err
			}
			if err := a.st.AddFunction(name, FunctionObject{Params: sig, ReturnType: retType.BasicType}, fd.Tok().Pos); err != nil {
				return err
			}
		}
	}

	// Pass 5: function bodies.
	if funDefs != nil {
		for _, fd := range funDefs.Children() {
			if err := a.analyzeFunctionBody(fd); err != nil {
				return err
			}
		}
	}

	return nil
}

func (a *Analyzer) analyzeFunctionBody(fd Node) error {
	params := fd.Children()[1]
	retNode := fd.Children()[2]
	body := fd.Children()[3]

	retType, err := a.analyzeType(retNode)
	if err != nil {
		return err
	}

	a.st.PushScope()
	depth := a.st.Depth()
	prevRet := a.expectedReturnType
	prevInFn := a.inFunction
	a.expectedReturnType = retType.BasicType
	a.inFunction = true

	for _, p := range params.Children() {
		pname := p.Children()[0].(*IdNode).Name
		pt, err := a.analyzeType(p.Children()[1])
		if err != nil {
			a.st.PopScope()
			return err
		}
		if err := a.st.AddSymbol(pname, pt, p.Tok().Pos); err != nil {
			a.st.PopScope()
			return err
		}
	}

	for _, stmt := range body.Children() {
		if err := a.analyzeStatement(stmt); err != nil {
			a.st.PopScope()
			return err
		}
	}

	a.expectedReturnType = prevRet
	a.inFunction = prevInFn
	if a.st.Depth() != depth {
		panic("teachlang: analyzer scope depth imbalance in function body")
	}
	a.st.PopScope()
	return nil
}

// analyzeBlock analyzes a Block's statements in the *current* scope
// (the caller is responsible for pushing/popping around constructs
// that introduce a new scope, e.g. If/While bodies).
func (a *Analyzer) analyzeBlock(block Node) error {
	for _, stmt := range block.Children() {
		if err := a.analyzeStatement(stmt); err != nil {
			return err
		}
	}
	return nil
}

// analyzeScopedBlock pushes a scope, analyzes block's statements, and
// pops — used for the bodies of if/while/repeat, per §3's lifecycle
// rule ("each block-bearing statement pushes a scope").
func (a *Analyzer) analyzeScopedBlock(block Node) error {
	a.st.PushScope()
	depth := a.st.Depth()
	if err := a.analyzeBlock(block); err != nil {
		a.st.PopScope()
		return err
	}
	if a.st.Depth() != depth {
		panic("teachlang: analyzer scope depth imbalance in block")
	}
	a.st.PopScope()
	return nil
}
