package teachlang

// analyzeStatement dispatches on a statement's parse kind, the static
// half of the table in §4.7.
func (a *Analyzer) analyzeStatement(n Node) error {
	switch n.Kind() {
	case KindVarDef:
		return a.analyzeVarDef(n)
	case KindVarDefs:
		for _, vd := range n.Children() {
			if err := a.analyzeVarDef(vd); err != nil {
				return err
			}
		}
		return nil
	case KindAssign:
		return a.analyzeAssign(n)
	case KindIf:
		return a.analyzeIf(n)
	case KindWhile:
		cond := n.Children()[0]
		body := n.Children()[1]
		if err := a.analyzeConditional(cond); err != nil {
			return err
		}
		return a.analyzeScopedBlock(body)
	case KindRepeat:
		count := n.Children()[0]
		body := n.Children()[1]
		ct, err := a.analyzeResolvable(count)
		if err != nil {
			return err
		}
		if !ct.IsScalar() || (ct.BasicType != "number" && ct.BasicType != WildcardType) {
			return NewError(NonNumericBound, count.Tok().Pos, "repeat count must be a number")
		}
		return a.analyzeScopedBlock(body)
	case KindRepeatFor:
		id := n.Children()[0].(*IdNode)
		arrExpr := n.Children()[1]
		body := n.Children()[2]
		arrType, err := a.analyzeResolvable(arrExpr)
		if err != nil {
			return err
		}
		if !arrType.IsArray() {
			return NewError(TypeMismatch, arrExpr.Tok().Pos, "'for all ... in' requires an array")
		}
		a.st.PushScope()
		depth := a.st.Depth()
		elemType := arrType.WithRank(0)
		if err := a.st.AddSymbol(id.Name, elemType, id.Tok().Pos); err != nil {
			a.st.PopScope()
			return err
		}
		if err := a.analyzeBlock(body); err != nil {
			a.st.PopScope()
			return err
		}
		if a.st.Depth() != depth {
			panic("teachlang: analyzer scope depth imbalance in repeat-for")
		}
		a.st.PopScope()
		return nil
	case KindRepeatForever:
		return a.analyzeScopedBlock(n.Children()[0])
	case KindUnlink:
		id := n.Children()[0].(*IdNode)
		t, err := a.st.FindSymbol(id.Name, id.Tok().Pos)
		if err != nil {
			return err
		}
		if !t.IsPointer {
			return NewError(UnlinkNotLinked, id.Tok().Pos, "'%s' is not a link", id.Name)
		}
		return nil
	case KindQuit, KindBreak, KindContinue:
		return nil
	case KindReturn:
		return a.analyzeReturn(n)
	default:
		// A bare expression statement (e.g. a function call for effect).
		_, err := a.analyzeResolvable(n)
		return err
	}
}

func (a *Analyzer) analyzeVarDef(n Node) error {
	idsNode := n.Children()[0]
	typeNode := n.Children()[1]
	initNode := n.Children()[2]

	t, err := a.analyzeType(typeNode)
	if err != nil {
		return err
	}

	if initNode != nil {
		initType, err := a.analyzeResolvable(initNode)
		if err != nil {
			return err
		}
		if !t.Equal(initType) {
			return NewError(TypeMismatch, initNode.Tok().Pos, "Type mismatch: cannot initialize %s with %s", t, initType)
		}
	}

	var names []Node
	if idsNode.Kind() == KindIds {
		names = idsNode.Children()
	} else {
		names = []Node{idsNode}
	}
	for _, nameNode := range names {
		id := nameNode.(*IdNode)
		if err := a.st.AddSymbol(id.Name, t, id.Tok().Pos); err != nil {
			return err
		}
	}
	return nil
}

func (a *Analyzer) analyzeAssign(n Node) error {
	lhs := n.Children()[0]
	rhs := n.Children()[1]

	lt, err := a.analyzeReference(lhs)
	if err != nil {
		return err
	}
	rt, err := a.analyzeResolvable(rhs)
	if err != nil {
		return err
	}

	if rhs.Kind() == KindLinkLit {
		// Rebind: lhs must itself be a link, and the new target's type
		// must match the link's declared referent type exactly.
		if !lt.IsPointer {
			return NewError(TypeMismatch, rhs.Tok().Pos, "cannot link a non-link variable")
		}
		if !lt.Equal(rt) {
			return NewError(TypeMismatch, rhs.Tok().Pos, "link target type mismatch: expected %s, got %s", lt, rt)
		}
		return nil
	}

	if lt.IsPointer {
		// Write-through: assigning a plain value into a link variable
		// stores into whatever it currently references, per the §9
		// Open Question decision (write-through is the default; only
		// explicit `link ... to ...` rebinds).
		pointee := lt
		pointee.IsPointer = false
		if !pointee.Equal(rt) {
			return NewError(TypeMismatch, rhs.Tok().Pos, "cannot assign %s through a link to %s", rt, pointee)
		}
		return nil
	}

	if !lt.Equal(rt) {
		return NewError(TypeMismatch, rhs.Tok().Pos, "cannot assign %s to %s", rt, lt)
	}
	return nil
}

func (a *Analyzer) analyzeIf(n Node) error {
	cond := n.Children()[0]
	thenBlock := n.Children()[1]
	elseNode := n.Children()[2]

	if err := a.analyzeConditional(cond); err != nil {
		return err
	}
	if err := a.analyzeScopedBlock(thenBlock); err != nil {
		return err
	}
	if elseNode == nil {
		return nil
	}
	if elseNode.Kind() == KindIf {
		return a.analyzeIf(elseNode)
	}
	return a.analyzeScopedBlock(elseNode)
}

func (a *Analyzer) analyzeReturn(n Node) error {
	if !a.inFunction {
		return NewError(UnexpectedReturn, n.Tok().Pos, "return outside a function body")
	}
	exprNode := n.Children()[0]
	if exprNode == nil {
		if a.expectedReturnType != "nothing" {
			return NewError(TypeMismatch, n.Tok().Pos, "function must return a %s", a.expectedReturnType)
		}
		return nil
	}
	t, err := a.analyzeResolvable(exprNode)
	if err != nil {
		return err
	}
	if t.BasicType != a.expectedReturnType && t.BasicType != WildcardType {
		return NewError(TypeMismatch, exprNode.Tok().Pos, "function returns %s, not %s", a.expectedReturnType, t.BasicType)
	}
	return nil
}

// analyzeConditional checks that n types as a scalar number, the
// language's boolean representation (0 = false, nonzero = true).
func (a *Analyzer) analyzeConditional(n Node) error {
	t, err := a.analyzeResolvable(n)
	if err != nil {
		return err
	}
	if !t.IsScalar() || (t.BasicType != "number" && t.BasicType != WildcardType) {
		return NewError(TypeMismatch, n.Tok().Pos, "condition must be a number")
	}
	return nil
}

// analyzeReference type-checks an lvalue: Id, GetIndex, or GetStruct.
func (a *Analyzer) analyzeReference(n Node) (SymbolType, error) {
	switch n.Kind() {
	case KindId:
		id := n.(*IdNode)
		return a.st.FindSymbol(id.Name, id.Tok().Pos)

	case KindGetIndex:
		base := n.Children()[0]
		idxNode := n.Children()[1]
		bt, err := a.analyzeReference(base)
		if err != nil {
			return SymbolType{}, err
		}
		if !bt.IsArray() {
			return SymbolType{}, NewError(TypeMismatch, base.Tok().Pos, "cannot index a non-array")
		}
		for _, idx := range idxNode.Children() {
			it, err := a.analyzeResolvable(idx)
			if err != nil {
				return SymbolType{}, err
			}
			if it.BasicType != "number" && it.BasicType != WildcardType {
				return SymbolType{}, NewError(NonNumericIndex, idx.Tok().Pos, "array index must be a number")
			}
		}
		if bt.ArrayDimensions == WildcardRank {
			return bt, nil
		}
		rank := bt.ArrayDimensions - len(idxNode.Children())
		if rank < 0 {
			return SymbolType{}, NewError(ArityMismatch, n.Tok().Pos, "too many indexes for a %d-dimensional array", bt.ArrayDimensions)
		}
		return bt.WithRank(rank), nil

	case KindGetStruct:
		base := n.Children()[0]
		field := n.Children()[1].(*IdNode)
		bt, err := a.analyzeReference(base)
		if err != nil {
			return SymbolType{}, err
		}
		return a.st.StructFieldType(bt.BasicType, field.Name, field.Tok().Pos)

	default:
		return SymbolType{}, NewError(ParseError, n.Tok().Pos, "not a valid assignment target")
	}
}

// analyzeResolvable type-checks any value-producing expression.
func (a *Analyzer) analyzeResolvable(n Node) (SymbolType, error) {
	switch n.Kind() {
	case KindLit:
		lit := n.(*LitNode)
		if lit.LitKind == LitText {
			return Scalar("text"), nil
		}
		return Scalar("number"), nil

	case KindId, KindGetIndex, KindGetStruct:
		// Read context always dereferences a link down to its referent's
		// type; only explicit `link ... to ...` (LinkLit, handled below)
		// or a bare assignment/unlink/is-linked target sees the link
		// itself (via analyzeReference).
		t, err := a.analyzeReference(n)
		if err != nil {
			return SymbolType{}, err
		}
		t.IsPointer = false
		return t, nil

	case KindBinOp:
		op := n.(*BinOpNode)
		lt, err := a.analyzeResolvable(op.Left())
		if err != nil {
			return SymbolType{}, err
		}
		rt, err := a.analyzeResolvable(op.Right())
		if err != nil {
			return SymbolType{}, err
		}
		if op.Op == OpAdd && lt.BasicType == "text" && rt.BasicType == "text" {
			return Scalar("text"), nil
		}
		if (lt.BasicType != "number" && lt.BasicType != WildcardType) ||
			(rt.BasicType != "number" && rt.BasicType != WildcardType) {
			return SymbolType{}, NewError(TypeMismatch, n.Tok().Pos, "operands must be numbers")
		}
		return Scalar("number"), nil

	case KindBinComp:
		comp := n.(*BinCompNode)
		lt, err := a.analyzeResolvable(comp.Left())
		if err != nil {
			return SymbolType{}, err
		}
		rt, err := a.analyzeResolvable(comp.Right())
		if err != nil {
			return SymbolType{}, err
		}
		switch comp.Op {
		case CmpEq, CmpNeq:
			if !lt.Equal(rt) {
				return SymbolType{}, NewError(TypeMismatch, n.Tok().Pos, "cannot compare %s with %s", lt, rt)
			}
		default:
			if (lt.BasicType != "number" && lt.BasicType != WildcardType) ||
				(rt.BasicType != "number" && rt.BasicType != WildcardType) {
				return SymbolType{}, NewError(TypeMismatch, n.Tok().Pos, "operands must be numbers")
			}
		}
		return Scalar("number"), nil

	case KindIsLinked, KindIsNotLinked:
		id := n.Children()[0].(*IdNode)
		t, err := a.st.FindSymbol(id.Name, id.Tok().Pos)
		if err != nil {
			return SymbolType{}, err
		}
		if !t.IsPointer {
			return SymbolType{}, NewError(TypeMismatch, id.Tok().Pos, "'%s' is not a link", id.Name)
		}
		return Scalar("number"), nil

	case KindBitNot:
		t, err := a.analyzeResolvable(n.Children()[0])
		if err != nil {
			return SymbolType{}, err
		}
		if t.BasicType != "number" && t.BasicType != WildcardType {
			return SymbolType{}, NewError(TypeMismatch, n.Tok().Pos, "bnot requires a number")
		}
		return Scalar("number"), nil

	case KindNeg, KindAbs:
		t, err := a.analyzeResolvable(n.Children()[0])
		if err != nil {
			return SymbolType{}, err
		}
		if t.BasicType != "number" && t.BasicType != WildcardType {
			return SymbolType{}, NewError(TypeMismatch, n.Tok().Pos, "operand must be a number")
		}
		return Scalar("number"), nil

	case KindCall:
		return a.analyzeCall(n)

	case KindArrayLit:
		return a.analyzeArrayLit(n)

	case KindStructLit:
		return a.analyzeStructLit(n)

	case KindLinkLit:
		refNode := n.Children()[0]
		if refNode == nil {
			return SymbolType{BasicType: WildcardType, IsPointer: true, ArrayDimensions: WildcardRank}, nil
		}
		rt, err := a.analyzeReference(refNode)
		if err != nil {
			return SymbolType{}, err
		}
		return LinkTo(rt), nil

	default:
		return SymbolType{}, NewError(ParseError, n.Tok().Pos, "not a valid expression: %s", n.Kind())
	}
}

func (a *Analyzer) analyzeCall(n Node) (SymbolType, error) {
	name := n.Children()[0].(*IdNode).Name
	argsNode := n.Children()[1]

	fn, ok := a.st.FindFunction(name)
	if !ok {
		return SymbolType{}, NewError(UnknownSymbol, n.Tok().Pos, "Unknown function '%s'", name)
	}
	args := argsNode.Children()
	if fn.Variadic {
		if len(args) < len(fn.Params)-1 {
			return SymbolType{}, NewError(ArityMismatch, n.Tok().Pos, "%s expects at least %d argument(s), got %d", name, len(fn.Params)-1, len(args))
		}
	} else if len(args) != len(fn.Params) {
		return SymbolType{}, NewError(ArityMismatch, n.Tok().Pos, "%s expects %d argument(s), got %d", name, len(fn.Params), len(args))
	}
	for i, arg := range args {
		paramIdx := i
		if paramIdx >= len(fn.Params) {
			paramIdx = len(fn.Params) - 1
		}
		paramType := fn.Params[paramIdx]
		if paramType.IsPointer {
			// A changeable parameter binds to the caller's variable
			// itself (§5 pass-by-reference), not to its value: the
			// argument must be a plain reference, and the cell it
			// names must match the parameter's pointee type.
			at, err := a.analyzeReference(arg)
			if err != nil {
				return SymbolType{}, err
			}
			pointee := paramType
			pointee.IsPointer = false
			if !pointee.Equal(at) {
				return SymbolType{}, NewError(TypeMismatch, arg.Tok().Pos, "argument %d to %s: expected %s, got %s", i+1, name, pointee, at)
			}
			continue
		}
		at, err := a.analyzeResolvable(arg)
		if err != nil {
			return SymbolType{}, err
		}
		if !paramType.Equal(at) {
			return SymbolType{}, NewError(TypeMismatch, arg.Tok().Pos, "argument %d to %s: expected %s, got %s", i+1, name, paramType, at)
		}
	}
	return Scalar(fn.ReturnType), nil
}

func (a *Analyzer) analyzeArrayLit(n Node) (SymbolType, error) {
	elems := n.Children()
	if len(elems) == 0 {
		return SymbolType{BasicType: WildcardType, ArrayDimensions: 1}, nil
	}
	first, err := a.analyzeResolvable(elems[0])
	if err != nil {
		return SymbolType{}, err
	}
	for _, e := range elems[1:] {
		t, err := a.analyzeResolvable(e)
		if err != nil {
			return SymbolType{}, err
		}
		if !first.Equal(t) {
			return SymbolType{}, NewError(TypeMismatch, e.Tok().Pos, "array elements must share a type")
		}
	}
	return ArrayOf(first.BasicType, first.ArrayDimensions+1), nil
}

func (a *Analyzer) analyzeStructLit(n Node) (SymbolType, error) {
	name := n.Tok().Lexeme
	fields := a.st.StructFields(name)
	if fields == nil {
		return SymbolType{}, NewError(UnknownType, n.Tok().Pos, "Unknown structure: %s", name)
	}
	values := n.Children()
	if len(values) != fields.Size() {
		return SymbolType{}, NewError(ArityMismatch, n.Tok().Pos, "structure %s expects %d field(s), got %d", name, fields.Size(), len(values))
	}
	keys := fields.Keys()
	for i, v := range values {
		ft, _ := fields.Get(keys[i])
		vt, err := a.analyzeResolvable(v)
		if err != nil {
			return SymbolType{}, err
		}
		if !ft.(SymbolType).Equal(vt) {
			return SymbolType{}, NewError(TypeMismatch, v.Tok().Pos, "field %v of %s: expected %s, got %s", keys[i], name, ft, vt)
		}
	}
	return Scalar(name), nil
}
