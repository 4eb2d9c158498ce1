package teachlang

// execBlock runs a Block's statements inside a freshly pushed scope,
// tearing the scope down (and deallocating anything it owns) when the
// block exits for any reason — including break/continue/return/quit.
func (ev *Evaluator) execBlock(block Node) error {
	ev.Env.ScopeIn()
	err := ev.execStatements(block.Children())
	ev.Env.ScopeOut()
	return err
}

// execStatements runs stmts in the current scope, stopping as soon as
// the loop-status register goes non-default (break/continue/return)
// or a statement errors.
func (ev *Evaluator) execStatements(stmts []Node) error {
	for _, s := range stmts {
		if err := ev.execStatement(s); err != nil {
			return err
		}
		if ev.loopStatus != StatusDefault {
			return nil
		}
	}
	return nil
}

func (ev *Evaluator) execStatement(n Node) error {
	switch n.Kind() {
	case KindVarDef:
		return ev.execVarDef(n)
	case KindVarDefs:
		for _, vd := range n.Children() {
			if err := ev.execVarDef(vd); err != nil {
				return err
			}
		}
		return nil
	case KindAssign:
		return ev.execAssign(n)
	case KindIf:
		return ev.execIf(n)
	case KindWhile:
		return ev.execWhile(n)
	case KindRepeat:
		return ev.execRepeat(n)
	case KindRepeatFor:
		return ev.execRepeatFor(n)
	case KindRepeatForever:
		return ev.execRepeatForever(n)
	case KindUnlink:
		return ev.execUnlink(n)
	case KindQuit:
		return quitSignal{}
	case KindBreak:
		ev.loopStatus = StatusBreak
		return nil
	case KindContinue:
		ev.loopStatus = StatusContinue
		return nil
	case KindReturn:
		return ev.execReturn(n)
	default:
		_, err := ev.evalExpr(n)
		return err
	}
}

func (ev *Evaluator) execVarDef(n Node) error {
	idsNode := n.Children()[0]
	typeNode := n.Children()[1]
	initNode := n.Children()[2]

	pt, err := ev.resolveType(typeNode)
	if err != nil {
		return err
	}

	var names []Node
	if idsNode.Kind() == KindIds {
		names = idsNode.Children()
	} else {
		names = []Node{idsNode}
	}

	var initVal *LiteralValue
	if initNode != nil {
		v, err := ev.evalExpr(initNode)
		if err != nil {
			return err
		}
		initVal = &v
	}

	for _, nameNode := range names {
		id := nameNode.(*IdNode)
		allocType := pt
		if initVal != nil && typeNode.Kind() == KindArrayDef && typeNode.Children()[0] == nil {
			// An `array of` declared without bounds takes them from its
			// initializer.
			allocType = concreteCompositeType(pt, *initVal)
		}
		p := ev.Env.Alloc(allocType)
		if initVal != nil {
			ev.storeValue(p, *initVal)
		}
		if err := ev.Env.InsertID(id.Name, p, id.Tok().Pos); err != nil {
			return err
		}
	}
	return nil
}

func (ev *Evaluator) execAssign(n Node) error {
	lhs := n.Children()[0]
	rhs := n.Children()[1]

	target, err := ev.evalRawReference(lhs)
	if err != nil {
		return err
	}

	if rhs.Kind() == KindLinkLit {
		v, err := ev.evalExpr(rhs)
		if err != nil {
			return err
		}
		old := ev.Env.Memory.Cell(target.Address)
		if old.Kind == CellPointer {
			ev.Env.Memory.DecrementLink(old.Ptr.Address)
		}
		ev.storeValue(target, v)
		return nil
	}

	if target.Type.Kind == PtrLink {
		// write-through: resolve the link, then store into its referent.
		target = ev.followLinks(target)
	}
	v, err := ev.evalExpr(rhs)
	if err != nil {
		return err
	}
	ev.storeValue(target, v)
	return nil
}

func (ev *Evaluator) execIf(n Node) error {
	cond := n.Children()[0]
	thenBlock := n.Children()[1]
	elseNode := n.Children()[2]

	cv, err := ev.evalExpr(cond)
	if err != nil {
		return err
	}
	if cv.Number != 0 {
		return ev.execBlock(thenBlock)
	}
	if elseNode == nil {
		return nil
	}
	if elseNode.Kind() == KindIf {
		return ev.execIf(elseNode)
	}
	return ev.execBlock(elseNode)
}

func (ev *Evaluator) execWhile(n Node) error {
	cond := n.Children()[0]
	body := n.Children()[1]
	for {
		cv, err := ev.evalExpr(cond)
		if err != nil {
			return err
		}
		if cv.Number == 0 {
			return nil
		}
		if err := ev.execBlock(body); err != nil {
			return err
		}
		if ev.loopStatus == StatusBreak {
			ev.loopStatus = StatusDefault
			return nil
		}
		if ev.loopStatus == StatusContinue {
			ev.loopStatus = StatusDefault
			continue
		}
		if ev.loopStatus == StatusReturn {
			return nil
		}
	}
}

func (ev *Evaluator) execRepeat(n Node) error {
	countNode := n.Children()[0]
	body := n.Children()[1]

	cv, err := ev.evalExpr(countNode)
	if err != nil {
		return err
	}
	count := int(cv.Number)
	for i := 0; i < count; i++ {
		if err := ev.execBlock(body); err != nil {
			return err
		}
		if ev.loopStatus == StatusBreak {
			ev.loopStatus = StatusDefault
			return nil
		}
		if ev.loopStatus == StatusContinue {
			ev.loopStatus = StatusDefault
			continue
		}
		if ev.loopStatus == StatusReturn {
			return nil
		}
	}
	return nil
}

func (ev *Evaluator) execRepeatFor(n Node) error {
	idNode := n.Children()[0].(*IdNode)
	arrNode := n.Children()[1]
	body := n.Children()[2]

	arrPtr, err := ev.evalReference(arrNode)
	if err != nil {
		return err
	}
	if arrPtr.Type.Kind != PtrArray {
		return NewError(TypeMismatch, arrNode.Tok().Pos, "'for all ... in' requires an array")
	}
	elemSize := SizeOf(*arrPtr.Type.Elem, ev.symtab)
	count := ArrayExtent(arrPtr.Type.Bounds)

	for i := 0; i < count; i++ {
		ev.Env.ScopeIn()
		// §4.7: the loop variable binds to a copy of the element, not
		// the array's own cell — aliasing it would let ScopeOut's
		// reachability check (environment.go) free the live array cell
		// out from under the array.
		srcPtr := Pointer{Address: arrPtr.Address + i*elemSize, Size: elemSize, Type: *arrPtr.Type.Elem}
		elemVal := ev.loadValue(srcPtr)
		elemPtr := ev.Env.Alloc(*arrPtr.Type.Elem)
		ev.storeValue(elemPtr, elemVal)
		if err := ev.Env.InsertID(idNode.Name, elemPtr, idNode.Tok().Pos); err != nil {
			ev.Env.ScopeOut()
			return err
		}
		err := ev.execStatements(body.Children())
		ev.Env.ScopeOut()
		if err != nil {
			return err
		}
		if ev.loopStatus == StatusBreak {
			ev.loopStatus = StatusDefault
			return nil
		}
		if ev.loopStatus == StatusContinue {
			ev.loopStatus = StatusDefault
			continue
		}
		if ev.loopStatus == StatusReturn {
			return nil
		}
	}
	return nil
}

func (ev *Evaluator) execRepeatForever(n Node) error {
	body := n.Children()[0]
	for {
		if err := ev.execBlock(body); err != nil {
			return err
		}
		if ev.loopStatus == StatusBreak {
			ev.loopStatus = StatusDefault
			return nil
		}
		if ev.loopStatus == StatusContinue {
			ev.loopStatus = StatusDefault
			continue
		}
		if ev.loopStatus == StatusReturn {
			return nil
		}
	}
}

func (ev *Evaluator) execUnlink(n Node) error {
	id := n.Children()[0].(*IdNode)
	p, err := ev.Env.GetID(id.Name, id.Tok().Pos)
	if err != nil {
		return err
	}
	cell := ev.Env.Memory.Cell(p.Address)
	if cell.Kind != CellPointer {
		return NewError(UnlinkNotLinked, id.Tok().Pos, "'%s' is not linked", id.Name)
	}
	ev.Env.Memory.DecrementLink(cell.Ptr.Address)
	ev.Env.Memory.SetCell(p.Address, Cell{Kind: CellInitialized})
	ev.Env.Memory.BuildHeap()
	return nil
}

func (ev *Evaluator) execReturn(n Node) error {
	exprNode := n.Children()[0]
	if exprNode == nil {
		ev.returnValue = NullLiteral()
	} else {
		v, err := ev.evalExpr(exprNode)
		if err != nil {
			return err
		}
		ev.returnValue = v
	}
	ev.loopStatus = StatusReturn
	return nil
}
