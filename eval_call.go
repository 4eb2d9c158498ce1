package teachlang

// evalCall evaluates a Call node: a user-defined function, or one
// routed to the Library when no user definition exists (§6).
func (ev *Evaluator) evalCall(n Node) (LiteralValue, error) {
	name := n.Children()[0].(*IdNode).Name
	argsNode := n.Children()[1]
	argNodes := argsNode.Children()

	fn, isUser := ev.funcs[name]
	if !isUser {
		args := make([]LiteralValue, len(argNodes))
		for i, a := range argNodes {
			v, err := ev.evalExpr(a)
			if err != nil {
				return LiteralValue{}, err
			}
			args[i] = v
		}
		if ev.Lib == nil {
			return LiteralValue{}, NewError(UnknownExternalFunction, n.Tok().Pos, "unknown function '%s'", name)
		}
		v, err := ev.Lib.HandleCall(name, args)
		if err != nil {
			return LiteralValue{}, NewError(UnknownExternalFunction, n.Tok().Pos, "%v", err)
		}
		return v, nil
	}

	paramNodes := fn.Params.Children()
	argVals := make([]LiteralValue, len(argNodes))
	for i, a := range argNodes {
		if i < len(paramNodes) && paramNodes[i].Children()[1].Kind() == KindPointer {
			p, err := ev.evalRawReference(a)
			if err != nil {
				return LiteralValue{}, err
			}
			target := p
			argVals[i] = LinkLiteral(&target)
		} else {
			v, err := ev.evalExpr(a)
			if err != nil {
				return LiteralValue{}, err
			}
			argVals[i] = v
		}
	}

	return ev.callFunction(fn, argVals, n.Tok())
}

// callFunction runs a user function body in an isolated namespace
// (globals plus a fresh frame per parameter/local — no access to the
// caller's locals, matching a teaching language without closures),
// enforcing the recursion-depth guard from §5.
func (ev *Evaluator) callFunction(fn funcDef, argVals []LiteralValue, callTok Token) (LiteralValue, error) {
	ev.callDepth++
	if ev.callDepth > ev.MaxCallDepth {
		ev.callDepth--
		return LiteralValue{}, NewError(RecursionLimitExceeded, callTok.Pos, "maximum call depth (%d) exceeded", ev.MaxCallDepth)
	}
	defer func() { ev.callDepth-- }()

	savedNamespace := ev.Env.namespace
	ev.Env.namespace = []Frame{savedNamespace[0]}
	ev.Env.ScopeIn()

	paramNodes := fn.Params.Children()
	for i, p := range paramNodes {
		pname := p.Children()[0].(*IdNode).Name
		pt, err := ev.resolveType(p.Children()[1])
		if err != nil {
			ev.Env.namespace = savedNamespace
			return LiteralValue{}, err
		}
		ptr := ev.Env.Alloc(pt)
		ev.storeValue(ptr, argVals[i])
		if err := ev.Env.InsertID(pname, ptr, p.Tok().Pos); err != nil {
			ev.Env.namespace = savedNamespace
			return LiteralValue{}, err
		}
	}

	prevStatus, prevReturn := ev.loopStatus, ev.returnValue
	ev.loopStatus = StatusDefault

	err := ev.execStatements(fn.Body.Children())

	result := ev.returnValue
	if ev.loopStatus != StatusReturn {
		result = NullLiteral()
	}
	ev.loopStatus, ev.returnValue = prevStatus, prevReturn

	ev.Env.ScopeOut()
	ev.Env.namespace = savedNamespace

	if err != nil {
		return LiteralValue{}, err
	}
	return result, nil
}
