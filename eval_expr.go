package teachlang

import "math"

// evalExpr evaluates any value-producing expression node to a
// LiteralValue, per §4.7's resolvable dispatch table.
func (ev *Evaluator) evalExpr(n Node) (LiteralValue, error) {
	switch n.Kind() {
	case KindLit:
		lit := n.(*LitNode)
		if lit.LitKind == LitText {
			return TextLiteral(lit.Text), nil
		}
		return NumberLiteral(lit.Number), nil

	case KindId, KindGetIndex, KindGetStruct:
		p, err := ev.evalReference(n)
		if err != nil {
			return LiteralValue{}, err
		}
		return ev.loadValue(p), nil

	case KindBinOp:
		return ev.evalBinOp(n.(*BinOpNode))

	case KindBinComp:
		return ev.evalBinComp(n.(*BinCompNode))

	case KindIsLinked, KindIsNotLinked:
		id := n.Children()[0].(*IdNode)
		p, err := ev.Env.GetID(id.Name, id.Tok().Pos)
		if err != nil {
			return LiteralValue{}, err
		}
		cell := ev.Env.Memory.Cell(p.Address)
		linked := cell.Kind == CellPointer
		if n.Kind() == KindIsNotLinked {
			linked = !linked
		}
		if linked {
			return NumberLiteral(1), nil
		}
		return NumberLiteral(0), nil

	case KindBitNot:
		v, err := ev.evalExpr(n.Children()[0])
		if err != nil {
			return LiteralValue{}, err
		}
		return NumberLiteral(float64(^toInt32(v.Number))), nil

	case KindNeg:
		v, err := ev.evalExpr(n.Children()[0])
		if err != nil {
			return LiteralValue{}, err
		}
		return NumberLiteral(-v.Number), nil

	case KindAbs:
		v, err := ev.evalExpr(n.Children()[0])
		if err != nil {
			return LiteralValue{}, err
		}
		return NumberLiteral(math.Abs(v.Number)), nil

	case KindCall:
		return ev.evalCall(n)

	case KindArrayLit:
		return ev.evalArrayLit(n)

	case KindStructLit:
		return ev.evalStructLit(n)

	case KindLinkLit:
		refNode := n.Children()[0]
		if refNode == nil {
			return LinkLiteral(nil), nil
		}
		p, err := ev.evalRawReference(refNode)
		if err != nil {
			return LiteralValue{}, err
		}
		target := p
		return LinkLiteral(&target), nil

	default:
		return LiteralValue{}, NewError(ParseError, n.Tok().Pos, "not a valid expression: %s", n.Kind())
	}
}

// toInt32 truncates to a 32-bit integer before a bitwise op, per the
// §9 Open Question decision to preserve the original's 32-bit
// bitwise semantics rather than operate on the full float64 mantissa.
func toInt32(n float64) int32 { return int32(int64(n)) }

func (ev *Evaluator) evalBinOp(n *BinOpNode) (LiteralValue, error) {
	lv, err := ev.evalExpr(n.Left())
	if err != nil {
		return LiteralValue{}, err
	}
	rv, err := ev.evalExpr(n.Right())
	if err != nil {
		return LiteralValue{}, err
	}

	if n.Op == OpAdd && lv.Kind == LitValText && rv.Kind == LitValText {
		return TextLiteral(lv.Text + rv.Text), nil
	}

	switch n.Op {
	case OpAdd:
		return NumberLiteral(lv.Number + rv.Number), nil
	case OpSub:
		return NumberLiteral(lv.Number - rv.Number), nil
	case OpMul:
		return NumberLiteral(lv.Number * rv.Number), nil
	case OpDiv:
		if rv.Number == 0 {
			return LiteralValue{}, NewError(DivisionByZero, n.Tok().Pos, "division by zero")
		}
		return NumberLiteral(lv.Number / rv.Number), nil
	case OpPow:
		return NumberLiteral(math.Pow(lv.Number, rv.Number)), nil
	case OpMod:
		if rv.Number == 0 {
			return LiteralValue{}, NewError(DivisionByZero, n.Tok().Pos, "division by zero")
		}
		return NumberLiteral(math.Mod(lv.Number, rv.Number)), nil
	case OpBitAnd:
		return NumberLiteral(float64(toInt32(lv.Number) & toInt32(rv.Number))), nil
	case OpBitOr:
		return NumberLiteral(float64(toInt32(lv.Number) | toInt32(rv.Number))), nil
	case OpBitXor:
		return NumberLiteral(float64(toInt32(lv.Number) ^ toInt32(rv.Number))), nil
	case OpShl:
		return NumberLiteral(float64(toInt32(lv.Number) << uint(int64(rv.Number)))), nil
	case OpShr:
		return NumberLiteral(float64(toInt32(lv.Number) >> uint(int64(rv.Number)))), nil
	default:
		return LiteralValue{}, NewError(ParseError, n.Tok().Pos, "unknown binary operator")
	}
}

func (ev *Evaluator) evalBinComp(n *BinCompNode) (LiteralValue, error) {
	// and/or short-circuit: the right operand is only evaluated when it
	// can still change the result.
	if n.Op == CmpAnd || n.Op == CmpOr {
		lv, err := ev.evalExpr(n.Left())
		if err != nil {
			return LiteralValue{}, err
		}
		if n.Op == CmpAnd && lv.Number == 0 {
			return NumberLiteral(0), nil
		}
		if n.Op == CmpOr && lv.Number != 0 {
			return NumberLiteral(1), nil
		}
		rv, err := ev.evalExpr(n.Right())
		if err != nil {
			return LiteralValue{}, err
		}
		return boolLiteral(rv.Number != 0), nil
	}

	lv, err := ev.evalExpr(n.Left())
	if err != nil {
		return LiteralValue{}, err
	}
	rv, err := ev.evalExpr(n.Right())
	if err != nil {
		return LiteralValue{}, err
	}

	switch n.Op {
	case CmpEq:
		return boolLiteral(lv.Equal(rv)), nil
	case CmpNeq:
		return boolLiteral(!lv.Equal(rv)), nil
	case CmpLt:
		return boolLiteral(lv.Number < rv.Number), nil
	case CmpLte:
		return boolLiteral(lv.Number <= rv.Number), nil
	case CmpGt:
		return boolLiteral(lv.Number > rv.Number), nil
	case CmpGte:
		return boolLiteral(lv.Number >= rv.Number), nil
	default:
		return LiteralValue{}, NewError(ParseError, n.Tok().Pos, "unknown comparison operator")
	}
}

func boolLiteral(b bool) LiteralValue {
	if b {
		return NumberLiteral(1)
	}
	return NumberLiteral(0)
}

func (ev *Evaluator) evalArrayLit(n Node) (LiteralValue, error) {
	kids := n.Children()
	values := make([]LiteralValue, len(kids))
	for i, k := range kids {
		v, err := ev.evalExpr(k)
		if err != nil {
			return LiteralValue{}, err
		}
		values[i] = v
	}
	bounds := []ArrayBound{{Lo: 1, Hi: len(values)}}
	return ArrayLiteral(bounds, values), nil
}

func (ev *Evaluator) evalStructLit(n Node) (LiteralValue, error) {
	name := n.Tok().Lexeme
	kids := n.Children()
	values := make([]LiteralValue, len(kids))
	for i, k := range kids {
		v, err := ev.evalExpr(k)
		if err != nil {
			return LiteralValue{}, err
		}
		values[i] = v
	}
	return StructLiteral(name, values), nil
}
