package teachlang

// evalRawReference resolves an lvalue expression (Id, GetIndex, or
// GetStruct) to the Pointer that directly backs it, without following
// a final link. Navigating *through* an intermediate link (e.g. a
// GetStruct/GetIndex base that is itself linked) still happens
// automatically — only the outermost cell is left unresolved, so
// callers that need to know "is this slot itself a link" (assignment,
// unlink, is-linked) see the real answer.
func (ev *Evaluator) evalRawReference(n Node) (Pointer, error) {
	switch n.Kind() {
	case KindId:
		id := n.(*IdNode)
		return ev.Env.GetID(id.Name, id.Tok().Pos)

	case KindGetIndex:
		base := n.Children()[0]
		idxNode := n.Children()[1]

		raw, err := ev.evalRawReference(base)
		if err != nil {
			return Pointer{}, err
		}
		bp := ev.followLinks(raw)
		if bp.Type.Kind != PtrArray {
			return Pointer{}, NewError(TypeMismatch, base.Tok().Pos, "cannot index a non-array")
		}
		strides := ArrayStrides(bp.Type.Bounds)
		elemSize := SizeOf(*bp.Type.Elem, ev.symtab)
		idxExprs := idxNode.Children()
		if len(idxExprs) > len(bp.Type.Bounds) {
			return Pointer{}, NewError(ArityMismatch, n.Tok().Pos, "expected at most %d index(es), got %d", len(bp.Type.Bounds), len(idxExprs))
		}
		offset := 0
		for dim, idxExpr := range idxExprs {
			iv, err := ev.evalExpr(idxExpr)
			if err != nil {
				return Pointer{}, err
			}
			if iv.Kind != LitValNumber {
				return Pointer{}, NewError(NonNumericIndex, idxExpr.Tok().Pos, "array index must be a number")
			}
			idx := int(iv.Number)
			bound := bp.Type.Bounds[dim]
			lo, hi := bound.Lo, bound.Hi
			if lo > hi {
				lo, hi = hi, lo
			}
			if idx < lo || idx > hi {
				return Pointer{}, NewError(IndexOutOfBounds, idxExpr.Tok().Pos, "index %d out of bounds [%d..%d]", idx, bound.Lo, bound.Hi)
			}
			d := idx - bound.Lo
			if d < 0 {
				d = -d
			}
			offset += d * strides[dim]
		}
		if rest := bp.Type.Bounds[len(idxExprs):]; len(rest) > 0 {
			// Fewer indices than dimensions: the remaining dimensions form
			// a sub-array starting at the computed offset.
			return Pointer{Address: bp.Address + offset*elemSize, Size: ArrayExtent(rest) * elemSize, Type: ArrayType(rest, *bp.Type.Elem)}, nil
		}
		return Pointer{Address: bp.Address + offset*elemSize, Size: elemSize, Type: *bp.Type.Elem}, nil

	case KindGetStruct:
		base := n.Children()[0]
		field := n.Children()[1].(*IdNode)

		raw, err := ev.evalRawReference(base)
		if err != nil {
			return Pointer{}, err
		}
		bp := ev.followLinks(raw)
		if bp.Type.Kind != PtrStructure {
			return Pointer{}, NewError(TypeMismatch, base.Tok().Pos, "cannot access a field of a non-structure")
		}
		fields := ev.symtab.StructFields(bp.Type.Basic)
		if fields == nil {
			return Pointer{}, NewError(UnknownType, base.Tok().Pos, "unknown structure: %s", bp.Type.Basic)
		}
		ord, ok := ev.symtab.StructFieldOrdinal(bp.Type.Basic, field.Name)
		if !ok {
			return Pointer{}, NewError(UnknownStructureKey, field.Tok().Pos, "structure '%s' has no field '%s'", bp.Type.Basic, field.Name)
		}
		offset := 0
		for i, v := range fields.Values() {
			ft := symbolTypeToPointerType(v.(SymbolType), ev.symtab)
			slot := structFieldSlotType(ft)
			if i == ord {
				return Pointer{Address: bp.Address + offset, Size: 1, Type: slot}, nil
			}
			offset++
		}
		return Pointer{}, NewError(UnknownStructureKey, field.Tok().Pos, "structure '%s' has no field '%s'", bp.Type.Basic, field.Name)

	default:
		return Pointer{}, NewError(ParseError, n.Tok().Pos, "not a valid reference")
	}
}

// evalReference resolves n the way a read expression does: fully
// dereferenced through any trailing link, per the write-through
// default documented in DESIGN.md.
func (ev *Evaluator) evalReference(n Node) (Pointer, error) {
	p, err := ev.evalRawReference(n)
	if err != nil {
		return Pointer{}, err
	}
	return ev.followLinks(p), nil
}

// followLinks dereferences a link or structure-field indirection cell
// down to the concrete cell it ultimately addresses, so that e.g.
// indexing into `p.arr[i]` sees the real array shape rather than the
// one-cell slot boxing it (§4.5/§4.7). An unset link or a
// not-yet-written composite field (no CellPointer stored) dereferences
// to itself; callers that read through it will see a Nothing/zero-
// valued cell, matching an uninitialized read rather than crashing.
func (ev *Evaluator) followLinks(p Pointer) Pointer {
	for p.Type.Kind == PtrLink || p.Type.Kind == PtrIndirect {
		cell := ev.Env.Memory.Cell(p.Address)
		if cell.Kind != CellPointer {
			return p
		}
		p = cell.Ptr
	}
	return p
}
