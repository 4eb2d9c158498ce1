package teachlang

// loadValue reconstructs a LiteralValue by reading the cells a
// Pointer addresses, recursing into arrays/structures field by field
// and dereferencing nothing automatically for links (a link's value
// *is* the Pointer it holds, per §3).
func (ev *Evaluator) loadValue(p Pointer) LiteralValue {
	switch p.Type.Kind {
	case PtrArray:
		elemSize := SizeOf(*p.Type.Elem, ev.symtab)
		count := ArrayExtent(p.Type.Bounds)
		vals := make([]LiteralValue, count)
		for i := 0; i < count; i++ {
			sub := Pointer{Address: p.Address + i*elemSize, Size: elemSize, Type: *p.Type.Elem}
			vals[i] = ev.loadValue(sub)
		}
		return ArrayLiteral(p.Type.Bounds, vals)

	case PtrStructure:
		fields := ev.symtab.StructFields(p.Type.Basic)
		var vals []LiteralValue
		offset := p.Address
		if fields != nil {
			for _, v := range fields.Values() {
				ft := symbolTypeToPointerType(v.(SymbolType), ev.symtab)
				slot := structFieldSlotType(ft)
				sub := Pointer{Address: offset, Size: 1, Type: slot}
				vals = append(vals, ev.loadValue(sub))
				offset++
			}
		}
		return StructLiteral(p.Type.Basic, vals)

	case PtrLink:
		cell := ev.Env.Memory.Cell(p.Address)
		if cell.Kind == CellPointer {
			target := cell.Ptr
			return LinkLiteral(&target)
		}
		return LinkLiteral(nil)

	case PtrIndirect:
		cell := ev.Env.Memory.Cell(p.Address)
		if cell.Kind == CellPointer {
			return ev.loadValue(cell.Ptr)
		}
		// Never written: a composite field allocates on first
		// assignment (§4.5), so reading it beforehand yields the same
		// "nothing here yet" value as any other uninitialized cell.
		return NullLiteral()

	default: // PtrPrimitive
		cell := ev.Env.Memory.Cell(p.Address)
		switch cell.Kind {
		case CellNumber:
			return NumberLiteral(cell.Number)
		case CellText:
			return TextLiteral(cell.Text)
		default:
			return NullLiteral()
		}
	}
}

// storeValue writes v into the cells p addresses, deep-copying arrays
// and structures element by element (§4.4/§4.5: assigning a composite
// copies its contents, it never aliases). Storing into a link cell
// increments the new target's refcount; callers that overwrite an
// already-linked cell are responsible for decrementing the old target
// first (see execAssign in eval_stmt.go).
func (ev *Evaluator) storeValue(p Pointer, v LiteralValue) {
	switch p.Type.Kind {
	case PtrArray:
		elemSize := SizeOf(*p.Type.Elem, ev.symtab)
		for i, elem := range v.Values {
			sub := Pointer{Address: p.Address + i*elemSize, Size: elemSize, Type: *p.Type.Elem}
			ev.storeValue(sub, elem)
		}

	case PtrStructure:
		fields := ev.symtab.StructFields(p.Type.Basic)
		if fields == nil {
			return
		}
		offset := p.Address
		for i, k := range fields.Values() {
			ft := symbolTypeToPointerType(k.(SymbolType), ev.symtab)
			slot := structFieldSlotType(ft)
			sub := Pointer{Address: offset, Size: 1, Type: slot}
			if i < len(v.Values) {
				ev.storeValue(sub, v.Values[i])
			}
			offset++
		}

	case PtrLink:
		if v.Link != nil {
			ev.Env.Memory.SetCell(p.Address, Cell{Kind: CellPointer, Ptr: *v.Link})
			ev.Env.Memory.IncrementLink(v.Link.Address)
		} else {
			ev.Env.Memory.SetCell(p.Address, Cell{Kind: CellInitialized})
		}

	case PtrIndirect:
		if v.Kind == LitValNothing {
			ev.Env.Memory.SetCell(p.Address, Cell{Kind: CellInitialized})
			return
		}
		cell := ev.Env.Memory.Cell(p.Address)
		var target Pointer
		if cell.Kind == CellPointer {
			target = cell.Ptr
		} else {
			target = ev.Env.Alloc(concreteCompositeType(*p.Type.Inner, v))
			ev.Env.Memory.SetCell(p.Address, Cell{Kind: CellPointer, Ptr: target})
		}
		ev.storeValue(target, v)

	default: // PtrPrimitive
		switch v.Kind {
		case LitValNumber:
			ev.Env.Memory.SetCell(p.Address, Cell{Kind: CellNumber, Number: v.Number})
		case LitValText:
			ev.Env.Memory.SetCell(p.Address, Cell{Kind: CellText, Text: v.Text})
		default:
			ev.Env.Memory.SetCell(p.Address, Cell{Kind: CellInitialized})
		}
	}
}

// concreteCompositeType resolves the real allocation shape for a
// structure field's first write. A field's static type only carries
// an element type and rank, never concrete bounds (symboltype.go) —
// the bounds come from whatever array literal is actually being
// stored, mirroring how a top-level `array of` declaration without
// bounds takes its bounds from its initializer (execVarDef).
func concreteCompositeType(declared PointerType, v LiteralValue) PointerType {
	if declared.Kind == PtrArray && v.Kind == LitValArray && len(v.Bounds) > 0 {
		return ArrayType(v.Bounds, *declared.Elem)
	}
	return declared
}
