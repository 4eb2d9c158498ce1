package teachlang

// analyzeType converts a Type/Pointer/ArrayDef parse node into the
// SymbolType it denotes, validating that any named basic type exists.
func (a *Analyzer) analyzeType(n Node) (SymbolType, error) {
	if n == nil {
		return Scalar("nothing"), nil
	}
	switch n.Kind() {
	case KindType:
		name := n.(*TypeNode).Name
		if !a.st.HasType(name) {
			return SymbolType{}, NewError(UnknownType, n.Tok().Pos, "Unknown type: %s", name)
		}
		return Scalar(name), nil

	case KindPointer:
		inner, err := a.analyzeType(n.Children()[0])
		if err != nil {
			return SymbolType{}, err
		}
		return LinkTo(inner), nil

	case KindArrayDef:
		boundsNode := n.Children()[0]
		elemNode := n.Children()[1]
		elem, err := a.analyzeType(elemNode)
		if err != nil {
			return SymbolType{}, err
		}
		dims := 1
		if boundsNode != nil {
			for _, b := range boundsNode.Children() {
				for _, e := range b.Children() {
					if e == nil {
						continue
					}
					bt, err := a.analyzeResolvable(e)
					if err != nil {
						return SymbolType{}, err
					}
					if !bt.IsScalar() || (bt.BasicType != "number" && bt.BasicType != WildcardType) {
						return SymbolType{}, NewError(NonNumericBound, e.Tok().Pos, "array bound must be a number")
					}
				}
			}
			dims = len(boundsNode.Children())
			if dims == 0 {
				dims = 1
			}
		}
		return ArrayOf(elem.BasicType, dims), nil

	default:
		return SymbolType{}, NewError(ParseError, n.Tok().Pos, "expected a type, got %s", n.Kind())
	}
}
