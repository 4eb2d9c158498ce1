package teachlang

import "fmt"

// WildcardType is the joker basic_type value that matches any named
// type when comparing SymbolTypes — used by external function
// signatures (§6) that accept any argument shape.
const WildcardType = "*"

// WildcardRank is the joker array_dimensions value meaning "any rank,
// including scalar".
const WildcardRank = -1

// SymbolType is the static type of a value: a named basic type, a
// pointer/link flag, and an array rank (0 = scalar, >0 = rank,
// WildcardRank = unconstrained).
type SymbolType struct {
	BasicType       string
	IsPointer       bool
	ArrayDimensions int
}

func Scalar(basicType string) SymbolType {
	return SymbolType{BasicType: basicType}
}

func ArrayOf(basicType string, dims int) SymbolType {
	return SymbolType{BasicType: basicType, ArrayDimensions: dims}
}

func LinkTo(inner SymbolType) SymbolType {
	inner.IsPointer = true
	return inner
}

// Equal implements the structural comparison with wildcard joker
// positions described in §3: a basic_type of "*" matches any basic
// type, and an array_dimensions of WildcardRank matches any rank.
// IsPointer is never a joker — a link and a non-link never compare
// equal.
func (t SymbolType) Equal(other SymbolType) bool {
	if t.IsPointer != other.IsPointer {
		return false
	}
	basicOK := t.BasicType == other.BasicType || t.BasicType == WildcardType || other.BasicType == WildcardType
	rankOK := t.ArrayDimensions == other.ArrayDimensions || t.ArrayDimensions == WildcardRank || other.ArrayDimensions == WildcardRank
	return basicOK && rankOK
}

func (t SymbolType) IsScalar() bool { return t.ArrayDimensions == 0 }
func (t SymbolType) IsArray() bool  { return t.ArrayDimensions > 0 || t.ArrayDimensions == WildcardRank }

// WithRank returns a copy of t with its array rank replaced.
func (t SymbolType) WithRank(rank int) SymbolType {
	t.ArrayDimensions = rank
	return t
}

func (t SymbolType) String() string {
	s := t.BasicType
	if t.ArrayDimensions == WildcardRank {
		s = fmt.Sprintf("array of %s", s)
	} else if t.ArrayDimensions > 0 {
		s = fmt.Sprintf("array[%d] of %s", t.ArrayDimensions, s)
	}
	if t.IsPointer {
		s = "link to " + s
	}
	return s
}

// FunctionObject is a callable signature: either a user function
// declared in `definitions`, or an external builtin seeded by the
// library handler (§6).
type FunctionObject struct {
	Params     []SymbolType
	ReturnType string
	// Variadic marks a signature whose final parameter type repeats
	// for any number of trailing arguments (>= 0 of them), the way
	// print/display accept any number of values to concatenate (§6).
	Variadic bool
}
