package teachlang

import (
	"fmt"
	"strconv"
	"strings"
)

// LitValueKind tags a LiteralValue's shape.
type LitValueKind int

const (
	LitValNumber LitValueKind = iota
	LitValText
	LitValNothing
	LitValArray
	LitValStruct
	LitValLink
)

// ArrayBound is one dimension's inclusive (lo,hi) range. lo may be
// greater than hi (a descending dimension, §4.4).
type ArrayBound struct{ Lo, Hi int }

func (b ArrayBound) Extent() int {
	if b.Hi >= b.Lo {
		return b.Hi - b.Lo + 1
	}
	return b.Lo - b.Hi + 1
}

// LiteralValue is the recursive value type that flows between eval
// steps (§3): scalars and links carry a single payload, arrays and
// structures carry an ordered slice of element/field values.
type LiteralValue struct {
	Kind       LitValueKind
	Number     float64
	Text       string
	Values     []LiteralValue // array elements or struct fields, declaration order
	Bounds     []ArrayBound   // for arrays: one entry per dimension, outermost first
	StructName string         // for structs
	Link       *Pointer       // for links: nil means unlinked
}

func NumberLiteral(v float64) LiteralValue { return LiteralValue{Kind: LitValNumber, Number: v} }
func TextLiteral(v string) LiteralValue    { return LiteralValue{Kind: LitValText, Text: v} }
func NullLiteral() LiteralValue            { return LiteralValue{Kind: LitValNothing} }

func ArrayLiteral(bounds []ArrayBound, values []LiteralValue) LiteralValue {
	return LiteralValue{Kind: LitValArray, Bounds: bounds, Values: values}
}

func StructLiteral(name string, values []LiteralValue) LiteralValue {
	return LiteralValue{Kind: LitValStruct, StructName: name, Values: values}
}

func LinkLiteral(p *Pointer) LiteralValue { return LiteralValue{Kind: LitValLink, Link: p} }

// IsLinked reports whether a link-kind literal currently references
// something.
func (l LiteralValue) IsLinked() bool { return l.Kind == LitValLink && l.Link != nil }

// LowerBound/UpperBound implement the lower_bound/upper_bound
// builtins: the outermost dimension's declared endpoints.
func (l LiteralValue) LowerBound() int {
	if len(l.Bounds) == 0 {
		return 0
	}
	return l.Bounds[0].Lo
}

func (l LiteralValue) UpperBound() int {
	if len(l.Bounds) == 0 {
		return 0
	}
	return l.Bounds[0].Hi
}

// DisplayString renders a LiteralValue the way print/display does:
// numbers without a trailing ".0" when integral, text verbatim (no
// quoting), arrays/structs as comma-separated bracketed/braced lists.
func (l LiteralValue) DisplayString() string {
	switch l.Kind {
	case LitValNumber:
		return formatNumber(l.Number)
	case LitValText:
		return l.Text
	case LitValNothing:
		return ""
	case LitValArray:
		parts := make([]string, len(l.Values))
		for i, v := range l.Values {
			parts[i] = v.DisplayString()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case LitValStruct:
		parts := make([]string, len(l.Values))
		for i, v := range l.Values {
			parts[i] = v.DisplayString()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case LitValLink:
		if l.Link == nil {
			return "(unlinked)"
		}
		return fmt.Sprintf("(link -> %d)", l.Link.Address)
	default:
		return ""
	}
}

func formatNumber(n float64) string {
	if n == float64(int64(n)) {
		return strconv.FormatInt(int64(n), 10)
	}
	return strconv.FormatFloat(n, 'g', -1, 64)
}

// Equal implements structural equality for the `=` BinComp operator,
// needed for text comparisons and for comparing whole structures.
func (l LiteralValue) Equal(other LiteralValue) bool {
	if l.Kind != other.Kind {
		return false
	}
	switch l.Kind {
	case LitValNumber:
		return l.Number == other.Number
	case LitValText:
		return l.Text == other.Text
	case LitValNothing:
		return true
	case LitValArray, LitValStruct:
		if len(l.Values) != len(other.Values) {
			return false
		}
		for i := range l.Values {
			if !l.Values[i].Equal(other.Values[i]) {
				return false
			}
		}
		return true
	case LitValLink:
		return l.Link == other.Link
	default:
		return false
	}
}
