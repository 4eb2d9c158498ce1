package teachlang_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"teachlang"
)

func TestArrayBoundExtentAscendingAndDescending(t *testing.T) {
	assert.Equal(t, 5, teachlang.ArrayBound{Lo: 1, Hi: 5}.Extent())
	assert.Equal(t, 5, teachlang.ArrayBound{Lo: 5, Hi: 1}.Extent())
	assert.Equal(t, 1, teachlang.ArrayBound{Lo: 3, Hi: 3}.Extent())
}

func TestDisplayStringFormatsIntegersWithoutDecimal(t *testing.T) {
	assert.Equal(t, "8", teachlang.NumberLiteral(8).DisplayString())
	assert.Equal(t, "8.5", teachlang.NumberLiteral(8.5).DisplayString())
}

func TestDisplayStringText(t *testing.T) {
	assert.Equal(t, "hello", teachlang.TextLiteral("hello").DisplayString())
}

func TestDisplayStringArray(t *testing.T) {
	arr := teachlang.ArrayLiteral(
		[]teachlang.ArrayBound{{Lo: 1, Hi: 3}},
		[]teachlang.LiteralValue{teachlang.NumberLiteral(1), teachlang.NumberLiteral(2), teachlang.NumberLiteral(3)},
	)
	assert.Equal(t, "[1, 2, 3]", arr.DisplayString())
}

func TestDisplayStringStruct(t *testing.T) {
	s := teachlang.StructLiteral("point", []teachlang.LiteralValue{teachlang.NumberLiteral(3), teachlang.NumberLiteral(4)})
	assert.Equal(t, "{3, 4}", s.DisplayString())
}

func TestDisplayStringUnlinkedLink(t *testing.T) {
	assert.Equal(t, "(unlinked)", teachlang.LinkLiteral(nil).DisplayString())
}

func TestIsLinkedReportsLinkState(t *testing.T) {
	assert.False(t, teachlang.LinkLiteral(nil).IsLinked())
	p := teachlang.Pointer{Address: 4}
	assert.True(t, teachlang.LinkLiteral(&p).IsLinked())
}

func TestLiteralValueEqualForScalarsAndComposites(t *testing.T) {
	assert.True(t, teachlang.NumberLiteral(1).Equal(teachlang.NumberLiteral(1)))
	assert.False(t, teachlang.NumberLiteral(1).Equal(teachlang.NumberLiteral(2)))
	assert.True(t, teachlang.TextLiteral("a").Equal(teachlang.TextLiteral("a")))
	assert.False(t, teachlang.TextLiteral("a").Equal(teachlang.NumberLiteral(1)))

	a := teachlang.ArrayLiteral(nil, []teachlang.LiteralValue{teachlang.NumberLiteral(1), teachlang.NumberLiteral(2)})
	b := teachlang.ArrayLiteral(nil, []teachlang.LiteralValue{teachlang.NumberLiteral(1), teachlang.NumberLiteral(2)})
	c := teachlang.ArrayLiteral(nil, []teachlang.LiteralValue{teachlang.NumberLiteral(1), teachlang.NumberLiteral(3)})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}

func TestLowerUpperBoundOfLiteral(t *testing.T) {
	arr := teachlang.ArrayLiteral([]teachlang.ArrayBound{{Lo: 2, Hi: 6}}, nil)
	assert.Equal(t, 2, arr.LowerBound())
	assert.Equal(t, 6, arr.UpperBound())

	scalar := teachlang.NumberLiteral(1)
	assert.Equal(t, 0, scalar.LowerBound())
	assert.Equal(t, 0, scalar.UpperBound())
}
