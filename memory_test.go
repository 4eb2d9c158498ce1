package teachlang_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"teachlang"
)

func TestMemoryReservesInvalidSentinelAtZero(t *testing.T) {
	m := teachlang.NewMemory()
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, teachlang.CellInvalid, m.Cell(0).Kind)
}

func TestMemoryAllocExtendsWhenNoFreeRegion(t *testing.T) {
	m := teachlang.NewMemory()
	a := m.Alloc(3)
	b := m.Alloc(2)
	assert.NotEqual(t, a, b)
	assert.Equal(t, 1, a)
	assert.Equal(t, 4, b)
}

func TestMemoryAllocZeroSizeReturnsZero(t *testing.T) {
	m := teachlang.NewMemory()
	assert.Equal(t, 0, m.Alloc(0))
}

func TestMemoryBuildHeapCoalescesAndReusesFreedSpace(t *testing.T) {
	m := teachlang.NewMemory()
	a := m.Alloc(3)
	m.Alloc(2)
	for i := 0; i < 3; i++ {
		m.SetCell(a+i, teachlang.Cell{Kind: teachlang.CellNothing})
	}
	m.BuildHeap()

	reused := m.Alloc(3)
	assert.Equal(t, a, reused)
}

func TestMemoryBuildHeapTruncatesTrailingNothing(t *testing.T) {
	m := teachlang.NewMemory()
	a := m.Alloc(2)
	for i := 0; i < 2; i++ {
		m.SetCell(a+i, teachlang.Cell{Kind: teachlang.CellNothing})
	}
	before := m.Len()
	m.BuildHeap()
	assert.Less(t, m.Len(), before)
}

func TestMemoryLinkRefcounting(t *testing.T) {
	m := teachlang.NewMemory()
	target := m.Alloc(1)
	assert.Equal(t, 0, m.LinkCount(target))
	m.IncrementLink(target)
	m.IncrementLink(target)
	assert.Equal(t, 2, m.LinkCount(target))
	m.DecrementLink(target)
	assert.Equal(t, 1, m.LinkCount(target))
	m.DecrementLink(target)
	assert.Equal(t, 0, m.LinkCount(target))
}

func TestArrayExtentAndStrides(t *testing.T) {
	bounds := []teachlang.ArrayBound{{Lo: 1, Hi: 3}, {Lo: 1, Hi: 2}}
	assert.Equal(t, 6, teachlang.ArrayExtent(bounds))
	assert.Equal(t, []int{2, 1}, teachlang.ArrayStrides(bounds))
}

func TestSizeOfPrimitiveArrayAndStructure(t *testing.T) {
	st := teachlang.NewSymbolTable(nil)
	require.NoError(t, st.AddType("point", teachlang.Position{}))
	fields := st.AddStruct("point")
	fields.Put("x", teachlang.Scalar("number"))
	fields.Put("y", teachlang.Scalar("number"))

	numType := teachlang.PrimitiveType("number")
	assert.Equal(t, 1, teachlang.SizeOf(numType, st))

	arrType := teachlang.ArrayType([]teachlang.ArrayBound{{Lo: 1, Hi: 4}}, numType)
	assert.Equal(t, 4, teachlang.SizeOf(arrType, st))

	structType := teachlang.StructureType("point")
	assert.Equal(t, 2, teachlang.SizeOf(structType, st))
}

func TestPointerTypeEqual(t *testing.T) {
	a := teachlang.ArrayType([]teachlang.ArrayBound{{Lo: 1, Hi: 3}}, teachlang.PrimitiveType("number"))
	b := teachlang.ArrayType([]teachlang.ArrayBound{{Lo: 1, Hi: 3}}, teachlang.PrimitiveType("number"))
	c := teachlang.ArrayType([]teachlang.ArrayBound{{Lo: 1, Hi: 4}}, teachlang.PrimitiveType("number"))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
