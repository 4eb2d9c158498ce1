package teachlang

import (
	"github.com/emirpasic/gods/trees/binaryheap"
)

// CellKind tags the content of one Memory cell (the PrimitiveType
// tagged union from §3).
type CellKind int

const (
	CellInvalid CellKind = iota
	CellNothing
	CellInitialized
	CellNumber
	CellText
	CellPointer
)

// Cell is one slot of the flat Memory vector.
type Cell struct {
	Kind   CellKind
	Number float64
	Text   string
	Ptr    Pointer // meaningful when Kind == CellPointer
}

func invalidCell() Cell     { return Cell{Kind: CellInvalid} }
func nothingCell() Cell     { return Cell{Kind: CellNothing} }
func initializedCell() Cell { return Cell{Kind: CellInitialized} }

// PtrKind tags the shape a Pointer addresses (the PointerType tagged
// union from §3).
type PtrKind int

const (
	PtrPrimitive PtrKind = iota
	PtrArray
	PtrStructure
	PtrLink
	// PtrIndirect is a structure field slot holding a composite
	// (array or structure) value by indirection: one cell storing
	// Pointer(inner), allocated the first time the field is written
	// (§4.5). Unlike PtrLink it owns its target — deallocating the
	// structure deallocates through it — and it is never rebound by
	// a `link` statement.
	PtrIndirect
)

// PointerType describes the shape of the memory a Pointer addresses.
// It is a plain value (no cycles): a Link carries its referent's
// *type*, never the referent itself (§9 design note) — the runtime
// link is an address stored in a Cell, not a Go pointer.
type PointerType struct {
	Kind   PtrKind
	Basic  string       // PtrPrimitive: "number"|"text"; PtrStructure: structure name
	Bounds []ArrayBound // PtrArray only
	Elem   *PointerType // PtrArray only: element shape
	Inner  *PointerType // PtrLink/PtrIndirect: referent shape
}

func PrimitiveType(basic string) PointerType { return PointerType{Kind: PtrPrimitive, Basic: basic} }
func StructureType(name string) PointerType  { return PointerType{Kind: PtrStructure, Basic: name} }
func ArrayType(bounds []ArrayBound, elem PointerType) PointerType {
	return PointerType{Kind: PtrArray, Bounds: bounds, Elem: &elem}
}
func LinkType(inner PointerType) PointerType {
	return PointerType{Kind: PtrLink, Inner: &inner}
}

func (t PointerType) Equal(other PointerType) bool {
	if t.Kind != other.Kind {
		return false
	}
	switch t.Kind {
	case PtrPrimitive, PtrStructure:
		return t.Basic == other.Basic
	case PtrArray:
		if len(t.Bounds) != len(other.Bounds) {
			return false
		}
		for i := range t.Bounds {
			if t.Bounds[i] != other.Bounds[i] {
				return false
			}
		}
		return t.Elem.Equal(*other.Elem)
	case PtrLink, PtrIndirect:
		return t.Inner.Equal(*other.Inner)
	default:
		return false
	}
}

// ArrayExtent returns the total cell count occupied by an array shape
// (product of per-dimension extents).
func ArrayExtent(bounds []ArrayBound) int {
	total := 1
	for _, b := range bounds {
		total *= b.Extent()
	}
	return total
}

// ArrayStrides returns the row-major stride for each dimension of
// bounds, per §4.4: stride[i] = product of extents of dimensions after i.
func ArrayStrides(bounds []ArrayBound) []int {
	strides := make([]int, len(bounds))
	acc := 1
	for i := len(bounds) - 1; i >= 0; i-- {
		strides[i] = acc
		acc *= bounds[i].Extent()
	}
	return strides
}

// Pointer is the runtime handle to a region of Memory: a start
// address, its cell count, and the shape stored there.
type Pointer struct {
	Address int
	Size    int
	Type    PointerType
}

// SizeOf computes how many cells a PointerType occupies, consulting
// the structure registry for field counts.
func SizeOf(t PointerType, st *SymbolTable) int {
	switch t.Kind {
	case PtrPrimitive, PtrLink, PtrIndirect:
		return 1
	case PtrArray:
		return ArrayExtent(t.Bounds) * SizeOf(*t.Elem, st)
	case PtrStructure:
		// A structure of N fields occupies N contiguous cells (§4.5):
		// a primitive/link field stores inline in its one cell, a
		// composite field stores a PtrIndirect slot in its one cell.
		fields := st.StructFields(t.Basic)
		if fields == nil {
			return 0
		}
		return fields.Size()
	default:
		return 0
	}
}

// structFieldSlotType returns the PointerType a structure field is
// physically stored as: composite fields (array, structure) are
// boxed behind a one-cell PtrIndirect slot per §4.5; primitive and
// link fields already occupy exactly one cell and pass through
// unchanged.
func structFieldSlotType(ft PointerType) PointerType {
	if ft.Kind == PtrArray || ft.Kind == PtrStructure {
		inner := ft
		return PointerType{Kind: PtrIndirect, Inner: &inner}
	}
	return ft
}

// symbolTypeToPointerType converts a static SymbolType into the
// runtime PointerType shape it allocates as. A SymbolType with an
// unknown rank (WildcardRank) converts to the scalar shape of its
// basic type.
func symbolTypeToPointerType(t SymbolType, st *SymbolTable) PointerType {
	var base PointerType
	switch {
	case t.ArrayDimensions > 0:
		// Bounds are not known from a SymbolType alone; used only for
		// sizing purposes where dims are uniformly 1 (placeholder);
		// an array field's real allocation takes its bounds from the
		// first literal stored into it (concreteCompositeType in
		// eval_value.go).
		bounds := make([]ArrayBound, t.ArrayDimensions)
		for i := range bounds {
			bounds[i] = ArrayBound{Lo: 1, Hi: 1}
		}
		elem := PrimitiveType(t.BasicType)
		if st.StructFields(t.BasicType) != nil {
			elem = StructureType(t.BasicType)
		}
		base = ArrayType(bounds, elem)
	case st.StructFields(t.BasicType) != nil:
		base = StructureType(t.BasicType)
	default:
		base = PrimitiveType(t.BasicType)
	}
	if t.IsPointer {
		return LinkType(base)
	}
	return base
}

// freeRegion is one entry in the free-space heap: an address and a
// cell count.
type freeRegion struct {
	Addr int
	Size int
}

// freeRegionLess orders the best-fit heap: smaller size first; among
// equal sizes, the region with the *highest* start address sorts
// first so Pop() favors it (the address tie-break from §4.3).
func freeRegionLess(a, b interface{}) int {
	ra, rb := a.(freeRegion), b.(freeRegion)
	if ra.Size != rb.Size {
		return ra.Size - rb.Size
	}
	return rb.Addr - ra.Addr
}

// Memory is the flat cell vector, best-fit free-space heap, and link
// refcount table described in §3/§4.3.
type Memory struct {
	cells      []Cell
	free       *binaryheap.Heap
	linkCounts map[int]int
}

// NewMemory creates a Memory with cell 0 reserved as the Invalid
// sentinel, per §3.
func NewMemory() *Memory {
	m := &Memory{
		cells:      []Cell{invalidCell()},
		free:       binaryheap.NewWith(freeRegionLess),
		linkCounts: make(map[int]int),
	}
	return m
}

func (m *Memory) Cell(addr int) Cell   { return m.cells[addr] }
func (m *Memory) SetCell(addr int, c Cell) { m.cells[addr] = c }
func (m *Memory) Len() int             { return len(m.cells) }

// Alloc reserves size contiguous cells using best-fit, extending the
// backing vector when no free region is large enough.
func (m *Memory) Alloc(size int) int {
	if size <= 0 {
		return 0
	}
	var (
		drained []freeRegion
		best    *freeRegion
	)
	for {
		v, ok := m.free.Pop()
		if !ok {
			break
		}
		r := v.(freeRegion)
		if best == nil && r.Size >= size {
			best = &r
			continue
		}
		drained = append(drained, r)
	}
	for _, r := range drained {
		m.free.Push(r)
	}
	if best == nil {
		addr := len(m.cells)
		for i := 0; i < size; i++ {
			m.cells = append(m.cells, initializedCell())
		}
		return addr
	}
	if best.Size > size {
		m.free.Push(freeRegion{Addr: best.Addr + size, Size: best.Size - size})
	}
	return best.Addr
}

// Dealloc recursively releases the ownership tree rooted at p,
// following §4.3's rules for arrays/structures/links, and overwrites
// every released cell with Nothing.
func (m *Memory) Dealloc(p Pointer, st *SymbolTable) {
	switch p.Type.Kind {
	case PtrArray:
		elemSize := SizeOf(*p.Type.Elem, st)
		count := ArrayExtent(p.Type.Bounds)
		for i := 0; i < count; i++ {
			sub := Pointer{Address: p.Address + i*elemSize, Size: elemSize, Type: *p.Type.Elem}
			m.Dealloc(sub, st)
		}
	case PtrStructure:
		fields := st.StructFields(p.Type.Basic)
		if fields != nil {
			offset := p.Address
			for _, v := range fields.Values() {
				ft := symbolTypeToPointerType(v.(SymbolType), st)
				slot := structFieldSlotType(ft)
				sub := Pointer{Address: offset, Size: 1, Type: slot}
				m.Dealloc(sub, st)
				offset++
			}
		}
		for i := 0; i < p.Size; i++ {
			m.cells[p.Address+i] = nothingCell()
		}
		return
	case PtrLink:
		cell := m.cells[p.Address]
		if cell.Kind == CellPointer {
			m.decrementLink(cell.Ptr.Address)
		}
		m.cells[p.Address] = nothingCell()
		return
	case PtrIndirect:
		// Owned indirection: the structure that boxed this field is
		// going away, so its target goes away with it (unlike a Link,
		// whose linkee's lifetime belongs elsewhere).
		cell := m.cells[p.Address]
		if cell.Kind == CellPointer {
			m.Dealloc(cell.Ptr, st)
		}
		m.cells[p.Address] = nothingCell()
		return
	default: // PtrPrimitive
		m.cells[p.Address] = nothingCell()
		return
	}
	for i := 0; i < p.Size; i++ {
		m.cells[p.Address+i] = nothingCell()
	}
}

// decrementLink lowers addr's refcount by one. It never deallocates:
// a cell that ScopeOut kept because a link still targeted it is not
// freed when its count later reaches zero, and neither BuildHeap nor
// Alloc reclaims it.
func (m *Memory) decrementLink(addr int) {
	if addr == 0 {
		return
	}
	if m.linkCounts[addr] > 0 {
		m.linkCounts[addr]--
	}
	if m.linkCounts[addr] == 0 {
		delete(m.linkCounts, addr)
	}
}

func (m *Memory) IncrementLink(addr int) {
	if addr == 0 {
		return
	}
	m.linkCounts[addr]++
}

func (m *Memory) DecrementLink(addr int) { m.decrementLink(addr) }

func (m *Memory) LinkCount(addr int) int { return m.linkCounts[addr] }

// BuildHeap truncates trailing Nothing cells, then rebuilds the free
// queue by coalescing maximal runs of Nothing cells into single
// regions, per §4.3/P4.
func (m *Memory) BuildHeap() {
	last := len(m.cells) - 1
	for last > 0 && m.cells[last].Kind == CellNothing {
		last--
	}
	m.cells = m.cells[:last+1]

	m.free = binaryheap.NewWith(freeRegionLess)

	runStart := -1
	for i := 1; i < len(m.cells); i++ {
		if m.cells[i].Kind == CellNothing {
			if runStart == -1 {
				runStart = i
			}
			continue
		}
		if runStart != -1 {
			m.free.Push(freeRegion{Addr: runStart, Size: i - runStart})
			runStart = -1
		}
	}
	if runStart != -1 {
		m.free.Push(freeRegion{Addr: runStart, Size: len(m.cells) - runStart})
	}
}
