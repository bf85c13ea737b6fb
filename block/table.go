package block

import (
	"fmt"
	"slices"
	"sort"
	"strconv"

	"github.com/arloliu/blend/errs"
	"github.com/arloliu/blend/internal/options"
)

// Table is an immutable address index over a set of blocks.
//
// The root table returned by Build indexes every block by file offset and the heap
// blocks by address. Off-heap tables only index their own group by address.
type Table struct {
	byAddress []*Block
	byOffset  []*Block
	offHeap   map[int]*Table
	label     Labeler
}

// Build indexes blocks. The slice is copied; the result does not alias it.
//
// Blocks with address 0 can never be the target of a pointer and are only reachable
// through ResolveFileOffset. Build fails with errs.ErrBelowHeapBase when the lowest heap
// address is below the heap base, and with errs.ErrOverlappingBlocks when two blocks
// of the same table share an address or overlap.
func Build(blocks []Block, opts ...Option) (*Table, error) {
	cfg := &buildConfig{heapBase: DefaultHeapBase}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	label := cfg.labeler
	if label == nil {
		label = func(i int) string { return "struct#" + strconv.Itoa(i) }
	}

	arena := make([]Block, len(blocks))
	copy(arena, blocks)

	groups := make(map[int][]*Block, len(cfg.offHeap))
	for _, idx := range cfg.offHeap {
		groups[idx] = nil
	}

	t := &Table{
		byAddress: make([]*Block, 0, len(arena)),
		byOffset:  make([]*Block, 0, len(arena)),
		label:     label,
	}

	for i := range arena {
		b := &arena[i]
		t.byOffset = append(t.byOffset, b)

		if b.Address == 0 {
			continue
		}
		if b.overflows() {
			return nil, fmt.Errorf("%w: %s block at 0x%x, size %d",
				errs.ErrAddressOverflow, label(b.StructIndex), b.Address, b.Size)
		}
		if _, ok := groups[b.StructIndex]; ok {
			groups[b.StructIndex] = append(groups[b.StructIndex], b)
			continue
		}
		t.byAddress = append(t.byAddress, b)
	}

	sort.SliceStable(t.byOffset, func(i, j int) bool { return t.byOffset[i].Offset < t.byOffset[j].Offset })

	if err := t.index(cfg.heapBase); err != nil {
		return nil, err
	}

	if len(groups) > 0 {
		t.offHeap = make(map[int]*Table, len(groups))
		for idx, members := range groups {
			sub := &Table{byAddress: members, label: label}
			if err := sub.index(0); err != nil {
				return nil, fmt.Errorf("off-heap %s: %w", label(idx), err)
			}
			t.offHeap[idx] = sub
		}
	}

	return t, nil
}

// index sorts byAddress and validates it. A zero heapBase disables the heap check.
func (t *Table) index(heapBase uint64) error {
	sort.SliceStable(t.byAddress, func(i, j int) bool { return t.byAddress[i].Address < t.byAddress[j].Address })

	if len(t.byAddress) == 0 {
		return nil
	}

	if first := t.byAddress[0]; first.Address < heapBase {
		return fmt.Errorf("%w: %s block at 0x%x, heap base 0x%x",
			errs.ErrBelowHeapBase, t.label(first.StructIndex), first.Address, heapBase)
	}

	for i := 1; i < len(t.byAddress); i++ {
		prev, cur := t.byAddress[i-1], t.byAddress[i]
		if cur.Address == prev.Address || cur.Address < prev.End() {
			return fmt.Errorf("%w: %s block at 0x%x collides with %s block 0x%x-0x%x",
				errs.ErrOverlappingBlocks, t.label(cur.StructIndex), cur.Address,
				t.label(prev.StructIndex), prev.Address, prev.End())
		}
	}

	return nil
}

// ResolveAddress returns the block containing addr.
//
// It returns (nil, nil) for the null address and wraps errs.ErrDanglingPointer when no
// block contains addr.
func (t *Table) ResolveAddress(addr uint64) (*Block, error) {
	if addr == 0 {
		return nil, nil
	}

	n := len(t.byAddress)
	i := sort.Search(n, func(i int) bool { return t.byAddress[i].Address > addr })
	// i is the first block starting after addr; its predecessor is the candidate.
	if i > 0 {
		if b := t.byAddress[i-1]; b.Contains(addr) {
			return b, nil
		}
	}

	return nil, fmt.Errorf("%w: 0x%x", errs.ErrDanglingPointer, addr)
}

// ResolveFileOffset returns the block whose payload starts at or before pos, or the
// first block when pos lies before every payload. It returns nil only for an empty
// table.
func (t *Table) ResolveFileOffset(pos int) *Block {
	n := len(t.byOffset)
	if n == 0 {
		return nil
	}

	i := sort.Search(n, func(i int) bool { return t.byOffset[i].Offset > pos })
	if i == 0 {
		return t.byOffset[0]
	}

	return t.byOffset[i-1]
}

// AddressAt maps a file position back to the address it had at save time.
func (t *Table) AddressAt(pos int) (uint64, error) {
	b := t.ResolveFileOffset(pos)
	if b == nil {
		return 0, errs.ErrEmptyTable
	}

	return b.AddressOf(pos), nil
}

// OffHeap returns the table of one off-heap struct kind.
func (t *Table) OffHeap(structIndex int) (*Table, bool) {
	sub, ok := t.offHeap[structIndex]
	return sub, ok
}

// OffHeapIndices returns the off-heap struct indices in ascending order.
func (t *Table) OffHeapIndices() []int {
	idx := make([]int, 0, len(t.offHeap))
	for i := range t.offHeap {
		idx = append(idx, i)
	}
	slices.Sort(idx)

	return idx
}

// IsOffHeap reports whether blocks of structIndex live in an off-heap table.
func (t *Table) IsOffHeap(structIndex int) bool {
	_, ok := t.offHeap[structIndex]
	return ok
}

// Blocks returns the address-indexed blocks in ascending address order.
// The slice must not be modified.
func (t *Table) Blocks() []*Block { return t.byAddress }

// FileOrder returns every block in file order. It is empty for off-heap tables.
// The slice must not be modified.
func (t *Table) FileOrder() []*Block { return t.byOffset }

// Len returns the number of address-indexed blocks.
func (t *Table) Len() int { return len(t.byAddress) }

// Label names the struct of b.
func (t *Table) Label(b *Block) string { return t.label(b.StructIndex) }
