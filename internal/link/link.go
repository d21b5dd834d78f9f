// Package link implements the insertion-order doubly-linked list threaded
// through ordered sparse/dense containers.
//
// The reference library links nodes through raw byte offsets computed from
// the owning table's storage base pointer; SPEC_FULL.md §9's
// re-architecture note prefers plain indices or pointers to that offset
// trick. Go slices relocate on growth and the garbage collector tracks live
// pointers itself, so this package threads the list through plain slice
// indices instead, following the shape of
// Voskan-arena-cache/internal/clockpro/clockpro.go's metaNode ring (append,
// remove, head rotation) but addressing cells by index rather than by
// *metaNode pointer, since index-based links survive the node-storage slice
// being reallocated by Insert/Rehash without a fix-up pass.
package link

// None marks the absence of a neighbour; link indices are always >= 0
// otherwise, matching the node-storage slice's own indexing.
const None int32 = -1

// Cell is one entry in the list, stored alongside (or addressed in parallel
// to) a node-storage slot.
type Cell struct {
	Prev, Next int32
}

// List tracks insertion order over a set of slots addressed by int32 index.
// Unlike clockpro's circular ring, List is a plain linear list with an
// explicit head/tail pair: ordered containers need front-to-back iteration
// and O(1) "insert at back", not a rotating clock hand.
type List struct {
	cells      []Cell
	head, tail int32
}

// New returns an empty list.
func New() *List {
	return &List{head: None, tail: None}
}

// Reset clears the list and preallocates room for n cells, used by both
// engines' Clone when building a copy's list from scratch.
func (l *List) Reset(n int) {
	if cap(l.cells) < n {
		l.cells = make([]Cell, n)
	} else {
		l.cells = l.cells[:n]
	}
	for i := range l.cells {
		l.cells[i] = Cell{Prev: None, Next: None}
	}
	l.head, l.tail = None, None
}

// Grow extends the backing slice to cover index i, used when node storage
// appends a new slot without a full Reset.
func (l *List) Grow(i int32) {
	for int32(len(l.cells)) <= i {
		l.cells = append(l.cells, Cell{Prev: None, Next: None})
	}
}

// Len returns the number of cells currently tracked (capacity of the slot
// space, not the number of linked elements).
func (l *List) Len() int { return len(l.cells) }

// Head returns the index of the first-inserted live element, or None if the
// list is empty.
func (l *List) Head() int32 { return l.head }

// Tail returns the index of the most recently inserted live element, or
// None if the list is empty.
func (l *List) Tail() int32 { return l.tail }

// Next returns the element linked after i, or None at the tail.
func (l *List) Next(i int32) int32 { return l.cells[i].Next }

// Prev returns the element linked before i, or None at the head.
func (l *List) Prev(i int32) int32 { return l.cells[i].Prev }

// PushBack links slot i at the end of the list. i must not already be
// linked.
func (l *List) PushBack(i int32) {
	l.Grow(i)
	l.cells[i] = Cell{Prev: l.tail, Next: None}
	if l.tail == None {
		l.head = i
	} else {
		l.cells[l.tail].Next = i
	}
	l.tail = i
}

// Unlink removes slot i from the list. i must currently be linked.
func (l *List) Unlink(i int32) {
	c := l.cells[i]
	if c.Prev != None {
		l.cells[c.Prev].Next = c.Next
	} else {
		l.head = c.Next
	}
	if c.Next != None {
		l.cells[c.Next].Prev = c.Prev
	} else {
		l.tail = c.Prev
	}
	l.cells[i] = Cell{Prev: None, Next: None}
}

// Relink moves the link metadata owned by slot `from` onto slot `to`,
// fixing up from's neighbours to point at to. Used by the dense engine's
// swap-with-last erase, where a live element physically moves to the slot
// vacated by the removed one and must keep its position in insertion order.
func (l *List) Relink(from, to int32) {
	if from == to {
		return
	}
	l.Grow(to)
	c := l.cells[from]
	l.cells[to] = c
	if c.Prev != None {
		l.cells[c.Prev].Next = to
	} else {
		l.head = to
	}
	if c.Next != None {
		l.cells[c.Next].Prev = to
	} else {
		l.tail = to
	}
	l.cells[from] = Cell{Prev: None, Next: None}
}
