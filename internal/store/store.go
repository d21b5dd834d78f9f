// Package store implements the two node-storage disciplines shared by the
// dense and sparse engines: packed (value inline in the slot, relocated by
// copy) and stable (value behind a heap pointer, relocated by moving only
// the pointer). The distinction mirrors the reference library's
// stable_traits.hpp split and its consequence for pointer/reference
// stability across rehash and erase.
//
// The reference library gets pointer stability for the stable discipline
// from a companion arena allocator that never moves a node's bytes once
// placed. Voskan-arena-cache/internal/arena/arena.go wraps the same idea
// behind the experimental goexperiment.arenas stdlib package, which is not
// part of any default Go toolchain build and therefore cannot be a
// dependency of a library meant to build everywhere (see design document
// §13). This package keeps the concern — "a stable node's address never
// changes even though the table holding its index does" — but gets it from
// ordinary heap allocation: Stable.Append does a plain new(V) the same way
// Voskan-arena-cache/pkg/cache.go's entry.vptr points at one heap-allocated
// V per key; the Go garbage collector is the allocator doing the pinning
// instead of a bump arena.
package store

// Packed stores values inline in a contiguous slice. Appending may
// reallocate the backing array, so indices stay valid but *V-shaped
// references into it never do; this is the discipline the dense and sparse
// engines use when the caller has not asked for pointer stability.
type Packed[V any] struct {
	data []V
}

// NewPacked returns an empty packed store with room for at least capacity
// elements.
func NewPacked[V any](capacity int) *Packed[V] {
	return &Packed[V]{data: make([]V, 0, capacity)}
}

// Len returns the number of live slots.
func (p *Packed[V]) Len() int { return len(p.data) }

// Append places v in a new trailing slot and returns its index.
func (p *Packed[V]) Append(v V) int32 {
	p.data = append(p.data, v)
	return int32(len(p.data) - 1)
}

// Get returns the value at i.
func (p *Packed[V]) Get(i int32) V { return p.data[i] }

// Set overwrites the value at i.
func (p *Packed[V]) Set(i int32, v V) { p.data[i] = v }

// Ptr returns a pointer to the slot at i. The pointer is invalidated by any
// subsequent Append that reallocates the backing array; callers needing a
// long-lived reference must use Stable instead.
func (p *Packed[V]) Ptr(i int32) *V { return &p.data[i] }

// SwapRemove moves the last element into slot i (unless i is already last)
// and shrinks the store by one, reporting the index the moved element used
// to occupy so the caller can fix up any parallel index/link structures.
// movedFrom == i means no element moved (i was already last).
func (p *Packed[V]) SwapRemove(i int32) (removed V, movedFrom int32) {
	last := int32(len(p.data) - 1)
	removed = p.data[i]
	if i != last {
		p.data[i] = p.data[last]
	}
	var zero V
	p.data[last] = zero
	p.data = p.data[:last]
	return removed, last
}

// Reset empties the store, keeping the backing array for the next Rehash.
func (p *Packed[V]) Reset() { p.data = p.data[:0] }

// Resize grows or shrinks the store to exactly n direct-addressed slots,
// zero-filling any newly added slots. Used by the sparse engine, whose
// slots are addressed by probe position rather than append order.
func (p *Packed[V]) Resize(n int) {
	if n <= len(p.data) {
		p.data = p.data[:n]
		return
	}
	grown := make([]V, n)
	copy(grown, p.data)
	p.data = grown
}

// Clone deep-copies the store's slot values.
func (p *Packed[V]) Clone() *Packed[V] {
	out := &Packed[V]{data: make([]V, len(p.data))}
	copy(out.data, p.data)
	return out
}

// Stable stores values behind individually heap-allocated pointers, so a
// pointer handed out by Ptr remains valid across any number of Append calls
// on other slots — only the *indirection slot* moves during SwapRemove or
// rehash, never the pointee.
type Stable[V any] struct {
	data []*V
}

// NewStable returns an empty stable store with room for at least capacity
// elements.
func NewStable[V any](capacity int) *Stable[V] {
	return &Stable[V]{data: make([]*V, 0, capacity)}
}

// Len returns the number of live slots.
func (s *Stable[V]) Len() int { return len(s.data) }

// Append heap-allocates a copy of v and places its pointer in a new
// trailing slot, returning the slot's index.
func (s *Stable[V]) Append(v V) int32 {
	p := new(V)
	*p = v
	s.data = append(s.data, p)
	return int32(len(s.data) - 1)
}

// Get returns the value at i.
func (s *Stable[V]) Get(i int32) V { return *s.data[i] }

// Set overwrites the value pointed to by slot i in place, so any externally
// held Ptr to this slot observes the new value without being invalidated.
// If slot i has no pointee yet (a direct-addressed slot reserved by Resize
// but never written), Set allocates one.
func (s *Stable[V]) Set(i int32, v V) {
	if s.data[i] == nil {
		s.data[i] = new(V)
	}
	*s.data[i] = v
}

// Resize grows or shrinks the store to exactly n direct-addressed slots.
// Newly added slots start with a nil pointee, lazily allocated by the first
// Set. Used by the sparse engine, whose slots are addressed by probe
// position rather than append order.
func (s *Stable[V]) Resize(n int) {
	if n <= len(s.data) {
		s.data = s.data[:n]
		return
	}
	grown := make([]*V, n)
	copy(grown, s.data)
	s.data = grown
}

// Ptr returns the stable pointer for slot i. It remains valid for the
// pointee's lifetime, i.e. until the slot is removed via SwapRemove or
// Extract.
func (s *Stable[V]) Ptr(i int32) *V { return s.data[i] }

// SwapRemove moves the last slot's pointer into slot i (unless i is already
// last) and shrinks the store by one. The pointee's address is untouched;
// only which index refers to it changes. Reports the index the moved
// pointer used to occupy, as Packed.SwapRemove does.
func (s *Stable[V]) SwapRemove(i int32) (removed *V, movedFrom int32) {
	last := int32(len(s.data) - 1)
	removed = s.data[i]
	if i != last {
		s.data[i] = s.data[last]
	}
	s.data[last] = nil
	s.data = s.data[:last]
	return removed, last
}

// Extract detaches slot i from the store without freeing its pointee,
// returning a Handle that owns the node until the caller either discards it
// or reinserts it elsewhere. This backs the reference library's
// "extractable" node discipline (detach-then-reattach without a
// copy/destroy round trip).
func (s *Stable[V]) Extract(i int32) (Handle[V], int32) {
	p, movedFrom := s.SwapRemove(i)
	return Handle[V]{ptr: p}, movedFrom
}

// Reset empties the store, keeping the backing array for the next Rehash.
func (s *Stable[V]) Reset() { s.data = s.data[:0] }

// Clone deep-copies the store, heap-allocating a fresh pointee per slot so
// the clone's pointer stability is independent of the original's. Slots
// with no pointee stay nil in the clone.
func (s *Stable[V]) Clone() *Stable[V] {
	out := &Stable[V]{data: make([]*V, len(s.data))}
	for i, p := range s.data {
		if p == nil {
			continue
		}
		v := *p
		out.data[i] = &v
	}
	return out
}

// Handle is a move-only owner of a node detached from a Stable store via
// Extract. The zero Handle owns nothing.
type Handle[V any] struct {
	ptr *V
}

// Valid reports whether the handle still owns a node.
func (h Handle[V]) Valid() bool { return h.ptr != nil }

// Value returns the owned node's value. Calling it on an invalid handle
// panics, matching the reference library's precondition that extracted
// handles are only dereferenced while owning a node.
func (h Handle[V]) Value() V {
	if h.ptr == nil {
		panic("store: Value on empty Handle")
	}
	return *h.ptr
}

// Release hands the handle's pointer back for reinsertion into a Stable
// store, clearing the handle's ownership. Calling it on an invalid handle
// panics.
func (h *Handle[V]) Release() *V {
	if h.ptr == nil {
		panic("store: Release on empty Handle")
	}
	p := h.ptr
	h.ptr = nil
	return p
}

// Reattach pushes a released pointer back into a Stable store's trailing
// slot, returning its new index. It is the inverse of Extract.
func (s *Stable[V]) Reattach(p *V) int32 {
	s.data = append(s.data, p)
	return int32(len(s.data) - 1)
}

// Take detaches slot i's pointee without shrinking the store or moving any
// other slot, returning a Handle that owns the node. Unlike Extract, the
// slot index i remains valid and nil afterward. This backs direct-addressed
// engines (the sparse table), where a slot's position is fixed by its probe
// sequence and can never be compacted away the way Extract/SwapRemove do for
// append-order engines.
func (s *Stable[V]) Take(i int32) Handle[V] {
	p := s.data[i]
	s.data[i] = nil
	return Handle[V]{ptr: p}
}

// Put writes a released pointer directly into slot i, leaving every other
// slot untouched. It is the direct-addressed inverse of Take.
func (s *Stable[V]) Put(i int32, p *V) {
	s.data[i] = p
}
