// Package dense implements the two-array chained-bucket engine: a sparse
// bucket-head index table plus an append-only dense node vector, erased by
// swap-with-last. Grounded on
// original_source/tpp/detail/dense_table.hpp and dense_map.hpp for the
// layout and the "snip all chains, then swap, then destroy" erase ordering;
// node storage is internal/store, insertion-order linking for the ordered
// variant is internal/link.
package dense

import (
	"math"

	"github.com/Voskan/arena-table/internal/hashseed"
	"github.com/Voskan/arena-table/internal/link"
	"github.com/Voskan/arena-table/internal/store"
)

// end marks both an empty bucket head and the tail of a chain, matching the
// reference library's sentinel = MAX_SIZE convention.
const end int32 = -1

const maxLoadNumerator, maxLoadDenominator = 7, 8 // 0.875, matching §3's default

type valueStore[V any] interface {
	Len() int
	Append(v V) int32
	Get(i int32) V
	Set(i int32, v V)
	SwapRemove(i int32) int32
	Reset()
	Clone() valueStore[V]
}

type packedAdapter[V any] struct{ s *store.Packed[V] }

func (p packedAdapter[V]) Len() int         { return p.s.Len() }
func (p packedAdapter[V]) Append(v V) int32 { return p.s.Append(v) }
func (p packedAdapter[V]) Get(i int32) V    { return p.s.Get(i) }
func (p packedAdapter[V]) Set(i int32, v V) { p.s.Set(i, v) }
func (p packedAdapter[V]) SwapRemove(i int32) int32 {
	_, movedFrom := p.s.SwapRemove(i)
	return movedFrom
}
func (p packedAdapter[V]) Reset()               { p.s.Reset() }
func (p packedAdapter[V]) Clone() valueStore[V] { return packedAdapter[V]{p.s.Clone()} }

type stableAdapter[V any] struct{ s *store.Stable[V] }

func (s stableAdapter[V]) Len() int         { return s.s.Len() }
func (s stableAdapter[V]) Append(v V) int32 { return s.s.Append(v) }
func (s stableAdapter[V]) Get(i int32) V    { return s.s.Get(i) }
func (s stableAdapter[V]) Set(i int32, v V) { s.s.Set(i, v) }
func (s stableAdapter[V]) SwapRemove(i int32) int32 {
	_, movedFrom := s.s.SwapRemove(i)
	return movedFrom
}
func (s stableAdapter[V]) Reset()               { s.s.Reset() }
func (s stableAdapter[V]) Clone() valueStore[V] { return stableAdapter[V]{s.s.Clone()} }

// Extract and Reattach are only implemented by stableAdapter, never
// packedAdapter: Table.Extract/InsertNode type-assert for them so those
// operations are only reachable on a Stable-discipline table, matching the
// reference library restricting extract/insert_node to node_handle-capable
// containers.
func (s stableAdapter[V]) Extract(i int32) (store.Handle[V], int32) { return s.s.Extract(i) }
func (s stableAdapter[V]) Reattach(p *V) int32                      { return s.s.Reattach(p) }

// Config mirrors sparse.Config; see its doc comment for field meaning.
type Config[K comparable, V any] struct {
	KeyOf   func(V) K
	HashKey func(K) uint64
	KeyEq   func(K, K) bool
	Stable  bool
	Ordered bool
}

// Table is the dense chained-bucket engine over keys of type K projected
// out of values of type V.
type Table[K comparable, V any] struct {
	buckets []int32 // head-of-chain index per bucket, or end
	next    []int32 // parallel to nodes: next element in this node's chain
	hashes  []uint64
	nodes   valueStore[V]
	size    int

	keyOf   func(V) K
	hashKey func(K) uint64
	keyEq   func(K, K) bool

	ordered bool
	order   *link.List
}

// New constructs an empty table per cfg.
func New[K comparable, V any](cfg Config[K, V]) *Table[K, V] {
	hashKey := cfg.HashKey
	if hashKey == nil {
		hashKey = hashseed.Default[K](hashseed.NewSeed())
	}
	keyEq := cfg.KeyEq
	if keyEq == nil {
		keyEq = func(a, b K) bool { return a == b }
	}
	t := &Table[K, V]{
		keyOf:   cfg.KeyOf,
		hashKey: hashKey,
		keyEq:   keyEq,
		ordered: cfg.Ordered,
	}
	if cfg.Stable {
		t.nodes = stableAdapter[V]{store.NewStable[V](0)}
	} else {
		t.nodes = packedAdapter[V]{store.NewPacked[V](0)}
	}
	if cfg.Ordered {
		t.order = link.New()
	}
	return t
}

// Len returns the number of live entries.
func (t *Table[K, V]) Len() int { return t.size }

// At returns the value stored at slot, as returned by Find, Insert or
// FindHashed. The slot must currently be occupied; it is the caller's
// responsibility not to hold a slot across an Erase, which may relocate the
// last dense slot into a freed one.
func (t *Table[K, V]) At(slot int32) V { return t.nodes.Get(slot) }

// MaxSize returns the largest size this engine's int32 slot indices can
// address.
func (t *Table[K, V]) MaxSize() int { return math.MaxInt32 - 1 }

// IsEmpty reports whether the table holds no entries.
func (t *Table[K, V]) IsEmpty() bool { return t.size == 0 }

// BucketCount returns the number of hash buckets currently allocated.
func (t *Table[K, V]) BucketCount() int { return len(t.buckets) }

// Capacity returns the number of entries the table can hold at its current
// bucket count before a growth rehash is triggered.
func (t *Table[K, V]) Capacity() int {
	return len(t.buckets) * maxLoadNumerator / maxLoadDenominator
}

// LoadFactor returns size/BucketCount, or 0 for an empty table.
func (t *Table[K, V]) LoadFactor() float64 {
	if len(t.buckets) == 0 {
		return 0
	}
	return float64(t.size) / float64(len(t.buckets))
}

// MaxLoadFactor returns the fixed load factor threshold (7/8) past which an
// insert triggers a grow rehash.
func (t *Table[K, V]) MaxLoadFactor() float64 {
	return float64(maxLoadNumerator) / float64(maxLoadDenominator)
}

// Hasher returns the key hash function the table was constructed with.
func (t *Table[K, V]) Hasher() func(K) uint64 { return t.hashKey }

// KeyEq returns the key equality function the table was constructed with.
func (t *Table[K, V]) KeyEq() func(K, K) bool { return t.keyEq }

// Contains reports whether key is present, equivalent to discarding Find's
// slot.
func (t *Table[K, V]) Contains(key K) bool {
	_, ok := t.Find(key)
	return ok
}

// Front returns the first-inserted live value; only valid on a table built
// with Config.Ordered.
func (t *Table[K, V]) Front() (V, bool) {
	if !t.ordered || t.order.Head() == link.None {
		var zero V
		return zero, false
	}
	return t.nodes.Get(t.order.Head()), true
}

// Back returns the most recently inserted live value; only valid on a table
// built with Config.Ordered.
func (t *Table[K, V]) Back() (V, bool) {
	if !t.ordered || t.order.Tail() == link.None {
		var zero V
		return zero, false
	}
	return t.nodes.Get(t.order.Tail()), true
}

// Clear removes every entry but keeps the bucket table and the node
// storage's backing arrays, so BucketCount and Capacity are unchanged.
func (t *Table[K, V]) Clear() {
	t.nodes.Reset()
	for i := range t.buckets {
		t.buckets[i] = end
	}
	t.next = t.next[:0]
	t.hashes = t.hashes[:0]
	t.size = 0
	if t.ordered {
		t.order = link.New()
	}
}

// Reserve ensures the table can hold at least n entries without a growth
// rehash, rehashing once up front if the current bucket count falls short.
func (t *Table[K, V]) Reserve(n int) {
	if n <= t.Capacity() {
		return
	}
	needBuckets := (n*maxLoadDenominator + maxLoadNumerator - 1) / maxLoadNumerator
	if needBuckets < 8 {
		needBuckets = 8
	}
	if needBuckets > len(t.buckets) {
		t.rehash(needBuckets)
	}
}

// Rehash forces the bucket count to at least nbuckets, never below what the
// current size needs under MaxLoadFactor.
func (t *Table[K, V]) Rehash(nbuckets int) {
	needed := (t.size*maxLoadDenominator + maxLoadNumerator - 1) / maxLoadNumerator
	if nbuckets < needed {
		nbuckets = needed
	}
	if nbuckets < 8 {
		nbuckets = 8
	}
	t.rehash(nbuckets)
}

// Swap exchanges the entire contents of t and other in place.
func (t *Table[K, V]) Swap(other *Table[K, V]) {
	*t, *other = *other, *t
}

// InsertWithHint inserts value the same way Insert does. The hint parameter
// exists for source compatibility with the reference library's
// iterator-hinted insert; this API has no cursor/iterator type for a hint to
// speed up, so it is accepted and ignored.
func (t *Table[K, V]) InsertWithHint(hint int32, value V) (int32, bool) {
	return t.Insert(value)
}

// Emplace is Insert under the reference library's other name: Go has no
// piecewise-construction argument list to defer, so by the time a V exists
// to pass in, Emplace and Insert do the same work.
func (t *Table[K, V]) Emplace(value V) (int32, bool) { return t.Insert(value) }

// EmplaceOrReplace is InsertOrAssign under the reference library's other
// name, for the same reason Emplace aliases Insert.
func (t *Table[K, V]) EmplaceOrReplace(value V) (int32, bool) { return t.InsertOrAssign(value) }

// TryEmplace looks up key and only calls construct — deferring the actual
// value construction — if the key is absent, returning the existing slot
// without calling construct if it is already present.
func (t *Table[K, V]) TryEmplace(key K, construct func() V) (int32, bool) {
	h := t.hashKey(key)
	if len(t.buckets) > 0 {
		if idx, ok := t.findChain(h, key); ok {
			return idx, false
		}
	}
	return t.insertNew(h, construct()), true
}

func (t *Table[K, V]) bucketOf(h uint64) int {
	if len(t.buckets) == 0 {
		return -1
	}
	return int(h % uint64(len(t.buckets)))
}

// Find returns the slot index holding key, and ok=false if absent.
func (t *Table[K, V]) Find(key K) (slot int32, ok bool) {
	if len(t.buckets) == 0 {
		return 0, false
	}
	h := t.hashKey(key)
	return t.findChain(h, key)
}

func (t *Table[K, V]) findChain(h uint64, key K) (int32, bool) {
	b := t.bucketOf(h)
	if b < 0 {
		return 0, false
	}
	for i := t.buckets[b]; i != end; i = t.next[i] {
		if t.hashes[i] == h && t.keyEq(t.keyOf(t.nodes.Get(i)), key) {
			return i, true
		}
	}
	return 0, false
}

// FindHashed supports heterogeneous/transparent lookup (§12), as
// sparse.Table.FindHashed does.
func (t *Table[K, V]) FindHashed(h uint64, eq func(V) bool) (slot int32, ok bool) {
	b := t.bucketOf(h)
	if b < 0 {
		return 0, false
	}
	for i := t.buckets[b]; i != end; i = t.next[i] {
		if t.hashes[i] == h && eq(t.nodes.Get(i)) {
			return i, true
		}
	}
	return 0, false
}

// Insert inserts value under the key KeyOf(value) extracts. If the key is
// already present, the existing entry is left untouched and inserted is
// false — insert never overwrites; use InsertOrAssign for that.
func (t *Table[K, V]) Insert(value V) (slot int32, inserted bool) {
	key := t.keyOf(value)
	h := t.hashKey(key)
	if len(t.buckets) > 0 {
		if idx, ok := t.findChain(h, key); ok {
			return idx, false
		}
	}
	return t.insertNew(h, value), true
}

// InsertOrAssign inserts value under KeyOf(value), overwriting any existing
// entry with the same key.
func (t *Table[K, V]) InsertOrAssign(value V) (slot int32, inserted bool) {
	key := t.keyOf(value)
	h := t.hashKey(key)
	if len(t.buckets) > 0 {
		if idx, ok := t.findChain(h, key); ok {
			t.nodes.Set(idx, value)
			return idx, false
		}
	}
	return t.insertNew(h, value), true
}

// InsertUnique is Insert under its other name: both already refuse to
// overwrite an existing key, so InsertUnique delegates directly.
func (t *Table[K, V]) InsertUnique(value V) (int32, bool) {
	return t.Insert(value)
}

func (t *Table[K, V]) insertNew(h uint64, value V) int32 {
	if len(t.buckets) == 0 || (t.size+1)*maxLoadDenominator > len(t.buckets)*maxLoadNumerator {
		newCount := len(t.buckets) * 2
		if newCount < 8 {
			newCount = 8
		}
		t.rehash(newCount)
	}
	idx := t.nodes.Append(value)
	t.hashes = append(t.hashes, h)
	t.next = append(t.next, end)
	b := t.bucketOf(h)
	t.next[idx] = t.buckets[b]
	t.buckets[b] = idx
	t.size++
	if t.ordered {
		t.order.PushBack(idx)
	}
	return idx
}

// rehash reallocates the bucket table at newCount buckets and re-splices
// every live node onto its new chain, in dense storage order (§4.4:
// "insertion order within buckets is reversed, which does not affect
// correctness" — push-front chain splicing naturally does this here too).
func (t *Table[K, V]) rehash(newCount int) {
	t.buckets = make([]int32, newCount)
	for i := range t.buckets {
		t.buckets[i] = end
	}
	for i := 0; i < t.nodes.Len(); i++ {
		b := t.bucketOf(t.hashes[i])
		t.next[i] = t.buckets[b]
		t.buckets[b] = int32(i)
	}
}

// Erase removes the entry for key, reporting whether it was present.
func (t *Table[K, V]) Erase(key K) bool {
	if len(t.buckets) == 0 {
		return false
	}
	h := t.hashKey(key)
	b := t.bucketOf(h)
	prev := end
	for i := t.buckets[b]; i != end; i = t.next[i] {
		if t.hashes[i] == h && t.keyEq(t.keyOf(t.nodes.Get(i)), key) {
			t.unlinkFromBucket(b, prev, i)
			t.destroySlot(i)
			return true
		}
		prev = i
	}
	return false
}

func (t *Table[K, V]) unlinkFromBucket(b int, prev, i int32) {
	if prev == end {
		t.buckets[b] = t.next[i]
	} else {
		t.next[prev] = t.next[i]
	}
}

// destroySlot implements §4.4 Erase steps 3-4: snip is already done by the
// caller before this runs; here we swap the last dense slot into i's
// position (fixing up the moved node's own chain pointer) and shrink.
func (t *Table[K, V]) destroySlot(i int32) {
	if t.ordered {
		t.order.Unlink(i)
	}
	last := int32(t.nodes.Len() - 1)
	if i != last {
		t.relinkMovedNode(last, i)
		t.hashes[i] = t.hashes[last]
		t.next[i] = t.next[last]
		if t.ordered {
			t.order.Relink(last, i)
		}
	}
	t.nodes.SwapRemove(i)
	t.hashes = t.hashes[:last]
	t.next = t.next[:last]
	t.size--
}

// relinkMovedNode finds the chain pointer that references the about-to-move
// slot `from` (either a bucket head or another node's next pointer) and
// repoints it at `to`, the slot the node is moving into.
func (t *Table[K, V]) relinkMovedNode(from, to int32) {
	b := t.bucketOf(t.hashes[from])
	if t.buckets[b] == from {
		t.buckets[b] = to
		return
	}
	for i := t.buckets[b]; i != end; i = t.next[i] {
		if t.next[i] == from {
			t.next[i] = to
			return
		}
	}
}

// EraseIf removes every entry for which pred returns true, returning the
// count removed. The Go-idiomatic substitute for the reference library's
// iterator-range erase; see sparse.Table.EraseIf for why.
func (t *Table[K, V]) EraseIf(pred func(K, V) bool) int {
	removed := 0
	for i := 0; i < t.nodes.Len(); {
		v := t.nodes.Get(int32(i))
		if pred(t.keyOf(v), v) {
			t.Erase(t.keyOf(v))
			removed++
			continue
		}
		i++
	}
	return removed
}

// Extract detaches the node for key out of the table without destroying it,
// returning a store.Handle the caller can hand to InsertNode (on this table
// or another) or simply drop. Only valid on a table built with
// Config.Stable.
func (t *Table[K, V]) Extract(key K) (store.Handle[V], bool) {
	if len(t.buckets) == 0 {
		return store.Handle[V]{}, false
	}
	h := t.hashKey(key)
	b := t.bucketOf(h)
	prev := end
	for i := t.buckets[b]; i != end; i = t.next[i] {
		if t.hashes[i] == h && t.keyEq(t.keyOf(t.nodes.Get(i)), key) {
			t.unlinkFromBucket(b, prev, i)
			handle, ok := t.extractSlot(i)
			if !ok {
				panic("dense: Extract requires a Stable-discipline table")
			}
			return handle, true
		}
		prev = i
	}
	return store.Handle[V]{}, false
}

// extractSlot mirrors destroySlot, but detaches the node into a Handle
// instead of discarding it.
func (t *Table[K, V]) extractSlot(i int32) (store.Handle[V], bool) {
	extractor, ok := t.nodes.(interface {
		Extract(i int32) (store.Handle[V], int32)
	})
	if !ok {
		return store.Handle[V]{}, false
	}
	if t.ordered {
		t.order.Unlink(i)
	}
	last := int32(t.nodes.Len() - 1)
	handle, _ := extractor.Extract(i)
	if i != last {
		t.relinkMovedNode(last, i)
		t.hashes[i] = t.hashes[last]
		t.next[i] = t.next[last]
		if t.ordered {
			t.order.Relink(last, i)
		}
	}
	t.hashes = t.hashes[:last]
	t.next = t.next[:last]
	t.size--
	return handle, true
}

// InsertNode reattaches a node previously removed by Extract, preserving its
// address: the handle's pointer is appended straight into the node vector
// rather than copied through Set. If the key is already present the handle
// is left untouched (still valid) and inserted is false.
func (t *Table[K, V]) InsertNode(h store.Handle[V]) (slot int32, inserted bool) {
	if !h.Valid() {
		panic("dense: InsertNode on an empty handle")
	}
	key := t.keyOf(h.Value())
	hv := t.hashKey(key)
	if len(t.buckets) > 0 {
		if idx, ok := t.findChain(hv, key); ok {
			return idx, false
		}
	}
	reattacher, ok := t.nodes.(interface{ Reattach(p *V) int32 })
	if !ok {
		panic("dense: InsertNode requires a Stable-discipline table")
	}
	if len(t.buckets) == 0 || (t.size+1)*maxLoadDenominator > len(t.buckets)*maxLoadNumerator {
		newCount := len(t.buckets) * 2
		if newCount < 8 {
			newCount = 8
		}
		t.rehash(newCount)
	}
	idx := reattacher.Reattach(h.Release())
	t.hashes = append(t.hashes, hv)
	t.next = append(t.next, end)
	b := t.bucketOf(hv)
	t.next[idx] = t.buckets[b]
	t.buckets[b] = idx
	t.size++
	if t.ordered {
		t.order.PushBack(idx)
	}
	return idx, true
}

// Merge moves every node from other into t, leaving in other any node whose
// key already exists in t.
func (t *Table[K, V]) Merge(other *Table[K, V]) {
	keys := make([]K, 0, other.size)
	other.Values(func(v V) bool {
		keys = append(keys, other.keyOf(v))
		return true
	})
	for _, k := range keys {
		h, ok := other.Extract(k)
		if !ok {
			continue
		}
		if _, inserted := t.InsertNode(h); !inserted {
			other.InsertNode(h)
		}
	}
}

// Values iterates all live values in dense-storage order.
func (t *Table[K, V]) Values(fn func(V) bool) {
	for i := 0; i < t.nodes.Len(); i++ {
		if !fn(t.nodes.Get(int32(i))) {
			return
		}
	}
}

// OrderedValues iterates live values in insertion order; only valid when
// the table was constructed with Config.Ordered.
func (t *Table[K, V]) OrderedValues(fn func(V) bool) {
	if !t.ordered {
		panic("dense: OrderedValues called on a non-ordered table")
	}
	for i := t.order.Head(); i != link.None; i = t.order.Next(i) {
		if !fn(t.nodes.Get(i)) {
			return
		}
	}
}

// Bucket walks one chain's local iterator (dense-only, §4.6), calling fn
// for each value hashed into key's bucket.
func (t *Table[K, V]) Bucket(key K, fn func(V) bool) {
	if len(t.buckets) == 0 {
		return
	}
	h := t.hashKey(key)
	b := t.bucketOf(h)
	for i := t.buckets[b]; i != end; i = t.next[i] {
		if !fn(t.nodes.Get(i)) {
			return
		}
	}
}

// Clone deep-copies the table.
func (t *Table[K, V]) Clone() *Table[K, V] {
	out := &Table[K, V]{
		size:    t.size,
		keyOf:   t.keyOf,
		hashKey: t.hashKey,
		keyEq:   t.keyEq,
		ordered: t.ordered,
		nodes:   t.nodes.Clone(),
	}
	out.buckets = append([]int32(nil), t.buckets...)
	out.next = append([]int32(nil), t.next...)
	out.hashes = append([]uint64(nil), t.hashes...)
	if t.ordered {
		out.order = link.New()
		out.order.Reset(t.order.Len())
		for i := t.order.Head(); i != link.None; i = t.order.Next(i) {
			out.order.PushBack(i)
		}
	}
	return out
}

// Equal reports whether two tables hold the same set of keys mapping to
// equal values, ignoring insertion order and internal layout.
func (t *Table[K, V]) Equal(other *Table[K, V], valueEq func(a, b V) bool) bool {
	if t.size != other.size {
		return false
	}
	equal := true
	t.Values(func(v V) bool {
		key := t.keyOf(v)
		idx, ok := other.Find(key)
		if !ok || !valueEq(v, other.nodes.Get(idx)) {
			equal = false
			return false
		}
		return true
	})
	return equal
}
