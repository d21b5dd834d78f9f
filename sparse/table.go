// Package sparse implements the SwissTable-style open-addressing engine:
// metadata-byte probing over power-of-two-minus-one capacities, triangular
// block stepping, and tombstone-based deletion with in-place or grow
// rehash. The probe/rehash arithmetic is grounded on
// original_source/tpp/detail/swiss_table.hpp (decompose_hash,
// capacity_to_max_size, align_capacity, the size*32<=cap*25 in-place-rehash
// threshold) and cross-checked against sparse_map.hpp/stable_map.hpp for the
// packed-vs-stable split. Block matching is internal/metablock;
// insertion-order linking for the ordered variant is internal/link; node
// storage is internal/store.
package sparse

import (
	"errors"
	"math"

	"github.com/Voskan/arena-table/internal/bitops"
	"github.com/Voskan/arena-table/internal/hashseed"
	"github.com/Voskan/arena-table/internal/link"
	"github.com/Voskan/arena-table/internal/metablock"
	"github.com/Voskan/arena-table/internal/store"
)

// ErrNotFound is returned by operations that require an existing key.
var ErrNotFound = errors.New("sparse: key not found")

const maxLoadNumerator, maxLoadDenominator = 7, 8

// valueStore abstracts the packed/stable node-storage disciplines behind one
// contract. Unlike the dense engine, sparse slots are addressed by probe
// position, not append order: Resize grows the direct-addressed slot array
// to exactly n slots, and Set/Get always target a specific slot rather than
// the end of the store.
type valueStore[V any] interface {
	Resize(n int)
	Get(i int32) V
	Set(i int32, v V)
	Clone() valueStore[V]
}

type packedAdapter[V any] struct{ s *store.Packed[V] }

func (p packedAdapter[V]) Resize(n int)         { p.s.Resize(n) }
func (p packedAdapter[V]) Get(i int32) V        { return p.s.Get(i) }
func (p packedAdapter[V]) Set(i int32, v V)     { p.s.Set(i, v) }
func (p packedAdapter[V]) Clone() valueStore[V] { return packedAdapter[V]{p.s.Clone()} }

type stableAdapter[V any] struct{ s *store.Stable[V] }

func (p stableAdapter[V]) Resize(n int)         { p.s.Resize(n) }
func (p stableAdapter[V]) Get(i int32) V        { return p.s.Get(i) }
func (p stableAdapter[V]) Set(i int32, v V)     { p.s.Set(i, v) }
func (p stableAdapter[V]) Clone() valueStore[V] { return stableAdapter[V]{p.s.Clone()} }

// Take and Put are only implemented by stableAdapter, never packedAdapter:
// Extract/InsertNode type-assert for them so those operations are only
// reachable on a Stable-discipline table, matching the reference library
// restricting extract/insert_node to node_handle-capable containers.
func (p stableAdapter[V]) Take(i int32) store.Handle[V] { return p.s.Take(i) }
func (p stableAdapter[V]) Put(i int32, ptr *V)          { p.s.Put(i, ptr) }

// Table is the sparse (SwissTable) engine over keys of type K projected out
// of values of type V. Set containers instantiate it with K == V and an
// identity KeyOf; Map containers project the key out of a (K, M) pair.
type Table[K comparable, V any] struct {
	meta     []byte
	cap      uint64 // always 2^n - 1, or 0 for the empty table
	numEmpty uint64
	size     int

	nodes  valueStore[V]
	hashes []uint64

	keyOf   func(V) K
	hashKey func(K) uint64
	keyEq   func(K, K) bool

	ordered bool
	order   *link.List
}

// Config mirrors the value-traits bundle of §4.1: how to project a key out
// of a value, how to hash and compare it, whether nodes use the stable
// (pointer-indirected) discipline, and whether insertion order is tracked.
type Config[K comparable, V any] struct {
	KeyOf   func(V) K
	HashKey func(K) uint64
	KeyEq   func(K, K) bool
	Stable  bool
	Ordered bool
}

// New constructs an empty table per cfg. A nil HashKey/KeyEq defaults to the
// seeded hash/maphash hasher and Go's built-in == respectively.
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
// responsibility not to hold a slot across an Erase or rehash.
func (t *Table[K, V]) At(slot int32) V { return t.nodes.Get(slot) }

// MaxSize returns the largest size this engine's index arithmetic can
// address, matching the reference library's MaxSize() (table_common.hpp):
// bounded by both int32 slot indices and the maximum load factor.
func (t *Table[K, V]) MaxSize() int {
	return int(math.MaxInt32 / maxLoadDenominator * maxLoadNumerator)
}

// IsEmpty reports whether the table holds no entries.
func (t *Table[K, V]) IsEmpty() bool { return t.size == 0 }

// BucketCount returns the number of direct-addressed slots currently
// allocated, including the sentinel slot's mirror bytes but not counting
// them as addressable buckets.
func (t *Table[K, V]) BucketCount() int {
	if t.cap == 0 {
		return 0
	}
	return int(t.cap + 1)
}

// Capacity returns the number of entries the table can hold at its current
// bucket count before a growth rehash is triggered, i.e. BucketCount scaled
// by MaxLoadFactor.
func (t *Table[K, V]) Capacity() int {
	return int(uint64(t.BucketCount()) * maxLoadNumerator / maxLoadDenominator)
}

// LoadFactor returns size/BucketCount, or 0 for an empty table.
func (t *Table[K, V]) LoadFactor() float64 {
	if t.BucketCount() == 0 {
		return 0
	}
	return float64(t.size) / float64(t.BucketCount())
}

// MaxLoadFactor returns the fixed load factor threshold (7/8) past which an
// insert triggers a grow rehash. Unlike the reference library this is not
// runtime-configurable: the metadata-byte probe arithmetic is derived from
// this constant at several call sites.
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

// Clear removes every entry but keeps the current capacity, so BucketCount
// and Capacity are unchanged.
func (t *Table[K, V]) Clear() {
	t.size = 0
	if t.ordered {
		t.order = link.New()
	}
	if t.cap == 0 {
		return
	}
	for i := range t.meta {
		t.meta[i] = metablock.Empty
	}
	t.rehash(t.cap) // no survivors: rebuilds empty metadata at the same capacity
}

// Reserve ensures the table can hold at least n entries without a growth
// rehash, rehashing once up front if the current bucket count falls short.
func (t *Table[K, V]) Reserve(n int) {
	if n <= t.Capacity() {
		return
	}
	needSlots := (uint64(n)*maxLoadDenominator + maxLoadNumerator - 1) / maxLoadNumerator
	var target uint64
	if needSlots > 0 {
		target = t.alignCapacityFloor(needSlots - 1)
	}
	if target > t.cap {
		t.rehash(target)
	}
}

// Rehash forces the bucket count to at least nbuckets, never below what the
// current size needs under MaxLoadFactor. It is the public entry point to
// the grow/in-place machinery maybeRehashForInsert drives automatically.
func (t *Table[K, V]) Rehash(nbuckets int) {
	var target uint64
	if nbuckets > 0 {
		target = t.alignCapacityFloor(uint64(nbuckets) - 1)
	}
	needed := (uint64(t.size)*maxLoadDenominator + maxLoadNumerator - 1) / maxLoadNumerator
	var floor uint64
	if needed > 0 {
		floor = t.alignCapacityFloor(needed - 1)
	}
	if target < floor {
		target = floor
	}
	t.rehash(target)
}

// Swap exchanges the entire contents of t and other in place, matching the
// reference library's O(1) member swap.
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
	if idx, ok := t.findExisting(h, key); ok {
		return idx, false
	}
	return t.insertNew(h, construct()), true
}

func decompose(h uint64) (h1 uint64, h2 byte) {
	return h >> 7, byte(h&0x7f) // MSB stays clear: an occupied tag.
}

func (t *Table[K, V]) blockWidth() uint64 { return uint64(metablock.Width) }

// probeStart returns the first block position for hash component h1.
func (t *Table[K, V]) probeStart(h1 uint64) uint64 { return h1 & t.cap }

func (t *Table[K, V]) loadBlock(p uint64) metablock.Block {
	return metablock.Load(t.meta[p : p+t.blockWidth()])
}

// Find returns the slot index holding key, and ok=false if absent.
func (t *Table[K, V]) Find(key K) (slot int32, ok bool) {
	if t.cap == 0 {
		return 0, false
	}
	h := t.hashKey(key)
	return t.findFrom(h, key)
}

// wrapPos remaps a raw block-relative position that landed in the tail
// mirror (positions cap+1..cap+Width-1) back to the real slot it mirrors.
// Every candidate lane position derived from p+lane must pass through this
// before it is used as a node-storage or hashes index: the tail bytes exist
// only so a group read straddling the end of the array is itself safe to
// read, not as additional real slots.
func (t *Table[K, V]) wrapPos(raw uint64) uint64 {
	if raw > t.cap {
		return raw - (t.cap + 1)
	}
	return raw
}

func (t *Table[K, V]) findFrom(h uint64, key K) (int32, bool) {
	h1, h2 := decompose(h)
	p := t.probeStart(h1)
	for k := uint64(0); ; {
		blk := t.loadBlock(p)
		mask := blk.MatchByte(h2)
		for mask != 0 {
			lane := trailingZeros16(mask)
			mask &^= 1 << lane
			idx := int32(t.wrapPos(p + lane))
			if t.keyEq(t.keyOf(t.nodes.Get(idx)), key) {
				return idx, true
			}
		}
		if blk.MatchEmpty() != 0 {
			return 0, false
		}
		k++
		p = (p + k*t.blockWidth()) & t.cap
	}
}

// FindHashed supports heterogeneous/transparent lookup (§12): the caller
// supplies a precomputed hash and an equality predicate over V instead of a
// constructed K, avoiding an allocation when the lookup key's type differs
// from K but compares equal to it (the reference library's is_transparent
// opt-in in table_common.hpp).
func (t *Table[K, V]) FindHashed(h uint64, eq func(V) bool) (slot int32, ok bool) {
	if t.cap == 0 {
		return 0, false
	}
	h1, h2 := decompose(h)
	p := t.probeStart(h1)
	for k := uint64(0); ; {
		blk := t.loadBlock(p)
		mask := blk.MatchByte(h2)
		for mask != 0 {
			lane := trailingZeros16(mask)
			mask &^= 1 << lane
			idx := int32(t.wrapPos(p + lane))
			if eq(t.nodes.Get(idx)) {
				return idx, true
			}
		}
		if blk.MatchEmpty() != 0 {
			return 0, false
		}
		k++
		p = (p + k*t.blockWidth()) & t.cap
	}
}

func (t *Table[K, V]) findAvailable(h1 uint64) uint64 {
	p := t.probeStart(h1)
	for k := uint64(0); ; {
		blk := t.loadBlock(p)
		mask := blk.MatchAvailable()
		if mask != 0 {
			return t.wrapPos(p + uint64(trailingZeros16(mask)))
		}
		k++
		p = (p + k*t.blockWidth()) & t.cap
	}
}

// Insert inserts value under the key KeyOf(value) extracts. If the key is
// already present, the existing entry is left untouched and inserted is
// false — insert never overwrites; use InsertOrAssign for that. Returns the
// occupied slot either way.
func (t *Table[K, V]) Insert(value V) (slot int32, inserted bool) {
	key := t.keyOf(value)
	h := t.hashKey(key)
	if idx, ok := t.findExisting(h, key); ok {
		return idx, false
	}
	return t.insertNew(h, value), true
}

// InsertOrAssign inserts value under KeyOf(value), overwriting any existing
// entry with the same key. Returns the slot and whether a new entry was
// created (false means an existing value was replaced).
func (t *Table[K, V]) InsertOrAssign(value V) (slot int32, inserted bool) {
	key := t.keyOf(value)
	h := t.hashKey(key)
	if idx, ok := t.findExisting(h, key); ok {
		t.nodes.Set(idx, value)
		return idx, false
	}
	return t.insertNew(h, value), true
}

// InsertUnique is Insert under its other name: both already refuse to
// overwrite an existing key, so InsertUnique delegates directly.
func (t *Table[K, V]) InsertUnique(value V) (int32, bool) {
	return t.Insert(value)
}

func (t *Table[K, V]) findExisting(h uint64, key K) (int32, bool) {
	if t.cap == 0 {
		return 0, false
	}
	return t.findFrom(h, key)
}

func (t *Table[K, V]) insertNew(h uint64, value V) int32 {
	t.maybeRehashForInsert()
	h1, h2 := decompose(h)
	target := t.findAvailable(h1)
	wasEmpty := t.meta[target] == metablock.Empty
	t.nodes.Set(int32(target), value)
	t.hashes[target] = h
	t.setMeta(target, h2)
	if wasEmpty {
		t.numEmpty--
	}
	t.size++
	if t.ordered {
		t.order.PushBack(int32(target))
	}
	return int32(target)
}

// setMeta writes the tag at position p, mirroring it into the tail copy if p
// falls within the first (Width-1) bytes, matching the reference library's
// "tail block mirrors the head" trick so probes never read past the
// allocation.
func (t *Table[K, V]) setMeta(p uint64, tag byte) {
	t.meta[p] = tag
	w := t.blockWidth()
	if p < w-1 {
		t.meta[t.cap+1+p] = tag
	}
}

// alignCapacityFloor rounds n up to the 2^k-1 capacity form and additionally
// floors it at Width-1 (itself already of that form for both build-tag
// widths). The floor guarantees cap+1 >= Width, so a probe block starting
// anywhere in [0, cap] overruns the real slot range by at most one full
// mirror copy — the single-subtraction remap in wrapPos is then always
// sufficient. Without this floor, §4.5's literal "initial capacity 1" would
// let a 16-lane block probe address slots that do not exist.
func (t *Table[K, V]) alignCapacityFloor(n uint64) uint64 {
	aligned := bitops.AlignCapacity(n)
	if floor := t.blockWidth() - 1; aligned < floor {
		return floor
	}
	return aligned
}

// maybeRehashForInsert grows or rebuilds metadata before an insert if the
// table is empty or has exhausted its empty-slot budget under the max load
// factor.
func (t *Table[K, V]) maybeRehashForInsert() {
	if t.cap == 0 {
		t.rehash(t.alignCapacityFloor(1))
		return
	}
	if t.numEmpty > 0 {
		return
	}
	if uint64(t.size)*32 <= t.cap*25 && t.cap > t.blockWidth() {
		t.rehashInPlace()
		return
	}
	t.rehash(t.alignCapacityFloor(2*(t.cap+1) - 1))
}

// rehash reallocates metadata and node storage at newCap and relocates every
// live node, grounded on swiss_table.hpp's emplace_node grow path. It also
// serves the in-place path (newCap == t.cap): since Go's node storage is
// garbage-collected rather than an arena the reference library's in-buffer
// swap dance exists to avoid touching, a clear-and-reinsert pass at the same
// capacity reclaims tombstones with an equivalent observable result. On a
// Stable-discipline table each node's heap cell is moved, not its value, so
// pointers into live nodes stay valid across the rehash.
func (t *Table[K, V]) rehash(newCap uint64) {
	// Collect surviving live values before the metadata/slot arrays are
	// torn down, in insertion order when ordered (so relative order among
	// surviving keys is preserved) or slot order otherwise.
	type survivor struct {
		v    V
		h    uint64
		cell *V // the node's heap cell on a Stable-discipline table
	}
	sa, stable := t.nodes.(stableAdapter[V])
	survivors := make([]survivor, 0, t.size)
	collect := func(i int32) {
		s := survivor{v: t.nodes.Get(i), h: t.hashes[i]}
		if stable {
			s.cell = sa.s.Ptr(i)
		}
		survivors = append(survivors, s)
	}
	if t.ordered && t.order != nil {
		for i := t.order.Head(); i != link.None; i = t.order.Next(i) {
			collect(i)
		}
	} else if t.cap > 0 {
		for p := uint64(0); p <= t.cap; p++ {
			if metablock.IsOccupied(t.meta[p]) {
				collect(int32(p))
			}
		}
	}

	t.cap = newCap
	w := t.blockWidth()
	t.meta = make([]byte, newCap+w)
	for i := range t.meta {
		t.meta[i] = metablock.Empty
	}
	if newCap > 0 {
		t.meta[newCap] = metablock.Sentinel
	}
	slots := newCap + 1
	t.numEmpty = slots - slots/8
	t.size = 0
	if stable {
		t.nodes.Resize(0) // start from empty cells; survivors bring their own
	}
	t.nodes.Resize(int(slots))
	t.hashes = make([]uint64, slots)
	if t.ordered {
		t.order = link.New()
	}
	for _, s := range survivors {
		t.reinsertDuringRehash(s.v, s.h, s.cell)
	}
}

// reinsertDuringRehash places a previously-live node into the freshly
// cleared table without re-checking for duplicate keys (rehash never
// changes which keys are present) or re-triggering growth. A non-nil cell
// is the node's existing heap cell on a Stable-discipline table and is put
// into the target slot as is.
func (t *Table[K, V]) reinsertDuringRehash(value V, h uint64, cell *V) {
	h1, h2 := decompose(h)
	target := t.findAvailable(h1)
	if cell != nil {
		t.nodes.(stableAdapter[V]).Put(int32(target), cell)
	} else {
		t.nodes.Set(int32(target), value)
	}
	t.hashes[target] = h
	t.setMeta(target, h2)
	t.numEmpty--
	t.size++
	if t.ordered {
		t.order.PushBack(int32(target))
	}
}

// rehashInPlace reclaims tombstones without growing capacity, per the
// size*32<=cap*25 in-place condition documented in swiss_table.hpp. This
// implementation achieves the same observable contract (tombstones cleared,
// live nodes re-probed to their ideal chain, capacity unchanged) via a
// straightforward clear-and-reinsert pass rather than the reference's
// in-buffer swap dance, since Go's garbage-collected node storage has no
// benefit from avoiding the reallocation the swap dance exists to avoid.
func (t *Table[K, V]) rehashInPlace() {
	t.rehash(t.cap)
}

// Erase removes the entry for key, reporting whether it was present.
func (t *Table[K, V]) Erase(key K) bool {
	slot, ok := t.Find(key)
	if !ok {
		return false
	}
	t.eraseSlot(slot)
	return true
}

// eraseSlot implements §4.5 Erase: mark DELETED (never reset to EMPTY,
// since EMPTY would wrongly terminate other keys' probe sequences through
// this slot), unlink from insertion order, drop the reference so the node's
// value can be garbage-collected, and decrement size. num_empty is
// deliberately left untouched; only rehash refreshes it.
func (t *Table[K, V]) eraseSlot(slot int32) {
	t.setMeta(uint64(slot), metablock.Deleted)
	if t.ordered {
		t.order.Unlink(slot)
	}
	var zero V
	t.nodes.Set(slot, zero)
	t.hashes[slot] = 0
	t.size--
}

// EraseIf removes every entry for which pred returns true, returning the
// count removed. It is the Go-idiomatic substitute for the reference
// library's iterator-range erase: this API has no cursor/iterator type to
// bound a range with, so a predicate over the whole table is the natural
// fit instead.
func (t *Table[K, V]) EraseIf(pred func(K, V) bool) int {
	if t.cap == 0 {
		return 0
	}
	var doomed []int32
	for p := uint64(0); p <= t.cap; p++ {
		if metablock.IsOccupied(t.meta[p]) {
			v := t.nodes.Get(int32(p))
			if pred(t.keyOf(v), v) {
				doomed = append(doomed, int32(p))
			}
		}
	}
	for _, slot := range doomed {
		t.eraseSlot(slot)
	}
	return len(doomed)
}

// Extract detaches the node for key out of the table without destroying it,
// returning a store.Handle the caller can hand to InsertNode (on this table
// or another) or simply drop. Only valid on a table built with
// Config.Stable: sparse slots are direct-addressed by probe position, so
// Extract uses store.Stable's non-compacting Take rather than the
// SwapRemove-based Extract that the append-order dense engine uses.
func (t *Table[K, V]) Extract(key K) (store.Handle[V], bool) {
	slot, ok := t.Find(key)
	if !ok {
		return store.Handle[V]{}, false
	}
	taker, ok := t.nodes.(interface{ Take(i int32) store.Handle[V] })
	if !ok {
		panic("sparse: Extract requires a Stable-discipline table")
	}
	h := taker.Take(slot)
	t.setMeta(uint64(slot), metablock.Deleted)
	if t.ordered {
		t.order.Unlink(slot)
	}
	t.hashes[slot] = 0
	t.size--
	return h, true
}

// InsertNode reattaches a node previously removed by Extract, preserving its
// address: the handle's pointer is written straight into the target slot
// rather than copied through Set, so any reference taken before the
// extract/insert_node round trip observes the same address afterward. If the
// key is already present the handle is left untouched (still valid) and
// inserted is false, matching Extract/InsertNode's role as a transfer
// primitive rather than an overwrite.
func (t *Table[K, V]) InsertNode(h store.Handle[V]) (slot int32, inserted bool) {
	if !h.Valid() {
		panic("sparse: InsertNode on an empty handle")
	}
	key := t.keyOf(h.Value())
	hv := t.hashKey(key)
	if idx, ok := t.findExisting(hv, key); ok {
		return idx, false
	}
	putter, ok := t.nodes.(interface{ Put(i int32, p *V) })
	if !ok {
		panic("sparse: InsertNode requires a Stable-discipline table")
	}
	t.maybeRehashForInsert()
	h1, h2 := decompose(hv)
	target := t.findAvailable(h1)
	wasEmpty := t.meta[target] == metablock.Empty
	putter.Put(int32(target), h.Release())
	t.hashes[target] = hv
	t.setMeta(target, h2)
	if wasEmpty {
		t.numEmpty--
	}
	t.size++
	if t.ordered {
		t.order.PushBack(int32(target))
	}
	return int32(target), true
}

// Merge moves every node from other into t, leaving in other any node whose
// key already exists in t (per the reference library's merge: a merge never
// drops an element, it only fails to move ones that would collide).
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

// Values iterates all live values in slot order (the packed-forward
// iterator of §4.6, minus the block-skip optimisation — correctness over
// vectorised skipping, since this is not a probe hot path), calling fn for
// each; it stops early if fn returns false.
func (t *Table[K, V]) Values(fn func(V) bool) {
	if t.cap == 0 {
		return
	}
	for p := uint64(0); p <= t.cap; p++ {
		if metablock.IsOccupied(t.meta[p]) {
			if !fn(t.nodes.Get(int32(p))) {
				return
			}
		}
	}
}

// OrderedValues iterates live values in insertion order; only valid when the
// table was constructed with Config.Ordered.
func (t *Table[K, V]) OrderedValues(fn func(V) bool) {
	if !t.ordered {
		panic("sparse: OrderedValues called on a non-ordered table")
	}
	for i := t.order.Head(); i != link.None; i = t.order.Next(i) {
		if !fn(t.nodes.Get(i)) {
			return
		}
	}
}

// Clone deep-copies the table, including its node storage and (if ordered)
// insertion-order list.
func (t *Table[K, V]) Clone() *Table[K, V] {
	out := &Table[K, V]{
		cap:      t.cap,
		numEmpty: t.numEmpty,
		size:     t.size,
		keyOf:    t.keyOf,
		hashKey:  t.hashKey,
		keyEq:    t.keyEq,
		ordered:  t.ordered,
		nodes:    t.nodes.Clone(),
	}
	out.meta = append([]byte(nil), t.meta...)
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

func trailingZeros16(x uint16) uint64 {
	if x == 0 {
		return 16
	}
	n := uint64(0)
	for x&1 == 0 {
		x >>= 1
		n++
	}
	return n
}
