package assoc

import (
	"go.uber.org/zap"

	"github.com/Voskan/arena-table/internal/store"
	"github.com/Voskan/arena-table/sparse"
)

// indexEntry is the node value each of MultiIndex's per-key sparse tables
// stores: Key is what that table hashes on, Slot points into the shared
// value store.
type indexEntry[K comparable] struct {
	Key  K
	Slot int32
}

func indexEntryKeyOf[K comparable](e indexEntry[K]) K { return e.Key }

// MultiIndex is the N-key (multikey) index design from §9's "Multikey as
// variadic" note, instantiated at N=2: Go generics have no way to express a
// variadic tuple of distinct key types, so arbitrary N needs either code
// generation or a reflection-driven layer outside this package's scope
// (recorded as an Open Question decision in DESIGN.md). N=2 covers the
// common case — a value reachable by either a
// primary or a secondary key — directly, by composing two independent
// sparse.Table key->slot indexes over one shared packed value store, rather
// than the reference library's N parallel chain arrays inside a single
// table instance.
type MultiIndex[K1, K2 comparable, V any] struct {
	values *store.Packed[V]
	idx1   *sparse.Table[K1, indexEntry[K1]]
	idx2   *sparse.Table[K2, indexEntry[K2]]

	key1Of func(V) K1
	key2Of func(V) K2

	logger  *zap.Logger
	metrics metricsSink
}

// MultiIndexConfig bundles the two key projections a value must support.
type MultiIndexConfig[K1, K2 comparable, V any] struct {
	Key1Of func(V) K1
	Key2Of func(V) K2
}

// NewMultiIndex constructs an empty MultiIndex.
func NewMultiIndex[K1, K2 comparable, V any](cfg MultiIndexConfig[K1, K2, V], opts ...Option[K1, V]) *MultiIndex[K1, K2, V] {
	appliedCfg := applyOptions(opts)
	return &MultiIndex[K1, K2, V]{
		values: store.NewPacked[V](0),
		idx1: sparse.New(sparse.Config[K1, indexEntry[K1]]{
			KeyOf:   indexEntryKeyOf[K1],
			HashKey: appliedCfg.hashKey,
			KeyEq:   appliedCfg.keyEq,
		}),
		idx2:    sparse.New(sparse.Config[K2, indexEntry[K2]]{KeyOf: indexEntryKeyOf[K2]}),
		key1Of:  cfg.Key1Of,
		key2Of:  cfg.Key2Of,
		logger:  appliedCfg.logger,
		metrics: newMetricsSink(appliedCfg.namespace, appliedCfg.registry),
	}
}

// Len returns the number of indexed values.
func (m *MultiIndex[K1, K2, V]) Len() int { return m.values.Len() }

// Insert indexes v under both Key1Of(v) and Key2Of(v). If Key1Of(v) already
// names an existing row, that row's value is replaced in place (the old
// slot is reused rather than leaked) and its Key2 entry is retargeted to
// Key2Of(v), dropping the old Key2 reachability; a value whose new Key2
// collides with a *different* row's Key2 is not reconciled against that
// other row, mirroring two independently-replacing maps.
func (m *MultiIndex[K1, K2, V]) Insert(v V) {
	k1 := m.key1Of(v)
	if existing, ok := m.idx1.Find(k1); ok {
		slot := m.idx1.At(existing).Slot
		old := m.values.Get(slot)
		m.idx2.Erase(m.key2Of(old))
		m.values.Set(slot, v)
		m.idx2.InsertOrAssign(indexEntry[K2]{Key: m.key2Of(v), Slot: slot})
		m.metrics.incInsert()
		m.metrics.setLen(m.values.Len())
		return
	}
	slot := m.values.Append(v)
	m.idx1.InsertOrAssign(indexEntry[K1]{Key: k1, Slot: slot})
	m.idx2.InsertOrAssign(indexEntry[K2]{Key: m.key2Of(v), Slot: slot})
	m.metrics.incInsert()
	m.metrics.setLen(m.values.Len())
}

// FindByKey1 looks up a value by its first key.
func (m *MultiIndex[K1, K2, V]) FindByKey1(key K1) (V, bool) {
	s, ok := m.idx1.Find(key)
	m.metrics.incFind(ok)
	if !ok {
		var zero V
		return zero, false
	}
	return m.values.Get(m.idx1.At(s).Slot), true
}

// FindByKey2 looks up a value by its second key.
func (m *MultiIndex[K1, K2, V]) FindByKey2(key K2) (V, bool) {
	s, ok := m.idx2.Find(key)
	m.metrics.incFind(ok)
	if !ok {
		var zero V
		return zero, false
	}
	return m.values.Get(m.idx2.At(s).Slot), true
}

// EraseByKey1 removes the value reachable via key, if present, updating
// both indexes.
func (m *MultiIndex[K1, K2, V]) EraseByKey1(key K1) bool {
	s, ok := m.idx1.Find(key)
	if !ok {
		m.metrics.incErase(false)
		return false
	}
	v := m.values.Get(m.idx1.At(s).Slot)
	m.eraseBoth(key, m.key2Of(v), m.idx1.At(s).Slot)
	return true
}

// EraseByKey2 removes the value reachable via key, if present, updating
// both indexes.
func (m *MultiIndex[K1, K2, V]) EraseByKey2(key K2) bool {
	s, ok := m.idx2.Find(key)
	if !ok {
		m.metrics.incErase(false)
		return false
	}
	v := m.values.Get(m.idx2.At(s).Slot)
	m.eraseBoth(m.key1Of(v), key, m.idx2.At(s).Slot)
	return true
}

// eraseBoth drops both index entries for a node and compacts the shared
// value store. store.Packed.SwapRemove moves the last element into the
// freed slot, which invalidates whichever index entry pointed at that last
// slot; when that happens, both index entries for the relocated value are
// rewritten to its new slot via the same replace-on-Insert semantics used
// everywhere else in this package.
func (m *MultiIndex[K1, K2, V]) eraseBoth(k1 K1, k2 K2, slot int32) {
	m.idx1.Erase(k1)
	m.idx2.Erase(k2)
	_, movedFrom := m.values.SwapRemove(slot)
	if movedFrom != slot {
		moved := m.values.Get(slot)
		m.idx1.InsertOrAssign(indexEntry[K1]{Key: m.key1Of(moved), Slot: slot})
		m.idx2.InsertOrAssign(indexEntry[K2]{Key: m.key2Of(moved), Slot: slot})
	}
	m.metrics.incErase(true)
	m.metrics.setLen(m.values.Len())
}

// Values calls fn for every indexed value, stopping early if fn returns
// false.
func (m *MultiIndex[K1, K2, V]) Values(fn func(V) bool) {
	for i := 0; i < m.values.Len(); i++ {
		if !fn(m.values.Get(int32(i))) {
			return
		}
	}
}
