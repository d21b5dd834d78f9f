package assoc

import (
	"go.uber.org/zap"

	"github.com/Voskan/arena-table/sparse"
)

// Pair is the node value a Map's sparse.Table stores: KeyOf projects out
// Key, leaving Mapped as the associated value the caller cares about.
type Pair[K comparable, M any] struct {
	Key    K
	Mapped M
}

// Map associates unique keys with values, backed by the sparse engine.
type Map[K comparable, M any] struct {
	tbl     *sparse.Table[K, Pair[K, M]]
	logger  *zap.Logger
	metrics metricsSink
}

func newMapConfig[K comparable, M any](opts []Option[K, Pair[K, M]]) *config[K, Pair[K, M]] {
	return applyOptions(opts)
}

func pairKeyOf[K comparable, M any](p Pair[K, M]) K { return p.Key }

// NewMap constructs an empty Map.
func NewMap[K comparable, M any](opts ...Option[K, Pair[K, M]]) *Map[K, M] {
	cfg := newMapConfig(opts)
	return &Map[K, M]{
		tbl: sparse.New(sparse.Config[K, Pair[K, M]]{
			KeyOf:   pairKeyOf[K, M],
			HashKey: cfg.hashKey,
			KeyEq:   cfg.keyEq,
		}),
		logger:  cfg.logger,
		metrics: newMetricsSink(cfg.namespace, cfg.registry),
	}
}

// NewOrderedMap constructs a Map that tracks insertion order.
func NewOrderedMap[K comparable, M any](opts ...Option[K, Pair[K, M]]) *Map[K, M] {
	cfg := newMapConfig(opts)
	return &Map[K, M]{
		tbl: sparse.New(sparse.Config[K, Pair[K, M]]{
			KeyOf:   pairKeyOf[K, M],
			HashKey: cfg.hashKey,
			KeyEq:   cfg.keyEq,
			Ordered: true,
		}),
		logger:  cfg.logger,
		metrics: newMetricsSink(cfg.namespace, cfg.registry),
	}
}

// NewStableMap constructs a Map under the stable node-storage discipline, so
// a pointer obtained into a mapped value survives growth and unrelated
// erasures.
func NewStableMap[K comparable, M any](opts ...Option[K, Pair[K, M]]) *Map[K, M] {
	cfg := newMapConfig(opts)
	return &Map[K, M]{
		tbl: sparse.New(sparse.Config[K, Pair[K, M]]{
			KeyOf:   pairKeyOf[K, M],
			HashKey: cfg.hashKey,
			KeyEq:   cfg.keyEq,
			Stable:  true,
		}),
		logger:  cfg.logger,
		metrics: newMetricsSink(cfg.namespace, cfg.registry),
	}
}

// Len returns the number of entries.
func (m *Map[K, M]) Len() int { return m.tbl.Len() }

// Get looks up key, reporting whether it was present.
func (m *Map[K, M]) Get(key K) (M, bool) {
	slot, ok := m.tbl.Find(key)
	m.metrics.incFind(ok)
	if !ok {
		var zero M
		return zero, false
	}
	return m.tbl.At(slot).Mapped, true
}

// Put inserts or replaces the value for key, reporting whether it was newly
// inserted.
func (m *Map[K, M]) Put(key K, value M) bool {
	_, inserted := m.tbl.InsertOrAssign(Pair[K, M]{Key: key, Mapped: value})
	m.metrics.incInsert()
	m.metrics.setLen(m.tbl.Len())
	return inserted
}

// PutUnique inserts (key, value) only if key is absent, reporting whether it
// was newly inserted.
func (m *Map[K, M]) PutUnique(key K, value M) bool {
	_, inserted := m.tbl.InsertUnique(Pair[K, M]{Key: key, Mapped: value})
	if inserted {
		m.metrics.incInsert()
		m.metrics.setLen(m.tbl.Len())
	}
	return inserted
}

// At looks up key, returning ErrKeyNotFound if it is absent.
func (m *Map[K, M]) At(key K) (M, error) {
	v, ok := m.Get(key)
	if !ok {
		return v, ErrKeyNotFound
	}
	return v, nil
}

// MustGet looks up key, panicking if it is absent.
func (m *Map[K, M]) MustGet(key K) M {
	v, err := m.At(key)
	if err != nil {
		panic(err)
	}
	return v
}

// Delete removes key, reporting whether it was present.
func (m *Map[K, M]) Delete(key K) bool {
	ok := m.tbl.Erase(key)
	m.metrics.incErase(ok)
	m.metrics.setLen(m.tbl.Len())
	return ok
}

// Range calls fn for every (key, value) pair, stopping early if fn returns
// false.
func (m *Map[K, M]) Range(fn func(K, M) bool) {
	m.tbl.Values(func(p Pair[K, M]) bool { return fn(p.Key, p.Mapped) })
}

// OrderedRange calls fn for every pair in insertion order. Panics if the map
// was not constructed with NewOrderedMap.
func (m *Map[K, M]) OrderedRange(fn func(K, M) bool) {
	m.tbl.OrderedValues(func(p Pair[K, M]) bool { return fn(p.Key, p.Mapped) })
}

// Clone returns an independent deep copy.
func (m *Map[K, M]) Clone() *Map[K, M] {
	return &Map[K, M]{tbl: m.tbl.Clone(), logger: m.logger, metrics: m.metrics}
}

// Equal reports whether two maps hold the same keys mapped to equal values.
func (m *Map[K, M]) Equal(other *Map[K, M], valueEq func(a, b M) bool) bool {
	return m.tbl.Equal(other.tbl, func(a, b Pair[K, M]) bool { return valueEq(a.Mapped, b.Mapped) })
}
