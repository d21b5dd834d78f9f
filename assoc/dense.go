package assoc

import (
	"go.uber.org/zap"

	"github.com/Voskan/arena-table/dense"
)

// DenseSet is the dense (two-array chained-bucket) engine's Set counterpart,
// for workloads that favor cache-friendly append-ordered storage and a
// local Bucket iterator over SwissTable's probe locality.
type DenseSet[K comparable] struct {
	tbl     *dense.Table[K, K]
	logger  *zap.Logger
	metrics metricsSink
}

// NewDenseSet constructs an empty DenseSet.
func NewDenseSet[K comparable](opts ...Option[K, K]) *DenseSet[K] {
	cfg := applyOptions(opts)
	return &DenseSet[K]{
		tbl: dense.New(dense.Config[K, K]{
			KeyOf:   func(k K) K { return k },
			HashKey: cfg.hashKey,
			KeyEq:   cfg.keyEq,
		}),
		logger:  cfg.logger,
		metrics: newMetricsSink(cfg.namespace, cfg.registry),
	}
}

// NewOrderedDenseSet constructs a DenseSet that tracks insertion order.
func NewOrderedDenseSet[K comparable](opts ...Option[K, K]) *DenseSet[K] {
	cfg := applyOptions(opts)
	return &DenseSet[K]{
		tbl: dense.New(dense.Config[K, K]{
			KeyOf:   func(k K) K { return k },
			HashKey: cfg.hashKey,
			KeyEq:   cfg.keyEq,
			Ordered: true,
		}),
		logger:  cfg.logger,
		metrics: newMetricsSink(cfg.namespace, cfg.registry),
	}
}

// Len returns the number of elements.
func (s *DenseSet[K]) Len() int { return s.tbl.Len() }

// Contains reports whether key is a member.
func (s *DenseSet[K]) Contains(key K) bool {
	_, ok := s.tbl.Find(key)
	s.metrics.incFind(ok)
	return ok
}

// Add inserts key, reporting whether it was newly added.
func (s *DenseSet[K]) Add(key K) bool {
	_, inserted := s.tbl.Insert(key)
	s.metrics.incInsert()
	s.metrics.setLen(s.tbl.Len())
	return inserted
}

// Remove deletes key, reporting whether it was present.
func (s *DenseSet[K]) Remove(key K) bool {
	ok := s.tbl.Erase(key)
	s.metrics.incErase(ok)
	s.metrics.setLen(s.tbl.Len())
	return ok
}

// Range calls fn for every element in dense-storage order.
func (s *DenseSet[K]) Range(fn func(K) bool) { s.tbl.Values(fn) }

// OrderedRange calls fn for every element in insertion order. Panics unless
// constructed with NewOrderedDenseSet.
func (s *DenseSet[K]) OrderedRange(fn func(K) bool) { s.tbl.OrderedValues(fn) }

// Bucket walks only the chain that key hashes into, exposing the dense
// engine's local iterator (§4.6) directly.
func (s *DenseSet[K]) Bucket(key K, fn func(K) bool) { s.tbl.Bucket(key, fn) }

// Clone returns an independent deep copy.
func (s *DenseSet[K]) Clone() *DenseSet[K] {
	return &DenseSet[K]{tbl: s.tbl.Clone(), logger: s.logger, metrics: s.metrics}
}

// DenseMap is the dense engine's Map counterpart.
type DenseMap[K comparable, M any] struct {
	tbl     *dense.Table[K, Pair[K, M]]
	logger  *zap.Logger
	metrics metricsSink
}

// NewDenseMap constructs an empty DenseMap.
func NewDenseMap[K comparable, M any](opts ...Option[K, Pair[K, M]]) *DenseMap[K, M] {
	cfg := applyOptions(opts)
	return &DenseMap[K, M]{
		tbl: dense.New(dense.Config[K, Pair[K, M]]{
			KeyOf:   pairKeyOf[K, M],
			HashKey: cfg.hashKey,
			KeyEq:   cfg.keyEq,
		}),
		logger:  cfg.logger,
		metrics: newMetricsSink(cfg.namespace, cfg.registry),
	}
}

// NewOrderedDenseMap constructs a DenseMap that tracks insertion order.
func NewOrderedDenseMap[K comparable, M any](opts ...Option[K, Pair[K, M]]) *DenseMap[K, M] {
	cfg := applyOptions(opts)
	return &DenseMap[K, M]{
		tbl: dense.New(dense.Config[K, Pair[K, M]]{
			KeyOf:   pairKeyOf[K, M],
			HashKey: cfg.hashKey,
			KeyEq:   cfg.keyEq,
			Ordered: true,
		}),
		logger:  cfg.logger,
		metrics: newMetricsSink(cfg.namespace, cfg.registry),
	}
}

// Len returns the number of entries.
func (m *DenseMap[K, M]) Len() int { return m.tbl.Len() }

// Get looks up key, reporting whether it was present.
func (m *DenseMap[K, M]) Get(key K) (M, bool) {
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
func (m *DenseMap[K, M]) Put(key K, value M) bool {
	_, inserted := m.tbl.InsertOrAssign(Pair[K, M]{Key: key, Mapped: value})
	m.metrics.incInsert()
	m.metrics.setLen(m.tbl.Len())
	return inserted
}

// PutUnique inserts (key, value) only if key is absent, reporting whether it
// was newly inserted.
func (m *DenseMap[K, M]) PutUnique(key K, value M) bool {
	_, inserted := m.tbl.InsertUnique(Pair[K, M]{Key: key, Mapped: value})
	if inserted {
		m.metrics.incInsert()
		m.metrics.setLen(m.tbl.Len())
	}
	return inserted
}

// At looks up key, returning ErrKeyNotFound if it is absent.
func (m *DenseMap[K, M]) At(key K) (M, error) {
	v, ok := m.Get(key)
	if !ok {
		return v, ErrKeyNotFound
	}
	return v, nil
}

// MustGet looks up key, panicking if it is absent.
func (m *DenseMap[K, M]) MustGet(key K) M {
	v, err := m.At(key)
	if err != nil {
		panic(err)
	}
	return v
}

// Delete removes key, reporting whether it was present.
func (m *DenseMap[K, M]) Delete(key K) bool {
	ok := m.tbl.Erase(key)
	m.metrics.incErase(ok)
	m.metrics.setLen(m.tbl.Len())
	return ok
}

// Range calls fn for every (key, value) pair in dense-storage order.
func (m *DenseMap[K, M]) Range(fn func(K, M) bool) {
	m.tbl.Values(func(p Pair[K, M]) bool { return fn(p.Key, p.Mapped) })
}

// OrderedRange calls fn for every pair in insertion order. Panics unless
// constructed with NewOrderedDenseMap.
func (m *DenseMap[K, M]) OrderedRange(fn func(K, M) bool) {
	m.tbl.OrderedValues(func(p Pair[K, M]) bool { return fn(p.Key, p.Mapped) })
}

// Bucket walks only key's chain, exposing the dense engine's local iterator
// directly.
func (m *DenseMap[K, M]) Bucket(key K, fn func(K, M) bool) {
	m.tbl.Bucket(key, func(p Pair[K, M]) bool { return fn(p.Key, p.Mapped) })
}

// Clone returns an independent deep copy.
func (m *DenseMap[K, M]) Clone() *DenseMap[K, M] {
	return &DenseMap[K, M]{tbl: m.tbl.Clone(), logger: m.logger, metrics: m.metrics}
}
