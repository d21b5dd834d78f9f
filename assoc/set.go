package assoc

import (
	"go.uber.org/zap"

	"github.com/Voskan/arena-table/sparse"
)

// Set is an unordered collection of unique keys, backed by the sparse
// (SwissTable) engine with K == V and an identity KeyOf, per §11's
// façade-over-core layering.
type Set[K comparable] struct {
	tbl     *sparse.Table[K, K]
	logger  *zap.Logger
	metrics metricsSink
}

// NewSet constructs an empty Set.
func NewSet[K comparable](opts ...Option[K, K]) *Set[K] {
	cfg := applyOptions(opts)
	return &Set[K]{
		tbl: sparse.New(sparse.Config[K, K]{
			KeyOf:   func(k K) K { return k },
			HashKey: cfg.hashKey,
			KeyEq:   cfg.keyEq,
		}),
		logger:  cfg.logger,
		metrics: newMetricsSink(cfg.namespace, cfg.registry),
	}
}

// NewOrderedSet constructs a Set that additionally tracks insertion order,
// exposed via Range's ordered counterpart OrderedRange.
func NewOrderedSet[K comparable](opts ...Option[K, K]) *Set[K] {
	cfg := applyOptions(opts)
	return &Set[K]{
		tbl: sparse.New(sparse.Config[K, K]{
			KeyOf:   func(k K) K { return k },
			HashKey: cfg.hashKey,
			KeyEq:   cfg.keyEq,
			Ordered: true,
		}),
		logger:  cfg.logger,
		metrics: newMetricsSink(cfg.namespace, cfg.registry),
	}
}

// NewStableSet constructs a Set under the stable node-storage discipline:
// elements are heap-allocated individually so each element's cell keeps its
// address across growth and erase of unrelated elements. Set has no method
// that hands out a reference to that cell.
func NewStableSet[K comparable](opts ...Option[K, K]) *Set[K] {
	cfg := applyOptions(opts)
	return &Set[K]{
		tbl: sparse.New(sparse.Config[K, K]{
			KeyOf:   func(k K) K { return k },
			HashKey: cfg.hashKey,
			KeyEq:   cfg.keyEq,
			Stable:  true,
		}),
		logger:  cfg.logger,
		metrics: newMetricsSink(cfg.namespace, cfg.registry),
	}
}

// Len returns the number of elements.
func (s *Set[K]) Len() int { return s.tbl.Len() }

// Contains reports whether key is a member.
func (s *Set[K]) Contains(key K) bool {
	_, ok := s.tbl.Find(key)
	s.metrics.incFind(ok)
	return ok
}

// Add inserts key, reporting whether it was newly added.
func (s *Set[K]) Add(key K) bool {
	_, inserted := s.tbl.Insert(key)
	s.metrics.incInsert()
	s.metrics.setLen(s.tbl.Len())
	return inserted
}

// AddUnique inserts key, reporting whether it was newly added (the same
// contract as Add — a Set has no separate value to overwrite, so the two
// only differ by name).
func (s *Set[K]) AddUnique(key K) bool {
	_, inserted := s.tbl.InsertUnique(key)
	if inserted {
		s.metrics.incInsert()
		s.metrics.setLen(s.tbl.Len())
	}
	return inserted
}

// Remove deletes key, reporting whether it was present.
func (s *Set[K]) Remove(key K) bool {
	ok := s.tbl.Erase(key)
	s.metrics.incErase(ok)
	s.metrics.setLen(s.tbl.Len())
	return ok
}

// Range calls fn for every element, stopping early if fn returns false.
func (s *Set[K]) Range(fn func(K) bool) { s.tbl.Values(fn) }

// OrderedRange calls fn for every element in insertion order. Panics if the
// set was not constructed with NewOrderedSet.
func (s *Set[K]) OrderedRange(fn func(K) bool) { s.tbl.OrderedValues(fn) }

// Clone returns an independent deep copy.
func (s *Set[K]) Clone() *Set[K] {
	return &Set[K]{tbl: s.tbl.Clone(), logger: s.logger, metrics: s.metrics}
}

// Equal reports whether two sets contain the same elements.
func (s *Set[K]) Equal(other *Set[K]) bool {
	return s.tbl.Equal(other.tbl, func(a, b K) bool { return a == b })
}
