// Package assoc provides the public, façade-level containers built on top
// of the sparse and dense engines: Set, Map, their ordered and stable
// variants, a two-key MultiIndex, and the dense-engine counterparts. The
// façades are deliberately thin — construct the right engine Config and
// forward calls — since the engines themselves carry the actual logic.
//
// Functional-options configuration, nil-safe defaults and the
// logger/metrics knobs below are grounded on
// Voskan-arena-cache/pkg/config.go's Option[K,V]/config[K,V]/applyOptions
// shape.
package assoc

import (
	"go.uber.org/zap"

	"github.com/prometheus/client_golang/prometheus"
)

// config bundles every knob a façade constructor accepts. All fields have
// workable zero values; Option functions only need to set what they want to
// override.
type config[K comparable, V any] struct {
	logger    *zap.Logger
	registry  *prometheus.Registry
	namespace string
	hashKey   func(K) uint64
	keyEq     func(K, K) bool
}

func defaultConfig[K comparable, V any]() *config[K, V] {
	return &config[K, V]{
		logger:    zap.NewNop(),
		namespace: "arena_table",
	}
}

// Option configures a façade constructor. It is generic so options that
// refer to the concrete key/value types (hash, equality) stay type-safe.
type Option[K comparable, V any] func(*config[K, V])

// WithLogger plugs an external zap.Logger. Façades store it, but no façade
// method writes to it.
func WithLogger[K comparable, V any](l *zap.Logger) Option[K, V] {
	return func(c *config[K, V]) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics enables Prometheus metrics collection under the given
// registry. Passing nil disables metrics (the default).
func WithMetrics[K comparable, V any](reg *prometheus.Registry) Option[K, V] {
	return func(c *config[K, V]) { c.registry = reg }
}

// WithNamespace overrides the Prometheus metric name prefix (default
// "arena_table").
func WithNamespace[K comparable, V any](ns string) Option[K, V] {
	return func(c *config[K, V]) {
		if ns != "" {
			c.namespace = ns
		}
	}
}

// WithHasher overrides the default seeded hash/maphash hasher.
func WithHasher[K comparable, V any](fn func(K) uint64) Option[K, V] {
	return func(c *config[K, V]) { c.hashKey = fn }
}

// WithEqual overrides the default == key comparison, e.g. for
// case-insensitive string keys.
func WithEqual[K comparable, V any](fn func(K, K) bool) Option[K, V] {
	return func(c *config[K, V]) { c.keyEq = fn }
}

func applyOptions[K comparable, V any](opts []Option[K, V]) *config[K, V] {
	cfg := defaultConfig[K, V]()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
