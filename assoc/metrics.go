package assoc

import "github.com/prometheus/client_golang/prometheus"

// metricsSink abstracts away the concrete backend (Prometheus vs noop), the
// same split as Voskan-arena-cache/pkg/metrics.go's metricsSink: a container
// constructed without WithMetrics pays nothing on the hot path. No façade
// calls incRehash, so rehashes_total stays at zero.
type metricsSink interface {
	incInsert()
	incFind(hit bool)
	incErase(hit bool)
	incRehash(kind string) // "grow" or "in_place"
	setLen(n int)
}

type noopMetrics struct{}

func (noopMetrics) incInsert()       {}
func (noopMetrics) incFind(bool)     {}
func (noopMetrics) incErase(bool)    {}
func (noopMetrics) incRehash(string) {}
func (noopMetrics) setLen(int)       {}

type promMetrics struct {
	inserts prometheus.Counter
	finds   *prometheus.CounterVec // labeled "hit"/"miss"
	erases  *prometheus.CounterVec
	rehash  *prometheus.CounterVec // labeled "grow"/"in_place"
	length  prometheus.Gauge
}

func newPromMetrics(namespace string, reg *prometheus.Registry) *promMetrics {
	pm := &promMetrics{
		inserts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inserts_total",
			Help:      "Number of Insert/InsertUnique calls.",
		}),
		finds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "finds_total",
			Help:      "Number of Find calls, labeled by outcome.",
		}, []string{"outcome"}),
		erases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "erases_total",
			Help:      "Number of Erase calls, labeled by outcome.",
		}, []string{"outcome"}),
		rehash: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rehashes_total",
			Help:      "Number of rehash operations, labeled by kind.",
		}, []string{"kind"}),
		length: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "len",
			Help:      "Current number of live entries.",
		}),
	}
	reg.MustRegister(pm.inserts, pm.finds, pm.erases, pm.rehash, pm.length)
	return pm
}

func (m *promMetrics) incInsert() { m.inserts.Inc() }

func (m *promMetrics) incFind(hit bool) {
	m.finds.WithLabelValues(outcome(hit)).Inc()
}

func (m *promMetrics) incErase(hit bool) {
	m.erases.WithLabelValues(outcome(hit)).Inc()
}

func (m *promMetrics) incRehash(kind string) {
	m.rehash.WithLabelValues(kind).Inc()
}

func (m *promMetrics) setLen(n int) { m.length.Set(float64(n)) }

func outcome(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

// newMetricsSink decides which implementation to use, mirroring
// pkg/metrics.go's newMetricsSink: a nil registry means the caller did not
// opt in via WithMetrics, so the noop path is used.
func newMetricsSink(namespace string, reg *prometheus.Registry) metricsSink {
	if reg == nil {
		return noopMetrics{}
	}
	return newPromMetrics(namespace, reg)
}
