package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	globalMetrics *Metrics
	metricsOnce   sync.Once
)

// Metrics holds Prometheus metrics for task extraction.
type Metrics struct {
	ExtractionsTotal   *prometheus.CounterVec
	ExtractionDuration *prometheus.HistogramVec
	ItemsExtracted     *prometheus.CounterVec
	CacheHitsTotal     prometheus.Counter
	CacheMissesTotal   prometheus.Counter
	PersistFailures    prometheus.Counter
}

// New creates and registers the extraction metrics once per process.
//
// Metrics:
//   - taskextract_extractions_total{provider,result}
//   - taskextract_extraction_duration_seconds{provider}
//   - taskextract_items_total{provider,kind} (kind is done or pending)
//   - taskextract_cache_hits_total / taskextract_cache_misses_total
//   - taskextract_persist_failures_total
func New() *Metrics {
	metricsOnce.Do(func() {
		globalMetrics = &Metrics{
			ExtractionsTotal: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "taskextract_extractions_total",
					Help: "Total number of extraction requests",
				},
				[]string{"provider", "result"},
			),
			ExtractionDuration: promauto.NewHistogramVec(
				prometheus.HistogramOpts{
					Name:    "taskextract_extraction_duration_seconds",
					Help:    "Duration of extractions in seconds",
					Buckets: prometheus.DefBuckets,
				},
				[]string{"provider"},
			),
			ItemsExtracted: promauto.NewCounterVec(
				prometheus.CounterOpts{
					Name: "taskextract_items_total",
					Help: "Total number of work items extracted",
				},
				[]string{"provider", "kind"},
			),
			CacheHitsTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "taskextract_cache_hits_total",
				Help: "Total number of result cache hits",
			}),
			CacheMissesTotal: promauto.NewCounter(prometheus.CounterOpts{
				Name: "taskextract_cache_misses_total",
				Help: "Total number of result cache misses",
			}),
			PersistFailures: promauto.NewCounter(prometheus.CounterOpts{
				Name: "taskextract_persist_failures_total",
				Help: "Extraction runs that could not be stored",
			}),
		}
	})
	return globalMetrics
}

// ObserveExtraction records the outcome of one extraction.
// Safe to call on a nil receiver.
func (m *Metrics) ObserveExtraction(provider string, elapsed time.Duration, done, pending int, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.ExtractionsTotal.WithLabelValues(provider, result).Inc()
	m.ExtractionDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
	if err == nil {
		m.ItemsExtracted.WithLabelValues(provider, "done").Add(float64(done))
		m.ItemsExtracted.WithLabelValues(provider, "pending").Add(float64(pending))
	}
}

// ObserveCache records a cache lookup
func (m *Metrics) ObserveCache(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.Inc()
		return
	}
	m.CacheMissesTotal.Inc()
}

// ObservePersistFailure counts a failed history write
func (m *Metrics) ObservePersistFailure() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}
