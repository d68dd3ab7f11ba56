package compile

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	modelCursor = "cursor"
	modelPage   = "page"

	statusSuccess = "success"
	statusError   = "error"
)

// metrics is a container of metrics for a compiler. The cache counters are
// exported as read-only views over the cache's own counters so that the
// Prometheus numbers and [CacheStats] can never drift apart.
type metrics struct {
	compilationsTotal *prometheus.CounterVec
	compileSeconds    *prometheus.HistogramVec
}

func newMetrics(reg prometheus.Registerer, cache *artifactCache) *metrics {
	m := &metrics{
		compilationsTotal: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "vireo_compilations_total",
			Help: "Total number of artifact compilations by execution model and outcome",
		}, []string{"model", "status"}),

		compileSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name: "vireo_compile_duration_seconds",
			Help: "Number of seconds spent generating artifacts",

			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: time.Hour,
		}, []string{"model"}),
	}

	promauto.With(reg).NewCounterFunc(prometheus.CounterOpts{
		Name: "vireo_compile_cache_hits_total",
		Help: "Total number of compilation requests resolved from the artifact cache",
	}, func() float64 { return float64(cache.stats().Hits) })

	promauto.With(reg).NewCounterFunc(prometheus.CounterOpts{
		Name: "vireo_compile_cache_misses_total",
		Help: "Total number of compilation requests that required a compilation",
	}, func() float64 { return float64(cache.stats().Misses) })

	promauto.With(reg).NewCounterFunc(prometheus.CounterOpts{
		Name: "vireo_compile_cache_evictions_total",
		Help: "Total number of cached artifacts dropped by the size bound",
	}, func() float64 { return float64(cache.stats().Evictions) })

	promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Name: "vireo_compile_cache_entries",
		Help: "Current number of cached artifacts",
	}, func() float64 { return float64(cache.len()) })

	return m
}
