package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the markets API.
type Metrics struct {
	// HTTP surface
	HTTPRequestsTotal *prometheus.CounterVec   // labels: route, method, status
	HTTPRequestDur    *prometheus.HistogramVec // labels: route

	// Store adapters
	StoreQueryDur     *prometheus.HistogramVec // labels: backend, op
	StoreErrorsTotal  *prometheus.CounterVec   // labels: backend, op
	BarsNotFoundTotal prometheus.Counter

	// Indicator library
	IndicatorComputeDur   *prometheus.HistogramVec // labels: kind
	IndicatorPointsTotal  *prometheus.CounterVec   // labels: kind
	InsufficientDataTotal *prometheus.CounterVec   // labels: kind

	// News pagination
	NewsPagesTotal prometheus.Counter
	NewsItemsTotal prometheus.Counter

	// Bar cache
	CacheHitsTotal   prometheus.Counter
	CacheMissesTotal prometheus.Counter
	CacheErrorsTotal prometheus.Counter

	// Circuit breaker around the cache
	CacheCircuitBreakerState prometheus.Gauge // 0=closed, 1=open, 2=half-open
	CacheCircuitBreakerTrips prometheus.Counter
}

// NewMetrics creates all metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer in production and a fresh
// prometheus.NewRegistry() in tests.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketsapi_http_requests_total",
			Help: "HTTP requests served, by route, method and status",
		}, []string{"route", "method", "status"}),
		HTTPRequestDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketsapi_http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),

		StoreQueryDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketsapi_store_query_duration_seconds",
			Help:    "Backing store query latency",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"backend", "op"}),
		StoreErrorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketsapi_store_errors_total",
			Help: "Backing store query failures",
		}, []string{"backend", "op"}),
		BarsNotFoundTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketsapi_bars_not_found_total",
			Help: "Bar fetches that matched no rows",
		}),

		IndicatorComputeDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketsapi_indicator_compute_duration_seconds",
			Help:    "Indicator compute latency per series",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
		}, []string{"kind"}),
		IndicatorPointsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketsapi_indicator_points_total",
			Help: "Indicator points computed",
		}, []string{"kind"}),
		InsufficientDataTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "marketsapi_indicator_insufficient_data_total",
			Help: "Indicator requests whose window was shorter than the warm-up",
		}, []string{"kind"}),

		NewsPagesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketsapi_news_pages_total",
			Help: "News pages served",
		}),
		NewsItemsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketsapi_news_items_total",
			Help: "News items served across all pages",
		}),

		CacheHitsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketsapi_bar_cache_hits_total",
			Help: "Bar queries served from Redis",
		}),
		CacheMissesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketsapi_bar_cache_misses_total",
			Help: "Bar queries that fell through to the store",
		}),
		CacheErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketsapi_bar_cache_errors_total",
			Help: "Redis failures while reading or filling the bar cache",
		}),

		CacheCircuitBreakerState: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "marketsapi_cache_circuit_breaker_state",
			Help: "Redis circuit breaker state (0=closed, 1=open, 2=half-open)",
		}),
		CacheCircuitBreakerTrips: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "marketsapi_cache_circuit_breaker_trips_total",
			Help: "Times the Redis circuit breaker tripped open",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDur,
		m.StoreQueryDur,
		m.StoreErrorsTotal,
		m.BarsNotFoundTotal,
		m.IndicatorComputeDur,
		m.IndicatorPointsTotal,
		m.InsufficientDataTotal,
		m.NewsPagesTotal,
		m.NewsItemsTotal,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.CacheErrorsTotal,
		m.CacheCircuitBreakerState,
		m.CacheCircuitBreakerTrips,
	)

	return m
}

// ObserveStore records one store query. Safe on a nil receiver.
func (m *Metrics) ObserveStore(backend, op string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.StoreQueryDur.WithLabelValues(backend, op).Observe(time.Since(start).Seconds())
	if err != nil {
		m.StoreErrorsTotal.WithLabelValues(backend, op).Inc()
	}
}
