package metrics

import (
	"net/http"
	"time"

	"github.com/ppiankov/knowval/internal/cache"
	"github.com/ppiankov/knowval/internal/model"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records validation metrics on its own registry.
//
// Metrics (namespace defaults to "knowval"):
//   - validations_total{mode}: finished validations
//   - validation_duration_seconds: engine plus narrative latency
//   - issues_total{code,severity}: reported issues
//   - last_issues: issues in the most recent report
//   - record_cache_hits_total / record_cache_misses_total: store cache counters
type Collector struct {
	registry    *prometheus.Registry
	validations *prometheus.CounterVec
	duration    prometheus.Histogram
	issues      *prometheus.CounterVec
	lastIssues  prometheus.Gauge
}

// NewCollector creates a collector and registers its metrics
func NewCollector(cfg model.MetricsConfig) *Collector {
	namespace := cfg.Namespace
	if namespace == "" {
		namespace = "knowval"
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validations_total",
				Help:      "Total number of finished validations",
			},
			[]string{"mode"},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "validation_duration_seconds",
				Help:      "Validation latency including the optional narrative",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.5, 1, 2, 5, 10, 20, 30},
			},
		),
		issues: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "issues_total",
				Help:      "Total number of reported issues",
			},
			[]string{"code", "severity"},
		),
		lastIssues: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_issues",
				Help:      "Number of issues in the most recent report",
			},
		),
	}

	c.registry.MustRegister(c.validations, c.duration, c.issues, c.lastIssues)
	return c
}

// ObserveReport records one finished validation
func (c *Collector) ObserveReport(report *model.ValidationReport, elapsed time.Duration) {
	c.validations.WithLabelValues(string(report.Mode)).Inc()
	c.duration.Observe(elapsed.Seconds())
	for _, issue := range report.Issues {
		c.issues.WithLabelValues(string(issue.Code), string(issue.Severity)).Inc()
	}
	c.lastIssues.Set(float64(report.Summary.IssuesTotal))
}

// RegisterCacheStats exposes record cache counters read from stats at scrape time
func (c *Collector) RegisterCacheStats(namespace string, stats func() cache.Stats) {
	if namespace == "" {
		namespace = "knowval"
	}
	c.registry.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_cache_hits_total",
			Help:      "Store reads served from the record cache",
		}, func() float64 { return float64(stats().Hits) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_cache_misses_total",
			Help:      "Store reads that went to disk",
		}, func() float64 { return float64(stats().Misses) }),
	)
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
