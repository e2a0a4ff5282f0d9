package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "balance_dashboard"

// Refresh results.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultSkipped = "skipped"
)

// Metrics groups the collectors of the service. A nil *Metrics is valid and records nothing.
type Metrics struct {
	RefreshTotal    *prometheus.CounterVec
	RefreshDuration prometheus.Histogram
	TableRows       prometheus.Gauge
	SourceRequests  *prometheus.CounterVec
	CacheLookups    *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "table_refresh_total",
			Help:      "Balances table refresh attempts by result.",
		}, []string{"result"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "table_refresh_duration_seconds",
			Help:      "Duration of balances fetches performed by the table refresh.",
			Buckets:   prometheus.DefBuckets,
		}),
		TableRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "table_rows",
			Help:      "Rows currently rendered in the balances table.",
		}),
		SourceRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_requests_total",
			Help:      "Balance source calls by source and result.",
		}, []string{"source", "result"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Balance cache lookups by outcome (hit, miss, stale).",
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.RefreshTotal, m.RefreshDuration, m.TableRows, m.SourceRequests, m.CacheLookups)
	return m
}

// MustRegisterMetrics registers the collectors with the default Prometheus registry.
func MustRegisterMetrics() *Metrics {
	return New(prometheus.DefaultRegisterer)
}

func (m *Metrics) ObserveRefresh(result string, started time.Time, rows int) {
	if m == nil {
		return
	}
	m.RefreshTotal.WithLabelValues(result).Inc()
	if result == ResultSkipped {
		return
	}
	m.RefreshDuration.Observe(time.Since(started).Seconds())
	if result == ResultSuccess {
		m.TableRows.Set(float64(rows))
	}
}

func (m *Metrics) ObserveSource(source string, err error) {
	if m == nil {
		return
	}
	result := ResultSuccess
	if err != nil {
		result = ResultFailure
	}
	m.SourceRequests.WithLabelValues(source, result).Inc()
}

func (m *Metrics) ObserveCache(outcome string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(outcome).Inc()
}
