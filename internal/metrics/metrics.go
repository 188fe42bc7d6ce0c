// Package metrics exposes the dashboard prometheus collectors.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeOK            = "ok"
	OutcomeEmpty         = "empty"
	OutcomeStartNotFound = "start_not_found"
	OutcomeInvalidInput  = "invalid_input"
)

type Metrics struct {
	registry       *prometheus.Registry
	windowRequests *prometheus.CounterVec
	windowRows     prometheus.Histogram
	httpDuration   *prometheus.HistogramVec
	datasetRows    prometheus.Gauge
}

// New registers the dashboard collectors along with the go and process collectors on reg. A nil
// reg gets a fresh registry.
func New(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		windowRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dashboard_window_requests_total",
			Help: "Total count of window compositions by outcome.",
		}, []string{"outcome"}),
		windowRows: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "dashboard_window_rows",
			Help:    "Histogram of rows returned per composed window.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 12),
		}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dashboard_http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations by route, method and status.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		datasetRows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dashboard_dataset_rows",
			Help: "Rows of the loaded dataset.",
		}),
	}
}

func (m *Metrics) ObserveWindow(outcome string, rows int) {
	if m == nil {
		return
	}
	m.windowRequests.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		m.windowRows.Observe(float64(rows))
	}
}

func (m *Metrics) ObserveRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(duration.Seconds())
}

func (m *Metrics) SetDatasetRows(rows int) {
	if m == nil {
		return
	}
	m.datasetRows.Set(float64(rows))
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
