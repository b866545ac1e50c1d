// Package metrics implements the observability hooks with Prometheus
// collectors registered on a private registry.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/stationflow/pkg/observability"
)

// Metrics holds the stationflow collectors.
type Metrics struct {
	reg *prometheus.Registry

	arrangeRuns     *prometheus.CounterVec
	arrangeNodes    prometheus.Counter
	arrangeDuration *prometheus.HistogramVec

	planRuns        *prometheus.CounterVec
	planRoutes      prometheus.Counter
	planUnresolved  prometheus.Counter
	planDuration    prometheus.Histogram
	planAssignments prometheus.Counter

	cacheOps   *prometheus.CounterVec
	cacheBytes prometheus.Counter

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec
}

var durationBuckets = []float64{0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000}

// New creates the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,

		arrangeRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stationflow_arrange_runs_total",
			Help: "Arrangement runs, labelled by mode and status.",
		}, []string{"mode", "status"}),
		arrangeNodes: f.NewCounter(prometheus.CounterOpts{
			Name: "stationflow_arrange_nodes_total",
			Help: "Nodes passed to the arranger.",
		}),
		arrangeDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stationflow_arrange_duration_ms",
			Help:    "Arrangement latency in milliseconds.",
			Buckets: durationBuckets,
		}, []string{"mode"}),

		planRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stationflow_plan_runs_total",
			Help: "Path planning runs, labelled by status.",
		}, []string{"status"}),
		planRoutes: f.NewCounter(prometheus.CounterOpts{
			Name: "stationflow_plan_routes_total",
			Help: "Station pairs considered by the path builder.",
		}),
		planUnresolved: f.NewCounter(prometheus.CounterOpts{
			Name: "stationflow_plan_routes_unresolved_total",
			Help: "Station pairs without a path.",
		}),
		planDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "stationflow_plan_duration_ms",
			Help:    "Path planning latency in milliseconds.",
			Buckets: durationBuckets,
		}),
		planAssignments: f.NewCounter(prometheus.CounterOpts{
			Name: "stationflow_plan_assignments_total",
			Help: "Waypoint assignments committed to models.",
		}),

		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stationflow_cache_operations_total",
			Help: "Cache lookups and writes, labelled by key type and result.",
		}, []string{"key_type", "result"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Name: "stationflow_cache_written_bytes_total",
			Help: "Bytes written to the result cache.",
		}),

		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "stationflow_http_requests_total",
			Help: "API requests, labelled by method, route and status code.",
		}, []string{"method", "route", "code"}),
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stationflow_http_request_duration_ms",
			Help:    "API request latency in milliseconds.",
			Buckets: durationBuckets,
		}, []string{"method", "route"}),
	}
}

// Register installs m as the global observability hooks.
func (m *Metrics) Register() {
	observability.SetArrangeHooks(m)
	observability.SetPlanHooks(m)
	observability.SetCacheHooks(m)
	observability.SetHTTPHooks(m)
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the collected metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// WriteFile writes the metrics to path for the node exporter textfile
// collector.
func (m *Metrics) WriteFile(path string) error {
	return prometheus.WriteToTextfile(path, m.reg)
}

func (m *Metrics) OnArrangeStart(_ context.Context, _ string, nodeCount int) {
	m.arrangeNodes.Add(float64(nodeCount))
}

func (m *Metrics) OnArrangeComplete(_ context.Context, mode string, _ int, d time.Duration, err error) {
	m.arrangeRuns.WithLabelValues(mode, status(err)).Inc()
	m.arrangeDuration.WithLabelValues(mode).Observe(ms(d))
}

func (m *Metrics) OnPlanStart(context.Context, int) {}

func (m *Metrics) OnPlanComplete(_ context.Context, routes, unresolved int, d time.Duration, err error) {
	m.planRuns.WithLabelValues(status(err)).Inc()
	m.planRoutes.Add(float64(routes))
	m.planUnresolved.Add(float64(unresolved))
	m.planDuration.Observe(ms(d))
}

func (m *Metrics) OnCommit(_ context.Context, assignments int) {
	m.planAssignments.Add(float64(assignments))
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheOps.WithLabelValues(keyType, "set").Inc()
	m.cacheBytes.Add(float64(size))
}

func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(ms(d))
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func ms(d time.Duration) float64 { return float64(d) / float64(time.Millisecond) }

var (
	_ observability.ArrangeHooks = (*Metrics)(nil)
	_ observability.PlanHooks    = (*Metrics)(nil)
	_ observability.CacheHooks   = (*Metrics)(nil)
	_ observability.HTTPHooks    = (*Metrics)(nil)
)
