package prometheus

import (
	"strconv"
	"time"
)

// AppMetrics holds every metric the service exports.
type AppMetrics struct {
	// HTTP
	HTTPRequestsTotal   CounterVec
	HTTPRequestDuration HistogramVec
	HTTPActiveRequests  GaugeVec

	// Oracle
	OracleRequestsTotal   CounterVec
	OracleRequestDuration HistogramVec

	// Simulation and library
	SimulationsTotal     CounterVec
	SimulationDuration   HistogramVec
	MaterialsSavedTotal  CounterVec
	ExportsTotal         CounterVec
	EventsPublishedTotal CounterVec
	ReindexRunsTotal     CounterVec
	IndexedDocuments     GaugeVec

	// Infrastructure
	DBQueryDuration   HistogramVec
	HealthCheckStatus GaugeVec
}

var (
	DefaultHTTPDurationBuckets   = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	DefaultOracleDurationBuckets = []float64{.5, 1, 2, 5, 10, 30, 60, 120}
	DefaultDBDurationBuckets     = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 5}
)

// NewAppMetrics registers all metrics on collector.
func NewAppMetrics(collector MetricsCollector) *AppMetrics {
	m := &AppMetrics{}

	m.HTTPRequestsTotal = collector.RegisterCounter("http_requests_total", "Total HTTP requests", "method", "path", "status_code")
	m.HTTPRequestDuration = collector.RegisterHistogram("http_request_duration_seconds", "HTTP request duration", DefaultHTTPDurationBuckets, "method", "path")
	m.HTTPActiveRequests = collector.RegisterGauge("http_active_requests", "In-flight HTTP requests", "method")

	m.OracleRequestsTotal = collector.RegisterCounter("oracle_requests_total", "Oracle completions by operation and outcome", "operation", "backend", "status")
	m.OracleRequestDuration = collector.RegisterHistogram("oracle_request_duration_seconds", "Oracle completion latency", DefaultOracleDurationBuckets, "operation", "backend")

	m.SimulationsTotal = collector.RegisterCounter("simulations_total", "Simulations run", "kind", "status")
	m.SimulationDuration = collector.RegisterHistogram("simulation_duration_seconds", "Simulation latency", DefaultOracleDurationBuckets, "kind")
	m.MaterialsSavedTotal = collector.RegisterCounter("materials_saved_total", "Materials saved to the library", "category")
	m.ExportsTotal = collector.RegisterCounter("exports_total", "Material exports", "target", "status")
	m.EventsPublishedTotal = collector.RegisterCounter("events_published_total", "Domain events published", "event_type", "status")
	m.ReindexRunsTotal = collector.RegisterCounter("catalog_reindex_runs_total", "Catalog reindex runs", "status")
	m.IndexedDocuments = collector.RegisterGauge("catalog_indexed_documents", "Documents written by the last reindex", "source")

	m.DBQueryDuration = collector.RegisterHistogram("db_query_duration_seconds", "Database query duration", DefaultDBDurationBuckets, "operation")
	m.HealthCheckStatus = collector.RegisterGauge("health_check_status", "Health check status (1=up, 0=down)", "component")

	return m
}

func status(err error) string {
	if err != nil {
		return "failure"
	}
	return "success"
}

// RecordHTTPRequest records one served request.
func (m *AppMetrics) RecordHTTPRequest(method, path string, code int, d time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(code)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

// RecordOracleCall records one completion against backend.
func (m *AppMetrics) RecordOracleCall(operation, backend string, d time.Duration, err error) {
	m.OracleRequestsTotal.WithLabelValues(operation, backend, status(err)).Inc()
	m.OracleRequestDuration.WithLabelValues(operation, backend).Observe(d.Seconds())
}

// RecordSimulation records one simulation of the given kind.
func (m *AppMetrics) RecordSimulation(kind string, d time.Duration, err error) {
	m.SimulationsTotal.WithLabelValues(kind, status(err)).Inc()
	m.SimulationDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// RecordMaterialSaved counts a saved material.
func (m *AppMetrics) RecordMaterialSaved(category string) {
	m.MaterialsSavedTotal.WithLabelValues(category).Inc()
}

// RecordExport counts an export to target ("download" or "object-store").
func (m *AppMetrics) RecordExport(target string, err error) {
	m.ExportsTotal.WithLabelValues(target, status(err)).Inc()
}

// RecordEvent counts a published domain event.
func (m *AppMetrics) RecordEvent(eventType string, err error) {
	m.EventsPublishedTotal.WithLabelValues(eventType, status(err)).Inc()
}

// RecordReindex records a reindex run and how many documents it wrote.
func (m *AppMetrics) RecordReindex(source string, docs int, err error) {
	m.ReindexRunsTotal.WithLabelValues(status(err)).Inc()
	if err == nil {
		m.IndexedDocuments.WithLabelValues(source).Set(float64(docs))
	}
}

// RecordDBQuery observes a repository query.
func (m *AppMetrics) RecordDBQuery(operation string, d time.Duration) {
	m.DBQueryDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// SetHealth publishes a component's health.
func (m *AppMetrics) SetHealth(component string, up bool) {
	v := 0.0
	if up {
		v = 1
	}
	m.HealthCheckStatus.WithLabelValues(component).Set(v)
}
