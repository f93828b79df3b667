package prometheus

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics(t *testing.T) (*AppMetrics, MetricsCollector) {
	t.Helper()
	c, err := NewMetricsCollector(CollectorConfig{Namespace: "matforge"}, nil)
	require.NoError(t, err)
	return NewAppMetrics(c), c
}

func TestAppMetrics_HTTP(t *testing.T) {
	m, c := newTestMetrics(t)
	m.RecordHTTPRequest("GET", "/api/v1/materials", 200, 30*time.Millisecond)

	out := scrape(t, c)
	assert.Contains(t, out, `matforge_http_requests_total{method="GET",path="/api/v1/materials",status_code="200"} 1`)
	assert.Contains(t, out, `matforge_http_request_duration_seconds_count{method="GET",path="/api/v1/materials"} 1`)
}

func TestAppMetrics_OracleAndSimulation(t *testing.T) {
	m, c := newTestMetrics(t)
	m.RecordOracleCall("predict_properties", "openai", time.Second, nil)
	m.RecordOracleCall("predict_properties", "openai", time.Second, errors.New("boom"))
	m.RecordSimulation("polymer", time.Millisecond, nil)

	out := scrape(t, c)
	assert.Contains(t, out, `matforge_oracle_requests_total{backend="openai",operation="predict_properties",status="success"} 1`)
	assert.Contains(t, out, `matforge_oracle_requests_total{backend="openai",operation="predict_properties",status="failure"} 1`)
	assert.Contains(t, out, `matforge_simulations_total{kind="polymer",status="success"} 1`)
}

func TestAppMetrics_Library(t *testing.T) {
	m, c := newTestMetrics(t)
	m.RecordMaterialSaved("alloy")
	m.RecordExport("object-store", nil)
	m.RecordEvent("material.saved", nil)
	m.RecordReindex("catalog", 10, nil)
	m.RecordReindex("catalog", 0, errors.New("down"))
	m.RecordDBQuery("insert", time.Millisecond)
	m.SetHealth("postgres", true)
	m.SetHealth("redis", false)

	out := scrape(t, c)
	for _, want := range []string{
		`matforge_materials_saved_total{category="alloy"} 1`,
		`matforge_exports_total{status="success",target="object-store"} 1`,
		`matforge_events_published_total{event_type="material.saved",status="success"} 1`,
		`matforge_catalog_reindex_runs_total{status="success"} 1`,
		`matforge_catalog_reindex_runs_total{status="failure"} 1`,
		`matforge_catalog_indexed_documents{source="catalog"} 10`,
		`matforge_db_query_duration_seconds_count{operation="insert"} 1`,
		`matforge_health_check_status{component="postgres"} 1`,
		`matforge_health_check_status{component="redis"} 0`,
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "cache_access_total")
}
