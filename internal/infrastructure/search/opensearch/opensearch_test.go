package opensearch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	opensearchgo "github.com/opensearch-project/opensearch-go/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/MatForge/internal/config"
	"github.com/turtacn/MatForge/internal/domain/composition"
	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/pkg/errors"
)

type seenRequest struct {
	method, path, query string
	body                []byte
}

type fakeCluster struct {
	mu      sync.Mutex
	seen    []seenRequest
	handler func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeCluster) last() seenRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[len(f.seen)-1]
}

func newFakeCluster(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) (*fakeCluster, *httptest.Server) {
	t.Helper()
	f := &fakeCluster{handler: handler}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.seen = append(f.seen, seenRequest{r.Method, r.URL.Path, r.URL.RawQuery, body})
		f.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		f.handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func newTestIndex(t *testing.T, url string) *MaterialIndex {
	t.Helper()
	os, err := opensearchgo.NewClient(opensearchgo.Config{Addresses: []string{url}})
	require.NoError(t, err)
	return NewMaterialIndex(newClient(os, nil), "mf")
}

func brass() *material.Material {
	return &material.Material{
		ID:          "5d0c9c43-53a4-4ef0-9d5e-3a5e0b3f8c11",
		Name:        "Brass",
		Category:    material.CategoryAlloy,
		Composition: composition.Composition{"Zn": 40, "Cu": 60},
		Properties:  material.Properties{Mechanical: material.Mechanical{TensileStrength: material.Float(340)}},
		CreatedAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestNewClient(t *testing.T) {
	_, err := NewClient(context.Background(), config.OpenSearchConfig{}, nil)
	assert.Equal(t, ErrInvalidConfig, err)

	_, srv := newFakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"version":{"number":"2.11.0","distribution":"opensearch"}}`)
	})
	c, err := NewClient(context.Background(), config.OpenSearchConfig{Addresses: []string{srv.URL}}, nil)
	require.NoError(t, err)
	assert.True(t, c.IsHealthy())
	assert.NoError(t, c.Close())
}

func TestClient_PingErrorStatus(t *testing.T) {
	_, srv := newFakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	x := newTestIndex(t, srv.URL)
	assert.Error(t, x.client.HealthCheck(context.Background()))
	assert.False(t, x.client.IsHealthy())
}

func TestEnsureIndex_Creates(t *testing.T) {
	f, srv := newFakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, `{"acknowledged":true}`)
	})
	x := newTestIndex(t, srv.URL)
	assert.Equal(t, "mf-materials", x.Name())

	require.NoError(t, x.EnsureIndex(context.Background()))
	req := f.last()
	assert.Equal(t, http.MethodPut, req.method)
	assert.Equal(t, "/mf-materials", req.path)
	assert.Contains(t, string(req.body), `"elements":{"type":"keyword"}`)
}

func TestEnsureIndex_Exists(t *testing.T) {
	f, srv := newFakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	x := newTestIndex(t, srv.URL)

	require.NoError(t, x.EnsureIndex(context.Background()))
	assert.Len(t, f.seen, 1)
}

func TestIndex(t *testing.T) {
	f, srv := newFakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"result":"created"}`)
	})
	x := newTestIndex(t, srv.URL)
	m := brass()

	require.NoError(t, x.Index(context.Background(), m))
	req := f.last()
	assert.Equal(t, "/mf-materials/_doc/"+m.ID, req.path)
	assert.Contains(t, req.query, "refresh=wait_for")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(req.body, &doc))
	assert.Equal(t, "Brass", doc["name"])
	assert.Equal(t, []any{"Cu", "Zn"}, doc["elements"])
	assert.Equal(t, SourceLibrary, doc["source"])
}

func TestIndex_ClusterError(t *testing.T) {
	_, srv := newFakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error":{"type":"mapper_parsing_exception","reason":"failed to parse"}}`)
	})
	x := newTestIndex(t, srv.URL)

	err := x.Index(context.Background(), brass())
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
	assert.Contains(t, err.Error(), "mapper_parsing_exception")
}

func TestBulkIndex(t *testing.T) {
	f, srv := newFakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"errors":true,"items":[
			{"index":{"_id":"steel","status":201}},
			{"index":{"_id":"bad","status":400,"error":{"type":"mapper_parsing_exception","reason":"bad date"}}}]}`)
	})
	x := newTestIndex(t, srv.URL)
	items := []material.Material{*brass(), *brass()}
	items[0].ID, items[1].ID = "steel", "bad"

	res, err := x.BulkIndex(context.Background(), items, SourceCatalog)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Succeeded)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, []BulkItemError{{DocID: "bad", Type: "mapper_parsing_exception", Reason: "bad date"}}, res.Errors)

	req := f.last()
	assert.Equal(t, "/_bulk", req.path)
	lines := strings.Split(strings.TrimSpace(string(req.body)), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], `"_id":"steel"`)
	assert.Contains(t, lines[1], `"source":"catalog"`)
}

func TestBulkIndex_Empty(t *testing.T) {
	x := newTestIndex(t, "http://127.0.0.1:1")
	res, err := x.BulkIndex(context.Background(), nil, SourceCatalog)
	require.NoError(t, err)
	assert.Zero(t, res.Succeeded)
}

func TestSearch(t *testing.T) {
	src, _ := json.Marshal(toDoc(brass(), SourceLibrary))
	f, srv := newFakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"took":3,"hits":{"total":{"value":2},"hits":[
			{"_id":"1","_source":`+string(src)+`},
			{"_id":"2","_source":"not an object"}]}}`)
	})
	x := newTestIndex(t, srv.URL)

	got, err := x.Search(context.Background(), " brass ", 500)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, brass(), got[0])

	req := f.last()
	assert.Equal(t, "/mf-materials/_search", req.path)
	var dsl map[string]any
	require.NoError(t, json.Unmarshal(req.body, &dsl))
	assert.EqualValues(t, MaxSearchLimit, dsl["size"])
	mm := dsl["query"].(map[string]any)["multi_match"].(map[string]any)
	assert.Equal(t, "brass", mm["query"])
	assert.Equal(t, []any{"name^3", "description", "category"}, mm["fields"])
}

func TestSearch_EmptyQuery(t *testing.T) {
	x := newTestIndex(t, "http://127.0.0.1:1")
	_, err := x.Search(context.Background(), "  ", 0)
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestSearch_ClusterError(t *testing.T) {
	_, srv := newFakeCluster(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	x := newTestIndex(t, srv.URL)

	_, err := x.Search(context.Background(), "steel", 0)
	assert.True(t, errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}
