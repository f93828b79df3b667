package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MatForge/pkg/errors"
)

// Document sources.
const (
	SourceCatalog = "catalog"
	SourceLibrary = "library"
)

// materialDoc is the indexed form of a material.
type materialDoc struct {
	material.Material
	Elements []string `json:"elements"`
	Source   string   `json:"source"`
}

// materialMapping maps only the searchable fields; the rest stays in _source.
var materialMapping = map[string]any{
	"settings": map[string]any{
		"number_of_shards":   1,
		"number_of_replicas": 0,
	},
	"mappings": map[string]any{
		"dynamic": false,
		"properties": map[string]any{
			"id":          map[string]any{"type": "keyword"},
			"name":        map[string]any{"type": "text", "fields": map[string]any{"raw": map[string]any{"type": "keyword"}}},
			"description": map[string]any{"type": "text"},
			"category":    map[string]any{"type": "text", "fields": map[string]any{"raw": map[string]any{"type": "keyword"}}},
			"elements":    map[string]any{"type": "keyword"},
			"source":      map[string]any{"type": "keyword"},
			"createdAt":   map[string]any{"type": "date"},
		},
	},
}

// BulkResult summarises a bulk request.
type BulkResult struct {
	Succeeded int
	Failed    int
	Errors    []BulkItemError
}

type BulkItemError struct {
	DocID  string
	Type   string
	Reason string
}

// MaterialIndex is the material search index.
type MaterialIndex struct {
	client  *Client
	index   string
	refresh string
	logger  logging.Logger
}

// NewMaterialIndex targets the index "<prefix>-materials".
func NewMaterialIndex(client *Client, prefix string) *MaterialIndex {
	name := "materials"
	if prefix != "" {
		name = prefix + "-" + name
	}
	return &MaterialIndex{client: client, index: name, refresh: "wait_for", logger: client.logger}
}

var _ material.SearchIndex = (*MaterialIndex)(nil)

// Name returns the index name.
func (x *MaterialIndex) Name() string { return x.index }

// EnsureIndex creates the index with its mapping unless it exists.
func (x *MaterialIndex) EnsureIndex(ctx context.Context) error {
	exists, err := x.exists(ctx)
	if err != nil || exists {
		return err
	}

	body, err := json.Marshal(materialMapping)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal index mapping")
	}
	resp, err := opensearchapi.IndicesCreateRequest{Index: x.index, Body: bytes.NewReader(body)}.Do(ctx, x.client.client)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "create index request failed")
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return responseError(resp, errors.ErrCodeServiceUnavailable, "index creation failed")
	}
	x.logger.Info("Index created", logging.String("index", x.index))
	return nil
}

func (x *MaterialIndex) exists(ctx context.Context) (bool, error) {
	resp, err := opensearchapi.IndicesExistsRequest{Index: []string{x.index}}.Do(ctx, x.client.client)
	if err != nil {
		return false, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "index exists request failed")
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	}
	return false, responseError(resp, errors.ErrCodeServiceUnavailable, "index exists check failed")
}

// Index stores a saved material.
func (x *MaterialIndex) Index(ctx context.Context, m *material.Material) error {
	body, err := json.Marshal(toDoc(m, SourceLibrary))
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal document")
	}
	resp, err := opensearchapi.IndexRequest{
		Index:      x.index,
		DocumentID: m.ID,
		Body:       bytes.NewReader(body),
		Refresh:    x.refresh,
	}.Do(ctx, x.client.client)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "index request failed")
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return responseError(resp, errors.ErrCodeServiceUnavailable, "document index failed")
	}
	return nil
}

// BulkIndex writes ms in one request, tagging each with source.
func (x *MaterialIndex) BulkIndex(ctx context.Context, ms []material.Material, source string) (*BulkResult, error) {
	result := &BulkResult{}
	if len(ms) == 0 {
		return result, nil
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for i := range ms {
		meta := map[string]any{"index": map[string]any{"_index": x.index, "_id": ms[i].ID}}
		if err := enc.Encode(meta); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode bulk action")
		}
		if err := enc.Encode(toDoc(&ms[i], source)); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to encode document").WithDetail(ms[i].ID)
		}
	}

	resp, err := opensearchapi.BulkRequest{Body: &buf, Refresh: "false"}.Do(ctx, x.client.client)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "bulk request failed")
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return nil, responseError(resp, errors.ErrCodeServiceUnavailable, "bulk request rejected")
	}

	var bulk struct {
		Errors bool `json:"errors"`
		Items  []map[string]struct {
			ID     string `json:"_id"`
			Status int    `json:"status"`
			Error  struct {
				Type   string `json:"type"`
				Reason string `json:"reason"`
			} `json:"error"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&bulk); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode bulk response")
	}
	for _, item := range bulk.Items {
		for _, v := range item {
			if v.Status >= 200 && v.Status < 300 {
				result.Succeeded++
				continue
			}
			result.Failed++
			result.Errors = append(result.Errors, BulkItemError{DocID: v.ID, Type: v.Error.Type, Reason: v.Error.Reason})
		}
	}

	x.logger.Info("Bulk index completed",
		logging.String("source", source),
		logging.Int("total", len(ms)),
		logging.Int("succeeded", result.Succeeded),
		logging.Int("failed", result.Failed))
	return result, nil
}

func toDoc(m *material.Material, source string) materialDoc {
	return materialDoc{Material: *m, Elements: m.Composition.Symbols(), Source: source}
}
