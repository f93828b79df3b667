package opensearch

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/turtacn/MatForge/internal/domain/material"
	"github.com/turtacn/MatForge/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MatForge/pkg/errors"
)

const (
	DefaultSearchLimit = 20
	MaxSearchLimit     = 100
)

// searchFields are matched by every query; names weigh most.
var searchFields = []string{"name^3", "description", "category"}

// Search runs a fuzzy multi_match for query over name, description and
// category and returns the best hits first.
func (x *MaterialIndex) Search(ctx context.Context, query string, limit int) ([]*material.Material, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.InvalidParam("search query required")
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if limit > MaxSearchLimit {
		limit = MaxSearchLimit
	}

	body, err := json.Marshal(buildSearchDSL(query, limit))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to marshal query DSL")
	}

	start := time.Now()
	resp, err := opensearchapi.SearchRequest{
		Index: []string{x.index},
		Body:  bytes.NewReader(body),
	}.Do(ctx, x.client.client)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "search request cancelled")
		}
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "search request failed")
	}
	defer resp.Body.Close()
	if resp.IsError() {
		return nil, responseError(resp, errors.ErrCodeServiceUnavailable, "search failed")
	}

	var parsed struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				ID     string          `json:"_id"`
				Source json.RawMessage `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeSerialization, "failed to decode search response")
	}

	out := make([]*material.Material, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		var doc materialDoc
		if err := json.Unmarshal(h.Source, &doc); err != nil {
			x.logger.Warn("Skipping undecodable hit", logging.String("id", h.ID), logging.Err(err))
			continue
		}
		m := doc.Material
		out = append(out, &m)
	}

	x.logger.Debug("Search executed",
		logging.String("index", x.index),
		logging.Int64("took_ms", time.Since(start).Milliseconds()),
		logging.Int64("hits", parsed.Hits.Total.Value))
	return out, nil
}

func buildSearchDSL(query string, limit int) map[string]any {
	return map[string]any{
		"size": limit,
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":     query,
				"fields":    searchFields,
				"fuzziness": "AUTO",
			},
		},
	}
}
