package query

import (
	"context"

	"github.com/poiesic/notecall/core"
)

// DefaultSearchLimit is the number of hits requested when the caller
// does not specify one.
const DefaultSearchLimit = 10

// DefaultMinimumScore filters out low-relevance vector hits.
const DefaultMinimumScore = 0.2

// searchRequest is the payload for the backend's generic /search endpoint.
type searchRequest struct {
	Query         string  `json:"query"`
	Type          string  `json:"type"`
	Limit         int     `json:"limit"`
	SearchSources bool    `json:"search_sources"`
	SearchNotes   bool    `json:"search_notes"`
	MinimumScore  float64 `json:"minimum_score,omitempty"`
}

// VectorSearch runs a semantic search over embedded sources.
// limit <= 0 selects DefaultSearchLimit; minScore <= 0 selects
// DefaultMinimumScore. Hits are returned as the backend sent them.
func (c *Client) VectorSearch(ctx context.Context, query string, limit int, minScore float64) ([]map[string]any, error) {
	if err := core.ValidateQuestion(query); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}
	if minScore <= 0 {
		minScore = DefaultMinimumScore
	}

	c.logger.Info("running vector search", "query", query, "limit", limit)

	return c.search(ctx, searchRequest{
		Query:         query,
		Type:          "vector",
		Limit:         limit,
		SearchSources: true,
		MinimumScore:  minScore,
	})
}

// TextSearch runs a full-text search over sources.
func (c *Client) TextSearch(ctx context.Context, query string, limit int) ([]map[string]any, error) {
	if err := core.ValidateQuestion(query); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	c.logger.Info("running text search", "query", query, "limit", limit)

	return c.search(ctx, searchRequest{
		Query:         query,
		Type:          "text",
		Limit:         limit,
		SearchSources: true,
	})
}

func (c *Client) search(ctx context.Context, req searchRequest) ([]map[string]any, error) {
	var payload any
	if err := c.transport.PostJSON(ctx, "/search", req, &payload); err != nil {
		return nil, err
	}

	// The endpoint answers either a bare list or {"results": [...]}.
	switch v := payload.(type) {
	case []any:
		return toHits(v), nil
	case map[string]any:
		if results, ok := v["results"].([]any); ok {
			return toHits(results), nil
		}
	}
	return nil, nil
}

func toHits(items []any) []map[string]any {
	hits := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			hits = append(hits, m)
		}
	}
	return hits
}
