package client

import (
	"context"
	"net/http"
	"net/url"
	"sort"

	"github.com/studiowebux/arangotui/internal/types"
)

type graphListResponse struct {
	Graphs []types.GraphSummary `json:"graphs"`
}

type graphResponse struct {
	Graph types.GraphSummary `json:"graph"`
}

// ListGraphs lists the named graphs of a database sorted by name
func (c *Client) ListGraphs(ctx context.Context, database string) ([]types.GraphSummary, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var resp graphListResponse
	if err := c.do(ctx, http.MethodGet, c.dbURL(database, "/_api/gharial"), nil, true, &resp); err != nil {
		return nil, err
	}

	sort.Slice(resp.Graphs, func(i, j int) bool {
		return resp.Graphs[i].Name < resp.Graphs[j].Name
	})
	return resp.Graphs, nil
}

// Graph reads the definition of one named graph
func (c *Client) Graph(ctx context.Context, database, name string) (types.GraphSummary, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var resp graphResponse
	path := "/_api/gharial/" + url.PathEscape(name)
	if err := c.do(ctx, http.MethodGet, c.dbURL(database, path), nil, true, &resp); err != nil {
		return types.GraphSummary{}, err
	}
	return resp.Graph, nil
}
