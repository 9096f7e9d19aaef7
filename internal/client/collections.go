package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/studiowebux/arangotui/internal/types"
)

// rawCollection is one entry of GET /_api/collection
type rawCollection struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   int    `json:"status"`
	Type     int    `json:"type"`
	IsSystem bool   `json:"isSystem"`
}

type collectionListResponse struct {
	Result []rawCollection `json:"result"`
}

func (c *Client) listRawCollections(ctx context.Context, database string) ([]rawCollection, error) {
	var resp collectionListResponse
	if err := c.do(ctx, http.MethodGet, c.dbURL(database, "/_api/collection"), nil, true, &resp); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// ListCollections lists the collections of a database with their document
// counts. Non-system collections sort first, then by name. A collection whose
// count cannot be read is kept with a nil Count.
func (c *Client) ListCollections(ctx context.Context, database string) ([]types.CollectionSummary, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	raw, err := c.listRawCollections(ctx, database)
	if err != nil {
		return nil, err
	}

	summaries := make([]types.CollectionSummary, len(raw))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.endpoint.Concurrency)

	for i, col := range raw {
		i, col := i, col
		summaries[i] = types.CollectionSummary{
			ID:       col.ID,
			Name:     col.Name,
			Kind:     types.KindFromType(col.Type),
			IsSystem: col.IsSystem,
			Status:   col.Status,
		}
		g.Go(func() error {
			props, err := c.fetchCount(gctx, database, col.Name)
			if err != nil {
				if IsKind(err, KindUnreachable) {
					return err
				}
				c.logger.Debug("collection count failed",
					zap.String("database", database),
					zap.String("collection", col.Name),
					zap.Error(err),
				)
				return nil
			}
			applyProperties(&summaries[i], props)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortCollections(summaries)
	return summaries, nil
}

// CollectionProperties reads the full property document and count of one
// collection.
func (c *Client) CollectionProperties(ctx context.Context, database, collection string) (types.CollectionSummary, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	props, err := c.fetchCount(ctx, database, collection)
	if err != nil {
		return types.CollectionSummary{}, err
	}

	summary := types.CollectionSummary{Name: collection}
	applyProperties(&summary, props)
	return summary, nil
}

func (c *Client) fetchCount(ctx context.Context, database, collection string) (map[string]any, error) {
	var props map[string]any
	path := "/_api/collection/" + url.PathEscape(collection) + "/count"
	if err := c.do(ctx, http.MethodGet, c.dbURL(database, path), nil, true, &props); err != nil {
		return nil, err
	}
	return props, nil
}

// applyProperties copies the well-known fields of a property document into
// the summary and keeps the rest verbatim. Response envelope fields are dropped.
func applyProperties(s *types.CollectionSummary, props map[string]any) {
	delete(props, "error")
	delete(props, "code")

	if n, ok := numberField(props, "count"); ok {
		count := int64(n)
		s.Count = &count
	}
	if n, ok := numberField(props, "type"); ok {
		s.Kind = types.KindFromType(int(n))
	}
	if n, ok := numberField(props, "status"); ok {
		s.Status = int(n)
	}
	if v, ok := props["isSystem"].(bool); ok {
		s.IsSystem = v
	}
	if v, ok := props["id"].(string); ok {
		s.ID = v
	}
	if v, ok := props["name"].(string); ok && v != "" {
		s.Name = v
	}
	s.Properties = props
}

func numberField(m map[string]any, key string) (float64, bool) {
	switch v := m[key].(type) {
	case float64:
		return v, true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func sortCollections(cols []types.CollectionSummary) {
	sort.SliceStable(cols, func(i, j int) bool {
		if cols[i].IsSystem != cols[j].IsSystem {
			return !cols[i].IsSystem
		}
		return cols[i].Name < cols[j].Name
	})
}
