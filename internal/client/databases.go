package client

import (
	"context"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/studiowebux/arangotui/internal/types"
)

type databaseListResponse struct {
	Result []string `json:"result"`
}

// ListDatabases lists every database visible to the user. Collection counts
// are fetched per database; a database whose collections cannot be listed is
// reported with Accessible=false instead of failing the whole call.
func (c *Client) ListDatabases(ctx context.Context) ([]types.DatabaseSummary, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var resp databaseListResponse
	if err := c.do(ctx, http.MethodGet, c.endpoint.BaseURL+"/_api/database", nil, true, &resp); err != nil {
		return nil, err
	}

	summaries := make([]types.DatabaseSummary, len(resp.Result))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.endpoint.Concurrency)

	for i, name := range resp.Result {
		i, name := i, name
		summaries[i].Name = name
		g.Go(func() error {
			cols, err := c.listRawCollections(gctx, name)
			if err != nil {
				// Transport failures abort the listing, access errors mark the row
				if IsKind(err, KindUnreachable) {
					return err
				}
				c.logger.Debug("database not accessible", zap.String("database", name), zap.Error(err))
				return nil
			}
			s := &summaries[i]
			s.Accessible = true
			for _, col := range cols {
				switch {
				case col.IsSystem:
					s.SystemCollections++
				case col.Type == types.CollectionTypeEdge:
					s.EdgeCollections++
				default:
					s.DocCollections++
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return summaries, nil
}
