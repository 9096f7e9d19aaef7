package client

import (
	"context"
	"encoding/json"

	"github.com/studiowebux/arangotui/internal/types"
)

const pageQuery = "FOR doc IN @@collection LIMIT @offset, @count RETURN doc"

// ListDocuments reads one page of documents starting at offset. Total is the
// full collection size reported by the query, -1 when the server omits it.
func (c *Client) ListDocuments(ctx context.Context, database, collection string, offset, limit int) (types.DocumentBatch, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		return types.DocumentBatch{}, &Error{Kind: KindBadRequest, Message: "page size must be positive"}
	}

	resp, err := c.createCursor(ctx, database, cursorRequest{
		Query: pageQuery,
		BindVars: map[string]any{
			"@collection": collection,
			"offset":      offset,
			"count":       limit,
		},
		BatchSize: limit,
		Options:   &cursorOptions{FullCount: true},
	})
	if err != nil {
		return types.DocumentBatch{}, err
	}
	if resp.HasMore && resp.ID != "" {
		c.deleteCursor(ctx, database, resp.ID)
	}

	batch := types.DocumentBatch{
		Offset:    offset,
		Documents: make([]types.Document, 0, len(resp.Result)),
		Total:     -1,
	}
	if resp.Extra.Stats.FullCount != nil {
		batch.Total = *resp.Extra.Stats.FullCount
	}

	for _, raw := range resp.Result {
		var doc types.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return types.DocumentBatch{}, decodeError("document", err)
		}
		doc.Raw = raw
		batch.Documents = append(batch.Documents, doc)
	}

	return batch, nil
}
