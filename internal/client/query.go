package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/studiowebux/arangotui/internal/types"
)

type cursorOptions struct {
	FullCount bool `json:"fullCount,omitempty"`
}

type cursorRequest struct {
	Query     string         `json:"query"`
	BindVars  map[string]any `json:"bindVars,omitempty"`
	BatchSize int            `json:"batchSize,omitempty"`
	Count     bool           `json:"count,omitempty"`
	Options   *cursorOptions `json:"options,omitempty"`
}

type cursorWarning struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type cursorResponse struct {
	ID      string            `json:"id"`
	Result  []json.RawMessage `json:"result"`
	HasMore bool              `json:"hasMore"`
	Count   *int              `json:"count"`
	Extra   struct {
		Stats struct {
			ExecutionTime float64 `json:"executionTime"`
			FullCount     *int64  `json:"fullCount"`
		} `json:"stats"`
		Warnings []cursorWarning `json:"warnings"`
	} `json:"extra"`
}

func (c *Client) createCursor(ctx context.Context, database string, req cursorRequest) (*cursorResponse, error) {
	var resp cursorResponse
	if err := c.do(ctx, http.MethodPost, c.dbURL(database, "/_api/cursor"), req, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) nextBatch(ctx context.Context, database, id string) (*cursorResponse, error) {
	var resp cursorResponse
	path := "/_api/cursor/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodPut, c.dbURL(database, path), nil, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// deleteCursor releases a server-side cursor. Failures are only logged.
func (c *Client) deleteCursor(ctx context.Context, database, id string) {
	path := "/_api/cursor/" + url.PathEscape(id)
	if err := c.do(ctx, http.MethodDelete, c.dbURL(database, path), nil, true, nil); err != nil {
		c.logger.Debug("failed to delete cursor", zap.String("cursor", id), zap.Error(err))
	}
}

// ExecuteQuery runs an AQL query and reads its cursor until it is exhausted
// or MaxQueryResults rows were read. A cursor that still has results at that
// point is deleted and the result is flagged Truncated.
func (c *Client) ExecuteQuery(ctx context.Context, database, query string) (types.QueryResult, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	if query == "" {
		return types.QueryResult{}, &Error{Kind: KindBadRequest, Message: "query is empty"}
	}

	startTime := time.Now()
	resp, err := c.createCursor(ctx, database, cursorRequest{
		Query:     query,
		BatchSize: c.endpoint.QueryBatchSize,
		Count:     true,
	})
	if err != nil {
		return types.QueryResult{}, err
	}

	result := types.QueryResult{
		Rows:          append([]json.RawMessage(nil), resp.Result...),
		ExecutionTime: time.Duration(resp.Extra.Stats.ExecutionTime * float64(time.Second)),
	}
	for _, w := range resp.Extra.Warnings {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%d: %s", w.Code, w.Message))
	}

	for resp.HasMore {
		if len(result.Rows) >= c.endpoint.MaxQueryResults {
			result.Truncated = true
			c.deleteCursor(ctx, database, resp.ID)
			break
		}
		resp, err = c.nextBatch(ctx, database, resp.ID)
		if err != nil {
			return types.QueryResult{}, err
		}
		result.Rows = append(result.Rows, resp.Result...)
	}

	if len(result.Rows) > c.endpoint.MaxQueryResults {
		result.Rows = result.Rows[:c.endpoint.MaxQueryResults]
		result.Truncated = true
	}
	result.Count = len(result.Rows)
	if result.ExecutionTime == 0 {
		result.ExecutionTime = time.Since(startTime)
	}

	return result, nil
}
