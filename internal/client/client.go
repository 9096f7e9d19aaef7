package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/studiowebux/arangotui/internal/types"
)

// maxResponseSize guards against unbounded bodies (64 MiB)
const maxResponseSize = 64 << 20

// Client issues typed requests against one Endpoint
type Client struct {
	endpoint Endpoint
	http     *http.Client
	logger   *zap.Logger
}

// New creates a client for the endpoint. The endpoint is copied.
func New(ep Endpoint, logger *zap.Logger) (*Client, error) {
	ep = ep.withDefaults()
	if err := ep.Validate(); err != nil {
		return nil, err
	}

	httpClient, err := buildHTTPClient(ep.TLS)
	if err != nil {
		return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		endpoint: ep,
		http:     httpClient,
		logger:   logger.Named("client"),
	}, nil
}

// Endpoint returns the endpoint the client was built with
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// withTimeout bounds a whole operation, including fan-out sub-requests
func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.endpoint.Timeout)
}

// dbURL returns the URL of an API path scoped to a database
func (c *Client) dbURL(database, path string) string {
	return c.endpoint.BaseURL + "/_db/" + url.PathEscape(database) + path
}

// Version checks the coordinator version (GET /_api/version)
func (c *Client) Version(ctx context.Context) (types.ServerVersion, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var v types.ServerVersion
	if err := c.do(ctx, http.MethodGet, c.endpoint.BaseURL+"/_api/version", nil, true, &v); err != nil {
		return types.ServerVersion{}, err
	}
	return v, nil
}

// GAEVersion checks the Graph Analytics Engine version. The engine endpoint
// does not take the database credentials.
func (c *Client) GAEVersion(ctx context.Context) (types.GAEVersion, error) {
	if c.endpoint.GAEURL == "" {
		return types.GAEVersion{}, &Error{Kind: KindBadRequest, Message: "no GAE endpoint configured"}
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	var v types.GAEVersion
	if err := c.do(ctx, http.MethodGet, c.endpoint.GAEURL+"/v1/version", nil, false, &v); err != nil {
		return types.GAEVersion{}, err
	}
	return v, nil
}

// do performs one HTTP exchange. body is JSON encoded when non-nil and the
// response is decoded into out when non-nil.
func (c *Client) do(ctx context.Context, method, rawURL string, body any, auth bool, out any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindBadRequest, Message: fmt.Sprintf("failed to encode request: %v", err), Err: err}
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bodyReader)
	if err != nil {
		return &Error{Kind: KindBadRequest, Message: fmt.Sprintf("failed to create request: %v", err), Err: err}
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.SetBasicAuth(c.endpoint.Username, c.endpoint.Password)
	}

	startTime := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", req.URL.Path),
			zap.Duration("duration", time.Since(startTime)),
			zap.Error(err),
		)
		return transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return transportError(err)
	}

	c.logger.Debug("request completed",
		zap.String("method", method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Int("size", len(data)),
		zap.Duration("duration", time.Since(startTime)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return decodeError(req.URL.Path, err)
	}
	return nil
}
