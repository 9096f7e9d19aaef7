package mock

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func postCursor(t *testing.T, srv *Server, database, query string) (int, map[string]any) {
	t.Helper()

	body, err := json.Marshal(map[string]any{"query": query, "batchSize": 1000})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/_db/"+database+"/_api/cursor", strings.NewReader(string(body)))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec.Code, out
}

func TestCursor_CannedQueryWinsOverFullScan(t *testing.T) {
	cluster := DemoCluster()
	cluster.Databases[1].Queries = append(cluster.Databases[1].Queries, Query{
		Query: "FOR c IN customers RETURN c",
		Rows:  []any{map[string]any{"name": "ada"}, map[string]any{"name": "bob"}},
	})
	srv := NewServer(cluster, zap.NewNop())

	code, out := postCursor(t, srv, "shop", "FOR c IN customers RETURN c")
	require.Equal(t, http.StatusCreated, code)
	rows, ok := out["result"].([]any)
	require.True(t, ok, "result = %v", out["result"])
	assert.Len(t, rows, 2)
}

func TestCursor_FullScanWithoutCannedQuery(t *testing.T) {
	srv := NewServer(DemoCluster(), zap.NewNop())

	code, out := postCursor(t, srv, "shop", "FOR p IN products RETURN p")
	require.Equal(t, http.StatusCreated, code)
	rows, ok := out["result"].([]any)
	require.True(t, ok, "result = %v", out["result"])
	assert.Len(t, rows, 40)
}

func TestCursor_UnknownQueryIsSyntaxError(t *testing.T) {
	srv := NewServer(DemoCluster(), zap.NewNop())

	code, out := postCursor(t, srv, "shop", "FETCH everything")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, out["errorMessage"], "AQL: syntax error")
}
