package mock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ArangoDB error numbers returned by the mock
const (
	errNumForbidden         = 11
	errNumCollectionMissing = 1203
	errNumDatabaseMissing   = 1228
	errNumCursorMissing     = 1600
	errNumGraphMissing      = 1924
	errNumQueryParse        = 1501
)

var fullScanQuery = regexp.MustCompile(`(?i)^\s*FOR\s+(\w+)\s+IN\s+(\w+)\s+RETURN\s+(\w+)\s*$`)

// Server serves a Cluster over the ArangoDB HTTP API subset the client uses
type Server struct {
	cluster    *Cluster
	databases  map[string]*mockDatabase
	httpServer *http.Server
	listener   net.Listener
	logger     *zap.Logger

	mu       sync.Mutex
	cursors  map[string]*cursor
	nextID   int
	logs     []RequestLog
	notifyCh chan struct{} // Channel to notify when new log arrives
}

type mockDatabase struct {
	def         *Database
	collections map[string]*mockCollection
	order       []string
}

type mockCollection struct {
	def       *Collection
	id        string
	documents []map[string]any
}

type cursor struct {
	rows      []any
	batchSize int
}

// NewServer creates a mock server for the cluster
func NewServer(cluster *Cluster, logger *zap.Logger) *Server {
	if cluster.Version == "" {
		cluster.Version = "3.12.0"
	}
	if cluster.License == "" {
		cluster.License = "community"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		cluster:   cluster,
		databases: make(map[string]*mockDatabase),
		cursors:   make(map[string]*cursor),
		logs:      make([]RequestLog, 0),
		logger:    logger.Named("mock"),
		notifyCh:  make(chan struct{}, 100),
	}

	nextCollectionID := 1000
	for i := range cluster.Databases {
		db := &cluster.Databases[i]
		mdb := &mockDatabase{def: db, collections: make(map[string]*mockCollection)}
		for j := range db.Collections {
			col := &db.Collections[j]
			nextCollectionID++
			mc := &mockCollection{
				def:       col,
				id:        strconv.Itoa(nextCollectionID),
				documents: buildDocuments(col),
			}
			mdb.collections[col.Name] = mc
			mdb.order = append(mdb.order, col.Name)
		}
		s.databases[db.Name] = mdb
	}

	return s
}

// buildDocuments fills in system attributes and generates documents
func buildDocuments(col *Collection) []map[string]any {
	docs := make([]map[string]any, 0, len(col.Documents)+col.Generate)
	for i, d := range col.Documents {
		doc := make(map[string]any, len(d)+3)
		for k, v := range d {
			doc[k] = v
		}
		if _, ok := doc["_key"]; !ok {
			doc["_key"] = strconv.Itoa(i + 1)
		}
		doc["_id"] = fmt.Sprintf("%s/%v", col.Name, doc["_key"])
		doc["_rev"] = fmt.Sprintf("_r%04d", i+1)
		docs = append(docs, doc)
	}
	if len(col.Documents) > 0 {
		return docs
	}

	for i := 0; i < col.Generate; i++ {
		key := fmt.Sprintf("%05d", i+1)
		doc := map[string]any{
			"_key":  key,
			"_id":   col.Name + "/" + key,
			"_rev":  fmt.Sprintf("_r%04d", i+1),
			"index": i,
			"name":  fmt.Sprintf("%s %d", col.Name, i+1),
		}
		if col.Edge {
			doc["_from"] = fmt.Sprintf("customers/%05d", i%10+1)
			doc["_to"] = fmt.Sprintf("products/%05d", i%7+1)
		}
		docs = append(docs, doc)
	}
	return docs
}

// Handler returns the HTTP handler, for use with httptest
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(s.handleRequest)
}

// Start listens on addr and serves in the background
func (s *Server) Start(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.logger.Error("mock server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the mock server
func (s *Server) Stop() error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

// GetAddress returns the server base URL
func (s *Server) GetAddress() string {
	if s.listener == nil {
		return ""
	}
	return "http://" + s.listener.Addr().String()
}

// handleRequest handles incoming HTTP requests
func (s *Server) handleRequest(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	bodyBytes, _ := io.ReadAll(r.Body)
	r.Body.Close()

	if s.cluster.Delay > 0 {
		select {
		case <-time.After(time.Duration(s.cluster.Delay) * time.Millisecond):
		case <-r.Context().Done():
			return
		}
	}

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	s.route(rec, r, bodyBytes)

	entry := RequestLog{
		Timestamp: start,
		Method:    r.Method,
		Path:      r.URL.Path,
		Status:    rec.status,
		Duration:  time.Since(start),
	}
	if json.Valid(bodyBytes) {
		entry.Body = bodyBytes
	}
	s.logRequest(entry)

	s.logger.Debug("mock request",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", rec.status),
	)
}

func (s *Server) route(w http.ResponseWriter, r *http.Request, body []byte) {
	path := r.URL.Path

	if path == "/v1/version" && s.cluster.GAE {
		writeJSON(w, http.StatusOK, map[string]any{
			"apiMinVersion": 1,
			"apiMaxVersion": 1,
			"version":       "0.1.0",
		})
		return
	}

	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, 0, "not authorized to execute this request")
		return
	}

	database := "_system"
	if strings.HasPrefix(path, "/_db/") {
		rest := strings.TrimPrefix(path, "/_db/")
		name, sub, _ := strings.Cut(rest, "/")
		database = name
		path = "/" + sub
	}

	switch {
	case path == "/_api/version" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"server":  "arango",
			"version": s.cluster.Version,
			"license": s.cluster.License,
		})
		return
	case path == "/_api/database" && r.Method == http.MethodGet:
		names := make([]string, 0, len(s.cluster.Databases))
		for _, db := range s.cluster.Databases {
			names = append(names, db.Name)
		}
		writeJSON(w, http.StatusOK, map[string]any{"error": false, "code": 200, "result": names})
		return
	}

	db, ok := s.databases[database]
	if !ok {
		writeError(w, http.StatusNotFound, errNumDatabaseMissing, "database not found")
		return
	}
	if db.def.Denied {
		writeError(w, http.StatusUnauthorized, errNumForbidden, "not authorized to execute this request")
		return
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	switch {
	case len(segments) == 2 && segments[1] == "collection" && r.Method == http.MethodGet:
		s.handleCollections(w, db)
	case len(segments) == 4 && segments[1] == "collection" && segments[3] == "count" && r.Method == http.MethodGet:
		s.handleCount(w, db, segments[2])
	case len(segments) == 2 && segments[1] == "cursor" && r.Method == http.MethodPost:
		s.handleCreateCursor(w, db, body)
	case len(segments) == 3 && segments[1] == "cursor" && r.Method == http.MethodPut:
		s.handleNextBatch(w, segments[2])
	case len(segments) == 3 && segments[1] == "cursor" && r.Method == http.MethodDelete:
		s.handleDeleteCursor(w, segments[2])
	case len(segments) == 2 && segments[1] == "gharial" && r.Method == http.MethodGet:
		s.handleGraphs(w, db)
	case len(segments) == 3 && segments[1] == "gharial" && r.Method == http.MethodGet:
		s.handleGraph(w, db, segments[2])
	default:
		writeError(w, http.StatusNotFound, 404, fmt.Sprintf("unknown path '%s'", r.URL.Path))
	}
}

func (s *Server) authorized(r *http.Request) bool {
	if s.cluster.Username == "" {
		return true
	}
	user, pass, ok := r.BasicAuth()
	return ok && user == s.cluster.Username && pass == s.cluster.Password
}

func (s *Server) handleCollections(w http.ResponseWriter, db *mockDatabase) {
	result := make([]map[string]any, 0, len(db.order))
	for _, name := range db.order {
		result = append(result, collectionInfo(db.collections[name]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"error": false, "code": 200, "result": result})
}

func (s *Server) handleCount(w http.ResponseWriter, db *mockDatabase, name string) {
	col, ok := db.collections[name]
	if !ok {
		writeError(w, http.StatusNotFound, errNumCollectionMissing, "collection or view not found")
		return
	}

	props := collectionInfo(col)
	props["count"] = len(col.documents)
	props["waitForSync"] = false
	props["writeConcern"] = 1
	props["cacheEnabled"] = false
	props["keyOptions"] = map[string]any{"type": "traditional", "allowUserKeys": true, "lastValue": 0}
	props["schema"] = nil
	props["error"] = false
	props["code"] = 200
	writeJSON(w, http.StatusOK, props)
}

func collectionInfo(col *mockCollection) map[string]any {
	colType := 2
	if col.def.Edge {
		colType = 3
	}
	return map[string]any{
		"id":       col.id,
		"name":     col.def.Name,
		"status":   3,
		"type":     colType,
		"isSystem": col.def.System,
	}
}

type cursorBody struct {
	Query     string         `json:"query"`
	BindVars  map[string]any `json:"bindVars"`
	BatchSize int            `json:"batchSize"`
	Count     bool           `json:"count"`
	Options   struct {
		FullCount bool `json:"fullCount"`
	} `json:"options"`
}

func (s *Server) handleCreateCursor(w http.ResponseWriter, db *mockDatabase, body []byte) {
	var req cursorBody
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, 600, "invalid JSON body")
		return
	}
	if req.BatchSize <= 0 {
		req.BatchSize = 1000
	}

	var rows []any
	var warnings []string
	var fullCount int

	if colName, ok := req.BindVars["@collection"].(string); ok {
		col, ok := db.collections[colName]
		if !ok {
			writeError(w, http.StatusNotFound, errNumCollectionMissing, fmt.Sprintf("collection or view not found: %s", colName))
			return
		}
		offset := intVar(req.BindVars["offset"])
		count := intVar(req.BindVars["count"])
		fullCount = len(col.documents)
		rows = pageRows(col.documents, offset, count)
	} else if q := db.findQuery(req.Query); q != nil {
		if q.Status >= 400 {
			writeError(w, q.Status, errNumQueryParse, q.ErrorMessage)
			return
		}
		rows = q.Rows
		warnings = q.Warnings
		fullCount = len(rows)
	} else if m := fullScanQuery.FindStringSubmatch(req.Query); m != nil && m[1] == m[3] {
		col, ok := db.collections[m[2]]
		if !ok {
			writeError(w, http.StatusNotFound, errNumCollectionMissing, fmt.Sprintf("collection or view not found: %s", m[2]))
			return
		}
		fullCount = len(col.documents)
		rows = pageRows(col.documents, 0, len(col.documents))
	} else {
		writeError(w, http.StatusBadRequest, errNumQueryParse,
			fmt.Sprintf("AQL: syntax error, unexpected identifier near '%s' at position 1:1", firstWord(req.Query)))
		return
	}

	first, rest := rows, []any(nil)
	if len(rows) > req.BatchSize {
		first, rest = rows[:req.BatchSize], rows[req.BatchSize:]
	}

	resp := map[string]any{
		"error":   false,
		"code":    201,
		"result":  nonNil(first),
		"hasMore": len(rest) > 0,
		"cached":  false,
	}
	if req.Count {
		resp["count"] = len(rows)
	}

	stats := map[string]any{"executionTime": 0.0012, "scannedFull": fullCount}
	if req.Options.FullCount {
		stats["fullCount"] = fullCount
	}
	warningList := make([]map[string]any, 0, len(warnings))
	for _, msg := range warnings {
		warningList = append(warningList, map[string]any{"code": 1562, "message": msg})
	}
	resp["extra"] = map[string]any{"stats": stats, "warnings": warningList}

	if len(rest) > 0 {
		s.mu.Lock()
		s.nextID++
		id := strconv.Itoa(s.nextID)
		s.cursors[id] = &cursor{rows: rest, batchSize: req.BatchSize}
		s.mu.Unlock()
		resp["id"] = id
	}

	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleNextBatch(w http.ResponseWriter, id string) {
	s.mu.Lock()
	cur, ok := s.cursors[id]
	if !ok {
		s.mu.Unlock()
		writeError(w, http.StatusNotFound, errNumCursorMissing, "cursor not found")
		return
	}
	batch := cur.rows
	if len(batch) > cur.batchSize {
		batch = batch[:cur.batchSize]
	}
	cur.rows = cur.rows[len(batch):]
	hasMore := len(cur.rows) > 0
	if !hasMore {
		delete(s.cursors, id)
	}
	s.mu.Unlock()

	resp := map[string]any{
		"error":   false,
		"code":    200,
		"result":  batch,
		"hasMore": hasMore,
	}
	if hasMore {
		resp["id"] = id
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteCursor(w http.ResponseWriter, id string) {
	s.mu.Lock()
	_, ok := s.cursors[id]
	delete(s.cursors, id)
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, errNumCursorMissing, "cursor not found")
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{"error": false, "code": 202, "id": id})
}

func (s *Server) handleGraphs(w http.ResponseWriter, db *mockDatabase) {
	graphs := make([]map[string]any, 0, len(db.def.Graphs))
	for i := range db.def.Graphs {
		graphs = append(graphs, graphInfo(&db.def.Graphs[i]))
	}
	writeJSON(w, http.StatusOK, map[string]any{"error": false, "code": 200, "graphs": graphs})
}

func (s *Server) handleGraph(w http.ResponseWriter, db *mockDatabase, name string) {
	for i := range db.def.Graphs {
		if db.def.Graphs[i].Name == name {
			writeJSON(w, http.StatusOK, map[string]any{"error": false, "code": 200, "graph": graphInfo(&db.def.Graphs[i])})
			return
		}
	}
	writeError(w, http.StatusNotFound, errNumGraphMissing, "graph '"+name+"' not found")
}

func graphInfo(g *Graph) map[string]any {
	orphans := g.OrphanCollections
	if orphans == nil {
		orphans = []string{}
	}
	return map[string]any{
		"_key":              g.Name,
		"_id":               "_graphs/" + g.Name,
		"name":              g.Name,
		"edgeDefinitions":   g.EdgeDefinitions,
		"orphanCollections": orphans,
		"isSmart":           g.IsSmart,
		"isSatellite":       false,
		"numberOfShards":    1,
		"replicationFactor": 1,
	}
}

func (db *mockDatabase) findQuery(query string) *Query {
	query = strings.TrimSpace(query)
	for i := range db.def.Queries {
		if strings.TrimSpace(db.def.Queries[i].Query) == query {
			return &db.def.Queries[i]
		}
	}
	return nil
}

func pageRows(docs []map[string]any, offset, count int) []any {
	if offset < 0 {
		offset = 0
	}
	if offset > len(docs) {
		offset = len(docs)
	}
	end := offset + count
	if end > len(docs) || count < 0 {
		end = len(docs)
	}
	rows := make([]any, 0, end-offset)
	for _, d := range docs[offset:end] {
		rows = append(rows, d)
	}
	return rows
}

func intVar(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func firstWord(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func nonNil(rows []any) []any {
	if rows == nil {
		return []any{}
	}
	return rows
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status, errorNum int, message string) {
	writeJSON(w, status, map[string]any{
		"error":        true,
		"code":         status,
		"errorNum":     errorNum,
		"errorMessage": message,
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// logRequest adds a request to the log
func (s *Server) logRequest(log RequestLog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs = append(s.logs, log)

	// Keep only last 1000 logs
	if len(s.logs) > 1000 {
		s.logs = s.logs[len(s.logs)-1000:]
	}

	select {
	case s.notifyCh <- struct{}{}:
	default:
	}
}

// NotifyChannel returns the notification channel
func (s *Server) NotifyChannel() <-chan struct{} {
	return s.notifyCh
}

// GetLogs returns all logged requests
func (s *Server) GetLogs() []RequestLog {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := make([]RequestLog, len(s.logs))
	copy(logs, s.logs)
	return logs
}

// CountRequests returns how many logged requests match method and path prefix
func (s *Server) CountRequests(method, pathPrefix string) int {
	n := 0
	for _, l := range s.GetLogs() {
		if l.Method == method && strings.HasPrefix(l.Path, pathPrefix) {
			n++
		}
	}
	return n
}

// OpenCursors returns the number of server-side cursors still open
func (s *Server) OpenCursors() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.cursors)
}

// ClearLogs clears all logged requests
func (s *Server) ClearLogs() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logs = make([]RequestLog, 0)
}
