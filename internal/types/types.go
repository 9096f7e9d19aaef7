package types

import (
	"encoding/json"
	"time"
)

// Collection kinds as reported by the "type" field of the collection API
const (
	CollectionTypeDocument = 2
	CollectionTypeEdge     = 3
)

// CollectionKind is the human readable kind of a collection
type CollectionKind string

const (
	KindDocument CollectionKind = "document"
	KindEdge     CollectionKind = "edge"
)

// KindFromType maps the numeric collection type to a CollectionKind
func KindFromType(t int) CollectionKind {
	if t == CollectionTypeEdge {
		return KindEdge
	}
	return KindDocument
}

// ServerVersion is the response of GET /_api/version
type ServerVersion struct {
	Server  string `json:"server" yaml:"server"`
	Version string `json:"version" yaml:"version"`
	License string `json:"license" yaml:"license"`
}

// GAEVersion is the response of the Graph Analytics Engine version endpoint
type GAEVersion struct {
	APIMaxVersion int    `json:"apiMaxVersion" yaml:"apiMaxVersion"`
	APIMinVersion int    `json:"apiMinVersion" yaml:"apiMinVersion"`
	Version       string `json:"version" yaml:"version"`
}

// DatabaseSummary describes one database in the database list
type DatabaseSummary struct {
	Name              string `json:"name" yaml:"name"`
	DocCollections    int    `json:"docCollections" yaml:"docCollections"`
	EdgeCollections   int    `json:"edgeCollections" yaml:"edgeCollections"`
	SystemCollections int    `json:"systemCollections" yaml:"systemCollections"`
	Accessible        bool   `json:"accessible" yaml:"accessible"`
}

// CollectionSummary describes one collection and its properties
type CollectionSummary struct {
	ID       string         `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string         `json:"name" yaml:"name"`
	Kind     CollectionKind `json:"kind" yaml:"kind"`
	IsSystem bool           `json:"isSystem" yaml:"isSystem"`
	Status   int            `json:"status,omitempty" yaml:"status,omitempty"`
	// Count is nil when the count could not be fetched
	Count *int64 `json:"count,omitempty" yaml:"count,omitempty"`
	// Properties is the raw property document returned by the count endpoint
	Properties map[string]any `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// CountLabel returns the document count or "?" when unknown
func (c CollectionSummary) CountLabel() string {
	if c.Count == nil {
		return "?"
	}
	return formatInt(*c.Count)
}

// Document is a single document handle with its raw body
type Document struct {
	Key string          `json:"_key" yaml:"key"`
	Rev string          `json:"_rev" yaml:"rev"`
	Raw json.RawMessage `json:"-" yaml:"-"`
}

// DocumentBatch is one page of documents read from a collection
type DocumentBatch struct {
	Offset    int        `json:"offset" yaml:"offset"`
	Documents []Document `json:"documents" yaml:"documents"`
	// Total is the full count estimate of the collection (-1 if unknown)
	Total int64 `json:"total" yaml:"total"`
}

// QueryResult is the outcome of a successful AQL execution
type QueryResult struct {
	Rows          []json.RawMessage `json:"rows" yaml:"-"`
	Count         int               `json:"count" yaml:"count"`
	ExecutionTime time.Duration     `json:"executionTime" yaml:"executionTime"`
	Warnings      []string          `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	// Truncated is set when the cursor had more results than the client fetches
	Truncated bool `json:"truncated,omitempty" yaml:"truncated,omitempty"`
}

// EdgeDefinition links an edge collection to its vertex collections
type EdgeDefinition struct {
	Collection string   `json:"collection" yaml:"collection"`
	From       []string `json:"from" yaml:"from"`
	To         []string `json:"to" yaml:"to"`
}

// GraphSummary describes a named graph
type GraphSummary struct {
	Name                string           `json:"name" yaml:"name"`
	EdgeDefinitions     []EdgeDefinition `json:"edgeDefinitions" yaml:"edgeDefinitions"`
	OrphanCollections   []string         `json:"orphanCollections" yaml:"orphanCollections"`
	IsSmart             bool             `json:"isSmart" yaml:"isSmart"`
	IsSatellite         bool             `json:"isSatellite" yaml:"isSatellite"`
	NumberOfShards      int              `json:"numberOfShards,omitempty" yaml:"numberOfShards,omitempty"`
	ReplicationFactor   any              `json:"replicationFactor,omitempty" yaml:"replicationFactor,omitempty"`
	SmartGraphAttribute string           `json:"smartGraphAttribute,omitempty" yaml:"smartGraphAttribute,omitempty"`
}

// QueryHistoryEntry is one stored query execution
type QueryHistoryEntry struct {
	ID          int64     `json:"id" yaml:"id"`
	SessionID   string    `json:"sessionId" yaml:"sessionId"`
	Timestamp   time.Time `json:"timestamp" yaml:"timestamp"`
	Endpoint    string    `json:"endpoint" yaml:"endpoint"`
	Database    string    `json:"database" yaml:"database"`
	Query       string    `json:"query" yaml:"query"`
	Status      string    `json:"status" yaml:"status"`
	ResultCount int       `json:"resultCount" yaml:"resultCount"`
	DurationMs  int64     `json:"durationMs" yaml:"durationMs"`
	Error       string    `json:"error,omitempty" yaml:"error,omitempty"`
}
