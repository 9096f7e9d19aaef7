package mock

import (
	"encoding/json"
	"time"
)

// Cluster is the in-memory content served by the mock server
type Cluster struct {
	Version   string     `json:"version" yaml:"version"`
	License   string     `json:"license" yaml:"license"`
	Databases []Database `json:"databases" yaml:"databases"`
	// Username and Password enable basic auth checks when Username is set
	Username string `json:"username,omitempty" yaml:"username,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	// Delay is applied to every response, in milliseconds
	Delay int `json:"delay,omitempty" yaml:"delay,omitempty"`
	// GAE enables the /v1/version endpoint of the analytics engine
	GAE bool `json:"gae,omitempty" yaml:"gae,omitempty"`
}

// Database is one mock database
type Database struct {
	Name        string       `json:"name" yaml:"name"`
	Denied      bool         `json:"denied,omitempty" yaml:"denied,omitempty"` // Every request into the database returns 401
	Collections []Collection `json:"collections" yaml:"collections"`
	Graphs      []Graph      `json:"graphs,omitempty" yaml:"graphs,omitempty"`
	Queries     []Query      `json:"queries,omitempty" yaml:"queries,omitempty"` // Canned AQL results
}

// Collection is one mock collection. Documents are generated when Generate
// is set and Documents is empty.
type Collection struct {
	Name      string           `json:"name" yaml:"name"`
	Edge      bool             `json:"edge,omitempty" yaml:"edge,omitempty"`
	System    bool             `json:"system,omitempty" yaml:"system,omitempty"`
	Documents []map[string]any `json:"documents,omitempty" yaml:"documents,omitempty"`
	Generate  int              `json:"generate,omitempty" yaml:"generate,omitempty"`
}

// Graph is one mock named graph
type Graph struct {
	Name              string           `json:"name" yaml:"name"`
	EdgeDefinitions   []EdgeDefinition `json:"edgeDefinitions" yaml:"edgeDefinitions"`
	OrphanCollections []string         `json:"orphanCollections,omitempty" yaml:"orphanCollections,omitempty"`
	IsSmart           bool             `json:"isSmart,omitempty" yaml:"isSmart,omitempty"`
}

// EdgeDefinition mirrors the gharial edge definition shape
type EdgeDefinition struct {
	Collection string   `json:"collection" yaml:"collection"`
	From       []string `json:"from" yaml:"from"`
	To         []string `json:"to" yaml:"to"`
}

// Query is a canned AQL result matched by exact query text
type Query struct {
	Query        string   `json:"query" yaml:"query"`
	Rows         []any    `json:"rows,omitempty" yaml:"rows,omitempty"`
	Warnings     []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Status       int      `json:"status,omitempty" yaml:"status,omitempty"` // Non-zero returns an error response
	ErrorMessage string   `json:"errorMessage,omitempty" yaml:"errorMessage,omitempty"`
}

// RequestLog represents a logged request
type RequestLog struct {
	Timestamp time.Time       `json:"timestamp"`
	Method    string          `json:"method"`
	Path      string          `json:"path"`
	Body      json.RawMessage `json:"body,omitempty"`
	Status    int             `json:"status"`
	Duration  time.Duration   `json:"duration"`
}
