package navigator

import (
	"context"

	"github.com/studiowebux/arangotui/internal/bridge"
)

// DatabasesRequest lists databases
type DatabasesRequest struct{}

func (DatabasesRequest) Run(ctx context.Context, src bridge.Source) (any, error) {
	return src.ListDatabases(ctx)
}

// CollectionsRequest lists the collections of a database
type CollectionsRequest struct {
	Database string
}

func (r CollectionsRequest) Run(ctx context.Context, src bridge.Source) (any, error) {
	return src.ListCollections(ctx, r.Database)
}

// PropertiesRequest reads one collection's properties
type PropertiesRequest struct {
	Database   string
	Collection string
}

func (r PropertiesRequest) Run(ctx context.Context, src bridge.Source) (any, error) {
	return src.CollectionProperties(ctx, r.Database, r.Collection)
}

// PageRequest reads documents [Offset, Offset+Limit) of a collection
type PageRequest struct {
	Database   string
	Collection string
	Offset     int
	Limit      int
}

func (r PageRequest) Run(ctx context.Context, src bridge.Source) (any, error) {
	return src.ListDocuments(ctx, r.Database, r.Collection, r.Offset, r.Limit)
}

// QueryRequest executes an AQL query
type QueryRequest struct {
	Database string
	Query    string
}

func (r QueryRequest) Run(ctx context.Context, src bridge.Source) (any, error) {
	return src.ExecuteQuery(ctx, r.Database, r.Query)
}

// GraphsRequest lists the named graphs of a database
type GraphsRequest struct {
	Database string
}

func (r GraphsRequest) Run(ctx context.Context, src bridge.Source) (any, error) {
	return src.ListGraphs(ctx, r.Database)
}

// GraphRequest reads one named graph
type GraphRequest struct {
	Database string
	Name     string
}

func (r GraphRequest) Run(ctx context.Context, src bridge.Source) (any, error) {
	return src.Graph(ctx, r.Database, r.Name)
}
