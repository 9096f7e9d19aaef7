package navigator

import (
	"encoding/json"
	"time"

	"github.com/studiowebux/arangotui/internal/client"
	"github.com/studiowebux/arangotui/internal/types"
)

// Kind identifies a view variant
type Kind int

const (
	KindMainMenu Kind = iota
	KindDatabaseList
	KindCollectionList
	KindCollectionProperties
	KindCollectionContent
	KindQuery
	KindGraphList
	KindGraphDetail
)

// String returns the kind name used for key binding contexts
func (k Kind) String() string {
	switch k {
	case KindMainMenu:
		return "menu"
	case KindDatabaseList:
		return "databases"
	case KindCollectionList:
		return "collections"
	case KindCollectionProperties:
		return "properties"
	case KindCollectionContent:
		return "documents"
	case KindQuery:
		return "query"
	case KindGraphList:
		return "graphs"
	case KindGraphDetail:
		return "graph"
	default:
		return "unknown"
	}
}

// View is the closed set of screens. Every variant is a pointer type
// declared in this file.
type View interface {
	Kind() Kind
	Title() string
	isView()
}

// MenuItem is an entry of the main menu
type MenuItem int

const (
	MenuBrowse MenuItem = iota
	MenuGAE
	MenuOptions
	MenuQuit
)

// Label returns the menu text
func (m MenuItem) Label() string {
	switch m {
	case MenuBrowse:
		return "Browse databases"
	case MenuGAE:
		return "Graph Analytics Engine (GAE)"
	case MenuOptions:
		return "Options"
	case MenuQuit:
		return "Quit"
	default:
		return ""
	}
}

// MenuItems is the main menu in display order
var MenuItems = []MenuItem{MenuBrowse, MenuGAE, MenuOptions, MenuQuit}

type MainMenu struct{}

type DatabaseList struct {
	Databases []types.DatabaseSummary
	Search    string
	// Visible holds indices into Databases matching Search
	Visible []int
}

type CollectionList struct {
	Database    string
	Collections []types.CollectionSummary
	Search      string
	Visible     []int
}

// TotalDocuments sums the known collection counts
func (v *CollectionList) TotalDocuments() int64 {
	var total int64
	for _, c := range v.Collections {
		if c.Count != nil {
			total += *c.Count
		}
	}
	return total
}

type CollectionProperties struct {
	Database   string
	Collection string
	Summary    *types.CollectionSummary
	// Lines is the indented JSON of the property document
	Lines []string
}

type CollectionContent struct {
	Database   string
	Collection string
	PageSize   int
	Documents  []types.Document
	// Total is the collection size reported by the last page, -1 if unknown
	Total int64
	// NextOffset is where the next page starts. It never decreases.
	NextOffset int
	// Exhausted is set once a page came back short
	Exhausted bool

	keys map[string]struct{}
	// refreshing is set while a reload from offset 0 is in flight. The
	// loaded pages stay on screen until it succeeds.
	refreshing bool
}

// Count is the number of rows the cursor may move over
func (v *CollectionContent) Count() int {
	if v.Total >= 0 {
		return int(v.Total)
	}
	return len(v.Documents)
}

// HasMore reports whether documents past the loaded window exist
func (v *CollectionContent) HasMore() bool {
	if v.Exhausted {
		return false
	}
	if v.Total >= 0 {
		return int64(v.NextOffset) < v.Total
	}
	return true
}

// ExecState is the lifecycle of a query execution
type ExecState int

const (
	ExecIdle ExecState = iota
	ExecRunning
	ExecSucceeded
	ExecFailed
)

func (s ExecState) String() string {
	switch s {
	case ExecIdle:
		return "Idle"
	case ExecRunning:
		return "Running"
	case ExecSucceeded:
		return "Succeeded"
	case ExecFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Execution is the state of the last query run in a QueryView
type Execution struct {
	State   ExecState
	Query   string
	Started time.Time
	Result  *types.QueryResult
	Err     *client.Error
}

type QueryView struct {
	Database  string
	Query     string
	Execution Execution
	// Filter is a JMESPath expression applied to the result rows
	Filter    string
	FilterErr string
	// Rows are the displayed rows, filtered when Filter is set
	Rows []json.RawMessage
}

type GraphList struct {
	Database string
	Graphs   []types.GraphSummary
	Search   string
	Visible  []int
}

type GraphDetail struct {
	Database string
	Name     string
	Graph    *types.GraphSummary
	Lines    []string
}

func (*MainMenu) Kind() Kind             { return KindMainMenu }
func (*DatabaseList) Kind() Kind         { return KindDatabaseList }
func (*CollectionList) Kind() Kind       { return KindCollectionList }
func (*CollectionProperties) Kind() Kind { return KindCollectionProperties }
func (*CollectionContent) Kind() Kind    { return KindCollectionContent }
func (*QueryView) Kind() Kind            { return KindQuery }
func (*GraphList) Kind() Kind            { return KindGraphList }
func (*GraphDetail) Kind() Kind          { return KindGraphDetail }

func (*MainMenu) Title() string               { return "Main Menu" }
func (*DatabaseList) Title() string           { return "Databases" }
func (v *CollectionList) Title() string       { return v.Database }
func (v *CollectionProperties) Title() string { return v.Collection + " (properties)" }
func (v *CollectionContent) Title() string    { return v.Collection + " (documents)" }
func (v *QueryView) Title() string            { return "AQL @ " + v.Database }
func (v *GraphList) Title() string            { return "Graphs @ " + v.Database }
func (v *GraphDetail) Title() string          { return v.Name }

func (*MainMenu) isView()             {}
func (*DatabaseList) isView()         {}
func (*CollectionList) isView()       {}
func (*CollectionProperties) isView() {}
func (*CollectionContent) isView()    {}
func (*QueryView) isView()            {}
func (*GraphList) isView()            {}
func (*GraphDetail) isView()          {}

// Frame is one entry of the view stack
type Frame struct {
	ID      ViewID
	View    View
	Loading bool
	Err     *client.Error
	// Cursor is the selected row (or first visible line for text views)
	Cursor int
	// Offset is the first row of the visible window
	Offset int
	// stale marks a frame whose fetch was dropped while it was covered
	stale bool
}
