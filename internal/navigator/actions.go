package navigator

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/studiowebux/arangotui/internal/client"
	"github.com/studiowebux/arangotui/internal/types"
)

// Select activates the row under the cursor
func (n *Navigator) Select() Signal {
	f := n.Top()
	switch v := f.View.(type) {
	case *MainMenu:
		if f.Cursor >= len(MenuItems) {
			return SignalNone
		}
		switch MenuItems[f.Cursor] {
		case MenuBrowse:
			n.Enter(&DatabaseList{})
		case MenuGAE:
			return SignalGAE
		case MenuOptions:
			return SignalOptions
		case MenuQuit:
			return SignalQuit
		}
	case *DatabaseList:
		db := SelectedDatabase(f)
		if db == nil {
			return SignalNone
		}
		if !db.Accessible {
			return SignalNoAccess
		}
		n.Enter(&CollectionList{Database: db.Name})
	case *CollectionList:
		if col := SelectedCollection(f); col != nil {
			n.Enter(&CollectionProperties{Database: v.Database, Collection: col.Name})
		}
	case *GraphList:
		if g := SelectedGraph(f); g != nil {
			n.Enter(&GraphDetail{Database: v.Database, Name: g.Name})
		}
	case *CollectionProperties, *CollectionContent, *QueryView, *GraphDetail:
	}
	return SignalNone
}

// OpenContent opens the document view for the selected collection
func (n *Navigator) OpenContent() Signal {
	f := n.Top()
	switch v := f.View.(type) {
	case *CollectionList:
		if col := SelectedCollection(f); col != nil {
			n.Enter(&CollectionContent{Database: v.Database, Collection: col.Name})
		}
	case *CollectionProperties:
		n.Enter(&CollectionContent{Database: v.Database, Collection: v.Collection})
	}
	return SignalNone
}

// OpenQuery opens a query view for the current database
func (n *Navigator) OpenQuery() Signal {
	db, sig := n.currentDatabase()
	if db == "" {
		return sig
	}
	n.Enter(&QueryView{Database: db})
	return SignalNone
}

// OpenGraphs opens the graph list for the current database
func (n *Navigator) OpenGraphs() Signal {
	db, sig := n.currentDatabase()
	if db == "" {
		return sig
	}
	n.Enter(&GraphList{Database: db})
	return SignalNone
}

// currentDatabase returns the database the top frame is about. On the
// database list that is the selected row.
func (n *Navigator) currentDatabase() (string, Signal) {
	f := n.Top()
	switch v := f.View.(type) {
	case *DatabaseList:
		db := SelectedDatabase(f)
		if db == nil {
			return "", SignalNone
		}
		if !db.Accessible {
			return "", SignalNoAccess
		}
		return db.Name, SignalNone
	case *CollectionList:
		return v.Database, SignalNone
	case *CollectionProperties:
		return v.Database, SignalNone
	case *CollectionContent:
		return v.Database, SignalNone
	case *GraphList:
		return v.Database, SignalNone
	case *GraphDetail:
		return v.Database, SignalNone
	default:
		return "", SignalNone
	}
}

// SetQueryText replaces the query text of the top query view
func (n *Navigator) SetQueryText(query string) bool {
	v, ok := n.Top().View.(*QueryView)
	if !ok {
		return false
	}
	v.Query = query
	return true
}

// ExecuteQuery runs the query text of the top query view. It does nothing
// while an execution is running or when the text is blank.
func (n *Navigator) ExecuteQuery() bool {
	f := n.Top()
	v, ok := f.View.(*QueryView)
	if !ok {
		return false
	}
	if v.Execution.State == ExecRunning {
		return false
	}
	if strings.TrimSpace(v.Query) == "" {
		f.Err = &client.Error{Kind: client.KindBadRequest, Message: "query is empty"}
		return false
	}
	return n.runQuery(f, v, v.Query)
}

func (n *Navigator) runQuery(f *Frame, v *QueryView, query string) bool {
	if v.Execution.State == ExecRunning {
		return false
	}
	v.Execution = Execution{
		State:   ExecRunning,
		Query:   query,
		Started: time.Now(),
		Result:  v.Execution.Result,
	}
	f.Err = nil
	n.logger.Info("executing query", zap.String("database", v.Database), zap.Int("length", len(query)))
	n.submit(f, QueryRequest{Database: v.Database, Query: query})
	return true
}

// SetSearch narrows the list on screen to names fuzzy-matching pattern
func (n *Navigator) SetSearch(pattern string) bool {
	f := n.Top()
	switch v := f.View.(type) {
	case *DatabaseList:
		v.Search = pattern
		v.refilter()
	case *CollectionList:
		v.Search = pattern
		v.refilter()
	case *GraphList:
		v.Search = pattern
		v.refilter()
	default:
		return false
	}
	f.Cursor, f.Offset = 0, 0
	return true
}

// SetResultFilter applies a JMESPath expression to the query result rows
func (n *Navigator) SetResultFilter(expr string) bool {
	f := n.Top()
	v, ok := f.View.(*QueryView)
	if !ok {
		return false
	}
	v.Filter = strings.TrimSpace(expr)
	v.applyFilter()
	f.Cursor, f.Offset = 0, 0
	n.clamp(f)
	return true
}

// SelectedDatabase returns the database under the cursor of a database list
func SelectedDatabase(f *Frame) *types.DatabaseSummary {
	v, ok := f.View.(*DatabaseList)
	if !ok || f.Cursor < 0 || f.Cursor >= len(v.Visible) {
		return nil
	}
	return &v.Databases[v.Visible[f.Cursor]]
}

// SelectedCollection returns the collection under the cursor of a collection list
func SelectedCollection(f *Frame) *types.CollectionSummary {
	v, ok := f.View.(*CollectionList)
	if !ok || f.Cursor < 0 || f.Cursor >= len(v.Visible) {
		return nil
	}
	return &v.Collections[v.Visible[f.Cursor]]
}

// SelectedGraph returns the graph under the cursor of a graph list
func SelectedGraph(f *Frame) *types.GraphSummary {
	v, ok := f.View.(*GraphList)
	if !ok || f.Cursor < 0 || f.Cursor >= len(v.Visible) {
		return nil
	}
	return &v.Graphs[v.Visible[f.Cursor]]
}

// SelectedDocument returns the document under the cursor, nil while the
// cursor waits on a page
func SelectedDocument(f *Frame) *types.Document {
	v, ok := f.View.(*CollectionContent)
	if !ok || f.Cursor < 0 || f.Cursor >= len(v.Documents) {
		return nil
	}
	return &v.Documents[f.Cursor]
}

// Selection returns the text a copy action takes from the top frame
func Selection(f *Frame) (string, bool) {
	switch v := f.View.(type) {
	case *DatabaseList:
		if db := SelectedDatabase(f); db != nil {
			return db.Name, true
		}
	case *CollectionList:
		if col := SelectedCollection(f); col != nil {
			return col.Name, true
		}
	case *GraphList:
		if g := SelectedGraph(f); g != nil {
			return g.Name, true
		}
	case *CollectionProperties:
		if len(v.Lines) > 0 {
			return strings.Join(v.Lines, "\n"), true
		}
	case *GraphDetail:
		if len(v.Lines) > 0 {
			return strings.Join(v.Lines, "\n"), true
		}
	case *CollectionContent:
		if doc := SelectedDocument(f); doc != nil {
			return strings.Join(jsonLines(doc.Raw), "\n"), true
		}
	case *QueryView:
		if f.Cursor >= 0 && f.Cursor < len(v.Rows) {
			return strings.Join(jsonLines(v.Rows[f.Cursor]), "\n"), true
		}
	case *MainMenu:
	}
	return "", false
}
