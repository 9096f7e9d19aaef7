package navigator

import (
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/studiowebux/arangotui/internal/bridge"
	"github.com/studiowebux/arangotui/internal/client"
	"github.com/studiowebux/arangotui/internal/filter"
	"github.com/studiowebux/arangotui/internal/types"
)

const (
	// DefaultPageSize is the number of documents fetched per page
	DefaultPageSize = 50
	// DefaultHeight is the number of visible rows before the first resize
	DefaultHeight = 20
)

// ViewID identifies one pushed frame
type ViewID = bridge.ViewID

// Fetcher runs requests on behalf of frames. *bridge.Bridge implements it.
type Fetcher interface {
	Submit(view ViewID, req bridge.Request) *bridge.Handle
	CancelView(view ViewID)
}

// Signal tells the event loop about outcomes the stack cannot express
type Signal int

const (
	SignalNone Signal = iota
	SignalQuit
	SignalGAE
	SignalOptions
	SignalNoAccess
)

// Options configures a Navigator
type Options struct {
	PageSize int
	Height   int
	Logger   *zap.Logger
}

// Navigator holds the view stack
type Navigator struct {
	stack    []*Frame
	fetcher  Fetcher
	nextID   ViewID
	pageSize int
	height   int
	logger   *zap.Logger
}

// New creates a navigator showing the main menu
func New(fetcher Fetcher, opts Options) *Navigator {
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	if opts.Height <= 0 {
		opts.Height = DefaultHeight
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	n := &Navigator{
		fetcher:  fetcher,
		pageSize: opts.PageSize,
		height:   opts.Height,
		logger:   opts.Logger.Named("navigator"),
	}
	n.Enter(&MainMenu{})
	return n
}

// Top returns the frame on screen
func (n *Navigator) Top() *Frame {
	return n.stack[len(n.stack)-1]
}

// Depth returns the number of frames on the stack
func (n *Navigator) Depth() int {
	return len(n.stack)
}

// Frames returns the stack, bottom first
func (n *Navigator) Frames() []*Frame {
	out := make([]*Frame, len(n.stack))
	copy(out, n.stack)
	return out
}

// Breadcrumb returns the titles of every frame, bottom first
func (n *Navigator) Breadcrumb() []string {
	titles := make([]string, len(n.stack))
	for i, f := range n.stack {
		titles[i] = f.View.Title()
	}
	return titles
}

// PageSize returns the document page size
func (n *Navigator) PageSize() int {
	return n.pageSize
}

// Height returns the number of visible rows
func (n *Navigator) Height() int {
	return n.height
}

// SetHeight updates the number of visible rows and keeps every cursor in view
func (n *Navigator) SetHeight(h int) {
	if h < 1 {
		h = 1
	}
	n.height = h
	for _, f := range n.stack {
		n.ensureVisible(f)
	}
}

// Enter pushes a frame for v and submits the fetch it needs
func (n *Navigator) Enter(v View) *Frame {
	if len(n.stack) > 0 {
		prev := n.Top()
		if prev.Loading {
			n.fetcher.CancelView(prev.ID)
			prev.Loading = false
			prev.stale = true
		}
	}

	n.prepare(v)
	n.nextID++
	f := &Frame{ID: n.nextID, View: v}
	n.stack = append(n.stack, f)

	n.logger.Debug("enter", zap.Stringer("kind", v.Kind()), zap.Uint64("view", uint64(f.ID)))
	n.fetch(f)
	return f
}

// Back pops the top frame. It returns true instead of popping when the
// top frame is the last one.
func (n *Navigator) Back() (quit bool) {
	if len(n.stack) <= 1 {
		return true
	}

	top := n.Top()
	n.fetcher.CancelView(top.ID)
	n.stack[len(n.stack)-1] = nil
	n.stack = n.stack[:len(n.stack)-1]

	n.logger.Debug("back", zap.Stringer("kind", top.View.Kind()), zap.Uint64("view", uint64(top.ID)))

	if f := n.Top(); f.stale {
		f.stale = false
		n.resume(f)
	}
	return false
}

// Complete merges a finished fetch into the top frame. Results for any
// other frame are discarded and Complete returns false.
func (n *Navigator) Complete(c bridge.Completion) bool {
	top := n.Top()
	if c.View != top.ID {
		n.logger.Debug("discarding result for inactive view",
			zap.Uint64("view", uint64(c.View)),
			zap.Uint64("top", uint64(top.ID)),
		)
		return false
	}

	top.Loading = false
	if c.Err != nil {
		n.fail(top, c.Err)
		return true
	}

	top.Err = nil
	if err := n.merge(top, c.Value); err != nil {
		n.fail(top, err)
	}
	return true
}

// Refresh re-submits the fetch of the top frame, keeping the data shown
// until the new result arrives
func (n *Navigator) Refresh() bool {
	f := n.Top()
	switch v := f.View.(type) {
	case *MainMenu:
		return false
	case *QueryView:
		if v.Execution.Query == "" {
			return false
		}
		return n.runQuery(f, v, v.Execution.Query)
	case *CollectionContent:
		v.refreshing = true
		n.submit(f, v.firstPage())
		return true
	}
	n.fetch(f)
	return true
}

// DismissError clears the error banner of the top frame
func (n *Navigator) DismissError() bool {
	f := n.Top()
	if f.Err == nil {
		return false
	}
	f.Err = nil
	return true
}

// prepare initializes bookkeeping of a view about to be pushed
func (n *Navigator) prepare(v View) {
	switch v := v.(type) {
	case *CollectionContent:
		if v.PageSize <= 0 {
			v.PageSize = n.pageSize
		}
		v.Total = -1
		v.keys = make(map[string]struct{})
	case *MainMenu, *DatabaseList, *CollectionList, *CollectionProperties, *QueryView, *GraphList, *GraphDetail:
	}
}

// initialRequest returns the fetch that fills a freshly pushed view
func (n *Navigator) initialRequest(v View) bridge.Request {
	switch v := v.(type) {
	case *MainMenu:
		return nil
	case *DatabaseList:
		return DatabasesRequest{}
	case *CollectionList:
		return CollectionsRequest{Database: v.Database}
	case *CollectionProperties:
		return PropertiesRequest{Database: v.Database, Collection: v.Collection}
	case *CollectionContent:
		return PageRequest{Database: v.Database, Collection: v.Collection, Offset: v.NextOffset, Limit: v.PageSize}
	case *QueryView:
		return nil
	case *GraphList:
		return GraphsRequest{Database: v.Database}
	case *GraphDetail:
		return GraphRequest{Database: v.Database, Name: v.Name}
	default:
		panic(fmt.Sprintf("navigator: unhandled view %T", v))
	}
}

func (n *Navigator) fetch(f *Frame) {
	req := n.initialRequest(f.View)
	if req == nil {
		return
	}
	n.submit(f, req)
}

func (n *Navigator) submit(f *Frame, req bridge.Request) {
	f.Loading = true
	n.fetcher.Submit(f.ID, req)
}

// resume restarts the fetch a covered frame lost
func (n *Navigator) resume(f *Frame) {
	switch v := f.View.(type) {
	case *CollectionContent:
		if v.refreshing {
			n.submit(f, v.firstPage())
			return
		}
		if len(v.Documents) == 0 {
			n.fetch(f)
			return
		}
		n.maybeFetchPage(f)
	case *QueryView:
		if v.Execution.State == ExecRunning {
			n.submit(f, QueryRequest{Database: v.Database, Query: v.Execution.Query})
		}
	default:
		n.fetch(f)
	}
}

func (n *Navigator) fail(f *Frame, err *client.Error) {
	f.Err = err
	switch v := f.View.(type) {
	case *QueryView:
		v.Execution.State = ExecFailed
		v.Execution.Err = err
	case *CollectionContent:
		v.refreshing = false
		// Stop at the loaded edge so the cursor does not wait on a failed page
		if f.Cursor >= len(v.Documents) {
			f.Cursor = max(len(v.Documents)-1, 0)
			n.ensureVisible(f)
		}
	}
}

// merge stores a successful result in the frame's view
func (n *Navigator) merge(f *Frame, value any) *client.Error {
	ok := true
	switch v := f.View.(type) {
	case *MainMenu:
	case *DatabaseList:
		var dbs []types.DatabaseSummary
		if dbs, ok = value.([]types.DatabaseSummary); ok {
			v.Databases = dbs
			v.refilter()
		}
	case *CollectionList:
		var cols []types.CollectionSummary
		if cols, ok = value.([]types.CollectionSummary); ok {
			v.Collections = cols
			v.refilter()
		}
	case *CollectionProperties:
		var s types.CollectionSummary
		if s, ok = value.(types.CollectionSummary); ok {
			v.Summary = &s
			v.Lines = jsonLines(s.Properties)
		}
	case *CollectionContent:
		var batch types.DocumentBatch
		if batch, ok = value.(types.DocumentBatch); ok {
			if v.refreshing {
				v.resetPages()
			}
			v.mergePage(batch)
			n.clamp(f)
			n.maybeFetchPage(f)
			return nil
		}
	case *QueryView:
		var res types.QueryResult
		if res, ok = value.(types.QueryResult); ok {
			v.Execution.State = ExecSucceeded
			v.Execution.Result = &res
			v.Execution.Err = nil
			v.applyFilter()
		}
	case *GraphList:
		var graphs []types.GraphSummary
		if graphs, ok = value.([]types.GraphSummary); ok {
			v.Graphs = graphs
			v.refilter()
		}
	case *GraphDetail:
		var g types.GraphSummary
		if g, ok = value.(types.GraphSummary); ok {
			v.Graph = &g
			v.Lines = jsonLines(g)
		}
	default:
		panic(fmt.Sprintf("navigator: unhandled view %T", v))
	}

	if !ok {
		n.logger.Warn("unexpected result type",
			zap.Stringer("kind", f.View.Kind()),
			zap.String("type", fmt.Sprintf("%T", value)),
		)
		return &client.Error{Kind: client.KindDecode, Message: fmt.Sprintf("unexpected result %T", value)}
	}
	n.clamp(f)
	return nil
}

func (v *CollectionContent) firstPage() PageRequest {
	return PageRequest{Database: v.Database, Collection: v.Collection, Offset: 0, Limit: v.PageSize}
}

// resetPages drops the loaded pages once a refreshed first page arrived
func (v *CollectionContent) resetPages() {
	v.Documents = nil
	v.keys = make(map[string]struct{})
	v.NextOffset = 0
	v.Total = -1
	v.Exhausted = false
	v.refreshing = false
}

// mergePage appends a page, skipping keys already loaded
func (v *CollectionContent) mergePage(batch types.DocumentBatch) {
	if v.keys == nil {
		v.keys = make(map[string]struct{})
	}
	for _, doc := range batch.Documents {
		if _, seen := v.keys[doc.Key]; seen {
			continue
		}
		v.keys[doc.Key] = struct{}{}
		v.Documents = append(v.Documents, doc)
	}

	if end := batch.Offset + len(batch.Documents); end > v.NextOffset {
		v.NextOffset = end
	}
	if batch.Total >= 0 {
		v.Total = batch.Total
	}
	if len(batch.Documents) < v.PageSize || !v.HasMore() {
		v.Exhausted = true
		v.Total = int64(len(v.Documents))
	}
}

func (v *DatabaseList) refilter() {
	names := make([]string, len(v.Databases))
	for i, db := range v.Databases {
		names[i] = db.Name
	}
	v.Visible = filter.Fuzzy(v.Search, names)
}

func (v *CollectionList) refilter() {
	names := make([]string, len(v.Collections))
	for i, c := range v.Collections {
		names[i] = c.Name
	}
	v.Visible = filter.Fuzzy(v.Search, names)
}

func (v *GraphList) refilter() {
	names := make([]string, len(v.Graphs))
	for i, g := range v.Graphs {
		names[i] = g.Name
	}
	v.Visible = filter.Fuzzy(v.Search, names)
}

// applyFilter recomputes the displayed rows from the last result
func (v *QueryView) applyFilter() {
	v.FilterErr = ""
	if v.Execution.Result == nil {
		v.Rows = nil
		return
	}
	rows, err := filter.Rows(v.Execution.Result.Rows, v.Filter)
	if err != nil {
		v.FilterErr = err.Error()
		v.Rows = v.Execution.Result.Rows
		return
	}
	v.Rows = rows
}

// jsonLines renders v as indented JSON split into lines
func jsonLines(v any) []string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return []string{fmt.Sprintf("<%v>", err)}
	}
	return strings.Split(string(data), "\n")
}
