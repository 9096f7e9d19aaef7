package bridge

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/studiowebux/arangotui/internal/client"
	"github.com/studiowebux/arangotui/internal/types"
)

const (
	// DefaultWorkers bounds how many requests run at once
	DefaultWorkers = 4
	// DefaultInboxSize is the capacity of the completion inbox
	DefaultInboxSize = 64
)

// Source is the data client as seen by requests
type Source interface {
	Version(ctx context.Context) (types.ServerVersion, error)
	GAEVersion(ctx context.Context) (types.GAEVersion, error)
	ListDatabases(ctx context.Context) ([]types.DatabaseSummary, error)
	ListCollections(ctx context.Context, database string) ([]types.CollectionSummary, error)
	CollectionProperties(ctx context.Context, database, collection string) (types.CollectionSummary, error)
	ListDocuments(ctx context.Context, database, collection string, offset, limit int) (types.DocumentBatch, error)
	ExecuteQuery(ctx context.Context, database, query string) (types.QueryResult, error)
	ListGraphs(ctx context.Context, database string) ([]types.GraphSummary, error)
	Graph(ctx context.Context, database, name string) (types.GraphSummary, error)
}

// Request is one unit of work against a Source
type Request interface {
	Run(ctx context.Context, src Source) (any, error)
}

// RequestFunc adapts a function to Request
type RequestFunc func(ctx context.Context, src Source) (any, error)

// Run calls f
func (f RequestFunc) Run(ctx context.Context, src Source) (any, error) {
	return f(ctx, src)
}

// ViewID identifies one pushed view instance
type ViewID uint64

// Handle tracks one submitted request
type Handle struct {
	seq       uint64
	view      ViewID
	request   Request
	cancel    context.CancelFunc
	cancelled atomic.Bool
	submitted time.Time
}

// View returns the view id the request was submitted for
func (h *Handle) View() ViewID {
	return h.view
}

// Request returns the submitted request
func (h *Handle) Request() Request {
	return h.request
}

// Cancelled reports whether the handle was cancelled
func (h *Handle) Cancelled() bool {
	return h.cancelled.Load()
}

// Completion is the outcome of a request, delivered by Drain
type Completion struct {
	View    ViewID
	Request Request
	Value   any
	// Err is nil on success
	Err     *client.Error
	Elapsed time.Duration

	handle *Handle
}

// Options tunes a Bridge
type Options struct {
	Workers   int
	InboxSize int
}

// Bridge dispatches requests to worker goroutines
type Bridge struct {
	src    Source
	logger *zap.Logger
	inbox  chan Completion
	sem    *semaphore.Weighted

	ctx  context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup

	mu      sync.Mutex
	handles map[ViewID]*Handle
	closed  bool
	seq     atomic.Uint64
	dropped atomic.Int64
}

// New creates a bridge running requests against src
func New(src Source, logger *zap.Logger, opts Options) *Bridge {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.InboxSize <= 0 {
		opts.InboxSize = DefaultInboxSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, stop := context.WithCancel(context.Background())
	return &Bridge{
		src:     src,
		logger:  logger.Named("bridge"),
		inbox:   make(chan Completion, opts.InboxSize),
		sem:     semaphore.NewWeighted(int64(opts.Workers)),
		ctx:     ctx,
		stop:    stop,
		handles: make(map[ViewID]*Handle),
	}
}

// Submit starts req for view and returns immediately. Any outstanding handle
// for the same view is cancelled first.
func (b *Bridge) Submit(view ViewID, req Request) *Handle {
	ctx, cancel := context.WithCancel(b.ctx)
	h := &Handle{
		seq:       b.seq.Add(1),
		view:      view,
		request:   req,
		cancel:    cancel,
		submitted: time.Now(),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		h.cancelled.Store(true)
		cancel()
		return h
	}
	if prev, ok := b.handles[view]; ok {
		b.cancelLocked(prev)
	}
	b.handles[view] = h
	b.wg.Add(1)
	b.mu.Unlock()

	b.logger.Debug("submit",
		zap.Uint64("view", uint64(view)),
		zap.Uint64("seq", h.seq),
		zap.String("request", fmt.Sprintf("%T", req)),
	)

	go b.run(ctx, h)
	return h
}

// Cancel cancels the handle. Its result will not be delivered.
func (b *Bridge) Cancel(h *Handle) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancelLocked(h)
}

// CancelView cancels the outstanding handle of view, if any
func (b *Bridge) CancelView(view ViewID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if h, ok := b.handles[view]; ok {
		b.cancelLocked(h)
	}
}

func (b *Bridge) cancelLocked(h *Handle) {
	if h.cancelled.Swap(true) {
		return
	}
	h.cancel()
	if cur, ok := b.handles[h.view]; ok && cur == h {
		delete(b.handles, h.view)
	}
	b.logger.Debug("cancel", zap.Uint64("view", uint64(h.view)), zap.Uint64("seq", h.seq))
}

// Drain returns every completion currently in the inbox without blocking.
// Completions of handles cancelled after they were enqueued are dropped.
func (b *Bridge) Drain() []Completion {
	var out []Completion
	for {
		select {
		case c := <-b.inbox:
			if c.handle.Cancelled() {
				b.dropped.Add(1)
				b.logger.Debug("dropped cancelled result",
					zap.Uint64("view", uint64(c.View)),
					zap.Uint64("seq", c.handle.seq),
				)
				continue
			}
			b.mu.Lock()
			if cur, ok := b.handles[c.View]; ok && cur == c.handle {
				delete(b.handles, c.View)
			}
			b.mu.Unlock()
			out = append(out, c)
		default:
			return out
		}
	}
}

// Pending returns the number of outstanding handles
func (b *Bridge) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handles)
}

// Dropped returns how many results were discarded after cancellation
func (b *Bridge) Dropped() int64 {
	return b.dropped.Load()
}

// Close cancels all outstanding work and waits for workers to exit
func (b *Bridge) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, h := range b.handles {
		b.cancelLocked(h)
	}
	b.mu.Unlock()

	b.stop()
	b.wg.Wait()
}

func (b *Bridge) run(ctx context.Context, h *Handle) {
	defer b.wg.Done()
	defer h.cancel()

	if err := b.sem.Acquire(ctx, 1); err != nil {
		b.dropped.Add(1)
		return
	}
	value, err := b.execute(ctx, h)
	b.sem.Release(1)

	if h.Cancelled() {
		b.dropped.Add(1)
		b.logger.Debug("dropped cancelled result",
			zap.Uint64("view", uint64(h.view)),
			zap.Uint64("seq", h.seq),
		)
		return
	}

	c := Completion{
		View:    h.view,
		Request: h.request,
		Value:   value,
		Elapsed: time.Since(h.submitted),
		handle:  h,
	}
	if err != nil {
		c.Err = client.AsError(err)
		c.Value = nil
	}

	select {
	case b.inbox <- c:
	case <-ctx.Done():
		b.dropped.Add(1)
	}
}

// execute runs the request, turning a panic into a ServerError
func (b *Bridge) execute(ctx context.Context, h *Handle) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("request panicked",
				zap.Uint64("view", uint64(h.view)),
				zap.Any("panic", r),
				zap.ByteString("stack", debug.Stack()),
			)
			value = nil
			err = &client.Error{
				Kind:    client.KindServerError,
				Message: fmt.Sprintf("internal error: %v", r),
			}
		}
	}()
	return h.request.Run(ctx, b.src)
}
