package bridge

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiowebux/arangotui/internal/client"
)

func value(v any) RequestFunc {
	return func(ctx context.Context, src Source) (any, error) {
		return v, nil
	}
}

func newTestBridge(t *testing.T, opts Options) *Bridge {
	t.Helper()
	b := New(nil, nil, opts)
	t.Cleanup(b.Close)
	return b
}

// drainUntil drains until n completions were collected or the wait expires
func drainUntil(t *testing.T, b *Bridge, n int) []Completion {
	t.Helper()
	var got []Completion
	require.Eventually(t, func() bool {
		got = append(got, b.Drain()...)
		return len(got) >= n
	}, 2*time.Second, 5*time.Millisecond)
	return got
}

func TestSubmitDelivers(t *testing.T) {
	b := newTestBridge(t, Options{})

	h := b.Submit(1, value("databases"))
	assert.Equal(t, ViewID(1), h.View())
	assert.False(t, h.Cancelled())

	got := drainUntil(t, b, 1)
	require.Len(t, got, 1)
	assert.Equal(t, ViewID(1), got[0].View)
	assert.Equal(t, "databases", got[0].Value)
	assert.Nil(t, got[0].Err)
	assert.Equal(t, 0, b.Pending())
}

func TestDrainDoesNotBlock(t *testing.T) {
	b := newTestBridge(t, Options{})

	done := make(chan struct{})
	go func() {
		b.Drain()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Drain blocked on an empty inbox")
	}
}

func TestSubmitSupersedesSameView(t *testing.T) {
	b := newTestBridge(t, Options{})

	release := make(chan struct{})
	var oldCtx context.Context
	started := make(chan struct{})

	// Ignores cancellation like a network call that completes anyway
	first := b.Submit(7, RequestFunc(func(ctx context.Context, src Source) (any, error) {
		oldCtx = ctx
		close(started)
		<-release
		return "old", nil
	}))
	<-started

	second := b.Submit(7, value("new"))
	assert.True(t, first.Cancelled())
	assert.False(t, second.Cancelled())
	assert.Error(t, oldCtx.Err())
	assert.Equal(t, 1, b.Pending())

	got := drainUntil(t, b, 1)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Value)

	close(release)
	require.Eventually(t, func() bool { return b.Dropped() >= 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Empty(t, b.Drain())
}

func TestCancelAfterEnqueueDrops(t *testing.T) {
	b := newTestBridge(t, Options{})

	h := b.Submit(3, value("late"))
	require.Eventually(t, func() bool { return len(b.inbox) == 1 }, 2*time.Second, 5*time.Millisecond)

	b.Cancel(h)
	assert.Empty(t, b.Drain())
	assert.Equal(t, int64(1), b.Dropped())
	assert.Equal(t, 0, b.Pending())
}

func TestCancelView(t *testing.T) {
	b := newTestBridge(t, Options{})

	h := b.Submit(4, RequestFunc(func(ctx context.Context, src Source) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))
	b.CancelView(4)
	b.CancelView(99)

	assert.True(t, h.Cancelled())
	require.Eventually(t, func() bool { return b.Dropped() == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Empty(t, b.Drain())
}

func TestDifferentViewsDoNotInterfere(t *testing.T) {
	b := newTestBridge(t, Options{})

	b.Submit(1, value("a"))
	b.Submit(2, value("b"))

	got := drainUntil(t, b, 2)
	values := []any{got[0].Value, got[1].Value}
	assert.ElementsMatch(t, []any{"a", "b"}, values)
}

func TestErrorsNormalized(t *testing.T) {
	b := newTestBridge(t, Options{})

	b.Submit(1, RequestFunc(func(ctx context.Context, src Source) (any, error) {
		return "partial", errors.New("boom")
	}))
	b.Submit(2, RequestFunc(func(ctx context.Context, src Source) (any, error) {
		return nil, &client.Error{Kind: client.KindUnauthorized, Message: "denied"}
	}))

	got := drainUntil(t, b, 2)
	byView := map[ViewID]Completion{}
	for _, c := range got {
		byView[c.View] = c
	}

	require.NotNil(t, byView[1].Err)
	assert.Equal(t, client.KindServerError, byView[1].Err.Kind)
	assert.Equal(t, "boom", byView[1].Err.Message)
	assert.Nil(t, byView[1].Value)

	require.NotNil(t, byView[2].Err)
	assert.Equal(t, client.KindUnauthorized, byView[2].Err.Kind)
}

func TestPanicReportedAsServerError(t *testing.T) {
	b := newTestBridge(t, Options{})

	b.Submit(1, RequestFunc(func(ctx context.Context, src Source) (any, error) {
		panic("kaboom")
	}))

	got := drainUntil(t, b, 1)
	require.NotNil(t, got[0].Err)
	assert.Equal(t, client.KindServerError, got[0].Err.Kind)
	assert.Equal(t, "internal error: kaboom", got[0].Err.Message)
}

func TestWorkerBound(t *testing.T) {
	b := newTestBridge(t, Options{Workers: 2})

	var running, maxRunning atomic.Int32
	release := make(chan struct{})
	for i := 1; i <= 5; i++ {
		b.Submit(ViewID(i), RequestFunc(func(ctx context.Context, src Source) (any, error) {
			n := running.Add(1)
			for {
				m := maxRunning.Load()
				if n <= m || maxRunning.CompareAndSwap(m, n) {
					break
				}
			}
			<-release
			running.Add(-1)
			return nil, nil
		}))
	}

	require.Eventually(t, func() bool { return running.Load() == 2 }, 2*time.Second, 5*time.Millisecond)
	close(release)

	drainUntil(t, b, 5)
	assert.LessOrEqual(t, maxRunning.Load(), int32(2))
}

func TestCloseCancelsOutstanding(t *testing.T) {
	b := New(nil, nil, Options{})

	h := b.Submit(1, RequestFunc(func(ctx context.Context, src Source) (any, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))
	b.Close()
	b.Close()

	assert.True(t, h.Cancelled())
	assert.Equal(t, 0, b.Pending())
	assert.Empty(t, b.Drain())

	late := b.Submit(2, value("x"))
	assert.True(t, late.Cancelled())
}

func TestBridge_ConcurrentAccess(t *testing.T) {
	b := newTestBridge(t, Options{InboxSize: 8})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)

		go func(iteration int) {
			defer wg.Done()
			h := b.Submit(ViewID(iteration%5), value(iteration))
			if iteration%3 == 0 {
				b.Cancel(h)
			}
		}(i)

		go func() {
			defer wg.Done()
			_ = b.Pending()
			_ = b.Drain()
		}()
	}

	wg.Wait()

	require.Eventually(t, func() bool {
		b.Drain()
		return b.Pending() == 0
	}, 2*time.Second, 5*time.Millisecond)
}
