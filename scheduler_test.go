package uploadkit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_Schedule(t *testing.T) {
	t.Parallel()

	t.Run("runs queued tasks", func(t *testing.T) {
		t.Parallel()

		pool := NewPool(2)

		var count atomic.Int64
		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			pool.Schedule(func(context.Context) {
				defer wg.Done()
				count.Add(1)
			})
		}
		wg.Wait()
		pool.Close()

		assert.Equal(t, int64(20), count.Load())
	})

	t.Run("tasks get the pool context, not the request context", func(t *testing.T) {
		t.Parallel()

		pool := NewPool(1)
		defer pool.Close()

		reqCtx, cancel := context.WithCancel(context.Background())
		cancel()

		done := make(chan error, 1)
		pool.Schedule(func(ctx context.Context) {
			done <- ctx.Err()
		})
		require.NoError(t, <-done)
		require.Error(t, reqCtx.Err())
	})

	t.Run("recovers panics and keeps the worker alive", func(t *testing.T) {
		t.Parallel()

		pool := NewPool(1)
		pool.Schedule(func(context.Context) { panic("boom") })

		done := make(chan struct{})
		pool.Schedule(func(context.Context) { close(done) })
		<-done
		pool.Close()
	})

	t.Run("completion callback fires for every task", func(t *testing.T) {
		t.Parallel()

		var completed atomic.Int64
		pool := NewPool(2, WithCompletionCallback(func() {
			completed.Add(1)
		}))

		pool.Schedule(func(context.Context) {})
		pool.Schedule(func(context.Context) { panic("boom") })
		pool.Schedule(func(context.Context) {})
		pool.Close()

		assert.Equal(t, int64(3), completed.Load())
	})

	t.Run("schedule after close is a no-op", func(t *testing.T) {
		t.Parallel()

		pool := NewPool(1)
		pool.Close()

		require.NotPanics(t, func() {
			pool.Schedule(func(context.Context) {
				t.Error("task ran after close")
			})
		})
	})

	t.Run("close drains the queue", func(t *testing.T) {
		t.Parallel()

		pool := NewPool(1)

		var count atomic.Int64
		for range 10 {
			pool.Schedule(func(context.Context) {
				count.Add(1)
			})
		}
		pool.Close()

		assert.Equal(t, int64(10), count.Load())
	})

	t.Run("nil task is ignored", func(t *testing.T) {
		t.Parallel()

		pool := NewPool(1)
		defer pool.Close()

		require.NotPanics(t, func() { pool.Schedule(nil) })
	})

	t.Run("double close is safe", func(t *testing.T) {
		t.Parallel()

		pool := NewPool(1)
		pool.Close()
		require.NotPanics(t, pool.Close)
	})
}
