package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPoolDrainsOnStop(t *testing.T) {
	pool := NewPool(2, 10, zap.NewNop())
	pool.Start(context.Background())

	var done atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, pool.Submit(func(context.Context) {
			time.Sleep(5 * time.Millisecond)
			done.Add(1)
		}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, pool.Stop(ctx))
	assert.Equal(t, int32(5), done.Load())
	assert.ErrorIs(t, pool.Submit(func(context.Context) {}), ErrPoolStopped)
}

func TestPoolDropsWhenFull(t *testing.T) {
	pool := NewPool(1, 1, zap.NewNop())
	release := make(chan struct{})
	started := make(chan struct{})
	pool.Start(context.Background())

	require.NoError(t, pool.Submit(func(context.Context) {
		close(started)
		<-release
	}))
	<-started
	require.NoError(t, pool.Submit(func(context.Context) {}))
	assert.ErrorIs(t, pool.Submit(func(context.Context) {}), ErrQueueFull)

	close(release)
	require.NoError(t, pool.Stop(context.Background()))
}

func TestPoolSurvivesPanics(t *testing.T) {
	pool := NewPool(1, 2, zap.NewNop())
	pool.Start(context.Background())

	var ran atomic.Bool
	require.NoError(t, pool.Submit(func(context.Context) { panic("bad template") }))
	require.NoError(t, pool.Submit(func(context.Context) { ran.Store(true) }))
	require.NoError(t, pool.Stop(context.Background()))
	assert.True(t, ran.Load())
}

func TestStopHonoursDeadline(t *testing.T) {
	pool := NewPool(1, 1, zap.NewNop())
	pool.Start(context.Background())
	block := make(chan struct{})
	defer close(block)
	require.NoError(t, pool.Submit(func(context.Context) { <-block }))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, pool.Stop(ctx), context.DeadlineExceeded)
}
