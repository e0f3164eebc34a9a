package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLimiter_AcquireRelease(t *testing.T) {
	l := NewStoreLimiter(2, time.Second)
	ctx := context.Background()

	assert.Equal(t, StoreLimiterStatus{Active: 0, Available: 2, MaxConcurrent: 2}, l.Status())

	require.NoError(t, l.Acquire(ctx))
	require.NoError(t, l.Acquire(ctx))
	assert.Equal(t, StoreLimiterStatus{Active: 2, Available: 0, MaxConcurrent: 2}, l.Status())

	l.Release()
	l.Release()
	assert.Equal(t, 0, l.Status().Active)
}

func TestStoreLimiter_Defaults(t *testing.T) {
	l := NewStoreLimiter(0, 0)
	assert.Equal(t, DefaultMaxStoreCalls, l.Status().MaxConcurrent)
	assert.Equal(t, DefaultStoreWait, l.maxWait)
}

func TestStoreLimiter_TimesOutWhenFull(t *testing.T) {
	l := NewStoreLimiter(1, 50*time.Millisecond)
	require.NoError(t, l.Acquire(context.Background()))
	defer l.Release()

	err := l.Acquire(context.Background())
	assert.ErrorIs(t, err, ErrStoreBusy)
}

func TestStoreLimiter_ContextCancelled(t *testing.T) {
	l := NewStoreLimiter(1, time.Minute)
	require.NoError(t, l.Acquire(context.Background()))
	defer l.Release()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, l.Acquire(ctx), context.Canceled)
}

func TestStoreLimiter_NeverExceedsMax(t *testing.T) {
	const limit = 3
	l := NewStoreLimiter(limit, time.Second)

	var (
		wg      sync.WaitGroup
		current atomic.Int32
		peak    atomic.Int32
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Acquire(context.Background()); err != nil {
				t.Errorf("Acquire: %v", err)
				return
			}
			defer l.Release()

			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			current.Add(-1)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(limit))
	assert.Equal(t, 0, l.Status().Active)
}

func TestStoreLimiter_Drain(t *testing.T) {
	l := NewStoreLimiter(2, time.Second)
	require.NoError(t, l.Drain(context.Background()), "idle limiter drains at once")

	require.NoError(t, l.Acquire(context.Background()))

	short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Drain(short), context.DeadlineExceeded)

	done := make(chan error, 1)
	go func() { done <- l.Drain(context.Background()) }()
	l.Release()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Drain did not return after the last Release")
	}
}

type blockingGateway struct {
	*MemoryGateway
	entered chan struct{}
	unblock chan struct{}
}

func (g *blockingGateway) List(ctx context.Context) ([]JobPosting, error) {
	g.entered <- struct{}{}
	<-g.unblock
	return g.MemoryGateway.List(ctx)
}

func TestLimitedGateway(t *testing.T) {
	inner := &blockingGateway{
		MemoryGateway: newTestGateway(),
		entered:       make(chan struct{}, 1),
		unblock:       make(chan struct{}),
	}
	g := NewLimitedGateway(inner, NewStoreLimiter(1, 30*time.Millisecond))
	ctx := context.Background()

	listed := make(chan error, 1)
	go func() {
		_, err := g.List(ctx)
		listed <- err
	}()
	<-inner.entered

	_, err := g.Create(ctx, validJob("Software Engineer"))
	assert.True(t, errors.Is(err, ErrStoreBusy), "second call waits, then gives up: %v", err)
	var se *StorageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "create", se.Op)
	assert.False(t, se.NotFound)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	err = g.Delete(cancelled, "some-id")
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "delete", se.Op)
	assert.Equal(t, "some-id", se.ID)
	assert.ErrorIs(t, err, context.Canceled)

	close(inner.unblock)
	require.NoError(t, <-listed)

	created, err := g.Create(ctx, validJob("Software Engineer"))
	require.NoError(t, err)
	got, err := g.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	require.NoError(t, g.Delete(ctx, created.ID))
	assert.Equal(t, 0, inner.Len())
}
