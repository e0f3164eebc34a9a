package core

// store_limiter.go bounds how many store calls run at once across all
// sessions. Callers past the limit wait up to maxWait for a slot and then
// fail with ErrStoreBusy. Drain blocks until in-flight calls finish and is
// used on shutdown.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrStoreBusy is returned when every store slot stayed occupied for the
// whole wait.
var ErrStoreBusy = errors.New("job store is busy, please try again")

const (
	DefaultMaxStoreCalls = 10
	DefaultStoreWait     = 5 * time.Second
)

// StoreLimiter is a counting semaphore over store calls.
type StoreLimiter struct {
	slots   chan struct{}
	maxWait time.Duration

	mu     sync.Mutex
	active int
	idle   chan struct{} // closed while active == 0
}

func NewStoreLimiter(maxConcurrent int, maxWait time.Duration) *StoreLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxStoreCalls
	}
	if maxWait <= 0 {
		maxWait = DefaultStoreWait
	}
	idle := make(chan struct{})
	close(idle)
	return &StoreLimiter{
		slots:   make(chan struct{}, maxConcurrent),
		maxWait: maxWait,
		idle:    idle,
	}
}

// Acquire takes a slot. The caller must Release it.
func (l *StoreLimiter) Acquire(ctx context.Context) error {
	timer := time.NewTimer(l.maxWait)
	defer timer.Stop()

	select {
	case l.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrStoreBusy
	}

	l.mu.Lock()
	if l.active == 0 {
		l.idle = make(chan struct{})
	}
	l.active++
	l.mu.Unlock()
	return nil
}

func (l *StoreLimiter) Release() {
	l.mu.Lock()
	l.active--
	if l.active == 0 {
		close(l.idle)
	}
	l.mu.Unlock()
	<-l.slots
}

// StoreLimiterStatus is a snapshot for health output and logs.
type StoreLimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

func (l *StoreLimiter) Status() StoreLimiterStatus {
	l.mu.Lock()
	active := l.active
	l.mu.Unlock()
	return StoreLimiterStatus{
		Active:        active,
		Available:     cap(l.slots) - len(l.slots),
		MaxConcurrent: cap(l.slots),
	}
}

// Drain waits until no store call is in flight.
func (l *StoreLimiter) Drain(ctx context.Context) error {
	l.mu.Lock()
	idle := l.idle
	l.mu.Unlock()

	select {
	case <-idle:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LimitedGateway runs every call of the wrapped gateway under a limiter slot.
// A call that never gets a slot fails with a *StorageError wrapping
// ErrStoreBusy or the context error.
type LimitedGateway struct {
	gw      Gateway
	limiter *StoreLimiter
}

func NewLimitedGateway(gw Gateway, l *StoreLimiter) *LimitedGateway {
	return &LimitedGateway{gw: gw, limiter: l}
}

func (g *LimitedGateway) List(ctx context.Context) ([]JobPosting, error) {
	if err := g.limiter.Acquire(ctx); err != nil {
		return nil, newStorageError("list", "", err)
	}
	defer g.limiter.Release()
	return g.gw.List(ctx)
}

func (g *LimitedGateway) Get(ctx context.Context, id string) (JobPosting, error) {
	if err := g.limiter.Acquire(ctx); err != nil {
		return JobPosting{}, newStorageError("get", id, err)
	}
	defer g.limiter.Release()
	return g.gw.Get(ctx, id)
}

func (g *LimitedGateway) Create(ctx context.Context, j JobPosting) (JobPosting, error) {
	if err := g.limiter.Acquire(ctx); err != nil {
		return JobPosting{}, newStorageError("create", "", err)
	}
	defer g.limiter.Release()
	return g.gw.Create(ctx, j)
}

func (g *LimitedGateway) Update(ctx context.Context, id string, p JobPatch) (JobPosting, error) {
	if err := g.limiter.Acquire(ctx); err != nil {
		return JobPosting{}, newStorageError("update", id, err)
	}
	defer g.limiter.Release()
	return g.gw.Update(ctx, id, p)
}

func (g *LimitedGateway) Delete(ctx context.Context, id string) error {
	if err := g.limiter.Acquire(ctx); err != nil {
		return newStorageError("delete", id, err)
	}
	defer g.limiter.Release()
	return g.gw.Delete(ctx, id)
}
