// Package events carries job-posting change notifications between sessions
// and, with Redis, between server instances.
//
// A session that changes the store publishes a ChangeEvent; the subscriber
// marks every other session's list stale so its next page view reloads.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Op is the kind of change.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// ChangeEvent announces a successful mutation.
type ChangeEvent struct {
	Op     Op        `json:"op"`
	JobID  string    `json:"jobId"`
	Origin string    `json:"origin"` // session that made the change
	At     time.Time `json:"at"`
}

// NewChangeEvent stamps an event with the current time.
func NewChangeEvent(op Op, jobID, origin string) ChangeEvent {
	return ChangeEvent{Op: op, JobID: jobID, Origin: origin, At: time.Now().UTC()}
}

func (e ChangeEvent) MarshalBinary() ([]byte, error) { return json.Marshal(e) }

func (e *ChangeEvent) UnmarshalBinary(b []byte) error {
	type plain ChangeEvent
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("decode change event: %w", err)
	}
	*e = ChangeEvent(p)
	return nil
}

// Handler receives events. It must not block for long.
type Handler func(ChangeEvent)

// Bus publishes and delivers change events.
type Bus interface {
	Publish(ctx context.Context, e ChangeEvent) error
	// Subscribe delivers events to h until ctx is done.
	Subscribe(ctx context.Context, h Handler) error
}

// LocalBus delivers events within the process.
type LocalBus struct {
	mu       sync.RWMutex
	next     int
	handlers map[int]Handler
}

func NewLocalBus() *LocalBus {
	return &LocalBus{handlers: make(map[int]Handler)}
}

// Publish calls every subscribed handler before returning.
func (b *LocalBus) Publish(_ context.Context, e ChangeEvent) error {
	b.mu.RLock()
	hs := make([]Handler, 0, len(b.handlers))
	for _, h := range b.handlers {
		hs = append(hs, h)
	}
	b.mu.RUnlock()

	for _, h := range hs {
		h(e)
	}
	return nil
}

func (b *LocalBus) Subscribe(ctx context.Context, h Handler) error {
	b.mu.Lock()
	id := b.next
	b.next++
	b.handlers[id] = h
	b.mu.Unlock()

	<-ctx.Done()

	b.mu.Lock()
	delete(b.handlers, id)
	b.mu.Unlock()
	return nil
}

// Subscribers returns the number of active subscriptions.
func (b *LocalBus) Subscribers() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers)
}

// PublishQuietly publishes e and logs a failure instead of returning it.
// Notifications never fail the change they describe.
func PublishQuietly(ctx context.Context, bus Bus, e ChangeEvent) {
	if bus == nil {
		return
	}
	if err := bus.Publish(ctx, e); err != nil {
		slog.Warn("publish change event failed",
			"op", e.Op,
			"job_id", e.JobID,
			"error", err,
		)
	}
}
