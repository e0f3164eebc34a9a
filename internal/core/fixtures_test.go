package core

import (
	"context"
	"errors"
	"sync"
	"time"
)

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }
func urgencyPtr(u Urgency) *Urgency { return &u }
func statusPtr(s Status) *Status { return &s }

func datePtr(s string) *Date {
	d := MustParseDate(s)
	return &d
}

// validJob returns a posting that passes validation.
func validJob(title string) JobPosting {
	return JobPosting{
		Title:            title,
		Description:      "Build and run the hiring tools.",
		Department:       "Engineering",
		Qualifications:   "Bachelor of Computer Science (BSCS)",
		Experience:       "3-5 years",
		SalaryFrom:       80000,
		SalaryTo:         120000,
		JobType:          "Full-time",
		Schedule:         "Full-time",
		Location:         "Remote",
		ReportingManager: "Jane Smith",
		Skills:           []string{"Go", "SQL"},
		StartDate:        MustParseDate("2026-11-01"),
		Urgency:          UrgencyHigh,
		Status:           StatusActive,
	}
}

// stepClock returns a clock that advances one second per call.
func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Second)
		return t
	}
}

var errStoreDown = errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")

// scriptedGateway wraps a MemoryGateway and can fail or block chosen calls.
type scriptedGateway struct {
	*MemoryGateway

	mu        sync.Mutex
	failList  bool
	failWrite bool
	calls     map[string]int

	// block, when non-nil, holds Create until it is closed.
	block   chan struct{}
	entered chan struct{}
}

func newScriptedGateway() *scriptedGateway {
	return &scriptedGateway{
		MemoryGateway: NewMemoryGateway().WithClock(stepClock(time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC))),
		calls:         make(map[string]int),
	}
}

func (g *scriptedGateway) count(op string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[op]
}

func (g *scriptedGateway) hit(op string) (failList, failWrite bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls[op]++
	return g.failList, g.failWrite
}

func (g *scriptedGateway) setFail(list, write bool) {
	g.mu.Lock()
	g.failList, g.failWrite = list, write
	g.mu.Unlock()
}

func (g *scriptedGateway) List(ctx context.Context) ([]JobPosting, error) {
	if fail, _ := g.hit("list"); fail {
		return nil, newStorageError("list", "", errStoreDown)
	}
	return g.MemoryGateway.List(ctx)
}

func (g *scriptedGateway) Create(ctx context.Context, j JobPosting) (JobPosting, error) {
	_, fail := g.hit("create")
	if g.block != nil {
		if g.entered != nil {
			close(g.entered)
		}
		<-g.block
	}
	if fail {
		return JobPosting{}, newStorageError("create", "", errStoreDown)
	}
	return g.MemoryGateway.Create(ctx, j)
}

func (g *scriptedGateway) Update(ctx context.Context, id string, p JobPatch) (JobPosting, error) {
	if _, fail := g.hit("update"); fail {
		return JobPosting{}, newStorageError("update", id, errStoreDown)
	}
	return g.MemoryGateway.Update(ctx, id, p)
}

func (g *scriptedGateway) Delete(ctx context.Context, id string) error {
	if _, fail := g.hit("delete"); fail {
		return newStorageError("delete", id, errStoreDown)
	}
	return g.MemoryGateway.Delete(ctx, id)
}
