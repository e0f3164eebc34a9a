package core

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryGateway is an in-process Gateway. It stores mapped rows, the same
// shape the database holds, and enforces the jobs table's CHECK constraints.
type MemoryGateway struct {
	mu   sync.RWMutex
	rows []jobRow // newest first
	now  func() time.Time
}

// NewMemoryGateway returns an empty store.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{now: time.Now}
}

// WithClock sets the time source for created_at; used by tests.
func (g *MemoryGateway) WithClock(now func() time.Time) *MemoryGateway {
	g.now = now
	return g
}

func (g *MemoryGateway) List(ctx context.Context) ([]JobPosting, error) {
	if err := ctx.Err(); err != nil {
		return nil, newStorageError("list", "", err)
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	jobs := make([]JobPosting, 0, len(g.rows))
	for _, r := range g.rows {
		jobs = append(jobs, MapIn(r))
	}
	return jobs, nil
}

func (g *MemoryGateway) Get(ctx context.Context, id string) (JobPosting, error) {
	if err := ctx.Err(); err != nil {
		return JobPosting{}, newStorageError("get", id, err)
	}
	g.mu.RLock()
	defer g.mu.RUnlock()

	i := g.indexOf(id)
	if i < 0 {
		return JobPosting{}, notFoundError("get", id)
	}
	return MapIn(g.rows[i]), nil
}

func (g *MemoryGateway) Create(ctx context.Context, j JobPosting) (JobPosting, error) {
	if err := ctx.Err(); err != nil {
		return JobPosting{}, newStorageError("create", "", err)
	}
	if j.Status == "" {
		j.Status = DefaultStatus
	}

	row := MapOut(j)
	row.ID = ToPgUUID(uuid.NewString())
	row.CreatedAt = ToPgTimestamptz(g.now().UTC())
	if c := violatedConstraint(row); c != "" {
		return JobPosting{}, constraintError("create", "", c)
	}

	g.mu.Lock()
	g.rows = append([]jobRow{row}, g.rows...)
	g.mu.Unlock()

	return MapIn(row), nil
}

func (g *MemoryGateway) Update(ctx context.Context, id string, p JobPatch) (JobPosting, error) {
	if err := ctx.Err(); err != nil {
		return JobPosting{}, newStorageError("update", id, err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	i := g.indexOf(id)
	if i < 0 {
		return JobPosting{}, notFoundError("update", id)
	}

	// Apply through the external shape, then keep the stored identity.
	current := g.rows[i]
	updated := MapOut(p.Apply(MapIn(current)))
	updated.ID = current.ID
	updated.CreatedAt = current.CreatedAt
	if c := violatedConstraint(updated); c != "" {
		return JobPosting{}, constraintError("update", id, c)
	}

	g.rows[i] = updated
	return MapIn(updated), nil
}

func (g *MemoryGateway) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return newStorageError("delete", id, err)
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	i := g.indexOf(id)
	if i < 0 {
		return notFoundError("delete", id)
	}
	g.rows = append(g.rows[:i], g.rows[i+1:]...)
	return nil
}

// Len returns the number of stored postings.
func (g *MemoryGateway) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.rows)
}

func (g *MemoryGateway) indexOf(id string) int {
	pgID := ToPgUUID(id)
	if !pgID.Valid {
		return -1
	}
	for i, r := range g.rows {
		if r.ID == pgID {
			return i
		}
	}
	return -1
}

// violatedConstraint mirrors the CHECK constraints of the jobs table.
func violatedConstraint(r jobRow) string {
	if r.SalaryFrom > r.SalaryTo {
		return ConstraintSalaryRange
	}
	if r.EndDate.Valid && r.StartDate.Valid && r.StartDate.Time.After(r.EndDate.Time) {
		return ConstraintDateOrder
	}
	if !Status(r.Status).Valid() {
		return "jobs_status_check"
	}
	return ""
}
