package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/hrpanel/internal/logging"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionJobCreate AuditAction = "job_create"
	ActionJobUpdate AuditAction = "job_update"
	ActionJobDelete AuditAction = "job_delete"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow    AuditSeverity = "low"
	SeverityMedium AuditSeverity = "medium"
	SeverityHigh   AuditSeverity = "high"
)

// AuditEntry represents a single audit log entry.
type AuditEntry struct {
	ID        string         `json:"id"`
	Action    AuditAction    `json:"action"`
	Severity  AuditSeverity  `json:"severity"`
	JobID     string         `json:"jobId"`
	JobTitle  string         `json:"jobTitle,omitempty"`
	UserID    string         `json:"userId,omitempty"`
	UserEmail string         `json:"userEmail,omitempty"`
	IPAddress string         `json:"ipAddress,omitempty"`
	UserAgent string         `json:"userAgent,omitempty"`
	Changes   map[string]any `json:"changes,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// AuditFilter narrows an audit query. Zero values match everything.
type AuditFilter struct {
	JobID string
	Limit int
}

// DefaultAuditLimit caps audit queries without an explicit limit.
const DefaultAuditLimit = 100

// AuditLog stores audit entries.
type AuditLog interface {
	Record(ctx context.Context, e AuditEntry) error
	List(ctx context.Context, f AuditFilter) ([]AuditEntry, error)
	// Purge deletes entries created before cutoff and returns how many.
	Purge(ctx context.Context, cutoff time.Time) (int64, error)
}

// determineSeverity returns the appropriate severity for an action.
func determineSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionJobDelete:
		return SeverityHigh
	case ActionJobCreate:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// newAuditEntry fills the request metadata carried by ctx.
func newAuditEntry(ctx context.Context, action AuditAction, j JobPosting, changes map[string]any) AuditEntry {
	actor := ActorFromContext(ctx)
	return AuditEntry{
		Action:    action,
		Severity:  determineSeverity(action),
		JobID:     j.ID,
		JobTitle:  j.Title,
		UserID:    actor.ID,
		UserEmail: actor.Email,
		IPAddress: GetIPAddressFromContext(ctx),
		UserAgent: GetUserAgentFromContext(ctx),
		Changes:   changes,
	}
}

// patchChanges lists the patched fields by external name, using the storage
// column order.
func patchChanges(p JobPatch) map[string]any {
	cols, args := patchColumns(p)
	if len(cols) == 0 {
		return nil
	}
	changes := make(map[string]any, len(cols))
	for i, c := range cols {
		field, _ := FieldFor(c)
		switch v := args[i].(type) {
		case pgtype.Date:
			changes[field] = PgToDate(v)
		case pgtype.Text:
			changes[field] = PgToText(v)
		default:
			changes[field] = v
		}
	}
	return changes
}

// AuditedGateway records an audit entry after every successful mutation.
// A failed audit write is logged and does not fail the mutation.
type AuditedGateway struct {
	Gateway
	log AuditLog
}

// NewAuditedGateway wraps gw.
func NewAuditedGateway(gw Gateway, log AuditLog) *AuditedGateway {
	return &AuditedGateway{Gateway: gw, log: log}
}

func (g *AuditedGateway) Create(ctx context.Context, j JobPosting) (JobPosting, error) {
	created, err := g.Gateway.Create(ctx, j)
	if err != nil {
		return created, err
	}
	g.record(ctx, newAuditEntry(ctx, ActionJobCreate, created, nil))
	return created, nil
}

func (g *AuditedGateway) Update(ctx context.Context, id string, p JobPatch) (JobPosting, error) {
	updated, err := g.Gateway.Update(ctx, id, p)
	if err != nil {
		return updated, err
	}
	g.record(ctx, newAuditEntry(ctx, ActionJobUpdate, updated, patchChanges(p)))
	return updated, nil
}

func (g *AuditedGateway) Delete(ctx context.Context, id string) error {
	if err := g.Gateway.Delete(ctx, id); err != nil {
		return err
	}
	g.record(ctx, newAuditEntry(ctx, ActionJobDelete, JobPosting{ID: id}, nil))
	return nil
}

func (g *AuditedGateway) record(ctx context.Context, e AuditEntry) {
	if err := g.log.Record(ctx, e); err != nil {
		logging.FromContext(ctx).Warn("audit write failed",
			"action", e.Action,
			"job_id", e.JobID,
			"error", err,
		)
	}
}

// PGAuditLog stores audit entries in the job_audit_log table.
type PGAuditLog struct {
	db DBTX
}

// NewPGAuditLog returns an AuditLog over db.
func NewPGAuditLog(db DBTX) *PGAuditLog {
	return &PGAuditLog{db: db}
}

type auditRow struct {
	ID        pgtype.UUID        `db:"id"`
	Action    string             `db:"action"`
	Severity  string             `db:"severity"`
	JobID     pgtype.UUID        `db:"job_id"`
	JobTitle  pgtype.Text        `db:"job_title"`
	UserID    pgtype.Text        `db:"user_id"`
	UserEmail pgtype.Text        `db:"user_email"`
	IPAddress pgtype.Text        `db:"ip_address"`
	UserAgent pgtype.Text        `db:"user_agent"`
	Changes   []byte             `db:"changes"`
	CreatedAt pgtype.Timestamptz `db:"created_at"`
}

const auditColumns = `id, action, severity, job_id, job_title, user_id, user_email, ip_address, user_agent, changes, created_at`

func (l *PGAuditLog) Record(ctx context.Context, e AuditEntry) error {
	var changes []byte
	if e.Changes != nil {
		b, err := json.Marshal(e.Changes)
		if err != nil {
			return fmt.Errorf("marshal audit changes: %w", err)
		}
		changes = b
	}

	_, err := l.db.Exec(ctx, `
		INSERT INTO job_audit_log (action, severity, job_id, job_title, user_id, user_email, ip_address, user_agent, changes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		string(e.Action), string(e.Severity), ToPgUUID(e.JobID), ToPgText(e.JobTitle),
		ToPgText(e.UserID), ToPgText(e.UserEmail), ToPgText(e.IPAddress), ToPgText(e.UserAgent),
		changes,
	)
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

func (l *PGAuditLog) List(ctx context.Context, f AuditFilter) ([]AuditEntry, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultAuditLimit
	}

	var (
		rows pgx.Rows
		err  error
	)
	if f.JobID != "" {
		rows, err = l.db.Query(ctx, `SELECT `+auditColumns+` FROM job_audit_log
			WHERE job_id = $1 ORDER BY created_at DESC LIMIT $2`, ToPgUUID(f.JobID), f.Limit)
	} else {
		rows, err = l.db.Query(ctx, `SELECT `+auditColumns+` FROM job_audit_log
			ORDER BY created_at DESC LIMIT $1`, f.Limit)
	}
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}

	recs, err := pgx.CollectRows(rows, pgx.RowToStructByName[auditRow])
	if err != nil {
		return nil, fmt.Errorf("scan audit log: %w", err)
	}

	entries := make([]AuditEntry, 0, len(recs))
	for _, r := range recs {
		entries = append(entries, r.entry())
	}
	return entries, nil
}

func (l *PGAuditLog) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := l.db.Exec(ctx, `DELETE FROM job_audit_log WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge audit log: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r auditRow) entry() AuditEntry {
	e := AuditEntry{
		ID:        PgUUIDToString(r.ID),
		Action:    AuditAction(r.Action),
		Severity:  AuditSeverity(r.Severity),
		JobID:     PgUUIDToString(r.JobID),
		JobTitle:  r.JobTitle.String,
		UserID:    r.UserID.String,
		UserEmail: r.UserEmail.String,
		IPAddress: r.IPAddress.String,
		UserAgent: r.UserAgent.String,
		CreatedAt: r.CreatedAt.Time,
	}
	if r.Changes != nil {
		_ = json.Unmarshal(r.Changes, &e.Changes)
	}
	return e
}

// MemoryAuditLog keeps audit entries in process.
type MemoryAuditLog struct {
	mu      sync.Mutex
	entries []AuditEntry
	now     func() time.Time
}

// NewMemoryAuditLog returns an empty log.
func NewMemoryAuditLog() *MemoryAuditLog {
	return &MemoryAuditLog{now: time.Now}
}

// WithClock sets the time source for created_at; used by tests.
func (l *MemoryAuditLog) WithClock(now func() time.Time) *MemoryAuditLog {
	l.now = now
	return l
}

func (l *MemoryAuditLog) Record(ctx context.Context, e AuditEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.ID = uuid.NewString()
	e.CreatedAt = l.now().UTC()

	l.mu.Lock()
	l.entries = append(l.entries, e)
	l.mu.Unlock()
	return nil
}

func (l *MemoryAuditLog) List(_ context.Context, f AuditFilter) ([]AuditEntry, error) {
	if f.Limit <= 0 {
		f.Limit = DefaultAuditLimit
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]AuditEntry, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0 && len(out) < f.Limit; i-- {
		if f.JobID == "" || l.entries[i].JobID == f.JobID {
			out = append(out, l.entries[i])
		}
	}
	return out, nil
}

func (l *MemoryAuditLog) Purge(_ context.Context, cutoff time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.entries[:0]
	var purged int64
	for _, e := range l.entries {
		if e.CreatedAt.Before(cutoff) {
			purged++
			continue
		}
		kept = append(kept, e)
	}
	l.entries = kept
	return purged, nil
}
