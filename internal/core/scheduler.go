package core

// scheduler.go runs maintenance jobs on a cron schedule.
//
// Currently this is the audit purge: entries older than the retention window
// are deleted. A failed run is logged and retried at the next tick; it never
// stops the application.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// AuditScheduler purges old audit entries on a cron schedule.
type AuditScheduler struct {
	cron          *cron.Cron
	log           AuditLog
	spec          string
	retentionDays int
	now           func() time.Time
}

// NewAuditScheduler returns a scheduler that keeps retentionDays of history
// and runs at spec (standard five-field cron syntax).
func NewAuditScheduler(log AuditLog, spec string, retentionDays int) *AuditScheduler {
	return &AuditScheduler{
		cron:          cron.New(),
		log:           log,
		spec:          spec,
		retentionDays: retentionDays,
		now:           time.Now,
	}
}

// Start registers the purge job and starts the cron loop. The job uses ctx,
// so cancelling it aborts an in-flight purge.
func (s *AuditScheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("schedule audit purge %q: %w", s.spec, err)
	}
	s.cron.Start()
	slog.Info("audit purge scheduled",
		"spec", s.spec,
		"retention_days", s.retentionDays,
	)
	return nil
}

// Stop stops the cron loop and waits for a running purge to finish.
func (s *AuditScheduler) Stop() {
	<-s.cron.Stop().Done()
	slog.Info("audit purge scheduler stopped")
}

// RunOnce performs one purge and returns how many entries were removed.
func (s *AuditScheduler) RunOnce(ctx context.Context) int64 {
	start := time.Now()
	cutoff := s.now().AddDate(0, 0, -s.retentionDays)

	purged, err := s.log.Purge(ctx, cutoff)
	if err != nil {
		slog.Error("audit purge failed", "error", err)
		return 0
	}

	slog.Info("audit purge completed",
		"entries_purged", purged,
		"cutoff", cutoff.Format(time.RFC3339),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return purged
}
