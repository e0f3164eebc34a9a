package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/hrpanel/internal/core"
	"github.com/JonMunkholm/hrpanel/internal/events"
	"github.com/JonMunkholm/hrpanel/internal/logging"
)

// jobsResponse is the session's view of the postings. Busy is set while a
// change from this session is still being saved.
type jobsResponse struct {
	Jobs  []core.JobPosting `json:"jobs"`
	Count int               `json:"count"`
	Busy  bool              `json:"busy"`
	Stale bool              `json:"stale"`
}

// handleListJobs returns the session's list, reloading it when stale or
// when ?refresh=true.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	_, list, ctx := s.session(r)

	var err error
	if r.URL.Query().Get("refresh") == "true" {
		err = list.Refresh(ctx)
	} else {
		err = list.RefreshIfNeeded(ctx)
	}
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	jobs := list.Jobs()
	writeJSON(w, jobsResponse{
		Jobs:  jobs,
		Count: len(jobs),
		Busy:  list.Busy(),
		Stale: list.Stale(),
	})
}

// handleGetJob returns one posting, from the view when it is there.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	_, list, ctx := s.session(r)
	id := chi.URLParam(r, "id")

	if j, ok := list.Find(id); ok {
		writeJSON(w, j)
		return
	}
	j, err := s.gw.Get(ctx, id)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, j)
}

// handleCreateJob creates a posting from a JSON body. id and created_at in
// the body are ignored.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	sess, list, ctx := s.session(r)

	var j core.JobPosting
	if err := decodeJSON(w, r, &j); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	j.ID, j.CreatedAt = "", time.Time{}

	created, err := list.Create(ctx, j)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	logging.FromContext(ctx).Info("job created", "job_id", created.ID, "title", created.Title)
	events.PublishQuietly(ctx, s.bus, events.NewChangeEvent(events.OpCreate, created.ID, sess.ID))
	w.Header().Set("Location", "/api/jobs/"+created.ID)
	writeJSONStatus(w, http.StatusCreated, created)
}

// handleUpdateJob applies a partial update. Only fields present in the
// body are written; null clears endDate or preferences.
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	sess, list, ctx := s.session(r)
	id := chi.URLParam(r, "id")

	var p core.JobPatch
	if err := decodeJSON(w, r, &p); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	updated, err := list.Update(ctx, id, p)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	logging.FromContext(ctx).Info("job updated", "job_id", id)
	events.PublishQuietly(ctx, s.bus, events.NewChangeEvent(events.OpUpdate, id, sess.ID))
	writeJSON(w, updated)
}

// handleDeleteJob deletes a posting.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	sess, list, ctx := s.session(r)
	id := chi.URLParam(r, "id")

	if err := list.Delete(ctx, id); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	logging.FromContext(ctx).Info("job deleted", "job_id", id)
	events.PublishQuietly(ctx, s.bus, events.NewChangeEvent(events.OpDelete, id, sess.ID))
	w.WriteHeader(http.StatusNoContent)
}

// handleOptions returns the form option catalog.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.catalog)
}

const maxAuditLimit = 1000

// handleAuditLog returns recent audit entries, newest first, optionally
// for one job (?jobId=) and capped by ?limit=.
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	entries := []core.AuditEntry{}
	if s.audit != nil {
		var err error
		entries, err = s.audit.List(r.Context(), core.AuditFilter{
			JobID: r.URL.Query().Get("jobId"),
			Limit: min(parseIntParam(r, "limit", core.DefaultAuditLimit), maxAuditLimit),
		})
		if err != nil {
			s.respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		if entries == nil {
			entries = []core.AuditEntry{}
		}
	}
	writeJSON(w, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}

// handleHealth reports whether the record store answers.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.Ping(ctx); err != nil {
			logging.FromContext(ctx).Warn("health check failed", "error", err)
			writeJSONStatus(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, map[string]string{"status": "ok"})
}
