package web

import (
	"net/http"
	"net/url"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"

	"github.com/JonMunkholm/hrpanel/internal/auth"
	"github.com/JonMunkholm/hrpanel/internal/core"
	"github.com/JonMunkholm/hrpanel/internal/events"
	"github.com/JonMunkholm/hrpanel/internal/logging"
	"github.com/JonMunkholm/hrpanel/internal/web/templates"
)

// Dashboard cards other than active posts have no backing data yet.
const (
	staticApplicants = 134
	staticInterviews = 27
	staticHires      = 8
)

// handleDashboard renders the main dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	sess, list, ctx := s.session(r)

	data := templates.DashboardData{Nav: nav(sess, "/dashboard")}
	if err := list.RefreshIfNeeded(ctx); err != nil {
		logError(r, err, statusFor(err), core.MapError(err).Code)
		data.Alert = alertFor(err)
	}
	data.Metrics = []templates.Metric{
		{Title: "Active Job Posts", Value: core.CountByStatus(list.Jobs(), core.StatusActive)},
		{Title: "Total Applicants", Value: staticApplicants},
		{Title: "Interviews Scheduled", Value: staticInterviews},
		{Title: "Hires This Month", Value: staticHires},
	}

	s.render(w, r, templates.Dashboard(data), http.StatusOK)
}

// jobsView is what the jobs page shows besides the list itself.
type jobsView struct {
	form   templates.JobFormData
	flash  string
	alert  templ.Component
	status int
}

func (s *Server) newJobForm(values url.Values, errs []string) templates.JobFormData {
	return templates.JobFormData{
		Action:  "/jobs",
		Heading: "Post a New Job",
		Submit:  "Post Job",
		Values:  values,
		Catalog: s.catalog,
		Errors:  errs,
	}
}

func (s *Server) editJobForm(id string, values url.Values, errs []string) templates.JobFormData {
	return templates.JobFormData{
		Action:  "/jobs/" + url.PathEscape(id),
		Heading: "Edit Job",
		Submit:  "Update Job",
		Editing: true,
		Values:  values,
		Catalog: s.catalog,
		Errors:  errs,
	}
}

// renderJobs renders the jobs page around the session's current view.
func (s *Server) renderJobs(w http.ResponseWriter, r *http.Request, sess auth.Session, list *core.JobList, v jobsView) {
	busy := list.Busy()
	v.form.Busy = busy
	if v.status == 0 {
		v.status = http.StatusOK
	}
	s.render(w, r, templates.JobsPage(templates.JobsPageData{
		Nav:   nav(sess, "/jobs"),
		Jobs:  list.Jobs(),
		Form:  v.form,
		Flash: v.flash,
		Alert: v.alert,
		Busy:  busy,
	}), v.status)
}

// failJobs shows err on the jobs page: validation problems in the form,
// anything else as an alert.
func (s *Server) failJobs(w http.ResponseWriter, r *http.Request, sess auth.Session, list *core.JobList, form templates.JobFormData, err error) {
	status := statusFor(err)
	resp := errorResponse(err)
	logError(r, err, status, resp.Code)

	v := jobsView{form: form, status: status}
	if len(resp.Errors) > 0 {
		v.form.Errors = resp.Errors
	} else {
		v.alert = alertFor(err)
	}
	s.renderJobs(w, r, sess, list, v)
}

// handleJobsPage renders the job form and the posted jobs.
func (s *Server) handleJobsPage(w http.ResponseWriter, r *http.Request) {
	sess, list, ctx := s.session(r)

	v := jobsView{
		form:  s.newJobForm(newJobFormValues(), nil),
		flash: notices[r.URL.Query().Get("notice")],
	}
	if err := list.RefreshIfNeeded(ctx); err != nil {
		logError(r, err, statusFor(err), core.MapError(err).Code)
		v.alert = alertFor(err)
	}
	s.renderJobs(w, r, sess, list, v)
}

// handleCreateJobForm posts a job from the form.
func (s *Server) handleCreateJobForm(w http.ResponseWriter, r *http.Request) {
	sess, list, ctx := s.session(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, invalidBody(err), http.StatusBadRequest)
		return
	}
	form := s.newJobForm(r.PostForm, nil)

	j, err := parseJobForm(r.PostForm)
	if err != nil {
		err = s.formErrors(j, err)
	} else {
		j, err = list.Create(ctx, j)
	}
	if err != nil {
		s.failJobs(w, r, sess, list, form, err)
		return
	}

	logging.FromContext(ctx).Info("job created", "job_id", j.ID, "title", j.Title)
	events.PublishQuietly(ctx, s.bus, events.NewChangeEvent(events.OpCreate, j.ID, sess.ID))
	http.Redirect(w, r, "/jobs?notice=created", http.StatusSeeOther)
}

// handleEditJobPage renders the form filled with a stored posting.
func (s *Server) handleEditJobPage(w http.ResponseWriter, r *http.Request) {
	sess, list, ctx := s.session(r)
	id := chi.URLParam(r, "id")

	if err := list.RefreshIfNeeded(ctx); err != nil {
		logError(r, err, statusFor(err), core.MapError(err).Code)
	}

	j, ok := list.Find(id)
	if !ok {
		var err error
		if j, err = s.gw.Get(ctx, id); err != nil {
			s.failJobs(w, r, sess, list, s.newJobForm(newJobFormValues(), nil), err)
			return
		}
	}

	s.renderJobs(w, r, sess, list, jobsView{form: s.editJobForm(id, jobFormValues(j), nil)})
}

// handleUpdateJobForm saves the edit form.
func (s *Server) handleUpdateJobForm(w http.ResponseWriter, r *http.Request) {
	sess, list, ctx := s.session(r)
	id := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, invalidBody(err), http.StatusBadRequest)
		return
	}
	form := s.editJobForm(id, r.PostForm, nil)

	j, err := parseJobForm(r.PostForm)
	if err != nil {
		err = s.formErrors(j, err)
	} else {
		j, err = list.Update(ctx, id, patchFromForm(j))
	}
	if err != nil {
		s.failJobs(w, r, sess, list, form, err)
		return
	}

	logging.FromContext(ctx).Info("job updated", "job_id", j.ID)
	events.PublishQuietly(ctx, s.bus, events.NewChangeEvent(events.OpUpdate, j.ID, sess.ID))
	http.Redirect(w, r, "/jobs?notice=updated", http.StatusSeeOther)
}

// handleDeleteJobForm deletes a posting from the table's delete button.
func (s *Server) handleDeleteJobForm(w http.ResponseWriter, r *http.Request) {
	sess, list, ctx := s.session(r)
	id := chi.URLParam(r, "id")

	if err := list.Delete(ctx, id); err != nil {
		s.failJobs(w, r, sess, list, s.newJobForm(newJobFormValues(), nil), err)
		return
	}

	logging.FromContext(ctx).Info("job deleted", "job_id", id)
	events.PublishQuietly(ctx, s.bus, events.NewChangeEvent(events.OpDelete, id, sess.ID))
	http.Redirect(w, r, "/jobs?notice=deleted", http.StatusSeeOther)
}

// render writes a full page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, c templ.Component, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "path", r.URL.Path, "error", err)
	}
}
