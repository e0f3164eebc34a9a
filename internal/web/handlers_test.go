package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/hrpanel/internal/core"
	"github.com/JonMunkholm/hrpanel/internal/events"
)

func TestAPI_JobLifecycle(t *testing.T) {
	h := newHarness(t, nil)
	cookie := h.signIn(t)

	rec := h.doJSON(http.MethodGet, "/api/jobs", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"jobs":[],"count":0,"busy":false,"stale":false}`, rec.Body.String())

	rec = h.doJSON(http.MethodPost, "/api/jobs", backendEngineer(), cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[core.JobPosting](t, rec)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, core.StatusActive, created.Status)
	assert.Equal(t, "/api/jobs/"+created.ID, rec.Header().Get("Location"))

	list := decodeBody[jobsResponse](t, h.doJSON(http.MethodGet, "/api/jobs", nil, cookie))
	require.Equal(t, 1, list.Count)
	assert.Equal(t, created.ID, list.Jobs[0].ID)

	rec = h.doJSON(http.MethodPatch, "/api/jobs/"+created.ID, map[string]any{"title": "Platform Engineer"}, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decodeBody[core.JobPosting](t, rec)
	assert.Equal(t, "Platform Engineer", updated.Title)
	want := created
	want.Title = "Platform Engineer"
	assert.Equal(t, want, updated)

	rec = h.doJSON(http.MethodGet, "/api/jobs/"+created.ID, nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Platform Engineer", decodeBody[core.JobPosting](t, rec).Title)

	rec = h.doJSON(http.MethodDelete, "/api/jobs/"+created.ID, nil, cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	list = decodeBody[jobsResponse](t, h.doJSON(http.MethodGet, "/api/jobs?refresh=true", nil, cookie))
	assert.Zero(t, list.Count)
	assert.Zero(t, h.gw.Len())

	entries, err := h.audit.List(context.Background(), core.AuditFilter{JobID: created.ID})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, core.ActionJobDelete, entries[0].Action)
	assert.Equal(t, testEmail, entries[0].UserEmail)
}

func TestAPI_CreateIgnoresClientIDs(t *testing.T) {
	h := newHarness(t, nil)
	cookie := h.signIn(t)

	body := backendEngineer()
	body["id"] = "client-chosen"
	body["created_at"] = "2001-01-01T00:00:00Z"

	rec := h.doJSON(http.MethodPost, "/api/jobs", body, cookie)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody[core.JobPosting](t, rec)
	assert.NotEqual(t, "client-chosen", created.ID)
	assert.NotEqual(t, 2001, created.CreatedAt.Year())
}

func TestAPI_ValidationErrors(t *testing.T) {
	h := newHarness(t, nil)
	cookie := h.signIn(t)

	tests := []struct {
		name    string
		change  func(map[string]any)
		message string
		field   string
	}{
		{"salary range", func(b map[string]any) { b["salaryFrom"], b["salaryTo"] = 5000, 3000 }, core.MsgSalaryRange, "salaryFrom"},
		{"date order", func(b map[string]any) { b["startDate"], b["endDate"] = "2025-06-01", "2025-05-01" }, core.MsgDateOrder, "endDate"},
		{"empty skills", func(b map[string]any) { b["skills"] = []string{} }, core.MsgSkills, "skills"},
		{"missing title", func(b map[string]any) { delete(b, "title") }, "Job Title is required", "title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := backendEngineer()
			tt.change(body)

			rec := h.doJSON(http.MethodPost, "/api/jobs", body, cookie)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
			resp := decodeBody[ErrorResponse](t, rec)
			assert.Equal(t, "VAL001", resp.Code)
			assert.Contains(t, resp.Errors, tt.message)
			assert.Contains(t, resp.Fields[tt.field], tt.message)
			assert.Zero(t, h.gw.Len())
		})
	}
}

func TestAPI_UpdateMissingJob(t *testing.T) {
	h := newHarness(t, nil)
	cookie := h.signIn(t)

	rec := h.doJSON(http.MethodPost, "/api/jobs", backendEngineer(), cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	before := decodeBody[jobsResponse](t, h.doJSON(http.MethodGet, "/api/jobs", nil, cookie))

	rec = h.doJSON(http.MethodPatch, "/api/jobs/00000000-0000-4000-8000-000000000000", map[string]any{"title": "Ghost"}, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "JOB001", decodeBody[ErrorResponse](t, rec).Code)

	after := decodeBody[jobsResponse](t, h.doJSON(http.MethodGet, "/api/jobs", nil, cookie))
	assert.Equal(t, before.Jobs, after.Jobs)
}

func TestAPI_InvalidBody(t *testing.T) {
	h := newHarness(t, nil)
	cookie := h.signIn(t)

	req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := h.do(req, cookie)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VAL006", decodeBody[ErrorResponse](t, rec).Code)
}

func TestAPI_Options(t *testing.T) {
	h := newHarness(t, nil)
	cookie := h.signIn(t)

	rec := h.doJSON(http.MethodGet, "/api/options", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	catalog := decodeBody[core.Catalog](t, rec)
	jobTypes, ok := catalog.Get("jobType")
	require.True(t, ok)
	assert.False(t, jobTypes.Creatable)
	assert.Contains(t, jobTypes.Values, "Full-time")
}

func TestAPI_AuditLog(t *testing.T) {
	h := newHarness(t, nil)
	cookie := h.signIn(t)

	for i := 0; i < 3; i++ {
		rec := h.doJSON(http.MethodPost, "/api/jobs", backendEngineer(), cookie)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := h.doJSON(http.MethodGet, "/api/audit?limit=2", nil, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decodeBody[struct {
		Entries []core.AuditEntry `json:"entries"`
		Count   int               `json:"count"`
	}](t, rec)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, core.ActionJobCreate, resp.Entries[0].Action)
}

func TestAPI_PublishesChangeEvents(t *testing.T) {
	h := newHarness(t, nil)
	cookie := h.signIn(t)

	got := make(chan events.ChangeEvent, 4)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.bus.Subscribe(ctx, func(e events.ChangeEvent) { got <- e })
	require.Eventually(t, func() bool { return h.bus.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	rec := h.doJSON(http.MethodPost, "/api/jobs", backendEngineer(), cookie)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeBody[core.JobPosting](t, rec)

	select {
	case e := <-got:
		assert.Equal(t, events.OpCreate, e.Op)
		assert.Equal(t, created.ID, e.JobID)
		assert.Equal(t, cookie.Value, e.Origin)
	case <-time.After(time.Second):
		t.Fatal("no change event published")
	}
}

func TestJobsPage_Empty(t *testing.T) {
	h := newHarness(t, nil)
	cookie := h.signIn(t)

	rec := h.do(httptest.NewRequest(http.MethodGet, "/jobs", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "No jobs posted yet.")
	assert.Contains(t, body, "Post a New Job")
	assert.Contains(t, body, "Hana Rivera")
}

func jobForm() url.Values {
	return url.Values{
		"title":          {"Backend Engineer"},
		"department":     {"Engineering"},
		"jobType":        {"Full-time"},
		"location":       {"Remote"},
		"experience":     {"3-5 years"},
		"salaryFrom":     {"80,000"},
		"salaryTo":       {"$120,000"},
		"startDate":      {"2025-01-01"},
		"urgency":        {"High"},
		"description":    {"Build APIs"},
		"qualifications": {"Bachelor of Computer Science (BSCS)"},
		"skills":         {"SQL"},
		"skillsOther":    {"Go, Kubernetes"},
		"status":         {"Active"},
	}
}

func TestJobsForm_CreateEditDelete(t *testing.T) {
	h := newHarness(t, nil)
	cookie := h.signIn(t)

	rec := h.doForm("/jobs", jobForm(), cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/jobs?notice=created", rec.Header().Get("Location"))

	rec = h.do(httptest.NewRequest(http.MethodGet, "/jobs?notice=created", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Job posted successfully")
	assert.Contains(t, rec.Body.String(), "80,000 - 120,000")

	jobs, err := h.gw.List(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	job := jobs[0]
	assert.Equal(t, []string{"SQL", "Go", "Kubernetes"}, job.Skills)
	assert.Equal(t, 120000.0, job.SalaryTo)

	rec = h.do(httptest.NewRequest(http.MethodGet, "/jobs/"+job.ID+"/edit", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Update Job")
	assert.Contains(t, rec.Body.String(), `action="/jobs/`+job.ID+`"`)

	form := jobForm()
	form.Set("title", "Platform Engineer")
	form.Set("endDate", "2025-12-31")
	rec = h.doForm("/jobs/"+job.ID, form, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/jobs?notice=updated", rec.Header().Get("Location"))

	stored, err := h.gw.Get(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, "Platform Engineer", stored.Title)
	require.NotNil(t, stored.EndDate)
	assert.Equal(t, "2025-12-31", stored.EndDate.String())

	rec = h.doForm("/jobs/"+job.ID+"/delete", nil, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/jobs?notice=deleted", rec.Header().Get("Location"))
	assert.Zero(t, h.gw.Len())
}

func TestJobsForm_ValidationKeepsInput(t *testing.T) {
	h := newHarness(t, nil)
	cookie := h.signIn(t)

	form := jobForm()
	form.Set("salaryFrom", "5000")
	form.Set("salaryTo", "3000")
	form.Del("title")

	rec := h.doForm("/jobs", form, cookie)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Job Title is required")
	assert.Contains(t, body, core.MsgSalaryRange)
	assert.Contains(t, body, `value="Remote"`)
	assert.Zero(t, h.gw.Len())
}

func TestJobsForm_BadNumber(t *testing.T) {
	h := newHarness(t, nil)
	cookie := h.signIn(t)

	form := jobForm()
	form.Set("salaryFrom", "lots")

	rec := h.doForm("/jobs", form, cookie)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Minimum Salary must be a number")
}

func TestJobsForm_BadNumberReportsOtherFields(t *testing.T) {
	h := newHarness(t, nil)
	cookie := h.signIn(t)

	form := jobForm()
	form.Set("salaryFrom", "lots")
	form.Del("title")
	form.Del("skills")
	form.Del("skillsOther")

	rec := h.doForm("/jobs", form, cookie)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Minimum Salary must be a number")
	assert.Contains(t, body, "Job Title is required")
	assert.Contains(t, body, core.MsgSkills)
	assert.NotContains(t, body, "Minimum Salary is required")
	assert.Zero(t, h.gw.Len())
}

func TestJobsForm_EditBadDateReportsOtherFields(t *testing.T) {
	h := newHarness(t, nil)
	cookie := h.signIn(t)

	rec := h.doForm("/jobs", jobForm(), cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	jobs, err := h.gw.List(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	form := jobForm()
	form.Set("startDate", "someday")
	form.Set("location", "")
	form.Set("status", "")
	rec = h.doForm("/jobs/"+jobs[0].ID, form, cookie)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Start Date must be a valid date")
	assert.Contains(t, body, "Location is required")
	assert.NotContains(t, body, "Start Date is required")
	assert.NotContains(t, body, core.MsgStatusEmpty)

	stored, err := h.gw.Get(context.Background(), jobs[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Remote", stored.Location)
}

func TestJobsForm_DeleteMissingShowsAlert(t *testing.T) {
	h := newHarness(t, nil)
	cookie := h.signIn(t)

	rec := h.doForm("/jobs/00000000-0000-4000-8000-000000000000/delete", nil, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "JOB001")
}

func TestDashboard_CountsActiveJobs(t *testing.T) {
	h := newHarness(t, nil)
	cookie := h.signIn(t)

	for _, status := range []string{"Active", "Active", "Draft"} {
		body := backendEngineer()
		body["status"] = status
		rec := h.doJSON(http.MethodPost, "/api/jobs", body, cookie)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := h.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h3>Active Job Posts</h3><p>2</p>")
	assert.Contains(t, body, "<h3>Hires This Month</h3><p>8</p>")
}
