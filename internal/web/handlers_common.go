// Package web provides HTTP handlers for the HR panel.
// This file contains shared utilities and helper functions used across handlers.
package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/hrpanel/internal/auth"
	"github.com/JonMunkholm/hrpanel/internal/core"
	"github.com/JonMunkholm/hrpanel/internal/web/templates"
)

// maxBodySize bounds JSON and form bodies (1MB).
const maxBodySize = 1 << 20

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return invalidBody(err)
	}
	return nil
}

func nav(sess auth.Session, active string) templates.Nav {
	return templates.Nav{Active: active, User: sess.Employee.Name}
}

// setSessionCookie hands the browser its session id.
func (s *Server) setSessionCookie(w http.ResponseWriter, sess auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    sess.ID,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   s.cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.Session.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.Session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// parseJobForm reads the job form. Numbers and dates that do not parse are
// reported as validation errors; everything else is left to the validator.
func parseJobForm(form url.Values) (core.JobPosting, error) {
	var errs core.ValidationErrors
	text := func(name string) string { return strings.TrimSpace(form.Get(name)) }

	j := core.JobPosting{
		Title:            text("title"),
		Description:      text("description"),
		Department:       text("department"),
		Experience:       text("experience"),
		JobType:          text("jobType"),
		Schedule:         text("schedule"),
		Location:         text("location"),
		ReportingManager: text("reportingManager"),
		Urgency:          core.Urgency(text("urgency")),
		Status:           core.Status(text("status")),
		Qualifications:   core.JoinQualifications(multiValue(form, "qualifications")),
		Skills:           multiValue(form, "skills"),
	}
	if p := text("preferences"); p != "" {
		j.Preferences = &p
	}

	salary := func(name, label string) float64 {
		v, err := core.ParseSalary(form.Get(name))
		if err != nil {
			errs = append(errs, core.ValidationError{Field: name, Value: form.Get(name), Message: label + " must be a number"})
		}
		return v
	}
	j.SalaryFrom = salary("salaryFrom", "Minimum Salary")
	j.SalaryTo = salary("salaryTo", "Maximum Salary")

	date := func(name, label string) core.Date {
		d, err := core.ParseDate(text(name))
		if err != nil {
			errs = append(errs, core.ValidationError{Field: name, Value: form.Get(name), Message: label + " must be a valid date"})
		}
		return d
	}
	j.StartDate = date("startDate", "Start Date")
	if end := date("endDate", "End Date"); !end.IsZero() {
		j.EndDate = &end
	}

	if len(errs) > 0 {
		return j, errs
	}
	return j, nil
}

// formErrors completes the parse errors of a job form with the validator's
// findings for every other field, so one submit reports everything wrong.
func (s *Server) formErrors(j core.JobPosting, parseErr error) error {
	var parsed core.ValidationErrors
	if !errors.As(parseErr, &parsed) {
		return parseErr
	}
	failed := make(map[string]bool, len(parsed))
	for _, e := range parsed {
		failed[e.Field] = true
	}

	if j.Status == "" {
		j.Status = core.DefaultStatus
	}
	errs := append(core.ValidationErrors{}, parsed...)
	var rest core.ValidationErrors
	if errors.As(core.NewValidator(s.catalog).Validate(j), &rest) {
		for _, e := range rest {
			if !failed[e.Field] {
				errs = append(errs, e)
			}
		}
	}
	return errs
}

// multiValue merges the checked boxes for name with the comma separated
// "<name>Other" field, dropping blanks and repeats.
func multiValue(form url.Values, name string) []string {
	values := append([]string(nil), form[name]...)
	values = append(values, strings.Split(form.Get(name+"Other"), ",")...)

	out := []string{}
	seen := make(map[string]bool)
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// patchFromForm turns a full edit form into a patch. Blank optional fields
// clear them; a blank status leaves the stored one.
func patchFromForm(j core.JobPosting) core.JobPatch {
	p := core.JobPatch{
		Title:            &j.Title,
		Description:      &j.Description,
		Department:       &j.Department,
		Qualifications:   &j.Qualifications,
		Experience:       &j.Experience,
		SalaryFrom:       &j.SalaryFrom,
		SalaryTo:         &j.SalaryTo,
		JobType:          &j.JobType,
		Schedule:         &j.Schedule,
		Location:         &j.Location,
		ReportingManager: &j.ReportingManager,
		Skills:           j.Skills,
		StartDate:        &j.StartDate,
		Urgency:          &j.Urgency,
	}
	if p.Skills == nil {
		p.Skills = []string{}
	}
	if j.EndDate != nil {
		p.EndDate = j.EndDate
	} else {
		p.ClearEndDate = true
	}
	if j.Preferences != nil {
		p.Preferences = j.Preferences
	} else {
		p.ClearPreferences = true
	}
	if j.Status != "" {
		p.Status = &j.Status
	}
	return p
}

// jobFormValues prefills the edit form from a stored posting.
func jobFormValues(j core.JobPosting) url.Values {
	v := url.Values{}
	v.Set("title", j.Title)
	v.Set("description", j.Description)
	v.Set("department", j.Department)
	v.Set("experience", j.Experience)
	v.Set("jobType", j.JobType)
	v.Set("schedule", j.Schedule)
	v.Set("location", j.Location)
	v.Set("reportingManager", j.ReportingManager)
	v.Set("urgency", string(j.Urgency))
	v.Set("status", string(j.Status))
	v["qualifications"] = j.QualificationList()
	v["skills"] = append([]string(nil), j.Skills...)
	v.Set("salaryFrom", formatSalary(j.SalaryFrom))
	v.Set("salaryTo", formatSalary(j.SalaryTo))
	v.Set("startDate", j.StartDate.String())
	if j.EndDate != nil {
		v.Set("endDate", j.EndDate.String())
	}
	if j.Preferences != nil {
		v.Set("preferences", *j.Preferences)
	}
	return v
}

func formatSalary(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// newJobFormValues are the create form's defaults.
func newJobFormValues() url.Values {
	return url.Values{"status": {string(core.DefaultStatus)}}
}

// notices are the flash messages selectable by the ?notice= parameter.
var notices = map[string]string{
	"created": "Job posted successfully",
	"updated": "Job updated successfully",
	"deleted": "Job deleted successfully",
}
