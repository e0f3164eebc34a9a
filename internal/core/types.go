package core

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Urgency is the hiring priority of a posting.
type Urgency string

const (
	UrgencyHigh   Urgency = "High"
	UrgencyMedium Urgency = "Medium"
	UrgencyLow    Urgency = "Low"
)

// Valid reports whether u is one of the known labels.
func (u Urgency) Valid() bool {
	switch u {
	case UrgencyHigh, UrgencyMedium, UrgencyLow:
		return true
	}
	return false
}

// Status is the lifecycle state of a posting.
type Status string

const (
	StatusActive Status = "Active"
	StatusClosed Status = "Closed"
	StatusDraft  Status = "Draft"
)

// DefaultStatus is applied when a posting is created without a status.
const DefaultStatus = StatusActive

// Valid reports whether s is one of the known labels.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusClosed, StatusDraft:
		return true
	}
	return false
}

// JobPosting is a single job posting in its external (presentation) shape.
// ID and CreatedAt are assigned by the record store and never by callers.
type JobPosting struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Department       string    `json:"department"`
	Qualifications   string    `json:"qualifications"`
	Experience       string    `json:"experience"`
	SalaryFrom       float64   `json:"salaryFrom"`
	SalaryTo         float64   `json:"salaryTo"`
	JobType          string    `json:"jobType"`
	Schedule         string    `json:"schedule"`
	Location         string    `json:"location"`
	ReportingManager string    `json:"reportingManager"`
	Skills           []string  `json:"skills"`
	StartDate        Date      `json:"startDate"`
	EndDate          *Date     `json:"endDate,omitempty"`
	Urgency          Urgency   `json:"urgency"`
	Preferences      *string   `json:"preferences,omitempty"`
	Status           Status    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

// QualificationsSeparator joins the multi-select qualification values into
// the single stored string.
const QualificationsSeparator = "\n"

// QualificationList splits Qualifications into its individual entries.
func (j JobPosting) QualificationList() []string {
	return SplitQualifications(j.Qualifications)
}

// SplitQualifications splits a stored qualifications string, dropping blanks.
func SplitQualifications(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, QualificationsSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinQualifications is the inverse of SplitQualifications.
func JoinQualifications(values []string) string {
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			kept = append(kept, v)
		}
	}
	return strings.Join(kept, QualificationsSeparator)
}

// JobPatch is a partial update. A nil field is not part of the patch.
// ClearEndDate and ClearPreferences remove the optional fields; in JSON an
// explicit null for endDate or preferences sets them.
type JobPatch struct {
	Title            *string  `json:"title,omitempty"`
	Description      *string  `json:"description,omitempty"`
	Department       *string  `json:"department,omitempty"`
	Qualifications   *string  `json:"qualifications,omitempty"`
	Experience       *string  `json:"experience,omitempty"`
	SalaryFrom       *float64 `json:"salaryFrom,omitempty"`
	SalaryTo         *float64 `json:"salaryTo,omitempty"`
	JobType          *string  `json:"jobType,omitempty"`
	Schedule         *string  `json:"schedule,omitempty"`
	Location         *string  `json:"location,omitempty"`
	ReportingManager *string  `json:"reportingManager,omitempty"`
	Skills           []string `json:"skills,omitempty"`
	StartDate        *Date    `json:"startDate,omitempty"`
	EndDate          *Date    `json:"endDate,omitempty"`
	Urgency          *Urgency `json:"urgency,omitempty"`
	Preferences      *string  `json:"preferences,omitempty"`
	Status           *Status  `json:"status,omitempty"`

	ClearEndDate     bool `json:"-"`
	ClearPreferences bool `json:"-"`
}

// UnmarshalJSON decodes a patch, treating an explicit null for endDate or
// preferences as a request to clear that field.
func (p *JobPatch) UnmarshalJSON(data []byte) error {
	type plain JobPatch
	var decoded plain
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw["endDate"]; ok && isJSONNull(v) {
		decoded.ClearEndDate = true
	}
	if v, ok := raw["preferences"]; ok && isJSONNull(v) {
		decoded.ClearPreferences = true
	}
	// "skills": [] is present-but-empty, not absent
	if v, ok := raw["skills"]; ok && decoded.Skills == nil && !isJSONNull(v) {
		decoded.Skills = []string{}
	}

	*p = JobPatch(decoded)
	return nil
}

func isJSONNull(b json.RawMessage) bool {
	return strings.TrimSpace(string(b)) == "null"
}

// IsEmpty reports whether the patch touches no field.
func (p JobPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Department == nil &&
		p.Qualifications == nil && p.Experience == nil &&
		p.SalaryFrom == nil && p.SalaryTo == nil &&
		p.JobType == nil && p.Schedule == nil && p.Location == nil &&
		p.ReportingManager == nil && p.Skills == nil &&
		p.StartDate == nil && p.EndDate == nil && !p.ClearEndDate &&
		p.Urgency == nil && p.Preferences == nil && !p.ClearPreferences &&
		p.Status == nil
}

// Apply returns j with the patch's fields written over it.
func (p JobPatch) Apply(j JobPosting) JobPosting {
	if p.Title != nil {
		j.Title = *p.Title
	}
	if p.Description != nil {
		j.Description = *p.Description
	}
	if p.Department != nil {
		j.Department = *p.Department
	}
	if p.Qualifications != nil {
		j.Qualifications = *p.Qualifications
	}
	if p.Experience != nil {
		j.Experience = *p.Experience
	}
	if p.SalaryFrom != nil {
		j.SalaryFrom = *p.SalaryFrom
	}
	if p.SalaryTo != nil {
		j.SalaryTo = *p.SalaryTo
	}
	if p.JobType != nil {
		j.JobType = *p.JobType
	}
	if p.Schedule != nil {
		j.Schedule = *p.Schedule
	}
	if p.Location != nil {
		j.Location = *p.Location
	}
	if p.ReportingManager != nil {
		j.ReportingManager = *p.ReportingManager
	}
	if p.Skills != nil {
		j.Skills = append([]string(nil), p.Skills...)
	}
	if p.StartDate != nil {
		j.StartDate = *p.StartDate
	}
	switch {
	case p.ClearEndDate:
		j.EndDate = nil
	case p.EndDate != nil:
		d := *p.EndDate
		j.EndDate = &d
	}
	if p.Urgency != nil {
		j.Urgency = *p.Urgency
	}
	switch {
	case p.ClearPreferences:
		j.Preferences = nil
	case p.Preferences != nil:
		s := *p.Preferences
		j.Preferences = &s
	}
	if p.Status != nil {
		j.Status = *p.Status
	}
	return j
}

// Clone returns a deep copy of j.
func (j JobPosting) Clone() JobPosting {
	if j.Skills != nil {
		j.Skills = append([]string(nil), j.Skills...)
	}
	if j.EndDate != nil {
		d := *j.EndDate
		j.EndDate = &d
	}
	if j.Preferences != nil {
		s := *j.Preferences
		j.Preferences = &s
	}
	return j
}
