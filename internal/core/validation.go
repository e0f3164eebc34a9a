package core

// validation.go checks job postings before they reach the record store.
//
// All failures are collected rather than stopping at the first, so a form
// can show every problem at once. Items are reported in a fixed order:
//  1. Missing required fields, in form order
//  2. Salary range
//  3. Date order
//  4. Skills
//  5. Status present
//  6. Enumerated labels and negative salaries
//
// A salary of 0 counts as missing. Validation has no side effects.

import (
	"fmt"
	"strings"
)

// Fixed messages shown for the cross-field rules.
const (
	MsgSalaryRange = "Minimum salary cannot be greater than maximum salary"
	MsgDateOrder   = "Start date cannot be after end date"
	MsgSkills      = "Please select at least one required skill"
	MsgStatusEmpty = "Status cannot be empty"
)

// ValidationError represents a single validation error for a field.
type ValidationError struct {
	Field   string // external field name, e.g. "salaryFrom"
	Value   string // offending value when useful
	Message string // human-readable message
}

func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// ValidationErrors is the itemised result of a failed validation.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Messages returns the user-facing messages in report order.
func (v ValidationErrors) Messages() []string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Message
	}
	return msgs
}

// ByField groups messages by field name.
func (v ValidationErrors) ByField() map[string][]string {
	out := make(map[string][]string)
	for _, e := range v {
		out[e.Field] = append(out[e.Field], e.Message)
	}
	return out
}

func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// requiredField is one entry of the required-field table.
type requiredField struct {
	field   string
	label   string
	present func(JobPosting) bool
}

func nonBlank(s string) bool { return strings.TrimSpace(s) != "" }

// requiredFields is in the order the job form lists them. Skills are covered
// by their own rule so an empty selection is reported once.
var requiredFields = []requiredField{
	{"title", "Job Title", func(j JobPosting) bool { return nonBlank(j.Title) }},
	{"department", "Department", func(j JobPosting) bool { return nonBlank(j.Department) }},
	{"jobType", "Job Type", func(j JobPosting) bool { return nonBlank(j.JobType) }},
	{"location", "Location", func(j JobPosting) bool { return nonBlank(j.Location) }},
	{"experience", "Experience", func(j JobPosting) bool { return nonBlank(j.Experience) }},
	{"salaryFrom", "Minimum Salary", func(j JobPosting) bool { return j.SalaryFrom != 0 }},
	{"salaryTo", "Maximum Salary", func(j JobPosting) bool { return j.SalaryTo != 0 }},
	{"startDate", "Start Date", func(j JobPosting) bool { return !j.StartDate.IsZero() }},
	{"urgency", "Urgency", func(j JobPosting) bool { return nonBlank(string(j.Urgency)) }},
	{"description", "Job Description", func(j JobPosting) bool { return nonBlank(j.Description) }},
	{"qualifications", "Qualifications", func(j JobPosting) bool { return nonBlank(j.Qualifications) }},
}

// RequiredLabel returns the form label of a required field.
func RequiredLabel(field string) (string, bool) {
	for _, rf := range requiredFields {
		if rf.field == field {
			return rf.label, true
		}
	}
	if field == "skills" {
		return "Required Skills", true
	}
	return "", false
}

// Validator checks postings and patches. A nil Catalog skips the check of
// fixed option lists.
type Validator struct {
	Catalog *Catalog
}

// NewValidator returns a validator backed by catalog.
func NewValidator(catalog *Catalog) *Validator {
	return &Validator{Catalog: catalog}
}

// Validate returns nil or ValidationErrors for a complete posting.
func (v *Validator) Validate(j JobPosting) error {
	var errs ValidationErrors

	for _, rf := range requiredFields {
		if !rf.present(j) {
			errs = append(errs, ValidationError{
				Field:   rf.field,
				Message: rf.label + " is required",
			})
		}
	}

	if j.SalaryFrom != 0 && j.SalaryTo != 0 && j.SalaryFrom > j.SalaryTo {
		errs = append(errs, ValidationError{
			Field:   "salaryFrom",
			Value:   fmt.Sprintf("%v > %v", j.SalaryFrom, j.SalaryTo),
			Message: MsgSalaryRange,
		})
	}

	if !j.StartDate.IsZero() && j.EndDate != nil && !j.EndDate.IsZero() && j.StartDate.After(*j.EndDate) {
		errs = append(errs, ValidationError{
			Field:   "endDate",
			Value:   j.StartDate.String() + " > " + j.EndDate.String(),
			Message: MsgDateOrder,
		})
	}

	if !hasSkill(j.Skills) {
		errs = append(errs, ValidationError{Field: "skills", Message: MsgSkills})
	}
	if strings.TrimSpace(string(j.Status)) == "" {
		errs = append(errs, ValidationError{Field: "status", Message: MsgStatusEmpty})
	}

	errs = append(errs, v.labelErrors(j.JobType, j.Experience, j.Urgency, j.Status)...)
	errs = append(errs, negativeSalaryErrors(&j.SalaryFrom, &j.SalaryTo)...)

	return errs.orNil()
}

// ValidatePatch checks what a patch can show on its own: required fields
// it blanks, range and order when both ends are present, skills, labels.
func (v *Validator) ValidatePatch(p JobPatch) error {
	var errs ValidationErrors

	blank := func(field string, s *string) {
		if s != nil && !nonBlank(*s) {
			label, _ := RequiredLabel(field)
			errs = append(errs, ValidationError{Field: field, Message: label + " is required"})
		}
	}
	zero := func(field string, f *float64) {
		if f != nil && *f == 0 {
			label, _ := RequiredLabel(field)
			errs = append(errs, ValidationError{Field: field, Message: label + " is required"})
		}
	}

	blank("title", p.Title)
	blank("department", p.Department)
	blank("jobType", p.JobType)
	blank("location", p.Location)
	blank("experience", p.Experience)
	zero("salaryFrom", p.SalaryFrom)
	zero("salaryTo", p.SalaryTo)
	if p.StartDate != nil && p.StartDate.IsZero() {
		errs = append(errs, ValidationError{Field: "startDate", Message: "Start Date is required"})
	}
	if p.Urgency != nil {
		s := string(*p.Urgency)
		blank("urgency", &s)
	}
	blank("description", p.Description)
	blank("qualifications", p.Qualifications)

	if p.SalaryFrom != nil && p.SalaryTo != nil && *p.SalaryFrom != 0 && *p.SalaryTo != 0 && *p.SalaryFrom > *p.SalaryTo {
		errs = append(errs, ValidationError{Field: "salaryFrom", Message: MsgSalaryRange})
	}
	if p.StartDate != nil && p.EndDate != nil && !p.ClearEndDate &&
		!p.StartDate.IsZero() && !p.EndDate.IsZero() && p.StartDate.After(*p.EndDate) {
		errs = append(errs, ValidationError{Field: "endDate", Message: MsgDateOrder})
	}

	if p.Skills != nil && !hasSkill(p.Skills) {
		errs = append(errs, ValidationError{Field: "skills", Message: MsgSkills})
	}

	var jobType, experience string
	var urgency Urgency
	var status Status
	if p.JobType != nil {
		jobType = *p.JobType
	}
	if p.Experience != nil {
		experience = *p.Experience
	}
	if p.Urgency != nil {
		urgency = *p.Urgency
	}
	if p.Status != nil {
		status = *p.Status
		if status == "" {
			errs = append(errs, ValidationError{Field: "status", Message: MsgStatusEmpty})
		}
	}
	errs = append(errs, v.labelErrors(jobType, experience, urgency, status)...)
	errs = append(errs, negativeSalaryErrors(p.SalaryFrom, p.SalaryTo)...)

	return errs.orNil()
}

// labelErrors checks enumerated fields. Empty values are left to the
// required-field rules.
func (v *Validator) labelErrors(jobType, experience string, urgency Urgency, status Status) ValidationErrors {
	var errs ValidationErrors

	if urgency != "" && !urgency.Valid() {
		errs = append(errs, ValidationError{
			Field:   "urgency",
			Value:   string(urgency),
			Message: fmt.Sprintf("Urgency must be one of High, Medium, Low (got %q)", urgency),
		})
	}
	if status != "" && !status.Valid() {
		errs = append(errs, ValidationError{
			Field:   "status",
			Value:   string(status),
			Message: fmt.Sprintf("Status must be one of Active, Closed, Draft (got %q)", status),
		})
	}

	if v != nil && v.Catalog != nil {
		for _, fv := range []struct{ field, value string }{
			{"jobType", jobType},
			{"experience", experience},
		} {
			if fv.value == "" || v.Catalog.Allows(fv.field, fv.value) {
				continue
			}
			l, _ := v.Catalog.Get(fv.field)
			errs = append(errs, ValidationError{
				Field:   fv.field,
				Value:   fv.value,
				Message: fmt.Sprintf("%s must be one of %s (got %q)", l.Label, strings.Join(l.Values, ", "), fv.value),
			})
		}
	}
	return errs
}

func negativeSalaryErrors(from, to *float64) ValidationErrors {
	var errs ValidationErrors
	if from != nil && *from < 0 {
		errs = append(errs, ValidationError{Field: "salaryFrom", Message: "Minimum Salary cannot be negative"})
	}
	if to != nil && *to < 0 {
		errs = append(errs, ValidationError{Field: "salaryTo", Message: "Maximum Salary cannot be negative"})
	}
	return errs
}

func hasSkill(skills []string) bool {
	for _, s := range skills {
		if nonBlank(s) {
			return true
		}
	}
	return false
}
