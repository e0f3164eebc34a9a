package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_ValidPosting(t *testing.T) {
	v := NewValidator(DefaultCatalog())
	assert.NoError(t, v.Validate(validJob("Software Engineer")))
}

func TestValidate_EmptyPostingListsEveryRequiredField(t *testing.T) {
	v := NewValidator(nil)
	err := v.Validate(JobPosting{})
	require.Error(t, err)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))

	assert.Equal(t, []string{
		"Job Title is required",
		"Department is required",
		"Job Type is required",
		"Location is required",
		"Experience is required",
		"Minimum Salary is required",
		"Maximum Salary is required",
		"Start Date is required",
		"Urgency is required",
		"Job Description is required",
		"Qualifications is required",
		MsgSkills,
		MsgStatusEmpty,
	}, verrs.Messages())
}

func TestValidate_Rules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*JobPosting)
		want   []string
	}{
		{
			name:   "salary range inverted",
			mutate: func(j *JobPosting) { j.SalaryFrom, j.SalaryTo = 150000, 100000 },
			want:   []string{MsgSalaryRange},
		},
		{
			name:   "equal salaries pass",
			mutate: func(j *JobPosting) { j.SalaryFrom, j.SalaryTo = 90000, 90000 },
		},
		{
			name:   "zero salary is missing, not a range error",
			mutate: func(j *JobPosting) { j.SalaryFrom, j.SalaryTo = 0, 100 },
			want:   []string{"Minimum Salary is required"},
		},
		{
			name:   "start after end",
			mutate: func(j *JobPosting) { j.EndDate = datePtr("2026-10-01") },
			want:   []string{MsgDateOrder},
		},
		{
			name:   "same start and end pass",
			mutate: func(j *JobPosting) { j.EndDate = datePtr("2026-11-01") },
		},
		{
			name:   "no end date passes",
			mutate: func(j *JobPosting) { j.EndDate = nil },
		},
		{
			name:   "empty skills",
			mutate: func(j *JobPosting) { j.Skills = []string{} },
			want:   []string{MsgSkills},
		},
		{
			name:   "blank skill only",
			mutate: func(j *JobPosting) { j.Skills = []string{"  "} },
			want:   []string{MsgSkills},
		},
		{
			name:   "whitespace title is missing",
			mutate: func(j *JobPosting) { j.Title = "   " },
			want:   []string{"Job Title is required"},
		},
		{
			name:   "unknown urgency",
			mutate: func(j *JobPosting) { j.Urgency = "Urgent" },
			want:   []string{`Urgency must be one of High, Medium, Low (got "Urgent")`},
		},
		{
			name:   "unknown status",
			mutate: func(j *JobPosting) { j.Status = "Paused" },
			want:   []string{`Status must be one of Active, Closed, Draft (got "Paused")`},
		},
		{
			name:   "empty status",
			mutate: func(j *JobPosting) { j.Status = "" },
			want:   []string{MsgStatusEmpty},
		},
		{
			name:   "negative salaries",
			mutate: func(j *JobPosting) { j.SalaryFrom, j.SalaryTo = -20, -10 },
			want:   []string{"Minimum Salary cannot be negative", "Maximum Salary cannot be negative"},
		},
		{
			name: "several failures are all reported in order",
			mutate: func(j *JobPosting) {
				j.Title = ""
				j.SalaryFrom, j.SalaryTo = 10, 5
				j.EndDate = datePtr("2026-01-01")
				j.Skills = nil
			},
			want: []string{"Job Title is required", MsgSalaryRange, MsgDateOrder, MsgSkills},
		},
	}

	v := NewValidator(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := validJob("Data Scientist")
			tt.mutate(&j)

			err := v.Validate(j)
			if len(tt.want) == 0 {
				assert.NoError(t, err)
				return
			}
			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs), "got %v", err)
			assert.Equal(t, tt.want, verrs.Messages())
		})
	}
}

func TestValidate_CatalogFixedLists(t *testing.T) {
	v := NewValidator(DefaultCatalog())

	j := validJob("Product Manager")
	j.JobType = "Gig"
	j.Department = "Legal" // creatable

	err := v.Validate(j)
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	require.Len(t, verrs, 1)
	assert.Equal(t, "jobType", verrs[0].Field)
	assert.Equal(t, "Gig", verrs[0].Value)
	assert.Contains(t, verrs[0].Message, "Job Type must be one of Full-time")
}

func TestValidate_NilValidator(t *testing.T) {
	var v *Validator
	assert.NoError(t, v.Validate(validJob("Software Engineer")))
}

func TestValidationErrors_ByField(t *testing.T) {
	err := NewValidator(nil).Validate(JobPosting{SalaryFrom: -1, SalaryTo: 5, Title: "x"})
	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))

	by := verrs.ByField()
	assert.Equal(t, []string{"Minimum Salary cannot be negative"}, by["salaryFrom"])
	assert.Contains(t, verrs.Error(), "validation failed: ")
	assert.NotContains(t, by, "title")
}

func TestValidatePatch(t *testing.T) {
	v := NewValidator(DefaultCatalog())

	tests := []struct {
		name  string
		patch JobPatch
		want  []string
	}{
		{name: "empty patch", patch: JobPatch{}},
		{name: "status only", patch: JobPatch{Status: statusPtr(StatusClosed)}},
		{
			name:  "blanked title",
			patch: JobPatch{Title: strPtr(" ")},
			want:  []string{"Job Title is required"},
		},
		{
			name:  "zero salary",
			patch: JobPatch{SalaryTo: floatPtr(0)},
			want:  []string{"Maximum Salary is required"},
		},
		{
			name:  "range needs both ends",
			patch: JobPatch{SalaryFrom: floatPtr(500000)},
		},
		{
			name:  "inverted range",
			patch: JobPatch{SalaryFrom: floatPtr(10), SalaryTo: floatPtr(5)},
			want:  []string{MsgSalaryRange},
		},
		{
			name:  "inverted dates",
			patch: JobPatch{StartDate: datePtr("2026-12-01"), EndDate: datePtr("2026-11-01")},
			want:  []string{MsgDateOrder},
		},
		{
			name:  "clearing end date skips order check",
			patch: JobPatch{StartDate: datePtr("2026-12-01"), EndDate: datePtr("2026-11-01"), ClearEndDate: true},
		},
		{
			name:  "empty skills",
			patch: JobPatch{Skills: []string{}},
			want:  []string{MsgSkills},
		},
		{
			name:  "empty status",
			patch: JobPatch{Status: statusPtr("")},
			want:  []string{"Status cannot be empty"},
		},
		{
			name:  "bad urgency",
			patch: JobPatch{Urgency: urgencyPtr("Now")},
			want:  []string{`Urgency must be one of High, Medium, Low (got "Now")`},
		},
		{
			name:  "bad experience",
			patch: JobPatch{Experience: strPtr("Forever")},
			want:  []string{`Experience must be one of Entry Level, 1-3 years, 3-5 years, 5+ years, 10+ years (got "Forever")`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidatePatch(tt.patch)
			if len(tt.want) == 0 {
				assert.NoError(t, err)
				return
			}
			var verrs ValidationErrors
			require.True(t, errors.As(err, &verrs), "got %v", err)
			assert.Equal(t, tt.want, verrs.Messages())
		})
	}
}

func TestRequiredLabel(t *testing.T) {
	label, ok := RequiredLabel("salaryFrom")
	assert.True(t, ok)
	assert.Equal(t, "Minimum Salary", label)

	label, ok = RequiredLabel("skills")
	assert.True(t, ok)
	assert.Equal(t, "Required Skills", label)

	_, ok = RequiredLabel("preferences")
	assert.False(t, ok)
}
