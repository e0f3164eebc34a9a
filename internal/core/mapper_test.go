package core

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapper_RoundTrip(t *testing.T) {
	full := validJob("Software Engineer")
	full.ID = "2b1a6b1e-6f0e-4c53-9b7a-3f3f4f9d2c11"
	full.EndDate = datePtr("2027-03-31")
	full.Preferences = strPtr("Remote-first, EU time zones")
	full.CreatedAt = time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)

	bare := validJob("Product Manager")
	bare.ID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	bare.CreatedAt = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	for _, j := range []JobPosting{full, bare} {
		t.Run(j.Title, func(t *testing.T) {
			assert.Equal(t, j, MapIn(MapOut(j)))

			r := MapOut(j)
			assert.Equal(t, r, MapOut(MapIn(r)))
		})
	}
}

func TestMapOut_AbsentFieldsBecomeNull(t *testing.T) {
	r := MapOut(validJob("Data Scientist"))

	assert.False(t, r.EndDate.Valid)
	assert.False(t, r.Preferences.Valid)
	assert.False(t, r.ID.Valid)
	assert.False(t, r.CreatedAt.Valid)
	assert.Equal(t, "salary_from", mustColumn(t, "salaryFrom"))
	assert.Equal(t, 80000.0, r.SalaryFrom)
	assert.Equal(t, "Full-time", r.JobType)
}

func TestMapOut_NilSkillsBecomeEmptyArray(t *testing.T) {
	j := validJob("x")
	j.Skills = nil
	r := MapOut(j)
	require.NotNil(t, r.Skills)
	assert.Empty(t, r.Skills)
}

func TestColumnFor(t *testing.T) {
	tests := []struct{ field, column string }{
		{"salaryFrom", "salary_from"},
		{"salaryTo", "salary_to"},
		{"jobType", "job_type"},
		{"reportingManager", "reporting_manager"},
		{"startDate", "start_date"},
		{"endDate", "end_date"},
		{"created_at", "created_at"},
		{"title", "title"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.column, mustColumn(t, tt.field))
		field, ok := FieldFor(tt.column)
		assert.True(t, ok)
		assert.Equal(t, tt.field, field)
	}

	_, ok := ColumnFor("salary_from")
	assert.False(t, ok)
	_, ok = FieldFor("salaryFrom")
	assert.False(t, ok)
}

func TestPatchColumns(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		cols, args := patchColumns(JobPatch{})
		assert.Empty(t, cols)
		assert.Empty(t, args)
	})

	t.Run("storage order regardless of field", func(t *testing.T) {
		cols, args := patchColumns(JobPatch{
			Status:     statusPtr(StatusClosed),
			Title:      strPtr("New title"),
			SalaryTo:   floatPtr(1),
			StartDate:  datePtr("2026-12-01"),
			Skills:     []string{},
			Urgency:    urgencyPtr(UrgencyLow),
			Department: strPtr("HR"),
		})
		assert.Equal(t, []string{"title", "department", "salary_to", "skills", "start_date", "urgency", "status"}, cols)
		assert.Equal(t, "New title", args[0])
		assert.Equal(t, []string{}, args[3])
		assert.Equal(t, pgtype.Date{Time: time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC), Valid: true}, args[4])
		assert.Equal(t, "Closed", args[6])
	})

	t.Run("clears map to NULL", func(t *testing.T) {
		cols, args := patchColumns(JobPatch{
			EndDate:          datePtr("2027-01-01"),
			ClearEndDate:     true,
			ClearPreferences: true,
		})
		assert.Equal(t, []string{"end_date", "preferences"}, cols)
		assert.Equal(t, pgtype.Date{}, args[0])
		assert.Equal(t, pgtype.Text{}, args[1])
	})
}

func mustColumn(t *testing.T, field string) string {
	t.Helper()
	c, ok := ColumnFor(field)
	require.True(t, ok, "no column for %s", field)
	return c
}
