package core

// mapper.go translates between the external JobPosting shape (camelCase
// names, optional fields as nil) and the storage row (snake_case columns,
// optional fields as NULL). The translation is total and lossless in both
// directions.

import (
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// jobRow is a row of the jobs table. Field tags name the columns so rows can
// be collected with pgx.RowToStructByName.
type jobRow struct {
	ID               pgtype.UUID        `db:"id"`
	Title            string             `db:"title"`
	Description      string             `db:"description"`
	Department       string             `db:"department"`
	Qualifications   string             `db:"qualifications"`
	Experience       string             `db:"experience"`
	SalaryFrom       float64            `db:"salary_from"`
	SalaryTo         float64            `db:"salary_to"`
	JobType          string             `db:"job_type"`
	Schedule         string             `db:"schedule"`
	Location         string             `db:"location"`
	ReportingManager string             `db:"reporting_manager"`
	Skills           []string           `db:"skills"`
	StartDate        pgtype.Date        `db:"start_date"`
	EndDate          pgtype.Date        `db:"end_date"`
	Urgency          string             `db:"urgency"`
	Preferences      pgtype.Text        `db:"preferences"`
	Status           string             `db:"status"`
	CreatedAt        pgtype.Timestamptz `db:"created_at"`
}

// fieldColumns is the external-to-storage name table, in storage column order.
var fieldColumns = []struct{ field, column string }{
	{"id", "id"},
	{"title", "title"},
	{"description", "description"},
	{"department", "department"},
	{"qualifications", "qualifications"},
	{"experience", "experience"},
	{"salaryFrom", "salary_from"},
	{"salaryTo", "salary_to"},
	{"jobType", "job_type"},
	{"schedule", "schedule"},
	{"location", "location"},
	{"reportingManager", "reporting_manager"},
	{"skills", "skills"},
	{"startDate", "start_date"},
	{"endDate", "end_date"},
	{"urgency", "urgency"},
	{"preferences", "preferences"},
	{"status", "status"},
	{"created_at", "created_at"},
}

// ColumnFor returns the storage column for an external field name.
func ColumnFor(field string) (string, bool) {
	for _, fc := range fieldColumns {
		if fc.field == field {
			return fc.column, true
		}
	}
	return "", false
}

// FieldFor returns the external field name for a storage column.
func FieldFor(column string) (string, bool) {
	for _, fc := range fieldColumns {
		if fc.column == column {
			return fc.field, true
		}
	}
	return "", false
}

// jobColumns lists every column for SELECT and RETURNING clauses.
var jobColumns = func() string {
	cols := make([]string, len(fieldColumns))
	for i, fc := range fieldColumns {
		cols[i] = fc.column
	}
	return strings.Join(cols, ", ")
}()

// insertColumns are the columns a caller may write on create. id and
// created_at are left to the store.
var insertColumns = []string{
	"title", "description", "department", "qualifications", "experience",
	"salary_from", "salary_to", "job_type", "schedule", "location",
	"reporting_manager", "skills", "start_date", "end_date", "urgency",
	"preferences", "status",
}

// insertArgs returns r's values in insertColumns order.
func (r jobRow) insertArgs() []any {
	return []any{
		r.Title, r.Description, r.Department, r.Qualifications, r.Experience,
		r.SalaryFrom, r.SalaryTo, r.JobType, r.Schedule, r.Location,
		r.ReportingManager, r.Skills, r.StartDate, r.EndDate, r.Urgency,
		r.Preferences, r.Status,
	}
}

// MapOut converts a posting to its storage row.
func MapOut(j JobPosting) jobRow {
	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}
	return jobRow{
		ID:               ToPgUUID(j.ID),
		Title:            j.Title,
		Description:      j.Description,
		Department:       j.Department,
		Qualifications:   j.Qualifications,
		Experience:       j.Experience,
		SalaryFrom:       j.SalaryFrom,
		SalaryTo:         j.SalaryTo,
		JobType:          j.JobType,
		Schedule:         j.Schedule,
		Location:         j.Location,
		ReportingManager: j.ReportingManager,
		Skills:           append([]string{}, skills...),
		StartDate:        DateToPg(&j.StartDate),
		EndDate:          DateToPg(j.EndDate),
		Urgency:          string(j.Urgency),
		Preferences:      TextToPg(j.Preferences),
		Status:           string(j.Status),
		CreatedAt:        ToPgTimestamptz(j.CreatedAt),
	}
}

// MapIn converts a storage row to a posting.
func MapIn(r jobRow) JobPosting {
	skills := append([]string{}, r.Skills...)

	var start Date
	if d := PgToDate(r.StartDate); d != nil {
		start = *d
	}

	j := JobPosting{
		ID:               PgUUIDToString(r.ID),
		Title:            r.Title,
		Description:      r.Description,
		Department:       r.Department,
		Qualifications:   r.Qualifications,
		Experience:       r.Experience,
		SalaryFrom:       r.SalaryFrom,
		SalaryTo:         r.SalaryTo,
		JobType:          r.JobType,
		Schedule:         r.Schedule,
		Location:         r.Location,
		ReportingManager: r.ReportingManager,
		Skills:           skills,
		StartDate:        start,
		EndDate:          PgToDate(r.EndDate),
		Urgency:          Urgency(r.Urgency),
		Preferences:      PgToText(r.Preferences),
		Status:           Status(r.Status),
	}
	if r.CreatedAt.Valid {
		j.CreatedAt = r.CreatedAt.Time
	}
	return j
}

// patchColumns returns the columns a patch touches and their values, in
// storage column order. Cleared optional fields map to NULL.
func patchColumns(p JobPatch) ([]string, []any) {
	var cols []string
	var args []any
	add := func(col string, v any) {
		cols = append(cols, col)
		args = append(args, v)
	}

	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Department != nil {
		add("department", *p.Department)
	}
	if p.Qualifications != nil {
		add("qualifications", *p.Qualifications)
	}
	if p.Experience != nil {
		add("experience", *p.Experience)
	}
	if p.SalaryFrom != nil {
		add("salary_from", *p.SalaryFrom)
	}
	if p.SalaryTo != nil {
		add("salary_to", *p.SalaryTo)
	}
	if p.JobType != nil {
		add("job_type", *p.JobType)
	}
	if p.Schedule != nil {
		add("schedule", *p.Schedule)
	}
	if p.Location != nil {
		add("location", *p.Location)
	}
	if p.ReportingManager != nil {
		add("reporting_manager", *p.ReportingManager)
	}
	if p.Skills != nil {
		add("skills", append([]string{}, p.Skills...))
	}
	if p.StartDate != nil {
		add("start_date", DateToPg(p.StartDate))
	}
	switch {
	case p.ClearEndDate:
		add("end_date", pgtype.Date{})
	case p.EndDate != nil:
		add("end_date", DateToPg(p.EndDate))
	}
	if p.Urgency != nil {
		add("urgency", string(*p.Urgency))
	}
	switch {
	case p.ClearPreferences:
		add("preferences", pgtype.Text{})
	case p.Preferences != nil:
		add("preferences", TextToPg(p.Preferences))
	}
	if p.Status != nil {
		add("status", string(*p.Status))
	}
	return cols, args
}
