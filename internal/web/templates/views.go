package templates

import (
	"net/url"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/hrpanel/internal/core"
)

// NavItem is one sidebar link.
type NavItem struct {
	Label string
	Href  string
}

// NavItems are the sidebar links in display order. Only Dashboard and Job
// Postings are served; the others are plain links.
var NavItems = []NavItem{
	{"Dashboard", "/dashboard"},
	{"Job Postings", "/jobs"},
	{"Applications", "/applications"},
	{"Interviews", "/interviews"},
	{"Analytics & Reports", "/analytics"},
	{"User Profile", "/profile"},
}

// Nav is the chrome shared by panel pages.
type Nav struct {
	Active string // href of the current page
	User   string // signed-in employee's name
}

// LoginData fills the sign-in form. Error is shown inline above it.
type LoginData struct {
	Email string
	Error string
}

// Metric is one dashboard card.
type Metric struct {
	Title string
	Value int
}

// DashboardData is the dashboard page. Alert is set when the active count
// could not be refreshed.
type DashboardData struct {
	Nav     Nav
	Metrics []Metric
	Alert   templ.Component
}

// JobFormData fills the create/edit form. Values holds the raw submitted
// (or prefilled) form values keyed by external field name, so a rejected
// form is shown again exactly as typed.
type JobFormData struct {
	Action  string
	Heading string
	Submit  string
	Editing bool
	Values  url.Values
	Catalog *core.Catalog
	Errors  []string
	Busy    bool
}

// JobsPageData is the job postings page.
type JobsPageData struct {
	Nav   Nav
	Jobs  []core.JobPosting
	Form  JobFormData
	Flash string
	Alert templ.Component
	Busy  bool
}

type inputKind int

const (
	kindText inputKind = iota
	kindAmount
	kindDate
	kindTextarea
	kindMulti
)

type formField struct {
	name  string
	label string
	kind  inputKind
	wide  bool
}

func (f formField) id() string { return "job-" + f.name }

func (f formField) required() bool {
	_, ok := core.RequiredLabel(f.name)
	return ok
}

// jobFormFields is the form's layout, in display order.
var jobFormFields = []formField{
	{"title", "Job Title", kindText, false},
	{"department", "Department", kindText, false},
	{"jobType", "Job Type", kindText, false},
	{"location", "Location", kindText, false},
	{"experience", "Experience", kindText, false},
	{"schedule", "Schedule", kindText, false},
	{"salaryFrom", "Minimum Salary", kindAmount, false},
	{"salaryTo", "Maximum Salary", kindAmount, false},
	{"startDate", "Start Date", kindDate, false},
	{"endDate", "End Date", kindDate, false},
	{"urgency", "Urgency", kindText, false},
	{"reportingManager", "Reporting Manager", kindText, false},
	{"status", "Status", kindText, false},
	{"description", "Job Description", kindTextarea, true},
	{"qualifications", "Qualifications", kindMulti, true},
	{"skills", "Required Skills", kindMulti, true},
	{"preferences", "Preferences", kindTextarea, true},
}

var jobTableHeaders = []string{"#", "Title", "Department", "Location", "Type", "Experience", "Salary Range", "Start Date", "Status", "Urgency", "Actions"}

// fixedOptions returns the values of a closed option list. Fields with a
// closed list render as selects.
func fixedOptions(c *core.Catalog, field string) ([]string, bool) {
	list, ok := c.Get(field)
	if !ok || list.Creatable {
		return nil, false
	}
	return list.Values, true
}

// suggestions returns the values offered for a free-text field.
func suggestions(c *core.Catalog, field string) []string {
	list, ok := c.Get(field)
	if !ok {
		return nil
	}
	return list.Values
}

// unlisted reports whether a non-empty value is missing from options. The
// select keeps such a stored value visible so saving does not drop it.
func unlisted(options []string, value string) bool {
	return value != "" && !contains(options, value)
}

// multiOptions is every catalog value for field followed by each selected
// value the catalog lacks.
func multiOptions(c *core.Catalog, field string, selected []string) []string {
	options := append([]string(nil), c.Values(field)...)
	for _, v := range selected {
		if !contains(options, v) {
			options = append(options, v)
		}
	}
	return options
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func statusColor(s core.Status) string {
	switch s {
	case core.StatusActive:
		return "green"
	case core.StatusClosed:
		return "red"
	default:
		return "gray"
	}
}

func urgencyColor(u core.Urgency) string {
	switch u {
	case core.UrgencyHigh:
		return "red"
	case core.UrgencyMedium:
		return "yellow"
	default:
		return "blue"
	}
}

func salaryRange(j core.JobPosting) string {
	return FormatAmount(j.SalaryFrom) + " - " + FormatAmount(j.SalaryTo)
}

func editURL(id string) string   { return "/jobs/" + url.PathEscape(id) + "/edit" }
func deleteURL(id string) string { return "/jobs/" + url.PathEscape(id) + "/delete" }

// FormatDate renders a calendar date for the table, e.g. "Nov 1, 2026".
func FormatDate(d core.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("Jan 2, 2006")
}
