package templates

import (
	"bytes"
	"context"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/hrpanel/internal/core"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{80000, "80,000"},
		{1234567, "1,234,567"},
		{1234.5, "1,234.50"},
		{-4200, "-4,200"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatAmount(tt.in), "FormatAmount(%v)", tt.in)
	}
}

func TestJobTable(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		out := render(t, JobTable(nil, false))
		assert.Contains(t, out, `<td colspan="11" class="empty">No jobs posted yet.</td>`)
	})

	t.Run("rows", func(t *testing.T) {
		jobs := []core.JobPosting{
			{ID: "a", Title: "<script>alert(1)</script>", Status: core.StatusActive, Urgency: core.UrgencyHigh,
				SalaryFrom: 80000, SalaryTo: 120000, StartDate: core.MustParseDate("2026-11-01")},
			{ID: "b", Title: "Designer", Status: core.StatusDraft, Urgency: core.UrgencyLow},
		}
		out := render(t, JobTable(jobs, true))

		assert.NotContains(t, out, "<script>")
		assert.Contains(t, out, "&lt;script&gt;")
		assert.Contains(t, out, "80,000 - 120,000")
		assert.Contains(t, out, "Nov 1, 2026")
		assert.Contains(t, out, `<span class="badge badge-green">Active</span>`)
		assert.Contains(t, out, `<span class="badge badge-red">High</span>`)
		assert.Contains(t, out, `<span class="badge badge-gray">Draft</span>`)
		assert.Contains(t, out, `<span class="badge badge-blue">Low</span>`)
		assert.Contains(t, out, `href="/jobs/b/edit"`)
		assert.Contains(t, out, `action="/jobs/b/delete"`)
		assert.Equal(t, 2, strings.Count(out, `class="link link-red" disabled`))
		assert.NotContains(t, out, "No jobs posted yet.")
	})
}

func TestJobForm(t *testing.T) {
	data := JobFormData{
		Action:  "/jobs",
		Heading: "Post a New Job",
		Submit:  "Post Job",
		Values: url.Values{
			"jobType": {"Full-time"},
			"skills":  {"SQL", "Haskell"},
			"title":   {`Senior "Go" Engineer`},
		},
		Catalog: core.DefaultCatalog(),
		Errors:  []string{"Location is required"},
	}
	out := render(t, JobForm(data))

	assert.Contains(t, out, "Location is required")
	assert.Contains(t, out, `value="Senior &#34;Go&#34; Engineer"`)
	// fixed list: select with the current value chosen
	assert.Contains(t, out, `<select id="job-jobType" name="jobType" required>`)
	assert.Contains(t, out, `<option value="Full-time" selected>Full-time</option>`)
	// creatable list: free text with suggestions
	assert.Contains(t, out, `list="job-department-options"`)
	// selected values outside the catalog still show, checked
	assert.Contains(t, out, `value="Haskell" id="job-skills-5" checked>`)
	assert.Contains(t, out, `value="SQL" id="job-skills-4" checked>`)
	assert.NotContains(t, out, "Cancel")
}

func TestLayout_MarksActiveLink(t *testing.T) {
	out := render(t, Dashboard(DashboardData{
		Nav:     Nav{Active: "/dashboard", User: "Hana"},
		Metrics: []Metric{{Title: "Active Job Posts", Value: 3}},
	}))

	assert.Contains(t, out, `<a href="/dashboard" class="active" aria-current="page">Dashboard</a>`)
	assert.Contains(t, out, `<a href="/analytics">Analytics &amp; Reports</a>`)
	assert.Contains(t, out, "<h3>Active Job Posts</h3><p>3</p>")
	assert.Contains(t, out, "Sign Out")
}

func TestAlerts(t *testing.T) {
	out := render(t, ErrorAlert("Job posting not found", "Refresh the list", "JOB001"))
	assert.Contains(t, out, "Job posting not found")
	assert.Contains(t, out, "(JOB001)")
	assert.Contains(t, out, `class="dismiss"`)

	assert.Empty(t, render(t, Flash("")))
	assert.Empty(t, render(t, ErrorList(nil)))
	assert.Contains(t, render(t, ErrorList([]string{"a", "b"})), "<li>a</li><li>b</li>")
}

func TestTemplSourcesMatchComponents(t *testing.T) {
	sources, err := filepath.Glob("*.templ")
	require.NoError(t, err)
	require.NotEmpty(t, sources)

	declared := regexp.MustCompile(`(?m)^templ (\w+)\(`)
	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			source, err := os.ReadFile(src)
			require.NoError(t, err)
			compiled, err := os.ReadFile(strings.TrimSuffix(src, ".templ") + "_templ.go")
			require.NoError(t, err, "every .templ file has a _templ.go beside it")

			names := declared.FindAllStringSubmatch(string(source), -1)
			require.NotEmpty(t, names)
			for _, m := range names {
				assert.Contains(t, string(compiled), "func "+m[1]+"(", "%s declares %s", src, m[1])
			}
		})
	}

	goFiles, err := filepath.Glob("*_templ.go")
	require.NoError(t, err)
	assert.Len(t, goFiles, len(sources), "no _templ.go without a source")
}
