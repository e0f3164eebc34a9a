package templates

import (
	"context"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/hrpanel/internal/core"
)

// JobsPage renders the form above the posted jobs table.
func JobsPage(data JobsPageData) templ.Component {
	return Layout("Job Postings", data.Nav, jobsBody(data))
}

func jobsBody(data JobsPageData) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		m.child(ctx, Flash(data.Flash))
		m.child(ctx, data.Alert)
		m.child(ctx, JobForm(data.Form))
		m.child(ctx, JobTable(data.Jobs, data.Busy))
	})
}

// JobForm is the create/edit form. Fixed option lists become selects,
// creatable ones free text with suggestions, multi-value fields checkboxes
// plus a field for new values.
func JobForm(data JobFormData) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		m.raw(`<h2>`)
		m.text(data.Heading)
		m.raw(`</h2>`)
		m.child(ctx, ErrorList(data.Errors))

		m.raw(`<form class="job" method="post"`)
		m.attr("action", data.Action)
		m.raw(`>`)
		for _, f := range jobFormFields {
			m.child(ctx, formInput(f, data))
		}
		m.raw(`<div class="wide"><button type="submit" class="btn"`)
		m.flag("disabled", data.Busy)
		m.raw(`>`)
		m.text(data.Submit)
		m.raw(`</button>`)
		if data.Editing {
			m.raw(` <a class="link link-blue" href="/jobs">Cancel</a>`)
		}
		m.raw(`</div></form>`)
	})
}

func formInput(f formField, data JobFormData) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		value := data.Values.Get(f.name)

		if f.wide {
			m.raw(`<div class="wide">`)
		} else {
			m.raw(`<div>`)
		}
		if f.kind != kindMulti {
			m.raw(`<label`)
			m.attr("for", f.id())
			m.raw(`>`)
			m.text(f.label)
			if f.required() {
				m.raw(` *`)
			}
			m.raw(`</label>`)
		}

		switch f.kind {
		case kindTextarea:
			m.raw(`<textarea rows="3"`)
			m.attr("id", f.id())
			m.attr("name", f.name)
			m.flag("required", f.required())
			m.raw(`>`)
			m.text(value)
			m.raw(`</textarea>`)

		case kindMulti:
			m.child(ctx, multiInput(f, data))

		case kindDate:
			m.raw(`<input type="date"`)
			m.attr("id", f.id())
			m.attr("name", f.name)
			m.attr("value", value)
			m.flag("required", f.required())
			m.raw(`>`)

		case kindAmount:
			m.raw(`<input type="text" inputmode="decimal" placeholder="e.g. 80,000"`)
			m.attr("id", f.id())
			m.attr("name", f.name)
			m.attr("value", value)
			m.flag("required", f.required())
			m.raw(`>`)

		default:
			if options, ok := fixedOptions(data.Catalog, f.name); ok {
				m.child(ctx, selectInput(f, value, options))
				break
			}
			m.child(ctx, textInput(f, value, suggestions(data.Catalog, f.name)))
		}
		m.raw(`</div>`)
	})
}

func textInput(f formField, value string, options []string) templ.Component {
	return component(func(_ context.Context, m *markup) {
		m.raw(`<input type="text"`)
		m.attr("id", f.id())
		m.attr("name", f.name)
		m.attr("value", value)
		m.flag("required", f.required())
		if len(options) > 0 {
			m.attr("list", f.id()+"-options")
		}
		m.raw(`>`)
		if len(options) == 0 {
			return
		}
		m.raw(`<datalist`)
		m.attr("id", f.id()+"-options")
		m.raw(`>`)
		for _, v := range options {
			m.raw(`<option`)
			m.attr("value", v)
			m.raw(`>`)
		}
		m.raw(`</datalist>`)
	})
}

func selectInput(f formField, value string, options []string) templ.Component {
	return component(func(_ context.Context, m *markup) {
		m.raw(`<select`)
		m.attr("id", f.id())
		m.attr("name", f.name)
		m.flag("required", f.required())
		m.raw(`><option value="">Select…</option>`)
		for _, v := range options {
			m.raw(`<option`)
			m.attr("value", v)
			m.flag("selected", v == value)
			m.raw(`>`)
			m.text(v)
			m.raw(`</option>`)
		}
		if unlisted(options, value) {
			m.raw(`<option`)
			m.attr("value", value)
			m.raw(` selected>`)
			m.text(value)
			m.raw(`</option>`)
		}
		m.raw(`</select>`)
	})
}

// multiInput renders one checkbox per catalog value and per selected value
// the catalog lacks, then a free-text field (name + "Other") for new ones.
func multiInput(f formField, data JobFormData) templ.Component {
	return component(func(_ context.Context, m *markup) {
		selected := data.Values[f.name]

		m.raw(`<fieldset><legend>`)
		m.text(f.label)
		if f.required() {
			m.raw(` *`)
		}
		m.raw(`</legend>`)
		for i, v := range multiOptions(data.Catalog, f.name, selected) {
			m.raw(`<label><input type="checkbox"`)
			m.attr("name", f.name)
			m.attr("value", v)
			m.attr("id", f.id()+"-"+strconv.Itoa(i))
			m.flag("checked", contains(selected, v))
			m.raw(`>`)
			m.text(v)
			m.raw(`</label>`)
		}

		other := f.name + "Other"
		m.raw(`<div><label`)
		m.attr("for", "job-"+other)
		m.raw(`>Add others (comma separated)</label><input type="text"`)
		m.attr("id", "job-"+other)
		m.attr("name", other)
		m.attr("value", data.Values.Get(other))
		m.raw(`></div></fieldset>`)
	})
}

// JobTable lists the posted jobs, newest first.
func JobTable(jobs []core.JobPosting, busy bool) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		m.raw(`<h2>Posted Jobs</h2><div style="overflow-x:auto"><table><thead><tr>`)
		for _, h := range jobTableHeaders {
			m.raw(`<th>`)
			m.text(h)
			m.raw(`</th>`)
		}
		m.raw(`</tr></thead><tbody>`)

		for i, j := range jobs {
			m.raw(`<tr`)
			m.attr("id", "job-"+j.ID)
			m.raw(`>`)
			for _, v := range []string{
				strconv.Itoa(i + 1), j.Title, j.Department, j.Location, j.JobType,
				j.Experience, salaryRange(j), FormatDate(j.StartDate),
			} {
				m.raw(`<td>`)
				m.text(v)
				m.raw(`</td>`)
			}
			m.raw(`<td>`)
			m.child(ctx, badge(statusColor(j.Status), string(j.Status)))
			m.raw(`</td><td>`)
			m.child(ctx, badge(urgencyColor(j.Urgency), string(j.Urgency)))
			m.raw(`</td><td>`)

			m.raw(`<a class="link link-blue"`)
			m.attr("href", editURL(j.ID))
			m.raw(`>Edit</a> `)
			m.raw(`<form method="post" style="display:inline" onsubmit="return confirm('Are you sure you want to delete this job?')"`)
			m.attr("action", deleteURL(j.ID))
			m.raw(`><button type="submit" class="link link-red"`)
			m.flag("disabled", busy)
			m.raw(`>Delete</button></form></td></tr>`)
		}

		if len(jobs) == 0 {
			m.raw(`<tr><td colspan="11" class="empty">No jobs posted yet.</td></tr>`)
		}
		m.raw(`</tbody></table></div>`)
	})
}

func badge(color, label string) templ.Component {
	return component(func(_ context.Context, m *markup) {
		m.raw(`<span class="badge badge-`)
		m.raw(color)
		m.raw(`">`)
		m.text(label)
		m.raw(`</span>`)
	})
}
