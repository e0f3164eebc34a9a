package templates

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
)

// Dashboard renders the metric cards.
func Dashboard(data DashboardData) templ.Component {
	return Layout("Dashboard", data.Nav, dashboardBody(data))
}

func dashboardBody(data DashboardData) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		m.raw(`<h2>Dashboard</h2>`)
		m.child(ctx, data.Alert)
		m.raw(`<div class="cards">`)
		for _, metric := range data.Metrics {
			m.raw(`<div class="card"><h3>`)
			m.text(metric.Title)
			m.raw(`</h3><p>`)
			m.text(strconv.Itoa(metric.Value))
			m.raw(`</p></div>`)
		}
		m.raw(`</div>`)
	})
}
