package templates

import (
	"context"

	"github.com/a-h/templ"
)

func dismiss() templ.Component {
	return component(func(_ context.Context, m *markup) {
		m.raw(`<button type="button" class="dismiss" aria-label="Dismiss" onclick="this.parentElement.remove()">&times;</button>`)
	})
}

// ErrorAlert is a dismissable error with a suggested action and the code
// users can quote to support.
func ErrorAlert(message, action, code string) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		m.raw(`<div class="alert alert-error" role="alert">`)
		m.child(ctx, dismiss())
		m.raw(`<strong>`)
		m.text(message)
		m.raw(`</strong>`)
		if action != "" {
			m.raw(` <span>`)
			m.text(action)
			m.raw(`</span>`)
		}
		if code != "" {
			m.raw(` <span class="code">(`)
			m.text(code)
			m.raw(`)</span>`)
		}
		m.raw(`</div>`)
	})
}

// ErrorList shows every validation problem at once.
func ErrorList(items []string) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		if len(items) == 0 {
			return
		}
		m.raw(`<div class="alert alert-error" role="alert">`)
		m.child(ctx, dismiss())
		m.raw(`<strong>Please fix the following:</strong><ul>`)
		for _, item := range items {
			m.raw(`<li>`)
			m.text(item)
			m.raw(`</li>`)
		}
		m.raw(`</ul></div>`)
	})
}

// Flash is a dismissable success message.
func Flash(message string) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		if message == "" {
			return
		}
		m.raw(`<div class="alert alert-success" role="status">`)
		m.child(ctx, dismiss())
		m.text(message)
		m.raw(`</div>`)
	})
}
