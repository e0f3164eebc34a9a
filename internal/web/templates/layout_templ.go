package templates

import (
	"context"

	"github.com/a-h/templ"
)

func pageHead(title string) templ.Component {
	return component(func(_ context.Context, m *markup) {
		m.raw(`<head><meta charset="utf-8">`)
		m.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		m.raw(`<title>`)
		m.text(title)
		m.raw(` | Sélectra HR</title><style>`)
		m.raw(styles)
		m.raw(`</style></head>`)
	})
}

// Layout wraps a panel page in the sidebar and top bar.
func Layout(title string, nav Nav, body templ.Component) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		m.raw(`<!DOCTYPE html><html lang="en">`)
		m.child(ctx, pageHead(title))
		m.raw(`<body><aside class="sidebar"><div class="brand">Sélectra HR</div><nav>`)
		for _, item := range NavItems {
			m.raw(`<a`)
			m.attr("href", item.Href)
			if item.Href == nav.Active {
				m.raw(` class="active" aria-current="page"`)
			}
			m.raw(`>`)
			m.text(item.Label)
			m.raw(`</a>`)
		}
		m.raw(`</nav><div class="footer"><span>Powered by</span><br><strong>Neura Agency</strong></div></aside>`)

		m.raw(`<header class="topbar"><span>`)
		m.text(nav.User)
		m.raw(`</span><h1>HR Manager Panel</h1>`)
		m.raw(`<form method="post" action="/logout"><button type="submit">Sign Out</button></form></header>`)

		m.raw(`<main>`)
		m.child(ctx, body)
		m.raw(`</main></body></html>`)
	})
}
