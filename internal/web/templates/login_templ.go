package templates

import (
	"context"

	"github.com/a-h/templ"
)

// LoginPage is the standalone sign-in screen.
func LoginPage(data LoginData) templ.Component {
	return component(func(ctx context.Context, m *markup) {
		m.raw(`<!DOCTYPE html><html lang="en">`)
		m.child(ctx, pageHead("Sign in"))
		m.raw(`<body><div class="login"><div class="panel">`)
		m.raw(`<h1>Welcome to <strong>Sélectra HR</strong></h1>`)
		m.raw(`<p style="text-align:center;color:#4b5563">Please sign in to continue</p>`)
		if data.Error != "" {
			m.raw(`<div class="alert alert-error" role="alert">`)
			m.text(data.Error)
			m.raw(`</div>`)
		}
		m.raw(`<form method="post" action="/login">`)
		m.raw(`<div><label for="email">Email</label><input type="email" id="email" name="email" placeholder="you@example.com" required`)
		m.attr("value", data.Email)
		m.raw(`></div>`)
		m.raw(`<div><label for="password">Password</label><input type="password" id="password" name="password" placeholder="••••••••" required></div>`)
		m.raw(`<button type="submit" class="btn">Login</button></form>`)
		m.raw(`</div></div></body></html>`)
	})
}
