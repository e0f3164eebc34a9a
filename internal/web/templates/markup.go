// Package templates holds the panel's HTML components.
//
// Components are plain templ.Components so handlers render them the same
// way whether the page is a full document or a fragment:
//
//	templates.JobsPage(data).Render(r.Context(), w)
//
// Every user-supplied string goes through templ.EscapeString.
//
// Each component is declared in a .templ file; the matching _templ.go file
// holds its Go form, written against the markup writer below. Running
// templ generate replaces those files one for one and leaves the plain .go
// files (view models, helpers, styles) in place.
package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"
)

// markup writes HTML and keeps the first write error.
type markup struct {
	w   io.Writer
	err error
}

func (m *markup) raw(s string) {
	if m.err == nil {
		_, m.err = io.WriteString(m.w, s)
	}
}

func (m *markup) text(s string) { m.raw(templ.EscapeString(s)) }

func (m *markup) attr(name, value string) {
	m.raw(" " + name + `="` + templ.EscapeString(value) + `"`)
}

func (m *markup) flag(name string, on bool) {
	if on {
		m.raw(" " + name)
	}
}

func (m *markup) child(ctx context.Context, c templ.Component) {
	if m.err == nil && c != nil {
		m.err = c.Render(ctx, m.w)
	}
}

// component adapts a markup-writing func to templ.Component.
func component(fn func(ctx context.Context, m *markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		m := &markup{w: w}
		fn(ctx, m)
		return m.err
	})
}

// FormatAmount renders a salary with thousands separators, dropping a zero
// fractional part: 80000 -> "80,000", 1234.5 -> "1,234.50".
func FormatAmount(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	whole, frac := s[:len(s)-3], s[len(s)-2:]

	var out []byte
	for i := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, whole[i])
	}
	if frac != "00" {
		out = append(out, '.')
		out = append(out, frac...)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
