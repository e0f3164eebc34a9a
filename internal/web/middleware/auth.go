package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JonMunkholm/hrpanel/internal/auth"
	"github.com/JonMunkholm/hrpanel/internal/core"
)

type sessionKey struct{}

// WithSession stores the signed-in session in ctx.
func WithSession(ctx context.Context, s auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session set by SessionAuth.
func SessionFromContext(ctx context.Context) (auth.Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(auth.Session)
	return s, ok
}

// SessionAuth returns middleware that admits requests carrying a live
// session cookie. The session and the employee (as the audit actor) are put
// on the request context. Anything else is handed to deny with the reason,
// auth.ErrSessionExpired for a missing or stale cookie.
func SessionAuth(store *auth.SessionStore, cookieName string, deny func(http.ResponseWriter, *http.Request, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c, err := r.Cookie(cookieName)
			if err != nil || c.Value == "" {
				deny(w, r, auth.ErrSessionExpired)
				return
			}

			sess, err := store.Get(r.Context(), c.Value)
			if err != nil {
				if !errors.Is(err, auth.ErrSessionExpired) {
					slog.Warn("auth: session lookup failed",
						"path", r.URL.Path,
						"method", r.Method,
						"error", err,
					)
				}
				deny(w, r, err)
				return
			}

			ctx := WithSession(r.Context(), sess)
			ctx = core.ContextWithActor(ctx, core.Actor{
				ID:    sess.Employee.ID,
				Email: sess.Employee.Email,
				Name:  sess.Employee.Name,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
