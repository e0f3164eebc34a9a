package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/hrpanel/internal/auth"
	"github.com/JonMunkholm/hrpanel/internal/core"
	webmw "github.com/JonMunkholm/hrpanel/internal/web/middleware"
)

// WithRequestMetadata adds IP and User-Agent to context for audit logging.
func WithRequestMetadata(ctx context.Context, r *http.Request) context.Context {
	ip := clientIP(r) // RemoteAddr already rewritten by TrustedRealIP
	ua := r.Header.Get("User-Agent")
	ctx = core.ContextWithIPAddress(ctx, ip)
	ctx = core.ContextWithUserAgent(ctx, ua)
	return ctx
}

// session returns the request's session, its job list and a context
// carrying the audit metadata. Only valid behind SessionAuth.
func (s *Server) session(r *http.Request) (auth.Session, *core.JobList, context.Context) {
	sess, _ := webmw.SessionFromContext(r.Context())
	return sess, s.lists.For(sess.ID), WithRequestMetadata(r.Context(), r)
}
