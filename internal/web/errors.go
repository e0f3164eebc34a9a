package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as user-friendly messages with action suggestions
//   - Formatted appropriately based on request type (HTMX, JSON, or HTML)
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err, statusFor(err))
//  3. Error is mapped via core.MapError to get user-friendly message
//  4. Technical error + context is logged with request ID for correlation
//  5. User message is rendered in appropriate format for the client
//
// Status codes:
//
//	core.ErrBusy                      409
//	core.ValidationErrors             422 (itemised in errors/fields)
//	malformed request body            400
//	*core.StorageError not found      404
//	*core.StorageError constraint     409
//	*core.StorageError other          502
//	invalid credentials, no session   401
//	registration disabled             403
//	email already registered          409
//	other *auth.AuthError             400
//	request timeout                   504

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/hrpanel/internal/auth"
	"github.com/JonMunkholm/hrpanel/internal/core"
	"github.com/JonMunkholm/hrpanel/internal/logging"
	"github.com/JonMunkholm/hrpanel/internal/web/templates"
)

var (
	errInvalidBody = errors.New("invalid request body")
	errRateLimited = errors.New("rate limit exceeded")
)

var rateLimitMessage = core.MapError(errRateLimited)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
// Errors and Fields itemise validation failures.
type ErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Action  string              `json:"action,omitempty"`
	Code    string              `json:"code"`
	Errors  []string            `json:"errors,omitempty"`
	Fields  map[string][]string `json:"fields,omitempty"`
}

// statusFor picks the HTTP status for err.
func statusFor(err error) int {
	var (
		ve core.ValidationErrors
		se *core.StorageError
		ae *auth.AuthError
	)
	switch {
	case errors.Is(err, core.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, core.ErrStoreBusy):
		return http.StatusServiceUnavailable
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errInvalidBody):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrSessionExpired):
		return http.StatusUnauthorized
	case errors.Is(err, auth.ErrRegistrationDisabled):
		return http.StatusForbidden
	case errors.Is(err, auth.ErrEmailExists):
		return http.StatusConflict
	case errors.As(err, &ae):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &se):
		if se.NotFound {
			return http.StatusNotFound
		}
		if se.Conflict() {
			return http.StatusConflict
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse builds the JSON envelope for err.
func errorResponse(err error) ErrorResponse {
	msg := core.MapError(err)
	resp := ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}

	var (
		ve core.ValidationErrors
		se *core.StorageError
		ae *auth.AuthError
	)
	switch {
	case errors.As(err, &ve):
		resp.Errors = ve.Messages()
		resp.Fields = ve.ByField()
	case errors.As(err, &se):
		if f := se.Field(); f != "" {
			resp.Fields = map[string][]string{f: {msg.Message}}
		}
	case errors.As(err, &ae) && msg.Code == "ERR000":
		// input problems on registration carry their own text
		resp.Error, resp.Message, resp.Action, resp.Code = ae.Message, ae.Message, "", "AUTH000"
	}
	return resp
}

// respondError handles error responses with user-friendly messages.
// It logs the technical error server-side and returns an appropriate response
// based on the request type (HTMX, JSON, or HTML).
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	resp := errorResponse(err)
	logError(r, err, statusCode, resp.Code)

	// Return user-friendly error based on request type
	if isHTMX(r) {
		s.renderErrorPartial(w, r, resp, statusCode)
	} else if wantsJSON(r) {
		writeJSONStatus(w, statusCode, resp)
	} else {
		respondErrorHTML(w, resp, statusCode)
	}
}

// logError logs the technical error with the request id. Client errors are
// warnings; a storage error's stack is logged at debug level.
func logError(r *http.Request, err error, statusCode int, code string) {
	logger := logging.FromContext(r.Context())
	level := slog.LevelError
	if statusCode < http.StatusInternalServerError {
		level = slog.LevelWarn
	}
	logger.Log(r.Context(), level, "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", code,
	)

	var se *core.StorageError
	if errors.As(err, &se) && len(se.Stack) > 0 {
		logger.Debug("storage error stack", "stack", string(se.StackTrace()))
	}
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	writeJSONStatus(w, statusCode, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

// respondErrorHTML writes a plain HTML error response.
func respondErrorHTML(w http.ResponseWriter, resp ErrorResponse, statusCode int) {
	text := resp.Message + " (" + resp.Code + ")"
	if len(resp.Errors) > 0 {
		text += "\n- " + strings.Join(resp.Errors, "\n- ")
	}
	http.Error(w, text, statusCode)
}

// renderErrorPartial renders an HTMX-compatible error fragment.
func (s *Server) renderErrorPartial(w http.ResponseWriter, r *http.Request, resp ErrorResponse, statusCode int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(statusCode)

	c := templates.ErrorAlert(resp.Message, resp.Action, resp.Code)
	if len(resp.Errors) > 0 {
		c = templates.ErrorList(resp.Errors)
	}
	if err := c.Render(r.Context(), w); err != nil {
		slog.Error("render error partial", "error", err)
	}
}

// alertFor is the dismissable alert shown on a page for err.
func alertFor(err error) templ.Component {
	resp := errorResponse(err)
	return templates.ErrorAlert(resp.Message, resp.Action, resp.Code)
}

// denySession answers a request without a live session: pages redirect to
// the sign-in screen, API calls get 401.
func (s *Server) denySession(w http.ResponseWriter, r *http.Request, err error) {
	if wantsJSON(r) {
		s.respondError(w, r, err, http.StatusUnauthorized)
		return
	}
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// wantsJSON checks if the client prefers JSON response.
func wantsJSON(r *http.Request) bool {
	accept := r.Header.Get("Accept")
	contentType := r.Header.Get("Content-Type")

	// Check Accept header
	if strings.Contains(accept, "application/json") {
		return true
	}

	// Check if request is sending JSON
	if strings.Contains(contentType, "application/json") {
		return true
	}

	// API routes default to JSON
	for _, prefix := range []string{"/api/", "/auth/"} {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}

	return false
}

func invalidBody(err error) error {
	return fmt.Errorf("%w: %v", errInvalidBody, err)
}
