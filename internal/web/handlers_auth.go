package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/JonMunkholm/hrpanel/internal/auth"
	"github.com/JonMunkholm/hrpanel/internal/logging"
	"github.com/JonMunkholm/hrpanel/internal/web/templates"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Employee  auth.Employee `json:"employee"`
	ExpiresAt time.Time     `json:"expiresAt"`
}

// handleLoginPage renders the sign-in screen, or skips it for a live session.
func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(s.cfg.Session.CookieName); err == nil {
		if _, err := s.sessions.Get(r.Context(), c.Value); err == nil {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
	}
	s.renderLogin(w, r, templates.LoginData{}, http.StatusOK)
}

// handleLoginForm signs in from the HTML form. Failures are shown inline.
func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, invalidBody(err), http.StatusBadRequest)
		return
	}
	email := r.PostForm.Get("email")

	sess, err := s.signIn(w, r, email, r.PostForm.Get("password"))
	if err != nil {
		status := statusFor(err)
		logError(r, err, status, "")
		msg := errorResponse(err).Message
		var ae *auth.AuthError
		if !errors.As(err, &ae) {
			msg = "Something went wrong. Please try again."
		}
		s.renderLogin(w, r, templates.LoginData{Email: email, Error: msg}, status)
		return
	}

	logging.FromContext(r.Context()).Info("signed in", "employee_id", sess.Employee.ID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// handleLoginAPI signs in with a JSON body and sets the session cookie.
func (s *Server) handleLoginAPI(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	sess, err := s.signIn(w, r, req.Email, req.Password)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, sessionResponse{
		Employee:  sess.Employee,
		ExpiresAt: sess.ExpiresAt,
	})
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request, email, password string) (auth.Session, error) {
	emp, err := s.authn.Login(r.Context(), email, password)
	if err != nil {
		return auth.Session{}, err
	}
	sess, err := s.sessions.Create(r.Context(), emp)
	if err != nil {
		return auth.Session{}, err
	}
	s.setSessionCookie(w, sess)
	return sess, nil
}

// handleRegister creates an employee account when registration is enabled.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !s.cfg.Auth.AllowRegister {
		err := &auth.AuthError{Message: auth.ErrRegistrationDisabled.Error(), Err: auth.ErrRegistrationDisabled}
		s.respondError(w, r, err, statusFor(err))
		return
	}

	var req auth.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	emp, err := s.authn.Register(r.Context(), req)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	logging.FromContext(r.Context()).Info("employee registered", "employee_id", emp.ID)
	writeJSONStatus(w, http.StatusCreated, emp)
}

// handleLogout ends the session and forgets its job list.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(s.cfg.Session.CookieName); err == nil && c.Value != "" {
		if err := s.sessions.Delete(r.Context(), c.Value); err != nil {
			logging.FromContext(r.Context()).Warn("delete session failed", "error", err)
		}
		s.lists.Drop(c.Value)
	}
	s.clearSessionCookie(w)

	if wantsJSON(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, data templates.LoginData, status int) {
	s.render(w, r, templates.LoginPage(data), status)
}
