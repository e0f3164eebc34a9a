// Package auth signs employees in against the employee directory and keeps
// their sessions.
//
// Passwords are stored as bcrypt hashes. Login failures never say whether
// the email exists: every credential problem is reported as
// "Invalid email or password".
package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"
)

// Employee is a panel user. The password hash never leaves the package.
type Employee struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       string    `json:"role"`
	Department string    `json:"department"`
	CreatedAt  time.Time `json:"createdAt"`
}

// RegisterRequest creates an employee.
type RegisterRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// AuthError is a sign-in or registration failure shown on the login form.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string { return e.Message }
func (e *AuthError) Unwrap() error { return e.Err }

var (
	ErrInvalidCredentials   = errors.New("Invalid email or password")
	ErrEmailExists          = errors.New("Email already exists")
	ErrRegistrationDisabled = errors.New("registration disabled")
	ErrSessionExpired       = errors.New("session expired")
)

func newAuthError(err error) *AuthError {
	return &AuthError{Message: err.Error(), Err: err}
}

// IsAuthError reports whether err is an *AuthError.
func IsAuthError(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// Authenticator validates credentials and creates accounts.
type Authenticator interface {
	// Login returns the employee or an *AuthError.
	Login(ctx context.Context, email, password string) (Employee, error)

	// Register creates an employee. A taken email is an *AuthError.
	Register(ctx context.Context, req RegisterRequest) (Employee, error)
}

// MinPasswordLength is enforced on registration.
const MinPasswordLength = 8

// DefaultRole is given to registered employees without a role.
const DefaultRole = "hr"

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// checkRegistration normalises req and returns an *AuthError for bad input.
func checkRegistration(req RegisterRequest) (RegisterRequest, error) {
	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)
	req.Role = strings.TrimSpace(req.Role)
	if req.Role == "" {
		req.Role = DefaultRole
	}

	if req.Name == "" {
		return req, &AuthError{Message: "Name is required"}
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return req, &AuthError{Message: "Enter a valid email address", Err: err}
	}
	if len(req.Password) < MinPasswordLength {
		return req, &AuthError{Message: "Password must be at least 8 characters"}
	}
	return req, nil
}

// Seed creates the account if its email is not yet registered.
func Seed(ctx context.Context, a Authenticator, req RegisterRequest) (created bool, err error) {
	_, err = a.Register(ctx, req)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrEmailExists):
		return false, nil
	default:
		return false, err
	}
}
