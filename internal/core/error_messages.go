package core

// error_messages.go maps technical errors to user-facing messages with a
// code that users can quote to support.
//
// # Error Codes Reference
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: a record with this key already exists
//	DB002 - Check constraint: the store rejected the values
//	DB003 - Not-null constraint: a required value was missing in the store
//	DB004 - Connection refused: unable to reach the record store
//	DB005 - Connection reset: the connection was interrupted
//	DB006 - Timeout: the store did not answer in time
//	DB007 - Deadlock: conflicting concurrent changes
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - The form has problems (itemised separately)
//	VAL002 - Salary range: minimum above maximum
//	VAL003 - Date order: start after end
//	VAL004 - Invalid date
//	VAL005 - Invalid number
//	VAL006 - Invalid request body
//
// # Job Errors (JOB001-JOB099)
//
//	JOB001 - Job posting not found
//
// # Auth Errors (AUTH001-AUTH099)
//
//	AUTH000 - Registration input rejected; the message says why
//	AUTH001 - Invalid email or password
//	AUTH002 - Email already exists
//	AUTH003 - Session expired or missing
//	AUTH004 - Registration disabled
//
// # Request Errors
//
//	BUSY001 - Another change from this session is still being saved
//	BUSY002 - Every store connection is in use
//	RATE001 - Too many requests
//	REQ001  - Request cancelled
//	REQ002  - Request timed out
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check application logs for the original
// technical error (logged with the request id).
//
// # Matching
//
// Typed errors are recognised first (busy, validation, not found). Other
// errors are matched case-insensitively against the pattern table with
// strings.Contains; the first match wins, so specific patterns come first.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var (
	msgValidation = UserMessage{
		Message: "Some fields need attention",
		Action:  "Correct the highlighted fields and submit again",
		Code:    "VAL001",
	}
	msgNotFound = UserMessage{
		Message: "Job posting not found",
		Action:  "It may have been deleted in another session. Refresh the list",
		Code:    "JOB001",
	}
	msgBusy = UserMessage{
		Message: "Another change is still being saved",
		Action:  "Wait for it to finish, then try again",
		Code:    "BUSY001",
	}
	msgStoreBusy = UserMessage{
		Message: "The job store is busy",
		Action:  "Try again in a few seconds",
		Code:    "BUSY002",
	}
)

// errorPatterns maps technical error fragments (lower case) to messages.
var errorPatterns = []errorPattern{
	// Named constraints before the generic constraint patterns.
	{
		pattern: ConstraintSalaryRange,
		msg: UserMessage{
			Message: MsgSalaryRange,
			Action:  "Lower the minimum or raise the maximum salary",
			Code:    "VAL002",
		},
	},
	{
		pattern: ConstraintDateOrder,
		msg: UserMessage{
			Message: MsgDateOrder,
			Action:  "Pick an end date on or after the start date",
			Code:    "VAL003",
		},
	},
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this key already exists",
			Action:  "Refresh the list and check for an existing entry",
			Code:    "DB001",
		},
	},
	{
		pattern: "violates check constraint",
		msg: UserMessage{
			Message: "The record store rejected these values",
			Action:  "Review the form values and try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates not-null constraint",
		msg: UserMessage{
			Message: "A required value is missing",
			Action:  "Fill in all required fields",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to the record store",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Connection to the record store was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "The record store was busy with conflicting changes",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The record store did not answer in time",
			Action:  "Please try again later",
			Code:    "DB006",
		},
	},
	{
		pattern: "invalid date",
		msg: UserMessage{
			Message: "Invalid date",
			Action:  "Use YYYY-MM-DD",
			Code:    "VAL004",
		},
	},
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "Invalid number",
			Action:  "Enter digits only, without currency symbols",
			Code:    "VAL005",
		},
	},
	{
		pattern: "invalid request body",
		msg: UserMessage{
			Message: "The request could not be read",
			Action:  "Send a JSON object with the job fields",
			Code:    "VAL006",
		},
	},
	{
		pattern: "invalid email or password",
		msg: UserMessage{
			Message: "Invalid email or password",
			Action:  "Check your credentials and try again",
			Code:    "AUTH001",
		},
	},
	{
		pattern: "email already exists",
		msg: UserMessage{
			Message: "Email already exists",
			Action:  "Sign in instead, or use another email",
			Code:    "AUTH002",
		},
	},
	{
		pattern: "session expired",
		msg: UserMessage{
			Message: "Your session has expired",
			Action:  "Please sign in again",
			Code:    "AUTH003",
		},
	},
	{
		pattern: "registration disabled",
		msg: UserMessage{
			Message: "Registration is disabled",
			Action:  "Ask an administrator for an account",
			Code:    "AUTH004",
		},
	},
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
//	err := core.ErrBusy
//	msg := core.MapError(err)
//	// msg.Code == "BUSY001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var ve ValidationErrors
	switch {
	case errors.Is(err, ErrBusy):
		return msgBusy
	case errors.Is(err, ErrStoreBusy):
		return msgStoreBusy
	case errors.As(err, &ve):
		return msgValidation
	case IsNotFound(err):
		return msgNotFound
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err; it returns nil for a nil err.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
