package core

// convert.go turns loosely formatted form input and Go values into pgtype
// values and back. Empty or unparseable input yields Valid=false so the
// database sees NULL rather than a sentinel.

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// numericRegex validates that a string is a plain decimal after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

// Accepted date layouts for hand-typed form input, unambiguous first.
var dateLayouts = []string{
	"2006-01-02", "2006/01/02", "2006.01.02",
	"1/2/2006", "01/02/2006", "1-2-2006", "01-02-2006",
	"Jan 2, 2006", "January 2, 2006", "2 Jan 2006",
	"20060102",
}

// ToPgText converts a string to pgtype.Text.
// Returns invalid if the string is empty or only whitespace.
func ToPgText(s string) pgtype.Text {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: s, Valid: true}
}

// ToPgDate parses a date string in any of the accepted layouts.
func ToPgDate(s string) pgtype.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return pgtype.Date{Valid: false}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return pgtype.Date{Time: t, Valid: true}
		}
	}
	return pgtype.Date{Valid: false}
}

// DateToPg converts an optional Date; nil and the zero Date become NULL.
func DateToPg(d *Date) pgtype.Date {
	if d == nil || d.IsZero() {
		return pgtype.Date{Valid: false}
	}
	return pgtype.Date{Time: d.Time(), Valid: true}
}

// PgToDate converts a pgtype.Date to an optional Date; NULL becomes nil.
func PgToDate(d pgtype.Date) *Date {
	if !d.Valid {
		return nil
	}
	v := DateOf(d.Time)
	return &v
}

// TextToPg converts an optional string; nil becomes NULL. An empty string is
// kept as a value so a posting can store a deliberately blank preference.
func TextToPg(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

// PgToText converts a pgtype.Text to an optional string; NULL becomes nil.
func PgToText(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

// ParseSalary parses a salary amount as typed into a form. Currency symbols,
// thousands separators and surrounding whitespace are ignored. Empty input
// parses as 0, which the validator treats as missing.
func ParseSalary(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	if cleaned == "" {
		return 0, nil
	}

	for _, sym := range []string{"$", "€", "£", ",", " "} {
		cleaned = strings.ReplaceAll(cleaned, sym, "")
	}

	if !numericRegex.MatchString(cleaned) {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return strconv.ParseFloat(cleaned, 64)
}

// ToPgUUID converts a string to pgtype.UUID.
// Returns invalid if the string is empty or not a valid UUID.
func ToPgUUID(s string) pgtype.UUID {
	if s == "" {
		return pgtype.UUID{Valid: false}
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: parsed, Valid: true}
}

// PgUUIDToString converts a pgtype.UUID to its string representation.
// Returns empty string if the UUID is invalid.
func PgUUIDToString(u pgtype.UUID) string {
	if !u.Valid {
		return ""
	}
	return uuid.UUID(u.Bytes).String()
}

// ToPgTimestamptz converts t; the zero time becomes NULL.
func ToPgTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{Valid: false}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}
