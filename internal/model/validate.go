package model

import (
	"fmt"
	"net/mail"
)

// ValidationError reports a request field that failed validation.  Handlers
// translate it into an HTTP 400 response.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Password length bounds accepted at registration.
const (
	passwordMinLen = 8
	passwordMaxLen = 50
)

// Username length bounds.
const (
	usernameMinLen = 3
	usernameMaxLen = 50
)

// Title and description bounds for tasks.
const (
	titleMaxLen       = 100
	descriptionMaxLen = 1000
)

// dueDateMaxDays is how far in the future a due date may lie at creation.
// The bound is inclusive: exactly this many days ahead is still valid.
const dueDateMaxDays = 365

// ValidateEmail checks that s is a syntactically valid address.
func ValidateEmail(s string) error {
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return &ValidationError{Field: "email", Reason: "not a valid email address"}
	}
	return nil
}

// ValidateUsername enforces the 3–50 char alphanumeric/underscore rule.
func ValidateUsername(s string) error {
	if len(s) < usernameMinLen || len(s) > usernameMaxLen {
		return &ValidationError{Field: "username", Reason: "must be 3-50 characters"}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_':
		default:
			return &ValidationError{Field: "username", Reason: "only letters, digits and underscore allowed"}
		}
	}
	return nil
}

// ValidatePassword enforces the plain-text password length bounds.
func ValidatePassword(s string) error {
	if len(s) < passwordMinLen || len(s) > passwordMaxLen {
		return &ValidationError{Field: "password", Reason: "must be 8-50 characters"}
	}
	return nil
}

// ValidateTitle enforces the 1–100 char task title rule.
func ValidateTitle(s string) error {
	if len(s) < 1 || len(s) > titleMaxLen {
		return &ValidationError{Field: "title", Reason: "must be 1-100 characters"}
	}
	return nil
}

// ValidateDescription enforces the optional description length bound.
func ValidateDescription(s string) error {
	if len(s) > descriptionMaxLen {
		return &ValidationError{Field: "description", Reason: "must be at most 1000 characters"}
	}
	return nil
}

// ValidateDueDate applies the creation-time bounds: the date must not be in
// the past and not more than 365 days ahead.  Today and today+365 are both
// valid.
func ValidateDueDate(d Date) error {
	today := Today()
	if d.Before(today.Time) {
		return &ValidationError{Field: "due_date", Reason: "cannot be in the past"}
	}
	if d.After(today.AddDate(0, 0, dueDateMaxDays)) {
		return &ValidationError{Field: "due_date", Reason: "cannot be more than 1 year in the future"}
	}
	return nil
}

// ValidateDueDateUpdate applies the update-time check.  Updates only reject
// past dates; the forward bound is intentionally not re-applied, matching
// the behaviour of the original task update path.
func ValidateDueDateUpdate(d Date) error {
	if d.Before(Today().Time) {
		return &ValidationError{Field: "due_date", Reason: "cannot be in the past"}
	}
	return nil
}
