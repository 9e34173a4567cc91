package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// Priority is the task priority level stored in tasks.priority.
type Priority string

// Status is the task completion state stored in tasks.status.
type Status string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"

	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
)

// ParsePriority maps a string onto a Priority constant, case-insensitively.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(s) {
	case "low":
		return PriorityLow, nil
	case "medium":
		return PriorityMedium, nil
	case "high":
		return PriorityHigh, nil
	}
	return "", &ValidationError{Field: "priority", Reason: "must be Low, Medium or High"}
}

// ParseStatus maps a string onto a Status constant, case-insensitively.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(s) {
	case "pending":
		return StatusPending, nil
	case "completed":
		return StatusCompleted, nil
	}
	return "", &ValidationError{Field: "status", Reason: "must be Pending or Completed"}
}

// dateLayout is the wire and storage format for due dates.  Due dates are
// calendar dates with no time component.
const dateLayout = "2006-01-02"

// Date is a calendar date.  It marshals to/from "YYYY-MM-DD" JSON strings
// and maps onto a MySQL DATE column.  The embedded time.Time is always
// midnight UTC.
type Date struct{ time.Time }

// NewDate truncates t to its UTC calendar date.
func NewDate(t time.Time) Date {
	t = t.UTC()
	return Date{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// Today returns the current UTC calendar date.
func Today() Date { return NewDate(time.Now()) }

// ParseDate parses a "YYYY-MM-DD" string.
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return Date{}, &ValidationError{Field: "due_date", Reason: "must be a YYYY-MM-DD date"}
	}
	return Date{t}, nil
}

// String renders the date in storage format.
func (d Date) String() string { return d.Format(dateLayout) }

// MarshalJSON renders the date as a quoted "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// UnmarshalJSON accepts a quoted "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" || s == "" {
		return &ValidationError{Field: "due_date", Reason: "must be a YYYY-MM-DD date"}
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer so a Date can be passed directly as a
// query argument for a DATE column.
func (d Date) Value() (driver.Value, error) { return d.Format(dateLayout), nil }

// Scan implements sql.Scanner.  With parseTime=true the MySQL driver hands
// DATE columns back as time.Time; the raw-bytes form is handled as well.
func (d *Date) Scan(v any) error {
	switch t := v.(type) {
	case time.Time:
		*d = NewDate(t)
		return nil
	case []byte:
		parsed, err := ParseDate(string(t))
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	case string:
		parsed, err := ParseDate(t)
		if err != nil {
			return err
		}
		*d = parsed
		return nil
	}
	return fmt.Errorf("cannot scan %T into model.Date", v)
}

// Task represents a row in the `tasks` table.  Every task is owned by
// exactly one user; (OwnerID, Title) pairs are unique.
type Task struct {
	ID          uint64    // tasks.id
	OwnerID     uint64    // tasks.user_id
	Title       string    // tasks.title (1–100 chars, unique per owner)
	Description string    // tasks.description (optional, ≤1000 chars, "" when unset)
	DueDate     Date      // tasks.due_date
	Priority    Priority  // tasks.priority
	Status      Status    // tasks.status
	CreatedAt   time.Time // tasks.created_at
	UpdatedAt   time.Time // tasks.updated_at
}
