package model

import (
	"testing"
	"time"
)

func TestValidateUsername(t *testing.T) {
	cases := []struct {
		name  string
		input string
		ok    bool
	}{
		{"simple", "john_doe123", true},
		{"min length", "abc", true},
		{"max length", "a2345678901234567890123456789012345678901234567890", true},
		{"too short", "ab", false},
		{"too long", "a23456789012345678901234567890123456789012345678901", false},
		{"space", "john doe", false},
		{"dash", "john-doe", false},
		{"unicode", "jöhn", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateUsername(tc.input)
			if (err == nil) != tc.ok {
				t.Fatalf("ValidateUsername(%q) = %v, want ok=%v", tc.input, err, tc.ok)
			}
		})
	}
}

func TestValidateEmail(t *testing.T) {
	for _, good := range []string{"user@example.com", "a.b+c@sub.domain.org"} {
		if err := ValidateEmail(good); err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", good, err)
		}
	}
	for _, bad := range []string{"", "plainaddress", "user@", "@example.com", "User Name <user@example.com>"} {
		if err := ValidateEmail(bad); err == nil {
			t.Errorf("ValidateEmail(%q) = nil, want error", bad)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("1234567"); err == nil {
		t.Error("7-char password accepted")
	}
	if err := ValidatePassword("12345678"); err != nil {
		t.Errorf("8-char password rejected: %v", err)
	}
	long := make([]byte, 51)
	for i := range long {
		long[i] = 'x'
	}
	if err := ValidatePassword(string(long)); err == nil {
		t.Error("51-char password accepted")
	}
	if err := ValidatePassword(string(long[:50])); err != nil {
		t.Errorf("50-char password rejected: %v", err)
	}
}

func TestValidateDueDateBounds(t *testing.T) {
	today := Today()
	cases := []struct {
		name string
		date Date
		ok   bool
	}{
		{"today", today, true},
		{"yesterday", NewDate(today.AddDate(0, 0, -1)), false},
		{"365 days ahead", NewDate(today.AddDate(0, 0, 365)), true},
		{"366 days ahead", NewDate(today.AddDate(0, 0, 366)), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateDueDate(tc.date)
			if (err == nil) != tc.ok {
				t.Fatalf("ValidateDueDate(%s) = %v, want ok=%v", tc.date, err, tc.ok)
			}
		})
	}
}

func TestValidateDueDateUpdateSkipsForwardBound(t *testing.T) {
	// Updates only reject past dates; a date years ahead passes.
	far := NewDate(Today().AddDate(3, 0, 0))
	if err := ValidateDueDateUpdate(far); err != nil {
		t.Fatalf("update validation rejected far-future date: %v", err)
	}
	if err := ValidateDueDateUpdate(NewDate(Today().AddDate(0, 0, -1))); err == nil {
		t.Fatal("update validation accepted a past date")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d, err := ParseDate("2026-09-15")
	if err != nil {
		t.Fatal(err)
	}
	b, err := d.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"2026-09-15"` {
		t.Fatalf("marshal = %s", b)
	}
	var back Date
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatal(err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %s != %s", back, d)
	}
}

func TestDateScan(t *testing.T) {
	var d Date
	if err := d.Scan(time.Date(2026, 9, 15, 13, 45, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}
	if d.String() != "2026-09-15" {
		t.Fatalf("scan time.Time = %s", d)
	}
	if err := d.Scan([]byte("2026-01-02")); err != nil {
		t.Fatal(err)
	}
	if d.String() != "2026-01-02" {
		t.Fatalf("scan bytes = %s", d)
	}
}

func TestParseEnums(t *testing.T) {
	if p, err := ParsePriority("high"); err != nil || p != PriorityHigh {
		t.Fatalf("ParsePriority(high) = %v, %v", p, err)
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Fatal("ParsePriority accepted unknown value")
	}
	if s, err := ParseStatus("Completed"); err != nil || s != StatusCompleted {
		t.Fatalf("ParseStatus(Completed) = %v, %v", s, err)
	}
	if _, err := ParseStatus("done"); err == nil {
		t.Fatal("ParseStatus accepted unknown value")
	}
}
