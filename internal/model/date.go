// Package model defines the value types shared by the cashcal engine, store and UIs.
package model

import (
	"bytes"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the canonical key format for a Date.
const DateLayout = "2006-01-02"

// Date is a calendar day with no time-of-day and no zone. It is held as a UTC
// midnight instant so that day arithmetic never crosses a DST boundary.
// The zero Date means "no date" and marks padding cells.
type Date struct {
	t time.Time
}

// NewDate returns the Date for the given calendar day. Out-of-range values
// normalize the way time.Date does (Jan 32 -> Feb 1).
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf returns the calendar day of t as seen on t's own wall clock.
func DateOf(t time.Time) Date {
	if t.IsZero() {
		return Date{}
	}
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a strict YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// MustDate is ParseDate for literals; it panics on malformed input.
func MustDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Datetime layouts accepted by ParseStamp, tried in order.
var stampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
}

// ParseStamp extracts the calendar day and hour (0-23) from an ISO 8601 date
// or datetime. The day and hour are the wall-clock values written in the
// stamp; no conversion to the machine's zone happens. Date-only stamps
// report hour 0. ok is false for empty or unparsable input.
func ParseStamp(s string) (d Date, hour int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, 0, false
	}
	if len(s) == len(DateLayout) {
		parsed, err := ParseDate(s)
		if err != nil {
			return Date{}, 0, false
		}
		return parsed, 0, true
	}
	for _, layout := range stampLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return DateOf(t), t.Hour(), true
		}
	}
	return Date{}, 0, false
}

// IsZero reports whether d is the absent date.
func (d Date) IsZero() bool { return d.t.IsZero() }

// Year returns the calendar year.
func (d Date) Year() int { return d.t.Year() }

// Month returns the calendar month.
func (d Date) Month() time.Month { return d.t.Month() }

// Day returns the day of the month.
func (d Date) Day() int { return d.t.Day() }

// Weekday returns the day of the week, Sunday = 0.
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// Time returns UTC midnight of d.
func (d Date) Time() time.Time { return d.t }

// AddDays shifts d by n calendar days. The zero Date stays zero.
func (d Date) AddDays(n int) Date {
	if d.IsZero() {
		return d
	}
	return Date{t: d.t.AddDate(0, 0, n)}
}

// DaysUntil returns the number of calendar days from d to o (negative when o is earlier).
func (d Date) DaysUntil(o Date) int {
	return int(o.t.Sub(d.t).Hours() / 24)
}

// Before reports whether d is strictly earlier than o.
func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

// After reports whether d is strictly later than o.
func (d Date) After(o Date) bool { return d.t.After(o.t) }

// Compare returns -1, 0 or +1.
func (d Date) Compare(o Date) int { return d.t.Compare(o.t) }

// String returns the YYYY-MM-DD key, or "" for the zero Date.
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DateLayout)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty text is the zero Date.
func (d *Date) UnmarshalText(text []byte) error {
	if len(bytes.TrimSpace(text)) == 0 {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalJSON encodes the zero Date as null.
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts null, "" or "YYYY-MM-DD". A full datetime is reduced to its day.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(bytes.TrimSpace(b))
	if s == "null" {
		*d = Date{}
		return nil
	}
	s = strings.Trim(s, `"`)
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, _, ok := ParseStamp(s)
	if !ok {
		return fmt.Errorf("parsing date %q", s)
	}
	*d = parsed
	return nil
}
