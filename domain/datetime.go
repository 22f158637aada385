package domain

import (
	"fmt"
	"strconv"
	"time"
)

const (
	// DateLayout is the wire format of calendar dates
	DateLayout = "2006-01-02"
	// DateTimeLayout is the wire format of local date-times
	DateTimeLayout = "2006-01-02T15:04:05.999999"
)

// Date is a calendar date without time of day or zone
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in UTC
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(d.Format(DateLayout))), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s, empty, err := unquote(b)
	if err != nil || empty {
		*d = Date{}
		return err
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	*d = Date{t}
	return nil
}

// DateTime is a visit timestamp. Values without an offset are taken as UTC;
// values with one are converted to UTC.
type DateTime struct {
	time.Time
}

var dateTimeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// NewDateTime normalizes t to UTC at microsecond precision, the resolution the
// visits table stores.
func NewDateTime(t time.Time) DateTime {
	return DateTime{t.UTC().Truncate(time.Microsecond)}
}

// ParseDateTime accepts ISO-8601 local date-times and RFC 3339 timestamps
func ParseDateTime(s string) (DateTime, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return NewDateTime(t), nil
	}
	for _, layout := range dateTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDateTime(t), nil
		}
	}
	return DateTime{}, fmt.Errorf("invalid date-time %q, expected YYYY-MM-DDTHH:MM:SS", s)
}

func (dt DateTime) MarshalJSON() ([]byte, error) {
	if dt.IsZero() {
		return []byte("null"), nil
	}
	return []byte(strconv.Quote(dt.UTC().Format(DateTimeLayout))), nil
}

func (dt *DateTime) UnmarshalJSON(b []byte) error {
	s, empty, err := unquote(b)
	if err != nil || empty {
		*dt = DateTime{}
		return err
	}
	parsed, err := ParseDateTime(s)
	if err != nil {
		return err
	}
	*dt = parsed
	return nil
}

func unquote(b []byte) (string, bool, error) {
	raw := string(b)
	if raw == "null" {
		return "", true, nil
	}
	s, err := strconv.Unquote(raw)
	if err != nil {
		return "", false, fmt.Errorf("expected a JSON string, got %s", raw)
	}
	return s, s == "", nil
}
