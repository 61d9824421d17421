package model

import (
	"errors"
	"fmt"
	"time"
)

const DateLayout = "2006-01-02"

var ErrBadDate = errors.New("date must be YYYY-MM-DD")

// Date is a calendar day with no time component, stored canonically as
// YYYY-MM-DD so day boundaries never shift with the timezone.
type Date string

// ParseDate validates s against the canonical layout. The round-trip check
// rejects inputs time.Parse would accept loosely ("2024-1-2").
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	if t.Format(DateLayout) != s {
		return "", fmt.Errorf("%w: %q", ErrBadDate, s)
	}
	return Date(s), nil
}

// DateOf truncates t to day granularity in its own location.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

func (d Date) AddDays(n int) Date {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return d
	}
	return DateOf(t.AddDate(0, 0, n))
}

func (d Date) String() string { return string(d) }
