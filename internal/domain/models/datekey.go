package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the on-disk and wire format of a DateKey.
const DateLayout = "2006-01-02"

// ErrInvalidDate indicates a value that is not a YYYY-MM-DD calendar date.
var ErrInvalidDate = errors.New("invalid date")

// DateKey identifies one day's record set.
type DateKey string

// ParseDateKey validates a YYYY-MM-DD string and returns it in canonical form.
func ParseDateKey(value string) (DateKey, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return DateKey(t.Format(DateLayout)), nil
}

// DateKeyFromTime returns the calendar day of t in t's own location.
func DateKeyFromTime(t time.Time) DateKey {
	return DateKey(t.Format(DateLayout))
}

func (d DateKey) String() string {
	return string(d)
}

// Time returns midnight UTC of the day.
func (d DateKey) Time() time.Time {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}
