// Package daterange validates and expands YYYY-MM-DD ranges used by list
// endpoints.
package daterange

import (
	"errors"
	"time"
)

const Layout = "2006-01-02"

var (
	ErrInvalidDate  = errors.New("invalid date format, expected YYYY-MM-DD")
	ErrInvalidRange = errors.New("from must not be after to")
	ErrRangeTooLong = errors.New("date range too long")
)

// ValidateDate checks a single YYYY-MM-DD value.
func ValidateDate(date string) error {
	if _, err := time.Parse(Layout, date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// Validate checks both ends and that the inclusive span is at most maxDays.
// maxDays <= 0 disables the length check.
func Validate(from, to string, maxDays int) error {
	start, err := time.Parse(Layout, from)
	if err != nil {
		return ErrInvalidDate
	}
	end, err := time.Parse(Layout, to)
	if err != nil {
		return ErrInvalidDate
	}
	if end.Before(start) {
		return ErrInvalidRange
	}
	if maxDays > 0 && int(end.Sub(start).Hours()/24)+1 > maxDays {
		return ErrRangeTooLong
	}
	return nil
}

// Days lists every calendar day from..to inclusive. Invalid input yields nil.
func Days(from, to string) []string {
	start, err := time.Parse(Layout, from)
	if err != nil {
		return nil
	}
	end, err := time.Parse(Layout, to)
	if err != nil || end.Before(start) {
		return nil
	}
	var out []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format(Layout))
	}
	return out
}

// AddDays shifts date by n days. Invalid input is returned unchanged.
func AddDays(date string, n int) string {
	d, err := time.Parse(Layout, date)
	if err != nil {
		return date
	}
	return d.AddDate(0, 0, n).Format(Layout)
}
