package domain

import (
	"fmt"
	"time"
)

// Year bounds accepted when recovering dates from storage paths.
// Hansard collections only cover sittings from 2000 onwards; anything
// outside the range is treated as a false positive (page numbers,
// question numbers) rather than a year.
const (
	MinHansardYear = 2000
	MaxHansardYear = 2030
)

// CanonicalDate is the validated calendar date recovered from a
// document's storage path, together with the category label resolved
// alongside it. It is created once per document at ingestion and
// never mutated.
type CanonicalDate struct {
	// Year is the four-digit sitting year.
	Year int

	// Month is the calendar month (1-12).
	Month time.Month

	// Day is the day of the month.
	Day int

	// Category is the document-type label taken verbatim from the
	// path segment following the day, when one exists. Optional.
	Category string
}

// Time returns the date as a time.Time at midnight UTC.
func (d CanonicalDate) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String renders the date in YYYY-MM-DD form, the format the index
// and the original collection metadata use.
func (d CanonicalDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// Validate reports whether the date is a real calendar date within
// the accepted year bounds. Impossible dates (day 31 in a 30-day
// month, Feb 29 outside leap years) are rejected, never clamped.
func (d CanonicalDate) Validate() error {
	if d.Year < MinHansardYear || d.Year > MaxHansardYear {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidCalendarDate, d.Year)
	}
	if d.Month < time.January || d.Month > time.December {
		return fmt.Errorf("%w: month %d out of range", ErrInvalidCalendarDate, int(d.Month))
	}
	t := d.Time()
	if t.Year() != d.Year || t.Month() != d.Month || t.Day() != d.Day {
		return fmt.Errorf("%w: %04d-%02d-%02d does not exist", ErrInvalidCalendarDate, d.Year, int(d.Month), d.Day)
	}
	return nil
}
