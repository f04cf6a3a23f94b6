// Package resolver recovers canonical date and category metadata from
// the inconsistent directory naming conventions of the hansard
// collections tree (collections/{jurisdiction}/{year}/{month}/{day}/...).
//
// Resolution is pure and deterministic: identical input always yields
// the identical result, so failures are never retried.
package resolver

import (
	"fmt"
	"strconv"
	"time"

	"github.com/jlkeet/pacific-hansard-sub001/internal/core/domain"
)

// minSegments is the minimum path depth that can carry
// jurisdiction/year/month/day components.
const minSegments = 4

// months maps month tokens to calendar months. Covers full English
// names and their common 3-4 letter abbreviations, including the
// irregular "Sept". Lookup is exact-match; non-matches fall back to a
// full-name parse.
var months = map[string]time.Month{
	"January": time.January, "Jan": time.January,
	"February": time.February, "Feb": time.February,
	"March": time.March, "Mar": time.March,
	"April": time.April, "Apr": time.April,
	"May":  time.May,
	"June": time.June, "Jun": time.June,
	"July": time.July, "Jul": time.July,
	"August": time.August, "Aug": time.August,
	"September": time.September, "Sep": time.September, "Sept": time.September,
	"October": time.October, "Oct": time.October,
	"November": time.November, "Nov": time.November,
	"December": time.December, "Dec": time.December,
}

// Resolve recovers the canonical date and category label from the
// ordered path segments of a document's storage location.
//
// The first segment that is purely numeric, exactly four characters
// and within the accepted year range anchors the scan: the following
// segment is the month token, the one after that the day, and the one
// after the day - when present - the category label, taken verbatim.
func Resolve(segments []string) (domain.CanonicalDate, error) {
	if len(segments) < minSegments {
		return domain.CanonicalDate{}, fmt.Errorf("%w: %d segments, need %d",
			domain.ErrPathTooShort, len(segments), minSegments)
	}

	anchor := -1
	year := 0
	for i, seg := range segments {
		if len(seg) != 4 || !isNumeric(seg) {
			continue
		}
		y, err := strconv.Atoi(seg)
		if err != nil || y < domain.MinHansardYear || y > domain.MaxHansardYear {
			continue
		}
		anchor, year = i, y
		break
	}
	if anchor < 0 {
		return domain.CanonicalDate{}, domain.ErrNoYearFound
	}

	if anchor+1 >= len(segments) {
		return domain.CanonicalDate{}, fmt.Errorf("%w: no month segment after year", domain.ErrUnknownMonth)
	}
	month, err := resolveMonth(segments[anchor+1])
	if err != nil {
		return domain.CanonicalDate{}, err
	}

	if anchor+2 >= len(segments) || !isNumeric(segments[anchor+2]) {
		return domain.CanonicalDate{}, fmt.Errorf("%w: no day segment after month", domain.ErrInvalidCalendarDate)
	}
	day, err := strconv.Atoi(segments[anchor+2])
	if err != nil {
		return domain.CanonicalDate{}, fmt.Errorf("%w: day %q", domain.ErrInvalidCalendarDate, segments[anchor+2])
	}

	date := domain.CanonicalDate{Year: year, Month: month, Day: day}
	if anchor+3 < len(segments) {
		date.Category = segments[anchor+3]
	}
	if err := date.Validate(); err != nil {
		return domain.CanonicalDate{}, err
	}
	return date, nil
}

// Jurisdiction returns the source parliament name for a path: the
// segment immediately preceding the year anchor, skipping a literal
// "collections" marker. Returns "Unknown Source" when the path carries
// no recognisable jurisdiction.
func Jurisdiction(segments []string) string {
	for i, seg := range segments {
		if len(seg) != 4 || !isNumeric(seg) {
			continue
		}
		if y, err := strconv.Atoi(seg); err != nil || y < domain.MinHansardYear || y > domain.MaxHansardYear {
			continue
		}
		if i == 0 {
			break
		}
		prev := segments[i-1]
		if prev == "" || prev == "collections" {
			break
		}
		return prev
	}
	return "Unknown Source"
}

// resolveMonth converts a month token to a calendar month. Exact-match
// lookup first; otherwise a full English month name parse, matching
// the source's own naming conventions.
func resolveMonth(token string) (time.Month, error) {
	if m, ok := months[token]; ok {
		return m, nil
	}
	if t, err := time.Parse("January", token); err == nil {
		return t.Month(), nil
	}
	return 0, fmt.Errorf("%w: %q", domain.ErrUnknownMonth, token)
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
