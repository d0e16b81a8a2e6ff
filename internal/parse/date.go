package parse

import (
	"regexp"
	"time"
)

// DayFirst is the fixed convention for ambiguous numeric dates: in
// 12/11/2025 the first component is the day (12 November 2025). The
// layout order in numericLayouts encodes it; flip the constant and the
// order together if a deployment ever needs month-first receipts.
const DayFirst = true

var (
	reNumericDate   = regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`)
	reISODate       = regexp.MustCompile(`\b\d{4}[/-]\d{1,2}[/-]\d{1,2}\b`)
	reMonthNameDate = regexp.MustCompile(`\b\d{1,2}\s+[A-Za-z]{3,9},?\s+\d{2,4}\b`)
)

// Day-first layouts come before month-first ones; the first layout that
// yields a structurally valid date wins.
var numericLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2/1/06",
	"2-1-06",
	"1/2/2006",
	"1-2-2006",
	"1/2/06",
	"1-2-06",
}

var isoLayouts = []string{
	"2006-1-2",
	"2006/1/2",
}

var monthNameLayouts = []string{
	"2 January 2006",
	"2 Jan 2006",
	"2 January, 2006",
	"2 Jan, 2006",
	"2 January 06",
	"2 Jan 06",
}

var datePatterns = []struct {
	re      *regexp.Regexp
	layouts []string
	rule    string
}{
	{reNumericDate, numericLayouts, "date-numeric"},
	{reISODate, isoLayouts, "date-iso"},
	{reMonthNameDate, monthNameLayouts, "date-month-name"},
}

// ParseDate scans for known date patterns in priority order and returns
// the first structurally valid match as a UTC calendar date.
func ParseDate(text string) Field[time.Time] {
	for _, p := range datePatterns {
		raw := p.re.FindString(text)
		if raw == "" {
			continue
		}
		for _, layout := range p.layouts {
			t, err := time.ParseInLocation(layout, raw, time.UTC)
			if err != nil {
				continue
			}
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return found(day, raw, p.rule)
		}
	}
	return absent[time.Time]()
}
