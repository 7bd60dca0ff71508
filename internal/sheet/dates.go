package sheet

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	reEpoch     = regexp.MustCompile(`^\d{10}$`)
	reYearMonth = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)
	reISODate   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Layouts attempted for cells that match none of the fast paths. The
// commission sheets mix US-style dates and full timestamps.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"2006/01/02",
	"01-02-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"02.01.2006",
}

// NormalizeDate coerces the date formats observed in the source sheets to
// YYYY-MM-DD. Accepted inputs: a 10-digit Unix epoch (interpreted in UTC so
// runs are reproducible across hosts), YYYY-M, YYYY-MM-DD, and a set of
// common date layouts. Anything else, including blank input, normalizes to
// nil rather than erroring.
func NormalizeDate(value string) *string {
	s := strings.TrimSpace(value)
	if s == "" {
		return nil
	}

	if reEpoch.MatchString(s) {
		secs, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil
		}
		out := time.Unix(secs, 0).UTC().Format("2006-01-02")
		return &out
	}

	if m := reYearMonth.FindStringSubmatch(s); m != nil {
		month := m[2]
		if len(month) == 1 {
			month = "0" + month
		}
		out := m[1] + "-" + month + "-01"
		return &out
	}

	if reISODate.MatchString(s) {
		return &s
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			out := t.Format("2006-01-02")
			return &out
		}
	}
	return nil
}
