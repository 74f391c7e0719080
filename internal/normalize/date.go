// Package normalize converts raw tabular rows with mixed field
// representations into typed domain records. Parsing is best-effort: a field
// that cannot be normalized is nulled and counted, never dropped.
package normalize

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/TomJordanJGP/job-performance-dashboard/internal/model"
)

// ErrMalformedDate marks a date field that matches no accepted format.
var ErrMalformedDate = eris.New("normalize: malformed date")

// Timestamp layouts accepted after the compact YYYYMMDD form. Order matters:
// the first layout that parses wins.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate normalizes a raw date field. It accepts the 8-digit YYYYMMDD form
// (whether it arrived as a string or an integer upstream) and ISO-8601
// timestamps; anything else returns ErrMalformedDate.
func ParseDate(raw string) (model.Date, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return model.Date{}, eris.Wrapf(ErrMalformedDate, "empty value")
	}

	if len(s) == 8 && allDigits(s) {
		t, err := time.Parse("20060102", s)
		if err != nil {
			return model.Date{}, eris.Wrapf(ErrMalformedDate, "%q", raw)
		}
		return model.DateOf(t), nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return model.DateOf(t), nil
		}
	}
	return model.Date{}, eris.Wrapf(ErrMalformedDate, "%q", raw)
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
