package shared

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate accepts YYYY-MM-DD or RFC3339 and returns the UTC calendar date.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(dateLayout, value); err == nil {
		return parsed, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	parsed = parsed.UTC()
	return time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 0, 0, 0, 0, time.UTC), nil
}

// Date parses an optional date field, recording an issue on v when the value
// is present but malformed. A nil or blank value yields nil.
func (v *Validator) Date(field string, raw *string) *time.Time {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil
	}
	parsed, err := ParseDate(*raw)
	if err != nil {
		v.Add(field, humanize(field)+" must be a valid date (YYYY-MM-DD)")
		return nil
	}
	return &parsed
}
