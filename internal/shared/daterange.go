package shared

import "time"

// ParseDateRange reads the optional startDate/endDate filters shared by the
// document and report list pages. Malformed dates are ignored, matching the
// tolerance of the numeric list parameters.
func ParseDateRange(get func(string) string) (from, to time.Time) {
	if raw := get("startDate"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			from = t
		}
	}
	if raw := get("endDate"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			to = t.Add(24*time.Hour - time.Nanosecond)
		}
	}
	return from, to
}
