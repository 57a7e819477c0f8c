package shared_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/storelane/storelane/internal/shared"
)

func TestParseDateRange(t *testing.T) {
	vals := url.Values{"startDate": {"2026-08-01"}, "endDate": {"2026-08-31"}}

	from, to := shared.ParseDateRange(vals.Get)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), from)
	// The end date is inclusive: the range covers its whole day.
	assert.Equal(t, time.Date(2026, 8, 31, 23, 59, 59, 999999999, time.UTC), to)
}

func TestParseDateRangeIgnoresMalformed(t *testing.T) {
	vals := url.Values{"startDate": {"yesterday"}, "endDate": {""}}

	from, to := shared.ParseDateRange(vals.Get)
	assert.True(t, from.IsZero())
	assert.True(t, to.IsZero())
}
