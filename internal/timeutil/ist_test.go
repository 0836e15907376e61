package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthsFromCrossesYear(t *testing.T) {
	start, err := ParseDate("2024-12-15")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-12", "2025-01", "2025-02"}, MonthsFrom(start, 3))
}

func TestMonthsFromEndOfMonth(t *testing.T) {
	// Jan 31 + 1 month must be February, not March
	start, err := ParseDate("2025-01-31")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01", "2025-02", "2025-03"}, MonthsFrom(start, 3))
}

func TestMonthYearUsesBusinessZone(t *testing.T) {
	// 20:00 UTC on the last day of the month is already next month in IST
	utc := time.Date(2025, 3, 31, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-04", MonthYear(utc))
}
