package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayBounds(t *testing.T) {
	day := time.Date(2025, 3, 15, 14, 30, 0, 0, BusinessZone)
	start, end := DayBounds(day)

	assert.Equal(t, time.UTC, start.Location())
	assert.Equal(t, time.UTC, end.Location())

	// Московские сутки 15 марта: [14 марта 21:00 UTC, 15 марта 21:00 UTC)
	assert.Equal(t, time.Date(2025, 3, 14, 21, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 15, end.In(BusinessZone).Day())
	assert.True(t, end.After(start))
}

func TestPeriodBounds(t *testing.T) {
	from := time.Date(2025, 3, 1, 0, 0, 0, 0, BusinessZone)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, BusinessZone)

	start, end := PeriodBounds(from, to)
	assert.Equal(t, 1, start.In(BusinessZone).Day())
	assert.Equal(t, 31, end.In(BusinessZone).Day())
	assert.True(t, end.Sub(start) > 29*24*time.Hour)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-15")
	require.NoError(t, err)
	assert.Equal(t, 2025, d.Year())
	assert.Equal(t, time.March, d.Month())
	assert.Equal(t, 15, d.Day())
	assert.Equal(t, BusinessZone, d.Location())

	_, err = ParseDate("15.03.2025")
	assert.Error(t, err)
}
