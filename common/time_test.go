package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWithLocationConvertsToRequestedZone(t *testing.T) {
	utc := time.Date(2026, time.March, 6, 14, 0, 0, 0, time.UTC)

	got, err := WithLocation(utc, "America/New_York")
	assert.NoError(t, err)
	assert.Equal(t, 9, got.Hour())
	assert.True(t, got.Equal(utc))
}

func TestWithLocationTrimsAndRejectsUnknownZones(t *testing.T) {
	utc := time.Date(2026, time.March, 6, 14, 0, 0, 0, time.UTC)

	got, err := WithLocation(utc, "  America/Chicago  ")
	assert.NoError(t, err)
	assert.Equal(t, 8, got.Hour())

	_, err = WithLocation(utc, "Mars/Olympus_Mons")
	assert.Error(t, err)
}

func TestToDayFormatsCalendarDay(t *testing.T) {
	assert.Equal(t, "2026-03-06", ToDay(time.Date(2026, time.March, 6, 23, 59, 0, 0, time.UTC)))
}
