package timezone_test

import (
	"spacebook/shared/timezone"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimezoneInit(t *testing.T) {
	assert.False(t, timezone.Now().IsZero())
	assert.NotNil(t, timezone.GetLocation())
}

func TestLocation(t *testing.T) {
	madrid := timezone.Location("Europe/Madrid")
	assert.Equal(t, "Europe/Madrid", madrid.String())

	assert.Same(t, madrid, timezone.Location("Europe/Madrid"))
	assert.Equal(t, timezone.GetLocation(), timezone.Location("Not/AZone"))
	assert.Equal(t, timezone.GetLocation(), timezone.Location(""))
}

func TestDateAndMinuteOfDay(t *testing.T) {
	tokyo := timezone.Location("Asia/Tokyo")
	instant := time.Date(2024, 3, 4, 20, 30, 0, 0, time.UTC)

	assert.Equal(t, "2024-03-05", timezone.Date(instant, tokyo))
	assert.Equal(t, 5*60+30, timezone.MinuteOfDay(instant, tokyo))
	assert.Equal(t, "2024-03-04", timezone.Date(instant, time.UTC))
}

func TestDayBoundsAcrossDST(t *testing.T) {
	ny := timezone.Location("America/New_York")

	start, end, err := timezone.DayBounds("2024-03-10", ny)
	require.NoError(t, err)
	assert.Equal(t, 23*time.Hour, end.Sub(start))

	_, _, err = timezone.DayBounds("10/03/2024", ny)
	assert.Error(t, err)
}

func TestAt(t *testing.T) {
	madrid := timezone.Location("Europe/Madrid")

	at, err := timezone.At("2024-07-01", 9*60+15, madrid)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 1, 7, 15, 0, 0, time.UTC), at.UTC())
}
