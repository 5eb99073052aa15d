package timezone

import (
	"spacebook/config"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	dateLayout    = "2006-01-02"
	minutesInHour = 60
)

var (
	appLocation *time.Location
	locations   sync.Map
)

func init() {
	cfg := config.Get()

	if cfg.App.Timezone == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")
		cfg.App.Timezone = "UTC"
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", cfg.App.Timezone).
			Msg("Failed to load timezone, falling back to UTC. Please use standard timezone names like 'Europe/Madrid', 'UTC', 'America/New_York'")
		appLocation = time.UTC

		return
	}

	appLocation = loc
	log.Info().
		Str("timezone", cfg.App.Timezone).
		Str("location", loc.String()).
		Msg("Application timezone initialized")
}

// Now returns the current time in the application timezone
func Now() time.Time {
	return time.Now().In(GetLocation())
}

// ToAppTime converts a time to the application timezone
func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// GetLocation returns the current application timezone location
func GetLocation() *time.Location {
	if appLocation == nil {
		return time.UTC
	}

	return appLocation
}

// Format formats a time in the application timezone
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// Location resolves an IANA zone name, caching the result. Empty or unknown names resolve to the
// application timezone.
func Location(name string) *time.Location {
	if name == "" {
		return GetLocation()
	}

	if cached, ok := locations.Load(name); ok {
		loc, _ := cached.(*time.Location)

		return loc
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("timezone", name).Msg("Unknown space timezone, using application timezone")

		loc = GetLocation()
	}

	locations.Store(name, loc)

	return loc
}

// Date returns the civil date of t in loc as YYYY-MM-DD.
func Date(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

// MinuteOfDay returns the minutes elapsed since local midnight of t in loc.
func MinuteOfDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)

	return local.Hour()*minutesInHour + local.Minute()
}

// DayBounds returns the absolute instants of local midnight starting the given civil date and the
// following midnight. DST transitions are handled by time.Date.
func DayBounds(date string, loc *time.Location) (time.Time, time.Time, error) {
	start, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err //nolint:wrapcheck
	}

	return start, start.AddDate(0, 0, 1), nil
}

// At returns the absolute instant of the civil date and minute-of-day in loc.
func At(date string, minuteOfDay int, loc *time.Location) (time.Time, error) {
	start, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, err //nolint:wrapcheck
	}

	return time.Date(start.Year(), start.Month(), start.Day(), 0, minuteOfDay, 0, 0, loc), nil
}
