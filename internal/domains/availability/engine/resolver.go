package engine

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const CalendarDate = "2006-01-02"

// DefaultWindow is served whenever the stored schedule cannot be trusted.
var DefaultWindow = Interval{Start: "09:00", End: "18:00"}

// DaySchedule is one weekday entry of a recurring schedule.
type DaySchedule struct {
	Enabled   bool       `json:"enabled"`
	Intervals []Interval `json:"intervals"`
}

// Schedule maps lowercase English weekday names ("monday") to their entry.
type Schedule map[string]DaySchedule

// Exception overrides the schedule on a single calendar date.
type Exception struct {
	Date      string     `json:"date"`
	Enabled   bool       `json:"enabled"`
	Intervals []Interval `json:"intervals"`
}

// Availability is the resolved set of open intervals for a date.
type Availability struct {
	Enabled   bool       `json:"enabled"`
	Intervals []Interval `json:"intervals"`
}

func closed() Availability {
	return Availability{Enabled: false, Intervals: []Interval{}}
}

func fallback() Availability {
	return Availability{Enabled: true, Intervals: []Interval{DefaultWindow}}
}

// Resolve picks the open intervals for date. A matching exception wins over the weekday entry;
// an enabled exception without intervals defers to the weekday. Malformed data yields the
// default window.
func Resolve(date string, schedule Schedule, exceptions []Exception) Availability {
	for _, ex := range exceptions {
		if ex.Date != date {
			continue
		}

		if !ex.Enabled {
			return closed()
		}

		if len(ex.Intervals) > 0 {
			return checked(date, ex.Intervals)
		}

		break
	}

	day, err := time.Parse(CalendarDate, date)
	if err != nil {
		log.Warn().Err(err).Str("date", date).Msg("Unparseable availability date, serving default window")

		return fallback()
	}

	entry, ok := schedule[strings.ToLower(day.Weekday().String())]
	if !ok || !entry.Enabled || len(entry.Intervals) == 0 {
		return closed()
	}

	return checked(date, entry.Intervals)
}

// ResolveRaw is Resolve over a schedule still in its stored JSON form.
func ResolveRaw(date string, rawSchedule []byte, exceptions []Exception) Availability {
	schedule := Schedule{}

	if len(rawSchedule) > 0 {
		if err := json.Unmarshal(rawSchedule, &schedule); err != nil {
			log.Warn().Err(err).Str("date", date).Msg("Unparseable recurring schedule, serving default window")

			return fallback()
		}
	}

	return Resolve(date, schedule, exceptions)
}

func checked(date string, intervals []Interval) Availability {
	for _, iv := range intervals {
		if err := iv.Validate(); err != nil {
			log.Warn().Err(err).Str("date", date).Msg("Malformed schedule interval, serving default window")

			return fallback()
		}
	}

	out := make([]Interval, len(intervals))
	copy(out, intervals)

	return Availability{Enabled: true, Intervals: out}
}
