package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	MinutesPerHour = 60
	MinutesPerDay  = 24 * MinutesPerHour
)

var ErrParse = errors.New("malformed time of day")

// ParseError reports a time-of-day value that is not "HH:MM".
type ParseError struct {
	Value string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %q", ErrParse, e.Value)
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// ParseTime parses "HH:MM". A trailing ":SS" as returned by SQL time columns is tolerated and
// ignored. "24:00" is the only accepted value with hour 24.
func ParseTime(s string) (hour, minute int, err error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, 0, &ParseError{Value: s}
	}

	hour, errH := strconv.Atoi(parts[0])
	minute, errM := strconv.Atoi(parts[1])
	if errH != nil || errM != nil || len(parts[1]) != 2 {
		return 0, 0, &ParseError{Value: s}
	}

	if hour < 0 || hour > 24 || minute < 0 || minute > 59 || (hour == 24 && minute != 0) {
		return 0, 0, &ParseError{Value: s}
	}

	return hour, minute, nil
}

// ToMinutes converts "HH:MM" into minutes since midnight.
func ToMinutes(s string) (int, error) {
	h, m, err := ParseTime(s)
	if err != nil {
		return 0, err
	}

	return h*MinutesPerHour + m, nil
}

// FormatMinutes renders minutes since midnight as "HH:MM". Exactly one day renders as "24:00",
// anything else wraps around the clock.
func FormatMinutes(minutes int) string {
	if minutes == MinutesPerDay {
		return "24:00"
	}

	minutes %= MinutesPerDay
	if minutes < 0 {
		minutes += MinutesPerDay
	}

	return fmt.Sprintf("%02d:%02d", minutes/MinutesPerHour, minutes%MinutesPerHour)
}

// AddMinutes shifts a time of day, wrapping past midnight. Malformed input is returned unchanged.
func AddMinutes(hhmm string, minutes int) string {
	base, err := ToMinutes(hhmm)
	if err != nil {
		return hhmm
	}

	total := (base + minutes) % MinutesPerDay
	if total < 0 {
		total += MinutesPerDay
	}

	return FormatMinutes(total)
}

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) intersect.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}

// Interval is an open window of a day in local civil time.
type Interval struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

func (i Interval) minutes() (start, end int, err error) {
	if start, err = ToMinutes(i.Start); err != nil {
		return 0, 0, err
	}

	if end, err = ToMinutes(i.End); err != nil {
		return 0, 0, err
	}

	return start, end, nil
}

// Validate checks both bounds parse and start precedes end.
func (i Interval) Validate() error {
	start, end, err := i.minutes()
	if err != nil {
		return err
	}

	if start >= end {
		return fmt.Errorf("interval %s-%s: %w", i.Start, i.End, ErrParse)
	}

	return nil
}
