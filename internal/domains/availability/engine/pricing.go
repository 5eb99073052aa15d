package engine

import "math"

// FullDayHours is the duration from which the flat daily rate applies.
const FullDayHours = 8

// TotalPrice prices a window of durationHours. From FullDayHours on the daily rate is charged
// flat; shorter windows are charged per hour, deriving the hourly rate from the daily one when it
// is not set. The result is rounded to cents. guestsCount does not affect the total, the price is
// per space.
func TotalPrice(durationHours, pricePerHour, pricePerDay float64, guestsCount int) float64 {
	if durationHours <= 0 {
		return 0
	}

	if durationHours >= FullDayHours {
		return round2(pricePerDay)
	}

	if pricePerHour <= 0 {
		pricePerHour = pricePerDay / FullDayHours
	}

	return round2(durationHours * pricePerHour)
}

// DurationHours is the length of [start, end) in hours.
func DurationHours(start, end string) (float64, error) {
	s, err := ToMinutes(start)
	if err != nil {
		return 0, err
	}

	e, err := ToMinutes(end)
	if err != nil {
		return 0, err
	}

	return float64(e-s) / MinutesPerHour, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
