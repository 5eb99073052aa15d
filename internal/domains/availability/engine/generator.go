package engine

const (
	DefaultGranularity  = 30
	MinDurationHours    = 2
	maxStepsPerInterval = 100
)

// TimeSlot is a candidate start time. It is computed per request and never stored.
type TimeSlot struct {
	Time      string `json:"time"`
	EndTime   string `json:"end_time"`
	Duration  int    `json:"duration"`
	Available bool   `json:"available"`
	Reserved  bool   `json:"reserved"`
	Past      bool   `json:"past"`
}

// DurationOption is a start time paired with a whole-hour duration and its price.
type DurationOption struct {
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	DurationHours int     `json:"duration_hours"`
	Price         float64 `json:"price"`
	Available     bool    `json:"available"`
	Reserved      bool    `json:"reserved"`
	Past          bool    `json:"past"`
}

// GenerateSlots walks every interval at the given granularity. The last slot of an interval is
// cut at the interval end.
func GenerateSlots(intervals []Interval, granularity int) []TimeSlot {
	if granularity <= 0 {
		granularity = DefaultGranularity
	}

	slots := []TimeSlot{}

	for _, iv := range intervals {
		start, end, err := iv.minutes()
		if err != nil {
			continue
		}

		for step, at := 0, start; at < end && step < maxStepsPerInterval; step, at = step+1, at+granularity {
			slotEnd := min(at+granularity, end)

			slots = append(slots, TimeSlot{
				Time:      FormatMinutes(at),
				EndTime:   FormatMinutes(slotEnd),
				Duration:  slotEnd - at,
				Available: true,
			})
		}
	}

	return slots
}

// GenerateDurations lists, for every start stepped by granularity, each whole-hour duration from
// MinDurationHours up to FullDayHours that fits before the interval end.
func GenerateDurations(intervals []Interval, granularity int, pricePerDay float64) []DurationOption {
	if granularity <= 0 {
		granularity = DefaultGranularity
	}

	options := []DurationOption{}

	for _, iv := range intervals {
		start, end, err := iv.minutes()
		if err != nil {
			continue
		}

		for step, at := 0, start; at < end && step < maxStepsPerInterval; step, at = step+1, at+granularity {
			longest := min(FullDayHours, (end-at)/MinutesPerHour)

			for hours := MinDurationHours; hours <= longest; hours++ {
				options = append(options, DurationOption{
					StartTime:     FormatMinutes(at),
					EndTime:       FormatMinutes(at + hours*MinutesPerHour),
					DurationHours: hours,
					Price:         TotalPrice(float64(hours), 0, pricePerDay, 0),
					Available:     true,
				})
			}
		}
	}

	return options
}
