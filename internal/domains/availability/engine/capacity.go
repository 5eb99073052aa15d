package engine

// AvailableSpots subtracts the guests of every blocking booking overlapping [start, end) from
// maxCapacity. No buffer applies. A booking with an unreadable range is counted as overlapping.
// The result is never negative.
func AvailableSpots(maxCapacity int, bookings []ExistingBooking, start, end string) (int, error) {
	from, to, err := Interval{Start: start, End: end}.minutes()
	if err != nil {
		return 0, err
	}

	taken := 0

	for _, b := range bookings {
		if !b.Status.Blocking() {
			continue
		}

		bs, be, err := Interval{Start: b.StartTime, End: b.EndTime}.minutes()
		if err == nil && !Overlaps(from, to, bs, be) {
			continue
		}

		taken += b.GuestsCount
	}

	return max(maxCapacity-taken, 0), nil
}
