package engine

import (
	"time"

	"github.com/rs/zerolog/log"
)

type Status string

const (
	StatusConfirmed       Status = "confirmed"
	StatusPendingApproval Status = "pending_approval"
	StatusPendingPayment  Status = "pending_payment"
	StatusCancelled       Status = "cancelled"
	StatusRejected        Status = "rejected"
	StatusExpired         Status = "expired"
)

// BlockingStatuses hold a time range against new claims.
var BlockingStatuses = []Status{StatusConfirmed, StatusPendingApproval, StatusPendingPayment}

func (s Status) Blocking() bool {
	switch s {
	case StatusConfirmed, StatusPendingApproval, StatusPendingPayment:
		return true
	default:
		return false
	}
}

// ExistingBooking is a booking on the target date in the space's local time.
type ExistingBooking struct {
	StartTime   string `json:"start_time"   db:"start_time"`
	EndTime     string `json:"end_time"     db:"end_time"`
	Status      Status `json:"status"       db:"status"`
	UserID      string `json:"user_id"      db:"user_id"`
	GuestsCount int    `json:"guests_count" db:"guests_count"`
}

// AbsoluteBooking is a booking as stored, independent of any timezone.
type AbsoluteBooking struct {
	StartAt     time.Time `db:"start_at"`
	EndAt       time.Time `db:"end_at"`
	Status      Status    `db:"status"`
	UserID      string    `db:"user_id"`
	GuestsCount int       `db:"guests_count"`
}

// FilterInput carries what the conflict filter needs besides the candidates.
type FilterInput struct {
	BufferMinutes int
	Bookings      []ExistingBooking
	Date          string
	Now           time.Time
	Location      *time.Location
}

type span struct{ start, end int }

func (in FilterInput) blocked() []span {
	spans := make([]span, 0, len(in.Bookings))

	for _, b := range in.Bookings {
		if !b.Status.Blocking() {
			continue
		}

		start, end, err := Interval{Start: b.StartTime, End: b.EndTime}.minutes()
		if err != nil {
			log.Warn().Err(err).Str("date", in.Date).Msg("Skipping booking with malformed time range")

			continue
		}

		spans = append(spans, span{start: start - in.BufferMinutes, end: end + in.BufferMinutes})
	}

	return spans
}

func (in FilterInput) location() *time.Location {
	if in.Location == nil {
		return time.UTC
	}

	return in.Location
}

// reserved reports whether [start, end) hits any blocked span.
func reserved(spans []span, start, end int) bool {
	for _, s := range spans {
		if Overlaps(start, end, s.start, s.end) {
			return true
		}
	}

	return false
}

// Within reports whether [start, end) fits inside a single open interval of avail.
func Within(avail Availability, start, end int) bool {
	if !avail.Enabled {
		return false
	}

	for _, iv := range avail.Intervals {
		from, to, err := iv.minutes()
		if err != nil {
			continue
		}

		if start >= from && end <= to {
			return true
		}
	}

	return false
}

// Clear reports whether [start, end) stays out of every buffered blocking booking.
func (in FilterInput) Clear(start, end int) bool {
	return !reserved(in.blocked(), start, end)
}

// IsPastTime reports whether a slot starting at startMinute on date has already begun in loc.
// Earlier dates are entirely past.
func IsPastTime(date string, startMinute int, now time.Time, loc *time.Location) bool {
	local := now.In(loc)
	today := local.Format(CalendarDate)

	switch {
	case date < today:
		return true
	case date > today:
		return false
	default:
		return startMinute <= local.Hour()*MinutesPerHour+local.Minute()
	}
}

// FilterSlots flags each slot reserved when it overlaps a buffered blocking booking and past
// when it has already started. A slot is available only when it is neither.
func FilterSlots(slots []TimeSlot, in FilterInput) []TimeSlot {
	spans := in.blocked()
	loc := in.location()
	out := make([]TimeSlot, 0, len(slots))

	for _, slot := range slots {
		start, end, err := Interval{Start: slot.Time, End: slot.EndTime}.minutes()
		if err != nil {
			continue
		}

		slot.Reserved = reserved(spans, start, end)
		slot.Past = IsPastTime(in.Date, start, in.Now, loc)
		slot.Available = !slot.Reserved && !slot.Past
		out = append(out, slot)
	}

	return out
}

// FilterDurations applies the same rules as FilterSlots to duration options.
func FilterDurations(options []DurationOption, in FilterInput) []DurationOption {
	spans := in.blocked()
	loc := in.location()
	out := make([]DurationOption, 0, len(options))

	for _, opt := range options {
		start, end, err := Interval{Start: opt.StartTime, End: opt.EndTime}.minutes()
		if err != nil {
			continue
		}

		opt.Reserved = reserved(spans, start, end)
		opt.Past = IsPastTime(in.Date, start, in.Now, loc)
		opt.Available = !opt.Reserved && !opt.Past
		out = append(out, opt)
	}

	return out
}

// LocalizeBookings converts absolute bookings into local ranges on date. Bookings that do not
// touch the date are dropped; those spilling over midnight are clipped to 00:00 or 24:00.
func LocalizeBookings(bookings []AbsoluteBooking, date string, loc *time.Location) []ExistingBooking {
	if loc == nil {
		loc = time.UTC
	}

	dayStart, err := time.ParseInLocation(CalendarDate, date, loc)
	if err != nil {
		return []ExistingBooking{}
	}

	dayEnd := dayStart.AddDate(0, 0, 1)
	out := []ExistingBooking{}

	for _, b := range bookings {
		if !b.Status.Blocking() || !b.EndAt.After(dayStart) || !b.StartAt.Before(dayEnd) {
			continue
		}

		start := 0
		if b.StartAt.After(dayStart) {
			s := b.StartAt.In(loc)
			start = s.Hour()*MinutesPerHour + s.Minute()
		}

		end := MinutesPerDay
		if b.EndAt.Before(dayEnd) {
			e := b.EndAt.In(loc)
			end = e.Hour()*MinutesPerHour + e.Minute()
		}

		out = append(out, ExistingBooking{
			StartTime:   FormatMinutes(start),
			EndTime:     FormatMinutes(end),
			Status:      b.Status,
			UserID:      b.UserID,
			GuestsCount: b.GuestsCount,
		})
	}

	return out
}

// MergeBookings concatenates booking lists into a fresh slice.
func MergeBookings(lists ...[]ExistingBooking) []ExistingBooking {
	size := 0
	for _, l := range lists {
		size += len(l)
	}

	out := make([]ExistingBooking, 0, size)
	for _, l := range lists {
		out = append(out, l...)
	}

	return out
}
