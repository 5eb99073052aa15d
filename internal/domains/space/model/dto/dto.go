package dto

import (
	"encoding/json"
	"spacebook/internal/domains/availability/engine"
	"spacebook/internal/domains/space/model"
	"spacebook/shared/constant"
	"spacebook/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

// SpaceResponse is the booking-relevant view of a space. It is what gets cached.
type SpaceResponse struct {
	ID                 string          `json:"id"`
	HostID             string          `json:"host_id"`
	Name               string          `json:"name"`
	MaxCapacity        int             `json:"max_capacity"`
	PricePerHour       float64         `json:"price_per_hour"`
	PricePerDay        float64         `json:"price_per_day"`
	Timezone           string          `json:"timezone"`
	BufferMinutes      int             `json:"buffer_minutes"`
	SlotInterval       int             `json:"slot_interval"`
	ConfirmationType   string          `json:"confirmation_type"`
	CancellationPolicy string          `json:"cancellation_policy,omitempty"`
	HouseRules         string          `json:"house_rules,omitempty"`
	Schedule           json.RawMessage `json:"schedule,omitempty"`
}

func (r *SpaceResponse) FromModel(m model.Space) {
	r.ID = m.ID
	r.HostID = m.HostID
	r.Name = m.Name
	r.MaxCapacity = m.MaxCapacity
	r.PricePerHour = m.PricePerHour
	r.PricePerDay = m.PricePerDay
	r.Timezone = m.Timezone
	r.BufferMinutes = m.BufferMinutes
	r.SlotInterval = m.SlotInterval
	r.ConfirmationType = m.ConfirmationType
	r.CancellationPolicy = m.CancellationPolicy
	r.HouseRules = m.HouseRules

	if len(m.Schedule) > 0 {
		r.Schedule = json.RawMessage(m.Schedule)
	}
}

// HasPolicies reports whether a guest must accept policies before booking.
func (r *SpaceResponse) HasPolicies() bool {
	return r.CancellationPolicy != constant.Empty || r.HouseRules != constant.Empty
}

func (r *SpaceResponse) Location() *time.Location {
	return timezone.Location(r.Timezone)
}

func (r *SpaceResponse) Instant() bool {
	return r.ConfirmationType != model.ConfirmationHostApproval
}

// ToEngineExceptions converts stored exceptions. Rows with unreadable intervals keep their date
// and flag with an interval the resolver rejects, so the date falls back to the default window.
func ToEngineExceptions(models []model.Exception) []engine.Exception {
	out := make([]engine.Exception, 0, len(models))

	for _, m := range models {
		ex := engine.Exception{
			Date:    m.Date.Format(constant.CalendarDate),
			Enabled: m.Enabled,
		}

		if len(m.Intervals) > 0 {
			if err := json.Unmarshal(m.Intervals, &ex.Intervals); err != nil {
				log.Warn().Err(err).Str("exception", m.ID).Msg("Unparseable exception intervals")

				ex.Intervals = []engine.Interval{{}}
			}
		}

		out = append(out, ex)
	}

	return out
}
