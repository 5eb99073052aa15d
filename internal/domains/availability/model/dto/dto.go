package dto

import "spacebook/internal/domains/availability/engine"

type SlotsResponse struct {
	SpaceID     string            `json:"space_id"`
	Date        string            `json:"date"`
	Timezone    string            `json:"timezone"`
	Enabled     bool              `json:"enabled"`
	Granularity int               `json:"granularity"`
	Slots       []engine.TimeSlot `json:"slots"`
}

type DurationsResponse struct {
	SpaceID  string                  `json:"space_id"`
	Date     string                  `json:"date"`
	Timezone string                  `json:"timezone"`
	Enabled  bool                    `json:"enabled"`
	Options  []engine.DurationOption `json:"options"`
}

type CapacityRequest struct {
	Date      string `json:"date"       validate:"required,datetime=2006-01-02"`
	StartTime string `json:"start_time" validate:"required,timeofday"`
	EndTime   string `json:"end_time"   validate:"required,timeofday"`
}

type CapacityResponse struct {
	AvailableSpots int `json:"available_spots"`
	MaxCapacity    int `json:"max_capacity"`
}

type QuoteRequest struct {
	StartTime   string `json:"start_time"   validate:"required,timeofday"`
	EndTime     string `json:"end_time"     validate:"required,timeofday"`
	GuestsCount int    `json:"guests_count" validate:"omitempty,min=1"`
}

type QuoteResponse struct {
	DurationHours float64 `json:"duration_hours"`
	PricePerHour  float64 `json:"price_per_hour"`
	PricePerDay   float64 `json:"price_per_day"`
	FullDay       bool    `json:"full_day"`
	TotalPrice    float64 `json:"total_price"`
}
