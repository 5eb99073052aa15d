package dto

import (
	"database/sql"
	"encoding/json"
	"time"

	"spacebook/internal/domains/availability/engine"
	"spacebook/internal/domains/booking/model"
	"spacebook/shared"
	"spacebook/shared/constant"
	gDto "spacebook/shared/dto"
	gModel "spacebook/shared/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
)

// FiscalData is what a guest provides when asking for an invoice.
type FiscalData struct {
	LegalName  string `json:"legal_name"  validate:"required,max=200"`
	TaxID      string `json:"tax_id"      validate:"required,taxid"`
	Address    string `json:"address"     validate:"required,max=300"`
	PostalCode string `json:"postal_code" validate:"required,max=12"`
	City       string `json:"city"        validate:"required,max=100"`
	Country    string `json:"country"     validate:"required,iso3166_1_alpha2"`
}

type ClaimRequest struct {
	SpaceID          string      `json:"space_id"          validate:"required"`
	Date             string      `json:"date"              validate:"required,datetime=2006-01-02"`
	StartTime        string      `json:"start_time"        validate:"required,timeofday"`
	EndTime          string      `json:"end_time"          validate:"required,timeofday"`
	GuestsCount      int         `json:"guests_count"      validate:"required,min=1"`
	PoliciesAccepted bool        `json:"policies_accepted"`
	Invoice          *FiscalData `json:"invoice,omitempty" validate:"omitempty"`
}

// ToModel builds the booking row. start and end are the absolute instants of the local range.
func (c *ClaimRequest) ToModel(user string, start, end time.Time, price float64, status engine.Status, reservedUntil, now time.Time) (model.Booking, error) {
	date, err := time.Parse(constant.CalendarDate, c.Date)
	if err != nil {
		return model.Booking{}, err
	}

	booking := model.Booking{
		ID:            uuid.NewString(),
		SpaceID:       c.SpaceID,
		UserID:        user,
		BookingDate:   date,
		StartTime:     c.StartTime,
		EndTime:       c.EndTime,
		StartAt:       start,
		EndAt:         end,
		GuestsCount:   c.GuestsCount,
		TotalPrice:    price,
		Status:        status,
		ReservedUntil: sql.NullTime{Time: reservedUntil, Valid: true},
		Metadata: gModel.Metadata{
			CreatedAt:  now,
			ModifiedAt: now,
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}

	if c.Invoice != nil {
		raw, err := json.Marshal(c.Invoice)
		if err != nil {
			return model.Booking{}, err
		}

		booking.FiscalData = types.NullJSONText{JSONText: raw, Valid: true}
	}

	return booking, nil
}

// ClaimResponse is the structured outcome of a claim. Rejections carry an error code instead of
// failing the request outright.
type ClaimResponse struct {
	Success       bool          `json:"success"`
	BookingID     string        `json:"booking_id,omitempty"`
	ReservedUntil string        `json:"reserved_until,omitempty"`
	Status        engine.Status `json:"status,omitempty"`
	TotalPrice    float64       `json:"total_price,omitempty"`
	ErrorCode     string        `json:"error_code,omitempty"`
	Error         string        `json:"error,omitempty"`
}

func Rejected(code, message string) ClaimResponse {
	return ClaimResponse{Success: false, ErrorCode: code, Error: message}
}

type BookingResponse struct {
	ID            string        `json:"id"`
	SpaceID       string        `json:"space_id"`
	UserID        string        `json:"user_id"`
	Date          string        `json:"date"`
	StartTime     string        `json:"start_time"`
	EndTime       string        `json:"end_time"`
	GuestsCount   int           `json:"guests_count"`
	TotalPrice    float64       `json:"total_price"`
	Status        engine.Status `json:"status"`
	ReservedUntil string        `json:"reserved_until,omitempty"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(m model.Booking) {
	r.ID = m.ID
	r.SpaceID = m.SpaceID
	r.UserID = m.UserID
	r.Date = m.BookingDate.Format(constant.CalendarDate)
	r.StartTime = m.StartTime
	r.EndTime = m.EndTime
	r.GuestsCount = m.GuestsCount
	r.TotalPrice = m.TotalPrice
	r.Status = m.Status

	if m.ReservedUntil.Valid {
		r.ReservedUntil = m.ReservedUntil.Time.UTC().Format(constant.DateFormat)
	}

	r.Metadata.FromModel(m.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}

type PaymentResponse struct {
	BookingID string        `json:"booking_id"`
	SessionID string        `json:"session_id"`
	URL       string        `json:"url,omitempty"`
	Paid      bool          `json:"paid"`
	Status    engine.Status `json:"status"`
}

// NewEvent snapshots a booking for publication.
func NewEvent(eventType string, m model.Booking, at time.Time) model.Event {
	return model.Event{
		Type:       eventType,
		BookingID:  m.ID,
		SpaceID:    m.SpaceID,
		UserID:     m.UserID,
		Status:     m.Status,
		Date:       m.BookingDate.Format(constant.CalendarDate),
		StartTime:  m.StartTime,
		EndTime:    m.EndTime,
		OccurredAt: at,
	}
}
