package model

import (
	"database/sql"
	"spacebook/internal/domains/availability/engine"
	"spacebook/shared/model"
	"time"

	"github.com/jmoiron/sqlx/types"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID               = "id"
	FieldSpaceID          = "space_id"
	FieldUserID           = "user_id"
	FieldStatus           = "status"
	FieldStartAt          = "start_at"
	FieldEndAt            = "end_at"
	FieldReservedUntil    = "reserved_until"
	FieldPaymentSessionID = "payment_session_id"
	FieldModifiedAt       = "modified_at"
	FieldModifiedBy       = "modified_by"
)

// Error codes reported to clients when a claim is rejected.
const (
	ErrorCodeConflict             = "CONFLICT"
	ErrorCodeInsufficientCapacity = "INSUFFICIENT_CAPACITY"
	ErrorCodeInsertFailed         = "INSERT_FAILED"
)

// Booking is a claim on a space for a local date and time range. StartAt and EndAt hold the same
// range as absolute instants; the exclusion constraint is defined over them.
type Booking struct {
	ID               string             `db:"id"`
	SpaceID          string             `db:"space_id"`
	UserID           string             `db:"user_id"`
	BookingDate      time.Time          `db:"booking_date"`
	StartTime        string             `db:"start_time"`
	EndTime          string             `db:"end_time"`
	StartAt          time.Time          `db:"start_at"`
	EndAt            time.Time          `db:"end_at"`
	GuestsCount      int                `db:"guests_count"`
	TotalPrice       float64            `db:"total_price"`
	Status           engine.Status      `db:"status"`
	ReservedUntil    sql.NullTime       `db:"reserved_until"`
	PaymentSessionID sql.NullString     `db:"payment_session_id"`
	FiscalData       types.NullJSONText `db:"fiscal_data"`
	model.Metadata
}

// Event types published on the booking topic.
const (
	EventClaimed   = "booking.claimed"
	EventConfirmed = "booking.confirmed"
	EventExpired   = "booking.expired"
)

// Event is the payload published for every booking state change.
type Event struct {
	Type       string        `json:"type"`
	BookingID  string        `json:"booking_id"`
	SpaceID    string        `json:"space_id"`
	UserID     string        `json:"user_id"`
	Status     engine.Status `json:"status"`
	Date       string        `json:"date"`
	StartTime  string        `json:"start_time"`
	EndTime    string        `json:"end_time"`
	OccurredAt time.Time     `json:"occurred_at"`
}
