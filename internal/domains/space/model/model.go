package model

import (
	"spacebook/shared/model"
	"time"

	"github.com/jmoiron/sqlx/types"
)

const (
	TableName  = "spaces"
	EntityName = "space"

	FieldID     = "id"
	FieldActive = "active"

	ExceptionTableName  = "space_availability_exceptions"
	ExceptionEntityName = "space_exception"

	FieldExceptionSpaceID = "space_id"
	FieldExceptionDate    = "exception_date"
)

const (
	ConfirmationInstant      = "instant"
	ConfirmationHostApproval = "host_approval"
)

// Space is a bookable workspace as configured by its host.
type Space struct {
	ID                 string         `db:"id"`
	HostID             string         `db:"host_id"`
	Name               string         `db:"name"`
	MaxCapacity        int            `db:"max_capacity"`
	PricePerHour       float64        `db:"price_per_hour"`
	PricePerDay        float64        `db:"price_per_day"`
	Timezone           string         `db:"timezone"`
	BufferMinutes      int            `db:"buffer_minutes"`
	SlotInterval       int            `db:"slot_interval"`
	ConfirmationType   string         `db:"confirmation_type"`
	CancellationPolicy string         `db:"cancellation_policy"`
	HouseRules         string         `db:"house_rules"`
	Schedule           types.JSONText `db:"schedule"`
	Active             bool           `db:"active"`
	model.Metadata
}

// Exception overrides the weekly schedule of a space on one date.
type Exception struct {
	ID        string         `db:"id"`
	SpaceID   string         `db:"space_id"`
	Date      time.Time      `db:"exception_date"`
	Enabled   bool           `db:"enabled"`
	Intervals types.JSONText `db:"intervals"`
	model.Metadata
}
