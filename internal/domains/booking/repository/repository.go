package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spacebook/infras/otel"
	"spacebook/infras/postgres"
	"spacebook/internal/domains/availability/engine"
	"spacebook/internal/domains/booking/model"
	spaceModel "spacebook/internal/domains/space/model"
	"spacebook/shared"
	"spacebook/shared/constant"
	gDto "spacebook/shared/dto"
	gRepo "spacebook/shared/repository"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrConflict             = errors.New("time range already claimed")
	ErrInsufficientCapacity = errors.New("not enough spots left for this time range")
	ErrSpaceNotFound        = errors.New("space not found")
)

const (
	rangeColumns = "start_at, end_at, status, user_id, guests_count"

	querySelectRanges = "SELECT " + rangeColumns + " FROM " + model.TableName + "%s ORDER BY " + model.FieldStartAt
	queryOccupancy    = "SELECT COALESCE(SUM(guests_count), 0) FROM " + model.TableName + "%s"
	queryExpire       = "UPDATE " + model.TableName +
		" SET status = :expired, reserved_until = NULL, modified_at = :now%s RETURNING %s"
)

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	BlockingRanges(ctx context.Context, spaceID string, from, to time.Time) ([]engine.AbsoluteBooking, error)
	UserBlocking(ctx context.Context, userID string, from, to time.Time) ([]engine.AbsoluteBooking, error)
	Claim(ctx context.Context, booking model.Booking, now time.Time) error
	ExpireHolds(ctx context.Context, now time.Time) ([]model.Booking, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	spaces gRepo.Repository[spaceModel.Space]
	db     *postgres.Connection
	otel   otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		spaces:     gRepo.NewRepository[spaceModel.Space](spaceModel.EntityName, spaceModel.TableName, spaceModel.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// blocking matches bookings in a blocking status, owned by value in field, overlapping [from, to).
func blocking(field, value string, from, to time.Time) gDto.FilterGroup {
	filters := []gDto.Filter{
		{Field: field, Value: value, Operator: gDto.FilterOperatorEq},
		{ArgName: "statuses", Field: model.FieldStatus, Value: engine.BlockingStatuses, Operator: gDto.FilterOperatorAny},
	}

	return shared.FilterAnd(append(filters, gDto.FilterOverlaps(model.FieldStartAt, model.FieldEndAt, "", from, to)...)...)
}

// lapsed matches holds whose reservation window closed at or before now, optionally in one space.
func lapsed(now time.Time, spaceID string) gDto.FilterGroup {
	filters := []gDto.Filter{
		{ArgName: "holds", Field: model.FieldStatus, Value: []engine.Status{engine.StatusPendingPayment, engine.StatusPendingApproval}, Operator: gDto.FilterOperatorAny},
		{Field: model.FieldReservedUntil, Operator: gDto.FilterIsNotNull},
		{ArgName: "now", Field: model.FieldReservedUntil, Value: now, Operator: gDto.FilterOperatorLessEq},
	}

	if spaceID != constant.Empty {
		filters = append(filters, gDto.Filter{Field: model.FieldSpaceID, Value: spaceID, Operator: gDto.FilterOperatorEq})
	}

	return shared.FilterAnd(filters...)
}

func (r *repositoryImpl) selectRanges(ctx context.Context, db sqlx.QueryerContext, span string, filter gDto.FilterGroup) (res []engine.AbsoluteBooking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking."+span)
	defer scope.End()
	defer scope.TraceIfError(err)

	where, args := r.BuildWhereClause(filter)
	query := fmt.Sprintf(querySelectRanges, where)

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	bound, params, err := sqlx.Named(query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to bind %s query: %w", span, err)
	}

	res = []engine.AbsoluteBooking{}
	if err = sqlx.SelectContext(ctx, db, &res, sqlx.Rebind(sqlx.DOLLAR, bound), params...); err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", span, err)
	}

	return res, nil
}

// BlockingRanges returns the blocking bookings of a space that intersect [from, to).
func (r *repositoryImpl) BlockingRanges(ctx context.Context, spaceID string, from, to time.Time) ([]engine.AbsoluteBooking, error) {
	return r.selectRanges(ctx, r.db.Read, "BlockingRanges", blocking(model.FieldSpaceID, spaceID, from, to))
}

// UserBlocking returns the guest's own blocking bookings in any space that intersect [from, to).
func (r *repositoryImpl) UserBlocking(ctx context.Context, userID string, from, to time.Time) ([]engine.AbsoluteBooking, error) {
	return r.selectRanges(ctx, r.db.Read, "UserBlocking", blocking(model.FieldUserID, userID, from, to))
}

// occupancy sums the guests of blocking bookings overlapping [from, to).
func (r *repositoryImpl) occupancy(ctx context.Context, db sqlx.QueryerContext, spaceID string, from, to time.Time) (int, error) {
	where, args := r.BuildWhereClause(blocking(model.FieldSpaceID, spaceID, from, to))

	bound, params, err := sqlx.Named(fmt.Sprintf(queryOccupancy, where), args)
	if err != nil {
		return 0, fmt.Errorf("failed to bind occupancy query: %w", err)
	}

	var guests int
	if err = sqlx.GetContext(ctx, db, &guests, sqlx.Rebind(sqlx.DOLLAR, bound), params...); err != nil {
		return 0, fmt.Errorf("failed to read occupancy: %w", err)
	}

	return guests, nil
}

func (r *repositoryImpl) expire(ctx context.Context, db sqlx.ExtContext, now time.Time, spaceID string) ([]model.Booking, error) {
	where, args := r.BuildWhereClause(lapsed(now, spaceID))
	args["expired"] = engine.StatusExpired

	query := fmt.Sprintf(queryExpire, where, r.SelectColumns())

	bound, params, err := sqlx.Named(query, args)
	if err != nil {
		return nil, fmt.Errorf("failed to bind expire query: %w", err)
	}

	expired := []model.Booking{}
	if err = sqlx.SelectContext(ctx, db, &expired, sqlx.Rebind(sqlx.DOLLAR, bound), params...); err != nil {
		return nil, fmt.Errorf("failed to expire holds: %w", err)
	}

	return expired, nil
}

// ExpireHolds moves every lapsed pending hold to expired and returns the rows it changed.
func (r *repositoryImpl) ExpireHolds(ctx context.Context, now time.Time) (res []model.Booking, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.ExpireHolds")
	defer scope.End()
	defer scope.TraceIfError(err)

	return r.expire(ctx, r.db.Write, now, constant.Empty)
}

// Claim inserts booking if its range is still free and the space has room for its guests. The space row is locked for
// the duration of the transaction so concurrent claims on one space are serialized; overlapping
// ranges are rejected by the exclusion constraint on the bookings table.
func (r *repositoryImpl) Claim(ctx context.Context, booking model.Booking, now time.Time) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.Claim")
	defer scope.End()
	defer scope.TraceIfError(err)

	scope.SetAttribute("space_id", booking.SpaceID)
	scope.SetAttribute("start_at", booking.StartAt)

	err = r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		space, err := r.spaces.GetForUpdateTx(ctx, tx, shared.FilterByID(booking.SpaceID, spaceModel.FieldID, spaceModel.TableName),
			spaceModel.FieldID, "max_capacity")
		if err != nil {
			return err
		}

		if space.ID == constant.Empty {
			return ErrSpaceNotFound
		}

		if _, err = r.expire(ctx, tx, now, booking.SpaceID); err != nil {
			return err
		}

		guests, err := r.occupancy(ctx, tx, booking.SpaceID, booking.StartAt, booking.EndAt)
		if err != nil {
			return err
		}

		if err = admit(guests, booking.GuestsCount, space.MaxCapacity); err != nil {
			return err
		}

		return r.InsertTx(ctx, tx, booking)
	})

	return mapClaimError(err)
}

// admit decides a claim against the guests already holding an overlapping range. Blocking ranges
// are mutually exclusive, so any overlap at all means the range was taken first.
func admit(occupied, requested, maxCapacity int) error {
	switch {
	case occupied > 0:
		return ErrConflict
	case requested > maxCapacity:
		return ErrInsufficientCapacity
	default:
		return nil
	}
}

func mapClaimError(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case constant.PqErrorCodeExclusionViolation, constant.PqErrorCodeUniqueViolation:
			return ErrConflict
		}
	}

	return err
}
