package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spacebook/config"
	"spacebook/infras/kafka"
	"spacebook/infras/otel"
	"spacebook/infras/payment"
	"spacebook/internal/domains/availability/engine"
	"spacebook/internal/domains/booking/model"
	"spacebook/internal/domains/booking/model/dto"
	"spacebook/internal/domains/booking/repository"
	spaceDto "spacebook/internal/domains/space/model/dto"
	spaceService "spacebook/internal/domains/space/service"
	"spacebook/shared"
	"spacebook/shared/constant"
	gDto "spacebook/shared/dto"
	"spacebook/shared/failure"
	"spacebook/shared/timezone"

	"github.com/rs/zerolog/log"
)

var (
	ErrPolicyNotAccepted = failure.BadRequestFromString("cancellation policy and house rules must be accepted")
	ErrSlotInPast        = failure.BadRequestFromString("the selected time has already started")
	ErrOutsideHours      = failure.BadRequestFromString("the selected time is outside the space's opening hours")
	ErrNotPayable        = failure.Conflict("booking is not awaiting payment")
	ErrPaymentMissing    = failure.BadRequestFromString("payment has not been initiated for this booking")
)

type Booking interface {
	Claim(ctx context.Context, req dto.ClaimRequest) (dto.ClaimResponse, error)
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetMine(ctx context.Context, params gDto.QueryParams) (dto.GetBookingsResponse, error)
	InitiatePayment(ctx context.Context, id string) (dto.PaymentResponse, error)
	SyncPayment(ctx context.Context, id string) (dto.PaymentResponse, error)
	ExpireHolds(ctx context.Context) (int, error)
}

type serviceImpl struct {
	repo     repository.Booking
	spaceSvc spaceService.Space
	payment  payment.Payment
	kafka    kafka.Client
	cfg      *config.Config
	otel     otel.Otel
}

func New(repo repository.Booking, spaceSvc spaceService.Space, payment payment.Payment, kafka kafka.Client, cfg *config.Config, otel otel.Otel) Booking {
	return &serviceImpl{
		repo:     repo,
		spaceSvc: spaceSvc,
		payment:  payment,
		kafka:    kafka,
		cfg:      cfg,
		otel:     otel,
	}
}

// hold returns the status a new claim starts in and how long it is held.
func (s *serviceImpl) hold(instant bool) (engine.Status, time.Duration) {
	if instant {
		return engine.StatusPendingPayment, time.Duration(s.cfg.Booking.HoldMinutes) * time.Minute
	}

	return engine.StatusPendingApproval, time.Duration(s.cfg.Booking.ApprovalHoldHours) * time.Hour
}

func (s *serviceImpl) publish(ctx context.Context, eventType string, bookings ...model.Booking) {
	if len(bookings) == 0 {
		return
	}

	now := time.Now().UTC()
	messages := make([]kafka.Message, len(bookings))

	for i, b := range bookings {
		messages[i] = kafka.Message{Key: b.SpaceID, Value: dto.NewEvent(eventType, b, now)}
	}

	if err := s.kafka.SendMessages(ctx, s.cfg.Kafka.Topics.Booking, messages...); err != nil {
		log.Error().Err(err).Str("event", eventType).Int("count", len(messages)).Msg("failed to publish booking events")
	}
}

// free reports whether [start, end) on date keeps the space's turnover buffer around every
// blocking booking.
func (s *serviceImpl) free(ctx context.Context, space spaceDto.SpaceResponse, date string, start, end int) (bool, error) {
	loc := space.Location()

	from, to, err := timezone.DayBounds(date, loc)
	if err != nil {
		return false, failure.InvalidDateParam
	}

	taken, err := s.repo.BlockingRanges(ctx, space.ID, from, to)
	if err != nil {
		log.Error().Err(err).Str("space", space.ID).Str("date", date).Msg("failed to read space bookings")

		return false, fmt.Errorf("failed to read space bookings: %w", err)
	}

	buffer := space.BufferMinutes
	if buffer <= 0 {
		buffer = s.cfg.Booking.DefaultBufferMinutes
	}

	in := engine.FilterInput{
		BufferMinutes: buffer,
		Bookings:      engine.LocalizeBookings(taken, date, loc),
		Date:          date,
		Location:      loc,
	}

	return in.Clear(start, end), nil
}

// Claim places a provisional hold on a time range. Lost races and capacity exhaustion are
// reported in the response rather than as errors.
func (s *serviceImpl) Claim(ctx context.Context, req dto.ClaimRequest) (res dto.ClaimResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Claim")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	space, err := s.spaceSvc.Get(ctx, req.SpaceID)
	if err != nil {
		return res, fmt.Errorf("failed to load space: %w", err)
	}

	if space.HasPolicies() && !req.PoliciesAccepted {
		return res, ErrPolicyNotAccepted
	}

	if req.GuestsCount > space.MaxCapacity {
		return res, failure.BadRequestFromString(fmt.Sprintf("this space holds at most %d guests", space.MaxCapacity)) // nolint:wrapcheck
	}

	interval := engine.Interval{Start: req.StartTime, End: req.EndTime}
	if err = interval.Validate(); err != nil {
		return res, failure.BadRequestFromString("end time must be after start time") // nolint:wrapcheck
	}

	startMinute, _ := engine.ToMinutes(req.StartTime)
	endMinute, _ := engine.ToMinutes(req.EndTime)
	loc := space.Location()
	now := time.Now()

	if engine.IsPastTime(req.Date, startMinute, now, loc) {
		return res, ErrSlotInPast
	}

	exceptions, err := s.spaceSvc.Exceptions(ctx, space.ID, req.Date)
	if err != nil {
		return res, fmt.Errorf("failed to load exceptions: %w", err)
	}

	if !engine.Within(engine.ResolveRaw(req.Date, space.Schedule, exceptions), startMinute, endMinute) {
		return res, ErrOutsideHours
	}

	ok, err := s.free(ctx, space, req.Date, startMinute, endMinute)
	if err != nil {
		return res, err
	}

	if !ok {
		return dto.Rejected(model.ErrorCodeConflict, "This time is too close to another booking. Please choose another time."), nil
	}

	startAt, err := timezone.At(req.Date, startMinute, loc)
	if err != nil {
		return res, failure.InvalidDateParam
	}

	endAt, _ := timezone.At(req.Date, endMinute, loc)
	hours, _ := engine.DurationHours(req.StartTime, req.EndTime)
	price := engine.TotalPrice(hours, space.PricePerHour, space.PricePerDay, req.GuestsCount)
	status, holdFor := s.hold(space.Instant())

	booking, err := req.ToModel(user, startAt.UTC(), endAt.UTC(), price, status, now.Add(holdFor).UTC(), now.UTC())
	if err != nil {
		log.Error().Err(err).Msg("failed to build booking")

		return res, failure.BadRequest(err) // nolint:wrapcheck
	}

	err = s.repo.Claim(ctx, booking, now.UTC())

	switch {
	case err == nil:
	case errors.Is(err, repository.ErrConflict):
		log.Info().Str("space", req.SpaceID).Str("date", req.Date).Str("start", req.StartTime).Msg("claim lost to an overlapping booking")

		return dto.Rejected(model.ErrorCodeConflict, "This time slot was just booked by someone else. Please choose another time."), nil
	case errors.Is(err, repository.ErrInsufficientCapacity):
		return dto.Rejected(model.ErrorCodeInsufficientCapacity, err.Error()), nil
	case errors.Is(err, repository.ErrSpaceNotFound):
		return res, failure.NotFound("space not found") // nolint:wrapcheck
	default:
		log.Error().Err(err).Str("space", req.SpaceID).Msg("failed to claim booking")

		return dto.Rejected(model.ErrorCodeInsertFailed, "the booking could not be saved, please try again"), nil
	}

	s.publish(ctx, model.EventClaimed, booking)

	return dto.ClaimResponse{
		Success:       true,
		BookingID:     booking.ID,
		ReservedUntil: booking.ReservedUntil.Time.Format(constant.DateFormat),
		Status:        booking.Status,
		TotalPrice:    booking.TotalPrice,
	}, nil
}

func (s *serviceImpl) owned(ctx context.Context, id string) (model.Booking, error) {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, failure.NotFound("booking not found") // nolint:wrapcheck
	}

	if booking.UserID != user {
		return booking, failure.Forbidden("booking belongs to another guest") // nolint:wrapcheck
	}

	return booking, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.owned(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(booking)

	return res, nil
}

// GetMine lists the bookings of the calling guest.
func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterAnd(gDto.Filter{Field: model.FieldUserID, Value: user, Operator: gDto.FilterOperatorEq, Table: model.TableName})

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return res, fmt.Errorf("failed to count bookings: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}

// InitiatePayment opens a checkout session for a booking held for payment.
func (s *serviceImpl) InitiatePayment(ctx context.Context, id string) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.InitiatePayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.owned(ctx, id)
	if err != nil {
		return res, err
	}

	if booking.Status != engine.StatusPendingPayment || !booking.ReservedUntil.Time.After(time.Now()) {
		return res, ErrNotPayable
	}

	space, err := s.spaceSvc.Get(ctx, booking.SpaceID)
	if err != nil {
		return res, fmt.Errorf("failed to load space: %w", err)
	}

	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	session, err := s.payment.CreateCheckoutSession(ctx, payment.CheckoutRequest{
		BookingID:     booking.ID,
		Description:   fmt.Sprintf("%s, %s %s-%s", space.Name, booking.BookingDate.Format(constant.CalendarDate), booking.StartTime, booking.EndTime),
		Amount:        booking.TotalPrice,
		CustomerEmail: email,
	})
	if err != nil {
		log.Error().Err(err).Str("booking", id).Msg("failed to create checkout session")

		return res, fmt.Errorf("failed to create checkout session: %w", err)
	}

	err = s.repo.Update(ctx, map[string]any{
		model.FieldPaymentSessionID: session.ID,
		model.FieldModifiedAt:       time.Now().UTC(),
	}, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("booking", id).Msg("failed to store checkout session")

		return res, fmt.Errorf("failed to store checkout session: %w", err)
	}

	return dto.PaymentResponse{BookingID: booking.ID, SessionID: session.ID, URL: session.URL, Status: booking.Status}, nil
}

// SyncPayment reads the checkout session back and confirms the booking once it is paid.
func (s *serviceImpl) SyncPayment(ctx context.Context, id string) (res dto.PaymentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.SyncPayment")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.owned(ctx, id)
	if err != nil {
		return res, err
	}

	if !booking.PaymentSessionID.Valid {
		return res, ErrPaymentMissing
	}

	res = dto.PaymentResponse{BookingID: booking.ID, SessionID: booking.PaymentSessionID.String, Status: booking.Status}

	if booking.Status == engine.StatusConfirmed {
		res.Paid = true

		return res, nil
	}

	session, err := s.payment.GetSession(ctx, booking.PaymentSessionID.String)
	if err != nil {
		log.Error().Err(err).Str("booking", id).Msg("failed to read checkout session")

		return res, fmt.Errorf("failed to read checkout session: %w", err)
	}

	res.URL = session.URL

	if !session.Paid || booking.Status != engine.StatusPendingPayment {
		return res, nil
	}

	err = s.repo.Update(ctx, map[string]any{
		model.FieldStatus:        engine.StatusConfirmed,
		model.FieldReservedUntil: nil,
		model.FieldModifiedAt:    time.Now().UTC(),
		model.FieldModifiedBy:    booking.UserID,
	}, shared.FilterAnd(
		gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		gDto.Filter{Field: model.FieldStatus, Value: engine.StatusPendingPayment, Operator: gDto.FilterOperatorEq, Table: model.TableName},
	))
	if err != nil {
		log.Error().Err(err).Str("booking", id).Msg("failed to confirm booking")

		return res, fmt.Errorf("failed to confirm booking: %w", err)
	}

	booking.Status = engine.StatusConfirmed
	s.publish(ctx, model.EventConfirmed, booking)

	res.Paid = true
	res.Status = booking.Status

	return res, nil
}

// ExpireHolds releases every lapsed hold and reports how many were released.
func (s *serviceImpl) ExpireHolds(ctx context.Context) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.ExpireHolds")
	defer scope.End()
	defer scope.TraceIfError(err)

	expired, err := s.repo.ExpireHolds(ctx, time.Now().UTC())
	if err != nil {
		log.Error().Err(err).Msg("failed to expire holds")

		return 0, fmt.Errorf("failed to expire holds: %w", err)
	}

	s.publish(ctx, model.EventExpired, expired...)

	return len(expired), nil
}
