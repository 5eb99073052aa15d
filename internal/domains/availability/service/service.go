package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"spacebook/config"
	"spacebook/infras/otel"
	"spacebook/internal/domains/availability/engine"
	"spacebook/internal/domains/availability/model/dto"
	bookingRepo "spacebook/internal/domains/booking/repository"
	spaceDto "spacebook/internal/domains/space/model/dto"
	spaceService "spacebook/internal/domains/space/service"
	"spacebook/shared/constant"
	"spacebook/shared/failure"
	"spacebook/shared/timezone"

	"github.com/rs/zerolog/log"
)

// Availability answers what a guest may book. Space configuration comes through the cached space
// service; bookings are always read fresh.
type Availability interface {
	Slots(ctx context.Context, spaceID, date string, granularity int) (dto.SlotsResponse, error)
	Durations(ctx context.Context, spaceID, date string) (dto.DurationsResponse, error)
	Capacity(ctx context.Context, spaceID string, req dto.CapacityRequest) (dto.CapacityResponse, error)
	Quote(ctx context.Context, spaceID string, req dto.QuoteRequest) (dto.QuoteResponse, error)
}

type serviceImpl struct {
	spaceSvc    spaceService.Space
	bookingRepo bookingRepo.Booking
	cfg         *config.Config
	otel        otel.Otel
}

func New(spaceSvc spaceService.Space, bookingRepo bookingRepo.Booking, cfg *config.Config, otel otel.Otel) Availability {
	return &serviceImpl{
		spaceSvc:    spaceSvc,
		bookingRepo: bookingRepo,
		cfg:         cfg,
		otel:        otel,
	}
}

// day resolves the open intervals of a space on date.
func (s *serviceImpl) day(ctx context.Context, space spaceDto.SpaceResponse, date string) (engine.Availability, error) {
	if _, err := time.Parse(constant.CalendarDate, date); err != nil {
		return engine.Availability{}, failure.InvalidDateParam
	}

	exceptions, err := s.spaceSvc.Exceptions(ctx, space.ID, date)
	if err != nil {
		return engine.Availability{}, fmt.Errorf("failed to load exceptions: %w", err)
	}

	return engine.ResolveRaw(date, space.Schedule, exceptions), nil
}

// blocking collects what stands in the guest's way on date: the space's own bookings plus the
// guest's bookings anywhere else, both in the space's local time.
func (s *serviceImpl) blocking(ctx context.Context, space spaceDto.SpaceResponse, date string, withOwn bool) ([]engine.ExistingBooking, error) {
	loc := space.Location()

	from, to, err := timezone.DayBounds(date, loc)
	if err != nil {
		return nil, failure.InvalidDateParam
	}

	taken, err := s.bookingRepo.BlockingRanges(ctx, space.ID, from, to)
	if err != nil {
		log.Error().Err(err).Str("space", space.ID).Str("date", date).Msg("failed to read space bookings")

		return nil, fmt.Errorf("failed to read space bookings: %w", err)
	}

	bookings := engine.LocalizeBookings(taken, date, loc)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if !withOwn || user == constant.Empty {
		return bookings, nil
	}

	own, err := s.bookingRepo.UserBlocking(ctx, user, from, to)
	if err != nil {
		log.Error().Err(err).Str("user", user).Str("date", date).Msg("failed to read guest bookings")

		return nil, fmt.Errorf("failed to read guest bookings: %w", err)
	}

	return engine.MergeBookings(bookings, engine.LocalizeBookings(own, date, loc)), nil
}

func (s *serviceImpl) granularity(requested int, space spaceDto.SpaceResponse) int {
	switch {
	case requested > 0:
		return requested
	case space.SlotInterval > 0:
		return space.SlotInterval
	case s.cfg.Booking.DefaultSlotInterval > 0:
		return s.cfg.Booking.DefaultSlotInterval
	default:
		return engine.DefaultGranularity
	}
}

func (s *serviceImpl) filterInput(space spaceDto.SpaceResponse, date string, bookings []engine.ExistingBooking) engine.FilterInput {
	buffer := space.BufferMinutes
	if buffer <= 0 {
		buffer = s.cfg.Booking.DefaultBufferMinutes
	}

	return engine.FilterInput{
		BufferMinutes: buffer,
		Bookings:      bookings,
		Date:          date,
		Now:           time.Now(),
		Location:      space.Location(),
	}
}

// Slots lists the fixed-length start times of date with their availability flags.
func (s *serviceImpl) Slots(ctx context.Context, spaceID, date string, granularity int) (res dto.SlotsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Slots")
	defer scope.End()
	defer scope.TraceIfError(err)

	space, err := s.spaceSvc.Get(ctx, spaceID)
	if err != nil {
		return res, fmt.Errorf("failed to load space: %w", err)
	}

	avail, err := s.day(ctx, space, date)
	if err != nil {
		return res, err
	}

	res = dto.SlotsResponse{
		SpaceID:     spaceID,
		Date:        date,
		Timezone:    space.Location().String(),
		Enabled:     avail.Enabled,
		Granularity: s.granularity(granularity, space),
		Slots:       []engine.TimeSlot{},
	}

	if !avail.Enabled {
		return res, nil
	}

	bookings, err := s.blocking(ctx, space, date, true)
	if err != nil {
		return res, err
	}

	res.Slots = engine.FilterSlots(engine.GenerateSlots(avail.Intervals, res.Granularity), s.filterInput(space, date, bookings))

	return res, nil
}

// Durations lists start times paired with whole-hour durations and their prices.
func (s *serviceImpl) Durations(ctx context.Context, spaceID, date string) (res dto.DurationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Durations")
	defer scope.End()
	defer scope.TraceIfError(err)

	space, err := s.spaceSvc.Get(ctx, spaceID)
	if err != nil {
		return res, fmt.Errorf("failed to load space: %w", err)
	}

	avail, err := s.day(ctx, space, date)
	if err != nil {
		return res, err
	}

	res = dto.DurationsResponse{
		SpaceID:  spaceID,
		Date:     date,
		Timezone: space.Location().String(),
		Enabled:  avail.Enabled,
		Options:  []engine.DurationOption{},
	}

	if !avail.Enabled {
		return res, nil
	}

	bookings, err := s.blocking(ctx, space, date, true)
	if err != nil {
		return res, err
	}

	options := engine.GenerateDurations(avail.Intervals, s.granularity(0, space), space.PricePerDay)
	res.Options = engine.FilterDurations(options, s.filterInput(space, date, bookings))

	return res, nil
}

// Capacity reports how many more guests fit in the exact range. The guest's bookings in other
// spaces do not count against this space.
func (s *serviceImpl) Capacity(ctx context.Context, spaceID string, req dto.CapacityRequest) (res dto.CapacityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Capacity")
	defer scope.End()
	defer scope.TraceIfError(err)

	space, err := s.spaceSvc.Get(ctx, spaceID)
	if err != nil {
		return res, fmt.Errorf("failed to load space: %w", err)
	}

	if err = (engine.Interval{Start: req.StartTime, End: req.EndTime}).Validate(); err != nil {
		return res, failure.InvalidTimeParam
	}

	bookings, err := s.blocking(ctx, space, req.Date, false)
	if err != nil {
		return res, err
	}

	spots, err := engine.AvailableSpots(space.MaxCapacity, bookings, req.StartTime, req.EndTime)
	if err != nil {
		return res, failure.InvalidTimeParam
	}

	return dto.CapacityResponse{AvailableSpots: spots, MaxCapacity: space.MaxCapacity}, nil
}

// Quote prices a range. Guest count is validated against capacity but never changes the price.
func (s *serviceImpl) Quote(ctx context.Context, spaceID string, req dto.QuoteRequest) (res dto.QuoteResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Quote")
	defer scope.End()
	defer scope.TraceIfError(err)

	space, err := s.spaceSvc.Get(ctx, spaceID)
	if err != nil {
		return res, fmt.Errorf("failed to load space: %w", err)
	}

	if err = (engine.Interval{Start: req.StartTime, End: req.EndTime}).Validate(); err != nil {
		return res, failure.InvalidTimeParam
	}

	if req.GuestsCount > space.MaxCapacity {
		return res, failure.BadRequestFromString(fmt.Sprintf("this space holds at most %d guests", space.MaxCapacity)) // nolint:wrapcheck
	}

	hours, _ := engine.DurationHours(req.StartTime, req.EndTime)

	return dto.QuoteResponse{
		DurationHours: hours,
		PricePerHour:  space.PricePerHour,
		PricePerDay:   space.PricePerDay,
		FullDay:       hours >= engine.FullDayHours,
		TotalPrice:    engine.TotalPrice(hours, space.PricePerHour, space.PricePerDay, req.GuestsCount),
	}, nil
}
