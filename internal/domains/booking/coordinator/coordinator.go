package coordinator

//go:generate go run go.uber.org/mock/mockgen -source=./coordinator.go -destination=./mocks/coordinator_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"spacebook/internal/domains/availability/engine"
	availDto "spacebook/internal/domains/availability/model/dto"
	"spacebook/internal/domains/booking/model"
	bookingDto "spacebook/internal/domains/booking/model/dto"
	spaceDto "spacebook/internal/domains/space/model/dto"
	"spacebook/shared/constant"
	"spacebook/shared/validator"

	"github.com/rs/zerolog/log"
)

// Collaborators are the reads and writes one booking attempt needs.
type Collaborators interface {
	Slots(ctx context.Context, spaceID, date string, granularity int) (availDto.SlotsResponse, error)
	Capacity(ctx context.Context, spaceID string, req availDto.CapacityRequest) (availDto.CapacityResponse, error)
	Claim(ctx context.Context, req bookingDto.ClaimRequest) (bookingDto.ClaimResponse, error)
	InitiatePayment(ctx context.Context, id string) (bookingDto.PaymentResponse, error)
}

// Range is a selected [Start, End) window in the space's local time.
type Range struct {
	Start string
	End   string
}

// Outcome describes where Confirm left the attempt.
type Outcome struct {
	State           State
	BookingID       string
	ReservedUntil   string
	PaymentURL      string
	AwaitingPayment bool
	Attempts        int
}

type Option func(*Coordinator)

// WithAutoRetry lets Confirm re-submit up to n times after a lost race, and only when the
// refreshed slot list still shows the whole range free.
func WithAutoRetry(n int) Option {
	return func(c *Coordinator) {
		c.autoRetry = max(n, 0)
	}
}

// WithConnectivity installs the check run before any write is attempted.
func WithConnectivity(online func(ctx context.Context) bool) Option {
	return func(c *Coordinator) {
		c.online = online
	}
}

// Coordinator drives a single guest's attempt to book one space. It is safe for concurrent use,
// but two attempts never share a Coordinator.
type Coordinator struct {
	mu sync.Mutex

	space        spaceDto.SpaceResponse
	confirmation ConfirmationType
	deps         Collaborators
	online       func(ctx context.Context) bool
	autoRetry    int

	state            State
	date             string
	slots            []engine.TimeSlot
	selected         *Range
	spots            int
	guests           int
	policiesAccepted bool
	invoice          *bookingDto.FiscalData

	seq    uint64
	cancel context.CancelFunc
}

func New(space spaceDto.SpaceResponse, deps Collaborators, opts ...Option) *Coordinator {
	c := &Coordinator{
		space:        space,
		confirmation: ParseConfirmationType(space.ConfirmationType),
		deps:         deps,
		state:        Idle,
		spots:        -1,
		guests:       1,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// invalidate cancels any fetch in flight and makes its result stale. Callers hold mu.
func (c *Coordinator) invalidate() {
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	c.seq++
}

// supersede invalidates any fetch in flight and returns the context and sequence number of the
// next one. Callers hold mu.
func (c *Coordinator) supersede(ctx context.Context) (context.Context, uint64) {
	c.invalidate()

	fetchCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel

	return fetchCtx, c.seq
}

// SelectDate picks the date and loads its slots. A newer SelectDate or SelectRange supersedes it,
// in which case ErrStaleSelection is returned and the result is dropped.
func (c *Coordinator) SelectDate(ctx context.Context, date string) ([]engine.TimeSlot, error) {
	c.mu.Lock()

	if !canTransition(c.state, DateSelected) {
		defer c.mu.Unlock()

		return nil, invalidTransition(c.state, DateSelected)
	}

	if _, err := time.Parse(constant.CalendarDate, date); err != nil {
		c.mu.Unlock()

		return nil, &ValidationError{Field: "date", Message: "must be formatted as YYYY-MM-DD"}
	}

	fetchCtx, seq := c.supersede(ctx)
	c.state = DateSelected
	c.date = date
	c.slots = nil
	c.selected = nil
	c.spots = -1
	c.mu.Unlock()

	res, err := c.deps.Slots(fetchCtx, c.space.ID, date, 0)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		return nil, ErrStaleSelection
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load slots: %w", err)
	}

	c.slots = res.Slots

	return slices.Clone(c.slots), nil
}

// SelectRange picks a window made of available slots and reads how many guests still fit.
func (c *Coordinator) SelectRange(ctx context.Context, start, end string) (int, error) {
	c.mu.Lock()

	if !canTransition(c.state, TimeSelected) {
		defer c.mu.Unlock()

		return 0, invalidTransition(c.state, TimeSelected)
	}

	rng := Range{Start: start, End: end}
	if err := (engine.Interval{Start: start, End: end}).Validate(); err != nil {
		c.mu.Unlock()

		return 0, &ValidationError{Field: "range", Message: "end time must be after start time"}
	}

	if !rangeAvailable(c.slots, rng) {
		c.mu.Unlock()

		return 0, &ValidationError{Field: "range", Message: "the selected time is not available"}
	}

	fetchCtx, seq := c.supersede(ctx)
	c.state = TimeSelected
	c.selected = &rng
	c.spots = -1
	date := c.date
	c.mu.Unlock()

	res, err := c.deps.Capacity(fetchCtx, c.space.ID, availDto.CapacityRequest{Date: date, StartTime: start, EndTime: end})

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		return 0, ErrStaleSelection
	}

	if err != nil {
		return 0, fmt.Errorf("failed to load capacity: %w", err)
	}

	c.spots = res.AvailableSpots

	return c.spots, nil
}

func (c *Coordinator) SetGuests(n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkGuests(n); err != nil {
		return err
	}

	c.guests = n

	return nil
}

func (c *Coordinator) AcceptPolicies(accepted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.policiesAccepted = accepted
}

// RequestInvoice asks for an invoice with the given fiscal data. nil withdraws the request.
func (c *Coordinator) RequestInvoice(data *bookingDto.FiscalData) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.invoice = data
}

func (c *Coordinator) checkGuests(n int) error {
	switch {
	case n < 1:
		return &ValidationError{Field: "guests_count", Message: "at least one guest is required"}
	case n > c.space.MaxCapacity:
		return &ValidationError{Field: "guests_count", Message: fmt.Sprintf("this space holds at most %d guests", c.space.MaxCapacity)}
	case c.spots >= 0 && n > c.spots:
		return &ValidationError{Field: "guests_count", Message: fmt.Sprintf("only %d spots left for this time", c.spots)}
	}

	return nil
}

// preconditions run before the attempt enters Reserving. Callers hold mu.
func (c *Coordinator) preconditions(ctx context.Context) error {
	if c.online != nil && !c.online(ctx) {
		return ErrOffline
	}

	if c.date == constant.Empty || c.selected == nil {
		return &ValidationError{Field: "range", Message: "select a date and time first"}
	}

	if c.space.HasPolicies() && !c.policiesAccepted {
		return &ValidationError{Field: "policies_accepted", Message: "the cancellation policy and house rules must be accepted"}
	}

	if c.invoice != nil {
		if err := validator.ValidateStruct(c.invoice); err != nil {
			return &ValidationError{Field: "invoice", Message: err.Error()}
		}
	}

	return c.checkGuests(c.guests)
}

// Confirm claims the selected range. Every call that reaches the store ends in Confirmed,
// FatalError, or, after a lost race, back in TimeSelected with the range cleared and the slot
// list refreshed; the latter returns ErrSlotTaken.
func (c *Coordinator) Confirm(ctx context.Context) (Outcome, error) {
	c.mu.Lock()

	if c.state == Reserving || c.state.Terminal() {
		defer c.mu.Unlock()

		return Outcome{State: c.state}, invalidTransition(c.state, Reserving)
	}

	if err := c.preconditions(ctx); err != nil {
		defer c.mu.Unlock()

		return Outcome{State: c.state}, err
	}

	if !canTransition(c.state, Reserving) {
		defer c.mu.Unlock()

		return Outcome{State: c.state}, invalidTransition(c.state, Reserving)
	}

	c.invalidate()
	c.state = Reserving
	rng := *c.selected
	req := bookingDto.ClaimRequest{
		SpaceID:          c.space.ID,
		Date:             c.date,
		StartTime:        rng.Start,
		EndTime:          rng.End,
		GuestsCount:      c.guests,
		PoliciesAccepted: c.policiesAccepted,
		Invoice:          c.invoice,
	}
	retries := c.autoRetry
	c.mu.Unlock()

	for attempt := 1; ; attempt++ {
		res, err := c.deps.Claim(ctx, req)

		switch {
		case err != nil:
			return c.fail(attempt, err)
		case res.Success:
			return c.complete(ctx, attempt, res)
		case res.ErrorCode != model.ErrorCodeConflict:
			return c.fail(attempt, &StoreError{Code: res.ErrorCode, Message: res.Error})
		}

		log.Info().Str("space", req.SpaceID).Str("date", req.Date).Str("start", rng.Start).Int("attempt", attempt).Msg("Claim lost to a concurrent booking")

		resubmit, err := c.recoverConflict(ctx, rng, retries > 0)
		if !resubmit {
			return Outcome{State: TimeSelected, Attempts: attempt}, err
		}

		retries--
	}
}

func (c *Coordinator) fail(attempt int, err error) (Outcome, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = FatalError

	return Outcome{State: FatalError, Attempts: attempt}, err
}

func (c *Coordinator) complete(ctx context.Context, attempt int, res bookingDto.ClaimResponse) (Outcome, error) {
	out := Outcome{BookingID: res.BookingID, ReservedUntil: res.ReservedUntil, Attempts: attempt}

	if c.confirmation.completion().requiresPayment {
		payment, err := c.deps.InitiatePayment(ctx, res.BookingID)
		if err != nil {
			out, _ = c.fail(attempt, err)
			out.BookingID = res.BookingID

			return out, fmt.Errorf("booking held but payment could not be started: %w", err)
		}

		out.PaymentURL = payment.URL
		out.AwaitingPayment = !payment.Paid
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = Confirmed
	out.State = Confirmed

	return out, nil
}

// recoverConflict refreshes the slots of the selected date and clears the range. It reports
// whether rng may be submitted again.
func (c *Coordinator) recoverConflict(ctx context.Context, rng Range, mayRetry bool) (bool, error) {
	c.mu.Lock()
	c.state = Conflict
	c.selected = nil
	c.slots = nil
	c.spots = -1
	date := c.date
	c.mu.Unlock()

	res, err := c.deps.Slots(ctx, c.space.ID, date, 0)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.state = TimeSelected

	if err != nil {
		return false, errors.Join(ErrSlotTaken, fmt.Errorf("failed to refresh slots: %w", err))
	}

	c.slots = res.Slots

	if !mayRetry || !rangeAvailable(c.slots, rng) {
		return false, ErrSlotTaken
	}

	c.selected = &rng
	c.state = Reserving

	return true, nil
}

// rangeAvailable reports whether rng is covered end to end by contiguous available slots, the
// first of which starts at rng.Start.
func rangeAvailable(slots []engine.TimeSlot, rng Range) bool {
	cursor, err := engine.ToMinutes(rng.Start)
	if err != nil {
		return false
	}

	end, err := engine.ToMinutes(rng.End)
	if err != nil {
		return false
	}

	for cursor < end {
		idx := slices.IndexFunc(slots, func(s engine.TimeSlot) bool {
			start, err := engine.ToMinutes(s.Time)

			return err == nil && start == cursor
		})
		if idx < 0 || !slots[idx].Available {
			return false
		}

		next, err := engine.ToMinutes(slots[idx].EndTime)
		if err != nil || next <= cursor {
			return false
		}

		cursor = next
	}

	return true
}

func (c *Coordinator) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

func (c *Coordinator) Date() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.date
}

func (c *Coordinator) Slots() []engine.TimeSlot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.slots)
}

// Selection returns the selected range, if any.
func (c *Coordinator) Selection() (Range, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.selected == nil {
		return Range{}, false
	}

	return *c.selected, true
}

// AvailableSpots returns the capacity read for the selected range, if it has arrived.
func (c *Coordinator) AvailableSpots() (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.spots, c.spots >= 0
}
