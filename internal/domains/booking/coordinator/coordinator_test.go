package coordinator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"spacebook/internal/domains/availability/engine"
	availDto "spacebook/internal/domains/availability/model/dto"
	"spacebook/internal/domains/booking/coordinator"
	"spacebook/internal/domains/booking/coordinator/mocks"
	"spacebook/internal/domains/booking/model"
	bookingDto "spacebook/internal/domains/booking/model/dto"
	spaceDto "spacebook/internal/domains/space/model/dto"
)

const (
	spaceID = "space-1"
	date    = "2030-03-04"
)

func space(confirmation string) spaceDto.SpaceResponse {
	return spaceDto.SpaceResponse{ID: spaceID, MaxCapacity: 8, ConfirmationType: confirmation}
}

// morning returns 30 minute slots from 09:00 to 12:00; the listed start times are taken.
func morning(taken ...string) availDto.SlotsResponse {
	starts := []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}
	res := availDto.SlotsResponse{SpaceID: spaceID, Date: date, Enabled: true, Granularity: 30}

	for _, start := range starts {
		slot := engine.TimeSlot{Time: start, EndTime: engine.AddMinutes(start, 30), Duration: 30, Available: true}

		for _, t := range taken {
			if t == start {
				slot.Available = false
				slot.Reserved = true
			}
		}

		res.Slots = append(res.Slots, slot)
	}

	return res
}

// selected drives a coordinator to TimeSelected on 10:00-11:00 with 5 spots left.
func selected(t *testing.T, deps *mocks.MockCollaborators, s spaceDto.SpaceResponse, opts ...coordinator.Option) *coordinator.Coordinator {
	t.Helper()

	deps.EXPECT().Slots(gomock.Any(), spaceID, date, 0).Return(morning(), nil)
	deps.EXPECT().
		Capacity(gomock.Any(), spaceID, availDto.CapacityRequest{Date: date, StartTime: "10:00", EndTime: "11:00"}).
		Return(availDto.CapacityResponse{AvailableSpots: 5, MaxCapacity: 8}, nil)

	c := coordinator.New(s, deps, opts...)

	slots, err := c.SelectDate(context.Background(), date)
	require.NoError(t, err)
	require.Len(t, slots, 6)

	spots, err := c.SelectRange(context.Background(), "10:00", "11:00")
	require.NoError(t, err)
	require.Equal(t, 5, spots)
	require.Equal(t, coordinator.TimeSelected, c.State())

	return c
}

func TestCoordinator_ConfirmHostApproval(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := mocks.NewMockCollaborators(ctrl)
	c := selected(t, deps, space("host_approval"))

	require.NoError(t, c.SetGuests(3))

	deps.EXPECT().
		Claim(gomock.Any(), bookingDto.ClaimRequest{SpaceID: spaceID, Date: date, StartTime: "10:00", EndTime: "11:00", GuestsCount: 3}).
		Return(bookingDto.ClaimResponse{Success: true, BookingID: "b-1", ReservedUntil: "2030-03-02T10:00:00Z"}, nil)

	out, err := c.Confirm(context.Background())

	require.NoError(t, err)
	assert.Equal(t, coordinator.Confirmed, out.State)
	assert.Equal(t, "b-1", out.BookingID)
	assert.False(t, out.AwaitingPayment)
	assert.Equal(t, 1, out.Attempts)
	assert.Equal(t, coordinator.Confirmed, c.State())
}

func TestCoordinator_ConfirmInstantStartsPayment(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := mocks.NewMockCollaborators(ctrl)
	c := selected(t, deps, space("instant"))

	deps.EXPECT().Claim(gomock.Any(), gomock.Any()).Return(bookingDto.ClaimResponse{Success: true, BookingID: "b-1"}, nil)
	deps.EXPECT().
		InitiatePayment(gomock.Any(), "b-1").
		Return(bookingDto.PaymentResponse{BookingID: "b-1", SessionID: "cs_1", URL: "https://checkout.example/cs_1"}, nil)

	out, err := c.Confirm(context.Background())

	require.NoError(t, err)
	assert.Equal(t, coordinator.Confirmed, out.State)
	assert.True(t, out.AwaitingPayment)
	assert.Equal(t, "https://checkout.example/cs_1", out.PaymentURL)
}

func TestCoordinator_PaymentFailureIsFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := mocks.NewMockCollaborators(ctrl)
	c := selected(t, deps, space("instant"))

	deps.EXPECT().Claim(gomock.Any(), gomock.Any()).Return(bookingDto.ClaimResponse{Success: true, BookingID: "b-1"}, nil)
	deps.EXPECT().InitiatePayment(gomock.Any(), "b-1").Return(bookingDto.PaymentResponse{}, errors.New("provider unavailable"))

	out, err := c.Confirm(context.Background())

	require.Error(t, err)
	assert.Equal(t, coordinator.FatalError, out.State)
	assert.Equal(t, "b-1", out.BookingID)
}

func TestCoordinator_ConflictRecovery(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := mocks.NewMockCollaborators(ctrl)
	c := selected(t, deps, space("host_approval"))

	refreshed := morning("10:00", "10:30")

	deps.EXPECT().
		Claim(gomock.Any(), gomock.Any()).
		Return(bookingDto.ClaimResponse{Success: false, ErrorCode: model.ErrorCodeConflict, Error: "taken"}, nil)
	deps.EXPECT().Slots(gomock.Any(), spaceID, date, 0).Return(refreshed, nil)

	out, err := c.Confirm(context.Background())

	require.ErrorIs(t, err, coordinator.ErrSlotTaken)
	assert.Equal(t, coordinator.TimeSelected, out.State)
	assert.Equal(t, coordinator.TimeSelected, c.State())
	assert.Equal(t, date, c.Date())
	assert.Equal(t, refreshed.Slots, c.Slots())

	_, ok := c.Selection()
	assert.False(t, ok)

	_, known := c.AvailableSpots()
	assert.False(t, known)

	// Nothing is re-submitted until a new range is picked.
	_, err = c.Confirm(context.Background())

	var validation *coordinator.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "range", validation.Field)
	assert.Equal(t, coordinator.TimeSelected, c.State())

	_, err = c.SelectRange(context.Background(), "10:00", "11:00")
	require.ErrorAs(t, err, &validation)
}

func TestCoordinator_ConflictRefreshFailureClearsSlots(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := mocks.NewMockCollaborators(ctrl)
	c := selected(t, deps, space("host_approval"))

	deps.EXPECT().Claim(gomock.Any(), gomock.Any()).Return(bookingDto.ClaimResponse{ErrorCode: model.ErrorCodeConflict}, nil)
	deps.EXPECT().Slots(gomock.Any(), spaceID, date, 0).Return(availDto.SlotsResponse{}, errors.New("timeout"))

	_, err := c.Confirm(context.Background())

	require.ErrorIs(t, err, coordinator.ErrSlotTaken)
	assert.Equal(t, coordinator.TimeSelected, c.State())
	assert.Empty(t, c.Slots())
}

func TestCoordinator_AutoRetry(t *testing.T) {
	tests := []struct {
		name         string
		refreshed    availDto.SlotsResponse
		wantClaims   int
		wantState    coordinator.State
		wantSlotGone bool
	}{
		{
			name:       "range still free is re-submitted",
			refreshed:  morning("09:00"),
			wantClaims: 2,
			wantState:  coordinator.Confirmed,
		},
		{
			name:         "range taken is not re-submitted",
			refreshed:    morning("10:30"),
			wantClaims:   1,
			wantState:    coordinator.TimeSelected,
			wantSlotGone: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			deps := mocks.NewMockCollaborators(ctrl)
			c := selected(t, deps, space("host_approval"), coordinator.WithAutoRetry(1))

			conflict := deps.EXPECT().Claim(gomock.Any(), gomock.Any()).Return(bookingDto.ClaimResponse{ErrorCode: model.ErrorCodeConflict}, nil)
			deps.EXPECT().Slots(gomock.Any(), spaceID, date, 0).Return(tt.refreshed, nil)

			if tt.wantClaims == 2 {
				deps.EXPECT().
					Claim(gomock.Any(), gomock.Any()).
					Return(bookingDto.ClaimResponse{Success: true, BookingID: "b-2"}, nil).
					After(conflict)
			}

			out, err := c.Confirm(context.Background())

			assert.Equal(t, tt.wantState, out.State)
			assert.Equal(t, tt.wantClaims, out.Attempts)

			if tt.wantSlotGone {
				assert.ErrorIs(t, err, coordinator.ErrSlotTaken)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, "b-2", out.BookingID)
			}
		})
	}
}

func TestCoordinator_StoreRejectionsAreFatal(t *testing.T) {
	tests := []struct {
		name     string
		res      bookingDto.ClaimResponse
		claimErr error
		wantMsg  string
	}{
		{
			name:    "insufficient capacity",
			res:     bookingDto.ClaimResponse{ErrorCode: model.ErrorCodeInsufficientCapacity, Error: "not enough spots left for this time range"},
			wantMsg: "not enough spots left for this time range",
		},
		{
			name:    "insert failed",
			res:     bookingDto.ClaimResponse{ErrorCode: model.ErrorCodeInsertFailed, Error: "the booking could not be saved"},
			wantMsg: "the booking could not be saved",
		},
		{
			name:     "transport",
			claimErr: errors.New("connection refused"),
			wantMsg:  "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			deps := mocks.NewMockCollaborators(ctrl)
			c := selected(t, deps, space("host_approval"), coordinator.WithAutoRetry(3))

			deps.EXPECT().Claim(gomock.Any(), gomock.Any()).Return(tt.res, tt.claimErr).Times(1)

			out, err := c.Confirm(context.Background())

			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, coordinator.FatalError, out.State)
			assert.Equal(t, coordinator.FatalError, c.State())

			if tt.res.ErrorCode != "" {
				var storeErr *coordinator.StoreError
				require.ErrorAs(t, err, &storeErr)
				assert.Equal(t, tt.res.ErrorCode, storeErr.Code)
			}
		})
	}
}

func TestCoordinator_Preconditions(t *testing.T) {
	validInvoice := &bookingDto.FiscalData{
		LegalName:  "Acme SL",
		TaxID:      "B-1234567-8",
		Address:    "Calle Mayor 1",
		PostalCode: "28013",
		City:       "Madrid",
		Country:    "ES",
	}

	tests := []struct {
		name      string
		space     spaceDto.SpaceResponse
		prepare   func(c *coordinator.Coordinator)
		online    bool
		wantErr   error
		wantField string
		wantClaim bool
	}{
		{
			name:    "offline",
			space:   space("host_approval"),
			online:  false,
			wantErr: coordinator.ErrOffline,
		},
		{
			name:      "policies not accepted",
			space:     spaceDto.SpaceResponse{ID: spaceID, MaxCapacity: 8, ConfirmationType: "host_approval", HouseRules: "No pets"},
			online:    true,
			wantField: "policies_accepted",
		},
		{
			name:      "policies accepted",
			space:     spaceDto.SpaceResponse{ID: spaceID, MaxCapacity: 8, ConfirmationType: "host_approval", CancellationPolicy: "Flexible"},
			prepare:   func(c *coordinator.Coordinator) { c.AcceptPolicies(true) },
			online:    true,
			wantClaim: true,
		},
		{
			name:  "invalid fiscal data",
			space: space("host_approval"),
			prepare: func(c *coordinator.Coordinator) {
				c.RequestInvoice(&bookingDto.FiscalData{LegalName: "Acme SL", TaxID: "12", Country: "Spain"})
			},
			online:    true,
			wantField: "invoice",
		},
		{
			name:      "valid fiscal data",
			space:     space("host_approval"),
			prepare:   func(c *coordinator.Coordinator) { c.RequestInvoice(validInvoice) },
			online:    true,
			wantClaim: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			deps := mocks.NewMockCollaborators(ctrl)
			c := selected(t, deps, tt.space, coordinator.WithConnectivity(func(context.Context) bool { return tt.online }))

			if tt.prepare != nil {
				tt.prepare(c)
			}

			if tt.wantClaim {
				deps.EXPECT().Claim(gomock.Any(), gomock.Any()).Return(bookingDto.ClaimResponse{Success: true, BookingID: "b-1"}, nil)
			}

			out, err := c.Confirm(context.Background())

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, coordinator.TimeSelected, out.State)
			case tt.wantField != "":
				var validation *coordinator.ValidationError
				require.ErrorAs(t, err, &validation)
				assert.Equal(t, tt.wantField, validation.Field)
				assert.Equal(t, coordinator.TimeSelected, c.State())
			default:
				require.NoError(t, err)
				assert.Equal(t, coordinator.Confirmed, out.State)
			}
		})
	}
}

func TestCoordinator_Guests(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := mocks.NewMockCollaborators(ctrl)
	c := selected(t, deps, space("host_approval"))

	var validation *coordinator.ValidationError

	assert.ErrorAs(t, c.SetGuests(0), &validation)
	assert.ErrorAs(t, c.SetGuests(6), &validation)
	assert.NoError(t, c.SetGuests(5))
}

func TestCoordinator_SelectRangeRules(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := mocks.NewMockCollaborators(ctrl)
	c := coordinator.New(space("host_approval"), deps)

	_, err := c.SelectRange(context.Background(), "10:00", "11:00")
	require.ErrorIs(t, err, coordinator.ErrInvalidTransition)

	deps.EXPECT().Slots(gomock.Any(), spaceID, date, 0).Return(morning("11:00"), nil)

	_, err = c.SelectDate(context.Background(), date)
	require.NoError(t, err)

	tests := []struct {
		name  string
		start string
		end   string
	}{
		{name: "inverted", start: "11:00", end: "10:00"},
		{name: "crosses a taken slot", start: "10:30", end: "11:30"},
		{name: "past the last slot", start: "11:30", end: "12:30"},
		{name: "not on a slot boundary", start: "09:15", end: "10:00"},
		{name: "malformed", start: "9am", end: "10:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.SelectRange(context.Background(), tt.start, tt.end)

			var validation *coordinator.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, coordinator.DateSelected, c.State())
		})
	}
}

func TestCoordinator_StaleDateSelectionIsDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := mocks.NewMockCollaborators(ctrl)
	c := coordinator.New(space("host_approval"), deps)

	started := make(chan struct{})
	later := availDto.SlotsResponse{Slots: []engine.TimeSlot{{Time: "14:00", EndTime: "14:30", Available: true}}}

	deps.EXPECT().
		Slots(gomock.Any(), spaceID, date, 0).
		DoAndReturn(func(ctx context.Context, _, _ string, _ int) (availDto.SlotsResponse, error) {
			close(started)
			<-ctx.Done()

			return morning(), nil
		})
	deps.EXPECT().Slots(gomock.Any(), spaceID, "2030-03-05", 0).Return(later, nil)

	type result struct {
		slots []engine.TimeSlot
		err   error
	}

	first := make(chan result, 1)

	go func() {
		slots, err := c.SelectDate(context.Background(), date)
		first <- result{slots: slots, err: err}
	}()

	<-started

	slots, err := c.SelectDate(context.Background(), "2030-03-05")
	require.NoError(t, err)
	assert.Equal(t, later.Slots, slots)

	stale := <-first
	assert.ErrorIs(t, stale.err, coordinator.ErrStaleSelection)
	assert.Nil(t, stale.slots)

	assert.Equal(t, "2030-03-05", c.Date())
	assert.Equal(t, later.Slots, c.Slots())
}

func TestCoordinator_StaleCapacityIsDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := mocks.NewMockCollaborators(ctrl)
	c := coordinator.New(space("host_approval"), deps)

	deps.EXPECT().Slots(gomock.Any(), spaceID, date, 0).Return(morning(), nil)

	_, err := c.SelectDate(context.Background(), date)
	require.NoError(t, err)

	started := make(chan struct{})

	deps.EXPECT().
		Capacity(gomock.Any(), spaceID, availDto.CapacityRequest{Date: date, StartTime: "09:00", EndTime: "10:00"}).
		DoAndReturn(func(ctx context.Context, _ string, _ availDto.CapacityRequest) (availDto.CapacityResponse, error) {
			close(started)
			<-ctx.Done()

			return availDto.CapacityResponse{AvailableSpots: 1}, nil
		})
	deps.EXPECT().
		Capacity(gomock.Any(), spaceID, availDto.CapacityRequest{Date: date, StartTime: "10:00", EndTime: "11:00"}).
		Return(availDto.CapacityResponse{AvailableSpots: 7}, nil)

	first := make(chan error, 1)

	go func() {
		_, err := c.SelectRange(context.Background(), "09:00", "10:00")
		first <- err
	}()

	<-started

	spots, err := c.SelectRange(context.Background(), "10:00", "11:00")
	require.NoError(t, err)
	assert.Equal(t, 7, spots)
	assert.ErrorIs(t, <-first, coordinator.ErrStaleSelection)

	rng, ok := c.Selection()
	require.True(t, ok)
	assert.Equal(t, coordinator.Range{Start: "10:00", End: "11:00"}, rng)

	known, _ := c.AvailableSpots()
	assert.Equal(t, 7, known)
}

func TestCoordinator_ConfirmDropsCapacityInFlight(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := mocks.NewMockCollaborators(ctrl)
	c := coordinator.New(space("host_approval"), deps)

	deps.EXPECT().Slots(gomock.Any(), spaceID, date, 0).Return(morning(), nil)

	_, err := c.SelectDate(context.Background(), date)
	require.NoError(t, err)

	started := make(chan struct{})

	deps.EXPECT().
		Capacity(gomock.Any(), spaceID, availDto.CapacityRequest{Date: date, StartTime: "10:00", EndTime: "11:00"}).
		DoAndReturn(func(ctx context.Context, _ string, _ availDto.CapacityRequest) (availDto.CapacityResponse, error) {
			close(started)
			<-ctx.Done()

			return availDto.CapacityResponse{}, ctx.Err()
		})
	deps.EXPECT().Claim(gomock.Any(), gomock.Any()).Return(bookingDto.ClaimResponse{Success: true, BookingID: "b-1"}, nil)

	pending := make(chan error, 1)

	go func() {
		_, err := c.SelectRange(context.Background(), "10:00", "11:00")
		pending <- err
	}()

	<-started

	out, err := c.Confirm(context.Background())
	require.NoError(t, err)
	assert.Equal(t, coordinator.Confirmed, out.State)

	assert.ErrorIs(t, <-pending, coordinator.ErrStaleSelection)
	assert.Equal(t, coordinator.Confirmed, c.State())
}

func TestCoordinator_ConfirmedIsFinal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	deps := mocks.NewMockCollaborators(ctrl)
	c := selected(t, deps, space("host_approval"))

	deps.EXPECT().Claim(gomock.Any(), gomock.Any()).Return(bookingDto.ClaimResponse{Success: true, BookingID: "b-1"}, nil)

	_, err := c.Confirm(context.Background())
	require.NoError(t, err)

	_, err = c.Confirm(context.Background())
	assert.ErrorIs(t, err, coordinator.ErrInvalidTransition)

	_, err = c.SelectDate(context.Background(), date)
	assert.ErrorIs(t, err, coordinator.ErrInvalidTransition)
}
