package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"spacebook/config"
	"spacebook/infras/otel/mocks"
	"spacebook/internal/domains/availability/engine"
	"spacebook/internal/domains/availability/model/dto"
	"spacebook/internal/domains/availability/service"
	bookingMocks "spacebook/internal/domains/booking/mocks"
	spaceDto "spacebook/internal/domains/space/model/dto"
	spaceSvcMocks "spacebook/internal/domains/space/service/mocks"
	"spacebook/shared/constant"
	"spacebook/shared/failure"
)

// 2030-03-04 is a Monday.
const monday = "2030-03-04"

func newService(ctrl *gomock.Controller) (service.Availability, *spaceSvcMocks.MockSpace, *bookingMocks.MockBooking) {
	spaceSvc := spaceSvcMocks.NewMockSpace(ctrl)
	repo := bookingMocks.NewMockBooking(ctrl)

	cfg := &config.Config{}
	cfg.Booking.DefaultSlotInterval = 30

	return service.New(spaceSvc, repo, cfg, mocks.NewOtel()), spaceSvc, repo
}

func studio() spaceDto.SpaceResponse {
	return spaceDto.SpaceResponse{
		ID:           "space-1",
		MaxCapacity:  10,
		PricePerDay:  80,
		Timezone:     "UTC",
		SlotInterval: 30,
		Schedule:     json.RawMessage(`{"monday":{"enabled":true,"intervals":[{"start":"09:00","end":"17:00"}]}}`),
	}
}

func at(hour, minute int) time.Time {
	return time.Date(2030, 3, 4, hour, minute, 0, 0, time.UTC)
}

func slotByTime(slots []engine.TimeSlot, hhmm string) engine.TimeSlot {
	for _, s := range slots {
		if s.Time == hhmm {
			return s
		}
	}

	return engine.TimeSlot{}
}

func TestAvailabilityService_SlotsOpenMonday(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, spaceSvc, repo := newService(ctrl)

	spaceSvc.EXPECT().Get(gomock.Any(), "space-1").Return(studio(), nil)
	spaceSvc.EXPECT().Exceptions(gomock.Any(), "space-1", monday).Return(nil, nil)
	repo.EXPECT().BlockingRanges(gomock.Any(), "space-1", at(0, 0), at(0, 0).AddDate(0, 0, 1)).Return(nil, nil)

	res, err := svc.Slots(context.Background(), "space-1", monday, 0)

	require.NoError(t, err)
	assert.True(t, res.Enabled)
	assert.Equal(t, 30, res.Granularity)
	require.Len(t, res.Slots, 16)

	for _, slot := range res.Slots {
		assert.True(t, slot.Available, slot.Time)
	}

	assert.Equal(t, "09:00", res.Slots[0].Time)
	assert.Equal(t, "17:00", res.Slots[15].EndTime)
}

func TestAvailabilityService_SlotsWithBookings(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, spaceSvc, repo := newService(ctrl)
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "guest-1")

	spaceSvc.EXPECT().Get(gomock.Any(), "space-1").Return(studio(), nil)
	spaceSvc.EXPECT().Exceptions(gomock.Any(), "space-1", monday).Return(nil, nil)
	repo.EXPECT().
		BlockingRanges(gomock.Any(), "space-1", gomock.Any(), gomock.Any()).
		Return([]engine.AbsoluteBooking{{StartAt: at(10, 0), EndAt: at(11, 0), Status: engine.StatusConfirmed, UserID: "guest-2"}}, nil)
	repo.EXPECT().
		UserBlocking(gomock.Any(), "guest-1", gomock.Any(), gomock.Any()).
		Return([]engine.AbsoluteBooking{{StartAt: at(13, 0), EndAt: at(14, 0), Status: engine.StatusPendingPayment, UserID: "guest-1"}}, nil)

	res, err := svc.Slots(ctx, "space-1", monday, 0)

	require.NoError(t, err)
	assert.True(t, slotByTime(res.Slots, "09:30").Available)
	assert.True(t, slotByTime(res.Slots, "10:00").Reserved)
	assert.True(t, slotByTime(res.Slots, "10:30").Reserved)
	assert.True(t, slotByTime(res.Slots, "11:00").Available)
	assert.True(t, slotByTime(res.Slots, "13:30").Reserved)
	assert.True(t, slotByTime(res.Slots, "14:00").Available)
}

func TestAvailabilityService_SlotsGranularity(t *testing.T) {
	tests := []struct {
		name         string
		requested    int
		slotInterval int
		want         int
		wantSlots    int
	}{
		{name: "requested wins", requested: 120, slotInterval: 30, want: 120, wantSlots: 4},
		{name: "space interval", requested: 0, slotInterval: 60, want: 60, wantSlots: 8},
		{name: "configured default", requested: 0, slotInterval: 0, want: 30, wantSlots: 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, spaceSvc, repo := newService(ctrl)
			space := studio()
			space.SlotInterval = tt.slotInterval

			spaceSvc.EXPECT().Get(gomock.Any(), "space-1").Return(space, nil)
			spaceSvc.EXPECT().Exceptions(gomock.Any(), "space-1", monday).Return(nil, nil)
			repo.EXPECT().BlockingRanges(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

			res, err := svc.Slots(context.Background(), "space-1", monday, tt.requested)

			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Granularity)
			assert.Len(t, res.Slots, tt.wantSlots)
		})
	}
}

func TestAvailabilityService_SlotsClosedDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, spaceSvc, _ := newService(ctrl)

	spaceSvc.EXPECT().Get(gomock.Any(), "space-1").Return(studio(), nil)
	spaceSvc.EXPECT().
		Exceptions(gomock.Any(), "space-1", monday).
		Return([]engine.Exception{{Date: monday, Enabled: false}}, nil)

	res, err := svc.Slots(context.Background(), "space-1", monday, 0)

	require.NoError(t, err)
	assert.False(t, res.Enabled)
	assert.Empty(t, res.Slots)
}

func TestAvailabilityService_SlotsInvalidDate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, spaceSvc, _ := newService(ctrl)

	spaceSvc.EXPECT().Get(gomock.Any(), "space-1").Return(studio(), nil)

	_, err := svc.Slots(context.Background(), "space-1", "04/03/2030", 0)

	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestAvailabilityService_Durations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, spaceSvc, repo := newService(ctrl)

	spaceSvc.EXPECT().Get(gomock.Any(), "space-1").Return(studio(), nil)
	spaceSvc.EXPECT().Exceptions(gomock.Any(), "space-1", monday).Return(nil, nil)
	repo.EXPECT().
		BlockingRanges(gomock.Any(), "space-1", gomock.Any(), gomock.Any()).
		Return([]engine.AbsoluteBooking{{StartAt: at(15, 0), EndAt: at(16, 0), Status: engine.StatusConfirmed}}, nil)

	res, err := svc.Durations(context.Background(), "space-1", monday)

	require.NoError(t, err)
	require.NotEmpty(t, res.Options)

	first := res.Options[0]
	assert.Equal(t, "09:00", first.StartTime)
	assert.Equal(t, "11:00", first.EndTime)
	assert.InDelta(t, 20.0, first.Price, 0.001)
	assert.True(t, first.Available)

	for _, option := range res.Options {
		if option.StartTime == "09:00" && option.DurationHours == 8 {
			assert.InDelta(t, 80.0, option.Price, 0.001)
			assert.True(t, option.Reserved)
		}
	}
}

func TestAvailabilityService_Capacity(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.CapacityRequest
		bookings  []engine.AbsoluteBooking
		wantSpots int
		wantCode  int
	}{
		{
			name: "overlapping guests are subtracted",
			req:  dto.CapacityRequest{Date: monday, StartTime: "10:00", EndTime: "12:00"},
			bookings: []engine.AbsoluteBooking{
				{StartAt: at(9, 0), EndAt: at(10, 30), Status: engine.StatusConfirmed, GuestsCount: 3},
				{StartAt: at(11, 0), EndAt: at(13, 0), Status: engine.StatusPendingApproval, GuestsCount: 4},
				{StartAt: at(12, 0), EndAt: at(13, 0), Status: engine.StatusConfirmed, GuestsCount: 5},
			},
			wantSpots: 3,
		},
		{
			name: "never negative",
			req:  dto.CapacityRequest{Date: monday, StartTime: "10:00", EndTime: "12:00"},
			bookings: []engine.AbsoluteBooking{
				{StartAt: at(10, 0), EndAt: at(12, 0), Status: engine.StatusConfirmed, GuestsCount: 12},
			},
			wantSpots: 0,
		},
		{
			name:     "inverted range",
			req:      dto.CapacityRequest{Date: monday, StartTime: "12:00", EndTime: "10:00"},
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, spaceSvc, repo := newService(ctrl)
			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "guest-1")

			spaceSvc.EXPECT().Get(gomock.Any(), "space-1").Return(studio(), nil)
			if tt.wantCode == 0 {
				repo.EXPECT().BlockingRanges(gomock.Any(), "space-1", gomock.Any(), gomock.Any()).Return(tt.bookings, nil)
			}

			res, err := svc.Capacity(ctx, "space-1", tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantSpots, res.AvailableSpots)
			assert.Equal(t, 10, res.MaxCapacity)
		})
	}
}

func TestAvailabilityService_Quote(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.QuoteRequest
		wantPrice float64
		wantFull  bool
		wantCode  int
	}{
		{name: "two hours", req: dto.QuoteRequest{StartTime: "09:00", EndTime: "11:00", GuestsCount: 4}, wantPrice: 20},
		{name: "full day", req: dto.QuoteRequest{StartTime: "09:00", EndTime: "17:00"}, wantPrice: 80, wantFull: true},
		{name: "too many guests", req: dto.QuoteRequest{StartTime: "09:00", EndTime: "11:00", GuestsCount: 11}, wantCode: http.StatusBadRequest},
		{name: "inverted range", req: dto.QuoteRequest{StartTime: "11:00", EndTime: "09:00"}, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, spaceSvc, _ := newService(ctrl)
			spaceSvc.EXPECT().Get(gomock.Any(), "space-1").Return(studio(), nil)

			res, err := svc.Quote(context.Background(), "space-1", tt.req)

			if tt.wantCode != 0 {
				assert.Equal(t, tt.wantCode, failure.GetCode(err))

				return
			}

			require.NoError(t, err)
			assert.InDelta(t, tt.wantPrice, res.TotalPrice, 0.001)
			assert.Equal(t, tt.wantFull, res.FullDay)
		})
	}
}
