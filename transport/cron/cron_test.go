package cron_test

import (
	"errors"
	"spacebook/config"
	"spacebook/infras/otel/mocks"
	serviceMocks "spacebook/internal/domains/booking/service/mocks"
	"spacebook/transport/cron"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSweepHolds(t *testing.T) {
	tests := []struct {
		name     string
		released int
		err      error
	}{
		{name: "releases holds", released: 3},
		{name: "nothing to release"},
		{name: "repository failure is swallowed", err: errors.New("db down")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			booking := serviceMocks.NewMockBooking(ctrl)
			booking.EXPECT().ExpireHolds(gomock.Any()).Return(tt.released, tt.err)

			tracer := mocks.NewOtel()
			c := cron.New(&config.Config{}, booking, tracer)

			assert.NotPanics(t, c.SweepHolds)

			scope := tracer.Find("job.SweepHolds")
			require.NotNil(t, scope)
			assert.True(t, scope.Ended())

			if tt.err != nil {
				assert.Equal(t, []error{tt.err}, scope.Errors())

				return
			}

			released, ok := scope.Attribute("holds.released")
			assert.True(t, ok)
			assert.Equal(t, tt.released, released)
		})
	}
}

func TestStart(t *testing.T) {
	t.Run("valid schedule", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Booking.SweepSchedule = "@every 1h"

		c := cron.New(cfg, serviceMocks.NewMockBooking(gomock.NewController(t)), mocks.NewOtel())

		assert.NoError(t, c.Start())
		c.Stop()
	})

	t.Run("invalid schedule", func(t *testing.T) {
		cfg := &config.Config{}
		cfg.Booking.SweepSchedule = "every so often"

		c := cron.New(cfg, serviceMocks.NewMockBooking(gomock.NewController(t)), mocks.NewOtel())

		assert.Error(t, c.Start())
	})
}
