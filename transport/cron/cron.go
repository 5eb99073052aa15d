package cron

import (
	"context"
	"spacebook/config"
	"spacebook/infras/otel"
	bookingService "spacebook/internal/domains/booking/service"
	"spacebook/shared/constant"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Cron runs the periodic booking jobs. Only one sweep runs at a time; a slow run makes the next
// tick wait rather than overlap.
type Cron struct {
	config  *config.Config
	booking bookingService.Booking
	otel    otel.Otel
	runner  *cron.Cron
}

func New(cfg *config.Config, booking bookingService.Booking, otel otel.Otel) *Cron {
	return &Cron{
		config:  cfg,
		booking: booking,
		otel:    otel,
		runner: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
	}
}

func (c *Cron) Start() error {
	schedule := c.config.Booking.SweepSchedule

	if _, err := c.runner.AddFunc(schedule, c.SweepHolds); err != nil {
		log.Error().Err(err).Str("schedule", schedule).Msg("invalid hold sweep schedule")

		return err
	}

	c.runner.Start()

	log.Info().Str("schedule", schedule).Msg("Hold sweeper started.")

	return nil
}

// Stop waits for a running sweep to finish.
func (c *Cron) Stop() {
	<-c.runner.Stop().Done()

	log.Info().Msg("Hold sweeper stopped.")
}

// SweepHolds releases every hold whose reservation window has passed.
func (c *Cron) SweepHolds() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	ctx, scope := c.otel.NewScope(ctx, constant.OtelJobScopeName, constant.OtelJobScopeName+".SweepHolds")
	defer scope.End()

	released, err := c.booking.ExpireHolds(ctx)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to expire holds")

		return
	}

	scope.SetAttribute("holds.released", released)

	if released > 0 {
		log.Info().Int("released", released).Msg("expired booking holds")
	}
}
