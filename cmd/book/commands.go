package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"spacebook/di"
	"spacebook/infras/jwt"
	"spacebook/infras/kafka"
	"spacebook/internal/domains/availability/engine"
	"spacebook/internal/domains/booking/coordinator"
	"spacebook/internal/domains/booking/model"
	bookingDto "spacebook/internal/domains/booking/model/dto"
	"spacebook/transport/http/middleware"
	"syscall"
	"time"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/urfave/cli/v2"
)

const (
	flagSpace   = "space"
	flagDate    = "date"
	flagStart   = "start"
	flagEnd     = "end"
	flagGuests  = "guests"
	flagUser    = "user"
	flagEmail   = "email"
	flagAccept  = "accept-policies"
	flagInvoice = "invoice"
	flagRetry   = "retry"
	flagGroup   = "group"
	flagWait    = "wait"

	pingTimeout = 2 * time.Second
)

func guestContext(c *cli.Context) context.Context {
	return middleware.WithClaims(c.Context, &jwt.Claims{
		UserID: c.String(flagUser),
		Email:  c.String(flagEmail),
	})
}

func printSlots(slots []engine.TimeSlot) {
	for _, slot := range slots {
		mark := "free"

		switch {
		case slot.Past:
			mark = "past"
		case slot.Reserved:
			mark = "taken"
		case !slot.Available:
			mark = "closed"
		}

		fmt.Printf("%s-%s  %s\n", slot.Time, slot.EndTime, mark)
	}
}

func slotsCommand() *cli.Command {
	return &cli.Command{
		Name:  "slots",
		Usage: "list the start times of a day",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagDate, Aliases: []string{"d"}, Usage: "calendar date (YYYY-MM-DD)", Required: true},
			&cli.StringFlag{Name: flagUser, Usage: "guest id whose own bookings also block"},
		},
		Action: func(c *cli.Context) error {
			console := di.InitializeConsole()
			ctx := guestContext(c)

			space, err := console.Spaces.Get(ctx, c.String(flagSpace))
			if err != nil {
				return fmt.Errorf("failed to load space: %w", err)
			}

			slots, err := console.Bookings.Begin(space).SelectDate(ctx, c.String(flagDate))
			if err != nil {
				return err
			}

			printSlots(slots)

			return nil
		},
	}
}

func readInvoice(path string) (*bookingDto.FiscalData, error) {
	if path == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read invoice data: %w", err)
	}

	var data bookingDto.FiscalData
	if err = json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode invoice data: %w", err)
	}

	return &data, nil
}

func reserveCommand() *cli.Command {
	return &cli.Command{
		Name:  "reserve",
		Usage: "claim a time range and start payment when the space asks for it",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagDate, Aliases: []string{"d"}, Usage: "calendar date (YYYY-MM-DD)", Required: true},
			&cli.StringFlag{Name: flagStart, Usage: "start time (HH:MM)", Required: true},
			&cli.StringFlag{Name: flagEnd, Usage: "end time (HH:MM)", Required: true},
			&cli.IntFlag{Name: flagGuests, Aliases: []string{"g"}, Value: 1, Usage: "number of guests"},
			&cli.StringFlag{Name: flagUser, Usage: "guest id", Required: true},
			&cli.StringFlag{Name: flagEmail, Usage: "guest email, used for the checkout session"},
			&cli.BoolFlag{Name: flagAccept, Usage: "accept the cancellation policy and house rules"},
			&cli.StringFlag{Name: flagInvoice, Usage: "path to a JSON file with fiscal data"},
			&cli.IntFlag{Name: flagRetry, Usage: "resubmit this many times when the range is taken but still shows free"},
			&cli.BoolFlag{Name: flagWait, Usage: "keep checking the checkout session until it is paid or the hold lapses"},
		},
		Action: reserve,
	}
}

func reserve(c *cli.Context) error {
	console := di.InitializeConsole()
	ctx := guestContext(c)

	invoice, err := readInvoice(c.String(flagInvoice))
	if err != nil {
		return err
	}

	space, err := console.Spaces.Get(ctx, c.String(flagSpace))
	if err != nil {
		return fmt.Errorf("failed to load space: %w", err)
	}

	online := func(ctx context.Context) bool {
		ctx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()

		return console.DB.Ping(ctx) == nil
	}

	coord := console.Bookings.Begin(space,
		coordinator.WithAutoRetry(c.Int(flagRetry)),
		coordinator.WithConnectivity(online),
	)

	if _, err = coord.SelectDate(ctx, c.String(flagDate)); err != nil {
		return err
	}

	spots, err := coord.SelectRange(ctx, c.String(flagStart), c.String(flagEnd))
	if err != nil {
		return err
	}

	fmt.Printf("%d of %d spots left\n", spots, space.MaxCapacity)

	if err = coord.SetGuests(c.Int(flagGuests)); err != nil {
		return err
	}

	coord.AcceptPolicies(c.Bool(flagAccept))
	coord.RequestInvoice(invoice)

	outcome, err := coord.Confirm(ctx)
	if errors.Is(err, coordinator.ErrSlotTaken) {
		fmt.Println(err.Error())
		printSlots(coord.Slots())

		return cli.Exit("pick another range", 1)
	}

	if err != nil {
		return err
	}

	fmt.Printf("booking %s held until %s (%d attempt(s))\n", outcome.BookingID, outcome.ReservedUntil, outcome.Attempts)

	if !outcome.AwaitingPayment {
		fmt.Println("waiting for the host to approve")

		return nil
	}

	fmt.Printf("complete payment at %s\n", outcome.PaymentURL)

	interval := time.Duration(console.Config.Booking.PaymentPollSeconds) * time.Second
	if !c.Bool(flagWait) || interval <= 0 {
		return nil
	}

	waitCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	payment, err := awaitPayment(waitCtx, console.Bookings.SyncPayment, outcome.BookingID, interval)
	if err != nil {
		return err
	}

	fmt.Printf("booking %s is %s\n", payment.BookingID, payment.Status)

	return nil
}

// awaitPayment checks the checkout session of bookingID every interval until it is paid or the
// booking stops holding its range.
func awaitPayment(
	ctx context.Context,
	sync func(context.Context, string) (bookingDto.PaymentResponse, error),
	bookingID string,
	interval time.Duration,
) (bookingDto.PaymentResponse, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return bookingDto.PaymentResponse{}, fmt.Errorf("stopped waiting for payment: %w", ctx.Err())
		case <-ticker.C:
		}

		res, err := sync(ctx, bookingID)
		if err != nil {
			return res, fmt.Errorf("failed to check payment: %w", err)
		}

		if res.Paid || !res.Status.Blocking() {
			return res, nil
		}
	}
}

func eventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "follow booking events of the space until interrupted",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagGroup, Usage: "consumer group, defaults to the configured one"},
		},
		Action: func(c *cli.Context) error {
			console := di.InitializeConsole()
			spaceID := c.String(flagSpace)

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			console.Kafka.Consume(ctx, c.String(flagGroup), console.Config.Kafka.Topics.Booking, func(message kafkaGo.Message) {
				event, err := kafka.Decode[model.Event](message)
				if err != nil || event.SpaceID != spaceID {
					return
				}

				fmt.Printf("%s  %-18s %s %s-%s %s\n",
					event.OccurredAt.Format(time.RFC3339), event.Type, event.Date, event.StartTime, event.EndTime, event.BookingID)
			})

			return console.Kafka.Close()
		},
	}
}
