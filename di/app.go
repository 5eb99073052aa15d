package di

import (
	"spacebook/config"
	"spacebook/infras/kafka"
	"spacebook/infras/otel"
	"spacebook/infras/postgres"
	"spacebook/internal/domains/booking/coordinator"
	spaceService "spacebook/internal/domains/space/service"
	"spacebook/transport/cron"
	"spacebook/transport/http"
)

// App is the long running server: the HTTP API plus the hold sweeper.
type App struct {
	Config *config.Config
	DB     *postgres.Connection
	Kafka  kafka.Client
	Otel   otel.Otel
	HTTP   *http.HTTP
	Cron   *cron.Cron
}

// Console drives booking attempts from a terminal against the same services the API uses.
type Console struct {
	Config   *config.Config
	DB       *postgres.Connection
	Kafka    kafka.Client
	Spaces   spaceService.Space
	Bookings coordinator.Local
}
