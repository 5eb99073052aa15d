package router_test

import (
	"net/http"
	"spacebook/infras/otel/mocks"
	availabilityMocks "spacebook/internal/domains/availability/service/mocks"
	bookingMocks "spacebook/internal/domains/booking/service/mocks"
	"spacebook/internal/handlers/availability"
	"spacebook/internal/handlers/booking"
	"spacebook/transport/http/router"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestSetupRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)

	r := router.New(router.DomainHandlers{
		Availability: availability.New(availabilityMocks.NewMockAvailability(ctrl), mocks.NewOtel()),
		Booking:      booking.New(bookingMocks.NewMockBooking(ctrl), mocks.NewOtel()),
	})

	mux := chi.NewRouter()
	r.SetupRoutes(mux)

	var routes []string
	err := chi.Walk(mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		routes = append(routes, method+" "+route)

		return nil
	})
	require.NoError(t, err)

	for _, expected := range []string{
		"GET /v1/spaces/{id}/slots",
		"GET /v1/spaces/{id}/durations",
		"GET /v1/spaces/{id}/capacity",
		"GET /v1/spaces/{id}/quote",
		"POST /v1/reservations/",
		"GET /v1/reservations/mine",
		"GET /v1/reservations/{id}",
		"POST /v1/reservations/{id}/payment",
		"GET /v1/reservations/{id}/payment",
	} {
		assert.Contains(t, routes, expected)
	}
}
