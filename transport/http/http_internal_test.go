package http

import (
	"net/http"
	"net/http/httptest"
	"spacebook/config"
	"spacebook/infras/otel/mocks"
	"spacebook/permissions"
	"spacebook/transport/http/middleware"
	"spacebook/transport/http/router"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestServer() *HTTP {
	cfg := &config.Config{}
	cfg.App.CORS.Enable = true
	cfg.App.CORS.AllowedOrigins = []string{"*"}

	return New(
		cfg,
		router.New(router.DomainHandlers{}),
		middleware.NewAppMiddleware(mocks.NewOtel(), cfg, nil),
		middleware.NewAuthMiddleware(nil, mocks.NewOtel(), permissions.Get()),
	)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name  string
		state ServerState
		code  int
	}{
		{name: "ready", state: ServerStateReady, code: http.StatusOK},
		{name: "grace period", state: ServerStateInGracePeriod, code: http.StatusServiceUnavailable},
		{name: "cleanup period", state: ServerStateInCleanupPeriod, code: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer()
			server.setup()
			server.setState(tt.state)

			rec := httptest.NewRecorder()
			server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestPrivateRouteNeedsToken(t *testing.T) {
	server := newTestServer()

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/reservations/mine", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	server := newTestServer()

	rec := httptest.NewRecorder()
	server.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
