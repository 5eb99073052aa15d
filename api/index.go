package handler

import (
	"net/http"
	"spacebook/config"
	"spacebook/di"
	"spacebook/shared/logger"
	transport "spacebook/transport/http"
	"sync"
)

var (
	server *transport.HTTP
	once   sync.Once
)

// Handler serves the API from a serverless runtime. Holds are still released inside every claim
// transaction, so no sweeper is needed there.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger(cfg)

		logger.SetLogLevel(cfg)

		server = di.InitializeService()
	})

	server.ServeHTTP(w, r)
}
