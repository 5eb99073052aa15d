package response

import (
	"encoding/json"
	"net/http"
	"spacebook/shared/constant"
	"spacebook/shared/failure"
	"spacebook/shared/logger"
	"strconv"
	"time"
)

// Data, Error and Message document the three envelope shapes for swagger. Every body written by
// this package is one of them.
type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

type Error struct {
	Error *string `json:"error,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

type envelope struct {
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, envelope{Message: message})
}

// WithJSON wraps payload in a data envelope.
func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, envelope{Data: payload})
}

// WithError writes err under the status carried by its failure.Failure, or 500 for anything else.
func WithError(writer http.ResponseWriter, err error) {
	write(writer, failure.GetCode(err), envelope{Error: err.Error()})
}

// WithRequestLimitExceeded answers 429 and tells the client when the window reopens.
func WithRequestLimitExceeded(writer http.ResponseWriter, window time.Duration) {
	retryAfter(writer, window)
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	writer.Header().Set(constant.ResponseHeaderConnection, "close")
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func retryAfter(writer http.ResponseWriter, wait time.Duration) {
	if wait <= 0 {
		return
	}

	writer.Header().Set(constant.ResponseHeaderRetryAfter, strconv.Itoa(int(wait.Round(time.Second)/time.Second)))
}

func write(writer http.ResponseWriter, code int, body envelope) {
	payload, err := json.Marshal(body)
	if err != nil {
		logger.ErrorWithStack(err)
		writer.WriteHeader(http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.Header().Set(constant.ResponseHeaderCacheControl, "no-store")
	writer.WriteHeader(code)

	if _, err = writer.Write(payload); err != nil {
		logger.ErrorWithStack(err)
	}
}
