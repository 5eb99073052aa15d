package failure

import (
	"errors"
	"net/http"
)

// Failure is an error that already knows which HTTP status it maps to.
type Failure struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var (
	InvalidDateParam = New(http.StatusBadRequest, "date must be formatted as YYYY-MM-DD")
	InvalidTimeParam = New(http.StatusBadRequest, "time must be formatted as HH:MM")
)

func New(code int, message string) *Failure {
	return &Failure{Code: code, Message: message}
}

func (e *Failure) Error() string {
	return e.Message
}

// fromError keeps nil as nil so callers can wrap unconditionally.
func fromError(code int, err error) error {
	if err == nil {
		return nil
	}

	return New(code, err.Error())
}

func BadRequest(err error) error {
	return fromError(http.StatusBadRequest, err)
}

func BadRequestFromString(msg string) error {
	return New(http.StatusBadRequest, msg)
}

func Unauthorized(msg string) error {
	return New(http.StatusUnauthorized, msg)
}

func Forbidden(msg string) error {
	return New(http.StatusForbidden, msg)
}

// NotFound reports a missing entity, e.g. NotFound("space not found").
func NotFound(msg string) error {
	return New(http.StatusNotFound, msg)
}

// Conflict is used when a claim lost the race for a time range.
func Conflict(msg string) error {
	return New(http.StatusConflict, msg)
}

// Unprocessable is a well formed request that cannot be honoured, such as too many guests.
func Unprocessable(msg string) error {
	return New(http.StatusUnprocessableEntity, msg)
}

func InternalError(err error) error {
	return fromError(http.StatusInternalServerError, err)
}

// GetCode returns the status carried by the first Failure in err's chain, or 500.
func GetCode(err error) int {
	var fail *Failure
	if errors.As(err, &fail) {
		return fail.Code
	}

	return http.StatusInternalServerError
}
