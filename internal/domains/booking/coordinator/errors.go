package coordinator

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("action not allowed in the current booking state")
	ErrStaleSelection    = errors.New("selection superseded by a newer one")
	ErrSlotTaken         = errors.New("this time slot was just booked by someone else, please pick another time")
	ErrOffline           = errors.New("no network connection, check your connection and try again")
)

// ValidationError blocks a confirmation before anything is written.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// StoreError is a rejection reported by the store other than a lost race. Message is shown to the
// guest as is.
type StoreError struct {
	Code    string
	Message string
}

func (e *StoreError) Error() string {
	return e.Message
}

func invalidTransition(from, to State) error {
	return fmt.Errorf("%w: %s to %s", ErrInvalidTransition, from, to)
}
