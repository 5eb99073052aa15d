package coordinator

import "slices"

// State is a step of one booking attempt.
type State int

const (
	Idle State = iota
	DateSelected
	TimeSelected
	Reserving
	Confirmed
	Conflict
	FatalError
)

var stateNames = map[State]string{
	Idle:         "idle",
	DateSelected: "date_selected",
	TimeSelected: "time_selected",
	Reserving:    "reserving",
	Confirmed:    "confirmed",
	Conflict:     "conflict",
	FatalError:   "fatal_error",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}

	return "unknown"
}

// Terminal reports whether s is one of the outcomes of Reserving.
func (s State) Terminal() bool {
	return s == Confirmed || s == Conflict || s == FatalError
}

// transitions lists, per state, the states it may move to. Conflict is transient: recovery moves
// it straight back to TimeSelected. A fatal error keeps the date so the guest can pick again.
var transitions = map[State][]State{
	Idle:         {DateSelected},
	DateSelected: {DateSelected, TimeSelected},
	TimeSelected: {DateSelected, TimeSelected, Reserving},
	Reserving:    {Confirmed, Conflict, FatalError},
	Conflict:     {TimeSelected},
	FatalError:   {DateSelected, TimeSelected},
	Confirmed:    {},
}

func canTransition(from, to State) bool {
	return slices.Contains(transitions[from], to)
}

// ConfirmationType decides what a successful claim still needs before the booking is complete.
type ConfirmationType string

const (
	Instant      ConfirmationType = "instant"
	HostApproval ConfirmationType = "host_approval"
)

type completion struct {
	// requiresPayment means the claim is only a hold until the payment collaborator succeeds.
	requiresPayment bool
}

var completions = map[ConfirmationType]completion{
	Instant:      {requiresPayment: true},
	HostApproval: {requiresPayment: false},
}

// ParseConfirmationType maps a stored value onto a known type. Anything unrecognised books
// instantly.
func ParseConfirmationType(value string) ConfirmationType {
	if _, ok := completions[ConfirmationType(value)]; ok {
		return ConfirmationType(value)
	}

	return Instant
}

func (c ConfirmationType) completion() completion {
	return completions[ParseConfirmationType(string(c))]
}
