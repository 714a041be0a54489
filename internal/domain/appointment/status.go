package appointment

import "github.com/BruksfildServices01/barber-booking/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCompleted, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func ParseStatus(s string) (Status, bool) {
	switch st := Status(s); st {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return st, true
	}
	return "", false
}

// ===============================
// Validations
// ===============================

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition allows staying in the same non-terminal status.
func CanTransition(from, to Status) error {
	if from == to && !from.Terminal() {
		return nil
	}
	for _, next := range transitions[from] {
		if next == to {
			return nil
		}
	}
	return httperr.ErrInvalidState("cannot move appointment from " + string(from) + " to " + string(to))
}

func CanCancel(current Status) error {
	return CanTransition(current, StatusCancelled)
}

func CanComplete(current Status) error {
	return CanTransition(current, StatusCompleted)
}

// InitialStatus validates the status requested at creation. Empty means pending.
func InitialStatus(requested string) (Status, error) {
	if requested == "" {
		return StatusPending, nil
	}
	st, ok := ParseStatus(requested)
	if !ok || st.Terminal() {
		return "", httperr.ErrInvalidInput("initial status must be pending or confirmed")
	}
	return st, nil
}
