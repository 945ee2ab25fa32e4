package models

import "fmt"

// Transitions is the table of allowed status changes keyed by current status.
// The empty status stands for a record that has never been saved.
//
// Every saved status may move to any other status so an administrator can
// correct a mistake. Moving back to pending sends the request emails again.
var Transitions = map[AppointmentStatus][]AppointmentStatus{
	"":              {StatusPending},
	StatusPending:   {StatusConfirmed, StatusRejected, StatusCompleted, StatusCancelled},
	StatusConfirmed: {StatusPending, StatusRejected, StatusCompleted, StatusCancelled},
	StatusRejected:  {StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled},
	StatusCompleted: {StatusPending, StatusConfirmed, StatusRejected, StatusCancelled},
	StatusCancelled: {StatusPending, StatusConfirmed, StatusRejected, StatusCompleted},
}

// TransitionError reports a status pair the table does not allow.
type TransitionError struct {
	From AppointmentStatus
	To   AppointmentStatus
}

func (e *TransitionError) Error() string {
	from := string(e.From)
	if from == "" {
		from = "new"
	}
	return fmt.Sprintf("invalid transition from %s to %s", from, e.To)
}

// Transition checks the requested status against the table and returns it when
// the move is allowed.
func Transition(from, to AppointmentStatus) (AppointmentStatus, error) {
	if !to.Valid() {
		return from, &TransitionError{From: from, To: to}
	}
	for _, allowed := range Transitions[from] {
		if allowed == to {
			return to, nil
		}
	}
	return from, &TransitionError{From: from, To: to}
}

// RequiresAcknowledgement reports whether leaving from for to must be
// confirmed by the operator first. Confirmed and rejected have already been
// emailed to the customer.
func RequiresAcknowledgement(from, to AppointmentStatus) bool {
	if from == to {
		return false
	}
	return from == StatusConfirmed || from == StatusRejected
}
