package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn      = errors.New("you have already marked your attendance today")
	ErrNotCheckedIn          = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut     = errors.New("you have already checked out today")
	ErrCheckOutBeforeCheckIn = errors.New("check-out time cannot be before check-in time")

	// Location errors
	ErrLocationUnavailable = errors.New("unable to determine your location")

	// General errors
	ErrRecordNotFound = errors.New("attendance record not found")
)

// IneligibleError is returned when a check-in is not currently permitted.
// Reason is the user-facing message from the eligibility evaluator.
type IneligibleError struct {
	Reason string
}

func (e *IneligibleError) Error() string {
	return e.Reason
}

// Ineligible wraps an eligibility failure reason as an error.
func Ineligible(reason string) error {
	return &IneligibleError{Reason: reason}
}
