package attendance

import (
	"fmt"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/user"
)

// Rules holds the local-time boundaries for marking attendance.
// A check-in at or after CutoffHour is rejected; one at or after LateHour
// (but before the cutoff) is classified late instead of present.
type Rules struct {
	CutoffHour int
	LateHour   int
}

func DefaultRules() Rules {
	return Rules{CutoffHour: 10, LateHour: 9}
}

// Eligibility is the outcome of a check-in permission check. Reason carries
// the user-facing message when Allowed is false.
type Eligibility struct {
	Allowed bool
	Reason  string
}

// User-facing eligibility messages.
const (
	ReasonNotLoggedIn   = "You must be logged in to mark attendance"
	ReasonAlreadyMarked = "You have already marked your attendance today"
	ReasonCanMark       = "You can mark your attendance now"
)

// CanCheckIn reports whether identity may check in at now, given the existing
// ledger record for today (nil if none). Pure: the clock and record are
// injected, nothing is read from the environment. Rules are evaluated in
// order and the first failure wins.
func (r Rules) CanCheckIn(now time.Time, identity user.Identity, existing *Record) Eligibility {
	if identity.IsZero() {
		return Eligibility{Allowed: false, Reason: ReasonNotLoggedIn}
	}

	if now.Hour() >= r.CutoffHour {
		cutoff := time.Date(0, 1, 1, r.CutoffHour, 0, 0, 0, time.UTC)
		return Eligibility{
			Allowed: false,
			Reason:  fmt.Sprintf("Attendance can only be marked before %s", cutoff.Format("3:04 PM")),
		}
	}

	if existing != nil && existing.CheckInTime != nil {
		return Eligibility{Allowed: false, Reason: ReasonAlreadyMarked}
	}

	return Eligibility{Allowed: true, Reason: ReasonCanMark}
}

// StatusAt classifies a permitted check-in time as present or late.
// The late threshold is strictly below the cutoff, so a rejected time never
// reaches this.
func (r Rules) StatusAt(now time.Time) Status {
	if now.Hour() >= r.LateHour {
		return StatusLate
	}
	return StatusPresent
}
