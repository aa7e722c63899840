package attendance

import (
	"context"

	"github.com/attendly/attendance-backend-go/internal/domain/user"
)

// Service defines business logic for attendance operations. Every method
// takes the authenticated identity explicitly; callers are responsible for
// having verified it.
type Service interface {
	// Status reports whether the identity can check in right now, with the
	// reason and today's record if any
	Status(ctx context.Context, identity user.Identity) (StatusResponse, error)

	// CheckIn marks attendance for today. Fails with *IneligibleError when
	// the cutoff has passed or today is already marked, and with
	// ErrLocationUnavailable when no location can be obtained.
	CheckIn(ctx context.Context, identity user.Identity, req CheckInRequest) (RecordResponse, error)

	// CheckOut stamps the check-out time on today's open record
	CheckOut(ctx context.Context, identity user.Identity, req CheckOutRequest) (RecordResponse, error)

	// SubmitAbsence reports an absence for a date. Creates the day's record
	// if missing; otherwise overwrites status and reason, preserving any
	// recorded check-in. Idempotent on repeated identical calls.
	SubmitAbsence(ctx context.Context, identity user.Identity, req AbsenceRequest) (RecordResponse, error)

	// GetMyAttendance retrieves the identity's own records
	GetMyAttendance(ctx context.Context, identity user.Identity, filter Filter) (ListResponse, error)

	// ListAttendance retrieves records across users (admin only)
	ListAttendance(ctx context.Context, identity user.Identity, filter Filter) (ListResponse, error)

	// Stats aggregates present/late/absent counts over a filtered set (admin only)
	Stats(ctx context.Context, identity user.Identity, filter Filter) (StatsResponse, error)
}
