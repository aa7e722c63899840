package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/pkg/geolocation"
)

type AttendanceServiceImpl struct {
	repo            attendance.Repository
	userRepo        user.UserRepository
	rules           attendance.Rules
	resolver        geolocation.Resolver
	locationTimeout time.Duration
	now             func() time.Time
}

// NewAttendanceService builds the attendance service. now is injected so
// eligibility and status classification stay deterministic under test; pass
// time.Now in production wiring.
func NewAttendanceService(
	repo attendance.Repository,
	userRepo user.UserRepository,
	rules attendance.Rules,
	resolver geolocation.Resolver,
	locationTimeout time.Duration,
	now func() time.Time,
) attendance.Service {
	if now == nil {
		now = time.Now
	}
	return &AttendanceServiceImpl{
		repo:            repo,
		userRepo:        userRepo,
		rules:           rules,
		resolver:        resolver,
		locationTimeout: locationTimeout,
		now:             now,
	}
}

// Status implements attendance.Service.
func (s *AttendanceServiceImpl) Status(ctx context.Context, identity user.Identity) (attendance.StatusResponse, error) {
	if identity.IsZero() {
		return attendance.StatusResponse{}, user.ErrNotAuthenticated
	}

	now := s.now()
	existing, err := s.repo.GetByUserAndDate(ctx, identity.ID, attendance.DateOf(now))
	if err != nil {
		return attendance.StatusResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	elig := s.rules.CanCheckIn(now, identity, existing)

	resp := attendance.StatusResponse{
		CanCheckIn: elig.Allowed,
		Message:    elig.Reason,
	}
	if existing != nil {
		mapped := mapRecordToResponse(*existing)
		resp.TodayAttendance = &mapped
	}
	return resp, nil
}

// CheckIn implements attendance.Service.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, identity user.Identity, req attendance.CheckInRequest) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	now := s.now()
	today := attendance.DateOf(now)

	existing, err := s.repo.GetByUserAndDate(ctx, identity.ID, today)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	// Eligibility first: a rejected check-in never touches the location
	// resolver or computes a status
	if elig := s.rules.CanCheckIn(now, identity, existing); !elig.Allowed {
		return attendance.RecordResponse{}, attendance.Ineligible(elig.Reason)
	}

	loc := req.Location()
	if loc == nil {
		resolved, err := geolocation.ResolveWithTimeout(ctx, s.resolver, s.locationTimeout)
		if err != nil {
			return attendance.RecordResponse{}, fmt.Errorf("%w: %v", attendance.ErrLocationUnavailable, err)
		}
		loc = &resolved
	}

	status := s.rules.StatusAt(now)
	checkIn := now

	if existing != nil {
		// The day's slot exists without a check-in (an earlier absence
		// report). Stamp the check-in onto it; the reported reason stays
		// on the record for the audit trail.
		existing.CheckInTime = &checkIn
		existing.CheckInLocation = loc
		existing.Status = status
		existing.UpdatedAt = now

		updated, err := s.repo.Update(ctx, *existing)
		if err != nil {
			return attendance.RecordResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
		}
		return mapRecordToResponse(updated), nil
	}

	rec := attendance.Record{
		UserID:          identity.ID,
		Date:            today,
		CheckInTime:     &checkIn,
		CheckInLocation: loc,
		Status:          status,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	inserted, err := s.repo.Insert(ctx, rec)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			// Lost the compare-and-set race against another device
			return attendance.RecordResponse{}, attendance.Ineligible(attendance.ReasonAlreadyMarked)
		}
		return attendance.RecordResponse{}, fmt.Errorf("failed to insert attendance record: %w", err)
	}

	return mapRecordToResponse(inserted), nil
}

// CheckOut implements attendance.Service.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, identity user.Identity, req attendance.CheckOutRequest) (attendance.RecordResponse, error) {
	if identity.IsZero() {
		return attendance.RecordResponse{}, user.ErrNotAuthenticated
	}
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	now := s.now()
	existing, err := s.repo.GetByUserAndDate(ctx, identity.ID, attendance.DateOf(now))
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	if existing == nil || existing.CheckInTime == nil {
		return attendance.RecordResponse{}, attendance.ErrNotCheckedIn
	}
	if existing.CheckOutTime != nil {
		return attendance.RecordResponse{}, attendance.ErrAlreadyCheckedOut
	}
	if now.Before(*existing.CheckInTime) {
		return attendance.RecordResponse{}, attendance.ErrCheckOutBeforeCheckIn
	}

	// Check-out location is best effort: a failed lookup never blocks
	// leaving work
	loc := req.Location()
	if loc == nil && s.resolver != nil {
		if resolved, err := geolocation.ResolveWithTimeout(ctx, s.resolver, s.locationTimeout); err == nil {
			loc = &resolved
		}
	}

	checkOut := now
	existing.CheckOutTime = &checkOut
	existing.CheckOutLocation = loc
	existing.UpdatedAt = now

	updated, err := s.repo.Update(ctx, *existing)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
	}

	return mapRecordToResponse(updated), nil
}

// SubmitAbsence implements attendance.Service. When the day already has a
// record the absence overwrites status and reason but keeps any recorded
// check-in/check-out untouched.
func (s *AttendanceServiceImpl) SubmitAbsence(ctx context.Context, identity user.Identity, req attendance.AbsenceRequest) (attendance.RecordResponse, error) {
	if identity.IsZero() {
		return attendance.RecordResponse{}, user.ErrNotAuthenticated
	}
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	now := s.now()
	reason := strings.TrimSpace(req.Reason)

	existing, err := s.repo.GetByUserAndDate(ctx, identity.ID, req.Date)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to get attendance record: %w", err)
	}

	if existing != nil {
		existing.Status = attendance.StatusAbsent
		existing.AbsenceReason = &reason
		existing.UpdatedAt = now

		updated, err := s.repo.Update(ctx, *existing)
		if err != nil {
			return attendance.RecordResponse{}, fmt.Errorf("failed to update attendance record: %w", err)
		}
		return mapRecordToResponse(updated), nil
	}

	rec := attendance.Record{
		UserID:        identity.ID,
		Date:          req.Date,
		Status:        attendance.StatusAbsent,
		AbsenceReason: &reason,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	inserted, err := s.repo.Insert(ctx, rec)
	if err != nil {
		return attendance.RecordResponse{}, fmt.Errorf("failed to insert attendance record: %w", err)
	}

	return mapRecordToResponse(inserted), nil
}

// GetMyAttendance implements attendance.Service.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, identity user.Identity, filter attendance.Filter) (attendance.ListResponse, error) {
	if identity.IsZero() {
		return attendance.ListResponse{}, user.ErrNotAuthenticated
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListResponse{}, err
	}

	// Own records only, whatever the filter says
	filter.UserID = &identity.ID
	filter.Department = nil
	filter.UserIDs = nil

	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return attendance.ListResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	return mapRecordsToListResponse(records), nil
}

// ListAttendance implements attendance.Service. Cross-user reads are an
// admin capability, asserted here at the query boundary rather than inside
// the ledger.
func (s *AttendanceServiceImpl) ListAttendance(ctx context.Context, identity user.Identity, filter attendance.Filter) (attendance.ListResponse, error) {
	if identity.IsZero() {
		return attendance.ListResponse{}, user.ErrNotAuthenticated
	}
	if !identity.IsAdmin() {
		return attendance.ListResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := filter.Validate(); err != nil {
		return attendance.ListResponse{}, err
	}

	if err := s.resolveDepartment(ctx, &filter); err != nil {
		return attendance.ListResponse{}, err
	}

	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return attendance.ListResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	return mapRecordsToListResponse(records), nil
}

// Stats implements attendance.Service.
func (s *AttendanceServiceImpl) Stats(ctx context.Context, identity user.Identity, filter attendance.Filter) (attendance.StatsResponse, error) {
	if identity.IsZero() {
		return attendance.StatsResponse{}, user.ErrNotAuthenticated
	}
	if !identity.IsAdmin() {
		return attendance.StatsResponse{}, user.ErrAdminPrivilegeRequired
	}
	if err := filter.Validate(); err != nil {
		return attendance.StatsResponse{}, err
	}

	if err := s.resolveDepartment(ctx, &filter); err != nil {
		return attendance.StatsResponse{}, err
	}

	records, err := s.repo.List(ctx, filter)
	if err != nil {
		return attendance.StatsResponse{}, fmt.Errorf("failed to list attendance records: %w", err)
	}

	stats := attendance.StatsResponse{Total: len(records)}
	for _, rec := range records {
		switch rec.Status {
		case attendance.StatusPresent:
			stats.Present++
		case attendance.StatusLate:
			stats.Late++
		case attendance.StatusAbsent:
			stats.Absent++
		}
	}
	if stats.Total > 0 {
		stats.AttendanceRate = float64(stats.Present+stats.Late) / float64(stats.Total) * 100
	}

	return stats, nil
}

// resolveDepartment expands a department filter into the user-ID set the
// ledger can match on. The ledger itself never joins against users.
func (s *AttendanceServiceImpl) resolveDepartment(ctx context.Context, filter *attendance.Filter) error {
	if filter.Department == nil || *filter.Department == "" {
		return nil
	}

	ids, err := s.userRepo.ListIDsByDepartment(ctx, *filter.Department)
	if err != nil {
		return fmt.Errorf("failed to resolve department filter: %w", err)
	}

	filter.UserIDs = ids
	filter.Department = nil
	return nil
}

// timePtrToString safely converts a *time.Time to an RFC3339 string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}

// mapRecordToResponse converts a ledger Record to its response DTO
func mapRecordToResponse(rec attendance.Record) attendance.RecordResponse {
	return attendance.RecordResponse{
		ID:               rec.ID,
		UserID:           rec.UserID,
		Date:             rec.Date,
		CheckInTime:      timePtrToString(rec.CheckInTime),
		CheckOutTime:     timePtrToString(rec.CheckOutTime),
		CheckInLocation:  rec.CheckInLocation,
		CheckOutLocation: rec.CheckOutLocation,
		Status:           string(rec.Status),
		AbsenceReason:    rec.AbsenceReason,
		CreatedAt:        rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        rec.UpdatedAt.Format(time.RFC3339),
	}
}

func mapRecordsToListResponse(records []attendance.Record) attendance.ListResponse {
	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, mapRecordToResponse(rec))
	}
	return attendance.ListResponse{
		TotalCount: len(responses),
		Records:    responses,
	}
}
