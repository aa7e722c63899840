package attendance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/attendly/attendance-backend-go/internal/pkg/geolocation"
	"github.com/attendly/attendance-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResolver struct {
	loc attendance.GeoLocation
	err error
}

func (s stubResolver) Resolve(ctx context.Context) (attendance.GeoLocation, error) {
	return s.loc, s.err
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

// at returns a wall-clock instant on a fixed test day.
func at(hour, min int) time.Time {
	return time.Date(2024, 1, 10, hour, min, 0, 0, time.UTC)
}

func f64Ptr(v float64) *float64 { return &v }
func strPtr(v string) *string   { return &v }

func newTestService(now time.Time, resolver geolocation.Resolver) (attendance.Service, attendance.Repository, user.UserRepository) {
	repo := memory.NewAttendanceRepository()
	userRepo := memory.NewUserRepository()
	svc := NewAttendanceService(repo, userRepo, attendance.DefaultRules(), resolver, time.Second, fixedClock(now))
	return svc, repo, userRepo
}

var (
	employee = user.Identity{ID: "U1", Role: user.RoleEmployee}
	admin    = user.Identity{ID: "A1", Role: user.RoleAdmin}
)

func TestCheckIn_StatusClassification(t *testing.T) {
	tests := []struct {
		name       string
		now        time.Time
		wantStatus string
	}{
		{name: "before late threshold is present", now: at(8, 59), wantStatus: "present"},
		{name: "exactly at late threshold is late", now: at(9, 0), wantStatus: "late"},
		{name: "last minute before cutoff is late", now: at(9, 59), wantStatus: "late"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(tt.now, nil)

			resp, err := svc.CheckIn(context.Background(), employee, attendance.CheckInRequest{
				Latitude:  f64Ptr(40.0),
				Longitude: f64Ptr(-74.0),
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Equal(t, "2024-01-10", resp.Date)
			require.NotNil(t, resp.CheckInTime)
			assert.Equal(t, tt.now.Format(time.RFC3339), *resp.CheckInTime)
		})
	}
}

func TestCheckIn_AfterCutoff(t *testing.T) {
	svc, _, _ := newTestService(at(10, 0), nil)

	_, err := svc.CheckIn(context.Background(), employee, attendance.CheckInRequest{
		Latitude:  f64Ptr(40.0),
		Longitude: f64Ptr(-74.0),
	})

	var ineligible *attendance.IneligibleError
	require.ErrorAs(t, err, &ineligible)
	assert.Equal(t, "Attendance can only be marked before 10:00 AM", ineligible.Reason)
}

func TestCheckIn_AlreadyMarked(t *testing.T) {
	svc, _, _ := newTestService(at(8, 30), nil)
	req := attendance.CheckInRequest{Latitude: f64Ptr(40.0), Longitude: f64Ptr(-74.0)}

	_, err := svc.CheckIn(context.Background(), employee, req)
	require.NoError(t, err)

	_, err = svc.CheckIn(context.Background(), employee, req)
	var ineligible *attendance.IneligibleError
	require.ErrorAs(t, err, &ineligible)
	assert.Equal(t, attendance.ReasonAlreadyMarked, ineligible.Reason)
}

func TestCheckIn_AnonymousIdentity(t *testing.T) {
	svc, _, _ := newTestService(at(8, 30), nil)

	_, err := svc.CheckIn(context.Background(), user.Identity{}, attendance.CheckInRequest{
		Latitude:  f64Ptr(40.0),
		Longitude: f64Ptr(-74.0),
	})

	var ineligible *attendance.IneligibleError
	require.ErrorAs(t, err, &ineligible)
	assert.Equal(t, attendance.ReasonNotLoggedIn, ineligible.Reason)
}

func TestCheckIn_ResolverFallback(t *testing.T) {
	resolver := stubResolver{loc: attendance.GeoLocation{Latitude: 40.0, Longitude: -74.0, Accuracy: f64Ptr(12.5)}}
	svc, _, _ := newTestService(at(8, 30), resolver)

	resp, err := svc.CheckIn(context.Background(), employee, attendance.CheckInRequest{})
	require.NoError(t, err)

	require.NotNil(t, resp.CheckInLocation)
	assert.Equal(t, 40.0, resp.CheckInLocation.Latitude)
	assert.Equal(t, -74.0, resp.CheckInLocation.Longitude)
}

func TestCheckIn_LocationUnavailable(t *testing.T) {
	resolver := stubResolver{err: errors.New("gps timeout")}
	svc, repo, _ := newTestService(at(8, 30), resolver)

	_, err := svc.CheckIn(context.Background(), employee, attendance.CheckInRequest{})
	require.ErrorIs(t, err, attendance.ErrLocationUnavailable)

	// A failed location lookup leaves no trace in the ledger
	rec, err := repo.GetByUserAndDate(context.Background(), employee.ID, "2024-01-10")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestCheckIn_InvalidCoordinates(t *testing.T) {
	svc, _, _ := newTestService(at(8, 30), nil)

	_, err := svc.CheckIn(context.Background(), employee, attendance.CheckInRequest{
		Latitude:  f64Ptr(91.0),
		Longitude: f64Ptr(-74.0),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude must be between -90 and 90")
}

func TestCheckIn_OverExistingAbsence(t *testing.T) {
	svc, _, _ := newTestService(at(8, 30), nil)

	_, err := svc.SubmitAbsence(context.Background(), employee, attendance.AbsenceRequest{
		Date:   "2024-01-10",
		Reason: "feeling unwell",
	})
	require.NoError(t, err)

	resp, err := svc.CheckIn(context.Background(), employee, attendance.CheckInRequest{
		Latitude:  f64Ptr(40.0),
		Longitude: f64Ptr(-74.0),
	})
	require.NoError(t, err)

	assert.Equal(t, "present", resp.Status)
	require.NotNil(t, resp.CheckInTime)
	// The earlier report stays on the record
	require.NotNil(t, resp.AbsenceReason)
	assert.Equal(t, "feeling unwell", *resp.AbsenceReason)
}

func TestCheckIn_ConcurrentSingleWinner(t *testing.T) {
	svc, repo, _ := newTestService(at(8, 30), nil)
	req := attendance.CheckInRequest{Latitude: f64Ptr(40.0), Longitude: f64Ptr(-74.0)}

	const devices = 16
	var wg sync.WaitGroup
	results := make([]error, devices)

	for i := 0; i < devices; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.CheckIn(context.Background(), employee, req)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
			continue
		}
		var ineligible *attendance.IneligibleError
		assert.ErrorAs(t, err, &ineligible)
	}
	assert.Equal(t, 1, succeeded)

	records, err := repo.List(context.Background(), attendance.Filter{UserID: &employee.ID})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestCheckOut(t *testing.T) {
	svc, _, _ := newTestService(at(8, 30), nil)
	ctx := context.Background()

	_, err := svc.CheckOut(ctx, employee, attendance.CheckOutRequest{})
	require.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	_, err = svc.CheckIn(ctx, employee, attendance.CheckInRequest{
		Latitude:  f64Ptr(40.0),
		Longitude: f64Ptr(-74.0),
	})
	require.NoError(t, err)

	resp, err := svc.CheckOut(ctx, employee, attendance.CheckOutRequest{})
	require.NoError(t, err)
	require.NotNil(t, resp.CheckOutTime)
	assert.Equal(t, at(8, 30).Format(time.RFC3339), *resp.CheckOutTime)

	_, err = svc.CheckOut(ctx, employee, attendance.CheckOutRequest{})
	require.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestSubmitAbsence_Validation(t *testing.T) {
	svc, _, _ := newTestService(at(8, 30), nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     attendance.AbsenceRequest
		wantMsg string
	}{
		{name: "missing reason", req: attendance.AbsenceRequest{Date: "2024-01-10"}, wantMsg: "absence reason is required"},
		{name: "whitespace reason", req: attendance.AbsenceRequest{Date: "2024-01-10", Reason: "   "}, wantMsg: "absence reason is required"},
		{name: "missing date", req: attendance.AbsenceRequest{Reason: "sick"}, wantMsg: "date is required"},
		{name: "malformed date", req: attendance.AbsenceRequest{Date: "10-01-2024", Reason: "sick"}, wantMsg: "date must be in YYYY-MM-DD format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SubmitAbsence(ctx, employee, tt.req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestSubmitAbsence_NewRecord(t *testing.T) {
	svc, _, _ := newTestService(at(8, 30), nil)

	resp, err := svc.SubmitAbsence(context.Background(), employee, attendance.AbsenceRequest{
		Date:   "2024-01-11",
		Reason: "  medical appointment  ",
	})
	require.NoError(t, err)

	assert.Equal(t, "absent", resp.Status)
	assert.Nil(t, resp.CheckInTime)
	require.NotNil(t, resp.AbsenceReason)
	assert.Equal(t, "medical appointment", *resp.AbsenceReason)
}

func TestSubmitAbsence_Idempotent(t *testing.T) {
	svc, repo, _ := newTestService(at(8, 30), nil)
	ctx := context.Background()
	req := attendance.AbsenceRequest{Date: "2024-01-11", Reason: "sick"}

	first, err := svc.SubmitAbsence(ctx, employee, req)
	require.NoError(t, err)

	second, err := svc.SubmitAbsence(ctx, employee, req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, *first.AbsenceReason, *second.AbsenceReason)

	records, err := repo.List(ctx, attendance.Filter{UserID: &employee.ID})
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSubmitAbsence_PreservesCheckIn(t *testing.T) {
	svc, _, _ := newTestService(at(8, 30), nil)
	ctx := context.Background()

	checkedIn, err := svc.CheckIn(ctx, employee, attendance.CheckInRequest{
		Latitude:  f64Ptr(40.0),
		Longitude: f64Ptr(-74.0),
	})
	require.NoError(t, err)

	resp, err := svc.SubmitAbsence(ctx, employee, attendance.AbsenceRequest{
		Date:   "2024-01-10",
		Reason: "leaving early, family emergency",
	})
	require.NoError(t, err)

	assert.Equal(t, "absent", resp.Status)
	require.NotNil(t, resp.CheckInTime)
	assert.Equal(t, *checkedIn.CheckInTime, *resp.CheckInTime)
	require.NotNil(t, resp.CheckInLocation)
}

func TestGetMyAttendance_OwnRecordsOnly(t *testing.T) {
	svc, repo, _ := newTestService(at(8, 30), nil)
	ctx := context.Background()

	other := user.Identity{ID: "U2", Role: user.RoleEmployee}
	seedRecord(t, repo, "U1", "2024-01-08", attendance.StatusPresent)
	seedRecord(t, repo, "U2", "2024-01-08", attendance.StatusLate)
	seedRecord(t, repo, "U1", "2024-01-09", attendance.StatusLate)

	// A crafted filter naming another user is ignored
	resp, err := svc.GetMyAttendance(ctx, employee, attendance.Filter{UserID: &other.ID})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.TotalCount)
	for _, rec := range resp.Records {
		assert.Equal(t, "U1", rec.UserID)
	}
}

func TestListAttendance_AdminOnly(t *testing.T) {
	svc, _, _ := newTestService(at(8, 30), nil)

	_, err := svc.ListAttendance(context.Background(), employee, attendance.Filter{})
	require.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)

	_, err = svc.Stats(context.Background(), employee, attendance.Filter{})
	require.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)
}

func TestListAttendance_Filtering(t *testing.T) {
	svc, repo, _ := newTestService(at(8, 30), nil)
	ctx := context.Background()

	seedRecord(t, repo, "U1", "2024-01-08", attendance.StatusPresent)
	seedRecord(t, repo, "U2", "2024-01-08", attendance.StatusLate)
	seedRecord(t, repo, "U1", "2024-01-09", attendance.StatusAbsent)
	seedRecord(t, repo, "U3", "2024-01-12", attendance.StatusPresent)

	tests := []struct {
		name   string
		filter attendance.Filter
		want   int
	}{
		{name: "no filter returns all", filter: attendance.Filter{}, want: 4},
		{name: "by status", filter: attendance.Filter{Status: strPtr("present")}, want: 2},
		{name: "by user", filter: attendance.Filter{UserID: strPtr("U1")}, want: 2},
		{name: "by date range", filter: attendance.Filter{StartDate: strPtr("2024-01-09"), EndDate: strPtr("2024-01-12")}, want: 2},
		{name: "combined", filter: attendance.Filter{UserID: strPtr("U1"), Status: strPtr("absent")}, want: 1},
		{name: "no match", filter: attendance.Filter{UserID: strPtr("U9")}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.ListAttendance(ctx, admin, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.TotalCount)
			assert.Len(t, resp.Records, tt.want)
		})
	}
}

func TestListAttendance_InvalidStatusFilter(t *testing.T) {
	svc, _, _ := newTestService(at(8, 30), nil)

	_, err := svc.ListAttendance(context.Background(), admin, attendance.Filter{Status: strPtr("vacationing")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status must be one of")
}

func TestListAttendance_DepartmentFilter(t *testing.T) {
	svc, repo, userRepo := newTestService(at(8, 30), nil)
	ctx := context.Background()

	eng := "Engineering"
	seedUser(t, userRepo, "U1", "u1@example.com", &eng)
	seedUser(t, userRepo, "U2", "u2@example.com", nil)

	seedRecord(t, repo, "U1", "2024-01-08", attendance.StatusPresent)
	seedRecord(t, repo, "U2", "2024-01-08", attendance.StatusPresent)

	resp, err := svc.ListAttendance(ctx, admin, attendance.Filter{Department: &eng})
	require.NoError(t, err)
	require.Equal(t, 1, resp.TotalCount)
	assert.Equal(t, "U1", resp.Records[0].UserID)

	// An unknown department matches nobody, not everybody
	sales := "Sales"
	resp, err = svc.ListAttendance(ctx, admin, attendance.Filter{Department: &sales})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.TotalCount)
}

func TestStats(t *testing.T) {
	svc, repo, _ := newTestService(at(8, 30), nil)

	seedRecord(t, repo, "U1", "2024-01-08", attendance.StatusPresent)
	seedRecord(t, repo, "U2", "2024-01-08", attendance.StatusLate)
	seedRecord(t, repo, "U3", "2024-01-08", attendance.StatusAbsent)
	seedRecord(t, repo, "U1", "2024-01-09", attendance.StatusPresent)

	stats, err := svc.Stats(context.Background(), admin, attendance.Filter{})
	require.NoError(t, err)

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Present)
	assert.Equal(t, 1, stats.Late)
	assert.Equal(t, 1, stats.Absent)
	assert.InDelta(t, 75.0, stats.AttendanceRate, 0.001)
}

func TestStats_Empty(t *testing.T) {
	svc, _, _ := newTestService(at(8, 30), nil)

	stats, err := svc.Stats(context.Background(), admin, attendance.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0.0, stats.AttendanceRate)
}

func TestStatus(t *testing.T) {
	svc, _, _ := newTestService(at(8, 30), nil)
	ctx := context.Background()

	resp, err := svc.Status(ctx, employee)
	require.NoError(t, err)
	assert.True(t, resp.CanCheckIn)
	assert.Equal(t, attendance.ReasonCanMark, resp.Message)
	assert.Nil(t, resp.TodayAttendance)

	_, err = svc.CheckIn(ctx, employee, attendance.CheckInRequest{
		Latitude:  f64Ptr(40.0),
		Longitude: f64Ptr(-74.0),
	})
	require.NoError(t, err)

	resp, err = svc.Status(ctx, employee)
	require.NoError(t, err)
	assert.False(t, resp.CanCheckIn)
	assert.Equal(t, attendance.ReasonAlreadyMarked, resp.Message)
	require.NotNil(t, resp.TodayAttendance)
	assert.Equal(t, "present", resp.TodayAttendance.Status)
}

// Morning walkthrough: check in at 08:30 with real coordinates and read the
// resulting record back through every surface that exposes it.
func TestCheckIn_MorningWalkthrough(t *testing.T) {
	svc, _, _ := newTestService(at(8, 30), nil)
	ctx := context.Background()

	resp, err := svc.CheckIn(ctx, employee, attendance.CheckInRequest{
		Latitude:  f64Ptr(40.0),
		Longitude: f64Ptr(-74.0),
	})
	require.NoError(t, err)

	assert.Equal(t, "U1", resp.UserID)
	assert.Equal(t, "2024-01-10", resp.Date)
	assert.Equal(t, "present", resp.Status)
	require.NotNil(t, resp.CheckInTime)
	assert.Equal(t, "2024-01-10T08:30:00Z", *resp.CheckInTime)
	require.NotNil(t, resp.CheckInLocation)
	assert.Equal(t, 40.0, resp.CheckInLocation.Latitude)
	assert.Equal(t, -74.0, resp.CheckInLocation.Longitude)
	assert.Nil(t, resp.CheckOutTime)
	assert.Nil(t, resp.AbsenceReason)

	mine, err := svc.GetMyAttendance(ctx, employee, attendance.Filter{})
	require.NoError(t, err)
	require.Equal(t, 1, mine.TotalCount)
	assert.Equal(t, resp.ID, mine.Records[0].ID)
}

func seedRecord(t *testing.T, repo attendance.Repository, userID, date string, status attendance.Status) {
	t.Helper()

	rec := attendance.Record{
		UserID:    userID,
		Date:      date,
		Status:    status,
		CreatedAt: at(8, 0),
		UpdatedAt: at(8, 0),
	}
	if status == attendance.StatusPresent || status == attendance.StatusLate {
		checkIn := at(8, 15)
		rec.CheckInTime = &checkIn
	}
	if status == attendance.StatusAbsent {
		reason := "seeded absence"
		rec.AbsenceReason = &reason
	}

	_, err := repo.Insert(context.Background(), rec)
	require.NoError(t, err)
}

func seedUser(t *testing.T, repo user.UserRepository, id, email string, department *string) {
	t.Helper()

	_, err := repo.Create(context.Background(), user.User{
		ID:         id,
		Email:      email,
		FirstName:  "Test",
		LastName:   "User",
		Role:       user.RoleEmployee,
		Department: department,
	})
	require.NoError(t, err)
}
