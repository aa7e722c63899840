package attendance

import (
	"github.com/attendly/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CheckInRequest struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Latitude != nil && (*r.Latitude < -90 || *r.Latitude > 90) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}

	if r.Longitude != nil && (*r.Longitude < -180 || *r.Longitude > 180) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if (r.Latitude == nil) != (r.Longitude == nil) {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "latitude and longitude must be supplied together",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Location returns the coordinate pair, or nil when the client did not
// supply one (acquisition then falls to the server-side resolver).
func (r *CheckInRequest) Location() *GeoLocation {
	if r.Latitude == nil || r.Longitude == nil {
		return nil
	}
	return &GeoLocation{Latitude: *r.Latitude, Longitude: *r.Longitude, Accuracy: r.Accuracy}
}

type CheckOutRequest struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
}

func (r *CheckOutRequest) Validate() error {
	in := CheckInRequest{Latitude: r.Latitude, Longitude: r.Longitude, Accuracy: r.Accuracy}
	return in.Validate()
}

func (r *CheckOutRequest) Location() *GeoLocation {
	in := CheckInRequest{Latitude: r.Latitude, Longitude: r.Longitude, Accuracy: r.Accuracy}
	return in.Location()
}

type AbsenceRequest struct {
	Date   string `json:"date"` // YYYY-MM-DD
	Reason string `json:"reason"`
}

func (r *AbsenceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Date) {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date is required",
		})
	} else if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "absence reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Filter is an optional-field query descriptor over the ledger.
// All present fields are ANDed; absent fields impose no constraint.
type Filter struct {
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD, date >= start
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD, date <= end
	Status     *string `json:"status,omitempty"`
	UserID     *string `json:"user_id,omitempty"`
	Department *string `json:"department,omitempty"`

	// UserIDs is the resolved form of Department: the service expands the
	// department into a user-ID set before the filter reaches the ledger.
	// Never set by callers.
	UserIDs []string `json:"-"`
}

func (f *Filter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil {
		validStatuses := []string{"present", "absent", "late", "pending"}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: present, absent, late, pending",
			})
		}
	}

	if f.StartDate != nil && *f.StartDate != "" {
		if _, valid := validator.IsValidDate(*f.StartDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}

	if f.EndDate != nil && *f.EndDate != "" {
		if _, valid := validator.IsValidDate(*f.EndDate); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// Matches reports whether a record passes every present filter field.
// Department must already be resolved into UserIDs.
func (f *Filter) Matches(rec Record) bool {
	if f.StartDate != nil && rec.Date < *f.StartDate {
		return false
	}
	if f.EndDate != nil && rec.Date > *f.EndDate {
		return false
	}
	if f.Status != nil && string(rec.Status) != *f.Status {
		return false
	}
	if f.UserID != nil && rec.UserID != *f.UserID {
		return false
	}
	if f.UserIDs != nil {
		found := false
		for _, id := range f.UserIDs {
			if rec.UserID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

type RecordResponse struct {
	ID               string       `json:"id"`
	UserID           string       `json:"user_id"`
	Date             string       `json:"date"`
	CheckInTime      *string      `json:"check_in_time,omitempty"`
	CheckOutTime     *string      `json:"check_out_time,omitempty"`
	CheckInLocation  *GeoLocation `json:"check_in_location,omitempty"`
	CheckOutLocation *GeoLocation `json:"check_out_location,omitempty"`
	Status           string       `json:"status"`
	AbsenceReason    *string      `json:"absence_reason,omitempty"`
	CreatedAt        string       `json:"created_at"`
	UpdatedAt        string       `json:"updated_at"`
}

type ListResponse struct {
	TotalCount int              `json:"total_count"`
	Records    []RecordResponse `json:"records"`
}

type StatusResponse struct {
	CanCheckIn      bool            `json:"can_check_in"`
	Message         string          `json:"message"`
	TodayAttendance *RecordResponse `json:"today_attendance,omitempty"`
}

type StatsResponse struct {
	Total          int     `json:"total"`
	Present        int     `json:"present"`
	Late           int     `json:"late"`
	Absent         int     `json:"absent"`
	AttendanceRate float64 `json:"attendance_rate"`
}
