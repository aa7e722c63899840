package attendance

import (
	"time"
)

type Status string

const (
	StatusPresent Status = "present"
	StatusLate    Status = "late"
	StatusAbsent  Status = "absent"
	StatusPending Status = "pending"
)

// GeoLocation is a coordinate pair captured at check-in/check-out.
// Accuracy is in meters when the device reports it.
type GeoLocation struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
}

// Record is one slot in the attendance ledger, keyed (UserID, Date).
// At most one record exists per user per calendar day. Records are mutated
// in place (check-out added, absence reason edited) but never deleted.
type Record struct {
	ID               string
	UserID           string
	Date             string // YYYY-MM-DD, local day
	CheckInTime      *time.Time
	CheckOutTime     *time.Time
	CheckInLocation  *GeoLocation
	CheckOutLocation *GeoLocation
	Status           Status
	AbsenceReason    *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// DateFormat is the ledger's calendar-day key format.
const DateFormat = "2006-01-02"

// DateOf returns the ledger day key for a timestamp.
func DateOf(t time.Time) string {
	return t.Format(DateFormat)
}
