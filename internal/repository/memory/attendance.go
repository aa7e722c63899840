package memory

import (
	"context"
	"sync"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
	"github.com/google/uuid"
)

// attendanceRepository is the in-memory ledger used by demo mode and tests.
// Records live in a slice so List preserves insertion order; byKey indexes
// the (userID, date) slot so Insert can act as a compare-and-set under the
// mutex, guaranteeing one checked-in record per user per day no matter how
// many devices race.
type attendanceRepository struct {
	mu    sync.RWMutex
	recs  []attendance.Record
	byKey map[string]int // (userID|date) -> index into recs
	byID  map[string]int
}

func NewAttendanceRepository() attendance.Repository {
	return &attendanceRepository{
		byKey: make(map[string]int),
		byID:  make(map[string]int),
	}
}

func slotKey(userID, date string) string {
	return userID + "|" + date
}

// Insert implements attendance.Repository.
func (r *attendanceRepository) Insert(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := slotKey(rec.UserID, rec.Date)
	if idx, ok := r.byKey[key]; ok {
		existing := r.recs[idx]
		if existing.CheckInTime != nil {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		// The day's slot already exists without a check-in (an absence
		// report that raced this insert); fold into it instead of
		// creating a duplicate.
		rec.ID = existing.ID
		rec.CreatedAt = existing.CreatedAt
		if rec.AbsenceReason == nil {
			rec.AbsenceReason = existing.AbsenceReason
		}
		r.recs[idx] = rec
		return rec, nil
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	r.recs = append(r.recs, rec)
	r.byKey[key] = len(r.recs) - 1
	r.byID[rec.ID] = len(r.recs) - 1
	return rec, nil
}

// Update implements attendance.Repository.
func (r *attendanceRepository) Update(ctx context.Context, rec attendance.Record) (attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, ok := r.byID[rec.ID]
	if !ok {
		return attendance.Record{}, attendance.ErrRecordNotFound
	}

	// The slot key is immutable; only the record's contents change
	rec.UserID = r.recs[idx].UserID
	rec.Date = r.recs[idx].Date
	rec.CreatedAt = r.recs[idx].CreatedAt
	r.recs[idx] = rec
	return rec, nil
}

// GetByUserAndDate implements attendance.Repository.
func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date string) (*attendance.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byKey[slotKey(userID, date)]
	if !ok {
		return nil, nil
	}

	rec := r.recs[idx]
	return &rec, nil
}

// List implements attendance.Repository. Linear scan in insertion order;
// the ledger is small enough that no index is worth its upkeep.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]attendance.Record, 0, len(r.recs))
	for _, rec := range r.recs {
		if filter.Matches(rec) {
			result = append(result, rec)
		}
	}
	return result, nil
}
