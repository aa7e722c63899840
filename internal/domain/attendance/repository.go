package attendance

import (
	"context"
)

// Repository defines data access for the attendance ledger. The ledger is
// append/update only: records are never deleted, so no Delete method exists.
type Repository interface {
	// Insert creates a new record. The (UserID, Date) key must be free of a
	// checked-in record: implementations act as a compare-and-set so that
	// concurrent check-ins for the same day create exactly one record.
	// Returns ErrAlreadyCheckedIn when the slot is already taken.
	Insert(ctx context.Context, rec Record) (Record, error)

	// Update mutates an existing record in place.
	// Returns ErrRecordNotFound when the ID does not exist.
	Update(ctx context.Context, rec Record) (Record, error)

	// GetByUserAndDate retrieves the record for a (user, day) slot.
	// Returns (nil, nil) when no record exists.
	GetByUserAndDate(ctx context.Context, userID string, date string) (*Record, error)

	// List retrieves records passing the filter, in stable insertion order.
	// An empty filter returns the full ledger.
	List(ctx context.Context, filter Filter) ([]Record, error)
}
