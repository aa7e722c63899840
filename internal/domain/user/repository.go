package user

import "context"

// UserRepository defines data access methods for users.
type UserRepository interface {
	// Create creates a new user. Role is fixed at creation and never updated.
	Create(ctx context.Context, u User) (User, error)

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id string) (User, error)

	// GetByEmail retrieves a user by email
	// Used by login
	GetByEmail(ctx context.Context, email string) (User, error)

	// ListIDsByDepartment returns the IDs of all users in a department.
	// Used to resolve department filters before they reach the ledger.
	ListIDsByDepartment(ctx context.Context, department string) ([]string, error)
}
