package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"    // Can view and export every user's attendance
	RoleEmployee Role = "employee" // Can only act on their own records
)

type User struct {
	ID           string
	Email        string
	PasswordHash *string
	FirstName    string
	LastName     string
	Role         Role
	Department   *string
	Position     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the authenticated principal handed to the attendance and report
// services. It is built by the HTTP layer from verified JWT claims; the
// services trust it and never read claims themselves.
type Identity struct {
	ID   string
	Role Role
}

// IsZero reports whether no authenticated user is present.
func (i Identity) IsZero() bool {
	return i.ID == ""
}

// IsAdmin checks if user has admin privileges
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Identity returns the principal for this user.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Role: u.Role}
}
