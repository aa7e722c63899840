package auth

import "context"

// AuthService is the session store boundary: it authenticates credentials,
// issues and refreshes tokens, and resolves profiles. Role-based access
// decisions happen downstream from the identity it establishes.
type AuthService interface {
	// Login verifies credentials and issues an access/refresh token pair
	Login(ctx context.Context, req LoginRequest) (AuthResponse, error)

	// Register creates an employee-role account. Role is immutable afterward.
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)

	// Refresh rotates a refresh token into a fresh token pair
	Refresh(ctx context.Context, refreshToken string) (AuthResponse, error)

	// Logout revokes a refresh token
	Logout(ctx context.Context, refreshToken string) error
}
