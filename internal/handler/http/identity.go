package http

import (
	"context"

	"github.com/attendly/attendance-backend-go/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// identityFromContext builds the caller's identity from verified JWT claims.
// Services receive only this value; claims never cross the handler boundary.
func identityFromContext(ctx context.Context) (user.Identity, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return user.Identity{}, user.ErrNotAuthenticated
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Identity{}, user.ErrNotAuthenticated
	}

	role, _ := claims["role"].(string)

	return user.Identity{ID: userID, Role: user.Role(role)}, nil
}
