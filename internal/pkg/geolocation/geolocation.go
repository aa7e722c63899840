package geolocation

import (
	"context"
	"errors"
	"time"

	"github.com/attendly/attendance-backend-go/internal/domain/attendance"
)

var ErrUnavailable = errors.New("geolocation unavailable")

// Resolver obtains a coordinate pair for the current request when the client
// did not send one. Implementations must respect ctx cancellation; Resolve
// is always called with a deadline so a slow source fails instead of hanging.
type Resolver interface {
	Resolve(ctx context.Context) (attendance.GeoLocation, error)
}

// ResolveWithTimeout bounds a resolver call. A nil resolver and any resolver
// failure both surface as ErrUnavailable.
func ResolveWithTimeout(ctx context.Context, r Resolver, timeout time.Duration) (attendance.GeoLocation, error) {
	if r == nil {
		return attendance.GeoLocation{}, ErrUnavailable
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	loc, err := r.Resolve(ctx)
	if err != nil {
		return attendance.GeoLocation{}, errors.Join(ErrUnavailable, err)
	}
	return loc, nil
}

// StaticResolver always returns a fixed location. Used in demo mode, where
// no device sensor exists behind the API.
type StaticResolver struct {
	Location attendance.GeoLocation
}

func (s StaticResolver) Resolve(ctx context.Context) (attendance.GeoLocation, error) {
	select {
	case <-ctx.Done():
		return attendance.GeoLocation{}, ctx.Err()
	default:
		return s.Location, nil
	}
}
