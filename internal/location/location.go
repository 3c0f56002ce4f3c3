// Package location provides the reference-location collaborators for proximity queries.
package location

import (
	"context"
	"errors"

	"github.com/aydeggy-dot/proximity/internal/geo"
)

// ErrPermissionDenied indicates the user has not granted location access.
// Consumers treat it as "no location available", never as a fetch failure.
var ErrPermissionDenied = errors.New("location permission denied")

// Provider supplies a best-effort current location. The returned coordinate
// may change between calls, and consumers must tolerate it being nil
// indefinitely.
type Provider interface {
	Current(ctx context.Context) (*geo.Coordinate, error)
}

// Static is a Provider that always returns the same coordinate. A zero-value
// pointer target is valid (the null island is a real place).
type Static struct {
	Coordinate geo.Coordinate
}

// NewStatic creates a provider fixed at the given coordinate.
func NewStatic(coord geo.Coordinate) *Static {
	return &Static{Coordinate: coord}
}

// Current implements Provider.
func (s *Static) Current(_ context.Context) (*geo.Coordinate, error) {
	coord := s.Coordinate
	return &coord, nil
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context) (*geo.Coordinate, error)

// Current implements Provider.
func (f ProviderFunc) Current(ctx context.Context) (*geo.Coordinate, error) {
	return f(ctx)
}

// None is a Provider with no location, mirroring a user who never grants
// the permission.
type None struct{}

// Current implements Provider.
func (None) Current(_ context.Context) (*geo.Coordinate, error) {
	return nil, ErrPermissionDenied
}
