package fleet

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrFleetNotFound is returned when a fleet record is not found.
var ErrFleetNotFound = errors.New("fleet not found")

// Resolver resolves a fleet reference to its record. The SRP core only
// consumes this read side.
type Resolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Fleet, error)
}

// Repository provides operations on the fleets table.
type Repository interface {
	Resolver
	Create(ctx context.Context, f *Fleet) error
	List(ctx context.Context) ([]Fleet, error)
}
