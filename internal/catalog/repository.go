package catalog

import (
	"context"
	"errors"
)

// ErrItemNotFound is returned when an asset type is not in the catalog.
var ErrItemNotFound = errors.New("asset type not found")

// ErrDuplicateTypeID is returned when an asset type with the same id already exists.
var ErrDuplicateTypeID = errors.New("asset type id already exists")

// Resolver maps an asset-type id to its catalog entry. The SRP core only
// consumes this read side.
type Resolver interface {
	Resolve(ctx context.Context, typeID string) (*Item, error)
}

// Repository provides operations on the asset_types table.
type Repository interface {
	Resolver
	Create(ctx context.Context, item *Item) error
	List(ctx context.Context) ([]Item, error)
}
