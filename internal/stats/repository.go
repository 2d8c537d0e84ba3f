package stats

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository answers aggregate queries over requests and audit entries. It is
// read-only; everything it reports is derived from committed state.
type Repository interface {
	// PendingCount counts requests with status pending, optionally scoped to
	// one submitter.
	PendingCount(ctx context.Context, ownerID *uuid.UUID) (int, error)

	// ApprovedSince counts approved audit entries at or after the given time.
	ApprovedSince(ctx context.Context, since time.Time) (int, error)

	// TotalPaidOut sums payout amounts over requests whose audit log contains
	// a paid entry. Approved-but-unpaid requests are excluded.
	TotalPaidOut(ctx context.Context, ownerID *uuid.UUID) (int64, error)

	// AverageProcessingHours returns the mean hours between a request's first
	// created entry and its first approved-or-denied entry, over requests
	// that reached a decision. Returns nil when none have.
	AverageProcessingHours(ctx context.Context) (*float64, error)
}
