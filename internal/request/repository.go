package request

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/srp14/srp/internal/audit"
)

// ErrNotFound is returned when a request record is not found.
var ErrNotFound = errors.New("request not found")

// ErrStatusConflict is returned when a compare-and-set transition finds the
// row in a different status than expected. The service layer re-reads the row
// and translates this into an idempotent success or an invalid transition.
var ErrStatusConflict = errors.New("request status changed concurrently")

// ErrNotApproved is returned when a paid event is appended to a request that
// is not currently approved.
var ErrNotApproved = errors.New("request is not approved")

// Repository provides transactional operations on the requests table. Every
// mutation commits the row change and its audit entry in one transaction, so
// no reader ever observes one without the other.
type Repository interface {
	// Create inserts the request row and its created audit entry atomically.
	Create(ctx context.Context, req *Request, entry *audit.Entry) error

	GetByID(ctx context.Context, id uuid.UUID) (*Request, error)
	List(ctx context.Context, filter ListFilter) (*ListResult, error)

	// TransitionStatus moves a request from one of the expected statuses to
	// the target status and appends the audit entry, atomically. The update
	// is guarded by the persisted status (compare-and-set), so a racing
	// transition fails with ErrStatusConflict instead of double-processing.
	// payout is written (or cleared, when nil) together with the status.
	TransitionStatus(ctx context.Context, id uuid.UUID, from []Status, to Status, payout *int64, entry *audit.Entry) (*Request, error)

	// AppendPaid records the paid event for an approved request without
	// changing its status. At most one paid entry ever exists per request;
	// a retry is a no-op reporting alreadyPaid.
	AppendPaid(ctx context.Context, id uuid.UUID, entry *audit.Entry) (req *Request, alreadyPaid bool, err error)
}
