package audit

import (
	"time"

	"github.com/google/uuid"
)

// Kind classifies a lifecycle event.
type Kind string

const (
	KindCreated    Kind = "created"
	KindProcessing Kind = "processing"
	KindApproved   Kind = "approved"
	KindDenied     Kind = "denied"
	KindPaid       Kind = "paid"
)

// Entry is one immutable fact in a request's history. Seq is assigned by the
// database and breaks ordering ties between entries with equal timestamps.
type Entry struct {
	ID        uuid.UUID
	RequestID uuid.UUID
	Kind      Kind
	Actor     string
	Note      *string
	CreatedAt time.Time
	Seq       int64
}
