package request

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of an SRP request.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusApproved   Status = "approved"
	StatusDenied     Status = "denied"
)

// OperationType is the context a loss happened in.
type OperationType string

const (
	OperationSolo  OperationType = "solo"
	OperationFleet OperationType = "fleet"
)

// Request represents a row in the requests table: one reimbursement claim for
// a lost asset. PayoutAmount is set exactly when the request is approved;
// EstimatedPayout is computed once at submission and is advisory only.
type Request struct {
	ID              uuid.UUID
	OwnerID         uuid.UUID
	OwnerName       string
	TypeID          string
	AssetName       string
	Category        string
	ClaimedValue    int64
	OperationType   OperationType
	SpecialRole     bool
	Description     string
	FleetID         *uuid.UUID
	FleetName       *string
	Status          Status
	PayoutAmount    *int64
	EstimatedPayout int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// canTransition holds the legal status transitions. Denied is terminal;
// approved only accepts the paid audit event, which does not change status.
var canTransition = map[Status]map[Status]bool{
	StatusPending:    {StatusProcessing: true, StatusApproved: true, StatusDenied: true},
	StatusProcessing: {StatusProcessing: true, StatusApproved: true, StatusDenied: true},
}

// CanTransitionTo reports whether a status change from s to next is legal.
func (s Status) CanTransitionTo(next Status) bool {
	return canTransition[s][next]
}

// ListFilter holds optional filters and pagination for listing requests.
type ListFilter struct {
	OwnerID *uuid.UUID
	Status  *Status
	Page    int // default 1
	Limit   int // default 20
}

// ListResult holds the result of a paginated list query.
type ListResult struct {
	Requests []Request
	Total    int
	Page     int
	Limit    int
}
