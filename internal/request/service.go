package request

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/srp14/srp/internal/audit"
	"github.com/srp14/srp/internal/catalog"
	"github.com/srp14/srp/internal/fleet"
	"github.com/srp14/srp/internal/payout"
)

// ErrInvalidTransition is returned when an operation is legal input but the
// request is not in a state the operation can act on. Wrapped errors carry
// the current status in their message.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrPayoutRequired is returned when an approval carries no payout amount.
var ErrPayoutRequired = errors.New("approval requires a payout amount")

// ErrNoteRequired is returned when a denial carries no note.
var ErrNoteRequired = errors.New("denial requires a note")

// ErrFleetRequired is returned when a fleet-operation submission has no fleet reference.
var ErrFleetRequired = errors.New("fleet operations require a fleet reference")

// ErrInvalidClaimedValue is returned when the claimed value is not positive.
var ErrInvalidClaimedValue = errors.New("claimed value must be positive")

// Decision is a reviewer's verdict on a pending request.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionDeny    Decision = "deny"
)

// Actor identifies who performs an operation, as recorded in the audit log.
type Actor struct {
	ID   uuid.UUID
	Name string
}

// SubmitPayload holds the fields a member supplies when filing a request.
type SubmitPayload struct {
	TypeID        string
	ClaimedValue  int64
	OperationType OperationType
	SpecialRole   bool
	Description   string
	FleetID       *uuid.UUID
}

// Service implements the request lifecycle: submission, review decisions,
// processing marks and payout confirmation. All mutations go through the
// repository's transactions; the service owns the transition guards and the
// retry-safety policy.
type Service struct {
	repo      Repository
	auditRepo audit.Repository
	catalog   catalog.Resolver
	fleets    fleet.Resolver
	tiers     payout.TierLookup
}

// NewService creates a new lifecycle Service.
func NewService(repo Repository, auditRepo audit.Repository, cat catalog.Resolver, fleets fleet.Resolver, tiers payout.TierLookup) *Service {
	return &Service{
		repo:      repo,
		auditRepo: auditRepo,
		catalog:   cat,
		fleets:    fleets,
		tiers:     tiers,
	}
}

// Submit validates the payload, computes the advisory payout estimate and
// creates the request in pending status together with its created audit
// entry. Category and fleet references must resolve; fleet operations must
// carry a fleet reference.
func (s *Service) Submit(ctx context.Context, owner Actor, payload SubmitPayload) (*Request, error) {
	if payload.ClaimedValue <= 0 {
		return nil, ErrInvalidClaimedValue
	}

	item, err := s.catalog.Resolve(ctx, payload.TypeID)
	if err != nil {
		if errors.Is(err, catalog.ErrItemNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("resolving asset type %q: %w", payload.TypeID, err)
	}

	var fleetName *string
	if payload.OperationType == OperationFleet {
		if payload.FleetID == nil {
			return nil, ErrFleetRequired
		}
		f, err := s.fleets.GetByID(ctx, *payload.FleetID)
		if err != nil {
			if errors.Is(err, fleet.ErrFleetNotFound) {
				return nil, err
			}
			return nil, fmt.Errorf("resolving fleet %s: %w", payload.FleetID, err)
		}
		fleetName = &f.DisplayName
	} else {
		// Solo losses carry no group context even if the client sent one.
		payload.FleetID = nil
	}

	estimate, err := payout.Calculate(s.tiers, payout.Input{
		Category:      item.Category,
		ClaimedValue:  payload.ClaimedValue,
		OperationType: string(payload.OperationType),
		SpecialRole:   payload.SpecialRole,
	})
	if err != nil {
		return nil, err
	}

	req := &Request{
		OwnerID:         owner.ID,
		OwnerName:       owner.Name,
		TypeID:          item.TypeID,
		AssetName:       item.DisplayName,
		Category:        item.Category,
		ClaimedValue:    payload.ClaimedValue,
		OperationType:   payload.OperationType,
		SpecialRole:     payload.SpecialRole,
		Description:     payload.Description,
		FleetID:         payload.FleetID,
		FleetName:       fleetName,
		Status:          StatusPending,
		EstimatedPayout: estimate.FinalAmount,
	}

	entry := &audit.Entry{Kind: audit.KindCreated, Actor: owner.Name}
	if err := s.repo.Create(ctx, req, entry); err != nil {
		return nil, err
	}

	return req, nil
}

// Review applies a reviewer's decision. Approvals require a non-negative
// payout, denials a note. A retry that finds the request already in the
// target state with a matching audit entry is reported as success; a stale
// decision against a concurrently-processed request fails with
// ErrInvalidTransition.
func (s *Service) Review(ctx context.Context, id uuid.UUID, reviewer Actor, decision Decision, note string, payoutAmount *int64) (*Request, error) {
	var target Status
	var kind audit.Kind

	switch decision {
	case DecisionApprove:
		if payoutAmount == nil || *payoutAmount < 0 {
			return nil, ErrPayoutRequired
		}
		target = StatusApproved
		kind = audit.KindApproved
	case DecisionDeny:
		if note == "" {
			return nil, ErrNoteRequired
		}
		target = StatusDenied
		kind = audit.KindDenied
		payoutAmount = nil
	default:
		return nil, fmt.Errorf("unknown decision %q", decision)
	}

	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if cur.Status == target {
		if done, err := s.hasEntry(ctx, id, kind); err != nil {
			return nil, err
		} else if done {
			return cur, nil
		}
	}

	if !cur.Status.CanTransitionTo(target) {
		return nil, transitionError(cur.Status, target)
	}

	entry := &audit.Entry{Kind: kind, Actor: reviewer.Name}
	if note != "" {
		entry.Note = &note
	}

	req, err := s.repo.TransitionStatus(ctx, id, []Status{StatusPending, StatusProcessing}, target, payoutAmount, entry)
	if err != nil {
		if errors.Is(err, ErrStatusConflict) {
			return s.resolveConflict(ctx, id, target, kind)
		}
		return nil, err
	}
	return req, nil
}

// MarkProcessing flags a request as being worked on. The persisted status
// moves to processing, so status filters reflect it. Marking an
// already-processing request again is legal and appends another entry.
func (s *Service) MarkProcessing(ctx context.Context, id uuid.UUID, reviewer Actor) (*Request, error) {
	entry := &audit.Entry{Kind: audit.KindProcessing, Actor: reviewer.Name}

	req, err := s.repo.TransitionStatus(ctx, id, []Status{StatusPending, StatusProcessing}, StatusProcessing, nil, entry)
	if err != nil {
		if errors.Is(err, ErrStatusConflict) {
			cur, getErr := s.repo.GetByID(ctx, id)
			if getErr != nil {
				return nil, getErr
			}
			return nil, transitionError(cur.Status, StatusProcessing)
		}
		return nil, err
	}
	return req, nil
}

// MarkPaid records that an approved payout has been disbursed. The status
// stays approved; the paid audit entry is the fact aggregates count. Retries
// return success without a second entry.
func (s *Service) MarkPaid(ctx context.Context, id uuid.UUID, actor Actor) (*Request, error) {
	entry := &audit.Entry{Kind: audit.KindPaid, Actor: actor.Name}

	req, _, err := s.repo.AppendPaid(ctx, id, entry)
	if err != nil {
		if errors.Is(err, ErrNotApproved) {
			cur, getErr := s.repo.GetByID(ctx, id)
			if getErr != nil {
				return nil, getErr
			}
			return nil, fmt.Errorf("%w: cannot mark paid from status %q", ErrInvalidTransition, cur.Status)
		}
		return nil, err
	}
	return req, nil
}

// Get returns a single request.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Request, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns a filtered page of requests.
func (s *Service) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	return s.repo.List(ctx, filter)
}

// History returns a request's audit trail, oldest first.
func (s *Service) History(ctx context.Context, id uuid.UUID) ([]audit.Entry, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.auditRepo.EntriesFor(ctx, id)
}

// resolveConflict decides whether a lost compare-and-set race was actually a
// duplicate of a decision that already landed (success) or a genuinely
// illegal transition.
func (s *Service) resolveConflict(ctx context.Context, id uuid.UUID, target Status, kind audit.Kind) (*Request, error) {
	cur, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur.Status == target {
		if done, err := s.hasEntry(ctx, id, kind); err != nil {
			return nil, err
		} else if done {
			return cur, nil
		}
	}
	return nil, transitionError(cur.Status, target)
}

func (s *Service) hasEntry(ctx context.Context, id uuid.UUID, kind audit.Kind) (bool, error) {
	_, err := s.auditRepo.FirstOccurrenceOf(ctx, id, kind)
	if err != nil {
		if errors.Is(err, audit.ErrEntryNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func transitionError(from, to Status) error {
	return fmt.Errorf("%w: cannot transition from %q to %q", ErrInvalidTransition, from, to)
}
