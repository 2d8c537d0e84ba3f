package stats

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service composes the aggregate queries into a dashboard summary. The caller
// supplies "now" so day boundaries are testable.
type Service struct {
	repo Repository
}

// NewService creates a new stats Service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Summarize builds the dashboard summary. ownerID scopes the pending count
// and paid-out total to one submitter; approvals-today and processing time
// are organization-wide.
func (s *Service) Summarize(ctx context.Context, ownerID *uuid.UUID, now time.Time) (*Summary, error) {
	pending, err := s.repo.PendingCount(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	approvedToday, err := s.repo.ApprovedSince(ctx, startOfDay)
	if err != nil {
		return nil, err
	}

	paidOut, err := s.repo.TotalPaidOut(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	avg, err := s.repo.AverageProcessingHours(ctx)
	if err != nil {
		return nil, err
	}

	return &Summary{
		PendingCount:           pending,
		ApprovedToday:          approvedToday,
		TotalPaidOut:           paidOut,
		AverageProcessingHours: avg,
	}, nil
}
