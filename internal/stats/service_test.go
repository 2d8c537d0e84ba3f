package stats_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/srp14/srp/internal/stats"
)

type mockRepo struct {
	pendingCountFn func(ctx context.Context, ownerID *uuid.UUID) (int, error)
	approvedFn     func(ctx context.Context, since time.Time) (int, error)
	paidOutFn      func(ctx context.Context, ownerID *uuid.UUID) (int64, error)
	avgHoursFn     func(ctx context.Context) (*float64, error)
}

func (m *mockRepo) PendingCount(ctx context.Context, ownerID *uuid.UUID) (int, error) {
	if m.pendingCountFn != nil {
		return m.pendingCountFn(ctx, ownerID)
	}
	return 0, nil
}

func (m *mockRepo) ApprovedSince(ctx context.Context, since time.Time) (int, error) {
	if m.approvedFn != nil {
		return m.approvedFn(ctx, since)
	}
	return 0, nil
}

func (m *mockRepo) TotalPaidOut(ctx context.Context, ownerID *uuid.UUID) (int64, error) {
	if m.paidOutFn != nil {
		return m.paidOutFn(ctx, ownerID)
	}
	return 0, nil
}

func (m *mockRepo) AverageProcessingHours(ctx context.Context) (*float64, error) {
	if m.avgHoursFn != nil {
		return m.avgHoursFn(ctx)
	}
	return nil, nil
}

func TestSummarize_ComposesAggregates(t *testing.T) {
	avg := 6.5
	repo := &mockRepo{
		pendingCountFn: func(_ context.Context, _ *uuid.UUID) (int, error) { return 4, nil },
		approvedFn:     func(_ context.Context, _ time.Time) (int, error) { return 2, nil },
		paidOutFn:      func(_ context.Context, _ *uuid.UUID) (int64, error) { return 1250, nil },
		avgHoursFn:     func(_ context.Context) (*float64, error) { return &avg, nil },
	}
	svc := stats.NewService(repo)

	summary, err := svc.Summarize(context.Background(), nil, time.Now())
	require.NoError(t, err)

	assert.Equal(t, 4, summary.PendingCount)
	assert.Equal(t, 2, summary.ApprovedToday)
	assert.Equal(t, int64(1250), summary.TotalPaidOut)
	require.NotNil(t, summary.AverageProcessingHours)
	assert.Equal(t, 6.5, *summary.AverageProcessingHours)
}

func TestSummarize_ApprovedTodayUsesStartOfDay(t *testing.T) {
	var gotSince time.Time
	repo := &mockRepo{
		approvedFn: func(_ context.Context, since time.Time) (int, error) {
			gotSince = since
			return 0, nil
		},
	}
	svc := stats.NewService(repo)

	now := time.Date(2025, time.March, 14, 15, 9, 26, 0, time.UTC)
	_, err := svc.Summarize(context.Background(), nil, now)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC), gotSince)
}

func TestSummarize_ScopesToOwner(t *testing.T) {
	owner := uuid.New()
	var pendingOwner, paidOwner *uuid.UUID
	repo := &mockRepo{
		pendingCountFn: func(_ context.Context, ownerID *uuid.UUID) (int, error) {
			pendingOwner = ownerID
			return 1, nil
		},
		paidOutFn: func(_ context.Context, ownerID *uuid.UUID) (int64, error) {
			paidOwner = ownerID
			return 100, nil
		},
	}
	svc := stats.NewService(repo)

	_, err := svc.Summarize(context.Background(), &owner, time.Now())
	require.NoError(t, err)

	require.NotNil(t, pendingOwner)
	assert.Equal(t, owner, *pendingOwner)
	require.NotNil(t, paidOwner)
	assert.Equal(t, owner, *paidOwner)
}

func TestSummarize_NoDecisionsYet(t *testing.T) {
	svc := stats.NewService(&mockRepo{})

	summary, err := svc.Summarize(context.Background(), nil, time.Now())
	require.NoError(t, err)
	assert.Nil(t, summary.AverageProcessingHours)
}

func TestSummarize_PropagatesRepositoryError(t *testing.T) {
	boom := errors.New("connection refused")
	repo := &mockRepo{
		pendingCountFn: func(_ context.Context, _ *uuid.UUID) (int, error) { return 0, boom },
	}
	svc := stats.NewService(repo)

	_, err := svc.Summarize(context.Background(), nil, time.Now())
	assert.ErrorIs(t, err, boom)
}
