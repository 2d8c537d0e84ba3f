package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Repository backed by the given connection pool.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// PendingCount counts pending requests, optionally for one owner.
func (r *PostgresRepository) PendingCount(ctx context.Context, ownerID *uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM requests WHERE status = 'pending'`
	var args []any
	if ownerID != nil {
		query += ` AND owner_id = $1`
		args = append(args, *ownerID)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting pending requests: %w", err)
	}
	return count, nil
}

// ApprovedSince counts approved audit entries at or after since.
func (r *PostgresRepository) ApprovedSince(ctx context.Context, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM audit_entries WHERE kind = 'approved' AND created_at >= $1`

	var count int
	if err := r.pool.QueryRow(ctx, query, since).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting approvals: %w", err)
	}
	return count, nil
}

// TotalPaidOut sums payouts over requests that have a paid audit entry. The
// EXISTS keeps each request counted exactly once no matter how history reads.
func (r *PostgresRepository) TotalPaidOut(ctx context.Context, ownerID *uuid.UUID) (int64, error) {
	query := `
		SELECT COALESCE(SUM(r.payout_amount), 0)
		FROM requests r
		WHERE EXISTS (
			SELECT 1 FROM audit_entries a
			WHERE a.request_id = r.id AND a.kind = 'paid'
		)`
	var args []any
	if ownerID != nil {
		query += ` AND r.owner_id = $1`
		args = append(args, *ownerID)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("summing paid requests: %w", err)
	}
	return total, nil
}

// AverageProcessingHours averages first-decision minus first-created per
// request, across decided requests only. The audit log, not the requests
// table, is the source of both timestamps.
func (r *PostgresRepository) AverageProcessingHours(ctx context.Context) (*float64, error) {
	query := `
		SELECT AVG(EXTRACT(EPOCH FROM (t.decided_at - t.created_at)) / 3600.0)
		FROM (
			SELECT
				MIN(created_at) FILTER (WHERE kind = 'created')                       AS created_at,
				MIN(created_at) FILTER (WHERE kind IN ('approved', 'denied'))         AS decided_at
			FROM audit_entries
			GROUP BY request_id
		) t
		WHERE t.created_at IS NOT NULL AND t.decided_at IS NOT NULL`

	var avg *float64
	if err := r.pool.QueryRow(ctx, query).Scan(&avg); err != nil {
		return nil, fmt.Errorf("averaging processing time: %w", err)
	}
	return avg, nil
}
