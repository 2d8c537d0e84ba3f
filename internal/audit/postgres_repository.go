package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
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

const entryColumns = `id, request_id, kind, actor, note, created_at, seq`

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	err := row.Scan(&e.ID, &e.RequestID, &e.Kind, &e.Actor, &e.Note, &e.CreatedAt, &e.Seq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEntryNotFound
		}
		return nil, fmt.Errorf("scanning audit entry: %w", err)
	}
	return &e, nil
}

// EntriesFor returns a request's full history, oldest first. Timestamp ties
// are broken by insertion order.
func (r *PostgresRepository) EntriesFor(ctx context.Context, requestID uuid.UUID) ([]Entry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM audit_entries
		WHERE request_id = $1
		ORDER BY created_at ASC, seq ASC`, entryColumns)

	rows, err := r.pool.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		err := rows.Scan(&e.ID, &e.RequestID, &e.Kind, &e.Actor, &e.Note, &e.CreatedAt, &e.Seq)
		if err != nil {
			return nil, fmt.Errorf("scanning audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit entries: %w", err)
	}

	if entries == nil {
		entries = []Entry{}
	}

	return entries, nil
}

// FirstOccurrenceOf returns the earliest entry of the given kind for a
// request, or ErrEntryNotFound. The created entry recovered this way is the
// authoritative creation time for history-dependent aggregates.
func (r *PostgresRepository) FirstOccurrenceOf(ctx context.Context, requestID uuid.UUID, kind Kind) (*Entry, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM audit_entries
		WHERE request_id = $1 AND kind = $2
		ORDER BY created_at ASC, seq ASC
		LIMIT 1`, entryColumns)

	return scanEntry(r.pool.QueryRow(ctx, query, requestID, kind))
}
