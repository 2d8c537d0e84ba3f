package audit

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrEntryNotFound is returned when no entry of the requested kind exists.
var ErrEntryNotFound = errors.New("audit entry not found")

// Repository provides read access to the audit log. Entries are written only
// through Insert inside the request repository's transactions; the log is
// append-only and nothing ever updates or deletes a row.
type Repository interface {
	EntriesFor(ctx context.Context, requestID uuid.UUID) ([]Entry, error)
	FirstOccurrenceOf(ctx context.Context, requestID uuid.UUID, kind Kind) (*Entry, error)
}

// Querier is the subset of pgx shared by *pgxpool.Pool and pgx.Tx, so Insert
// can run either standalone or inside an enclosing transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Insert appends one entry. The caller owns the transaction; if it rolls
// back, the entry is gone with it.
func Insert(ctx context.Context, q Querier, e *Entry) error {
	query := `
		INSERT INTO audit_entries (request_id, kind, actor, note)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, seq`

	err := q.QueryRow(ctx, query, e.RequestID, e.Kind, e.Actor, e.Note).
		Scan(&e.ID, &e.CreatedAt, &e.Seq)
	if err != nil {
		return err
	}
	return nil
}
