package request

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/srp14/srp/internal/audit"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Repository backed by the given connection pool.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

const requestColumns = `id, owner_id, owner_name, type_id, asset_name, category,
	claimed_value, operation_type, special_role, description, fleet_id, fleet_name,
	status, payout_amount, estimated_payout, created_at, updated_at`

func scanRequest(row pgx.Row) (*Request, error) {
	var req Request
	err := row.Scan(
		&req.ID, &req.OwnerID, &req.OwnerName, &req.TypeID, &req.AssetName, &req.Category,
		&req.ClaimedValue, &req.OperationType, &req.SpecialRole, &req.Description,
		&req.FleetID, &req.FleetName,
		&req.Status, &req.PayoutAmount, &req.EstimatedPayout,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("scanning request row: %w", err)
	}
	return &req, nil
}

// Create inserts the request row and its created audit entry in one transaction.
func (r *PostgresRepository) Create(ctx context.Context, req *Request, entry *audit.Entry) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if req.Status == "" {
		req.Status = StatusPending
	}

	query := `
		INSERT INTO requests (owner_id, owner_name, type_id, asset_name, category,
			claimed_value, operation_type, special_role, description, fleet_id, fleet_name,
			status, estimated_payout)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at`

	err = tx.QueryRow(ctx, query,
		req.OwnerID, req.OwnerName, req.TypeID, req.AssetName, req.Category,
		req.ClaimedValue, req.OperationType, req.SpecialRole, req.Description,
		req.FleetID, req.FleetName, req.Status, req.EstimatedPayout,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting request: %w", err)
	}

	entry.RequestID = req.ID
	if err := audit.Insert(ctx, tx, entry); err != nil {
		return fmt.Errorf("appending created audit entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing request creation: %w", err)
	}
	return nil
}

// GetByID retrieves a single request by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Request, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE id = $1`, requestColumns)
	return scanRequest(r.pool.QueryRow(ctx, query, id))
}

// List retrieves a paginated, filtered list of requests, newest first.
func (r *PostgresRepository) List(ctx context.Context, filter ListFilter) (*ListResult, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}

	var conditions []string
	var args []any
	argIdx := 1

	if filter.OwnerID != nil {
		conditions = append(conditions, fmt.Sprintf("owner_id = $%d", argIdx))
		args = append(args, *filter.OwnerID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM requests %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("counting requests: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit

	dataQuery := fmt.Sprintf(`
		SELECT %s FROM requests
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, requestColumns, whereClause, argIdx, argIdx+1)

	args = append(args, filter.Limit, offset)

	rows, err := r.pool.Query(ctx, dataQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("listing requests: %w", err)
	}
	defer rows.Close()

	var requests []Request
	for rows.Next() {
		var req Request
		err := rows.Scan(
			&req.ID, &req.OwnerID, &req.OwnerName, &req.TypeID, &req.AssetName, &req.Category,
			&req.ClaimedValue, &req.OperationType, &req.SpecialRole, &req.Description,
			&req.FleetID, &req.FleetName,
			&req.Status, &req.PayoutAmount, &req.EstimatedPayout,
			&req.CreatedAt, &req.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning request row: %w", err)
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating request rows: %w", err)
	}

	if requests == nil {
		requests = []Request{}
	}

	return &ListResult{
		Requests: requests,
		Total:    total,
		Page:     filter.Page,
		Limit:    filter.Limit,
	}, nil
}

// TransitionStatus performs the compare-and-set status update and appends the
// audit entry in one transaction. The WHERE status = ANY($from) guard is what
// makes a second reviewer's stale decision fail instead of double-processing.
func (r *PostgresRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from []Status, to Status, payout *int64, entry *audit.Entry) (*Request, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	fromStrs := make([]string, len(from))
	for i, s := range from {
		fromStrs[i] = string(s)
	}

	query := fmt.Sprintf(`
		UPDATE requests
		SET status = $1, payout_amount = $2, updated_at = NOW()
		WHERE id = $3 AND status = ANY($4)
		RETURNING %s`, requestColumns)

	req, err := scanRequest(tx.QueryRow(ctx, query, to, payout, id, fromStrs))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Row missing, or present in an unexpected status. Disambiguate
			// so the service can distinguish a bad id from a lost race.
			var exists bool
			if checkErr := r.pool.QueryRow(ctx,
				`SELECT EXISTS (SELECT 1 FROM requests WHERE id = $1)`, id,
			).Scan(&exists); checkErr != nil {
				return nil, fmt.Errorf("checking request existence: %w", checkErr)
			}
			if exists {
				return nil, ErrStatusConflict
			}
			return nil, ErrNotFound
		}
		return nil, err
	}

	entry.RequestID = id
	if err := audit.Insert(ctx, tx, entry); err != nil {
		return nil, fmt.Errorf("appending %s audit entry: %w", entry.Kind, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing status transition: %w", err)
	}
	return req, nil
}

// AppendPaid records the paid event for an approved request. The row is
// locked for the duration of the transaction so a concurrent retry observes
// the existing entry instead of inserting a second one.
func (r *PostgresRepository) AppendPaid(ctx context.Context, id uuid.UUID, entry *audit.Entry) (*Request, bool, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	query := fmt.Sprintf(`SELECT %s FROM requests WHERE id = $1 FOR UPDATE`, requestColumns)
	req, err := scanRequest(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, false, err
	}

	if req.Status != StatusApproved {
		return nil, false, ErrNotApproved
	}

	var alreadyPaid bool
	err = tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM audit_entries WHERE request_id = $1 AND kind = $2)`,
		id, audit.KindPaid,
	).Scan(&alreadyPaid)
	if err != nil {
		return nil, false, fmt.Errorf("checking for existing paid entry: %w", err)
	}
	if alreadyPaid {
		return req, true, nil
	}

	entry.RequestID = id
	if err := audit.Insert(ctx, tx, entry); err != nil {
		return nil, false, fmt.Errorf("appending paid audit entry: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("committing paid event: %w", err)
	}
	return req, false, nil
}
