package fleet

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

// GetByID retrieves a single fleet by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Fleet, error) {
	query := `SELECT id, display_name, commander_name, created_at FROM fleets WHERE id = $1`

	var f Fleet
	err := r.pool.QueryRow(ctx, query, id).Scan(&f.ID, &f.DisplayName, &f.CommanderName, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrFleetNotFound
		}
		return nil, fmt.Errorf("scanning fleet row: %w", err)
	}
	return &f, nil
}

// Create inserts a new fleet record.
func (r *PostgresRepository) Create(ctx context.Context, f *Fleet) error {
	query := `
		INSERT INTO fleets (display_name, commander_name)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.pool.QueryRow(ctx, query, f.DisplayName, f.CommanderName).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting fleet: %w", err)
	}
	return nil
}

// List retrieves all fleets, newest first.
func (r *PostgresRepository) List(ctx context.Context) ([]Fleet, error) {
	query := `SELECT id, display_name, commander_name, created_at FROM fleets ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing fleets: %w", err)
	}
	defer rows.Close()

	var fleets []Fleet
	for rows.Next() {
		var f Fleet
		if err := rows.Scan(&f.ID, &f.DisplayName, &f.CommanderName, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning fleet row: %w", err)
		}
		fleets = append(fleets, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fleet rows: %w", err)
	}

	if fleets == nil {
		fleets = []Fleet{}
	}

	return fleets, nil
}
