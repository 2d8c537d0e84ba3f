package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
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

// Resolve retrieves a single asset type by its id.
func (r *PostgresRepository) Resolve(ctx context.Context, typeID string) (*Item, error) {
	query := `
		SELECT type_id, display_name, category, base_value, created_at
		FROM asset_types WHERE type_id = $1`

	var item Item
	err := r.pool.QueryRow(ctx, query, typeID).Scan(
		&item.TypeID, &item.DisplayName, &item.Category, &item.BaseValue, &item.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("scanning asset type row: %w", err)
	}
	return &item, nil
}

// Create inserts a new asset type.
func (r *PostgresRepository) Create(ctx context.Context, item *Item) error {
	query := `
		INSERT INTO asset_types (type_id, display_name, category, base_value)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	err := r.pool.QueryRow(ctx, query,
		item.TypeID, item.DisplayName, item.Category, item.BaseValue,
	).Scan(&item.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateTypeID
		}
		return fmt.Errorf("inserting asset type: %w", err)
	}
	return nil
}

// List retrieves all asset types ordered by display name.
func (r *PostgresRepository) List(ctx context.Context) ([]Item, error) {
	query := `
		SELECT type_id, display_name, category, base_value, created_at
		FROM asset_types ORDER BY display_name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing asset types: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var item Item
		err := rows.Scan(&item.TypeID, &item.DisplayName, &item.Category, &item.BaseValue, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning asset type row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating asset type rows: %w", err)
	}

	if items == nil {
		items = []Item{}
	}

	return items, nil
}
