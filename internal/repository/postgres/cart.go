package postgres

import (
	"context"
	"fmt"

	"github.com/acs027/eshop-backend/internal/domain"
	"github.com/acs027/eshop-backend/pkg/database"
)

// CartRepository implements repository.CartRepository using PostgreSQL. The
// ledger is append-only: rows are inserted whole and deleted whole, never
// updated in place.
type CartRepository struct {
	pool database.DBTX
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(pool database.DBTX) *CartRepository {
	return &CartRepository{pool: pool}
}

// Insert appends a new ledger row and fills in the assigned id.
func (r *CartRepository) Insert(ctx context.Context, e *domain.CartEntry) error {
	query := `
		INSERT INTO cart_entries (name, image_path, category, price, brand, count, owner)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	err := r.pool.QueryRow(ctx, query,
		e.Name, e.ImagePath, e.Category, e.Price, e.Brand, e.Count, e.Owner,
	).Scan(&e.CartID)
	if err != nil {
		return fmt.Errorf("insert cart entry: %w", err)
	}

	return nil
}

// Delete removes one row by (id, owner). Zero rows affected is a no-op.
func (r *CartRepository) Delete(ctx context.Context, cartID int64, owner string) error {
	query := `DELETE FROM cart_entries WHERE id = $1 AND owner = $2`

	if _, err := r.pool.Exec(ctx, query, cartID, owner); err != nil {
		return fmt.Errorf("delete cart entry %d: %w", cartID, err)
	}

	return nil
}

// ListByOwner returns all ledger rows for the owner ordered by id.
func (r *CartRepository) ListByOwner(ctx context.Context, owner string) ([]domain.CartEntry, error) {
	query := `
		SELECT id, name, image_path, category, price, brand, count, owner
		FROM cart_entries
		WHERE owner = $1
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("query cart entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.CartEntry
	for rows.Next() {
		var e domain.CartEntry
		if err := rows.Scan(&e.CartID, &e.Name, &e.ImagePath, &e.Category, &e.Price, &e.Brand, &e.Count, &e.Owner); err != nil {
			return nil, fmt.Errorf("scan cart entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart entries: %w", err)
	}

	return entries, nil
}

// ReplaceLine collapses every row for (name, owner) into a single row with the
// desired count, inside one transaction. The first matched row supplies the
// product attributes for the replacement. desired == 0 removes the line.
// No matched rows is a no-op regardless of desired.
func (r *CartRepository) ReplaceLine(ctx context.Context, name, owner string, desired int) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin replace line: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	selectQuery := `
		SELECT name, image_path, category, price, brand
		FROM cart_entries
		WHERE name = $1 AND owner = $2
		ORDER BY id
		LIMIT 1
		FOR UPDATE`

	var template domain.CartEntry
	err = tx.QueryRow(ctx, selectQuery, name, owner).Scan(
		&template.Name, &template.ImagePath, &template.Category, &template.Price, &template.Brand,
	)
	if err != nil {
		if isNoRows(err) {
			return nil
		}
		return fmt.Errorf("lock cart line: %w", err)
	}

	deleteQuery := `DELETE FROM cart_entries WHERE name = $1 AND owner = $2`
	if _, err := tx.Exec(ctx, deleteQuery, name, owner); err != nil {
		return fmt.Errorf("delete cart line: %w", err)
	}

	if desired > 0 {
		insertQuery := `
			INSERT INTO cart_entries (name, image_path, category, price, brand, count, owner)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`
		_, err := tx.Exec(ctx, insertQuery,
			template.Name, template.ImagePath, template.Category, template.Price, template.Brand, desired, owner,
		)
		if err != nil {
			return fmt.Errorf("insert consolidated cart line: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit replace line: %w", err)
	}

	return nil
}
