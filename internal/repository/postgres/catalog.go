package postgres

import (
	"context"
	"fmt"

	"github.com/acs027/eshop-backend/internal/domain"
	"github.com/acs027/eshop-backend/pkg/database"
)

// CatalogRepository implements repository.CatalogRepository using PostgreSQL.
type CatalogRepository struct {
	pool database.DBTX
}

// NewCatalogRepository creates a new PostgreSQL-backed catalog repository.
func NewCatalogRepository(pool database.DBTX) *CatalogRepository {
	return &CatalogRepository{pool: pool}
}

// List returns the full catalog snapshot ordered by id.
func (r *CatalogRepository) List(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, name, image_path, category, price, brand
		FROM products
		ORDER BY id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.ImagePath, &p.Category, &p.Price, &p.Brand); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

// Upsert inserts products not yet listed. Conflicting ids are skipped, keeping
// listed products immutable. Returns the number of rows inserted.
func (r *CatalogRepository) Upsert(ctx context.Context, products []domain.Product) (int, error) {
	query := `
		INSERT INTO products (id, name, image_path, category, price, brand)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`

	var inserted int
	for _, p := range products {
		tag, err := r.pool.Exec(ctx, query, p.ID, p.Name, p.ImagePath, p.Category, p.Price, p.Brand)
		if err != nil {
			return inserted, fmt.Errorf("insert product %d: %w", p.ID, err)
		}
		inserted += int(tag.RowsAffected())
	}

	return inserted, nil
}
