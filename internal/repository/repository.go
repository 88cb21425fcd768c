package repository

import (
	"context"

	"github.com/acs027/eshop-backend/internal/domain"
)

// CatalogRepository defines persistence operations for the product catalog.
type CatalogRepository interface {
	// List returns the full catalog snapshot.
	List(ctx context.Context) ([]domain.Product, error)

	// Upsert inserts products that are not yet listed. Existing products are
	// left untouched; the catalog is insert-only. Returns the number of rows
	// actually inserted.
	Upsert(ctx context.Context, products []domain.Product) (int, error)
}

// CartRepository defines persistence operations for the cart ledger.
type CartRepository interface {
	// Insert appends a new ledger row and fills in its assigned CartID.
	Insert(ctx context.Context, entry *domain.CartEntry) error

	// Delete removes the row with the given id for the owner. Deleting an
	// absent row is not an error.
	Delete(ctx context.Context, cartID int64, owner string) error

	// ListByOwner returns all ledger rows for the owner.
	ListByOwner(ctx context.Context, owner string) ([]domain.CartEntry, error)

	// ReplaceLine atomically removes every row for (name, owner) and, when
	// desired > 0, inserts one consolidated row with the attributes of the
	// first removed row. A no-op when no rows match.
	ReplaceLine(ctx context.Context, name, owner string, desired int) error
}

// ReviewRepository defines persistence operations for product reviews.
type ReviewRepository interface {
	// Upsert writes a review keyed by (product, user), overwriting any
	// previous review from the same user.
	Upsert(ctx context.Context, review *domain.Review) error

	// ListByProduct returns all reviews for a product. Order is not
	// contractual.
	ListByProduct(ctx context.Context, productID int64) ([]domain.Review, error)
}
