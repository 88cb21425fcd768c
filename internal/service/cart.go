package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/acs027/eshop-backend/internal/domain"
	"github.com/acs027/eshop-backend/internal/event"
	"github.com/acs027/eshop-backend/internal/repository"
	apperrors "github.com/acs027/eshop-backend/pkg/errors"
)

// MaxCountPerEntry caps the count accepted on a single ledger row.
const MaxCountPerEntry = 100

// AddEntryInput holds the parameters for adding a cart entry.
type AddEntryInput struct {
	Name      string `json:"name" validate:"required"`
	ImagePath string `json:"image_path"`
	Category  string `json:"category"`
	Price     int64  `json:"price" validate:"gte=0"`
	Brand     string `json:"brand"`
	Count     int    `json:"count" validate:"gte=0,lte=100"`
}

// ConsolidatedCart is the read-time aggregate view of one owner's ledger.
type ConsolidatedCart struct {
	Lines      []domain.ConsolidatedLine `json:"lines"`
	BadgeCount int                       `json:"badge_count"`
}

// CartService implements the business logic for the cart ledger.
type CartService struct {
	repo   repository.CartRepository
	events *event.Producer
	logger *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, events *event.Producer, logger *slog.Logger) *CartService {
	return &CartService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// AddEntry appends a fresh ledger row for the owner. Rows are never merged at
// write time; a missing count defaults to 1.
func (s *CartService) AddEntry(ctx context.Context, owner string, input AddEntryInput) (*domain.CartEntry, error) {
	if owner == "" {
		return nil, apperrors.InvalidInput("owner is required")
	}
	if input.Name == "" {
		return nil, apperrors.InvalidInput("product name is required")
	}
	if input.Price < 0 {
		return nil, apperrors.InvalidInput("price cannot be negative")
	}
	if input.Category != "" && !domain.IsValidCategory(input.Category) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown category %q", input.Category))
	}

	count := input.Count
	if count == 0 {
		count = 1
	}
	if count < 1 {
		return nil, apperrors.InvalidInput("count must be at least 1")
	}
	if count > MaxCountPerEntry {
		return nil, apperrors.InvalidInput(fmt.Sprintf("count cannot exceed %d", MaxCountPerEntry))
	}

	entry := &domain.CartEntry{
		Name:      input.Name,
		ImagePath: input.ImagePath,
		Category:  input.Category,
		Price:     input.Price,
		Brand:     input.Brand,
		Count:     count,
		Owner:     owner,
	}

	if err := s.repo.Insert(ctx, entry); err != nil {
		return nil, fmt.Errorf("add cart entry: %w", err)
	}

	s.events.CartEntryAdded(ctx, entry)

	s.logger.InfoContext(ctx, "cart entry added",
		slog.Int64("cart_id", entry.CartID),
		slog.String("name", entry.Name),
		slog.Int("count", entry.Count),
	)

	return entry, nil
}

// RemoveEntry deletes one ledger row by id. An absent row is a no-op, not an
// error.
func (s *CartService) RemoveEntry(ctx context.Context, cartID int64, owner string) error {
	if owner == "" {
		return apperrors.InvalidInput("owner is required")
	}

	if err := s.repo.Delete(ctx, cartID, owner); err != nil {
		return fmt.Errorf("remove cart entry: %w", err)
	}

	s.events.CartEntryRemoved(ctx, cartID, owner)
	return nil
}

// SetQuantity collapses the ledger rows for one product name into a single
// row with the desired count. desired 0 removes the line entirely; an absent
// name is a no-op either way.
func (s *CartService) SetQuantity(ctx context.Context, name, owner string, desired int) error {
	if owner == "" {
		return apperrors.InvalidInput("owner is required")
	}
	if name == "" {
		return apperrors.InvalidInput("product name is required")
	}
	if desired < 0 {
		return apperrors.InvalidInput("desired count cannot be negative")
	}
	if desired > MaxCountPerEntry {
		return apperrors.InvalidInput(fmt.Sprintf("desired count cannot exceed %d", MaxCountPerEntry))
	}

	if err := s.repo.ReplaceLine(ctx, name, owner, desired); err != nil {
		return fmt.Errorf("set cart quantity: %w", err)
	}

	return nil
}

// ListCart returns the raw ledger rows for the owner.
func (s *CartService) ListCart(ctx context.Context, owner string) ([]domain.CartEntry, error) {
	if owner == "" {
		return nil, apperrors.InvalidInput("owner is required")
	}

	entries, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list cart: %w", err)
	}

	return entries, nil
}

// ConsolidatedCart returns the per-product aggregate view of the owner's
// ledger plus the badge count.
func (s *CartService) ConsolidatedCart(ctx context.Context, owner string) (*ConsolidatedCart, error) {
	entries, err := s.ListCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	return &ConsolidatedCart{
		Lines:      domain.ConsolidatedLines(entries),
		BadgeCount: domain.BadgeCount(entries),
	}, nil
}

// RemoveAll clears the owner's cart line by line: every consolidated line is
// set to quantity zero as its own independent operation.
func (s *CartService) RemoveAll(ctx context.Context, owner string) error {
	entries, err := s.ListCart(ctx, owner)
	if err != nil {
		return err
	}

	lines := domain.ConsolidatedLines(entries)
	for _, line := range lines {
		if err := s.SetQuantity(ctx, line.Name, owner, 0); err != nil {
			return fmt.Errorf("clear cart line %q: %w", line.Name, err)
		}
	}

	if len(lines) > 0 {
		s.events.CartCleared(ctx, owner, len(lines))
	}

	s.logger.InfoContext(ctx, "cart cleared",
		slog.String("owner", owner),
		slog.Int("lines", len(lines)),
	)

	return nil
}
