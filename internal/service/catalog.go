package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/acs027/eshop-backend/internal/domain"
	"github.com/acs027/eshop-backend/internal/repository"
	"github.com/acs027/eshop-backend/internal/repository/rediscache"
	apperrors "github.com/acs027/eshop-backend/pkg/errors"
)

// CatalogCache is the read-through cache in front of the catalog store.
type CatalogCache interface {
	Get(ctx context.Context) ([]domain.Product, error)
	Set(ctx context.Context, products []domain.Product) error
	Invalidate(ctx context.Context) error
}

// FeedFetcher pulls the upstream product feed.
type FeedFetcher interface {
	Fetch(ctx context.Context) ([]domain.Product, error)
}

// CatalogService implements catalog reads and feed synchronization.
type CatalogService struct {
	repo   repository.CatalogRepository
	cache  CatalogCache
	feed   FeedFetcher
	logger *slog.Logger
}

// NewCatalogService creates a new catalog service. cache and feed may be nil;
// reads then go straight to the store and Sync reports the feed as
// unavailable.
func NewCatalogService(repo repository.CatalogRepository, cache CatalogCache, feed FeedFetcher, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		repo:   repo,
		cache:  cache,
		feed:   feed,
		logger: logger,
	}
}

// ListProducts returns the full catalog snapshot, serving from cache when
// possible. A malformed or missing cache entry falls through to the store; an
// unreachable store surfaces as UpstreamUnavailable.
func (s *CatalogService) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if s.cache != nil {
		products, err := s.cache.Get(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, rediscache.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "catalog cache read failed",
				slog.String("error", err.Error()),
			)
		}
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.UpstreamUnavailable("catalog store", err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, products); err != nil {
			s.logger.WarnContext(ctx, "catalog cache write failed",
				slog.String("error", err.Error()),
			)
		}
	}

	return products, nil
}

// Sync pulls the upstream feed and inserts any products not yet listed, then
// invalidates the cached snapshot. Returns the number of products inserted.
func (s *CatalogService) Sync(ctx context.Context) (int, error) {
	if s.feed == nil {
		return 0, apperrors.UpstreamUnavailable("catalog feed", errors.New("no feed configured"))
	}

	products, err := s.feed.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("fetch feed: %w", err)
	}

	inserted, err := s.repo.Upsert(ctx, products)
	if err != nil {
		return 0, fmt.Errorf("store feed products: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.WarnContext(ctx, "catalog cache invalidation failed",
				slog.String("error", err.Error()),
			)
		}
	}

	s.logger.InfoContext(ctx, "catalog synchronized",
		slog.Int("fetched", len(products)),
		slog.Int("inserted", inserted),
	)

	return inserted, nil
}
