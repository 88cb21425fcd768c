package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/acs027/eshop-backend/internal/domain"
	"github.com/acs027/eshop-backend/internal/event"
	"github.com/acs027/eshop-backend/internal/repository"
	apperrors "github.com/acs027/eshop-backend/pkg/errors"
)

// WriteReviewInput holds the parameters for writing a review.
type WriteReviewInput struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Text   string `json:"text" validate:"required"`
}

// ReviewService implements review writes, reads and rating aggregation.
type ReviewService struct {
	repo   repository.ReviewRepository
	events *event.Producer
	logger *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(repo repository.ReviewRepository, events *event.Producer, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		repo:   repo,
		events: events,
		logger: logger,
	}
}

// WriteReview upserts the user's review of a product. A second write by the
// same user overwrites the first. Requires an authenticated identity; the
// guest fallback used for cart reads does not apply here.
func (s *ReviewService) WriteReview(ctx context.Context, productID int64, userID string, input WriteReviewInput) (*domain.Review, error) {
	if userID == "" {
		return nil, apperrors.Unauthorized("a user identity is required to write a review")
	}
	if productID <= 0 {
		return nil, apperrors.InvalidInput("product id must be positive")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}
	if strings.TrimSpace(input.Text) == "" {
		return nil, apperrors.InvalidInput("review text cannot be empty")
	}

	review := &domain.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    input.Rating,
		Text:      input.Text,
	}

	if err := s.repo.Upsert(ctx, review); err != nil {
		return nil, fmt.Errorf("write review: %w", err)
	}

	s.events.ReviewWritten(ctx, review)

	s.logger.InfoContext(ctx, "review written",
		slog.Int64("product_id", productID),
		slog.Int("rating", input.Rating),
	)

	return review, nil
}

// FetchReviews returns all reviews for a product. Order is not contractual.
func (s *ReviewService) FetchReviews(ctx context.Context, productID int64) ([]domain.Review, error) {
	if productID <= 0 {
		return nil, apperrors.InvalidInput("product id must be positive")
	}

	reviews, err := s.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}

	return reviews, nil
}

// RatingSummary computes the star breakdown for a product on demand.
func (s *ReviewService) RatingSummary(ctx context.Context, productID int64) (domain.RatingSummary, error) {
	reviews, err := s.FetchReviews(ctx, productID)
	if err != nil {
		return domain.RatingSummary{}, err
	}

	return domain.SummarizeRatings(reviews), nil
}
