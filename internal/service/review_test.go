package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/acs027/eshop-backend/internal/domain"
	"github.com/acs027/eshop-backend/internal/event"
	apperrors "github.com/acs027/eshop-backend/pkg/errors"
)

// --- Mock Repository ---

type mockReviewRepository struct {
	mock.Mock
}

func (m *mockReviewRepository) Upsert(ctx context.Context, review *domain.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *mockReviewRepository) ListByProduct(ctx context.Context, productID int64) ([]domain.Review, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func newTestReviewService(repo *mockReviewRepository) *ReviewService {
	logger := newTestLogger()
	return NewReviewService(repo, event.NewProducer(nil, logger), logger)
}

// --- WriteReview ---

func TestWriteReview_Upserts(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := newTestReviewService(repo)

	repo.On("Upsert", mock.Anything, mock.MatchedBy(func(r *domain.Review) bool {
		return r.ProductID == 1 && r.UserID == "user-42" && r.Rating == 4
	})).Return(nil)

	got, err := svc.WriteReview(context.Background(), 1, "user-42", WriteReviewInput{Rating: 4, Text: "solid phone"})
	require.NoError(t, err)
	assert.Equal(t, 4, got.Rating)
	repo.AssertExpectations(t)
}

func TestWriteReview_RequiresIdentity(t *testing.T) {
	svc := newTestReviewService(new(mockReviewRepository))

	_, err := svc.WriteReview(context.Background(), 1, "", WriteReviewInput{Rating: 4, Text: "x"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestWriteReview_RejectsOutOfRangeRating(t *testing.T) {
	svc := newTestReviewService(new(mockReviewRepository))

	for _, rating := range []int{0, -1, 6, 100} {
		_, err := svc.WriteReview(context.Background(), 1, "user-42", WriteReviewInput{Rating: rating, Text: "x"})
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput, "rating %d", rating)
	}
}

func TestWriteReview_RejectsEmptyText(t *testing.T) {
	svc := newTestReviewService(new(mockReviewRepository))

	_, err := svc.WriteReview(context.Background(), 1, "user-42", WriteReviewInput{Rating: 4, Text: "   "})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestWriteReview_RepoError(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := newTestReviewService(repo)

	repo.On("Upsert", mock.Anything, mock.Anything).Return(errors.New("mongo down"))

	_, err := svc.WriteReview(context.Background(), 1, "user-42", WriteReviewInput{Rating: 4, Text: "x"})
	assert.Error(t, err)
}

// --- FetchReviews / RatingSummary ---

func TestFetchReviews_ReturnsAll(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := newTestReviewService(repo)

	repo.On("ListByProduct", mock.Anything, int64(1)).Return([]domain.Review{
		{ProductID: 1, UserID: "a", Rating: 5},
		{ProductID: 1, UserID: "b", Rating: 3},
	}, nil)

	got, err := svc.FetchReviews(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestRatingSummary_TruncatesAverage(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := newTestReviewService(repo)

	repo.On("ListByProduct", mock.Anything, int64(1)).Return([]domain.Review{
		{Rating: 5},
		{Rating: 3},
	}, nil)

	got, err := svc.RatingSummary(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.RatingSummary{Filled: 4, Empty: 1, Count: 2}, got)
}

func TestRatingSummary_NoReviews(t *testing.T) {
	repo := new(mockReviewRepository)
	svc := newTestReviewService(repo)

	repo.On("ListByProduct", mock.Anything, int64(1)).Return([]domain.Review{}, nil)

	got, err := svc.RatingSummary(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, domain.RatingSummary{Filled: 0, Empty: 5, Count: 0}, got)
}

// --- Upsert round-trip against an in-memory store ---

type fakeReviewStore struct {
	byKey map[string]domain.Review
}

func key(productID int64, userID string) string {
	return fmt.Sprintf("%d|%s", productID, userID)
}

func (f *fakeReviewStore) Upsert(_ context.Context, r *domain.Review) error {
	if f.byKey == nil {
		f.byKey = make(map[string]domain.Review)
	}
	f.byKey[key(r.ProductID, r.UserID)] = *r
	return nil
}

func (f *fakeReviewStore) ListByProduct(_ context.Context, productID int64) ([]domain.Review, error) {
	var out []domain.Review
	for _, r := range f.byKey {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func TestWriteReview_SecondWriteOverwrites(t *testing.T) {
	store := &fakeReviewStore{}
	logger := newTestLogger()
	svc := NewReviewService(store, event.NewProducer(nil, logger), logger)
	ctx := context.Background()

	_, err := svc.WriteReview(ctx, 1, "user-42", WriteReviewInput{Rating: 2, Text: "meh"})
	require.NoError(t, err)
	_, err = svc.WriteReview(ctx, 1, "user-42", WriteReviewInput{Rating: 5, Text: "grew on me"})
	require.NoError(t, err)
	_, err = svc.WriteReview(ctx, 1, "other", WriteReviewInput{Rating: 3, Text: "fine"})
	require.NoError(t, err)

	reviews, err := svc.FetchReviews(ctx, 1)
	require.NoError(t, err)
	require.Len(t, reviews, 2)

	byUser := make(map[string]domain.Review, len(reviews))
	for _, r := range reviews {
		byUser[r.UserID] = r
	}
	assert.Equal(t, 5, byUser["user-42"].Rating)
	assert.Equal(t, "grew on me", byUser["user-42"].Text)
	assert.Equal(t, 3, byUser["other"].Rating)
}
