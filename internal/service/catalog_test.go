package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/acs027/eshop-backend/internal/domain"
	"github.com/acs027/eshop-backend/internal/repository/rediscache"
	apperrors "github.com/acs027/eshop-backend/pkg/errors"
)

// --- Mocks ---

type mockCatalogRepository struct {
	mock.Mock
}

func (m *mockCatalogRepository) List(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockCatalogRepository) Upsert(ctx context.Context, products []domain.Product) (int, error) {
	args := m.Called(ctx, products)
	return args.Int(0), args.Error(1)
}

type mockCatalogCache struct {
	mock.Mock
}

func (m *mockCatalogCache) Get(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *mockCatalogCache) Set(ctx context.Context, products []domain.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func (m *mockCatalogCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type mockFeed struct {
	mock.Mock
}

func (m *mockFeed) Fetch(ctx context.Context) ([]domain.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Product), args.Error(1)
}

func catalog() []domain.Product {
	return []domain.Product{
		{ID: 1, Name: "iPhone 13", Category: domain.CategoryPhone, Price: 30000, Brand: "Apple"},
		{ID: 2, Name: "Dyson V11", Category: domain.CategoryHomeAppliance, Price: 12000, Brand: "Dyson"},
	}
}

// --- ListProducts ---

func TestListProducts_ServesFromCache(t *testing.T) {
	repo := new(mockCatalogRepository)
	cache := new(mockCatalogCache)
	svc := NewCatalogService(repo, cache, nil, newTestLogger())

	cache.On("Get", mock.Anything).Return(catalog(), nil)

	got, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	repo.AssertNotCalled(t, "List", mock.Anything)
}

func TestListProducts_CacheMissFallsThrough(t *testing.T) {
	repo := new(mockCatalogRepository)
	cache := new(mockCatalogCache)
	svc := NewCatalogService(repo, cache, nil, newTestLogger())

	cache.On("Get", mock.Anything).Return(nil, rediscache.ErrCacheMiss)
	repo.On("List", mock.Anything).Return(catalog(), nil)
	cache.On("Set", mock.Anything, catalog()).Return(nil)

	got, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
	cache.AssertExpectations(t)
}

func TestListProducts_StoreUnreachable(t *testing.T) {
	repo := new(mockCatalogRepository)
	svc := NewCatalogService(repo, nil, nil, newTestLogger())

	repo.On("List", mock.Anything).Return(nil, errors.New("connection refused"))

	_, err := svc.ListProducts(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
}

func TestListProducts_CacheWriteFailureIsNotFatal(t *testing.T) {
	repo := new(mockCatalogRepository)
	cache := new(mockCatalogCache)
	svc := NewCatalogService(repo, cache, nil, newTestLogger())

	cache.On("Get", mock.Anything).Return(nil, rediscache.ErrCacheMiss)
	repo.On("List", mock.Anything).Return(catalog(), nil)
	cache.On("Set", mock.Anything, mock.Anything).Return(errors.New("redis down"))

	got, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

// --- Sync ---

func TestSync_InsertsAndInvalidates(t *testing.T) {
	repo := new(mockCatalogRepository)
	cache := new(mockCatalogCache)
	feed := new(mockFeed)
	svc := NewCatalogService(repo, cache, feed, newTestLogger())

	feed.On("Fetch", mock.Anything).Return(catalog(), nil)
	repo.On("Upsert", mock.Anything, catalog()).Return(2, nil)
	cache.On("Invalidate", mock.Anything).Return(nil)

	inserted, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, inserted)
	cache.AssertExpectations(t)
}

func TestSync_FeedUnavailable(t *testing.T) {
	repo := new(mockCatalogRepository)
	feed := new(mockFeed)
	svc := NewCatalogService(repo, nil, feed, newTestLogger())

	feed.On("Fetch", mock.Anything).Return(nil, apperrors.UpstreamUnavailable("catalog feed", errors.New("timeout")))

	_, err := svc.Sync(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
}

func TestSync_NoFeedConfigured(t *testing.T) {
	svc := NewCatalogService(new(mockCatalogRepository), nil, nil, newTestLogger())

	_, err := svc.Sync(context.Background())
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
}
