package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/acs027/eshop-backend/internal/domain"
	"github.com/acs027/eshop-backend/internal/event"
	apperrors "github.com/acs027/eshop-backend/pkg/errors"
)

// --- Mock Repository ---

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) Insert(ctx context.Context, entry *domain.CartEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockCartRepository) Delete(ctx context.Context, cartID int64, owner string) error {
	args := m.Called(ctx, cartID, owner)
	return args.Error(0)
}

func (m *mockCartRepository) ListByOwner(ctx context.Context, owner string) ([]domain.CartEntry, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartEntry), args.Error(1)
}

func (m *mockCartRepository) ReplaceLine(ctx context.Context, name, owner string, desired int) error {
	args := m.Called(ctx, name, owner, desired)
	return args.Error(0)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestCartService(repo *mockCartRepository) *CartService {
	logger := newTestLogger()
	// Nil Kafka producer: events are skipped in tests.
	return NewCartService(repo, event.NewProducer(nil, logger), logger)
}

// --- AddEntry ---

func TestAddEntry_InsertsFreshRow(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestCartService(repo)

	repo.On("Insert", mock.Anything, mock.MatchedBy(func(e *domain.CartEntry) bool {
		return e.Name == "iPhone 13" && e.Count == 2 && e.Owner == "user-42"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.CartEntry).CartID = 11
	}).Return(nil)

	got, err := svc.AddEntry(context.Background(), "user-42", AddEntryInput{
		Name:     "iPhone 13",
		Category: domain.CategoryPhone,
		Price:    30000,
		Count:    2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), got.CartID)
	repo.AssertExpectations(t)
}

func TestAddEntry_DefaultsCountToOne(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestCartService(repo)

	repo.On("Insert", mock.Anything, mock.MatchedBy(func(e *domain.CartEntry) bool {
		return e.Count == 1
	})).Return(nil)

	_, err := svc.AddEntry(context.Background(), "user-42", AddEntryInput{Name: "iPhone 13"})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestAddEntry_RejectsNegativeCount(t *testing.T) {
	svc := newTestCartService(new(mockCartRepository))

	_, err := svc.AddEntry(context.Background(), "user-42", AddEntryInput{Name: "x", Count: -1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestAddEntry_RejectsMissingName(t *testing.T) {
	svc := newTestCartService(new(mockCartRepository))

	_, err := svc.AddEntry(context.Background(), "user-42", AddEntryInput{Count: 1})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestAddEntry_RejectsUnknownCategory(t *testing.T) {
	svc := newTestCartService(new(mockCartRepository))

	_, err := svc.AddEntry(context.Background(), "user-42", AddEntryInput{Name: "x", Category: "Groceries"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestAddEntry_RejectsMissingOwner(t *testing.T) {
	svc := newTestCartService(new(mockCartRepository))

	_, err := svc.AddEntry(context.Background(), "", AddEntryInput{Name: "x"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

// --- RemoveEntry ---

func TestRemoveEntry_DeletesRow(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestCartService(repo)

	repo.On("Delete", mock.Anything, int64(7), "user-42").Return(nil)

	err := svc.RemoveEntry(context.Background(), 7, "user-42")
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestRemoveEntry_RepoError(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestCartService(repo)

	repo.On("Delete", mock.Anything, int64(7), "user-42").Return(errors.New("db down"))

	err := svc.RemoveEntry(context.Background(), 7, "user-42")
	assert.Error(t, err)
}

// --- SetQuantity ---

func TestSetQuantity_DelegatesToReplaceLine(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestCartService(repo)

	repo.On("ReplaceLine", mock.Anything, "iPhone 13", "user-42", 5).Return(nil)

	err := svc.SetQuantity(context.Background(), "iPhone 13", "user-42", 5)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSetQuantity_RejectsNegativeDesired(t *testing.T) {
	svc := newTestCartService(new(mockCartRepository))

	err := svc.SetQuantity(context.Background(), "iPhone 13", "user-42", -1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

// --- ConsolidatedCart ---

func TestConsolidatedCart_AggregatesRows(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestCartService(repo)

	repo.On("ListByOwner", mock.Anything, "user-42").Return([]domain.CartEntry{
		{CartID: 1, Name: "iPhone 13", Count: 1},
		{CartID: 2, Name: "iPhone 13", Count: 2},
		{CartID: 3, Name: "Dyson V11", Count: 1},
	}, nil)

	got, err := svc.ConsolidatedCart(context.Background(), "user-42")
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, 4, got.BadgeCount)
	assert.Equal(t, "Dyson V11", got.Lines[0].Name)
	assert.Equal(t, 3, got.Lines[1].Count)
}

// --- RemoveAll against an in-memory ledger ---

// fakeLedger is an in-memory CartRepository used to test operation sequences.
type fakeLedger struct {
	nextID  int64
	entries []domain.CartEntry
}

func (f *fakeLedger) Insert(_ context.Context, e *domain.CartEntry) error {
	f.nextID++
	e.CartID = f.nextID
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeLedger) Delete(_ context.Context, cartID int64, owner string) error {
	for i, e := range f.entries {
		if e.CartID == cartID && e.Owner == owner {
			f.entries = append(f.entries[:i], f.entries[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeLedger) ListByOwner(_ context.Context, owner string) ([]domain.CartEntry, error) {
	var out []domain.CartEntry
	for _, e := range f.entries {
		if e.Owner == owner {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CartID < out[j].CartID })
	return out, nil
}

func (f *fakeLedger) ReplaceLine(_ context.Context, name, owner string, desired int) error {
	var template *domain.CartEntry
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.Name == name && e.Owner == owner {
			if template == nil {
				cp := e
				template = &cp
			}
			continue
		}
		kept = append(kept, e)
	}
	f.entries = kept

	if template != nil && desired > 0 {
		f.nextID++
		template.CartID = f.nextID
		template.Count = desired
		f.entries = append(f.entries, *template)
	}
	return nil
}

func newFakeLedgerService() (*CartService, *fakeLedger) {
	ledger := &fakeLedger{}
	logger := newTestLogger()
	return NewCartService(ledger, event.NewProducer(nil, logger), logger), ledger
}

func TestRemoveAll_LeavesCartEmpty(t *testing.T) {
	svc, _ := newFakeLedgerService()
	ctx := context.Background()

	_, err := svc.AddEntry(ctx, "user-42", AddEntryInput{Name: "iPhone 13", Count: 2})
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, "user-42", AddEntryInput{Name: "Dyson V11", Count: 1})
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, "user-42", AddEntryInput{Name: "iPhone 13", Count: 1})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveAll(ctx, "user-42"))

	entries, err := svc.ListCart(ctx, "user-42")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRemoveAll_DoesNotTouchOtherOwners(t *testing.T) {
	svc, _ := newFakeLedgerService()
	ctx := context.Background()

	_, err := svc.AddEntry(ctx, "user-42", AddEntryInput{Name: "iPhone 13"})
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, "other", AddEntryInput{Name: "iPhone 13"})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveAll(ctx, "user-42"))

	entries, err := svc.ListCart(ctx, "other")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSetQuantity_SequenceProperties(t *testing.T) {
	svc, _ := newFakeLedgerService()
	ctx := context.Background()

	_, err := svc.AddEntry(ctx, "user-42", AddEntryInput{Name: "iPhone 13", Count: 1})
	require.NoError(t, err)
	_, err = svc.AddEntry(ctx, "user-42", AddEntryInput{Name: "iPhone 13", Count: 2})
	require.NoError(t, err)

	// Positive desired count collapses to exactly one row with that count.
	require.NoError(t, svc.SetQuantity(ctx, "iPhone 13", "user-42", 5))
	entries, err := svc.ListCart(ctx, "user-42")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 5, entries[0].Count)

	// Zero removes the line entirely.
	require.NoError(t, svc.SetQuantity(ctx, "iPhone 13", "user-42", 0))
	entries, err = svc.ListCart(ctx, "user-42")
	require.NoError(t, err)
	assert.Empty(t, entries)

	// Absent name is a no-op.
	require.NoError(t, svc.SetQuantity(ctx, "Nothing", "user-42", 3))
	entries, err = svc.ListCart(ctx, "user-42")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestAddEntry_ConsolidationMatchesRowSums(t *testing.T) {
	svc, _ := newFakeLedgerService()
	ctx := context.Background()

	counts := []int{1, 2, 3}
	for _, c := range counts {
		_, err := svc.AddEntry(ctx, "user-42", AddEntryInput{Name: "iPhone 13", Count: c})
		require.NoError(t, err)
	}
	_, err := svc.AddEntry(ctx, "user-42", AddEntryInput{Name: "Dyson V11", Count: 4})
	require.NoError(t, err)

	got, err := svc.ConsolidatedCart(ctx, "user-42")
	require.NoError(t, err)
	consolidated := domain.Consolidate(mustList(t, svc, "user-42"))
	assert.Equal(t, 6, consolidated["iPhone 13"])
	assert.Equal(t, 4, consolidated["Dyson V11"])
	assert.Equal(t, 10, got.BadgeCount)
}

func mustList(t *testing.T, svc *CartService, owner string) []domain.CartEntry {
	t.Helper()
	entries, err := svc.ListCart(context.Background(), owner)
	require.NoError(t, err)
	return entries
}
