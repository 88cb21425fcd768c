package feed

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/acs027/eshop-backend/pkg/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestFetch_ParsesProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"products": [
				{"id": 1, "name": "iPhone 13", "image": "iphone13.png", "category": "Phone", "price": 30000, "brand": "Apple"},
				{"id": 2, "name": "Dyson V11", "image": "dyson.png", "category": "HomeAppliance", "price": 12000, "brand": "Dyson"}
			],
			"success": 1
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())
	got, err := client.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	assert.Equal(t, "iPhone 13", got[0].Name)
	assert.Equal(t, "iphone13.png", got[0].ImagePath)
	assert.Equal(t, int64(12000), got[1].Price)
}

func TestFetch_MalformedBodyDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())
	got, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetch_FeedFailureFlagDegradesToEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"products": [], "success": 0}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())
	got, err := client.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetch_UnreachableUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing listening anymore

	client := NewClient(srv.URL, testLogger())
	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
}

func TestFetch_Non200Status(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, testLogger())
	_, err := client.Fetch(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUpstreamUnavailable)
}
