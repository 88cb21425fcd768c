package http

import (
	"context"
	"net/http"
	"strings"

	apperrors "github.com/acs027/eshop-backend/pkg/errors"
	"github.com/acs027/eshop-backend/pkg/httputil"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// ownerKey is the context key for the cart owner identity.
const ownerKey contextKey = "owner"

// OwnerFromHeader reads the X-User-ID header and stores it in the request
// context. An absent header falls back to the configured guest identifier
// instead of rejecting; anonymous carts are part of the storefront contract.
func OwnerFromHeader(guestID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owner := r.Header.Get("X-User-ID")
			if owner == "" {
				owner = guestID
			}
			ctx := context.WithValue(r.Context(), ownerKey, owner)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUserID rejects requests without an X-User-ID header. Used on review
// writes, where the guest fallback does not apply.
func RequireUserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uid := r.Header.Get("X-User-ID")
		if uid == "" {
			httputil.WriteError(w, r, apperrors.Unauthorized("a user identity is required"), nil)
			return
		}
		ctx := context.WithValue(r.Context(), ownerKey, uid)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ownerFromContext extracts the owner identity from the request context.
func ownerFromContext(ctx context.Context) string {
	owner, _ := ctx.Value(ownerKey).(string)
	return owner
}

// ContentTypeJSON enforces that requests with a body carry
// Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
