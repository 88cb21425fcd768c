package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/acs027/eshop-backend/internal/domain"
	"github.com/acs027/eshop-backend/internal/service"
	apperrors "github.com/acs027/eshop-backend/pkg/errors"
	"github.com/acs027/eshop-backend/pkg/httputil"
	"github.com/acs027/eshop-backend/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddEntryRequest is the JSON request body for adding a cart entry.
type AddEntryRequest struct {
	Name      string `json:"name" validate:"required,min=1,max=500"`
	ImagePath string `json:"image_path"`
	Category  string `json:"category"`
	Price     int64  `json:"price" validate:"gte=0"`
	Brand     string `json:"brand"`
	Count     int    `json:"count" validate:"gte=0,lte=100"`
}

// SetQuantityRequest is the JSON request body for setting a line's quantity.
type SetQuantityRequest struct {
	Count int `json:"count" validate:"gte=0,lte=100"`
}

// --- Response envelopes ---

type entriesResponse struct {
	Entries []domain.CartEntry `json:"entries"`
	Success int                `json:"success"`
}

type consolidatedResponse struct {
	Lines      []domain.ConsolidatedLine `json:"lines"`
	BadgeCount int                       `json:"badge_count"`
	Success    int                       `json:"success"`
}

type statusResponse struct {
	Success int `json:"success"`
}

// --- Handlers ---

// ListCart handles GET /api/v1/cart. Failures degrade to an empty entry list
// with success 0.
func (h *CartHandler) ListCart(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.ListCart(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "cart list failed",
			slog.String("error", err.Error()),
		)
		httputil.WriteJSON(w, apperrors.HTTPStatus(err), entriesResponse{
			Entries: []domain.CartEntry{},
			Success: 0,
		})
		return
	}

	if entries == nil {
		entries = []domain.CartEntry{}
	}
	httputil.WriteJSON(w, http.StatusOK, entriesResponse{
		Entries: entries,
		Success: 1,
	})
}

// ConsolidatedCart handles GET /api/v1/cart/consolidated.
func (h *CartHandler) ConsolidatedCart(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.ConsolidatedCart(r.Context(), ownerFromContext(r.Context()))
	if err != nil {
		h.logger.ErrorContext(r.Context(), "consolidated cart failed",
			slog.String("error", err.Error()),
		)
		httputil.WriteJSON(w, apperrors.HTTPStatus(err), consolidatedResponse{
			Lines:   []domain.ConsolidatedLine{},
			Success: 0,
		})
		return
	}

	lines := view.Lines
	if lines == nil {
		lines = []domain.ConsolidatedLine{}
	}
	httputil.WriteJSON(w, http.StatusOK, consolidatedResponse{
		Lines:      lines,
		BadgeCount: view.BadgeCount,
		Success:    1,
	})
}

// AddEntry handles POST /api/v1/cart/items.
func (h *CartHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var req AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	input := service.AddEntryInput{
		Name:      req.Name,
		ImagePath: req.ImagePath,
		Category:  req.Category,
		Price:     req.Price,
		Brand:     req.Brand,
		Count:     req.Count,
	}

	if _, err := h.service.AddEntry(r.Context(), ownerFromContext(r.Context()), input); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, statusResponse{Success: 1})
}

// RemoveEntry handles DELETE /api/v1/cart/items/{cartId}. Removing an absent
// entry still reports success.
func (h *CartHandler) RemoveEntry(w http.ResponseWriter, r *http.Request) {
	cartID, err := strconv.ParseInt(chi.URLParam(r, "cartId"), 10, 64)
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("cartId must be an integer"), h.logger)
		return
	}

	if err := h.service.RemoveEntry(r.Context(), cartID, ownerFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, statusResponse{Success: 1})
}

// SetQuantity handles PUT /api/v1/cart/lines/{name}.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}
	if name == "" {
		httputil.WriteError(w, r, apperrors.InvalidInput("line name is required"), h.logger)
		return
	}

	var req SetQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	if err := h.service.SetQuantity(r.Context(), name, ownerFromContext(r.Context()), req.Count); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, statusResponse{Success: 1})
}

// RemoveAll handles DELETE /api/v1/cart.
func (h *CartHandler) RemoveAll(w http.ResponseWriter, r *http.Request) {
	if err := h.service.RemoveAll(r.Context(), ownerFromContext(r.Context())); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, statusResponse{Success: 1})
}
