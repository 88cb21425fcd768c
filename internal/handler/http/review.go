package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/acs027/eshop-backend/internal/domain"
	"github.com/acs027/eshop-backend/internal/service"
	apperrors "github.com/acs027/eshop-backend/pkg/errors"
	"github.com/acs027/eshop-backend/pkg/httputil"
	"github.com/acs027/eshop-backend/pkg/validator"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// WriteReviewRequest is the JSON request body for writing a review.
type WriteReviewRequest struct {
	Rating int    `json:"rating" validate:"required,gte=1,lte=5"`
	Text   string `json:"text" validate:"required,min=1,max=5000"`
}

type reviewsResponse struct {
	Reviews []domain.Review      `json:"reviews"`
	Summary domain.RatingSummary `json:"summary"`
	Success int                  `json:"success"`
}

type reviewWrittenResponse struct {
	Review  *domain.Review `json:"review"`
	Success int            `json:"success"`
}

// ListReviews handles GET /api/v1/products/{productId}/reviews. Failures
// degrade to an empty review list with success 0.
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("productId must be an integer"), h.logger)
		return
	}

	reviews, err := h.service.FetchReviews(r.Context(), productID)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "review list failed",
			slog.Int64("product_id", productID),
			slog.String("error", err.Error()),
		)
		httputil.WriteJSON(w, apperrors.HTTPStatus(err), reviewsResponse{
			Reviews: []domain.Review{},
			Summary: domain.RatingSummary{Filled: 0, Empty: 5, Count: 0},
			Success: 0,
		})
		return
	}

	if reviews == nil {
		reviews = []domain.Review{}
	}
	httputil.WriteJSON(w, http.StatusOK, reviewsResponse{
		Reviews: reviews,
		Summary: domain.SummarizeRatings(reviews),
		Success: 1,
	})
}

// WriteReview handles POST /api/v1/products/{productId}/reviews.
func (h *ReviewHandler) WriteReview(w http.ResponseWriter, r *http.Request) {
	productID, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("productId must be an integer"), h.logger)
		return
	}

	var req WriteReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("invalid request body: "+err.Error()), h.logger)
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	review, err := h.service.WriteReview(r.Context(), productID, ownerFromContext(r.Context()), service.WriteReviewInput{
		Rating: req.Rating,
		Text:   req.Text,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, reviewWrittenResponse{
		Review:  review,
		Success: 1,
	})
}
