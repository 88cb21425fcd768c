package http

import (
	"log/slog"
	"net/http"

	"github.com/acs027/eshop-backend/internal/domain"
	"github.com/acs027/eshop-backend/internal/service"
	apperrors "github.com/acs027/eshop-backend/pkg/errors"
	"github.com/acs027/eshop-backend/pkg/httputil"
)

// CatalogHandler handles HTTP requests for catalog endpoints.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// productsResponse is the storefront envelope for the product list.
type productsResponse struct {
	Products []domain.Product `json:"products"`
	Success  int              `json:"success"`
}

// syncResponse reports the result of a catalog feed synchronization.
type syncResponse struct {
	Synced  int `json:"synced"`
	Success int `json:"success"`
}

// ListProducts handles GET /api/v1/products. Failures degrade to an empty
// product list with success 0; the status code still reflects the error.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "catalog list failed",
			slog.String("error", err.Error()),
		)
		httputil.WriteJSON(w, apperrors.HTTPStatus(err), productsResponse{
			Products: []domain.Product{},
			Success:  0,
		})
		return
	}

	if products == nil {
		products = []domain.Product{}
	}
	httputil.WriteJSON(w, http.StatusOK, productsResponse{
		Products: products,
		Success:  1,
	})
}

// SyncCatalog handles POST /api/v1/admin/catalog/sync.
func (h *CatalogHandler) SyncCatalog(w http.ResponseWriter, r *http.Request) {
	inserted, err := h.service.Sync(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, syncResponse{
		Synced:  inserted,
		Success: 1,
	})
}
