package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"storefront/pkg/service"
)

// AdminHandler exposes the cache control endpoints. These are operational
// tools, not part of the storefront surface proper, and every eviction is
// best-effort against the shared store.
type AdminHandler struct {
	admin  *service.AdminService
	logger zerolog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(admin *service.AdminService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{admin: admin, logger: logger}
}

type evictionResponse struct {
	Message string `json:"message"`
}

// EvictCustomer handles DELETE /admin/cache/customers/{id}
func (h *AdminHandler) EvictCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	h.admin.EvictCustomer(r.Context(), id)
	respondJSON(w, http.StatusOK, evictionResponse{Message: "customer cache entry evicted"})
}

// EvictCustomerOrders handles DELETE /admin/cache/customers/{id}/orders
func (h *AdminHandler) EvictCustomerOrders(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	h.admin.EvictCustomerOrders(r.Context(), id)
	respondJSON(w, http.StatusOK, evictionResponse{Message: "customer order cache entry evicted"})
}

// EvictOrder handles DELETE /admin/cache/orders/{id}
func (h *AdminHandler) EvictOrder(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	h.admin.EvictOrder(r.Context(), id)
	respondJSON(w, http.StatusOK, evictionResponse{Message: "order cache entry evicted"})
}

// EvictProduct handles DELETE /admin/cache/products/{id}
func (h *AdminHandler) EvictProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid product id")
		return
	}

	h.admin.EvictProduct(r.Context(), id)
	respondJSON(w, http.StatusOK, evictionResponse{Message: "product cache entry evicted"})
}

// ClearNamespace handles DELETE /admin/cache/namespaces/{name}
func (h *AdminHandler) ClearNamespace(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := h.admin.ClearNamespace(r.Context(), name); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, evictionResponse{Message: "namespace cleared: " + name})
}

// FlushAll handles DELETE /admin/cache/all
func (h *AdminHandler) FlushAll(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.FlushAll(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("cache flush failed")
		respondError(w, http.StatusInternalServerError, "cache flush failed")
		return
	}
	respondJSON(w, http.StatusOK, evictionResponse{Message: "cache flushed"})
}

// Warmup handles POST /admin/cache/warmup
func (h *AdminHandler) Warmup(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.Warmup(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("cache warmup failed")
		respondError(w, http.StatusInternalServerError, "cache warmup failed")
		return
	}
	respondJSON(w, http.StatusOK, evictionResponse{Message: "cache warmed"})
}

// Stats handles GET /admin/cache/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.admin.Stats())
}
