package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"storefront/pkg/service"
)

// CustomerHandler handles customer-related HTTP requests
type CustomerHandler struct {
	customers *service.CustomerService
	orders    *service.OrderService
	logger    zerolog.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(customers *service.CustomerService, orders *service.OrderService, logger zerolog.Logger) *CustomerHandler {
	return &CustomerHandler{customers: customers, orders: orders, logger: logger}
}

// CustomerRequest is the request body for creating or updating a customer
type CustomerRequest struct {
	Name string `json:"name" validate:"required,min=2,max=255"`
}

// List handles GET /customers. With a non-blank name query parameter it
// becomes a cached search; otherwise a plain page.
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	if name := r.URL.Query().Get("name"); name != "" {
		customers, err := h.customers.Search(r.Context(), name)
		if err != nil {
			respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, customers)
		return
	}

	page, size := pageParams(r)
	customers, err := h.customers.List(r.Context(), page, size)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customers)
}

// Get handles GET /customers/{id}
func (h *CustomerHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	customer, err := h.customers.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if customer == nil {
		respondError(w, http.StatusNotFound, "customer not found")
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

// Orders handles GET /customers/{id}/orders
func (h *CustomerHandler) Orders(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	orders, err := h.orders.GetByCustomerID(r.Context(), id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// Create handles POST /customers
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	customer, err := h.customers.Create(r.Context(), req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, customer)
}

// Update handles PUT /customers/{id}
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	var req CustomerRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	customer, err := h.customers.Update(r.Context(), id, req.Name)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, customer)
}

// Delete handles DELETE /customers/{id}
func (h *CustomerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid customer id")
		return
	}

	if err := h.customers.Delete(r.Context(), id); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
