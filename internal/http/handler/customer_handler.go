package handler

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/businessflow/estimate-api/internal/domain"
	"github.com/businessflow/estimate-api/internal/service"
)

type CustomerHandler struct {
	customerService *service.CustomerService
	estimateService *service.EstimateService
	logger          *zap.Logger
}

func NewCustomerHandler(customerService *service.CustomerService, estimateService *service.EstimateService, logger *zap.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		estimateService: estimateService,
		logger:          logger,
	}
}

// @Summary List customers
// @Tags Customers
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param search query string false "Search by name or email"
// @Success 200 {object} domain.PaginatedResponse
// @Security ApiKeyAuth
// @Router /customers [get]
func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	customers, total, err := h.customerService.List(r.Context(), page, pageSize, r.URL.Query().Get("search"))
	if err != nil {
		h.logger.Error("failed to list customers", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list customers")
		return
	}

	respondJSON(w, http.StatusOK, domain.PaginatedResponse{
		Data:       customers,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	})
}

// @Summary Create customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param request body domain.CreateCustomerRequest true "Customer data"
// @Success 201 {object} domain.CustomerDTO
// @Failure 400 {object} domain.APIError "Validation error"
// @Security ApiKeyAuth
// @Router /customers [post]
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	customer, err := h.customerService.Create(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to create customer", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	w.Header().Set("Location", "/api/v1/customers/"+customer.ID.String())
	respondJSON(w, http.StatusCreated, customer)
}

// @Summary Get customer
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} domain.CustomerDTO
// @Failure 404 {object} domain.APIError
// @Security ApiKeyAuth
// @Router /customers/{id} [get]
func (h *CustomerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid customer ID")
		return
	}

	customer, err := h.customerService.GetByID(r.Context(), id)
	if err != nil {
		h.handleCustomerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, customer)
}

// @Summary Update customer
// @Tags Customers
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param request body domain.UpdateCustomerRequest true "Customer data"
// @Success 200 {object} domain.CustomerDTO
// @Failure 400 {object} domain.APIError "Validation error"
// @Failure 404 {object} domain.APIError
// @Security ApiKeyAuth
// @Router /customers/{id} [put]
func (h *CustomerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid customer ID")
		return
	}

	var req domain.UpdateCustomerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	customer, err := h.customerService.Update(r.Context(), id, &req)
	if err != nil {
		h.handleCustomerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, customer)
}

// @Summary List a customer's estimates
// @Tags Customers
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {array} domain.EstimateDTO
// @Failure 404 {object} domain.APIError
// @Security ApiKeyAuth
// @Router /customers/{id}/estimates [get]
func (h *CustomerHandler) GetEstimates(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid customer ID")
		return
	}

	estimates, err := h.estimateService.ListByCustomer(r.Context(), id)
	if err != nil {
		h.handleCustomerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, estimates)
}

func (h *CustomerHandler) handleCustomerError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrCustomerNotFound) {
		respondWithError(w, http.StatusNotFound, "Customer not found")
		return
	}
	h.logger.Error("customer operation failed", zap.Error(err))
	respondWithError(w, http.StatusInternalServerError, "Internal server error")
}
