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
	"github.com/businessflow/estimate-api/internal/pricing"
	"github.com/businessflow/estimate-api/internal/service"
)

type EstimateHandler struct {
	estimateService *service.EstimateService
	logger          *zap.Logger
}

func NewEstimateHandler(estimateService *service.EstimateService, logger *zap.Logger) *EstimateHandler {
	return &EstimateHandler{
		estimateService: estimateService,
		logger:          logger,
	}
}

// @Summary List estimates
// @Tags Estimates
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(20)
// @Param customerId query string false "Filter by customer ID"
// @Param status query string false "Filter by status" Enums(pending, sent, viewed, signed)
// @Success 200 {object} domain.PaginatedResponse
// @Security ApiKeyAuth
// @Router /estimates [get]
func (h *EstimateHandler) List(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	var customerID *uuid.UUID
	if cid := r.URL.Query().Get("customerId"); cid != "" {
		if id, err := uuid.Parse(cid); err == nil {
			customerID = &id
		}
	}

	var status *domain.EstimateStatus
	if st := r.URL.Query().Get("status"); st != "" {
		s := domain.EstimateStatus(st)
		if !s.IsValid() {
			respondWithError(w, http.StatusBadRequest, "Invalid status filter")
			return
		}
		status = &s
	}

	estimates, total, err := h.estimateService.List(r.Context(), page, pageSize, customerID, status)
	if err != nil {
		h.logger.Error("failed to list estimates", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to list estimates")
		return
	}

	respondJSON(w, http.StatusOK, domain.PaginatedResponse{
		Data:       estimates,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	})
}

// @Summary Create estimate
// @Description Creates an estimate for a customer. Totals are computed server-side; a public share token is minted on creation.
// @Tags Estimates
// @Accept json
// @Produce json
// @Param request body domain.CreateEstimateRequest true "Estimate data"
// @Success 201 {object} domain.EstimateDTO
// @Failure 400 {object} domain.APIError "Validation error"
// @Failure 404 {object} domain.APIError "Customer not found"
// @Security ApiKeyAuth
// @Router /estimates [post]
func (h *EstimateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	estimate, err := h.estimateService.Create(r.Context(), &req)
	if err != nil {
		h.handleEstimateError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/estimates/"+estimate.ID.String())
	respondJSON(w, http.StatusCreated, estimate)
}

// @Summary Get estimate
// @Tags Estimates
// @Produce json
// @Param id path string true "Estimate ID"
// @Success 200 {object} domain.EstimateDTO
// @Failure 404 {object} domain.APIError
// @Security ApiKeyAuth
// @Router /estimates/{id} [get]
func (h *EstimateHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	estimate, err := h.estimateService.GetByID(r.Context(), id)
	if err != nil {
		h.handleEstimateError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, estimate)
}

// @Summary Update estimate
// @Description Replaces the line items and editable fields. Rejected once the estimate is signed.
// @Tags Estimates
// @Accept json
// @Produce json
// @Param id path string true "Estimate ID"
// @Param request body domain.UpdateEstimateRequest true "Estimate data"
// @Success 200 {object} domain.EstimateDTO
// @Failure 400 {object} domain.APIError "Validation error"
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Estimate already signed"
// @Security ApiKeyAuth
// @Router /estimates/{id} [put]
func (h *EstimateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req domain.UpdateEstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	estimate, err := h.estimateService.Update(r.Context(), id, &req)
	if err != nil {
		h.handleEstimateError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, estimate)
}

// @Summary Get estimate activities
// @Tags Estimates
// @Produce json
// @Param id path string true "Estimate ID"
// @Success 200 {array} domain.ActivityDTO
// @Failure 404 {object} domain.APIError
// @Security ApiKeyAuth
// @Router /estimates/{id}/activities [get]
func (h *EstimateHandler) GetActivities(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	activities, err := h.estimateService.GetActivities(r.Context(), id)
	if err != nil {
		h.handleEstimateError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, activities)
}

// parseIDParam reads and validates the {id} route parameter.
func parseIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid estimate ID")
		return uuid.Nil, false
	}
	return id, true
}

// handleEstimateError translates service errors to API responses.
func (h *EstimateHandler) handleEstimateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEstimateNotFound):
		respondWithError(w, http.StatusNotFound, "Estimate not found")
	case errors.Is(err, service.ErrCustomerNotFound):
		respondWithError(w, http.StatusNotFound, "Customer not found")
	case errors.Is(err, service.ErrEstimateAlreadySigned):
		respondWithError(w, http.StatusConflict, "The estimate has been signed and can no longer be changed")
	case errors.Is(err, service.ErrEstimateNotPending):
		respondWithError(w, http.StatusConflict, "Only pending estimates can be sent")
	case errors.Is(err, service.ErrInvalidSignature):
		respondWithError(w, http.StatusBadRequest, "A signer name and an image signature are required")
	case errors.Is(err, pricing.ErrNegativeValue):
		respondWithError(w, http.StatusBadRequest, "Line item values must not be negative")
	default:
		h.logger.Error("estimate operation failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
