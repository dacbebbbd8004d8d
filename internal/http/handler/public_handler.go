package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/businessflow/estimate-api/internal/domain"
	"github.com/businessflow/estimate-api/internal/service"
)

// invalidLinkMessage is intentionally the same for unknown and malformed
// tokens so the public surface leaks nothing about which tokens exist.
const invalidLinkMessage = "This estimate link is invalid or has expired"

// PublicHandler serves the unauthenticated share-link surface: viewing,
// signing, and downloading an estimate by token.
type PublicHandler struct {
	estimateService *service.EstimateService
	logger          *zap.Logger
}

func NewPublicHandler(estimateService *service.EstimateService, logger *zap.Logger) *PublicHandler {
	return &PublicHandler{
		estimateService: estimateService,
		logger:          logger,
	}
}

// @Summary View shared estimate
// @Description Resolves a share token to the customer-facing view of the estimate. Opening the link marks the estimate as viewed.
// @Tags Public
// @Produce json
// @Param token path string true "Share token"
// @Success 200 {object} domain.PublicEstimateDTO
// @Failure 404 {object} domain.APIError "Invalid or expired link"
// @Router /e/{token} [get]
func (h *PublicHandler) View(w http.ResponseWriter, r *http.Request) {
	estimate, err := h.estimateService.GetPublicByToken(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.handlePublicError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, estimate)
}

// @Summary Sign shared estimate
// @Description Captures the customer's signature through the public link and completes the estimate lifecycle.
// @Tags Public
// @Accept json
// @Produce json
// @Param token path string true "Share token"
// @Param request body domain.SignEstimateRequest true "Signature"
// @Success 200 {object} domain.PublicEstimateDTO
// @Failure 400 {object} domain.APIError "Invalid signature payload"
// @Failure 404 {object} domain.APIError "Invalid or expired link"
// @Failure 409 {object} domain.APIError "Estimate already signed"
// @Router /e/{token}/sign [post]
func (h *PublicHandler) Sign(w http.ResponseWriter, r *http.Request) {
	var req domain.SignEstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	estimate, err := h.estimateService.SignByToken(r.Context(), chi.URLParam(r, "token"), &req)
	if err != nil {
		h.handlePublicError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, estimate)
}

// @Summary Download shared estimate PDF
// @Tags Public
// @Produce application/pdf
// @Param token path string true "Share token"
// @Success 200 {file} binary
// @Failure 404 {object} domain.APIError "Invalid or expired link"
// @Router /e/{token}/pdf [get]
func (h *PublicHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	data, err := h.estimateService.RenderPublicPDF(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.handlePublicError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="estimate.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *PublicHandler) handlePublicError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrEstimateNotFound):
		respondWithError(w, http.StatusNotFound, invalidLinkMessage)
	case errors.Is(err, service.ErrEstimateAlreadySigned):
		respondWithError(w, http.StatusConflict, "The estimate has already been signed")
	case errors.Is(err, service.ErrInvalidSignature):
		respondWithError(w, http.StatusBadRequest, "A signer name and an image signature are required")
	default:
		h.logger.Error("public estimate operation failed", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
