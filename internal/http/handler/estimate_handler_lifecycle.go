package handler

// Lifecycle endpoints for the internal estimate surface: send, share link,
// and PDF export.

import (
	"fmt"
	"net/http"
)

// @Summary Send estimate
// @Description Transitions a pending estimate to sent and notifies the customer with the public link.
// @Tags Estimates
// @Produce json
// @Param id path string true "Estimate ID"
// @Success 200 {object} domain.EstimateDTO
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Estimate is not pending"
// @Security ApiKeyAuth
// @Router /estimates/{id}/send [post]
func (h *EstimateHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	estimate, err := h.estimateService.MarkSent(r.Context(), id)
	if err != nil {
		h.handleEstimateError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, estimate)
}

// @Summary Get share link
// @Description Returns the public link the customer uses to view and sign the estimate.
// @Tags Estimates
// @Produce json
// @Param id path string true "Estimate ID"
// @Success 200 {object} domain.ShareLinkDTO
// @Failure 404 {object} domain.APIError
// @Security ApiKeyAuth
// @Router /estimates/{id}/share-link [post]
func (h *EstimateHandler) ShareLink(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	link, err := h.estimateService.ShareLink(r.Context(), id)
	if err != nil {
		h.handleEstimateError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, link)
}

// @Summary Download estimate PDF
// @Tags Estimates
// @Produce application/pdf
// @Param id path string true "Estimate ID"
// @Success 200 {file} binary
// @Failure 404 {object} domain.APIError
// @Security ApiKeyAuth
// @Router /estimates/{id}/pdf [get]
func (h *EstimateHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	data, err := h.estimateService.RenderPDF(r.Context(), id)
	if err != nil {
		h.handleEstimateError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="estimate-%s.pdf"`, id))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
