package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/businessflow/estimate-api/internal/domain"
	"github.com/businessflow/estimate-api/internal/service"
)

type SettingsHandler struct {
	settingsService *service.SettingsService
	logger          *zap.Logger
}

func NewSettingsHandler(settingsService *service.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// @Summary Get company settings
// @Tags Settings
// @Produce json
// @Success 200 {object} domain.SettingsDTO
// @Failure 404 {object} domain.APIError "Settings not configured"
// @Security ApiKeyAuth
// @Router /settings [get]
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.Get(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrSettingsNotFound) {
			respondWithError(w, http.StatusNotFound, "Company settings have not been configured")
			return
		}
		h.logger.Error("failed to get settings", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, settings)
}

// @Summary Update company settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body domain.UpdateSettingsRequest true "Settings data"
// @Success 200 {object} domain.SettingsDTO
// @Failure 400 {object} domain.APIError "Validation error"
// @Security ApiKeyAuth
// @Router /settings [put]
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: malformed JSON")
		return
	}

	if err := validate.Struct(req); err != nil {
		respondValidationError(w, err)
		return
	}

	settings, err := h.settingsService.Update(r.Context(), &req)
	if err != nil {
		h.logger.Error("failed to update settings", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "Failed to update settings")
		return
	}

	respondJSON(w, http.StatusOK, settings)
}
