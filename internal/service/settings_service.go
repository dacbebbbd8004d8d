package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/businessflow/estimate-api/internal/domain"
	"github.com/businessflow/estimate-api/internal/mapper"
	"github.com/businessflow/estimate-api/internal/repository"
)

// SettingsService manages the single company settings row used for
// branding and pricing defaults.
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	logger       *zap.Logger
}

func NewSettingsService(settingsRepo *repository.SettingsRepository, logger *zap.Logger) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo, logger: logger}
}

func (s *SettingsService) Get(ctx context.Context) (*domain.SettingsDTO, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSettingsNotFound
		}
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	dto := mapper.ToSettingsDTO(settings)
	return &dto, nil
}

// Update writes the settings row, creating it on first configuration.
func (s *SettingsService) Update(ctx context.Context, req *domain.UpdateSettingsRequest) (*domain.SettingsDTO, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to get settings: %w", err)
		}
		settings = &domain.CompanySettings{}
	}

	settings.CompanyName = req.CompanyName
	settings.LogoURL = req.LogoURL
	settings.Email = req.Email
	settings.Phone = req.Phone
	settings.Address = req.Address
	settings.DefaultTaxRate = req.DefaultTaxRate

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	dto := mapper.ToSettingsDTO(settings)
	return &dto, nil
}
