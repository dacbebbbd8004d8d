// Package mapper converts database entities to API DTOs. Timestamps are
// formatted as ISO 8601 strings so clients never see Go's default time
// encoding.
package mapper

import (
	"time"

	"github.com/businessflow/estimate-api/internal/domain"
)

const (
	timeFormat = "2006-01-02T15:04:05Z"
	dateFormat = "2006-01-02"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// ToEstimateDTO maps an estimate to its internal API representation.
// The share URL is attached by the service, which knows the public base URL.
func ToEstimateDTO(e *domain.Estimate) domain.EstimateDTO {
	dto := domain.EstimateDTO{
		ID:           e.ID,
		Token:        e.Token,
		CustomerID:   e.CustomerID,
		CustomerName: e.CustomerName,
		Date:         e.Date.Format(dateFormat),
		Status:       e.Status,
		Items:        toEstimateItemDTOs(e.Items),
		Subtotal:     e.Subtotal,
		Tax:          e.Tax,
		Total:        e.Total,
		CustomerNote: e.CustomerNote,
		InternalNote: e.InternalNote,
		SentAt:       formatTimePtr(e.SentAt),
		ViewedAt:     formatTimePtr(e.ViewedAt),
		SignedAt:     formatTimePtr(e.SignedAt),
		SignerName:   e.SignerName,
		CreatedAt:    formatTime(e.CreatedAt),
		UpdatedAt:    formatTime(e.UpdatedAt),
	}
	if e.Customer != nil && dto.CustomerName == "" {
		dto.CustomerName = e.Customer.Name
	}
	return dto
}

// ToPublicEstimateDTO maps an estimate to the shape served on the public
// link. The internal note and the share token itself never appear in the
// output, and signer fields are included only once the estimate is signed.
func ToPublicEstimateDTO(e *domain.Estimate, settings *domain.CompanySettings) domain.PublicEstimateDTO {
	dto := domain.PublicEstimateDTO{
		ID:           e.ID,
		CustomerName: e.CustomerName,
		Date:         e.Date.Format(dateFormat),
		Status:       e.Status,
		Items:        toEstimateItemDTOs(e.Items),
		Subtotal:     e.Subtotal,
		Tax:          e.Tax,
		Total:        e.Total,
		CustomerNote: e.CustomerNote,
	}
	if e.Customer != nil && dto.CustomerName == "" {
		dto.CustomerName = e.Customer.Name
	}
	if settings != nil {
		dto.CompanyName = settings.CompanyName
		dto.CompanyLogoURL = settings.LogoURL
	}
	if e.IsSigned() {
		dto.SignedAt = formatTimePtr(e.SignedAt)
		dto.SignerName = e.SignerName
		dto.SignatureDataURL = e.SignatureDataURL
	}
	return dto
}

func toEstimateItemDTOs(items []domain.EstimateItem) []domain.EstimateItemDTO {
	dtos := make([]domain.EstimateItemDTO, len(items))
	for i, item := range items {
		dtos[i] = domain.EstimateItemDTO{
			ID:           item.ID,
			Name:         item.Name,
			Description:  item.Description,
			Unit:         item.Unit,
			Quantity:     item.Quantity,
			MaterialCost: item.MaterialCost,
			Markup:       item.Markup,
			Price:        item.Price,
			UnitPrice:    item.UnitPrice,
			Amount:       item.Amount,
			TaxRate:      item.TaxRate,
		}
	}
	return dtos
}

// ToCustomerDTO maps a customer to its API representation
func ToCustomerDTO(c *domain.Customer) domain.CustomerDTO {
	return domain.CustomerDTO{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Phone:      c.Phone,
		Address:    c.Address,
		City:       c.City,
		PostalCode: c.PostalCode,
		Notes:      c.Notes,
		CreatedAt:  formatTime(c.CreatedAt),
		UpdatedAt:  formatTime(c.UpdatedAt),
	}
}

// ToProductDTO maps a product to its API representation
func ToProductDTO(p *domain.Product) domain.ProductDTO {
	return domain.ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Unit:        p.Unit,
		Price:       p.Price,
		Tags:        p.Tags,
		IsActive:    p.IsActive,
	}
}

// ToSettingsDTO maps company settings to their API representation
func ToSettingsDTO(s *domain.CompanySettings) domain.SettingsDTO {
	return domain.SettingsDTO{
		CompanyName:    s.CompanyName,
		LogoURL:        s.LogoURL,
		Email:          s.Email,
		Phone:          s.Phone,
		Address:        s.Address,
		DefaultTaxRate: s.DefaultTaxRate,
	}
}

// ToActivityDTO maps an activity log entry to its API representation
func ToActivityDTO(a *domain.Activity) domain.ActivityDTO {
	return domain.ActivityDTO{
		ID:           a.ID,
		EstimateID:   a.EstimateID,
		ActivityType: a.ActivityType,
		Title:        a.Title,
		Body:         a.Body,
		OccurredAt:   formatTime(a.OccurredAt),
	}
}
