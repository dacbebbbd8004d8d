package domain

import (
	"github.com/google/uuid"
)

// ============================================================================
// Estimate DTOs
// ============================================================================

// EstimateDTO is the internal API representation of an estimate. It carries
// every field, including the internal note. Never serve it on the public
// link routes; use PublicEstimateDTO there.
type EstimateDTO struct {
	ID           uuid.UUID         `json:"id"`
	Token        string            `json:"token"`
	ShareURL     string            `json:"shareUrl,omitempty"`
	CustomerID   uuid.UUID         `json:"customerId"`
	CustomerName string            `json:"customerName,omitempty"`
	Date         string            `json:"date"` // ISO 8601 date
	Status       EstimateStatus    `json:"status"`
	Items        []EstimateItemDTO `json:"items"`
	Subtotal     float64           `json:"subtotal"`
	Tax          float64           `json:"tax"`
	Total        float64           `json:"total"`
	CustomerNote string            `json:"customerNote,omitempty"`
	InternalNote string            `json:"internalNote,omitempty"`
	SentAt       *string           `json:"sentAt,omitempty"`   // ISO 8601
	ViewedAt     *string           `json:"viewedAt,omitempty"` // ISO 8601
	SignedAt     *string           `json:"signedAt,omitempty"` // ISO 8601
	SignerName   string            `json:"signerName,omitempty"`
	CreatedAt    string            `json:"createdAt"` // ISO 8601
	UpdatedAt    string            `json:"updatedAt"` // ISO 8601
}

// EstimateItemDTO is one line of an estimate as served by the API.
type EstimateItemDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	Unit         string    `json:"unit,omitempty"`
	Quantity     float64   `json:"quantity"`
	MaterialCost float64   `json:"materialCost"`
	Markup       float64   `json:"markup"`
	Price        float64   `json:"price"`
	UnitPrice    float64   `json:"unitPrice"`
	Amount       float64   `json:"amount"`
	TaxRate      float64   `json:"taxRate"`
}

// PublicEstimateDTO is the representation served on the unauthenticated
// public link. The internal note and storage token never appear here, and
// signer fields are present only once the estimate is signed.
type PublicEstimateDTO struct {
	ID               uuid.UUID         `json:"id"`
	CompanyName      string            `json:"companyName,omitempty"`
	CompanyLogoURL   string            `json:"companyLogoUrl,omitempty"`
	CustomerName     string            `json:"customerName,omitempty"`
	Date             string            `json:"date"`
	Status           EstimateStatus    `json:"status"`
	Items            []EstimateItemDTO `json:"items"`
	Subtotal         float64           `json:"subtotal"`
	Tax              float64           `json:"tax"`
	Total            float64           `json:"total"`
	CustomerNote     string            `json:"customerNote,omitempty"`
	SignedAt         *string           `json:"signedAt,omitempty"`
	SignerName       string            `json:"signerName,omitempty"`
	SignatureDataURL string            `json:"signatureDataUrl,omitempty"`
}

// CreateEstimateRequest is the payload for creating an estimate. Validation
// happens at the boundary: negative numeric values are rejected, never
// silently coerced.
type CreateEstimateRequest struct {
	CustomerID   uuid.UUID                   `json:"customerId" validate:"required"`
	Date         string                      `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Items        []CreateEstimateItemRequest `json:"items" validate:"required,min=1,dive"`
	CustomerNote string                      `json:"customerNote,omitempty" validate:"max=2000"`
	InternalNote string                      `json:"internalNote,omitempty" validate:"max=2000"`
}

// UpdateEstimateRequest fully replaces the editable fields of an estimate.
// Items are replaced as a whole; totals are recomputed server-side.
type UpdateEstimateRequest struct {
	Date         string                      `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Items        []CreateEstimateItemRequest `json:"items" validate:"required,min=1,dive"`
	CustomerNote string                      `json:"customerNote,omitempty" validate:"max=2000"`
	InternalNote string                      `json:"internalNote,omitempty" validate:"max=2000"`
}

// CreateEstimateItemRequest is one line item in a create/update payload.
type CreateEstimateItemRequest struct {
	Name         string  `json:"name" validate:"required,max=200"`
	Description  string  `json:"description,omitempty" validate:"max=2000"`
	Unit         string  `json:"unit,omitempty" validate:"max=50"`
	Quantity     float64 `json:"quantity" validate:"gte=0"`
	MaterialCost float64 `json:"materialCost" validate:"gte=0"`
	Markup       float64 `json:"markup" validate:"gte=0"`
	Price        float64 `json:"price" validate:"gte=0"`
	TaxRate      float64 `json:"taxRate" validate:"gte=0,lte=100"`
}

// SignEstimateRequest is the payload submitted from the public signing form.
type SignEstimateRequest struct {
	SignerName       string `json:"signerName" validate:"required,max=200"`
	SignatureDataURL string `json:"signatureDataUrl" validate:"required"`
}

// ShareLinkDTO carries the public link for an estimate.
type ShareLinkDTO struct {
	EstimateID uuid.UUID `json:"estimateId"`
	Token      string    `json:"token"`
	ShareURL   string    `json:"shareUrl"`
}

// ============================================================================
// Customer DTOs
// ============================================================================

type CustomerDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	PostalCode string    `json:"postalCode,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  string    `json:"createdAt"` // ISO 8601
	UpdatedAt  string    `json:"updatedAt"` // ISO 8601
}

type CreateCustomerRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Phone      string `json:"phone,omitempty" validate:"max=50"`
	Address    string `json:"address,omitempty" validate:"max=500"`
	City       string `json:"city,omitempty" validate:"max=100"`
	PostalCode string `json:"postalCode,omitempty" validate:"max=20"`
	Notes      string `json:"notes,omitempty" validate:"max=2000"`
}

type UpdateCustomerRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email" validate:"required,email,max=255"`
	Phone      string `json:"phone,omitempty" validate:"max=50"`
	Address    string `json:"address,omitempty" validate:"max=500"`
	City       string `json:"city,omitempty" validate:"max=100"`
	PostalCode string `json:"postalCode,omitempty" validate:"max=20"`
	Notes      string `json:"notes,omitempty" validate:"max=2000"`
}

// ============================================================================
// Product DTOs
// ============================================================================

type ProductDTO struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Unit        string    `json:"unit,omitempty"`
	Price       float64   `json:"price"`
	Tags        []string  `json:"tags,omitempty"`
	IsActive    bool      `json:"isActive"`
}

type CreateProductRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description,omitempty" validate:"max=2000"`
	Unit        string   `json:"unit,omitempty" validate:"max=50"`
	Price       float64  `json:"price" validate:"gte=0"`
	Tags        []string `json:"tags,omitempty" validate:"max=20,dive,max=50"`
}

// ============================================================================
// Settings DTOs
// ============================================================================

type SettingsDTO struct {
	CompanyName    string  `json:"companyName"`
	LogoURL        string  `json:"logoUrl,omitempty"`
	Email          string  `json:"email,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	Address        string  `json:"address,omitempty"`
	DefaultTaxRate float64 `json:"defaultTaxRate"`
}

type UpdateSettingsRequest struct {
	CompanyName    string  `json:"companyName" validate:"required,max=200"`
	LogoURL        string  `json:"logoUrl,omitempty" validate:"omitempty,url,max=500"`
	Email          string  `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Phone          string  `json:"phone,omitempty" validate:"max=50"`
	Address        string  `json:"address,omitempty" validate:"max=500"`
	DefaultTaxRate float64 `json:"defaultTaxRate" validate:"gte=0,lte=100"`
}

// ============================================================================
// Activity DTOs
// ============================================================================

type ActivityDTO struct {
	ID           uuid.UUID    `json:"id"`
	EstimateID   uuid.UUID    `json:"estimateId"`
	ActivityType ActivityType `json:"activityType"`
	Title        string       `json:"title"`
	Body         string       `json:"body,omitempty"`
	OccurredAt   string       `json:"occurredAt"` // ISO 8601
}

// ============================================================================
// Response wrappers
// ============================================================================

// Pagination response wrapper
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}
