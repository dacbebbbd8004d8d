package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID when none was set. Keeping ID generation in the
// application means SQLite test databases behave the same as PostgreSQL.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// EstimateStatus represents the lifecycle state of an estimate.
// Transitions only move forward: pending -> sent -> viewed -> signed.
type EstimateStatus string

const (
	EstimateStatusPending EstimateStatus = "pending"
	EstimateStatusSent    EstimateStatus = "sent"
	EstimateStatusViewed  EstimateStatus = "viewed"
	EstimateStatusSigned  EstimateStatus = "signed"
)

// IsValid checks if the EstimateStatus is a valid enum value
func (s EstimateStatus) IsValid() bool {
	switch s {
	case EstimateStatusPending, EstimateStatusSent, EstimateStatusViewed, EstimateStatusSigned:
		return true
	}
	return false
}

// rank orders statuses along the lifecycle so comparisons don't depend on
// string values.
func (s EstimateStatus) rank() int {
	switch s {
	case EstimateStatusPending:
		return 0
	case EstimateStatusSent:
		return 1
	case EstimateStatusViewed:
		return 2
	case EstimateStatusSigned:
		return 3
	}
	return -1
}

// AtLeast reports whether the status has reached the given lifecycle state.
func (s EstimateStatus) AtLeast(other EstimateStatus) bool {
	return s.rank() >= other.rank()
}

// Customer represents an entry in the customer directory. The estimate
// subsystem treats it as a read-mostly collaborator: estimates are
// partitioned by customer and the notifier uses the customer's email.
type Customer struct {
	BaseModel
	Name       string     `gorm:"type:varchar(200);not null;index"`
	Email      string     `gorm:"type:varchar(255);not null"`
	Phone      string     `gorm:"type:varchar(50)"`
	Address    string     `gorm:"type:varchar(500)"`
	City       string     `gorm:"type:varchar(100)"`
	PostalCode string     `gorm:"type:varchar(20);column:postal_code"`
	Notes      string     `gorm:"type:text"`
	Estimates  []Estimate `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

// Product represents a catalog entry that can be quick-added as an estimate
// line item.
type Product struct {
	BaseModel
	Name        string         `gorm:"type:varchar(200);not null;index"`
	Description string         `gorm:"type:text"`
	Unit        string         `gorm:"type:varchar(50)"`
	Price       float64        `gorm:"type:decimal(15,2);not null;default:0"`
	Tags        pq.StringArray `gorm:"type:text[]"`
	IsActive    bool           `gorm:"not null;default:true;column:is_active"`
}

// CompanySettings holds the branding and defaults shown on estimates and
// exports. A single row is expected; SettingsService enforces that.
type CompanySettings struct {
	BaseModel
	CompanyName    string  `gorm:"type:varchar(200);not null;column:company_name"`
	LogoURL        string  `gorm:"type:varchar(500);column:logo_url"`
	Email          string  `gorm:"type:varchar(255)"`
	Phone          string  `gorm:"type:varchar(50)"`
	Address        string  `gorm:"type:varchar(500)"`
	DefaultTaxRate float64 `gorm:"type:decimal(5,2);not null;default:0;column:default_tax_rate"`
}

// TableName overrides the default table name
func (CompanySettings) TableName() string {
	return "company_settings"
}

// Estimate represents a priced proposal for a customer, with a lifecycle
// culminating in an electronic signature captured through the public link.
type Estimate struct {
	BaseModel
	Token        string         `gorm:"type:varchar(64);not null;uniqueIndex"`
	CustomerID   uuid.UUID      `gorm:"type:uuid;not null;index;column:customer_id"`
	Customer     *Customer      `gorm:"foreignKey:CustomerID"`
	CustomerName string         `gorm:"type:varchar(200);column:customer_name"`
	Date         time.Time      `gorm:"type:date;not null"`
	Status       EstimateStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	Items        []EstimateItem `gorm:"foreignKey:EstimateID;constraint:OnDelete:CASCADE"`
	Subtotal     float64        `gorm:"type:decimal(15,2);not null;default:0"`
	Tax          float64        `gorm:"type:decimal(15,2);not null;default:0"`
	Total        float64        `gorm:"type:decimal(15,2);not null;default:0"`
	CustomerNote string         `gorm:"type:text;column:customer_note"`
	InternalNote string         `gorm:"type:text;column:internal_note"`
	SentAt       *time.Time     `gorm:"column:sent_at"`
	ViewedAt     *time.Time     `gorm:"column:viewed_at"`
	SignedAt     *time.Time     `gorm:"column:signed_at"`
	SignerName   string         `gorm:"type:varchar(200);column:signer_name"`
	// SignatureDataURL holds the captured freehand signature as a
	// data:image/... URL. Only set on the transition to signed.
	SignatureDataURL string `gorm:"type:text;column:signature_data_url"`
}

// IsSigned reports whether the estimate has completed its lifecycle.
// Signed estimates are immutable except for read and export operations.
func (e *Estimate) IsSigned() bool {
	return e.Status == EstimateStatusSigned
}

// EstimateItem represents one line of an estimate: a quantity of a named
// item or service with cost, markup, and tax attributes.
type EstimateItem struct {
	BaseModel
	EstimateID  uuid.UUID `gorm:"type:uuid;not null;index;column:estimate_id"`
	Position    int       `gorm:"not null;default:0"`
	Name        string    `gorm:"type:varchar(200);not null"`
	Description string    `gorm:"type:text"`
	Unit        string    `gorm:"type:varchar(50)"`
	Quantity    float64   `gorm:"type:decimal(10,2);not null;default:0"`
	// MaterialCost is the per-unit cost basis; Markup is a percentage
	// applied on top when no explicit Price is given.
	MaterialCost float64 `gorm:"type:decimal(15,2);not null;default:0;column:material_cost"`
	Markup       float64 `gorm:"type:decimal(5,2);not null;default:0"`
	// Price is the explicit unit sell price. Zero means "derive from
	// material cost and markup".
	Price float64 `gorm:"type:decimal(15,2);not null;default:0"`
	// UnitPrice and Amount are resolved by the pricing engine and stored
	// so they are never out of sync with the persisted totals.
	UnitPrice float64 `gorm:"type:decimal(15,2);not null;default:0;column:unit_price"`
	Amount    float64 `gorm:"type:decimal(15,2);not null;default:0"`
	TaxRate   float64 `gorm:"type:decimal(5,2);not null;default:0;column:tax_rate"`
}

// ActivityType represents the type of estimate activity
type ActivityType string

const (
	ActivityTypeCreated  ActivityType = "created"
	ActivityTypeUpdated  ActivityType = "updated"
	ActivityTypeSent     ActivityType = "sent"
	ActivityTypeViewed   ActivityType = "viewed"
	ActivityTypeSigned   ActivityType = "signed"
	ActivityTypeReminder ActivityType = "reminder"
)

// Activity is an append-only log entry recording what happened to an
// estimate and when.
type Activity struct {
	BaseModel
	EstimateID   uuid.UUID    `gorm:"type:uuid;not null;index;column:estimate_id"`
	ActivityType ActivityType `gorm:"type:varchar(30);not null;column:activity_type"`
	Title        string       `gorm:"type:varchar(200);not null"`
	Body         string       `gorm:"type:varchar(2000)"`
	OccurredAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP;index;column:occurred_at"`
}
