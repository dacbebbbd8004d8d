package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/businessflow/estimate-api/internal/domain"
)

// newTestDB creates an isolated in-memory SQLite database with the full
// schema migrated.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	// Named in-memory database with a shared cache so every pooled
	// connection sees the same schema.
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&domain.Customer{},
		&domain.Product{},
		&domain.CompanySettings{},
		&domain.Estimate{},
		&domain.EstimateItem{},
		&domain.Activity{},
	)
	require.NoError(t, err)

	return db
}

func newTestCustomer(t *testing.T, db *gorm.DB, name string) *domain.Customer {
	t.Helper()

	customer := &domain.Customer{
		Name:  name,
		Email: "test@example.com",
	}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func newTestEstimate(customerID uuid.UUID, token string) *domain.Estimate {
	return &domain.Estimate{
		Token:      token,
		CustomerID: customerID,
		Date:       time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Status:     domain.EstimateStatusPending,
		Items: []domain.EstimateItem{
			{Position: 0, Name: "Labor", Quantity: 2, UnitPrice: 75, Amount: 150},
			{Position: 1, Name: "Materials", Quantity: 1, UnitPrice: 40, Amount: 40},
		},
		Subtotal: 190,
		Total:    190,
	}
}
