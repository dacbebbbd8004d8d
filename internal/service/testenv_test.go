package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/businessflow/estimate-api/internal/domain"
	"github.com/businessflow/estimate-api/internal/notify"
	"github.com/businessflow/estimate-api/internal/repository"
)

// testEnv wires the estimate service against an isolated in-memory
// database.
type testEnv struct {
	db        *gorm.DB
	estimates *EstimateService
	customers *CustomerService
	settings  *SettingsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
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

	logger := zap.NewNop()
	estimateRepo := repository.NewEstimateRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	return &testEnv{
		db: db,
		estimates: NewEstimateService(
			estimateRepo, customerRepo, settingsRepo, activityRepo,
			notify.NewLogSender(logger), nil, "http://localhost:8080", logger),
		customers: NewCustomerService(customerRepo, logger),
		settings:  NewSettingsService(settingsRepo, logger),
	}
}

func (env *testEnv) createCustomer(t *testing.T, name string) *domain.CustomerDTO {
	t.Helper()

	dto, err := env.customers.Create(context.Background(), &domain.CreateCustomerRequest{
		Name:  name,
		Email: "customer@example.com",
	})
	require.NoError(t, err)
	return dto
}

func (env *testEnv) createEstimate(t *testing.T, customerID uuid.UUID) *domain.EstimateDTO {
	t.Helper()

	dto, err := env.estimates.Create(context.Background(), &domain.CreateEstimateRequest{
		CustomerID: customerID,
		Items: []domain.CreateEstimateItemRequest{
			{Name: "Labor", Quantity: 2, MaterialCost: 50, Markup: 50, TaxRate: 10},
		},
	})
	require.NoError(t, err)
	return dto
}
