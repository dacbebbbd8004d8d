package handler_test

import (
	"context"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/businessflow/estimate-api/internal/domain"
	"github.com/businessflow/estimate-api/internal/http/handler"
	"github.com/businessflow/estimate-api/internal/notify"
	"github.com/businessflow/estimate-api/internal/repository"
	"github.com/businessflow/estimate-api/internal/service"
)

// handlerEnv wires the full handler stack against an isolated in-memory
// database.
type handlerEnv struct {
	db        *gorm.DB
	estimates *service.EstimateService
	customers *service.CustomerService

	estimateHandler *handler.EstimateHandler
	customerHandler *handler.CustomerHandler
	publicHandler   *handler.PublicHandler
}

func newHandlerEnv(t *testing.T) *handlerEnv {
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

	estimates := service.NewEstimateService(
		estimateRepo, customerRepo, settingsRepo, activityRepo,
		notify.NewLogSender(logger), nil, "http://localhost:8080", logger)
	customers := service.NewCustomerService(customerRepo, logger)

	return &handlerEnv{
		db:              db,
		estimates:       estimates,
		customers:       customers,
		estimateHandler: handler.NewEstimateHandler(estimates, logger),
		customerHandler: handler.NewCustomerHandler(customers, estimates, logger),
		publicHandler:   handler.NewPublicHandler(estimates, logger),
	}
}

func (env *handlerEnv) createCustomer(t *testing.T, name string) *domain.CustomerDTO {
	t.Helper()

	dto, err := env.customers.Create(context.Background(), &domain.CreateCustomerRequest{
		Name:  name,
		Email: "customer@example.com",
	})
	require.NoError(t, err)
	return dto
}

func (env *handlerEnv) createEstimate(t *testing.T, customerID uuid.UUID) *domain.EstimateDTO {
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

// withChiContext adds Chi route context with the given URL parameters
func withChiContext(ctx context.Context, params map[string]string) context.Context {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}
