package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/businessflow/estimate-api/internal/domain"
)

func TestEstimateRepositoryCreateAndGetByID(t *testing.T) {
	db := newTestDB(t)
	repo := NewEstimateRepository(db)
	ctx := context.Background()

	customer := newTestCustomer(t, db, "Acme Construction")
	estimate := newTestEstimate(customer.ID, "tok-create")

	require.NoError(t, repo.Create(ctx, estimate))
	require.NotEqual(t, uuid.Nil, estimate.ID)

	got, err := repo.GetByID(ctx, estimate.ID)
	require.NoError(t, err)
	assert.Equal(t, estimate.ID, got.ID)
	assert.Equal(t, "tok-create", got.Token)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Labor", got.Items[0].Name)
	assert.Equal(t, "Materials", got.Items[1].Name)
	require.NotNil(t, got.Customer)
	assert.Equal(t, "Acme Construction", got.Customer.Name)
}

func TestEstimateRepositoryItemsOrderedByPosition(t *testing.T) {
	db := newTestDB(t)
	repo := NewEstimateRepository(db)
	ctx := context.Background()

	customer := newTestCustomer(t, db, "Acme")
	estimate := &domain.Estimate{
		Token:      "tok-order",
		CustomerID: customer.ID,
		Date:       time.Now(),
		Status:     domain.EstimateStatusPending,
		Items: []domain.EstimateItem{
			{Position: 2, Name: "Third"},
			{Position: 0, Name: "First"},
			{Position: 1, Name: "Second"},
		},
	}
	require.NoError(t, repo.Create(ctx, estimate))

	got, err := repo.GetByID(ctx, estimate.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 3)
	assert.Equal(t, "First", got.Items[0].Name)
	assert.Equal(t, "Second", got.Items[1].Name)
	assert.Equal(t, "Third", got.Items[2].Name)
}

func TestEstimateRepositoryGetByToken(t *testing.T) {
	db := newTestDB(t)
	repo := NewEstimateRepository(db)
	ctx := context.Background()

	customer := newTestCustomer(t, db, "Acme")
	estimate := newTestEstimate(customer.ID, "tok-lookup")
	require.NoError(t, repo.Create(ctx, estimate))

	got, err := repo.GetByToken(ctx, "tok-lookup")
	require.NoError(t, err)
	assert.Equal(t, estimate.ID, got.ID)

	_, err = repo.GetByToken(ctx, "tok-unknown")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestEstimateRepositoryTokenUnique(t *testing.T) {
	db := newTestDB(t)
	repo := NewEstimateRepository(db)
	ctx := context.Background()

	customer := newTestCustomer(t, db, "Acme")
	require.NoError(t, repo.Create(ctx, newTestEstimate(customer.ID, "tok-dup")))

	err := repo.Create(ctx, newTestEstimate(customer.ID, "tok-dup"))
	assert.Error(t, err)
}

func TestEstimateRepositoryListByCustomerEmpty(t *testing.T) {
	db := newTestDB(t)
	repo := NewEstimateRepository(db)
	ctx := context.Background()

	customer := newTestCustomer(t, db, "Nobody")

	estimates, err := repo.ListByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.NotNil(t, estimates)
	assert.Empty(t, estimates)
}

func TestEstimateRepositoryPartitionIsolation(t *testing.T) {
	db := newTestDB(t)
	repo := NewEstimateRepository(db)
	ctx := context.Background()

	acme := newTestCustomer(t, db, "Acme")
	globex := newTestCustomer(t, db, "Globex")

	require.NoError(t, repo.Create(ctx, newTestEstimate(acme.ID, "tok-a1")))
	require.NoError(t, repo.Create(ctx, newTestEstimate(acme.ID, "tok-a2")))
	require.NoError(t, repo.Create(ctx, newTestEstimate(globex.ID, "tok-g1")))

	acmeEstimates, err := repo.ListByCustomer(ctx, acme.ID)
	require.NoError(t, err)
	assert.Len(t, acmeEstimates, 2)

	globexEstimates, err := repo.ListByCustomer(ctx, globex.ID)
	require.NoError(t, err)
	assert.Len(t, globexEstimates, 1)
	assert.Equal(t, "tok-g1", globexEstimates[0].Token)
}

func TestEstimateRepositoryUpsertRoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewEstimateRepository(db)
	ctx := context.Background()

	customer := newTestCustomer(t, db, "Acme")
	other := newTestEstimate(customer.ID, "tok-other")
	require.NoError(t, repo.Create(ctx, other))

	// Upsert of an unknown ID appends.
	estimate := newTestEstimate(customer.ID, "tok-upsert")
	estimate.ID = uuid.New()
	require.NoError(t, repo.Upsert(ctx, estimate))

	estimates, err := repo.ListByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Len(t, estimates, 2)

	// Upsert of an existing ID updates in place without duplicating.
	estimate.Status = domain.EstimateStatusSent
	now := time.Now().UTC()
	estimate.SentAt = &now
	estimate.Items = []domain.EstimateItem{
		{Position: 0, Name: "Replaced line", Quantity: 1, UnitPrice: 99, Amount: 99},
	}
	require.NoError(t, repo.Upsert(ctx, estimate))

	estimates, err = repo.ListByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Len(t, estimates, 2)

	got, err := repo.GetByID(ctx, estimate.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EstimateStatusSent, got.Status)
	require.NotNil(t, got.SentAt)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "Replaced line", got.Items[0].Name)

	// The untouched estimate keeps its state.
	untouched, err := repo.GetByID(ctx, other.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EstimateStatusPending, untouched.Status)
	assert.Len(t, untouched.Items, 2)
}

func TestEstimateRepositoryReplaceForCustomer(t *testing.T) {
	db := newTestDB(t)
	repo := NewEstimateRepository(db)
	ctx := context.Background()

	acme := newTestCustomer(t, db, "Acme")
	globex := newTestCustomer(t, db, "Globex")

	require.NoError(t, repo.Create(ctx, newTestEstimate(acme.ID, "tok-old1")))
	require.NoError(t, repo.Create(ctx, newTestEstimate(acme.ID, "tok-old2")))
	require.NoError(t, repo.Create(ctx, newTestEstimate(globex.ID, "tok-keep")))

	replacement := []domain.Estimate{*newTestEstimate(acme.ID, "tok-new")}
	require.NoError(t, repo.ReplaceForCustomer(ctx, acme.ID, replacement))

	acmeEstimates, err := repo.ListByCustomer(ctx, acme.ID)
	require.NoError(t, err)
	require.Len(t, acmeEstimates, 1)
	assert.Equal(t, "tok-new", acmeEstimates[0].Token)

	globexEstimates, err := repo.ListByCustomer(ctx, globex.ID)
	require.NoError(t, err)
	assert.Len(t, globexEstimates, 1)
}

func TestEstimateRepositoryListUnsignedSentBefore(t *testing.T) {
	db := newTestDB(t)
	repo := NewEstimateRepository(db)
	ctx := context.Background()

	customer := newTestCustomer(t, db, "Acme")
	now := time.Now().UTC()
	old := now.Add(-10 * 24 * time.Hour)
	recent := now.Add(-1 * time.Hour)

	stale := newTestEstimate(customer.ID, "tok-stale")
	stale.Status = domain.EstimateStatusSent
	stale.SentAt = &old
	require.NoError(t, repo.Create(ctx, stale))

	fresh := newTestEstimate(customer.ID, "tok-fresh")
	fresh.Status = domain.EstimateStatusSent
	fresh.SentAt = &recent
	require.NoError(t, repo.Create(ctx, fresh))

	signed := newTestEstimate(customer.ID, "tok-signed")
	signed.Status = domain.EstimateStatusSigned
	signed.SentAt = &old
	signed.SignedAt = &recent
	require.NoError(t, repo.Create(ctx, signed))

	cutoff := now.Add(-7 * 24 * time.Hour)
	due, err := repo.ListUnsignedSentBefore(ctx, cutoff)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "tok-stale", due[0].Token)
}

func TestEstimateRepositoryListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewEstimateRepository(db)
	ctx := context.Background()

	acme := newTestCustomer(t, db, "Acme")
	globex := newTestCustomer(t, db, "Globex")

	sent := newTestEstimate(acme.ID, "tok-sent")
	sent.Status = domain.EstimateStatusSent
	require.NoError(t, repo.Create(ctx, sent))
	require.NoError(t, repo.Create(ctx, newTestEstimate(acme.ID, "tok-pending")))
	require.NoError(t, repo.Create(ctx, newTestEstimate(globex.ID, "tok-g")))

	all, total, err := repo.List(ctx, 1, 20, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, int64(3), total)

	status := domain.EstimateStatusSent
	filtered, total, err := repo.List(ctx, 1, 20, &acme.ID, &status)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "tok-sent", filtered[0].Token)
}
