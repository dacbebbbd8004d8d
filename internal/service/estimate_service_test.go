package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/businessflow/estimate-api/internal/domain"
	"github.com/businessflow/estimate-api/internal/pricing"
)

func TestCreateEstimateComputesPricingAndMintsToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Acme Construction")

	dto, err := env.estimates.Create(ctx, &domain.CreateEstimateRequest{
		CustomerID: customer.ID,
		Items: []domain.CreateEstimateItemRequest{
			{Name: "Install", Quantity: 2, MaterialCost: 50, Markup: 50, TaxRate: 10},
		},
		CustomerNote: "Thanks for your business",
		InternalNote: "margin is tight here",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, dto.ID)
	assert.Len(t, dto.Token, 43)
	assert.Contains(t, dto.ShareURL, "/e/"+dto.Token)
	assert.Equal(t, domain.EstimateStatusPending, dto.Status)
	assert.Equal(t, "Acme Construction", dto.CustomerName)

	require.Len(t, dto.Items, 1)
	assert.Equal(t, 75.00, dto.Items[0].UnitPrice)
	assert.Equal(t, 150.00, dto.Items[0].Amount)
	assert.Equal(t, 150.00, dto.Subtotal)
	assert.Equal(t, 15.00, dto.Tax)
	assert.Equal(t, 165.00, dto.Total)
}

func TestCreateEstimateUnknownCustomer(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.estimates.Create(context.Background(), &domain.CreateEstimateRequest{
		CustomerID: uuid.New(),
		Items:      []domain.CreateEstimateItemRequest{{Name: "X", Quantity: 1, Price: 10}},
	})
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestCreateEstimateRejectsNegativeValuesWithoutPersisting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Acme")

	_, err := env.estimates.Create(ctx, &domain.CreateEstimateRequest{
		CustomerID: customer.ID,
		Items: []domain.CreateEstimateItemRequest{
			{Name: "Bad line", Quantity: -1, Price: 10},
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, pricing.ErrNegativeValue)

	estimates, err := env.estimates.ListByCustomer(ctx, customer.ID)
	require.NoError(t, err)
	assert.Empty(t, estimates)
}

func TestUpdateEstimateRecomputesTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Acme")
	created := env.createEstimate(t, customer.ID)

	updated, err := env.estimates.Update(ctx, created.ID, &domain.UpdateEstimateRequest{
		Items: []domain.CreateEstimateItemRequest{
			{Name: "Bigger job", Quantity: 4, Price: 100},
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Items, 1)
	assert.Equal(t, "Bigger job", updated.Items[0].Name)
	assert.Equal(t, 400.00, updated.Subtotal)
	assert.Equal(t, 400.00, updated.Total)
	// Token and ID are immutable across edits.
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.Token, updated.Token)
}

func TestMarkSentRequiresPending(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Acme")
	created := env.createEstimate(t, customer.ID)

	sent, err := env.estimates.MarkSent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EstimateStatusSent, sent.Status)
	require.NotNil(t, sent.SentAt)

	// A second send is rejected: the estimate is no longer pending.
	_, err = env.estimates.MarkSent(ctx, created.ID)
	assert.ErrorIs(t, err, ErrEstimateNotPending)
}

func TestRecordViewIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Acme")
	created := env.createEstimate(t, customer.ID)

	_, err := env.estimates.MarkSent(ctx, created.ID)
	require.NoError(t, err)

	first, err := env.estimates.RecordView(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EstimateStatusViewed, first.Status)
	require.NotNil(t, first.ViewedAt)

	second, err := env.estimates.RecordView(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EstimateStatusViewed, second.Status)
	assert.Equal(t, *first.ViewedAt, *second.ViewedAt)
}

func TestSignCompletesLifecycleAndFreezesEstimate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Acme")
	created := env.createEstimate(t, customer.ID)

	signed, err := env.estimates.Sign(ctx, created.ID, &domain.SignEstimateRequest{
		SignerName:       "Jane Smith",
		SignatureDataURL: "data:image/png;base64,iVBORw0KGgo=",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EstimateStatusSigned, signed.Status)
	assert.Equal(t, "Jane Smith", signed.SignerName)
	require.NotNil(t, signed.SignedAt)

	// Signed estimates are immutable: no edits, no re-sign, no view
	// regression.
	_, err = env.estimates.Sign(ctx, created.ID, &domain.SignEstimateRequest{
		SignerName:       "Someone Else",
		SignatureDataURL: "data:image/png;base64,AAAA",
	})
	assert.ErrorIs(t, err, ErrEstimateAlreadySigned)

	_, err = env.estimates.Update(ctx, created.ID, &domain.UpdateEstimateRequest{
		Items: []domain.CreateEstimateItemRequest{{Name: "X", Quantity: 1, Price: 1}},
	})
	assert.ErrorIs(t, err, ErrEstimateAlreadySigned)

	after, err := env.estimates.RecordView(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EstimateStatusSigned, after.Status)
}

func TestSignRejectsInvalidSignature(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Acme")
	created := env.createEstimate(t, customer.ID)

	cases := []domain.SignEstimateRequest{
		{SignerName: "", SignatureDataURL: "data:image/png;base64,AAAA"},
		{SignerName: "  ", SignatureDataURL: "data:image/png;base64,AAAA"},
		{SignerName: "Jane", SignatureDataURL: ""},
		{SignerName: "Jane", SignatureDataURL: "not-a-data-url"},
		{SignerName: "Jane", SignatureDataURL: "data:text/plain;base64,AAAA"},
	}
	for _, req := range cases {
		_, err := env.estimates.Sign(ctx, created.ID, &req)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	}
}

func TestGetPublicByTokenStripsInternalFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Acme")

	created, err := env.estimates.Create(ctx, &domain.CreateEstimateRequest{
		CustomerID:   customer.ID,
		Items:        []domain.CreateEstimateItemRequest{{Name: "Work", Quantity: 1, Price: 100}},
		InternalNote: "do not show the customer this",
	})
	require.NoError(t, err)

	_, err = env.settings.Update(ctx, &domain.UpdateSettingsRequest{
		CompanyName: "BusinessFlow Demo Co",
	})
	require.NoError(t, err)

	public, err := env.estimates.GetPublicByToken(ctx, created.Token)
	require.NoError(t, err)

	assert.Equal(t, created.ID, public.ID)
	assert.Equal(t, "BusinessFlow Demo Co", public.CompanyName)
	// Opening the link moves the estimate to viewed.
	assert.Equal(t, domain.EstimateStatusViewed, public.Status)
	// Signer fields stay hidden until signing.
	assert.Empty(t, public.SignerName)
	assert.Nil(t, public.SignedAt)
}

func TestGetPublicByTokenUnknownToken(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.estimates.GetPublicByToken(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrEstimateNotFound)
}

func TestShareLink(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Acme")
	created := env.createEstimate(t, customer.ID)

	link, err := env.estimates.ShareLink(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, link.EstimateID)
	assert.Equal(t, created.Token, link.Token)
	assert.Equal(t, "http://localhost:8080/e/"+created.Token, link.ShareURL)
}

func TestEstimateActivitiesRecorded(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Acme")
	created := env.createEstimate(t, customer.ID)

	_, err := env.estimates.MarkSent(ctx, created.ID)
	require.NoError(t, err)

	activities, err := env.estimates.GetActivities(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, activities, 2)

	types := []domain.ActivityType{activities[0].ActivityType, activities[1].ActivityType}
	assert.Contains(t, types, domain.ActivityTypeCreated)
	assert.Contains(t, types, domain.ActivityTypeSent)
}

// TestAcmeScenario walks the full lifecycle the way a customer experiences
// it: the estimate is created and sent, opened through the public link,
// signed, and reloaded.
func TestAcmeScenario(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	acme := env.createCustomer(t, "Acme Construction")

	created, err := env.estimates.Create(ctx, &domain.CreateEstimateRequest{
		CustomerID: acme.ID,
		Items: []domain.CreateEstimateItemRequest{
			{Name: "Renovation work", Quantity: 2, MaterialCost: 50, Markup: 50, TaxRate: 10},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 165.00, created.Total)

	_, err = env.estimates.MarkSent(ctx, created.ID)
	require.NoError(t, err)

	public, err := env.estimates.GetPublicByToken(ctx, created.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.EstimateStatusViewed, public.Status)

	signedPublic, err := env.estimates.SignByToken(ctx, created.Token, &domain.SignEstimateRequest{
		SignerName:       "Wile E. Coyote",
		SignatureDataURL: "data:image/png;base64,iVBORw0KGgo=",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.EstimateStatusSigned, signedPublic.Status)
	assert.Equal(t, "Wile E. Coyote", signedPublic.SignerName)
	assert.NotEmpty(t, signedPublic.SignatureDataURL)

	reloaded, err := env.estimates.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.EstimateStatusSigned, reloaded.Status)
	require.NotNil(t, reloaded.SentAt)
	require.NotNil(t, reloaded.ViewedAt)
	require.NotNil(t, reloaded.SignedAt)
	assert.Equal(t, 165.00, reloaded.Total)
}

func TestRenderPDFByIDAndToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	customer := env.createCustomer(t, "Acme")
	created := env.createEstimate(t, customer.ID)

	internal, err := env.estimates.RenderPDF(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(internal[:4]))

	public, err := env.estimates.RenderPublicPDF(ctx, created.Token)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(public[:4]))

	_, err = env.estimates.RenderPDF(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrEstimateNotFound)
}
