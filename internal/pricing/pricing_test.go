package pricing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/businessflow/estimate-api/internal/domain"
)

func TestComputeTotalsDerivedUnitPrice(t *testing.T) {
	items := []domain.EstimateItem{
		{Name: "Lumber", Quantity: 3, MaterialCost: 10, Markup: 20},
	}

	resolved, totals, err := ComputeTotals(items)
	require.NoError(t, err)
	require.Len(t, resolved, 1)

	assert.Equal(t, 12.00, resolved[0].UnitPrice)
	assert.Equal(t, 36.00, resolved[0].Amount)
	assert.Equal(t, 36.00, totals.Subtotal)
	assert.Equal(t, 0.00, totals.Tax)
	assert.Equal(t, 36.00, totals.Total)
}

func TestComputeTotalsExplicitPriceWins(t *testing.T) {
	items := []domain.EstimateItem{
		{Name: "Fixture", Quantity: 2, MaterialCost: 50, Markup: 50, Price: 80},
	}

	resolved, totals, err := ComputeTotals(items)
	require.NoError(t, err)

	assert.Equal(t, 80.00, resolved[0].UnitPrice)
	assert.Equal(t, 160.00, totals.Subtotal)
}

func TestComputeTotalsWithTax(t *testing.T) {
	// Two units at cost 50 with 50% markup: unit 75.00, amount 150.00,
	// 10% tax 15.00, total 165.00.
	items := []domain.EstimateItem{
		{Name: "Install", Quantity: 2, MaterialCost: 50, Markup: 50, TaxRate: 10},
	}

	resolved, totals, err := ComputeTotals(items)
	require.NoError(t, err)

	assert.Equal(t, 75.00, resolved[0].UnitPrice)
	assert.Equal(t, 150.00, resolved[0].Amount)
	assert.Equal(t, 150.00, totals.Subtotal)
	assert.Equal(t, 15.00, totals.Tax)
	assert.Equal(t, 165.00, totals.Total)
}

func TestComputeTotalsSumsAcrossLines(t *testing.T) {
	items := []domain.EstimateItem{
		{Name: "A", Quantity: 1, Price: 10.50, TaxRate: 25},
		{Name: "B", Quantity: 2, Price: 4.25},
		{Name: "C", Quantity: 4, MaterialCost: 2.5, Markup: 10},
	}

	resolved, totals, err := ComputeTotals(items)
	require.NoError(t, err)

	assert.Equal(t, 10.50, resolved[0].Amount)
	assert.Equal(t, 8.50, resolved[1].Amount)
	assert.Equal(t, 2.75, resolved[2].UnitPrice)
	assert.Equal(t, 11.00, resolved[2].Amount)
	assert.Equal(t, 30.00, totals.Subtotal)
	assert.Equal(t, 2.63, totals.Tax)
	assert.Equal(t, 32.63, totals.Total)
}

func TestComputeTotalsRoundsHalfUp(t *testing.T) {
	// 1.5 x 2.23 = 3.345, which must round to 3.35 rather than truncate.
	items := []domain.EstimateItem{
		{Name: "Cable", Quantity: 1.5, Price: 2.23},
	}

	resolved, totals, err := ComputeTotals(items)
	require.NoError(t, err)

	assert.Equal(t, 3.35, resolved[0].Amount)
	assert.Equal(t, 3.35, totals.Total)
}

func TestComputeTotalsNoFloatDrift(t *testing.T) {
	// 0.1 + 0.2 style drift must not leak into stored totals.
	items := []domain.EstimateItem{
		{Name: "A", Quantity: 1, Price: 0.1},
		{Name: "B", Quantity: 1, Price: 0.2},
	}

	_, totals, err := ComputeTotals(items)
	require.NoError(t, err)
	assert.Equal(t, 0.30, totals.Subtotal)
}

func TestComputeTotalsRejectsNegativeValues(t *testing.T) {
	cases := []struct {
		name string
		item domain.EstimateItem
	}{
		{"quantity", domain.EstimateItem{Name: "X", Quantity: -1, Price: 10}},
		{"materialCost", domain.EstimateItem{Name: "X", Quantity: 1, MaterialCost: -5}},
		{"markup", domain.EstimateItem{Name: "X", Quantity: 1, MaterialCost: 5, Markup: -10}},
		{"price", domain.EstimateItem{Name: "X", Quantity: 1, Price: -0.01}},
		{"taxRate", domain.EstimateItem{Name: "X", Quantity: 1, Price: 1, TaxRate: -25}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := ComputeTotals([]domain.EstimateItem{tc.item})
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrNegativeValue))
		})
	}
}

func TestComputeTotalsEmptyItems(t *testing.T) {
	resolved, totals, err := ComputeTotals(nil)
	require.NoError(t, err)
	assert.Empty(t, resolved)
	assert.Equal(t, 0.00, totals.Total)
}
