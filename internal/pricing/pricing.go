// Package pricing computes estimate line amounts and document totals.
// All arithmetic runs on decimals so repeated float rounding can never
// drift the stored totals; callers get back plain float64 values rounded
// to cents.
package pricing

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/businessflow/estimate-api/internal/domain"
)

// ErrNegativeValue is returned when a line item carries a negative
// quantity, cost, markup, price, or tax rate.
var ErrNegativeValue = errors.New("negative value not allowed")

// Totals holds the document-level sums for a set of line items.
type Totals struct {
	Subtotal float64
	Tax      float64
	Total    float64
}

var oneHundred = decimal.NewFromInt(100)

// ComputeTotals resolves the unit price and amount of every line item and
// returns the document totals. The unit price is the explicit Price when
// set, otherwise MaterialCost marked up by Markup percent. Amounts are
// rounded half-up to cents before summing, so the stored subtotal always
// equals the sum of the stored line amounts.
func ComputeTotals(items []domain.EstimateItem) ([]domain.EstimateItem, Totals, error) {
	subtotal := decimal.Zero
	tax := decimal.Zero

	resolved := make([]domain.EstimateItem, len(items))
	for i, item := range items {
		if item.Quantity < 0 || item.MaterialCost < 0 || item.Markup < 0 || item.Price < 0 || item.TaxRate < 0 {
			return nil, Totals{}, fmt.Errorf("item %d (%s): %w", i+1, item.Name, ErrNegativeValue)
		}

		unitPrice := resolveUnitPrice(item)
		amount := unitPrice.Mul(decimal.NewFromFloat(item.Quantity)).Round(2)
		lineTax := amount.Mul(decimal.NewFromFloat(item.TaxRate)).Div(oneHundred).Round(2)

		item.UnitPrice = unitPrice.InexactFloat64()
		item.Amount = amount.InexactFloat64()
		resolved[i] = item

		subtotal = subtotal.Add(amount)
		tax = tax.Add(lineTax)
	}

	totals := Totals{
		Subtotal: subtotal.Round(2).InexactFloat64(),
		Tax:      tax.Round(2).InexactFloat64(),
		Total:    subtotal.Add(tax).Round(2).InexactFloat64(),
	}
	return resolved, totals, nil
}

// resolveUnitPrice returns the explicit price when one was entered,
// otherwise derives it from the material cost and markup percentage.
func resolveUnitPrice(item domain.EstimateItem) decimal.Decimal {
	if item.Price > 0 {
		return decimal.NewFromFloat(item.Price).Round(2)
	}
	cost := decimal.NewFromFloat(item.MaterialCost)
	markup := decimal.NewFromFloat(item.Markup).Div(oneHundred)
	return cost.Mul(decimal.NewFromInt(1).Add(markup)).Round(2)
}
