package order

import (
	"github.com/shopspring/decimal"
)

// Totals is the monetary summary of an order. All fields are rounded to
// 2 decimal places; GrandTotal = Subtotal + Tax + Shipping - Discounts.
type Totals struct {
	Subtotal   decimal.Decimal
	Tax        decimal.Decimal
	Shipping   decimal.Decimal
	Discounts  decimal.Decimal
	GrandTotal decimal.Decimal
}

// TotalsPolicy assesses tax, shipping and discounts for a given subtotal.
// The subtotal itself is always the sum of line totals and is not a policy
// concern.
type TotalsPolicy interface {
	Assess(subtotal decimal.Decimal) (tax, shipping, discounts decimal.Decimal)
}

// ZeroPolicy charges no tax, shipping or discounts. It is the default when
// no policy is configured.
type ZeroPolicy struct{}

func (ZeroPolicy) Assess(decimal.Decimal) (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	return decimal.Zero, decimal.Zero, decimal.Zero
}

// FlatRatePolicy applies a percentage tax rate and a flat shipping fee which
// is waived once the subtotal exceeds the free-shipping threshold.
type FlatRatePolicy struct {
	TaxRate               decimal.Decimal
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

// NewFlatRatePolicy returns the standard storefront policy: 10% tax, a $10
// shipping fee, free shipping for subtotals over $100.
func NewFlatRatePolicy() FlatRatePolicy {
	return FlatRatePolicy{
		TaxRate:               decimal.NewFromFloat(0.1),
		ShippingFee:           decimal.NewFromInt(10),
		FreeShippingThreshold: decimal.NewFromInt(100),
	}
}

func (p FlatRatePolicy) Assess(subtotal decimal.Decimal) (decimal.Decimal, decimal.Decimal, decimal.Decimal) {
	tax := subtotal.Mul(p.TaxRate)
	shipping := p.ShippingFee
	if subtotal.GreaterThan(p.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	return tax, shipping, decimal.Zero
}

// CalculateTotals derives the full monetary summary for a set of items under
// the given policy. A nil policy falls back to ZeroPolicy.
func CalculateTotals(items []Item, policy TotalsPolicy) Totals {
	if policy == nil {
		policy = ZeroPolicy{}
	}

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.TotalPrice())
	}

	tax, shipping, discounts := policy.Assess(subtotal)

	return Totals{
		Subtotal:   subtotal.Round(2),
		Tax:        tax.Round(2),
		Shipping:   shipping.Round(2),
		Discounts:  discounts.Round(2),
		GrandTotal: subtotal.Add(tax).Add(shipping).Sub(discounts).Round(2),
	}
}
