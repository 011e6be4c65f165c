package cart

import "github.com/shopspring/decimal"

// Pricer computes the checkout-ready monetary breakdown of a cart. The zero
// value is not usable; construct with DefaultPricer or from configuration.
type Pricer struct {
	// BulkGroupSize is the number of units forming one discount group.
	BulkGroupSize int

	// PctPerGroup is the percentage points of discount earned per complete
	// group of BulkGroupSize units.
	PctPerGroup int64

	// FreeShippingMin is the discounted subtotal at or above which shipping
	// is free.
	FreeShippingMin decimal.Decimal

	// ShippingFee is the flat fee charged below FreeShippingMin.
	ShippingFee decimal.Decimal
}

// DefaultPricer returns the standard policy: 1% off per complete group of
// 10 units, free shipping from 50.00, flat 5.00 fee below that.
func DefaultPricer() Pricer {
	return Pricer{
		BulkGroupSize:   10,
		PctPerGroup:     1,
		FreeShippingMin: decimal.NewFromInt(50),
		ShippingFee:     decimal.NewFromInt(5),
	}
}

// Summary is the full monetary breakdown of a cart.
type Summary struct {
	ItemCount   int             `json:"itemCount"`
	DiscountPct int64           `json:"discountPct"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	Discount    decimal.Decimal `json:"discount"`
	Shipping    decimal.Decimal `json:"shipping"`
	Total       decimal.Decimal `json:"total"`
}

// DiscountPct returns the bulk discount percentage for the cart:
// floor(itemCount / BulkGroupSize) * PctPerGroup.
func (p Pricer) DiscountPct(c Cart) int64 {
	if p.BulkGroupSize <= 0 {
		return 0
	}
	return int64(c.ItemCount()/p.BulkGroupSize) * p.PctPerGroup
}

// Discount returns the discount amount: subtotal * pct / 100, rounded to
// two fraction digits.
func (p Pricer) Discount(c Cart) decimal.Decimal {
	pct := p.DiscountPct(c)
	if pct == 0 {
		return decimal.Zero.Round(2)
	}
	return c.Subtotal().
		Mul(decimal.NewFromInt(pct)).
		Div(decimal.NewFromInt(100)).
		Round(2)
}

// Shipping returns the flat shipping fee, or zero when the discounted
// subtotal reaches FreeShippingMin.
func (p Pricer) Shipping(c Cart) decimal.Decimal {
	if c.Subtotal().Sub(p.Discount(c)).GreaterThanOrEqual(p.FreeShippingMin) {
		return decimal.Zero.Round(2)
	}
	return p.ShippingFee.Round(2)
}

// Total returns subtotal - discount + shipping. The discounted subtotal is
// clamped at zero before shipping is added, so the total is never negative.
func (p Pricer) Total(c Cart) decimal.Decimal {
	discounted := c.Subtotal().Sub(p.Discount(c))
	if discounted.IsNegative() {
		discounted = decimal.Zero
	}
	return discounted.Add(p.Shipping(c)).Round(2)
}

// Summarize returns the complete breakdown in one pass.
func (p Pricer) Summarize(c Cart) Summary {
	return Summary{
		ItemCount:   c.ItemCount(),
		DiscountPct: p.DiscountPct(c),
		Subtotal:    c.Subtotal(),
		Discount:    p.Discount(c),
		Shipping:    p.Shipping(c),
		Total:       p.Total(c),
	}
}
