package cart

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cartOf(t *testing.T, price string, quantity int) Cart {
	t.Helper()
	return Cart{
		OwnerIdentity: "maria",
		Items: []LineItem{
			{ProductID: "42", VariantKey: "oil", UnitPrice: requireDecimal(t, price), Quantity: quantity},
		},
	}
}

func requireDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestDiscountPctBoundaries(t *testing.T) {
	pricer := DefaultPricer()

	tests := []struct {
		name     string
		quantity int
		wantPct  int64
	}{
		{"nine units earn nothing", 9, 0},
		{"ten units earn one point", 10, 1},
		{"nineteen units still one point", 19, 1},
		{"twenty units earn two points", 20, 2},
		{"twenty-nine units stay at two points", 29, 2},
		{"forty-seven units earn four points", 47, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := cartOf(t, "1.00", tt.quantity)
			assert.Equal(t, tt.wantPct, pricer.DiscountPct(c))
		})
	}
}

func TestDiscountCountsUnitsAcrossLines(t *testing.T) {
	pricer := DefaultPricer()
	c := Cart{Items: []LineItem{
		{ProductID: "1", VariantKey: "oil", UnitPrice: requireDecimal(t, "2.00"), Quantity: 6},
		{ProductID: "1", VariantKey: "water", UnitPrice: requireDecimal(t, "2.00"), Quantity: 4},
	}}

	assert.Equal(t, 10, c.ItemCount())
	assert.Equal(t, int64(1), pricer.DiscountPct(c))
}

func TestCheckoutBreakdownBelowFreeShipping(t *testing.T) {
	// 12 units at 3.50: subtotal 42.00, 1% discount 0.42, shipping 5.00.
	pricer := DefaultPricer()
	c := cartOf(t, "3.50", 12)

	assert.Equal(t, "42.00", c.Subtotal().StringFixed(2))
	assert.Equal(t, "0.42", pricer.Discount(c).StringFixed(2))
	assert.Equal(t, "5.00", pricer.Shipping(c).StringFixed(2))
	assert.Equal(t, "46.58", pricer.Total(c).StringFixed(2))
}

func TestCheckoutBreakdownAboveFreeShipping(t *testing.T) {
	// 20 units at 3.50: subtotal 70.00, 2% discount 1.40, free shipping.
	pricer := DefaultPricer()
	c := cartOf(t, "3.50", 20)

	assert.Equal(t, "70.00", c.Subtotal().StringFixed(2))
	assert.Equal(t, "1.40", pricer.Discount(c).StringFixed(2))
	assert.Equal(t, "0.00", pricer.Shipping(c).StringFixed(2))
	assert.Equal(t, "68.60", pricer.Total(c).StringFixed(2))
}

func TestShippingFreeExactlyAtThreshold(t *testing.T) {
	pricer := DefaultPricer()
	// 5 units at 10.00: subtotal 50.00, no discount, discounted subtotal
	// sits exactly on the threshold.
	c := cartOf(t, "10.00", 5)

	assert.Equal(t, "0.00", pricer.Shipping(c).StringFixed(2))
	assert.Equal(t, "50.00", pricer.Total(c).StringFixed(2))
}

func TestShippingChargedJustBelowThreshold(t *testing.T) {
	pricer := DefaultPricer()
	c := cartOf(t, "49.99", 1)

	assert.Equal(t, "5.00", pricer.Shipping(c).StringFixed(2))
	assert.Equal(t, "54.99", pricer.Total(c).StringFixed(2))
}

func TestTotalIdentityHolds(t *testing.T) {
	pricer := DefaultPricer()

	quantities := []int{1, 9, 10, 29, 47, 120}
	for _, quantity := range quantities {
		c := cartOf(t, "3.75", quantity)

		discounted := c.Subtotal().Sub(pricer.Discount(c))
		if discounted.IsNegative() {
			discounted = decimal.Zero
		}
		want := discounted.Add(pricer.Shipping(c))
		assert.True(t, pricer.Total(c).Equal(want), "quantity %d", quantity)
	}
}

func TestTotalClampsAtZero(t *testing.T) {
	// A policy aggressive enough to push the discount past the subtotal
	// must clamp the discounted subtotal at zero, not go negative.
	pricer := Pricer{
		BulkGroupSize:   1,
		PctPerGroup:     20,
		FreeShippingMin: decimal.NewFromInt(50),
		ShippingFee:     decimal.NewFromInt(5),
	}
	c := cartOf(t, "1.00", 10) // 200% discount

	assert.Equal(t, "5.00", pricer.Total(c).StringFixed(2))
	assert.False(t, pricer.Total(c).IsNegative())
}

func TestSubtotalExactAcrossManyLines(t *testing.T) {
	// 0.10 summed 100 times must be exactly 10.00; float drift here would
	// surface as 9.99 or 10.01.
	c := Cart{}
	for i := 0; i < 100; i++ {
		c.Items = append(c.Items, LineItem{
			ProductID:  fmt.Sprintf("p%d", i),
			VariantKey: "oil",
			UnitPrice:  requireDecimal(t, "0.10"),
			Quantity:   1,
		})
	}

	assert.Equal(t, "10.00", c.Subtotal().StringFixed(2))
}

func TestSummarize(t *testing.T) {
	pricer := DefaultPricer()
	c := cartOf(t, "3.50", 12)

	got := pricer.Summarize(c)
	assert.Equal(t, 12, got.ItemCount)
	assert.Equal(t, int64(1), got.DiscountPct)
	assert.Equal(t, "42.00", got.Subtotal.StringFixed(2))
	assert.Equal(t, "0.42", got.Discount.StringFixed(2))
	assert.Equal(t, "5.00", got.Shipping.StringFixed(2))
	assert.Equal(t, "46.58", got.Total.StringFixed(2))
}
