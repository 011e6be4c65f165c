// Package cart implements the shopper's cart: line items keyed by product
// and variant, quantity-based bulk discounting, shipping-fee computation,
// and per-identity persistence.
package cart

import "github.com/shopspring/decimal"

// BatchRef pins a line item to a specific production batch. Available is the
// remaining quantity the backend advertised when the batch was selected; the
// engine never lets a line's quantity exceed it.
type BatchRef struct {
	Code      string `json:"code"`
	Available int    `json:"available"`
}

// LineItem is one purchasable row in a cart. Within a cart the pair
// (ProductID, VariantKey) is unique; adding a matching item increments
// Quantity instead of creating a duplicate row.
type LineItem struct {
	ProductID  string          `json:"productId"`
	VariantKey string          `json:"variantKey"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity"`
	Batch      *BatchRef       `json:"batch,omitempty"`
}

// Cart aggregates one identity's line items. Items keep insertion order for
// display; order carries no pricing meaning.
type Cart struct {
	OwnerIdentity string     `json:"ownerIdentity"`
	Items         []LineItem `json:"items"`
}

// ItemCount returns the total number of units across all lines, not the
// number of distinct lines.
func (c Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Subtotal returns the sum of UnitPrice * Quantity over all lines, rounded
// to two fraction digits.
func (c Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return subtotal.Round(2)
}

// find returns the index of the line matching (productID, variantKey), or -1.
func (c Cart) find(productID, variantKey string) int {
	for i, item := range c.Items {
		if item.ProductID == productID && item.VariantKey == variantKey {
			return i
		}
	}
	return -1
}

// clone returns a deep copy so callers can hold a Cart without racing the
// engine's own slice.
func (c Cart) clone() Cart {
	out := Cart{OwnerIdentity: c.OwnerIdentity}
	if len(c.Items) == 0 {
		return out
	}
	out.Items = make([]LineItem, len(c.Items))
	copy(out.Items, c.Items)
	for i, item := range c.Items {
		if item.Batch != nil {
			batch := *item.Batch
			out.Items[i].Batch = &batch
		}
	}
	return out
}
