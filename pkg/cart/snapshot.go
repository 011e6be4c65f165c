package cart

import "github.com/shopspring/decimal"

// Snapshot is the checkout payload handed to the order-submission flow. It
// freezes the lines and the monetary breakdown at the moment it was taken;
// the engine's contract ends here.
type Snapshot struct {
	Identity string          `json:"identity"`
	Lines    []SnapshotLine  `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Discount decimal.Decimal `json:"discount"`
	Shipping decimal.Decimal `json:"shipping"`
	Total    decimal.Decimal `json:"total"`
}

// SnapshotLine is one frozen line item, carrying the batch code (if any)
// the units should draw from.
type SnapshotLine struct {
	ProductID  string          `json:"productId"`
	VariantKey string          `json:"variantKey"`
	BatchCode  string          `json:"batchCode,omitempty"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity"`
}

func makeSnapshot(c Cart, p Pricer) Snapshot {
	snap := Snapshot{
		Identity: c.OwnerIdentity,
		Lines:    make([]SnapshotLine, 0, len(c.Items)),
		Subtotal: c.Subtotal(),
		Discount: p.Discount(c),
		Shipping: p.Shipping(c),
		Total:    p.Total(c),
	}
	for _, item := range c.Items {
		line := SnapshotLine{
			ProductID:  item.ProductID,
			VariantKey: item.VariantKey,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
		}
		if item.Batch != nil {
			line.BatchCode = item.Batch.Code
		}
		snap.Lines = append(snap.Lines, line)
	}
	return snap
}
