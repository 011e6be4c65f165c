package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Products returns the full product catalog.
func (c *Client) Products(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "/api/productos", nil, &products); err != nil {
		return nil, fmt.Errorf("fetching products: %w", err)
	}
	return products, nil
}

// Product returns a single catalog entry.
func (c *Client) Product(ctx context.Context, productID string) (*Product, error) {
	var product Product
	if err := c.do(ctx, http.MethodGet, "/api/productos/"+url.PathEscape(productID), nil, &product); err != nil {
		return nil, fmt.Errorf("fetching product %s: %w", productID, err)
	}
	return &product, nil
}

// AvailableBatches returns the batches currently open for sale.
func (c *Client) AvailableBatches(ctx context.Context) ([]Batch, error) {
	var batches []Batch
	if err := c.do(ctx, http.MethodGet, "/api/lotes/disponibles", nil, &batches); err != nil {
		return nil, fmt.Errorf("fetching available batches: %w", err)
	}
	return batches, nil
}

// BatchAvailability returns the open batch for (productID, variant) with
// the most remaining stock, or nil when none is available. The figure is a
// point-in-time reading; the cart trusts it as of the moment it was handed
// over.
func (c *Client) BatchAvailability(ctx context.Context, productID, variant string) (*Batch, error) {
	batches, err := c.AvailableBatches(ctx)
	if err != nil {
		return nil, err
	}

	var best *Batch
	for i := range batches {
		b := &batches[i]
		if b.ProductID != productID || b.Variant != variant {
			continue
		}
		if best == nil || b.Available > best.Available {
			best = b
		}
	}
	return best, nil
}
