package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/atunesdelpacifico/storefront/pkg/cart"
)

// orderPayload is the order-submission body. Each submission carries a
// client-generated request ID so a retried POST can be deduplicated
// server-side.
type orderPayload struct {
	ClientRequestID string          `json:"clientRequestId"`
	Items           []orderLine     `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	Discount        decimal.Decimal `json:"descuento"`
	Shipping        decimal.Decimal `json:"envio"`
	Total           decimal.Decimal `json:"total"`
}

type orderLine struct {
	ProductID string          `json:"idProducto"`
	Variant   string          `json:"conservante"`
	BatchCode string          `json:"codigoLote,omitempty"`
	Quantity  int             `json:"cantidad"`
	UnitPrice decimal.Decimal `json:"precioUnitario"`
}

// SubmitOrder submits a frozen cart snapshot as a new order.
func (c *Client) SubmitOrder(ctx context.Context, snap cart.Snapshot) (OrderReceipt, error) {
	payload := orderPayload{
		ClientRequestID: uuid.NewString(),
		Items:           make([]orderLine, 0, len(snap.Lines)),
		Subtotal:        snap.Subtotal,
		Discount:        snap.Discount,
		Shipping:        snap.Shipping,
		Total:           snap.Total,
	}
	for _, line := range snap.Lines {
		payload.Items = append(payload.Items, orderLine{
			ProductID: line.ProductID,
			Variant:   line.VariantKey,
			BatchCode: line.BatchCode,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	var receipt OrderReceipt
	if err := c.do(ctx, http.MethodPost, "/pedidos", payload, &receipt); err != nil {
		return OrderReceipt{}, fmt.Errorf("submitting order: %w", err)
	}
	return receipt, nil
}

// OrdersForClient returns the identity's order history.
func (c *Client) OrdersForClient(ctx context.Context, identity string) ([]Order, error) {
	var orders []Order
	path := "/pedidos/cliente/" + url.PathEscape(identity)
	if err := c.do(ctx, http.MethodGet, path, nil, &orders); err != nil {
		return nil, fmt.Errorf("fetching orders for %s: %w", identity, err)
	}
	return orders, nil
}

// UpdateOrderStatus moves an order to a new status. Operator and
// administrator dashboards drive this.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID, status string) error {
	body := map[string]string{"estado": status}
	path := "/pedidos/" + url.PathEscape(orderID) + "/estado"
	if err := c.do(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("updating order %s status: %w", orderID, err)
	}
	return nil
}
