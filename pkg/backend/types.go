package backend

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// envelope is the backend's standard response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Product is a catalog entry. The backend spells the product identifier
// three different ways depending on the endpoint; UnmarshalJSON normalizes
// all of them to ProductID so nothing downstream ever branches on which
// name was present.
type Product struct {
	ProductID    string
	Name         string
	Variant      string
	ContentGrams int
	ListPrice    decimal.Decimal
	Description  string
}

func (p *Product) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID         json.RawMessage `json:"id"`
		IDProducto json.RawMessage `json:"idProducto"`
		IDSnake    json.RawMessage `json:"id_producto"`

		Nombre      string          `json:"nombre"`
		Conservante string          `json:"conservante"`
		ContenidoG  int             `json:"contenidoG"`
		PrecioLista decimal.Decimal `json:"precioLista"`
		Descripcion string          `json:"descripcion"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := normalizeID(raw.IDProducto, raw.ID, raw.IDSnake)
	if err != nil {
		return err
	}

	*p = Product{
		ProductID:    id,
		Name:         raw.Nombre,
		Variant:      raw.Conservante,
		ContentGrams: raw.ContenidoG,
		ListPrice:    raw.PrecioLista,
		Description:  raw.Descripcion,
	}
	return nil
}

// normalizeID returns the first present identifier, rendered as a string
// whether the backend sent it as a JSON string or number.
func normalizeID(candidates ...json.RawMessage) (string, error) {
	for _, c := range candidates {
		if len(c) == 0 || string(c) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(c, &s); err == nil {
			return s, nil
		}
		var n json.Number
		if err := json.Unmarshal(c, &n); err == nil {
			return n.String(), nil
		}
		return "", fmt.Errorf("unrecognized product identifier %s", string(c))
	}
	return "", nil
}

// Batch is a production run of a product variant with its remaining
// availability.
type Batch struct {
	Code      string `json:"codigoLote"`
	Available int    `json:"cantidadDisponible"`
	Variant   string `json:"conservante"`
	Expiry    string `json:"fechaVencimiento"`

	ProductID string `json:"-"`
}

func (b *Batch) UnmarshalJSON(data []byte) error {
	type alias Batch
	var raw struct {
		alias
		ID         json.RawMessage `json:"id"`
		IDProducto json.RawMessage `json:"idProducto"`
		IDSnake    json.RawMessage `json:"id_producto"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, err := normalizeID(raw.IDProducto, raw.ID, raw.IDSnake)
	if err != nil {
		return err
	}
	*b = Batch(raw.alias)
	b.ProductID = id
	return nil
}

// roleField decodes the backend's role value, which is sometimes a bare
// string and sometimes an object with a name field.
type roleField string

func (r *roleField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = roleField(s)
		return nil
	}
	var obj struct {
		Nombre string `json:"nombre"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("unrecognized role shape %s", string(data))
	}
	*r = roleField(obj.Nombre)
	return nil
}

// RegistrationRequest is the payload for creating a new client account.
type RegistrationRequest struct {
	Identity   string `json:"nombreUsuario"`
	Secret     string `json:"contrasena"`
	Email      string `json:"correo"`
	ClientType string `json:"tipo"` // PERSONA_NATURAL or EMPRESA
}

// OrderReceipt identifies a submitted order.
type OrderReceipt struct {
	OrderID     string `json:"-"`
	OrderNumber string `json:"numeroPedido"`
}

func (r *OrderReceipt) UnmarshalJSON(data []byte) error {
	var raw struct {
		IDPedido     json.RawMessage `json:"idPedido"`
		NumeroPedido string          `json:"numeroPedido"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, err := normalizeID(raw.IDPedido)
	if err != nil {
		return err
	}
	r.OrderID = id
	r.OrderNumber = raw.NumeroPedido
	return nil
}

// Order is an entry in a client's order history.
type Order struct {
	OrderID     string          `json:"-"`
	OrderNumber string          `json:"numeroPedido"`
	Status      string          `json:"estado"`
	Total       decimal.Decimal `json:"total"`
	CreatedAt   string          `json:"fechaCreacion"`
}

func (o *Order) UnmarshalJSON(data []byte) error {
	type alias Order
	var raw struct {
		alias
		IDPedido json.RawMessage `json:"idPedido"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	id, err := normalizeID(raw.IDPedido)
	if err != nil {
		return err
	}
	*o = Order(raw.alias)
	o.OrderID = id
	return nil
}
