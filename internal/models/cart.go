package models

type CartLine struct {
	ItemID    string  `json:"item_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// Cart holds the lines for exactly one seller at a time. SellerID is
// empty if and only if Lines is empty.
type Cart struct {
	SellerID string     `json:"seller_id,omitempty"`
	Lines    []CartLine `json:"lines"`
}

// Total is recomputed on every call; the cart never caches it.
func (c *Cart) Total() float64 {

	var total float64

	for _, line := range c.Lines {
		total += line.UnitPrice * float64(line.Quantity)
	}

	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

type AddItemRequest struct {
	ItemID    string  `json:"item_id"    validate:"required"`
	Name      string  `json:"name"       validate:"required"`
	UnitPrice float64 `json:"unit_price" validate:"gte=0"`
	SellerID  string  `json:"seller_id"  validate:"required"`
}

type UpdateQuantityRequest struct {
	// Zero or negative removes the line, so no lower bound here.
	Quantity int `json:"quantity"`
}

type ShippingAddress struct {
	Street  string `json:"street"  validate:"required"`
	City    string `json:"city"    validate:"required"`
	State   string `json:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
	Country string `json:"country" validate:"required"`
}

type CheckoutRequest struct {
	ShippingAddress ShippingAddress `json:"shipping_address" validate:"required"`
}

type CartResponse struct {
	Cart    *Cart   `json:"cart"`
	Total   float64 `json:"total"`
	Warning string  `json:"warning,omitempty"`
}
