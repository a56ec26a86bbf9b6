package models

import "time"

type OrderStatus string

const (
	OrderStatusPendingPayment OrderStatus = "PENDING_PAYMENT"
	OrderStatusProcessing     OrderStatus = "PROCESSING"
	OrderStatusShipped        OrderStatus = "SHIPPED"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

// Wire types below carry the marketplace backend's field names, which
// the gateway mirrors rather than defines.

type OrderItemRequest struct {
	InventoryItemID string `json:"inventoryItemId" validate:"required"`
	Quantity        int    `json:"quantity"        validate:"required,min=1"`
}

type OrderRequest struct {
	SellerID        string             `json:"sellerId" validate:"required"`
	Items           []OrderItemRequest `json:"items"    validate:"required,min=1,dive"`
	ShippingAddress ShippingAddress    `json:"shippingAddress" validate:"required"`
}

type OrderItem struct {
	InventoryItemID string  `json:"inventoryItemId"`
	Name            string  `json:"name,omitempty"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unitPrice"`
}

type Order struct {
	ID          string      `json:"id"`
	CustomerID  string      `json:"customerId,omitempty"`
	SellerID    string      `json:"sellerId,omitempty"`
	Status      OrderStatus `json:"status"`
	TotalAmount float64     `json:"totalAmount"`
	Items       []OrderItem `json:"items,omitempty"`
	OrderDate   time.Time   `json:"orderDate,omitzero"`
}

type PaymentRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"required"`
	TransactionID string `json:"transactionId" validate:"required"`
}

type InventoryItem struct {
	ID                string  `json:"id"`
	SellerID          string  `json:"sellerId,omitempty"`
	Name              string  `json:"name"`
	Type              string  `json:"type,omitempty"`
	Price             float64 `json:"price"`
	Quantity          int     `json:"quantity"`
	Description       string  `json:"description,omitempty"`
	LowStockThreshold int     `json:"lowStockThreshold,omitempty"`
	SKU               string  `json:"sku,omitempty"`
	Unit              string  `json:"unit,omitempty"`
}

type InventoryItemRequest struct {
	Name              string  `json:"name" validate:"required"`
	Type              string  `json:"type" validate:"required"`
	Price             float64 `json:"price" validate:"gt=0"`
	Quantity          int     `json:"quantity" validate:"gte=0"`
	Description       string  `json:"description,omitempty"`
	LowStockThreshold int     `json:"lowStockThreshold" validate:"gte=0"`
	SKU               string  `json:"sku,omitempty"`
	Unit              string  `json:"unit,omitempty"`
}
