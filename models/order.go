package models

import (
	"time"

	"retailpro/currency"
)

// Order is a finalized purchase. Totals are computed once at checkout and
// never recomputed; status and shipping metadata change only through the
// transition rules in the orders package.
type Order struct {
	OrderID          string         `json:"orderId" bson:"orderId"`
	UserID           string         `json:"userId" bson:"userId"`
	Subtotal         currency.Paise `json:"subtotal" bson:"subtotal"`
	Tax              currency.Paise `json:"tax" bson:"tax"`
	Shipping         currency.Paise `json:"shipping" bson:"shipping"`
	Total            currency.Paise `json:"total" bson:"total"`
	Status           string         `json:"status" bson:"status"`
	ShippingMethod   string         `json:"shippingMethod" bson:"shippingMethod"`
	ExpectedDelivery *time.Time     `json:"expectedDelivery,omitempty" bson:"expectedDelivery,omitempty"`
	TrackingNumber   string         `json:"trackingNumber,omitempty" bson:"trackingNumber,omitempty"`
	ShippingCarrier  string         `json:"shippingCarrier,omitempty" bson:"shippingCarrier,omitempty"`
	ShippedAt        *time.Time     `json:"shippedAt,omitempty" bson:"shippedAt,omitempty"`
	DeliveredAt      *time.Time     `json:"deliveredAt,omitempty" bson:"deliveredAt,omitempty"`
	CreatedAt        time.Time      `json:"createdAt" bson:"createdAt"`
}

// OrderLine is an immutable copy of a cart line, priced as it was at
// checkout time.
type OrderLine struct {
	OrderID   string         `json:"orderId" bson:"orderId"`
	ProductID string         `json:"productId" bson:"productId"`
	Quantity  int            `json:"quantity" bson:"quantity"`
	UnitPrice currency.Paise `json:"unitPrice" bson:"unitPrice"`
}

// OrderEvent is published on every committed status change. Delivery is
// at-least-once; consumers must tolerate duplicates.
type OrderEvent struct {
	OrderID   string    `json:"orderId"`
	UserID    string    `json:"userId"`
	OldStatus string    `json:"oldStatus"`
	NewStatus string    `json:"newStatus"`
	Timestamp time.Time `json:"timestamp"`
}
