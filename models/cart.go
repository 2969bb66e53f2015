package models

import (
	"time"

	"retailpro/currency"
)

// CartLine is one product in a customer's cart. UnitPrice is the catalog
// price captured when the line was added; checkout reuses it as the order
// line snapshot. Lines belong to exactly one user and are deleted when the
// cart converts to an order.
type CartLine struct {
	LineID      string         `json:"lineId" bson:"lineId"`
	UserID      string         `json:"userId" bson:"userId"`
	ProductID   string         `json:"productId" bson:"productId"`
	ProductName string         `json:"productName" bson:"productName"`
	Quantity    int            `json:"quantity" bson:"quantity"`
	UnitPrice   currency.Paise `json:"unitPrice" bson:"unitPrice"`
	AddedAt     time.Time      `json:"addedAt" bson:"addedAt"`
}
