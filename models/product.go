package models

import (
	"time"

	"retailpro/currency"
)

// Product is a catalog entry. Price is stored in paise; cart and order
// lines snapshot it at add/checkout time so later catalog edits never
// change what a customer already paid.
type Product struct {
	ProductID   string         `json:"productId" bson:"productId"`
	Name        string         `json:"name" bson:"name"`
	Description string         `json:"description" bson:"description"`
	Price       currency.Paise `json:"price" bson:"price"`
	ImageURL    string         `json:"imageUrl,omitempty" bson:"imageUrl,omitempty"`
	Rating      float64        `json:"rating" bson:"rating"`
	CreatedAt   time.Time      `json:"createdAt" bson:"createdAt"`
}
