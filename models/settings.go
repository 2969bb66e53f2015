package models

// StoreSettings represents a customer's storefront preferences.
type StoreSettings struct {
	UserID        string `json:"userID,omitempty" bson:"userID"`
	Notifications bool   `json:"notifications" bson:"notifications"`
	Language      string `json:"language" bson:"language"`
	Address       string `json:"address" bson:"address"`
	Currency      string `json:"currency" bson:"currency"`
}
