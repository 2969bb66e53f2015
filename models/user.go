package models

import "time"

// User is a storefront account. Customers and admins live in the same
// collection; the Role slice decides what the admin console lets them do.
type User struct {
	UserID        string    `json:"userid" bson:"userid"`
	Username      string    `json:"username" bson:"username"`
	Email         string    `json:"email" bson:"email"`
	Password      string    `json:"password,omitempty" bson:"password"`
	Role          []string  `json:"role" bson:"role"`
	RefreshToken  string    `json:"-" bson:"refresh_token,omitempty"`
	RefreshExpiry time.Time `json:"-" bson:"refresh_expiry,omitempty"`
	LastLogin     time.Time `json:"lastLogin,omitempty" bson:"last_login,omitempty"`
	CreatedAt     time.Time `json:"createdAt" bson:"createdAt"`
}
