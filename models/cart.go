package models

import "time"

// CartItem is one line in a user's cart. Lines are unique per (product, size).
type CartItem struct {
	ProductID string `json:"productId" bson:"productId"`
	Quantity  int    `json:"quantity" bson:"quantity"`
	Size      string `json:"size,omitempty" bson:"size,omitempty"`
}

// Cart holds the single active cart for a user.
type Cart struct {
	UserID    string     `json:"userId" bson:"userId"`
	Items     []CartItem `json:"items" bson:"items"`
	Paid      bool       `json:"paid" bson:"paid"`
	CreatedAt time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updated_at"`
}
