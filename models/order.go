package models

import "time"

// Shipping methods accepted at order creation.
const (
	ShippingPickupInStore = "pickup_in_store"
	ShippingHomeDelivery  = "home_delivery"
	ShippingPickupPoint   = "pickup_point"
)

// Order statuses. Transitions are one-way: pending -> paid -> shipped -> delivered.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
)

var statusRank = map[string]int{
	StatusPending:   0,
	StatusPaid:      1,
	StatusShipped:   2,
	StatusDelivered: 3,
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether an order may move from -> to. Only single
// forward steps are allowed; setting the same status again is rejected here
// (payment reconciliation writes "paid" directly and stays idempotent on its
// own path).
func CanTransition(from, to string) bool {
	fr, ok := statusRank[from]
	if !ok {
		return false
	}
	tr, ok := statusRank[to]
	if !ok {
		return false
	}
	return tr == fr+1
}

// ValidShippingMethod reports whether m is an accepted shipping method.
func ValidShippingMethod(m string) bool {
	switch m {
	case ShippingPickupInStore, ShippingHomeDelivery, ShippingPickupPoint:
		return true
	}
	return false
}

// OrderItem snapshots the product name and unit price at purchase time so
// later catalog edits cannot rewrite order history.
type OrderItem struct {
	ProductID   string  `json:"product" bson:"product"`
	ProductName string  `json:"productName" bson:"productName"`
	UnitPrice   float64 `json:"unitPrice" bson:"unitPrice"`
	Quantity    int     `json:"quantity" bson:"quantity"`
	Size        string  `json:"size,omitempty" bson:"size,omitempty"`
}

// PickupPoint describes a courier office chosen as the delivery target.
type PickupPoint struct {
	Name    string  `json:"name" bson:"name"`
	Address string  `json:"address" bson:"address"`
	Lat     float64 `json:"lat" bson:"lat"`
	Lng     float64 `json:"lng" bson:"lng"`
}

// ShippingDetails carries the method-dependent payload.
type ShippingDetails struct {
	UserInfo    string       `json:"userInfo,omitempty" bson:"userInfo,omitempty"`
	Address     string       `json:"address,omitempty" bson:"address,omitempty"`
	PickupPoint *PickupPoint `json:"pickupPoint,omitempty" bson:"pickupPoint,omitempty"`
}

type Order struct {
	OrderID         string          `json:"orderId" bson:"orderid"`
	UserID          string          `json:"userId" bson:"userid"`
	Items           []OrderItem     `json:"items" bson:"items"`
	TotalAmount     float64         `json:"totalAmount" bson:"totalAmount"`
	ShippingMethod  string          `json:"shippingMethod" bson:"shippingMethod"`
	ShippingDetails ShippingDetails `json:"shippingDetails" bson:"shippingDetails"`
	Status          string          `json:"status" bson:"status"`
	PaidAt          *time.Time      `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" bson:"updated_at"`
}
