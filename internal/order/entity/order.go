package entity

import "encoding/json"

// Order statuses that trigger a customer notification on update.
const (
	StatusCancelled = "cancelled"
	StatusDelivered = "delivered"
)

// Order is a purchase document in the `orders` collection. Products is kept
// opaque: clients send whatever line-item array their cart produces and get
// the same shape back.
type Order struct {
	ID              string          `json:"id,omitempty"`
	OrderNo         string          `json:"orderNo,omitempty"`
	Products        json.RawMessage `json:"products"`
	UserID          string          `json:"userId"`
	DeliveryAddress string          `json:"delivery_address"`
	TotalPrice      float64         `json:"totalPrice"`
	Status          string          `json:"status"`
	CreatedAt       int64           `json:"createdAt"`
}
