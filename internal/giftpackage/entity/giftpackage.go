package entity

import "encoding/json"

// GiftPackage is a curated bundle document in the `gift-packages` collection.
type GiftPackage struct {
	ID         string          `json:"id,omitempty"`
	Products   json.RawMessage `json:"products"`
	UserID     string          `json:"userId"`
	Quantity   int             `json:"quantity"`
	TotalPrice float64         `json:"totalPrice"`
	Status     string          `json:"status"`
	CreatedAt  int64           `json:"createdAt"`
}
