package entity

// Product is a catalog document in the `products` collection.
type Product struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Currency  string  `json:"currency"`
	Category  string  `json:"category"`
	SearchKey string  `json:"searchKey"`
}
