package entity

// RoleCustomer is the role assigned to every self-registered account.
const RoleCustomer = "customer"

// User is the account document stored in the `users` collection. IDs are
// store-assigned and live outside the document body. Email is unique across
// the collection (enforced by the store schema).
type User struct {
	ID           string `json:"id,omitempty"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"passwordHash"`
	Role         string `json:"role"`
}
