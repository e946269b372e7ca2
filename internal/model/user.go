package model

import "time"

// User is the account referenced by orders and notifications.
// Credentials and token issuance live in the external auth layer; the core
// only reads identity and contact fields.
type User struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
