package entity

import "time"

// Customer is a registered buyer. Invoices may reference a customer or
// carry inline guest identity instead.
type Customer struct {
	ID        string
	Name      string
	Phone     string
	Email     string
	GSTIN     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
