// Package customer holds the delivery addresses the core references.
package customer

import (
	"context"
	"errors"
)

var ErrAddressNotFound = errors.New("address not found")

type Address struct {
	id         uint
	customerID uint
	label      string
	line       string
}

func ReconstructAddress(id, customerID uint, label, line string) *Address {
	return &Address{id: id, customerID: customerID, label: label, line: line}
}

func (a *Address) ID() uint         { return a.id }
func (a *Address) CustomerID() uint { return a.customerID }
func (a *Address) Label() string    { return a.label }
func (a *Address) Line() string     { return a.line }

// BelongsTo reports whether the address is one of the customer's own.
func (a *Address) BelongsTo(customerID uint) bool {
	return a.customerID == customerID
}

type AddressRepository interface {
	// GetByID returns nil, nil when the address does not exist.
	GetByID(ctx context.Context, id uint) (*Address, error)
}
