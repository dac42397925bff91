// Package customer provides the Customer catalog: the children buying at the
// canteen, together with their guardian contacts and credit standing.
package customer

import (
	"context"

	"cantina/internal/core/apperror"
	"cantina/internal/core/entity"
)

// Guardian holds one guardian's contact data.
type Guardian struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// Customer represents a registered child.
// Deleting a customer does NOT cascade to sales or ledger entries; both carry
// name snapshots and may keep referencing the deleted id.
type Customer struct {
	entity.BaseCatalog

	// Name is the child's display name
	Name string `db:"name" json:"name"`

	// ClassGroup is the class/group label (e.g. "3rd grade A")
	ClassGroup string `db:"class_group" json:"classGroup"`

	// Contact is the primary phone contact
	Contact string `db:"contact" json:"contact"`

	// Photo is an optional data-URL image
	Photo *string `db:"photo" json:"photo,omitempty"`

	// Guardian contacts, flattened for storage
	FatherName    *string `db:"father_name" json:"fatherName,omitempty"`
	FatherContact *string `db:"father_contact" json:"fatherContact,omitempty"`
	MotherName    *string `db:"mother_name" json:"motherName,omitempty"`
	MotherContact *string `db:"mother_contact" json:"motherContact,omitempty"`

	// Notes is free-text observations
	Notes string `db:"notes" json:"notes"`

	// CreditBlocked bars the customer from credit (fiado) sales
	CreditBlocked bool `db:"credit_blocked" json:"creditBlocked"`
}

// New creates a Customer with a generated id.
func New(name string) *Customer {
	return &Customer{
		BaseCatalog: entity.NewBaseCatalog(),
		Name:        name,
	}
}

// Validate implements entity.Validatable.
func (c *Customer) Validate(ctx context.Context) error {
	if c.Name == "" {
		return apperror.NewValidation("name is required").
			WithDetail("field", "name")
	}
	return nil
}

// Father returns the father guardian record, or nil if not set.
func (c *Customer) Father() *Guardian {
	return guardian(c.FatherName, c.FatherContact)
}

// Mother returns the mother guardian record, or nil if not set.
func (c *Customer) Mother() *Guardian {
	return guardian(c.MotherName, c.MotherContact)
}

// SetFather sets or clears the father guardian.
func (c *Customer) SetFather(g *Guardian) {
	c.FatherName, c.FatherContact = guardianFields(g)
}

// SetMother sets or clears the mother guardian.
func (c *Customer) SetMother(g *Guardian) {
	c.MotherName, c.MotherContact = guardianFields(g)
}

func guardian(name, contact *string) *Guardian {
	if name == nil && contact == nil {
		return nil
	}
	g := &Guardian{}
	if name != nil {
		g.Name = *name
	}
	if contact != nil {
		g.Contact = *contact
	}
	return g
}

func guardianFields(g *Guardian) (name, contact *string) {
	if g == nil {
		return nil, nil
	}
	n, c := g.Name, g.Contact
	return &n, &c
}
