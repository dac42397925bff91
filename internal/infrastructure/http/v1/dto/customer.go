package dto

import (
	"cantina/internal/domain/catalogs/customer"
)

// --- Request DTOs ---

// GuardianDTO carries one guardian's contact data.
type GuardianDTO struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// CreateCustomerRequest is the request body for registering a child.
type CreateCustomerRequest struct {
	Name          string       `json:"name" binding:"required"`
	ClassGroup    string       `json:"classGroup"`
	Contact       string       `json:"contact"`
	Photo         *string      `json:"photo"`
	Father        *GuardianDTO `json:"father"`
	Mother        *GuardianDTO `json:"mother"`
	Notes         string       `json:"notes"`
	CreditBlocked bool         `json:"creditBlocked"`
}

// ToEntity converts DTO to domain entity.
func (r *CreateCustomerRequest) ToEntity() *customer.Customer {
	c := customer.New(r.Name)
	c.ClassGroup = r.ClassGroup
	c.Contact = r.Contact
	c.Photo = r.Photo
	c.Notes = r.Notes
	c.CreditBlocked = r.CreditBlocked
	if r.Father != nil {
		c.SetFather(&customer.Guardian{Name: r.Father.Name, Contact: r.Father.Contact})
	}
	if r.Mother != nil {
		c.SetMother(&customer.Guardian{Name: r.Mother.Name, Contact: r.Mother.Contact})
	}
	return c
}

// UpdateCustomerRequest is the request body for updating a child. The record
// is fully replaced; omitted fields reset to their zero values.
type UpdateCustomerRequest struct {
	Name          string       `json:"name" binding:"required"`
	ClassGroup    string       `json:"classGroup"`
	Contact       string       `json:"contact"`
	Photo         *string      `json:"photo"`
	Father        *GuardianDTO `json:"father"`
	Mother        *GuardianDTO `json:"mother"`
	Notes         string       `json:"notes"`
	CreditBlocked bool         `json:"creditBlocked"`
}

// ApplyTo maps the request onto an existing entity.
func (r *UpdateCustomerRequest) ApplyTo(c *customer.Customer) *customer.Customer {
	c.Name = r.Name
	c.ClassGroup = r.ClassGroup
	c.Contact = r.Contact
	c.Photo = r.Photo
	c.Notes = r.Notes
	c.CreditBlocked = r.CreditBlocked
	c.SetFather(nil)
	c.SetMother(nil)
	if r.Father != nil {
		c.SetFather(&customer.Guardian{Name: r.Father.Name, Contact: r.Father.Contact})
	}
	if r.Mother != nil {
		c.SetMother(&customer.Guardian{Name: r.Mother.Name, Contact: r.Mother.Contact})
	}
	return c
}

// SetCreditBlockRequest toggles the credit block flag.
type SetCreditBlockRequest struct {
	Blocked bool `json:"blocked"`
}

// --- Response DTO ---

// CustomerResponse is the API representation of a child.
type CustomerResponse struct {
	ID            string       `json:"id"`
	Name          string       `json:"name"`
	ClassGroup    string       `json:"classGroup"`
	Contact       string       `json:"contact"`
	Photo         *string      `json:"photo,omitempty"`
	Father        *GuardianDTO `json:"father,omitempty"`
	Mother        *GuardianDTO `json:"mother,omitempty"`
	Notes         string       `json:"notes"`
	CreditBlocked bool         `json:"creditBlocked"`
}

// FromCustomer creates a response DTO from the domain entity.
func FromCustomer(c *customer.Customer) CustomerResponse {
	resp := CustomerResponse{
		ID:            c.ID.String(),
		Name:          c.Name,
		ClassGroup:    c.ClassGroup,
		Contact:       c.Contact,
		Photo:         c.Photo,
		Notes:         c.Notes,
		CreditBlocked: c.CreditBlocked,
	}
	if g := c.Father(); g != nil {
		resp.Father = &GuardianDTO{Name: g.Name, Contact: g.Contact}
	}
	if g := c.Mother(); g != nil {
		resp.Mother = &GuardianDTO{Name: g.Name, Contact: g.Contact}
	}
	return resp
}
