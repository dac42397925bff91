package catalog_repo

import (
	"cantina/internal/domain/catalogs/customer"
	"cantina/internal/infrastructure/storage/postgres"
)

// CustomerRepo implements customer.Repository on PostgreSQL.
type CustomerRepo struct {
	*BaseCatalogRepo[*customer.Customer]
}

func NewCustomerRepo(pool *postgres.Pool) *CustomerRepo {
	return &CustomerRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			pool,
			"cat_children",
			"customer",
			postgres.ExtractDBColumns[customer.Customer](),
			func() *customer.Customer { return &customer.Customer{} },
		),
	}
}

var _ customer.Repository = (*CustomerRepo)(nil)
