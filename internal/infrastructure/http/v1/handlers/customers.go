package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cantina/internal/core/apperror"
	"cantina/internal/core/id"
	"cantina/internal/domain/catalogs/customer"
	"cantina/internal/infrastructure/http/v1/dto"
)

// CustomerHandler serves the customer catalog, the generic CRUD plus the
// credit block toggle.
type CustomerHandler struct {
	*CatalogHandler[*customer.Customer, dto.CreateCustomerRequest, dto.UpdateCustomerRequest]
	service *customer.Service
}

func NewCustomerHandler(base *BaseHandler, service *customer.Service) *CustomerHandler {
	return &CustomerHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*customer.Customer, dto.CreateCustomerRequest, dto.UpdateCustomerRequest]{
			Service:    service.CatalogService,
			EntityName: "customer",
			MapCreateDTO: func(req dto.CreateCustomerRequest) *customer.Customer {
				return req.ToEntity()
			},
			MapUpdateDTO: func(req dto.UpdateCustomerRequest, existing *customer.Customer) *customer.Customer {
				return req.ApplyTo(existing)
			},
			MapToDTO: func(c *customer.Customer) any {
				return dto.FromCustomer(c)
			},
		}),
		service: service,
	}
}

// SetCreditBlock handles POST /customers/:id/credit-block.
func (h *CustomerHandler) SetCreditBlock(c *gin.Context) {
	ctx := c.Request.Context()

	customerID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.SetCreditBlockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	updated, err := h.service.SetCreditBlocked(ctx, customerID, req.Blocked)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromCustomer(updated))
}
