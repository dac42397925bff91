package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cantina/internal/core/apperror"
	"cantina/internal/core/id"
	"cantina/internal/domain/catalogs/product"
	"cantina/internal/domain/ledger"
	"cantina/internal/infrastructure/http/v1/dto"
)

// ProductHandler serves the product catalog: the generic CRUD plus stock
// operations.
type ProductHandler struct {
	*CatalogHandler[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]
	service *product.Service
	engine  *ledger.Engine
}

func NewProductHandler(base *BaseHandler, service *product.Service, engine *ledger.Engine) *ProductHandler {
	return &ProductHandler{
		CatalogHandler: NewCatalogHandler(base, CatalogHandlerConfig[*product.Product, dto.CreateProductRequest, dto.UpdateProductRequest]{
			Service:    service.CatalogService,
			EntityName: "product",
			MapCreateDTO: func(req dto.CreateProductRequest) *product.Product {
				return req.ToEntity()
			},
			MapUpdateDTO: func(req dto.UpdateProductRequest, existing *product.Product) *product.Product {
				return req.ApplyTo(existing)
			},
			MapToDTO: func(p *product.Product) any {
				return dto.FromProduct(p)
			},
		}),
		service: service,
		engine:  engine,
	}
}

// LowStock handles GET /products/low-stock.
func (h *ProductHandler) LowStock(c *gin.Context) {
	ctx := c.Request.Context()

	items, err := h.service.FindLowStock(ctx)
	if err != nil {
		h.Error(c, err)
		return
	}

	out := make([]dto.ProductResponse, 0, len(items))
	for _, p := range items {
		out = append(out, dto.FromProduct(p))
	}

	c.JSON(http.StatusOK, gin.H{"items": out})
}

// AdjustStock handles POST /products/:id/stock-adjust.
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	ctx := c.Request.Context()

	productID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	var req dto.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.engine.AdjustStock(ctx, productID, req.Delta); err != nil {
		h.Error(c, err)
		return
	}

	updated, err := h.service.GetByID(ctx, productID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromProduct(updated))
}
