package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cantina/internal/core/apperror"
	"cantina/internal/core/id"
	"cantina/internal/domain/ledger"
	"cantina/internal/infrastructure/http/v1/dto"
)

// POSHandler serves the point of sale: checkout and the sale log.
type POSHandler struct {
	*BaseHandler
	engine *ledger.Engine
}

func NewPOSHandler(base *BaseHandler, engine *ledger.Engine) *POSHandler {
	return &POSHandler{BaseHandler: base, engine: engine}
}

// FinalizeSale handles POST /sales - checkout.
func (h *POSHandler) FinalizeSale(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.FinalizeSaleRequest
	if !h.BindJSON(c, &req) {
		return
	}

	engineReq, err := req.ToEngineRequest()
	if err != nil {
		h.Error(c, err)
		return
	}

	sale, err := h.engine.FinalizeSale(ctx, engineReq)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.FromSale(sale))
}

// List handles GET /sales with optional from/to (RFC 3339) and settlement
// filters.
func (h *POSHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	filter := ledger.SaleFilter{
		Limit:  h.ParseIntQuery(c, "limit", 100),
		Offset: h.ParseIntQuery(c, "offset", 0),
	}

	if raw := c.Query("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid 'from' timestamp").WithDetail("from", raw))
			return
		}
		filter.From = &from
	}
	if raw := c.Query("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			h.Error(c, apperror.NewValidation("invalid 'to' timestamp").WithDetail("to", raw))
			return
		}
		filter.To = &to
	}
	if raw := c.Query("settlement"); raw != "" {
		st := ledger.SettlementType(raw)
		if st != ledger.SettlementPaid && st != ledger.SettlementCredit {
			h.Error(c, apperror.NewValidation("invalid settlement filter").WithDetail("settlement", raw))
			return
		}
		filter.SettlementType = &st
	}

	sales, err := h.engine.ListSales(ctx, filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": dto.FromSales(sales)})
}

// Get handles GET /sales/:id.
func (h *POSHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	saleID, err := id.Parse(c.Param("id"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid id format"))
		return
	}

	sale, err := h.engine.GetSale(ctx, saleID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromSale(sale))
}
