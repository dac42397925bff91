package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cantina/internal/core/apperror"
	"cantina/internal/core/id"
	"cantina/internal/domain/ledger"
	"cantina/internal/infrastructure/http/v1/dto"
)

// LedgerHandler serves the credit ledger: balances, payments and
// reconciliation.
type LedgerHandler struct {
	*BaseHandler
	engine *ledger.Engine
}

func NewLedgerHandler(base *BaseHandler, engine *ledger.Engine) *LedgerHandler {
	return &LedgerHandler{BaseHandler: base, engine: engine}
}

// List handles GET /ledger. ?open=true narrows to entries with an open
// balance.
func (h *LedgerHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	openOnly := c.Query("open") == "true"

	entries, err := h.engine.ListEntries(ctx, openOnly)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": dto.FromEntries(entries)})
}

// Get handles GET /ledger/:customerId.
func (h *LedgerHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	customerID, err := id.Parse(c.Param("customerId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid customer id format"))
		return
	}

	entry, err := h.engine.GetEntry(ctx, customerID)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEntry(entry))
}

// RecordPayment handles POST /ledger/:customerId/payments.
func (h *LedgerHandler) RecordPayment(c *gin.Context) {
	ctx := c.Request.Context()

	customerID, err := id.Parse(c.Param("customerId"))
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid customer id format"))
		return
	}

	var req dto.RecordPaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	entry, err := h.engine.RecordPayment(ctx, customerID, req.Amount)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromEntry(entry))
}

// Reconcile handles POST /ledger/reconcile. ?repair=true re-applies credit
// sales that never reached their ledger entry.
func (h *LedgerHandler) Reconcile(c *gin.Context) {
	ctx := c.Request.Context()

	repair := c.Query("repair") == "true"

	report, err := h.engine.Reconcile(ctx, repair)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}
