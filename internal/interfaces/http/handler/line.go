package handler

import (
	billingapp "github.com/schoolfund/backend/internal/application/billing"
	"github.com/schoolfund/backend/internal/domain/billing"
	"github.com/schoolfund/backend/internal/domain/identity"
	"github.com/schoolfund/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateLineRequest is the request body for creating a billing or stock line
type CreateLineRequest struct {
	EventID        uuid.UUID `json:"event_id" binding:"required"`
	Name           string    `json:"name" binding:"required,notblank,max=200"`
	SpentIn        float64   `json:"spent_in" binding:"gte=0"`
	SellFor        float64   `json:"sell_for" binding:"gte=0"`
	InitialStock   int64     `json:"initial_stock" binding:"gte=0"`
	RemainingStock int64     `json:"remaining_stock" binding:"gte=0"`
}

func (r CreateLineRequest) toInput() billingapp.CreateLineInput {
	return billingapp.CreateLineInput{
		EventID:        r.EventID,
		Name:           r.Name,
		SpentIn:        decimal.NewFromFloat(r.SpentIn),
		SellFor:        decimal.NewFromFloat(r.SellFor),
		InitialStock:   r.InitialStock,
		RemainingStock: r.RemainingStock,
	}
}

// UpdateLineRequest is the request body for a partial line update. Absent
// fields keep their current value; the owning event cannot be changed.
type UpdateLineRequest struct {
	Name           *string  `json:"name" binding:"omitempty,min=1,max=200"`
	SpentIn        *float64 `json:"spent_in" binding:"omitempty,gte=0"`
	SellFor        *float64 `json:"sell_for" binding:"omitempty,gte=0"`
	InitialStock   *int64   `json:"initial_stock" binding:"omitempty,gte=0"`
	RemainingStock *int64   `json:"remaining_stock" binding:"omitempty,gte=0"`
}

func (r UpdateLineRequest) toUpdate() billing.LineUpdate {
	update := billing.LineUpdate{
		Name:           r.Name,
		InitialStock:   r.InitialStock,
		RemainingStock: r.RemainingStock,
	}
	if r.SpentIn != nil {
		d := decimal.NewFromFloat(*r.SpentIn)
		update.SpentIn = &d
	}
	if r.SellFor != nil {
		d := decimal.NewFromFloat(*r.SellFor)
		update.SellFor = &d
	}
	return update
}

// BillingLineHandler handles billing line API endpoints
type BillingLineHandler struct {
	BaseHandler
	lines *billingapp.BillingLineService
}

// NewBillingLineHandler creates a BillingLineHandler
func NewBillingLineHandler(lines *billingapp.BillingLineService) *BillingLineHandler {
	return &BillingLineHandler{lines: lines}
}

// RegisterRoutes registers the billing line routes
func (h *BillingLineHandler) RegisterRoutes(rg *gin.RouterGroup) {
	lines := rg.Group("/billing-lines")
	lines.Use(middleware.RequirePermission(identity.PermManageBilling))
	lines.POST("", h.Create)
	lines.PUT("/:id", h.Update)
	lines.DELETE("/:id", h.Delete)
}

// Create inserts a billing line and recomputes the owning event
func (h *BillingLineHandler) Create(c *gin.Context) {
	var req CreateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	line, err := h.lines.Create(c.Request.Context(), req.toInput(), actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, newLineResponse(line.Line))
}

// Update merges a partial update and recomputes the owning event
func (h *BillingLineHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid line ID format")
		return
	}

	var req UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	line, err := h.lines.Update(c.Request.Context(), id, req.toUpdate(), actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newLineResponse(line.Line))
}

// Delete removes a billing line and recomputes the event it belonged to
func (h *BillingLineHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid line ID format")
		return
	}

	if err := h.lines.Delete(c.Request.Context(), id, actorID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// StockLineHandler handles stock line API endpoints
type StockLineHandler struct {
	BaseHandler
	lines *billingapp.StockLineService
}

// NewStockLineHandler creates a StockLineHandler
func NewStockLineHandler(lines *billingapp.StockLineService) *StockLineHandler {
	return &StockLineHandler{lines: lines}
}

// RegisterRoutes registers the stock line routes
func (h *StockLineHandler) RegisterRoutes(rg *gin.RouterGroup) {
	lines := rg.Group("/stock-lines")
	lines.Use(middleware.RequirePermission(identity.PermManageBilling))
	lines.POST("", h.Create)
	lines.PUT("/:id", h.Update)
	lines.DELETE("/:id", h.Delete)
}

// Create inserts a stock line and recomputes the owning event
func (h *StockLineHandler) Create(c *gin.Context) {
	var req CreateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	line, err := h.lines.Create(c.Request.Context(), req.toInput(), actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, newLineResponse(line.Line))
}

// Update merges a partial update and recomputes the owning event
func (h *StockLineHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid line ID format")
		return
	}

	var req UpdateLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	line, err := h.lines.Update(c.Request.Context(), id, req.toUpdate(), actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newLineResponse(line.Line))
}

// Delete removes a stock line and recomputes the event it belonged to
func (h *StockLineHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid line ID format")
		return
	}

	if err := h.lines.Delete(c.Request.Context(), id, actorID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
