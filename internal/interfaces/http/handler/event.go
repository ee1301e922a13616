package handler

import (
	"time"

	billingapp "github.com/schoolfund/backend/internal/application/billing"
	"github.com/schoolfund/backend/internal/domain/identity"
	"github.com/schoolfund/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// EventHandler handles event API endpoints
type EventHandler struct {
	BaseHandler
	events       *billingapp.EventService
	billingLines *billingapp.BillingLineService
	stockLines   *billingapp.StockLineService
}

// NewEventHandler creates an EventHandler
func NewEventHandler(
	events *billingapp.EventService,
	billingLines *billingapp.BillingLineService,
	stockLines *billingapp.StockLineService,
) *EventHandler {
	return &EventHandler{
		events:       events,
		billingLines: billingLines,
		stockLines:   stockLines,
	}
}

// RegisterRoutes registers the event routes
func (h *EventHandler) RegisterRoutes(rg *gin.RouterGroup) {
	events := rg.Group("/events")
	events.GET("", middleware.RequirePermission(identity.PermViewFinancials), h.List)
	events.GET("/:id", middleware.RequirePermission(identity.PermViewFinancials), h.Get)
	events.GET("/:id/billing-lines", middleware.RequirePermission(identity.PermViewFinancials), h.ListBillingLines)
	events.GET("/:id/stock-lines", middleware.RequirePermission(identity.PermViewFinancials), h.ListStockLines)
	events.POST("", middleware.RequirePermission(identity.PermManageBilling), h.Create)
	events.PUT("/:id", middleware.RequirePermission(identity.PermManageBilling), h.Update)
	events.DELETE("/:id", middleware.RequirePermission(identity.PermManageBilling), h.Delete)
	events.POST("/:id/resync", middleware.RequirePermission(identity.PermManageBilling), h.Resync)
}

// CreateEventRequest is the request body for creating an event
type CreateEventRequest struct {
	Name        string    `json:"name" binding:"required,notblank,max=200"`
	Description string    `json:"description" binding:"max=2000"`
	EventDate   time.Time `json:"event_date" binding:"required"`
}

// UpdateEventRequest is the request body for updating an event. The aggregate
// fields are not client-writable and have no place here.
type UpdateEventRequest struct {
	Name        string    `json:"name" binding:"required,notblank,max=200"`
	Description string    `json:"description" binding:"max=2000"`
	EventDate   time.Time `json:"event_date" binding:"required"`
}

// Create creates an event with its aggregate fields at zero
func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	event, err := h.events.Create(c.Request.Context(), billingapp.CreateEventInput{
		Name:        req.Name,
		Description: req.Description,
		EventDate:   req.EventDate,
	}, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, newEventResponse(event))
}

// Get returns a single event
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid event ID format")
		return
	}

	event, err := h.events.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newEventResponse(event))
}

// List returns events with pagination
func (h *EventHandler) List(c *gin.Context) {
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	page, err := h.events.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]EventResponse, len(page.Items))
	for i := range page.Items {
		items[i] = newEventResponse(&page.Items[i])
	}
	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}

// Update changes an event's descriptive fields
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid event ID format")
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	event, err := h.events.Update(c.Request.Context(), id, billingapp.UpdateEventInput{
		Name:        req.Name,
		Description: req.Description,
		EventDate:   req.EventDate,
	}, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newEventResponse(event))
}

// Delete removes an event and its lines
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid event ID format")
		return
	}

	if err := h.events.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Resync recomputes the event aggregate from its lines
func (h *EventHandler) Resync(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid event ID format")
		return
	}

	totals, err := h.events.Resync(c.Request.Context(), id, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, EventTotalsResponse{
		Spent:       totals.Spent,
		TotalAmount: totals.TotalAmount,
		Profit:      totals.Profit,
	})
}

// ListBillingLines returns all billing lines under an event
func (h *EventHandler) ListBillingLines(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid event ID format")
		return
	}

	lines, err := h.billingLines.ListByEvent(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]LineResponse, len(lines))
	for i := range lines {
		items[i] = newLineResponse(lines[i].Line)
	}
	h.Success(c, items)
}

// ListStockLines returns all stock lines under an event
func (h *EventHandler) ListStockLines(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid event ID format")
		return
	}

	lines, err := h.stockLines.ListByEvent(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]LineResponse, len(lines))
	for i := range lines {
		items[i] = newLineResponse(lines[i].Line)
	}
	h.Success(c, items)
}
