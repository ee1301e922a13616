package handler

import (
	"time"

	graduationapp "github.com/schoolfund/backend/internal/application/graduation"
	"github.com/schoolfund/backend/internal/domain/graduation"
	"github.com/schoolfund/backend/internal/domain/identity"
	"github.com/schoolfund/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GraduationHandler handles graduation fund API endpoints
type GraduationHandler struct {
	BaseHandler
	funds    *graduationapp.Service
	payments *graduationapp.PaymentService
}

// NewGraduationHandler creates a GraduationHandler
func NewGraduationHandler(funds *graduationapp.Service, payments *graduationapp.PaymentService) *GraduationHandler {
	return &GraduationHandler{funds: funds, payments: payments}
}

// RegisterRoutes registers the graduation routes
func (h *GraduationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	funds := rg.Group("/graduations")
	funds.GET("", middleware.RequirePermission(identity.PermViewFinancials), h.List)
	funds.GET("/:id", middleware.RequirePermission(identity.PermViewFinancials), h.Get)
	funds.GET("/:id/payments", middleware.RequirePermission(identity.PermViewFinancials), h.ListPayments)
	funds.POST("", middleware.RequirePermission(identity.PermManagePayments), h.Create)
	funds.PUT("/:id", middleware.RequirePermission(identity.PermManagePayments), h.Update)
	funds.DELETE("/:id", middleware.RequirePermission(identity.PermManagePayments), h.Delete)
	funds.POST("/:id/resync", middleware.RequirePermission(identity.PermManagePayments), h.Resync)

	payments := rg.Group("/graduation-payments")
	payments.Use(middleware.RequirePermission(identity.PermManagePayments))
	payments.POST("", h.CreatePayment)
	payments.PUT("/:id", h.UpdatePayment)
	payments.DELETE("/:id", h.DeletePayment)
}

// CreateGraduationRequest is the request body for creating a fund
type CreateGraduationRequest struct {
	Name         string  `json:"name" binding:"required,notblank,max=200"`
	Year         int     `json:"year" binding:"required,gte=2000,lte=2100"`
	TargetAmount float64 `json:"target_amount" binding:"gte=0"`
}

// UpdateGraduationRequest is the request body for updating a fund. The
// collected total is derived and not client-writable.
type UpdateGraduationRequest struct {
	Name         string  `json:"name" binding:"required,notblank,max=200"`
	Year         int     `json:"year" binding:"required,gte=2000,lte=2100"`
	TargetAmount float64 `json:"target_amount" binding:"gte=0"`
}

// Create creates a fund with the collected total at zero
func (h *GraduationHandler) Create(c *gin.Context) {
	var req CreateGraduationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	fund, err := h.funds.Create(c.Request.Context(), graduationapp.CreateGraduationInput{
		Name:         req.Name,
		Year:         req.Year,
		TargetAmount: decimal.NewFromFloat(req.TargetAmount),
	}, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, newGraduationResponse(fund))
}

// Get returns a single fund
func (h *GraduationHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid graduation ID format")
		return
	}

	fund, err := h.funds.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newGraduationResponse(fund))
}

// List returns funds with pagination
func (h *GraduationHandler) List(c *gin.Context) {
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	page, err := h.funds.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]GraduationResponse, len(page.Items))
	for i := range page.Items {
		items[i] = newGraduationResponse(&page.Items[i])
	}
	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}

// Update changes a fund's descriptive fields
func (h *GraduationHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid graduation ID format")
		return
	}

	var req UpdateGraduationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	fund, err := h.funds.Update(c.Request.Context(), id, req.Name, req.Year, decimal.NewFromFloat(req.TargetAmount), actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newGraduationResponse(fund))
}

// Delete removes a fund and its payments
func (h *GraduationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid graduation ID format")
		return
	}

	if err := h.funds.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Resync recomputes the collected total from the fund's payments
func (h *GraduationHandler) Resync(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid graduation ID format")
		return
	}

	total, err := h.funds.Resync(c.Request.Context(), id, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"total_collected": total})
}

// ListPayments returns all payments under a fund
func (h *GraduationHandler) ListPayments(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid graduation ID format")
		return
	}

	payments, err := h.payments.ListByGraduation(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]PaymentResponse, len(payments))
	for i := range payments {
		items[i] = newPaymentResponse(&payments[i])
	}
	h.Success(c, items)
}

// CreatePaymentRequest is the request body for recording a payment. The
// student link is optional; payments can come from payers outside the roster.
type CreatePaymentRequest struct {
	GraduationID uuid.UUID  `json:"graduation_id" binding:"required"`
	StudentID    *uuid.UUID `json:"student_id"`
	PayerName    string     `json:"payer_name" binding:"required,notblank,max=200"`
	Amount       float64    `json:"amount" binding:"required,gt=0"`
	PaidAt       time.Time  `json:"paid_at" binding:"required"`
}

// UpdatePaymentRequest is the request body for a partial payment update
type UpdatePaymentRequest struct {
	PayerName *string    `json:"payer_name" binding:"omitempty,min=1,max=200"`
	Amount    *float64   `json:"amount" binding:"omitempty,gt=0"`
	PaidAt    *time.Time `json:"paid_at"`
}

// CreatePayment records a payment and recomputes the owning fund
func (h *GraduationHandler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	payment, err := h.payments.Create(c.Request.Context(), graduationapp.CreatePaymentInput{
		GraduationID: req.GraduationID,
		StudentID:    req.StudentID,
		PayerName:    req.PayerName,
		Amount:       decimal.NewFromFloat(req.Amount),
		PaidAt:       req.PaidAt,
	}, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, newPaymentResponse(payment))
}

// UpdatePayment merges a partial update and recomputes the owning fund
func (h *GraduationHandler) UpdatePayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	update := graduation.PaymentUpdate{PayerName: req.PayerName, PaidAt: req.PaidAt}
	if req.Amount != nil {
		d := decimal.NewFromFloat(*req.Amount)
		update.Amount = &d
	}

	payment, err := h.payments.Update(c.Request.Context(), id, update, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newPaymentResponse(payment))
}

// DeletePayment removes a payment and recomputes the fund it belonged to
func (h *GraduationHandler) DeletePayment(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid payment ID format")
		return
	}

	if err := h.payments.Delete(c.Request.Context(), id, actorID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
