package handler

import (
	contributionapp "github.com/schoolfund/backend/internal/application/contribution"
	"github.com/schoolfund/backend/internal/domain/contribution"
	"github.com/schoolfund/backend/internal/domain/identity"
	"github.com/schoolfund/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ContributionHandler handles contribution drive API endpoints
type ContributionHandler struct {
	BaseHandler
	drives      *contributionapp.Service
	individuals *contributionapp.IndividualService
}

// NewContributionHandler creates a ContributionHandler
func NewContributionHandler(drives *contributionapp.Service, individuals *contributionapp.IndividualService) *ContributionHandler {
	return &ContributionHandler{drives: drives, individuals: individuals}
}

// RegisterRoutes registers the contribution routes
func (h *ContributionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	drives := rg.Group("/contributions")
	drives.GET("", middleware.RequirePermission(identity.PermViewFinancials), h.List)
	drives.GET("/:id", middleware.RequirePermission(identity.PermViewFinancials), h.Get)
	drives.GET("/:id/payments", middleware.RequirePermission(identity.PermViewFinancials), h.ListPayments)
	drives.POST("", middleware.RequirePermission(identity.PermManagePayments), h.Create)
	drives.PUT("/:id", middleware.RequirePermission(identity.PermManagePayments), h.Update)
	drives.DELETE("/:id", middleware.RequirePermission(identity.PermManagePayments), h.Delete)
	drives.POST("/:id/resync", middleware.RequirePermission(identity.PermManagePayments), h.Resync)

	individuals := rg.Group("/individual-contributions")
	individuals.Use(middleware.RequirePermission(identity.PermManagePayments))
	individuals.POST("", h.CreateIndividual)
	individuals.PUT("/:id", h.UpdateIndividual)
	individuals.DELETE("/:id", h.DeleteIndividual)
}

// CreateContributionRequest is the request body for creating a drive
type CreateContributionRequest struct {
	Name        string `json:"name" binding:"required,notblank,max=200"`
	Description string `json:"description" binding:"max=2000"`
	DividedBy   int64  `json:"divided_by" binding:"required,gt=0"`
}

// UpdateContributionRequest is the request body for updating a drive. The
// divisor is fixed at creation; the derived fields are not client-writable.
type UpdateContributionRequest struct {
	Name        string `json:"name" binding:"required,notblank,max=200"`
	Description string `json:"description" binding:"max=2000"`
}

// Create creates a drive with its derived fields at zero
func (h *ContributionHandler) Create(c *gin.Context) {
	var req CreateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	drive, err := h.drives.Create(c.Request.Context(), contributionapp.CreateContributionInput{
		Name:        req.Name,
		Description: req.Description,
		DividedBy:   req.DividedBy,
	}, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, newContributionResponse(drive))
}

// Get returns a single drive
func (h *ContributionHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid contribution ID format")
		return
	}

	drive, err := h.drives.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newContributionResponse(drive))
}

// List returns drives with pagination
func (h *ContributionHandler) List(c *gin.Context) {
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	page, err := h.drives.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]ContributionResponse, len(page.Items))
	for i := range page.Items {
		items[i] = newContributionResponse(&page.Items[i])
	}
	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}

// Update changes a drive's descriptive fields
func (h *ContributionHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid contribution ID format")
		return
	}

	var req UpdateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	drive, err := h.drives.Update(c.Request.Context(), id, req.Name, req.Description, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newContributionResponse(drive))
}

// Delete removes a drive and its payments
func (h *ContributionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid contribution ID format")
		return
	}

	if err := h.drives.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Resync recomputes the drive's aggregate from its payments
func (h *ContributionHandler) Resync(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid contribution ID format")
		return
	}

	totals, err := h.drives.Resync(c.Request.Context(), id, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ContributionTotalsResponse{
		TotalAmount:     totals.TotalAmount,
		AvgContribution: totals.AvgContribution,
	})
}

// ListPayments returns all individual contributions under a drive
func (h *ContributionHandler) ListPayments(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid contribution ID format")
		return
	}

	ics, err := h.individuals.ListByContribution(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]IndividualContributionResponse, len(ics))
	for i := range ics {
		items[i] = newIndividualContributionResponse(&ics[i])
	}
	h.Success(c, items)
}

// CreateIndividualContributionRequest is the request body for recording an
// individual contribution
type CreateIndividualContributionRequest struct {
	ContributionID  uuid.UUID `json:"contribution_id" binding:"required"`
	ContributorName string    `json:"contributor_name" binding:"required,notblank,max=200"`
	Amount          float64   `json:"amount" binding:"required,gt=0"`
}

// UpdateIndividualContributionRequest is the request body for a partial
// update of an individual contribution
type UpdateIndividualContributionRequest struct {
	ContributorName *string  `json:"contributor_name" binding:"omitempty,min=1,max=200"`
	Amount          *float64 `json:"amount" binding:"omitempty,gt=0"`
}

// CreateIndividual records a payment and recomputes the owning drive
func (h *ContributionHandler) CreateIndividual(c *gin.Context) {
	var req CreateIndividualContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	ic, err := h.individuals.Create(c.Request.Context(), contributionapp.CreateIndividualInput{
		ContributionID:  req.ContributionID,
		ContributorName: req.ContributorName,
		Amount:          decimal.NewFromFloat(req.Amount),
	}, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, newIndividualContributionResponse(ic))
}

// UpdateIndividual merges a partial update and recomputes the owning drive
func (h *ContributionHandler) UpdateIndividual(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid individual contribution ID format")
		return
	}

	var req UpdateIndividualContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	update := contribution.IndividualContributionUpdate{ContributorName: req.ContributorName}
	if req.Amount != nil {
		d := decimal.NewFromFloat(*req.Amount)
		update.Amount = &d
	}

	ic, err := h.individuals.Update(c.Request.Context(), id, update, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newIndividualContributionResponse(ic))
}

// DeleteIndividual removes a payment and recomputes the drive it belonged to
func (h *ContributionHandler) DeleteIndividual(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid individual contribution ID format")
		return
	}

	if err := h.individuals.Delete(c.Request.Context(), id, actorID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
