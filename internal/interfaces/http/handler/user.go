package handler

import (
	identityapp "github.com/schoolfund/backend/internal/application/identity"
	"github.com/schoolfund/backend/internal/domain/identity"
	"github.com/schoolfund/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// UserHandler handles user account API endpoints
type UserHandler struct {
	BaseHandler
	users *identityapp.UserService
}

// NewUserHandler creates a UserHandler
func NewUserHandler(users *identityapp.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// RegisterRoutes registers the user routes. Account management is restricted
// to holders of the users:manage permission.
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.Use(middleware.RequirePermission(identity.PermManageUsers))
	users.GET("", h.List)
	users.GET("/:id", h.Get)
	users.POST("", h.Create)
	users.PUT("/:id", h.Update)
	users.POST("/:id/deactivate", h.Deactivate)
	users.DELETE("/:id", h.Delete)
}

// CreateUserRequest is the request body for creating an account
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	FullName string `json:"full_name" binding:"required,notblank,max=200"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"required,oneof=admin coordinator teacher treasurer"`
}

// UpdateUserRequest is the request body for a partial account update. Email
// and password change through their own flows.
type UpdateUserRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,min=1,max=200"`
	Role     *string `json:"role" binding:"omitempty,oneof=admin coordinator teacher treasurer"`
	Active   *bool   `json:"active"`
}

// Create creates an account
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.users.Create(c.Request.Context(), identityapp.CreateUserInput{
		Email:    req.Email,
		FullName: req.FullName,
		Password: req.Password,
		Role:     identity.Role(req.Role),
	}, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, newUserResponse(user))
}

// Get returns a single account
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newUserResponse(user))
}

// List returns accounts with pagination
func (h *UserHandler) List(c *gin.Context) {
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	page, err := h.users.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]UserResponse, len(page.Items))
	for i := range page.Items {
		items[i] = newUserResponse(&page.Items[i])
	}
	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}

// Update merges a partial update into an account
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	update := identity.UserUpdate{FullName: req.FullName, Active: req.Active}
	if req.Role != nil {
		role := identity.Role(*req.Role)
		update.Role = &role
	}

	user, err := h.users.Update(c.Request.Context(), id, update, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newUserResponse(user))
}

// Deactivate disables an account without destroying its audit trail
func (h *UserHandler) Deactivate(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	if err := h.users.Deactivate(c.Request.Context(), id, actorID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"deactivated": true})
}

// Delete removes an account
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
