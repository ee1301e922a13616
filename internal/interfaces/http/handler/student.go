package handler

import (
	"strconv"

	schoolapp "github.com/schoolfund/backend/internal/application/school"
	"github.com/schoolfund/backend/internal/domain/identity"
	"github.com/schoolfund/backend/internal/domain/school"
	"github.com/schoolfund/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// StudentHandler handles student roster API endpoints
type StudentHandler struct {
	BaseHandler
	students *schoolapp.StudentService
}

// NewStudentHandler creates a StudentHandler
func NewStudentHandler(students *schoolapp.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// RegisterRoutes registers the student routes
func (h *StudentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	students := rg.Group("/students")
	students.GET("", h.List)
	students.GET("/:id", h.Get)
	students.POST("", middleware.RequirePermission(identity.PermManageStudents), h.Create)
	students.PUT("/:id", middleware.RequirePermission(identity.PermManageStudents), h.Update)
	students.DELETE("/:id", middleware.RequirePermission(identity.PermManageStudents), h.Delete)
}

// CreateStudentRequest is the request body for registering a student
type CreateStudentRequest struct {
	FullName       string `json:"full_name" binding:"required,notblank,max=200"`
	ClassName      string `json:"class_name" binding:"required,min=1,max=50"`
	GraduationYear int    `json:"graduation_year" binding:"required,gte=2000,lte=2100"`
	GuardianName   string `json:"guardian_name" binding:"max=200"`
	GuardianPhone  string `json:"guardian_phone" binding:"max=50"`
}

// UpdateStudentRequest is the request body for a partial student update
type UpdateStudentRequest struct {
	FullName       *string `json:"full_name" binding:"omitempty,min=1,max=200"`
	ClassName      *string `json:"class_name" binding:"omitempty,min=1,max=50"`
	GraduationYear *int    `json:"graduation_year" binding:"omitempty,gte=2000,lte=2100"`
	GuardianName   *string `json:"guardian_name" binding:"omitempty,max=200"`
	GuardianPhone  *string `json:"guardian_phone" binding:"omitempty,max=50"`
	Active         *bool   `json:"active"`
}

// Create registers a student
func (h *StudentHandler) Create(c *gin.Context) {
	var req CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	student, err := h.students.Create(c.Request.Context(), schoolapp.CreateStudentInput{
		FullName:       req.FullName,
		ClassName:      req.ClassName,
		GraduationYear: req.GraduationYear,
		GuardianName:   req.GuardianName,
		GuardianPhone:  req.GuardianPhone,
	}, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, newStudentResponse(student))
}

// Get returns a single student
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid student ID format")
		return
	}

	student, err := h.students.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newStudentResponse(student))
}

// List returns students with pagination. Extra query parameters narrow the
// roster by class, graduation year and active flag.
func (h *StudentHandler) List(c *gin.Context) {
	req, ok := h.bindListRequest(c)
	if !ok {
		return
	}

	filter := req.ToFilter()
	if className := c.Query("class_name"); className != "" {
		filter.Filters["class_name"] = className
	}
	if yearStr := c.Query("graduation_year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			h.BadRequest(c, "Invalid graduation year")
			return
		}
		filter.Filters["graduation_year"] = year
	}
	if activeStr := c.Query("active"); activeStr != "" {
		active, err := strconv.ParseBool(activeStr)
		if err != nil {
			h.BadRequest(c, "Invalid active flag")
			return
		}
		filter.Filters["active"] = active
	}

	page, err := h.students.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	items := make([]StudentResponse, len(page.Items))
	for i := range page.Items {
		items[i] = newStudentResponse(&page.Items[i])
	}
	h.SuccessWithMeta(c, items, page.Total, page.Page, page.PageSize)
}

// Update merges a partial update into a student record
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid student ID format")
		return
	}

	var req UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body")
		return
	}

	student, err := h.students.Update(c.Request.Context(), id, school.StudentUpdate{
		FullName:       req.FullName,
		ClassName:      req.ClassName,
		GraduationYear: req.GraduationYear,
		GuardianName:   req.GuardianName,
		GuardianPhone:  req.GuardianPhone,
		Active:         req.Active,
	}, actorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newStudentResponse(student))
}

// Delete removes a student record. Graduation payments that referenced the
// student stay behind with the link cleared.
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		h.BadRequest(c, "Invalid student ID format")
		return
	}

	if err := h.students.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
