package handler

import (
	"net/http"

	"github.com/schoolfund/backend/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
)

// HealthHandler reports process and database health
type HealthHandler struct {
	db *persistence.Database
}

// NewHealthHandler creates a HealthHandler
func NewHealthHandler(db *persistence.Database) *HealthHandler {
	return &HealthHandler{db: db}
}

// RegisterRoutes registers the health route
func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health returns 200 when the process is up and the database answers a ping
func (h *HealthHandler) Health(c *gin.Context) {
	status := "ok"
	code := http.StatusOK

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}
	}

	c.JSON(code, gin.H{"status": status})
}
