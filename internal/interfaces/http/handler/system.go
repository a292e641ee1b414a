package handler

import (
	"net/http"
	"time"

	"github.com/distributor/backend/internal/infrastructure/persistence"
	"github.com/distributor/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SystemHandler serves health and liveness endpoints
type SystemHandler struct {
	BaseHandler
	db        *persistence.Database
	appName   string
	env       string
	startTime time.Time
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db *persistence.Database, appName, env string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		appName:   appName,
		env:       env,
		startTime: time.Now(),
	}
}

// RegisterRoutes registers system routes. /healthz answers as long as
// the process is up; /health also checks the database, for readiness.
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/healthz", h.Ping)
	rg.GET("/ping", h.Ping)
}

// HealthResponse reports service and dependency status
type HealthResponse struct {
	Status   string `json:"status"`
	App      string `json:"app"`
	Env      string `json:"env"`
	Uptime   string `json:"uptime"`
	Database string `json:"database"`
}

// Health reports overall service health including the database
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:   "ok",
		App:      h.appName,
		Env:      h.env,
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
		Database: "ok",
	}

	status := http.StatusOK
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, dto.NewSuccessResponse(resp))
}

// Ping is a minimal liveness probe
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
