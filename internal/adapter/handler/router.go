package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GustavoCremonez/backend/internal/adapter/dto/common"
	"github.com/GustavoCremonez/backend/internal/domain/entities"
	"github.com/GustavoCremonez/backend/pkg/config"
)

// StatusProvider reports what the running service can do
type StatusProvider interface {
	Providers() []entities.ExtractionProvider
	HistoryEnabled() bool
}

// Router holds all handlers
type Router struct {
	cfg               *config.Config
	extractionHandler *Extraction
	status            StatusProvider
}

// NewRouter creates a new router with all handlers
func NewRouter(cfg *config.Config, extractionHandler *Extraction, status StatusProvider) *Router {
	return &Router{
		cfg:               cfg,
		extractionHandler: extractionHandler,
		status:            status,
	}
}

// Setup configures all application routes
func (rt *Router) Setup(e *echo.Echo) {
	e.GET("/health", rt.healthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API v1 group
	v1 := e.Group("/v1")

	rt.setupExtractionRoutes(v1)
}

// setupExtractionRoutes configures task extraction routes
func (rt *Router) setupExtractionRoutes(g *echo.Group) {
	if rt.extractionHandler == nil {
		g.POST("/extract-tasks", rt.notImplemented)
		return
	}
	g.POST("/extract-tasks", rt.extractionHandler.ExtractTasks)
	g.GET("/extractions", rt.extractionHandler.ListExtractions)
	g.GET("/extractions/:id", rt.extractionHandler.GetExtraction)
}

// notImplemented returns 501 Not Implemented response
func (rt *Router) notImplemented(c echo.Context) error {
	return c.JSON(http.StatusNotImplemented, map[string]interface{}{
		"error":   "This endpoint is not yet implemented",
		"path":    c.Request().URL.Path,
		"method":  c.Request().Method,
		"message": "Please initialize the required handler in main.go",
	})
}

// healthCheck returns health status
func (rt *Router) healthCheck(c echo.Context) error {
	resp := common.HealthResponse{
		Status:    "ok",
		Providers: []string{},
	}
	if rt.cfg != nil {
		resp.Environment = rt.cfg.Server.Environment
	}
	if rt.status != nil {
		for _, p := range rt.status.Providers() {
			resp.Providers = append(resp.Providers, string(p))
		}
		resp.History = rt.status.HistoryEnabled()
	}
	return c.JSON(http.StatusOK, resp)
}
