// Package api exposes the service over HTTP with gin.
package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rongwang/shiftlog-server/internal/service"
)

// Handler serves the HTTP API
type Handler struct {
	service service.Service
	logger  *zap.Logger
}

// NewHandler creates a new Handler
func NewHandler(svc service.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		service: svc,
		logger:  logger.Named("api"),
	}
}

// SetupRoutes registers every endpoint on router
func (h *Handler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api")

	// Public routes
	auth := api.Group("/auth")
	{
		auth.POST("/signup", h.SignUp)
		auth.POST("/login", h.Login)
	}

	// Protected routes
	protected := api.Group("")
	protected.Use(AuthMiddleware())
	{
		protected.GET("/auth/me", h.Me)

		categories := protected.Group("/categories")
		categories.GET("", h.ListCategories)
		categories.POST("", h.CreateCategory)
		categories.PATCH("/:id", h.UpdateCategory)
		categories.POST("/:id/move", h.MoveCategory)

		equipment := protected.Group("/equipment")
		equipment.GET("", h.ListEquipment)
		equipment.POST("", h.CreateEquipment)
		equipment.PATCH("/:id", h.UpdateEquipment)

		locations := protected.Group("/locations")
		locations.GET("", h.ListLocations)
		locations.POST("", h.CreateLocation)
		locations.PATCH("/:id", h.UpdateLocation)

		entries := protected.Group("/entries")
		entries.GET("", h.ListEntries)
		entries.POST("", h.CreateEntry)
		entries.GET("/:id", h.GetEntry)
		entries.POST("/:id/activate", h.ActivateEntry)
		entries.POST("/:id/cancel", h.CancelEntry)

		handovers := protected.Group("/handovers")
		handovers.GET("", h.ListHandovers)
		handovers.POST("", h.CreateHandover)
		handovers.GET("/:id", h.GetHandover)
		handovers.POST("/:id/accept", h.AcceptHandover)
		handovers.POST("/:id/complete", h.CompleteHandover)
		handovers.POST("/:id/cancel", h.CancelHandover)

		protected.GET("/reports/entries", h.ExportEntries)
	}
}
