// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"github.com/labstack/echo/v4"
	"github.com/slotstash/backend/internal/session"
	"github.com/slotstash/backend/internal/storage"
	"github.com/slotstash/backend/internal/upload"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Store       storage.Store
	SessionMgr  *session.Manager
	UploadMgr   *upload.Manager
	MaxFileSize int64
	Version     string
}

// Handlers holds all handler instances
type Handlers struct {
	Health    HealthHandler
	Documents DocumentHandler
	Records   RecordHandler
	UploadJob UploadJobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:    NewHealthHandler(deps.Version),
		Documents: NewDocumentHandler(deps.Store, deps.SessionMgr),
		Records:   NewRecordHandler(deps.SessionMgr, deps.UploadMgr, deps.MaxFileSize),
		UploadJob: NewUploadJobHandler(deps.UploadMgr),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	// Health check
	e.GET("/api/health", handlers.Health.HandleHealth)

	// Document routes
	docGroup := e.Group("/api/docs")
	docGroup.POST("", handlers.Documents.HandleCreateDocument)
	docGroup.GET("/recent", handlers.Documents.HandleRecentDocuments)
	docGroup.GET("/:id", handlers.Documents.HandleGetDocument)
	docGroup.DELETE("/:id", handlers.Documents.HandleDeleteDocument)
	docGroup.GET("/:id/slots", handlers.Documents.HandleGetSlotUsage)

	// Record routes
	docGroup.POST("/:id/records", handlers.Records.HandleUploadRecord)
	docGroup.POST("/:id/records/async", handlers.Records.HandleUploadRecordAsync)
	docGroup.GET("/:id/records", handlers.Records.HandleListRecords)
	docGroup.GET("/:id/records/msgpack", handlers.Records.HandleListRecordsMsgpack)
	docGroup.DELETE("/:id/records/:name", handlers.Records.HandleDeleteRecord)
	docGroup.GET("/:id/records/:name/text", handlers.Records.HandleGetRecordText)

	// Upload job routes
	e.GET("/api/uploads/:jobId/status", handlers.UploadJob.HandleJobStatus)
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo) {
	// Use custom error handler
	e.HTTPErrorHandler = ErrorHandler
}
