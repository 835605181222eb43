// interfaces.go - Handler interface definitions for clean separation of concerns
package api

import (
	"github.com/labstack/echo/v4"
)

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// DocumentHandler handles document (slot pair) operations
type DocumentHandler interface {
	HandleCreateDocument(c echo.Context) error
	HandleRecentDocuments(c echo.Context) error
	HandleGetDocument(c echo.Context) error
	HandleDeleteDocument(c echo.Context) error
	HandleGetSlotUsage(c echo.Context) error
}

// RecordHandler handles file record operations within a document
type RecordHandler interface {
	HandleUploadRecord(c echo.Context) error
	HandleUploadRecordAsync(c echo.Context) error
	HandleListRecords(c echo.Context) error
	HandleListRecordsMsgpack(c echo.Context) error
	HandleDeleteRecord(c echo.Context) error
	HandleGetRecordText(c echo.Context) error
}

// UploadJobHandler handles async upload job queries
type UploadJobHandler interface {
	HandleJobStatus(c echo.Context) error
}
