// handlers_uploadjobs.go - Async upload job status handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/slotstash/backend/internal/upload"
)

// UploadJobHandlerImpl implements the UploadJobHandler interface
type UploadJobHandlerImpl struct {
	uploadMgr *upload.Manager
}

// NewUploadJobHandler creates a new upload job handler instance
func NewUploadJobHandler(uploadMgr *upload.Manager) UploadJobHandler {
	return &UploadJobHandlerImpl{uploadMgr: uploadMgr}
}

// HandleJobStatus returns the current state of an encode-then-admit job
func (h *UploadJobHandlerImpl) HandleJobStatus(c echo.Context) error {
	jobID := c.Param("jobId")
	if jobID == "" {
		return NewValidationError("jobId")
	}

	job, ok := h.uploadMgr.GetJob(jobID)
	if !ok {
		return NewNotFoundError("upload job", jobID)
	}

	return c.JSON(http.StatusOK, job)
}
