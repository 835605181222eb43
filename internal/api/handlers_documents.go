// handlers_documents.go - Document (slot pair) operation handlers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/slotstash/backend/internal/models"
	"github.com/slotstash/backend/internal/session"
	"github.com/slotstash/backend/internal/storage"
)

// DocumentHandlerImpl implements the DocumentHandler interface
type DocumentHandlerImpl struct {
	store      storage.Store
	sessionMgr *session.Manager
}

// NewDocumentHandler creates a new document handler instance
func NewDocumentHandler(store storage.Store, sessionMgr *session.Manager) DocumentHandler {
	return &DocumentHandlerImpl{
		store:      store,
		sessionMgr: sessionMgr,
	}
}

// HandleCreateDocument creates a new empty document
func (h *DocumentHandlerImpl) HandleCreateDocument(c echo.Context) error {
	var req createDocumentRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if req.Name == "" {
		return NewValidationError("name")
	}

	info, err := h.store.CreateDocument(req.Name)
	if err != nil {
		return NewInternalError("failed to create document", err)
	}

	return c.JSON(http.StatusCreated, info)
}

// HandleRecentDocuments returns the most recently updated documents
func (h *DocumentHandlerImpl) HandleRecentDocuments(c echo.Context) error {
	docs, err := h.store.ListDocuments(20)
	if err != nil {
		return NewInternalError("failed to list documents", err)
	}
	if docs == nil {
		docs = []*models.DocumentInfo{}
	}
	return c.JSON(http.StatusOK, docs)
}

// HandleGetDocument returns metadata for a specific document
func (h *DocumentHandlerImpl) HandleGetDocument(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	info, err := h.store.GetDocument(id)
	if err != nil {
		return NewNotFoundError("document", id)
	}

	return c.JSON(http.StatusOK, info)
}

// HandleDeleteDocument deletes a document and evicts its session
func (h *DocumentHandlerImpl) HandleDeleteDocument(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	if err := h.store.DeleteDocument(id); err != nil {
		return NewNotFoundError("document", id)
	}

	if h.sessionMgr != nil {
		h.sessionMgr.Evict(id)
	}

	return c.NoContent(http.StatusNoContent)
}

// HandleGetSlotUsage reports how full a document's two slots are
func (h *DocumentHandlerImpl) HandleGetSlotUsage(c echo.Context) error {
	id := c.Param("id")
	if id == "" {
		return NewValidationError("id")
	}

	_, _, usage, err := h.sessionMgr.Snapshot(id)
	if err != nil {
		return NewNotFoundError("document", id)
	}

	return c.JSON(http.StatusOK, usage)
}

// Request types

type createDocumentRequest struct {
	Name string `json:"name"`
}
