// handlers_records.go - File record operation handlers
package api

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/slotstash/backend/internal/models"
	"github.com/slotstash/backend/internal/payload"
	"github.com/slotstash/backend/internal/session"
	"github.com/slotstash/backend/internal/slot"
	"github.com/slotstash/backend/internal/upload"
	"github.com/vmihailenco/msgpack/v5"
)

// RecordHandlerImpl implements the RecordHandler interface
type RecordHandlerImpl struct {
	sessionMgr *session.Manager
	uploadMgr  *upload.Manager
	maxBytes   int64
}

// NewRecordHandler creates a new record handler instance
func NewRecordHandler(sessionMgr *session.Manager, uploadMgr *upload.Manager, maxBytes int64) RecordHandler {
	return &RecordHandlerImpl{
		sessionMgr: sessionMgr,
		uploadMgr:  uploadMgr,
		maxBytes:   maxBytes,
	}
}

// HandleUploadRecord accepts a file as base64 JSON, encodes it into a
// payload record and admits it into the document's slots synchronously
func (h *RecordHandlerImpl) HandleUploadRecord(c echo.Context) error {
	docID := c.Param("id")
	if docID == "" {
		return NewValidationError("id")
	}

	var req uploadRecordRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	raw, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return NewBadRequestError("invalid base64 data", err)
	}

	data := payload.Encode(req.MimeType, raw)
	if err := payload.Validate(req.Name, data, h.maxBytes); err != nil {
		return NewRejectedUploadError(err)
	}

	rec := models.FileRecord{Name: req.Name, Data: data}
	if err := h.sessionMgr.Admit(docID, rec); err != nil {
		var capErr *slot.CapacityExceededError
		if errors.As(err, &capErr) {
			return NewCapacityExceededError(capErr)
		}
		return NewInternalError("failed to admit record", err)
	}

	_, overflow, usage, err := h.sessionMgr.Snapshot(docID)
	if err != nil {
		return NewInternalError("failed to read document state", err)
	}

	split := false
	for _, r := range overflow {
		if r.Name == req.Name {
			split = true
			break
		}
	}

	return c.JSON(http.StatusCreated, uploadRecordResponse{
		Name:  req.Name,
		Kind:  string(payload.DetectKind(data)),
		Split: split,
		Usage: usage,
	})
}

// HandleUploadRecordAsync starts an encode-then-admit job and returns its ID
func (h *RecordHandlerImpl) HandleUploadRecordAsync(c echo.Context) error {
	docID := c.Param("id")
	if docID == "" {
		return NewValidationError("id")
	}

	var req uploadRecordRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	raw, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return NewBadRequestError("invalid base64 data", err)
	}

	job := h.uploadMgr.StartJob(docID, req.Name, req.MimeType, raw)

	return c.JSON(http.StatusAccepted, map[string]interface{}{
		"jobId":  job.ID,
		"status": job.Status,
	})
}

// HandleListRecords returns the grouped listing: one entry per logical file
func (h *RecordHandlerImpl) HandleListRecords(c echo.Context) error {
	docID := c.Param("id")
	if docID == "" {
		return NewValidationError("id")
	}

	entries, err := h.listEntries(docID)
	if err != nil {
		return NewNotFoundError("document", docID)
	}

	return c.JSON(http.StatusOK, entries)
}

// HandleListRecordsMsgpack returns the same listing as a msgpack blob for
// compact transport
func (h *RecordHandlerImpl) HandleListRecordsMsgpack(c echo.Context) error {
	docID := c.Param("id")
	if docID == "" {
		return NewValidationError("id")
	}

	entries, err := h.listEntries(docID)
	if err != nil {
		return NewNotFoundError("document", docID)
	}

	blob, err := msgpack.Marshal(entries)
	if err != nil {
		return NewInternalError("failed to encode listing", err)
	}

	return c.Blob(http.StatusOK, "application/x-msgpack", blob)
}

// HandleDeleteRecord removes every record with the given name (the whole
// split group) and persists the consolidated slots
func (h *RecordHandlerImpl) HandleDeleteRecord(c echo.Context) error {
	docID := c.Param("id")
	name := c.Param("name")
	if docID == "" {
		return NewValidationError("id")
	}
	if name == "" {
		return NewValidationError("name")
	}

	removed, err := h.sessionMgr.RemoveByName(docID, name)
	if err != nil {
		return NewNotFoundError("document", docID)
	}
	if removed == 0 {
		return NewNotFoundError("record", name)
	}

	return c.NoContent(http.StatusNoContent)
}

// HandleGetRecordText decodes a text-category payload back to plain text
func (h *RecordHandlerImpl) HandleGetRecordText(c echo.Context) error {
	docID := c.Param("id")
	name := c.Param("name")
	if docID == "" {
		return NewValidationError("id")
	}
	if name == "" {
		return NewValidationError("name")
	}

	main, overflow, _, err := h.sessionMgr.Snapshot(docID)
	if err != nil {
		return NewNotFoundError("document", docID)
	}

	// Reassemble the first matching group's payload in storage order
	// before decoding. Selecting by group key keeps an unrelated record
	// that happens to share the name out of the concatenation.
	all := append(main, overflow...)
	key := ""
	found := false
	for _, r := range all {
		if r.Name == name {
			key = r.GroupKey()
			found = true
			break
		}
	}
	if !found {
		return NewNotFoundError("record", name)
	}
	data := ""
	for _, r := range all {
		if r.GroupKey() == key {
			data += r.Data
		}
	}

	text, err := payload.DecodeText(data)
	if err != nil {
		return NewBadRequestError("payload is not decodable text", err)
	}

	return c.String(http.StatusOK, text)
}

// listEntries builds the grouped record listing for a document.
func (h *RecordHandlerImpl) listEntries(docID string) ([]models.RecordEntry, error) {
	main, overflow, _, err := h.sessionMgr.Snapshot(docID)
	if err != nil {
		return nil, err
	}

	index := make(map[string]int)
	entries := []models.RecordEntry{}
	add := func(r models.FileRecord, inOverflow bool) {
		key := r.GroupKey()
		i, ok := index[key]
		if !ok {
			i = len(entries)
			index[key] = i
			entries = append(entries, models.RecordEntry{
				Name: r.Name,
				Kind: string(payload.DetectKind(r.Data)),
			})
		}
		entries[i].Parts++
		entries[i].PayloadSize += len(r.Data)
		if inOverflow {
			entries[i].InOverflow = true
		}
	}
	for _, r := range main {
		add(r, false)
	}
	for _, r := range overflow {
		add(r, true)
	}

	return entries, nil
}

// Request/Response types

type uploadRecordRequest struct {
	Name     string `json:"name"`
	Data     string `json:"data"` // Base64-encoded content
	MimeType string `json:"mimeType"`
}

func (r *uploadRecordRequest) validate() error {
	if r.Name == "" {
		return NewValidationError("name")
	}
	if r.Data == "" {
		return NewValidationError("data")
	}
	if r.MimeType == "" {
		return NewValidationError("mimeType")
	}
	return nil
}

type uploadRecordResponse struct {
	Name  string           `json:"name"`
	Kind  string           `json:"kind"`
	Split bool             `json:"split"`
	Usage models.SlotUsage `json:"usage"`
}
