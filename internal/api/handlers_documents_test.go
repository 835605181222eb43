// handlers_documents_test.go - Tests for document handlers
package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/slotstash/backend/internal/models"
	"github.com/slotstash/backend/internal/session"
	"github.com/slotstash/backend/internal/testutil"
)

func newDocTestEnv(t *testing.T) (DocumentHandler, *testutil.MockStore, *echo.Echo) {
	t.Helper()
	store := testutil.NewMockStore()
	sessionMgr := session.NewManager(store, 1000)
	return NewDocumentHandler(store, sessionMgr), store, echo.New()
}

func TestDocumentHandler_CreateAndGet(t *testing.T) {
	h, _, e := newDocTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/docs", strings.NewReader(`{"name":"My Stash"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if assert.NoError(t, h.HandleCreateDocument(c)) {
		assert.Equal(t, http.StatusCreated, rec.Code)
	}

	var info models.DocumentInfo
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, "My Stash", info.Name)

	// Fetch it back.
	req2 := httptest.NewRequest(http.MethodGet, "/api/docs/"+info.ID, nil)
	rec2 := httptest.NewRecorder()
	c2 := e.NewContext(req2, rec2)
	c2.SetParamNames("id")
	c2.SetParamValues(info.ID)

	if assert.NoError(t, h.HandleGetDocument(c2)) {
		assert.Equal(t, http.StatusOK, rec2.Code)
		assert.Contains(t, rec2.Body.String(), `"My Stash"`)
	}
}

func TestDocumentHandler_CreateRequiresName(t *testing.T) {
	h, _, e := newDocTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/api/docs", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	c := e.NewContext(req, httptest.NewRecorder())

	err := h.HandleCreateDocument(c)
	apiErr, ok := err.(*APIError)
	assert.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
}

func TestDocumentHandler_RecentDocuments(t *testing.T) {
	h, store, e := newDocTestEnv(t)
	store.AddDocument("one", "[]", "")
	store.AddDocument("two", "[]", "")

	req := httptest.NewRequest(http.MethodGet, "/api/docs/recent", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if assert.NoError(t, h.HandleRecentDocuments(c)) {
		var docs []models.DocumentInfo
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs))
		assert.Len(t, docs, 2)
	}
}

func TestDocumentHandler_Delete(t *testing.T) {
	h, store, e := newDocTestEnv(t)
	docID := store.AddDocument("doomed", "[]", "")

	req := httptest.NewRequest(http.MethodDelete, "/api/docs/"+docID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(docID)

	if assert.NoError(t, h.HandleDeleteDocument(c)) {
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}

	_, err := store.GetDocument(docID)
	assert.Error(t, err)

	// Deleting an unknown document is a 404.
	c2 := e.NewContext(httptest.NewRequest(http.MethodDelete, "/", nil), httptest.NewRecorder())
	c2.SetParamNames("id")
	c2.SetParamValues("missing")
	err = h.HandleDeleteDocument(c2)
	apiErr, ok := err.(*APIError)
	assert.True(t, ok)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)
}

func TestDocumentHandler_SlotUsage(t *testing.T) {
	h, store, e := newDocTestEnv(t)
	docID := store.AddDocument("doc", `[{"name":"a.txt","data":"data:text/plain;base64,YQ=="}]`, "")

	req := httptest.NewRequest(http.MethodGet, "/api/docs/"+docID+"/slots", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(docID)

	if assert.NoError(t, h.HandleGetSlotUsage(c)) {
		var usage models.SlotUsage
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &usage))
		assert.Equal(t, 1000, usage.Capacity)
		assert.Equal(t, 1, usage.RecordCount)
		assert.False(t, usage.HasOverflow)
	}
}
