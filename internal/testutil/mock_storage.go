// Package testutil provides shared test doubles.
package testutil

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/slotstash/backend/internal/models"
)

// MockStore is an in-memory implementation of storage.Store for tests.
type MockStore struct {
	mu   sync.RWMutex
	docs map[string]*mockDocument

	// FailSave, when set, makes SaveSlots return this error.
	FailSave error
}

type mockDocument struct {
	info     models.DocumentInfo
	main     string
	overflow string
}

// NewMockStore creates an empty mock store.
func NewMockStore() *MockStore {
	return &MockStore{docs: make(map[string]*mockDocument)}
}

// AddDocument seeds a document with the given slot texts and returns its ID.
func (m *MockStore) AddDocument(name, main, overflow string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New().String()
	m.docs[id] = &mockDocument{
		info: models.DocumentInfo{
			ID:        id,
			Name:      name,
			MainSize:  len(main),
			UpdatedAt: time.Now(),
		},
		main:     main,
		overflow: overflow,
	}
	return id
}

func (m *MockStore) CreateDocument(name string) (*models.DocumentInfo, error) {
	id := m.AddDocument(name, "[]", "")
	return m.GetDocument(id)
}

func (m *MockStore) GetDocument(id string) (*models.DocumentInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return nil, errors.New("document not found")
	}
	info := doc.info
	return &info, nil
}

func (m *MockStore) ListDocuments(limit int) ([]*models.DocumentInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var list []*models.DocumentInfo
	for _, doc := range m.docs {
		info := doc.info
		list = append(list, &info)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].UpdatedAt.After(list[j].UpdatedAt)
	})
	if len(list) > limit {
		list = list[:limit]
	}
	return list, nil
}

func (m *MockStore) DeleteDocument(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[id]; !ok {
		return errors.New("document not found")
	}
	delete(m.docs, id)
	return nil
}

func (m *MockStore) LoadSlots(id string) (string, string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return "", "", errors.New("document not found")
	}
	return doc.main, doc.overflow, nil
}

func (m *MockStore) SaveSlots(id string, main string, overflow string, recordCount int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSave != nil {
		return m.FailSave
	}
	doc, ok := m.docs[id]
	if !ok {
		return errors.New("document not found")
	}
	doc.main = main
	doc.overflow = overflow
	doc.info.RecordCount = recordCount
	doc.info.MainSize = len(main)
	doc.info.OverflowSize = len(overflow)
	doc.info.UpdatedAt = time.Now()
	return nil
}

func (m *MockStore) Close() error {
	return nil
}

// Slots returns the currently persisted slot texts for a document.
func (m *MockStore) Slots(id string) (string, string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[id]
	if !ok {
		return "", ""
	}
	return doc.main, doc.overflow
}
