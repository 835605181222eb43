package storage

import (
	"github.com/slotstash/backend/internal/models"
)

// Store defines the interface for document persistence. A document is one
// pair of bounded text slots plus its metadata.
type Store interface {
	CreateDocument(name string) (*models.DocumentInfo, error)
	GetDocument(id string) (*models.DocumentInfo, error)
	ListDocuments(limit int) ([]*models.DocumentInfo, error)
	DeleteDocument(id string) error
	// LoadSlots returns the persisted slot texts. An absent overflow is
	// the empty string.
	LoadSlots(id string) (main string, overflow string, err error)
	// SaveSlots writes both slot texts back. An empty overflow clears the
	// persisted field entirely.
	SaveSlots(id string, main string, overflow string, recordCount int) error
	Close() error
}
