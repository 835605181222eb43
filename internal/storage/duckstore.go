package storage

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/marcboeker/go-duckdb"
	"github.com/slotstash/backend/internal/models"
)

// DuckStore persists documents and their slot texts in an embedded DuckDB
// file, so the stash survives restarts without an external database.
type DuckStore struct {
	db     *sql.DB
	dbPath string
}

// NewDuckStore opens (or creates) the DuckDB database at dbPath.
func NewDuckStore(dbPath string) (*DuckStore, error) {
	fmt.Printf("[DuckStore] Opening database at: %s\n", dbPath)

	connector, err := duckdb.NewConnector(dbPath, func(execer driver.ExecerContext) error {
		pragmas := []string{
			"PRAGMA memory_limit='256MB'",
			"PRAGMA threads=2",
			"PRAGMA enable_progress_bar=false",
		}
		for _, pragma := range pragmas {
			if _, err := execer.ExecContext(context.Background(), pragma, nil); err != nil {
				fmt.Printf("[DuckStore] Pragma warning: %v\n", err)
				// Non-fatal - continue even if pragma fails
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create DuckDB connector: %w", err)
	}

	db := sql.OpenDB(connector)

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS documents (
			id            VARCHAR PRIMARY KEY,
			name          VARCHAR NOT NULL,
			main_slot     VARCHAR NOT NULL DEFAULT '[]',
			overflow_slot VARCHAR NOT NULL DEFAULT '',
			record_count  INTEGER NOT NULL DEFAULT 0,
			updated_at    TIMESTAMP NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}

	return &DuckStore{db: db, dbPath: dbPath}, nil
}

// CreateDocument inserts a new, empty document.
func (ds *DuckStore) CreateDocument(name string) (*models.DocumentInfo, error) {
	info := &models.DocumentInfo{
		ID:        uuid.New().String(),
		Name:      name,
		MainSize:  2, // "[]"
		UpdatedAt: time.Now(),
	}

	_, err := ds.db.Exec(
		`INSERT INTO documents (id, name, main_slot, overflow_slot, record_count, updated_at)
		 VALUES (?, ?, '[]', '', 0, ?)`,
		info.ID, info.Name, info.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert document: %w", err)
	}

	return info, nil
}

// GetDocument retrieves document metadata by ID.
func (ds *DuckStore) GetDocument(id string) (*models.DocumentInfo, error) {
	row := ds.db.QueryRow(
		`SELECT id, name, length(main_slot), length(overflow_slot), record_count, updated_at
		 FROM documents WHERE id = ?`, id)
	return scanDocument(row)
}

// ListDocuments returns the most recently updated documents.
func (ds *DuckStore) ListDocuments(limit int) ([]*models.DocumentInfo, error) {
	rows, err := ds.db.Query(
		`SELECT id, name, length(main_slot), length(overflow_slot), record_count, updated_at
		 FROM documents ORDER BY updated_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var list []*models.DocumentInfo
	for rows.Next() {
		info, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, info)
	}
	return list, rows.Err()
}

// DeleteDocument removes a document and its slots.
func (ds *DuckStore) DeleteDocument(id string) error {
	res, err := ds.db.Exec(`DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("document not found: %s", id)
	}
	return nil
}

// LoadSlots returns the two persisted slot texts for a document.
func (ds *DuckStore) LoadSlots(id string) (string, string, error) {
	var main, overflow string
	err := ds.db.QueryRow(
		`SELECT main_slot, overflow_slot FROM documents WHERE id = ?`, id,
	).Scan(&main, &overflow)
	if err == sql.ErrNoRows {
		return "", "", fmt.Errorf("document not found: %s", id)
	}
	if err != nil {
		return "", "", fmt.Errorf("failed to load slots: %w", err)
	}
	return main, overflow, nil
}

// SaveSlots writes both slot texts back for a document.
func (ds *DuckStore) SaveSlots(id string, main string, overflow string, recordCount int) error {
	res, err := ds.db.Exec(
		`UPDATE documents SET main_slot = ?, overflow_slot = ?, record_count = ?, updated_at = ?
		 WHERE id = ?`,
		main, overflow, recordCount, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to save slots: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("document not found: %s", id)
	}
	return nil
}

// Close closes the underlying database.
func (ds *DuckStore) Close() error {
	return ds.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*models.DocumentInfo, error) {
	info := &models.DocumentInfo{}
	err := row.Scan(&info.ID, &info.Name, &info.MainSize, &info.OverflowSize,
		&info.RecordCount, &info.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("document not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}
	return info, nil
}
