// Package session manages open document sessions: each session holds the
// in-memory partitioner for one document's two slots, loaded lazily from
// the store and written back on every mutation.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/slotstash/backend/internal/models"
	"github.com/slotstash/backend/internal/slot"
	"github.com/slotstash/backend/internal/storage"
)

// shortID safely truncates an ID for logging (handles short IDs gracefully)
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

// SessionState holds one open document: its partitioner plus access
// bookkeeping. The mutex serializes mutations per document; the partitioner
// itself stays single-threaded.
type SessionState struct {
	DocID        string
	Part         *slot.Partitioner
	LastAccessed time.Time
	mu           sync.Mutex
}

// Manager tracks open document sessions.
type Manager struct {
	sessions map[string]*SessionState
	mu       sync.RWMutex
	store    storage.Store
	capacity int
}

// NewManager creates a session manager backed by the given store. capacity
// is the per-slot serialized-length limit injected into every partitioner.
func NewManager(store storage.Store, capacity int) *Manager {
	return &Manager{
		sessions: make(map[string]*SessionState),
		store:    store,
		capacity: capacity,
	}
}

// open returns the session for a document, loading its slots from the
// store on first access.
func (m *Manager) open(docID string) (*SessionState, error) {
	m.mu.RLock()
	state, ok := m.sessions[docID]
	m.mu.RUnlock()
	if ok {
		return state, nil
	}

	mainText, overflowText, err := m.store.LoadSlots(docID)
	if err != nil {
		return nil, err
	}

	p := slot.NewPartitioner(m.capacity)
	p.Load(mainText, overflowText)

	state = &SessionState{
		DocID:        docID,
		Part:         p,
		LastAccessed: time.Now(),
	}

	m.mu.Lock()
	// Another goroutine may have loaded it while we were reading.
	if existing, ok := m.sessions[docID]; ok {
		state = existing
	} else {
		m.sessions[docID] = state
	}
	m.mu.Unlock()

	fmt.Printf("[Session] Opened document %s (%d records)\n", shortID(docID), len(state.Part.Records()))
	return state, nil
}

// persist serializes the partitioner and writes both slots back. Must be
// called with the session mutex held.
func (m *Manager) persist(state *SessionState) error {
	mainText, overflowText := state.Part.Serialize()
	usage := state.Part.Usage()
	return m.store.SaveSlots(state.DocID, mainText, overflowText, usage.RecordCount)
}

// Admit runs admission of one encoded record against a document, then
// serializes and persists the result. A *slot.CapacityExceededError is
// returned unchanged; the store stays untouched in that case.
func (m *Manager) Admit(docID string, rec models.FileRecord) error {
	state, err := m.open(docID)
	if err != nil {
		return err
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	state.LastAccessed = time.Now()

	if err := state.Part.Admit(rec); err != nil {
		return err
	}
	if err := m.persist(state); err != nil {
		// The in-memory layout now diverges from the store. Drop the
		// session so the next access reloads the persisted state.
		m.Evict(docID)
		return err
	}
	return nil
}

// RemoveByName removes every record with the given name from a document
// (the whole split group) and persists the consolidated result. Returns the
// number of records removed.
func (m *Manager) RemoveByName(docID, name string) (int, error) {
	state, err := m.open(docID)
	if err != nil {
		return 0, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	state.LastAccessed = time.Now()

	removed := state.Part.RemoveByName(name)
	if removed == 0 {
		return 0, nil
	}
	if err := m.persist(state); err != nil {
		m.Evict(docID)
		return 0, err
	}
	return removed, nil
}

// Snapshot returns copies of a document's slot sequences plus its usage.
func (m *Manager) Snapshot(docID string) (main, overflow []models.FileRecord, usage models.SlotUsage, err error) {
	state, err := m.open(docID)
	if err != nil {
		return nil, nil, models.SlotUsage{}, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	state.LastAccessed = time.Now()

	return state.Part.MainRecords(), state.Part.OverflowRecords(), state.Part.Usage(), nil
}

// Evict drops a document's in-memory session, if any. Used after document
// deletion so a recreated ID never sees stale records.
func (m *Manager) Evict(docID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, docID)
}

// CleanupIdleSessions evicts sessions idle for longer than maxAge. The
// slots are already persisted after every mutation, so eviction loses
// nothing.
func (m *Manager) CleanupIdleSessions(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	for id, state := range m.sessions {
		if state.LastAccessed.Before(cutoff) {
			delete(m.sessions, id)
			fmt.Printf("[Session] Evicted idle document %s\n", shortID(id))
		}
	}
}
