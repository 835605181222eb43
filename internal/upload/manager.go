package upload

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/slotstash/backend/internal/models"
	"github.com/slotstash/backend/internal/payload"
	"github.com/slotstash/backend/internal/slot"
)

// Status represents the upload processing status.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusEncoding   Status = "encoding"
	StatusAdmitting  Status = "admitting"
	StatusComplete   Status = "complete"
	StatusError      Status = "error"
)

// Job represents an async encode-then-admit job. The raw bytes are encoded
// into a payload string first; admission runs only once encoding completes,
// so a job either fully succeeds or leaves the document untouched.
type Job struct {
	ID          string     `json:"id"`
	DocID       string     `json:"docId"`
	FileName    string     `json:"fileName"`
	MimeType    string     `json:"mimeType"`
	Size        int64      `json:"size"`
	Status      Status     `json:"status"`
	Progress    float64    `json:"progress"`
	Stage       string     `json:"stage"`
	Split       bool       `json:"split"`
	Error       string     `json:"error,omitempty"`
	ErrorCode   string     `json:"errorCode,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Admitter is the interface needed from the session layer.
type Admitter interface {
	Admit(docID string, rec models.FileRecord) error
	Snapshot(docID string) (main, overflow []models.FileRecord, usage models.SlotUsage, err error)
}

// Manager handles async upload processing.
type Manager struct {
	jobs     map[string]*Job
	mu       sync.RWMutex
	admitter Admitter
	maxBytes int64
}

// NewManager creates a new upload processing manager. maxBytes is the
// per-file decoded-size ceiling enforced before admission.
func NewManager(admitter Admitter, maxBytes int64) *Manager {
	return &Manager{
		jobs:     make(map[string]*Job),
		admitter: admitter,
		maxBytes: maxBytes,
	}
}

// StartJob begins async processing of an upload.
func (m *Manager) StartJob(docID, fileName, mimeType string, raw []byte) *Job {
	job := &Job{
		ID:        uuid.New().String(),
		DocID:     docID,
		FileName:  fileName,
		MimeType:  mimeType,
		Size:      int64(len(raw)),
		Status:    StatusProcessing,
		Stage:     "preparing",
		CreatedAt: time.Now(),
	}

	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	go m.processJob(job, raw)

	return job
}

// GetJob retrieves a job by ID.
func (m *Manager) GetJob(id string) (*Job, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	return job, ok
}

// processJob handles the actual async processing.
func (m *Manager) processJob(job *Job, raw []byte) {
	fmt.Printf("[UploadJob %s] Starting: %s (%d bytes)\n", job.ID[:8], job.FileName, len(raw))

	// Stage 1: encode raw bytes into the payload string.
	m.updateJobStatus(job, StatusEncoding, "encoding payload", 0)

	data := payload.Encode(job.MimeType, raw)

	if err := payload.Validate(job.FileName, data, m.maxBytes); err != nil {
		m.markJobError(job, "VALIDATION_ERROR", err.Error())
		return
	}

	m.updateJobStatus(job, StatusEncoding, "encoding payload", 100)

	// Stage 2: admission. Runs only after the encode completed; the record
	// either lands whole, lands split, or is rejected with the document
	// unchanged.
	m.updateJobStatus(job, StatusAdmitting, "admitting record", 0)

	rec := models.FileRecord{Name: job.FileName, Data: data}
	if err := m.admitter.Admit(job.DocID, rec); err != nil {
		var capErr *slot.CapacityExceededError
		if errors.As(err, &capErr) {
			m.markJobError(job, "CAPACITY_EXCEEDED", capErr.Error())
		} else {
			m.markJobError(job, "INTERNAL_ERROR", err.Error())
		}
		return
	}

	// Report whether the record ended up split across both slots.
	if _, overflow, _, err := m.admitter.Snapshot(job.DocID); err == nil {
		for _, r := range overflow {
			if r.Name == job.FileName {
				job.Split = true
				break
			}
		}
	}

	m.markJobComplete(job)
	fmt.Printf("[UploadJob %s] Complete: %s (split=%v)\n", job.ID[:8], job.FileName, job.Split)
}

// updateJobStatus updates job progress (thread-safe).
func (m *Manager) updateJobStatus(job *Job, status Status, stage string, stageProgress float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job.Status = status
	job.Stage = stage

	// Encoding: 0-60%, Admitting: 60-100%
	switch status {
	case StatusEncoding:
		job.Progress = stageProgress * 0.6
	case StatusAdmitting:
		job.Progress = 60 + stageProgress*0.4
	case StatusComplete:
		job.Progress = 100
	}
}

// markJobComplete marks job as complete (thread-safe).
func (m *Manager) markJobComplete(job *Job) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job.Status = StatusComplete
	job.Progress = 100
	now := time.Now()
	job.CompletedAt = &now
}

// markJobError marks job as failed (thread-safe).
func (m *Manager) markJobError(job *Job, code, errMsg string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job.Status = StatusError
	job.ErrorCode = code
	job.Error = errMsg
	now := time.Now()
	job.CompletedAt = &now
	fmt.Printf("[UploadJob %s] Error (%s): %s\n", job.ID[:8], code, errMsg)
}

// CleanupOldJobs removes jobs older than the specified duration.
func (m *Manager) CleanupOldJobs(maxAge time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	for id, job := range m.jobs {
		if job.Status == StatusComplete || job.Status == StatusError {
			if job.CompletedAt != nil && job.CompletedAt.Before(cutoff) {
				delete(m.jobs, id)
			}
		}
	}
}
