package session

import (
	"errors"
	"strings"
	"testing"

	"github.com/slotstash/backend/internal/models"
	"github.com/slotstash/backend/internal/slot"
	"github.com/slotstash/backend/internal/testutil"
)

func textRecord(name, body string) models.FileRecord {
	return models.FileRecord{Name: name, Data: "data:text/plain;base64," + body}
}

func TestManager_AdmitPersistsSlots(t *testing.T) {
	store := testutil.NewMockStore()
	docID := store.AddDocument("doc", "[]", "")

	mgr := NewManager(store, 1000)
	if err := mgr.Admit(docID, textRecord("a.txt", "YQ==")); err != nil {
		t.Fatalf("Admit failed: %v", err)
	}

	mainText, overflowText := store.Slots(docID)
	if !strings.Contains(mainText, `"a.txt"`) {
		t.Errorf("persisted main slot missing record: %s", mainText)
	}
	if overflowText != "" {
		t.Errorf("overflow slot should stay empty, got %q", overflowText)
	}

	// A fresh manager must see the persisted state.
	mgr2 := NewManager(store, 1000)
	main, _, usage, err := mgr2.Snapshot(docID)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(main) != 1 || main[0].Name != "a.txt" {
		t.Errorf("reloaded main = %+v", main)
	}
	if usage.RecordCount != 1 {
		t.Errorf("record count = %d, want 1", usage.RecordCount)
	}
}

func TestManager_AdmitCapacityErrorLeavesSlotsUntouched(t *testing.T) {
	store := testutil.NewMockStore()
	docID := store.AddDocument("doc", "[]", "")
	mgr := NewManager(store, 200)

	if err := mgr.Admit(docID, textRecord("fill.txt", strings.Repeat("QQ==", 30))); err != nil {
		t.Fatalf("setup admit failed: %v", err)
	}
	mainBefore, overflowBefore := store.Slots(docID)

	err := mgr.Admit(docID, textRecord("big.txt", strings.Repeat("QkJC", 200)))
	var capErr *slot.CapacityExceededError
	if !errors.As(err, &capErr) {
		t.Fatalf("want CapacityExceededError, got %v", err)
	}

	mainAfter, overflowAfter := store.Slots(docID)
	if mainAfter != mainBefore || overflowAfter != overflowBefore {
		t.Error("failed admission changed the persisted slots")
	}
}

func TestManager_RemoveByName(t *testing.T) {
	store := testutil.NewMockStore()
	docID := store.AddDocument("doc", "[]", "")
	mgr := NewManager(store, 1000)

	if err := mgr.Admit(docID, textRecord("a.txt", "YQ==")); err != nil {
		t.Fatalf("setup admit failed: %v", err)
	}
	if err := mgr.Admit(docID, textRecord("b.txt", "Yg==")); err != nil {
		t.Fatalf("setup admit failed: %v", err)
	}

	removed, err := mgr.RemoveByName(docID, "a.txt")
	if err != nil {
		t.Fatalf("RemoveByName failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}

	removed, err = mgr.RemoveByName(docID, "missing.txt")
	if err != nil || removed != 0 {
		t.Errorf("missing removal = (%d, %v), want (0, nil)", removed, err)
	}

	mainText, _ := store.Slots(docID)
	if strings.Contains(mainText, "a.txt") {
		t.Error("removed record still persisted")
	}
}

func TestManager_FailedPersistEvictsSession(t *testing.T) {
	store := testutil.NewMockStore()
	docID := store.AddDocument("doc", "[]", "")
	mgr := NewManager(store, 1000)

	if err := mgr.Admit(docID, textRecord("a.txt", "YQ==")); err != nil {
		t.Fatalf("setup admit failed: %v", err)
	}

	store.FailSave = errors.New("disk full")
	if err := mgr.Admit(docID, textRecord("b.txt", "Yg==")); err == nil {
		t.Fatal("Admit with failing store should return the save error")
	}

	mgr.mu.RLock()
	_, open := mgr.sessions[docID]
	mgr.mu.RUnlock()
	if open {
		t.Error("session should be evicted after a failed save")
	}

	// The next access reloads the persisted state: only the first record.
	store.FailSave = nil
	main, _, _, err := mgr.Snapshot(docID)
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	if len(main) != 1 || main[0].Name != "a.txt" {
		t.Errorf("reloaded main = %+v, want only a.txt", main)
	}
}

func TestManager_CorruptSlotLoadsAsEmpty(t *testing.T) {
	store := testutil.NewMockStore()
	docID := store.AddDocument("doc", `{broken json`, "")
	mgr := NewManager(store, 1000)

	main, overflow, _, err := mgr.Snapshot(docID)
	if err != nil {
		t.Fatalf("Snapshot should recover from corrupt slots, got %v", err)
	}
	if len(main) != 0 || len(overflow) != 0 {
		t.Errorf("corrupt slots should load empty, got %d/%d records", len(main), len(overflow))
	}

	// The document stays usable after the reset.
	if err := mgr.Admit(docID, textRecord("fresh.txt", "Zg==")); err != nil {
		t.Errorf("Admit after reset failed: %v", err)
	}
}

func TestManager_UnknownDocument(t *testing.T) {
	mgr := NewManager(testutil.NewMockStore(), 1000)

	if err := mgr.Admit("nope", textRecord("a.txt", "YQ==")); err == nil {
		t.Error("Admit on unknown document should fail")
	}
	if _, _, _, err := mgr.Snapshot("nope"); err == nil {
		t.Error("Snapshot on unknown document should fail")
	}
}

func TestManager_CleanupIdleSessions(t *testing.T) {
	store := testutil.NewMockStore()
	docID := store.AddDocument("doc", "[]", "")
	mgr := NewManager(store, 1000)

	if err := mgr.Admit(docID, textRecord("a.txt", "YQ==")); err != nil {
		t.Fatalf("setup admit failed: %v", err)
	}

	mgr.CleanupIdleSessions(0)

	mgr.mu.RLock()
	remaining := len(mgr.sessions)
	mgr.mu.RUnlock()
	if remaining != 0 {
		t.Errorf("sessions after cleanup = %d, want 0", remaining)
	}

	// Eviction loses nothing: the next access reloads from the store.
	main, _, _, err := mgr.Snapshot(docID)
	if err != nil {
		t.Fatalf("Snapshot after cleanup failed: %v", err)
	}
	if len(main) != 1 {
		t.Errorf("records after reload = %d, want 1", len(main))
	}
}

func TestManager_Evict(t *testing.T) {
	store := testutil.NewMockStore()
	docID := store.AddDocument("doc", "[]", "")
	mgr := NewManager(store, 1000)

	if _, _, _, err := mgr.Snapshot(docID); err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	mgr.Evict(docID)

	mgr.mu.RLock()
	_, ok := mgr.sessions[docID]
	mgr.mu.RUnlock()
	if ok {
		t.Error("session still present after Evict")
	}
}
