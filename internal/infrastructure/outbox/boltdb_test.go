package outbox

import (
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/fastygo/salescore/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "outbox.db"), "events")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func testEntry(eventID string) Entry {
	return Entry{
		Event: domain.Event{
			ID:          eventID,
			AggregateID: "sale-1",
			Name:        domain.EventSaleCreated,
			Payload:     json.RawMessage(`{"sale_id":"sale-1"}`),
			OccurredAt:  time.Now().UTC(),
		},
	}
}

func TestStore_DrainsInEnqueueOrder(t *testing.T) {
	store := openTestStore(t)

	for _, id := range []string{"e1", "e2", "e3"} {
		if err := store.Enqueue(testEntry(id)); err != nil {
			t.Fatalf("enqueue %s: %v", id, err)
		}
	}

	batch, err := store.GetBatch(10)
	if err != nil {
		t.Fatalf("get batch: %v", err)
	}
	if len(batch) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(batch))
	}
	for i, want := range []string{"e1", "e2", "e3"} {
		if batch[i].Event.ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, batch[i].Event.ID)
		}
	}

	if size, _ := store.Size(); size != 3 {
		t.Errorf("expected size 3, got %d", size)
	}
}

func TestStore_GetBatchRespectsLimit(t *testing.T) {
	store := openTestStore(t)
	for _, id := range []string{"e1", "e2", "e3"} {
		if err := store.Enqueue(testEntry(id)); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	batch, err := store.GetBatch(2)
	if err != nil {
		t.Fatalf("get batch: %v", err)
	}
	if len(batch) != 2 || batch[0].Event.ID != "e1" || batch[1].Event.ID != "e2" {
		t.Errorf("expected first two entries, got %v", batch)
	}
}

func TestStore_RemoveDeletesOneEntry(t *testing.T) {
	store := openTestStore(t)
	for _, id := range []string{"e1", "e2"} {
		if err := store.Enqueue(testEntry(id)); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	batch, _ := store.GetBatch(10)
	if err := store.Remove(batch[0]); err != nil {
		t.Fatalf("remove: %v", err)
	}

	remaining, _ := store.GetBatch(10)
	if len(remaining) != 1 || remaining[0].Event.ID != "e2" {
		t.Errorf("expected only e2 to remain, got %v", remaining)
	}
}

func TestStore_RequeueMovesEntryToBack(t *testing.T) {
	store := openTestStore(t)
	for _, id := range []string{"e1", "e2"} {
		if err := store.Enqueue(testEntry(id)); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	batch, _ := store.GetBatch(1)
	failed := batch[0]
	failed.Retries++
	if err := store.Remove(batch[0]); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := store.Requeue(failed); err != nil {
		t.Fatalf("requeue: %v", err)
	}

	drained, _ := store.GetBatch(10)
	if len(drained) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(drained))
	}
	if drained[0].Event.ID != "e2" || drained[1].Event.ID != "e1" {
		t.Errorf("requeued entry must drain last, got [%s %s]", drained[0].Event.ID, drained[1].Event.ID)
	}
	if drained[1].Retries != 1 {
		t.Errorf("retry count must survive requeue, got %d", drained[1].Retries)
	}
}

func TestStore_CleanupDropsExpiredEntries(t *testing.T) {
	store := openTestStore(t)

	old := testEntry("old")
	old.Timestamp = time.Now().Add(-48 * time.Hour)
	if err := store.Enqueue(old); err != nil {
		t.Fatalf("enqueue old: %v", err)
	}
	if err := store.Enqueue(testEntry("fresh")); err != nil {
		t.Fatalf("enqueue fresh: %v", err)
	}

	if err := store.Cleanup(time.Now().Add(-24 * time.Hour)); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	remaining, _ := store.GetBatch(10)
	if len(remaining) != 1 || remaining[0].Event.ID != "fresh" {
		t.Errorf("expected only the fresh entry, got %v", remaining)
	}
}
