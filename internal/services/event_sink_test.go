package services

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/fastygo/salescore/domain"
	"github.com/fastygo/salescore/internal/infrastructure/outbox"
)

type fakeSink struct {
	published []domain.Event
	fail      error
}

func (s *fakeSink) Publish(ctx context.Context, events []domain.Event) error {
	if s.fail != nil {
		return s.fail
	}
	s.published = append(s.published, events...)
	return nil
}

type fakeHealth struct{ online bool }

func (h fakeHealth) IsOnline() bool { return h.online }

func openStore(t *testing.T) *outbox.Store {
	t.Helper()
	store, err := outbox.Open(filepath.Join(t.TempDir(), "outbox.db"), "events")
	if err != nil {
		t.Fatalf("open outbox: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func saleEvent(id string) domain.Event {
	return domain.Event{
		ID:          id,
		AggregateID: "sale-1",
		Name:        domain.EventSaleCreated,
		Payload:     json.RawMessage(`{}`),
		OccurredAt:  time.Now().UTC(),
	}
}

func TestResilientSink_DeliversLive(t *testing.T) {
	live := &fakeSink{}
	store := openStore(t)
	sink := NewResilientSink(live, store, nil)

	if err := sink.Publish(context.Background(), []domain.Event{saleEvent("e1")}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(live.published) != 1 {
		t.Errorf("expected live delivery, got %d", len(live.published))
	}
	if size, _ := store.Size(); size != 0 {
		t.Errorf("outbox must stay empty on live delivery, got %d", size)
	}
}

func TestResilientSink_ParksOnLiveFailure(t *testing.T) {
	live := &fakeSink{fail: errors.New("broker down")}
	store := openStore(t)
	sink := NewResilientSink(live, store, nil)

	events := []domain.Event{saleEvent("e1"), saleEvent("e2")}
	if err := sink.Publish(context.Background(), events); err != nil {
		t.Fatalf("fallback publish must succeed: %v", err)
	}
	if size, _ := store.Size(); size != 2 {
		t.Errorf("expected 2 parked events, got %d", size)
	}
}

func TestResilientSink_NoSinkAvailable(t *testing.T) {
	sink := NewResilientSink(nil, nil, nil)
	err := sink.Publish(context.Background(), []domain.Event{saleEvent("e1")})
	if domain.CodeOf(err) != domain.ErrCodeInternal {
		t.Errorf("expected internal error, got %v", err)
	}
}

func TestOutboxProcessor_DrainRepublishesInOrder(t *testing.T) {
	store := openStore(t)
	for _, id := range []string{"e1", "e2", "e3"} {
		if err := store.Enqueue(outbox.Entry{Event: saleEvent(id)}); err != nil {
			t.Fatalf("enqueue: %v", err)
		}
	}

	live := &fakeSink{}
	op := NewOutboxProcessor(store, fakeHealth{online: true}, live, nil, ProcessorConfig{
		Interval:  time.Second,
		BatchSize: 10,
	})

	if err := op.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(live.published) != 3 {
		t.Fatalf("expected 3 republished, got %d", len(live.published))
	}
	for i, want := range []string{"e1", "e2", "e3"} {
		if live.published[i].ID != want {
			t.Errorf("position %d: expected %s, got %s", i, want, live.published[i].ID)
		}
	}
	if op.Size() != 0 {
		t.Errorf("outbox must be empty after drain, got %d", op.Size())
	}
}

func TestOutboxProcessor_SkipsDrainWhileOffline(t *testing.T) {
	store := openStore(t)
	if err := store.Enqueue(outbox.Entry{Event: saleEvent("e1")}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	live := &fakeSink{}
	op := NewOutboxProcessor(store, fakeHealth{online: false}, live, nil, ProcessorConfig{Interval: time.Second})

	if err := op.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if len(live.published) != 0 {
		t.Errorf("offline drain must publish nothing")
	}
	if op.Size() != 1 {
		t.Errorf("entry must stay parked, got %d", op.Size())
	}
}

func TestOutboxProcessor_RequeuesFailedDeliveries(t *testing.T) {
	store := openStore(t)
	if err := store.Enqueue(outbox.Entry{Event: saleEvent("e1")}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	live := &fakeSink{fail: errors.New("still down")}
	op := NewOutboxProcessor(store, fakeHealth{online: true}, live, nil, ProcessorConfig{
		Interval:   time.Second,
		MaxRetries: 3,
	})

	if err := op.Drain(context.Background()); err != nil {
		t.Fatalf("drain: %v", err)
	}
	if op.Size() != 1 {
		t.Fatalf("entry must be requeued, got size %d", op.Size())
	}

	batch, _ := store.GetBatch(1)
	if batch[0].Retries != 1 {
		t.Errorf("expected retry count 1, got %d", batch[0].Retries)
	}
}

func TestOutboxProcessor_DropsEntryAfterMaxRetries(t *testing.T) {
	store := openStore(t)
	if err := store.Enqueue(outbox.Entry{Event: saleEvent("e1")}); err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	live := &fakeSink{fail: errors.New("still down")}
	op := NewOutboxProcessor(store, fakeHealth{online: true}, live, nil, ProcessorConfig{
		Interval:   time.Second,
		MaxRetries: 2,
	})

	for i := 0; i < 2; i++ {
		if err := op.Drain(context.Background()); err != nil {
			t.Fatalf("drain %d: %v", i, err)
		}
	}
	if op.Size() != 0 {
		t.Errorf("entry must be dropped after retry cap, got %d", op.Size())
	}
}
