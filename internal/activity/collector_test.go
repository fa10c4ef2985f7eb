package activity

import (
	"context"
	"sync"
	"testing"
	"time"
)

type mockBatchInserter struct {
	mu      sync.Mutex
	batches [][]Event
}

func (m *mockBatchInserter) BatchInsert(ctx context.Context, events []Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	batch := make([]Event, len(events))
	copy(batch, events)
	m.batches = append(m.batches, batch)
	return nil
}

func (m *mockBatchInserter) totalEvents() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, b := range m.batches {
		n += len(b)
	}
	return n
}

func TestCollector_FlushesAtBatchSize(t *testing.T) {
	store := &mockBatchInserter{}
	c := NewCollector(store, 3, time.Hour)

	c.Record(Event{Action: ActionProjectCreated, ActorID: "u1"})
	c.Record(Event{Action: ActionHoursLogged, ActorID: "u1"})
	if store.totalEvents() != 0 {
		t.Fatalf("expected no flush below batch size, got %d events", store.totalEvents())
	}

	c.Record(Event{Action: ActionInvoiceCreated, ActorID: "u1"})
	if store.totalEvents() != 3 {
		t.Fatalf("expected flush at batch size, got %d events", store.totalEvents())
	}
}

func TestCollector_StopFlushesRemainder(t *testing.T) {
	store := &mockBatchInserter{}
	c := NewCollector(store, 100, time.Hour)

	done := make(chan struct{})
	go func() {
		c.Start(context.Background())
		close(done)
	}()

	c.Record(Event{Action: ActionUserLoggedIn, ActorID: "u1"})
	c.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("collector did not stop")
	}

	if store.totalEvents() != 1 {
		t.Fatalf("expected final flush of 1 event, got %d", store.totalEvents())
	}
}

func TestCollector_RecordSetsTimestamp(t *testing.T) {
	store := &mockBatchInserter{}
	c := NewCollector(store, 1, time.Hour)

	c.Record(Event{Action: ActionStageChanged, ActorID: "u1"})

	if len(store.batches) != 1 || len(store.batches[0]) != 1 {
		t.Fatal("expected one flushed event")
	}
	if store.batches[0][0].OccurredAt.IsZero() {
		t.Error("OccurredAt should default to now")
	}
}
