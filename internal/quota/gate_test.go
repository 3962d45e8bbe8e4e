package quota

import (
	"errors"
	"testing"
	"time"

	"paletteai/pkg/domain"
)

type fakeCounterStore struct {
	counters map[string]domain.UsageCounter
	getErr   error
	saveErr  error
}

func newFakeCounterStore() *fakeCounterStore {
	return &fakeCounterStore{counters: make(map[string]domain.UsageCounter)}
}

func (s *fakeCounterStore) GetUsageCounter(ownerID string) (domain.UsageCounter, bool, error) {
	if s.getErr != nil {
		return domain.UsageCounter{}, false, s.getErr
	}
	c, ok := s.counters[ownerID]
	return c, ok, nil
}

func (s *fakeCounterStore) SaveUsageCounter(c domain.UsageCounter) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.counters[c.OwnerID] = c
	return nil
}

func TestGateAllowsUpToLimit(t *testing.T) {
	store := newFakeCounterStore()
	gate, err := New(store, 150)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	noon := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	gate.WithClock(func() time.Time { return noon })

	for i := 0; i < 150; i++ {
		decision, err := gate.Consume("u1")
		if err != nil {
			t.Fatalf("consume %d: %v", i+1, err)
		}
		if !decision.Allowed {
			t.Fatalf("call %d should be allowed", i+1)
		}
	}

	decision, err := gate.Consume("u1")
	if err != nil {
		t.Fatalf("consume over limit: %v", err)
	}
	if decision.Allowed {
		t.Fatal("151st call should be blocked")
	}
	wantReset := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)
	if !decision.ResetAt.Equal(wantReset) {
		t.Fatalf("reset time = %v, want %v", decision.ResetAt, wantReset)
	}
	if store.counters["u1"].Count != 150 {
		t.Fatalf("blocked call must not increment, count = %d", store.counters["u1"].Count)
	}
}

func TestGateResetsOnNewUTCDay(t *testing.T) {
	store := newFakeCounterStore()
	yesterday := time.Date(2025, 6, 9, 23, 59, 0, 0, time.UTC)
	store.counters["u1"] = domain.UsageCounter{OwnerID: "u1", Count: 150, LastResetAt: yesterday}

	gate, err := New(store, 150)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	justAfterMidnight := time.Date(2025, 6, 10, 0, 1, 0, 0, time.UTC)
	gate.WithClock(func() time.Time { return justAfterMidnight })

	decision, err := gate.Consume("u1")
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if !decision.Allowed {
		t.Fatal("stale counter should reset before evaluation")
	}
	counter := store.counters["u1"]
	if counter.Count != 1 {
		t.Fatalf("count after rollover = %d, want 1", counter.Count)
	}
	if !domain.SameUTCDay(counter.LastResetAt, justAfterMidnight) {
		t.Fatalf("lastResetAt not moved to today: %v", counter.LastResetAt)
	}
}

func TestGateLazyInitializesCounter(t *testing.T) {
	store := newFakeCounterStore()
	gate, err := New(store, 5)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	decision, err := gate.Consume("fresh")
	if err != nil {
		t.Fatalf("consume: %v", err)
	}
	if !decision.Allowed || decision.Remaining != 4 {
		t.Fatalf("unexpected decision: %+v", decision)
	}
	if store.counters["fresh"].Count != 1 {
		t.Fatalf("counter not persisted, got %+v", store.counters["fresh"])
	}
}

func TestGateFailsClosedOnStoreErrors(t *testing.T) {
	store := newFakeCounterStore()
	store.getErr = errors.New("db down")
	gate, err := New(store, 5)
	if err != nil {
		t.Fatalf("new gate: %v", err)
	}
	if _, err := gate.Consume("u1"); err == nil {
		t.Fatal("expected error when counter load fails")
	}

	store.getErr = nil
	store.saveErr = errors.New("db down")
	if _, err := gate.Consume("u1"); err == nil {
		t.Fatal("expected error when counter save fails")
	}
}

func TestGateRejectsBadConfig(t *testing.T) {
	if _, err := New(nil, 5); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := New(newFakeCounterStore(), 0); err == nil {
		t.Fatal("expected error for non-positive limit")
	}
}
