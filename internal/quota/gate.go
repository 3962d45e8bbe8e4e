// Package quota enforces the per-user, per-UTC-day palette generation limit
// over durably stored counters.
package quota

import (
	"errors"
	"fmt"
	"time"

	"paletteai/pkg/domain"
)

// CounterStore persists usage counters. The store is the single source of
// truth for quota state; the gate holds nothing in memory across calls.
type CounterStore interface {
	GetUsageCounter(ownerID string) (domain.UsageCounter, bool, error)
	SaveUsageCounter(domain.UsageCounter) error
}

// Decision is the outcome of a quota check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Gate counts generations per user against a daily limit.
// Counters roll over at UTC midnight (full calendar-day reset, not a
// rolling 24-hour window).
type Gate struct {
	store CounterStore
	limit int
	now   func() time.Time
}

// New builds a gate with the given daily limit.
func New(store CounterStore, limit int) (*Gate, error) {
	if store == nil {
		return nil, errors.New("quota gate requires a counter store")
	}
	if limit <= 0 {
		return nil, errors.New("quota gate requires a positive daily limit")
	}
	return &Gate{store: store, limit: limit, now: time.Now}, nil
}

// WithClock overrides the gate's clock. Intended for tests.
func (g *Gate) WithClock(now func() time.Time) *Gate {
	g.now = now
	return g
}

// Consume checks and, when allowed, durably increments the caller's daily
// counter before returning. A counter whose last reset falls on an earlier
// UTC date is reset to zero first. Store errors fail the check closed.
//
// The read-check-increment sequence is not atomic across concurrent
// requests from one user; enforcement is best-effort at the limit boundary.
func (g *Gate) Consume(ownerID string) (Decision, error) {
	now := g.now().UTC()

	counter, found, err := g.store.GetUsageCounter(ownerID)
	if err != nil {
		return Decision{}, fmt.Errorf("load usage counter: %w", err)
	}
	if !found {
		counter = domain.UsageCounter{OwnerID: ownerID, Count: 0, LastResetAt: now}
	}
	if !domain.SameUTCDay(counter.LastResetAt, now) {
		counter.Count = 0
		counter.LastResetAt = now
	}

	if counter.Count >= g.limit {
		return Decision{
			Allowed: false,
			ResetAt: domain.NextUTCMidnight(now),
		}, nil
	}

	counter.Count++
	if err := g.store.SaveUsageCounter(counter); err != nil {
		return Decision{}, fmt.Errorf("save usage counter: %w", err)
	}
	return Decision{
		Allowed:   true,
		Remaining: g.limit - counter.Count,
		ResetAt:   domain.NextUTCMidnight(now),
	}, nil
}
