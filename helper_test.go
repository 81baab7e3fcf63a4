package watchlist

import (
	"context"
	"errors"
	"sync"
	"time"
)

// fakeSource is a PriceSource whose behaviour is set per test.
type fakeSource struct {
	mu          sync.Mutex
	priceCalls  [][]string
	searchCalls []string

	prices   func(ctx context.Context, ids []string) ([]Quote, error)
	search   func(ctx context.Context, query string) ([]Candidate, error)
	trending func(ctx context.Context) ([]Candidate, error)
}

func (f *fakeSource) Prices(ctx context.Context, ids []string) ([]Quote, error) {
	f.mu.Lock()
	f.priceCalls = append(f.priceCalls, ids)
	f.mu.Unlock()
	if f.prices == nil {
		return nil, nil
	}
	return f.prices(ctx, ids)
}

func (f *fakeSource) Search(ctx context.Context, query string) ([]Candidate, error) {
	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, query)
	f.mu.Unlock()
	if f.search == nil {
		return nil, nil
	}
	return f.search(ctx, query)
}

func (f *fakeSource) Trending(ctx context.Context) ([]Candidate, error) {
	if f.trending == nil {
		return nil, nil
	}
	return f.trending(ctx)
}

func (f *fakeSource) PriceCalls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.priceCalls
}

// quotes returns a prices func that answers with the given quotes, whatever the ids.
func quotes(q ...Quote) func(context.Context, []string) ([]Quote, error) {
	return func(context.Context, []string) ([]Quote, error) { return q, nil }
}

var errNetwork = errors.New("connection refused")

// memPersister is an in-memory Persister that records every save.
type memPersister struct {
	mu       sync.Mutex
	snapshot *Snapshot
	saves    int
	failing  bool
}

func (p *memPersister) Save(s Snapshot) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failing {
		return false
	}
	p.saves++
	p.snapshot = &s
	return true
}

func (p *memPersister) Load() (Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.snapshot == nil {
		return Snapshot{}, false
	}
	return *p.snapshot, true
}

func (p *memPersister) Clear() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snapshot = nil
	return true
}

func (p *memPersister) Saves() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.saves
}

// fixedNow is the completion time of refreshes in tests.
var fixedNow = time.Date(2025, 8, 1, 12, 30, 0, 0, time.UTC)

// newTestStore returns an empty store with a fixed clock.
func newTestStore(source *fakeSource) (*Store, *memPersister) {
	p := &memPersister{}
	s := NewStore(source, p)
	s.now = func() time.Time { return fixedNow }
	return s, p
}

// valueInvariant returns the first token whose value is not price * holdings.
func valueInvariant(tokens []Token) (Token, bool) {
	const tolerance = 1e-9
	for _, t := range tokens {
		diff := t.Value - t.CurrentPrice*t.Holdings
		if diff < -tolerance || diff > tolerance {
			return t, false
		}
	}
	return Token{}, true
}
