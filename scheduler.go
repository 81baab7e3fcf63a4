package watchlist

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultRefreshInterval is the cadence of periodic price refreshes.
const DefaultRefreshInterval = 30 * time.Second

// Scheduler drives the periodic price refresh of a Store.
//
// It refreshes every watched token once when started, then at every interval.
// A tick is skipped while the previous refresh it issued is still pending.
type Scheduler struct {
	Store    *Store
	Interval time.Duration // DefaultRefreshInterval if 0

	busy atomic.Bool
}

// Tick runs a single refresh cycle for all the watched tokens. It returns
// false if the cycle was skipped because a previous one is still pending.
//
// Refresh errors are logged; the next tick is the retry.
func (s *Scheduler) Tick(ctx context.Context) bool {
	if !s.busy.CompareAndSwap(false, true) {
		log.Printf("skip-refresh reason=%q", "previous refresh still pending")
		return false
	}
	defer s.busy.Store(false)

	ids := s.Store.IDs()
	if len(ids) == 0 {
		return true
	}
	if err := s.Store.RefreshPrices(ctx, ids); err != nil {
		log.Printf("refresh-prices ids=%d err=%v", len(ids), err)
	}
	return true
}

// Run refreshes immediately, then at every interval until ctx is done. It
// waits for the pending refresh before returning ctx.Err().
func (s *Scheduler) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}

	var wg sync.WaitGroup
	defer wg.Wait()

	tick := func() {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.Tick(ctx)
		}()
	}

	tick()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			tick()
		}
	}
}
