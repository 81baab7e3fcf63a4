package watchlist

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestScheduler_TickSkipsWhilePending(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	source := &fakeSource{prices: func(context.Context, []string) ([]Quote, error) {
		started <- struct{}{}
		<-release
		return nil, nil
	}}
	s, _ := newTestStore(source)
	s.AddToken("a", "A", "a", "")
	sched := &Scheduler{Store: s}

	done := make(chan bool)
	go func() { done <- sched.Tick(context.Background()) }()
	<-started

	if sched.Tick(context.Background()) {
		t.Error("Tick() = true while the previous refresh is pending, want false")
	}
	close(release)
	if !<-done {
		t.Error("first Tick() = false, want true")
	}
	if got := len(source.PriceCalls()); got != 1 {
		t.Errorf("price calls = %d, want 1", got)
	}

	// The guard is released once the refresh completed.
	if !sched.Tick(context.Background()) {
		t.Error("Tick() = false after completion, want true")
	}
}

func TestScheduler_TickEmptyWatchlist(t *testing.T) {
	source := &fakeSource{}
	s, _ := newTestStore(source)
	sched := &Scheduler{Store: s}
	if !sched.Tick(context.Background()) {
		t.Error("Tick() = false, want true")
	}
	if len(source.PriceCalls()) != 0 {
		t.Error("Tick() called the source for an empty watchlist")
	}
}

func TestScheduler_TickLogsFailures(t *testing.T) {
	source := &fakeSource{prices: func(context.Context, []string) ([]Quote, error) { return nil, errNetwork }}
	s, _ := newTestStore(source)
	s.AddToken("a", "A", "a", "")
	sched := &Scheduler{Store: s}

	if !sched.Tick(context.Background()) {
		t.Error("Tick() = false, want true")
	}
	if !errors.Is(s.State().Err, errNetwork) {
		t.Errorf("State().Err = %v, want %v", s.State().Err, errNetwork)
	}
}

func TestScheduler_Run(t *testing.T) {
	refreshed := make(chan struct{}, 10)
	source := &fakeSource{prices: func(_ context.Context, ids []string) ([]Quote, error) {
		select {
		case refreshed <- struct{}{}:
		default:
		}
		return []Quote{{ID: ids[0], CurrentPrice: 1}}, nil
	}}
	s, _ := newTestStore(source)
	s.AddToken("a", "A", "a", "")

	ctx, cancel := context.WithCancel(context.Background())
	sched := &Scheduler{Store: s, Interval: 10 * time.Millisecond}
	done := make(chan error)
	go func() { done <- sched.Run(ctx) }()

	// The first refresh is immediate, then one per interval.
	for i := 0; i < 2; i++ {
		select {
		case <-refreshed:
		case <-time.After(5 * time.Second):
			t.Fatalf("refresh %d did not happen", i)
		}
	}
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
	if tok, _ := s.Token("a"); tok.CurrentPrice != 1 {
		t.Errorf("price = %v, want 1", tok.CurrentPrice)
	}
}
