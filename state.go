package watchlist

import (
	"slices"
	"time"
)

// State is a read-only copy of the Store, for presentation.
type State struct {
	Version         uint64 // increases at every change
	Tokens          []Token
	SearchResults   []Candidate
	TrendingTokens  []Candidate
	Loading         bool // a price refresh is in flight
	SearchLoading   bool
	TrendingLoading bool
	Err             error      // last price refresh error, nil after a success
	LastUpdated     *time.Time // completion of the last successful refresh
	Total           float64    // see RecomputeTotal
}

// Allocation returns the percentage-of-total breakdown of the state's tokens.
func (st State) Allocation() []Share { return AllocationOf(st.Tokens) }

// State returns a deep copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.snapshot()
	return State{
		Version:         s.version,
		Tokens:          snapshot.Tokens,
		SearchResults:   slices.Clone(s.search),
		TrendingTokens:  slices.Clone(s.trending),
		Loading:         s.refreshing > 0,
		SearchLoading:   s.searchLoading,
		TrendingLoading: s.trendingLoading,
		Err:             s.err,
		LastUpdated:     snapshot.LastUpdated,
		Total:           RecomputeTotal(snapshot.Tokens),
	}
}

// Snapshot returns a copy of the persisted part of the state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// IDs returns the ids of the watched tokens, in order.
func (s *Store) IDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.tokens))
	for i, t := range s.tokens {
		ids[i] = t.ID
	}
	return ids
}

// Token returns a copy of the watched token with that id.
func (s *Store) Token(id string) (Token, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return Token{}, false
	}
	return s.tokens[i].clone(), true
}

// Total returns the current portfolio total, see RecomputeTotal.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RecomputeTotal(s.tokens)
}

// Allocation returns the share of the total of every held token.
func (s *Store) Allocation() []Share {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AllocationOf(s.tokens)
}

// Subscribe returns a channel that receives the state version after changes,
// and a function to stop the subscription.
//
// Notifications are coalesced: a slow reader only sees the latest version.
// Call State to read the state itself.
func (s *Store) Subscribe() (<-chan uint64, func()) {
	ch := make(chan uint64, 1)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if _, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// notify sends the current version to every subscriber, replacing any
// notification not yet read. Called with s.mu held.
func (s *Store) notify() {
	for _, ch := range s.subs {
		select {
		case <-ch:
		default:
		}
		ch <- s.version
	}
}
