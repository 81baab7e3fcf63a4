package watchlist

import (
	"context"
	"log"
	"math"
	"slices"
	"strings"
	"sync"
	"time"
)

// Store is the single authoritative watchlist of a process.
//
// Commands (AddToken, RemoveToken, UpdateHoldings, ClearSearchResults) apply
// synchronously. Operations that call the PriceSource (RefreshPrices,
// SearchTokens, FetchTrendingTokens) block the calling goroutine on the network
// only; their merge step runs atomically with respect to every other command.
// Every state-changing command writes a Snapshot through the Persister.
//
// A Store is safe for concurrent use.
type Store struct {
	source    PriceSource
	persister Persister
	now       func() time.Time

	mu          sync.Mutex
	tokens      []Token
	lastUpdated *time.Time
	restored    bool

	// session transient state
	search          []Candidate
	trending        []Candidate
	refreshing      int // number of refreshes in flight
	searchLoading   bool
	trendingLoading bool
	err             error

	// request sequences, the latest issued wins.
	searchSeq   uint64
	trendingSeq uint64

	version uint64
	subs    map[int]chan uint64
	nextSub int
}

// NewStore returns a Store initialized from the persister's snapshot, or
// empty if there is none.
func NewStore(source PriceSource, persister Persister) *Store {
	s := &Store{
		source:    source,
		persister: persister,
		now:       time.Now,
		subs:      make(map[int]chan uint64),
	}
	if snapshot, ok := persister.Load(); ok {
		snapshot = snapshot.Normalize()
		s.tokens = snapshot.Tokens
		s.lastUpdated = snapshot.LastUpdated
		s.restored = true
	}
	return s
}

// Restored reports whether the Store was initialized from a persisted snapshot.
func (s *Store) Restored() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restored
}

// --- commands ---

// AddToken appends a new token with no holdings and no price yet.
//
// Adding an id that is already watched is a silent no-op. It returns true if
// the token was added.
func (s *Store) AddToken(id, name, symbol, imageURL string) bool {
	if id == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) >= 0 {
		return false
	}
	s.tokens = append(s.tokens, RecomputeValue(Token{
		ID:       id,
		Name:     name,
		Symbol:   symbol,
		ImageURL: imageURL,
	}))
	s.commit(true)
	return true
}

// RemoveToken removes the token with that id. Removing an unknown id is a
// no-op. It returns true if a token was removed.
func (s *Store) RemoveToken(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tokens = slices.Delete(s.tokens, i, i+1)
	s.commit(true)
	return true
}

// UpdateHoldings sets the quantity held of a token and recomputes its value.
//
// holdings must be a finite number >= 0, otherwise a *ValidationError is
// returned and nothing changes. An unknown id is a no-op.
func (s *Store) UpdateHoldings(id string, holdings float64) error {
	if err := validateHoldings(holdings); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil
	}
	t := s.tokens[i]
	t.Holdings = holdings
	s.tokens[i] = RecomputeValue(t)
	s.commit(true)
	return nil
}

func validateHoldings(holdings float64) error {
	switch {
	case math.IsNaN(holdings) || math.IsInf(holdings, 0):
		return &ValidationError{Field: "holdings", Value: holdings, Reason: "must be a finite number"}
	case holdings < 0:
		return &ValidationError{Field: "holdings", Value: holdings, Reason: "must not be negative"}
	}
	return nil
}

// ClearSearchResults empties the search results. A search still in flight is
// invalidated so that it cannot repopulate them.
func (s *Store) ClearSearchResults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.searchSeq++
	s.search = nil
	s.searchLoading = false
	s.commit(false)
}

// --- asynchronous operations ---

// RefreshPrices fetches the quotes of the given ids in one batched request and
// merges them into the watchlist.
//
// On success, every watched token present in the response gets its price, 24h
// change and sparkline overwritten and its value recomputed. Tokens missing
// from the response are left unchanged, and so are tokens removed while the
// request was in flight (they are not resurrected). LastUpdated is set to the
// completion time and the snapshot is persisted.
//
// On failure, no token changes, LastUpdated is kept, and the returned
// *RequestError is also recorded in State().Err until the next refresh.
//
// Overlapping refreshes are not coalesced: the last to complete wins.
func (s *Store) RefreshPrices(ctx context.Context, ids []string) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}

	s.mu.Lock()
	s.refreshing++
	s.err = nil
	s.commit(false)
	s.mu.Unlock()

	quotes, err := s.source.Prices(ctx, ids)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshing--

	if err != nil {
		re := asRequestError("prices", err)
		s.err = re
		s.commit(false)
		return re
	}

	// Do not trust the provider: only quotes that were requested are merged.
	requested := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		requested[id] = struct{}{}
	}
	for _, q := range quotes {
		if _, ok := requested[q.ID]; !ok {
			continue
		}
		i := s.indexOf(q.ID)
		if i < 0 {
			continue // removed in the meantime
		}
		t := s.tokens[i]
		t.CurrentPrice = q.CurrentPrice
		t.PriceChangePercentage24h = q.PriceChangePercentage24h
		t.Sparkline7d = slices.Clone(q.Sparkline7d)
		s.tokens[i] = t.sanitize()
	}
	on := s.now().UTC()
	s.lastUpdated = &on
	s.err = nil
	s.commit(true)
	return nil
}

// SearchTokens replaces the search results with the candidates matching query.
//
// A blank query clears the results without calling the PriceSource. When
// several searches overlap, only the most recently issued one is applied: the
// others return ErrSuperseded. A failed search leaves empty results.
func (s *Store) SearchTokens(ctx context.Context, query string) ([]Candidate, error) {
	query = strings.TrimSpace(query)

	s.mu.Lock()
	s.searchSeq++
	seq := s.searchSeq
	if query == "" {
		s.search = nil
		s.searchLoading = false
		s.commit(false)
		s.mu.Unlock()
		return nil, nil
	}
	s.searchLoading = true
	s.commit(false)
	s.mu.Unlock()

	results, err := s.source.Search(ctx, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.searchSeq {
		return nil, ErrSuperseded
	}
	s.searchLoading = false
	if err != nil {
		s.search = nil
		s.commit(false)
		return nil, asRequestError("search", err)
	}
	s.search = slices.Clone(results)
	s.commit(false)
	return slices.Clone(results), nil
}

// FetchTrendingTokens replaces the trending results. Like SearchTokens, only
// the most recently issued request is applied, and a failure leaves empty
// results.
func (s *Store) FetchTrendingTokens(ctx context.Context) ([]Candidate, error) {
	s.mu.Lock()
	s.trendingSeq++
	seq := s.trendingSeq
	s.trendingLoading = true
	s.commit(false)
	s.mu.Unlock()

	results, err := s.source.Trending(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.trendingSeq {
		return nil, ErrSuperseded
	}
	s.trendingLoading = false
	if err != nil {
		s.trending = nil
		s.commit(false)
		return nil, asRequestError("trending", err)
	}
	s.trending = slices.Clone(results)
	s.commit(false)
	return slices.Clone(results), nil
}

// --- private helpers, all called with s.mu held ---

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tokens, func(t Token) bool { return t.ID == id })
}

// snapshot returns a deep copy of the persisted part of the state.
func (s *Store) snapshot() Snapshot {
	tokens := make([]Token, len(s.tokens))
	for i, t := range s.tokens {
		tokens[i] = t.clone()
	}
	snapshot := Snapshot{Tokens: tokens}
	if s.lastUpdated != nil {
		on := *s.lastUpdated
		snapshot.LastUpdated = &on
	}
	return snapshot
}

// commit publishes a new version of the state, and writes it through the
// persister if it changed the persisted part.
func (s *Store) commit(persist bool) {
	s.version++
	if persist {
		if !s.persister.Save(s.snapshot()) {
			log.Printf("persist-snapshot version=%d ok=false", s.version)
		}
	}
	s.notify()
}

// uniqueIDs returns ids without blanks and duplicates, in order.
func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	res := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}
