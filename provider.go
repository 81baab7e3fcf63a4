package watchlist

import "context"

// Quote holds the market data returned by a PriceSource for a single token.
type Quote struct {
	ID                       string
	CurrentPrice             float64
	PriceChangePercentage24h float64
	Sparkline7d              []float64 // nil when the provider has no series
}

// Candidate is a token surfaced by a search or a trending query. It can be
// promoted into the watchlist with Store.AddToken.
type Candidate struct {
	ID            string
	Name          string
	Symbol        string
	ImageURL      string
	MarketCapRank int // 0 when unranked
}

// PriceSource is the external market data provider.
//
// Implementations are pure request/response: they hold no watchlist state and
// do not retry. Failures should be reported as *RequestError.
type PriceSource interface {
	// Prices returns the quotes for the given ids. Unknown ids may simply be
	// missing from the result.
	Prices(ctx context.Context, ids []string) ([]Quote, error)
	// Search returns candidates matching a non empty query, ranked by the provider.
	Search(ctx context.Context, query string) ([]Candidate, error)
	// Trending returns the currently trending candidates.
	Trending(ctx context.Context) ([]Candidate, error)
}

// Persister is the durable storage of a Snapshot.
//
// It is best-effort: failures are absorbed (and logged) by the implementation
// and reported only as a false return value.
type Persister interface {
	Save(s Snapshot) bool
	Load() (Snapshot, bool)
	Clear() bool
}
