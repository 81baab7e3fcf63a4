package watchlist

import "context"

// SampleTokens is the watchlist a first run starts with.
var SampleTokens = []Token{
	{
		ID:       "bitcoin",
		Name:     "Bitcoin",
		Symbol:   "btc",
		ImageURL: "https://assets.coingecko.com/coins/images/1/large/bitcoin.png?1547033579",
		Holdings: 0.05,
	},
	{
		ID:       "ethereum",
		Name:     "Ethereum",
		Symbol:   "eth",
		ImageURL: "https://assets.coingecko.com/coins/images/279/large/ethereum.png?1595348880",
		Holdings: 2.5,
	},
	{
		ID:       "solana",
		Name:     "Solana",
		Symbol:   "sol",
		ImageURL: "https://assets.coingecko.com/coins/images/4128/large/solana.png?1640133422",
		Holdings: 15,
	},
	{
		ID:       "dogecoin",
		Name:     "Dogecoin",
		Symbol:   "doge",
		ImageURL: "https://assets.coingecko.com/coins/images/5/large/dogecoin.png?1547792256",
		Holdings: 500,
	},
}

// Bootstrap seeds a Store that was not restored from a snapshot with the
// SampleTokens and their holdings, then refreshes their prices once.
//
// It does nothing if the Store was restored, even if its watchlist is empty.
// The returned error is the refresh error, the seeding itself cannot fail.
func Bootstrap(ctx context.Context, s *Store) error {
	if s.Restored() {
		return nil
	}
	ids := make([]string, 0, len(SampleTokens))
	for _, t := range SampleTokens {
		s.AddToken(t.ID, t.Name, t.Symbol, t.ImageURL)
		if err := s.UpdateHoldings(t.ID, t.Holdings); err != nil {
			return err
		}
		ids = append(ids, t.ID)
	}
	return s.RefreshPrices(ctx, ids)
}
