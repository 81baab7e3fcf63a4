package watchlist

// This file centralizes the derived figures of the watchlist. Commands never
// compute them inline.

// RecomputeTotal returns the portfolio total: the sum of the values of the
// tokens actually held. Tokens with zero holdings only carry display data.
func RecomputeTotal(tokens []Token) float64 {
	total := 0.0
	for _, t := range tokens {
		if t.Holdings > 0 {
			total += t.Value
		}
	}
	return total
}

// Share is the weight of a held token in the portfolio total.
type Share struct {
	ID      string
	Symbol  string
	Value   float64
	Percent Percent // of the total, 0 when the total is 0
}

// AllocationOf returns the percentage-of-total breakdown, in collection order.
// Tokens with zero holdings are excluded.
func AllocationOf(tokens []Token) []Share {
	total := RecomputeTotal(tokens)
	shares := make([]Share, 0, len(tokens))
	for _, t := range tokens {
		if t.Holdings <= 0 {
			continue
		}
		s := Share{ID: t.ID, Symbol: t.DisplaySymbol(), Value: t.Value}
		if total > 0 {
			s.Percent = Percent(t.Value / total * 100)
		}
		shares = append(shares, s)
	}
	return shares
}
