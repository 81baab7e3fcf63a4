package watchlist

import (
	"encoding/json"
	"math"
	"slices"
	"strings"
)

// Token is an entry of the watchlist.
//
// Value is derived: it is always CurrentPrice * Holdings and must never be set
// independently. Use RecomputeValue after changing either operand.
type Token struct {
	ID                       string
	Name                     string
	Symbol                   string // stored as provided, see DisplaySymbol
	ImageURL                 string
	CurrentPrice             float64 // USD, 0 until the first successful refresh
	PriceChangePercentage24h float64
	Sparkline7d              []float64 // about 7 days of price samples, may be nil
	Holdings                 float64
	Value                    float64
}

// DisplaySymbol returns the symbol as it is conventionally displayed.
func (t Token) DisplaySymbol() string { return strings.ToUpper(t.Symbol) }

// RecomputeValue returns a copy of t with its Value derived from its price and holdings.
func RecomputeValue(t Token) Token {
	t.Value = t.CurrentPrice * t.Holdings
	return t
}

// clone returns a deep copy of t.
func (t Token) clone() Token {
	t.Sparkline7d = slices.Clone(t.Sparkline7d)
	return t
}

// sanitize resets values that cannot be part of a valid token (negative or
// non finite amounts) and recomputes the value.
func (t Token) sanitize() Token {
	t.CurrentPrice = nonNegative(t.CurrentPrice)
	t.Holdings = nonNegative(t.Holdings)
	if !isFinite(t.PriceChangePercentage24h) {
		t.PriceChangePercentage24h = 0
	}
	if t.Sparkline7d != nil {
		series := make([]float64, len(t.Sparkline7d))
		for i, p := range t.Sparkline7d {
			series[i] = nonNegative(p)
		}
		t.Sparkline7d = series
	}
	return RecomputeValue(t)
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func nonNegative(v float64) float64 {
	if !isFinite(v) || v < 0 {
		return 0
	}
	return v
}

// sparkline is the wire shape of the 7 days series, shared with the provider's format.
type sparkline struct {
	Price []float64 `json:"price"`
}

// MarshalJSON writes the token with a stable field order.
func (t Token) MarshalJSON() ([]byte, error) {
	var series *sparkline
	if t.Sparkline7d != nil {
		series = &sparkline{Price: t.Sparkline7d}
	}

	var w jsonObjectWriter
	w.Append("id", t.ID)
	w.Append("name", t.Name)
	w.Append("symbol", t.Symbol)
	w.Append("image", t.ImageURL)
	w.Append("current_price", t.CurrentPrice)
	w.Append("price_change_percentage_24h", t.PriceChangePercentage24h)
	w.Optional("sparkline_in_7d", series)
	w.Append("holdings", t.Holdings)
	w.Append("value", t.Value)
	return w.MarshalJSON()
}

// UnmarshalJSON reads a token. The value is recomputed rather than trusted.
func (t *Token) UnmarshalJSON(data []byte) error {
	// jtoken is the object read from the document using json parser.
	type jtoken struct {
		ID                       string     `json:"id"`
		Name                     string     `json:"name"`
		Symbol                   string     `json:"symbol"`
		Image                    string     `json:"image"`
		CurrentPrice             float64    `json:"current_price"`
		PriceChangePercentage24h float64    `json:"price_change_percentage_24h"`
		Sparkline                *sparkline `json:"sparkline_in_7d"`
		Holdings                 float64    `json:"holdings"`
	}
	var jt jtoken
	if err := json.Unmarshal(data, &jt); err != nil {
		return err
	}
	*t = Token{
		ID:                       jt.ID,
		Name:                     jt.Name,
		Symbol:                   jt.Symbol,
		ImageURL:                 jt.Image,
		CurrentPrice:             jt.CurrentPrice,
		PriceChangePercentage24h: jt.PriceChangePercentage24h,
		Holdings:                 jt.Holdings,
	}
	if jt.Sparkline != nil {
		t.Sparkline7d = jt.Sparkline.Price
	}
	*t = RecomputeValue(*t)
	return nil
}
