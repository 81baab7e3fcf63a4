package watchlist

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a monetary value for display and exact sums.
//
// The watchlist model itself works with float64 USD approximations; Money is
// the presentation side of those figures.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return decimal.Zero
		}
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

func M[T float64 | int | int64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// USD returns an amount of US dollars, the only quote currency of the watchlist.
func USD(v float64) Money { return M(v, money.USD) }

// SumValues returns the exact sum of the given amounts in USD.
func SumValues(values ...float64) Money {
	total := USD(0)
	for _, v := range values {
		total = total.Add(USD(v))
	}
	return total
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// String returns the amount rounded to the currency's fraction, e.g. "$2,500.00".
func (m Money) String() string {
	cur := m.currency()
	dec := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(dec.IntPart())
}

// PriceString is like String but keeps 4 significant digits for amounts below
// one unit, so that sub-cent token prices remain readable.
func (m Money) PriceString() string {
	abs := m.value.Abs()
	if m.value.IsZero() || abs.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return m.String()
	}
	cur := m.currency()
	fraction := significantFraction(abs.InexactFloat64(), 4)
	if fraction < cur.Fraction {
		fraction = cur.Fraction
	}
	f := money.NewFormatter(fraction, cur.Decimal, cur.Thousand, cur.Grapheme, cur.Template)
	return f.Format(m.value.Shift(int32(fraction)).Round(0).IntPart())
}

// significantFraction returns the number of fractional digits needed to show
// 'digits' significant digits of v (0 < v < 1), capped to 12.
func significantFraction(v float64, digits int) int {
	zeros := -int(math.Floor(math.Log10(v))) - 1
	fraction := zeros + digits
	if fraction > 12 {
		fraction = 12
	}
	return fraction
}

func (m Money) Currency() string   { return m.cur }
func (m Money) Equal(n Money) bool { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool       { return m.value.IsZero() }
func (m Money) IsNegative() bool   { return m.value.IsNegative() }
func (m Money) AsFloat() float64   { return m.value.InexactFloat64() }

// Add returns m+n. Both amounts must share the same currency.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch" + A.cur + "!=" + B.cur)
	}
	return A.cur
}
