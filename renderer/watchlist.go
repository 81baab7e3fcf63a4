// Package renderer formats the watchlist state as markdown reports.
package renderer

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/etnz/watchlist"
	md "github.com/nao1215/markdown"
)

// Location is the time zone of the dates in reports.
var Location = time.Local

// sparklineWidth is the number of characters of the 7 days trend column.
const sparklineWidth = 24

// Report renders the full watchlist: overview, allocation and tokens.
func Report(st watchlist.State) string {
	return Overview(st) + "\n" + Watchlist(st)
}

// Overview renders the portfolio total, the refresh status and the
// allocation of the held tokens.
func Overview(st watchlist.State) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Portfolio")
	doc.PlainText(fmt.Sprintf("Portfolio Total: %s", md.Bold(total(st).String())))
	doc.PlainText(status(st))

	shares := st.Allocation()
	if len(shares) > 0 {
		rows := make([][]string, 0, len(shares))
		for _, s := range shares {
			rows = append(rows, []string{s.Symbol, watchlist.USD(s.Value).String(), s.Percent.String()})
		}
		doc.H2("Allocation")
		doc.Table(md.TableSet{
			Header: []string{"Token", "Value", "Share"},
			Rows:   rows,
		})
	}
	return doc.String()
}

// total sums the value of the held tokens exactly, so that the displayed total
// matches the displayed values.
func total(st watchlist.State) watchlist.Money {
	var values []float64
	for _, t := range st.Tokens {
		if t.Holdings > 0 {
			values = append(values, t.Value)
		}
	}
	return watchlist.SumValues(values...)
}

// status describes the refresh state in one line.
func status(st watchlist.State) string {
	var s string
	switch {
	case st.LastUpdated == nil:
		s = "Prices not loaded yet."
	default:
		s = fmt.Sprintf("Last updated: %s.", st.LastUpdated.In(Location).Format("2006-01-02 15:04:05 MST"))
	}
	if st.Loading {
		s += " Refreshing..."
	}
	if st.Err != nil {
		s += fmt.Sprintf(" Last refresh failed: %v.", st.Err)
	}
	return s
}

// Watchlist renders the table of the watched tokens.
func Watchlist(st watchlist.State) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2("Watchlist")
	if len(st.Tokens) == 0 {
		doc.PlainText("The watchlist is empty, add a token with `wl add <id>`.")
		return doc.String()
	}

	rows := make([][]string, 0, len(st.Tokens))
	for _, t := range st.Tokens {
		rows = append(rows, []string{
			fmt.Sprintf("%s (%s)", t.Name, t.DisplaySymbol()),
			watchlist.USD(t.CurrentPrice).PriceString(),
			watchlist.Percent(t.PriceChangePercentage24h).SignedString(),
			Sparkline(t.Sparkline7d, sparklineWidth),
			strconv.FormatFloat(t.Holdings, 'f', -1, 64),
			watchlist.USD(t.Value).String(),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Token", "Price", "24h %", "7d", "Holdings", "Value"},
		Rows:   rows,
	})
	return doc.String()
}

// Candidates renders search or trending results under title.
func Candidates(title string, candidates []watchlist.Candidate) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H2(title)
	if len(candidates) == 0 {
		doc.PlainText("No tokens found.")
		return doc.String()
	}
	rows := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		rank := "-"
		if c.MarketCapRank > 0 {
			rank = "#" + strconv.Itoa(c.MarketCapRank)
		}
		rows = append(rows, []string{c.ID, c.Name, (watchlist.Token{Symbol: c.Symbol}).DisplaySymbol(), rank})
	}
	doc.Table(md.TableSet{
		Header: []string{"ID", "Name", "Symbol", "Rank"},
		Rows:   rows,
	})
	return doc.String()
}
