package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/etnz/watchlist"
	"github.com/google/subcommands"
)

type addCmd struct {
	name     string
	symbol   string
	image    string
	holdings float64
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add a token to the watchlist" }
func (*addCmd) Usage() string {
	return `wl add [-name <name>] [-symbol <symbol>] [-image <url>] [-holdings <quantity>] <id>

  Adds the token identified by its CoinGecko <id> (e.g. "bitcoin") to the
  watchlist, then fetches its price.

  When -name or -symbol is missing, the token is looked up with a search.
  Adding a token already watched does nothing.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.name, "name", "", "Display name of the token.")
	f.StringVar(&c.symbol, "symbol", "", "Ticker symbol of the token.")
	f.StringVar(&c.image, "image", "", "Image URL of the token.")
	f.Float64Var(&c.holdings, "holdings", 0, "Quantity held.")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: add requires exactly one token id.")
		return subcommands.ExitUsageError
	}
	id := strings.TrimSpace(f.Arg(0))
	if !(c.holdings >= 0) || math.IsInf(c.holdings, 0) {
		fmt.Fprintf(os.Stderr, "Error: invalid holdings %v: must be a finite number >= 0\n", c.holdings)
		return subcommands.ExitUsageError
	}

	a, ok := openOrFail(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.Close()

	if _, watched := a.store.Token(id); watched {
		fmt.Fprintf(stdout, "%s is already in the watchlist.\n", id)
		return subcommands.ExitSuccess
	}

	candidate := watchlist.Candidate{ID: id, Name: c.name, Symbol: c.symbol, ImageURL: c.image}
	if c.name == "" || c.symbol == "" {
		found, err := lookup(ctx, a.store, id)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error looking up %q: %v\n", id, err)
			return subcommands.ExitFailure
		}
		candidate = merge(candidate, found)
	}

	a.store.AddToken(candidate.ID, candidate.Name, candidate.Symbol, candidate.ImageURL)
	if c.holdings != 0 {
		if err := a.store.UpdateHoldings(id, c.holdings); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
	}
	if err := a.store.RefreshPrices(ctx, []string{id}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not fetch the price of %s: %v\n", id, err)
	}

	fmt.Fprintf(stdout, "Added %s (%s) to the watchlist.\n", candidate.Name, strings.ToUpper(candidate.Symbol))
	return subcommands.ExitSuccess
}

// errUnknownToken is returned by lookup when the search has no exact match.
var errUnknownToken = errors.New("no token with this id, try 'wl search'")

// lookup searches for the candidate with exactly that id.
func lookup(ctx context.Context, store *watchlist.Store, id string) (watchlist.Candidate, error) {
	results, err := store.SearchTokens(ctx, id)
	defer store.ClearSearchResults()
	if err != nil {
		return watchlist.Candidate{}, err
	}
	for _, r := range results {
		if r.ID == id {
			return r, nil
		}
	}
	return watchlist.Candidate{}, errUnknownToken
}

// merge completes the fields of c missing from found.
func merge(c, found watchlist.Candidate) watchlist.Candidate {
	if c.Name == "" {
		c.Name = found.Name
	}
	if c.Symbol == "" {
		c.Symbol = found.Symbol
	}
	if c.ImageURL == "" {
		c.ImageURL = found.ImageURL
	}
	return c
}
