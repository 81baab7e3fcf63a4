package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/watchlist/renderer"
	"github.com/google/subcommands"
)

type searchCmd struct{}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search tokens by name or symbol" }
func (*searchCmd) Usage() string {
	return `wl search <query...>

  Searches CoinGecko for tokens matching the query and lists up to 10 of them,
  with the id to use with 'wl add'.
`
}

func (*searchCmd) SetFlags(*flag.FlagSet) {}

func (*searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	query := strings.TrimSpace(strings.Join(f.Args(), " "))
	if query == "" {
		fmt.Fprintln(os.Stderr, "Error: search requires a query.")
		return subcommands.ExitUsageError
	}

	a, ok := openOrFail(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.Close()

	results, err := a.store.SearchTokens(ctx, query)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error searching %q: %v\n", query, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Candidates(fmt.Sprintf("Search results for %q", query), results))
	return subcommands.ExitSuccess
}
