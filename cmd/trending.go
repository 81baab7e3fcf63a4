package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/watchlist/renderer"
	"github.com/google/subcommands"
)

type trendingCmd struct{}

func (*trendingCmd) Name() string     { return "trending" }
func (*trendingCmd) Synopsis() string { return "list the currently trending tokens" }
func (*trendingCmd) Usage() string {
	return `wl trending

  Lists up to 8 tokens currently trending on CoinGecko.
`
}

func (*trendingCmd) SetFlags(*flag.FlagSet) {}

func (*trendingCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, ok := openOrFail(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.Close()

	results, err := a.store.FetchTrendingTokens(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching trending tokens: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Candidates("Trending", results))
	return subcommands.ExitSuccess
}
