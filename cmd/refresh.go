package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/watchlist/renderer"
	"github.com/google/subcommands"
)

type refreshCmd struct{}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "fetch the latest prices of the watched tokens" }
func (*refreshCmd) Usage() string {
	return `wl refresh

  Fetches the price, 24h change and 7 days trend of every watched token in a
  single request, then displays the watchlist.
`
}

func (*refreshCmd) SetFlags(*flag.FlagSet) {}

func (*refreshCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, ok := openOrFail(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.Close()

	if err := a.store.RefreshPrices(ctx, a.store.IDs()); err != nil {
		fmt.Fprintf(os.Stderr, "Error refreshing prices: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Report(a.store.State()))
	return subcommands.ExitSuccess
}
