package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/watchlist/renderer"
	"github.com/google/subcommands"
)

// showCmd holds the flags for the 'show' subcommand.
type showCmd struct {
	update bool
}

func (*showCmd) Name() string     { return "show" }
func (*showCmd) Synopsis() string { return "display the portfolio and the watchlist" }
func (*showCmd) Usage() string {
	return `wl show [-u]

  Displays the portfolio total, its allocation and the watched tokens, with
  the prices of the last refresh.
`
}

func (c *showCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.update, "u", false, "Refresh the prices first.")
}

func (c *showCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, ok := openOrFail(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.Close()

	if c.update {
		// the error is part of the state, and shown in the report.
		if err := a.store.RefreshPrices(ctx, a.store.IDs()); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}
	printMarkdown(renderer.Report(a.store.State()))
	return subcommands.ExitSuccess
}
