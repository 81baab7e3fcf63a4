package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type removeCmd struct{}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove tokens from the watchlist" }
func (*removeCmd) Usage() string {
	return `wl remove <id>...

  Removes the tokens from the watchlist, along with their holdings.
  Removing a token that is not watched does nothing.
`
}

func (*removeCmd) SetFlags(*flag.FlagSet) {}

func (*removeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: remove requires at least one token id.")
		return subcommands.ExitUsageError
	}
	a, ok := openOrFail(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.Close()

	for _, id := range f.Args() {
		if a.store.RemoveToken(id) {
			fmt.Fprintf(stdout, "Removed %s.\n", id)
		} else {
			fmt.Fprintf(stdout, "%s is not in the watchlist.\n", id)
		}
	}
	return subcommands.ExitSuccess
}
