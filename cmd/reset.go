package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

type resetCmd struct{}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "delete the stored watchlist" }
func (*resetCmd) Usage() string {
	return `wl reset

  Deletes the stored watchlist and holdings. The next command starts over
  with the sample tokens.
`
}

func (*resetCmd) SetFlags(*flag.FlagSet) {}

func (*resetCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	// no bootstrap: it would only write the sample tokens to delete them.
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the watchlist: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	if !a.persister.Clear() {
		fmt.Fprintln(os.Stderr, "Error: the stored watchlist could not be deleted, see the log.")
		return subcommands.ExitFailure
	}
	fmt.Fprintln(stdout, "Stored watchlist deleted.")
	return subcommands.ExitSuccess
}
