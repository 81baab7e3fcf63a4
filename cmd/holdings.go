package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/etnz/watchlist"
	"github.com/google/subcommands"
)

type holdingsCmd struct{}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "set the quantity held of a token" }
func (*holdingsCmd) Usage() string {
	return `wl holdings <id> <quantity>

  Sets the quantity held of a watched token. The quantity must be a number
  greater or equal to 0; 0 keeps the token watched but out of the total.
`
}

func (*holdingsCmd) SetFlags(*flag.FlagSet) {}

func (*holdingsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "Error: holdings requires a token id and a quantity.")
		return subcommands.ExitUsageError
	}
	id := f.Arg(0)
	quantity, err := strconv.ParseFloat(f.Arg(1), 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing quantity %q: %v\n", f.Arg(1), err)
		return subcommands.ExitUsageError
	}

	a, ok := openOrFail(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.Close()

	if _, watched := a.store.Token(id); !watched {
		fmt.Fprintf(os.Stderr, "Error: %s is not in the watchlist, add it first.\n", id)
		return subcommands.ExitFailure
	}
	if err := a.store.UpdateHoldings(id, quantity); err != nil {
		var verr *watchlist.ValidationError
		if errors.As(err, &verr) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitUsageError
		}
		fmt.Fprintf(os.Stderr, "Error updating holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	t, _ := a.store.Token(id)
	fmt.Fprintf(stdout, "%s holdings: %s, worth %s.\n", t.DisplaySymbol(), strconv.FormatFloat(t.Holdings, 'f', -1, 64), watchlist.USD(t.Value))
	return subcommands.ExitSuccess
}
