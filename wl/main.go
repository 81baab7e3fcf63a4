// Command wl tracks a watchlist of crypto tokens and the value of their holdings.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/watchlist/cmd"
	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(commander.CommandsCommand(), "")

	cmd.Register(commander)
	cmd.Complete(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
