package cmd

import (
	"flag"
	"strings"

	"github.com/etnz/watchlist/docs"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Complete handles the shell completion request, if there is one (the
// COMP_LINE environment variable is set), and exits. It does nothing
// otherwise.
//
// To install it in bash: complete -C wl wl
func Complete(commander *subcommands.Commander) {
	completion(commander).Complete(commander.Name())
}

// completion returns the completion tree of the commander's subcommands and flags.
func completion(commander *subcommands.Commander) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: flagPredictors(flag.CommandLine),
	}
	root.Flags["config"] = predict.Files("*.yaml")

	commander.VisitCommands(func(_ *subcommands.CommandGroup, c subcommands.Command) {
		fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		c.SetFlags(fs)
		root.Sub[c.Name()] = &complete.Command{
			Flags: flagPredictors(fs),
			Args:  argsPredictor(c.Name()),
		}
	})
	return root
}

// flagPredictors predicts nothing for boolean flags, and something for others.
func flagPredictors(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = predict.Nothing
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}

// argsPredictor returns the positional arguments predictor of a subcommand.
func argsPredictor(name string) complete.Predictor {
	switch name {
	case "remove", "holdings":
		return complete.PredictFunc(predictWatchedIDs)
	case "search", "add":
		return predict.Something
	case "topic":
		topics, _ := docs.All()
		return predict.Set(append(topics, docs.Readme))
	}
	return predict.Nothing
}

// predictWatchedIDs returns the ids of the stored watchlist that start with prefix.
// It never touches the network.
func predictWatchedIDs(prefix string) []string {
	a, err := openApp()
	if err != nil {
		return nil
	}
	defer a.Close()

	var ids []string
	for _, id := range a.store.IDs() {
		if strings.HasPrefix(id, prefix) {
			ids = append(ids, id)
		}
	}
	return ids
}
