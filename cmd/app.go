// Package cmd implements the CLI application to manage a crypto watchlist.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/watchlist"
	"github.com/etnz/watchlist/coingecko"
	"github.com/etnz/watchlist/config"
	"github.com/etnz/watchlist/storage"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for _, cmd := range commands() {
		c.Register(cmd, groupOf[cmd.Name()])
	}
}

// commands returns a new instance of every subcommand.
func commands() []subcommands.Command {
	return []subcommands.Command{
		&addCmd{},
		&removeCmd{},
		&holdingsCmd{},
		&refreshCmd{},
		&showCmd{},
		&watchCmd{},
		&searchCmd{},
		&trendingCmd{},
		&resetCmd{},
		&topicCmd{},
	}
}

var groupOf = map[string]string{
	"add":      "watchlist",
	"remove":   "watchlist",
	"holdings": "watchlist",
	"refresh":  "watchlist",
	"show":     "watchlist",
	"watch":    "watchlist",
	"search":   "discovery",
	"trending": "discovery",
	"reset":    "storage",
	"topic":    "help",
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", config.DefaultPath(), "Path to the YAML configuration file. A missing file means the default configuration.")
var verbose = flag.Bool("v", false, "Log every request sent to the market data provider.")

// stdout is where the commands print their reports.
var stdout io.Writer = os.Stdout

// app is the set of objects a command works with.
type app struct {
	cfg       *config.Config
	kv        storage.KV
	persister *storage.Adapter
	store     *watchlist.Store
}

// openApp loads the configuration and opens the storage.
func openApp() (*app, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	kv, err := storage.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	persister := &storage.Adapter{KV: kv, Key: cfg.Storage.Key}
	client := coingecko.New(cfg.ClientOptions(*verbose))
	return &app{
		cfg:       cfg,
		kv:        kv,
		persister: persister,
		store:     watchlist.NewStore(client, persister),
	}, nil
}

// openStore opens the application and bootstraps the watchlist on first run.
// A failed bootstrap refresh is only logged: prices are simply missing.
func openStore(ctx context.Context) (*app, error) {
	a, err := openApp()
	if err != nil {
		return nil, err
	}
	if err := watchlist.Bootstrap(ctx, a.store); err != nil {
		log.Printf("bootstrap-refresh err=%v", err)
	}
	return a, nil
}

// Close releases the storage.
func (a *app) Close() {
	if c, ok := a.kv.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.Printf("close-storage err=%v", err)
		}
	}
}

// openOrFail opens the application, or prints the error and returns false.
func openOrFail(ctx context.Context) (*app, bool) {
	a, err := openStore(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening the watchlist: %v\n", err)
		return nil, false
	}
	return a, true
}

// printMarkdown renders markdown for the terminal, or prints it raw if it
// cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}
