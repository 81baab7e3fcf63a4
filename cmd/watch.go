package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/watchlist"
	"github.com/etnz/watchlist/renderer"
	"github.com/google/subcommands"
	"golang.org/x/sync/errgroup"
)

// watchCmd holds the flags for the 'watch' subcommand.
type watchCmd struct {
	interval time.Duration
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "display the watchlist and keep its prices up to date" }
func (*watchCmd) Usage() string {
	return `wl watch [-interval <duration>]

  Refreshes the prices immediately, then at every interval, and displays the
  watchlist after every refresh. Stops on Ctrl-C.

  The default interval comes from the configuration (30s).
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.interval, "interval", 0, "Refresh interval, e.g. 1m. Defaults to the configured interval.")
}

func (c *watchCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, ok := openOrFail(ctx)
	if !ok {
		return subcommands.ExitFailure
	}
	defer a.Close()

	interval := c.interval
	if interval <= 0 {
		interval = a.cfg.RefreshInterval()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if err := watch(ctx, a.store, interval, cancel); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// watch runs the refresh scheduler and renders the watchlist after each
// refresh, until ctx is done or stop is called by a signal.
func watch(ctx context.Context, store *watchlist.Store, interval time.Duration, stop context.CancelFunc) error {
	updates, unsubscribe := store.Subscribe()
	defer unsubscribe()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sched := &watchlist.Scheduler{Store: store, Interval: interval}
		return sched.Run(ctx)
	})

	g.Go(func() error {
		var rendered uint64
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-updates:
				st := store.State()
				// wait for the refresh to complete, and skip versions already drawn.
				if st.Loading || st.Version <= rendered {
					continue
				}
				rendered = st.Version
				fmt.Fprint(stdout, "\033[H\033[2J")
				printMarkdown(renderer.Report(st))
			}
		}
	})

	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)
		select {
		case sig := <-quit:
			log.Printf("stop-watch signal=%v", sig)
			stop()
		case <-ctx.Done():
		}
		return nil
	})

	return g.Wait()
}
