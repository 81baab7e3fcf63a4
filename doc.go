// Package watchlist provides the core of a local-first cryptocurrency
// watchlist: the set of tracked tokens, the user's holdings, and the market
// prices that value them.
//
// The core functionalities include:
//   - Store: the single authoritative collection of watched tokens, with
//     synchronous commands (add, remove, edit holdings) and asynchronous
//     operations (price refresh, search, trending) that merge their results
//     back atomically.
//   - Derivation: every token's value is its price times its holdings, and
//     the portfolio total only accounts for tokens actually held.
//   - Persistence: after every state-changing command, the Store writes a
//     Snapshot through a best-effort Persister.
//   - Scheduling: a Scheduler drives periodic price refreshes without ever
//     overlapping two of them.
//
// Market data is provided by a PriceSource (see the coingecko package) and
// durability by a Persister (see the storage package). This package serves as
// the foundational logic for the `wl` command-line tool.
package watchlist
