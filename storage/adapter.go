package storage

import (
	"encoding/json"
	"errors"
	"log"

	"github.com/etnz/watchlist"
)

// DefaultKey is the key holding the snapshot document.
const DefaultKey = "token-portfolio-data"

// Adapter stores a watchlist.Snapshot as a JSON document under a single key.
//
// It is best-effort: every failure is logged as a *watchlist.StorageError and
// only reported as false.
type Adapter struct {
	KV  KV
	Key string // DefaultKey if empty
}

var _ watchlist.Persister = (*Adapter)(nil)

func (a *Adapter) key() string {
	if a.Key == "" {
		return DefaultKey
	}
	return a.Key
}

// Save writes s. It returns false on failure.
func (a *Adapter) Save(s watchlist.Snapshot) bool {
	data, err := json.Marshal(s)
	if err != nil {
		return a.fail("save", err)
	}
	if err := a.KV.Set(a.key(), data); err != nil {
		return a.fail("save", err)
	}
	return true
}

// Load reads the snapshot. A missing or malformed document loads as absent.
func (a *Adapter) Load() (watchlist.Snapshot, bool) {
	data, err := a.KV.Get(a.key())
	if errors.Is(err, ErrNotFound) {
		return watchlist.Snapshot{}, false
	}
	if err != nil {
		return watchlist.Snapshot{}, a.fail("load", err)
	}
	var s watchlist.Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return watchlist.Snapshot{}, a.fail("load", err)
	}
	return s, true
}

// Clear deletes the snapshot. It returns false on failure.
func (a *Adapter) Clear() bool {
	if err := a.KV.Delete(a.key()); err != nil {
		return a.fail("clear", err)
	}
	return true
}

// fail logs err and returns false.
func (a *Adapter) fail(op string, err error) bool {
	serr := &watchlist.StorageError{Op: op, Key: a.key(), Err: err}
	log.Printf("storage-error op=%s key=%q err=%v", serr.Op, serr.Key, serr.Err)
	return false
}
