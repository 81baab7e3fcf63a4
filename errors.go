package watchlist

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrSuperseded is returned by Store.SearchTokens and Store.FetchTrendingTokens
// when a newer request was issued before this one completed. The result has
// been discarded and the Store state is unchanged.
var ErrSuperseded = errors.New("superseded by a newer request")

// RequestError reports a failed call to the market data provider: network
// error, timeout, non-2xx status or an undecodable response.
type RequestError struct {
	Op         string // "prices", "search" or "trending"
	URL        string // may be empty
	StatusCode int    // 0 if no response was received
	Err        error
}

func (e *RequestError) Error() string {
	msg := "request " + e.Op
	if e.URL != "" {
		msg += " " + e.URL
	}
	if e.StatusCode != 0 {
		msg += ": status " + strconv.Itoa(e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RequestError) Unwrap() error { return e.Err }

// asRequestError returns err as a *RequestError, wrapping it if needed.
func asRequestError(op string, err error) *RequestError {
	var re *RequestError
	if errors.As(err, &re) {
		return re
	}
	return &RequestError{Op: op, Err: err}
}

// StorageError reports a failed read, write or parse of the persisted snapshot.
// It never leaves a Persister: it is only built to be logged.
type StorageError struct {
	Op  string // "load", "save" or "clear"
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// ValidationError reports a user input rejected by a Store command. The command
// had no effect.
type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}
