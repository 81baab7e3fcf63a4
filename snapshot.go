package watchlist

import (
	"encoding/json"
	"fmt"
	"log"
	"time"
)

// Snapshot is the persisted unit of the watchlist: the ordered tokens and the
// time of the last successful price refresh. Everything else is session
// transient.
type Snapshot struct {
	Tokens      []Token
	LastUpdated *time.Time // nil until the first successful refresh
}

// Normalize returns a copy of s that satisfies the watchlist invariants:
// unique ids (first occurrence wins), no empty id, non negative amounts and
// derived values recomputed.
func (s Snapshot) Normalize() Snapshot {
	seen := make(map[string]struct{}, len(s.Tokens))
	tokens := make([]Token, 0, len(s.Tokens))
	for _, t := range s.Tokens {
		if t.ID == "" {
			continue
		}
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		tokens = append(tokens, t.sanitize())
	}
	n := Snapshot{Tokens: tokens}
	if s.LastUpdated != nil {
		on := *s.LastUpdated
		n.LastUpdated = &on
	}
	return n
}

// MarshalJSON writes the snapshot document {"tokens":[...],"lastUpdated":...}.
func (s Snapshot) MarshalJSON() ([]byte, error) {
	tokens := s.Tokens
	if tokens == nil {
		tokens = []Token{}
	}
	var lastUpdated *string
	if s.LastUpdated != nil {
		ts := s.LastUpdated.UTC().Format(time.RFC3339Nano)
		lastUpdated = &ts
	}

	var w jsonObjectWriter
	w.Append("tokens", tokens)
	w.Append("lastUpdated", lastUpdated)
	return w.MarshalJSON()
}

// UnmarshalJSON reads a snapshot document.
//
// A lastUpdated that is not an RFC 3339 timestamp (older documents stored a
// local time string) is read as null instead of failing the whole document.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	type jsnapshot struct {
		Tokens      []Token `json:"tokens"`
		LastUpdated *string `json:"lastUpdated"`
	}
	var js jsnapshot
	if err := json.Unmarshal(data, &js); err != nil {
		return fmt.Errorf("format error in snapshot: %w", err)
	}
	*s = Snapshot{Tokens: js.Tokens}
	if js.LastUpdated != nil {
		on, err := time.Parse(time.RFC3339Nano, *js.LastUpdated)
		if err != nil {
			log.Printf("ignore-last-updated value=%q err=%v", *js.LastUpdated, err)
			return nil
		}
		s.LastUpdated = &on
	}
	return nil
}
