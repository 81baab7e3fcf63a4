package watchlist

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/kylelemons/godebug/pretty"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	on := time.Date(2025, 8, 1, 12, 30, 15, 500_000_000, time.UTC)
	snapshot := Snapshot{
		Tokens: []Token{
			RecomputeValue(Token{ID: "solana", Name: "Solana", Symbol: "sol", CurrentPrice: 150, Holdings: 15, Sparkline7d: []float64{140, 150}}),
			RecomputeValue(Token{ID: "bitcoin", Name: "Bitcoin", Symbol: "btc", CurrentPrice: 50000, Holdings: 0.05}),
			{ID: "pepe", Name: "Pepe", Symbol: "pepe"},
		},
		LastUpdated: &on,
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		t.Fatalf("Marshal() unexpected error: %v", err)
	}
	var got Snapshot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("Unmarshal(%s) unexpected error: %v", data, err)
	}

	if diff := pretty.Compare(got.Tokens, snapshot.Tokens); diff != "" {
		t.Errorf("tokens diff (-got +want):\n%s", diff)
	}
	if got.LastUpdated == nil || !got.LastUpdated.Equal(on) {
		t.Errorf("LastUpdated = %v, want %v", got.LastUpdated, on)
	}
}

func TestSnapshot_MarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot
		want     string
	}{
		{
			name:     "empty",
			snapshot: Snapshot{},
			want:     `{"tokens":[],"lastUpdated":null}`,
		},
		{
			name: "token without sparkline",
			snapshot: Snapshot{
				Tokens: []Token{{ID: "bitcoin", Name: "Bitcoin", Symbol: "btc", CurrentPrice: 2, Holdings: 3, Value: 6}},
			},
			want: `{"tokens":[{"id":"bitcoin","name":"Bitcoin","symbol":"btc","image":"","current_price":2,"price_change_percentage_24h":0,"holdings":3,"value":6}],"lastUpdated":null}`,
		},
		{
			name: "token with sparkline and local time",
			snapshot: Snapshot{
				Tokens:      []Token{{ID: "a", Sparkline7d: []float64{1, 2}}},
				LastUpdated: ptr(time.Date(2025, 8, 1, 14, 0, 0, 0, time.FixedZone("CEST", 2*3600))),
			},
			want: `{"tokens":[{"id":"a","name":"","symbol":"","image":"","current_price":0,"price_change_percentage_24h":0,"sparkline_in_7d":{"price":[1,2]},"holdings":0,"value":0}],"lastUpdated":"2025-08-01T12:00:00Z"}`,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := json.Marshal(tc.snapshot)
			if err != nil {
				t.Fatalf("Marshal() unexpected error: %v", err)
			}
			if string(got) != tc.want {
				t.Errorf("Marshal() =\n%s\nwant\n%s", got, tc.want)
			}
		})
	}
}

func TestSnapshot_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name        string
		doc         string
		wantIDs     []string
		wantUpdated bool
		wantErr     bool
	}{
		{
			name:    "legacy local time",
			doc:     `{"tokens":[{"id":"bitcoin","current_price":1,"holdings":2,"value":2}],"lastUpdated":"10:42:07 AM"}`,
			wantIDs: []string{"bitcoin"},
		},
		{
			name:        "rfc3339",
			doc:         `{"tokens":[],"lastUpdated":"2025-08-01T12:30:00.000Z"}`,
			wantUpdated: true,
		},
		{
			name: "null time",
			doc:  `{"tokens":[],"lastUpdated":null}`,
		},
		{
			name:    "missing tokens",
			doc:     `{}`,
			wantIDs: nil,
		},
		{
			name:    "malformed",
			doc:     `{"tokens":[`,
			wantErr: true,
		},
		{
			name:    "wrong type",
			doc:     `{"tokens":"bitcoin"}`,
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var s Snapshot
			err := json.Unmarshal([]byte(tc.doc), &s)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tc.wantErr)
			}
			if tc.wantErr {
				return
			}
			var ids []string
			for _, tok := range s.Tokens {
				ids = append(ids, tok.ID)
			}
			if strings.Join(ids, ",") != strings.Join(tc.wantIDs, ",") {
				t.Errorf("ids = %v, want %v", ids, tc.wantIDs)
			}
			if (s.LastUpdated != nil) != tc.wantUpdated {
				t.Errorf("LastUpdated = %v, want set: %v", s.LastUpdated, tc.wantUpdated)
			}
		})
	}
}

func TestSnapshot_UnmarshalRecomputesValue(t *testing.T) {
	var s Snapshot
	doc := `{"tokens":[{"id":"a","current_price":4,"holdings":2,"value":1000}],"lastUpdated":null}`
	if err := json.Unmarshal([]byte(doc), &s); err != nil {
		t.Fatal(err)
	}
	if got := s.Tokens[0].Value; got != 8 {
		t.Errorf("Value = %v, want 8", got)
	}
}

func TestSnapshot_Normalize(t *testing.T) {
	s := Snapshot{Tokens: []Token{
		{ID: ""},
		{ID: "a", Name: "first", CurrentPrice: 2, Holdings: 1},
		{ID: "a", Name: "second"},
		{ID: "b", Holdings: -4, PriceChangePercentage24h: math.NaN()},
	}}
	got := s.Normalize()
	want := []Token{
		{ID: "a", Name: "first", CurrentPrice: 2, Holdings: 1, Value: 2},
		{ID: "b"},
	}
	if diff := pretty.Compare(got.Tokens, want); diff != "" {
		t.Errorf("Normalize() diff (-got +want):\n%s", diff)
	}
}

func ptr[T any](v T) *T { return &v }
