// Package coingecko implements a watchlist.PriceSource on top of the CoinGecko
// public API.
package coingecko

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/watchlist"
)

const (
	DefaultBaseURL           = "https://api.coingecko.com/api/v3"
	DefaultTimeout           = 10 * time.Second
	DefaultRequestsPerMinute = 30 // public tier
	DefaultCacheTTL          = 5 * time.Minute

	maxSearchResults   = 10
	maxTrendingResults = 8

	apiKeyHeader = "x-cg-demo-api-key"
)

// Options configures a Client. The zero value is usable.
type Options struct {
	BaseURL           string        // DefaultBaseURL if empty
	APIKey            string        // optional demo key
	Timeout           time.Duration // DefaultTimeout if 0
	RequestsPerMinute int           // DefaultRequestsPerMinute if 0, unlimited if negative
	CacheDir          string        // os.TempDir() if empty
	CacheTTL          time.Duration // DefaultCacheTTL if 0, no cache if negative
	Verbose           bool          // log every request that reaches the network
}

// Client is a CoinGecko client. It is safe for concurrent use.
type Client struct {
	baseURL string
	apiKey  string
	direct  *http.Client // prices are never cached
	cached  *http.Client // search and trending
}

var _ watchlist.PriceSource = (*Client)(nil)

// New returns a Client configured by opts.
func New(opts Options) *Client {
	base := strings.TrimSuffix(opts.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	limited := &limitedTransport{
		base:    http.DefaultTransport,
		limiter: newLimiter(opts.RequestsPerMinute),
		verbose: opts.Verbose,
	}
	c := &Client{
		baseURL: base,
		apiKey:  opts.APIKey,
		direct:  &http.Client{Transport: limited, Timeout: timeout},
	}
	c.cached = c.direct
	if opts.CacheTTL >= 0 {
		ttl := opts.CacheTTL
		if ttl == 0 {
			ttl = DefaultCacheTTL
		}
		dir := opts.CacheDir
		if dir == "" {
			dir = os.TempDir()
		}
		c.cached = &http.Client{
			Transport: &diskCache{base: limited, dir: dir, ttl: ttl, now: time.Now},
			Timeout:   timeout,
		}
	}
	return c
}

// market is a single item of the /coins/markets response.
type market struct {
	ID                       string  `json:"id"`
	CurrentPrice             float64 `json:"current_price"`
	PriceChangePercentage24h float64 `json:"price_change_percentage_24h"`
	Sparkline                *struct {
		Price []float64 `json:"price"`
	} `json:"sparkline_in_7d"`
}

// Prices returns the USD quotes of ids, with their 24h change and 7 days
// sparkline, in a single request. Ids unknown to CoinGecko are missing from
// the result.
func (c *Client) Prices(ctx context.Context, ids []string) ([]watchlist.Quote, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := url.Values{
		"vs_currency":             {"usd"},
		"ids":                     {strings.Join(ids, ",")},
		"order":                   {"market_cap_desc"},
		"per_page":                {"100"},
		"page":                    {"1"},
		"sparkline":               {"true"},
		"price_change_percentage": {"24h"},
	}
	var markets []market
	if err := c.jwget(ctx, c.direct, "prices", c.baseURL+"/coins/markets?"+q.Encode(), &markets); err != nil {
		return nil, err
	}

	quotes := make([]watchlist.Quote, 0, len(markets))
	for _, m := range markets {
		quote := watchlist.Quote{
			ID:                       m.ID,
			CurrentPrice:             m.CurrentPrice,
			PriceChangePercentage24h: m.PriceChangePercentage24h,
		}
		if m.Sparkline != nil {
			quote.Sparkline7d = m.Sparkline.Price
		}
		quotes = append(quotes, quote)
	}
	return quotes, nil
}

// coin is a token as described in search and trending responses.
type coin struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	Large         string `json:"large"`
	Thumb         string `json:"thumb"`
	MarketCapRank int    `json:"market_cap_rank"`
}

func (c coin) candidate() watchlist.Candidate {
	image := c.Large
	if image == "" {
		image = c.Thumb
	}
	return watchlist.Candidate{
		ID:            c.ID,
		Name:          c.Name,
		Symbol:        c.Symbol,
		ImageURL:      image,
		MarketCapRank: c.MarketCapRank,
	}
}

func candidates(coins []coin, limit int) []watchlist.Candidate {
	if len(coins) > limit {
		coins = coins[:limit]
	}
	res := make([]watchlist.Candidate, 0, len(coins))
	for _, c := range coins {
		res = append(res, c.candidate())
	}
	return res
}

// Search returns up to 10 coins matching query, in CoinGecko's order.
func (c *Client) Search(ctx context.Context, query string) ([]watchlist.Candidate, error) {
	q := url.Values{"query": {strings.TrimSpace(query)}}
	var resp struct {
		Coins []coin `json:"coins"`
	}
	if err := c.jwget(ctx, c.cached, "search", c.baseURL+"/search?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	return candidates(resp.Coins, maxSearchResults), nil
}

// trendingItems selects the coins of a /search/trending response.
const trendingItems = "$.coins[*].item"

// Trending returns up to 8 currently trending coins.
func (c *Client) Trending(ctx context.Context) ([]watchlist.Candidate, error) {
	addr := c.baseURL + "/search/trending"
	var jobj any
	if err := c.jwget(ctx, c.cached, "trending", addr, &jobj); err != nil {
		return nil, err
	}
	jval, err := jsonpath.Get(trendingItems, jobj)
	if err != nil {
		return nil, &watchlist.RequestError{Op: "trending", URL: addr, Err: fmt.Errorf("error parsing %q: %w", trendingItems, err)}
	}
	// jval is a generic list of objects, decode it again into coins.
	data, err := json.Marshal(jval)
	if err != nil {
		return nil, &watchlist.RequestError{Op: "trending", URL: addr, Err: err}
	}
	var coins []coin
	if err := json.Unmarshal(data, &coins); err != nil {
		return nil, &watchlist.RequestError{Op: "trending", URL: addr, Err: fmt.Errorf("error parsing %q: %w", trendingItems, err)}
	}
	return candidates(coins, maxTrendingResults), nil
}

// jwget performs an HTTP GET request to addr with client and unmarshals the
// JSON response body into data. Every failure is a *watchlist.RequestError.
func (c *Client) jwget(ctx context.Context, client *http.Client, op, addr string, data any) error {
	fail := func(status int, err error) error {
		return &watchlist.RequestError{Op: op, URL: addr, StatusCode: status, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return fail(0, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fail(0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fail(resp.StatusCode, fmt.Errorf("cannot http GET %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status))
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return fail(resp.StatusCode, err)
	}
	if err := json.Unmarshal(buf.Bytes(), data); err != nil {
		return fail(resp.StatusCode, fmt.Errorf("decoding response: %w", err))
	}
	return nil
}
