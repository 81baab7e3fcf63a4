package coingecko

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/time/rate"
)

// diskCache is a RoundTripper that keeps successful responses on disk for a
// time bucket of ttl.
type diskCache struct {
	base http.RoundTripper
	dir  string
	ttl  time.Duration
	now  func() time.Time
}

// RoundTrip implements the http.RoundTripper interface. It checks for a cached
// response on disk first. If none is found for the current time bucket, it
// proceeds with the actual HTTP request and caches the response if it's
// successful.
func (c *diskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	// keys change with the bucket, so entries expire without being deleted.
	bucket := c.now().Truncate(c.ttl).Unix()
	key := fmt.Sprintf("%d %s %s", bucket, req.Method, req.URL.String())
	key = fmt.Sprintf("coingecko-%x", sha1.Sum([]byte(key)))

	if resp, err := c.get(key, req); err == nil {
		return resp, nil
	}

	resp, err := c.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		log.Printf("cache-write key=%s err=%v (ignored)", key, err)
	}
	return resp, nil
}

// get retrieves a cached response from disk.
func (c *diskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(filepath.Join(c.dir, key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores a response on disk. The response body is left readable.
func (c *diskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.dir, key), content, 0o600)
}

// limitedTransport waits for the limiter before every request that reaches
// the network.
type limitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
	verbose bool
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	resp, err := t.base.RoundTrip(req)
	if t.verbose {
		if err != nil {
			log.Printf("%v %v%v err=%v", req.Method, req.URL.Host, req.URL.Path, err)
		} else {
			log.Printf("%v %v%v %v", req.Method, req.URL.Host, req.URL.Path, resp.Status)
		}
	}
	return resp, err
}

// newLimiter returns a token bucket allowing perMinute requests per minute, or
// an unlimited one if perMinute is negative.
func newLimiter(perMinute int) *rate.Limiter {
	if perMinute < 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if perMinute == 0 {
		perMinute = DefaultRequestsPerMinute
	}
	burst := max(1, perMinute/3)
	return rate.NewLimiter(rate.Limit(float64(perMinute)/60), burst)
}
