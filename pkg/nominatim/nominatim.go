// Package nominatim is a minimal OpenStreetMap Nominatim search client with
// a persistent sqlite result cache. Nominatim's usage policy allows at most
// one request per second, so the client rate-limits itself and callers are
// expected to share one instance.
package nominatim

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://nominatim.openstreetmap.org/search"

// Result is a geocoding hit.
type Result struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Client geocodes free-form queries. Safe for concurrent use.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *cache
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the Nominatim endpoint, mainly for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithUserAgent sets the User-Agent header. Nominatim requires an
// identifying one.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithMinDelay sets the minimum spacing between requests.
func WithMinDelay(d time.Duration) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// New creates a Client. cachePath is the sqlite cache location; an empty
// path disables caching.
func New(cachePath string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL:    defaultBaseURL,
		userAgent:  "mapper8m/1.0 (public observatory)",
		httpClient: &http.Client{Timeout: 20 * time.Second},
		limiter:    rate.NewLimiter(rate.Every(1100*time.Millisecond), 1),
	}
	for _, opt := range opts {
		opt(c)
	}

	if cachePath != "" {
		var err error
		c.cache, err = openCache(cachePath)
		if err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Close releases the cache database.
func (c *Client) Close() error {
	if c.cache == nil {
		return nil
	}
	return c.cache.close()
}

var spaceRun = regexp.MustCompile(`\s+`)

func normQuery(q string) string {
	return strings.ToLower(spaceRun.ReplaceAllString(strings.TrimSpace(q), " "))
}

// Geocode resolves a free-form query to its best hit. A cached entry,
// including a cached non-match, short-circuits the HTTP call. Returns
// (nil, nil) when nothing matches.
func (c *Client) Geocode(ctx context.Context, query string) (*Result, error) {
	norm := normQuery(query)
	if norm == "" {
		return nil, nil
	}

	if c.cache != nil {
		if res, found, err := c.cache.get(norm); err == nil && found {
			zap.L().Debug("nominatim: cache hit", zap.String("query", norm))
			return res, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "nominatim: rate limiter wait")
	}

	params := url.Values{
		"q":      {query},
		"format": {"jsonv2"},
		"limit":  {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("nominatim: status %d for query %q", resp.StatusCode, norm)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "nominatim: read body")
	}

	var hits []Result
	if err := json.Unmarshal(body, &hits); err != nil {
		return nil, eris.Wrap(err, "nominatim: parse response")
	}

	var res *Result
	if len(hits) > 0 {
		res = &hits[0]
	}
	if c.cache != nil {
		// Non-matches are cached too so a bad query costs one request total.
		if err := c.cache.put(norm, res); err != nil {
			zap.L().Debug("nominatim: cache write failed", zap.Error(err))
		}
	}
	return res, nil
}
