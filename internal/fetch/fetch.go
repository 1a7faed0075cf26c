// Package fetch downloads candidate pages politely: one shared rate
// limiter, bounded retries, and an on-disk HTML cache so repeat runs do not
// re-hit the same collectives' small web servers.
package fetch

import (
	"context"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 4 << 20

// Options configures a Client.
type Options struct {
	UserAgent      string
	Timeout        time.Duration
	MaxRetries     int
	RequestsPerSec float64
	// CacheDir enables the on-disk HTML cache when non-empty.
	CacheDir string
}

// Client fetches HTML pages. Safe for concurrent use.
type Client struct {
	client  *http.Client
	opts    Options
	limiter *rate.Limiter
	cache   *diskCache
}

// New creates a Client with the given options.
func New(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 2
	}
	if opts.RequestsPerSec == 0 {
		opts.RequestsPerSec = 8
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "mapper8m/1.0 (public observatory)"
	}

	var cache *diskCache
	if opts.CacheDir != "" {
		cache = newDiskCache(opts.CacheDir)
	}
	return &Client{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     60 * time.Second,
			},
		},
		opts:    opts,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSec), 1),
		cache:   cache,
	}
}

// Page fetches a page's HTML, consulting the cache first when useCache is
// true. A page that cannot be fetched returns "": the pipeline treats an
// empty body as a miss, not a failure.
func (c *Client) Page(ctx context.Context, rawURL string, useCache bool) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}

	if useCache && c.cache != nil {
		if body, ok := c.cache.get(rawURL); ok {
			zap.L().Debug("fetch: cache hit", zap.String("url", rawURL))
			return body
		}
	}

	body, err := c.download(ctx, rawURL)
	if err != nil {
		zap.L().Debug("fetch: miss", zap.String("url", rawURL), zap.Error(err))
		return ""
	}

	if useCache && c.cache != nil && body != "" {
		c.cache.put(rawURL, body)
	}
	return body
}

func (c *Client) download(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", eris.Wrap(err, "fetch: create request")
	}
	req.Header.Set("User-Agent", c.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.5")

	var lastErr error
	for attempt := 0; attempt <= c.opts.MaxRetries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "fetch: rate limiter wait")
		}

		resp, err := c.client.Do(req.Clone(ctx))
		if err != nil {
			lastErr = err
			c.backoff(ctx, attempt)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			_ = resp.Body.Close()
			lastErr = eris.Errorf("fetch: http %d from %s", resp.StatusCode, rawURL)
			c.backoff(ctx, attempt)
			continue
		case resp.StatusCode >= 400:
			_ = resp.Body.Close()
			return "", eris.Errorf("fetch: http %d from %s", resp.StatusCode, rawURL)
		}

		if !htmlContentType(resp.Header.Get("Content-Type")) {
			_ = resp.Body.Close()
			return "", eris.Errorf("fetch: non-page content type %q from %s",
				resp.Header.Get("Content-Type"), rawURL)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		_ = resp.Body.Close()
		if err != nil {
			lastErr = eris.Wrap(err, "fetch: read body")
			c.backoff(ctx, attempt)
			continue
		}
		return string(data), nil
	}
	return "", eris.Wrap(lastErr, "fetch: retries exhausted")
}

// htmlContentType accepts page-like content types. Feeds pass through since
// the parser handles RSS/Atom input. An absent header is accepted; small
// sites often misconfigure it.
func htmlContentType(ct string) bool {
	if ct == "" {
		return true
	}
	ct = strings.ToLower(ct)
	for _, ok := range []string{"text/html", "application/xhtml", "text/xml", "application/xml", "application/rss", "application/atom", "text/plain"} {
		if strings.HasPrefix(ct, ok) {
			return true
		}
	}
	return false
}

func (c *Client) backoff(ctx context.Context, attempt int) {
	d := time.Duration(float64(time.Second) * math.Pow(2, float64(attempt)))
	if d > 20*time.Second {
		d = 20 * time.Second
	}
	d += time.Duration(rand.Int64N(int64(d) / 2))

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
