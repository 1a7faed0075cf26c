// Package crawl assembles the candidate URL list for a run: priority URLs
// first, then links discovered on each seed's front page, same-domain only
// and bounded on every axis.
package crawl

import (
	"context"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Limits bounds candidate discovery. Zero values fall back to the listed
// defaults.
type Limits struct {
	MaxSeeds           int // default 150
	MaxPagesPerSeed    int // default 60
	MaxPriorityURLs    int // default 1200
	MaxTotalCandidates int // default 2500
}

func (l Limits) withDefaults() Limits {
	if l.MaxSeeds == 0 {
		l.MaxSeeds = 150
	}
	if l.MaxPagesPerSeed == 0 {
		l.MaxPagesPerSeed = 60
	}
	if l.MaxPriorityURLs == 0 {
		l.MaxPriorityURLs = 1200
	}
	if l.MaxTotalCandidates == 0 {
		l.MaxTotalCandidates = 2500
	}
	return l
}

// Fetcher is the page-download dependency, satisfied by fetch.Client.
type Fetcher interface {
	Page(ctx context.Context, rawURL string, useCache bool) string
}

// Candidates builds the deduplicated candidate list. Priority URLs pass
// through unfetched; each seed's page is fetched and mined for same-domain
// links.
func Candidates(ctx context.Context, f Fetcher, priority, seeds []string, limits Limits, useCache bool) []string {
	limits = limits.withDefaults()

	var out []string
	seen := make(map[string]bool)
	add := func(u string) bool {
		if seen[u] {
			return false
		}
		seen[u] = true
		out = append(out, u)
		return true
	}

	for i, u := range priority {
		if i >= limits.MaxPriorityURLs || len(out) >= limits.MaxTotalCandidates {
			break
		}
		add(u)
	}

	for i, seed := range seeds {
		if i >= limits.MaxSeeds || len(out) >= limits.MaxTotalCandidates {
			break
		}
		if ctx.Err() != nil {
			break
		}

		html := f.Page(ctx, seed, useCache)
		if html == "" {
			continue
		}

		picked := 0
		for _, link := range ExtractLinks(seed, html) {
			if len(out) >= limits.MaxTotalCandidates || picked >= limits.MaxPagesPerSeed {
				break
			}
			if !SameDomain(seed, link) {
				continue
			}
			if add(link) {
				picked++
			}
		}
		if picked > 0 {
			zap.L().Debug("crawl: seed mined", zap.String("seed", seed), zap.Int("picked", picked))
		}
	}

	zap.L().Info("crawl: candidates assembled", zap.Int("total", len(out)))
	return out
}

// ExtractLinks returns the absolute, fragment-stripped http(s) URLs of all
// a[href] elements, deduplicated in document order.
func ExtractLinks(baseURL, html string) []string {
	base, err := url.Parse(strings.TrimSpace(baseURL))
	if err != nil || base.Host == "" {
		return nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var out []string
	seen := make(map[string]bool)
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") {
			return
		}
		lower := strings.ToLower(href)
		for _, scheme := range []string{"mailto:", "tel:", "javascript:", "data:"} {
			if strings.HasPrefix(lower, scheme) {
				return
			}
		}

		abs, err := base.Parse(href)
		if err != nil {
			return
		}
		abs.Fragment = ""
		if abs.Scheme != "http" && abs.Scheme != "https" {
			return
		}
		s := abs.String()
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	})
	return out
}

// SameDomain reports whether two URLs share a host, ignoring a leading
// "www." label.
func SameDomain(a, b string) bool {
	ha, hb := hostOf(a), hostOf(b)
	return ha != "" && ha == hb
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}
