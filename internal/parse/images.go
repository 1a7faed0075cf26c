package parse

import (
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/geochicas/mapper8m/internal/model"
)

// imageBlocklist rejects chrome/branding imagery by URL substring.
var imageBlocklist = []string{
	"logo", "icon", "sprite", "favicon", "header", "footer", "navbar",
	"menu", "brand", "badge", "avatar", "placeholder", "spacer", "pixel",
	"blank", "tracking",
}

// imageFeatured rewards substrings that suggest article or flyer imagery.
var imageFeatured = []string{
	"hero", "banner", "cover", "post", "flyer", "poster", "cartel",
	"convoc", "evento", "event", "8m", "marzo", "mars", "march",
	"featured", "destacad",
}

// collectImages gathers image candidates from meta tags, structured events,
// and <img> elements, resolves them against the page URL, deduplicates
// first-seen, drops blocklisted URLs, and orders the rest best-first. The
// sort is stable so re-running on the same input yields the same list.
func collectImages(gq *goquery.Document, pageURL string, meta map[string]string, events []model.StructuredEvent) []string {
	var raw []string
	raw = append(raw, meta["og:image"], meta["twitter:image"])
	for _, ev := range events {
		raw = append(raw, ev.Image)
	}
	gq.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		raw = append(raw, src)
	})

	seen := make(map[string]bool, len(raw))
	var candidates []string
	for _, c := range raw {
		abs := resolveURL(pageURL, c)
		if abs == "" || seen[abs] {
			continue
		}
		seen[abs] = true
		if containsAny(strings.ToLower(abs), imageBlocklist) {
			continue
		}
		candidates = append(candidates, abs)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return imageScore(candidates[i]) > imageScore(candidates[j])
	})
	return candidates
}

// imageScore is the ranking heuristic: a prior, not a guarantee.
func imageScore(u string) int {
	lower := strings.ToLower(u)
	score := 0
	if containsAny(lower, imageFeatured) {
		score += 6
	}
	// Redundant safety net: blocklisted URLs are filtered before ranking,
	// but the penalty keeps the ordering sane if the filter ever loosens.
	if containsAny(lower, imageBlocklist) {
		score -= 8
	}

	path := lower
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	switch {
	case strings.HasSuffix(path, ".svg"):
		score -= 4
	case strings.HasSuffix(path, ".jpg"), strings.HasSuffix(path, ".jpeg"), strings.HasSuffix(path, ".png"):
		score += 2
	case strings.HasSuffix(path, ".webp"), strings.HasSuffix(path, ".avif"):
		score--
	}
	return score
}

func containsAny(s string, substrs []string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
