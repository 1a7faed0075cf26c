// Package sources loads the operator-maintained seed, keyword, and city
// lists. All loaders treat a missing file as an empty list rather than an
// error so a partial configuration still produces a run.
package sources

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Bundle is the result of walking sources.yml.
type Bundle struct {
	// Seeds are the crawlable starting URLs.
	Seeds []string
	// Social are social-network URLs, kept aside rather than crawled since
	// those hosts block anonymous scraping.
	Social []string
	// Hashtags feed the scorer's anchor vocabulary.
	Hashtags []string
	// Priority URLs are fetched before any crawling happens.
	Priority []string
}

var socialDomains = []string{
	"instagram.com", "twitter.com", "x.com", "facebook.com", "fb.me", "t.co",
}

// LoadSources reads a nested sources.yml. The file structure is free-form:
// any string that looks like a URL becomes a seed, "#..." strings become
// hashtags, and the reserved keys urls/social/hashtags/priority_urls are
// honored at any nesting depth. Document order is preserved.
func LoadSources(path string) (*Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			zap.L().Debug("sources file missing, continuing with empty bundle", zap.String("path", path))
			return &Bundle{}, nil
		}
		return nil, eris.Wrap(err, "sources: read sources file")
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrap(err, "sources: parse sources yaml")
	}

	var b Bundle
	if len(doc.Content) > 0 {
		collect(doc.Content[0], &b)
	}

	// Social URLs that leaked into the seed list would only produce 403s.
	socialSet := make(map[string]bool, len(b.Social))
	for _, s := range b.Social {
		socialSet[strings.ToLower(s)] = true
	}
	seeds := b.Seeds[:0]
	for _, u := range b.Seeds {
		lower := strings.ToLower(u)
		if socialSet[lower] {
			continue
		}
		if isSocialDomain(lower) {
			b.Social = append(b.Social, u)
			continue
		}
		seeds = append(seeds, u)
	}
	b.Seeds = dedupe(seeds)
	b.Social = dedupe(b.Social)
	b.Hashtags = dedupe(b.Hashtags)
	b.Priority = dedupe(b.Priority)

	zap.L().Debug("sources loaded",
		zap.Int("seeds", len(b.Seeds)),
		zap.Int("social", len(b.Social)),
		zap.Int("hashtags", len(b.Hashtags)),
		zap.Int("priority", len(b.Priority)))
	return &b, nil
}

func collect(node *yaml.Node, b *Bundle) {
	switch node.Kind {
	case yaml.ScalarNode:
		s := strings.TrimSpace(node.Value)
		switch {
		case s == "":
		case isURL(s):
			b.Seeds = append(b.Seeds, s)
		case strings.HasPrefix(s, "#"):
			b.Hashtags = append(b.Hashtags, s)
		}
	case yaml.SequenceNode:
		for _, item := range node.Content {
			collect(item, b)
		}
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i].Value, node.Content[i+1]
			switch key {
			case "priority_urls":
				appendURLs(&b.Priority, value)
			case "urls":
				appendURLs(&b.Seeds, value)
			case "social":
				appendURLs(&b.Social, value)
			case "hashtags":
				appendHashtags(&b.Hashtags, value)
			default:
				collect(value, b)
			}
		}
	}
}

func appendURLs(dst *[]string, node *yaml.Node) {
	if node.Kind != yaml.SequenceNode {
		return
	}
	for _, item := range node.Content {
		if item.Kind != yaml.ScalarNode {
			continue
		}
		s := strings.TrimSpace(item.Value)
		if isURL(s) {
			*dst = append(*dst, s)
		}
	}
}

func appendHashtags(dst *[]string, node *yaml.Node) {
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if !strings.HasPrefix(s, "#") {
			s = "#" + s
		}
		*dst = append(*dst, s)
	}
	switch node.Kind {
	case yaml.ScalarNode:
		add(node.Value)
	case yaml.SequenceNode:
		for _, item := range node.Content {
			if item.Kind == yaml.ScalarNode {
				add(item.Value)
			}
		}
	}
}

func isURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func isSocialDomain(lowerURL string) bool {
	for _, d := range socialDomains {
		if strings.Contains(lowerURL, d) {
			return true
		}
	}
	return false
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, s := range items {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
