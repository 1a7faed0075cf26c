// Package parse turns raw page bodies into normalized documents for the
// relevance scorer and field extractor.
package parse

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/geochicas/mapper8m/internal/model"
)

// minFragmentLen filters nav/button fragments out of the body text. Short
// genuine one-line announcements are dropped too; that trade-off is accepted.
const minFragmentLen = 20

// xmlSniffWindow is how far into the body the feed markers are looked for.
const xmlSniffWindow = 500

// metaTags maps output keys to the attribute used to locate the tag.
// Open Graph tags use property=, Twitter Card tags use name=.
var metaTags = []struct {
	key  string
	attr string
}{
	{"og:title", "property"},
	{"og:description", "property"},
	{"og:image", "property"},
	{"og:site_name", "property"},
	{"og:url", "property"},
	{"article:published_time", "property"},
	{"article:modified_time", "property"},
	{"twitter:image", "name"},
}

// Parse converts raw HTML (or a feed mislabeled as HTML) plus its source URL
// into a ParsedDocument. It never panics; unparseable input yields an error
// that the caller treats as "no event".
func Parse(pageURL, body string) (*model.ParsedDocument, error) {
	if strings.TrimSpace(body) == "" {
		return nil, eris.New("parse: empty document")
	}

	if looksLikeFeed(body) {
		doc, err := parseFeed(pageURL, body)
		if err == nil {
			return doc, nil
		}
		zap.L().Debug("parse: feed mode failed, retrying as html",
			zap.String("url", pageURL),
			zap.Error(err),
		)
	}

	return parseHTML(pageURL, body)
}

// looksLikeFeed sniffs for XML/RSS/Atom markers near the start of the body.
func looksLikeFeed(body string) bool {
	head := body
	if len(head) > xmlSniffWindow {
		head = head[:xmlSniffWindow]
	}
	head = strings.ToLower(head)
	return strings.Contains(head, "<?xml") ||
		strings.Contains(head, "<rss") ||
		strings.Contains(head, "<feed")
}

func parseHTML(pageURL, body string) (*model.ParsedDocument, error) {
	gq, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, eris.Wrap(err, "parse: html")
	}

	doc := &model.ParsedDocument{
		URL:  pageURL,
		Meta: make(map[string]string, len(metaTags)),
	}

	doc.Title = strings.TrimSpace(gq.Find("title").First().Text())
	doc.Text = extractText(gq)

	for _, mt := range metaTags {
		sel := `meta[` + mt.attr + `="` + mt.key + `"]`
		content, _ := gq.Find(sel).First().Attr("content")
		doc.Meta[mt.key] = strings.TrimSpace(content)
	}

	doc.StructuredEvents = extractStructuredEvents(gq, pageURL)
	doc.Images = collectImages(gq, pageURL, doc.Meta, doc.StructuredEvents)

	return doc, nil
}

// extractText collects heading, paragraph, and list-item text in document
// order, keeping only fragments long enough to carry content.
func extractText(gq *goquery.Document) string {
	var parts []string
	gq.Find("h1, h2, h3, p, li").Each(func(_ int, s *goquery.Selection) {
		t := collapseWhitespace(s.Text())
		if len([]rune(t)) >= minFragmentLen {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, "\n")
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// resolveURL makes candidate absolute against base. Returns "" for anything
// unusable (data: URIs, malformed input).
func resolveURL(base, candidate string) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" || strings.HasPrefix(candidate, "data:") {
		return ""
	}
	b, err := url.Parse(base)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(candidate)
	if err != nil {
		return ""
	}
	abs := b.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return ""
	}
	return abs.String()
}
