package parse

import (
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/rotisserie/eris"

	"github.com/geochicas/mapper8m/internal/model"
)

// parseFeed handles RSS/Atom bodies served with an HTML content type. The
// feed's items become the document text so downstream scoring still sees the
// content instead of silently dropping it.
func parseFeed(pageURL, body string) (*model.ParsedDocument, error) {
	feed, err := gofeed.NewParser().ParseString(body)
	if err != nil {
		return nil, eris.Wrap(err, "parse: feed")
	}

	doc := &model.ParsedDocument{
		URL:  pageURL,
		Meta: make(map[string]string, len(metaTags)),
	}
	for _, mt := range metaTags {
		doc.Meta[mt.key] = ""
	}

	doc.Title = collapseWhitespace(feed.Title)

	var parts []string
	push := func(s string) {
		t := collapseWhitespace(stripTags(s))
		if len([]rune(t)) >= minFragmentLen {
			parts = append(parts, t)
		}
	}
	push(feed.Description)
	for _, item := range feed.Items {
		push(item.Title)
		push(item.Description)
	}
	doc.Text = strings.Join(parts, "\n")

	seen := make(map[string]bool)
	add := func(raw string) {
		abs := resolveURL(pageURL, raw)
		if abs == "" || seen[abs] {
			return
		}
		seen[abs] = true
		if containsAny(strings.ToLower(abs), imageBlocklist) {
			return
		}
		doc.Images = append(doc.Images, abs)
	}
	if feed.Image != nil {
		add(feed.Image.URL)
	}
	for _, item := range feed.Items {
		if item.Image != nil {
			add(item.Image.URL)
		}
		for _, enc := range item.Enclosures {
			if strings.HasPrefix(enc.Type, "image/") {
				add(enc.URL)
			}
		}
	}

	return doc, nil
}

// stripTags removes markup that feeds commonly embed in descriptions.
func stripTags(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
			b.WriteByte(' ')
		case !inTag:
			b.WriteRune(r)
		}
	}
	return b.String()
}
