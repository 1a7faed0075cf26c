package parse

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/geochicas/mapper8m/internal/model"
)

// extractStructuredEvents parses every ld+json block on the page and keeps
// the schema.org Event records. One corrupt block never aborts the rest.
func extractStructuredEvents(gq *goquery.Document, pageURL string) []model.StructuredEvent {
	var events []model.StructuredEvent
	gq.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var node any
		if err := json.Unmarshal([]byte(s.Text()), &node); err != nil {
			zap.L().Debug("parse: skipping malformed ld+json block",
				zap.String("url", pageURL),
				zap.Error(err),
			)
			return
		}
		events = append(events, eventsFromNode(node)...)
	})
	return events
}

// eventsFromNode walks a decoded JSON-LD value: a single object, an array of
// objects, or an object carrying an @graph array.
func eventsFromNode(node any) []model.StructuredEvent {
	switch v := node.(type) {
	case []any:
		var out []model.StructuredEvent
		for _, item := range v {
			out = append(out, eventsFromNode(item)...)
		}
		return out
	case map[string]any:
		if graph, ok := v["@graph"].([]any); ok {
			var out []model.StructuredEvent
			for _, item := range graph {
				out = append(out, eventsFromNode(item)...)
			}
			return out
		}
		// Substring match tolerates compound types like SocialEvent or
		// ["Event", "Festival"].
		if !strings.Contains(typeString(v["@type"]), "Event") {
			return nil
		}
		return []model.StructuredEvent{{
			Name:      stringField(v["name"]),
			StartDate: stringField(v["startDate"]),
			EndDate:   stringField(v["endDate"]),
			Image:     imageField(v["image"]),
		}}
	default:
		return nil
	}
}

// typeString renders a raw @type value; lists are joined with commas.
func typeString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ",")
	default:
		return ""
	}
}

func stringField(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// imageField accepts the common schema.org image shapes: a bare URL string,
// an array of URLs, or an ImageObject with a url property.
func imageField(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any:
		for _, item := range t {
			if s := imageField(item); s != "" {
				return s
			}
		}
	case map[string]any:
		return stringField(t["url"])
	}
	return ""
}
