// Package extract assembles structured event fields from parsed documents
// that cleared the relevance threshold.
package extract

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/geochicas/mapper8m/internal/model"
	"github.com/geochicas/mapper8m/internal/scorer"
)

const (
	maxTitleLen       = 180
	maxDescriptionLen = 280
)

// Config carries the immutable resources the extractor needs. It is built
// once by the orchestration layer and injected; the extractor keeps no
// hidden package-level state.
type Config struct {
	// Cities is the known city-name list. Order does not matter; the
	// constructor re-sorts longest-first.
	Cities []string

	// Now supplies the clock for date resolution. Defaults to time.Now.
	Now func() time.Time
}

// Extractor derives EventRecords from parsed documents. Safe for concurrent
// use.
type Extractor struct {
	cities []string
	now    func() time.Time
}

// New builds an Extractor. An empty city list simply disables city
// detection.
func New(cfg Config) *Extractor {
	cities := append([]string(nil), cfg.Cities...)
	// Longest first, so a short name never matches inside a longer one.
	sort.SliceStable(cities, func(i, j int) bool {
		return len([]rune(cities[i])) > len([]rune(cities[j]))
	})

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Extractor{cities: cities, now: now}
}

var exactLocationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:punto de encuentro|lugar|meeting point|lieu|lloc)\s*:\s*([^\n.]{3,80})`),
	regexp.MustCompile(`(?i)\b((?:plaza|plaça|praça|praza|piazza|place|parque|square)\s+(?:de\s+|del\s+|de la\s+|d')?\p{L}[\p{L} .''-]{1,40})`),
}

// Extract assembles the final record for a document that already passed the
// scorer's gate. It performs no further rejection of its own.
func (e *Extractor) Extract(doc *model.ParsedDocument, score model.ScoreResult) *model.EventRecord {
	text := scorer.StripBoilerplate(doc.Text)
	combined := doc.Title + "\n" + text
	now := e.now()

	rec := &model.EventRecord{
		SourceURL:      doc.URL,
		CTAURL:         doc.URL,
		Title:          e.title(doc.Title, text),
		Description:    truncateClean(text, maxDescriptionLen),
		RelevanceScore: score.Score,
	}

	rec.Date, rec.Time = e.resolveWhen(doc, combined, now)
	if rec.Time == "" {
		rec.Time = ExtractTime(text)
	}

	if len(doc.Images) > 0 {
		rec.Image = doc.Images[0]
	}

	rec.City = detectCity(combined, e.cities)
	rec.Country = countryFromURL(doc.URL)
	rec.ExactLocation = exactLocation(text)

	rec.ExtractionConfidence = model.ConfidenceLow
	if rec.Date != "" && (rec.City != "" || rec.ExactLocation != "") {
		rec.ExtractionConfidence = model.ConfidenceMedium
	}

	return rec
}

// resolveWhen prefers a structured schema.org startDate over free-text
// resolution: embedded event markup is the higher-trust source when a page
// carries both.
func (e *Extractor) resolveWhen(doc *model.ParsedDocument, combined string, now time.Time) (string, string) {
	for _, ev := range doc.StructuredEvents {
		if ev.StartDate == "" {
			continue
		}
		d, err := dateparse.ParseAny(ev.StartDate)
		if err != nil || d.Year() < minSaneYear || d.Year() > maxSaneYear {
			continue
		}
		date := d.Format("2006-01-02")
		clock := ""
		if d.Hour() != 0 || d.Minute() != 0 {
			clock = d.Format("15:04")
		}
		return date, clock
	}
	return ResolveDate(combined, now), ""
}

// title cleans and truncates the document title, falling back to the first
// substantial body line.
func (e *Extractor) title(title, text string) string {
	t := truncateClean(title, maxTitleLen)
	if t != "" {
		return t
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len([]rune(line)) > 10 {
			return truncateClean(line, maxTitleLen)
		}
	}
	return ""
}

func exactLocation(text string) string {
	for _, re := range exactLocationPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// truncateClean collapses whitespace and truncates to n runes.
func truncateClean(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) > n {
		s = strings.TrimSpace(string(runes[:n]))
	}
	return s
}
