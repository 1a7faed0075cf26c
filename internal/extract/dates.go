package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// dateScanWindow truncates the input before date search. Event dates appear
// early; scanning a whole archive page mostly finds publish-date noise.
const dateScanWindow = 1600

const (
	minSaneYear = 1900
	maxSaneYear = 2100
)

// monthNumbers maps es/pt/fr/ca/en month names to their number. Accented and
// bare forms are both present because source pages use either.
var monthNumbers = map[string]time.Month{
	"enero": 1, "febrero": 2, "marzo": 3, "abril": 4, "mayo": 5, "junio": 6,
	"julio": 7, "agosto": 8, "septiembre": 9, "setiembre": 9, "octubre": 10,
	"noviembre": 11, "diciembre": 12,
	"janeiro": 1, "fevereiro": 2, "março": 3, "marco": 3, "maio": 5,
	"junho": 6, "julho": 7, "setembro": 9, "outubro": 10, "novembro": 11,
	"dezembro": 12,
	"janvier": 1, "février": 2, "fevrier": 2, "mars": 3, "avril": 4, "mai": 5,
	"juin": 6, "juillet": 7, "août": 8, "aout": 8, "septembre": 9,
	"octobre": 10, "novembre": 11, "décembre": 12, "decembre": 12,
	"gener": 1, "febrer": 2, "març": 3, "juny": 6, "juliol": 7, "setembre": 9,
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11,
	"december": 12,
}

var (
	// Years implausible as event years, and any 5+ digit run (IDs, phone
	// fragments), which free-text date search otherwise mis-reads as years.
	absurdNumber = regexp.MustCompile(`\b(?:[3-9]\d{3}|\d{5,})\b`)

	// Explicit 8-March anchors, day-first and month-first orders, with an
	// optional adjacent year.
	explicitDayFirst = regexp.MustCompile(`(?i)\b0?8\s+(?:de\s+)?(marzo|março|marco|mars|march|març)\b(?:\s+(?:de\s+|del\s+|of\s+)?((?:19|20)\d{2}))?`)
	explicitMonthFirst = regexp.MustCompile(`(?i)\bmarch\s+0?8(?:th)?\b(?:,?\s+((?:19|20)\d{2}))?`)

	monthNamePattern = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:de\s+|d')?(\p{L}+)\.?(?:\s*(?:de\s+|del\s+|,\s*)?((?:19|20)\d{2}))?`)
	isoPattern       = regexp.MustCompile(`\b((?:19|20)\d{2})-(\d{2})-(\d{2})\b`)
	numericPattern   = regexp.MustCompile(`\b(\d{1,2})[/.](\d{1,2})[/.]((?:19|20)\d{2})\b`)

	dateContextWords = []string{"marcha", "manifestaci", "concentraci", "8m", "huelga", "paro", "convoca"}
)

type dateCandidate struct {
	date  time.Time
	index int
	score int
}

// ResolveDate finds the best calendar date in free multilingual text. The
// input should be the combined title+text after boilerplate stripping. It
// never fails: when no valid candidate exists the result is "".
func ResolveDate(text string, now time.Time) string {
	text = truncateRunes(text, dateScanWindow)
	text = absurdNumber.ReplaceAllString(text, " ")

	// Explicit "8 de marzo" style mentions short-circuit free-text search,
	// which mis-resolves them amid numeric noise. An explicitly stated
	// adjacent year wins over the processing year.
	if m := explicitDayFirst.FindStringSubmatch(text); m != nil {
		return march8(m[2], now)
	}
	if m := explicitMonthFirst.FindStringSubmatch(text); m != nil {
		return march8(m[1], now)
	}

	candidates := collectCandidates(text, now)
	if len(candidates) == 0 {
		return ""
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		// Ties break by first-found order.
		if c.score > best.score {
			best = c
		}
	}
	return best.date.Format("2006-01-02")
}

func march8(yearStr string, now time.Time) string {
	year := now.Year()
	if yearStr != "" {
		if y, err := strconv.Atoi(yearStr); err == nil && y >= minSaneYear && y <= maxSaneYear {
			year = y
		}
	}
	return fmt.Sprintf("%04d-03-08", year)
}

// collectCandidates scans for month-name, ISO, and numeric date forms and
// scores each one in context.
func collectCandidates(text string, now time.Time) []dateCandidate {
	lower := strings.ToLower(text)
	var out []dateCandidate

	add := func(d time.Time, idx int) {
		if d.Year() < minSaneYear || d.Year() > maxSaneYear {
			return
		}
		out = append(out, dateCandidate{date: d, index: idx, score: scoreCandidate(d, idx, lower, now)})
	}

	for _, m := range monthNamePattern.FindAllStringSubmatchIndex(lower, -1) {
		day, _ := strconv.Atoi(lower[m[2]:m[3]])
		month, ok := monthNumbers[lower[m[4]:m[5]]]
		if !ok || day < 1 || day > 31 {
			continue
		}
		year := 0
		if m[6] >= 0 {
			year, _ = strconv.Atoi(lower[m[6]:m[7]])
		}
		d, ok := buildDate(year, month, day, now)
		if !ok {
			continue
		}
		add(d, m[0])
	}

	for _, m := range isoPattern.FindAllStringIndex(lower, -1) {
		d, err := dateparse.ParseStrict(lower[m[0]:m[1]])
		if err != nil {
			continue
		}
		add(d, m[0])
	}

	for _, m := range numericPattern.FindAllStringIndex(lower, -1) {
		// Day-first: the corpus is overwhelmingly European/Latin American.
		d, err := dateparse.ParseAny(lower[m[0]:m[1]], dateparse.PreferMonthFirst(false))
		if err != nil {
			continue
		}
		add(d, m[0])
	}

	return out
}

// buildDate validates a day/month pair and, when the year is absent, prefers
// the next occurrence relative to now.
func buildDate(year int, month time.Month, day int, now time.Time) (time.Time, bool) {
	inferred := year == 0
	if inferred {
		year = now.Year()
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	// Reject rollovers like Feb 30.
	if d.Month() != month || d.Day() != day {
		return time.Time{}, false
	}
	if inferred && d.Before(now.AddDate(0, 0, -1)) {
		d = d.AddDate(1, 0, 0)
	}
	return d, true
}

func scoreCandidate(d time.Time, idx int, lower string, now time.Time) int {
	score := 0
	if d.Month() == time.March {
		score += 3
	}
	if d.Day() == 8 {
		score += 3
	}
	if !d.Before(time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)) {
		score++
	}
	// A date equal to "today" is usually the publish date, not the event.
	if d.Year() == now.Year() && d.Month() == now.Month() && d.Day() == now.Day() {
		score -= 2
	}
	// January 1 is a common placeholder.
	if d.Month() == time.January && d.Day() == 1 {
		score -= 3
	}
	if hasContextWord(lower, idx) {
		score += 2
	}
	return score
}

// hasContextWord looks for mobilization vocabulary in the sentence around a
// candidate.
func hasContextWord(lower string, idx int) bool {
	start := idx - 80
	if start < 0 {
		start = 0
	}
	end := idx + 80
	if end > len(lower) {
		end = len(lower)
	}
	window := lower[start:end]
	for _, w := range dateContextWords {
		if strings.Contains(window, w) {
			return true
		}
	}
	return false
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
