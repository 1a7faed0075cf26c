// Package scorer decides, via an explainable additive score, whether a parsed
// document describes a genuine, locatable 8M event. It is a hand-tuned rule
// set rather than a trained classifier: the corpus spans many languages and
// site structures, and a false marker on a public map costs more than a
// missed page.
package scorer

import (
	"net/url"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/geochicas/mapper8m/internal/config"
	"github.com/geochicas/mapper8m/internal/model"
)

const anchorBase = 6

var (
	wholeWord8M = regexp.MustCompile(`(?i)\b8m\b`)

	timeHints = []*regexp.Regexp{
		regexp.MustCompile(`\b([01]?\d|2[0-3]):([0-5]\d)\b`),
		regexp.MustCompile(`\b([01]?\d|2[0-3])\s?h\b`),
		regexp.MustCompile(`(?i)\b(1[0-2]|0?[1-9])(:[0-5]\d)?\s?(am|pm)\b`),
	}

	dateHints = []*regexp.Regexp{
		regexp.MustCompile(`\b20\d{2}-\d{2}-\d{2}\b`),
		regexp.MustCompile(`\b\d{1,2}[/.\-]\d{1,2}[/.\-]20\d{2}\b`),
		regexp.MustCompile(`(?i)\b\d{1,2}\s*(de\s+)?(enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|octubre|noviembre|diciembre|janeiro|fevereiro|março|marco|janvier|février|fevrier|mars|avril|gener|febrer|març|january|february|march|april|may|june|july|august|september|october|november|december)\b`),
	}

	// localeSegment matches single-segment paths like /es or /en-us that
	// still land on a homepage.
	localeSegment = regexp.MustCompile(`^/[a-z]{2}(-[a-z]{2})?/?$`)
)

// Scorer evaluates parsed documents against a fixed rule set. Construct once
// and share; it is immutable and safe for concurrent use.
type Scorer struct {
	cfg      config.ScorerConfig
	anchors  []string
	activity []string
}

// New builds a Scorer. Extra keywords (hashtags and campaign phrases from
// configuration) extend the anchor vocabulary; an empty list is fine.
func New(cfg config.ScorerConfig, keywords []string) *Scorer {
	if cfg.Threshold == 0 {
		cfg.Threshold = 8
	}
	if cfg.MinTextLength == 0 {
		cfg.MinTextLength = 120
	}
	if cfg.NavHitLimit == 0 {
		cfg.NavHitLimit = 6
	}
	if cfg.ProximityChars == 0 {
		cfg.ProximityChars = 140
	}

	s := &Scorer{
		cfg:      cfg,
		anchors:  append([]string(nil), anchorPhrases...),
		activity: activityVocab,
	}
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(kw, "#")))
		if kw != "" && kw != "8m" {
			s.anchors = append(s.anchors, kw)
		}
	}
	return s
}

// Score evaluates one document. The returned Signals name every rule that
// fired, so operators can see why a page was kept or dropped.
func (s *Scorer) Score(doc *model.ParsedDocument) model.ScoreResult {
	title := strings.ToLower(doc.Title)
	stripped := StripBoilerplate(doc.Text)
	text := strings.ToLower(stripped)
	combined := title + "\n" + text

	sig := model.Signals{StrippedChars: len(doc.Text) - len(stripped)}

	reject := func(reason model.RejectReason) model.ScoreResult {
		sig.Reason = reason
		zap.L().Debug("scorer: rejected",
			zap.String("url", doc.URL),
			zap.String("reason", string(reason)),
		)
		return model.ScoreResult{Score: model.RejectScore, Accepted: false, Signals: sig}
	}

	// Hard gate: no 8M/IWD anchor anywhere means no further computation.
	sig.Anchor = s.hasAnchor(combined, doc.URL)
	if !sig.Anchor {
		return reject(model.RejectNoAnchor)
	}

	// Navigation/index-page classification.
	sig.NavHits = countHits(combined, navVocab)
	sig.TokenCount, sig.UniqueRatio = tokenDiversity(text)

	if sig.NavHits >= s.cfg.NavHitLimit {
		return reject(model.RejectNavPage)
	}
	if sig.TokenCount >= 120 && sig.UniqueRatio < 0.35 {
		return reject(model.RejectLowDiversity)
	}
	if homepageLike(doc.URL) && sig.NavHits >= 3 {
		return reject(model.RejectHomepage)
	}
	if institutionalTitle(title) && sig.NavHits >= 3 {
		return reject(model.RejectInstitutional)
	}

	if len([]rune(stripped)) < s.cfg.MinTextLength {
		return reject(model.RejectTooShort)
	}

	// Positive scoring.
	score := anchorBase

	sig.ActivityHits = countHits(combined, s.activity)
	switch {
	case sig.ActivityHits >= 2:
		score += 3
	case sig.ActivityHits == 1:
		score++
	}

	sig.TimeFound = matchesAny(combined, timeHints)
	if sig.TimeFound {
		score += 2
	}
	sig.LocationHint = containsAny(text, locationVocab)
	if sig.LocationHint {
		score += 2
	}
	sig.DateHint = matchesAny(combined, dateHints)
	if sig.DateHint {
		score += 2
	}
	sig.RegistrationHint = containsAny(combined, registrationVocab)

	sig.Proximity = s.anchorActivityProximity(combined)
	if sig.Proximity {
		score += 2
	}

	// Thematic mentions without any hard signal are op-eds and
	// retrospectives, not scheduled activities.
	sig.HardSignals = countTrue(sig.TimeFound, sig.DateHint, sig.LocationHint, sig.RegistrationHint)
	if sig.HardSignals == 0 {
		score -= 4
	}

	return model.ScoreResult{
		Score:    score,
		Accepted: score >= s.cfg.Threshold,
		Signals:  sig,
	}
}

// Threshold returns the configured acceptance threshold.
func (s *Scorer) Threshold() int { return s.cfg.Threshold }

func (s *Scorer) hasAnchor(combined, rawURL string) bool {
	if wholeWord8M.MatchString(combined) {
		return true
	}
	if containsAny(combined, s.anchors) {
		return true
	}
	lowerURL := strings.ToLower(rawURL)
	for _, slug := range anchorSlugs {
		if strings.Contains(lowerURL, "/"+slug) || strings.Contains(lowerURL, "-"+slug) ||
			strings.Contains(lowerURL, slug+"-") {
			return true
		}
	}
	return false
}

// anchorActivityProximity reports whether an anchor and an activity word
// co-occur within the configured window, rewarding pages where the 8M
// mention is topically adjacent to event vocabulary.
func (s *Scorer) anchorActivityProximity(combined string) bool {
	anchorIdx := -1
	if loc := wholeWord8M.FindStringIndex(combined); loc != nil {
		anchorIdx = loc[0]
	}
	for _, a := range s.anchors {
		if i := strings.Index(combined, a); i >= 0 && (anchorIdx == -1 || i < anchorIdx) {
			anchorIdx = i
		}
	}
	if anchorIdx == -1 {
		return false
	}
	for _, act := range s.activity {
		i := strings.Index(combined, act)
		if i == -1 {
			continue
		}
		d := i - anchorIdx
		if d < 0 {
			d = -d
		}
		if d <= s.cfg.ProximityChars {
			return true
		}
	}
	return false
}

func homepageLike(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := u.Path
	if path == "" || path == "/" {
		return true
	}
	return localeSegment.MatchString(strings.ToLower(path))
}

func institutionalTitle(title string) bool {
	return len(title) > 0 && len(title) < 60 && containsAny(title, institutionalVocab)
}

// tokenDiversity returns the token count and unique/total ratio of the text.
// Link lists repeat their vocabulary; prose does not.
func tokenDiversity(text string) (int, float64) {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return 0, 0
	}
	unique := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		unique[t] = struct{}{}
	}
	return len(tokens), float64(len(unique)) / float64(len(tokens))
}

func countHits(s string, vocab []string) int {
	n := 0
	for _, w := range vocab {
		if strings.Contains(s, w) {
			n++
		}
	}
	return n
}

func containsAny(s string, vocab []string) bool {
	for _, w := range vocab {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}

func matchesAny(s string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}

func countTrue(bs ...bool) int {
	n := 0
	for _, b := range bs {
		if b {
			n++
		}
	}
	return n
}
