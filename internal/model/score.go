package model

// RejectScore is the floor returned when a hard gate fails. Any positive rule
// chain starts from zero, so a rejected document can never clear a threshold.
const RejectScore = -100

// RejectReason tags why a document was forced to the rejection floor.
type RejectReason string

const (
	RejectNone          RejectReason = ""
	RejectNoAnchor      RejectReason = "no_anchor"
	RejectNavPage       RejectReason = "nav_page"
	RejectLowDiversity  RejectReason = "low_diversity"
	RejectHomepage      RejectReason = "homepage"
	RejectInstitutional RejectReason = "institutional_index"
	RejectTooShort      RejectReason = "too_short"
)

// Signals records every scoring rule's contribution by name, so a score is an
// inspectable artifact rather than an opaque integer.
type Signals struct {
	Anchor           bool         `json:"anchor"`
	ActivityHits     int          `json:"activity_hits"`
	TimeFound        bool         `json:"time_found"`
	DateHint         bool         `json:"date_hint"`
	LocationHint     bool         `json:"location_hint"`
	RegistrationHint bool         `json:"registration_hint"`
	Proximity        bool         `json:"proximity"`
	NavHits          int          `json:"nav_hits"`
	TokenCount       int          `json:"token_count"`
	UniqueRatio      float64      `json:"unique_ratio"`
	HardSignals      int          `json:"hard_signals"`
	StrippedChars    int          `json:"stripped_chars"`
	Reason           RejectReason `json:"reason,omitempty"`
}

// ScoreResult is the scorer's verdict for a single parsed document.
type ScoreResult struct {
	Score    int     `json:"score"`
	Accepted bool    `json:"accepted"`
	Signals  Signals `json:"signals"`
}
