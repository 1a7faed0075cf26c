package model

// StructuredEvent is a schema.org Event record found embedded in a page as
// JSON-LD. Fields are kept verbatim; no date parsing happens at this stage.
type StructuredEvent struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Image     string `json:"image"`
}

// ParsedDocument is the normalized output of the page parser. It is immutable
// once constructed: the scorer and extractor only derive values from it.
type ParsedDocument struct {
	// URL is the canonical source URL, never mutated after creation.
	URL string `json:"url"`

	// Title is the page <title>, or empty.
	Title string `json:"title"`

	// Text is the newline-joined text of body-bearing elements (headings,
	// paragraphs, list items above a minimum length). It is the only
	// full-text signal available downstream.
	Text string `json:"text"`

	// Images holds candidate image URLs, deduplicated and ranked best-first
	// by a logo/banner-rejection heuristic.
	Images []string `json:"images"`

	// Meta holds selected Open Graph / Twitter Card / article meta values.
	// Keys are fixed; values may be empty.
	Meta map[string]string `json:"meta"`

	// StructuredEvents are schema.org Event records found in the page.
	StructuredEvents []StructuredEvent `json:"structured_events,omitempty"`
}
