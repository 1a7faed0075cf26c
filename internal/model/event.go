package model

import "strings"

// Extraction confidence tags. Informational only; not derived from the
// numeric relevance score.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
)

// EventRecord is the terminal artifact of the extraction core, handed to the
// geocode, media, and export collaborators. Missing optional fields are empty
// strings, never sentinels.
type EventRecord struct {
	// Identity. Both preserved verbatim from the parsed document.
	SourceURL string `json:"source_url"`
	CTAURL    string `json:"cta_url"`

	// Descriptive fields, whitespace-normalized and truncated.
	Title       string `json:"title"`       // <= 180 chars
	Description string `json:"description"` // <= 280 chars

	// Temporal fields.
	Date string `json:"date"` // ISO YYYY-MM-DD or ""
	Time string `json:"time"` // HH:MM 24-hour or ""

	// Spatial hints, best-effort only. Never geocoded within the core.
	City          string `json:"city"`
	Country       string `json:"country"`
	Address       string `json:"address"`
	ExactLocation string `json:"exact_location"`

	// Image is the best-ranked parser candidate, or "".
	Image string `json:"image"`

	ExtractionConfidence string `json:"extraction_confidence"`
	RelevanceScore       int    `json:"relevance_score"`

	// Populated by the geocode collaborator, empty otherwise.
	Lat               string `json:"lat"`
	Lon               string `json:"lon"`
	LocationPrecision string `json:"location_precision"`

	// Populated by the media collaborator when an image is materialized.
	ImageFile string `json:"image_file"`
}

// GeocodeQuery assembles the best-effort textual geocoding query: address,
// exact location, city (unless already part of the address), country,
// comma-joined with consecutive duplicates collapsed.
func (r *EventRecord) GeocodeQuery() string {
	parts := make([]string, 0, 4)
	push := func(s string) {
		if s == "" {
			return
		}
		if n := len(parts); n > 0 && strings.EqualFold(parts[n-1], s) {
			return
		}
		parts = append(parts, s)
	}

	push(r.Address)
	push(r.ExactLocation)
	if r.City != "" && !strings.Contains(strings.ToLower(r.Address), strings.ToLower(r.City)) {
		push(r.City)
	}
	push(r.Country)

	return strings.Join(parts, ", ")
}

// HasCoordinates reports whether the geocode collaborator filled lat/lon.
func (r *EventRecord) HasCoordinates() bool {
	return r.Lat != "" && r.Lon != ""
}
