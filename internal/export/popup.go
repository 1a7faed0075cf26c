package export

import (
	"strings"

	"github.com/geochicas/mapper8m/internal/model"
)

// popupDescription builds the uMap wiki-syntax popup body:
//
//	## Title
//	City · Country
//	2026-03-08 - 17:00
//	{{https://.../images/x.jpg}}
//	[[https://...|Accede a la convocatoria]]
//
// Empty fields drop their line rather than leaving blanks.
func popupDescription(r *model.EventRecord, publicBaseURL string) string {
	var lines []string

	if t := strings.TrimSpace(r.Title); t != "" {
		lines = append(lines, "## "+t)
	}

	var place []string
	for _, p := range []string{r.City, r.Country} {
		if p = strings.TrimSpace(p); p != "" {
			place = append(place, p)
		}
	}
	if len(place) > 0 {
		lines = append(lines, strings.Join(place, " · "))
	}

	switch {
	case r.Date != "" && r.Time != "":
		lines = append(lines, r.Date+" - "+r.Time)
	case r.Date != "":
		lines = append(lines, r.Date)
	case r.Time != "":
		lines = append(lines, r.Time)
	}

	img := r.Image
	if r.ImageFile != "" {
		img = "images/" + r.ImageFile
	}
	if img = strings.TrimSpace(img); img != "" {
		lines = append(lines, "{{"+absoluteURL(img, publicBaseURL)+"}}")
	}

	link := strings.TrimSpace(r.CTAURL)
	if link == "" {
		link = strings.TrimSpace(r.SourceURL)
	}
	if link != "" {
		lines = append(lines, "[["+link+"|Accede a la convocatoria]]")
	}

	return strings.Join(lines, "\n")
}

// absoluteURL resolves relative image paths against the published site so
// uMap can load them.
func absoluteURL(pathOrURL, publicBaseURL string) string {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL
	}
	if publicBaseURL == "" {
		return pathOrURL
	}
	return strings.TrimSuffix(publicBaseURL, "/") + "/" + strings.TrimPrefix(pathOrURL, "/")
}
