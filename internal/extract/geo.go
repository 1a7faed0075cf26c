package extract

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldTransformer strips diacritics so "Bogotá" matches "Bogota".
var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func fold(s string) string {
	out, _, err := transform.String(foldTransformer, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(out)
}

// detectCity returns the first configured city found as an accent-tolerant
// whole word in text. The caller passes cities sorted longest-first so "San
// José" wins before "José" can match inside it.
func detectCity(text string, cities []string) string {
	folded := fold(text)
	for _, city := range cities {
		needle := fold(city)
		if needle == "" {
			continue
		}
		if containsWord(folded, needle) {
			return city
		}
	}
	return ""
}

// containsWord reports whether needle occurs in haystack bounded by
// non-letter runes on both sides.
func containsWord(haystack, needle string) bool {
	for from := 0; ; {
		i := strings.Index(haystack[from:], needle)
		if i < 0 {
			return false
		}
		i += from
		before, _ := utf8.DecodeLastRuneInString(haystack[:i])
		after, _ := utf8.DecodeRuneInString(haystack[i+len(needle):])
		if !unicode.IsLetter(before) && !unicode.IsLetter(after) {
			return true
		}
		from = i + len(needle)
	}
}

// tldCountries infers a country name from a source URL's top-level domain.
// Generic TLDs carry no location information and map to nothing.
var tldCountries = map[string]string{
	"ar": "Argentina", "at": "Austria", "au": "Australia", "be": "Belgium",
	"bo": "Bolivia", "br": "Brazil", "ca": "Canada", "ch": "Switzerland",
	"cl": "Chile", "co": "Colombia", "cr": "Costa Rica", "cu": "Cuba",
	"de": "Germany", "do": "Dominican Republic", "ec": "Ecuador",
	"es": "Spain", "fr": "France", "gt": "Guatemala", "hn": "Honduras",
	"ie": "Ireland", "in": "India", "it": "Italy", "mx": "Mexico",
	"ni": "Nicaragua", "nl": "Netherlands", "nz": "New Zealand",
	"pa": "Panama", "pe": "Peru", "pt": "Portugal", "py": "Paraguay",
	"sv": "El Salvador", "uk": "United Kingdom", "us": "United States",
	"uy": "Uruguay", "ve": "Venezuela", "za": "South Africa",
}

// countryFromURL maps the hostname's final label to a country name, or "".
func countryFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	i := strings.LastIndexByte(host, '.')
	if i < 0 {
		return ""
	}
	return tldCountries[host[i+1:]]
}
