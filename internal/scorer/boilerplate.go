package scorer

import (
	"regexp"
	"strings"
)

// Consent-banner and legal-terms phrase patterns, removed wholesale before
// scoring. Multilingual; tuned against municipal and collective sites.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(este sitio( web)?|esta (web|página|pagina)) (usa|utiliza) cookies[^\n.]*[.]?`),
	regexp.MustCompile(`(?i)(we|this (site|website)) use[s]? cookies[^\n.]*[.]?`),
	regexp.MustCompile(`(?i)(aceptar|rechazar|configurar|gestionar) (todas las )?cookies`),
	regexp.MustCompile(`(?i)(accept|reject|manage) (all )?cookies`),
	regexp.MustCompile(`(?i)pol[íi]tica de (cookies|privacidad)`),
	regexp.MustCompile(`(?i)privacy policy`),
	regexp.MustCompile(`(?i)politique de confidentialit[ée]`),
	regexp.MustCompile(`(?i)aviso legal`),
	regexp.MustCompile(`(?i)t[ée]rminos y condiciones`),
	regexp.MustCompile(`(?i)terms (and|&) conditions`),
	regexp.MustCompile(`(?i)al continuar navegando[^\n.]*[.]?`),
	regexp.MustCompile(`(?i)utilizamos cookies[^\n.]*[.]?`),
}

// consentKeyword triggers the bounded paragraph cut in StripBoilerplate.
// It is matched on the original text; offsets taken from a lowered copy can
// land mid-rune when a case mapping changes a rune's byte length.
var consentKeyword = regexp.MustCompile(`(?i)cookies?|privacidad|privacy|rgpd|gdpr`)

// consentCutWindow caps how much text a single consent keyword can take down
// with it. Large consent blocks are discarded wholesale; carving them up
// further is not worth the fragility.
const consentCutWindow = 2000

// StripBoilerplate removes consent/legal phrases, then cuts the remainder of
// any paragraph that still carries a consent keyword, up to the cut window.
// The cut stops at the next line break when one falls inside the window, so a
// short banner does not destroy the event details that follow it.
func StripBoilerplate(text string) string {
	for _, re := range boilerplatePatterns {
		text = re.ReplaceAllString(text, " ")
	}

	for {
		loc := consentKeyword.FindStringIndex(text)
		if loc == nil {
			break
		}
		idx := loc[0]

		end := idx + consentCutWindow
		if end > len(text) {
			end = len(text)
		}
		if nl := strings.IndexByte(text[idx:end], '\n'); nl >= 0 {
			end = idx + nl
		}
		text = text[:idx] + " " + text[end:]
	}

	return strings.TrimSpace(text)
}
