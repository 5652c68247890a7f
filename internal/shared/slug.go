package shared

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var slugStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify turns the given parts into a deterministic URL-safe slug:
// diacritics stripped, lowercased, runs of non-alphanumerics collapsed into
// single hyphens. Empty parts are skipped.
func Slugify(parts ...string) string {
	var b strings.Builder
	for _, part := range parts {
		stripped, _, err := transform.String(slugStripper, part)
		if err != nil {
			stripped = part
		}
		for _, r := range strings.ToLower(stripped) {
			switch {
			case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
				b.WriteRune(r)
			default:
				b.WriteByte('-')
			}
		}
		b.WriteByte('-')
	}
	return collapseHyphens(b.String())
}

func collapseHyphens(s string) string {
	var b strings.Builder
	prevHyphen := true // trims leading hyphens
	for _, r := range s {
		if r == '-' {
			if !prevHyphen {
				b.WriteRune('-')
			}
			prevHyphen = true
			continue
		}
		b.WriteRune(r)
		prevHyphen = false
	}
	return strings.TrimSuffix(b.String(), "-")
}
