package normalize

import (
	"regexp"
	"strings"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// collapseWhitespace folds runs of whitespace into single spaces and trims.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}

// StripMarker removes the whole-word marker token from a display name and
// collapses the remaining whitespace.
func (n *Normalizer) StripMarker(name string) string {
	return collapseWhitespace(n.markerRe.ReplaceAllString(name, ""))
}

// DisplayName canonicalizes a raw display name. When appendMarker is set a
// single trailing marker token is guaranteed; existing marker tokens are
// stripped first unless preserveMarker is set. An empty raw name yields a
// bare marker token (or "") so secondary rows without names still get a key.
func (n *Normalizer) DisplayName(raw string, appendMarker, preserveMarker bool) string {
	if raw == "" {
		if appendMarker {
			return " " + n.marker
		}
		return ""
	}
	s := raw
	if !preserveMarker {
		s = n.markerRe.ReplaceAllString(s, "")
	}
	s = collapseWhitespace(s)
	if appendMarker && !strings.HasSuffix(s, " "+n.marker) {
		s = strings.TrimSpace(s + " " + n.marker)
	}
	return s
}

// CompareKey derives the identity-matching form of a display name: marker
// stripped, whitespace collapsed, lower-cased. Never displayed.
func (n *Normalizer) CompareKey(name string) string {
	return strings.ToLower(n.StripMarker(name))
}

// StripMarker removes the marker token using the default Normalizer.
func StripMarker(name string) string {
	return defaultNormalizer.StripMarker(name)
}

// DisplayName canonicalizes a display name using the default Normalizer.
func DisplayName(raw string, appendMarker, preserveMarker bool) string {
	return defaultNormalizer.DisplayName(raw, appendMarker, preserveMarker)
}

// CompareKey derives a comparison key using the default Normalizer.
func CompareKey(name string) string {
	return defaultNormalizer.CompareKey(name)
}
