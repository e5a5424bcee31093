package normalize

import (
	"regexp"
	"strings"
)

// GroupMapping rewrites a legacy or localized group label to its canonical
// form. Replacement is substring-based, not exact-match.
type GroupMapping struct {
	Old string
	New string
}

// defaultGroupMap is the stock label table translating the legacy Arabic
// labels to their canonical English forms. More specific keys precede the
// generic "* myContacts" they contain, since replacement is substring-based.
var defaultGroupMap = []GroupMapping{
	{"lab ::: * myContacts", "🧪 Lab ::: * myContacts"},
	{"شخصي ::: * myContacts", "🏠 Personal ::: * myContacts"},
	{"* family ::: * myContacts", "👨‍👩‍👧‍👦 Family ::: * myContacts"},
	{"شركات ومندوبين ::: * myContacts", "🏢 Companies & Agents ::: * myContacts"},
	{"اطباء ::: * myContacts", "🧑‍⚕️ Doctors ::: * myContacts"},
	{"وظائف ::: * myContacts", "💼 Jobs ::: * myContacts"},
}

// starredSuffix marks starred contacts in exported labels; it carries no
// group identity and is dropped before mapping.
const starredSuffix = "::: * starred"

// punctuation matches anything that is not a letter, digit, underscore, or
// whitespace, mirroring the loose token cleanup applied to group labels.
var punctuation = regexp.MustCompile(`[^\p{L}\p{N}_\s]`)

// Group normalizes a free-text group label: the starred suffix is removed,
// then the ordered mapping table is applied.
func (n *Normalizer) Group(raw string) string {
	label := strings.TrimSpace(strings.ReplaceAll(raw, starredSuffix, ""))
	for _, m := range n.groupMap {
		if strings.Contains(label, m.Old) {
			label = strings.ReplaceAll(label, m.Old, m.New)
		}
	}
	return label
}

// IsMarkerGroup reports whether any delimiter-separated token of the raw
// label contains the marker word after punctuation is stripped. Records in
// such a group are the only ones eligible for modification.
func (n *Normalizer) IsMarkerGroup(raw string) bool {
	marker := strings.ToLower(n.marker)
	for _, token := range strings.Split(raw, n.delimiter) {
		token = strings.ToLower(strings.TrimSpace(token))
		token = punctuation.ReplaceAllString(token, "")
		if strings.Contains(token, marker) {
			return true
		}
	}
	return false
}

// Group normalizes a group label using the default Normalizer.
func Group(raw string) string {
	return defaultNormalizer.Group(raw)
}

// IsMarkerGroup reports marker-group membership using the default Normalizer.
func IsMarkerGroup(raw string) bool {
	return defaultNormalizer.IsMarkerGroup(raw)
}
