// Package normalize canonicalizes the raw values that flow into the merge
// engine: phone numbers, display names, and group labels. All functions are
// pure mappings; invalid input yields an empty result, never an error or a
// panic, so loaders can feed unfiltered rows straight through.
package normalize

import (
	"regexp"

	"github.com/moazmaksod/YourContactMerger/pkg/errors"
)

const (
	// DefaultMarker is the token flagging records that belong to the one
	// modifiable address-book group.
	DefaultMarker = "Lab"

	// DefaultCountryCode is prepended to bare national numbers that match
	// no rewrite rule.
	DefaultCountryCode = "+20"

	// DefaultDelimiter separates multiple values packed into one field.
	DefaultDelimiter = ":::"
)

// Normalizer applies a fixed set of canonicalization rules. The zero-config
// instance returned by Default covers the stock rule tables; callers with a
// rules file build their own via New.
type Normalizer struct {
	marker      string
	markerRe    *regexp.Regexp
	countryCode string
	delimiter   string
	phoneRules  []PhoneRule
	groupMap    []GroupMapping
}

// Option configures a Normalizer.
type Option func(*Normalizer) error

// WithMarker sets the marker token (default "Lab").
func WithMarker(marker string) Option {
	return func(n *Normalizer) error {
		if marker == "" {
			return &errors.ValidationError{Field: "marker", Message: "cannot be empty"}
		}
		n.marker = marker
		return nil
	}
}

// WithDefaultCountryCode sets the country code used when no rewrite rule
// matches. A missing leading "+" is tolerated.
func WithDefaultCountryCode(code string) Option {
	return func(n *Normalizer) error {
		if code == "" {
			return &errors.ValidationError{Field: "default_country_code", Message: "cannot be empty"}
		}
		n.countryCode = code
		return nil
	}
}

// WithDelimiter sets the multi-value delimiter token (default ":::").
func WithDelimiter(delimiter string) Option {
	return func(n *Normalizer) error {
		if delimiter == "" {
			return &errors.ValidationError{Field: "delimiter", Message: "cannot be empty"}
		}
		n.delimiter = delimiter
		return nil
	}
}

// WithPhoneRules replaces the stock phone rewrite table. Rules are applied
// in order; the first match wins.
func WithPhoneRules(rules []PhoneRule) Option {
	return func(n *Normalizer) error {
		n.phoneRules = rules
		return nil
	}
}

// WithGroupMap replaces the stock group label replacement table. Entries are
// applied in order and replacement is substring-based, so more specific keys
// must come before shorter keys they contain.
func WithGroupMap(mappings []GroupMapping) Option {
	return func(n *Normalizer) error {
		n.groupMap = mappings
		return nil
	}
}

// New creates a Normalizer with options applied over the stock rule tables.
func New(opts ...Option) (*Normalizer, error) {
	n := &Normalizer{
		marker:      DefaultMarker,
		countryCode: DefaultCountryCode,
		delimiter:   DefaultDelimiter,
		phoneRules:  defaultPhoneRules,
		groupMap:    defaultGroupMap,
	}
	for _, opt := range opts {
		if err := opt(n); err != nil {
			return nil, err
		}
	}
	n.markerRe = markerPattern(n.marker)
	return n, nil
}

// markerPattern matches the marker as a whole word, case-insensitively.
func markerPattern(marker string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(marker) + `\b`)
}

// Marker returns the configured marker token.
func (n *Normalizer) Marker() string {
	return n.marker
}

// DefaultCountryCode returns the configured fallback country code.
func (n *Normalizer) DefaultCountryCode() string {
	return n.countryCode
}

// defaultNormalizer backs the package-level convenience functions.
var defaultNormalizer = mustNew()

func mustNew() *Normalizer {
	n, err := New()
	if err != nil {
		panic(err)
	}
	return n
}

// Default returns the package-level Normalizer with the stock rule tables.
func Default() *Normalizer {
	return defaultNormalizer
}
