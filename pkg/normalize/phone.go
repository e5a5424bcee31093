package normalize

import (
	"regexp"
	"strings"
)

// PhoneRule rewrites a cleaned national number into E.164-like form.
// Pattern is matched against the full cleaned value; Replacement may
// reference capture groups ($1, $2, ...).
type PhoneRule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

// CompileRule builds a PhoneRule from a pattern and replacement string.
func CompileRule(pattern, replacement string) (PhoneRule, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return PhoneRule{}, err
	}
	return PhoneRule{Pattern: re, Replacement: replacement}, nil
}

// defaultPhoneRules is the stock rewrite table. Order is significant: the
// first matching rule wins, so more specific national prefixes come before
// the bare country-code passthroughs.
var defaultPhoneRules = []PhoneRule{
	// Egyptian mobile numbers keep their leading zero under the +2 code.
	{regexp.MustCompile(`^(01[0-9]{8,})$`), "+2$1"},
	// Saudi mobile numbers drop the leading zero under +966.
	{regexp.MustCompile(`^0(5[0-9]{8,})$`), "+966$1"},
	// Values already starting with a known country calling code.
	{regexp.MustCompile(`^((?:971|966|90|44|20|7)[0-9]+)$`), "+$1"},
}

var (
	nonPhoneChars = regexp.MustCompile(`[^\d+]`)
	nonDigits     = regexp.MustCompile(`\D`)
)

// cleanPhone strips every character except digits and "+".
func cleanPhone(raw string) string {
	return strings.TrimSpace(nonPhoneChars.ReplaceAllString(raw, ""))
}

// Phone canonicalizes a raw phone string into a single comparable
// international form. It returns "" for empty input, the literal token
// "null" (any case), and values with no digits left after cleaning.
func (n *Normalizer) Phone(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || strings.EqualFold(s, "null") {
		return ""
	}
	num := cleanPhone(s)
	if strings.HasPrefix(num, "+") {
		return num
	}
	if strings.HasPrefix(num, "00") {
		return "+" + num[2:]
	}
	for _, rule := range n.phoneRules {
		if rule.Pattern.MatchString(num) {
			return rule.Pattern.ReplaceAllString(num, rule.Replacement)
		}
	}
	digits := strings.TrimLeft(nonDigits.ReplaceAllString(num, ""), "0")
	if digits == "" {
		return ""
	}
	cc := n.countryCode
	if !strings.HasPrefix(cc, "+") {
		cc = "+" + cc
	}
	return cc + digits
}

// ExpandPhones splits each value on the configured delimiter, normalizes
// every part, and accumulates the results into an order-preserving
// deduplicated sequence. Invalid parts are dropped silently.
func (n *Normalizer) ExpandPhones(values []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, v := range values {
		parts := []string{v}
		if strings.Contains(v, n.delimiter) {
			parts = strings.Split(v, n.delimiter)
		}
		for _, p := range parts {
			num := n.Phone(strings.TrimSpace(p))
			if num == "" {
				continue
			}
			if _, ok := seen[num]; ok {
				continue
			}
			seen[num] = struct{}{}
			out = append(out, num)
		}
	}
	return out
}

// Phone canonicalizes a raw phone string using the default Normalizer.
func Phone(raw string) string {
	return defaultNormalizer.Phone(raw)
}

// ExpandPhones expands and normalizes values using the default Normalizer.
func ExpandPhones(values []string) []string {
	return defaultNormalizer.ExpandPhones(values)
}
