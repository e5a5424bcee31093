// Package config loads the optional merge-behavior rules file. The file
// tunes the normalizer and engine without a rebuild: marker token, country
// code, group label table, phone rewrite table, and the directory query.
package config

import (
	"os"

	"github.com/goccy/go-yaml"

	"github.com/moazmaksod/YourContactMerger/pkg/contacts"
	"github.com/moazmaksod/YourContactMerger/pkg/errors"
	"github.com/moazmaksod/YourContactMerger/pkg/normalize"
)

// Rules is the yaml rules-file schema. Every field is optional; the zero
// value falls back to the stock behavior.
type Rules struct {
	// Marker is the token flagging modifiable records.
	Marker string `yaml:"marker"`

	// DefaultCountryCode is prepended to bare national numbers.
	DefaultCountryCode string `yaml:"default_country_code"`

	// DefaultGroup is assigned to records created from the secondary
	// source.
	DefaultGroup string `yaml:"default_group"`

	// GroupMap replaces the stock group label table. Order is preserved.
	GroupMap []GroupMapping `yaml:"group_map"`

	// PhoneRules replaces the stock phone rewrite table. Order is
	// preserved; the first matching pattern wins.
	PhoneRules []PhoneRule `yaml:"phone_rules"`

	// DirectoryQuery overrides the secondary database query.
	DirectoryQuery string `yaml:"directory_query"`
}

// GroupMapping is one ordered group label replacement.
type GroupMapping struct {
	Old string `yaml:"old"`
	New string `yaml:"new"`
}

// PhoneRule is one ordered phone rewrite.
type PhoneRule struct {
	Pattern     string `yaml:"pattern"`
	Replacement string `yaml:"replacement"`
}

// LoadRules parses the rules file at path.
func LoadRules(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	var rules Rules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return &rules, nil
}

// Normalizer builds a normalizer from the rules, falling back to the stock
// tables for anything unset.
func (r *Rules) Normalizer() (*normalize.Normalizer, error) {
	var opts []normalize.Option
	if r.Marker != "" {
		opts = append(opts, normalize.WithMarker(r.Marker))
	}
	if r.DefaultCountryCode != "" {
		opts = append(opts, normalize.WithDefaultCountryCode(r.DefaultCountryCode))
	}
	if len(r.GroupMap) > 0 {
		mappings := make([]normalize.GroupMapping, len(r.GroupMap))
		for i, m := range r.GroupMap {
			mappings[i] = normalize.GroupMapping{Old: m.Old, New: m.New}
		}
		opts = append(opts, normalize.WithGroupMap(mappings))
	}
	if len(r.PhoneRules) > 0 {
		rules := make([]normalize.PhoneRule, len(r.PhoneRules))
		for i, pr := range r.PhoneRules {
			rule, err := normalize.CompileRule(pr.Pattern, pr.Replacement)
			if err != nil {
				return nil, errors.NewValidationError("phone_rules", pr.Pattern, err.Error())
			}
			rules[i] = rule
		}
		opts = append(opts, normalize.WithPhoneRules(rules))
	}
	return normalize.New(opts...)
}

// MergerOptions builds the engine options from the rules.
func (r *Rules) MergerOptions(n *normalize.Normalizer) []contacts.Option {
	opts := []contacts.Option{contacts.WithNormalizer(n)}
	if r.DefaultGroup != "" {
		opts = append(opts, contacts.WithDefaultGroup(r.DefaultGroup))
	}
	return opts
}
