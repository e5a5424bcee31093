package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeRules(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadRules(t *testing.T) {
	path := writeRules(t, `
marker: Clinic
default_country_code: "+971"
default_group: "Imported ::: * myContacts"
directory_query: "SELECT fullname, mobile FROM clinic"
group_map:
  - old: "clinic ::: * myContacts"
    new: "🏥 Clinic ::: * myContacts"
phone_rules:
  - pattern: "^(04[0-9]{7})$"
    replacement: "+971$1"
`)

	rules, err := LoadRules(path)
	require.NoError(t, err)

	assert.Equal(t, "Clinic", rules.Marker)
	assert.Equal(t, "+971", rules.DefaultCountryCode)
	assert.Equal(t, "Imported ::: * myContacts", rules.DefaultGroup)
	assert.Equal(t, "SELECT fullname, mobile FROM clinic", rules.DirectoryQuery)
	require.Len(t, rules.GroupMap, 1)
	require.Len(t, rules.PhoneRules, 1)
}

func TestRulesNormalizer(t *testing.T) {
	path := writeRules(t, `
marker: Clinic
phone_rules:
  - pattern: "^0(4[0-9]{7})$"
    replacement: "+971$1"
`)

	rules, err := LoadRules(path)
	require.NoError(t, err)

	n, err := rules.Normalizer()
	require.NoError(t, err)
	assert.Equal(t, "Clinic", n.Marker())
	assert.Equal(t, "+97141234567", n.Phone("04-123-4567"))
}

func TestRulesNormalizerDefaults(t *testing.T) {
	rules := &Rules{}
	n, err := rules.Normalizer()
	require.NoError(t, err)
	assert.Equal(t, "Lab", n.Marker())
	assert.Equal(t, "+20101234567", n.Phone("0101234567"))
}

func TestRulesNormalizerBadPattern(t *testing.T) {
	rules := &Rules{PhoneRules: []PhoneRule{{Pattern: "([", Replacement: "x"}}}
	_, err := rules.Normalizer()
	assert.Error(t, err)
}

func TestLoadRulesMissingFile(t *testing.T) {
	_, err := LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRulesInvalidYAML(t *testing.T) {
	path := writeRules(t, "marker: [unclosed")
	_, err := LoadRules(path)
	assert.Error(t, err)
}
