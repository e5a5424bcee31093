package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripMarker(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"no marker", "John Smith", "John Smith"},
		{"trailing marker", "John Smith Lab", "John Smith"},
		{"leading marker", "Lab John Smith", "John Smith"},
		{"embedded marker", "John Lab Smith", "John Smith"},
		{"case insensitive", "John Smith LAB", "John Smith"},
		{"marker substring kept", "Labib Hassan", "Labib Hassan"},
		{"whitespace collapsed", "  John   Smith  Lab ", "John Smith"},
		{"marker only", "Lab", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, StripMarker(tt.raw))
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name           string
		raw            string
		appendMarker   bool
		preserveMarker bool
		expected       string
	}{
		{"empty without marker", "", false, false, ""},
		{"empty with marker", "", true, false, " Lab"},
		{"append marker", "John Smith", true, false, "John Smith Lab"},
		{"append is idempotent", "John Smith Lab", true, false, "John Smith Lab"},
		{"strip then append relocates marker", "Lab John Smith", true, false, "John Smith Lab"},
		{"preserve keeps embedded marker", "John Lab Smith", true, true, "John Lab Smith Lab"},
		{"preserve with trailing marker", "John Smith Lab", true, true, "John Smith Lab"},
		{"no append strips marker", "John Smith Lab", false, false, "John Smith"},
		{"no append preserve", "John Smith Lab", false, true, "John Smith Lab"},
		{"whitespace collapsed", "John    Smith", false, false, "John Smith"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DisplayName(tt.raw, tt.appendMarker, tt.preserveMarker))
		})
	}
}

func TestCompareKey(t *testing.T) {
	assert.Equal(t, "john smith", CompareKey("John Smith Lab"))
	assert.Equal(t, "john smith", CompareKey("JOHN   SMITH"))
	assert.Equal(t, "", CompareKey(" Lab"))

	// Primary and secondary renderings of the same identity must collide.
	primary := DisplayName("John Smith", false, true)
	secondary := DisplayName("John Smith", true, false)
	assert.Equal(t, CompareKey(primary), CompareKey(secondary))
}

func TestCustomMarker(t *testing.T) {
	n, err := New(WithMarker("Clinic"))
	require.NoError(t, err)

	assert.Equal(t, "John Smith", n.StripMarker("John Smith Clinic"))
	assert.Equal(t, "John Smith Clinic", n.DisplayName("John Smith", true, false))
	// The default marker is an ordinary word for this normalizer.
	assert.Equal(t, "John Lab", n.StripMarker("John Lab"))
}

func TestNewRejectsEmptyOptions(t *testing.T) {
	_, err := New(WithMarker(""))
	assert.Error(t, err)

	_, err = New(WithDefaultCountryCode(""))
	assert.Error(t, err)

	_, err = New(WithDelimiter(""))
	assert.Error(t, err)
}
