package export

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moazmaksod/YourContactMerger/pkg/contacts"
)

func TestNewValidatesOptions(t *testing.T) {
	_, err := New(WithNormalizer(nil))
	assert.Error(t, err)

	_, err = New(WithTemplateColumns(nil))
	assert.Error(t, err)
}

func TestWriteProducesBOMAndHeader(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	merged := map[string]*contacts.Record{
		"Beta Lab":  testRecord(),
		"Alpha Lab": testRecord(),
	}

	var buf bytes.Buffer
	require.NoError(t, e.Write(&buf, merged))

	out := buf.String()
	require.True(t, strings.HasPrefix(out, utf8BOM))

	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, utf8BOM)))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, DefaultColumns(), rows[0])

	// Records are written in display-name order; the name lands in the
	// First Name column when no snapshot exists.
	firstName := indexOf(rows[0], "First Name")
	assert.Equal(t, "Alpha Lab", rows[1][firstName])
	assert.Equal(t, "Beta Lab", rows[2][firstName])
}

func TestWriteWithTemplateColumns(t *testing.T) {
	e, err := New(WithTemplateColumns([]string{"Name", "Nickname", "First Name"}))
	require.NoError(t, err)

	cols := e.ColumnNames()
	assert.NotContains(t, cols, "Name")
	assert.Equal(t, "Nickname", cols[0])

	var buf bytes.Buffer
	require.NoError(t, e.Write(&buf, map[string]*contacts.Record{
		"Solo Lab": testRecord(),
	}))

	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(buf.String(), utf8BOM)))
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, cols, rows[0])
}

func TestWriteFile(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "merged_contacts.csv")
	require.NoError(t, e.WriteFile(path, map[string]*contacts.Record{
		"Solo Lab": testRecord(),
	}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), utf8BOM))
	assert.Contains(t, string(data), "Solo Lab")
}

func indexOf(header []string, col string) int {
	for i, h := range header {
		if h == col {
			return i
		}
	}
	return -1
}
