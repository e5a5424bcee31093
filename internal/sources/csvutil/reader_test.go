package csvutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/moazmaksod/YourContactMerger/pkg/errors"
)

func TestReadUTF8(t *testing.T) {
	table, err := Read([]byte("Name,Phone 1 - Value\nأحمد على,0101234567\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"Name", "Phone 1 - Value"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "أحمد على", table.Field(table.Rows[0], "Name"))
	assert.Equal(t, "0101234567", table.Field(table.Rows[0], "Phone 1 - Value"))
}

func TestReadUTF8WithBOM(t *testing.T) {
	table, err := Read([]byte("\uFEFFName,Phone\nJane,123\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Phone"}, table.Columns)
}

func TestReadUTF16(t *testing.T) {
	enc := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	data, err := enc.Bytes([]byte("Name,Phone\nJane Doe,0101234567\n"))
	require.NoError(t, err)

	table, err := Read(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Phone"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Jane Doe", table.Field(table.Rows[0], "Name"))
}

func TestReadWindows1252(t *testing.T) {
	enc := charmap.Windows1252.NewEncoder()
	data, err := enc.Bytes([]byte("Name,City\nRenée,Orléans\n"))
	require.NoError(t, err)

	table, err := Read(data)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Renée", table.Field(table.Rows[0], "Name"))
}

func TestReadPadsRaggedRows(t *testing.T) {
	table, err := Read([]byte("A,B,C\n1,2\nx,y,z,extra\n"))
	require.NoError(t, err)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"1", "2", ""}, table.Rows[0])
	assert.Equal(t, []string{"x", "y", "z"}, table.Rows[1])
}

func TestReadScrubsHeaderRemnants(t *testing.T) {
	table, err := Read([]byte("\uFEFFName , ÿþPhone\nJane,123\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Phone"}, table.Columns)
	assert.True(t, table.HasColumn("Phone"))
}

func TestReadEmptyInput(t *testing.T) {
	_, err := Read(nil)
	assert.ErrorIs(t, err, errors.ErrUnreadable)
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contacts.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name\nJane\n"), 0o644))

	table, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestRowMap(t *testing.T) {
	table, err := Read([]byte("Name,Phone\nJane\n"))
	require.NoError(t, err)

	row := table.RowMap(table.Rows[0])
	assert.Equal(t, map[string]string{"Name": "Jane", "Phone": ""}, row)
}

func TestFieldUnknownColumn(t *testing.T) {
	table, err := Read([]byte("Name\nJane\n"))
	require.NoError(t, err)
	assert.Equal(t, "", table.Field(table.Rows[0], "Missing"))
}
