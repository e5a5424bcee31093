// Package csvutil reads CSV files whose encoding is unknown: real-world
// contact exports arrive as UTF-8, UTF-8 with BOM, UTF-16, Windows-1252, or
// Latin-1, frequently with ragged rows.
package csvutil

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/moazmaksod/YourContactMerger/pkg/errors"
)

// Table is a parsed CSV file: a scrubbed header plus positional rows padded
// to the header width.
type Table struct {
	Columns []string
	Rows    [][]string

	index map[string]int
}

// fallbackDecoders are tried, in order, when the input is not valid UTF-8.
// The UTF-16 decoder requires a byte-order mark so ordinary codepage files
// fall through to the single-byte decoders, which always succeed.
func fallbackDecoders() []*encoding.Decoder {
	return []*encoding.Decoder{
		unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder(),
		charmap.Windows1252.NewDecoder(),
		charmap.ISO8859_1.NewDecoder(),
	}
}

// ReadFile parses the CSV file at path with encoding detection.
func ReadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	table, err := Read(data)
	if err != nil {
		return nil, errors.WrapSource("csv", path, err)
	}
	return table, nil
}

// Read parses raw CSV bytes. Valid UTF-8 (with or without BOM) is parsed
// directly; everything else runs through the fallback decoders in order
// until one produces parseable CSV.
func Read(data []byte) (*Table, error) {
	if utf8.Valid(data) {
		trimmed := bytes.TrimPrefix(data, []byte("\uFEFF"))
		if table, err := parse(trimmed); err == nil {
			return table, nil
		}
	}
	for _, dec := range fallbackDecoders() {
		decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(data), dec))
		if err != nil || !utf8.Valid(decoded) {
			continue
		}
		if table, err := parse(decoded); err == nil {
			return table, nil
		}
	}
	return nil, errors.ErrUnreadable
}

// parse reads decoded CSV text into a Table. Ragged rows are padded or
// truncated to the header width; unparseable files fail.
func parse(decoded []byte) (*Table, error) {
	r := csv.NewReader(bytes.NewReader(decoded))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, err
	}
	columns := make([]string, len(header))
	for i, col := range header {
		columns[i] = scrubHeader(col)
	}

	table := &Table{
		Columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if _, ok := table.index[col]; !ok {
			table.index[col] = i
		}
	}

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Skip rows the parser cannot recover.
			if _, ok := err.(*csv.ParseError); ok {
				continue
			}
			return nil, err
		}
		row := make([]string, len(columns))
		copy(row, record)
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// scrubHeader removes BOM remnants that survive decoding when a file was
// written twice with different encodings.
func scrubHeader(col string) string {
	col = strings.ReplaceAll(col, "\uFEFF", "")
	col = strings.ReplaceAll(col, "ÿþ", "")
	return strings.TrimSpace(col)
}

// Field returns the row's value for the named column, or "" when the column
// is absent.
func (t *Table) Field(row []string, column string) string {
	i, ok := t.index[column]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// HasColumn reports whether the header contains the named column.
func (t *Table) HasColumn(column string) bool {
	_, ok := t.index[column]
	return ok
}

// RowMap renders one row as a column-to-value map over the full header.
func (t *Table) RowMap(row []string) map[string]string {
	out := make(map[string]string, len(t.Columns))
	for i, col := range t.Columns {
		if i < len(row) {
			out[col] = row[i]
		} else {
			out[col] = ""
		}
	}
	return out
}
