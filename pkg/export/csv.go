package export

import (
	"encoding/csv"
	"io"
	"os"
	"sort"

	"github.com/moazmaksod/YourContactMerger/pkg/contacts"
	"github.com/moazmaksod/YourContactMerger/pkg/errors"
	"github.com/moazmaksod/YourContactMerger/pkg/normalize"
)

// utf8BOM prefixes the output so spreadsheet applications detect the
// encoding and render Arabic names correctly.
const utf8BOM = "\uFEFF"

// Exporter renders merged contact records as CSV in the primary-source
// column vocabulary.
type Exporter struct {
	normalizer *normalize.Normalizer
	columns    []string
}

// Option is a function that configures an Exporter.
type Option func(*Exporter) error

// WithNormalizer sets the normalizer used for phone and group rendering.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(e *Exporter) error {
		if n == nil {
			return &errors.ValidationError{
				Field:   "normalizer",
				Message: "cannot be nil",
			}
		}
		e.normalizer = n
		return nil
	}
}

// WithTemplateColumns derives the output header from a template CSV header
// instead of the stock column list.
func WithTemplateColumns(template []string) Option {
	return func(e *Exporter) error {
		if len(template) == 0 {
			return &errors.ValidationError{
				Field:   "template",
				Message: "header cannot be empty",
			}
		}
		e.columns = Columns(template)
		return nil
	}
}

// New creates a new Exporter with options.
func New(opts ...Option) (*Exporter, error) {
	e := &Exporter{
		normalizer: normalize.Default(),
		columns:    DefaultColumns(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// ColumnNames returns the header the exporter writes.
func (e *Exporter) ColumnNames() []string {
	out := make([]string, len(e.columns))
	copy(out, e.columns)
	return out
}

// Write renders the merged set to w as BOM-prefixed CSV, one row per record
// in display-name order.
func (e *Exporter) Write(w io.Writer, merged map[string]*contacts.Record) error {
	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return errors.WrapIO("write", "export", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(e.columns); err != nil {
		return errors.WrapIO("write", "export header", err)
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	line := make([]string, len(e.columns))
	for _, name := range names {
		row := e.Row(name, merged[name], e.columns)
		for i, col := range e.columns {
			line[i] = row[col]
		}
		if err := cw.Write(line); err != nil {
			return errors.WrapIO("write", "export row", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.WrapIO("flush", "export", err)
	}
	return nil
}

// WriteFile renders the merged set to a CSV file at path.
func (e *Exporter) WriteFile(path string, merged map[string]*contacts.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.WrapIO("create", path, err)
	}
	if err := e.Write(f, merged); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.WrapIO("close", path, err)
	}
	return nil
}
