package addressbook

import (
	"context"

	"github.com/moazmaksod/YourContactMerger/internal/sources/csvutil"
	"github.com/moazmaksod/YourContactMerger/pkg/contacts"
	"github.com/moazmaksod/YourContactMerger/pkg/logging"
)

// CSV loads primary contacts from an address-book CSV export.
type CSV struct {
	path string
	cfg  *config
}

// NewCSV creates a CSV loader for the export file at path.
func NewCSV(path string, opts ...Option) (*CSV, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &CSV{path: path, cfg: cfg}, nil
}

// Name implements sources.Source.
func (c *CSV) Name() string {
	return "addressbook-csv"
}

// Load implements sources.Source.
func (c *CSV) Load(ctx context.Context) (map[string]*contacts.Record, error) {
	logger := logging.FromContext(ctx)
	logger.Info().Str("path", c.path).Msg("Loading primary contacts from CSV")

	table, err := csvutil.ReadFile(c.path)
	if err != nil {
		return nil, err
	}

	records := make(map[string]*contacts.Record, len(table.Rows))
	for _, row := range table.Rows {
		name, rec, ok := shapeRow(c.cfg.normalizer, table.RowMap(row))
		if !ok {
			continue
		}
		records[name] = rec
	}

	logger.Info().Int("records", len(records)).Msg("Loaded primary contacts")
	return records, nil
}
