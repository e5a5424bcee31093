package directory

import (
	"context"

	"github.com/moazmaksod/YourContactMerger/internal/sources/csvutil"
	"github.com/moazmaksod/YourContactMerger/pkg/contacts"
	"github.com/moazmaksod/YourContactMerger/pkg/logging"
)

// CSV loads secondary contacts from a directory CSV export: first column is
// the full name, every remaining column is a phone cell.
type CSV struct {
	path string
	cfg  *config
}

// NewCSV creates a CSV loader for the directory export at path.
func NewCSV(path string, opts ...Option) (*CSV, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &CSV{path: path, cfg: cfg}, nil
}

// Name implements sources.Source.
func (c *CSV) Name() string {
	return "directory-csv"
}

// Load implements sources.Source.
func (c *CSV) Load(ctx context.Context) (map[string]*contacts.Record, error) {
	logger := logging.FromContext(ctx)
	logger.Info().Str("path", c.path).Msg("Loading secondary contacts from CSV")

	table, err := csvutil.ReadFile(c.path)
	if err != nil {
		return nil, err
	}

	records := make(map[string]*contacts.Record, len(table.Rows))
	for _, row := range table.Rows {
		if len(row) == 0 {
			continue
		}
		name, rec, ok := shapeRow(c.cfg.normalizer, row[0], row[1:])
		if !ok {
			continue
		}
		records[name] = rec
	}

	logger.Info().Int("records", len(records)).Msg("Loaded secondary contacts")
	return records, nil
}
