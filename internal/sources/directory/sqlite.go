package directory

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/moazmaksod/YourContactMerger/pkg/contacts"
	"github.com/moazmaksod/YourContactMerger/pkg/errors"
	"github.com/moazmaksod/YourContactMerger/pkg/logging"
)

// DefaultQuery reads the patient directory. The first selected column must
// be the name; every other column is treated as a phone cell.
const DefaultQuery = "SELECT name, phone, tel, fax FROM patients"

// DB loads secondary contacts from the directory database.
type DB struct {
	path  string
	query string
	cfg   *config
}

// NewDB creates a database loader for the SQLite file at path. An empty
// query selects DefaultQuery.
func NewDB(path, query string, opts ...Option) (*DB, error) {
	cfg, err := newConfig(opts...)
	if err != nil {
		return nil, err
	}
	if query == "" {
		query = DefaultQuery
	}
	return &DB{path: path, query: query, cfg: cfg}, nil
}

// Name implements sources.Source.
func (d *DB) Name() string {
	return "directory-db"
}

// Load implements sources.Source.
func (d *DB) Load(ctx context.Context) (map[string]*contacts.Record, error) {
	logger := logging.FromContext(ctx)
	logger.Info().Str("path", d.path).Msg("Loading secondary contacts from database")

	db, err := sql.Open("sqlite3", d.path)
	if err != nil {
		return nil, errors.NewSourceError("directory", d.path, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, d.query)
	if err != nil {
		return nil, errors.NewSourceError("directory", d.path, err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, errors.NewSourceError("directory", d.path, err)
	}
	if len(columns) == 0 {
		return nil, errors.NewSourceError("directory", d.path, errors.ErrInvalidInput)
	}

	records := make(map[string]*contacts.Record)
	values := make([]sql.NullString, len(columns))
	scan := make([]any, len(columns))
	for i := range values {
		scan[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(scan...); err != nil {
			return nil, errors.NewSourceError("directory", d.path, err)
		}
		cells := make([]string, 0, len(columns)-1)
		for _, v := range values[1:] {
			if v.Valid {
				cells = append(cells, v.String)
			}
		}
		name, rec, ok := shapeRow(d.cfg.normalizer, values[0].String, cells)
		if !ok {
			continue
		}
		records[name] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewSourceError("directory", d.path, err)
	}

	logger.Info().Int("records", len(records)).Msg("Loaded secondary contacts")
	return records, nil
}
