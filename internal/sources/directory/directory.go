// Package directory loads the secondary contact source: a patient
// directory exported as CSV or read directly from its database. Every row
// is one full name followed by phone cells.
package directory

import (
	"strings"

	"github.com/moazmaksod/YourContactMerger/pkg/contacts"
	"github.com/moazmaksod/YourContactMerger/pkg/errors"
	"github.com/moazmaksod/YourContactMerger/pkg/normalize"
)

// Option configures a loader.
type Option func(*config) error

type config struct {
	normalizer *normalize.Normalizer
}

func newConfig(opts ...Option) (*config, error) {
	c := &config{normalizer: normalize.Default()}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// WithNormalizer sets the normalizer used for names and phones.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(c *config) error {
		if n == nil {
			return &errors.ValidationError{
				Field:   "normalizer",
				Message: "cannot be nil",
			}
		}
		c.normalizer = n
		return nil
	}
}

// shapeRow converts one directory row (full name plus phone cells) into a
// display name and record. Rows with no valid numbers are dropped: a
// directory entry without a phone cannot match or enrich anything.
func shapeRow(n *normalize.Normalizer, fullName string, phoneCells []string) (string, *contacts.Record, bool) {
	full := strings.TrimSpace(fullName)
	numbers := n.ExpandPhones(phoneCells)
	if len(numbers) == 0 {
		return "", nil, false
	}

	parts := strings.Fields(full)
	first := ""
	middle := ""
	if len(parts) > 0 {
		first = parts[0]
		middle = strings.Join(parts[1:], " ")
	}
	last := n.Marker()

	raw := strings.TrimSpace(strings.Join([]string{first, middle, last}, " "))
	name := n.DisplayName(raw, true, false)

	rec := contacts.NewRecord()
	for _, num := range numbers {
		rec.AddNumber(num)
	}
	rec.AddSource(contacts.SourceSecondary)
	rec.FirstName = first
	rec.MiddleName = middle
	rec.LastName = last
	rec.OriginalName = full
	rec.CompareKey = n.CompareKey(name)

	return name, rec, true
}
