// Package addressbook loads the primary contact source: an address-book
// CSV export or the live People API. Both paths feed the same row-shaping
// logic so a contact looks identical to the merge engine regardless of
// origin.
package addressbook

import (
	"fmt"
	"strings"

	"github.com/moazmaksod/YourContactMerger/pkg/contacts"
	"github.com/moazmaksod/YourContactMerger/pkg/errors"
	"github.com/moazmaksod/YourContactMerger/pkg/normalize"
)

// phoneColumns is how many "Phone N - Value" columns a row may carry.
const phoneColumns = 9

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

// WithNormalizer sets the normalizer used for names, groups, and phones.
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

// shapeRow converts one address-book row into a display name and record.
// Rows without any name material are dropped (ok == false).
func shapeRow(n *normalize.Normalizer, row map[string]string) (string, *contacts.Record, bool) {
	first := strings.TrimSpace(row["First Name"])
	middle := strings.TrimSpace(row["Middle Name"])
	last := strings.TrimSpace(row["Last Name"])

	rawName := strings.TrimSpace(row["Name"])
	if rawName == "" {
		parts := make([]string, 0, 3)
		for _, p := range []string{first, middle, last} {
			if p != "" {
				parts = append(parts, p)
			}
		}
		rawName = strings.Join(parts, " ")
	}
	if rawName == "" {
		return "", nil, false
	}

	groupsRaw := row["Labels"]
	if groupsRaw == "" {
		groupsRaw = row["Group Membership"]
	}
	if groupsRaw == "" {
		groupsRaw = "* myContacts"
	}

	// Only contacts in a marker group may be modified downstream; everyone
	// else is protected.
	isMarker := n.IsMarkerGroup(groupsRaw)
	name := n.DisplayName(rawName, isMarker, true)

	rec := contacts.NewRecord()
	rec.AddGroup(n.Group(groupsRaw))
	rec.AddSource(contacts.SourcePrimary)
	rec.Protected = !isMarker
	rec.FirstName = first
	rec.MiddleName = middle
	rec.LastName = last
	rec.CompareKey = n.CompareKey(name)
	rec.Snapshot = row

	cells := make([]string, 0, phoneColumns)
	for i := 1; i <= phoneColumns; i++ {
		if v := row[fmt.Sprintf("Phone %d - Value", i)]; v != "" {
			cells = append(cells, v)
		}
	}
	for _, num := range n.ExpandPhones(cells) {
		rec.AddNumber(num)
	}

	return name, rec, true
}
