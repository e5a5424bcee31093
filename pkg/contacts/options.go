package contacts

import (
	"github.com/moazmaksod/YourContactMerger/pkg/errors"
	"github.com/moazmaksod/YourContactMerger/pkg/normalize"
)

// DefaultNewGroup is the group assigned to records created from the
// secondary source.
const DefaultNewGroup = "🧪 Lab ::: * myContacts"

// options configures a merger.
type options struct {
	normalizer   *normalize.Normalizer
	defaultGroup string
}

func defaultOptions() *options {
	return &options{
		normalizer:   normalize.Default(),
		defaultGroup: DefaultNewGroup,
	}
}

// Option is a function that configures a Merger.
type Option func(*options) error

func newOptions(opts ...Option) (*options, error) {
	options := defaultOptions()
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}
	return options, nil
}

// WithNormalizer sets the normalizer used for comparison keys and for
// re-normalizing secondary phone values.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(o *options) error {
		if n == nil {
			return &errors.ValidationError{
				Field:   "normalizer",
				Message: "cannot be nil",
			}
		}
		o.normalizer = n
		return nil
	}
}

// WithDefaultGroup sets the group assigned to newly created secondary
// records.
func WithDefaultGroup(group string) Option {
	return func(o *options) error {
		if group == "" {
			return &errors.ValidationError{
				Field:   "default_group",
				Message: "cannot be empty",
			}
		}
		o.defaultGroup = group
		return nil
	}
}
