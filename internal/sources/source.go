// Package sources defines the loader contract shared by every contact
// origin: primary address-book exports and the secondary patient directory.
package sources

import (
	"context"

	"github.com/moazmaksod/YourContactMerger/pkg/contacts"
)

// Source loads contact records keyed by display name, shaped and normalized
// for the merge engine.
type Source interface {
	// Name identifies the source in logs and errors.
	Name() string

	// Load reads the source in full. The returned map is owned by the
	// caller.
	Load(ctx context.Context) (map[string]*contacts.Record, error)
}
