// Package contacts implements the record model and the multi-pass merge
// engine that consolidates contact records from a primary address-book
// source and a secondary tabular source into a single deduplicated set.
//
// The engine is single-threaded: a working map and its phone reverse index
// are owned exclusively by one Merge call for its entire lifetime and must
// not be shared across simultaneous invocations.
package contacts

import (
	"sort"
	"strings"
)

// Source tags the origin of a record's data.
type Source string

const (
	// SourcePrimary is the higher-trust address-book source whose groups
	// determine protection status.
	SourcePrimary Source = "Primary"

	// SourceSecondary is the phone-number-centric source used only to
	// enrich or create records.
	SourceSecondary Source = "Secondary"
)

// Record is one entry per distinct identity. The display name lives in the
// working map key, not on the record itself; merging a source record into a
// destination deletes the source key.
type Record struct {
	// Numbers holds canonical phone numbers, ordered by first insertion.
	Numbers []string

	// Groups is the set of normalized group labels.
	Groups map[string]struct{}

	// Sources accumulates origin tags and never shrinks.
	Sources map[Source]struct{}

	// Duplicates records alternate names absorbed into this record.
	Duplicates map[string]struct{}

	// Protected records originate in a non-modifiable primary group; their
	// display identity is never overwritten and secondary data never
	// touches them. Monotonic-OR under merging.
	Protected bool

	// Name parts are filled opportunistically and never overwritten once
	// non-empty.
	FirstName  string
	MiddleName string
	LastName   string

	// OriginalName preserves the secondary source's raw name for the
	// audit trail.
	OriginalName string

	// CompareKey is the lower-cased, marker-stripped identity key. Used
	// purely for matching, never displayed.
	CompareKey string

	// Snapshot carries the original primary-source field values so export
	// can reproduce untouched columns.
	Snapshot map[string]string
}

// NewRecord returns an empty record with all sets initialized.
func NewRecord() *Record {
	return &Record{
		Groups:     make(map[string]struct{}),
		Sources:    make(map[Source]struct{}),
		Duplicates: make(map[string]struct{}),
	}
}

// HasNumber reports whether the record already holds the canonical number.
func (r *Record) HasNumber(number string) bool {
	for _, n := range r.Numbers {
		if n == number {
			return true
		}
	}
	return false
}

// AddNumber appends a canonical number, preserving first-insertion order.
// It reports whether the number was actually added.
func (r *Record) AddNumber(number string) bool {
	if number == "" || r.HasNumber(number) {
		return false
	}
	r.Numbers = append(r.Numbers, number)
	return true
}

// AddGroup adds a normalized group label to the set.
func (r *Record) AddGroup(group string) {
	if group != "" {
		r.Groups[group] = struct{}{}
	}
}

// AddSource adds an origin tag to the set.
func (r *Record) AddSource(source Source) {
	r.Sources[source] = struct{}{}
}

// AddDuplicate records an absorbed alternate name.
func (r *Record) AddDuplicate(name string) {
	if name != "" {
		r.Duplicates[name] = struct{}{}
	}
}

// HasSource reports whether the record carries the origin tag.
func (r *Record) HasSource(source Source) bool {
	_, ok := r.Sources[source]
	return ok
}

// SortedNumbers returns the phone numbers in lexicographic order.
func (r *Record) SortedNumbers() []string {
	out := make([]string, len(r.Numbers))
	copy(out, r.Numbers)
	sort.Strings(out)
	return out
}

// SortedGroups returns the group labels in lexicographic order.
func (r *Record) SortedGroups() []string {
	return sortedKeys(r.Groups)
}

// SortedDuplicates returns the duplicate names in lexicographic order.
func (r *Record) SortedDuplicates() []string {
	return sortedKeys(r.Duplicates)
}

// SortedSources returns the origin tags in lexicographic order.
func (r *Record) SortedSources() []string {
	out := make([]string, 0, len(r.Sources))
	for s := range r.Sources {
		out = append(out, string(s))
	}
	sort.Strings(out)
	return out
}

// JoinedGroups renders the group set as a single exportable label string.
func (r *Record) JoinedGroups() string {
	return strings.Join(r.SortedGroups(), " ::: ")
}

// JoinedSources renders the source tags as a single exportable string.
func (r *Record) JoinedSources() string {
	return strings.Join(r.SortedSources(), " & ")
}

// JoinedDuplicates renders the duplicate names as a single exportable string.
func (r *Record) JoinedDuplicates() string {
	return strings.Join(r.SortedDuplicates(), " - ")
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
