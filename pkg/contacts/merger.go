package contacts

import (
	"context"
	"sort"
	"strings"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/moazmaksod/YourContactMerger/pkg/logging"
	"github.com/moazmaksod/YourContactMerger/pkg/normalize"
)

// Merger consolidates primary and secondary contact records into a single
// deduplicated set with an audit trail.
type Merger interface {
	// Merge runs the full consolidation over both sources. The context is
	// used for logger carriage only: the passes run to completion and
	// cannot be safely interrupted without leaving the reverse index
	// inconsistent. Inputs are not mutated.
	Merge(ctx context.Context, primary, secondary map[string]*Record) (*Result, error)
}

// merger is the default implementation of Merger.
type merger struct {
	normalizer   *normalize.Normalizer
	defaultGroup string
}

// New creates a new Merger with options.
func New(opts ...Option) (Merger, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &merger{
		normalizer:   options.normalizer,
		defaultGroup: options.defaultGroup,
	}, nil
}

// mergeRun holds the working state of one merge invocation: the working map
// of display name to record, its phone reverse index, and the pass-1
// comparison-key lookup. The pair is owned exclusively by this run.
type mergeRun struct {
	merged       map[string]*Record
	index        *phoneIndex
	primaryByKey map[string]string
	result       *Result
	logger       *zerolog.Logger
}

// Merge runs the five ordered passes: seed, name-based consolidation,
// phone-based consolidation, secondary integration, and a final global
// phone consolidation. Map iteration is always by sorted display name so
// canonical selection is deterministic.
func (m *merger) Merge(ctx context.Context, primary, secondary map[string]*Record) (*Result, error) {
	run := &mergeRun{
		merged:       make(map[string]*Record, len(primary)),
		index:        newPhoneIndex(),
		primaryByKey: make(map[string]string),
		result:       newResult(),
		logger:       logging.FromContext(ctx),
	}
	run.result.Metadata.Stats.PrimaryRecords = len(primary)
	run.result.Metadata.Stats.SecondaryRecords = len(secondary)

	run.logger.Info().
		Int("primary", len(primary)).
		Int("secondary", len(secondary)).
		Msg("Starting contact merge")

	m.seed(run, primary)
	run.logger.Info().Int("records", len(run.merged)).Msg("Seeded primary records")

	m.consolidateByKey(run)
	run.logger.Info().Int("records", len(run.merged)).Msg("Name-based consolidation done")

	m.consolidateByPhone(run)
	run.logger.Info().Int("records", len(run.merged)).Msg("Phone-based consolidation done")

	m.integrateSecondary(run, secondary)
	run.logger.Info().Int("records", len(run.merged)).Msg("Secondary integration done")

	m.consolidateByPhone(run)
	run.logger.Info().Int("records", len(run.merged)).Msg("Final phone consolidation done")

	run.result.Merged = run.merged
	run.result.finalize()
	return run.result, nil
}

// seed copies every primary record into the working map, indexes its phones,
// and records the first primary name seen for each comparison key.
func (m *merger) seed(run *mergeRun, primary map[string]*Record) {
	for _, name := range sortedNames(primary) {
		src := primary[name]
		rec := NewRecord()
		for _, num := range src.Numbers {
			if rec.AddNumber(num) {
				run.index.add(num, name)
			}
		}
		for group := range src.Groups {
			rec.AddGroup(group)
		}
		for source := range src.Sources {
			rec.AddSource(source)
		}
		rec.AddSource(SourcePrimary)
		rec.Protected = src.Protected
		rec.FirstName = src.FirstName
		rec.MiddleName = src.MiddleName
		rec.LastName = src.LastName
		rec.CompareKey = m.compareKey(name, src)
		if src.Snapshot != nil {
			rec.Snapshot = copySnapshot(src.Snapshot)
		}
		run.merged[name] = rec

		// First writer wins on duplicate comparison keys.
		if rec.CompareKey != "" {
			if _, ok := run.primaryByKey[rec.CompareKey]; !ok {
				run.primaryByKey[rec.CompareKey] = name
			}
		}
	}
}

// consolidateByKey collapses records sharing a comparison key, so duplicate
// identities merge even when no phone numbers overlap.
func (m *merger) consolidateByKey(run *mergeRun) {
	byKey := make(map[string][]string)
	for _, name := range sortedNames(run.merged) {
		byKey[run.merged[name].CompareKey] = append(byKey[run.merged[name].CompareKey], name)
	}

	keys := make([]string, 0, len(byKey))
	for key := range byKey {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		names := run.alive(byKey[key])
		if len(names) < 2 {
			continue
		}
		canonical := run.canonical(names)
		for _, name := range names {
			if name != canonical && run.absorb(name, canonical) {
				run.result.Metadata.Stats.NameMerges++
			}
		}
	}
}

// consolidateByPhone collapses records sharing a phone number. Applied once
// after name consolidation and again globally after secondary integration.
func (m *merger) consolidateByPhone(run *mergeRun) {
	for _, number := range run.index.numbers() {
		holders := run.alive(run.index.holdersOf(number))
		if len(holders) < 2 {
			continue
		}
		canonical := run.canonical(holders)
		for _, name := range holders {
			if name != canonical && run.absorb(name, canonical) {
				run.result.Metadata.Stats.PhoneMerges++
			}
		}
	}
}

// integrateSecondary walks the secondary records in name order, matching
// each against the working set by phone first and comparison key second.
// Matches enrich unprotected targets, protected matches are skipped with a
// diagnostic, and unmatched records with numbers become new entries.
func (m *merger) integrateSecondary(run *mergeRun, secondary map[string]*Record) {
	for _, name := range sortedNames(secondary) {
		src := secondary[name]
		nums := m.normalizer.ExpandPhones(src.Numbers)
		if len(nums) == 0 {
			// Secondary rows without any valid number never enter the
			// working set.
			continue
		}

		target, found := run.matchTarget(nums, m.compareKey(name, src))
		if found {
			if run.merged[target].Protected {
				// Protected identity and fields are immutable from
				// secondary input. The data is not dropped silently:
				// a diagnostic audit entry is recorded and, unless its
				// name collides with the protected record, the secondary
				// enters the working set on its own, where the final
				// phone consolidation unifies the identities.
				m.recordProtectedSkip(run, target, name, src, nums)
				m.createSecondary(run, name, src, nums)
				continue
			}
			m.applySecondary(run, target, name, src, nums)
			continue
		}
		m.createSecondary(run, name, src, nums)
	}
}

// matchTarget finds an existing record for the secondary numbers or
// comparison key. Phone match wins; holders are scanned in the record's
// number order with the lexicographic first holder as tie-break.
func (run *mergeRun) matchTarget(nums []string, compareKey string) (string, bool) {
	for _, num := range nums {
		if holder, ok := run.index.firstHolder(num); ok {
			return holder, true
		}
	}
	if compareKey != "" {
		if name, ok := run.primaryByKey[compareKey]; ok {
			if _, alive := run.merged[name]; alive {
				return name, true
			}
		}
	}
	return "", false
}

// recordProtectedSkip surfaces a secondary match against a protected record:
// the target is left untouched, an audit entry captures the numbers the
// secondary source would have contributed, and a skip diagnostic is kept.
func (m *merger) recordProtectedSkip(run *mergeRun, target, name string, src *Record, nums []string) {
	rec := run.merged[target]

	added := []string{}
	for _, num := range nums {
		if !rec.HasNumber(num) {
			added = append(added, num)
		}
	}
	sort.Strings(added)

	run.result.Audit = append(run.result.Audit, AuditEntry{
		Name:        target,
		OriginalRow: copySnapshot(rec.Snapshot),
		Update: UpdateDelta{
			SecondaryName:         name,
			SecondaryOriginalName: src.OriginalName,
			AddedNumbers:          added,
		},
		Final:           finalState(rec),
		ProtectedTarget: true,
		MergedAt:        utc.Now(),
	})
	run.result.Skipped = append(run.result.Skipped, SkippedEntry{
		Name:                  target,
		SecondaryName:         name,
		SecondaryOriginalName: src.OriginalName,
		Numbers:               nums,
	})
	run.result.Metadata.Stats.SkippedProtected++
	run.logger.Debug().
		Str("target", target).
		Str("secondary", name).
		Msg("Protected record matched secondary data; left untouched")
}

// applySecondary enriches an existing unprotected target with a matched
// secondary record.
func (m *merger) applySecondary(run *mergeRun, target, name string, src *Record, nums []string) {
	rec := run.merged[target]

	snapshot := copySnapshot(rec.Snapshot)
	delta := UpdateDelta{
		SecondaryName:         name,
		SecondaryOriginalName: src.OriginalName,
		AddedNumbers:          []string{},
	}

	for _, num := range nums {
		if rec.AddNumber(num) {
			delta.AddedNumbers = append(delta.AddedNumbers, num)
		}
		run.index.add(num, target)
	}
	sort.Strings(delta.AddedNumbers)

	rec.AddSource(SourceSecondary)
	if rec.FirstName == "" && src.FirstName != "" {
		rec.FirstName = src.FirstName
		delta.AddedFirstName = true
	}
	if rec.LastName == "" && src.LastName != "" {
		rec.LastName = src.LastName
		delta.AddedLastName = true
	}

	duplicate := src.OriginalName
	if duplicate == "" {
		duplicate = name
	}
	rec.AddDuplicate(duplicate)

	run.result.Audit = append(run.result.Audit, AuditEntry{
		Name:        target,
		OriginalRow: snapshot,
		Update:      delta,
		Final:       finalState(rec),
		MergedAt:    utc.Now(),
	})
	run.result.Metadata.Stats.Enriched++
}

// createSecondary adds an unmatched secondary record to the working set.
func (m *merger) createSecondary(run *mergeRun, name string, src *Record, nums []string) {
	rec, exists := run.merged[name]
	if exists && rec.Protected {
		// The name already belongs to a protected record, which secondary
		// input must not modify. The skip diagnostic recorded on the match
		// carries the offered numbers.
		return
	}
	if !exists {
		rec = NewRecord()
		rec.FirstName = src.FirstName
		rec.MiddleName = src.MiddleName
		rec.LastName = src.LastName
		rec.OriginalName = src.OriginalName
		rec.CompareKey = m.compareKey(name, src)
		run.merged[name] = rec
		run.result.Metadata.Stats.Created++
	}
	for _, num := range nums {
		rec.AddNumber(num)
		run.index.add(num, name)
	}
	rec.AddGroup(m.defaultGroup)
	rec.AddSource(SourceSecondary)

	// Reference, not absorb: an existing display name differing only by
	// case is recorded as a duplicate on the new record.
	lower := strings.ToLower(strings.TrimSpace(name))
	for _, existing := range sortedNames(run.merged) {
		if existing != name && strings.ToLower(strings.TrimSpace(existing)) == lower {
			rec.AddDuplicate(existing)
		}
	}
}

// absorb moves every phone, group, source, and duplicate from the source
// record into the destination, re-points the reverse index, ORs protection,
// and deletes the source key. No-op when either key is gone, which makes
// retries with an already-absorbed source safe.
func (run *mergeRun) absorb(srcKey, dstKey string) bool {
	if srcKey == dstKey {
		return false
	}
	src, ok := run.merged[srcKey]
	if !ok {
		return false
	}
	dst, ok := run.merged[dstKey]
	if !ok {
		return false
	}

	run.logger.Debug().Str("from", srcKey).Str("into", dstKey).Msg("Absorbing record")

	for _, num := range src.Numbers {
		dst.AddNumber(num)
		run.index.move(num, srcKey, dstKey)
	}
	for group := range src.Groups {
		dst.AddGroup(group)
	}
	for source := range src.Sources {
		dst.AddSource(source)
	}
	for duplicate := range src.Duplicates {
		dst.AddDuplicate(duplicate)
	}
	dst.AddDuplicate(srcKey)

	if dst.Snapshot == nil && src.Snapshot != nil {
		dst.Snapshot = copySnapshot(src.Snapshot)
	}
	dst.Protected = dst.Protected || src.Protected

	delete(run.merged, srcKey)
	return true
}

// canonical picks the surviving record among names: the first unprotected
// member in order, or the first member when all are protected.
func (run *mergeRun) canonical(names []string) string {
	for _, name := range names {
		if rec, ok := run.merged[name]; ok && !rec.Protected {
			return name
		}
	}
	return names[0]
}

// alive filters names down to keys still present in the working map.
func (run *mergeRun) alive(names []string) []string {
	out := names[:0:0]
	for _, name := range names {
		if _, ok := run.merged[name]; ok {
			out = append(out, name)
		}
	}
	return out
}

// compareKey returns the record's comparison key, deriving it from the
// display name when the loader did not set one.
func (m *merger) compareKey(name string, rec *Record) string {
	if rec.CompareKey != "" {
		return rec.CompareKey
	}
	return m.normalizer.CompareKey(name)
}

func copySnapshot(snapshot map[string]string) map[string]string {
	if snapshot == nil {
		return nil
	}
	out := make(map[string]string, len(snapshot))
	for k, v := range snapshot {
		out[k] = v
	}
	return out
}

// sortedNames returns the map keys in lexicographic order. All pass
// iteration goes through this so tie-breaks never depend on map ordering.
func sortedNames(records map[string]*Record) []string {
	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
