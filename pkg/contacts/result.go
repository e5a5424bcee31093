package contacts

import (
	"fmt"
	"time"
)

// Result is the outcome of one merge invocation. After the engine returns,
// no further mutation of the merged set occurs in the core.
type Result struct {
	// Merged maps display name to the surviving record for that identity.
	Merged map[string]*Record

	// Audit lists every secondary-source enrichment, in processing order.
	Audit []AuditEntry

	// Skipped lists secondary records dropped because they matched a
	// protected record.
	Skipped []SkippedEntry

	// Metadata describes the merge run.
	Metadata ResultMetadata
}

// ResultMetadata contains metadata about the merge process.
type ResultMetadata struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration
	Stats     ResultStatistics
}

// ResultStatistics counts what each pass did.
type ResultStatistics struct {
	// PrimaryRecords and SecondaryRecords are the input sizes.
	PrimaryRecords   int
	SecondaryRecords int

	// NameMerges counts absorptions from comparison-key consolidation.
	NameMerges int

	// PhoneMerges counts absorptions from both phone consolidation passes.
	PhoneMerges int

	// Enriched counts secondary records merged into existing records.
	Enriched int

	// Created counts records newly added from the secondary source.
	Created int

	// SkippedProtected counts secondary records dropped on protected
	// matches.
	SkippedProtected int

	// FinalRecords is the size of the merged set.
	FinalRecords int
}

// newResult creates a result with the containers initialized.
func newResult() *Result {
	return &Result{
		Merged:  make(map[string]*Record),
		Audit:   []AuditEntry{},
		Skipped: []SkippedEntry{},
		Metadata: ResultMetadata{
			StartTime: time.Now(),
		},
	}
}

// finalize stamps the end time and final counts.
func (r *Result) finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
	r.Metadata.Stats.FinalRecords = len(r.Merged)
}

// Summary returns a human-readable summary of the merge run.
func (r *Result) Summary() string {
	s := r.Metadata.Stats
	return fmt.Sprintf(
		"Merged %d primary and %d secondary records into %d contacts (%d name merges, %d phone merges, %d enriched, %d created, %d protected skips)",
		s.PrimaryRecords, s.SecondaryRecords, s.FinalRecords,
		s.NameMerges, s.PhoneMerges, s.Enriched, s.Created, s.SkippedProtected,
	)
}
