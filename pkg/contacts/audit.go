package contacts

import "github.com/agentstation/utc"

// AuditEntry captures one secondary-source enrichment of an existing
// unprotected record: which secondary record matched, what actually changed,
// and the target's state before and after.
type AuditEntry struct {
	// Name is the display name of the enriched record.
	Name string `json:"name"`

	// OriginalRow is the target's primary-source field snapshot before the
	// merge, when one exists.
	OriginalRow map[string]string `json:"original_row,omitempty"`

	// Update is the structured delta applied by the enrichment.
	Update UpdateDelta `json:"update"`

	// Final is the target's projected state after the enrichment.
	Final FinalState `json:"final"`

	// ProtectedTarget marks an entry where the matched record was
	// protected: the delta records what the secondary source offered, but
	// the record itself was not modified.
	ProtectedTarget bool `json:"protected_target,omitempty"`

	// MergedAt is when the enrichment was applied.
	MergedAt utc.Time `json:"merged_at"`
}

// UpdateDelta describes what a secondary record contributed.
type UpdateDelta struct {
	// SecondaryName is the secondary record's display name in the
	// working-set vocabulary.
	SecondaryName string `json:"secondary_name"`

	// SecondaryOriginalName is the raw name as it appeared in the
	// secondary source.
	SecondaryOriginalName string `json:"secondary_original_name,omitempty"`

	// AddedNumbers lists the canonical numbers actually added, sorted.
	AddedNumbers []string `json:"added_numbers"`

	// AddedFirstName and AddedLastName report whether an empty name part
	// was filled.
	AddedFirstName bool `json:"added_first_name"`
	AddedLastName  bool `json:"added_last_name"`
}

// FinalState is the post-merge projection recorded alongside the delta.
type FinalState struct {
	Phones     []string `json:"phones"`
	Groups     string   `json:"groups"`
	Sources    string   `json:"sources"`
	Duplicates string   `json:"duplicates"`
}

// SkippedEntry surfaces a secondary record whose phone or name matched a
// protected record. The protected record is left untouched; the entry exists
// so the dropped data is visible instead of disappearing silently.
type SkippedEntry struct {
	// Name is the display name of the protected record that matched.
	Name string `json:"name"`

	// SecondaryName identifies the secondary record whose data was dropped.
	SecondaryName string `json:"secondary_name"`

	// SecondaryOriginalName is the raw name from the secondary source.
	SecondaryOriginalName string `json:"secondary_original_name,omitempty"`

	// Numbers are the secondary record's canonical numbers that were not
	// integrated.
	Numbers []string `json:"numbers"`
}

// finalState projects a record into its audit rendering.
func finalState(rec *Record) FinalState {
	return FinalState{
		Phones:     rec.SortedNumbers(),
		Groups:     rec.JoinedGroups(),
		Sources:    rec.JoinedSources(),
		Duplicates: rec.JoinedDuplicates(),
	}
}
