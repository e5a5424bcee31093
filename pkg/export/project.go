// Package export flattens merged contact records into the primary-source
// CSV column vocabulary and writes spreadsheet-compatible output.
package export

import (
	"fmt"
	"strings"

	"github.com/moazmaksod/YourContactMerger/pkg/contacts"
)

// maxPhoneSlots is the number of "Phone N - Value" column pairs in the
// export vocabulary. Numbers beyond the last slot are dropped.
const maxPhoneSlots = 4

// requiredColumns are always present in the output, appended after any
// template columns that do not already include them.
var requiredColumns = []string{
	"First Name",
	"Middle Name",
	"Last Name",
	"Group Membership",
	"Phone 1 - Type",
	"Phone 1 - Value",
	"Phone 2 - Type",
	"Phone 2 - Value",
	"Phone 3 - Type",
	"Phone 3 - Value",
	"Phone 4 - Type",
	"Phone 4 - Value",
	"Labels",
	"Custom Field 1 - Label",
	"Custom Field 1 - Value",
	"Custom Field 2 - Label",
	"Custom Field 2 - Value",
}

// DefaultColumns returns the stock export header used when no template is
// configured.
func DefaultColumns() []string {
	out := make([]string, len(requiredColumns))
	copy(out, requiredColumns)
	return out
}

// Columns derives the output header from a template header: the "Name"
// column is dropped (the display name is split across the name-part
// columns) and every required column missing from the template is appended.
func Columns(template []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, col := range template {
		if col == "Name" {
			continue
		}
		out = append(out, col)
		seen[col] = struct{}{}
	}
	for _, col := range requiredColumns {
		if _, ok := seen[col]; !ok {
			out = append(out, col)
		}
	}
	return out
}

// Row projects one merged record into a flat column map over columns.
// Snapshot fields from the primary source are reproduced untouched, then the
// phone slots, label, and custom-field columns are overwritten from the
// merged state.
func (e *Exporter) Row(name string, rec *contacts.Record, columns []string) map[string]string {
	row := make(map[string]string, len(columns))
	for _, col := range columns {
		row[col] = ""
	}

	groups := rec.JoinedGroups()
	if groups == "" {
		groups = "* myContacts"
	}
	groups = e.normalizer.Group(groups)

	if rec.Snapshot != nil {
		for _, col := range columns {
			row[col] = rec.Snapshot[col]
		}
	} else {
		row["First Name"] = name
	}

	// Phones already present in the snapshot keep their slots; merged
	// numbers follow, deduplicated, capped at the slot count. A value that
	// is just the default country code carries no information and is
	// filtered out.
	existing := make([]string, 0, maxPhoneSlots)
	for i := 1; i <= maxPhoneSlots; i++ {
		existing = append(existing, row[phoneValueColumn(i)])
	}
	phones := e.normalizer.ExpandPhones(existing)
	for _, num := range e.normalizer.ExpandPhones(rec.Numbers) {
		if !containsString(phones, num) {
			phones = append(phones, num)
		}
	}
	if len(phones) > maxPhoneSlots {
		phones = phones[:maxPhoneSlots]
	}
	phones = e.filterBareCountryCode(phones)

	for i := 1; i <= maxPhoneSlots; i++ {
		row[phoneValueColumn(i)] = ""
	}
	for i, num := range phones {
		slot := i + 1
		row[phoneValueColumn(slot)] = num
		if row[phoneTypeColumn(slot)] == "" {
			row[phoneTypeColumn(slot)] = "Mobile"
		}
	}

	setIfPresent(row, "Labels", groups)
	if row["Custom Field 1 - Label"] == "" {
		setIfPresent(row, "Custom Field 1 - Label", "Duplicate Names")
	}
	setIfPresent(row, "Custom Field 1 - Value", rec.JoinedDuplicates())
	if row["Custom Field 2 - Label"] == "" {
		setIfPresent(row, "Custom Field 2 - Label", "Sources")
	}
	setIfPresent(row, "Custom Field 2 - Value", rec.JoinedSources())

	return row
}

// filterBareCountryCode drops values that equal the configured default
// country code with nothing after it.
func (e *Exporter) filterBareCountryCode(phones []string) []string {
	cc := e.normalizer.DefaultCountryCode()
	if !strings.HasPrefix(cc, "+") {
		cc = "+" + cc
	}
	out := phones[:0]
	for _, num := range phones {
		if num != "" && num != cc {
			out = append(out, num)
		}
	}
	return out
}

func phoneValueColumn(slot int) string {
	return fmt.Sprintf("Phone %d - Value", slot)
}

func phoneTypeColumn(slot int) string {
	return fmt.Sprintf("Phone %d - Type", slot)
}

// setIfPresent assigns only when the column is part of the output header.
func setIfPresent(row map[string]string, col, value string) {
	if _, ok := row[col]; ok {
		row[col] = value
	}
}

func containsString(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
