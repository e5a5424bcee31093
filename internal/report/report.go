// Package report persists the audit trail of a merge run: a JSON document
// with a summary and every enrichment, plus a flat CSV rendering for
// spreadsheet review.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/agentstation/utc"
	"github.com/google/uuid"

	"github.com/moazmaksod/YourContactMerger/pkg/contacts"
	"github.com/moazmaksod/YourContactMerger/pkg/errors"
)

// timestampLayout names report files so runs sort chronologically.
const timestampLayout = "20060102_150405"

// Report is the JSON document written for one merge run.
type Report struct {
	RunID       string                  `json:"run_id"`
	GeneratedAt utc.Time                `json:"generated_at"`
	Summary     Summary                 `json:"summary"`
	Entries     []contacts.AuditEntry   `json:"entries"`
	Skipped     []contacts.SkippedEntry `json:"skipped,omitempty"`
}

// Summary condenses the run statistics.
type Summary struct {
	PrimaryRecords   int    `json:"primary_records"`
	SecondaryRecords int    `json:"secondary_records"`
	NameMerges       int    `json:"name_merges"`
	PhoneMerges      int    `json:"phone_merges"`
	Enriched         int    `json:"enriched"`
	Created          int    `json:"created"`
	SkippedProtected int    `json:"skipped_protected"`
	FinalRecords     int    `json:"final_records"`
	Duration         string `json:"duration"`
}

// Writer writes reports into a directory.
type Writer struct {
	dir string
}

// NewWriter creates a report writer rooted at dir, creating it if needed.
func NewWriter(dir string) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.WrapIO("create", dir, err)
	}
	return &Writer{dir: dir}, nil
}

// Build assembles the report document for a merge result.
func Build(result *contacts.Result) *Report {
	s := result.Metadata.Stats
	return &Report{
		RunID:       uuid.NewString(),
		GeneratedAt: utc.Now(),
		Summary: Summary{
			PrimaryRecords:   s.PrimaryRecords,
			SecondaryRecords: s.SecondaryRecords,
			NameMerges:       s.NameMerges,
			PhoneMerges:      s.PhoneMerges,
			Enriched:         s.Enriched,
			Created:          s.Created,
			SkippedProtected: s.SkippedProtected,
			FinalRecords:     s.FinalRecords,
			Duration:         result.Metadata.Duration.String(),
		},
		Entries: result.Audit,
		Skipped: result.Skipped,
	}
}

// Write persists the JSON and CSV reports for a merge result and returns
// their paths. Nothing is written when the audit trail is empty.
func (w *Writer) Write(result *contacts.Result) (jsonPath, csvPath string, err error) {
	if len(result.Audit) == 0 && len(result.Skipped) == 0 {
		return "", "", nil
	}

	report := Build(result)
	stamp := time.Now().Format(timestampLayout)

	jsonPath = filepath.Join(w.dir, fmt.Sprintf("merge_log_%s.json", stamp))
	if err := w.writeJSON(jsonPath, report); err != nil {
		return "", "", err
	}

	csvPath = filepath.Join(w.dir, fmt.Sprintf("merge_log_%s.csv", stamp))
	if err := w.writeCSV(csvPath, report); err != nil {
		return "", "", err
	}

	return jsonPath, csvPath, nil
}

func (w *Writer) writeJSON(path string, report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return errors.WrapParse("json", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}

// csvHeader is the flat audit rendering.
var csvHeader = []string{
	"Contact",
	"Secondary Name",
	"Secondary Original Name",
	"Added Numbers",
	"Added First Name",
	"Added Last Name",
	"Protected Target",
	"Final Phone Numbers",
	"Final Groups",
	"Final Sources",
	"Final Duplicates",
}

func (w *Writer) writeCSV(path string, report *Report) error {
	var buf bytes.Buffer
	buf.WriteString("\uFEFF")

	cw := csv.NewWriter(&buf)
	if err := cw.Write(csvHeader); err != nil {
		return errors.WrapIO("write", path, err)
	}
	for _, entry := range report.Entries {
		line := []string{
			entry.Name,
			entry.Update.SecondaryName,
			entry.Update.SecondaryOriginalName,
			strings.Join(entry.Update.AddedNumbers, ", "),
			strconv.FormatBool(entry.Update.AddedFirstName),
			strconv.FormatBool(entry.Update.AddedLastName),
			strconv.FormatBool(entry.ProtectedTarget),
			strings.Join(entry.Final.Phones, ", "),
			entry.Final.Groups,
			entry.Final.Sources,
			entry.Final.Duplicates,
		}
		if err := cw.Write(line); err != nil {
			return errors.WrapIO("write", path, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.WrapIO("write", path, err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
