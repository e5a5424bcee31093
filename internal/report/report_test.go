package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/agentstation/utc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moazmaksod/YourContactMerger/pkg/contacts"
)

func sampleResult() *contacts.Result {
	return &contacts.Result{
		Audit: []contacts.AuditEntry{
			{
				Name: "Jane Lab",
				Update: contacts.UpdateDelta{
					SecondaryName:         "Jane Lab",
					SecondaryOriginalName: "جين",
					AddedNumbers:          []string{"+201222222"},
					AddedLastName:         true,
				},
				Final: contacts.FinalState{
					Phones:  []string{"+201111111", "+201222222"},
					Groups:  "🧪 Lab ::: * myContacts",
					Sources: "Primary & Secondary",
				},
				MergedAt: utc.Now(),
			},
		},
		Skipped: []contacts.SkippedEntry{
			{Name: "Jane Doe", SecondaryName: "Jane Lab", Numbers: []string{"+201222222"}},
		},
		Metadata: contacts.ResultMetadata{
			Stats: contacts.ResultStatistics{
				PrimaryRecords:   2,
				SecondaryRecords: 1,
				Enriched:         1,
				SkippedProtected: 1,
				FinalRecords:     2,
			},
		},
	}
}

func TestBuild(t *testing.T) {
	report := Build(sampleResult())

	assert.NotEmpty(t, report.RunID)
	assert.False(t, report.GeneratedAt.IsZero())
	assert.Equal(t, 2, report.Summary.PrimaryRecords)
	assert.Equal(t, 1, report.Summary.Enriched)
	assert.Equal(t, 1, report.Summary.SkippedProtected)
	assert.Len(t, report.Entries, 1)
	assert.Len(t, report.Skipped, 1)
}

func TestWriteProducesJSONAndCSV(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	jsonPath, csvPath, err := w.Write(sampleResult())
	require.NoError(t, err)
	require.NotEmpty(t, jsonPath)
	require.NotEmpty(t, csvPath)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)

	var report Report
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, "Jane Lab", report.Entries[0].Name)
	assert.Equal(t, []string{"+201222222"}, report.Entries[0].Update.AddedNumbers)
	assert.Equal(t, "Jane Doe", report.Skipped[0].Name)

	csvData, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	text := string(csvData)
	assert.True(t, strings.HasPrefix(text, "\uFEFF"))
	assert.Contains(t, text, "Jane Lab")
	assert.Contains(t, text, "+201111111, +201222222")
}

func TestWriteSkipsEmptyAudit(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	jsonPath, csvPath, err := w.Write(&contacts.Result{})
	require.NoError(t, err)
	assert.Empty(t, jsonPath)
	assert.Empty(t, csvPath)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewWriterCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs", "nested")
	_, err := NewWriter(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
