package audit

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jhcook/agentic-governance/governance"
	"github.com/stretchr/testify/assert"
)

func sampleRecord() *governance.AuditRecord {
	return &governance.AuditRecord{
		StoryID:        "STORY-42",
		RunID:          uuid.New(),
		OverallVerdict: governance.VerdictBlock,
		Engine:         "native",
		RuntimeMS:      1234,
		Roles: []governance.RoleReview{
			{
				Name:            "Security",
				Verdict:         governance.VerdictBlock,
				Summary:         "missing auth check",
				Findings:        []string{"handler.go:12 has no auth check (Source: review)"},
				RequiredChanges: []string{"add auth middleware (Source: ADR-003)"},
				References: governance.ReferenceReport{
					Cited: []governance.Reference{{Kind: governance.ReferenceADR, ID: "003"}},
					Valid: []governance.Reference{{Kind: governance.ReferenceADR, ID: "003"}},
				},
			},
		},
	}
}

func TestWrite_CreatesLogUnderAgentLogsDir(t *testing.T) {
	dir := t.TempDir()
	record := sampleRecord()
	now := time.Unix(1700000000, 0)

	result, err := Write(dir, record, now)
	assert.NoError(t, err)

	expected := filepath.Join(dir, ".agent", "logs", "governance-STORY-42-1700000000.md")
	assert.Equal(t, expected, result.LogPath)

	data, err := os.ReadFile(expected)
	assert.NoError(t, err)
	assert.Contains(t, string(data), "Overall Verdict: BLOCK")
	assert.Contains(t, string(data), "@Security")
	assert.Contains(t, string(data), "Reference Validation")
}

func TestWrite_DistinctTimestampsNeverCollide(t *testing.T) {
	dir := t.TempDir()
	r1, err := Write(dir, sampleRecord(), time.Unix(1000, 0))
	assert.NoError(t, err)
	r2, err := Write(dir, sampleRecord(), time.Unix(2000, 0))
	assert.NoError(t, err)
	assert.NotEqual(t, r1.LogPath, r2.LogPath)
}

func TestMarshalJSON_RoundTripsOverallVerdict(t *testing.T) {
	data, err := MarshalJSON(sampleRecord())
	assert.NoError(t, err)
	assert.Contains(t, string(data), `"OverallVerdict": "BLOCK"`)

	var decoded governance.AuditRecord
	assert.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, governance.VerdictBlock, decoded.OverallVerdict)
}

func TestAtomicWrite_NoTempFileLeftBehindOnSuccess(t *testing.T) {
	dir := t.TempDir()
	_, err := Write(dir, sampleRecord(), time.Unix(1, 0))
	assert.NoError(t, err)

	entries, err := os.ReadDir(filepath.Join(dir, ".agent", "logs"))
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
}
