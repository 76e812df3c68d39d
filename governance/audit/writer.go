// Package audit renders a council AuditRecord to a markdown report and
// writes it atomically under a repository's .agent/logs/ directory.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jhcook/agentic-governance/governance"
	"github.com/jhcook/agentic-governance/governance/scrub"
)

// WriteResult is what Write returns: the markdown report's path and the
// JSON-serializable record the report was rendered from.
type WriteResult struct {
	LogPath string
	Record  *governance.AuditRecord
}

// Write renders record as markdown and atomically persists it under
// <repoRoot>/.agent/logs/governance-<story>-<unix_ts>.md, where unix_ts
// comes from now. It never overwrites an existing file: a second write for
// the same story and the same second fails instead.
func Write(repoRoot string, record *governance.AuditRecord, now time.Time) (*WriteResult, error) {
	logDir := filepath.Join(repoRoot, ".agent", "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, fmt.Errorf("audit: create log dir: %w", err)
	}

	ts := now.Unix()
	logPath := filepath.Join(logDir, fmt.Sprintf("governance-%s-%d.md", record.StoryID, ts))
	record.LogPath = logPath

	report := scrub.New().Scrub(render(record))
	if err := atomicWrite(logPath, []byte(report)); err != nil {
		return nil, err
	}

	return &WriteResult{LogPath: logPath, Record: record}, nil
}

// MarshalJSON returns the structured JSON form of record, for callers that
// want the machine-readable companion to the markdown report.
func MarshalJSON(record *governance.AuditRecord) ([]byte, error) {
	return json.MarshalIndent(record, "", "  ")
}

// atomicWrite writes data to path via a temp file in the same directory,
// fsync, then rename — so a crash mid-write never leaves a partial report
// at the final path.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".governance-*.tmp")
	if err != nil {
		return fmt.Errorf("audit: create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("audit: write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("audit: sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("audit: close temp file: %w", err)
	}
	if _, err := os.Lstat(path); err == nil {
		return fmt.Errorf("audit: %s already exists", path)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("audit: rename temp file into place: %w", err)
	}
	return nil
}

func render(record *governance.AuditRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Governance Preflight Report\n\nStory: %s\n\n", record.StoryID)

	for _, role := range record.Roles {
		fmt.Fprintf(&b, "### @%s\n", role.Name)
		b.WriteString(verdictLine(role.Verdict))
		if role.DemotionReason != "" {
			fmt.Fprintf(&b, "_Demoted: %s_\n\n", role.DemotionReason)
		}
		if role.Summary != "" {
			fmt.Fprintf(&b, "**Summary**: %s\n\n", role.Summary)
		}
		if len(role.Findings) > 0 {
			b.WriteString("**Findings**:\n")
			for _, f := range role.Findings {
				fmt.Fprintf(&b, "- %s\n", f)
			}
			b.WriteString("\n")
		}
		if len(role.RequiredChanges) > 0 {
			b.WriteString("**Required Changes**:\n")
			for _, c := range role.RequiredChanges {
				fmt.Fprintf(&b, "- %s\n", c)
			}
			b.WriteString("\n")
		}
		if len(role.Findings) == 0 && len(role.RequiredChanges) == 0 {
			b.WriteString("No issues found.\n\n")
		}
	}

	writeReferenceSection(&b, record.ReferenceMetrics)

	fmt.Fprintf(&b, "\n## Overall Verdict: %s\n", record.OverallVerdict)
	fmt.Fprintf(&b, "\nEngine: %s | Run: %s | Runtime: %dms\n", record.Engine, record.RunID, record.RuntimeMS)
	return b.String()
}

func verdictLine(v governance.Verdict) string {
	switch v {
	case governance.VerdictBlock:
		return "**Verdict**: ❌ BLOCK\n\n"
	case governance.VerdictAdvice:
		return "**Verdict**: ℹ️ ADVICE\n\n"
	default:
		return "**Verdict**: ✅ PASS\n\n"
	}
}

func writeReferenceSection(b *strings.Builder, refs governance.ReferenceReport) {
	validSet := uniqueSorted(refs.Valid)
	invalidSet := uniqueSorted(refs.Invalid)
	total := len(validSet) + len(invalidSet)

	citationRate, hallucinationRate := 0.0, 0.0
	if total > 0 {
		citationRate = round2(float64(len(validSet)) / float64(total))
		hallucinationRate = round2(float64(len(invalidSet)) / float64(total))
	}

	b.WriteString("\n## Reference Validation\n\n")
	b.WriteString("| Metric | Value |\n|---|---|\n")
	fmt.Fprintf(b, "| Total References | %d |\n", total)
	fmt.Fprintf(b, "| Valid | %d |\n", len(validSet))
	fmt.Fprintf(b, "| Invalid | %d |\n", len(invalidSet))
	fmt.Fprintf(b, "| Citation Rate | %.2f |\n", citationRate)
	fmt.Fprintf(b, "| Hallucination Rate | %.2f |\n\n", hallucinationRate)

	if len(invalidSet) > 0 {
		b.WriteString("**Invalid References:**\n")
		for _, r := range invalidSet {
			fmt.Fprintf(b, "- %s\n", r)
		}
		b.WriteString("\n")
	}
}

func uniqueSorted(refs []governance.Reference) []string {
	seen := map[string]bool{}
	var out []string
	for _, r := range refs {
		s := r.String()
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
