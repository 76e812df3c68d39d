// Package governance implements the AI Governance Council Orchestrator: it
// convenes a panel of role-scoped LLM reviewers over a code change, reconciles
// their findings against the repository's ground truth, and produces a
// PASS/ADVICE/BLOCK verdict plus an auditable report.
package governance

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Verdict is the outcome of a single role review or an entire council run.
type Verdict string

const (
	VerdictPass   Verdict = "PASS"
	VerdictAdvice Verdict = "ADVICE"
	VerdictBlock  Verdict = "BLOCK"
)

// CouncilMode controls how a BLOCK from an individual role propagates to the
// overall verdict.
type CouncilMode string

const (
	// ModeGatekeeper: any role BLOCK makes the overall verdict BLOCK.
	ModeGatekeeper CouncilMode = "gatekeeper"
	// ModeConsultative: role BLOCKs are demoted to ADVICE at aggregation.
	ModeConsultative CouncilMode = "consultative"
)

// ReferenceKind identifies the knowledge-base artifact family a citation
// points at.
type ReferenceKind string

const (
	ReferenceADR ReferenceKind = "ADR"
	ReferenceJRN ReferenceKind = "JRN"
	ReferenceEXC ReferenceKind = "EXC"
)

var referencePattern = regexp.MustCompile(`\b(ADR|JRN|EXC)-\d+\b`)

// Reference is a single citation extracted from AI output, e.g. "ADR-042".
type Reference struct {
	Kind ReferenceKind
	ID   string
}

// String renders the reference in its canonical "KIND-NNN" form.
func (r Reference) String() string {
	return string(r.Kind) + "-" + r.ID
}

// ParseReference splits a raw "ADR-042" token into its kind and numeric ID.
// It returns ok=false if the token does not match the canonical pattern.
func ParseReference(token string) (Reference, bool) {
	if !referencePattern.MatchString(token) {
		return Reference{}, false
	}
	parts := strings.SplitN(token, "-", 2)
	if len(parts) != 2 {
		return Reference{}, false
	}
	return Reference{Kind: ReferenceKind(parts[0]), ID: parts[1]}, true
}

// Hunk is one contiguous block of added/context lines in a unified diff,
// scoped to a single file.
type Hunk struct {
	File  string
	Start int // 1-based line number of the hunk's first line in the new file
	Count int // number of lines the hunk spans in the new file
}

// Diff wraps a raw unified diff and the hunks parsed out of it. Hunks are
// computed once (ParseDiff) and reused by every falsifier in the validation
// chain that needs line-containment checks.
type Diff struct {
	Raw   string
	Hunks []Hunk
	Files []string // files touched by the diff, in "+++ b/..." order
}

// Role describes one council member: a persona with a review focus, a system
// instruction, and an optional set of file patterns that scope it to
// particular platforms (see rolefilter).
type Role struct {
	Name         string
	Focus        string
	Instruction  string
	FilePatterns []string
}

// Council is the configuration of a single governance run: which roles sit
// on the panel, in what mode, under which correlation ID.
type Council struct {
	Roles []Role
	Mode  CouncilMode
	ID    string
}

// ReferenceReport summarizes citation health for one role review.
type ReferenceReport struct {
	Cited   []Reference
	Valid   []Reference
	Invalid []Reference
}

// CitationRate is the fraction of cited references that resolved to a real
// artifact. Returns 1.0 when nothing was cited (vacuously true, matches the
// "no citations, no hallucination" reading of spec invariant P4).
func (r ReferenceReport) CitationRate() float64 {
	if len(r.Cited) == 0 {
		return 1.0
	}
	return float64(len(r.Valid)) / float64(len(r.Cited))
}

// HallucinationRate is the complement of CitationRate.
func (r ReferenceReport) HallucinationRate() float64 {
	return 1.0 - r.CitationRate()
}

// FindingValidationStats counts how many findings and required-changes
// survived the falsifier chain for one role.
type FindingValidationStats struct {
	Total     int
	Validated int
	Filtered  int
}

// Add merges other's counters into s.
func (s *FindingValidationStats) Add(other FindingValidationStats) {
	s.Total += other.Total
	s.Validated += other.Validated
	s.Filtered += other.Filtered
}

// RoleReview is the structured output of one council member's review,
// after finding validation and reference resolution have run.
type RoleReview struct {
	Name              string
	Verdict           Verdict
	Summary           string
	Findings          []string
	RequiredChanges   []string
	References        ReferenceReport
	FindingValidation FindingValidationStats
	DemotionReason    string // set when a BLOCK was demoted to PASS
}

// AuditRecord is the final artifact of a council run: the aggregate verdict,
// every role's review, and the bookkeeping needed to locate and correlate
// the persisted report.
type AuditRecord struct {
	StoryID           string
	RunID             uuid.UUID
	OverallVerdict    Verdict
	Roles             []RoleReview
	ReferenceMetrics  ReferenceReport
	FindingValidation FindingValidationStats
	Engine            string
	RuntimeMS         int64
	LogPath           string
	Timestamp         time.Time
}

// ScrubPattern is one entry in the compile-time PII/credential redaction
// table (see the scrub package).
type ScrubPattern struct {
	Label       string
	Regex       *regexp.Regexp
	Replacement string
}

// ConveneRequest bundles everything ConveneCouncil needs for one run.
type ConveneRequest struct {
	StoryID             string
	StoryContent        string
	RulesContent        string
	InstructionsContent string
	ADRsContent         string
	Diff                Diff
	Council             Council
	UserQuestion        string
	RepoRoot            string

	// StrictTimeout, when true, makes a timed-out role review BLOCK instead
	// of the default PASS. Off by default to preserve the "a timeout must
	// never block a merge" contract.
	StrictTimeout bool

	// MaxConcurrentRoles bounds the role fan-out. Zero means the package
	// default (3).
	MaxConcurrentRoles int

	// Engine selects the dispatch engine ("native" or a name registered via
	// RegisterEngine). Empty means native.
	Engine string

	// ForcedProvider puts a single named provider first for every role's
	// completion, ahead of the fallback order, bypassing the Router Policy
	// lookup (spec.md §9: "the
	// forced-provider semantic becomes a field in the request, not global
	// state"). Empty means no forced provider.
	ForcedProvider string
}
