// Package reference extracts ADR/JRN/EXC citations from AI output and
// resolves each against the repository's on-disk knowledge base.
package reference

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jhcook/agentic-governance/governance"
)

var pattern = regexp.MustCompile(`\b(ADR-\d+|JRN-\d+|EXC-\d+)\b`)

// Extract scans text for reference tokens and returns a deduplicated,
// sorted list.
func Extract(text string) []governance.Reference {
	if text == "" {
		return nil
	}
	seen := map[string]governance.Reference{}
	for _, tok := range pattern.FindAllString(text, -1) {
		if ref, ok := governance.ParseReference(tok); ok {
			seen[ref.String()] = ref
		}
	}
	if len(seen) == 0 {
		return nil
	}
	out := make([]governance.Reference, 0, len(seen))
	for _, r := range seen {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Validator resolves references against the filesystem. ADR and EXC
// references resolve against a flat directory of files whose names start
// with the ID (e.g. "ADR-001-title.md"); JRN references resolve
// recursively under a journeys directory of "<ID>*.yaml" / "<ID>*.yml"
// files. Resolution never follows symlinks.
type Validator struct {
	ADRsDir     string
	JourneysDir string
}

// New builds a Validator rooted at the given ADR and journey-cache
// directories.
func New(adrsDir, journeysDir string) *Validator {
	return &Validator{ADRsDir: adrsDir, JourneysDir: journeysDir}
}

// Validate partitions refs into those that resolve to a real artifact and
// those that don't.
func (v *Validator) Validate(refs []governance.Reference) (valid, invalid []governance.Reference) {
	for _, ref := range refs {
		if v.resolves(ref) {
			valid = append(valid, ref)
		} else {
			invalid = append(invalid, ref)
		}
	}
	return valid, invalid
}

func (v *Validator) resolves(ref governance.Reference) bool {
	switch ref.Kind {
	case governance.ReferenceADR, governance.ReferenceEXC:
		return v.globStem(v.ADRsDir, ref.String(), false)
	case governance.ReferenceJRN:
		return v.globStem(v.JourneysDir, ref.String(), true)
	default:
		return false
	}
}

// globStem looks for any non-symlink file under dir whose basename starts
// with stem. With recursive set it walks subdirectories and only counts
// .yaml/.yml files.
func (v *Validator) globStem(dir, stem string, recursive bool) bool {
	if dir == "" {
		return false
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}

	found := false
	walk := func(path string, d os.DirEntry, err error) error {
		if err != nil || found {
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		if ext := filepath.Ext(d.Name()); ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if strings.HasPrefix(d.Name(), stem) {
			found = true
		}
		return nil
	}

	if recursive {
		_ = filepath.WalkDir(dir, walk)
		return found
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.Type()&os.ModeSymlink != 0 || e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), stem) {
			return true
		}
	}
	return false
}

// ReportFor builds the ReferenceReport for a single role's cited references.
func (v *Validator) ReportFor(cited []governance.Reference) governance.ReferenceReport {
	valid, invalid := v.Validate(cited)
	return governance.ReferenceReport{Cited: cited, Valid: valid, Invalid: invalid}
}

// Superseded reports whether an already-validated ADR/EXC reference's
// content contains the word "SUPERSEDED" (case-insensitive). Used as an
// advisory enrichment, never as a filter.
func (v *Validator) Superseded(ref governance.Reference) bool {
	if ref.Kind != governance.ReferenceADR && ref.Kind != governance.ReferenceEXC {
		return false
	}
	if v.ADRsDir == "" {
		return false
	}
	entries, err := os.ReadDir(v.ADRsDir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() || e.Type()&os.ModeSymlink != 0 {
			continue
		}
		if !strings.HasPrefix(e.Name(), ref.String()) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(v.ADRsDir, e.Name()))
		if err != nil {
			continue
		}
		if supersededPattern.Match(data) {
			return true
		}
	}
	return false
}

var supersededPattern = regexp.MustCompile(`(?i)\bSUPERSEDED\b`)
