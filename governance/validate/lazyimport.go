package validate

import (
	"strconv"
	"strings"
)

var lazyInitClaimKeywords = []string{
	"direct import", "lazy init", "lazy initial", "violates adr-025",
	"should be lazy", "top-level import",
}

// lazyInitBlindness is falsifier 8: a finding claiming a module-level import
// violation is rejected when the cited import line is actually indented
// (i.e. scoped inside a function), since the AI is reading source
// formatting too literally.
func lazyInitBlindness(finding string, env *Env) (bool, string) {
	lower := strings.ToLower(finding)
	if !containsAny(lower, lazyInitClaimKeywords) {
		return true, ""
	}

	refs := extractFileLineRefs(finding)
	for _, ref := range refs {
		lines, ok := env.Lines(ref.Path)
		if !ok {
			continue
		}
		for i, line := range lines {
			stripped := strings.TrimLeft(line, " \t")
			isImportLine := strings.HasPrefix(stripped, "from ") || strings.HasPrefix(stripped, "import ")
			if !isImportLine || line == stripped {
				continue
			}
			lineNum := i + 1
			_ = strconv.Itoa(lineNum)
			if strings.Contains(strings.ToLower(line), "adr-025") || strings.Contains(strings.ToLower(line), "lazy") {
				return false, "import is indented (lazily scoped) at L" + strconv.Itoa(lineNum)
			}
			if importLineMentionsFindingWords(stripped, lower) {
				return false, "import is indented (lazily scoped) at L" + strconv.Itoa(lineNum)
			}
		}
	}
	return true, ""
}

// importLineMentionsFindingWords checks whether any word (len > 3) from the
// finding appears in the import line, mirroring the original's loose
// token-overlap heuristic for linking a finding to the import it describes.
func importLineMentionsFindingWords(importLine, findingLower string) bool {
	for _, word := range strings.Fields(findingLower) {
		if len(word) > 3 && strings.Contains(importLine, word) {
			return true
		}
	}
	return false
}
