package validate

import "strings"

// claimKeywords maps a category of code claim to the keywords that would
// appear near genuine code of that category. Generalized from the
// original's Python-only keyword table to the multi-language council this
// orchestrator actually reviews.
var claimKeywords = map[string][]string{
	"path":       {"path", "resolve", "relative_to", "symlink", ".exists()", "filepath.", "os.path"},
	"import":     {"import", "require(", `from "`},
	"validation": {"validate", "check", "assert", "raise", "if not", "if err != nil"},
	"type_hint":  {"-> ", ": str", ": int", ": bool", "func(", ") (", ") error"},
	"async":      {"async", "await", "asyncio", "go func", "goroutine", "channel"},
	"mock":       {"mock", "patch", "return_value", "MagicMock", "testify/mock"},
	"docstring":  {`"""`, "'''", "// "},
}

// lineDrift is falsifier 5: when a finding claims a specific code category
// at a cited line, the ±3-line region around that line must contain at
// least one keyword from that category for ANY cited line, or the finding
// is describing code that has since moved.
func lineDrift(finding string, env *Env) (bool, string) {
	refs := extractFileLineRefs(finding)
	if len(refs) == 0 {
		return true, ""
	}

	lower := strings.ToLower(finding)
	var categories []string
	for cat, keywords := range claimKeywords {
		if containsAny(lower, keywords) {
			categories = append(categories, cat)
		}
	}
	if len(categories) == 0 {
		return true, ""
	}

	checked, drifted := 0, 0
	for _, ref := range refs {
		lines, ok := env.Lines(ref.Path)
		if !ok {
			continue
		}
		checked++
		region, inBounds := Region(lines, ref.Line, 3, 3)
		if !inBounds {
			drifted++
			continue
		}
		regionLower := strings.ToLower(region)
		matched := false
		for _, cat := range categories {
			if containsAny(regionLower, claimKeywords[cat]) {
				matched = true
				break
			}
		}
		if !matched {
			drifted++
		}
	}

	if checked > 0 && drifted == checked {
		return false, "cited lines don't contain the claimed code category"
	}
	return true, ""
}
