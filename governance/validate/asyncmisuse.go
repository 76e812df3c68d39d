package validate

import (
	"regexp"
	"strings"
)

var asyncClaimKeywords = []string{
	"await", "not awaited", "should be async", "convert to async",
	"missing await", "without awaiting", "async function",
}

var funcNameFromCallPattern = regexp.MustCompile("(?:function|method|call(?:ing)?|`)(\\s*\\w+\\.)?`?(\\w+)`?\\s*\\(")
var funcNameFromClaimPattern = regexp.MustCompile("`(\\w+)`\\s*(?:is|should|must|not)")

// syncDefPattern / asyncDefPattern match a function's definition line across
// the languages this council reviews: Python (def / async def) and
// JS/TS (function / async function). Go has no async keyword, so a finding
// claiming a Go function "needs await" is itself invalid input and will
// simply fail to match any sync definition, falling through as unfalsified
// (the Missing-X-disproof falsifier is what catches Go-specific confusions).
func syncDefPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^\s*(?:def|function)\s+` + regexp.QuoteMeta(name) + `\s*\(`)
}

func asyncDefPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^\s*async\s+(?:def|function)\s+` + regexp.QuoteMeta(name) + `\s*\(`)
}

// syncAsAsync is falsifier 7: rejects a finding that claims a function needs
// to be awaited/made async when the function is defined synchronously (and
// has no async counterpart) in the diff or in a cited source file.
func syncAsAsync(finding string, env *Env) (bool, string) {
	lower := strings.ToLower(finding)
	if !containsAny(lower, asyncClaimKeywords) {
		return true, ""
	}

	var funcNames []string
	for _, m := range funcNameFromCallPattern.FindAllStringSubmatch(finding, -1) {
		if m[2] != "" {
			funcNames = append(funcNames, m[2])
		}
	}
	if len(funcNames) == 0 {
		for _, m := range funcNameFromClaimPattern.FindAllStringSubmatch(finding, -1) {
			funcNames = append(funcNames, m[1])
		}
	}

	for _, name := range funcNames {
		sync := syncDefPattern(name)
		async := asyncDefPattern(name)

		if sync.MatchString(env.Diff.Raw) && !async.MatchString(env.Diff.Raw) {
			return false, "claims " + name + " needs await but it's defined synchronously in the diff"
		}

		for _, fref := range extractFileRefs(finding) {
			lines, ok := env.Lines(fref)
			if !ok {
				continue
			}
			content := strings.Join(lines, "\n")
			if sync.MatchString(content) && !async.MatchString(content) {
				return false, "claims " + name + " needs await but it's defined synchronously in " + fref
			}
		}
	}
	return true, ""
}
