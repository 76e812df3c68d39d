package validate

import (
	"regexp"
	"strconv"
	"strings"
)

var missingClaimKeywords = []string{
	"missing type hint", "missing type annotation", "lacks type hint",
	"no type hint", "untyped", "missing return type",
	"missing import", "should import", "import from wrong",
	"missing validation", "missing check", "no validation",
	"missing error handling", "no error handling",
}

var typeHintFuncNamePattern1 = regexp.MustCompile("`?(\\w+)`?\\s*(?:function|method|def|is missing|lacks|has no)")
var typeHintFuncNamePattern2 = regexp.MustCompile(`(?:function|method|def)\s+` + "`?(\\w+)`?")
var importNamePattern = regexp.MustCompile("import\\s+`?(\\w+)`?")

var validationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\.resolve\(\)\.relative_to\(`),
	regexp.MustCompile(`if\s+not\s+\w+`),
	regexp.MustCompile(`if\s+err\s*!=\s*nil`),
	regexp.MustCompile(`raise\s+\w+Error`),
	regexp.MustCompile(`validate\w*\(`),
	regexp.MustCompile(`assert\s+`),
	regexp.MustCompile(`panic\(`),
}

// goReturnTypePattern recognizes a Go function signature carrying a return
// type, the closest analogue to Python's "-> T" annotation.
var goReturnTypePattern = func(name string) *regexp.Regexp {
	return regexp.MustCompile(`func\s+(?:\([^)]*\)\s*)?` + regexp.QuoteMeta(name) + `\s*\([^)]*\)\s*\(?[\w*\[\]., ]+\)?\s*\{`)
}

var pyReturnTypePattern = func(name string) *regexp.Regexp {
	return regexp.MustCompile(`def\s+` + regexp.QuoteMeta(name) + `\s*\([^)]*\)\s*->`)
}

// missingXDisproof is falsifier 17, the catch-all: for "missing type hint /
// import / validation / error handling" claims, it inspects the cited file
// for the claimed element and filters the finding if the element is
// actually present. Findings with no file reference, or that aren't a
// "missing X" claim, are left unfalsified (assumed valid) — this falsifier
// only disproves, it never confirms.
func missingXDisproof(finding string, env *Env) (bool, string) {
	refs := extractFileLineRefs(finding)
	bareRefs := extractFileRefs(finding)
	if len(bareRefs) == 0 {
		return true, ""
	}

	lower := strings.ToLower(finding)
	if !containsAny(lower, missingClaimKeywords) {
		return true, ""
	}

	lineByPath := map[string]int{}
	for _, r := range refs {
		lineByPath[r.Path] = r.Line
	}

	for _, path := range bareRefs {
		lines, ok := env.Lines(path)
		if !ok {
			continue
		}
		content := strings.Join(lines, "\n")

		if containsAny(lower, []string{"type hint", "type annotation", "untyped"}) {
			names := typeHintFuncNamePattern1.FindAllStringSubmatch(finding, -1)
			if len(names) == 0 {
				names = typeHintFuncNamePattern2.FindAllStringSubmatch(finding, -1)
			}
			for _, m := range names {
				name := m[1]
				if pyReturnTypePattern(name).MatchString(content) || goReturnTypePattern(name).MatchString(content) {
					return false, "claimed missing type hint/annotation on " + name + " but it exists"
				}
			}
		}

		if strings.Contains(lower, "import") {
			for _, m := range importNamePattern.FindAllStringSubmatch(finding, -1) {
				name := m[1]
				if strings.Contains(content, "import "+name) || strings.Contains(content, `"`+name+`"`) {
					return false, "claimed missing import but it exists: " + name
				}
			}
		}

		if containsAny(lower, []string{"validation", "check"}) {
			if lineNum, ok := lineByPath[path]; ok {
				region, inBounds := Region(lines, lineNum, 20, 20)
				if inBounds {
					for _, vp := range validationPatterns {
						if vp.MatchString(region) {
							return false, "claimed missing validation near L" + strconv.Itoa(lineNum) + " but a check exists"
						}
					}
				}
			}
		}
	}

	return true, ""
}
