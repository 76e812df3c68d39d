package validate

import (
	"regexp"
	"strings"
)

var metaFindingPatterns = []*regexp.Regexp{
	regexp.MustCompile(`false positive`),
	regexp.MustCompile(`false-positive`),
	regexp.MustCompile(`eliminate false`),
	regexp.MustCompile(`reduce false`),
	regexp.MustCompile(`filter.*finding`),
	regexp.MustCompile(`preflight process`),
	regexp.MustCompile(`preflight.*requires`),
	regexp.MustCompile(`governance.*filtering`),
	regexp.MustCompile(`governance.*mechanism`),
	regexp.MustCompile(`ai-generated finding`),
	regexp.MustCompile(`ai generated finding`),
	regexp.MustCompile(`comprehensiv.*filter`),
	regexp.MustCompile(`comprehensiv.*mechanism`),
	regexp.MustCompile(`eliminate common sources`),
}

var metaFindingFileRefPattern = regexp.MustCompile(`(?:^|[\s(])[\w/.\-]+\.(?:go|py|ts|tsx|js|jsx|yaml|yml|md|json)\b`)

// metaFinding is falsifier 4: a finding about the review process rather
// than the code is only kept if it still names a specific file — otherwise
// it's pure process commentary with nothing actionable to verify.
func metaFinding(finding string, _ *Env) (bool, string) {
	lower := strings.ToLower(finding)
	matched := false
	for _, p := range metaFindingPatterns {
		if p.MatchString(lower) {
			matched = true
			break
		}
	}
	if !matched {
		return true, ""
	}
	if metaFindingFileRefPattern.MatchString(finding) {
		return true, ""
	}
	return false, "describes the review process with no cited file"
}
