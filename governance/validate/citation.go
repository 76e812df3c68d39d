package validate

import "regexp"

var citationPattern = regexp.MustCompile(`(?i)\(Source:\s*[^)]+\)|\[Source:\s*[^\]]+\]`)

// missingCitation is falsifier 1: every finding must name where it came
// from, or it's unfalsifiable and gets dropped outright.
func missingCitation(finding string, _ *Env) (bool, string) {
	if citationPattern.MatchString(finding) {
		return true, ""
	}
	return false, "no (Source: ...) or [Source: ...] citation"
}
