package validate

import (
	"regexp"
	"strings"
)

var piiClaimKeywords = []string{
	"exposed email", "exposes email", "email leak", "developer email",
	"exposed name", "exposes name", "developer name", "exposes developer",
	"pii", "personal data", "data leak", "personally identifiable",
}

var piiEmailPattern = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
var piiPhonePattern = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)

// piiWithoutPII is falsifier 9: a claimed PII exposure at a cited line is
// rejected unless the ±3-line region around that line actually contains an
// email or phone-like pattern.
func piiWithoutPII(finding string, env *Env) (bool, string) {
	lower := strings.ToLower(finding)
	if !containsAny(lower, piiClaimKeywords) {
		return true, ""
	}

	refs := extractFileLineRefs(finding)
	if len(refs) == 0 {
		return true, ""
	}

	for _, ref := range refs {
		lines, ok := env.Lines(ref.Path)
		if !ok {
			continue
		}
		region, inBounds := Region(lines, ref.Line, 3, 3)
		if !inBounds {
			continue
		}
		if piiEmailPattern.MatchString(region) || piiPhonePattern.MatchString(region) {
			return true, ""
		}
	}
	return false, "no email/phone pattern found at cited lines"
}
