package validate

import (
	"regexp"
	"strings"
)

// copyrightInLicenseHeader is falsifier 10: a copyright name flagged as a
// data leak is rejected outright — copyright notices in license headers
// are standard legal practice, not PII.
func copyrightInLicenseHeader(finding string, _ *Env) (bool, string) {
	lower := strings.ToLower(finding)
	if !containsAny(lower, []string{"copyright", "license header", "licence header"}) {
		return true, ""
	}
	if containsAny(lower, []string{"exposes", "leak", "pii"}) {
		return false, "copyright in a license header is standard, not a data leak"
	}
	return true, ""
}

var licenseHeaderPattern = regexp.MustCompile(`(?i)(licensed under|copyright|apache license|mit license|bsd license)`)

var licenseTopics = []string{"license", "copyright", "boilerplate"}
var licenseActions = []string{
	"missing", "add", "update", "should", "needs", "require", "lacks",
	"incorrect", "correct", "replace", "include", "insert", "standard",
	"generic", "holder",
}

// licenseHeaderPresent is falsifier 13: a claim that a file is missing its
// license header is rejected when the cited file's first 500 bytes already
// contain one, or when none of the cited files even exist.
func licenseHeaderPresent(finding string, env *Env) (bool, string) {
	lower := strings.ToLower(finding)
	if !containsAny(lower, licenseTopics) || !containsAny(lower, licenseActions) {
		return true, ""
	}

	refs := extractFileRefs(finding)
	if len(refs) == 0 {
		return true, ""
	}

	anyFound := false
	for _, ref := range refs {
		lines, ok := env.Lines(ref)
		if !ok {
			continue
		}
		anyFound = true
		head := strings.Join(lines, "\n")
		if len(head) > 500 {
			head = head[:500]
		}
		if licenseHeaderPattern.MatchString(head) {
			return false, "file already carries a license header"
		}
	}
	if !anyFound {
		return false, "license claim cites a file that doesn't resolve"
	}
	return true, ""
}

var copyrightOpinionKeywords = []string{
	"copyright holder", "copyright statement", "copyright notice",
	"correct copyright", "update the copyright", "replace the copyright",
	"generic statement", "copyright should",
}

// copyrightHolderOpinion is falsifier 14: naming the copyright holder is a
// project policy decision, not a compliance defect — reject unless the
// cited line genuinely contains a copyright/license mention, and reject
// outright when there's no file:line citation at all.
func copyrightHolderOpinion(finding string, env *Env) (bool, string) {
	lower := strings.ToLower(finding)
	if !containsAny(lower, copyrightOpinionKeywords) {
		return true, ""
	}

	refs := extractFileLineRefs(finding)
	if len(refs) == 0 {
		return false, "generic copyright-holder opinion with no file:line citation"
	}

	for _, ref := range refs {
		lines, ok := env.Lines(ref.Path)
		if !ok {
			return false, "copyright opinion cites a file that doesn't resolve"
		}
		region, inBounds := Region(lines, ref.Line, 3, 3)
		if !inBounds {
			continue
		}
		regionLower := strings.ToLower(region)
		if !strings.Contains(regionLower, "copyright") && !strings.Contains(regionLower, "license") {
			return false, "copyright opinion at a line with no copyright/license text"
		}
	}
	return true, ""
}
