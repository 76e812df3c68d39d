package validate

import "strings"

// governancePathMarkers identify a finding that targets this orchestrator's
// own source tree rather than the application code under review.
var governancePathMarkers = []string{"governance/", "governance.go"}

// governanceInternalSymbols are identifiers that only mean something inside
// this package — a finding that names one is almost certainly reviewing the
// validator's own internals, not application logic.
var governanceInternalSymbols = []string{
	"resolveFilePath", "Resolve", "missingXDisproof", "validateFindingAgainstSource",
	"ConveneCouncil", "DefaultChain", "falsifier", "Falsifier",
}

// governanceMetaKeywords flag a finding describing the review process
// itself, as opposed to the code under review.
var governanceMetaKeywords = []string{
	"false positive", "false-positive", "validator", "finding validation",
	"governance check", "governance council", "governance system",
	"ai governance", "suppression rule", "hardcoded path", "path prefix",
	"sanitiz", "command injection", "path resolution",
}

// selfReferentialGovernance is falsifier 3: the council reviewing its own
// validator code produces findings about the validator's own false-positive
// suppression, which is not an actionable finding about the change.
func selfReferentialGovernance(finding string, _ *Env) (bool, string) {
	lower := strings.ToLower(finding)
	if !containsAny(lower, governancePathMarkers) {
		return true, ""
	}
	refsInternal := false
	for _, sym := range governanceInternalSymbols {
		if strings.Contains(finding, sym) {
			refsInternal = true
			break
		}
	}
	describesSelf := containsAny(lower, governanceMetaKeywords)
	if refsInternal || describesSelf {
		return false, "self-referential finding about the governance engine itself"
	}
	return true, ""
}
