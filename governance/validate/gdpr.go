package validate

import "strings"

var gdprTriggerKeywords = []string{"gdpr", "lawful basis", "data protection"}

var sourceCodeContextKeywords = []string{
	"source code", "code analysis", ".py file", ".go file", "reading file",
	"processing code", "test generation", "ai service", "ai-powered",
	"generate_", "function docstring", "generate test", "generate_ai",
}

// gdprOnSourceCode is falsifier 11: GDPR lawful-basis demands are rejected
// when the finding is actually about processing source code, which isn't
// personal data.
func gdprOnSourceCode(finding string, _ *Env) (bool, string) {
	lower := strings.ToLower(finding)
	if !containsAny(lower, gdprTriggerKeywords) {
		return true, ""
	}
	if containsAny(lower, sourceCodeContextKeywords) {
		return false, "GDPR lawful-basis claim applied to source-code processing, not personal data"
	}
	return true, ""
}
