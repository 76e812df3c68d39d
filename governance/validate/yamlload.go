package validate

import "strings"

// yamlSafeLoadFP is falsifier 12: flagging yaml.safe_load as an unsafe
// deserialization vector is rejected when the cited file actually uses
// safe_load and never the unsafe yaml.load.
func yamlSafeLoadFP(finding string, env *Env) (bool, string) {
	lower := strings.ToLower(finding)
	if !strings.Contains(lower, "yaml") || !strings.Contains(lower, "deserialization") {
		return true, ""
	}

	refs := extractFileLineRefs(finding)
	for _, ref := range refs {
		lines, ok := env.Lines(ref.Path)
		if !ok {
			continue
		}
		content := strings.Join(lines, "\n")
		if strings.Contains(content, "safe_load") && !strings.Contains(content, "yaml.load(") {
			return false, "file uses yaml.safe_load, which is the safe API"
		}
	}
	return true, ""
}
