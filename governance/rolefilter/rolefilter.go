// Package rolefilter prunes a council's role list down to the roles
// relevant to the files a diff actually touches.
package rolefilter

import (
	"strings"

	"github.com/jhcook/agentic-governance/governance"
)

// alwaysRelevant roles cover cross-cutting concerns and sit on every
// council regardless of which files changed.
var alwaysRelevant = map[string]bool{
	"architect": true, "system architect": true,
	"security": true, "security (ciso)": true,
	"qa": true, "quality assurance": true,
	"compliance": true, "compliance (lawyer)": true,
	"observability": true, "sre / observability lead": true,
	"docs": true, "tech writer": true,
	"product": true, "product owner": true,
}

// platformRoleNames are excluded outright when their platform's file
// patterns don't match any changed file (they aren't "unknown roles" that
// default to inclusion).
var platformRoleNames = map[string]bool{
	"mobile lead": true, "frontend lead": true, "backend lead": true,
}

// FilePatterns is the built-in pattern table per platform. A pattern that
// starts with "." is checked as a file-extension suffix; anything else is
// checked as a substring of the file path.
var FilePatterns = map[string][]string{
	"mobile":   {".tsx", ".jsx", "mobile/", "expo/", "react-native/", "ios/", "android/"},
	"web":      {".tsx", ".jsx", ".css", ".html", ".scss", "web/", "pages/", "components/", "next.config"},
	"frontend": {".tsx", ".jsx", ".css", ".html", ".scss", "web/", "pages/", "components/", "next.config"},
	"backend":  {".py", ".sql", ".yaml", ".yml", ".toml", "Dockerfile", "api/", "backend/"},
}

// Filter returns the subset of roles relevant to diff's changed files. An
// empty diff is a no-op (every role stays).
func Filter(roles []governance.Role, diff governance.Diff) []governance.Role {
	if diff.Raw == "" {
		return roles
	}

	changed := changedFiles(diff)

	filtered := make([]governance.Role, 0, len(roles))
	for _, role := range roles {
		nameLower := strings.ToLower(role.Name)

		if alwaysRelevant[nameLower] {
			filtered = append(filtered, role)
			continue
		}

		if len(role.FilePatterns) > 0 {
			if filesMatchPatterns(changed, role.FilePatterns) {
				filtered = append(filtered, role)
			}
			continue
		}

		platform, matched := matchPlatform(nameLower, changed)
		switch {
		case platform != "" && matched:
			filtered = append(filtered, role)
		case platform != "":
			// a platform role whose files didn't match: drop only if it's a
			// recognized platform-lead name, otherwise fall through to the
			// unknown-role default below.
			if !platformRoleNames[nameLower] {
				filtered = append(filtered, role)
			}
		default:
			// unknown roles are included by default
			filtered = append(filtered, role)
		}
	}
	return filtered
}

func changedFiles(diff governance.Diff) []string {
	out := make([]string, 0, len(diff.Files))
	for _, f := range diff.Files {
		if f != "" && f != "/dev/null" {
			out = append(out, strings.ToLower(f))
		}
	}
	return out
}

// matchPlatform reports which platform (if any) nameLower belongs to, and
// whether that platform's patterns match any changed file.
func matchPlatform(nameLower string, changed []string) (platform string, matched bool) {
	for p, patterns := range FilePatterns {
		if !strings.Contains(nameLower, p) {
			continue
		}
		platform = p
		matched = filesMatchPatterns(changed, patterns)
		return
	}
	return "", false
}

func filesMatchPatterns(changed []string, patterns []string) bool {
	for _, f := range changed {
		for _, pat := range patterns {
			pat = strings.ToLower(pat)
			if strings.HasPrefix(pat, ".") {
				if strings.HasSuffix(f, pat) {
					return true
				}
			} else if strings.Contains(f, pat) {
				return true
			}
		}
	}
	return false
}
