package validate

import "strings"

var pathClaimKeywords = []string{
	"path traversal", "directory traversal", "symlink", "symlink manipulation",
	"symlink bypass", "path containment", "path escape", "escaping the repo",
	"command injection", "path injection",
}

var pathCodeMarkers = []string{
	"path(", "filepath.", "os.path", ".resolve()", "open(", "readfile(",
	"hasprefix(", "relative_to(", "is_relative_to(", "lstat(",
	"pathlib", "shutil", "symlink", "readlink",
}

// pathClaimAtNonPathCode is falsifier 16: a traversal/symlink/injection
// claim at a cited line is rejected unless the ±5-line region around that
// line actually contains path-handling code.
func pathClaimAtNonPathCode(finding string, env *Env) (bool, string) {
	lower := strings.ToLower(finding)
	if !containsAny(lower, pathClaimKeywords) {
		return true, ""
	}

	refs := extractFileLineRefs(finding)
	for _, ref := range refs {
		lines, ok := env.Lines(ref.Path)
		if !ok {
			continue
		}
		region, inBounds := Region(lines, ref.Line, 5, 5)
		if !inBounds {
			continue
		}
		regionLower := strings.ToLower(region)
		if !containsAny(regionLower, pathCodeMarkers) {
			return false, "path/symlink claim at a line with no path-handling code"
		}
	}
	return true, ""
}
