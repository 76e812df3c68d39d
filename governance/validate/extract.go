package validate

import (
	"regexp"
	"strconv"
	"strings"
)

// sourceExtPattern matches a cited source file path across the languages
// this council reviews (the original governance source only ever saw
// Python; this council also reviews Go, TypeScript and friends).
const sourceExtPattern = `[a-zA-Z0-9_/.\-]+\.(?:go|py|ts|tsx|js|jsx|java|rb|rs|c|cc|cpp|h|hpp)`

var fileLineRefPattern = regexp.MustCompile("[`\"]?(" + sourceExtPattern + ")[`\"]?:(\\d+)(?:-\\d+)?")
var fileRefPattern = regexp.MustCompile("[`\"]?(" + sourceExtPattern + ")[`\"]?")

// fileLineRef is one "path.go:42" citation extracted from a finding.
type fileLineRef struct {
	Path string
	Line int
}

// extractFileLineRefs finds every "path:line" citation in text.
func extractFileLineRefs(text string) []fileLineRef {
	matches := fileLineRefPattern.FindAllStringSubmatch(text, -1)
	out := make([]fileLineRef, 0, len(matches))
	for _, m := range matches {
		n, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		out = append(out, fileLineRef{Path: m[1], Line: n})
	}
	return out
}

// extractFileRefs finds every bare source-file path citation in text
// (with or without a line number).
func extractFileRefs(text string) []string {
	matches := fileRefPattern.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
