package governance

import (
	"regexp"
	"strings"
)

var hunkHeaderPattern = regexp.MustCompile(`^@@ -\d+(?:,\d+)? \+(\d+)(?:,(\d+))? @@`)

// ParseDiff splits a raw unified diff into per-file hunks and the ordered
// list of touched files ("+++ b/..." headers).
func ParseDiff(raw string) Diff {
	d := Diff{Raw: raw}
	currentFile := ""
	for _, line := range strings.Split(raw, "\n") {
		switch {
		case strings.HasPrefix(line, "+++ "):
			path := strings.TrimPrefix(strings.TrimSpace(line[4:]), "b/")
			currentFile = path
			d.Files = append(d.Files, path)
		case strings.HasPrefix(line, "@@ ") && currentFile != "":
			m := hunkHeaderPattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			start := atoiSafe(m[1])
			count := 1
			if m[2] != "" {
				count = atoiSafe(m[2])
			}
			d.Hunks = append(d.Hunks, Hunk{File: currentFile, Start: start, Count: count})
		case strings.HasPrefix(line, "diff --git"):
			currentFile = ""
		}
	}
	return d
}

func atoiSafe(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return n
		}
		n = n*10 + int(c-'0')
	}
	return n
}

// hunkMargin is the number of context lines allowed on either side of a
// hunk when deciding whether a cited line number falls "in" the diff.
const hunkMargin = 5

// LineInHunk reports whether line_num for filepath falls within a changed
// hunk (plus a 5-line margin for context lines). If filepath doesn't appear
// in the diff at all, it returns true — an unmatched file is not treated as
// evidence of a false positive, matching the original's fail-open stance.
func (d Diff) LineInHunk(filepath string, lineNum int) bool {
	normalized := strings.ReplaceAll(filepath, "\\", "/")

	matched := false
	for _, f := range d.Files {
		if pathsCorrespond(f, normalized) {
			matched = true
			break
		}
	}
	if !matched {
		return true
	}

	for _, h := range d.Hunks {
		if !pathsCorrespond(h.File, normalized) {
			continue
		}
		hunkEnd := h.Start + h.Count - 1
		if h.Start-hunkMargin <= lineNum && lineNum <= hunkEnd+hunkMargin {
			return true
		}
	}
	return false
}

// pathsCorrespond mirrors the original's loose suffix-matching between a
// diff header path and a path an LLM finding might cite (possibly missing
// a repo-root prefix, or vice versa).
func pathsCorrespond(diffPath, claimedPath string) bool {
	return strings.HasSuffix(diffPath, claimedPath) ||
		strings.HasSuffix(claimedPath, diffPath) ||
		diffPath == claimedPath
}
