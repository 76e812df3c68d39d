package validate

import (
	"regexp"
	"strings"
)

var quotedCodePattern = regexp.MustCompile(
	"[`\"]?(" + sourceExtPattern + `)[` + "`\"]?:(\\d+)\\s*[-–—]?\\s*.*?[`'\"]([^`'\"]{10,})[`'\"]",
)

var identifierTokenPattern = regexp.MustCompile(`[a-zA-Z_]\w{3,}`)

// quotedCodeMismatch is falsifier 15: a finding that quotes a code snippet
// at a cited line is rejected if fewer than 30% of the snippet's identifier
// tokens actually appear in a ±5-line window around that line — a sign the
// cited line number has drifted from the quoted code.
func quotedCodeMismatch(finding string, env *Env) (bool, string) {
	matches := quotedCodePattern.FindAllStringSubmatch(finding, -1)
	for _, m := range matches {
		path, lineStr, snippet := m[1], m[2], m[3]
		lineNum := atoiOrZero(lineStr)

		lines, ok := env.Lines(path)
		if !ok {
			continue
		}
		region, inBounds := Region(lines, lineNum, 5, 5)
		if !inBounds {
			continue
		}

		tokens := identifierTokenPattern.FindAllString(snippet, -1)
		if len(tokens) == 0 {
			continue
		}
		matched := 0
		for _, tok := range tokens {
			if strings.Contains(region, tok) {
				matched++
			}
		}
		ratio := float64(matched) / float64(len(tokens))
		if ratio < 0.3 {
			return false, "quoted code snippet not found near cited line"
		}
	}
	return true, ""
}

func atoiOrZero(s string) int {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}
