package governance

import (
	"regexp"
	"strings"
)

var (
	verdictPattern = regexp.MustCompile(`(?im)^VERDICT:\s*(\w+)`)
	summaryPattern = regexp.MustCompile(`(?im)^SUMMARY:\s*(.+?)$`)
	findingsPattern = regexp.MustCompile(`(?ims)^FINDINGS:\s*\n(.*?)(?:^REQUIRED_CHANGES:|\z)`)
	changesPattern  = regexp.MustCompile(`(?ims)^REQUIRED_CHANGES:\s*\n(.*?)(?:^REFERENCES:|\z)`)
	bulletPattern   = regexp.MustCompile(`^[-*•]\s*`)
)

var emptyBullets = map[string]bool{
	"none": true, "n/a": true, "no issues": true, "no issues found": true,
}

// ParsedReview is the structured form of one role's raw model output,
// following the VERDICT/SUMMARY/FINDINGS/REQUIRED_CHANGES wire format
// every council prompt instructs the model to emit.
type ParsedReview struct {
	Verdict         Verdict
	Summary         string
	Findings        []string
	RequiredChanges []string
}

// ParseReview extracts a ParsedReview from raw model text. A review with no
// recognizable VERDICT line defaults to PASS, matching the council's
// fail-open stance on malformed output.
func ParseReview(raw string) ParsedReview {
	result := ParsedReview{Verdict: VerdictPass}
	if strings.TrimSpace(raw) == "" {
		return result
	}

	if m := verdictPattern.FindStringSubmatch(raw); m != nil {
		result.Verdict = Verdict(strings.ToUpper(strings.TrimSpace(m[1])))
	}
	if m := summaryPattern.FindStringSubmatch(raw); m != nil {
		result.Summary = strings.TrimSpace(m[1])
	}
	if m := findingsPattern.FindStringSubmatch(raw); m != nil {
		result.Findings = parseBulletList(m[1])
	}
	if m := changesPattern.FindStringSubmatch(raw); m != nil {
		result.RequiredChanges = parseBulletList(m[1])
	}
	return result
}

func parseBulletList(block string) []string {
	block = strings.TrimSpace(block)
	if block == "" {
		return nil
	}

	var items []string
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = bulletPattern.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if emptyBullets[strings.ToLower(line)] {
			continue
		}
		items = append(items, line)
	}
	return items
}
