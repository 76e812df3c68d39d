// Package scrub redacts PII and credential patterns from text about to
// leave the process — prompts sent to providers by the native engine and
// the markdown report written by the audit writer.
package scrub

import "regexp"

// Pattern is one entry in the redaction table: text matching Regex is
// replaced wholesale with Replacement.
type Pattern struct {
	Label       string
	Regex       *regexp.Regexp
	Replacement string
}

// DefaultPatterns returns the fixed, ordered redaction table. Order matters:
// credential patterns run before the broader IP/email patterns so a key
// embedded in a URL is redacted as a key, not split into an IP match.
func DefaultPatterns() []Pattern {
	mk := func(label, expr string) Pattern {
		return Pattern{
			Label:       label,
			Regex:       regexp.MustCompile(expr),
			Replacement: "[REDACTED:" + label + "]",
		}
	}
	return []Pattern{
		mk("OPENAI_KEY", `sk-[A-Za-z0-9]{20,}`),
		mk("GITHUB_KEY", `ghp_[A-Za-z0-9]{36,}`),
		mk("GOOGLE_KEY", `AIza[A-Za-z0-9_\-]{35}`),
		mk("PRIVATE_KEY", `-----BEGIN[ A-Z]*PRIVATE KEY-----[\s\S]*?-----END[ A-Z]*PRIVATE KEY-----`),
		mk("EMAIL", `[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`),
		mk("IP", `\b(?:[0-9]{1,3}\.){3}[0-9]{1,3}\b`),
	}
}

// Scrubber applies a fixed pattern table to arbitrary text. It is stateless
// and safe for concurrent use — every council worker shares one instance.
type Scrubber struct {
	patterns []Pattern
}

// New builds a Scrubber from the default pattern table.
func New() *Scrubber {
	return &Scrubber{patterns: DefaultPatterns()}
}

// NewWithPatterns builds a Scrubber from a caller-supplied table, for tests
// that need to isolate a single pattern.
func NewWithPatterns(patterns []Pattern) *Scrubber {
	return &Scrubber{patterns: patterns}
}

// Scrub redacts every configured pattern from text. It is idempotent:
// Scrub(Scrub(x)) == Scrub(x), because replacement tokens never match any
// pattern in the table (property P1).
func (s *Scrubber) Scrub(text string) string {
	out := text
	for _, p := range s.patterns {
		out = p.Regex.ReplaceAllString(out, p.Replacement)
	}
	return out
}
