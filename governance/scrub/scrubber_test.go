package scrub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrubber_RedactsKnownPatterns(t *testing.T) {
	s := New()

	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"openai key", "key=sk-abcdefghijklmnopqrstuvwx", "key=[REDACTED:OPENAI_KEY]"},
		{"github token", "token ghp_" + repeatDigit(36), "token [REDACTED:GITHUB_KEY]"},
		{"google key", "AIza" + repeatDigit(35), "[REDACTED:GOOGLE_KEY]"},
		{"email", "contact jane.doe@example.com now", "contact [REDACTED:EMAIL] now"},
		{"ip", "connect to 10.0.0.1 please", "connect to [REDACTED:IP] please"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.Scrub(tc.input))
		})
	}
}

func TestScrubber_Idempotent(t *testing.T) {
	s := New()
	input := "leak: sk-abcdefghijklmnopqrstuvwx and jane@example.com from 192.168.1.1"
	once := s.Scrub(input)
	twice := s.Scrub(once)
	assert.Equal(t, once, twice, "scrubbing an already-scrubbed string must be a no-op")
}

func TestScrubber_NoFalsePositiveOnPlainText(t *testing.T) {
	s := New()
	input := "this diff adds a retry loop around the HTTP client"
	assert.Equal(t, input, s.Scrub(input))
}

func repeatDigit(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '0' + byte(i%10)
	}
	return string(b)
}
