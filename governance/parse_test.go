package governance

import "testing"

func TestParseReview_FullySpecified(t *testing.T) {
	raw := "VERDICT: BLOCK\n" +
		"SUMMARY: missing auth check\n" +
		"FINDINGS:\n- handler.go:12 has no auth check (Source: review)\n" +
		"REQUIRED_CHANGES:\n- add auth middleware (Source: ADR-003)\n"

	p := ParseReview(raw)
	if p.Verdict != VerdictBlock {
		t.Fatalf("expected BLOCK, got %s", p.Verdict)
	}
	if p.Summary != "missing auth check" {
		t.Fatalf("unexpected summary: %q", p.Summary)
	}
	if len(p.Findings) != 1 || len(p.RequiredChanges) != 1 {
		t.Fatalf("expected 1 finding and 1 change, got %d/%d", len(p.Findings), len(p.RequiredChanges))
	}
}

func TestParseReview_EmptyTextDefaultsToPass(t *testing.T) {
	p := ParseReview("")
	if p.Verdict != VerdictPass {
		t.Fatalf("expected PASS for empty review, got %s", p.Verdict)
	}
}

func TestParseReview_SkipsNoneBullet(t *testing.T) {
	raw := "VERDICT: PASS\nFINDINGS:\n- None\nREQUIRED_CHANGES:\n- n/a\n"
	p := ParseReview(raw)
	if len(p.Findings) != 0 || len(p.RequiredChanges) != 0 {
		t.Fatalf("expected none/n-a bullets filtered out, got %v / %v", p.Findings, p.RequiredChanges)
	}
}
