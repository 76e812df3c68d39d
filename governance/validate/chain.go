package validate

import (
	"github.com/jhcook/agentic-governance/governance"
	"go.uber.org/zap"
)

// Falsifier inspects one finding against the validation environment and
// decides whether it survives. A false return means "filter this finding
// out"; reason is logged, never shown to the end user.
type Falsifier func(finding string, env *Env) (survives bool, reason string)

// Chain is the ordered sequence of falsifiers run over every finding and
// required-change. The first falsifier to reject a finding wins; later
// falsifiers never run for that finding.
type Chain struct {
	falsifiers []namedFalsifier
	logger     *zap.Logger
}

type namedFalsifier struct {
	name string
	fn   Falsifier
}

// DefaultChain returns the chain in spec order (1-17). Order is load-bearing:
// earlier falsifiers (citation, hunk scope, self-reference) are cheap and
// structural; later ones (quoted-code match, missing-X disproof) do the most
// file I/O, so rejecting early saves work.
func DefaultChain(logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{
		logger: logger,
		falsifiers: []namedFalsifier{
			{"missing_citation", missingCitation},
			{"out_of_hunk", outOfHunk},
			{"self_referential_governance", selfReferentialGovernance},
			{"meta_finding", metaFinding},
			{"line_drift", lineDrift},
			{"stdlib_as_dependency", stdlibAsDependency},
			{"sync_as_async", syncAsAsync},
			{"lazy_init_blindness", lazyInitBlindness},
			{"pii_without_pii", piiWithoutPII},
			{"copyright_in_license_header", copyrightInLicenseHeader},
			{"gdpr_on_source_code", gdprOnSourceCode},
			{"yaml_safe_load_fp", yamlSafeLoadFP},
			{"license_header_present", licenseHeaderPresent},
			{"copyright_holder_opinion", copyrightHolderOpinion},
			{"quoted_code_mismatch", quotedCodeMismatch},
			{"path_claim_at_non_path_code", pathClaimAtNonPathCode},
			{"missing_x_disproof", missingXDisproof},
		},
	}
}

// Validate runs finding through every falsifier in order. It returns
// survives=false and the name of the first falsifier that rejected it.
func (c *Chain) Validate(finding string, env *Env) (survives bool, filteredBy string) {
	for _, nf := range c.falsifiers {
		ok, reason := nf.fn(finding, env)
		if !ok {
			c.logger.Info("finding filtered",
				zap.String("falsifier", nf.name),
				zap.String("reason", reason),
				zap.String("finding_preview", preview(finding)),
			)
			return false, nf.name
		}
	}
	return true, ""
}

// ValidateAll runs every finding and required-change through the chain and
// returns the survivors plus aggregate stats.
func (c *Chain) ValidateAll(findings, requiredChanges []string, env *Env) (survivingFindings, survivingChanges []string, stats governance.FindingValidationStats) {
	run := func(items []string) []string {
		var out []string
		for _, item := range items {
			stats.Total++
			if ok, _ := c.Validate(item, env); ok {
				stats.Validated++
				out = append(out, item)
			} else {
				stats.Filtered++
			}
		}
		return out
	}
	survivingFindings = run(findings)
	survivingChanges = run(requiredChanges)
	return
}

func preview(s string) string {
	if len(s) <= 80 {
		return s
	}
	return s[:80]
}
