package governance

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jhcook/agentic-governance/governance/chunk"
	"github.com/jhcook/agentic-governance/governance/reference"
	"github.com/jhcook/agentic-governance/governance/rolefilter"
	"github.com/jhcook/agentic-governance/governance/validate"
	"github.com/jhcook/agentic-governance/types"
)

const (
	defaultMaxConcurrentRoles = 3
	roleTimeout               = 300 * time.Second
)

// Orchestrator convenes the governance council over a diff, one concurrent
// worker per role, bounded to MaxConcurrentRoles in flight.
type Orchestrator struct {
	logger    *zap.Logger
	validator *reference.Validator
}

// NewOrchestrator builds an Orchestrator. adrsDir/journeysDir locate the
// knowledge base reference.Validator resolves citations against; either
// may be empty if the corresponding artifact family isn't in use.
func NewOrchestrator(adrsDir, journeysDir string, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		logger:    logger,
		validator: reference.New(adrsDir, journeysDir),
	}
}

// ConveneCouncil runs every relevant role's review over req.Diff and
// aggregates the results into a single AuditRecord.
func (o *Orchestrator) ConveneCouncil(ctx context.Context, req ConveneRequest) (*AuditRecord, error) {
	start := time.Now()

	engineName := req.Engine
	if engineName == "" {
		engineName = "native"
	}
	engine, ok := lookupEngine(engineName)
	if !ok {
		if engineName != "native" {
			o.logger.Warn("unregistered engine, falling back to native", zap.String("engine", engineName))
		}
		engine, ok = lookupEngine("native")
		if !ok {
			return nil, NewConfigError("orchestrator", "no native engine registered")
		}
	}

	roles := rolefilter.Filter(req.Council.Roles, req.Diff)

	limit := req.MaxConcurrentRoles
	if limit <= 0 {
		limit = defaultMaxConcurrentRoles
	}

	reviews := make([]RoleReview, len(roles))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for idx, role := range roles {
		idx, role := idx, role
		g.Go(func() error {
			review, err := o.runRole(gctx, req, role, engine)
			reviews[idx] = review
			return err
		})
	}
	// errors from individual roles are absorbed into their RoleReview; the
	// only ways ConveneCouncil itself fails are a fatal transport error
	// from a role and the caller's context.
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	record := aggregate(req, reviews)
	record.Engine = engineName
	record.RuntimeMS = time.Since(start).Milliseconds()
	record.RunID = uuid.New()
	record.Timestamp = time.Now()
	return record, nil
}

func (o *Orchestrator) runRole(ctx context.Context, req ConveneRequest, role Role, engine Engine) (RoleReview, error) {
	review := RoleReview{Name: role.Name, Verdict: VerdictPass}

	roleCtx, cancel := context.WithTimeout(ctx, roleTimeout)
	defer cancel()

	// The engine, not the dispatch-engine name, knows which LLM provider a
	// turn will actually land on (forced provider, or else whichever the
	// fallback order resolves to first); ask it so the diff chunker can
	// apply that provider's size limit instead of chunking unbounded.
	resolvedProvider := req.ForcedProvider
	if pr, ok := engine.(ProviderResolver); ok {
		if p := pr.ResolveProvider(req.ForcedProvider); p != "" {
			resolvedProvider = p
		}
	}
	chunks := chunk.Split(req.Diff.Raw, resolvedProvider)
	env := validate.NewEnv(req.RepoRoot, req.Diff)
	chainValidator := validate.DefaultChain(o.logger)

	var allFindings, allChanges []string
	verdict := VerdictPass
	var lastSummary string

	for i, c := range chunks {
		turn := RoleTurn{
			Role:           role,
			Council:        req.Council,
			DiffChunk:      c.Text,
			ChunkIndex:     i,
			ChunkTotal:     len(chunks),
			StoryContent:   req.StoryContent,
			RulesContent:   req.RulesContent,
			ADRsContent:    req.ADRsContent,
			UserQuestion:   req.UserQuestion,
			ForcedProvider: req.ForcedProvider,
		}

		raw, err := engine.Run(roleCtx, turn)
		if err != nil {
			if isFatalTransportError(err) {
				o.logger.Error("fatal transport error during role review", zap.String("role", role.Name), zap.Error(err))
				review.Verdict = VerdictPass
				review.Summary = "review aborted: fatal transport error"
				return review, err
			}
			// Timeouts and ordinary provider errors fail open: absorb and
			// move to the next chunk/role rather than blocking a merge on
			// infrastructure flakiness.
			o.logger.Warn("role review chunk failed, absorbing as PASS",
				zap.String("role", role.Name), zap.Int("chunk", i), zap.Error(err))
			if errors.Is(roleCtx.Err(), context.DeadlineExceeded) {
				lastSummary = "role review timed out"
				if req.StrictTimeout {
					verdict = VerdictBlock
				}
			} else {
				lastSummary = "role review failed: " + err.Error()
			}
			continue
		}

		parsed := ParseReview(raw)
		if parsed.Verdict == VerdictBlock {
			verdict = VerdictBlock
		}
		if parsed.Summary != "" {
			lastSummary = parsed.Summary
		}
		allFindings = append(allFindings, parsed.Findings...)
		allChanges = append(allChanges, parsed.RequiredChanges...)
	}

	survivingFindings, survivingChanges, stats := chainValidator.ValidateAll(allFindings, allChanges, env)
	review.FindingValidation = stats

	if verdict == VerdictBlock && len(survivingFindings) == 0 && len(survivingChanges) == 0 {
		verdict = VerdictPass
		review.DemotionReason = "all blocking findings were filtered as hallucinations"
	}

	cited := reference.Extract(strings.Join(append(append([]string{}, survivingFindings...), survivingChanges...), "\n"))
	valid, invalid := o.validator.Validate(cited)
	review.References = ReferenceReport{Cited: cited, Valid: valid, Invalid: invalid}

	if verdict == VerdictBlock && len(cited) > 0 && len(valid) == 0 {
		verdict = VerdictPass
		review.DemotionReason = "all cited references were hallucinated"
	}

	if req.Council.Mode == ModeConsultative && verdict == VerdictBlock {
		verdict = VerdictAdvice
	}

	review.Verdict = verdict
	review.Summary = lastSummary
	review.Findings = survivingFindings
	review.RequiredChanges = survivingChanges
	return review, nil
}

func aggregate(req ConveneRequest, reviews []RoleReview) *AuditRecord {
	record := &AuditRecord{
		StoryID:        req.StoryID,
		OverallVerdict: VerdictPass,
		Roles:          reviews,
	}

	for _, r := range reviews {
		if r.Verdict == VerdictBlock {
			record.OverallVerdict = VerdictBlock
		} else if r.Verdict == VerdictAdvice && record.OverallVerdict != VerdictBlock {
			record.OverallVerdict = VerdictAdvice
		}
		record.ReferenceMetrics.Cited = append(record.ReferenceMetrics.Cited, r.References.Cited...)
		record.ReferenceMetrics.Valid = append(record.ReferenceMetrics.Valid, r.References.Valid...)
		record.ReferenceMetrics.Invalid = append(record.ReferenceMetrics.Invalid, r.References.Invalid...)
		record.FindingValidation.Add(r.FindingValidation)
	}
	return record
}

func isFatalTransportError(err error) bool {
	return types.GetErrorCode(err) == ErrFatalTransport
}
