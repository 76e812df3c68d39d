package governance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func scriptedEngine(t *testing.T, byRole map[string]string) EngineFunc {
	t.Helper()
	return func(ctx context.Context, turn RoleTurn) (string, error) {
		return byRole[turn.Role.Name], nil
	}
}

func TestConveneCouncil_GatekeeperBlockPropagates(t *testing.T) {
	RegisterEngine("native", scriptedEngine(t, map[string]string{
		"Security":  "VERDICT: BLOCK\nSUMMARY: missing auth\nFINDINGS:\n- main.go:2 has no auth check (Source: review)\n",
		"Architect": "VERDICT: PASS\nSUMMARY: looks fine\n",
	}))

	o := NewOrchestrator("", "", zap.NewNop())
	diff := ParseDiff("+++ b/main.go\n@@ -1,3 +1,3 @@\n")

	req := ConveneRequest{
		StoryID: "STORY-1",
		Diff:    diff,
		Council: Council{
			Mode: ModeGatekeeper,
			Roles: []Role{
				{Name: "Security", Focus: "security"},
				{Name: "Architect", Focus: "architecture"},
			},
		},
	}

	record, err := o.ConveneCouncil(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, VerdictBlock, record.OverallVerdict)
	assert.Len(t, record.Roles, 2)
}

func TestConveneCouncil_ConsultativeModeDemotesBlockToAdvice(t *testing.T) {
	RegisterEngine("native", scriptedEngine(t, map[string]string{
		"Security": "VERDICT: BLOCK\nSUMMARY: missing auth\nFINDINGS:\n- main.go:2 has no auth check (Source: review)\n",
	}))

	o := NewOrchestrator("", "", zap.NewNop())
	diff := ParseDiff("+++ b/main.go\n@@ -1,3 +1,3 @@\n")

	req := ConveneRequest{
		StoryID: "STORY-2",
		Diff:    diff,
		Council: Council{
			Mode:  ModeConsultative,
			Roles: []Role{{Name: "Security", Focus: "security"}},
		},
	}

	record, err := o.ConveneCouncil(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, VerdictAdvice, record.OverallVerdict)
}

func TestConveneCouncil_UnfalsifiableFindingsDemoteBlockToPass(t *testing.T) {
	RegisterEngine("native", scriptedEngine(t, map[string]string{
		"Security": "VERDICT: BLOCK\nSUMMARY: vague concern\nFINDINGS:\n- this code has a bug somewhere\n",
	}))

	o := NewOrchestrator("", "", zap.NewNop())
	req := ConveneRequest{
		StoryID: "STORY-3",
		Diff:    Diff{},
		Council: Council{
			Mode:  ModeGatekeeper,
			Roles: []Role{{Name: "Security", Focus: "security"}},
		},
	}

	record, err := o.ConveneCouncil(context.Background(), req)
	assert.NoError(t, err)
	assert.Equal(t, VerdictPass, record.OverallVerdict)
	assert.Equal(t, "all blocking findings were filtered as hallucinations", record.Roles[0].DemotionReason)
}
