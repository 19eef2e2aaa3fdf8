package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/sanket/internal/models"
)

func TestScoreImpact(t *testing.T) {
	gen := &fakeGenerator{replies: map[string]string{"demographic groups": "```json\n" + `{
		"Farmers": {"score": 85, "reason": " Direct subsidy changes. "},
		"Students": {"score": 20, "reason": "Marginal."},
		"Women": {"score": 21, "reason": "Some provisions."},
		"Traders": {"score": 140, "reason": "Out of range."}
	}` + "\n```"}}
	a := newTestAgent(AgentConfig{Generator: gen})

	scores, err := a.ScoreImpact(context.Background(), strings.Repeat("y", 4500))
	require.NoError(t, err)

	assert.Equal(t, models.ImpactScore{
		"Farmers": {Score: 85, Reason: "Direct subsidy changes."},
		"Women":   {Score: 21, Reason: "Some provisions."},
	}, scores)
	assert.NotContains(t, gen.prompts[0], strings.Repeat("y", 4001))
}

func TestScoreImpactFormatErrors(t *testing.T) {
	replies := map[string]string{
		"prose":         "Farmers are affected the most.",
		"array":         `[{"score": 50}]`,
		"unknown field": `{"Farmers": {"score": 50, "reason": "r", "weight": 2}}`,
		"string score":  `{"Farmers": {"score": "high", "reason": "r"}}`,
	}

	for name, reply := range replies {
		t.Run(name, func(t *testing.T) {
			a := newTestAgent(AgentConfig{Generator: &fakeGenerator{replies: map[string]string{"": reply}}})

			scores, err := a.ScoreImpact(context.Background(), "text")
			require.Error(t, err)
			assert.Nil(t, scores)
			assert.Equal(t, models.KindFormat, models.KindOf(err))
			assert.Equal(t, "invalid AI response format", models.UserMessage(err))
		})
	}
}

func TestScoreImpactWithoutGenerator(t *testing.T) {
	_, err := newTestAgent(AgentConfig{}).ScoreImpact(context.Background(), "text")
	assert.Equal(t, models.KindConfiguration, models.KindOf(err))
}
