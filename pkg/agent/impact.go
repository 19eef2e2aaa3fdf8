package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/xhad/sanket/internal/models"
	"github.com/xhad/sanket/pkg/llm"
)

const (
	minImpactScore = 20
	maxImpactScore = 100
)

// ScoreImpact asks the generator which demographic groups the bill affects
// and how strongly. Only scores above 20 and at most 100 are kept.
func (a *Agent) ScoreImpact(ctx context.Context, text string) (models.ImpactScore, error) {
	const op = "score impact"

	raw, err := a.generate(ctx, impactPrompt(truncate(text, impactTextLimit)))
	if err != nil {
		return nil, err
	}

	var scores models.ImpactScore
	if err := llm.DecodeStrict(raw, &scores); err != nil {
		return nil, models.NewError(models.KindFormat, op, "invalid AI response format", err)
	}

	kept := make(models.ImpactScore, len(scores))
	for group, impact := range scores {
		group = strings.TrimSpace(group)
		if group == "" || impact.Score <= minImpactScore || impact.Score > maxImpactScore {
			continue
		}
		impact.Reason = strings.TrimSpace(impact.Reason)
		kept[group] = impact
	}
	return kept, nil
}

func impactPrompt(text string) string {
	return fmt.Sprintf(`You are a policy impact analyst. Read the bill text below and identify the demographic groups it affects (for example farmers, students, women, small businesses, senior citizens).

Bill text:
"%s"

Respond with ONLY a JSON object. Each key is a group name. Each value is an object with exactly two keys:
"score": an integer from 0 to 100 for how strongly the bill affects the group,
"reason": one short sentence explaining why.`, text)
}
