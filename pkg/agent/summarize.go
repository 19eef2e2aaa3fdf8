package agent

import (
	"context"
	"fmt"

	"github.com/xhad/sanket/internal/models"
)

type summaryTemplate struct {
	instruction string
	appliesTo   string
	whatItIs    string
}

var summaryTemplates = map[models.Language]summaryTemplate{
	models.English: {
		instruction: "create a clear, detailed summary in simple, easy-to-understand English for the common citizen.",
		appliesTo:   "### Who Does It Apply To?",
		whatItIs:    "### What Is This Bill?",
	},
	models.Hinglish: {
		instruction: "create a clear, detailed summary in simple Hinglish for the common citizen.",
		appliesTo:   "### Yeh Kis Par Laagu Hota Hai?",
		whatItIs:    "### Yeh Bill Kya Hai?",
	},
}

// Summarize returns a two-section markdown summary of the bill. Failures are
// returned as displayable text.
func (a *Agent) Summarize(ctx context.Context, text, billName string, lang models.Language) string {
	tmpl, ok := summaryTemplates[lang]
	if !ok {
		tmpl = summaryTemplates[models.English]
	}

	summary, err := a.generate(ctx, summaryPrompt(tmpl, billName, truncate(text, summaryTextLimit)))
	if err != nil {
		if models.KindOf(err) == models.KindConfiguration {
			return generatorNotConfigured
		}
		a.logger.Error("summary generation failed", "bill", billName, "error", err)
		return "Sorry, an error occurred while generating the summary."
	}
	return summary
}

func summaryPrompt(tmpl summaryTemplate, billName, text string) string {
	return fmt.Sprintf(`You are an expert policy analyst named 'Sarkari Sanket'. Your task is to analyze the provided text of a government bill and %s

The bill name is: "%s"
The bill text is: "%s"

Your summary MUST be structured into exactly two sections with the following markdown headings, in this order:

%s
(In this section, clearly explain the people, groups, or industries affected by this bill. Be specific.)

%s
(In this section, explain the main purpose, key features, and the most important changes this bill introduces. Use simple language.)

Generate the response now.`, tmpl.instruction, billName, text, tmpl.appliesTo, tmpl.whatItIs)
}
