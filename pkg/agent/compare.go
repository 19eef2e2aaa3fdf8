package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/xhad/sanket/internal/models"
)

var fourDigitYear = regexp.MustCompile(`^\d{4}$`)

// CompareBills fetches the current and an older version of a bill and
// describes what changed. Every outcome, including failures, is displayable
// text.
func (a *Agent) CompareBills(ctx context.Context, billName, olderYear string, lang models.Language) string {
	billName = strings.TrimSpace(billName)
	olderYear = strings.TrimSpace(olderYear)
	if billName == "" {
		return "Please provide the name of the bill to compare."
	}
	if !fourDigitYear.MatchString(olderYear) {
		return "Please provide the older version's year as a four-digit number, for example 2019."
	}
	if a.config.Fetcher == nil {
		return "Could not fetch the bill: the search service is not configured."
	}

	current, err := a.config.Fetcher.FetchBillText(ctx, billName)
	if err != nil {
		return fmt.Sprintf("Could not fetch the current version of %q: %s", billName, models.UserMessage(err))
	}

	olderName := olderQuery(billName, olderYear)
	older, err := a.config.Fetcher.FetchBillText(ctx, olderName)
	if err != nil {
		return fmt.Sprintf("Could not fetch the %s version of %q: %s", olderYear, billName, models.UserMessage(err))
	}

	prompt := comparePrompt(billName, olderYear, responseLanguage(lang),
		truncate(current.Text, compareTextLimit), truncate(older.Text, compareTextLimit))

	comparison, err := a.generate(ctx, prompt)
	if err != nil {
		if models.KindOf(err) == models.KindConfiguration {
			return generatorNotConfigured
		}
		a.logger.Error("comparison generation failed", "bill", billName, "error", err)
		return "Sorry, an error occurred while comparing the two versions."
	}
	return comparison
}

// olderQuery replaces a trailing year in billName with year, or appends it.
func olderQuery(billName, year string) string {
	tokens := strings.Fields(billName)
	if len(tokens) > 0 && fourDigitYear.MatchString(tokens[len(tokens)-1]) {
		tokens[len(tokens)-1] = year
		return strings.Join(tokens, " ")
	}
	return strings.Join(append(tokens, year), " ")
}

func comparePrompt(billName, olderYear, language, current, older string) string {
	return fmt.Sprintf(`You are 'Sarkari Sanket', an expert policy analyst. Compare two versions of the bill "%s".

Older version (%s):
"%s"

Current version:
"%s"

Write the comparison in %s using exactly these markdown headings, in this order:

### Additions
(What the current version adds.)

### Removals
(What the current version drops from the older one.)

### Changes
(Provisions that exist in both but were modified.)

Use short bullet points of about 15 words each.`, billName, olderYear, older, current, language)
}
