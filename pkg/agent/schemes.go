package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xhad/sanket/internal/models"
	"github.com/xhad/sanket/pkg/llm"
)

const schemeSiteFilter = "site:gov.in OR site:nic.in OR site:myscheme.gov.in -filetype:pdf"

// FindSchemes searches government portals for welfare schemes matching the
// profile and asks the generator to pick the best ones. Every returned
// scheme links to one of the search results.
func (a *Agent) FindSchemes(ctx context.Context, profile models.UserProfile) (models.SchemeMatch, error) {
	const op = "find schemes"
	if !a.searchConfigured() {
		return models.SchemeMatch{}, models.NewError(models.KindConfiguration, op,
			"Google API keys are not configured.", nil)
	}

	results, err := a.config.Searcher.Search(ctx, schemeQuery(profile), schemeResults)
	if err != nil {
		return models.SchemeMatch{}, asUpstream(op, err, "The search service is unavailable right now.")
	}

	sources := make([]string, 0, len(results))
	allowed := make(map[string]bool, len(results))
	for _, r := range results {
		if r.Link == "" || allowed[r.Link] {
			continue
		}
		allowed[r.Link] = true
		sources = append(sources, r.Link)
	}
	if len(sources) == 0 {
		return models.SchemeMatch{}, models.NewError(models.KindNotFound, op,
			"No government schemes were found for your profile.", nil)
	}

	prompt, err := schemePrompt(results, profile)
	if err != nil {
		return models.SchemeMatch{}, err
	}
	raw, err := a.generate(ctx, prompt)
	if err != nil {
		return models.SchemeMatch{}, err
	}

	var records []models.SchemeRecord
	if err := llm.DecodeStrict(raw, &records); err != nil {
		return models.SchemeMatch{}, models.NewError(models.KindFormat, op, "invalid AI response format", err)
	}

	schemes := make([]models.SchemeRecord, 0, maxSchemes)
	for _, rec := range records {
		rec.Link = strings.TrimSpace(rec.Link)
		if !allowed[rec.Link] {
			a.logger.Warn("dropping scheme with unknown link", "scheme", rec.SchemeName, "link", rec.Link)
			continue
		}
		schemes = append(schemes, rec)
		if len(schemes) == maxSchemes {
			break
		}
	}

	return models.SchemeMatch{Schemes: schemes, Sources: sources}, nil
}

// schemeQuery adds one clause per populated profile field.
func schemeQuery(p models.UserProfile) string {
	clauses := []string{"government welfare schemes"}
	if p.Occupation != "" {
		clauses = append(clauses, "for "+p.Occupation)
	}
	if p.State != "" {
		clauses = append(clauses, "in "+p.State)
	}
	if p.Category != "" && !strings.EqualFold(p.Category, "general") {
		clauses = append(clauses, "for "+p.Category+" category")
	}
	if p.Sex != "" {
		clauses = append(clauses, "for "+strings.ToLower(p.Sex))
	}
	if p.IsOnlyGirlChild {
		clauses = append(clauses, "for only girl child")
	}
	switch strings.ToLower(p.MaritalStatus) {
	case "married":
		clauses = append(clauses, "for married couples")
	case "widowed":
		clauses = append(clauses, "for widows")
	}
	switch strings.ToLower(strings.ReplaceAll(p.ParentalStatus, " ", "-")) {
	case "orphan":
		clauses = append(clauses, "for orphans")
	case "single-parent":
		clauses = append(clauses, "for single parent children")
	}
	return strings.Join(clauses, " ") + " " + schemeSiteFilter
}

func schemePrompt(results []models.SearchResult, profile models.UserProfile) (string, error) {
	var list strings.Builder
	for i, r := range results {
		fmt.Fprintf(&list, "%d. Title: %s\n   Link: %s\n   Snippet: %s\n", i+1, r.Title, r.Link, r.Snippet)
	}

	profileJSON, err := json.Marshal(profile)
	if err != nil {
		return "", fmt.Errorf("encode profile: %w", err)
	}

	return fmt.Sprintf(`You are an assistant that matches Indian citizens with government welfare schemes.

User profile:
%s

Search results:
%s
Select at most %d schemes from the search results that genuinely match this profile.
Respond with ONLY a JSON array. Each element must have exactly these keys:
"scheme_name", "summary", "eligibility", "link".
The "link" value MUST be copied exactly from the search results above. Do not invent links.
If nothing matches, respond with [].`, profileJSON, list.String(), maxSchemes), nil
}

// asUpstream keeps typed errors and classifies the rest as upstream failures.
func asUpstream(op string, err error, message string) error {
	if models.KindOf(err) != models.KindUnknown {
		return err
	}
	return models.NewError(models.KindUpstream, op, message, err)
}
