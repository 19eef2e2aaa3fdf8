package agent

import (
	"context"

	"github.com/xhad/sanket/internal/models"
)

// FetchNews returns recent coverage of a bill in ranked order. No results is
// an empty list, not an error.
func (a *Agent) FetchNews(ctx context.Context, billName string) ([]models.NewsItem, error) {
	const op = "fetch news"
	if !a.searchConfigured() {
		return nil, models.NewError(models.KindConfiguration, op,
			"Google API keys are not configured.", nil)
	}

	results, err := a.config.Searcher.Search(ctx, billName+" latest news", newsResults)
	if err != nil {
		return nil, asUpstream(op, err, "Could not fetch news right now.")
	}

	news := make([]models.NewsItem, 0, len(results))
	for _, r := range results {
		if len(news) == newsResults {
			break
		}
		news = append(news, r)
	}
	return news, nil
}
