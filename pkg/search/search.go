package search

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	"github.com/xhad/sanket/internal/models"
	"github.com/xhad/sanket/internal/types"
)

// maxPerRequest is the Custom Search API's page size ceiling.
const maxPerRequest = 10

type SearchConfig struct {
	APIKey   string
	EngineID string
	Timeout  time.Duration
	// Endpoint overrides the API base path, used against test servers.
	Endpoint string
}

// Client queries Google Programmable Search.
type Client struct {
	config  SearchConfig
	service *customsearch.Service
}

var _ types.Searcher = (*Client)(nil)

func NewWithConfig(ctx context.Context, config SearchConfig) (*Client, error) {
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}

	c := &Client{config: config}
	if !c.Configured() {
		return c, nil
	}

	opts := []option.ClientOption{option.WithAPIKey(config.APIKey)}
	if config.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(config.Endpoint))
	}

	service, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize search service: %w", err)
	}
	c.service = service

	return c, nil
}

// Configured reports whether credentials are present.
func (c *Client) Configured() bool {
	return c.config.APIKey != "" && c.config.EngineID != ""
}

// Search returns up to maxResults hits in ranked order.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	if !c.Configured() || c.service == nil {
		return nil, models.NewError(models.KindConfiguration, "search",
			"Google API keys are not configured.", nil)
	}
	if maxResults < 1 {
		maxResults = 1
	}
	if maxResults > maxPerRequest {
		maxResults = maxPerRequest
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	res, err := c.service.Cse.List().
		Cx(c.config.EngineID).
		Q(query).
		Num(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, models.NewError(models.KindUpstream, "search",
			"The search service is unavailable right now.", err)
	}

	results := make([]models.SearchResult, 0, len(res.Items))
	for _, item := range res.Items {
		if item == nil || item.Link == "" {
			continue
		}
		results = append(results, models.SearchResult{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
		if len(results) == maxResults {
			break
		}
	}

	return results, nil
}
