// Package app assembles the analysis components from a loaded configuration.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xhad/sanket/internal/logging"
	"github.com/xhad/sanket/pkg/agent"
	"github.com/xhad/sanket/pkg/config"
	"github.com/xhad/sanket/pkg/forum"
	"github.com/xhad/sanket/pkg/llm"
	"github.com/xhad/sanket/pkg/processor"
	"github.com/xhad/sanket/pkg/scraper"
	"github.com/xhad/sanket/pkg/search"
	"github.com/xhad/sanket/pkg/sentiment"
	"github.com/xhad/sanket/pkg/store"
)

type Options struct {
	Logger *slog.Logger
	// OnProgress is called with each candidate URL the fetcher reads.
	OnProgress func(url string)
	// SkipStore leaves persistence off even when a database URL is set.
	SkipStore bool
}

// App holds the wired components. Store is nil when no database is configured.
type App struct {
	Agent *agent.Agent
	Store *store.Store
}

// New builds every component. Missing credentials never fail construction;
// the affected operations report a configuration error when called.
func New(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	logger := logging.OrDefault(opts.Logger)

	searcher, err := search.NewWithConfig(ctx, search.SearchConfig{
		APIKey:   cfg.Search.APIKey,
		EngineID: cfg.Search.EngineID,
		Timeout:  cfg.Search.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize search: %w", err)
	}

	fetcher, err := scraper.NewWithConfig(scraper.ScraperConfig{
		Searcher:      searcher,
		MaxCandidates: cfg.Scraper.MaxCandidates,
		MinTextLength: cfg.Scraper.MinTextLength,
		RateLimit:     cfg.Scraper.RateLimit,
		UserAgent:     cfg.Scraper.UserAgent,
		Timeout:       cfg.Scraper.Timeout,
		OnProgress:    opts.OnProgress,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize scraper: %w", err)
	}

	generator, err := llm.NewWithConfig(ctx, llm.GeneratorConfig{
		Provider:    cfg.LLM.Provider,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		BaseURL:     cfg.LLM.BaseURL,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize generator: %w", err)
	}

	forumClient, err := forum.NewWithConfig(forum.ForumConfig{
		ClientID:     cfg.Forum.ClientID,
		ClientSecret: cfg.Forum.ClientSecret,
		Username:     cfg.Forum.Username,
		Password:     cfg.Forum.Password,
		UserAgent:    cfg.Forum.UserAgent,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize forum client: %w", err)
	}

	estimator := sentiment.NewWithConfig(sentiment.EstimatorConfig{
		Forum:                 forumClient,
		Communities:           cfg.Forum.Communities,
		SubmissionLimit:       cfg.Forum.SubmissionLimit,
		CommentsPerSubmission: cfg.Forum.CommentsPerSubmission,
		MinYear:               cfg.Sentiment.MinYear,
		MaxYear:               cfg.Sentiment.MaxYear,
		CutoffYear:            cfg.Sentiment.CutoffYear,
		PositiveThreshold:     cfg.Sentiment.PositiveThreshold,
		NegativeThreshold:     cfg.Sentiment.NegativeThreshold,
		Logger:                logger,
	})

	agentConfig := agent.AgentConfig{
		Fetcher:   fetcher,
		Sentiment: estimator,
		Searcher:  searcher,
		Logger:    logger,
	}
	if generator.Configured() {
		agentConfig.Generator = generator
	} else {
		logger.Warn("text generation is not configured; narrative steps will report it")
	}

	a := &App{}
	if cfg.Database.URL != "" && !opts.SkipStore {
		st, err := store.NewWithConfig(ctx, store.StoreConfig{
			ConnString: cfg.Database.URL,
			ChunkTable: cfg.Database.ChunkTable,
			VectorDim:  cfg.Database.VectorDim,
			Logger:     logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize store: %w", err)
		}
		embedder, err := llm.NewEmbedderWithConfig(llm.EmbedderConfig{
			Model:   cfg.LLM.EmbeddingModel,
			BaseURL: cfg.LLM.BaseURL,
		})
		if err != nil {
			st.Close()
			return nil, err
		}

		a.Store = st
		agentConfig.History = st
		agentConfig.Index = st
		agentConfig.Embedder = embedder
		agentConfig.Chunker = processor.NewWithConfig(processor.ProcessorConfig{
			ChunkSize:    cfg.Processor.ChunkSize,
			ChunkOverlap: cfg.Processor.ChunkOverlap,
		})
	}

	a.Agent = agent.NewWithConfig(agentConfig)
	return a, nil
}

func (a *App) Close() {
	if a.Store != nil {
		a.Store.Close()
	}
}
