// Package agent turns retrieved bill text into citizen-facing analysis: a
// summary, a version comparison, impact scores, news, scheme matches and
// grounded chat answers.
package agent

import (
	"context"
	"log/slog"

	"github.com/xhad/sanket/internal/logging"
	"github.com/xhad/sanket/internal/models"
	"github.com/xhad/sanket/internal/types"
	"github.com/xhad/sanket/pkg/scraper"
)

const (
	summaryTextLimit = 4000
	compareTextLimit = 3000
	impactTextLimit  = 4000
	chatContextLimit = 6000
	reportTextLimit  = 8000

	newsResults   = 5
	schemeResults = 5
	maxSchemes    = 3
	chatChunks    = 4

	generatorNotConfigured = "Error: the text generation service is not configured."
)

// SentimentEstimator classifies public discussion about a bill.
type SentimentEstimator interface {
	Estimate(ctx context.Context, billName string) models.SentimentResult
}

type AgentConfig struct {
	Fetcher   types.BillFetcher
	Generator types.Generator
	Sentiment SentimentEstimator
	Searcher  types.Searcher

	// Optional chat grounding. All three must be set for chunk retrieval.
	Index    types.ChunkIndex
	Embedder types.Embedder
	Chunker  types.Chunker

	History types.HistoryStore

	// ExtractDocument reads uploaded PDFs; defaults to scraper.ExtractFromDocument.
	ExtractDocument func([]byte) string
	Logger          *slog.Logger
}

type Agent struct {
	config AgentConfig
	logger *slog.Logger
}

func NewWithConfig(config AgentConfig) *Agent {
	if config.ExtractDocument == nil {
		config.ExtractDocument = scraper.ExtractFromDocument
	}
	return &Agent{config: config, logger: logging.OrDefault(config.Logger)}
}

// generate reports a configuration error when no generator is wired.
func (a *Agent) generate(ctx context.Context, prompt string) (string, error) {
	if a.config.Generator == nil {
		return "", models.NewError(models.KindConfiguration, "generate",
			"The text generation service is not configured.", nil)
	}
	return a.config.Generator.Generate(ctx, prompt)
}

func (a *Agent) searchConfigured() bool {
	return a.config.Searcher != nil && a.config.Searcher.Configured()
}

// truncate returns at most limit characters of s.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func responseLanguage(lang models.Language) string {
	if lang == models.Hinglish {
		return "simple Hinglish (Hindi written in the Roman script, mixed with common English words)"
	}
	return "simple, easy-to-understand English"
}
