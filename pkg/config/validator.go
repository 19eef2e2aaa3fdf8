package config

import (
	"fmt"
	"net/url"
	"strconv"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate reports structural problems. Missing credentials are not errors
// here: the affected operations report a configuration error when called.
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	if port, err := strconv.Atoi(c.Server.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, ValidationError{
			Field:   "server.port",
			Message: "port must be a number between 1 and 65535",
		})
	}

	if c.Search.MaxResults < 1 || c.Search.MaxResults > 10 {
		errors = append(errors, ValidationError{
			Field:   "search.max_results",
			Message: "max_results must be between 1 and 10",
		})
	}

	switch c.LLM.Provider {
	case "googleai", "ollama":
	default:
		errors = append(errors, ValidationError{
			Field:   "llm.provider",
			Message: fmt.Sprintf("unsupported provider: %s", c.LLM.Provider),
		})
	}

	if c.LLM.Provider == "ollama" {
		if u, err := url.Parse(c.LLM.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
			errors = append(errors, ValidationError{
				Field:   "llm.base_url",
				Message: "invalid Ollama base URL",
			})
		}
	}

	if c.LLM.MaxTokens < 1 || c.LLM.MaxTokens > 8192 {
		errors = append(errors, ValidationError{
			Field:   "llm.max_tokens",
			Message: "max_tokens must be between 1 and 8192",
		})
	}

	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		errors = append(errors, ValidationError{
			Field:   "llm.temperature",
			Message: "temperature must be between 0 and 2",
		})
	}

	if c.Forum.SubmissionLimit < 1 || c.Forum.SubmissionLimit > 100 {
		errors = append(errors, ValidationError{
			Field:   "forum.submission_limit",
			Message: "submission_limit must be between 1 and 100",
		})
	}

	if c.Scraper.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "scraper.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	if c.Scraper.MinTextLength < 1 {
		errors = append(errors, ValidationError{
			Field:   "scraper.min_text_length",
			Message: "min_text_length must be positive",
		})
	}

	if c.Sentiment.MinYear > c.Sentiment.MaxYear {
		errors = append(errors, ValidationError{
			Field:   "sentiment.min_year",
			Message: "min_year must not exceed max_year",
		})
	}

	if c.Sentiment.CutoffYear < c.Sentiment.MinYear || c.Sentiment.CutoffYear > c.Sentiment.MaxYear {
		errors = append(errors, ValidationError{
			Field:   "sentiment.cutoff_year",
			Message: "cutoff_year must lie within the year window",
		})
	}

	if c.Sentiment.NegativeThreshold > c.Sentiment.PositiveThreshold {
		errors = append(errors, ValidationError{
			Field:   "sentiment.negative_threshold",
			Message: "negative_threshold must not exceed positive_threshold",
		})
	}

	if c.Database.URL != "" {
		if u, err := url.Parse(c.Database.URL); err != nil || u.Scheme == "" {
			errors = append(errors, ValidationError{
				Field:   "database.url",
				Message: "invalid database URL",
			})
		}
	}

	if c.Database.VectorDim < 1 {
		errors = append(errors, ValidationError{
			Field:   "database.vector_dim",
			Message: "vector_dim must be positive",
		})
	}

	if c.Processor.ChunkSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "processor.chunk_size",
			Message: "chunk_size must be positive",
		})
	}

	if c.Processor.ChunkOverlap < 0 || c.Processor.ChunkOverlap >= c.Processor.ChunkSize {
		errors = append(errors, ValidationError{
			Field:   "processor.chunk_overlap",
			Message: "chunk_overlap must be non-negative and less than chunk_size",
		})
	}

	return errors
}
