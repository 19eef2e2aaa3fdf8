package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"GOOGLE_API_KEY", "SEARCH_ENGINE_ID", "GEMINI_API_KEY", "LLM_PROVIDER",
		"OLLAMA_BASE_URL", "REDDIT_CLIENT_ID", "REDDIT_CLIENT_SECRET", "REDDIT_USERNAME",
		"REDDIT_PASSWORD", "DATABASE_URL", "PORT", "LOG_LEVEL", "SENTIMENT_CUTOFF_YEAR",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig(t *testing.T) {
	clearEnv(t)

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configData := `
server:
  port: "8080"
  allowed_origins:
    - "https://example.github.io"

search:
  api_key: "search-key"
  engine_id: "engine"
  max_results: 3
  timeout: 5s

llm:
  provider: "ollama"
  base_url: "http://localhost:11434"
  model: "llama3"
  max_tokens: 1000
  temperature: 0.5

forum:
  communities:
    - "india"
  submission_limit: 10

scraper:
  timeout: 12s
  min_text_length: 150

sentiment:
  cutoff_year: 2018

database:
  url: "postgres://localhost:5432/sanket"
  vector_dim: 1024

logging:
  level: "debug"
`
	err := os.WriteFile(configPath, []byte(configData), 0644)
	require.NoError(t, err)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "8080", config.Server.Port)
	assert.Equal(t, []string{"https://example.github.io"}, config.Server.AllowedOrigins)
	assert.Equal(t, 3, config.Search.MaxResults)
	assert.Equal(t, 5*time.Second, config.Search.Timeout)
	assert.True(t, config.SearchConfigured())
	assert.Equal(t, "ollama", config.LLM.Provider)
	assert.Equal(t, "llama3", config.LLM.Model)
	assert.Equal(t, 0.5, config.LLM.Temperature)
	assert.Equal(t, []string{"india"}, config.Forum.Communities)
	assert.Equal(t, 10, config.Forum.SubmissionLimit)
	assert.Equal(t, 5, config.Forum.CommentsPerSubmission)
	assert.False(t, config.ForumConfigured())
	assert.Equal(t, 12*time.Second, config.Scraper.Timeout)
	assert.Equal(t, 150, config.Scraper.MinTextLength)
	assert.Equal(t, 2018, config.Sentiment.CutoffYear)
	assert.Equal(t, 1900, config.Sentiment.MinYear)
	assert.Equal(t, 2099, config.Sentiment.MaxYear)
	assert.Equal(t, "postgres://localhost:5432/sanket", config.Database.URL)
	assert.Equal(t, 1024, config.Database.VectorDim)
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Empty(t, config.Validate())
}

func TestDefaultConfig(t *testing.T) {
	clearEnv(t)

	config, err := getDefaultConfig()
	require.NoError(t, err)

	assert.Equal(t, "5000", config.Server.Port)
	assert.Equal(t, "googleai", config.LLM.Provider)
	assert.Equal(t, "gemini-1.5-flash-latest", config.LLM.Model)
	assert.Equal(t, 20*time.Second, config.Scraper.Timeout)
	assert.Equal(t, 100, config.Scraper.MinTextLength)
	assert.Equal(t, 5, config.Scraper.MaxCandidates)
	assert.Equal(t, 25, config.Forum.SubmissionLimit)
	assert.Equal(t, 2020, config.Sentiment.CutoffYear)
	assert.False(t, config.SearchConfigured())
	assert.Empty(t, config.Validate())
}

func TestConfigValidation(t *testing.T) {
	clearEnv(t)

	config, err := getDefaultConfig()
	require.NoError(t, err)

	config.Server.Port = "abc"
	config.LLM.Provider = "openai"
	config.LLM.Temperature = 3.0
	config.Database.URL = "invalid-url"
	config.Processor.ChunkOverlap = config.Processor.ChunkSize

	errors := config.Validate()
	require.Len(t, errors, 5)

	expected := []string{
		"server.port",
		"llm.provider: unsupported provider: openai",
		"llm.temperature",
		"database.url: invalid database URL",
		"processor.chunk_overlap",
	}
	for i, msg := range expected {
		assert.Contains(t, errors[i].Error(), msg)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "google-key")
	t.Setenv("SEARCH_ENGINE_ID", "cx-id")
	t.Setenv("GEMINI_API_KEY", "gemini-key")
	t.Setenv("DATABASE_URL", "postgres://env-db:5432/test")
	t.Setenv("PORT", "9090")
	t.Setenv("SENTIMENT_CUTOFF_YEAR", "2021")

	config := &Config{}
	mergeWithEnv(config)

	assert.Equal(t, "google-key", config.Search.APIKey)
	assert.Equal(t, "cx-id", config.Search.EngineID)
	assert.Equal(t, "gemini-key", config.LLM.APIKey)
	assert.Equal(t, "postgres://env-db:5432/test", config.Database.URL)
	assert.Equal(t, "9090", config.Server.Port)
	assert.Equal(t, 2021, config.Sentiment.CutoffYear)
	assert.True(t, config.SearchConfigured())
}

func TestProcessorOverlapCanBeDisabled(t *testing.T) {
	clearEnv(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("processor:\n  chunk_size: 500\n  chunk_overlap: 0\n"), 0644))

	config, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, 500, config.Processor.ChunkSize)
	assert.Equal(t, 0, config.Processor.ChunkOverlap)
	assert.Empty(t, config.Validate())

	config, err = getDefaultConfig()
	require.NoError(t, err)
	assert.Equal(t, 200, config.Processor.ChunkOverlap)
}
