package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/xhad/sanket/internal/types"
)

// EmbedderConfig represents the configuration for the embedding model.
type EmbedderConfig struct {
	Model   string
	BaseURL string // Ollama server URL
}

// Embedder turns text chunks into vectors via an Ollama embedding model.
type Embedder struct {
	Config EmbedderConfig
	embed  types.Embedder
}

var _ types.Embedder = (*Embedder)(nil)

func NewEmbedderWithConfig(config EmbedderConfig) (*Embedder, error) {
	if config.Model == "" {
		config.Model = "nomic-embed-text:latest"
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}

	emb, err := ollama.New(ollama.WithModel(config.Model),
		ollama.WithServerURL(config.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}

	return &Embedder{Config: config, embed: emb}, nil
}

// CreateEmbedding returns one vector per input text.
func (e *Embedder) CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error) {
	vectors, err := e.embed.CreateEmbedding(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("create embedding: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("create embedding: got %d vectors for %d texts", len(vectors), len(texts))
	}
	return vectors, nil
}
