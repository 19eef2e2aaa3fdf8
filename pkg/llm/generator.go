package llm

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/schema"

	"github.com/xhad/sanket/internal/models"
	"github.com/xhad/sanket/internal/types"
)

// GeneratorConfig represents the configuration for the text generation service.
type GeneratorConfig struct {
	Provider    string // "googleai" or "ollama"
	APIKey      string
	Model       string
	BaseURL     string // Ollama server URL
	MaxTokens   int
	Temperature float64
}

// Generator sends single-prompt requests to an LLM.
type Generator struct {
	config GeneratorConfig
	llm    llms.Model
}

var _ types.Generator = (*Generator)(nil)

// NewWithConfig creates a Generator for the configured provider. A googleai
// provider without an API key yields an unconfigured Generator whose calls
// fail with a configuration error.
func NewWithConfig(ctx context.Context, config GeneratorConfig) (*Generator, error) {
	config = withDefaults(config)
	if config.Temperature < 0 || config.Temperature > 2 {
		return nil, fmt.Errorf("temperature must be between 0 and 2")
	}
	if config.MaxTokens < 0 {
		return nil, fmt.Errorf("max tokens cannot be negative")
	}

	var (
		model llms.Model
		err   error
	)
	switch config.Provider {
	case "googleai":
		if config.APIKey == "" {
			return &Generator{config: config}, nil
		}
		model, err = googleai.New(ctx,
			googleai.WithAPIKey(config.APIKey),
			googleai.WithDefaultModel(config.Model),
		)
	case "ollama":
		model, err = ollama.New(ollama.WithModel(config.Model),
			ollama.WithServerURL(config.BaseURL))
	default:
		return nil, fmt.Errorf("unsupported provider: %s", config.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM: %w", err)
	}

	return &Generator{config: config, llm: model}, nil
}

// NewWithModel wraps an already constructed model.
func NewWithModel(model llms.Model, config GeneratorConfig) *Generator {
	return &Generator{config: withDefaults(config), llm: model}
}

func withDefaults(config GeneratorConfig) GeneratorConfig {
	if config.Provider == "" {
		config.Provider = "googleai"
	}
	if config.Model == "" {
		if config.Provider == "ollama" {
			config.Model = "mistral"
		} else {
			config.Model = "gemini-1.5-flash-latest"
		}
	}
	if config.BaseURL == "" {
		config.BaseURL = "http://localhost:11434"
	}
	if config.MaxTokens == 0 {
		config.MaxTokens = 2048
	}
	if config.Temperature == 0 {
		config.Temperature = 0.4
	}
	return config
}

// Configured reports whether a model is available.
func (g *Generator) Configured() bool {
	return g != nil && g.llm != nil
}

// Generate sends prompt as a single human message and returns the first choice.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	const op = "generate"
	if !g.Configured() {
		return "", models.NewError(models.KindConfiguration, op,
			"The text generation service is not configured.", nil)
	}

	content := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}

	response, err := g.llm.GenerateContent(ctx, content,
		llms.WithTemperature(g.config.Temperature),
		llms.WithMaxTokens(g.config.MaxTokens),
	)
	if err != nil {
		return "", models.NewError(models.KindUpstream, op,
			"The text generation service failed to respond.", err)
	}
	if response == nil || len(response.Choices) == 0 || response.Choices[0] == nil {
		return "", models.NewError(models.KindUpstream, op,
			"The text generation service returned no content.", nil)
	}

	return response.Choices[0].Content, nil
}
