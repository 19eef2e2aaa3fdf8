package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Host           string   `yaml:"host"`
		Port           string   `yaml:"port"`
		AllowedOrigins []string `yaml:"allowed_origins"`
	} `yaml:"server"`

	Search struct {
		APIKey     string        `yaml:"api_key"`
		EngineID   string        `yaml:"engine_id"`
		MaxResults int           `yaml:"max_results"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"search"`

	LLM struct {
		Provider       string  `yaml:"provider"`
		APIKey         string  `yaml:"api_key"`
		BaseURL        string  `yaml:"base_url"`
		Model          string  `yaml:"model"`
		EmbeddingModel string  `yaml:"embedding_model"`
		MaxTokens      int     `yaml:"max_tokens"`
		Temperature    float64 `yaml:"temperature"`
	} `yaml:"llm"`

	Forum struct {
		ClientID              string   `yaml:"client_id"`
		ClientSecret          string   `yaml:"client_secret"`
		Username              string   `yaml:"username"`
		Password              string   `yaml:"password"`
		UserAgent             string   `yaml:"user_agent"`
		Communities           []string `yaml:"communities"`
		SubmissionLimit       int      `yaml:"submission_limit"`
		CommentsPerSubmission int      `yaml:"comments_per_submission"`
	} `yaml:"forum"`

	Scraper struct {
		Timeout       time.Duration `yaml:"timeout"`
		RateLimit     float64       `yaml:"rate_limit"`
		UserAgent     string        `yaml:"user_agent"`
		MinTextLength int           `yaml:"min_text_length"`
		MaxCandidates int           `yaml:"max_candidates"`
	} `yaml:"scraper"`

	Sentiment struct {
		MinYear           int     `yaml:"min_year"`
		MaxYear           int     `yaml:"max_year"`
		CutoffYear        int     `yaml:"cutoff_year"`
		PositiveThreshold float64 `yaml:"positive_threshold"`
		NegativeThreshold float64 `yaml:"negative_threshold"`
	} `yaml:"sentiment"`

	Database struct {
		URL        string `yaml:"url"`
		ChunkTable string `yaml:"chunk_table"`
		VectorDim  int    `yaml:"vector_dim"`
	} `yaml:"database"`

	Processor struct {
		ChunkSize    int `yaml:"chunk_size"`
		ChunkOverlap int `yaml:"chunk_overlap"`
	} `yaml:"processor"`

	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
}

func LoadConfig(path string) (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	// If no path provided, try default locations
	if path == "" {
		locations := []string{
			"config.yaml",
			"config.yml",
			filepath.Join(os.Getenv("HOME"), ".config/sanket/config.yaml"),
			"/etc/sanket/config.yaml",
		}

		for _, loc := range locations {
			if _, err := os.Stat(loc); err == nil {
				path = loc
				break
			}
		}
	}

	if path == "" {
		return getDefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	mergeWithEnv(&config)
	applyDefaults(&config)

	return &config, nil
}

func getDefaultConfig() (*Config, error) {
	config := &Config{}
	mergeWithEnv(config)
	applyDefaults(config)
	return config, nil
}

func applyDefaults(config *Config) {
	if config.Server.Host == "" {
		config.Server.Host = "0.0.0.0"
	}
	if config.Server.Port == "" {
		config.Server.Port = "5000"
	}
	if len(config.Server.AllowedOrigins) == 0 {
		config.Server.AllowedOrigins = []string{
			"http://127.0.0.1:5500",
			"http://127.0.0.1:5501",
			"http://localhost:3000",
		}
	}

	if config.Search.MaxResults == 0 {
		config.Search.MaxResults = 5
	}
	if config.Search.Timeout == 0 {
		config.Search.Timeout = 15 * time.Second
	}

	if config.LLM.Provider == "" {
		config.LLM.Provider = "googleai"
	}
	if config.LLM.Model == "" {
		if config.LLM.Provider == "ollama" {
			config.LLM.Model = "mistral"
		} else {
			config.LLM.Model = "gemini-1.5-flash-latest"
		}
	}
	if config.LLM.EmbeddingModel == "" {
		config.LLM.EmbeddingModel = "nomic-embed-text:latest"
	}
	if config.LLM.BaseURL == "" {
		config.LLM.BaseURL = "http://localhost:11434"
	}
	if config.LLM.MaxTokens == 0 {
		config.LLM.MaxTokens = 2048
	}
	if config.LLM.Temperature == 0 {
		config.LLM.Temperature = 0.4
	}

	if config.Forum.UserAgent == "" {
		config.Forum.UserAgent = "sanket/1.0 (bill sentiment)"
	}
	if len(config.Forum.Communities) == 0 {
		config.Forum.Communities = []string{"india", "IndianPolitics", "indianews", "unitedstatesofindia"}
	}
	if config.Forum.SubmissionLimit == 0 {
		config.Forum.SubmissionLimit = 25
	}
	if config.Forum.CommentsPerSubmission == 0 {
		config.Forum.CommentsPerSubmission = 5
	}

	if config.Scraper.Timeout == 0 {
		config.Scraper.Timeout = 20 * time.Second
	}
	if config.Scraper.RateLimit == 0 {
		config.Scraper.RateLimit = 2.0
	}
	if config.Scraper.UserAgent == "" {
		config.Scraper.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	}
	if config.Scraper.MinTextLength == 0 {
		config.Scraper.MinTextLength = 100
	}
	if config.Scraper.MaxCandidates == 0 {
		config.Scraper.MaxCandidates = 5
	}

	if config.Sentiment.MinYear == 0 {
		config.Sentiment.MinYear = 1900
	}
	if config.Sentiment.MaxYear == 0 {
		config.Sentiment.MaxYear = 2099
	}
	if config.Sentiment.CutoffYear == 0 {
		config.Sentiment.CutoffYear = 2020
	}
	if config.Sentiment.PositiveThreshold == 0 {
		config.Sentiment.PositiveThreshold = 0.1
	}
	if config.Sentiment.NegativeThreshold == 0 {
		config.Sentiment.NegativeThreshold = -0.1
	}

	if config.Database.ChunkTable == "" {
		config.Database.ChunkTable = "bill_chunks"
	}
	if config.Database.VectorDim == 0 {
		config.Database.VectorDim = 768
	}

	// chunk_overlap: 0 is honoured when chunk_size is set.
	if config.Processor.ChunkSize == 0 {
		config.Processor.ChunkSize = 1000
		if config.Processor.ChunkOverlap == 0 {
			config.Processor.ChunkOverlap = 200
		}
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
}

func mergeWithEnv(config *Config) {
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		config.Search.APIKey = v
	}
	if v := os.Getenv("SEARCH_ENGINE_ID"); v != "" {
		config.Search.EngineID = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		config.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		config.LLM.Provider = v
	}
	if v := os.Getenv("OLLAMA_BASE_URL"); v != "" {
		config.LLM.BaseURL = v
	}
	if v := os.Getenv("REDDIT_CLIENT_ID"); v != "" {
		config.Forum.ClientID = v
	}
	if v := os.Getenv("REDDIT_CLIENT_SECRET"); v != "" {
		config.Forum.ClientSecret = v
	}
	if v := os.Getenv("REDDIT_USERNAME"); v != "" {
		config.Forum.Username = v
	}
	if v := os.Getenv("REDDIT_PASSWORD"); v != "" {
		config.Forum.Password = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		config.Database.URL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		config.Server.Port = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
	if v := os.Getenv("SENTIMENT_CUTOFF_YEAR"); v != "" {
		if year, err := strconv.Atoi(v); err == nil {
			config.Sentiment.CutoffYear = year
		}
	}
}

// SearchConfigured reports whether web search credentials are present.
func (c *Config) SearchConfigured() bool {
	return c.Search.APIKey != "" && c.Search.EngineID != ""
}

// ForumConfigured reports whether discussion-forum credentials are present.
func (c *Config) ForumConfigured() bool {
	return c.Forum.ClientID != "" && c.Forum.ClientSecret != ""
}
