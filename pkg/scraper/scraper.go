package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/time/rate"

	"github.com/xhad/sanket/internal/logging"
	"github.com/xhad/sanket/internal/models"
	"github.com/xhad/sanket/internal/types"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

type ScraperConfig struct {
	Searcher      types.Searcher
	MaxCandidates int
	MinTextLength int     // extracted text must be longer than this, in characters
	RateLimit     float64 // requests per second
	UserAgent     string
	Timeout       time.Duration
	MaxBodyBytes  int64
	OnProgress    func(url string)
	Logger        *slog.Logger
}

// Scraper implements the Source Fetcher: search, then try each candidate in
// ranked order until one yields enough text.
type Scraper struct {
	config  ScraperConfig
	client  *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger

	extractDocument func([]byte) string
	extractMarkup   func([]byte) string
}

var _ types.BillFetcher = (*Scraper)(nil)

func NewWithConfig(config ScraperConfig) (*Scraper, error) {
	if config.Searcher == nil {
		return nil, fmt.Errorf("scraper requires a searcher")
	}
	if config.Timeout == 0 {
		config.Timeout = 20 * time.Second
	}
	if config.MaxCandidates == 0 {
		config.MaxCandidates = 5
	}
	if config.MinTextLength == 0 {
		config.MinTextLength = 100
	}
	if config.RateLimit == 0 {
		config.RateLimit = 2 // 2 requests per second by default
	}
	if config.UserAgent == "" {
		config.UserAgent = defaultUserAgent
	}
	if config.MaxBodyBytes == 0 {
		config.MaxBodyBytes = 20 << 20
	}

	return &Scraper{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
		},
		limiter:         rate.NewLimiter(rate.Limit(config.RateLimit), 1),
		logger:          logging.OrDefault(config.Logger),
		extractDocument: ExtractFromDocument,
		extractMarkup:   ExtractFromMarkup,
	}, nil
}

// FetchBillText returns the first candidate source with usable text. A nil
// error always comes with non-empty text and its URL.
func (s *Scraper) FetchBillText(ctx context.Context, query string) (models.RetrievalResult, error) {
	const op = "fetch bill text"

	if !s.config.Searcher.Configured() {
		return models.RetrievalResult{}, models.NewError(models.KindConfiguration, op,
			"Google API keys are not configured.", nil)
	}

	s.logger.Info("searching for bill text", "query", query)
	candidates, err := s.config.Searcher.Search(ctx, query, s.config.MaxCandidates)
	if err != nil {
		if models.KindOf(err) != models.KindUnknown {
			return models.RetrievalResult{}, err
		}
		return models.RetrievalResult{}, models.NewError(models.KindUpstream, op,
			"The search service is unavailable right now.", err)
	}
	if len(candidates) == 0 {
		return models.RetrievalResult{}, models.NewError(models.KindNotFound, op,
			"Sorry, no search results were found.", nil)
	}

	reachable := false
	for i, candidate := range candidates {
		if i >= s.config.MaxCandidates {
			break
		}
		if !shouldProcessURL(candidate.Link) {
			continue
		}

		text, err := s.fetchCandidate(ctx, candidate.Link)
		if err != nil {
			if ctx.Err() != nil {
				return models.RetrievalResult{}, models.NewError(models.KindUpstream, op,
					"The request was cancelled before a source could be read.", ctx.Err())
			}
			s.logger.Warn("candidate source failed", "url", candidate.Link, "error", err)
			continue
		}
		reachable = true

		if utf8.RuneCountInString(text) > s.config.MinTextLength {
			s.logger.Info("found readable source", "url", candidate.Link, "chars", utf8.RuneCountInString(text))
			return models.RetrievalResult{Text: text, SourceURL: candidate.Link}, nil
		}
		s.logger.Debug("candidate source too short", "url", candidate.Link, "chars", utf8.RuneCountInString(text))
	}

	if reachable {
		return models.RetrievalResult{}, models.NewError(models.KindExtraction, op,
			"Could not extract readable text from the sources found.", nil)
	}
	return models.RetrievalResult{}, models.NewError(models.KindNotFound, op,
		"No readable source could be retrieved for this bill.", nil)
}

func (s *Scraper) fetchCandidate(ctx context.Context, rawURL string) (string, error) {
	// Apply rate limiting
	if err := s.limiter.Wait(ctx); err != nil {
		return "", err
	}
	if s.config.OnProgress != nil {
		s.config.OnProgress(rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf;q=0.9,*/*;q=0.8")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request source: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("received status code %d for URL: %s", resp.StatusCode, rawURL)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, s.config.MaxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	if isDocumentURL(rawURL) {
		return s.extractDocument(body), nil
	}
	return s.extractMarkup(body), nil
}

func shouldProcessURL(urlStr string) bool {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return false
	}
	return parsedURL.Scheme == "http" || parsedURL.Scheme == "https"
}

// isDocumentURL reports whether the URL path names a PDF.
func isDocumentURL(rawURL string) bool {
	path := rawURL
	if parsed, err := url.Parse(rawURL); err == nil {
		path = parsed.Path
	}
	return strings.HasSuffix(strings.ToLower(path), ".pdf")
}
