package agent

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xhad/sanket/internal/logging"
	"github.com/xhad/sanket/internal/models"
)

var billText = strings.Repeat("The Bill regulates digital personal data processing in India. ", 20)

type fakeFetcher struct {
	mu      sync.Mutex
	results map[string]models.RetrievalResult
	errs    map[string]error
	queries []string
}

func (f *fakeFetcher) FetchBillText(_ context.Context, query string) (models.RetrievalResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	if err, ok := f.errs[query]; ok {
		return models.RetrievalResult{}, err
	}
	if r, ok := f.results[query]; ok {
		return r, nil
	}
	return models.RetrievalResult{}, models.NewError(models.KindNotFound, "fetch bill text",
		"Sorry, no search results were found.", nil)
}

// fakeGenerator answers by the first matching prompt marker.
type fakeGenerator struct {
	mu      sync.Mutex
	replies map[string]string
	err     error
	prompts []string
}

func (f *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	for marker, reply := range f.replies {
		if strings.Contains(prompt, marker) {
			return reply, nil
		}
	}
	return "generated", nil
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeSearcher struct {
	mu         sync.Mutex
	configured bool
	results    []models.SearchResult
	err        error
	queries    []string
	maxes      []int
}

func (f *fakeSearcher) Search(_ context.Context, query string, maxResults int) ([]models.SearchResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries = append(f.queries, query)
	f.maxes = append(f.maxes, maxResults)
	return f.results, f.err
}

func (f *fakeSearcher) Configured() bool { return f.configured }

type fakeSentiment struct {
	result models.SentimentResult
	names  []string
	mu     sync.Mutex
}

func (f *fakeSentiment) Estimate(_ context.Context, billName string) models.SentimentResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.names = append(f.names, billName)
	return f.result
}

type fakeHistory struct {
	entries []models.HistoryEntry
	err     error
}

func (f *fakeHistory) AppendHistory(_ context.Context, entry models.HistoryEntry) error {
	f.entries = append(f.entries, entry)
	return f.err
}

func (f *fakeHistory) RecentHistory(context.Context, string, int) ([]models.HistoryEntry, error) {
	return f.entries, nil
}

func newTestAgent(config AgentConfig) *Agent {
	config.Logger = logging.Discard()
	return NewWithConfig(config)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
	assert.Equal(t, "विधे", truncate("विधेयक", 4))
	assert.Equal(t, "विधेयक", truncate("विधेयक", 6))
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		lang         models.Language
		instruction  string
		firstHeading string
		secondHeader string
	}{
		{models.English, "simple, easy-to-understand English", "### Who Does It Apply To?", "### What Is This Bill?"},
		{models.Hinglish, "simple Hinglish", "### Yeh Kis Par Laagu Hota Hai?", "### Yeh Bill Kya Hai?"},
		{models.Language(""), "simple, easy-to-understand English", "### Who Does It Apply To?", "### What Is This Bill?"},
	}

	for _, tt := range tests {
		t.Run(string(tt.lang), func(t *testing.T) {
			gen := &fakeGenerator{replies: map[string]string{"Sarkari Sanket": "### summary"}}
			a := newTestAgent(AgentConfig{Generator: gen})

			long := strings.Repeat("x", 5000)
			out := a.Summarize(context.Background(), long, "Data Bill", tt.lang)

			assert.Equal(t, "### summary", out)
			prompt := gen.prompts[0]
			assert.Contains(t, prompt, tt.instruction)
			assert.Contains(t, prompt, `"Data Bill"`)
			first := strings.Index(prompt, tt.firstHeading)
			second := strings.Index(prompt, tt.secondHeader)
			assert.True(t, first >= 0 && second > first)
			assert.Contains(t, prompt, strings.Repeat("x", 4000))
			assert.NotContains(t, prompt, strings.Repeat("x", 4001))
		})
	}
}

func TestSummarizeFailures(t *testing.T) {
	a := newTestAgent(AgentConfig{})
	assert.Equal(t, generatorNotConfigured, a.Summarize(context.Background(), "text", "Bill", models.English))

	a = newTestAgent(AgentConfig{Generator: &fakeGenerator{err: errors.New("boom: internal detail")}})
	out := a.Summarize(context.Background(), "text", "Bill", models.English)
	assert.Contains(t, out, "Sorry")
	assert.NotContains(t, out, "internal detail")
}
