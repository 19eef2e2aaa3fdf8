package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/sanket/internal/models"
)

const impactReply = `{"Farmers": {"score": 70, "reason": "Subsidies change."}}`

func newAnalyzeAgent(fetcher *fakeFetcher, history *fakeHistory) (*Agent, *fakeGenerator, *fakeSentiment) {
	gen := &fakeGenerator{replies: map[string]string{
		"Sarkari Sanket":     "### Who Does It Apply To?\nFarmers",
		"demographic groups": impactReply,
	}}
	sentiment := &fakeSentiment{result: models.SentimentResult{Positive: 50, Negative: 25, Neutral: 25}}
	searcher := &fakeSearcher{configured: true, results: []models.SearchResult{{Title: "Headline", Link: "https://news/1"}}}
	config := AgentConfig{
		Fetcher:   fetcher,
		Generator: gen,
		Sentiment: sentiment,
		Searcher:  searcher,
	}
	if history != nil {
		config.History = history
	}
	return newTestAgent(config), gen, sentiment
}

func TestAnalyzeByName(t *testing.T) {
	fetcher := &fakeFetcher{results: map[string]models.RetrievalResult{
		"Farm Bill 2020": {Text: billText + strings.Repeat("w", 9000), SourceURL: "https://prsindia.org/farm"},
	}}
	history := &fakeHistory{}
	a, gen, sentiment := newAnalyzeAgent(fetcher, history)

	report, err := a.Analyze(context.Background(), AnalyzeRequest{
		BillName: "Farm Bill 2020",
		Language: models.English,
		UserID:   "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Farm Bill 2020", report.BillName)
	assert.Equal(t, "https://prsindia.org/farm", report.SourceURL)
	assert.Equal(t, "### Who Does It Apply To?\nFarmers", report.Summary)
	assert.Equal(t, 50, report.Sentiment.Positive)
	assert.Equal(t, models.ImpactScore{"Farmers": {Score: 70, Reason: "Subsidies change."}}, report.ImpactScores)
	assert.Empty(t, report.ImpactError)
	require.Len(t, report.News, 1)
	assert.Len(t, []rune(report.BillText), 8000)
	assert.Equal(t, 2, gen.calls())
	assert.Equal(t, []string{"Farm Bill 2020"}, sentiment.names)

	require.Len(t, history.entries, 1)
	entry := history.entries[0]
	assert.Equal(t, "user-1", entry.UserID)
	assert.Equal(t, "Farm Bill 2020", entry.BillName)
	assert.Equal(t, report.Summary, entry.Summary)
	assert.Equal(t, map[string]int{"positive": 50, "negative": 25, "neutral": 25}, entry.Sentiment)
	assert.Equal(t, "https://prsindia.org/farm", entry.SourceURL)
}

func TestAnalyzeUploadedDocument(t *testing.T) {
	fetcher := &fakeFetcher{}
	a, _, sentiment := newAnalyzeAgent(fetcher, nil)
	a.config.ExtractDocument = func(data []byte) string {
		assert.Equal(t, "%PDF", string(data))
		return "  " + billText + "  "
	}

	report, err := a.Analyze(context.Background(), AnalyzeRequest{
		Document: []byte("%PDF"),
		FileName: "Digital_Personal_Data_Bill.pdf",
	})
	require.NoError(t, err)

	assert.Equal(t, "Digital Personal Data Bill", report.BillName)
	assert.Equal(t, "Uploaded File: Digital_Personal_Data_Bill.pdf", report.SourceURL)
	assert.Equal(t, strings.TrimSpace(billText), report.BillText)
	assert.Empty(t, fetcher.queries)
	assert.Equal(t, []string{"Digital Personal Data Bill"}, sentiment.names)
}

func TestAnalyzeResolutionErrors(t *testing.T) {
	fetchErr := models.NewError(models.KindExtraction, "fetch bill text",
		"Could not extract readable text from the sources found.", nil)

	tests := []struct {
		name     string
		req      AnalyzeRequest
		extract  string
		wantKind models.Kind
	}{
		{name: "nothing supplied", req: AnalyzeRequest{}, wantKind: models.KindValidation},
		{name: "unreadable upload", req: AnalyzeRequest{Document: []byte("x"), FileName: "a.pdf"}, wantKind: models.KindExtraction},
		{name: "fetch failure", req: AnalyzeRequest{BillName: "Broken Bill"}, wantKind: models.KindExtraction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{errs: map[string]error{"Broken Bill": fetchErr}}
			history := &fakeHistory{}
			a, gen, _ := newAnalyzeAgent(fetcher, history)
			a.config.ExtractDocument = func([]byte) string { return tt.extract }

			_, err := a.Analyze(context.Background(), tt.req)
			require.Error(t, err)
			assert.Equal(t, tt.wantKind, models.KindOf(err))
			assert.Zero(t, gen.calls())
			assert.Empty(t, history.entries)
		})
	}
}

func TestAnalyzePartialFailures(t *testing.T) {
	fetcher := &fakeFetcher{results: map[string]models.RetrievalResult{
		"Farm Bill": {Text: billText, SourceURL: "https://prsindia.org/farm"},
	}}
	gen := &fakeGenerator{replies: map[string]string{
		"Sarkari Sanket":     "summary",
		"demographic groups": "not json at all",
	}}
	history := &fakeHistory{err: errors.New("connection reset")}
	a := newTestAgent(AgentConfig{
		Fetcher:   fetcher,
		Generator: gen,
		Searcher:  &fakeSearcher{configured: true, err: errors.New("quota")},
		History:   history,
	})

	report, err := a.Analyze(context.Background(), AnalyzeRequest{BillName: "Farm Bill", UserID: "user-1"})
	require.NoError(t, err)

	assert.Equal(t, "summary", report.Summary)
	assert.Equal(t, "Discussion service is not configured.", report.Sentiment.Error)
	assert.Nil(t, report.ImpactScores)
	assert.Equal(t, "invalid AI response format", report.ImpactError)
	assert.NotNil(t, report.News)
	assert.Empty(t, report.News)
	assert.NotEmpty(t, report.NewsError)
	assert.Len(t, history.entries, 1)
	assert.Equal(t, "Discussion service is not configured.", history.entries[0].Sentiment)
}

func TestAnalyzeIsRepeatable(t *testing.T) {
	fetcher := &fakeFetcher{results: map[string]models.RetrievalResult{
		"Farm Bill": {Text: billText, SourceURL: "https://prsindia.org/farm"},
	}}
	a, _, _ := newAnalyzeAgent(fetcher, nil)

	first, err := a.Analyze(context.Background(), AnalyzeRequest{BillName: "Farm Bill"})
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), AnalyzeRequest{BillName: "Farm Bill"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestBillNameFromFile(t *testing.T) {
	tests := map[string]string{
		"Digital_Data_Bill.pdf": "Digital Data Bill",
		"uploads/Farm_Act.PDF":  "Farm Act",
		"notes.txt":             "notes.txt",
		"":                      "Uploaded Bill",
	}
	for in, want := range tests {
		assert.Equal(t, want, billNameFromFile(in), in)
	}
}
