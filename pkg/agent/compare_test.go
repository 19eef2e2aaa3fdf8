package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xhad/sanket/internal/models"
)

func TestOlderQuery(t *testing.T) {
	tests := []struct {
		billName string
		year     string
		want     string
	}{
		{"Data Protection Bill 2023", "2019", "Data Protection Bill 2019"},
		{"Data Protection Bill", "2019", "Data Protection Bill 2019"},
		{"Finance Act 2023 amendment", "2019", "Finance Act 2023 amendment 2019"},
		{"  Telecom   Bill 2023 ", "2018", "Telecom Bill 2018"},
	}

	for _, tt := range tests {
		t.Run(tt.billName, func(t *testing.T) {
			assert.Equal(t, tt.want, olderQuery(tt.billName, tt.year))
		})
	}
}

func TestCompareBills(t *testing.T) {
	fetcher := &fakeFetcher{results: map[string]models.RetrievalResult{
		"Data Protection Bill 2023": {Text: strings.Repeat("n", 3500), SourceURL: "https://new"},
		"Data Protection Bill 2019": {Text: strings.Repeat("o", 3500), SourceURL: "https://old"},
	}}
	gen := &fakeGenerator{replies: map[string]string{"### Additions": "### Additions\n- x"}}
	a := newTestAgent(AgentConfig{Fetcher: fetcher, Generator: gen})

	out := a.CompareBills(context.Background(), "Data Protection Bill 2023", "2019", models.Hinglish)

	assert.Equal(t, "### Additions\n- x", out)
	assert.Equal(t, []string{"Data Protection Bill 2023", "Data Protection Bill 2019"}, fetcher.queries)
	require.Len(t, gen.prompts, 1)
	prompt := gen.prompts[0]
	assert.Contains(t, prompt, "### Removals")
	assert.Contains(t, prompt, "### Changes")
	assert.Contains(t, prompt, "Hinglish")
	assert.Contains(t, prompt, strings.Repeat("n", 3000))
	assert.NotContains(t, prompt, strings.Repeat("n", 3001))
	assert.NotContains(t, prompt, strings.Repeat("o", 3001))
}

func TestCompareBillsFailures(t *testing.T) {
	tests := []struct {
		name        string
		billName    string
		olderYear   string
		fetcher     *fakeFetcher
		wantQueries int
		contains    string
	}{
		{
			name:      "invalid year",
			billName:  "Data Bill",
			olderYear: "19",
			fetcher:   &fakeFetcher{},
			contains:  "four-digit",
		},
		{
			name:        "current version missing",
			billName:    "Data Bill",
			olderYear:   "2019",
			fetcher:     &fakeFetcher{},
			wantQueries: 1,
			contains:    "current version",
		},
		{
			name:      "older version missing",
			billName:  "Data Bill",
			olderYear: "2019",
			fetcher: &fakeFetcher{results: map[string]models.RetrievalResult{
				"Data Bill": {Text: "text", SourceURL: "u"},
			}},
			wantQueries: 2,
			contains:    "2019 version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen := &fakeGenerator{}
			a := newTestAgent(AgentConfig{Fetcher: tt.fetcher, Generator: gen})

			out := a.CompareBills(context.Background(), tt.billName, tt.olderYear, models.English)

			assert.Contains(t, out, tt.contains)
			assert.Len(t, tt.fetcher.queries, tt.wantQueries)
			assert.Zero(t, gen.calls())
		})
	}
}
