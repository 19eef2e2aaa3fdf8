package models

// RetrievalResult is the text fetched for a bill and the URL it came from.
type RetrievalResult struct {
	Text      string `json:"text"`
	SourceURL string `json:"source_url"`
}

// SearchResult is one hit returned by the web search service.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// NewsItem is a recent article about a bill.
type NewsItem = SearchResult
