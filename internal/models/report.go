package models

// AnalysisReport is the assembled result of analysing one bill. Each slot is
// populated independently; a failure in one never blanks another.
type AnalysisReport struct {
	BillName     string          `json:"bill_name"`
	Summary      string          `json:"summary"`
	Sentiment    SentimentResult `json:"sentiment"`
	SourceURL    string          `json:"source_url"`
	ImpactScores ImpactScore     `json:"impact_scores,omitempty"`
	ImpactError  string          `json:"impact_error,omitempty"`
	News         []NewsItem      `json:"news"`
	NewsError    string          `json:"news_error,omitempty"`
	BillText     string          `json:"bill_text"`
}
