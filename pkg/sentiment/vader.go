package sentiment

import "github.com/jonreiter/govader"

// VaderScorer scores text with the VADER lexicon's compound score.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderScorer) Polarity(text string) float64 {
	return v.analyzer.PolarityScores(text).Compound
}
