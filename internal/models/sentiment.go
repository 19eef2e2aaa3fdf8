package models

import "encoding/json"

// SentimentResult holds exactly one of: bucket percentages, a note, or an error.
type SentimentResult struct {
	Positive int
	Negative int
	Neutral  int
	Note     string
	Error    string
}

// SentimentNote builds the note variant.
func SentimentNote(note string) SentimentResult {
	return SentimentResult{Note: note}
}

// SentimentError builds the error variant.
func SentimentError(msg string) SentimentResult {
	return SentimentResult{Error: msg}
}

// HasPercentages reports whether the bucket variant is populated.
func (s SentimentResult) HasPercentages() bool {
	return s.Note == "" && s.Error == ""
}

// Display returns the value persisted in history: the note, the error, or the buckets.
func (s SentimentResult) Display() any {
	switch {
	case s.Note != "":
		return s.Note
	case s.Error != "":
		return s.Error
	default:
		return map[string]int{"positive": s.Positive, "negative": s.Negative, "neutral": s.Neutral}
	}
}

func (s SentimentResult) MarshalJSON() ([]byte, error) {
	switch {
	case s.Note != "":
		return json.Marshal(map[string]string{"note": s.Note})
	case s.Error != "":
		return json.Marshal(map[string]string{"error": s.Error})
	default:
		return json.Marshal(map[string]int{
			"positive": s.Positive,
			"negative": s.Negative,
			"neutral":  s.Neutral,
		})
	}
}
