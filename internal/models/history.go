package models

import "time"

// HistoryEntry is one persisted analysis for a user.
type HistoryEntry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	BillName  string    `json:"billName"`
	Summary   string    `json:"summary"`
	Sentiment any       `json:"sentiment"`
	SourceURL string    `json:"source"`
	CreatedAt time.Time `json:"date"`
}

// User is a registered account.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}
