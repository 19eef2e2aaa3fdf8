package types

import (
	"context"

	"github.com/xhad/sanket/internal/models"
)

// Core interfaces
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]models.SearchResult, error)
	Configured() bool
}

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Embedder interface {
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
}

type BillFetcher interface {
	FetchBillText(ctx context.Context, query string) (models.RetrievalResult, error)
}

type Chunker interface {
	Process(docs []models.BillDocument) []models.ChunkedBill
}

type ChunkIndex interface {
	Store(ctx context.Context, bills []models.ChunkedBill, embedder Embedder) error
	Query(ctx context.Context, billID string, embedding []float32, limit int) ([]models.BillChunk, error)
}

type HistoryStore interface {
	AppendHistory(ctx context.Context, entry models.HistoryEntry) error
	RecentHistory(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error)
}

type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (models.UserProfile, bool, error)
	MergeProfile(ctx context.Context, userID string, profile models.UserProfile) error
}

type UserStore interface {
	CreateUser(ctx context.Context, email string, password string) (models.User, error)
	Authenticate(ctx context.Context, email string, password string) (models.User, error)
	CreateSession(ctx context.Context, userID string) (string, error)
	ResolveSession(ctx context.Context, token string) (string, error)
}
