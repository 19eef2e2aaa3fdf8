// Package store persists accounts, profiles, analysis history and bill chunk
// embeddings in Postgres.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xhad/sanket/internal/logging"
)

type StoreConfig struct {
	ConnString   string
	ChunkTable   string
	VectorDim    int
	HistoryLimit int
	Logger       *slog.Logger
}

type Store struct {
	config StoreConfig
	pool   *pgxpool.Pool
	sb     sq.StatementBuilderType
	logger *slog.Logger
}

var identifier = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

func NewWithConfig(ctx context.Context, config StoreConfig) (*Store, error) {
	s, err := newStore(config)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.New(ctx, s.config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	s.pool = pool

	if err := s.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func newStore(config StoreConfig) (*Store, error) {
	if config.ChunkTable == "" {
		config.ChunkTable = "bill_chunks"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 768 // nomic-embed-text
	}
	if config.HistoryLimit == 0 {
		config.HistoryLimit = 5
	}
	if !identifier.MatchString(config.ChunkTable) {
		return nil, fmt.Errorf("invalid chunk table name: %q", config.ChunkTable)
	}

	return &Store{
		config: config,
		sb:     sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger: logging.OrDefault(config.Logger),
	}, nil
}

func (s *Store) initialize(ctx context.Context) error {
	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash BYTEA NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			profile JSONB NOT NULL DEFAULT '{}'::jsonb,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS history (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			bill_name TEXT NOT NULL,
			summary TEXT,
			sentiment JSONB,
			source_url TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS history_user_created_idx ON history (user_id, created_at DESC)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			bill_id TEXT NOT NULL,
			bill_name TEXT,
			url TEXT,
			content TEXT,
			chunk_index INTEGER,
			embedding vector(%d)
		)`, s.config.ChunkTable, s.config.VectorDim),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS %s_bill_idx ON %s (bill_id)`,
			s.config.ChunkTable, s.config.ChunkTable),
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}

	return nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
