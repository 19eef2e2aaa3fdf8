package store

import (
	"context"
	"fmt"
	"unicode/utf8"

	sq "github.com/Masterminds/squirrel"
	"github.com/pgvector/pgvector-go"

	"github.com/xhad/sanket/internal/models"
	"github.com/xhad/sanket/internal/types"
)

var _ types.ChunkIndex = (*Store)(nil)

// Store embeds every chunk of each bill and upserts it. Re-indexing the same
// bill overwrites its rows in place.
func (s *Store) Store(ctx context.Context, bills []models.ChunkedBill, embedder types.Embedder) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, bill := range bills {
		if len(bill.Chunks) == 0 {
			continue
		}

		chunks := make([]string, len(bill.Chunks))
		for i, chunk := range bill.Chunks {
			chunks[i] = sanitizeUTF8(chunk)
		}

		vectors, err := embedder.CreateEmbedding(ctx, chunks)
		if err != nil {
			return fmt.Errorf("failed to create embeddings: %w", err)
		}
		if len(vectors) != len(chunks) {
			return fmt.Errorf("got %d embeddings for %d chunks", len(vectors), len(chunks))
		}

		for i, chunk := range chunks {
			query, args, err := s.upsertChunkQuery(bill, i, chunk, vectors[i])
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, query, args...); err != nil {
				return fmt.Errorf("failed to insert chunk: %w", err)
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Query returns the chunks of billID nearest to embedding by cosine distance.
func (s *Store) Query(ctx context.Context, billID string, embedding []float32, limit int) ([]models.BillChunk, error) {
	query, args, err := s.nearestChunksQuery(billID, embedding, limit)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer rows.Close()

	var chunks []models.BillChunk
	for rows.Next() {
		var chunk models.BillChunk
		if err := rows.Scan(&chunk.BillID, &chunk.Index, &chunk.Content); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		chunks = append(chunks, chunk)
	}

	return chunks, rows.Err()
}

func (s *Store) upsertChunkQuery(bill models.ChunkedBill, index int, chunk string, vector []float32) (string, []any, error) {
	query, args, err := s.sb.Insert(s.config.ChunkTable).
		Columns("id", "bill_id", "bill_name", "url", "content", "chunk_index", "embedding").
		Values(
			fmt.Sprintf("%s_%d", bill.ID, index),
			bill.ID,
			sanitizeUTF8(bill.BillName),
			bill.SourceURL,
			chunk,
			index,
			pgvector.NewVector(vector),
		).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding`).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build chunk insert: %w", err)
	}
	return query, args, nil
}

func (s *Store) nearestChunksQuery(billID string, embedding []float32, limit int) (string, []any, error) {
	if limit <= 0 {
		limit = 4
	}
	query, args, err := s.sb.Select("bill_id", "chunk_index", "content").
		From(s.config.ChunkTable).
		Where(sq.Eq{"bill_id": billID}).
		OrderByClause("embedding <=> ?", pgvector.NewVector(embedding)).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build chunk query: %w", err)
	}
	return query, args, nil
}

func sanitizeUTF8(s string) string {
	if !utf8.ValidString(s) {
		v := make([]rune, 0, len(s))
		for i, r := range s {
			if r == utf8.RuneError {
				_, size := utf8.DecodeRuneInString(s[i:])
				if size == 1 {
					continue
				}
			}
			v = append(v, r)
		}
		return string(v)
	}
	return s
}
