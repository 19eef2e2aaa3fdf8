package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/xhad/sanket/internal/models"
	"github.com/xhad/sanket/internal/types"
)

var _ types.HistoryStore = (*Store)(nil)

// AppendHistory always creates a new row; entries are never updated.
func (s *Store) AppendHistory(ctx context.Context, entry models.HistoryEntry) error {
	query, args, err := s.appendHistoryQuery(entry)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert history: %w", err)
	}
	return nil
}

// RecentHistory returns up to limit entries for userID, newest first.
func (s *Store) RecentHistory(ctx context.Context, userID string, limit int) ([]models.HistoryEntry, error) {
	query, args, err := s.recentHistoryQuery(userID, limit)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	entries := []models.HistoryEntry{}
	for rows.Next() {
		var (
			entry     models.HistoryEntry
			sentiment []byte
			summary   *string
			source    *string
		)
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.BillName, &summary, &sentiment, &source, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		if summary != nil {
			entry.Summary = *summary
		}
		if source != nil {
			entry.SourceURL = *source
		}
		if len(sentiment) > 0 {
			if err := json.Unmarshal(sentiment, &entry.Sentiment); err != nil {
				s.logger.Warn("unreadable sentiment in history", "id", entry.ID, "error", err)
			}
		}
		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

func (s *Store) appendHistoryQuery(entry models.HistoryEntry) (string, []any, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	sentiment, err := json.Marshal(entry.Sentiment)
	if err != nil {
		return "", nil, fmt.Errorf("encode sentiment: %w", err)
	}

	query, args, err := s.sb.Insert("history").
		Columns("id", "user_id", "bill_name", "summary", "sentiment", "source_url", "created_at").
		Values(entry.ID, entry.UserID, entry.BillName, entry.Summary, string(sentiment), entry.SourceURL, entry.CreatedAt).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build history insert: %w", err)
	}
	return query, args, nil
}

func (s *Store) recentHistoryQuery(userID string, limit int) (string, []any, error) {
	if limit <= 0 {
		limit = s.config.HistoryLimit
	}
	query, args, err := s.sb.Select("id", "user_id", "bill_name", "summary", "sentiment", "source_url", "created_at").
		From("history").
		Where(sq.Eq{"user_id": userID}).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build history query: %w", err)
	}
	return query, args, nil
}
