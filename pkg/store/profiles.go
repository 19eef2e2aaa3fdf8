package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/xhad/sanket/internal/models"
	"github.com/xhad/sanket/internal/types"
)

var _ types.ProfileStore = (*Store)(nil)

// GetProfile reports false when the user has never saved a profile.
func (s *Store) GetProfile(ctx context.Context, userID string) (models.UserProfile, bool, error) {
	query, args, err := s.sb.Select("profile").
		From("profiles").
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return models.UserProfile{}, false, fmt.Errorf("build profile query: %w", err)
	}

	var raw []byte
	err = s.pool.QueryRow(ctx, query, args...).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.UserProfile{}, false, nil
	}
	if err != nil {
		return models.UserProfile{}, false, fmt.Errorf("query profile: %w", err)
	}

	var profile models.UserProfile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return models.UserProfile{}, false, err
	}
	return profile, true, nil
}

// MergeProfile writes the populated fields of profile over the stored one.
func (s *Store) MergeProfile(ctx context.Context, userID string, profile models.UserProfile) error {
	query, args, err := s.mergeProfileQuery(userID, profile)
	if err != nil {
		return err
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("merge profile: %w", err)
	}
	return nil
}

func (s *Store) mergeProfileQuery(userID string, profile models.UserProfile) (string, []any, error) {
	body, err := json.Marshal(profile)
	if err != nil {
		return "", nil, fmt.Errorf("encode profile: %w", err)
	}

	query, args, err := s.sb.Insert("profiles").
		Columns("user_id", "profile").
		Values(userID, string(body)).
		Suffix(`ON CONFLICT (user_id) DO UPDATE SET
			profile = profiles.profile || EXCLUDED.profile,
			updated_at = NOW()`).
		ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("build profile upsert: %w", err)
	}
	return query, args, nil
}
