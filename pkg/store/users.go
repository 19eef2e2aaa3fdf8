package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/xhad/sanket/internal/models"
	"github.com/xhad/sanket/internal/types"
)

const minPasswordLength = 6

var _ types.UserStore = (*Store)(nil)

func (s *Store) CreateUser(ctx context.Context, email, password string) (models.User, error) {
	const op = "create user"
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return models.User{}, models.NewError(models.KindValidation, op, "A valid email address is required.", nil)
	}
	if len(password) < minPasswordLength {
		return models.User{}, models.NewError(models.KindValidation, op,
			fmt.Sprintf("Password must be at least %d characters.", minPasswordLength), nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	query, args, err := s.sb.Insert("users").
		Columns("id", "email", "password_hash", "created_at").
		Values(user.ID, user.Email, user.PasswordHash, user.CreatedAt).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("build user insert: %w", err)
	}

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.User{}, models.NewError(models.KindValidation, op,
				"An account with this email already exists.", err)
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}

	return user, nil
}

func (s *Store) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	const op = "authenticate"
	invalid := models.NewError(models.KindValidation, op, "Invalid email or password.", nil)

	query, args, err := s.sb.Select("id", "email", "password_hash", "created_at").
		From("users").
		Where(sq.Eq{"email": normalizeEmail(email)}).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("build user query: %w", err)
	}

	var user models.User
	err = s.pool.QueryRow(ctx, query, args...).Scan(&user.ID, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, invalid
	}
	if err != nil {
		return models.User{}, fmt.Errorf("query user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return models.User{}, invalid
	}

	return user, nil
}

// CreateSession issues an opaque bearer token for userID.
func (s *Store) CreateSession(ctx context.Context, userID string) (string, error) {
	token := uuid.NewString()

	query, args, err := s.sb.Insert("sessions").
		Columns("token", "user_id").
		Values(token, userID).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build session insert: %w", err)
	}
	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert session: %w", err)
	}

	return token, nil
}

// ResolveSession returns the user ID owning token.
func (s *Store) ResolveSession(ctx context.Context, token string) (string, error) {
	const op = "resolve session"
	if _, err := uuid.Parse(token); err != nil {
		return "", models.NewError(models.KindNotFound, op, "Invalid or expired session.", err)
	}

	query, args, err := s.sb.Select("user_id").
		From("sessions").
		Where(sq.Eq{"token": token}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build session query: %w", err)
	}

	var userID string
	err = s.pool.QueryRow(ctx, query, args...).Scan(&userID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", models.NewError(models.KindNotFound, op, "Invalid or expired session.", nil)
	}
	if err != nil {
		return "", fmt.Errorf("query session: %w", err)
	}

	return userID, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
