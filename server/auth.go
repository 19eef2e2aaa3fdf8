package server

import (
	"context"
	"net/http"
	"strings"
)

type userIDKey struct{}

// bearerToken returns the token of an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return header
}

// optionalUser resolves the caller when a valid token is present.
func (s *Server) optionalUser(r *http.Request) string {
	token := bearerToken(r)
	if token == "" || s.config.Users == nil {
		return ""
	}
	userID, err := s.config.Users.ResolveSession(r.Context(), token)
	if err != nil {
		s.logger.Debug("ignoring invalid session", "error", err)
		return ""
	}
	return userID
}

func (s *Server) requireUser(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.config.Users == nil || s.config.Profiles == nil {
			writeErrorMessage(w, http.StatusServiceUnavailable, "Accounts are not available on this server.")
			return
		}
		token := bearerToken(r)
		if token == "" {
			writeErrorMessage(w, http.StatusUnauthorized, "Not authorized")
			return
		}
		userID, err := s.config.Users.ResolveSession(r.Context(), token)
		if err != nil {
			writeErrorMessage(w, http.StatusUnauthorized, "Not authorized")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), userIDKey{}, userID)))
	}
}

func userIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey{}).(string)
	return id
}
