package server

import (
	"encoding/json"
	"net/http"

	"github.com/xhad/sanket/internal/models"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeError renders the user-facing message of err with a status derived
// from its kind. Internal error text is never sent.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(models.KindOf(err))
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	} else {
		s.logger.Warn("request rejected", "path", r.URL.Path, "error", err)
	}
	writeErrorMessage(w, status, models.UserMessage(err))
}

func statusFor(kind models.Kind) int {
	switch kind {
	case models.KindValidation, models.KindNotFound, models.KindExtraction:
		return http.StatusBadRequest
	case models.KindConfiguration:
		return http.StatusServiceUnavailable
	case models.KindUpstream, models.KindFormat:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
