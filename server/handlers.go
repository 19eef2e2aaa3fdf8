package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/xhad/sanket/internal/models"
	"github.com/xhad/sanket/pkg/agent"
)

const historyDateLayout = "2006-01-02 15:04:05"

// flexString accepts a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected string or number")
	}
	*f = flexString(n.String())
	return nil
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type analyzeRequest struct {
	BillName string `json:"bill_name"`
	Language string `json:"language"`
}

type chatRequest struct {
	BillText string `json:"bill_text"`
	Query    string `json:"query"`
	Language string `json:"language"`
}

type compareRequest struct {
	BillName  string     `json:"bill_name"`
	OlderYear flexString `json:"older_year"`
	Language  string     `json:"language"`
}

type historyItem struct {
	ID        string `json:"id"`
	BillName  string `json:"billName"`
	Summary   string `json:"summary"`
	Sentiment any    `json:"sentiment"`
	Source    string `json:"source"`
	Date      string `json:"date"`
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v); err != nil {
		return models.NewError(models.KindValidation, "decode request", "Invalid JSON payload.", err)
	}
	return nil
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	if s.config.Users == nil {
		writeErrorMessage(w, http.StatusServiceUnavailable, "Accounts are not available on this server.")
		return
	}
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeErrorMessage(w, http.StatusBadRequest, "Email and password are required.")
		return
	}

	user, err := s.config.Users.CreateUser(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"uid": user.ID, "email": user.Email})
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	if s.config.Users == nil {
		writeErrorMessage(w, http.StatusServiceUnavailable, "Accounts are not available on this server.")
		return
	}
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.config.Users.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	token, err := s.config.Users.CreateSession(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token, "uid": user.ID})
}

// analyzeHandler accepts a multipart upload (bill_file, bill_name, language)
// or a JSON body with bill_name and language.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	req := agent.AnalyzeRequest{UserID: s.optionalUser(r)}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
		if err := r.ParseMultipartForm(s.config.MaxUploadBytes); err != nil {
			writeErrorMessage(w, http.StatusBadRequest, "Could not read the uploaded form.")
			return
		}
		req.BillName = r.FormValue("bill_name")
		req.Language = models.ParseLanguage(r.FormValue("language"))

		file, header, err := r.FormFile("bill_file")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			writeErrorMessage(w, http.StatusBadRequest, "Could not read uploaded PDF.")
			return
		default:
			defer file.Close()
			var buf bytes.Buffer
			if _, err := io.Copy(&buf, file); err != nil {
				writeErrorMessage(w, http.StatusBadRequest, "Could not read uploaded PDF.")
				return
			}
			req.Document = buf.Bytes()
			req.FileName = header.Filename
		}
	default:
		var body analyzeRequest
		if err := decodeJSON(r, &body); err != nil {
			s.writeError(w, r, err)
			return
		}
		req.BillName = body.BillName
		req.Language = models.ParseLanguage(body.Language)
	}

	report, err := s.config.Analyst.Analyze(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.BillText) == "" || strings.TrimSpace(req.Query) == "" {
		writeErrorMessage(w, http.StatusBadRequest, "Missing context/query")
		return
	}

	answer := s.config.Analyst.Ask(r.Context(), req.BillText, req.Query, models.ParseLanguage(req.Language))
	writeJSON(w, http.StatusOK, map[string]string{"answer": answer})
}

func (s *Server) compareHandler(w http.ResponseWriter, r *http.Request) {
	var req compareRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.BillName) == "" || strings.TrimSpace(string(req.OlderYear)) == "" {
		writeErrorMessage(w, http.StatusBadRequest, "Required: bill_name, older_year")
		return
	}

	comparison := s.config.Analyst.CompareBills(r.Context(), req.BillName, string(req.OlderYear), models.ParseLanguage(req.Language))
	writeJSON(w, http.StatusOK, map[string]string{"comparison": comparison})
}

func (s *Server) getProfileHandler(w http.ResponseWriter, r *http.Request) {
	profile, _, err := s.config.Profiles.GetProfile(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (s *Server) updateProfileHandler(w http.ResponseWriter, r *http.Request) {
	var profile models.UserProfile
	if err := decodeJSON(r, &profile); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.config.Profiles.MergeProfile(r.Context(), userIDFrom(r.Context()), profile); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) findSchemesHandler(w http.ResponseWriter, r *http.Request) {
	profile, found, err := s.config.Profiles.GetProfile(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !found || profile.IsEmpty() {
		writeErrorMessage(w, http.StatusBadRequest, "Profile not found")
		return
	}

	match, err := s.config.Analyst.FindSchemes(r.Context(), profile)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, match)
}

func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	if s.config.History == nil {
		writeJSON(w, http.StatusOK, []historyItem{})
		return
	}

	entries, err := s.config.History.RecentHistory(r.Context(), userIDFrom(r.Context()), s.config.HistoryLimit)
	if err != nil {
		s.logger.Error("history fetch failed", "error", err)
		writeErrorMessage(w, http.StatusInternalServerError, "History fetch failed.")
		return
	}

	items := make([]historyItem, 0, len(entries))
	for _, e := range entries {
		item := historyItem{
			ID:        e.ID,
			BillName:  e.BillName,
			Summary:   e.Summary,
			Sentiment: e.Sentiment,
			Source:    e.SourceURL,
		}
		if !e.CreatedAt.IsZero() {
			item.Date = e.CreatedAt.In(time.UTC).Format(historyDateLayout)
		}
		items = append(items, item)
	}
	writeJSON(w, http.StatusOK, items)
}
