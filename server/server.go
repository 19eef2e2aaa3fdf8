// Package server exposes the bill analysis operations over HTTP and WebSocket.
package server

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/xhad/sanket/internal/logging"
	"github.com/xhad/sanket/internal/models"
	"github.com/xhad/sanket/internal/types"
	"github.com/xhad/sanket/pkg/agent"
)

// Analyst is the set of bill operations the API serves.
type Analyst interface {
	Analyze(ctx context.Context, req agent.AnalyzeRequest) (models.AnalysisReport, error)
	Ask(ctx context.Context, billText, question string, lang models.Language) string
	CompareBills(ctx context.Context, billName, olderYear string, lang models.Language) string
	FindSchemes(ctx context.Context, profile models.UserProfile) (models.SchemeMatch, error)
}

type ServerConfig struct {
	Analyst  Analyst
	Users    types.UserStore    // nil disables account routes
	Profiles types.ProfileStore // nil disables profile routes
	History  types.HistoryStore

	AllowedOrigins []string
	MaxUploadBytes int64
	HistoryLimit   int
	Logger         *slog.Logger
}

type Server struct {
	config ServerConfig
	router *mux.Router
	logger *slog.Logger
}

func NewWithConfig(config ServerConfig) *Server {
	if config.MaxUploadBytes == 0 {
		config.MaxUploadBytes = 20 << 20
	}
	if config.HistoryLimit == 0 {
		config.HistoryLimit = 5
	}

	s := &Server{
		config: config,
		router: mux.NewRouter(),
		logger: logging.OrDefault(config.Logger),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Use(s.loggingMiddleware)

	r.HandleFunc("/", s.homeHandler).Methods(http.MethodGet)
	r.HandleFunc("/health", s.healthHandler).Methods(http.MethodGet)
	r.HandleFunc("/ws/chat", s.handleWebSocket)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/register", s.registerHandler).Methods(http.MethodPost)
	api.HandleFunc("/login", s.loginHandler).Methods(http.MethodPost)
	api.HandleFunc("/analyze", s.analyzeHandler).Methods(http.MethodPost)
	api.HandleFunc("/chat", s.chatHandler).Methods(http.MethodPost)
	api.HandleFunc("/compare", s.compareHandler).Methods(http.MethodPost)

	api.HandleFunc("/get-profile", s.requireUser(s.getProfileHandler)).Methods(http.MethodGet)
	api.HandleFunc("/update-profile", s.requireUser(s.updateProfileHandler)).Methods(http.MethodPost)
	api.HandleFunc("/find-schemes", s.requireUser(s.findSchemesHandler)).Methods(http.MethodGet)
	api.HandleFunc("/get-history", s.requireUser(s.historyHandler)).Methods(http.MethodGet)
}

// Handler returns the router wrapped in the CORS policy.
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: s.config.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	}).Handler(s.router)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := r.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	r.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// Unwrap lets http.ResponseController and the WebSocket upgrader reach the
// underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

func (s *Server) homeHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Sarkari Sanket Backend Online."))
}

func (s *Server) healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}
