// Package api provides the HTTP surface of the ledger service.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Veraticus/spice-ledger/internal/auth"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/ledger"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Server is the ledger HTTP API server.
type Server struct {
	records  *ledger.RecordService
	accounts *ledger.AccountBook
	auth     *auth.BasicAuthenticator
	metrics  *Metrics
	logger   *slog.Logger
	version  string
}

// NewServer creates a new API server.
func NewServer(records *ledger.RecordService, accounts *ledger.AccountBook, authenticator *auth.BasicAuthenticator) *Server {
	return &Server{
		records:  records,
		accounts: accounts,
		auth:     authenticator,
		logger:   slog.Default(),
		version:  "dev",
	}
}

// EnableMetrics mounts /metrics and records request counters in m.
func (s *Server) EnableMetrics(m *Metrics) { s.metrics = m }

// SetLogger sets the request logger.
func (s *Server) SetLogger(l *slog.Logger) { s.logger = l }

// SetVersion sets the version reported by /version.
func (s *Server) SetVersion(v string) { s.version = v }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
		})
	})

	r.Get("/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"version": s.version,
		})
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(s.auth.Middleware)

		r.Route("/records", func(r chi.Router) {
			r.Get("/", s.handleListRecords)
			r.Post("/", s.handleCreateRecord)
			r.Get("/{id}", s.handleGetRecord)
			r.Put("/{id}", s.handleUpdateRecord)
			r.Delete("/{id}", s.handleDeleteRecord)
		})

		r.Route("/account", func(r chi.Router) {
			r.Get("/", s.handleGetAccount)
			r.Post("/", s.handleOpenAccount)
			r.Put("/", s.handleRenameAccount)
			r.Post("/deposit", s.handleDeposit)
			r.Post("/withdraw", s.handleWithdraw)
			r.Post("/adjust", s.handleAdjust)
		})
	})

	return r
}

// requestLogger logs one line per request and hands handlers a request-scoped logger.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logger := s.logger.With("request_id", middleware.GetReqID(r.Context()))
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(common.WithLogger(r.Context(), logger)))

		logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, errType, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    errType,
		},
	})
}

// writeServiceError maps domain errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, common.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, common.ErrInsufficientBalance):
		writeError(w, http.StatusConflict, "insufficient_balance", err.Error())
	case common.IsValidation(err):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	default:
		common.LogError(r.Context(), err, "request failed", common.Fields{"path": r.URL.Path})
		writeError(w, http.StatusInternalServerError, "internal", "internal server error")
	}
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "malformed JSON body: "+err.Error())
		return false
	}
	return true
}

// identity returns the caller resolved by the auth middleware.
func identity(r *http.Request) string {
	id, _ := auth.IdentityFrom(r.Context())
	return id
}
