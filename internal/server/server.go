package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"paletteai/internal/app"
	"paletteai/internal/ratelimit"
	"paletteai/internal/util"
)

// Config wires required dependencies for the HTTP server.
type Config struct {
	App                        *app.App
	RedisAddr                  string
	RedisPassword              string
	GenerateRateLimitPerMinute int
	TrustedProxyCIDRs          []string
}

// Server exposes the palette HTTP endpoints.
type Server struct {
	app             *app.App
	mux             *http.ServeMux
	generateLimiter *ratelimit.FixedWindowLimiter
	trustedProxies  *util.TrustedProxies
}

// New constructs the server with routes configured. A positive
// GenerateRateLimitPerMinute enables the Redis-backed per-IP burst limiter
// on the generate endpoint.
func New(cfg Config) (*Server, error) {
	if cfg.App == nil {
		return nil, errors.New("server requires an app")
	}
	var limiter *ratelimit.FixedWindowLimiter
	if cfg.GenerateRateLimitPerMinute > 0 {
		var err error
		limiter, err = ratelimit.NewRedisFixedWindowLimiter(
			cfg.RedisAddr, cfg.RedisPassword, "paletteai:ratelimit:generate",
			cfg.GenerateRateLimitPerMinute, time.Minute)
		if err != nil {
			return nil, fmt.Errorf("init generate limiter: %w", err)
		}
	}
	trusted, err := util.NewTrustedProxies(cfg.TrustedProxyCIDRs)
	if err != nil {
		return nil, fmt.Errorf("parse trusted proxies: %w", err)
	}
	s := &Server{
		app:             cfg.App,
		mux:             http.NewServeMux(),
		generateLimiter: limiter,
		trustedProxies:  trusted,
	}
	s.routes()
	return s, nil
}

// Router returns the configured handler with middleware applied.
func (s *Server) Router() http.Handler {
	return util.WithSecurityHeaders(util.WithCORS(util.WithRequestID(util.WithRequestLog(s.mux))))
}

func (s *Server) routes() {
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/api/palettes/generate", s.handleGenerate)
	s.mux.HandleFunc("/api/palettes/", s.handlePalettesByUser)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type generateRequest struct {
	Keywords        string   `json:"keywords"`
	SeedColor       string   `json:"seedColor"`
	NumColors       int      `json:"numColors"`
	UserID          string   `json:"userId"`
	PreviousHistory []string `json:"previousHistory"`
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	if s.generateLimiter != nil && !s.generateLimiter.Allow(util.ClientIP(r, s.trustedProxies)) {
		writeError(w, http.StatusTooManyRequests, "too many requests")
		return
	}
	var req generateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	palette, err := s.app.GeneratePalette(r.Context(), app.GenerateRequest{
		UserID:          req.UserID,
		Keywords:        req.Keywords,
		SeedColor:       req.SeedColor,
		NumColors:       req.NumColors,
		PreviousHistory: req.PreviousHistory,
	})
	if err != nil {
		writeGenerateError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, palette)
}

// /api/palettes/{userId} and /api/palettes/{userId}/name
func (s *Server) handlePalettesByUser(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/palettes/")
	parts := strings.SplitN(path, "/", 2)
	userID := parts[0]
	if userID == "" {
		http.NotFound(w, r)
		return
	}

	if len(parts) == 2 && parts[1] == "name" {
		s.handleRename(w, r, userID)
		return
	}
	if len(parts) == 2 {
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		palettes, err := s.app.ListPalettes(userID)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, palettes)
	case http.MethodDelete:
		deleted, err := s.app.DeletePalettes(userID)
		if err != nil {
			if errors.Is(err, app.ErrNotFound) {
				writeError(w, http.StatusNotFound, "no palettes for user")
				return
			}
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
	default:
		methodNotAllowed(w)
	}
}

type renameRequest struct {
	CreatedAt time.Time `json:"createdAt"`
	Name      string    `json:"name"`
}

func (s *Server) handleRename(w http.ResponseWriter, r *http.Request, userID string) {
	if r.Method != http.MethodPut {
		methodNotAllowed(w)
		return
	}
	var req renameRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.CreatedAt.IsZero() {
		writeError(w, http.StatusBadRequest, "createdAt is required")
		return
	}
	if err := s.app.RenamePalette(userID, req.CreatedAt, req.Name); err != nil {
		if errors.Is(err, app.ErrNotFound) {
			writeError(w, http.StatusNotFound, "palette not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "renamed"})
}

func writeGenerateError(w http.ResponseWriter, err error) {
	var quotaErr *app.QuotaExceededError
	switch {
	case errors.As(err, &quotaErr):
		writeJSON(w, http.StatusTooManyRequests, map[string]string{
			"message":   "daily generation limit reached",
			"resetTime": quotaErr.ResetTime.UTC().Format(time.RFC3339),
		})
	case errors.Is(err, app.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, app.ErrGenerationFailed), errors.Is(err, app.ErrGenerationIncomplete):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}
