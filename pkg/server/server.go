// Package server exposes deck generation over HTTP.
//
// Routes:
//
//	GET  /                          welcome message
//	GET  /healthz                   liveness check
//	GET  /version                   build and catalog versions
//	POST /generate-ppt              outline JSON in, {message, ppt_url} out
//	GET  /static_ppts/{name}        download a generated deck
//	GET  /api/decks                 generation history, newest first
//	POST /api/decks/{id}/favorite   toggle the favorite flag of a deck
//
// Errors are JSON objects of the form {"detail": "..."} with a status
// derived from the error code: invalid input maps to 400, missing decks and
// files to 404, everything else to 500.
package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/slidesmith/pkg/buildinfo"
	"github.com/matzehuels/slidesmith/pkg/errors"
	"github.com/matzehuels/slidesmith/pkg/outline"
	"github.com/matzehuels/slidesmith/pkg/pipeline"
	"github.com/matzehuels/slidesmith/pkg/store"
)

const (
	// MaxRequestBytes caps outline request bodies.
	MaxRequestBytes = 4 << 20

	// GenerateTimeout bounds one generation request.
	GenerateTimeout = 2 * time.Minute
)

// Config wires a [Server].
type Config struct {
	Runner *pipeline.Runner
	// Store records generated decks. Nil uses an in-memory store.
	Store store.Store
	// Options are applied to every generation. OutputDir is also the
	// directory served under /static_ppts.
	Options pipeline.Options
	// PublicURL prefixes returned download links.
	PublicURL string
	Logger    *log.Logger
}

// Server handles the deck HTTP API.
type Server struct {
	runner    *pipeline.Runner
	store     store.Store
	opts      pipeline.Options
	publicURL string
	logger    *log.Logger
}

// New creates a Server.
func New(cfg Config) (*Server, error) {
	if cfg.Runner == nil {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "server requires a runner")
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	cfg.Options.Logger = cfg.Logger
	if err := cfg.Options.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	return &Server{
		runner:    cfg.Runner,
		store:     cfg.Store,
		opts:      cfg.Options,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		logger:    cfg.Logger,
	}, nil
}

// Routes returns the HTTP handler for all API routes.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(cors)

	r.Get("/", s.handleRoot)
	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)
	r.Post("/generate-ppt", s.handleGenerate)
	r.Get("/static_ppts/{name}", s.handleDownload)
	r.Route("/api/decks", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Post("/{id}/favorite", s.handleFavorite)
	})
	return r
}

// ListenAndServe serves the API on addr until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      GenerateTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr, "output", s.opts.OutputDir)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return ctx.Err()
	}
}

// =============================================================================
// Handlers
// =============================================================================

type generateResponse struct {
	Message string `json:"message"`
	URL     string `json:"ppt_url"`
	ID      string `json:"id"`
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Welcome to the slidesmith PPT generation API"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	info := buildinfo.Get()
	info.Catalog = s.runner.Catalog.Version
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxRequestBytes))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), GenerateTimeout)
	defer cancel()

	o, err := pipeline.Decode(ctx, data, outline.FormatJSON)
	if err != nil {
		s.writeError(w, err)
		return
	}

	result, err := s.runner.Execute(ctx, o, s.opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	name := filepath.Base(result.Path)
	rec := &store.Record{
		Title:    result.Title,
		Path:     result.Path,
		URL:      s.deckURL(name),
		Slides:   result.Stats.Slides,
		Sections: result.Stats.Sections,
	}
	if err := s.store.Add(ctx, rec); err != nil {
		// The deck exists; a history failure must not fail the request.
		s.logger.Error("record deck", "path", result.Path, "err", err)
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Message: "PPT generated successfully",
		URL:     rec.URL,
		ID:      rec.ID,
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := errors.ValidateDeckName(name); err != nil {
		s.writeError(w, err)
		return
	}

	f, err := os.Open(filepath.Join(s.opts.OutputDir, name))
	if err != nil {
		if os.IsNotExist(err) {
			s.writeError(w, errors.New(errors.ErrCodeDeckNotFound, "deck %q not found", name))
			return
		}
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "open deck"))
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "stat deck"))
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.presentationml.presentation")
	http.ServeContent(w, r, name, info.ModTime(), f)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	records, err := s.store.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if records == nil {
		records = []*store.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleFavorite(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.ToggleFavorite(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// =============================================================================
// Helpers
// =============================================================================

func (s *Server) deckURL(name string) string {
	return s.publicURL + "/static_ppts/" + url.PathEscape(name)
}

// StatusCode maps an error to its HTTP status.
func StatusCode(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidOutline, errors.ErrCodeInvalidPath, errors.ErrCodeInvalidURL:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound, errors.ErrCodeDeckNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := StatusCode(err)
	if status == http.StatusInternalServerError || errors.IsFatal(err) {
		s.logger.Error("request failed", "err", err)
	} else {
		s.logger.Warn("request rejected", "status", status, "err", errors.UserMessage(err))
	}
	writeJSON(w, status, map[string]string{"detail": errors.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
			"id", middleware.GetReqID(r.Context()))
	})
}

// cors allows any origin, matching the browser frontend's expectations.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
