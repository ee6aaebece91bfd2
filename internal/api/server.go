package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"kwscan/internal/services/batch"
)

// BatchRunner runs one keyword batch.
type BatchRunner interface {
	Run(ctx context.Context, req batch.Request) (*batch.Result, error)
}

// BundleStore keeps archives until they are downloaded.
type BundleStore interface {
	SaveBundle(ctx context.Context, id string, data []byte, createdAt time.Time) error
	GetBundle(ctx context.Context, id string) ([]byte, error)
	DeleteBundle(ctx context.Context, id string) error
}

type Options struct {
	AllowedExtensions []string
	DefaultThreshold  float64
	AutoJunk          bool
	MaxUploadBytes    int64
	StaticDir         string
}

type Server struct {
	router *chi.Mux
	log    *slog.Logger
	runner BatchRunner
	store  BundleStore
	opts   Options
}

func NewServer(log *slog.Logger, runner BatchRunner, store BundleStore, opts Options) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    log,
		runner: runner,
		store:  store,
		opts:   opts,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	s.router.Get("/health", s.handleHealth)
	s.router.Get("/favicon.ico", s.handleFavicon)
	s.router.Post("/upload", s.handleUpload)
	s.router.Get("/download/{id}", s.handleDownload)

	if s.opts.StaticDir != "" {
		FileServer(s.router, "/", http.Dir(s.opts.StaticDir))
	}
}

func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit any URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, r)
	})
}

func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (s *Server) handleFavicon(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
