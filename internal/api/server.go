package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/terra-clan/video-library/internal/catalog"
	"github.com/terra-clan/video-library/internal/config"
	"github.com/terra-clan/video-library/internal/notice"
	"github.com/terra-clan/video-library/internal/storage"
	"github.com/terra-clan/video-library/internal/view"
)

// Server represents the HTTP API server
type Server struct {
	config  config.ServerConfig
	router  *chi.Mux
	store   *catalog.Store
	nav     *view.Navigator
	notices *notice.Board
	backend storage.Store
}

// NewServer creates a new API server
func NewServer(
	cfg config.ServerConfig,
	store *catalog.Store,
	nav *view.Navigator,
	notices *notice.Board,
	backend storage.Store,
) *Server {
	s := &Server{
		config:  cfg,
		store:   store,
		nav:     nav,
		notices: notices,
		backend: backend,
	}
	s.setupRouter()
	return s
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// setupRouter configures all routes and middleware
func (s *Server) setupRouter() {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS configuration
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check (outside versioned API)
	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Videos
		r.Route("/videos", func(r chi.Router) {
			r.Get("/", s.handleListVideos)
			r.Post("/", s.handleAddVideo)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetVideo)
				r.Put("/", s.handleEditVideo)
				r.Delete("/", s.handleDeleteVideo)
				r.Post("/category", s.handleReassignCategory)
			})
		})

		// Categories
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", s.handleListCategories)
			r.Post("/", s.handleAddCategory)
			r.Get("/{id}", s.handleGetCategory)
		})

		// Snapshot export/import
		r.Route("/snapshot", func(r chi.Router) {
			r.Get("/", s.handleExportSnapshot)
			r.Post("/", s.handleImportSnapshot)
		})

		// Navigation
		r.Route("/view", func(r chi.Router) {
			r.Get("/", s.handleGetView)
			r.Post("/overview", s.handleShowOverview)
			r.Post("/category/{id}", s.handleShowCategory)
			r.Post("/video/{id}", s.handleShowVideo)
			r.Post("/back", s.handleBack)
		})

		// Transient status message
		r.Get("/notice", s.handleGetNotice)
	})

	s.router = r
}

// loggingMiddleware logs HTTP requests using slog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			slog.Info("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
				"remote_addr", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}
