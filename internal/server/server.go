// Package server exposes the HR assistant over HTTP: the chat API, history
// management, embedding administration and a WebSocket chat channel.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"hrchat/internal/chat"
	"hrchat/internal/embeddings"
	"hrchat/internal/hr"
	"hrchat/internal/indexer"
	"hrchat/internal/vectordb"
)

// Config holds server configuration.
type Config struct {
	Port         int
	AllowAll     bool   // allow all CORS origins (dev mode)
	AdminToken   string // required on admin endpoints when set
	DefaultOrgID string // org used when X-Org-ID is absent
}

// Server routes HTTP traffic to the chat engine and indexer.
type Server struct {
	cfg        Config
	engine     *chat.Engine
	indexer    *indexer.Indexer
	store      vectordb.Store
	embedder   embeddings.Embedder
	hrStore    *hr.Store
	router     chi.Router
	httpServer *http.Server
}

// New creates a server with all dependencies.
func New(cfg Config, engine *chat.Engine, ix *indexer.Indexer, store vectordb.Store, embedder embeddings.Embedder, hrStore *hr.Store) *Server {
	if cfg.DefaultOrgID == "" {
		cfg.DefaultOrgID = "default"
	}
	s := &Server{
		cfg:      cfg,
		engine:   engine,
		indexer:  ix,
		store:    store,
		embedder: embedder,
		hrStore:  hrStore,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Org-ID", "X-Admin-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat/query", s.handleChatQuery)
		r.Get("/chat/history", s.handleListHistory)
		r.Delete("/chat/history", s.handleClearHistory)
		r.Get("/chat/history/{id}", s.handleGetHistory)
		r.Delete("/chat/history/{id}", s.handleDeleteHistory)

		r.Get("/embeddings/search", s.handleEmbeddingSearch)
		r.Get("/embeddings/stats", s.handleEmbeddingStats)
		r.With(s.requireAdmin).Post("/embeddings/reindex", s.handleReindex)
	})

	r.Get("/ws/chat", s.handleWebSocket)

	return r
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("hrchat server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// orgID resolves the organization for a request.
func (s *Server) orgID(r *http.Request) string {
	if org := r.Header.Get("X-Org-ID"); org != "" {
		return org
	}
	return s.cfg.DefaultOrgID
}

// requireAdmin guards admin endpoints with the configured token. With no
// token configured the endpoints stay open, which suits local deployments.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AdminToken != "" && r.Header.Get("X-Admin-Token") != s.cfg.AdminToken {
			writeError(w, http.StatusUnauthorized, "invalid admin token")
			return
		}
		next.ServeHTTP(w, r)
	})
}
