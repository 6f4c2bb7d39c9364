package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/catalog/internal/logging"
	"github.com/muurk/catalog/internal/productapi"
	"github.com/muurk/catalog/internal/store"
)

// Server is the reference product API
type Server struct {
	config     *Config
	store      store.Store
	hub        *Hub
	handler    http.Handler
	tlsConfig  *tls.Config
	httpServer *http.Server

	mu       sync.Mutex
	listener net.Listener
}

// New creates a server backed by st. The caller owns st and closes it.
func New(config *Config, st store.Store) (*Server, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var tlsConfig *tls.Config
	if config.TLSEnabled() {
		var err error
		tlsConfig, err = NewTLSConfig(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create TLS config: %w", err)
		}
	}

	s := &Server{
		config:    config,
		store:     st,
		hub:       NewHub(),
		tlsConfig: tlsConfig,
	}
	s.handler = s.routes()
	s.httpServer = &http.Server{
		Handler:           s.handler,
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() http.Handler {
	h := &handlers{store: s.store, hub: s.hub}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	r.Route(productapi.ProductsPath, func(r chi.Router) {
		r.Get("/", h.listProducts)
		r.Post("/", h.createProduct)
		r.Get("/search", h.searchProducts)
		r.Handle("/events", s.hub)
		r.Get("/{id}", h.getProduct)
		r.Put("/{id}", h.updateProduct)
		r.Delete("/{id}", h.deleteProduct)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status":      "ok",
			"subscribers": s.hub.Clients(),
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeNotFound(w, fmt.Sprintf("no route for %s %s", r.Method, r.URL.Path))
	})

	return r
}

// Handler returns the HTTP handler, for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Hub returns the event hub
func (s *Server) Hub() *Hub {
	return s.hub
}

// Listen binds the listen address. Port 0 picks a free port; see Addr.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.config.Addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr(), err)
	}
	if s.tlsConfig != nil {
		listener = tls.NewListener(listener, s.tlsConfig)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	return nil
}

// Addr returns the bound address, or nil before Listen
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Port returns the bound TCP port, or 0 before Listen
func (s *Server) Port() int {
	if addr, ok := s.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return 0
}

// BaseURL returns the URL clients should use, based on the bound port
func (s *Server) BaseURL() string {
	scheme := "http"
	if s.tlsConfig != nil {
		scheme = "https"
	}
	host := s.config.Host
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return fmt.Sprintf("%s://%s", scheme, net.JoinHostPort(host, fmt.Sprint(s.Port())))
}

// Serve handles requests until Shutdown. Listen must have been called.
func (s *Server) Serve() error {
	s.mu.Lock()
	listener := s.listener
	s.mu.Unlock()
	if listener == nil {
		return errors.New("server is not listening")
	}

	logging.Info("Product API listening",
		zap.String("addr", listener.Addr().String()),
		zap.String("url", s.BaseURL()),
		zap.Any("tls", GetTLSInfo(s.tlsConfig)),
	)

	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Run listens and serves until ctx is canceled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	if s.Addr() == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(s.Serve)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Shutdown disconnects event subscribers and drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.hub.Close(ctx); err != nil {
		logging.Warn("Shutdown timeout, event subscribers still open", zap.Error(err))
	}

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}

	logging.Info("Server stopped")
	return nil
}

// GetActiveConnections returns the number of event subscribers
func (s *Server) GetActiveConnections() int {
	return s.hub.Clients()
}
