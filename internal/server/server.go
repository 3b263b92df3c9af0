package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rvbgo/rentvsbuy-calculator/internal/calculation"
	"github.com/rvbgo/rentvsbuy-calculator/internal/config"
	"github.com/rvbgo/rentvsbuy-calculator/internal/logging"
	"github.com/rvbgo/rentvsbuy-calculator/internal/storage"
)

// Server hosts the compute API.
type Server struct {
	cfg        *config.ServerConfig
	logger     *zap.Logger
	limiter    *RateLimiter
	httpServer *http.Server
}

// New builds a fully wired server: engine, policy, cache, rate limiter and
// routes. Redis backs the cache when an address is configured; otherwise an
// in-process cache is used.
func New(cfg *config.ServerConfig, logger *zap.Logger) (*Server, error) {
	policy, err := config.NewInputParser().LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return nil, err
	}

	engine := calculation.NewEngine()
	engine.SetLogger(logging.NewEngineLogger(logger))

	var cache storage.Cache
	if cfg.RedisAddr != "" {
		cache = storage.NewRedisCache(cfg.RedisAddr)
		logger.Info("using redis result cache", zap.String("addr", cfg.RedisAddr))
	} else {
		cache = storage.NewMemoryCache()
		logger.Info("using in-memory result cache")
	}

	handler := NewHandler(engine, policy, cache, cfg.CacheTTL, logger)
	limiter := NewRateLimiter(cfg.RateLimit, cfg.RateWindow)

	s := &Server{
		cfg:     cfg,
		logger:  logger,
		limiter: limiter,
	}
	s.httpServer = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      requestLogger(logger, s.routes(handler)),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s, nil
}

func (s *Server) routes(handler *Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/compute", s.limiter.Middleware(http.HandlerFunc(handler.Compute)))
	mux.Handle("/compute/montecarlo", s.limiter.Middleware(http.HandlerFunc(handler.MonteCarlo)))
	mux.HandleFunc("/healthz", handler.Health)
	mux.HandleFunc("/logout", handler.Logout)
	return mux
}

// Run starts the server and blocks until SIGINT/SIGTERM, then shuts down
// gracefully within the configured timeout.
func (s *Server) Run() error {
	defer s.limiter.Stop()

	serverErr := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.cfg.ListenAddr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		s.logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("server exited")
	return nil
}
