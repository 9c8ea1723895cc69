package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/PolarWolf314/capi/internal/audit"
	"github.com/PolarWolf314/capi/internal/index"
	"github.com/PolarWolf314/capi/internal/keyring"
	logger "github.com/PolarWolf314/capi/internal/logging"
	"github.com/PolarWolf314/capi/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// App is everything a request may read. It is built once by the startup
// workflow and never modified.
type App struct {
	Index *index.Index
	Keys  *keyring.KeyRing
}

// Config holds HTTP server configuration.
type Config struct {
	Address         string
	MetricsAddress  string
	APIKeyHeader    string
	RateLimit       float64
	RateBurst       int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns default configuration.
func DefaultConfig() *Config {
	return &Config{
		Address:         ":8000",
		APIKeyHeader:    "X-API-KEY",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server is the lookup endpoint.
type Server struct {
	app     *App
	config  *Config
	logger  logger.Logger
	audit   *audit.Log
	metrics *metrics.Metrics
	limiter *rate.Limiter
	router  chi.Router
	onReady func(addr net.Addr)
}

// Option configures optional collaborators.
type Option func(*Server)

// WithAccessLog records every request in l.
func WithAccessLog(l *audit.Log) Option {
	return func(s *Server) { s.audit = l }
}

// WithMetrics reports requests to m and serves m on MetricsAddress.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// WithReady calls fn with the lookup address once its listener is bound,
// before any request is served.
func WithReady(fn func(addr net.Addr)) Option {
	return func(s *Server) { s.onReady = fn }
}

// New creates a server over app. A nil cfg uses DefaultConfig.
func New(app *App, cfg *Config, log logger.Logger, opts ...Option) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.APIKeyHeader == "" {
		cfg.APIKeyHeader = DefaultConfig().APIKeyHeader
	}

	s := &Server{
		app:    app,
		config: cfg,
		logger: log,
	}
	for _, opt := range opts {
		opt(s)
	}

	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = max(1, int(cfg.RateLimit))
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	s.metrics.SetDataset(app.Index.Len(), app.Keys.Len())
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(s.logger))
	if s.limiter != nil {
		r.Use(RateLimitMiddleware(s.limiter))
	}

	r.Get("/{id}", s.handleLookup)
	return r
}

// Handler returns the lookup endpoint's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Serve listens on the configured addresses and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.config.Address, err)
	}

	var metricsLn net.Listener
	if s.config.MetricsAddress != "" && s.metrics != nil {
		metricsLn, err = net.Listen("tcp", s.config.MetricsAddress)
		if err != nil {
			ln.Close()
			return fmt.Errorf("listening on %s: %w", s.config.MetricsAddress, err)
		}
	}

	return s.ServeListeners(ctx, ln, metricsLn)
}

// ServeListeners serves the lookup endpoint on ln and, if metricsLn is not
// nil, metrics on metricsLn. It returns after both have shut down.
func (s *Server) ServeListeners(ctx context.Context, ln, metricsLn net.Listener) error {
	servers := map[*http.Server]net.Listener{
		s.httpServer(s.Handler()): ln,
	}
	s.logger.Infof("Serving %d records on %s", s.app.Index.Len(), ln.Addr())
	if s.onReady != nil {
		s.onReady(ln.Addr())
	}

	if metricsLn != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", s.metrics.Handler())
		servers[s.httpServer(mux)] = metricsLn
		s.logger.Infof("Serving metrics on %s", metricsLn.Addr())
	}

	g, gctx := errgroup.WithContext(ctx)
	for srv, l := range servers {
		srv, l := srv, l
		g.Go(func() error {
			if err := srv.Serve(l); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Infof("Shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()

		var errs error
		for srv := range servers {
			errs = errors.Join(errs, srv.Shutdown(shutdownCtx))
		}
		return errs
	})

	return g.Wait()
}

func (s *Server) httpServer(h http.Handler) *http.Server {
	return &http.Server{
		Handler:      h,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}
