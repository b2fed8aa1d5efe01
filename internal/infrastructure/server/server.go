package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/servicex/internal/api/http"
	"github.com/GriffinCanCode/servicex/internal/api/middleware"
	"github.com/GriffinCanCode/servicex/internal/api/ws"
	"github.com/GriffinCanCode/servicex/internal/bridge/mainloop"
	"github.com/GriffinCanCode/servicex/internal/browser/headless"
	"github.com/GriffinCanCode/servicex/internal/config"
	"github.com/GriffinCanCode/servicex/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/servicex/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/servicex/internal/logging"
	"github.com/GriffinCanCode/servicex/pkg/servicex"
)

const (
	loopDepth       = 256
	shutdownTimeout = 10 * time.Second
)

// Server wraps the harness HTTP server and its dependencies.
type Server struct {
	router  *gin.Engine
	http    *http.Server
	sdk     *servicex.SDK
	loop    *mainloop.Loop
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
	tracer  *tracing.Tracer
}

// Option customizes NewServer.
type Option func(*options)

type options struct {
	logger  *logging.Logger
	sdkOpts []servicex.Option
}

// WithLogger replaces the logger derived from cfg.Logging.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithSDKOptions passes extra options to servicex.New, e.g. a test API.
func WithSDKOptions(opts ...servicex.Option) Option {
	return func(o *options) { o.sdkOpts = append(o.sdkOpts, opts...) }
}

// NewServer creates a new server instance.
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		var err error
		logger, err = logging.New(logging.FromConfig(cfg.Logging))
		if err != nil {
			return nil, fmt.Errorf("failed to create logger: %w", err)
		}
	}

	logger.Info("Initializing servicex harness",
		zap.String("port", cfg.Server.Port),
		zap.String("env", string(cfg.SDK.Env)),
		zap.String("web", cfg.WebBaseURL()),
	)

	metrics := monitoring.NewMetrics()
	tracer := tracing.New("harness", logger)

	// Sessions from every connection share one main loop, like a host app's
	// UI thread.
	loop := mainloop.New(loopDepth)

	sdkOpts := append([]servicex.Option{
		servicex.WithLogger(logger),
		servicex.WithMetrics(metrics),
		servicex.WithExecutor(loop),
	}, o.sdkOpts...)
	sdk, err := servicex.New(cfg, sdkOpts...)
	if err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to create SDK: %w", err)
	}

	// Simulations run on their own inline loop so a slow page fetch never
	// stalls websocket sessions.
	simSDK, err := sdk.Derive(servicex.WithExecutor(&mainloop.Inline{}))
	if err != nil {
		tracer.Close()
		return nil, fmt.Errorf("failed to create simulation SDK: %w", err)
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.CORSFromConfig(cfg.Server)))
	if cfg.Server.RateLimitRPS > 0 {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.Server.RateLimitRPS),
			zap.Int("burst", cfg.Server.RateLimitBurst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.Server.RateLimitRPS,
			Burst:             cfg.Server.RateLimitBurst,
		}))
	}

	handlers := apihttp.NewHandlers(sdk, metrics, logger)
	simulator := apihttp.NewSimulator(simSDK, headless.NewHTTPFetcher(cfg.HTTP.Timeout), logger)
	wsHandler := ws.NewHandler(sdk, ws.Options{Logger: logger, Metrics: metrics, Tracer: tracer})

	router.GET("/", handlers.Root)
	router.GET("/healthz", handlers.Health)
	router.GET("/theme", handlers.Theme)
	router.POST("/offers", handlers.Offers)
	router.POST("/bnpl/availability", handlers.BNPLAvailability)
	router.POST("/logs", handlers.StreamLogs)
	router.POST("/simulate", simulator.Simulate)

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	router.GET("/metrics/json", handlers.MetricsJSON)

	router.GET("/ws", wsHandler.HandleConnection)

	logger.Info("Server initialized successfully")

	return &Server{
		router:  router,
		sdk:     sdk,
		loop:    loop,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
		tracer:  tracer,
	}, nil
}

// Handler exposes the router, e.g. for httptest.
func (s *Server) Handler() http.Handler { return s.router }

// SDK returns the bridge instance the harness drives.
func (s *Server) SDK() *servicex.SDK { return s.sdk }

// Run starts the main loop and serves HTTP until ctx is done, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	s.loop.Start(ctx)

	addr := s.config.Server.Host + ":" + s.config.Server.Port
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases background resources. Call it after Run returns.
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")
	s.loop.Stop()
	s.tracer.Close()
	_ = s.logger.Sync()
	return nil
}
