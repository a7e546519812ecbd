package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	api_utils "github.com/ethanbaker/api/pkg/utils"
	"github.com/ethanbaker/parlavoice/internal/stores/registry"
	"github.com/ethanbaker/parlavoice/internal/stores/submission"
	"github.com/ethanbaker/parlavoice/pkg/catalog"
	"github.com/ethanbaker/parlavoice/pkg/session"
	"github.com/ethanbaker/parlavoice/pkg/storage"
	"github.com/ethanbaker/parlavoice/pkg/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	exercise_module "github.com/ethanbaker/parlavoice/internal/api/modules/exercise"
	health_module "github.com/ethanbaker/parlavoice/internal/api/modules/health"
	sessions_module "github.com/ethanbaker/parlavoice/internal/api/modules/sessions"
	submissions_module "github.com/ethanbaker/parlavoice/internal/api/modules/submissions"
)

const (
	DefaultCatalogPath = "./textos_para_fala.xlsx"
	DefaultIdleTTL     = 2 * time.Hour

	shutdownTimeout = 10 * time.Second
)

// Server holds the wired service and its HTTP engine
type Server struct {
	Engine   *gin.Engine
	Service  *exercise_module.Service
	Registry *registry.Registry
	Options  session.Options

	ledger submission.Store
	logger *zap.Logger
}

// NewServer builds every collaborator from configuration
func NewServer(ctx context.Context, cfg *utils.Config, logger *zap.Logger) (*Server, error) {
	opts := session.DefaultOptions()
	if path := cfg.Get("EXERCISE_CONFIG_PATH"); path != "" {
		var err error
		if opts, err = session.LoadOptions(path); err != nil {
			return nil, err
		}
	}

	uploader, err := storage.New(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up storage: %w", err)
	}

	ledger, err := submission.NewFromConfig(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up submission ledger: %w", err)
	}

	reg := registry.NewRegistry(
		func() *session.Machine { return session.NewMachine(opts) },
		cfg.GetDurationWithDefault("SESSION_IDLE_TTL", DefaultIdleTTL),
		logger,
	)

	svc := exercise_module.NewService(exercise_module.ServiceConfig{
		Options:     opts,
		Catalog:     catalog.NewLoader(opts.CatalogColumn),
		CatalogPath: cfg.GetWithDefault("CATALOG_PATH", DefaultCatalogPath),
		Uploader:    uploader,
		Ledger:      ledger,
		Registry:    reg,
		Logger:      logger,
	})

	return &Server{
		Engine:   NewEngine(cfg, svc, logger),
		Service:  svc,
		Registry: reg,
		Options:  opts,
		ledger:   ledger,
		logger:   logger,
	}, nil
}

// NewEngine creates the gin engine with the pages and the JSON API mounted
func NewEngine(cfg *utils.Config, svc *exercise_module.Service, logger *zap.Logger) *gin.Engine {
	// Add app level settings/routes
	engine := gin.New()
	engine.Use(recovery(logger), requestLogger(logger))
	engine.NoRoute(api_utils.NoRouteHandler)
	engine.SetHTMLTemplate(exercise_module.Templates())

	// Add trusted proxies
	engine.SetTrustedProxies(nil)

	// Add CORS using gin-contrib/cors (https://github.com/gin-contrib/cors for documentation)
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.GetList("CORS_ALLOWED_ORIGINS"),
		AllowAllOrigins:  len(cfg.GetList("CORS_ALLOWED_ORIGINS")) == 0,
		AllowMethods:     []string{"OPTIONS", "GET", "POST", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-API-KEY"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Participant pages
	exercise_module.RegisterRoutes(&engine.RouterGroup, exercise_module.NewController(svc, cfg.GetBoolWithDefault("COOKIE_SECURE", false), logger))

	// Base group '/api' for all API routes
	baseGroup := engine.Group("/api")

	health_module.RegisterRoutes(baseGroup, svc)

	if key := cfg.Get("API_KEY"); key != "" {
		validator := func(candidate string) bool {
			return subtle.ConstantTimeCompare([]byte(candidate), []byte(key)) == 1
		}
		sessions_module.RegisterRoutes(baseGroup, svc, validator)
		submissions_module.RegisterRoutes(baseGroup, svc, validator)
	} else {
		logger.Warn("API_KEY not set, session and submission API disabled")
	}

	return engine
}

// Close releases the submission ledger
func (s *Server) Close() error {
	if closer, ok := s.ledger.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context, addr string) error {
	if err := s.Registry.Start(s.Options.SweepSchedule); err != nil {
		return err
	}
	defer s.Registry.Stop()

	server := &http.Server{
		Addr:              addr,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", zap.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

// Start builds the server from configuration and runs it until ctx is done
func Start(ctx context.Context, cfg *utils.Config, logger *zap.Logger) error {
	gin.SetMode(cfg.GetWithDefault("GIN_MODE", gin.ReleaseMode))

	server, err := NewServer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := server.Close(); err != nil {
			logger.Warn("failed to close submission ledger", zap.Error(err))
		}
	}()

	return server.Run(ctx, ":"+cfg.GetWithDefault("API_PORT", "8080"))
}
