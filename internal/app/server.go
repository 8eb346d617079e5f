package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gokon/cfg"
	"gokon/internal/service/group"
	"gokon/internal/service/matching"
	"gokon/internal/service/notification"
	"gokon/internal/service/registration"
	"gokon/internal/service/user"
	"gokon/pkg/cache"
	"gokon/pkg/db"
	"gokon/pkg/idgen"
	"gokon/pkg/lineauth"
	"gokon/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// Server holds all application dependencies
type Server struct {
	config   *cfg.Config
	router   *gin.Engine
	http     *http.Server
	logger   *logger.AppLogger
	db       *db.SQLClient
	redis    *redis.Client
	cache    *cache.RedisCache
	shutdown func(context.Context) error

	// internal service
	userService         *user.Service
	registrationService *registration.Service
	matchingService     *matching.Service
	groupService        *group.Service
	notificationService *notification.Service
	dispatcher          *notification.Dispatcher
	auth                *lineauth.Authenticator
}

// NewServer creates and initializes a new server instance
func NewServer(ctx context.Context, config *cfg.Config) (*Server, error) {
	s := &Server{
		config: config,
	}

	shutdown, err := setupObservability(ctx, &config.Observability)
	if err != nil {
		return nil, fmt.Errorf("observability setup: %w", err)
	}
	s.shutdown = shutdown

	s.logger = logger.NewLogger(config.AppEnv)
	s.logger.Info(ctx, "Initializing server...")

	if err := s.initDatabase(); err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}

	if err := s.initCache(ctx); err != nil {
		return nil, fmt.Errorf("cache init: %w", err)
	}

	if err := s.initServicesAndRoutes(ctx); err != nil {
		return nil, fmt.Errorf("services init: %w", err)
	}

	s.logger.Info(ctx, "Server initialized successfully")
	return s, nil
}

func (s *Server) initDatabase() error {
	dsn := s.config.Postgres.DSN()

	dbClient, err := db.NewSQLClient("postgres", dsn)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	s.db = dbClient

	if err := runMigrations(dsn); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	return nil
}

func (s *Server) initCache(ctx context.Context) error {
	rc := s.config.Redis
	s.redis = cache.NewRedisClient(rc.Addr(), rc.Password, rc.DB)
	s.cache = cache.NewRedisCache(s.redis)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return s.cache.Ping(pingCtx)
}

func (s *Server) initAuth(ctx context.Context) (*lineauth.LoginHandlers, error) {
	line := s.config.Line

	var verifier lineauth.TokenVerifier = lineauth.Disabled()
	if line.LoginChannelID != "" {
		v, err := lineauth.NewOIDCVerifier(ctx, line.LoginIssuer, line.LoginChannelID)
		if err != nil {
			return nil, err
		}
		verifier = v
	} else {
		s.logger.Warn(ctx, "LINE Login is not configured; authenticated routes will reject every request")
	}

	resolve := func(ctx context.Context, claims *lineauth.Claims) (string, error) {
		u, err := s.userService.EnsureUser(ctx, claims.Subject, claims.Name)
		if err != nil {
			return "", err
		}
		return u.ID, nil
	}
	s.auth = lineauth.NewAuthenticator(verifier, resolve, s.cache, s.logger)

	return lineauth.NewLoginHandlers(lineauth.LoginConfig{
		ChannelID:     line.LoginChannelID,
		ChannelSecret: line.LoginChannelSecret,
		RedirectURL:   line.LoginRedirectURL,
		SecureCookie:  s.config.IsProduction(),
	}, s.auth, s.logger), nil
}

func (s *Server) initServicesAndRoutes(ctx context.Context) error {
	loc := s.config.App.Location
	mc := s.config.Matching

	// Initialize User Service
	s.userService = user.NewService(user.NewRepository(s.db), s.logger, loc)

	login, err := s.initAuth(ctx)
	if err != nil {
		return fmt.Errorf("line login: %w", err)
	}

	// Notifications
	lineClient := notification.NewLineClient(s.config.Line.ChannelAccessToken, s.config.Line.MessagingBaseURL)
	if !lineClient.Enabled() {
		s.logger.Warn(ctx, "LINE messaging is not configured; notifications will be counted as failed")
	}
	notificationRepo := notification.NewRepository(s.db)
	s.dispatcher = notification.NewDispatcher(notificationRepo, lineClient, notification.DispatcherConfig{
		BatchSize:  mc.NotifyBatchSize,
		BatchPause: mc.NotifyBatchPause,
		AppBaseURL: s.config.App.BaseURL,
		Lookback:   mc.NotifyLookback,
		Location:   loc,
		AreaNames:  s.config.App.AreaNames,
	}, s.logger)
	if s.config.Line.ChannelSecret == "" {
		s.logger.Warn(ctx, "LINE_CHANNEL_SECRET is not set; the LINE webhook will reject every event")
	}
	s.notificationService = notification.NewService(notificationRepo, lineClient, s.logger)

	// Registrations
	s.registrationService = registration.NewService(registration.NewRepository(s.db), s.logger, loc)

	// Matching
	ids, err := idgen.New(1)
	if err != nil {
		return err
	}
	s.matchingService = matching.NewService(
		matching.NewRepository(s.db),
		matching.NewGreedyMatcher(),
		s.cache,
		s.cache,
		s.dispatcher,
		ids,
		s.logger,
		matching.Options{
			Config: matching.Config{
				MinGroupSize:         mc.MinGroupSize,
				MaxGroupSize:         mc.MaxGroupSize,
				PreferredMaleCount:   mc.PreferredMaleCount,
				PreferredFemaleCount: mc.PreferredFemaleCount,
				MaxAgeDifference:     mc.MaxAgeDifference,
			},
			LockTTL:  mc.LockTTL,
			Location: loc,
			Metrics:  matching.NewMetrics(prometheus.DefaultRegisterer),
		},
	)
	s.matchingService.CheckConfig(ctx)

	// Initialize Group Service
	s.groupService = group.NewService(group.NewRepository(s.db), s.cache, s.dispatcher, s.logger, loc)

	if s.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), corsMiddleware(s.config.App.CORSOrigins), requestMetrics())

	routes := NewRoutes(r, s.auth.Middleware())
	routes.setupInfraRoutes(s.healthz)
	routes.setupAuthRoutes(login)
	routes.setupUserRoutes(s.userService)
	routes.setupNotificationRoutes(s.notificationService)
	routes.setupJobRoutes(notification.NewJobHandler(s.dispatcher, s.config.App.CronSecret))
	routes.setupWebhookRoutes(notification.NewWebhookHandler(s.notificationService, s.config.Line.ChannelSecret, s.logger))
	routes.setupRegistrationRoutes(s.registrationService)
	admin := matching.NewHandler(s.matchingService, s.config.App.AdminSecret)
	routes.setupMatchingRoutes(admin)
	routes.setupGroupRoutes(admin.RequireAdmin(), s.groupService)

	s.router = r
	return nil
}

// healthz reports whether postgres and redis answer
func (s *Server) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := errors.Join(s.db.Ping(ctx), s.cache.Ping(ctx)); err != nil {
		s.logger.Warn(ctx, "health check failed", logger.Field{Key: "error", Value: err})
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests
func (s *Server) Run(ctx context.Context) error {
	s.http = &http.Server{
		Addr:              ":" + s.config.App.Port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Server listening", logger.Field{Key: "addr", Value: s.http.Addr})
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 15*time.Second)
	defer cancel()
	s.logger.Info(shutdownCtx, "Shutting down server")
	return s.http.Shutdown(shutdownCtx)
}

// Shutdown releases connections and flushes telemetry
func (s *Server) Shutdown(ctx context.Context) error {
	var errs []error
	if s.db != nil {
		errs = append(errs, s.db.Close())
	}
	if s.redis != nil {
		errs = append(errs, s.redis.Close())
	}
	if s.shutdown != nil {
		if err := s.shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("observability shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}
