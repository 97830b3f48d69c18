package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/onboarding/api/handler"
	"github.com/fastygo/onboarding/domain"
	"github.com/fastygo/onboarding/internal/config"
	"github.com/fastygo/onboarding/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/onboarding/internal/infrastructure/postgres"
	"github.com/fastygo/onboarding/internal/infrastructure/queue"
	redisInfra "github.com/fastygo/onboarding/internal/infrastructure/redis"
	"github.com/fastygo/onboarding/internal/middleware"
	"github.com/fastygo/onboarding/internal/router"
	"github.com/fastygo/onboarding/internal/services"
	"github.com/fastygo/onboarding/internal/services/lifecycle"
	"github.com/fastygo/onboarding/pkg/httpcontext"
	"github.com/fastygo/onboarding/pkg/logger"
	"github.com/fastygo/onboarding/repository/postgres"
	redisRepo "github.com/fastygo/onboarding/repository/redis"
	"github.com/fastygo/onboarding/usecase"
	"github.com/fastygo/onboarding/usecase/activation"
	authUC "github.com/fastygo/onboarding/usecase/auth"
	notifyUC "github.com/fastygo/onboarding/usecase/notify"
	profileUC "github.com/fastygo/onboarding/usecase/profile"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		Fields:   map[string]string{"service": cfg.AppName, "env": cfg.Environment},
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pgInfra.Close(pool, zapLogger)
		return nil
	})

	redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	manager.RegisterCloser("redis", redisClient)

	jobStore, err := queue.Open(cfg.Queue.Path, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to open job queue", zap.Error(err))
	}
	manager.RegisterCloser("queue", jobStore)

	mon := monitor.New(pool, redisClient, jobStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	userRepo := postgres.NewUserRepository(pool)
	tokenRepo := postgres.NewEmailTokenRepository(pool)
	inviteRepo := postgres.NewInviteRepository(pool)
	sessionRepo := redisRepo.NewSessionRepository(redisClient, cfg.Session.TTL)
	signupRepo := redisRepo.NewSignupTokenRepository(redisClient)
	siteRepo := redisRepo.NewSiteSettingsRepository(redisClient, domain.SiteSettings{
		MustApproveUsers:   cfg.Site.MustApproveUsers,
		EmailTokenValidFor: cfg.Site.EmailTokenValidFor,
	})

	dispatcher := usecase.NewDispatcher()
	notifyUseCase := notifyUC.New(userRepo, notifyUC.NewMailer(cfg.Mail, zapLogger), cfg.Mail.BaseURL, zapLogger)
	notifyUseCase.Register(dispatcher)

	jobProcessor := services.NewJobProcessor(
		jobStore,
		mon,
		dispatcher,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Queue.PollInterval,
			BatchSize:  cfg.Queue.BatchSize,
			MaxRetries: cfg.Queue.MaxRetry,
			Retention:  cfg.Queue.Retention,
		},
	)
	jobProcessor.Start()
	manager.Register("job_processor", func(ctx context.Context) error {
		jobProcessor.Stop(ctx)
		return nil
	})

	jobBridge := services.NewJobBridge(jobStore, jobProcessor, zapLogger)

	authUseCase := authUC.New(userRepo, sessionRepo, signupRepo, authUC.Config{
		Secret:    cfg.JWT.Secret,
		Issuer:    cfg.JWT.Issuer,
		TTL:       cfg.Session.TTL,
		SignupTTL: cfg.JWT.SignupTTL,
	}, zapLogger)
	activationUseCase := activation.New(inviteRepo, tokenRepo, siteRepo, jobBridge, zapLogger)
	profileUseCase := profileUC.New(userRepo, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)
	cookie := apiHandler.NewSessionCookie(cfg.Session)

	handlers := router.Handlers{
		Activation: apiHandler.NewActivationHandler(userRepo, activationUseCase, authUseCase, cookie, ctxAdapter, zapLogger),
		Auth:       apiHandler.NewAuthHandler(authUseCase, cookie, ctxAdapter, zapLogger),
		Profile:    apiHandler.NewProfileHandler(profileUseCase, ctxAdapter, zapLogger),
		Health:     apiHandler.NewHealthHandler(mon, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.SessionAuth(authUseCase, cfg.Session.CookieName, cfg.Context.RequestTimeout, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
