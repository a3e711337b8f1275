package apiapp

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/acedreamer/onam-photo-hub/internal/config"
	cldinfra "github.com/acedreamer/onam-photo-hub/internal/infra/cloudinary"
	s3infra "github.com/acedreamer/onam-photo-hub/internal/infra/s3"
	"github.com/acedreamer/onam-photo-hub/internal/jobs/cleanup"
	pgrepo "github.com/acedreamer/onam-photo-hub/internal/repo/postgres"
	redrepo "github.com/acedreamer/onam-photo-hub/internal/repo/redis"
	authsvc "github.com/acedreamer/onam-photo-hub/internal/services/auth"
	likessvc "github.com/acedreamer/onam-photo-hub/internal/services/likes"
	mediasvc "github.com/acedreamer/onam-photo-hub/internal/services/media"
	photosvc "github.com/acedreamer/onam-photo-hub/internal/services/photos"
	profilesvc "github.com/acedreamer/onam-photo-hub/internal/services/profiles"
	ratesvc "github.com/acedreamer/onam-photo-hub/internal/services/rate"
)

type App struct {
	cfg        config.Config
	logger     *zap.Logger
	server     *http.Server
	postgres   *pgxpool.Pool
	redis      *goredis.Client
	cleanupJob *cleanup.Job
	httpRouter http.Handler
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		return nil, fmt.Errorf("logger is nil")
	}

	r := chi.NewRouter()
	ApplyMiddlewares(r, log)

	var pool *pgxpool.Pool
	if p, err := pgrepo.NewPool(ctx, cfg.Postgres.DSN); err != nil {
		log.Warn("postgres init failed, continuing in degraded mode", zap.Error(err))
	} else {
		pool = p
	}

	redisClient := redrepo.NewClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	sessionRepo := redrepo.NewSessionRepo(redisClient)
	rateRepo := redrepo.NewRateRepo(redisClient)
	likesCacheRepo := redrepo.NewLikesCacheRepo(redisClient, cfg.Gallery.LikedIDsCacheTTL)

	userRepo := pgrepo.NewUserRepo(pool)
	profileRepo := pgrepo.NewProfileRepo(pool)
	photoRepo := pgrepo.NewPhotoRepo(pool)
	likeRepo := pgrepo.NewLikeRepo(pool)

	mediaStorage, err := newMediaStorage(cfg.Media, log)
	if err != nil {
		return nil, err
	}

	jwtManager := authsvc.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTAccessTTL)
	authService := authsvc.NewService(jwtManager, userRepo, profileRepo, sessionRepo, authsvc.Config{
		RefreshTTL:         cfg.Auth.RefreshTTL,
		AllowedEmailDomain: cfg.Auth.AllowedEmailDomain,
	})
	rateLimiter := ratesvc.NewLimiter(
		rateRepo,
		cfg.Gallery.LikeMaxPerMinute,
		cfg.Gallery.LikeMaxPer10Secs,
	)
	likeService := likessvc.NewService(likeRepo, photoRepo, likesCacheRepo, rateLimiter, log)
	photoService := photosvc.NewService(photoRepo, likeService, mediaStorage, cfg.Gallery.PageSize, log)
	profileService := profilesvc.NewService(profileRepo, mediaStorage)

	server := &http.Server{
		Addr:         cfg.HTTP.Addr,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	RegisterRoutes(r, Dependencies{
		AuthService:    authService,
		PhotoService:   photoService,
		LikeService:    likeService,
		ProfileService: profileService,
		Logger:         log,
		Config:         cfg,
	})

	return &App{
		cfg:        cfg,
		logger:     log,
		server:     server,
		postgres:   pool,
		redis:      redisClient,
		cleanupJob: cleanup.New(likeRepo, cfg.Gallery.CleanupInterval, log),
		httpRouter: r,
	}, nil
}

func newMediaStorage(cfg config.MediaConfig, log *zap.Logger) (mediasvc.Storage, error) {
	switch cfg.Provider {
	case "cloudinary":
		client, err := cldinfra.NewClient(cfg.Cloudinary.URL)
		if err != nil {
			log.Warn("cloudinary init failed, continuing in degraded mode", zap.Error(err))
			return mediasvc.NewCloudinaryStorage(nil, cfg.Cloudinary.Folder), nil
		}
		return mediasvc.NewCloudinaryStorage(client, cfg.Cloudinary.Folder), nil
	case "s3":
		client, err := s3infra.NewClient(s3infra.Config{
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			UseSSL:    cfg.S3.UseSSL,
		})
		if err != nil {
			log.Warn("s3 init failed, continuing in degraded mode", zap.Error(err))
			return mediasvc.NewS3Storage(nil, cfg.S3.Bucket), nil
		}
		return mediasvc.NewS3Storage(client, cfg.S3.Bucket), nil
	default:
		return nil, fmt.Errorf("unknown media provider %q", cfg.Provider)
	}
}

func (a *App) Run() error {
	a.logger.Info("api server started", zap.String("addr", a.cfg.HTTP.Addr))
	err := a.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// StartJobs launches background jobs; they stop when the context is
// cancelled.
func (a *App) StartJobs(ctx context.Context) {
	go a.cleanupJob.Start(ctx)
}

func (a *App) Shutdown(ctx context.Context) error {
	var shutdownErr error

	if err := a.server.Shutdown(ctx); err != nil {
		shutdownErr = err
	}
	if a.postgres != nil {
		a.postgres.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && shutdownErr == nil {
			shutdownErr = err
		}
	}

	return shutdownErr
}

func (a *App) Handler() http.Handler {
	return a.httpRouter
}
