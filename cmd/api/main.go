package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"preschool/internal/admission"
	"preschool/internal/attendance"
	"preschool/internal/auth"
	"preschool/internal/cloudinary"
	"preschool/internal/config"
	"preschool/internal/handler"
	"preschool/internal/httpmiddleware"
	"preschool/internal/logging"
	"preschool/internal/media"
	"preschool/internal/metrics"
	"preschool/internal/notify"
	"preschool/internal/queue"
	"preschool/internal/store"
	"preschool/internal/users"
)

var version = "dev"

func main() {
	cfg := config.Load()
	log := logging.New(cfg.Env, cfg.LogLevel)

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := runHTTP(cfg, log); err != nil {
		log.Error("http server failed", logging.Err(err))
		os.Exit(1)
	}
}

func runHTTP(cfg config.App, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reporter := logging.NewReporter(log, cfg.RollbarToken, cfg.Env, version)
	defer reporter.Close()

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New(prometheus.DefaultRegisterer)
	}

	checks := map[string]handler.HealthCheck{}

	var (
		appRepo   admission.Repository
		attRepo   attendance.Repository
		userRepo  users.Repository
		mediaRepo media.Repository
	)
	if cfg.StoreBackend == "memory" {
		log.Warn("using in-memory store, data is lost on restart")
		appRepo = admission.NewMemoryRepository()
		attRepo = attendance.NewMemoryRepository()
		userRepo = users.NewMemoryRepository()
		mediaRepo = media.NewMemoryRepository()
	} else {
		db, err := store.NewDB(ctx, cfg.DatabaseURL)
		if db == nil {
			return err
		}
		if err != nil {
			log.Warn("db not reachable", logging.Err(err))
		}
		defer db.Close()
		checks["db"] = db.Healthy
		appRepo = admission.NewPostgresRepository(db.Client)
		attRepo = attendance.NewPostgresRepository(db.Client)
		userRepo = users.NewPostgresRepository(db.Client)
		mediaRepo = media.NewPostgresRepository(db.Client)
	}

	var redisClient *store.Redis
	if cfg.QueueBackend != "memory" || cfg.SessionBackend != "memory" {
		redisClient = store.NewRedis(cfg.RedisAddr)
		defer redisClient.Close()
		checks["redis"] = redisClient.Healthy
	}

	var sessionStore auth.SessionStore
	var limiter httpmiddleware.Limiter
	if cfg.SessionBackend == "memory" {
		sessionStore = auth.NewMemorySessionStore()
		limiter = httpmiddleware.NewTokenBucket(cfg.RateLimitPerMin, cfg.RateLimitPerMin)
	} else {
		sessionStore = auth.NewRedisSessionStore(redisClient.Client, "")
		limiter = httpmiddleware.NewRedisWindow(redisClient.Client, "", cfg.RateLimitPerMin)
	}
	sessions := auth.NewManager(sessionStore, cfg.JWTSigningKey, cfg.JWTIssuer, cfg.SessionTTL)

	var q interface {
		queue.Queue
		queue.Sizer
	}
	if cfg.QueueBackend == "memory" {
		mq := queue.NewInMemory(64)
		q = mq
		// no separate worker process can reach an in-process queue
		go func() {
			w := notify.NewWorker(mq, notify.NewLogMailer(log), cfg.MailFrom, log)
			if err := w.Run(ctx); err != nil {
				log.Error("notification worker stopped", logging.Err(err))
			}
		}()
	} else {
		q = queue.NewRedisQueue(redisClient.Client, "")
	}
	if m != nil {
		go queue.WatchDepth(ctx, q, 15*time.Second, m.QueueDepth)
	}

	// Cloudinary client (nil when not configured)
	var uploader media.Uploader
	if cfg.CloudinaryConfigured() {
		uploader = cloudinary.New(cfg.CloudinaryCloudName, cfg.CloudinaryAPIKey, cfg.CloudinaryAPISecret, cfg.CloudinaryFolder)
		log.Info("cloudinary configured", slog.String("cloud", cfg.CloudinaryCloudName))
	} else {
		log.Warn("cloudinary not configured, media uploads disabled")
	}

	userSvc := users.NewService(userRepo, sessions, log)
	mediaSvc := media.NewService(mediaRepo, uploader, log)
	if cfg.StoreBackend == "memory" {
		seedMemory(ctx, cfg, userSvc, mediaSvc, log)
	}

	h := handler.New(handler.Deps{
		Applications: admission.NewService(appRepo, notify.NewQueuePublisher(q, log), m, log),
		Attendance:   attendance.NewService(attRepo, m, log),
		Users:        userSvc,
		Media:        mediaSvc,
		Sessions:     sessions,
		Limiter:      limiter,
		Checks:       checks,
		Reporter:     reporter,
	}, log)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(m.GinMiddleware())

	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}
	h.Register(r)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", slog.String("addr", srv.Addr), slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down server")

	// Give outstanding requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced shutdown", logging.Err(err))
	}
	log.Info("server exited")
	return nil
}

// seedMemory gives a fresh in-memory store its bootstrap admin and banners.
func seedMemory(ctx context.Context, cfg config.App, usr *users.Service, med *media.Service, log *slog.Logger) {
	if cfg.SeedAdminPassword != "" {
		if _, err := usr.EnsureAdmin(ctx, cfg.SeedAdminEmail, cfg.SeedAdminName, cfg.SeedAdminPassword); err != nil {
			log.Error("seed admin failed", logging.Err(err))
		}
	}
	if _, err := med.SeedBanners(ctx); err != nil {
		log.Error("seed banners failed", logging.Err(err))
	}
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}
