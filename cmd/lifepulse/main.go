package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"lifepulse/internal/config"
	httpapi "lifepulse/internal/http"
	"lifepulse/internal/repository"
	"lifepulse/internal/service"
	"lifepulse/internal/store"
)

func main() {
	cfg := config.Load()

	logger := buildLogger(cfg)
	defer logger.Sync()

	// 存储：默认内存实现；DB_ENABLED 时切换 Postgres
	var storage repository.Storage
	var db *sql.DB
	if cfg.DBEnabled {
		d, err := repository.OpenPostgres(&cfg.Database)
		if err != nil {
			logger.Fatal("Cannot connect to database", zap.Error(err))
		}
		if err := repository.EnsureSchema(context.Background(), d); err != nil {
			logger.Fatal("Schema bootstrap failed", zap.Error(err))
		}
		db = d
		storage = repository.NewPostgresStorage(db)
		logger.Info("DB enabled for lifepulse")
	} else {
		storage = repository.NewMemoryStorage()
	}

	// 会话 KV：默认进程内；redis 后端用于多实例部署
	var kv store.KV
	var redisClient *redis.Client
	if cfg.Session.Backend == "redis" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		kv = store.NewRedisKV(redisClient)
	} else {
		kv = store.NewMemoryKV()
	}

	if cfg.Seed {
		if err := service.Seed(context.Background(), storage, logger); err != nil {
			logger.Warn("Demo seed failed", zap.Error(err))
		}
	}

	verifier := service.NewGoogleClient(cfg.Google.ClientID, logger)
	auth := service.NewAuthService(storage, verifier, logger)
	companion := service.NewCompanion()
	sessions := httpapi.NewSessionStore(kv, cfg.Session.CookieName, cfg.Session.TTLDays, cfg.Session.Secure, logger)

	router := httpapi.NewRouter(logger)
	router.RegisterAuthRoutes(httpapi.NewAuthHandler(auth, sessions, logger))
	router.RegisterUserRoutes(httpapi.NewUserHandler(storage, sessions, logger))
	router.RegisterReminderRoutes(httpapi.NewReminderHandler(storage, sessions, logger))
	router.RegisterChatRoutes(httpapi.NewChatHandler(storage, sessions, companion, logger))
	router.RegisterAppointmentRoutes(httpapi.NewAppointmentHandler(storage, sessions, logger))
	router.RegisterRemedyRoutes(httpapi.NewRemedyHandler(storage, logger))
	router.RegisterTrackingRoutes(httpapi.NewTrackingHandler(storage, sessions, logger))
	router.RegisterScanRoutes(httpapi.NewScanHandler(storage, sessions, companion, logger))
	router.RegisterRewardRoutes(httpapi.NewRewardHandler(storage, sessions, logger))
	router.RegisterMiscRoutes(httpapi.NewMiscHandler(storage, sessions, companion, logger))
	router.RegisterDoctorRoutes(httpapi.NewDoctorHandler(db, redisClient, logger))

	srv := service.NewServer(cfg.HTTP.Addr, router, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		cancel()
	case <-errCh:
		cancel()
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutdownCancel()
	_ = srv.Stop(shutdownCtx)
	if redisClient != nil {
		_ = redisClient.Close()
	}
	if db != nil {
		_ = db.Close()
	}
}

// buildLogger 按配置构建 zap（json 用于生产，console 便于本地联调）
func buildLogger(cfg *config.Config) *zap.Logger {
	level := zapcore.InfoLevel
	if err := level.Set(cfg.Log.Level); err != nil {
		level = zapcore.InfoLevel
	}

	zc := zap.NewProductionConfig()
	if cfg.Log.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		logger, _ = zap.NewProduction()
	}
	return logger
}
