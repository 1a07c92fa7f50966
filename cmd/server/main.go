package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"anoa.com/newsaddiction/internal/bootstrap"
	"anoa.com/newsaddiction/internal/config"
	publisherRepo "anoa.com/newsaddiction/internal/modules/publisher/repository"
	userRepo "anoa.com/newsaddiction/internal/modules/user/repository"
	userService "anoa.com/newsaddiction/internal/modules/user/service"
	"anoa.com/newsaddiction/internal/server"
	"anoa.com/newsaddiction/pkg/database"
	"anoa.com/newsaddiction/pkg/logger"
	"anoa.com/newsaddiction/pkg/ratelimiter"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := database.Connect(database.Options{
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPass,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
		Debug:    cfg.IsDevelopment(),
	})
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	redisClient, err := database.ConnectRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Warn("redis unavailable, live notifications and rate limits are disabled", zap.Error(err))
		redisClient = nil
	}

	imageStorage, err := bootstrap.NewStorage(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize cloudinary storage", zap.Error(err))
	}
	mail, err := bootstrap.NewMailer(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize mailer", zap.Error(err))
	}
	poster, err := bootstrap.NewPoster(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to initialize social poster", zap.Error(err))
	}
	search := bootstrap.NewSearch(cfg, log)

	if cfg.IsDevelopment() {
		users := userRepo.NewUserRepository(db)
		auth := userService.NewAuthService(users, nil, search, ratelimiter.New(nil), userService.AuthOptions{Secret: cfg.JWTSecret}, log)
		seeder := bootstrap.NewSeeder(auth, users, publisherRepo.NewPublisherRepository(db), log)
		if err := seeder.SeedTestEnvironment(ctx); err != nil {
			log.Fatal("failed to seed test environment", zap.Error(err))
		}
	}

	srv, err := server.NewServer(cfg, server.Dependencies{
		DB:      db,
		Redis:   redisClient,
		Search:  search,
		Storage: imageStorage,
		Mailer:  mail,
		Poster:  poster,
		Log:     log,
	})
	if err != nil {
		log.Fatal("failed to build server", zap.Error(err))
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatal("server exited with error", zap.Error(err))
	}
}
