// Command seed creates the schema and the test users, publishers and editor assignments.
package main

import (
	"context"

	"anoa.com/newsaddiction/internal/bootstrap"
	"anoa.com/newsaddiction/internal/config"
	publisherRepo "anoa.com/newsaddiction/internal/modules/publisher/repository"
	userRepo "anoa.com/newsaddiction/internal/modules/user/repository"
	userService "anoa.com/newsaddiction/internal/modules/user/service"
	"anoa.com/newsaddiction/pkg/database"
	"anoa.com/newsaddiction/pkg/logger"
	"anoa.com/newsaddiction/pkg/ratelimiter"
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

	db := database.Connect(database.Options{
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPass,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
	})
	if err := bootstrap.Migrate(db); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	imageStorage, err := bootstrap.NewStorage(cfg, log)
	if err != nil {
		log.Fatal("failed to initialize cloudinary storage", zap.Error(err))
	}

	users := userRepo.NewUserRepository(db)
	auth := userService.NewAuthService(users, imageStorage, bootstrap.NewSearch(cfg, log), ratelimiter.New(nil), userService.AuthOptions{Secret: cfg.JWTSecret}, log)
	seeder := bootstrap.NewSeeder(auth, users, publisherRepo.NewPublisherRepository(db), log)

	if err := seeder.SeedTestEnvironment(context.Background()); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}
	log.Info("test environment ready")
}
