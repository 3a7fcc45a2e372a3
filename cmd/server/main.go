package main

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"anoa.com/peerreview/internal/config"
	"anoa.com/peerreview/internal/migration"
	"anoa.com/peerreview/internal/server"
	"anoa.com/peerreview/pkg/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.Connect(database.Options{
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer func() {
		if err := database.Shutdown(db); err != nil {
			log.Printf("database shutdown: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	migrator := migration.New(db, migration.Scripts(), cfg.MigrationBaselineVersion)
	if err := migrator.Migrate(ctx); err != nil {
		cancel()
		log.Fatalf("schema migration failed: %v", err)
	}
	cancel()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("invalid REDIS_URL: %v", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	srv, err := server.NewServer(cfg, db, redisClient)
	if err != nil {
		log.Fatalf("failed to build server: %v", err)
	}

	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
