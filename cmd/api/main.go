package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/producthelper/backend/config"
	"github.com/producthelper/backend/internal/database"
	"github.com/producthelper/backend/internal/logger"
	"github.com/producthelper/backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	waitCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := database.WaitForDB(waitCtx, cfg); err != nil {
		log.Fatal("database not reachable", "err", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatal("failed to connect to database", "err", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatal("failed to run migrations", "err", err)
	}

	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Warn("redis unavailable, rate limiting disabled", "err", err)
		redisClient = nil
	}

	s3cfg, err := config.NewS3Config(context.Background())
	if err != nil {
		log.Warn("s3 unavailable, image upload disabled", "err", err)
		s3cfg = nil
	}

	srv := server.New(cfg, db, redisClient, s3cfg, log)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatal("server error", "err", err)
		}
	case sig := <-quit:
		log.Info("received signal", "signal", sig.String())
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("server shutdown error", "err", err)
	}
	log.Info("server stopped")
}
