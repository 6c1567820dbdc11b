package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"washride/api"
	"washride/config"
	"washride/pkg/files"
	"washride/pkg/logger"
	"washride/pkg/notify"
	"washride/pkg/token"
	"washride/service"
	"washride/storage/postgres"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	pgStore, err := postgres.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("Failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pgStore.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisHost + ":" + cfg.RedisPort,
		Password: cfg.RedisPassword,
	})
	defer rdb.Close()
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Error("Failed to connect to redis", logger.Error(err))
		os.Exit(1)
	}

	fileStore, err := files.NewStore(cfg.UploadDir, cfg.PublicBaseURL)
	if err != nil {
		log.Error("Failed to init upload dir", logger.Error(err))
		os.Exit(1)
	}

	notifier, err := notify.New(cfg.AdminBotToken, cfg.AdminChatID, log)
	if err != nil {
		log.Error("Failed to init admin bot", logger.Error(err))
		os.Exit(1)
	}
	if notifier == nil {
		log.Info("admin bot disabled (no token configured)")
	}

	tokens := token.NewMaker([]byte(cfg.JWTSecret), time.Duration(cfg.TokenTTLHours)*time.Hour)
	svc := service.New(pgStore, service.NewRedisCache(rdb), tokens, notifier, log)
	server := api.NewServer(svc, tokens, fileStore, log)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.AppPort),
		Handler: server.Router(),
	}

	go func() {
		log.Info("🚀 washride API listening", logger.Int("port", cfg.AppPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", logger.Error(err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	<-quit

	log.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", logger.Error(err))
	}
	log.Info("Server exited")
}
