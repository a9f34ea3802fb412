// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/minemaniauk/gamerooms/internal/arena"
	"github.com/minemaniauk/gamerooms/internal/auth"
	"github.com/minemaniauk/gamerooms/internal/config"
	"github.com/minemaniauk/gamerooms/internal/database"
	"github.com/minemaniauk/gamerooms/internal/handlers"
	"github.com/minemaniauk/gamerooms/internal/matchmaking"
	"github.com/minemaniauk/gamerooms/internal/proxy"
	"github.com/minemaniauk/gamerooms/internal/rooms"
	"github.com/minemaniauk/gamerooms/internal/scheduler"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logrus.New()
	logger.SetLevel(logrus.DebugLevel)

	ctx := context.Background()

	pool, err := database.Connect(ctx, cfg.Postgres.ConnString())
	if err != nil {
		logger.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		cancel()
		logger.Fatalf("redis at %s: %v", cfg.Redis.Addr, err)
	}
	cancel()

	roomStore := database.NewPostgresRoomStore(pool)
	inviteStore := database.NewPostgresInviteStore(pool)
	arenaDir := arena.NewRedisDirectory(rdb)
	proxyAdapter := proxy.NewRedisProxy(rdb)

	roomSvc := rooms.NewRoomService(roomStore, inviteStore, logger, rooms.Config{
		AllowJoinInProgress: cfg.AllowJoinInProgress,
	})
	inviteSvc := rooms.NewInviteService(roomStore, inviteStore, roomSvc, logger)

	relocator := matchmaking.NewRelocator(proxyAdapter, proxyAdapter, logger)
	coordinator := matchmaking.NewCoordinator(roomSvc, roomStore, arenaDir, proxyAdapter, relocator, logger)
	coordinator.MaxRelocateAttempts = cfg.RelocateAttempts

	refresher := scheduler.NewRefresher(logger)
	defer refresher.StopAll()

	sessions, err := auth.NewEphemeralSessions()
	if err != nil {
		logger.Fatalf("auth: %v", err)
	}

	srv := handlers.NewServer(roomSvc, inviteSvc, coordinator, refresher, sessions, proxyAdapter, logger)
	srv.RefreshInterval = time.Duration(cfg.RefreshIntervalSec) * time.Second
	srv.APITokenHash = cfg.APITokenHash

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: srv.Routes(),
	}

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Infof("Running on %s", cfg.ListenAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("server exited: %v", err)
	}
}
