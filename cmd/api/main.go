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
	"github.com/joho/godotenv"

	v1 "github.com/arpitr18/YATRI-CHAT-TECHTONIC/cmd/api/router/v1"
	cacheAdapter "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/infrastructure/cache/adapter"
	cacheport "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/infrastructure/cache/port"
	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/infrastructure/database"
	queueAdapter "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/infrastructure/queue/adapter"
	qport "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/infrastructure/queue/port"
	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/application/task"
	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/auth"
	repoAdapter "github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/persistence/repository/adapter"
	"github.com/arpitr18/YATRI-CHAT-TECHTONIC/internal/pkg/chat/realtime"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found or could not be loaded", "err", err)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(ctx)
	if err != nil {
		log.Error("failed to connect to database", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Redis is optional: without it, credential verification hits Postgres
	// on every request.
	var cache cacheport.Cache
	if redis, err := cacheAdapter.NewRedisAdapter(); err != nil {
		log.Warn("redis unavailable, identity caching disabled", "err", err)
	} else {
		cache = redis
		defer redis.Close()
	}

	users := repoAdapter.NewPgUserStore(pool)
	directory, err := auth.NewDirectory(users, users, cache, log)
	if err != nil {
		log.Error("failed to configure auth directory", "err", err)
		os.Exit(1)
	}

	// The queue is optional too: read receipts fall back to inline writes.
	var queueClient qport.Client
	if client, err := queueAdapter.NewAsynqClientFromEnv(); err != nil {
		log.Warn("queue unavailable, background tasks disabled", "err", err)
	} else {
		queueClient = client
		defer client.Close()
	}

	registry := realtime.NewRegistry()
	presence := realtime.NewPresence(directory, log)
	fanout := realtime.NewBroadcaster(registry, log)
	rooms := repoAdapter.NewPgRoomStore(pool)
	messages := repoAdapter.NewPgMessageStore(pool)
	membership := realtime.NewMembership(registry, rooms, fanout, log)
	manager := realtime.NewManager(registry, presence, membership, fanout, rooms, messages, log)

	if queueClient != nil {
		srv, err := queueAdapter.NewAsynqServer()
		if err != nil {
			log.Warn("queue worker not started", "err", err)
		} else {
			task.RegisterMarkReadTask(srv, pool)
			go func() {
				if err := srv.Run(context.Background()); err != nil {
					log.Error("queue worker stopped", "err", err)
				}
			}()
			defer func() {
				stopCtx, stopCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer stopCancel()
				_ = srv.Stop(stopCtx)
			}()
		}
	}

	r := gin.Default()

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "timestamp": time.Now().UTC()})
	})

	v1.RegisterRoutes(r, pool, queueClient, directory, manager, log)

	addr := ":" + envOr("PORT", "8080")
	httpSrv := &http.Server{Addr: addr, Handler: r}

	go func() {
		log.Info("http server listening", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server failed", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Close live connections and flush presence before the listener stops,
	// so no user is left marked online.
	manager.Shutdown(shutdownCtx)

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown failed", "err", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
