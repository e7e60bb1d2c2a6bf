package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/Abhijit47/blog-api/internal/auth"
	"github.com/Abhijit47/blog-api/internal/cacheinfra"
	"github.com/Abhijit47/blog-api/internal/config"
	"github.com/Abhijit47/blog-api/internal/eventbroker"
	"github.com/Abhijit47/blog-api/internal/httpapi"
	"github.com/Abhijit47/blog-api/internal/logger"
	"github.com/Abhijit47/blog-api/internal/posts"
	"github.com/Abhijit47/blog-api/internal/repository"
	"github.com/Abhijit47/blog-api/internal/store"
	"github.com/Abhijit47/blog-api/pkg/di"
)

func main() {
	cfg := config.Init()
	logg := logger.New()

	if cfg.JWTSecret == "" {
		logg.Error("main", "JWT_SECRET is required", nil)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database + schema
	if err := store.Migrate(cfg.DBDriver, cfg.DBDSN); err != nil {
		logg.Error("main", "failed to run migrations", err)
		os.Exit(1)
	}
	db, err := store.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logg.Error("main", "failed to open database", err)
		os.Exit(1)
	}
	defer db.Close()
	logg.Info("main", "connected to "+cfg.DBDriver)

	// Events are optional; without a broker, mutations still invalidate the
	// local cache, there is just nothing to fan out to.
	var publisher posts.Publisher = posts.NoopPublisher{}
	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL)
		if err != nil {
			logg.Error("main", "failed to connect to NATS", err)
			os.Exit(1)
		}
		defer nc.Close()
		publisher = eventbroker.NewNatsPublisher(nc)
		logg.Info("main", "connected to NATS")
	}

	// Cache + repository
	cacheCfg := cacheinfra.DefaultConfig()
	cacheCfg.Capacity = cfg.CacheCapacity
	cacheCfg.TTL = cfg.CacheTTL
	container, err := di.NewContainer(cacheCfg)
	if err != nil {
		logg.Error("main", "failed to build cache container", err)
		os.Exit(1)
	}
	repo := container.CachedPosts(repository.NewBunPostRepository(db))

	svc := posts.NewService(repo, publisher, logg)
	api := httpapi.New(svc, auth.NewGate(cfg.JWTSecret), logg, httpapi.Pagination{
		DefaultPage:     1,
		DefaultPageSize: cfg.PageSizeDefault,
		MinPageSize:     cfg.PageSizeMin,
		MaxPageSize:     cfg.PageSizeMax,
	})

	srv := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      api.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logg.Info("main", "listening on "+cfg.ServerAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Error("main", "server stopped unexpectedly", err)
			stop()
		}
	}()

	<-ctx.Done()
	logg.Info("main", "shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("main", "error during shutdown", err)
		return
	}
	logg.Info("main", "server stopped gracefully")
}
