package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/geocoder89/techhive/internal/cache"
	"github.com/geocoder89/techhive/internal/config"
	"github.com/geocoder89/techhive/internal/db"
	httpx "github.com/geocoder89/techhive/internal/http"
	"github.com/geocoder89/techhive/internal/http/handlers"
	"github.com/geocoder89/techhive/internal/observability"
	"github.com/geocoder89/techhive/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	// start up the observability logger
	log := observability.NewLogger(cfg.Env, cfg.LogLevel)

	startCtx, cancelStart := config.WithTimeout(15 * time.Second)
	defer cancelStart()

	shutdownTracer, err := observability.InitTracer(startCtx, cfg.OtelEnabled, cfg.ServiceName, cfg.OtelEndpoint)
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	store, closeStore, err := openStore(startCtx, cfg, log, prom)
	if err != nil {
		log.Error("store init failed", "driver", cfg.StoreDriver, "err", err)
		os.Exit(1)
	}
	defer closeStore()

	cacheStore, closeCache, err := openCache(startCtx, cfg, log)
	if err != nil {
		log.Error("cache init failed", "driver", cfg.CacheDriver, "err", err)
		os.Exit(1)
	}
	defer closeCache()

	checks := map[string]handlers.Pinger{"store": store.Ping}

	var repo cache.UsersBackend = store
	if cacheStore != nil {
		repo = cache.NewUsersRepo(store, cacheStore, log, prom)
		checks["cache"] = cacheStore.Ping
	}

	seed := func(ctx context.Context) (int, error) {
		return db.SeedUsers(ctx, repo, log)
	}

	if cfg.SeedOnStartup {
		if _, err := seed(startCtx); err != nil {
			log.Error("startup seed failed", "err", err)
			os.Exit(1)
		}
	}

	var draining atomic.Bool

	// set up routers with the log
	router := httpx.NewRouter(log, cfg, httpx.Deps{
		Users:    service.NewUsersService(repo, log),
		Seed:     seed,
		Checks:   checks,
		Prom:     prom,
		Draining: draining.Load,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver, "cache", cfg.CacheDriver)
		err := srv.ListenAndServe()

		if err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	draining.Store(true)
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}
