package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"laundry-reservation/config"
	"laundry-reservation/internal/api"
	"laundry-reservation/internal/apiclient"
	"laundry-reservation/internal/db"
	"laundry-reservation/internal/metrics"
	"laundry-reservation/internal/reservation"
	"laundry-reservation/internal/store"
	"laundry-reservation/internal/syncer"
)

func main() {
	logger := log.New(os.Stdout, "laundryd ", log.LstdFlags)

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if errors.Is(err, os.ErrNotExist) {
		logger.Printf("no configuration at %s, using defaults", configPath)
		cfg = config.Default()
	} else if err != nil {
		logger.Fatalf("failed to load configuration from %s: %v", configPath, err)
	} else {
		logger.Printf("configuration loaded successfully from %s", configPath)
	}

	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		logger.Fatalf("failed to initialize database: %v", err)
	}
	logger.Println("database initialized successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := apiclient.New(cfg.API)
	appStore := reservation.NewStore(client, store.NewGormStore(gormDB))
	if err := appStore.Hydrate(ctx); err != nil {
		logger.Printf("could not restore session, starting signed out: %v", err)
	}
	logger.Printf("reservation store ready, backend %s", client.BaseURL())

	m := metrics.New()

	syncSvc := syncer.NewService(cfg.Sync, appStore, m)
	go syncSvc.Run(ctx)

	router := api.NewRouter(appStore, cfg.Gateway, m)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Gateway.Port),
		Handler: router,
	}

	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Gateway.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("HTTP server ListenAndServe: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	<-stop
	logger.Println("Shutdown signal received, stopping services...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("HTTP server Shutdown: %v", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Println("Server gracefully stopped")
}
