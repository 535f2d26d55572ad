package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"attendance_api/config"
	"attendance_api/db"
	"attendance_api/logger"
	"attendance_api/routes"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func main() {
	cfg, dotEnv, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	logg, err := logger.New(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error building logger: %v", err)
	}
	defer func() { _ = logg.Sync() }()

	if !dotEnv {
		logg.Warn(".env file not found") // Non-fatal in production
	}

	// Connect to the store
	connectCtx, cancelConnect := context.WithTimeout(context.Background(), cfg.StoreTimeout)
	store, err := db.Open(connectCtx, cfg, logg)
	cancelConnect()
	if err != nil {
		logg.Fatal("Error connecting to the store", zap.String("driver", cfg.StoreDriver), zap.Error(err))
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := routes.NewRouter(store, logg, cfg.StoreTimeout, cfg.CORSOrigins)

	// Run server
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		logg.Info("listening", zap.String("addr", srv.Addr), zap.String("store", store.Name()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("listen", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logg.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logg.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := store.Close(ctx); err != nil {
		logg.Error("Error closing the store", zap.Error(err))
	}
}
