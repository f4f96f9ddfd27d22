// Package server owns process boot: it brings up every subsystem in
// dependency order and serves HTTP and gRPC until the process is signalled.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/daliaibrahim58/greenmart/app/feed"
	"github.com/daliaibrahim58/greenmart/app/jobs"
	"github.com/daliaibrahim58/greenmart/app/models"
	"github.com/daliaibrahim58/greenmart/config"
	"github.com/daliaibrahim58/greenmart/internal/kernel"
	"github.com/daliaibrahim58/greenmart/pkg/cache"
	"github.com/daliaibrahim58/greenmart/pkg/database"
	grpcserver "github.com/daliaibrahim58/greenmart/pkg/grpc"
	"github.com/daliaibrahim58/greenmart/pkg/logger"
	"github.com/daliaibrahim58/greenmart/pkg/queue"
	"github.com/daliaibrahim58/greenmart/pkg/schedule"
	"github.com/daliaibrahim58/greenmart/pkg/storage"
)

const shutdownGrace = 15 * time.Second

// Start boots the application and blocks until SIGINT or SIGTERM.
func Start() error {
	if err := config.Load(); err != nil {
		return err
	}

	if uri := config.LogMongoURI(); uri != "" {
		mh, err := logger.AttachMongo(uri, config.LogMongoDB(), config.LogMongoCollection())
		if err != nil {
			logger.Warn("server: mongo log sink unavailable", "error", err)
		} else {
			defer mh.Close()
		}
	}

	if err := database.Connect(); err != nil {
		return err
	}
	if err := database.DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
	); err != nil {
		return err
	}

	// Redis backs carts, sessions, the catalog cache and the queue. The
	// server still comes up without it, degraded to per-process fallbacks.
	if err := cache.Connect(); err != nil {
		logger.Warn("server: redis unavailable, running degraded", "error", err)
	} else {
		queue.SetDriver(queue.NewRedisDriver(cache.RDB))
	}

	queue.UseDB(database.DB)
	storage.Connect()
	jobs.Register()
	feed.Start()

	// Building the kernel registers the service singletons the schedules
	// resolve, so it must come first.
	httpKernel := kernel.NewHTTPKernel()
	RegisterSchedules()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	queue.StartWorkers(ctx, 5)
	schedule.Start(ctx)

	grpcSrv, _, err := grpcserver.Start(config.GRPCPort())
	if err != nil {
		logger.Warn("server: grpc disabled", "error", err)
	} else {
		defer grpcserver.Stop(grpcSrv)
	}

	httpSrv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           httpKernel.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("server: shutdown", "error", err)
		}
	}()

	logger.Info("greenmart listening", "port", config.AppPort(), "env", config.AppEnv())
	if err := httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
