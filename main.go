package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"assetmanager/src/api"
	"assetmanager/src/config"
	"assetmanager/src/database"
	"assetmanager/src/services"
	"assetmanager/src/utils"
	aws_handler "assetmanager/src/utils/aws"
	redis_utils "assetmanager/src/utils/redis"
	"assetmanager/src/worker"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.LoadConfig("./settings", os.Getenv("ENV"))
	if err != nil {
		logrus.WithError(err).Fatal("Error while loading config")
	}

	logger, err := utils.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		logrus.WithError(err).Fatal("Error while setting up logger")
	}

	decimal.MarshalJSONWithoutQuotes = true

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errC, cleanup, err := run(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Error("Couldn't run")
		return
	}
	defer cleanup()

	if err := <-errC; err != nil {
		logger.WithError(err).Error("Error while running")
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (<-chan error, func(), error) {
	if cfg.AWS.SecretID != "" {
		awsHandler, err := aws_handler.NewAWSHandler(cfg.AWS.Region)
		if err != nil {
			return nil, nil, err
		}
		if err := config.ApplySecrets(ctx, cfg, awsHandler.SecretManager); err != nil {
			return nil, nil, err
		}
	}

	db, err := database.SetupDB(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){db.Close}

	var cache utils.CacheHandlerI
	if cfg.Databases.Redis.Enabled() {
		redisHandler, err := redis_utils.NewRedisHandler(ctx, cfg)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = redisHandler.Close() })
		cache = redisHandler
	} else {
		logger.Info("Redis not configured, using in-memory rate cache")
		cache = utils.NewMemoryCache()
	}

	registry := services.NewRegistry(cfg, db, cache)

	var httpServer *http.Server
	if cfg.Service.Type == config.WORKER {
		server, err := worker.NewServer(cfg, logger, registry)
		if err != nil {
			for _, c := range closers {
				c()
			}
			return nil, nil, err
		}
		closers = append([]func(){server.Close}, closers...)
		httpServer = worker.NewHTTPServer(server, cfg.Service.Port)
	} else {
		server := api.NewServer(cfg, logger, registry)
		httpServer = api.NewHTTPServer(server, cfg.Service.Port)
	}

	errC := make(chan error, 1)

	go func() {
		<-ctx.Done()
		logger.Info("Shutdown signal received")

		ctxTimeout, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctxTimeout); err != nil {
			errC <- err
			return
		}
		close(errC)
	}()

	go func() {
		logger.WithField("service", cfg.Service.Type).WithField("port", cfg.Service.Port).Info("Starting server")

		// ListenAndServe always returns a non-nil error. After Shutdown it is ErrServerClosed.
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errC <- err
		}
	}()

	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}
	return errC, cleanup, nil
}
