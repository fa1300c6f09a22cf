package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"propt-api-io/api/internal/config"
	"propt-api-io/api/internal/container"
	"propt-api-io/api/internal/routers"
	"propt-api-io/api/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		util.GetLogger().Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		util.GetLogger().Fatalf("config: %v", err)
	}

	logger := util.ConfigureLogger(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	client, err := util.ConnectDB(sigCtx, cfg.MongoURI)
	if err != nil {
		logger.Fatalf("mongo: %v", err)
	}
	rdb, err := util.ConnectRedis(sigCtx, cfg.RedisURL)
	if err != nil {
		logger.Fatalf("redis: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.Disconnect(ctx); err != nil {
			logger.WithField("field", "mongo").Error(err)
		}
		if err := rdb.Close(); err != nil {
			logger.WithField("field", "redis").Error(err)
		}
	}()

	sc, err := container.NewServiceContainer(cfg, client, rdb)
	if err != nil {
		logger.Fatalf("container: %v", err)
	}
	defer sc.Close()

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           routers.InitRoute(sc),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrCh := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{"addr": srv.Addr, "env": cfg.Env}).Info("propt api listening")
		serverErrCh <- srv.ListenAndServe()
	}()

	select {
	case <-sigCtx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.WithField("field", "server").Error(err)
		}
	case err := <-serverErrCh:
		if err != nil && err != http.ErrServerClosed {
			logger.WithField("field", "server").Error(err)
		}
	}
}
