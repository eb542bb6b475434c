package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hermes/hermes/app"
	"hermes/hermes/config"
	"hermes/hermes/routes"
	"hermes/hermes/utils/logging"

	"go.uber.org/zap"
)

const requestTimeout = 60 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := logging.InitLogger(cfg.LogDir); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logging.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	a, err := app.Open(ctx, cfg)
	if err != nil {
		logging.ErrorLogger.Error("startup error", zap.Error(err))
		logging.AppLogger.Fatal("could not open interaction store", zap.Error(err))
	}
	defer a.Close()
	if err := a.StartAgent(); err != nil {
		a.Close()
		logging.AppLogger.Fatal("agent not started", zap.Error(err))
	}

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: routes.NewRouter(a.Controllers(), a.SessionSecret(), requestTimeout),
	}
	go func() {
		logging.AppLogger.Info("hermes listening",
			zap.String("addr", cfg.HTTPAddr),
			zap.Int("shipments", a.Dataset.Len()),
			zap.String("provider", string(cfg.LLMProvider)),
			zap.String("model", cfg.LLMModel))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorLogger.Error("server listen error", zap.Error(err))
			logging.AppLogger.Error("server listen error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.AppLogger.Error("server shutdown error", zap.Error(err))
		return
	}
	logging.AppLogger.Info("server shutdown complete")
}
