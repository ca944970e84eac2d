package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	httpapi "checkers-server/internal/api/http"
	"checkers-server/internal/api/ws"
	"checkers-server/internal/config"
	"checkers-server/internal/room"
	"checkers-server/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("load config")
	}
	if cfg.Env == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mem := store.NewMemoryStore()
	mgr := room.NewManager(mem, cfg)
	hub := ws.NewHub(mgr)

	if cfg.NATSURL != "" {
		relay, err := ws.NewRelay(cfg.NATSURL, hub)
		if err != nil {
			logrus.WithError(err).Fatal("connect relay")
		}
		defer relay.Close()
		hub.SetRelay(relay)
	}

	janitor := room.NewJanitor(mgr, cfg.CleanupInterval)
	go janitor.Run(ctx)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpapi.NewRouter(mgr, hub, cfg),
	}
	go func() {
		logrus.WithField("addr", cfg.HTTPAddr).Info("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.WithError(err).Warn("shutdown")
	}
	logrus.Info("bye")
}
