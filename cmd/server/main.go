package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/amiseo/cockpit/internal/auth"
	"github.com/amiseo/cockpit/internal/config"
	"github.com/amiseo/cockpit/internal/httpx"
	"github.com/amiseo/cockpit/internal/metrics"
	"github.com/amiseo/cockpit/internal/store"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		slog.Error("config error", slog.String("err", err.Error()))
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	clients, err := store.OpenClients(cfg.ClientsPath())
	if err != nil {
		logger.Error("open clients store", slog.String("err", err.Error()))
		os.Exit(1)
	}
	users, err := store.OpenUsers(cfg.UsersPath())
	if err != nil {
		logger.Error("open users store", slog.String("err", err.Error()))
		os.Exit(1)
	}

	if cfg.WatchFiles {
		watcher, err := store.NewWatcher(logger)
		if err != nil {
			logger.Error("start file watcher", slog.String("err", err.Error()))
			os.Exit(1)
		}
		if err := watcher.Register(clients.Path(), clients); err != nil {
			logger.Warn("watch clients file", slog.String("err", err.Error()))
		}
		if err := watcher.Register(users.Path(), users); err != nil {
			logger.Warn("watch users file", slog.String("err", err.Error()))
		}
		go watcher.Run(context.Background())
	}

	verifier := auth.NewVerifier(users)
	sessions := auth.NewSessions(cfg.SessionSecret)
	m := metrics.New()
	h := httpx.NewHandlers(logger, clients, verifier, sessions, m)
	r := httpx.NewRouter(logger, h, m)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: cfg.ReadTimeout,
	}

	logger.Info("starting server", slog.String("port", cfg.Port), slog.String("data_dir", cfg.DataDir))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", slog.String("err", err.Error()))
		os.Exit(1)
	}
}
