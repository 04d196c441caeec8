package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/karvembu/tellerops/internal/auth"
	"github.com/karvembu/tellerops/internal/config"
	"github.com/karvembu/tellerops/internal/session"
	"github.com/karvembu/tellerops/internal/store"
	"github.com/karvembu/tellerops/internal/web"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "error", err)
		os.Exit(1)
	}

	pool, err := store.NewPool(context.Background(), cfg.DBSource)
	if err != nil {
		log.Error("unable to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Initialize Layers
	users := store.NewUserStore(pool)
	clients := store.NewClientStore(pool)
	authSvc := auth.NewService(users, auth.NewBcryptHasher())
	sessions := session.NewManager(users, []byte(cfg.SessionSecret), cfg.SessionTTL)
	handler := web.NewHandler(log, authSvc, clients, sessions)

	log.Info("server starting", "port", cfg.Port, "env", cfg.Env)
	if err := http.ListenAndServe(":"+cfg.Port, handler.Routes()); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
