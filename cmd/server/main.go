package main

import (
	"context"
	"log"
	"net/http"

	"go.uber.org/zap"

	"sketchparty/internal/config"
	"sketchparty/internal/httpapi"
	"sketchparty/internal/hub"
	"sketchparty/internal/logger"
	"sketchparty/internal/session"
)

func main() {
	cfg := config.Load()

	lgr, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer lgr.Sync()

	ctx := context.Background()
	sessions := session.NewRegistry(lgr)
	h := hub.NewHub(ctx, lgr, sessions.RemoveByRoom)

	handler := httpapi.SetupRoutes(h, sessions, lgr)

	lgr.Info("listening", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, handler); err != nil {
		lgr.Fatal("server stopped", zap.Error(err))
	}
}
