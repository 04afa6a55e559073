package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"sketchparty/internal/hub"
	"sketchparty/internal/session"
	"sketchparty/internal/ws"
)

func SetupRoutes(h *hub.Hub, sessions *session.Registry, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/games/{code}", GetGame(h))
	r.Get("/ws", ws.Handler(h, sessions, log))
	return r
}
