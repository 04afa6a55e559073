package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"sketchparty/internal/hub"
	"sketchparty/internal/room"
)

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// GetGame lets a share-link recipient check a room before opening the
// socket.
func GetGame(h *hub.Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")

		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.GetRoom{Code: code, Reply: reply}
		rm := <-reply
		if rm == nil {
			http.Error(w, "game not found", http.StatusNotFound)
			return
		}

		viewReply := make(chan room.View, 1)
		rm.Inbox() <- room.GetView{Reply: viewReply}
		var v room.View
		select {
		case v = <-viewReply:
		case <-time.After(2 * time.Second):
			http.Error(w, "game unavailable", http.StatusServiceUnavailable)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Code    string `json:"code"`
			Players int    `json:"players"`
			Started bool   `json:"started"`
			Private bool   `json:"private"`
		}{Code: code, Players: v.NumPlayers, Started: v.Snapshot.Started, Private: rm.Private})
	}
}
