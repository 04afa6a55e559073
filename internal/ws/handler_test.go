package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"sketchparty/internal/hub"
	"sketchparty/internal/session"
	"sketchparty/pkg/types"
)

func newTestServer(t *testing.T) string {
	t.Helper()
	lgr := zap.NewNop()
	sessions := session.NewRegistry(lgr)
	h := hub.NewHub(context.Background(), lgr, sessions.RemoveByRoom)
	t.Cleanup(func() { h.Inbox() <- hub.ShutdownHub{} })

	srv := httptest.NewServer(Handler(h, sessions, lgr))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "done") })
	return conn
}

func sendMsg(t *testing.T, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal %s payload: %v", msgType, err)
	}
	frame, err := json.Marshal(types.Envelope{Type: msgType, Data: data})
	if err != nil {
		t.Fatalf("marshal %s envelope: %v", msgType, err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := conn.Write(ctx, websocket.MessageText, frame); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

type serverFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// recvFrame reads until a frame of the wanted type arrives, skipping
// interleaved broadcasts.
func recvFrame(t *testing.T, conn *websocket.Conn, msgType string) serverFrame {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		ctx, cancel := context.WithDeadline(context.Background(), deadline)
		_, data, err := conn.Read(ctx)
		cancel()
		if err != nil {
			t.Fatalf("read while waiting for %q: %v", msgType, err)
		}
		var f serverFrame
		if err := json.Unmarshal(data, &f); err != nil {
			t.Fatalf("bad frame %q: %v", data, err)
		}
		if f.Type == msgType {
			return f
		}
	}
	t.Fatalf("timed out waiting for %q", msgType)
	return serverFrame{}
}

func errCode(t *testing.T, f serverFrame) string {
	t.Helper()
	var ep types.ErrorPayload
	if err := json.Unmarshal(f.Data, &ep); err != nil {
		t.Fatalf("bad error payload %q: %v", f.Data, err)
	}
	return ep.Code
}

func createGame(t *testing.T, conn *websocket.Conn, name string) string {
	t.Helper()
	sendMsg(t, conn, types.MsgCreateGame, types.CreateGamePayload{PlayerName: name})
	created := recvFrame(t, conn, types.MsgGameCreated)
	var cp struct {
		GameID string `json:"gameId"`
	}
	if err := json.Unmarshal(created.Data, &cp); err != nil || cp.GameID == "" {
		t.Fatalf("bad gameCreated payload: %s", created.Data)
	}
	return cp.GameID
}

// A join turned away by the room must leave the connection free to
// enter another game rather than answering everything with
// "already in a game".
func TestHandler_RejectedJoinLeavesConnectionUsable(t *testing.T) {
	url := newTestServer(t)

	c1 := dial(t, url)
	gameID := createGame(t, c1, "ana")

	c2 := dial(t, url)
	sendMsg(t, c2, types.MsgJoinGame, types.JoinGamePayload{GameID: gameID, PlayerName: "ben"})
	recvFrame(t, c2, types.MsgPlayerJoined)

	sendMsg(t, c1, types.MsgStartGame, types.StartGamePayload{GameID: gameID, TotalRounds: 1, RoundTime: 60})
	recvFrame(t, c1, types.MsgRoundStart)

	c3 := dial(t, url)
	sendMsg(t, c3, types.MsgJoinGame, types.JoinGamePayload{GameID: gameID, PlayerName: "cleo"})
	if code := errCode(t, recvFrame(t, c3, types.MsgError)); code != types.CodeGameAlreadyStarted {
		t.Fatalf("late join answered %q, want %q", code, types.CodeGameAlreadyStarted)
	}

	// Same connection, fresh game: must succeed.
	createGame(t, c3, "cleo")
}

func TestHandler_UnknownGameAnswersNotFoundThenRecovers(t *testing.T) {
	url := newTestServer(t)

	c := dial(t, url)
	sendMsg(t, c, types.MsgJoinGame, types.JoinGamePayload{GameID: "NOPE42", PlayerName: "ana"})
	if code := errCode(t, recvFrame(t, c, types.MsgError)); code != types.CodeGameNotFound {
		t.Fatalf("unknown game answered %q, want %q", code, types.CodeGameNotFound)
	}

	createGame(t, c, "ana")
}
