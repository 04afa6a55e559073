// Package ws translates between websocket frames and room messages.
// Each connection gets a reader (this handler) and one writer
// goroutine; neither touches game state directly.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"sketchparty/internal/engine"
	"sketchparty/internal/hub"
	"sketchparty/internal/room"
	"sketchparty/internal/session"
	"sketchparty/pkg/types"
)

const writeTimeout = 3 * time.Second

func Handler(h *hub.Hub, sessions *session.Registry, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// In dev ONLY, you can loosen origin checks:
			// OriginPatterns: []string{"http://localhost:*", "http://127.0.0.1:*"},
		})
		if err != nil {
			return
		}
		defer conn.Close(websocket.StatusNormalClosure, "bye")

		c := &client{
			conn:     conn,
			connID:   uuid.NewString(),
			out:      make(chan types.ServerMessage, 16),
			hub:      h,
			sessions: sessions,
			log:      log,
		}

		writeCtx, writeCancel := context.WithCancel(r.Context())
		defer writeCancel()
		go c.writer(writeCtx)

		defer c.teardown()
		c.readLoop(r.Context())
	}
}

// client is the per-connection state. Only the reader goroutine touches
// sess and rm after binding.
type client struct {
	conn     *websocket.Conn
	connID   string
	out      chan types.ServerMessage
	hub      *hub.Hub
	sessions *session.Registry
	log      *zap.Logger

	sess *session.Session
	rm   *room.Room
}

func (c *client) writer(ctx context.Context) {
	for {
		select {
		case msg, ok := <-c.out:
			if !ok {
				// The room dropped us (replaced or too slow).
				c.conn.Close(websocket.StatusPolicyViolation, "connection superseded")
				return
			}
			payload, err := json.Marshal(msg)
			if err != nil {
				c.log.Error("marshal outbound message", zap.String("type", msg.Type), zap.Error(err))
				continue
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err = c.conn.Write(wctx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

func (c *client) readLoop(ctx context.Context) {
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			return
		}

		var env types.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.replyError(types.CodeBadRequest, "malformed message")
			continue
		}
		c.dispatch(env)
	}
}

// teardown runs when the reader exits. The seat is kept; the session
// grace timer decides whether the player actually leaves.
func (c *client) teardown() {
	if c.sess == nil {
		return
	}
	if c.rm != nil {
		c.rm.Inbox() <- room.Disconnected{PlayerID: c.sess.ID, Outbox: c.out}
	}
	h := c.hub
	c.sessions.MarkDisconnected(c.sess, c.connID, func(roomID, playerID string) {
		reply := make(chan *room.Room, 1)
		h.Inbox() <- hub.GetRoom{Code: roomID, Reply: reply}
		if rm := <-reply; rm != nil {
			rm.Inbox() <- room.Leave{PlayerID: playerID}
		}
	})
}

func (c *client) dispatch(env types.Envelope) {
	switch env.Type {
	case types.MsgCreateGame:
		c.handleCreate(env.Data)
	case types.MsgJoinGame:
		c.handleJoin(env.Data)
	case types.MsgRejoinGame:
		c.handleRejoin(env.Data)
	case types.MsgStartGame:
		var p types.StartGamePayload
		if !c.decode(env.Data, &p) {
			return
		}
		c.forward(engine.Command{
			Type: engine.CmdStart,
			Settings: engine.Settings{
				TotalRounds:  p.TotalRounds,
				RoundSeconds: p.RoundTime,
				CustomWords:  p.CustomWords,
			},
		})
	case types.MsgUpdateSettings:
		var p types.UpdateSettingsPayload
		if !c.decode(env.Data, &p) {
			return
		}
		c.forward(engine.Command{
			Type: engine.CmdUpdateSettings,
			Settings: engine.Settings{
				TotalRounds:  p.TotalRounds,
				RoundSeconds: p.RoundTime,
				CustomWords:  p.CustomWords,
			},
		})
	case types.MsgDraw:
		var p types.DrawPayload
		if !c.decode(env.Data, &p) {
			return
		}
		c.forward(engine.Command{Type: engine.CmdStroke, Stroke: p.Data})
	case types.MsgClearCanvas:
		c.forward(engine.Command{Type: engine.CmdClearCanvas})
	case types.MsgGuess:
		var p types.GuessPayload
		if !c.decode(env.Data, &p) {
			return
		}
		c.forward(engine.Command{Type: engine.CmdGuess, Text: p.Message})
	default:
		c.replyError(types.CodeBadRequest, "unknown message type")
	}
}

func (c *client) handleCreate(data json.RawMessage) {
	var p types.CreateGamePayload
	if !c.decode(data, &p) {
		return
	}
	if p.PlayerName == "" {
		c.replyError(types.CodeBadRequest, "player name required")
		return
	}
	if c.rm != nil {
		c.replyError(types.CodeBadRequest, "already in a game")
		return
	}

	reply := make(chan *room.Room, 1)
	c.hub.Inbox() <- hub.CreateRoom{Private: p.IsPrivate, Reply: reply}
	rm := <-reply
	if rm == nil {
		c.replyError(types.CodeBadRequest, "could not create game")
		return
	}

	c.bind(rm, p.SessionID, p.PlayerName, p.Avatar)
}

func (c *client) handleJoin(data json.RawMessage) {
	var p types.JoinGamePayload
	if !c.decode(data, &p) {
		return
	}
	if p.PlayerName == "" {
		c.replyError(types.CodeBadRequest, "player name required")
		return
	}
	if c.rm != nil {
		c.replyError(types.CodeBadRequest, "already in a game")
		return
	}

	rm := c.lookupRoom(p.GameID)
	if rm == nil {
		c.replyError(types.CodeGameNotFound, "game not found")
		return
	}

	c.bind(rm, p.SessionID, p.PlayerName, p.Avatar)
}

func (c *client) handleRejoin(data json.RawMessage) {
	var p types.RejoinGamePayload
	if !c.decode(data, &p) {
		return
	}
	if c.rm != nil {
		c.replyError(types.CodeBadRequest, "already in a game")
		return
	}

	sess, ok := c.sessions.Lookup(p.SessionID)
	if !ok {
		c.replyError(types.CodePlayerExpired, "session expired, join again")
		return
	}

	roomID := p.GameID
	if roomID == "" {
		roomID = sess.RoomID
	}
	rm := c.lookupRoom(roomID)
	if rm == nil {
		c.replyError(types.CodeGameNotFound, "game not found")
		return
	}

	reply := make(chan error, 1)
	rm.Inbox() <- room.Rejoin{PlayerID: sess.ID, Outbox: c.out, Reply: reply}
	if err := <-reply; err != nil {
		c.replyError(wireCode(err), "not a member of this game")
		return
	}

	c.sessions.Bind(sess, c.connID)
	c.sess = sess
	c.rm = rm
}

// bind attaches this connection to a room as a (possibly new) player.
// Nothing is committed until the room accepts the seat: a rejected join
// must leave the connection free to try another game.
func (c *client) bind(rm *room.Room, token, name, avatar string) {
	sess := c.sessions.ResolveOrCreate(token)

	reply := make(chan error, 1)
	rm.Inbox() <- room.Join{
		Player: engine.Player{ID: sess.ID, Name: name, Avatar: avatar},
		Outbox: c.out,
		Reply:  reply,
	}
	if err := <-reply; err != nil {
		c.replyError(wireCode(err), err.Error())
		return
	}

	c.sessions.Bind(sess, c.connID)
	c.sessions.SetProfile(sess, name, avatar, rm.ID)
	c.sess = sess
	c.rm = rm
}

func wireCode(err error) string {
	switch {
	case errors.Is(err, engine.ErrAlreadyStarted):
		return types.CodeGameAlreadyStarted
	case errors.Is(err, engine.ErrUnknownPlayer):
		return types.CodePlayerNotFound
	default:
		return types.CodeBadRequest
	}
}

// forward routes a game command to the bound room, stamped with the
// player identity the session proved.
func (c *client) forward(cmd engine.Command) {
	if c.rm == nil || c.sess == nil {
		c.replyError(types.CodeBadRequest, "join a game first")
		return
	}
	cmd.PlayerID = c.sess.ID
	c.rm.Inbox() <- room.FromClient{Cmd: cmd}
}

func (c *client) lookupRoom(code string) *room.Room {
	if code == "" {
		return nil
	}
	reply := make(chan *room.Room, 1)
	c.hub.Inbox() <- hub.GetRoom{Code: code, Reply: reply}
	return <-reply
}

func (c *client) decode(data json.RawMessage, v any) bool {
	if err := json.Unmarshal(data, v); err != nil {
		c.replyError(types.CodeBadRequest, "malformed payload")
		return false
	}
	return true
}

// replyError answers protocol-level failures straight on the socket;
// game-level failures come back through the room. Once a room binds
// the outbox it also owns closing it, so the reader never sends there.
func (c *client) replyError(code, msg string) {
	payload, _ := json.Marshal(types.ServerMessage{
		Type: types.MsgError,
		Data: types.ErrorPayload{Code: code, Message: msg},
	})
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := c.conn.Write(ctx, websocket.MessageText, payload); err != nil {
		c.log.Debug("error reply not delivered", zap.String("code", code), zap.Error(err))
	}
}
