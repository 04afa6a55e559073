// Package hub owns the room registry. It is an actor: one goroutine
// serializes creation, lookup, and the empty-room reap timers, so room
// lifetimes never race.
package hub

import (
	"context"
	"crypto/rand"
	"math/big"
	mrand "math/rand"
	"time"

	"go.uber.org/zap"

	"sketchparty/internal/engine"
	"sketchparty/internal/room"
)

// ReapGrace is how long an empty room survives, so the last player's
// transient disconnect cannot destroy it before they reconnect.
const ReapGrace = 30 * time.Second

type HubMsg interface{ isHubMsg() }

type CreateRoom struct {
	Private bool
	Reply   chan *room.Room
}

type GetRoom struct {
	Code  string
	Reply chan *room.Room
}

type RemoveRoom struct{ Code string }

// scheduleReap and cancelReap arrive via the room's empty/occupied
// callbacks.
type scheduleReap struct{ Code string }
type cancelReap struct{ Code string }
type reapFired struct{ Code string }

type ShutdownHub struct{}

func (CreateRoom) isHubMsg()   {}
func (GetRoom) isHubMsg()      {}
func (RemoveRoom) isHubMsg()   {}
func (scheduleReap) isHubMsg() {}
func (cancelReap) isHubMsg()   {}
func (reapFired) isHubMsg()    {}
func (ShutdownHub) isHubMsg()  {}

type Hub struct {
	inbox        chan HubMsg
	rooms        map[string]*room.Room
	reapers      map[string]*time.Timer
	grace        time.Duration
	roomCfg      room.Config
	onRoomClosed func(roomID string)
	log          *zap.Logger
	ctx          context.Context
	cancel       context.CancelFunc
}

// NewHub builds the registry. onRoomClosed runs after a room is
// destroyed so identities still pointing at it can be released.
func NewHub(parent context.Context, log *zap.Logger, onRoomClosed func(roomID string)) *Hub {
	return newHub(parent, log, ReapGrace, room.Defaults(), onRoomClosed)
}

// newHub lets tests shrink the grace window and room delays.
func newHub(parent context.Context, log *zap.Logger, grace time.Duration, roomCfg room.Config, onRoomClosed func(string)) *Hub {
	ctx, cancel := context.WithCancel(parent)
	if onRoomClosed == nil {
		onRoomClosed = func(string) {}
	}
	h := &Hub{
		inbox:        make(chan HubMsg, 64),
		rooms:        make(map[string]*room.Room),
		reapers:      make(map[string]*time.Timer),
		grace:        grace,
		roomCfg:      roomCfg,
		onRoomClosed: onRoomClosed,
		log:          log,
		ctx:          ctx,
		cancel:       cancel,
	}
	go h.loop()
	return h
}

func (h *Hub) Inbox() chan<- HubMsg { return h.inbox }

func (h *Hub) loop() {
	for {
		select {
		case <-h.ctx.Done():
			h.shutdown()
			return

		case m := <-h.inbox:
			switch msg := m.(type) {
			case CreateRoom:
				msg.Reply <- h.createRoom(msg.Private)

			case GetRoom:
				msg.Reply <- h.rooms[msg.Code] // may be nil

			case RemoveRoom:
				h.destroyRoom(msg.Code)

			case scheduleReap:
				if _, exists := h.rooms[msg.Code]; !exists {
					break
				}
				if t, ok := h.reapers[msg.Code]; ok {
					t.Stop()
				}
				code := msg.Code
				h.reapers[code] = time.AfterFunc(h.grace, func() {
					select {
					case h.inbox <- reapFired{Code: code}:
					case <-h.ctx.Done():
					}
				})

			case cancelReap:
				if t, ok := h.reapers[msg.Code]; ok {
					t.Stop()
					delete(h.reapers, msg.Code)
				}

			case reapFired:
				// Still armed means nobody came back.
				if _, ok := h.reapers[msg.Code]; !ok {
					break
				}
				h.log.Info("reaping empty room", zap.String("room", msg.Code))
				h.destroyRoom(msg.Code)

			case ShutdownHub:
				h.shutdown()
				return
			}
		}
	}
}

func (h *Hub) createRoom(private bool) *room.Room {
	var code string
	for {
		c, err := generateCode()
		if err != nil {
			h.log.Error("room code generation failed", zap.Error(err))
			return nil
		}
		if _, taken := h.rooms[c]; !taken {
			code = c
			break
		}
		h.log.Warn("room code collision, regenerating", zap.String("code", c))
	}

	st := engine.NewState(mrand.New(mrand.NewSource(time.Now().UnixNano())))
	rm := room.New(h.ctx, code, st, h.roomCfg, h.log,
		func(id string) { h.notify(scheduleReap{Code: id}) },
		func(id string) { h.notify(cancelReap{Code: id}) },
	)
	rm.Private = private
	h.rooms[code] = rm
	h.log.Info("room created", zap.String("room", code), zap.Bool("private", private))
	return rm
}

// notify posts back into our own inbox from a room's goroutine.
func (h *Hub) notify(msg HubMsg) {
	select {
	case h.inbox <- msg:
	case <-h.ctx.Done():
	}
}

func (h *Hub) destroyRoom(code string) {
	if t, ok := h.reapers[code]; ok {
		t.Stop()
		delete(h.reapers, code)
	}
	if rm, ok := h.rooms[code]; ok {
		rm.Inbox() <- room.Shutdown{}
		delete(h.rooms, code)
		h.onRoomClosed(code)
	}
}

func (h *Hub) shutdown() {
	for code := range h.rooms {
		h.destroyRoom(code)
	}
	h.cancel()
}

func generateCode() (string, error) {
	const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	code := make([]byte, 6)
	for i := range code {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		code[i] = charset[num.Int64()]
	}
	return string(code), nil
}
