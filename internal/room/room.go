// Package room runs one game room as an actor: a single goroutine owns
// the engine state, all timers, and the fan-out to connected clients.
// Everything reaches it through the inbox, so no room state is ever
// touched concurrently with itself.
package room

import (
	"context"
	"time"

	"go.uber.org/zap"

	"sketchparty/internal/engine"
	"sketchparty/pkg/types"
)

// Config holds the transition delays. Production uses Defaults; tests
// shrink them.
type Config struct {
	RevealDelay   time.Duration // pause after a turn so clients can show the word
	EarlyEndDelay time.Duration // pause after everyone guessed, before ending the turn
	DrawerGrace   time.Duration // how long a disconnected drawer may hold the round
}

func Defaults() Config {
	return Config{
		RevealDelay:   3 * time.Second,
		EarlyEndDelay: 2 * time.Second,
		DrawerGrace:   5 * time.Second,
	}
}

type Msg interface{ isRoomMsg() }

// Join registers a player and their outbox. Reply reports whether the
// seat was taken; the caller must not consider itself a member until it
// reads nil. The first joiner is the creator and gets the gameCreated
// ack; later joins are broadcast.
type Join struct {
	Player engine.Player
	Outbox chan types.ServerMessage
	Reply  chan error
}

// Rejoin re-binds a known player after a reconnect. Reply reports
// whether the player still holds a seat.
type Rejoin struct {
	PlayerID string
	Outbox   chan types.ServerMessage
	Reply    chan error
}

// Leave removes a player permanently (their session grace expired).
type Leave struct{ PlayerID string }

// Disconnected marks a transient drop; the seat is kept. Outbox names
// the connection that dropped: if the seat has already been taken over
// by a fresh socket the message is stale and ignored.
type Disconnected struct {
	PlayerID string
	Outbox   chan types.ServerMessage
}

type FromClient struct{ Cmd engine.Command }

// GetView reflects internal state for tests without data races.
type GetView struct{ Reply chan View }

type Shutdown struct{}

type timerKind int

const (
	timerAdvance timerKind = iota
	timerEarlyEnd
	timerDrawerGone
)

type timerFired struct {
	gen      int
	kind     timerKind
	playerID string
}

func (Join) isRoomMsg()         {}
func (Rejoin) isRoomMsg()       {}
func (Leave) isRoomMsg()        {}
func (Disconnected) isRoomMsg() {}
func (FromClient) isRoomMsg()   {}
func (GetView) isRoomMsg()      {}
func (Shutdown) isRoomMsg()     {}
func (timerFired) isRoomMsg()   {}

type View struct {
	Phase      engine.Phase
	NumClients int
	NumPlayers int
	DrawerID   string
	Word       string
	Snapshot   engine.Snapshot
}

type Room struct {
	ID string

	// Private rooms are reachable by code only. Set once at creation,
	// before the room is shared.
	Private bool

	inbox   chan Msg
	state   *engine.State
	clients map[string]chan types.ServerMessage
	cfg     Config
	log     *zap.Logger

	// Timer handles. The generation counter invalidates fires that
	// arrive after the transition they were armed for is void.
	ticker      *time.Ticker
	tick        <-chan time.Time
	gen         int
	advanceT    *time.Timer
	earlyEndT   *time.Timer
	drawerGoneT *time.Timer

	// Hub callbacks for empty-room reaping.
	onEmpty    func(string)
	onOccupied func(string)

	ctx    context.Context
	cancel context.CancelFunc
}

func New(parent context.Context, id string, st *engine.State, cfg Config, log *zap.Logger, onEmpty, onOccupied func(string)) *Room {
	ctx, cancel := context.WithCancel(parent)
	if onEmpty == nil {
		onEmpty = func(string) {}
	}
	if onOccupied == nil {
		onOccupied = func(string) {}
	}
	r := &Room{
		ID:         id,
		inbox:      make(chan Msg, 64),
		state:      st,
		clients:    make(map[string]chan types.ServerMessage),
		cfg:        cfg,
		log:        log.With(zap.String("room", id)),
		onEmpty:    onEmpty,
		onOccupied: onOccupied,
		ctx:        ctx,
		cancel:     cancel,
	}
	go r.loop()
	return r
}

func (r *Room) Inbox() chan<- Msg { return r.inbox }

func (r *Room) loop() {
	for {
		select {
		case <-r.ctx.Done():
			r.shutdown()
			return

		case <-r.tick:
			r.apply(engine.Command{Type: engine.CmdTick})

		case m := <-r.inbox:
			switch msg := m.(type) {
			case Join:
				r.handleJoin(msg)
			case Rejoin:
				r.handleRejoin(msg)
			case Leave:
				r.handleLeave(msg.PlayerID)
			case Disconnected:
				r.handleDisconnected(msg)
			case FromClient:
				r.apply(msg.Cmd)
			case timerFired:
				r.handleTimer(msg)
			case GetView:
				msg.Reply <- View{
					Phase:      r.state.Phase,
					NumClients: len(r.clients),
					NumPlayers: len(r.state.Players),
					DrawerID:   r.state.DrawerID,
					Word:       r.state.Word,
					Snapshot:   r.state.Snapshot(),
				}
			case Shutdown:
				r.shutdown()
				return
			}
		}
	}
}

func (r *Room) apply(cmd engine.Command) {
	events, err := engine.Apply(r.state, cmd)
	if err != nil {
		r.log.Debug("command rejected",
			zap.String("cmd", string(cmd.Type)),
			zap.String("player", cmd.PlayerID),
			zap.Error(err))
		r.sendError(cmd.PlayerID, err)
		return
	}
	r.emit(events)
	r.syncCountdown()
}

// reply answers a Join/Rejoin handshake. Nil channels are allowed; a
// full one is the caller's bug, not worth blocking the loop over.
func (r *Room) reply(ch chan error, err error) {
	if ch == nil {
		return
	}
	select {
	case ch <- err:
	default:
	}
}

func (r *Room) handleJoin(msg Join) {
	if err := r.state.AddPlayer(msg.Player); err != nil {
		r.reply(msg.Reply, err)
		return
	}
	r.bindClient(msg.Player.ID, msg.Outbox)
	r.onOccupied(r.ID)
	r.reply(msg.Reply, nil)

	snap := r.state.Snapshot()
	if len(r.state.Players) == 1 {
		sendNonBlocking(msg.Outbox, types.ServerMessage{
			Type: types.MsgGameCreated,
			Data: types.GameCreatedPayload{GameID: r.ID, Game: snap},
		})
		return
	}
	joined := r.state.FindPlayer(msg.Player.ID)
	r.broadcast(types.MsgPlayerJoined, types.PlayerJoinedPayload{Player: *joined, Game: snap})
}

func (r *Room) handleRejoin(msg Rejoin) {
	p := r.state.FindPlayer(msg.PlayerID)
	if p == nil {
		r.reply(msg.Reply, engine.ErrUnknownPlayer)
		return
	}
	r.state.MarkReconnected(p.ID)
	r.bindClient(p.ID, msg.Outbox)
	r.onOccupied(r.ID)
	r.reply(msg.Reply, nil)

	snap := r.state.Snapshot()
	r.broadcast(types.MsgPlayerReconnected, types.PlayerEventPayload{PlayerID: p.ID, Game: &snap})
	r.sendRejoinSuccess(p.ID, msg.Outbox)
	r.log.Info("player rejoined", zap.String("player", p.ID))
}

func (r *Room) handleLeave(playerID string) {
	if r.state.FindPlayer(playerID) == nil {
		r.dropClient(playerID)
		return
	}
	events := r.state.RemovePlayer(playerID)
	r.dropClient(playerID)

	snap := r.state.Snapshot()
	r.broadcast(types.MsgPlayerLeft, types.PlayerEventPayload{PlayerID: playerID, Game: &snap})
	r.emit(events)
	r.syncCountdown()

	if len(r.state.Players) == 0 {
		r.onEmpty(r.ID)
	}
}

func (r *Room) handleDisconnected(msg Disconnected) {
	playerID := msg.PlayerID
	if ch, ok := r.clients[playerID]; ok && msg.Outbox != nil && ch != msg.Outbox {
		// A fresh socket already took the seat over; this is the old
		// one's teardown arriving late.
		return
	}
	if r.state.FindPlayer(playerID) == nil {
		r.dropClient(playerID)
		return
	}
	r.state.MarkDisconnected(playerID)
	r.dropClient(playerID)
	r.broadcast(types.MsgPlayerDisconnected, types.PlayerEventPayload{PlayerID: playerID})

	if r.state.Phase != engine.PhaseDrawing {
		return
	}
	if playerID == r.state.DrawerID {
		// Give the drawer a short window to come back before the round
		// is forfeited.
		r.armTimer(&r.drawerGoneT, timerDrawerGone, r.cfg.DrawerGrace, playerID)
	} else if r.state.AllGuessed() {
		r.armTimer(&r.earlyEndT, timerEarlyEnd, r.cfg.EarlyEndDelay, "")
	}
}

func (r *Room) handleTimer(msg timerFired) {
	if msg.gen != r.gen {
		return // armed for a state that no longer exists
	}
	switch msg.kind {
	case timerAdvance:
		r.apply(engine.Command{Type: engine.CmdAdvance})
	case timerEarlyEnd:
		r.apply(engine.Command{Type: engine.CmdEndTurn})
	case timerDrawerGone:
		p := r.state.FindPlayer(msg.playerID)
		if p == nil || !p.Disconnected || r.state.DrawerID != msg.playerID {
			return
		}
		r.log.Info("drawer did not return, forfeiting round", zap.String("player", msg.playerID))
		r.apply(engine.Command{Type: engine.CmdEndTurn})
	}
}

// syncCountdown keeps exactly one live ticker while a round is being
// drawn and none otherwise.
func (r *Room) syncCountdown() {
	drawing := r.state.Phase == engine.PhaseDrawing
	switch {
	case drawing && r.ticker == nil:
		r.ticker = time.NewTicker(time.Second)
		r.tick = r.ticker.C
	case !drawing && r.ticker != nil:
		r.ticker.Stop()
		r.ticker = nil
		r.tick = nil
	}
}

func (r *Room) armTimer(handle **time.Timer, kind timerKind, d time.Duration, playerID string) {
	if *handle != nil {
		(*handle).Stop()
	}
	gen := r.gen
	*handle = time.AfterFunc(d, func() {
		select {
		case r.inbox <- timerFired{gen: gen, kind: kind, playerID: playerID}:
		case <-r.ctx.Done():
		}
	})
}

func (r *Room) bindClient(playerID string, outbox chan types.ServerMessage) {
	if old, ok := r.clients[playerID]; ok && old != outbox {
		close(old)
	}
	r.clients[playerID] = outbox
}

func (r *Room) dropClient(playerID string) {
	if ch, ok := r.clients[playerID]; ok {
		close(ch)
		delete(r.clients, playerID)
	}
}

func (r *Room) shutdown() {
	if r.ticker != nil {
		r.ticker.Stop()
	}
	for _, t := range []*time.Timer{r.advanceT, r.earlyEndT, r.drawerGoneT} {
		if t != nil {
			t.Stop()
		}
	}
	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
	r.cancel()
}
