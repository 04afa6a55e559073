package room

import (
	"errors"

	"go.uber.org/zap"

	"sketchparty/internal/engine"
	"sketchparty/internal/words"
	"sketchparty/pkg/types"
)

// emit translates engine events into wire messages, personalizing where
// the payload depends on who is listening.
func (r *Room) emit(events []engine.Event) {
	for _, ev := range events {
		switch ev.Type {
		case engine.EvtGameStarted:
			r.broadcast(types.MsgGameStarted, r.state.Snapshot())

		case engine.EvtSettingsUpdated:
			r.broadcast(types.MsgSettingsUpdated, types.SettingsUpdatedPayload{
				TotalRounds: r.state.TotalRounds,
				RoundTime:   r.state.RoundSeconds,
				CustomWords: r.state.HasCustomWords(),
			})

		case engine.EvtRoundStarted:
			r.gen++
			r.broadcast(types.MsgRoundStart, types.RoundStartPayload{
				DrawerID:    ev.PlayerID,
				RoundNumber: ev.Round,
				TotalRounds: r.state.TotalRounds,
				TimeLeft:    ev.TimeLeft,
			})
			if p := r.state.FindPlayer(ev.PlayerID); p != nil && p.Disconnected {
				// Drawer was already gone when their turn came up.
				r.armTimer(&r.drawerGoneT, timerDrawerGone, r.cfg.DrawerGrace, ev.PlayerID)
			}

		case engine.EvtWordChosen:
			hint := words.Mask(ev.Word)
			for id, ch := range r.clients {
				if id == ev.PlayerID {
					r.send(id, ch, types.ServerMessage{Type: types.MsgYourWord, Data: ev.Word})
				} else {
					r.send(id, ch, types.ServerMessage{Type: types.MsgHint, Data: hint})
				}
			}

		case engine.EvtTimeUpdated:
			r.broadcast(types.MsgTimeUpdate, ev.TimeLeft)

		case engine.EvtAllGuessed:
			r.armTimer(&r.earlyEndT, timerEarlyEnd, r.cfg.EarlyEndDelay, "")

		case engine.EvtTurnEnded:
			r.gen++
			r.broadcast(types.MsgWordReveal, ev.Word)
			r.broadcast(types.MsgGameState, r.state.Snapshot())
			r.armTimer(&r.advanceT, timerAdvance, r.cfg.RevealDelay, "")

		case engine.EvtChat:
			r.emitChat(ev)

		case engine.EvtCorrectGuess:
			r.broadcast(types.MsgCorrectGuess, types.CorrectGuessPayload{
				PlayerID:   ev.PlayerID,
				PlayerName: ev.PlayerName,
				Points:     ev.Points,
			})
			r.broadcast(types.MsgGameState, r.state.Snapshot())

		case engine.EvtGameOver:
			r.gen++
			r.broadcast(types.MsgGameOver, ev.Ranking)
			r.log.Info("game over", zap.Int("players", len(ev.Ranking)))

		case engine.EvtStrokeAdded:
			for id, ch := range r.clients {
				if id == ev.PlayerID {
					continue
				}
				r.send(id, ch, types.ServerMessage{Type: types.MsgDrawing, Data: ev.Stroke})
			}

		case engine.EvtCanvasCleared:
			r.broadcast(types.MsgCanvasCleared, nil)
		}
	}
}

// emitChat applies the guess-privacy rules: the author, the drawer, and
// players who already found the word see the literal text; everyone
// still guessing sees a redacted system line for correct guesses, and a
// Close verdict is visible only to its author.
func (r *Room) emitChat(ev engine.Event) {
	for id, ch := range r.clients {
		privileged := id == ev.PlayerID || id == r.state.DrawerID || r.state.Guessed[id]
		payload := types.ChatMessagePayload{
			PlayerID:   ev.PlayerID,
			PlayerName: ev.PlayerName,
			IsCorrect:  ev.Correct,
		}
		if ev.Correct && !privileged {
			payload.Message = ev.PlayerName + " guessed the word!"
			payload.IsSystemLike = true
		} else {
			payload.Message = ev.Text
			payload.IsClose = ev.Close && id == ev.PlayerID
		}
		r.send(id, ch, types.ServerMessage{Type: types.MsgChatMessage, Data: payload})
	}
}

func (r *Room) sendRejoinSuccess(playerID string, outbox chan types.ServerMessage) {
	strokes := make([]engine.Stroke, len(r.state.Strokes))
	copy(strokes, r.state.Strokes)

	payload := types.RejoinSuccessPayload{
		Game:          r.state.Snapshot(),
		DrawingData:   strokes,
		CurrentDrawer: r.state.DrawerID,
		TimeLeft:      r.state.TimeLeft,
		RoundNumber:   r.state.Round,
		TotalRounds:   r.state.TotalRounds,
	}
	if r.state.Phase == engine.PhaseDrawing || r.state.Phase == engine.PhaseReveal {
		if playerID == r.state.DrawerID {
			payload.CurrentWord = r.state.Word
		} else {
			payload.WordHint = words.Mask(r.state.Word)
		}
	}
	sendNonBlocking(outbox, types.ServerMessage{Type: types.MsgRejoinSuccess, Data: payload})
}

func (r *Room) broadcast(msgType string, data any) {
	for id, ch := range r.clients {
		r.send(id, ch, types.ServerMessage{Type: msgType, Data: data})
	}
}

// send delivers to one client, dropping them if their outbox is full.
// A dropped client's socket write pump winds down on its own; the seat
// stays until the session layer gives up on them.
func (r *Room) send(id string, ch chan types.ServerMessage, msg types.ServerMessage) {
	select {
	case ch <- msg:
	default:
		r.log.Warn("dropping slow client", zap.String("player", id))
		close(ch)
		delete(r.clients, id)
	}
}

func (r *Room) sendError(playerID string, err error) {
	ch, ok := r.clients[playerID]
	if !ok {
		return
	}
	r.send(playerID, ch, types.ServerMessage{
		Type: types.MsgError,
		Data: types.ErrorPayload{Code: errorCode(err), Message: err.Error()},
	})
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, engine.ErrAlreadyStarted):
		return types.CodeGameAlreadyStarted
	case errors.Is(err, engine.ErrNotEnoughPlayers):
		return types.CodeNotEnoughPlayers
	case errors.Is(err, engine.ErrNotDrawer), errors.Is(err, engine.ErrNotHost):
		return types.CodeNotAuthorized
	case errors.Is(err, engine.ErrUnknownPlayer):
		return types.CodePlayerNotFound
	default:
		return types.CodeBadRequest
	}
}

func sendNonBlocking(ch chan types.ServerMessage, msg types.ServerMessage) {
	select {
	case ch <- msg:
	default:
	}
}
