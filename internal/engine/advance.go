package engine

import "sort"

// nextDrawer returns the first player in join order who has not drawn
// this cycle. Disconnected players are passed over; their turn is
// forfeit until they come back.
func (s *State) nextDrawer() *Player {
	for _, p := range s.Players {
		if !p.HasDrawn && !p.Disconnected {
			return p
		}
	}
	return nil
}

// advance starts the next turn, rolling the cycle over when everyone
// has drawn and ending the game once the final round's cycle is done.
// Written as a loop, not recursion: a large TotalRounds with no
// eligible drawers must terminate without stack growth.
func (s *State) advance() []Event {
	for {
		drawer := s.nextDrawer()
		if drawer == nil {
			if s.Round >= s.TotalRounds {
				return s.finish()
			}
			for _, p := range s.Players {
				p.HasDrawn = false
			}
			s.Round++
			continue
		}

		s.Phase = PhaseDrawing
		s.DrawerID = drawer.ID
		s.Word = s.pool.Pick(s.rng)
		s.TimeLeft = s.RoundSeconds
		s.Guessed = map[string]bool{}
		s.Strokes = nil

		return []Event{
			{Type: EvtRoundStarted, PlayerID: drawer.ID, Round: s.Round, TimeLeft: s.TimeLeft},
			{Type: EvtWordChosen, PlayerID: drawer.ID, Word: s.Word},
		}
	}
}

// endTurn closes the current drawer's turn: timer expiry, everyone
// guessing, or the drawer going away all funnel here.
func (s *State) endTurn() []Event {
	if drawer := s.FindPlayer(s.DrawerID); drawer != nil {
		drawer.HasDrawn = true
	}
	s.Phase = PhaseReveal
	return []Event{{Type: EvtTurnEnded, Word: s.Word}}
}

func (s *State) endTurnIfDrawing() []Event {
	if s.Phase != PhaseDrawing {
		return nil
	}
	return s.endTurn()
}

func (s *State) finish() []Event {
	s.Phase = PhaseOver
	s.DrawerID = ""
	s.Word = ""
	s.TimeLeft = 0
	return []Event{{Type: EvtGameOver, Ranking: s.Ranking()}}
}

// Ranking is the scoreboard: score descending, stable on join order.
func (s *State) Ranking() []Player {
	out := make([]Player, len(s.Players))
	for i, p := range s.Players {
		out[i] = *p
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// AddPlayer appends a player in join order. Re-adding an existing ID is
// a no-op so a reconnect racing a join cannot duplicate the seat.
func (s *State) AddPlayer(p Player) error {
	if existing := s.FindPlayer(p.ID); existing != nil {
		existing.Disconnected = false
		return nil
	}
	if s.Phase != PhaseLobby && s.Phase != PhaseOver {
		return ErrAlreadyStarted
	}
	cp := p
	s.Players = append(s.Players, &cp)
	return nil
}

// RemovePlayer takes a player out of the room for good. Removing the
// active drawer ends the turn; removing the last hold-out guesser can
// complete the round.
func (s *State) RemovePlayer(id string) []Event {
	idx := -1
	for i, p := range s.Players {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	s.Players = append(s.Players[:idx], s.Players[idx+1:]...)
	delete(s.Guessed, id)

	if s.Phase == PhaseDrawing {
		if id == s.DrawerID {
			return s.endTurn()
		}
		if s.allGuessed() {
			return []Event{{Type: EvtAllGuessed}}
		}
	}
	return nil
}

func (s *State) MarkDisconnected(id string) {
	if p := s.FindPlayer(id); p != nil {
		p.Disconnected = true
	}
}

func (s *State) MarkReconnected(id string) {
	if p := s.FindPlayer(id); p != nil {
		p.Disconnected = false
	}
}
