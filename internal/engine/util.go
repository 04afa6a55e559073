package engine

// Snapshot is the client-visible room state. The secret word is never
// part of it; hints travel separately.
type Snapshot struct {
	Players       []Player `json:"players"`
	CurrentDrawer string   `json:"currentDrawer"`
	RoundNumber   int      `json:"roundNumber"`
	TotalRounds   int      `json:"totalRounds"`
	TimeLeft      int      `json:"timeLeft"`
	Started       bool     `json:"started"`
	RoundSeconds  int      `json:"roundTime"`
}

func (s *State) Snapshot() Snapshot {
	players := make([]Player, len(s.Players))
	for i, p := range s.Players {
		players[i] = *p
	}
	return Snapshot{
		Players:       players,
		CurrentDrawer: s.DrawerID,
		RoundNumber:   s.Round,
		TotalRounds:   s.TotalRounds,
		TimeLeft:      s.TimeLeft,
		Started:       s.Phase == PhaseDrawing || s.Phase == PhaseReveal,
		RoundSeconds:  s.RoundSeconds,
	}
}

// AllGuessed reports whether every connected non-drawer has found the
// word this round.
func (s *State) AllGuessed() bool { return s.allGuessed() }

func (s *State) FindPlayer(id string) *Player {
	for _, p := range s.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func ContainsEvent(events []Event, eventType EventType) bool {
	for _, event := range events {
		if event.Type == eventType {
			return true
		}
	}
	return false
}
