// Package engine is the pure room state machine: lobby membership,
// round lifecycle, drawer rotation, guessing and scoring. It never
// touches timers or sockets; callers apply commands and fan the
// resulting events out.
package engine

import (
	"errors"
	"math/rand"

	"sketchparty/internal/guess"
	"sketchparty/internal/score"
	"sketchparty/internal/words"
)

var ErrAlreadyStarted = errors.New("game already started")
var ErrNotEnoughPlayers = errors.New("not enough players")
var ErrNotDrawer = errors.New("player is not the drawer")
var ErrNotHost = errors.New("player is not the host")
var ErrUnknownPlayer = errors.New("unknown player")
var ErrUnsupportedCommand = errors.New("unsupported command")

type Phase string

const (
	PhaseLobby   Phase = "lobby"
	PhaseDrawing Phase = "drawing"
	PhaseReveal  Phase = "reveal"
	PhaseOver    Phase = "over"
)

// Stroke is one drawing segment as the client sends it.
type Stroke struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Color string  `json:"color"`
	Size  float64 `json:"size"`
	Type  string  `json:"type"`
}

type Player struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Avatar       string `json:"avatar,omitempty"`
	Score        int    `json:"score"`
	HasDrawn     bool   `json:"hasDrawn"`
	Disconnected bool   `json:"isDisconnected"`
}

// Settings are the host-tunable knobs, applied in the lobby.
type Settings struct {
	TotalRounds  int
	RoundSeconds int
	CustomWords  []string
}

const (
	DefaultRounds       = 1
	DefaultRoundSeconds = 60
	maxRounds           = 20
	maxRoundSeconds     = 300
	minRoundSeconds     = 10
)

// State is one room's game state. Players keeps join order, which
// drives drawer rotation and tie-breaks in the final ranking.
type State struct {
	Phase        Phase
	Players      []*Player
	DrawerID     string
	Word         string
	Round        int
	TotalRounds  int
	RoundSeconds int
	TimeLeft     int
	Guessed      map[string]bool
	Strokes      []Stroke

	pool       *words.Pool
	customPool bool
	rng        *rand.Rand
}

func NewState(rng *rand.Rand) *State {
	return &State{
		Phase:        PhaseLobby,
		TotalRounds:  DefaultRounds,
		RoundSeconds: DefaultRoundSeconds,
		Guessed:      map[string]bool{},
		pool:         words.NewPool(nil),
		rng:          rng,
	}
}

type CommandType string

const (
	CmdStart          CommandType = "Start"
	CmdUpdateSettings CommandType = "UpdateSettings"
	CmdGuess          CommandType = "Guess"
	CmdStroke         CommandType = "Stroke"
	CmdClearCanvas    CommandType = "ClearCanvas"
	CmdTick           CommandType = "Tick"
	CmdEndTurn        CommandType = "EndTurn"
	CmdAdvance        CommandType = "Advance"
)

type Command struct {
	Type     CommandType
	PlayerID string
	Text     string
	Stroke   Stroke
	Settings Settings
}

type EventType string

const (
	EvtGameStarted     EventType = "GameStarted"
	EvtSettingsUpdated EventType = "SettingsUpdated"
	EvtRoundStarted    EventType = "RoundStarted"
	EvtWordChosen      EventType = "WordChosen"
	EvtTimeUpdated     EventType = "TimeUpdated"
	EvtChat            EventType = "Chat"
	EvtCorrectGuess    EventType = "CorrectGuess"
	EvtAllGuessed      EventType = "AllGuessed"
	EvtTurnEnded       EventType = "TurnEnded"
	EvtGameOver        EventType = "GameOver"
	EvtStrokeAdded     EventType = "StrokeAdded"
	EvtCanvasCleared   EventType = "CanvasCleared"
)

// Event is a broadcast directive. Only the fields relevant to its type
// are set.
type Event struct {
	Type       EventType
	PlayerID   string
	PlayerName string
	Word       string
	Text       string
	Correct    bool
	Close      bool
	Points     int
	TimeLeft   int
	Round      int
	Stroke     Stroke
	Ranking    []Player
}

// Apply runs one command against the state and returns the events the
// room should broadcast. Timer-driven commands (Tick, EndTurn, Advance)
// quietly no-op when the phase has moved on underneath them; player
// commands surface errors back to their sender.
func Apply(s *State, cmd Command) ([]Event, error) {
	switch cmd.Type {
	case CmdStart:
		return s.start(cmd)
	case CmdUpdateSettings:
		return s.updateSettings(cmd)
	case CmdGuess:
		return s.submitGuess(cmd)
	case CmdStroke:
		return s.submitStroke(cmd)
	case CmdClearCanvas:
		return s.clearCanvas(cmd)
	case CmdTick:
		return s.tick(), nil
	case CmdEndTurn:
		return s.endTurnIfDrawing(), nil
	case CmdAdvance:
		if s.Phase != PhaseReveal {
			return nil, nil
		}
		return s.advance(), nil
	default:
		return nil, ErrUnsupportedCommand
	}
}

func (s *State) start(cmd Command) ([]Event, error) {
	if s.Phase != PhaseLobby && s.Phase != PhaseOver {
		return nil, ErrAlreadyStarted
	}
	if len(s.Players) < 2 {
		return nil, ErrNotEnoughPlayers
	}
	if !s.isHost(cmd.PlayerID) {
		return nil, ErrNotHost
	}

	s.applySettings(cmd.Settings)
	for _, p := range s.Players {
		p.Score = 0
		p.HasDrawn = false
	}
	s.Round = 1

	events := []Event{{Type: EvtGameStarted}}
	return append(events, s.advance()...), nil
}

func (s *State) updateSettings(cmd Command) ([]Event, error) {
	if s.Phase != PhaseLobby && s.Phase != PhaseOver {
		return nil, ErrAlreadyStarted
	}
	if !s.isHost(cmd.PlayerID) {
		return nil, ErrNotHost
	}
	s.applySettings(cmd.Settings)
	return []Event{{Type: EvtSettingsUpdated}}, nil
}

func (s *State) applySettings(set Settings) {
	if set.TotalRounds > 0 {
		s.TotalRounds = min(set.TotalRounds, maxRounds)
	}
	if set.RoundSeconds > 0 {
		s.RoundSeconds = max(minRoundSeconds, min(set.RoundSeconds, maxRoundSeconds))
	}
	if len(set.CustomWords) > 0 {
		s.pool = words.NewPool(set.CustomWords)
		s.customPool = true
	}
}

// HasCustomWords reports whether the host swapped in their own list.
func (s *State) HasCustomWords() bool { return s.customPool }

func (s *State) submitGuess(cmd Command) ([]Event, error) {
	if s.Phase != PhaseDrawing && s.Phase != PhaseReveal {
		return nil, nil
	}
	p := s.FindPlayer(cmd.PlayerID)
	if p == nil {
		return nil, ErrUnknownPlayer
	}
	if p.ID == s.DrawerID {
		return nil, nil
	}

	verdict := guess.Classify(cmd.Text, s.Word)

	// Winning guess: this player's first correct answer while the round
	// is live.
	if verdict == guess.Correct && s.Phase == PhaseDrawing && !s.Guessed[p.ID] {
		s.Guessed[p.ID] = true
		points := score.Guess(len(s.Guessed), s.TimeLeft, s.RoundSeconds)
		p.Score += points
		if drawer := s.FindPlayer(s.DrawerID); drawer != nil {
			drawer.Score += score.DrawerBonus
		}

		events := []Event{
			{Type: EvtChat, PlayerID: p.ID, PlayerName: p.Name, Text: cmd.Text, Correct: true},
			{Type: EvtCorrectGuess, PlayerID: p.ID, PlayerName: p.Name, Points: points},
		}
		if s.allGuessed() {
			events = append(events, Event{Type: EvtAllGuessed})
		}
		return events, nil
	}

	return []Event{{
		Type:       EvtChat,
		PlayerID:   p.ID,
		PlayerName: p.Name,
		Text:       cmd.Text,
		Correct:    verdict == guess.Correct,
		Close:      verdict == guess.Close && s.Phase == PhaseDrawing,
	}}, nil
}

func (s *State) submitStroke(cmd Command) ([]Event, error) {
	if s.Phase != PhaseDrawing {
		return nil, nil
	}
	if cmd.PlayerID != s.DrawerID {
		return nil, ErrNotDrawer
	}
	s.Strokes = append(s.Strokes, cmd.Stroke)
	return []Event{{Type: EvtStrokeAdded, PlayerID: cmd.PlayerID, Stroke: cmd.Stroke}}, nil
}

func (s *State) clearCanvas(cmd Command) ([]Event, error) {
	if s.Phase != PhaseDrawing {
		return nil, nil
	}
	if cmd.PlayerID != s.DrawerID {
		return nil, ErrNotDrawer
	}
	s.Strokes = nil
	return []Event{{Type: EvtCanvasCleared}}, nil
}

func (s *State) tick() []Event {
	if s.Phase != PhaseDrawing {
		return nil
	}
	s.TimeLeft--
	events := []Event{{Type: EvtTimeUpdated, TimeLeft: s.TimeLeft}}
	if s.TimeLeft <= 0 {
		events = append(events, s.endTurn()...)
	}
	return events
}

func (s *State) isHost(playerID string) bool {
	return len(s.Players) > 0 && s.Players[0].ID == playerID
}

// allGuessed reports whether every connected non-drawer has found the
// word this round.
func (s *State) allGuessed() bool {
	for _, p := range s.Players {
		if p.ID == s.DrawerID || p.Disconnected {
			continue
		}
		if !s.Guessed[p.ID] {
			return false
		}
	}
	return len(s.Guessed) > 0
}
