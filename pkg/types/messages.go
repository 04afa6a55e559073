// Package types defines the wire protocol: one bidirectional channel
// per connection carrying {type, data} envelopes.
package types

import (
	"encoding/json"

	"sketchparty/internal/engine"
)

// Envelope is the outer frame of every client message. Data is decoded
// per type.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Client -> Server message types.
const (
	MsgCreateGame     = "createGame"
	MsgJoinGame       = "joinGame"
	MsgRejoinGame     = "rejoinGame"
	MsgStartGame      = "startGame"
	MsgUpdateSettings = "updateSettings"
	MsgDraw           = "draw"
	MsgClearCanvas    = "clearCanvas"
	MsgGuess          = "guess"
)

type CreateGamePayload struct {
	PlayerName string `json:"playerName"`
	IsPrivate  bool   `json:"isPrivate"`
	Avatar     string `json:"avatar"`
	SessionID  string `json:"sessionId"`
}

type JoinGamePayload struct {
	GameID     string `json:"gameId"`
	PlayerName string `json:"playerName"`
	Avatar     string `json:"avatar"`
	SessionID  string `json:"sessionId"`
}

type RejoinGamePayload struct {
	SessionID string `json:"sessionId"`
	GameID    string `json:"gameId"`
}

type StartGamePayload struct {
	GameID      string   `json:"gameId"`
	TotalRounds int      `json:"totalRounds"`
	RoundTime   int      `json:"roundTime"`
	CustomWords []string `json:"customWords"`
}

type UpdateSettingsPayload struct {
	GameID      string   `json:"gameId"`
	TotalRounds int      `json:"totalRounds"`
	RoundTime   int      `json:"roundTime"`
	CustomWords []string `json:"customWords"`
}

type DrawPayload struct {
	GameID string        `json:"gameId"`
	Data   engine.Stroke `json:"data"`
}

type ClearCanvasPayload struct {
	GameID string `json:"gameId"`
}

type GuessPayload struct {
	GameID  string `json:"gameId"`
	Message string `json:"message"`
}

// ServerMessage is one outbound frame. Data is marshalled at the socket
// boundary.
type ServerMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// Server -> Client message types.
const (
	MsgGameCreated        = "gameCreated"
	MsgPlayerJoined       = "playerJoined"
	MsgGameStarted        = "gameStarted"
	MsgSettingsUpdated    = "settingsUpdated"
	MsgRoundStart         = "roundStart"
	MsgYourWord           = "yourWord"
	MsgHint               = "hint"
	MsgTimeUpdate         = "timeUpdate"
	MsgDrawing            = "drawing"
	MsgCanvasCleared      = "canvasCleared"
	MsgChatMessage        = "chatMessage"
	MsgCorrectGuess       = "correctGuess"
	MsgWordReveal         = "wordReveal"
	MsgGameState          = "gameState"
	MsgGameOver           = "gameOver"
	MsgPlayerLeft         = "playerLeft"
	MsgPlayerDisconnected = "playerDisconnected"
	MsgPlayerReconnected  = "playerReconnected"
	MsgRejoinSuccess      = "rejoinSuccess"
	MsgError              = "error"
)

// Stable error codes. Clients receiving GameNotFound or PlayerExpired
// must reset to an unauthenticated state rather than retry.
const (
	CodeGameNotFound       = "game_not_found"
	CodePlayerExpired      = "player_expired"
	CodePlayerNotFound     = "player_not_found"
	CodeGameAlreadyStarted = "game_already_started"
	CodeNotEnoughPlayers   = "not_enough_players"
	CodeNotAuthorized      = "not_authorized"
	CodeBadRequest         = "bad_request"
)

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

type GameCreatedPayload struct {
	GameID string          `json:"gameId"`
	Game   engine.Snapshot `json:"game"`
}

type PlayerJoinedPayload struct {
	Player engine.Player   `json:"player"`
	Game   engine.Snapshot `json:"game"`
}

type RoundStartPayload struct {
	DrawerID    string `json:"drawerId"`
	RoundNumber int    `json:"roundNumber"`
	TotalRounds int    `json:"totalRounds"`
	TimeLeft    int    `json:"timeLeft"`
}

type ChatMessagePayload struct {
	PlayerID     string `json:"playerId"`
	PlayerName   string `json:"playerName"`
	Message      string `json:"message"`
	IsCorrect    bool   `json:"isCorrect"`
	IsClose      bool   `json:"isClose,omitempty"`
	IsSystemLike bool   `json:"isSystemLike,omitempty"`
}

type CorrectGuessPayload struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Points     int    `json:"points"`
}

type PlayerEventPayload struct {
	PlayerID string           `json:"playerId"`
	Game     *engine.Snapshot `json:"game,omitempty"`
}

type RejoinSuccessPayload struct {
	Game          engine.Snapshot `json:"game"`
	DrawingData   []engine.Stroke `json:"drawingData"`
	CurrentWord   string          `json:"currentWord,omitempty"`
	WordHint      string          `json:"wordHint,omitempty"`
	CurrentDrawer string          `json:"currentDrawer"`
	TimeLeft      int             `json:"timeLeft"`
	RoundNumber   int             `json:"roundNumber"`
	TotalRounds   int             `json:"totalRounds"`
}

type SettingsUpdatedPayload struct {
	TotalRounds int  `json:"totalRounds"`
	RoundTime   int  `json:"roundTime"`
	CustomWords bool `json:"customWords"`
}
