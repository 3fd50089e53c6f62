package entity

import (
	"time"

	"github.com/google/uuid"
)

type EventKind string

const (
	EventSessionOpened  EventKind = "session_opened"
	EventPlayerJoined   EventKind = "player_joined"
	EventSessionStarted EventKind = "session_started"
	EventMovePlayed     EventKind = "move_played"
	EventGameWon        EventKind = "game_won"
)

type Event struct {
	ID        string    `json:"id"`
	Kind      EventKind `json:"kind"`
	SessionID SessionID `json:"session_id"`
	Player    string    `json:"player"`
	Payload   any       `json:"payload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func NewEvent(kind EventKind, sessionID SessionID, player string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Kind:      kind,
		SessionID: sessionID,
		Player:    player,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
}

type SessionOpenedPayload struct {
	Stake uint64 `json:"stake"`
	Label string `json:"label"`
}

type MovePlayedPayload struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	NextTurn string `json:"next_turn,omitempty"`
}

type GameWonPayload struct {
	Reward uint64 `json:"reward"`
}
