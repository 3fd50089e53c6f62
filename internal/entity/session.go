package entity

import (
	"encoding/hex"
	"errors"
	"fmt"
)

const (
	StatusOpen   = "open"
	StatusStart  = "start"
	StatusEnd    = "end"
	StatusCancel = "cancel" // declared for completeness, no operation reaches it
)

const SessionIDSize = 32

var ErrInvalidSessionID = errors.New("invalid session id")

// SessionID - opaque 32-byte identifier, hex encoded on the wire.
type SessionID [SessionIDSize]byte

func ParseSessionID(s string) (SessionID, error) {
	var id SessionID

	raw, err := hex.DecodeString(s)
	if err != nil {
		return id, fmt.Errorf("%w: %w", ErrInvalidSessionID, err)
	}

	if len(raw) != SessionIDSize {
		return id, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidSessionID, SessionIDSize, len(raw))
	}

	copy(id[:], raw)

	return id, nil
}

func (that SessionID) String() string {
	return hex.EncodeToString(that[:])
}

func (that SessionID) IsZero() bool {
	return that == SessionID{}
}

func (that SessionID) MarshalText() ([]byte, error) {
	return []byte(that.String()), nil
}

func (that *SessionID) UnmarshalText(text []byte) error {
	id, err := ParseSessionID(string(text))
	if err != nil {
		return err
	}

	*that = id

	return nil
}

type Session struct {
	ID     SessionID `json:"id"`
	Host   string    `json:"host"`
	Label  string    `json:"label"`
	Stake  uint64    `json:"stake"`
	Pot    uint64    `json:"pot"`
	Status string    `json:"status"`
	Block  uint64    `json:"block"`
}

func (that *Session) IsOpen() bool {
	return that.Status == StatusOpen
}

func (that *Session) IsStarted() bool {
	return that.Status == StatusStart
}

func (that *Session) IsEnded() bool {
	return that.Status == StatusEnd
}

// SessionView - a session together with its roster, as returned to callers.
type SessionView struct {
	Session
	Players []string `json:"players"`
}
