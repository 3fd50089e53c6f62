package service

import (
	"fmt"
	"slices"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/state"
)

// TurnArbiter - tracks whose move is next per session.
type TurnArbiter interface {
	WhoseTurn(tx *state.Tx, id entity.SessionID) (string, error)
	Begin(tx *state.Tx, id entity.SessionID, first string)
	Advance(tx *state.Tx, id entity.SessionID, mover string) (string, error)
	End(tx *state.Tx, id entity.SessionID)
}

type turnArbiter struct{}

func NewTurnArbiter() TurnArbiter {
	return &turnArbiter{}
}

func (that *turnArbiter) WhoseTurn(tx *state.Tx, id entity.SessionID) (string, error) {
	turn, ok := tx.Turn(id)
	if !ok {
		return "", fmt.Errorf("%w: no turn for session %s", apperror.ErrNoActiveGame, id)
	}

	return turn, nil
}

func (that *turnArbiter) Begin(tx *state.Tx, id entity.SessionID, first string) {
	tx.SetTurn(id, first)
}

// Advance - hands the turn to the roster entry after mover, wrapping around.
func (that *turnArbiter) Advance(tx *state.Tx, id entity.SessionID, mover string) (string, error) {
	roster := tx.Roster(id)

	i := slices.Index(roster, mover)
	if i < 0 {
		return "", fmt.Errorf("%w: %s is not in session %s", apperror.ErrNotYourTurn, mover, id)
	}

	next := roster[(i+1)%len(roster)]
	tx.SetTurn(id, next)

	return next, nil
}

func (that *turnArbiter) End(tx *state.Tx, id entity.SessionID) {
	tx.DeleteTurn(id)
}
