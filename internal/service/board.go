package service

import (
	"fmt"
	"slices"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
	"github.com/rocketscienceinc/gomoku-backend/internal/state"
)

// BoardEngine - owns the grid of every started session.
type BoardEngine interface {
	Init(tx *state.Tx, id entity.SessionID)
	Board(tx *state.Tx, id entity.SessionID) (entity.Board, error)
	ApplyMove(tx *state.Tx, id entity.SessionID, mover string, x, y int) (entity.MoveOutcome, error)
	Clear(tx *state.Tx, id entity.SessionID)
}

type boardEngine struct {
	turns TurnArbiter
}

func NewBoardEngine(turns TurnArbiter) BoardEngine {
	return &boardEngine{
		turns: turns,
	}
}

func (that *boardEngine) Init(tx *state.Tx, id entity.SessionID) {
	tx.SetBoard(id, entity.Board{})
}

func (that *boardEngine) Board(tx *state.Tx, id entity.SessionID) (entity.Board, error) {
	board, ok := tx.Board(id)
	if !ok {
		return entity.Board{}, fmt.Errorf("%w: no board for session %s", apperror.ErrNoActiveGame, id)
	}

	return board, nil
}

// ApplyMove - validates and plays mover's stone at (x, y). On Continued the turn
// has passed to the next player; on Won the turn is left untouched for settlement.
func (that *boardEngine) ApplyMove(tx *state.Tx, id entity.SessionID, mover string, x, y int) (entity.MoveOutcome, error) {
	if !gomoku.InRange(x, y) {
		return "", fmt.Errorf("%w: (%d, %d)", apperror.ErrCoordinateOutOfRange, x, y)
	}

	board, err := that.Board(tx, id)
	if err != nil {
		return "", err
	}

	turn, err := that.turns.WhoseTurn(tx, id)
	if err != nil {
		return "", err
	}

	if turn != mover {
		return "", apperror.ErrNotYourTurn
	}

	slot := slices.Index(tx.Roster(id), mover)
	if slot < 0 {
		return "", fmt.Errorf("%w: %s is not in session %s", apperror.ErrNotYourTurn, mover, id)
	}

	won, err := gomoku.Place(&board, entity.PlayerMark(slot), x, y)
	if err != nil {
		return "", err
	}

	tx.SetBoard(id, board)

	if won {
		return entity.Won, nil
	}

	if _, err = that.turns.Advance(tx, id, mover); err != nil {
		return "", fmt.Errorf("failed to advance turn: %w", err)
	}

	return entity.Continued, nil
}

func (that *boardEngine) Clear(tx *state.Tx, id entity.SessionID) {
	tx.DeleteBoard(id)
}
