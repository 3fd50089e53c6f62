package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/bits"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/state"
)

const basisPoints = 10_000

type ledger interface {
	Withdraw(ctx context.Context, identity string, amount uint64) error
	Deposit(ctx context.Context, identity string, amount uint64) error
}

// Escrow - moves money between player accounts and session pots.
type Escrow interface {
	CollectOpenFee(ctx context.Context, tx *state.Tx, identity string) error
	CollectStake(ctx context.Context, tx *state.Tx, id entity.SessionID, identity string) error
	FinishGame(ctx context.Context, tx *state.Tx, winner string, id entity.SessionID, board entity.Board) (entity.EndedGame, error)
}

type escrow struct {
	logger *slog.Logger

	ledger ledger
	board  BoardEngine
	turns  TurnArbiter

	openFee  uint64
	feeBasis uint64
}

func NewEscrow(logger *slog.Logger, ledger ledger, board BoardEngine, turns TurnArbiter, openFee, feeBasis uint64) Escrow {
	return &escrow{
		logger:   logger,
		ledger:   ledger,
		board:    board,
		turns:    turns,
		openFee:  openFee,
		feeBasis: min(feeBasis, basisPoints),
	}
}

func (that *escrow) CollectOpenFee(ctx context.Context, tx *state.Tx, identity string) error {
	if that.openFee == 0 {
		return nil
	}

	return that.withdraw(ctx, tx, identity, that.openFee)
}

// CollectStake - charges the session stake to identity and adds it to the pot.
func (that *escrow) CollectStake(ctx context.Context, tx *state.Tx, id entity.SessionID, identity string) error {
	session, ok := tx.Session(id)
	if !ok {
		return fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	pot, carry := bits.Add64(session.Pot, session.Stake, 0)
	if carry != 0 {
		return fmt.Errorf("%w: %s", apperror.ErrPotOverflow, id)
	}

	if err := that.withdraw(ctx, tx, identity, session.Stake); err != nil {
		return err
	}

	session.Pot = pot
	tx.PutSession(session)

	return nil
}

func (that *escrow) withdraw(ctx context.Context, tx *state.Tx, identity string, amount uint64) error {
	if amount == 0 {
		return nil
	}

	if err := that.ledger.Withdraw(ctx, identity, amount); err != nil {
		return fmt.Errorf("failed to withdraw %d from %s: %w", amount, identity, err)
	}

	tx.OnRollback(func() {
		if err := that.ledger.Deposit(context.WithoutCancel(ctx), identity, amount); err != nil {
			that.logger.Error("failed to refund withdrawal", "identity", identity, "amount", amount, "error", err)
		}
	})

	return nil
}

// FinishGame - tears the session down, pays the winner and archives the result.
// Once the indexes are cleared the game is over; payout and archive failures come
// back as *apperror.SettlementError and never undo the teardown.
func (that *escrow) FinishGame(
	ctx context.Context,
	tx *state.Tx,
	winner string,
	id entity.SessionID,
	board entity.Board,
) (entity.EndedGame, error) {
	log := that.logger.With("method", "FinishGame", "session", id.String())

	session, ok := tx.Session(id)
	if !ok {
		return entity.EndedGame{}, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	for _, player := range tx.Roster(id) {
		tx.DeletePlaying(player)
	}
	tx.DeleteHosting(session.Host)
	tx.DeleteRoster(id)
	tx.RemoveStarted(id)
	that.board.Clear(tx, id)
	that.turns.End(tx, id)

	session.Status = entity.StatusEnd
	tx.PutSession(session)

	ended := entity.EndedGame{
		ID:     id,
		Host:   session.Host,
		Stake:  session.Stake,
		Pot:    session.Pot,
		Reward: Reward(session.Pot, that.feeBasis),
		Winner: winner,
		Board:  board,
		Block:  session.Block,
	}

	var errs []error

	if ended.Reward > 0 {
		if err := that.ledger.Deposit(ctx, winner, ended.Reward); err != nil {
			log.Error("failed to pay reward", "winner", winner, "reward", ended.Reward, "error", err)
			errs = append(errs, fmt.Errorf("failed to pay reward: %w", err))
		}
	}

	if !tx.AppendEnded(ended) {
		log.Error("failed to archive ended game")
		errs = append(errs, fmt.Errorf("failed to archive ended game %s: %w", id, apperror.ErrArchiveFull))
	}

	if len(errs) > 0 {
		return ended, &apperror.SettlementError{Err: errors.Join(errs...)}
	}

	return ended, nil
}

// Reward - floor(pot * (10000 - feeBasis) / 10000) without intermediate overflow.
func Reward(pot, feeBasis uint64) uint64 {
	if feeBasis >= basisPoints {
		return 0
	}

	hi, lo := bits.Mul64(pot, basisPoints-feeBasis)
	quo, _ := bits.Div64(hi, lo, basisPoints)

	return quo
}
