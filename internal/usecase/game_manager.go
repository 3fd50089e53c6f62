package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/gomoku"
	"github.com/rocketscienceinc/gomoku-backend/internal/service"
	"github.com/rocketscienceinc/gomoku-backend/internal/state"
)

type notifier interface {
	Notify(ctx context.Context, event entity.Event)
}

type endedGameRepo interface {
	Save(ctx context.Context, game entity.EndedGame) error
	GetByID(ctx context.Context, id entity.SessionID) (entity.EndedGame, error)
	List(ctx context.Context) ([]entity.EndedGame, error)
}

// GameManager - the caller-facing entry point. Every operation runs under one lock
// inside one state transaction: it either commits whole or leaves nothing behind.
type GameManager struct {
	mu sync.Mutex

	logger *slog.Logger
	store  *state.Store

	registry service.SessionRegistry
	board    service.BoardEngine
	turns    service.TurnArbiter
	escrow   service.Escrow

	notifier      notifier
	endedGameRepo endedGameRepo
}

func NewGameManager(
	logger *slog.Logger,
	store *state.Store,
	registry service.SessionRegistry,
	board service.BoardEngine,
	turns service.TurnArbiter,
	escrow service.Escrow,
	notifier notifier,
	endedGameRepo endedGameRepo,
) *GameManager {
	return &GameManager{
		logger: logger,
		store:  store,

		registry: registry,
		board:    board,
		turns:    turns,
		escrow:   escrow,

		notifier:      notifier,
		endedGameRepo: endedGameRepo,
	}
}

func (that *GameManager) Open(ctx context.Context, caller string, stake uint64) (entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	tx := that.store.Begin()
	defer tx.Rollback()

	session, err := that.open(ctx, tx, caller, stake)
	if err != nil {
		return entity.Session{}, err
	}

	tx.Commit()

	that.logger.With("method", "Open").Info("session opened", "session", session.ID.String(), "host", caller)
	that.notify(ctx, entity.NewEvent(entity.EventSessionOpened, session.ID, caller,
		entity.SessionOpenedPayload{Stake: session.Stake, Label: session.Label}))

	return session, nil
}

func (that *GameManager) Join(ctx context.Context, caller string, id entity.SessionID) (entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	tx := that.store.Begin()
	defer tx.Rollback()

	session, err := that.join(ctx, tx, caller, id)
	if err != nil {
		return entity.Session{}, err
	}

	tx.Commit()

	that.logger.With("method", "Join").Info("player joined", "session", id.String(), "player", caller)
	that.notify(ctx, entity.NewEvent(entity.EventPlayerJoined, id, caller, nil))

	return session, nil
}

// OpenAndJoin - opens a session and seats its host in it, as one operation.
func (that *GameManager) OpenAndJoin(ctx context.Context, caller string, stake uint64) (entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	tx := that.store.Begin()
	defer tx.Rollback()

	opened, err := that.open(ctx, tx, caller, stake)
	if err != nil {
		return entity.Session{}, err
	}

	session, err := that.join(ctx, tx, caller, opened.ID)
	if err != nil {
		return entity.Session{}, err
	}

	tx.Commit()

	log := that.logger.With("method", "OpenAndJoin")
	log.Info("session opened and joined", "session", session.ID.String(), "host", caller)

	that.notify(ctx, entity.NewEvent(entity.EventSessionOpened, session.ID, caller,
		entity.SessionOpenedPayload{Stake: session.Stake, Label: session.Label}))
	that.notify(ctx, entity.NewEvent(entity.EventPlayerJoined, session.ID, caller, nil))

	return session, nil
}

func (that *GameManager) Start(ctx context.Context, caller string) (entity.Session, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	tx := that.store.Begin()
	defer tx.Rollback()

	session, err := that.registry.Start(tx, caller)
	if err != nil {
		return entity.Session{}, fmt.Errorf("failed to start session: %w", err)
	}

	tx.Commit()

	that.logger.With("method", "Start").Info("session started", "session", session.ID.String(), "caller", caller)
	that.notify(ctx, entity.NewEvent(entity.EventSessionStarted, session.ID, caller, nil))

	return session, nil
}

// Play - places the caller's stone in their active game. A winning move settles the
// game in the same call; settlement failures come back as *apperror.SettlementError
// next to a Won result, and the game stays ended.
func (that *GameManager) Play(ctx context.Context, caller string, x, y int) (entity.MoveResult, error) {
	if !gomoku.InRange(x, y) {
		return entity.MoveResult{}, fmt.Errorf("%w: (%d, %d)", apperror.ErrCoordinateOutOfRange, x, y)
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	log := that.logger.With("method", "Play")

	tx := that.store.Begin()
	defer tx.Rollback()

	id, ok := tx.Playing(caller)
	if !ok {
		return entity.MoveResult{}, fmt.Errorf("%w: %s is not playing", apperror.ErrNoActiveGame, caller)
	}

	outcome, err := that.board.ApplyMove(tx, id, caller, x, y)
	if err != nil {
		return entity.MoveResult{}, fmt.Errorf("failed to apply move: %w", err)
	}

	result := entity.MoveResult{SessionID: id, X: x, Y: y, Outcome: outcome}

	if outcome == entity.Continued {
		if result.NextTurn, err = that.turns.WhoseTurn(tx, id); err != nil {
			return entity.MoveResult{}, fmt.Errorf("failed to get next turn: %w", err)
		}

		tx.Commit()

		that.notify(ctx, entity.NewEvent(entity.EventMovePlayed, id, caller,
			entity.MovePlayedPayload{X: x, Y: y, NextTurn: result.NextTurn}))

		return result, nil
	}

	board, err := that.board.Board(tx, id)
	if err != nil {
		return entity.MoveResult{}, fmt.Errorf("failed to get board: %w", err)
	}

	ended, settleErr := that.escrow.FinishGame(ctx, tx, caller, id, board)

	var incomplete *apperror.SettlementError
	if settleErr != nil && !errors.As(settleErr, &incomplete) {
		return entity.MoveResult{}, fmt.Errorf("failed to finish game: %w", settleErr)
	}

	tx.Commit()

	result.Ended = &ended
	log.Info("game won", "session", id.String(), "winner", caller, "reward", ended.Reward)

	if that.endedGameRepo != nil && !errors.Is(settleErr, apperror.ErrArchiveFull) {
		if err = that.endedGameRepo.Save(ctx, ended); err != nil {
			log.Error("failed to mirror ended game", "session", id.String(), "error", err)
		}
	}

	that.notify(ctx, entity.NewEvent(entity.EventMovePlayed, id, caller, entity.MovePlayedPayload{X: x, Y: y}))
	that.notify(ctx, entity.NewEvent(entity.EventGameWon, id, caller, entity.GameWonPayload{Reward: ended.Reward}))

	return result, settleErr
}

func (that *GameManager) Session(id entity.SessionID) (entity.SessionView, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.registry.View(that.store.Begin(), id)
}

func (that *GameManager) OpenSessions() []entity.SessionView {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.registry.OpenSessions(that.store.Begin())
}

func (that *GameManager) StartedSessions() []entity.SessionView {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.registry.StartedSessions(that.store.Begin())
}

// GameState - board, turn and roster of a started session.
func (that *GameManager) GameState(id entity.SessionID) (entity.GameState, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	tx := that.store.Begin()

	board, err := that.board.Board(tx, id)
	if err != nil {
		return entity.GameState{}, err
	}

	turn, err := that.turns.WhoseTurn(tx, id)
	if err != nil {
		return entity.GameState{}, err
	}

	return entity.GameState{ID: id, Board: board, Turn: turn, Players: tx.Roster(id)}, nil
}

func (that *GameManager) WhoseTurn(id entity.SessionID) (string, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.turns.WhoseTurn(that.store.Begin(), id)
}

// EndedGame - looks in the in-memory archive first, then in the mirror, which also
// holds games from before a restart and games the full archive could not take.
func (that *GameManager) EndedGame(ctx context.Context, id entity.SessionID) (entity.EndedGame, error) {
	that.mu.Lock()
	game, ok := that.store.Begin().Ended(id)
	that.mu.Unlock()

	if ok {
		return game, nil
	}

	if that.endedGameRepo == nil {
		return entity.EndedGame{}, fmt.Errorf("%w: %s", apperror.ErrEndedGameMissing, id)
	}

	game, err := that.endedGameRepo.GetByID(ctx, id)
	if err != nil {
		return entity.EndedGame{}, fmt.Errorf("failed to get mirrored ended game %s: %w", id, err)
	}

	return game, nil
}

// EndedGames - the mirrored games in save order, followed by archived games the
// mirror is missing. Falls back to the in-memory archive when the mirror fails.
func (that *GameManager) EndedGames(ctx context.Context) []entity.EndedGame {
	that.mu.Lock()
	archived := that.store.Begin().EndedGames()
	that.mu.Unlock()

	if that.endedGameRepo == nil {
		return archived
	}

	mirrored, err := that.endedGameRepo.List(ctx)
	if err != nil {
		that.logger.With("method", "EndedGames").Error("failed to list mirrored ended games", "error", err)
		return archived
	}

	seen := make(map[entity.SessionID]struct{}, len(mirrored))
	for _, game := range mirrored {
		seen[game.ID] = struct{}{}
	}

	for _, game := range archived {
		if _, ok := seen[game.ID]; !ok {
			mirrored = append(mirrored, game)
		}
	}

	return mirrored
}

func (that *GameManager) open(ctx context.Context, tx *state.Tx, caller string, stake uint64) (entity.Session, error) {
	session, err := that.registry.Open(tx, caller, stake)
	if err != nil {
		return entity.Session{}, fmt.Errorf("failed to open session: %w", err)
	}

	if err = that.escrow.CollectOpenFee(ctx, tx, caller); err != nil {
		return entity.Session{}, fmt.Errorf("failed to collect open fee: %w", err)
	}

	return session, nil
}

func (that *GameManager) join(ctx context.Context, tx *state.Tx, caller string, id entity.SessionID) (entity.Session, error) {
	if _, err := that.registry.Join(tx, id, caller); err != nil {
		return entity.Session{}, fmt.Errorf("failed to join session: %w", err)
	}

	if err := that.escrow.CollectStake(ctx, tx, id, caller); err != nil {
		return entity.Session{}, fmt.Errorf("failed to collect stake: %w", err)
	}

	session, err := that.registry.Get(tx, id)
	if err != nil {
		return entity.Session{}, err
	}

	return session, nil
}

func (that *GameManager) notify(ctx context.Context, event entity.Event) {
	if that.notifier == nil {
		return
	}

	that.notifier.Notify(ctx, event)
}
