package service

import (
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/pkg"
	"github.com/rocketscienceinc/gomoku-backend/internal/state"
)

// SessionRegistry - owns sessions, rosters and the open/started listings.
type SessionRegistry interface {
	Open(tx *state.Tx, host string, stake uint64) (entity.Session, error)
	Join(tx *state.Tx, id entity.SessionID, player string) (entity.Session, error)
	Start(tx *state.Tx, caller string) (entity.Session, error)

	Get(tx *state.Tx, id entity.SessionID) (entity.Session, error)
	View(tx *state.Tx, id entity.SessionID) (entity.SessionView, error)
	ActiveSessionOf(tx *state.Tx, identity string) (entity.SessionID, error)
	OpenSessions(tx *state.Tx) []entity.SessionView
	StartedSessions(tx *state.Tx) []entity.SessionView
}

type sessionRegistry struct {
	maxPlayers int

	identity IdentityService
	board    BoardEngine
	turns    TurnArbiter
}

func NewSessionRegistry(maxPlayers int, identity IdentityService, board BoardEngine, turns TurnArbiter) SessionRegistry {
	return &sessionRegistry{
		maxPlayers: maxPlayers,
		identity:   identity,
		board:      board,
		turns:      turns,
	}
}

func (that *sessionRegistry) Open(tx *state.Tx, host string, stake uint64) (entity.Session, error) {
	if !that.identity.IsHostFree(tx, host) {
		return entity.Session{}, fmt.Errorf("%w: %s", apperror.ErrHostAlreadyHosting, host)
	}

	counter := tx.Counter()
	if counter == ^uint64(0) {
		return entity.Session{}, apperror.ErrSessionCounterOverflow
	}
	tx.SetCounter(counter + 1)

	id, block, err := that.identity.GenerateID()
	if err != nil {
		return entity.Session{}, fmt.Errorf("failed to generate session id: %w", err)
	}

	if err = that.identity.EnsureUnused(tx, id); err != nil {
		return entity.Session{}, err
	}

	if !tx.PushOpen(id) {
		return entity.Session{}, apperror.ErrOpenSlotsExceeded
	}

	session := entity.Session{
		ID:     id,
		Host:   host,
		Label:  pkg.SessionLabel(),
		Stake:  stake,
		Status: entity.StatusOpen,
		Block:  block,
	}

	tx.PutSession(session)
	tx.SetHosting(host, id)

	return session, nil
}

func (that *sessionRegistry) Join(tx *state.Tx, id entity.SessionID, player string) (entity.Session, error) {
	session, err := that.Get(tx, id)
	if err != nil {
		return entity.Session{}, err
	}

	if !session.IsOpen() || !tx.IsOpen(id) {
		return entity.Session{}, fmt.Errorf("%w: %s", apperror.ErrSessionNotOpen, id)
	}

	if !that.identity.IsPlayerFree(tx, player) {
		return entity.Session{}, fmt.Errorf("%w: %s", apperror.ErrPlayerAlreadyPlaying, player)
	}

	roster := tx.Roster(id)
	if len(roster) >= that.maxPlayers {
		return entity.Session{}, fmt.Errorf("%w: %s", apperror.ErrRosterFull, id)
	}

	tx.SetRoster(id, append(roster, player))
	tx.SetPlaying(player, id)

	return session, nil
}

// Start - moves the caller's session from open to started, lays out an empty
// board and gives the first move to the caller.
func (that *sessionRegistry) Start(tx *state.Tx, caller string) (entity.Session, error) {
	id, err := that.ActiveSessionOf(tx, caller)
	if err != nil {
		return entity.Session{}, err
	}

	if len(tx.Roster(id)) != that.maxPlayers {
		return entity.Session{}, fmt.Errorf("%w: %d of %d", apperror.ErrNotEnoughPlayers, len(tx.Roster(id)), that.maxPlayers)
	}

	session, err := that.Get(tx, id)
	if err != nil {
		return entity.Session{}, err
	}

	if !tx.RemoveOpen(id) {
		return entity.Session{}, fmt.Errorf("%w: %s is not open", apperror.ErrSessionNotFound, id)
	}

	if !tx.PushStarted(id) {
		return entity.Session{}, apperror.ErrStartedSlotsExceeded
	}

	session.Status = entity.StatusStart
	tx.PutSession(session)

	that.board.Init(tx, id)
	that.turns.Begin(tx, id, caller)

	return session, nil
}

func (that *sessionRegistry) Get(tx *state.Tx, id entity.SessionID) (entity.Session, error) {
	session, ok := tx.Session(id)
	if !ok {
		return entity.Session{}, fmt.Errorf("%w: %s", apperror.ErrSessionNotFound, id)
	}

	return session, nil
}

func (that *sessionRegistry) View(tx *state.Tx, id entity.SessionID) (entity.SessionView, error) {
	session, err := that.Get(tx, id)
	if err != nil {
		return entity.SessionView{}, err
	}

	return entity.SessionView{Session: session, Players: tx.Roster(id)}, nil
}

func (that *sessionRegistry) ActiveSessionOf(tx *state.Tx, identity string) (entity.SessionID, error) {
	id, ok := tx.Playing(identity)
	if !ok {
		return entity.SessionID{}, fmt.Errorf("%w: %s", apperror.ErrCallerNotPlaying, identity)
	}

	return id, nil
}

func (that *sessionRegistry) OpenSessions(tx *state.Tx) []entity.SessionView {
	return that.views(tx, tx.OpenIDs())
}

func (that *sessionRegistry) StartedSessions(tx *state.Tx) []entity.SessionView {
	return that.views(tx, tx.StartedIDs())
}

func (that *sessionRegistry) views(tx *state.Tx, ids []entity.SessionID) []entity.SessionView {
	out := make([]entity.SessionView, 0, len(ids))

	for _, id := range ids {
		view, err := that.View(tx, id)
		if err != nil {
			continue
		}
		out = append(out, view)
	}

	return out
}
