package state

import (
	"slices"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

// Tx - a unit of work over the Store. Every mutation records its inverse;
// Rollback replays them newest first. Rollback after Commit is a no-op.
type Tx struct {
	store *Store
	undo  []func()
	done  bool
}

// OnRollback - registers a compensation run if the transaction rolls back,
// in the same reverse order as store mutations.
func (that *Tx) OnRollback(fn func()) {
	that.undo = append(that.undo, fn)
}

func (that *Tx) Commit() {
	that.undo = nil
	that.done = true
}

func (that *Tx) Rollback() {
	if that.done {
		return
	}

	for i := len(that.undo) - 1; i >= 0; i-- {
		that.undo[i]()
	}

	that.undo = nil
	that.done = true
}

func setKey[K comparable, V any](tx *Tx, m map[K]V, key K, value V) {
	prev, had := m[key]
	m[key] = value

	tx.OnRollback(func() {
		if had {
			m[key] = prev
			return
		}
		delete(m, key)
	})
}

func deleteKey[K comparable, V any](tx *Tx, m map[K]V, key K) {
	prev, had := m[key]
	if !had {
		return
	}

	delete(m, key)

	tx.OnRollback(func() {
		m[key] = prev
	})
}

func mutateList(tx *Tx, list *boundedIDs, fn func(*boundedIDs) bool) bool {
	before := list.snapshot()
	if !fn(list) {
		return false
	}

	tx.OnRollback(func() {
		list.restore(before)
	})

	return true
}

// counter

func (that *Tx) Counter() uint64 {
	return that.store.counter
}

func (that *Tx) SetCounter(value uint64) {
	prev := that.store.counter
	that.store.counter = value

	that.OnRollback(func() {
		that.store.counter = prev
	})
}

// sessions

func (that *Tx) Session(id entity.SessionID) (entity.Session, bool) {
	session, ok := that.store.sessions[id]
	return session, ok
}

func (that *Tx) PutSession(session entity.Session) {
	setKey(that, that.store.sessions, session.ID, session)
}

func (that *Tx) Roster(id entity.SessionID) []string {
	return slices.Clone(that.store.rosters[id])
}

func (that *Tx) SetRoster(id entity.SessionID, roster []string) {
	setKey(that, that.store.rosters, id, slices.Clone(roster))
}

func (that *Tx) DeleteRoster(id entity.SessionID) {
	deleteKey(that, that.store.rosters, id)
}

// open and started listings

func (that *Tx) OpenIDs() []entity.SessionID {
	return that.store.open.snapshot()
}

func (that *Tx) IsOpen(id entity.SessionID) bool {
	return that.store.open.contains(id)
}

func (that *Tx) PushOpen(id entity.SessionID) bool {
	return mutateList(that, that.store.open, func(list *boundedIDs) bool { return list.push(id) })
}

func (that *Tx) RemoveOpen(id entity.SessionID) bool {
	return mutateList(that, that.store.open, func(list *boundedIDs) bool { return list.swapRemove(id) })
}

func (that *Tx) StartedIDs() []entity.SessionID {
	return that.store.started.snapshot()
}

func (that *Tx) IsStarted(id entity.SessionID) bool {
	return that.store.started.contains(id)
}

func (that *Tx) PushStarted(id entity.SessionID) bool {
	return mutateList(that, that.store.started, func(list *boundedIDs) bool { return list.push(id) })
}

func (that *Tx) RemoveStarted(id entity.SessionID) bool {
	return mutateList(that, that.store.started, func(list *boundedIDs) bool { return list.swapRemove(id) })
}

// hosting and playing indexes

func (that *Tx) Hosting(identity string) (entity.SessionID, bool) {
	id, ok := that.store.hosting[identity]
	return id, ok
}

func (that *Tx) SetHosting(identity string, id entity.SessionID) {
	setKey(that, that.store.hosting, identity, id)
}

func (that *Tx) DeleteHosting(identity string) {
	deleteKey(that, that.store.hosting, identity)
}

func (that *Tx) Playing(identity string) (entity.SessionID, bool) {
	id, ok := that.store.playing[identity]
	return id, ok
}

func (that *Tx) SetPlaying(identity string, id entity.SessionID) {
	setKey(that, that.store.playing, identity, id)
}

func (that *Tx) DeletePlaying(identity string) {
	deleteKey(that, that.store.playing, identity)
}

// boards and turns

func (that *Tx) Board(id entity.SessionID) (entity.Board, bool) {
	board, ok := that.store.boards[id]
	return board, ok
}

func (that *Tx) SetBoard(id entity.SessionID, board entity.Board) {
	setKey(that, that.store.boards, id, board)
}

func (that *Tx) DeleteBoard(id entity.SessionID) {
	deleteKey(that, that.store.boards, id)
}

func (that *Tx) Turn(id entity.SessionID) (string, bool) {
	turn, ok := that.store.turns[id]
	return turn, ok
}

func (that *Tx) SetTurn(id entity.SessionID, identity string) {
	setKey(that, that.store.turns, id, identity)
}

func (that *Tx) DeleteTurn(id entity.SessionID) {
	deleteKey(that, that.store.turns, id)
}

// ended games archive

// AppendEnded - false when the archive is at capacity or already holds the id.
func (that *Tx) AppendEnded(game entity.EndedGame) bool {
	if _, exists := that.store.ended[game.ID]; exists {
		return false
	}

	if !mutateList(that, that.store.endedOrder, func(list *boundedIDs) bool { return list.push(game.ID) }) {
		return false
	}

	setKey(that, that.store.ended, game.ID, game)

	return true
}

func (that *Tx) Ended(id entity.SessionID) (entity.EndedGame, bool) {
	game, ok := that.store.ended[id]
	return game, ok
}

// EndedGames - archive in append order.
func (that *Tx) EndedGames() []entity.EndedGame {
	out := make([]entity.EndedGame, 0, len(that.store.endedOrder.ids))
	for _, id := range that.store.endedOrder.ids {
		out = append(out, that.store.ended[id])
	}

	return out
}
