package state

import (
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

type Limits struct {
	MaxOpenSessions    int
	MaxStartedSessions int
	MaxEndedGames      int
}

// Store - every piece of game state, owned by a single writer.
// All access goes through a Tx.
type Store struct {
	counter uint64

	sessions map[entity.SessionID]entity.Session
	rosters  map[entity.SessionID][]string
	open     *boundedIDs
	started  *boundedIDs

	hosting map[string]entity.SessionID
	playing map[string]entity.SessionID

	boards map[entity.SessionID]entity.Board
	turns  map[entity.SessionID]string

	ended      map[entity.SessionID]entity.EndedGame
	endedOrder *boundedIDs
}

func New(limits Limits) *Store {
	return &Store{
		sessions:   make(map[entity.SessionID]entity.Session),
		rosters:    make(map[entity.SessionID][]string),
		open:       newBoundedIDs(limits.MaxOpenSessions),
		started:    newBoundedIDs(limits.MaxStartedSessions),
		hosting:    make(map[string]entity.SessionID),
		playing:    make(map[string]entity.SessionID),
		boards:     make(map[entity.SessionID]entity.Board),
		turns:      make(map[entity.SessionID]string),
		ended:      make(map[entity.SessionID]entity.EndedGame),
		endedOrder: newBoundedIDs(limits.MaxEndedGames),
	}
}

// Begin - starts a transaction. The caller must serialize transactions.
func (that *Store) Begin() *Tx {
	return &Tx{store: that}
}
