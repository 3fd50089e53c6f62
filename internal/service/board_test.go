package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

func TestBoardEngine_ApplyMove(t *testing.T) {
	t.Run("A regular move places the stone and passes the turn", func(t *testing.T) {
		// Given: a started game where alice moves first
		c := newComponents(testLimits, nil)
		id := startedSession(t, c, "alice", "bob")
		tx := c.store.Begin()

		// When: alice plays (3, 4)
		outcome, err := c.board.ApplyMove(tx, id, "alice", 3, 4)

		// Then: her mark is at (3, 4) and it is bob's turn
		require.NoError(t, err)
		assert.Equal(t, entity.Continued, outcome)
		board, err := c.board.Board(tx, id)
		require.NoError(t, err)
		assert.Equal(t, entity.PlayerMark(0), board[3][4])
		turn, err := c.turns.WhoseTurn(tx, id)
		require.NoError(t, err)
		assert.Equal(t, "bob", turn)
	})

	t.Run("Out of turn move is refused and the board is untouched", func(t *testing.T) {
		c := newComponents(testLimits, nil)
		id := startedSession(t, c, "alice", "bob")
		tx := c.store.Begin()

		_, err := c.board.ApplyMove(tx, id, "bob", 0, 0)

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
		board, err := c.board.Board(tx, id)
		require.NoError(t, err)
		assert.Equal(t, entity.Board{}, board)
	})

	t.Run("Occupied cell is refused and the board is untouched", func(t *testing.T) {
		// Given: alice took (5, 5)
		c := newComponents(testLimits, nil)
		id := startedSession(t, c, "alice", "bob")
		tx := c.store.Begin()
		_, err := c.board.ApplyMove(tx, id, "alice", 5, 5)
		require.NoError(t, err)
		before, err := c.board.Board(tx, id)
		require.NoError(t, err)

		// When: bob plays the same cell
		_, err = c.board.ApplyMove(tx, id, "bob", 5, 5)

		// Then: CellOccupied, board and turn unchanged
		require.ErrorIs(t, err, apperror.ErrCellOccupied)
		after, err := c.board.Board(tx, id)
		require.NoError(t, err)
		assert.Equal(t, before, after)
		turn, err := c.turns.WhoseTurn(tx, id)
		require.NoError(t, err)
		assert.Equal(t, "bob", turn)
	})

	t.Run("Out of range is reported before anything else", func(t *testing.T) {
		c := newComponents(testLimits, nil)
		id := startedSession(t, c, "alice", "bob")
		tx := c.store.Begin()

		cases := []struct {
			id    entity.SessionID
			mover string
			x, y  int
		}{
			{id, "alice", 15, 0},
			{id, "alice", 0, 15},
			{id, "bob", -1, 3},
			{entity.SessionID{9}, "nobody", 100, 100},
		}

		for _, tc := range cases {
			_, err := c.board.ApplyMove(tx, tc.id, tc.mover, tc.x, tc.y)
			require.ErrorIs(t, err, apperror.ErrCoordinateOutOfRange)
		}
	})

	t.Run("No board means no active game", func(t *testing.T) {
		c := newComponents(testLimits, nil)

		_, err := c.board.ApplyMove(c.store.Begin(), entity.SessionID{9}, "alice", 1, 1)

		require.ErrorIs(t, err, apperror.ErrNoActiveGame)
	})

	t.Run("Fifth stone in a row wins and keeps the turn", func(t *testing.T) {
		// Given: alice has four stones on row y=7 and it is her move
		c := newComponents(testLimits, nil)
		id := startedSession(t, c, "alice", "bob")
		tx := c.store.Begin()

		board, err := c.board.Board(tx, id)
		require.NoError(t, err)
		for x := 3; x <= 6; x++ {
			board[x][7] = entity.PlayerMark(0)
		}
		tx.SetBoard(id, board)

		// When: she completes the line at (7, 7)
		outcome, err := c.board.ApplyMove(tx, id, "alice", 7, 7)

		// Then: Won, and the turn was not advanced
		require.NoError(t, err)
		assert.Equal(t, entity.Won, outcome)
		turn, err := c.turns.WhoseTurn(tx, id)
		require.NoError(t, err)
		assert.Equal(t, "alice", turn)
	})
}

func TestTurnArbiter(t *testing.T) {
	t.Run("Advance wraps around the roster", func(t *testing.T) {
		c := newComponents(testLimits, nil)
		tx := c.store.Begin()
		id := entity.SessionID{1}
		tx.SetRoster(id, []string{"alice", "bob", "carol"})
		c.turns.Begin(tx, id, "carol")

		next, err := c.turns.Advance(tx, id, "carol")

		require.NoError(t, err)
		assert.Equal(t, "alice", next)
		turn, err := c.turns.WhoseTurn(tx, id)
		require.NoError(t, err)
		assert.Equal(t, "alice", turn)
	})

	t.Run("Two players alternate", func(t *testing.T) {
		c := newComponents(testLimits, nil)
		tx := c.store.Begin()
		id := entity.SessionID{1}
		tx.SetRoster(id, []string{"alice", "bob"})

		next, err := c.turns.Advance(tx, id, "alice")
		require.NoError(t, err)
		assert.Equal(t, "bob", next)

		next, err = c.turns.Advance(tx, id, "bob")
		require.NoError(t, err)
		assert.Equal(t, "alice", next)
	})

	t.Run("Mover outside the roster", func(t *testing.T) {
		c := newComponents(testLimits, nil)
		tx := c.store.Begin()
		id := entity.SessionID{1}
		tx.SetRoster(id, []string{"alice", "bob"})

		_, err := c.turns.Advance(tx, id, "mallory")

		require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	})

	t.Run("Ended turn reads as no active game", func(t *testing.T) {
		c := newComponents(testLimits, nil)
		tx := c.store.Begin()
		id := entity.SessionID{1}
		c.turns.Begin(tx, id, "alice")
		c.turns.End(tx, id)

		_, err := c.turns.WhoseTurn(tx, id)

		require.ErrorIs(t, err, apperror.ErrNoActiveGame)
	})
}

func TestIdentityService(t *testing.T) {
	t.Run("Same seed and block give the same id", func(t *testing.T) {
		identity := NewIdentityService(fixedRandomness{seed: [32]byte{1}}, fixedClock{block: 5})

		first, block, err := identity.GenerateID()
		require.NoError(t, err)
		second, _, err := identity.GenerateID()
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.Equal(t, uint64(5), block)
	})

	t.Run("Different blocks give different ids", func(t *testing.T) {
		first, _, err := NewIdentityService(fixedRandomness{}, fixedClock{block: 1}).GenerateID()
		require.NoError(t, err)
		second, _, err := NewIdentityService(fixedRandomness{}, fixedClock{block: 2}).GenerateID()
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
	})

	t.Run("Host and player freedom follow the indexes", func(t *testing.T) {
		c := newComponents(testLimits, nil)
		tx := c.store.Begin()
		tx.SetHosting("alice", entity.SessionID{1})
		tx.SetPlaying("bob", entity.SessionID{1})

		assert.False(t, c.identity.IsHostFree(tx, "alice"))
		assert.True(t, c.identity.IsPlayerFree(tx, "alice"))
		assert.True(t, c.identity.IsHostFree(tx, "bob"))
		assert.False(t, c.identity.IsPlayerFree(tx, "bob"))
	})
}
