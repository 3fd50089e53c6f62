package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/testing/suite"
)

func TestLedgerRepository_Withdraw(t *testing.T) {
	t.Run("Withdraw_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		ledger := NewLedgerRepository(st.Storage)

		// Given: an account holding 100
		require.NoError(t, ledger.CreateAccount(ctx, "alice", 100))

		// When: 40 is withdrawn
		err := ledger.Withdraw(ctx, "alice", 40)

		// Then: 60 is left
		require.NoError(t, err)
		balance, err := ledger.Balance(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, uint64(60), balance)
	})

	t.Run("Withdraw_InsufficientFunds", func(t *testing.T) {
		ctx, st := suite.New(t)

		ledger := NewLedgerRepository(st.Storage)

		// Given: an account holding 10
		require.NoError(t, ledger.CreateAccount(ctx, "alice", 10))

		// When: 11 is withdrawn
		err := ledger.Withdraw(ctx, "alice", 11)

		// Then: the withdrawal is refused and the balance is unchanged
		require.ErrorIs(t, err, apperror.ErrInsufficientFunds)
		balance, err := ledger.Balance(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, uint64(10), balance)
	})

	t.Run("Withdraw_MissingAccount", func(t *testing.T) {
		ctx, st := suite.New(t)

		ledger := NewLedgerRepository(st.Storage)

		// When: withdrawing from an account that was never created
		err := ledger.Withdraw(ctx, "nobody", 1)

		// Then: it reads as insufficient funds
		require.ErrorIs(t, err, apperror.ErrInsufficientFunds)
	})
}

func TestLedgerRepository_Deposit(t *testing.T) {
	t.Run("Deposit_Success", func(t *testing.T) {
		ctx, st := suite.New(t)

		ledger := NewLedgerRepository(st.Storage)

		// Given: an existing account
		require.NoError(t, ledger.CreateAccount(ctx, "bob", 5))

		// When: 198 is deposited
		err := ledger.Deposit(ctx, "bob", 198)

		// Then: the balance grows by 198
		require.NoError(t, err)
		balance, err := ledger.Balance(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, uint64(203), balance)
	})

	t.Run("Deposit_MissingAccount", func(t *testing.T) {
		ctx, st := suite.New(t)

		ledger := NewLedgerRepository(st.Storage)

		// When: depositing into an account that does not exist
		err := ledger.Deposit(ctx, "nobody", 1)

		// Then: the deposit fails and no account is created
		require.ErrorIs(t, err, apperror.ErrDepositFailed)
		_, err = ledger.Balance(ctx, "nobody")
		assert.ErrorIs(t, err, apperror.ErrAccountNotFound)
	})
}

func TestLedgerRepository_CreateAccount(t *testing.T) {
	ctx, st := suite.New(t)

	ledger := NewLedgerRepository(st.Storage)

	// Given: an account holding 100
	require.NoError(t, ledger.CreateAccount(ctx, "alice", 100))

	// When: the account is created again with another balance
	err := ledger.CreateAccount(ctx, "alice", 1)

	// Then: the original balance is kept
	require.NoError(t, err)
	balance, err := ledger.Balance(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, uint64(100), balance)
}
