package repository

import (
	"context"
	"math/bits"
	"sync"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

// MemoryLedger - process-local LedgerRepository used when no Redis is configured.
type MemoryLedger struct {
	mu       sync.Mutex
	balances map[string]uint64
}

func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{
		balances: make(map[string]uint64),
	}
}

func (that *MemoryLedger) CreateAccount(_ context.Context, identity string, balance uint64) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	if _, ok := that.balances[identity]; !ok {
		that.balances[identity] = balance
	}

	return nil
}

func (that *MemoryLedger) Balance(_ context.Context, identity string) (uint64, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	balance, ok := that.balances[identity]
	if !ok {
		return 0, apperror.ErrAccountNotFound
	}

	return balance, nil
}

func (that *MemoryLedger) Withdraw(_ context.Context, identity string, amount uint64) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	balance, ok := that.balances[identity]
	if !ok || balance < amount {
		return apperror.ErrInsufficientFunds
	}

	that.balances[identity] = balance - amount

	return nil
}

func (that *MemoryLedger) Deposit(_ context.Context, identity string, amount uint64) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	balance, ok := that.balances[identity]
	if !ok {
		return apperror.ErrDepositFailed
	}

	total, carry := bits.Add64(balance, amount, 0)
	if carry != 0 {
		return apperror.ErrDepositFailed
	}

	that.balances[identity] = total

	return nil
}
