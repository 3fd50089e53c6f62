package repository

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
)

const balanceKeyPrefix = "balance:"

// withdrawScript returns -1 when the account is missing or short of funds.
var withdrawScript = redis.NewScript(`
local balance = redis.call('GET', KEYS[1])
if not balance then
	return -1
end
local amount = tonumber(ARGV[1])
if tonumber(balance) < amount then
	return -1
end
return redis.call('DECRBY', KEYS[1], amount)
`)

// depositScript credits only accounts that already exist; -1 otherwise.
var depositScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
return redis.call('INCRBY', KEYS[1], ARGV[1])
`)

type LedgerRepository interface {
	CreateAccount(ctx context.Context, identity string, balance uint64) error
	Balance(ctx context.Context, identity string) (uint64, error)
	Withdraw(ctx context.Context, identity string, amount uint64) error
	Deposit(ctx context.Context, identity string, amount uint64) error
}

type dbLedger struct {
	client *redis.Client
}

func NewLedgerRepository(client *redis.Client) LedgerRepository {
	return &dbLedger{
		client: client,
	}
}

// CreateAccount - opens an account with the given balance; an existing account is left untouched.
func (that *dbLedger) CreateAccount(ctx context.Context, identity string, balance uint64) error {
	if balance > math.MaxInt64 {
		return fmt.Errorf("balance %d is too large", balance)
	}

	if err := that.client.SetNX(ctx, balanceKeyPrefix+identity, balance, 0).Err(); err != nil {
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

func (that *dbLedger) Balance(ctx context.Context, identity string) (uint64, error) {
	response, err := that.client.Get(ctx, balanceKeyPrefix+identity).Result()
	if errors.Is(err, redis.Nil) {
		return 0, apperror.ErrAccountNotFound
	}

	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}

	balance, err := strconv.ParseUint(response, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse balance: %w", err)
	}

	return balance, nil
}

func (that *dbLedger) Withdraw(ctx context.Context, identity string, amount uint64) error {
	if amount > math.MaxInt64 {
		return apperror.ErrInsufficientFunds
	}

	left, err := withdrawScript.Run(ctx, that.client, []string{balanceKeyPrefix + identity}, amount).Int64()
	if err != nil {
		return fmt.Errorf("failed to withdraw: %w", err)
	}

	if left < 0 {
		return apperror.ErrInsufficientFunds
	}

	return nil
}

func (that *dbLedger) Deposit(ctx context.Context, identity string, amount uint64) error {
	if amount > math.MaxInt64 {
		return fmt.Errorf("%w: amount %d is too large", apperror.ErrDepositFailed, amount)
	}

	total, err := depositScript.Run(ctx, that.client, []string{balanceKeyPrefix + identity}, amount).Int64()
	if err != nil {
		return fmt.Errorf("failed to deposit: %w", err)
	}

	if total < 0 {
		return apperror.ErrDepositFailed
	}

	return nil
}
