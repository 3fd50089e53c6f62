package service

import (
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
	"github.com/rocketscienceinc/gomoku-backend/internal/pkg"
	"github.com/rocketscienceinc/gomoku-backend/internal/state"
)

type randomness interface {
	Seed() ([32]byte, error)
}

type blockClock interface {
	BlockNumber() uint64
}

// IdentityService - mints session ids and answers "who is hosting / playing".
type IdentityService interface {
	GenerateID() (entity.SessionID, uint64, error)
	EnsureUnused(tx *state.Tx, id entity.SessionID) error

	IsHostFree(tx *state.Tx, identity string) bool
	IsPlayerFree(tx *state.Tx, identity string) bool
}

type identityService struct {
	random randomness
	clock  blockClock
}

func NewIdentityService(random randomness, clock blockClock) IdentityService {
	return &identityService{
		random: random,
		clock:  clock,
	}
}

// GenerateID - returns the new id together with the block number mixed into it.
func (that *identityService) GenerateID() (entity.SessionID, uint64, error) {
	seed, err := that.random.Seed()
	if err != nil {
		return entity.SessionID{}, 0, fmt.Errorf("failed to get id entropy: %w", err)
	}

	block := that.clock.BlockNumber()

	return pkg.HashSessionID(seed, block), block, nil
}

func (that *identityService) EnsureUnused(tx *state.Tx, id entity.SessionID) error {
	if _, exists := tx.Session(id); exists {
		return fmt.Errorf("%w: %s", apperror.ErrIDAlreadyUsed, id)
	}

	return nil
}

func (that *identityService) IsHostFree(tx *state.Tx, identity string) bool {
	_, hosting := tx.Hosting(identity)
	return !hosting
}

func (that *identityService) IsPlayerFree(tx *state.Tx, identity string) bool {
	_, playing := tx.Playing(identity)
	return !playing
}
