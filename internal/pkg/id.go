package pkg

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/crypto/blake2b"

	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

// CryptoRandomness - seeds read from crypto/rand.
type CryptoRandomness struct{}

func (CryptoRandomness) Seed() ([32]byte, error) {
	var seed [32]byte
	if _, err := rand.Read(seed[:]); err != nil {
		return seed, fmt.Errorf("failed to read random seed: %w", err)
	}

	return seed, nil
}

// BlockClock - monotonically increasing block counter. Every read advances it,
// so two reads never return the same height.
type BlockClock struct {
	height atomic.Uint64
}

// NewBlockClock - starts counting from the current unix time in seconds.
func NewBlockClock() *BlockClock {
	clock := &BlockClock{}
	clock.height.Store(uint64(time.Now().Unix())) //nolint: gosec // unix time is positive

	return clock
}

func (that *BlockClock) BlockNumber() uint64 {
	return that.height.Add(1)
}

// HashSessionID - blake2b-256 over the seed followed by the little-endian block number.
func HashSessionID(seed [32]byte, block uint64) entity.SessionID {
	payload := make([]byte, 0, len(seed)+8)
	payload = append(payload, seed[:]...)
	payload = binary.LittleEndian.AppendUint64(payload, block)

	return blake2b.Sum256(payload)
}
