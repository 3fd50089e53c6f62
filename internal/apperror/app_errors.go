package apperror

import (
	"errors"
	"fmt"
)

// not found.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrNoActiveGame     = errors.New("no active game")
	ErrEndedGameMissing = errors.New("ended game not found")
	ErrAccountNotFound  = errors.New("account not found")
)

// state conflicts.
var (
	ErrSessionNotOpen       = errors.New("session is not open")
	ErrHostAlreadyHosting   = errors.New("player is already hosting a session")
	ErrPlayerAlreadyPlaying = errors.New("player is already playing a session")
	ErrCallerNotPlaying     = errors.New("player is not playing any session")
	ErrNotEnoughPlayers     = errors.New("not enough players to start")
	ErrNotYourTurn          = errors.New("it's not your turn")
	ErrCellOccupied         = errors.New("cell is already occupied")
	ErrCoordinateOutOfRange = errors.New("coordinate is out of range")
	ErrIDAlreadyUsed        = errors.New("session id is already used")
)

// capacity.
var (
	ErrOpenSlotsExceeded    = errors.New("too many open sessions")
	ErrStartedSlotsExceeded = errors.New("too many started sessions")
	ErrRosterFull           = errors.New("session roster is full")
	ErrArchiveFull          = errors.New("ended game archive is full")
)

// overflow.
var (
	ErrSessionCounterOverflow = errors.New("session counter overflow")
	ErrPotOverflow            = errors.New("session pot overflow")
)

// funds.
var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrDepositFailed     = errors.New("deposit failed: account does not exist")
)

type Kind string

const (
	KindNotFound Kind = "not_found"
	KindConflict Kind = "conflict"
	KindCapacity Kind = "capacity"
	KindOverflow Kind = "overflow"
	KindFunds    Kind = "funds"
	KindInternal Kind = "internal"
)

var kinds = []struct {
	kind Kind
	errs []error
}{
	{KindNotFound, []error{ErrSessionNotFound, ErrNoActiveGame, ErrEndedGameMissing, ErrAccountNotFound}},
	{KindConflict, []error{
		ErrSessionNotOpen, ErrHostAlreadyHosting, ErrPlayerAlreadyPlaying, ErrCallerNotPlaying,
		ErrNotEnoughPlayers, ErrNotYourTurn, ErrCellOccupied, ErrCoordinateOutOfRange, ErrIDAlreadyUsed,
	}},
	{KindCapacity, []error{ErrOpenSlotsExceeded, ErrStartedSlotsExceeded, ErrRosterFull, ErrArchiveFull}},
	{KindOverflow, []error{ErrSessionCounterOverflow, ErrPotOverflow}},
	{KindFunds, []error{ErrInsufficientFunds, ErrDepositFailed}},
}

// KindOf - classifies an error returned by the game core.
func KindOf(err error) Kind {
	for _, group := range kinds {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.kind
			}
		}
	}

	return KindInternal
}

// SettlementError - payout or archive failures that happened after a game was already won.
// The game is over regardless, so these never roll anything back.
type SettlementError struct {
	Err error
}

func (that *SettlementError) Error() string {
	return fmt.Sprintf("settlement incomplete: %v", that.Err)
}

func (that *SettlementError) Unwrap() error {
	return that.Err
}
