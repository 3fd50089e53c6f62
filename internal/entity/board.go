package entity

const (
	BoardSize = 15
	WinLength = 5

	EmptyCell uint8 = 0
)

type MoveOutcome string

const (
	Continued MoveOutcome = "continued"
	Won       MoveOutcome = "won"
)

// Board - cell marks indexed as [x][y]; a mark is the player's roster slot plus one.
type Board [BoardSize][BoardSize]uint8

// PlayerMark - board mark for a roster slot.
func PlayerMark(slot int) uint8 {
	return uint8(slot + 1) //nolint: gosec // roster size is bounded by config
}

type EndedGame struct {
	ID     SessionID `json:"id"`
	Host   string    `json:"host"`
	Stake  uint64    `json:"stake"`
	Pot    uint64    `json:"pot"`
	Reward uint64    `json:"reward"`
	Winner string    `json:"winner"`
	Board  Board     `json:"board"`
	Block  uint64    `json:"block"`
}

// GameState - board snapshot for an in-progress session.
type GameState struct {
	ID      SessionID `json:"id"`
	Board   Board     `json:"board"`
	Turn    string    `json:"turn"`
	Players []string  `json:"players"`
}

// MoveResult - what a single Play call did. Ended is set only when the move won.
type MoveResult struct {
	SessionID SessionID   `json:"session_id"`
	X         int         `json:"x"`
	Y         int         `json:"y"`
	Outcome   MoveOutcome `json:"outcome"`
	NextTurn  string      `json:"next_turn,omitempty"`
	Ended     *EndedGame  `json:"ended,omitempty"`
}
