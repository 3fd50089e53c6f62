package gomoku

import (
	"fmt"

	"github.com/rocketscienceinc/gomoku-backend/internal/apperror"
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

// Axes - horizontal, vertical and both diagonals, as (dx, dy) steps.
var Axes = [4][2]int{
	{1, 0},
	{0, 1},
	{1, 1},
	{1, -1},
}

// maxWalk - cells inspected per direction away from the played cell.
const maxWalk = entity.WinLength

func InRange(x, y int) bool {
	return x >= 0 && x < entity.BoardSize && y >= 0 && y < entity.BoardSize
}

// ValidateMove - checks the target cell without touching the board.
func ValidateMove(board *entity.Board, x, y int) error {
	if !InRange(x, y) {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrCoordinateOutOfRange, x, y)
	}

	if board[x][y] != entity.EmptyCell {
		return fmt.Errorf("%w: (%d, %d)", apperror.ErrCellOccupied, x, y)
	}

	return nil
}

// Place - writes mark into (x, y) and reports whether it completed a line of five.
func Place(board *entity.Board, mark uint8, x, y int) (bool, error) {
	if err := ValidateMove(board, x, y); err != nil {
		return false, err
	}

	board[x][y] = mark

	return IsWinningMove(board, mark, x, y), nil
}

// IsWinningMove - true if the cell at (x, y) together with at least four more
// contiguous cells of the same mark forms a line on any axis.
func IsWinningMove(board *entity.Board, mark uint8, x, y int) bool {
	for _, axis := range Axes {
		count := countDirection(board, mark, x, y, axis[0], axis[1]) +
			countDirection(board, mark, x, y, -axis[0], -axis[1])

		if count >= entity.WinLength-1 {
			return true
		}
	}

	return false
}

// countDirection - same-mark cells walking from (x, y) by (dx, dy), the start excluded.
func countDirection(board *entity.Board, mark uint8, x, y, dx, dy int) int {
	count := 0

	for step := 1; step <= maxWalk; step++ {
		nx, ny := x+dx*step, y+dy*step
		if !InRange(nx, ny) || board[nx][ny] != mark {
			break
		}
		count++
	}

	return count
}
