package state

import (
	"github.com/rocketscienceinc/gomoku-backend/internal/entity"
)

// boundedIDs - fixed-capacity id list. Removal swaps the found element with the
// last one and truncates, so order is not preserved.
type boundedIDs struct {
	ids      []entity.SessionID
	capacity int
}

func newBoundedIDs(capacity int) *boundedIDs {
	return &boundedIDs{
		ids:      make([]entity.SessionID, 0, capacity),
		capacity: capacity,
	}
}

func (that *boundedIDs) push(id entity.SessionID) bool {
	if len(that.ids) >= that.capacity {
		return false
	}

	that.ids = append(that.ids, id)

	return true
}

func (that *boundedIDs) index(id entity.SessionID) int {
	for i, existing := range that.ids {
		if existing == id {
			return i
		}
	}

	return -1
}

func (that *boundedIDs) contains(id entity.SessionID) bool {
	return that.index(id) >= 0
}

func (that *boundedIDs) swapRemove(id entity.SessionID) bool {
	i := that.index(id)
	if i < 0 {
		return false
	}

	last := len(that.ids) - 1
	that.ids[i] = that.ids[last]
	that.ids = that.ids[:last]

	return true
}

func (that *boundedIDs) snapshot() []entity.SessionID {
	out := make([]entity.SessionID, len(that.ids))
	copy(out, that.ids)

	return out
}

func (that *boundedIDs) restore(ids []entity.SessionID) {
	that.ids = append(that.ids[:0], ids...)
}
