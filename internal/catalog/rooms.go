package catalog

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/erazemk/neuanfang/internal/model"
)

// RoomFilter selects rooms by packing state.
type RoomFilter string

// Room filters.
const (
	RoomsAll        RoomFilter = "all"
	RoomsCompleted  RoomFilter = "completed"
	RoomsInProgress RoomFilter = "in_progress"
	RoomsNotStarted RoomFilter = "not_started"
	RoomsHasBoxes   RoomFilter = "has_boxes"
)

// Match reports whether the room passes the filter.
func (f RoomFilter) Match(r model.Room) bool {
	switch f {
	case RoomsCompleted:
		return r.IsCompleted
	case RoomsInProgress:
		return r.CompletionStatus() == model.StatusInProgress
	case RoomsNotStarted:
		return r.CompletionStatus() == model.StatusNotStarted
	case RoomsHasBoxes:
		return r.TotalBoxes() > 0
	default:
		return true
	}
}

// ParseRoomFilter parses a filter name. Empty input selects all rooms.
func ParseRoomFilter(s string) (RoomFilter, error) {
	switch f := RoomFilter(s); f {
	case "":
		return RoomsAll, nil
	case RoomsAll, RoomsCompleted, RoomsInProgress, RoomsNotStarted, RoomsHasBoxes:
		return f, nil
	default:
		return "", fmt.Errorf("unknown room filter %q", s)
	}
}

// RoomSort orders rooms.
type RoomSort string

// Room sort keys.
const (
	SortRoomsByName       RoomSort = "name"
	SortRoomsByProgress   RoomSort = "progress"
	SortRoomsByCreatedAt  RoomSort = "created_at"
	SortRoomsByTotalBoxes RoomSort = "total_boxes"
	SortRoomsByType       RoomSort = "room_type"
)

// ParseRoomSort parses a sort key. Empty input sorts by name.
func ParseRoomSort(s string) (RoomSort, error) {
	switch k := RoomSort(s); k {
	case "":
		return SortRoomsByName, nil
	case SortRoomsByName, SortRoomsByProgress, SortRoomsByCreatedAt, SortRoomsByTotalBoxes, SortRoomsByType:
		return k, nil
	default:
		return "", fmt.Errorf("unknown room sort %q", s)
	}
}

func (k RoomSort) compare(a, b model.Room) int {
	switch k {
	case SortRoomsByProgress:
		return cmp.Compare(b.PackingProgress(), a.PackingProgress())
	case SortRoomsByCreatedAt:
		return b.CreatedAt.Compare(a.CreatedAt)
	case SortRoomsByTotalBoxes:
		return cmp.Compare(b.TotalBoxes(), a.TotalBoxes())
	case SortRoomsByType:
		return cmp.Compare(fold(a.Type.Label()), fold(b.Type.Label()))
	default:
		return cmp.Compare(fold(a.Name), fold(b.Name))
	}
}

// SortRooms returns the rooms ordered by key. Progress, creation time and box
// count sort descending; name and type ascending.
func SortRooms(rooms []model.Room, key RoomSort) []model.Room {
	out := slices.Clone(rooms)
	slices.SortStableFunc(out, key.compare)
	return out
}

// RoomQuery is the user's current view over the room list.
type RoomQuery struct {
	Search string
	Sort   RoomSort
	Filter RoomFilter
}

// Apply filters, searches and sorts rooms.
func (q RoomQuery) Apply(rooms []model.Room) []model.Room {
	m := newMatcher(q.Search)
	out := make([]model.Room, 0, len(rooms))
	for _, r := range rooms {
		if q.Filter.Match(r) && m.match(r.Name, r.Type.Label()) {
			out = append(out, r)
		}
	}
	slices.SortStableFunc(out, q.Sort.compare)
	return out
}
