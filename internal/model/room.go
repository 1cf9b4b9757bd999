package model

import "time"

// Room is a physical room of the old home. It owns its boxes.
type Room struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Type        RoomType  `json:"type"`
	ColorTag    string    `json:"color_tag"`
	IsCompleted bool      `json:"is_completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Loaded tree (not always populated).
	Boxes []Box `json:"boxes,omitempty"`
}

// RoomType classifies a room.
type RoomType string

// Room types.
const (
	RoomLivingRoom   RoomType = "living_room"
	RoomBedroom      RoomType = "bedroom"
	RoomKitchen      RoomType = "kitchen"
	RoomBathroom     RoomType = "bathroom"
	RoomOffice       RoomType = "office"
	RoomChildrenRoom RoomType = "children_room"
	RoomDiningRoom   RoomType = "dining_room"
	RoomHallway      RoomType = "hallway"
	RoomBasement     RoomType = "basement"
	RoomAttic        RoomType = "attic"
	RoomGarage       RoomType = "garage"
	RoomOther        RoomType = "other"
)

// RoomTypes lists all room types in display order.
var RoomTypes = []RoomType{
	RoomLivingRoom, RoomBedroom, RoomKitchen, RoomBathroom, RoomOffice,
	RoomChildrenRoom, RoomDiningRoom, RoomHallway, RoomBasement, RoomAttic,
	RoomGarage, RoomOther,
}

var roomTypeLabels = map[RoomType]string{
	RoomLivingRoom:   "Wohnzimmer",
	RoomBedroom:      "Schlafzimmer",
	RoomKitchen:      "Küche",
	RoomBathroom:     "Badezimmer",
	RoomOffice:       "Arbeitszimmer",
	RoomChildrenRoom: "Kinderzimmer",
	RoomDiningRoom:   "Esszimmer",
	RoomHallway:      "Flur",
	RoomBasement:     "Keller",
	RoomAttic:        "Dachboden",
	RoomGarage:       "Garage",
	RoomOther:        "Sonstiges",
}

// Valid reports whether t is a known room type.
func (t RoomType) Valid() bool {
	_, ok := roomTypeLabels[t]
	return ok
}

// Label returns the German display label of the room type.
func (t RoomType) Label() string {
	if l, ok := roomTypeLabels[t]; ok {
		return l
	}
	return string(t)
}

// Color tags available for rooms.
var ColorTags = []string{"blue", "green", "orange", "red", "purple", "yellow", "teal", "gray"}

// DefaultColorTag is used when a room is created without a color.
const DefaultColorTag = "blue"

// ValidColorTag reports whether c is part of the palette.
func ValidColorTag(c string) bool {
	for _, t := range ColorTags {
		if t == c {
			return true
		}
	}
	return false
}

// CompletionStatus is the packing state of a room.
type CompletionStatus string

// Completion statuses.
const (
	StatusNotStarted CompletionStatus = "not_started"
	StatusInProgress CompletionStatus = "in_progress"
	StatusCompleted  CompletionStatus = "completed"
)

// TotalBoxes returns the number of boxes in the room.
func (r Room) TotalBoxes() int {
	return len(r.Boxes)
}

// PackedBoxes returns the number of packed boxes in the room.
func (r Room) PackedBoxes() int {
	n := 0
	for _, b := range r.Boxes {
		if b.IsPacked {
			n++
		}
	}
	return n
}

// TotalItems returns the number of items across all boxes of the room.
func (r Room) TotalItems() int {
	n := 0
	for _, b := range r.Boxes {
		n += len(b.Items)
	}
	return n
}

// PackingProgress returns packed/total boxes in [0, 1]. A room without boxes
// has no progress.
func (r Room) PackingProgress() float64 {
	total := r.TotalBoxes()
	if total == 0 {
		return 0
	}
	return float64(r.PackedBoxes()) / float64(total)
}

// CompletionStatus derives the room's packing state. A room only counts as
// completed once the user marked it so, even if every box is packed.
func (r Room) CompletionStatus() CompletionStatus {
	switch {
	case r.IsCompleted:
		return StatusCompleted
	case r.PackedBoxes() == 0:
		return StatusNotStarted
	default:
		return StatusInProgress
	}
}

// RoomInput holds the user-editable fields of a room.
type RoomInput struct {
	Name     string   `json:"name"`
	Type     RoomType `json:"type"`
	ColorTag string   `json:"color_tag"`
}
