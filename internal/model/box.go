package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Box is a moving box inside a room. It owns its items.
type Box struct {
	ID             string          `json:"id"`
	RoomID         string          `json:"room_id"`
	Name           string          `json:"name"`
	Notes          string          `json:"notes,omitempty"`
	Priority       Priority        `json:"priority"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	IsPacked       bool            `json:"is_packed"`
	QRCode         string          `json:"qr_code"`
	NFCTag         string          `json:"nfc_tag,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`

	// Loaded tree (not always populated).
	Items []Item `json:"items,omitempty"`
}

// Priority is the unpacking urgency of a box. Higher values are more urgent.
type Priority int

// Priorities.
const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityUrgent
)

// DefaultPriority is given to boxes created without a priority.
const DefaultPriority = PriorityMedium

var priorityNames = []string{"low", "medium", "high", "urgent"}

var priorityLabels = []string{"Niedrig", "Mittel", "Hoch", "Dringend"}

// Valid reports whether p is a known priority.
func (p Priority) Valid() bool {
	return p >= PriorityLow && p <= PriorityUrgent
}

// String returns the wire name of the priority.
func (p Priority) String() string {
	if !p.Valid() {
		return "unknown"
	}
	return priorityNames[p]
}

// Label returns the German display label of the priority.
func (p Priority) Label() string {
	if !p.Valid() {
		return p.String()
	}
	return priorityLabels[p]
}

// ParsePriority parses a wire name into a priority.
func ParsePriority(s string) (Priority, bool) {
	for i, n := range priorityNames {
		if n == strings.ToLower(strings.TrimSpace(s)) {
			return Priority(i), true
		}
	}
	return PriorityMedium, false
}

// Ptr returns a pointer to a copy of p.
func (p Priority) Ptr() *Priority {
	return &p
}

// MarshalText encodes the priority by name.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a priority name. Unknown names decode to an invalid
// priority so validation can report them.
func (p *Priority) UnmarshalText(b []byte) error {
	parsed, ok := ParsePriority(string(b))
	if !ok {
		*p = Priority(-1)
		return nil
	}
	*p = parsed
	return nil
}

// TotalValue returns the sum of the box's item values.
func (b Box) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, it := range b.Items {
		total = total.Add(it.EstimatedValue)
	}
	return total
}

// RiskLevel returns the highest risk among the box's items.
func (b Box) RiskLevel() RiskLevel {
	level := RiskLow
	for _, it := range b.Items {
		if r := it.RiskLevel(); r > level {
			level = r
		}
	}
	return level
}

// NewQRCode returns a new box label token. It combines a millisecond
// timestamp with random bits (UUIDv7); it is not collision-proof and must not
// be treated as a secret.
func NewQRCode() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return "BOX-" + strings.ToUpper(id.String()), nil
}

// NewID returns a new opaque entity id.
func NewID() string {
	return uuid.NewString()
}

// BoxInput holds the user-editable fields of a box.
type BoxInput struct {
	Name           string          `json:"name"`
	Notes          string          `json:"notes"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`

	// Priority is nil when not given. New boxes then get DefaultPriority
	// and updates keep the stored one.
	Priority *Priority `json:"priority,omitempty"`
}

// PriorityOr returns the given priority, or def when none was given.
func (in BoxInput) PriorityOr(def Priority) Priority {
	if in.Priority == nil {
		return def
	}
	return *in.Priority
}
