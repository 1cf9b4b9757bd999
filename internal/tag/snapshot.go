// Package tag builds the shareable view of a box and manages the QR and
// NFC labels attached to it.
package tag

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/erazemk/neuanfang/internal/model"
)

// Snapshot is a flat, serializable view of a box and its items. It is
// built on demand and never cached.
type Snapshot struct {
	Code     string          `json:"code"`
	Box      string          `json:"box"`
	Room     string          `json:"room,omitempty"`
	Packed   bool            `json:"packed"`
	Priority model.Priority  `json:"priority"`
	Value    decimal.Decimal `json:"value"`
	Items    []SnapshotItem  `json:"items"`
}

// SnapshotItem is one item line of a Snapshot.
type SnapshotItem struct {
	Name    string          `json:"name"`
	Fragile bool            `json:"fragile,omitempty"`
	Value   decimal.Decimal `json:"value"`
}

// NewSnapshot projects box and its loaded items. room may be nil. A nil box
// yields nil.
func NewSnapshot(room *model.Room, box *model.Box) *Snapshot {
	if box == nil {
		return nil
	}
	s := &Snapshot{
		Code:     box.QRCode,
		Box:      box.Name,
		Packed:   box.IsPacked,
		Priority: box.Priority,
		Value:    box.EstimatedValue,
		Items:    make([]SnapshotItem, 0, len(box.Items)),
	}
	if room != nil {
		s.Room = room.Name
	}
	for _, it := range box.Items {
		s.Items = append(s.Items, SnapshotItem{Name: it.Name, Fragile: it.IsFragile, Value: it.EstimatedValue})
	}
	return s
}

// Encode returns the compact JSON payload written to labels.
func (s *Snapshot) Encode() (string, error) {
	if s == nil {
		return "", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("encoding snapshot: %w", err)
	}
	return string(b), nil
}

// ShareText renders the snapshot for humans.
func (s *Snapshot) ShareText() string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Karton: %s", s.Box)
	if s.Room != "" {
		fmt.Fprintf(&b, " (%s)", s.Room)
	}
	b.WriteString("\n")

	status := "Nicht gepackt"
	if s.Packed {
		status = "Gepackt"
	}
	fmt.Fprintf(&b, "Status: %s\n", status)
	fmt.Fprintf(&b, "Priorität: %s\n", s.Priority.Label())
	if s.Value.IsPositive() {
		fmt.Fprintf(&b, "Wert: %s €\n", s.Value.StringFixed(2))
	}

	if len(s.Items) == 0 {
		b.WriteString("Keine Gegenstände\n")
	} else {
		fmt.Fprintf(&b, "Inhalt (%d):\n", len(s.Items))
		for _, it := range s.Items {
			fmt.Fprintf(&b, "- %s", it.Name)
			if it.Fragile {
				b.WriteString(" (zerbrechlich)")
			}
			b.WriteString("\n")
		}
	}
	fmt.Fprintf(&b, "Code: %s\n", s.Code)
	return b.String()
}
