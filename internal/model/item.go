package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Item is a physical object packed into a box. The photo blob is owned by
// the item but loaded separately.
type Item struct {
	ID             string          `json:"id"`
	BoxID          string          `json:"box_id"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	Category       Category        `json:"category"`
	IsFragile      bool            `json:"is_fragile"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
	PhotoMime      string          `json:"photo_mime,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// HasPhoto reports whether a photo is attached.
func (it Item) HasPhoto() bool {
	return it.PhotoMime != ""
}

// SearchText is the text matched by item searches.
func (it Item) SearchText() string {
	if it.Description == "" {
		return it.Name
	}
	return it.Name + " " + it.Description
}

// Category is the kind of an item.
type Category string

// Item categories.
const (
	CategoryElectronics Category = "electronics"
	CategoryKitchen     Category = "kitchen"
	CategoryClothing    Category = "clothing"
	CategoryBooks       Category = "books"
	CategoryFurniture   Category = "furniture"
	CategoryDecoration  Category = "decoration"
	CategoryTools       Category = "tools"
	CategoryToys        Category = "toys"
	CategoryDocuments   Category = "documents"
	CategoryBathroom    Category = "bathroom"
	CategorySports      Category = "sports"
	CategoryOther       Category = "other"
)

// Categories lists all item categories in display order.
var Categories = []Category{
	CategoryElectronics, CategoryKitchen, CategoryClothing, CategoryBooks,
	CategoryFurniture, CategoryDecoration, CategoryTools, CategoryToys,
	CategoryDocuments, CategoryBathroom, CategorySports, CategoryOther,
}

var categoryLabels = map[Category]string{
	CategoryElectronics: "Elektronik",
	CategoryKitchen:     "Küche",
	CategoryClothing:    "Kleidung",
	CategoryBooks:       "Bücher",
	CategoryFurniture:   "Möbel",
	CategoryDecoration:  "Dekoration",
	CategoryTools:       "Werkzeug",
	CategoryToys:        "Spielzeug",
	CategoryDocuments:   "Dokumente",
	CategoryBathroom:    "Bad",
	CategorySports:      "Sport",
	CategoryOther:       "Sonstiges",
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label returns the German display label of the category.
func (c Category) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

// RiskLevel is the transport risk of an item.
type RiskLevel int

// Risk levels, ordered by severity.
const (
	RiskLow RiskLevel = iota
	RiskMedium
	RiskHigh
)

var riskNames = []string{"low", "medium", "high"}

// String returns the wire name of the risk level.
func (r RiskLevel) String() string {
	if r < RiskLow || r > RiskHigh {
		return "unknown"
	}
	return riskNames[r]
}

// MarshalText encodes the risk level by name.
func (r RiskLevel) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText decodes a risk level name.
func (r *RiskLevel) UnmarshalText(b []byte) error {
	for i, name := range riskNames {
		if name == string(b) {
			*r = RiskLevel(i)
			return nil
		}
	}
	return fmt.Errorf("unknown risk level %q", b)
}

// Value thresholds used for risk and stats.
var (
	HighValueThreshold = decimal.NewFromInt(100)
	PreciousThreshold  = decimal.NewFromInt(500)
)

// IsHighValue reports whether the item is worth more than HighValueThreshold.
func (it Item) IsHighValue() bool {
	return it.EstimatedValue.GreaterThan(HighValueThreshold)
}

// RiskLevel classifies the item. Fragile items are at least medium risk.
func (it Item) RiskLevel() RiskLevel {
	switch {
	case it.EstimatedValue.GreaterThan(PreciousThreshold):
		return RiskHigh
	case it.IsFragile && it.IsHighValue():
		return RiskHigh
	case it.IsFragile || it.IsHighValue():
		return RiskMedium
	default:
		return RiskLow
	}
}

// ItemInput holds the user-editable fields of an item.
type ItemInput struct {
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Category       Category        `json:"category"`
	IsFragile      bool            `json:"is_fragile"`
	EstimatedValue decimal.Decimal `json:"estimated_value"`
}
