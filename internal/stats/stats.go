// Package stats computes rollups over the room/box/item tree.
package stats

import (
	"github.com/shopspring/decimal"

	"github.com/erazemk/neuanfang/internal/model"
)

// RoomStats summarizes the whole move.
type RoomStats struct {
	TotalRooms      int     `json:"total_rooms"`
	CompletedRooms  int     `json:"completed_rooms"`
	TotalBoxes      int     `json:"total_boxes"`
	PackedBoxes     int     `json:"packed_boxes"`
	TotalItems      int     `json:"total_items"`
	OverallProgress float64 `json:"overall_progress"`
}

// ComputeRoomStats aggregates the full room collection. Overall progress is
// the mean of the rooms' packing progress, not the box ratio.
func ComputeRoomStats(rooms []model.Room) RoomStats {
	var s RoomStats
	var progress float64
	for _, r := range rooms {
		s.TotalRooms++
		if r.IsCompleted {
			s.CompletedRooms++
		}
		s.TotalBoxes += r.TotalBoxes()
		s.PackedBoxes += r.PackedBoxes()
		s.TotalItems += r.TotalItems()
		progress += r.PackingProgress()
	}
	if s.TotalRooms > 0 {
		s.OverallProgress = progress / float64(s.TotalRooms)
	}
	return s
}

// BoxStats summarizes the items of one box.
type BoxStats struct {
	TotalItems          int                    `json:"total_items"`
	TotalValue          decimal.Decimal        `json:"total_value"`
	FragileItemsCount   int                    `json:"fragile_items_count"`
	HighValueItemsCount int                    `json:"high_value_items_count"`
	CategoryCounts      map[model.Category]int `json:"category_counts"`
	RiskLevel           model.RiskLevel        `json:"risk_level"`
}

// ComputeBoxStats aggregates the items of a box.
func ComputeBoxStats(items []model.Item) BoxStats {
	s := BoxStats{
		TotalValue:     decimal.Zero,
		CategoryCounts: make(map[model.Category]int),
		RiskLevel:      model.RiskLow,
	}
	for _, it := range items {
		s.TotalItems++
		s.TotalValue = s.TotalValue.Add(it.EstimatedValue)
		if it.IsFragile {
			s.FragileItemsCount++
		}
		if it.IsHighValue() {
			s.HighValueItemsCount++
		}
		s.CategoryCounts[it.Category]++
		if r := it.RiskLevel(); r > s.RiskLevel {
			s.RiskLevel = r
		}
	}
	return s
}

// TotalValue sums item values across all rooms.
func TotalValue(rooms []model.Room) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rooms {
		for _, b := range r.Boxes {
			total = total.Add(b.TotalValue())
		}
	}
	return total
}
