// Package export flattens the room/box/item tree into CSV, spreadsheet and
// summary text.
package export

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/erazemk/neuanfang/internal/model"
	"github.com/erazemk/neuanfang/internal/stats"
)

// Header is the fixed first row of every export.
var Header = []string{"Raum", "Karton", "Gegenstand", "Wert", "Zerbrechlich"}

// SheetName is the worksheet used by XLSX.
const SheetName = "Inventar"

// Format selects an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Row is one exported item.
type Row struct {
	Room    string
	Box     string
	Item    string
	Value   decimal.Decimal
	Fragile bool
}

// Rows flattens rooms into one row per item, in tree order. Boxes without
// items and rooms without boxes contribute nothing.
func Rows(rooms []model.Room) []Row {
	var rows []Row
	for _, r := range rooms {
		for _, b := range r.Boxes {
			for _, it := range b.Items {
				rows = append(rows, Row{
					Room:    r.Name,
					Box:     b.Name,
					Item:    it.Name,
					Value:   it.EstimatedValue,
					Fragile: it.IsFragile,
				})
			}
		}
	}
	return rows
}

func yesNo(v bool) string {
	if v {
		return "Ja"
	}
	return "Nein"
}

// quote wraps s in double quotes and doubles any quote inside it.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// CSV renders rooms as CSV. Text fields are always quoted.
func CSV(rooms []model.Room) string {
	var b strings.Builder
	for i, h := range Header {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quote(h))
	}
	b.WriteByte('\n')

	for _, row := range Rows(rooms) {
		fmt.Fprintf(&b, "%s,%s,%s,%s,%s\n",
			quote(row.Room), quote(row.Box), quote(row.Item),
			row.Value.StringFixed(2), yesNo(row.Fragile))
	}
	return b.String()
}

// XLSX renders rooms as a spreadsheet with a bold header row.
func XLSX(rooms []model.Room) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("removing default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}
	valueStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, fmt.Errorf("creating value style: %w", err)
	}

	header := make([]any, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "E1", headerStyle); err != nil {
		return nil, fmt.Errorf("styling header: %w", err)
	}

	rows := Rows(rooms)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("addressing row %d: %w", i+2, err)
		}
		value, _ := row.Value.Round(2).Float64()
		values := []any{row.Room, row.Box, row.Item, value, yesNo(row.Fragile)}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	if len(rows) > 0 {
		last := fmt.Sprintf("D%d", len(rows)+1)
		if err := f.SetCellStyle(SheetName, "D2", last, valueStyle); err != nil {
			return nil, fmt.Errorf("styling values: %w", err)
		}
	}

	for col, width := range []float64{20, 24, 32, 12, 14} {
		name, _ := excelize.ColumnNumberToName(col + 1)
		if err := f.SetColWidth(SheetName, name, name, width); err != nil {
			return nil, fmt.Errorf("setting column width: %w", err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Write encodes rooms in format to w.
func Write(w io.Writer, format Format, rooms []model.Room) error {
	switch format {
	case FormatXLSX:
		data, err := XLSX(rooms)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	default:
		_, err := io.WriteString(w, CSV(rooms))
		return err
	}
}

// Summary describes the whole move for sharing.
func Summary(rooms []model.Room) string {
	s := stats.ComputeRoomStats(rooms)
	total := stats.TotalValue(rooms)

	var b strings.Builder
	b.WriteString("Umzugsübersicht\n")
	fmt.Fprintf(&b, "Räume: %d (%d fertig)\n", s.TotalRooms, s.CompletedRooms)
	fmt.Fprintf(&b, "Kartons: %d (%d gepackt)\n", s.TotalBoxes, s.PackedBoxes)
	fmt.Fprintf(&b, "Gegenstände: %d\n", s.TotalItems)
	fmt.Fprintf(&b, "Fortschritt: %d %%\n", percent(s.OverallProgress))
	fmt.Fprintf(&b, "Gesamtwert: %s €\n", total.StringFixed(2))

	for _, r := range rooms {
		fmt.Fprintf(&b, "\n%s (%s): %d/%d Kartons gepackt",
			r.Name, r.Type.Label(), r.PackedBoxes(), r.TotalBoxes())
		if r.IsCompleted {
			b.WriteString(", fertig")
		}
	}
	if len(rooms) > 0 {
		b.WriteByte('\n')
	}
	return b.String()
}

func percent(p float64) int {
	return int(math.Round(p * 100))
}
