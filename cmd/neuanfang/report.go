package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/neuanfang/internal/export"
	"github.com/erazemk/neuanfang/internal/stats"
	"github.com/erazemk/neuanfang/internal/store"
)

var (
	exportFormat  string
	exportOut     string
	exportSummary bool
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all items as CSV or XLSX",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func runExport(cmd *cobra.Command, _ []string) error {
	name := exportFormat
	if name == "" {
		name = cfg.Export.Format
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		return err
	}
	if format == export.FormatXLSX && exportOut == "" && !exportSummary {
		return fmt.Errorf("xlsx export needs --out")
	}

	database, err := openDatabase(cmd.Context(), cfg.Database.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	rooms, err := store.LoadTree(cmd.Context(), database)
	if err != nil {
		return err
	}

	var w io.Writer = cmd.OutOrStdout()
	if exportOut != "" {
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if exportSummary {
		_, err = io.WriteString(w, export.Summary(rooms))
		return err
	}
	if err := export.Write(w, format, rooms); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	if exportOut != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d items to %s\n", len(export.Rows(rooms)), exportOut)
	}
	return nil
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print packing statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		database, err := openDatabase(cmd.Context(), cfg.Database.Path)
		if err != nil {
			return err
		}
		defer database.Close()

		rooms, err := store.LoadTree(cmd.Context(), database)
		if err != nil {
			return err
		}
		printStats(cmd.OutOrStdout(), stats.ComputeRoomStats(rooms))
		return nil
	},
}

func printStats(w io.Writer, s stats.RoomStats) {
	fmt.Fprintf(w, "Rooms:    %d (%d completed)\n", s.TotalRooms, s.CompletedRooms)
	fmt.Fprintf(w, "Boxes:    %d (%d packed)\n", s.TotalBoxes, s.PackedBoxes)
	fmt.Fprintf(w, "Items:    %d\n", s.TotalItems)
	fmt.Fprintf(w, "Progress: %.0f%%\n", s.OverallProgress*100)
}
