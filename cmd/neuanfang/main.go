// Command neuanfang runs the moving organizer: an HTTP API over a SQLite
// inventory of rooms, boxes and items, plus maintenance subcommands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/erazemk/neuanfang/internal/config"
)

var (
	// Global flags
	cfgPath  string
	dbPath   string
	addr     string
	logPath  string
	logLevel string

	cfg      *config.Config
	closeLog = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "neuanfang",
	Short: "Umzugshelfer: rooms, boxes and items of a move",
	Long: `neuanfang keeps track of a household move. Rooms hold boxes, boxes hold
items; every box gets a QR code and can be linked to an NFC tag.

Run "neuanfang serve" to start the HTTP API.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		closeLog()
	},
}

// loadConfig reads the configuration, applies flag overrides and sets up
// logging for every subcommand.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("db") {
		loaded.Database.Path = dbPath
	}
	if flags.Changed("addr") {
		loaded.Server.Addr = addr
	}
	if flags.Changed("log") {
		loaded.Log.File = logPath
	}
	if flags.Changed("log-level") {
		loaded.Log.Level = logLevel
	}
	if err := loaded.Validate(); err != nil {
		return err
	}

	level, err := config.ParseLevel(loaded.Log.Level)
	if err != nil {
		return err
	}
	cleanup, err := setupLogger(level, loaded.Log.File)
	if err != nil {
		return err
	}

	cfg = loaded
	closeLog = cleanup
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (default: $NEUANFANG_CONFIG or ./neuanfang.yaml)")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "SQLite database path")
	rootCmd.PersistentFlags().StringVarP(&addr, "addr", "a", "", "listen address")
	rootCmd.PersistentFlags().StringVarP(&logPath, "log", "l", "", "log file path (in addition to stdout/stderr)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "export format: csv or xlsx (default from config)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file (default: stdout, csv only)")
	exportCmd.Flags().BoolVar(&exportSummary, "summary", false, "print the text summary instead of rows")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(syncCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
