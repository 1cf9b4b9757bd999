package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the database and the owner account",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path := cfg.Database.Path
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("database %s already exists", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("checking database: %w", err)
		}

		database, err := openDatabase(cmd.Context(), path)
		if err != nil {
			return err
		}
		defer database.Close()

		password, err := ensureOwner(cmd.Context(), database, cfg.Auth.OwnerName)
		if err != nil {
			database.Close()
			os.Remove(path)
			return err
		}
		printInitResult(cmd.OutOrStdout(), path, cfg.Auth.OwnerName, password)
		return nil
	},
}
