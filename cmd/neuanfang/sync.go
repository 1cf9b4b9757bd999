package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/erazemk/neuanfang/internal/store"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push the current state to the sync remote once",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		database, err := openDatabase(cmd.Context(), cfg.Database.Path)
		if err != nil {
			return err
		}
		defer database.Close()

		facade := newFacade(cfg.Sync, store.New(database))
		if err := facade.Restore(cmd.Context()); err != nil {
			return err
		}
		if err := facade.Refresh(cmd.Context()); err != nil {
			return err
		}

		st := facade.State()
		fmt.Fprintf(cmd.OutOrStdout(), "Sync %s at %s\n", st.Status, st.LastSuccess.Local().Format(time.DateTime))
		return nil
	},
}
