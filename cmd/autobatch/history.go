// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/autobatch/internal/journal"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent conversions from the journal",
	Long: `History reads the conversion journal (enabled with --journal or the
journal config key) and prints the most recent attempts, newest first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := viper.GetString("journal")
		if path == "" {
			return errors.New("no journal configured: set --journal or journal in autobatch.yaml")
		}
		limit, _ := cmd.Flags().GetInt("limit")
		asYAML, _ := cmd.Flags().GetBool("yaml")

		store, err := journal.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()

		attempts, err := store.Recent(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if asYAML {
			return journal.WriteYAML(cmd.OutOrStdout(), attempts)
		}
		journal.WriteTable(cmd.OutOrStdout(), attempts)
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of attempts to list")
	historyCmd.Flags().Bool("yaml", false, "output as YAML")

	rootCmd.AddCommand(historyCmd)
}
