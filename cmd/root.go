package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geochicas/mapper8m/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "mapper8m",
	Short: "8M mobilization mapper",
	Long:  "Crawls feminist collectives' sites, scores pages for 8 March mobilization announcements, extracts event fields, and exports map-ready CSVs.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
