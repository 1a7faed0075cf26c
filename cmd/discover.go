package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geochicas/mapper8m/internal/pipeline"
)

var (
	discoverMax     int
	discoverNoCache bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Assemble and print the candidate URL list",
	Long: `Loads the configured sources, fetches each seed's front page, and prints
the candidate URLs a run would process, one per line. Useful for auditing
seed quality before committing to a full run.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := pipeline.New(cfg, nil, nil, nil)
		urls, err := p.Discover(cmd.Context(), pipeline.RunOptions{
			MaxCandidates: discoverMax,
			NoCache:       discoverNoCache,
		})
		if err != nil {
			return err
		}
		for _, u := range urls {
			fmt.Println(u)
		}
		return nil
	},
}

func init() {
	discoverCmd.Flags().IntVar(&discoverMax, "max-candidates", 0, "cap the candidate list (0 = configured limit)")
	discoverCmd.Flags().BoolVar(&discoverNoCache, "no-cache", false, "bypass the on-disk HTML cache")
	rootCmd.AddCommand(discoverCmd)
}
