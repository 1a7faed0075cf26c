package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geochicas/mapper8m/internal/pipeline"
)

var scoreCmd = &cobra.Command{
	Use:   "score <url|file>",
	Short: "Score a single page and print the signal breakdown",
	Long: `Fetches one URL (or reads a local HTML file), runs it through the parser
and relevance scorer, and prints the score with every contributing signal as
JSON. When the page clears the threshold the extracted event record is
included.

Examples:
  mapper8m score https://colectiva.example.org/convocatoria-8m
  mapper8m score saved-page.html`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := pipeline.New(cfg, nil, nil, nil)
		score, rec, err := p.ScorePage(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := struct {
			Target string `json:"target"`
			Score  any    `json:"score"`
			Event  any    `json:"event,omitempty"`
		}{Target: args[0], Score: score}
		if rec != nil {
			out.Event = rec
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return err
		}
		if !score.Accepted {
			fmt.Fprintf(os.Stderr, "rejected: %s\n", score.Signals.Reason)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
