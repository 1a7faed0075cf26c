package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/geochicas/mapper8m/internal/media"
	"github.com/geochicas/mapper8m/internal/pipeline"
	"github.com/geochicas/mapper8m/pkg/nominatim"
)

var (
	runFast          bool
	runMaxCandidates int
	runNoCache       bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full mapping pipeline",
	Long: `Assembles candidate URLs from the configured sources, processes each page
through the parser, relevance scorer, and field extractor, geocodes the
surviving events, optionally materializes their images, and writes the
master, uMap, and no-coordinates CSV exports.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		var geocoder pipeline.Geocoder
		if cfg.Geocode.Enabled && !runFast {
			nc, err := nominatim.New(cfg.Geocode.CachePath,
				nominatim.WithBaseURL(cfg.Geocode.BaseURL),
				nominatim.WithUserAgent(cfg.Fetch.UserAgent),
				nominatim.WithMinDelay(minDelay()),
			)
			if err != nil {
				return err
			}
			defer nc.Close()
			geocoder = nc
		}

		var images pipeline.ImageFetcher
		if cfg.Media.Enabled && !runFast {
			images = media.NewDownloader(cfg.Media.OutDir, cfg.Fetch.UserAgent)
		}

		p := pipeline.New(cfg, nil, geocoder, images)
		stats, err := p.Run(ctx, pipeline.RunOptions{
			Fast:          runFast,
			MaxCandidates: runMaxCandidates,
			NoCache:       runNoCache,
		})
		if err != nil {
			return err
		}

		zap.L().Info("exports written",
			zap.String("master", cfg.Export.MasterPath),
			zap.String("umap", cfg.Export.UMapPath),
			zap.String("no_coord", cfg.Export.NoCoordPath))
		fmt.Printf("run %s: %d candidates, %d events, %d geocoded, %d images (%s)\n",
			stats.RunID, stats.Candidates, stats.Accepted, stats.Geocoded, stats.Images,
			stats.Elapsed.Round(time.Second))
		return nil
	},
}

// minDelay converts the configured fractional seconds into a duration,
// defaulting to Nominatim's policy-safe spacing.
func minDelay() time.Duration {
	if cfg.Geocode.MinDelaySecs <= 0 {
		return 1100 * time.Millisecond
	}
	return time.Duration(cfg.Geocode.MinDelaySecs * float64(time.Second))
}

func init() {
	runCmd.Flags().BoolVar(&runFast, "fast", false, "skip geocoding and image download")
	runCmd.Flags().IntVar(&runMaxCandidates, "max-candidates", 0, "cap the candidate list (0 = configured limit)")
	runCmd.Flags().BoolVar(&runNoCache, "no-cache", false, "bypass the on-disk HTML cache")
	rootCmd.AddCommand(runCmd)
}
