// Package pipeline orchestrates a full mapping run: candidate assembly,
// parallel page processing through the parse/score/extract core, then the
// geocode and image enrichment phases and the CSV exports.
package pipeline

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/geochicas/mapper8m/internal/config"
	"github.com/geochicas/mapper8m/internal/crawl"
	"github.com/geochicas/mapper8m/internal/export"
	"github.com/geochicas/mapper8m/internal/extract"
	"github.com/geochicas/mapper8m/internal/fetch"
	"github.com/geochicas/mapper8m/internal/model"
	"github.com/geochicas/mapper8m/internal/parse"
	"github.com/geochicas/mapper8m/internal/scorer"
	"github.com/geochicas/mapper8m/internal/sources"
	"github.com/geochicas/mapper8m/pkg/nominatim"
)

// Geocoder resolves a free-form place query, satisfied by nominatim.Client.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*nominatim.Result, error)
}

// ImageFetcher materializes an image, satisfied by media.Downloader.
type ImageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (string, error)
}

// Fetcher downloads a page, satisfied by fetch.Client.
type Fetcher interface {
	Page(ctx context.Context, rawURL string, useCache bool) string
}

// Pipeline wires the run together. Build one with New and call Run.
type Pipeline struct {
	cfg      *config.Config
	fetcher  Fetcher
	geocoder Geocoder
	images   ImageFetcher
}

// New creates a Pipeline. A nil fetcher gets the default HTTP client;
// geocoder and images may stay nil, which skips those phases.
func New(cfg *config.Config, fetcher Fetcher, geocoder Geocoder, images ImageFetcher) *Pipeline {
	if fetcher == nil {
		fetcher = fetch.New(fetch.Options{
			UserAgent:      cfg.Fetch.UserAgent,
			Timeout:        cfg.Fetch.Timeout(),
			MaxRetries:     cfg.Fetch.MaxRetries,
			RequestsPerSec: cfg.Fetch.RequestsPerSec,
			CacheDir:       cfg.Fetch.CacheDir,
		})
	}
	return &Pipeline{cfg: cfg, fetcher: fetcher, geocoder: geocoder, images: images}
}

// RunOptions tweaks a single invocation.
type RunOptions struct {
	// Fast skips the geocode and image phases.
	Fast bool
	// MaxCandidates overrides the configured total cap when positive.
	MaxCandidates int
	// NoCache bypasses the HTML cache.
	NoCache bool
}

// Stats summarizes a finished run.
type Stats struct {
	RunID      string
	Candidates int
	Fetched    int
	Parsed     int
	Accepted   int
	Geocoded   int
	Images     int
	Elapsed    time.Duration
}

// Run executes the whole pipeline and writes the exports. Individual page
// failures are logged and skipped; only setup and export errors abort.
func (p *Pipeline) Run(ctx context.Context, opts RunOptions) (*Stats, error) {
	runID := uuid.New().String()
	start := time.Now()
	log := zap.L().With(zap.String("run_id", runID))

	core, err := p.buildCore()
	if err != nil {
		return nil, err
	}

	candidates, err := p.Discover(ctx, opts)
	if err != nil {
		return nil, err
	}
	log.Info("candidates assembled", zap.Int("total", len(candidates)))

	stats := &Stats{RunID: runID, Candidates: len(candidates)}
	records := p.processAll(ctx, log, core, candidates, opts, stats)

	if !opts.Fast {
		p.geocodePhase(ctx, log, records, stats)
		p.imagePhase(ctx, log, records, stats)
	}

	if err := export.WriteAll(records, export.Options{
		MasterPath:    p.cfg.Export.MasterPath,
		UMapPath:      p.cfg.Export.UMapPath,
		NoCoordPath:   p.cfg.Export.NoCoordPath,
		MinScore:      p.cfg.Export.MinScore,
		PublicBaseURL: p.cfg.Export.PublicBaseURL,
	}); err != nil {
		return nil, err
	}

	stats.Elapsed = time.Since(start)
	log.Info("run finished",
		zap.Int("candidates", stats.Candidates),
		zap.Int("fetched", stats.Fetched),
		zap.Int("accepted", stats.Accepted),
		zap.Int("geocoded", stats.Geocoded),
		zap.Int("images", stats.Images),
		zap.Duration("elapsed", stats.Elapsed))
	return stats, nil
}

// Discover assembles the candidate URL list without processing it.
func (p *Pipeline) Discover(ctx context.Context, opts RunOptions) ([]string, error) {
	bundle, err := sources.LoadSources(p.cfg.Sources.SourcesFile)
	if err != nil {
		return nil, err
	}

	limits := crawl.Limits{
		MaxSeeds:           p.cfg.Crawl.MaxSeeds,
		MaxPagesPerSeed:    p.cfg.Crawl.MaxPagesPerSeed,
		MaxPriorityURLs:    p.cfg.Crawl.MaxPriorityURLs,
		MaxTotalCandidates: p.cfg.Crawl.MaxTotalCandidates,
	}
	if opts.MaxCandidates > 0 {
		limits.MaxTotalCandidates = opts.MaxCandidates
	}
	return crawl.Candidates(ctx, p.fetcher, bundle.Priority, bundle.Seeds, limits, p.useCache(opts)), nil
}

// core bundles the per-run scoring and extraction components.
type core struct {
	scorer    *scorer.Scorer
	extractor *extract.Extractor
}

func (p *Pipeline) buildCore() (*core, error) {
	keywords, err := sources.LoadKeywords(p.cfg.Sources.KeywordsFile)
	if err != nil {
		return nil, err
	}
	cities, err := sources.LoadCities(p.cfg.Sources.CitiesFile)
	if err != nil {
		return nil, err
	}
	return &core{
		scorer:    scorer.New(p.cfg.Scorer, keywords),
		extractor: extract.New(extract.Config{Cities: cities}),
	}, nil
}

func (p *Pipeline) processAll(ctx context.Context, log *zap.Logger, c *core, candidates []string, opts RunOptions, stats *Stats) []*model.EventRecord {
	concurrency := p.cfg.Run.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}
	progressEvery := p.cfg.Run.ProgressEvery
	if progressEvery <= 0 {
		progressEvery = 25
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	type indexed struct {
		order int
		rec   *model.EventRecord
	}
	var mu sync.Mutex
	var results []indexed
	var done int

	for i, rawURL := range candidates {
		g.Go(func() error {
			rec := p.processOne(gCtx, c, rawURL, opts, stats, &mu)

			mu.Lock()
			done++
			if rec != nil {
				results = append(results, indexed{order: i, rec: rec})
			}
			if done%progressEvery == 0 {
				log.Info("progress",
					zap.Int("processed", done),
					zap.Int("total", len(candidates)),
					zap.Int("events", len(results)))
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	// Candidate order keeps runs reproducible regardless of goroutine
	// scheduling.
	sort.Slice(results, func(i, j int) bool { return results[i].order < results[j].order })
	records := make([]*model.EventRecord, 0, len(results))
	for _, r := range results {
		records = append(records, r.rec)
	}
	stats.Accepted = len(records)
	return records
}

// processOne runs one URL through fetch, parse, the score gate, and
// extraction. A nil return means no event for any reason.
func (p *Pipeline) processOne(ctx context.Context, c *core, rawURL string, opts RunOptions, stats *Stats, mu *sync.Mutex) *model.EventRecord {
	urlCtx, cancel := context.WithTimeout(ctx, p.urlTimeout())
	defer cancel()

	html := p.fetcher.Page(urlCtx, rawURL, p.useCache(opts))
	if html == "" {
		return nil
	}
	mu.Lock()
	stats.Fetched++
	mu.Unlock()

	doc, err := parse.Parse(rawURL, html)
	if err != nil {
		zap.L().Debug("pipeline: unparseable page", zap.String("url", rawURL), zap.Error(err))
		return nil
	}
	mu.Lock()
	stats.Parsed++
	mu.Unlock()

	score := c.scorer.Score(doc)
	if !score.Accepted {
		zap.L().Debug("pipeline: rejected",
			zap.String("url", rawURL),
			zap.Int("score", score.Score),
			zap.String("reason", string(score.Signals.Reason)))
		return nil
	}

	return c.extractor.Extract(doc, score)
}

// geocodePhase fills coordinates for records that lack them. Sequential:
// Nominatim's rate budget makes parallelism pointless.
func (p *Pipeline) geocodePhase(ctx context.Context, log *zap.Logger, records []*model.EventRecord, stats *Stats) {
	if p.geocoder == nil || !p.cfg.Geocode.Enabled {
		return
	}
	for _, rec := range records {
		if rec.HasCoordinates() {
			continue
		}
		query := rec.GeocodeQuery()
		if query == "" {
			continue
		}
		res, err := p.geocoder.Geocode(ctx, query)
		if err != nil {
			log.Debug("geocode failed", zap.String("query", query), zap.Error(err))
			continue
		}
		if res == nil {
			continue
		}
		rec.Lat = res.Lat
		rec.Lon = res.Lon
		if rec.LocationPrecision == "" {
			rec.LocationPrecision = locationPrecision(rec)
		}
		stats.Geocoded++
	}
}

// locationPrecision reflects what the geocode query was built from.
func locationPrecision(rec *model.EventRecord) string {
	if rec.Address != "" || rec.ExactLocation != "" {
		return "exacta"
	}
	if rec.City != "" {
		return "ciudad"
	}
	return "pais"
}

// imagePhase downloads each record's best image candidate.
func (p *Pipeline) imagePhase(ctx context.Context, log *zap.Logger, records []*model.EventRecord, stats *Stats) {
	if p.images == nil || !p.cfg.Media.Enabled {
		return
	}
	for _, rec := range records {
		if rec.Image == "" {
			continue
		}
		file, err := p.images.Fetch(ctx, rec.Image)
		if err != nil {
			log.Debug("image download failed", zap.String("url", rec.Image), zap.Error(err))
			continue
		}
		rec.ImageFile = file
		stats.Images++
	}
}

func (p *Pipeline) useCache(opts RunOptions) bool {
	return p.cfg.Fetch.UseCache && !opts.NoCache
}

func (p *Pipeline) urlTimeout() time.Duration {
	if d := p.cfg.Run.URLTimeout(); d > 0 {
		return d
	}
	return 35 * time.Second
}
