package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Sources SourcesConfig `yaml:"sources" mapstructure:"sources"`
	Crawl   CrawlConfig   `yaml:"crawl" mapstructure:"crawl"`
	Fetch   FetchConfig   `yaml:"fetch" mapstructure:"fetch"`
	Scorer  ScorerConfig  `yaml:"scorer" mapstructure:"scorer"`
	Geocode GeocodeConfig `yaml:"geocode" mapstructure:"geocode"`
	Media   MediaConfig   `yaml:"media" mapstructure:"media"`
	Export  ExportConfig  `yaml:"export" mapstructure:"export"`
	Run     RunConfig     `yaml:"run" mapstructure:"run"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// SourcesConfig points at the seed/keyword/city inputs.
type SourcesConfig struct {
	SourcesFile  string `yaml:"sources_file" mapstructure:"sources_file"`
	KeywordsFile string `yaml:"keywords_file" mapstructure:"keywords_file"`
	CitiesFile   string `yaml:"cities_file" mapstructure:"cities_file"`
}

// CrawlConfig bounds candidate discovery.
type CrawlConfig struct {
	MaxSeeds           int `yaml:"max_seeds" mapstructure:"max_seeds"`
	MaxPagesPerSeed    int `yaml:"max_pages_per_seed" mapstructure:"max_pages_per_seed"`
	MaxPriorityURLs    int `yaml:"max_priority_urls" mapstructure:"max_priority_urls"`
	MaxTotalCandidates int `yaml:"max_total_candidates" mapstructure:"max_total_candidates"`
}

// FetchConfig configures the HTTP fetcher and its on-disk cache.
type FetchConfig struct {
	UserAgent      string  `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs    int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries     int     `yaml:"max_retries" mapstructure:"max_retries"`
	RequestsPerSec float64 `yaml:"requests_per_sec" mapstructure:"requests_per_sec"`
	CacheDir       string  `yaml:"cache_dir" mapstructure:"cache_dir"`
	UseCache       bool    `yaml:"use_cache" mapstructure:"use_cache"`
}

// Timeout returns the per-request timeout.
func (f FetchConfig) Timeout() time.Duration {
	return time.Duration(f.TimeoutSecs) * time.Second
}

// ScorerConfig exposes the relevance thresholds as configuration rather than
// hardcoded forks.
type ScorerConfig struct {
	Threshold      int `yaml:"threshold" mapstructure:"threshold"`
	MinTextLength  int `yaml:"min_text_length" mapstructure:"min_text_length"`
	NavHitLimit    int `yaml:"nav_hit_limit" mapstructure:"nav_hit_limit"`
	ProximityChars int `yaml:"proximity_chars" mapstructure:"proximity_chars"`
}

// GeocodeConfig configures the Nominatim collaborator.
type GeocodeConfig struct {
	Enabled      bool    `yaml:"enabled" mapstructure:"enabled"`
	BaseURL      string  `yaml:"base_url" mapstructure:"base_url"`
	CachePath    string  `yaml:"cache_path" mapstructure:"cache_path"`
	MinDelaySecs float64 `yaml:"min_delay_secs" mapstructure:"min_delay_secs"`
}

// MediaConfig configures image materialization.
type MediaConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	OutDir  string `yaml:"out_dir" mapstructure:"out_dir"`
}

// ExportConfig configures the CSV outputs.
type ExportConfig struct {
	MasterPath    string `yaml:"master_path" mapstructure:"master_path"`
	UMapPath      string `yaml:"umap_path" mapstructure:"umap_path"`
	NoCoordPath   string `yaml:"no_coord_path" mapstructure:"no_coord_path"`
	MinScore      int    `yaml:"min_score" mapstructure:"min_score"`
	PublicBaseURL string `yaml:"public_base_url" mapstructure:"public_base_url"`
}

// RunConfig bounds a single pipeline run.
type RunConfig struct {
	Concurrency    int `yaml:"concurrency" mapstructure:"concurrency"`
	URLTimeoutSecs int `yaml:"url_timeout_secs" mapstructure:"url_timeout_secs"`
	ProgressEvery  int `yaml:"progress_every" mapstructure:"progress_every"`
}

// URLTimeout returns the per-URL watchdog budget.
func (r RunConfig) URLTimeout() time.Duration {
	return time.Duration(r.URLTimeoutSecs) * time.Second
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("MAPPER8M")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("sources.sources_file", "config/sources.yml")
	v.SetDefault("sources.keywords_file", "config/keywords.yml")
	v.SetDefault("sources.cities_file", "config/cities.txt")
	v.SetDefault("crawl.max_seeds", 150)
	v.SetDefault("crawl.max_pages_per_seed", 60)
	v.SetDefault("crawl.max_priority_urls", 1200)
	v.SetDefault("crawl.max_total_candidates", 2500)
	v.SetDefault("fetch.user_agent", "mapper8m/1.0 (public observatory)")
	v.SetDefault("fetch.timeout_secs", 15)
	v.SetDefault("fetch.max_retries", 2)
	v.SetDefault("fetch.requests_per_sec", 8.0)
	v.SetDefault("fetch.cache_dir", "data/raw/html_cache")
	v.SetDefault("fetch.use_cache", true)
	v.SetDefault("scorer.threshold", 8)
	v.SetDefault("scorer.min_text_length", 120)
	v.SetDefault("scorer.nav_hit_limit", 6)
	v.SetDefault("scorer.proximity_chars", 140)
	v.SetDefault("geocode.enabled", true)
	v.SetDefault("geocode.base_url", "https://nominatim.openstreetmap.org/search")
	v.SetDefault("geocode.cache_path", "data/processed/geocode_cache.sqlite")
	v.SetDefault("geocode.min_delay_secs", 1.1)
	v.SetDefault("media.enabled", false)
	v.SetDefault("media.out_dir", "data/images")
	v.SetDefault("export.master_path", "data/exports/mapa_8m_global_master.csv")
	v.SetDefault("export.umap_path", "data/exports/mapa_8m_global_umap.csv")
	v.SetDefault("export.no_coord_path", "data/exports/mapa_8m_global_sin_coord.csv")
	v.SetDefault("export.min_score", 10)
	v.SetDefault("export.public_base_url", "https://geochicas.github.io/8m-global-mapper")
	v.SetDefault("run.concurrency", 8)
	v.SetDefault("run.url_timeout_secs", 35)
	v.SetDefault("run.progress_every", 25)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
