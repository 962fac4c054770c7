// Package config loads sonar's file- and environment-based configuration
// for the CLI and server entry points, layered on top of the sonar
// library's own functional options.
package config

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/sondar/sondar/pkg/sonar"
	"github.com/sondar/sondar/pkg/sonar/index"
)

// File is the on-disk shape of a sonar config file (YAML).
type File struct {
	SampleRate      int     `yaml:"sample_rate"`
	WindowSize      int     `yaml:"window_size"`
	HopSize         int     `yaml:"hop_size"`
	PeakThresholdDB float64 `yaml:"peak_threshold_db"`
	TargetZoneSize  int     `yaml:"target_zone_size"`
	MatchThreshold  float64 `yaml:"match_threshold"`
	MaxResults      int     `yaml:"max_results"`

	Storage struct {
		Driver   string `yaml:"driver"` // "sqlite" or "postgres"
		DSN      string `yaml:"dsn"`
		RedisURL string `yaml:"redis_url"`
	} `yaml:"storage"`
}

// Load reads and parses a YAML config file. Zero-valued fields are left for
// the caller to fill in with sonar's own defaults.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return &f, nil
}

// LoadEnv loads a .env file if present, silently doing nothing if the file
// is absent. Values it sets are read by callers via os.Getenv, matching how
// the rest of the corpus wires .env files ahead of flag/YAML parsing.
func LoadEnv(path string) {
	_ = godotenv.Load(path)
}

// Options converts f's non-zero pipeline fields into sonar.Option
// overrides, leaving zero-valued fields for sonar's own defaults. Callers
// apply these ahead of any command-line flag so an explicit flag still wins.
func (f *File) Options() []sonar.Option {
	var opts []sonar.Option
	if f.SampleRate > 0 {
		opts = append(opts, sonar.WithSampleRate(f.SampleRate))
	}
	if f.WindowSize > 0 {
		opts = append(opts, sonar.WithWindowSize(f.WindowSize))
	}
	if f.HopSize > 0 {
		opts = append(opts, sonar.WithHopSize(f.HopSize))
	}
	if f.PeakThresholdDB != 0 {
		opts = append(opts, sonar.WithPeakThresholdDB(f.PeakThresholdDB))
	}
	if f.TargetZoneSize > 0 {
		opts = append(opts, sonar.WithTargetZoneSize(f.TargetZoneSize))
	}
	if f.MatchThreshold > 0 {
		opts = append(opts, sonar.WithMatchThreshold(f.MatchThreshold))
	}
	if f.MaxResults > 0 {
		opts = append(opts, sonar.WithMaxResults(f.MaxResults))
	}
	return opts
}

// OpenStore builds the catalogue/index backend described by f.Storage,
// defaulting to an embedded SQLite database at fallbackDSN when the config
// file leaves Storage empty. When RedisURL is set, reads are served through
// a Redis read-through cache in front of the chosen backend.
func OpenStore(ctx context.Context, f *File, fallbackDSN string) (index.Store, error) {
	driver := f.Storage.Driver
	if driver == "" {
		driver = "sqlite"
	}
	dsn := f.Storage.DSN
	if dsn == "" {
		dsn = fallbackDSN
	}

	var store index.Store
	var err error
	switch driver {
	case "sqlite":
		store, err = index.OpenSQLite(dsn)
	case "postgres":
		store, err = index.OpenPostgres(dsn)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s store: %w", driver, err)
	}

	if f.Storage.RedisURL == "" {
		return store, nil
	}

	client, err := index.NewRedisClient(ctx, f.Storage.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("connecting redis cache: %w", err)
	}
	return index.NewCachedStore(store, client, 5*time.Minute), nil
}
