package main

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/sondar/sondar/internal/config"
	"github.com/sondar/sondar/pkg/sonar"
	"github.com/sondar/sondar/pkg/sonar/index"
)

func parseTrackID(s string) (uint32, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid track id %q: %w", s, err)
	}
	return uint32(id), nil
}

func sampleDuration(numSamples, rate int) time.Duration {
	if rate <= 0 {
		return 0
	}
	return time.Duration(numSamples) * time.Second / time.Duration(rate)
}

// loadConfigFile returns the parsed --config file, or an empty File if no
// path was given.
func loadConfigFile() (*config.File, error) {
	if configPath == "" {
		return &config.File{}, nil
	}
	return config.Load(configPath)
}

// openStore opens the catalogue/index backend named by --config's storage
// section, falling back to the embedded SQLite database at --db when the
// config file leaves storage unset.
func openStore() (index.Store, *config.File, error) {
	file, err := loadConfigFile()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	store, err := config.OpenStore(context.Background(), file, dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening catalogue: %w", err)
	}
	return store, file, nil
}

// libraryOptions layers file.Options() under the explicit --sample-rate
// flag, so an operator-supplied flag always wins over the config file.
func libraryOptions(cmd *cobra.Command, file *config.File) []sonar.Option {
	opts := file.Options()
	if cmd.Flags().Changed("sample-rate") || file.SampleRate == 0 {
		opts = append(opts, sonar.WithSampleRate(sampleRate))
	}
	opts = append(opts, sonar.WithLogger(log))
	return opts
}

// resolvedSampleRate mirrors libraryOptions' precedence for callers that
// need the plain rate value rather than a sonar.Option, such as duration
// math over decoded sample counts.
func resolvedSampleRate(cmd *cobra.Command, file *config.File) int {
	if cmd.Flags().Changed("sample-rate") || file.SampleRate == 0 {
		return sampleRate
	}
	return file.SampleRate
}
