package sonar

import "fmt"

// Config holds the tunable parameters of the fingerprinting and matching
// pipeline. Build one with New, not with a struct literal, so defaults and
// validation are applied consistently.
type Config struct {
	// SampleRate is the sample rate, in Hz, that all input audio is assumed
	// to already be resampled to.
	// Default: 22050 Hz.
	SampleRate int

	// WindowSize is the STFT analysis window length, in samples.
	// Default: 1024.
	WindowSize int

	// HopSize is the STFT hop length, in samples.
	// Default: 512 (50% overlap with WindowSize).
	HopSize int

	// PeakThresholdDB is the minimum magnitude, in dB, a bin must reach to
	// be considered a peak.
	// Default: -40.
	PeakThresholdDB float64

	// TargetZoneSize bounds how far a hash's target peak may be from its
	// anchor, both in peak count and in time bins; a target must satisfy
	// both bounds.
	// Default: 10.
	TargetZoneSize int

	// MatchThreshold is the minimum score (peak_bin / |Q|) a candidate must
	// reach to be returned by Identify.
	// Default: 0.10.
	MatchThreshold float64

	// MaxResults caps how many candidates Identify returns.
	// Default: 5.
	MaxResults int

	// Logger receives structured progress/diagnostic messages.
	// If nil, a default no-op logger is used.
	Logger Logger
}

// Option is a functional option for New.
type Option func(*Config)

// WithSampleRate overrides the assumed sample rate of input audio.
func WithSampleRate(hz int) Option {
	return func(c *Config) { c.SampleRate = hz }
}

// WithWindowSize overrides the STFT window length.
func WithWindowSize(n int) Option {
	return func(c *Config) { c.WindowSize = n }
}

// WithHopSize overrides the STFT hop length.
func WithHopSize(n int) Option {
	return func(c *Config) { c.HopSize = n }
}

// WithPeakThresholdDB overrides the peak-picking magnitude floor.
func WithPeakThresholdDB(db float64) Option {
	return func(c *Config) { c.PeakThresholdDB = db }
}

// WithTargetZoneSize overrides the hasher's target zone bound.
func WithTargetZoneSize(z int) Option {
	return func(c *Config) { c.TargetZoneSize = z }
}

// WithMatchThreshold overrides the minimum score Identify will report.
func WithMatchThreshold(tau float64) Option {
	return func(c *Config) { c.MatchThreshold = tau }
}

// WithMaxResults overrides how many candidates Identify returns.
func WithMaxResults(k int) Option {
	return func(c *Config) { c.MaxResults = k }
}

// WithLogger sets a custom logger.
func WithLogger(log Logger) Option {
	return func(c *Config) { c.Logger = log }
}

func defaultConfig() *Config {
	return &Config{
		SampleRate:       22050,
		WindowSize:       1024,
		HopSize:          512,
		PeakThresholdDB:  -40,
		TargetZoneSize:   10,
		MatchThreshold:   0.10,
		MaxResults:       5,
		Logger:           nil,
	}
}

func (c *Config) validate() error {
	switch {
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrConfigInvalid, c.SampleRate)
	case c.WindowSize <= 1:
		return fmt.Errorf("%w: window size must be greater than 1, got %d", ErrConfigInvalid, c.WindowSize)
	case c.HopSize <= 0 || c.HopSize >= c.WindowSize:
		return fmt.Errorf("%w: hop size must be in (0, window size), got %d", ErrConfigInvalid, c.HopSize)
	case c.TargetZoneSize <= 0:
		return fmt.Errorf("%w: target zone size must be positive, got %d", ErrConfigInvalid, c.TargetZoneSize)
	case c.MatchThreshold < 0 || c.MatchThreshold > 1:
		return fmt.Errorf("%w: match threshold must be in [0, 1], got %f", ErrConfigInvalid, c.MatchThreshold)
	case c.MaxResults <= 0:
		return fmt.Errorf("%w: max results must be positive, got %d", ErrConfigInvalid, c.MaxResults)
	}
	return nil
}
