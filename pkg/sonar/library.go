package sonar

import "fmt"

// Library is the fingerprinting and matching facade: Ingest extracts and
// stores a track's landmarks, Identify extracts a query's landmarks and
// scores them against everything previously ingested.
type Library struct {
	index  Index
	log    Logger
	config *Config
}

// New builds a Library against the given Index, applying opts over the
// defaults. It returns ErrConfigInvalid if the assembled configuration is
// not usable.
func New(index Index, opts ...Option) (*Library, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = noopLogger{}
	}
	if index == nil {
		return nil, fmt.Errorf("%w: index must not be nil", ErrConfigInvalid)
	}

	return &Library{index: index, log: cfg.Logger, config: cfg}, nil
}

// Ingest fingerprints samples (mono PCM at Config.SampleRate) and writes its
// landmarks to the index under trackID. It returns ErrInputTooShort if
// samples has fewer than one window's worth of audio, or a wrapped
// ErrIndexWrite if the index rejects the write.
func (l *Library) Ingest(trackID uint32, samples []float32) error {
	peaks, err := l.fingerprint(samples)
	if err != nil {
		return err
	}
	l.log.Infof("track %d: extracted %d peaks", trackID, len(peaks))

	probes := generateHashes(peaks, l.config.TargetZoneSize)
	records := make([]HashRecord, len(probes))
	for i, p := range probes {
		records[i] = HashRecord{Hash: p.Hash, TrackID: trackID, AnchorTime: p.AnchorTime}
	}
	l.log.Infof("track %d: generated %d landmark hashes", trackID, len(records))

	if err := l.index.InsertTrack(trackID, records); err != nil {
		return fmt.Errorf("%w: %w", ErrIndexWrite, err)
	}
	return nil
}

// Identify fingerprints a query clip and scores it against the index,
// returning up to Config.MaxResults candidates at or above
// Config.MatchThreshold, highest score first.
func (l *Library) Identify(samples []float32) ([]Match, error) {
	peaks, err := l.fingerprint(samples)
	if err != nil {
		return nil, err
	}
	l.log.Infof("query: extracted %d peaks", len(peaks))

	probes := generateHashes(peaks, l.config.TargetZoneSize)
	l.log.Infof("query: generated %d landmark hashes", len(probes))

	matches, err := identifyHashes(l.index, probes, l.config.MatchThreshold, l.config.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIndexRead, err)
	}
	l.log.Infof("query: %d candidates above threshold", len(matches))
	return matches, nil
}

func (l *Library) fingerprint(samples []float32) ([]Peak, error) {
	spec, err := computeSpectrogram(samples, l.config.SampleRate, l.config.WindowSize, l.config.HopSize)
	if err != nil {
		return nil, err
	}
	return extractPeaks(spec, l.config.PeakThresholdDB), nil
}

// GenerateQueryHashes fingerprints samples with default pipeline parameters
// (overriding only the sample rate) and returns its landmark hash probes,
// without requiring an Index. It is the entry point for clients that
// fingerprint locally and ship only hashes to a remote matcher, such as the
// WASM build.
func GenerateQueryHashes(samples []float32, sampleRate int) ([]HashProbe, error) {
	cfg := defaultConfig()
	cfg.SampleRate = sampleRate
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	spec, err := computeSpectrogram(samples, cfg.SampleRate, cfg.WindowSize, cfg.HopSize)
	if err != nil {
		return nil, err
	}
	peaks := extractPeaks(spec, cfg.PeakThresholdDB)
	return generateHashes(peaks, cfg.TargetZoneSize), nil
}
