// Package sonar implements landmark-based acoustic fingerprinting and
// offset-aligned matching against an external posting-list index.
package sonar

import "time"

// Peak is a single time-frequency local maximum picked from a spectrogram.
type Peak struct {
	FreqBin uint16
	TimeBin uint32
	AmpDB   float32
}

// HashRecord is a landmark hash together with the track and anchor time it
// was generated from. This is what gets persisted by an IndexWriter.
type HashRecord struct {
	Hash       uint64
	TrackID    uint32
	AnchorTime uint32
}

// HashProbe is a landmark hash generated from a query clip, carrying the
// anchor time within the query so the matcher can compute an offset once a
// posting is found for it.
type HashProbe struct {
	Hash       uint64
	AnchorTime uint32
}

// IndexEntry is a single posting returned by IndexReader.Lookup: one track's
// occurrence of a given hash, recorded at its own anchor time.
type IndexEntry struct {
	TrackID    uint32
	AnchorTime uint32
}

// Match is a single scored candidate returned by Identify.
type Match struct {
	TrackID uint32
	Score   float32
	Offset  int32
}

// Track is catalogue metadata about an ingested recording. It is never
// consulted by the matcher; it exists purely for presentation.
type Track struct {
	ID        uint32
	Name      string
	Artist    string
	Duration  time.Duration
	CreatedAt time.Time
}
