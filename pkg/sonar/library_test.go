package sonar

import (
	"math"
	"math/rand"
	"testing"
)

// chord synthesizes a short burst of several sine tones, giving the peak
// picker enough distinct energy to find a stable constellation.
func chord(freqsHz []float64, sampleRate, n int, seed int64) []float32 {
	samples := make([]float32, n)
	for i := 0; i < n; i++ {
		var v float64
		for _, f := range freqsHz {
			v += math.Sin(2 * math.Pi * f * float64(i) / float64(sampleRate))
		}
		samples[i] = float32(v / float64(len(freqsHz)))
	}
	return samples
}

func testClip(sampleRate, seconds int) []float32 {
	n := sampleRate * seconds
	freqs := []float64{440, 880, 1320, 1760, 2200}
	out := make([]float32, 0, n)
	for sec := 0; sec < seconds; sec++ {
		shifted := make([]float64, len(freqs))
		for i, f := range freqs {
			shifted[i] = f * (1 + 0.05*float64(sec))
		}
		out = append(out, chord(shifted, sampleRate, sampleRate, int64(sec))...)
	}
	return out[:n]
}

func addNoise(samples []float32, amplitude float32, seed int64) []float32 {
	r := rand.New(rand.NewSource(seed))
	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = s + amplitude*(2*float32(r.Float64())-1)
	}
	return out
}

func newTestLibrary(t *testing.T) (*Library, *memIndex) {
	t.Helper()
	idx := newMemIndex()
	lib, err := New(idx, WithSampleRate(22050))
	if err != nil {
		t.Fatalf("unexpected error building library: %v", err)
	}
	return lib, idx
}

func TestLibrarySelfIdentification(t *testing.T) {
	lib, _ := newTestLibrary(t)
	clip := testClip(22050, 5)

	if err := lib.Ingest(1, clip); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	matches, err := lib.Identify(clip)
	if err != nil {
		t.Fatalf("identify failed: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("expected at least one match")
	}
	if matches[0].TrackID != 1 {
		t.Errorf("expected track 1, got %d", matches[0].TrackID)
	}
	if matches[0].Score != 1.0 {
		t.Errorf("expected self-match score 1.0, got %f", matches[0].Score)
	}
	if matches[0].Offset != 0 {
		t.Errorf("expected self-match offset 0, got %d", matches[0].Offset)
	}
}

func TestLibrarySubClipMatch(t *testing.T) {
	lib, _ := newTestLibrary(t)
	clip := testClip(22050, 6)
	if err := lib.Ingest(1, clip); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	start := 2 * 22050
	end := start + 2*22050
	sub := clip[start:end]

	matches, err := lib.Identify(sub)
	if err != nil {
		t.Fatalf("identify failed: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("expected a match for a sub-clip of an ingested track")
	}
	if matches[0].TrackID != 1 {
		t.Errorf("expected track 1, got %d", matches[0].TrackID)
	}
	if matches[0].Score < 0.5 {
		t.Errorf("expected sub-clip score >= 0.5, got %f", matches[0].Score)
	}
}

func TestLibraryNoiseRobustness(t *testing.T) {
	lib, _ := newTestLibrary(t)
	clip := testClip(22050, 5)
	if err := lib.Ingest(1, clip); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	noisy := addNoise(clip, 0.15, 42) // roughly SNR >= 10dB for this signal amplitude
	matches, err := lib.Identify(noisy)
	if err != nil {
		t.Fatalf("identify failed: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("expected a match despite additive noise")
	}
	if matches[0].TrackID != 1 {
		t.Errorf("expected track 1, got %d", matches[0].TrackID)
	}
	if matches[0].Score < 0.2 {
		t.Errorf("expected noisy score >= 0.2, got %f", matches[0].Score)
	}
}

func TestLibraryNonMatchSeparation(t *testing.T) {
	lib, _ := newTestLibrary(t)
	if err := lib.Ingest(1, testClip(22050, 5)); err != nil {
		t.Fatalf("ingest failed: %v", err)
	}

	unrelated := chord([]float64{523, 659, 784}, 22050, 22050*3, 99)
	matches, err := lib.Identify(unrelated)
	if err != nil {
		t.Fatalf("identify failed: %v", err)
	}
	for _, m := range matches {
		if m.TrackID == 1 && m.Score >= lib.config.MatchThreshold {
			t.Errorf("unrelated clip should not score above threshold against track 1, got %f", m.Score)
		}
	}
}

func TestLibraryDeterministicIngest(t *testing.T) {
	idxA := newMemIndex()
	idxB := newMemIndex()
	libA, _ := New(idxA)
	libB, _ := New(idxB)

	clip := testClip(22050, 3)
	if err := libA.Ingest(1, clip); err != nil {
		t.Fatalf("ingest A failed: %v", err)
	}
	if err := libB.Ingest(1, clip); err != nil {
		t.Fatalf("ingest B failed: %v", err)
	}

	if len(idxA.postings) != len(idxB.postings) {
		t.Errorf("expected identical hash counts, got %d vs %d", len(idxA.postings), len(idxB.postings))
	}
}

func TestLibraryIngestInputTooShort(t *testing.T) {
	lib, _ := newTestLibrary(t)
	err := lib.Ingest(1, make([]float32, 10))
	if err != ErrInputTooShort {
		t.Fatalf("expected ErrInputTooShort, got %v", err)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	idx := newMemIndex()
	if _, err := New(idx, WithSampleRate(-1)); err == nil {
		t.Error("expected error for negative sample rate")
	}
	if _, err := New(idx, WithHopSize(0)); err == nil {
		t.Error("expected error for zero hop size")
	}
	if _, err := New(nil); err == nil {
		t.Error("expected error for nil index")
	}
}
