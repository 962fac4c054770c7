package sonar

import "testing"

func gridSpectrogram(rows, cols int, fill float64) *Spectrogram {
	frames := make([][]float64, rows)
	for i := range frames {
		frames[i] = make([]float64, cols)
		for j := range frames[i] {
			frames[i][j] = fill
		}
	}
	return &Spectrogram{Frames: frames}
}

func TestExtractPeaksFindsIsolatedMaximum(t *testing.T) {
	spec := gridSpectrogram(5, 5, -60)
	spec.Frames[2][2] = 0

	peaks := extractPeaks(spec, -40)
	if len(peaks) != 1 {
		t.Fatalf("expected exactly 1 peak, got %d", len(peaks))
	}
	if peaks[0].TimeBin != 2 || peaks[0].FreqBin != 2 {
		t.Errorf("expected peak at (2,2), got (%d,%d)", peaks[0].TimeBin, peaks[0].FreqBin)
	}
}

func TestExtractPeaksIgnoresDiagonalNeighbours(t *testing.T) {
	spec := gridSpectrogram(5, 5, -60)
	spec.Frames[2][2] = 0
	spec.Frames[1][1] = -1 // diagonal neighbour, louder than nothing but quieter than center

	peaks := extractPeaks(spec, -40)
	found := false
	for _, p := range peaks {
		if p.TimeBin == 2 && p.FreqBin == 2 {
			found = true
		}
	}
	if !found {
		t.Error("diagonal neighbour should not suppress the center peak")
	}
}

func TestExtractPeaksRejectsBorder(t *testing.T) {
	spec := gridSpectrogram(5, 5, -60)
	spec.Frames[0][0] = 0 // corner, cannot be a peak (missing neighbours)

	peaks := extractPeaks(spec, -40)
	if len(peaks) != 0 {
		t.Errorf("expected no peaks from a border-only maximum, got %d", len(peaks))
	}
}

func TestExtractPeaksBelowThresholdExcluded(t *testing.T) {
	spec := gridSpectrogram(5, 5, -60)
	spec.Frames[2][2] = -50 // local max but below threshold

	peaks := extractPeaks(spec, -40)
	if len(peaks) != 0 {
		t.Errorf("expected no peaks below threshold, got %d", len(peaks))
	}
}

func TestExtractPeaksDeterministicOrder(t *testing.T) {
	spec := gridSpectrogram(6, 6, -60)
	spec.Frames[1][1] = 0
	spec.Frames[1][4] = 0
	spec.Frames[4][2] = 0

	a := extractPeaks(spec, -40)
	b := extractPeaks(spec, -40)
	if len(a) != len(b) {
		t.Fatalf("non-deterministic peak count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("non-deterministic ordering at index %d", i)
		}
	}
	for i := 1; i < len(a); i++ {
		if a[i].TimeBin < a[i-1].TimeBin {
			t.Error("peaks not sorted by time bin ascending")
		}
	}
}
