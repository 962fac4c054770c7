package sonar

import "testing"

func TestPackHashRoundTripsFields(t *testing.T) {
	anchor := Peak{FreqBin: 100, TimeBin: 10}
	target := Peak{FreqBin: 200, TimeBin: 15}

	hash, ok := packHash(anchor, target)
	if !ok {
		t.Fatal("expected hash to pack successfully")
	}

	f1 := (hash >> (64 - freqBits)) & freqMask
	f2 := (hash >> (64 - 2*freqBits)) & freqMask
	delta := (hash >> (64 - 2*freqBits - deltaBits)) & deltaMask
	reserved := hash & (uint64(1<<26) - 1)

	if f1 != 100 {
		t.Errorf("expected f1=100, got %d", f1)
	}
	if f2 != 200 {
		t.Errorf("expected f2=200, got %d", f2)
	}
	if delta != 5 {
		t.Errorf("expected delta=5, got %d", delta)
	}
	if reserved != 0 {
		t.Errorf("expected reserved bits zero, got %d", reserved)
	}
}

func TestPackHashRejectsOverflow(t *testing.T) {
	if _, ok := packHash(Peak{FreqBin: 5000, TimeBin: 0}, Peak{FreqBin: 1, TimeBin: 1}); ok {
		t.Error("expected overflowed freq bin to be rejected")
	}
	if _, ok := packHash(Peak{FreqBin: 1, TimeBin: 0}, Peak{FreqBin: 1, TimeBin: 20000}); ok {
		t.Error("expected overflowed delta to be rejected")
	}
}

func TestGenerateHashesRespectsTargetZone(t *testing.T) {
	peaks := []Peak{
		{FreqBin: 1, TimeBin: 0},
		{FreqBin: 2, TimeBin: 1},
		{FreqBin: 3, TimeBin: 2},
		{FreqBin: 4, TimeBin: 100},
	}
	probes := generateHashes(peaks, 2)
	if len(probes) == 0 {
		t.Fatal("expected some hashes to be generated")
	}
	for _, p := range probes {
		delta := (p.Hash >> (64 - 2*freqBits - deltaBits)) & deltaMask
		if delta > 2 {
			t.Errorf("delta %d exceeds target zone of 2", delta)
		}
	}
}

func TestGenerateHashesDeterministic(t *testing.T) {
	peaks := []Peak{
		{FreqBin: 1, TimeBin: 0},
		{FreqBin: 2, TimeBin: 3},
		{FreqBin: 3, TimeBin: 5},
	}
	a := generateHashes(peaks, 10)
	b := generateHashes(peaks, 10)
	if len(a) != len(b) {
		t.Fatalf("non-deterministic hash count: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("non-deterministic hash at index %d", i)
		}
	}
}
