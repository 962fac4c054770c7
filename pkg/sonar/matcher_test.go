package sonar

import "testing"

type memIndex struct {
	postings map[uint64][]IndexEntry
}

func newMemIndex() *memIndex {
	return &memIndex{postings: make(map[uint64][]IndexEntry)}
}

func (m *memIndex) InsertTrack(trackID uint32, records []HashRecord) error {
	for _, r := range records {
		m.postings[r.Hash] = append(m.postings[r.Hash], IndexEntry{TrackID: trackID, AnchorTime: r.AnchorTime})
	}
	return nil
}

func (m *memIndex) Lookup(hash uint64) ([]IndexEntry, error) {
	return m.postings[hash], nil
}

func TestIdentifyHashesPerfectMatchScoresOne(t *testing.T) {
	idx := newMemIndex()
	probes := []HashProbe{
		{Hash: 1, AnchorTime: 0},
		{Hash: 2, AnchorTime: 2},
		{Hash: 3, AnchorTime: 4},
	}
	idx.InsertTrack(7, []HashRecord{
		{Hash: 1, TrackID: 7, AnchorTime: 10},
		{Hash: 2, TrackID: 7, AnchorTime: 12},
		{Hash: 3, TrackID: 7, AnchorTime: 14},
	})

	matches, err := identifyHashes(idx, probes, 0.1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].TrackID != 7 {
		t.Errorf("expected track 7, got %d", matches[0].TrackID)
	}
	if matches[0].Score != 1.0 {
		t.Errorf("expected score 1.0, got %f", matches[0].Score)
	}
	if matches[0].Offset != 10 {
		t.Errorf("expected offset 10, got %d", matches[0].Offset)
	}
}

func TestIdentifyHashesBelowThresholdExcluded(t *testing.T) {
	idx := newMemIndex()
	idx.InsertTrack(1, []HashRecord{{Hash: 1, TrackID: 1, AnchorTime: 0}})
	probes := []HashProbe{
		{Hash: 1, AnchorTime: 0},
		{Hash: 2, AnchorTime: 1},
		{Hash: 3, AnchorTime: 2},
		{Hash: 4, AnchorTime: 3},
		{Hash: 5, AnchorTime: 4},
	}
	matches, err := identifyHashes(idx, probes, 0.5, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected no matches above threshold, got %d", len(matches))
	}
}

func TestIdentifyHashesTieBreakOrder(t *testing.T) {
	idx := newMemIndex()
	idx.InsertTrack(5, []HashRecord{{Hash: 1, TrackID: 5, AnchorTime: 0}})
	idx.InsertTrack(3, []HashRecord{{Hash: 1, TrackID: 3, AnchorTime: 0}})
	probes := []HashProbe{{Hash: 1, AnchorTime: 0}}

	matches, err := identifyHashes(idx, probes, 0, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 tied matches, got %d", len(matches))
	}
	if matches[0].TrackID != 3 || matches[1].TrackID != 5 {
		t.Errorf("expected tie-break by ascending track ID, got %d then %d", matches[0].TrackID, matches[1].TrackID)
	}
}

func TestIdentifyHashesEmptyQuery(t *testing.T) {
	idx := newMemIndex()
	matches, err := identifyHashes(idx, nil, 0.1, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matches != nil {
		t.Errorf("expected nil matches for empty query, got %v", matches)
	}
}

func TestIdentifyHashesRespectsMaxResults(t *testing.T) {
	idx := newMemIndex()
	for id := uint32(1); id <= 10; id++ {
		idx.InsertTrack(id, []HashRecord{{Hash: 1, TrackID: id, AnchorTime: 0}})
	}
	matches, err := identifyHashes(idx, []HashProbe{{Hash: 1, AnchorTime: 0}}, 0, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 3 {
		t.Errorf("expected max results capped at 3, got %d", len(matches))
	}
}
