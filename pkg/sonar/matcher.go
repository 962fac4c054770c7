package sonar

import "sort"

// identifyHashes probes reader with each of probes' hashes, builds an
// offset-aligned histogram of (track, delta) votes, and scores each
// candidate track as its tallest histogram bin divided by the number of
// query hashes. Only candidates at or above threshold are returned, sorted
// by score descending, then by peak bin count descending, then by track ID
// ascending, truncated to maxResults.
func identifyHashes(reader IndexReader, probes []HashProbe, threshold float64, maxResults int) ([]Match, error) {
	if len(probes) == 0 {
		return nil, nil
	}

	type histKey struct {
		trackID uint32
		offset  int32
	}
	votes := make(map[histKey]int)

	for _, probe := range probes {
		entries, err := reader.Lookup(probe.Hash)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			offset := int32(entry.AnchorTime) - int32(probe.AnchorTime)
			votes[histKey{entry.TrackID, offset}]++
		}
	}

	type candidate struct {
		trackID uint32
		peakBin int
		offset  int32
	}
	best := make(map[uint32]candidate)
	for key, count := range votes {
		c, ok := best[key.trackID]
		if !ok || count > c.peakBin {
			best[key.trackID] = candidate{trackID: key.trackID, peakBin: count, offset: key.offset}
		}
	}

	queryCount := float64(len(probes))
	candidates := make([]candidate, 0, len(best))
	for _, c := range best {
		if float64(c.peakBin)/queryCount < threshold {
			continue
		}
		candidates = append(candidates, c)
	}

	sort.Slice(candidates, func(i, j int) bool {
		si := float64(candidates[i].peakBin) / queryCount
		sj := float64(candidates[j].peakBin) / queryCount
		if si != sj {
			return si > sj
		}
		if candidates[i].peakBin != candidates[j].peakBin {
			return candidates[i].peakBin > candidates[j].peakBin
		}
		return candidates[i].trackID < candidates[j].trackID
	})

	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}

	matches := make([]Match, len(candidates))
	for i, c := range candidates {
		matches[i] = Match{
			TrackID: c.trackID,
			Score:   float32(float64(c.peakBin) / queryCount),
			Offset:  c.offset,
		}
	}
	return matches, nil
}
