package sonar

const (
	freqBits  = 12
	deltaBits = 14

	freqMask  = uint64(1<<freqBits) - 1
	deltaMask = uint64(1<<deltaBits) - 1
)

// packHash bit-packs an anchor/target peak pair into a 64-bit landmark hash:
// bits [63:52]=f1 (anchor freq bin), [51:40]=f2 (target freq bin),
// [39:26]=delta (target time bin - anchor time bin), [25:0] reserved, zero.
// It returns ok=false if either frequency bin or the time delta overflows
// its field.
func packHash(anchor, target Peak) (hash uint64, ok bool) {
	f1 := uint64(anchor.FreqBin)
	f2 := uint64(target.FreqBin)
	if f1 > freqMask || f2 > freqMask {
		return 0, false
	}

	delta := uint64(target.TimeBin - anchor.TimeBin)
	if delta > deltaMask {
		return 0, false
	}

	hash = (f1 << (64 - freqBits)) |
		(f2 << (64 - 2*freqBits)) |
		(delta << (64 - 2*freqBits - deltaBits))
	return hash, true
}

// generateHashes runs the combinatorial target-zone hashing step over a
// time-sorted peak list: for each anchor peak, it pairs with at most
// targetZone subsequent peaks (a hard cap on peak count), skipping any of
// those whose time-bin distance still exceeds targetZone. anchorTime is the
// anchor's time bin, used verbatim so callers can record where in the
// original clip each hash came from.
func generateHashes(peaks []Peak, targetZone int) []HashProbe {
	zone := uint32(targetZone)
	var probes []HashProbe

	for i := 0; i < len(peaks); i++ {
		anchor := peaks[i]
		for j := i + 1; j < len(peaks) && j-i <= targetZone; j++ {
			target := peaks[j]
			timeDiff := target.TimeBin - anchor.TimeBin
			if timeDiff > zone {
				continue
			}
			hash, ok := packHash(anchor, target)
			if !ok {
				continue
			}
			probes = append(probes, HashProbe{
				Hash:       hash,
				AnchorTime: anchor.TimeBin,
			})
		}
	}

	return probes
}
