package sonar

import "sort"

// extractPeaks picks strict local maxima from a spectrogram: a bin is a peak
// if it exceeds thresholdDB and is strictly greater than each of its four
// axis-aligned neighbours (time-1, time+1, freq-1, freq+1). Diagonal
// neighbours are not considered, and bins on the border of the spectrogram
// (no neighbour on one side) are never peaks. The result is sorted by time
// bin ascending, then frequency bin ascending, then amplitude descending.
func extractPeaks(spec *Spectrogram, thresholdDB float64) []Peak {
	nFrames := len(spec.Frames)
	if nFrames == 0 {
		return nil
	}
	nBins := len(spec.Frames[0])
	if nFrames < 3 || nBins < 3 {
		return nil
	}

	var peaks []Peak
	for t := 1; t < nFrames-1; t++ {
		row := spec.Frames[t]
		above := spec.Frames[t-1]
		below := spec.Frames[t+1]
		for f := 1; f < nBins-1; f++ {
			v := row[f]
			if v <= thresholdDB {
				continue
			}
			if v <= row[f-1] || v <= row[f+1] || v <= above[f] || v <= below[f] {
				continue
			}
			peaks = append(peaks, Peak{
				FreqBin: uint16(f),
				TimeBin: uint32(t),
				AmpDB:   float32(v),
			})
		}
	}

	sort.Slice(peaks, func(i, j int) bool {
		if peaks[i].TimeBin != peaks[j].TimeBin {
			return peaks[i].TimeBin < peaks[j].TimeBin
		}
		if peaks[i].FreqBin != peaks[j].FreqBin {
			return peaks[i].FreqBin < peaks[j].FreqBin
		}
		return peaks[i].AmpDB > peaks[j].AmpDB
	})

	return peaks
}
