// Package audio supplies collaborators that turn real-world audio sources
// (files, microphones, YouTube URLs) into the mono float32 PCM the sonar
// library expects. None of this package is consulted by the matching
// pipeline itself.
package audio

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ReadWAV decodes a PCM WAV file into mono float32 samples in [-1, 1],
// downmixing stereo by averaging channels, and reports the file's sample
// rate.
func ReadWAV(path string) (samples []float32, sampleRate int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening wav file: %w", err)
	}
	defer f.Close()

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid WAV file: %s", path)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("reading wav samples: %w", err)
	}

	return downmixToFloat32(buf), int(decoder.SampleRate), nil
}

// downmixToFloat32 averages interleaved channels into mono and normalizes
// integer samples to [-1, 1] using the buffer's source bit depth.
func downmixToFloat32(buf *audio.IntBuffer) []float32 {
	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}
	maxVal := float64(int(1) << (uint(buf.SourceBitDepth) - 1))
	if maxVal == 0 {
		maxVal = 1 << 15
	}

	nFrames := len(buf.Data) / channels
	out := make([]float32, nFrames)
	for i := 0; i < nFrames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(buf.Data[i*channels+c])
		}
		out[i] = float32(sum / float64(channels) / maxVal)
	}
	return out
}

// WriteWAV writes mono float32 samples in [-1, 1] out as a 16-bit PCM WAV
// file at sampleRate.
func WriteWAV(path string, samples []float32, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating wav file: %w", err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: sampleRate},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		buf.Data[i] = int(s * 32767)
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("writing wav samples: %w", err)
	}
	return enc.Close()
}
