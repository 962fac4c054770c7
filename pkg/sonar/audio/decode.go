package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/hajimehoshi/go-mp3"
	"github.com/mewkiz/flac"
)

// ReadMP3 decodes an MP3 file into mono float32 samples in [-1, 1].
func ReadMP3(path string) (samples []float32, sampleRate int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening mp3 file: %w", err)
	}
	defer f.Close()

	decoder, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding mp3: %w", err)
	}

	raw, err := io.ReadAll(decoder)
	if err != nil {
		return nil, 0, fmt.Errorf("reading mp3 stream: %w", err)
	}

	// go-mp3 always decodes to 16-bit little-endian stereo PCM.
	nFrames := len(raw) / 4
	out := make([]float32, nFrames)
	for i := 0; i < nFrames; i++ {
		left := int16(raw[i*4]) | int16(raw[i*4+1])<<8
		right := int16(raw[i*4+2]) | int16(raw[i*4+3])<<8
		out[i] = float32(int(left)+int(right)) / 2 / 32768
	}

	return out, decoder.SampleRate(), nil
}

// ReadFLAC decodes a FLAC file into mono float32 samples in [-1, 1].
func ReadFLAC(path string) (samples []float32, sampleRate int, err error) {
	stream, err := flac.ParseFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("parsing flac file: %w", err)
	}
	defer stream.Close()

	channels := int(stream.Info.NChannels)
	bitsPerSample := stream.Info.BitsPerSample
	maxVal := float64(int64(1) << (bitsPerSample - 1))

	var out []float32
	for {
		frame, err := stream.ParseNext()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("decoding flac frame: %w", err)
		}
		nSamples := len(frame.Subframes[0].Samples)
		for i := 0; i < nSamples; i++ {
			var sum int64
			for c := 0; c < channels; c++ {
				sum += int64(frame.Subframes[c].Samples[i])
			}
			out = append(out, float32(float64(sum)/float64(channels)/maxVal))
		}
	}

	return out, int(stream.Info.SampleRate), nil
}
