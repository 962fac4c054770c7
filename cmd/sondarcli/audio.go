package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sondar/sondar/pkg/sonar/audio"
)

// loadSamples turns an audio file into mono float32 PCM. WAV, MP3 and FLAC
// files are decoded natively at the file's own sample rate, with no
// resampling; any other format is converted by ffmpeg to mono at the
// --sample-rate flag's value.
func loadSamples(path string) ([]float32, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		samples, _, err := audio.ReadWAV(path)
		return samples, err
	case ".mp3":
		samples, _, err := audio.ReadMP3(path)
		return samples, err
	case ".flac":
		samples, _, err := audio.ReadFLAC(path)
		return samples, err
	default:
		tmpDir, err := os.MkdirTemp("", "sondarcli-convert")
		if err != nil {
			return nil, fmt.Errorf("creating scratch dir: %w", err)
		}
		defer os.RemoveAll(tmpDir)

		wavPath, err := audio.ConvertToMonoWAV(context.Background(), path, tmpDir, sampleRate)
		if err != nil {
			return nil, fmt.Errorf("converting %s via ffmpeg: %w", path, err)
		}
		samples, _, err := audio.ReadWAV(wavPath)
		return samples, err
	}
}
