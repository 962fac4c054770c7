//go:build portaudio

package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Recorder streams microphone input into a bounded ring buffer, making the
// most recent window of audio available for Identify calls without the
// caller managing PortAudio directly.
type Recorder struct {
	stream     *portaudio.Stream
	sampleRate int
	buffer     []float32
	maxSamples int
}

// NewRecorder initializes PortAudio and opens a mono input stream at
// sampleRate, retaining up to windowSeconds of the most recent audio.
func NewRecorder(sampleRate, framesPerBuffer, windowSeconds int) (*Recorder, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing portaudio: %w", err)
	}

	device, err := portaudio.DefaultInputDevice()
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("getting default input device: %w", err)
	}

	r := &Recorder{
		sampleRate: sampleRate,
		maxSamples: sampleRate * windowSeconds,
	}

	params := portaudio.StreamParameters{
		Input: portaudio.StreamDeviceParameters{
			Device:   device,
			Channels: 1,
			Latency:  device.DefaultLowInputLatency,
		},
		SampleRate:      float64(sampleRate),
		FramesPerBuffer: framesPerBuffer,
	}

	stream, err := portaudio.OpenStream(params, r.onAudio)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("opening input stream: %w", err)
	}
	r.stream = stream

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("starting input stream: %w", err)
	}

	return r, nil
}

func (r *Recorder) onAudio(in []float32) {
	r.buffer = append(r.buffer, in...)
	if excess := len(r.buffer) - r.maxSamples; excess > 0 {
		r.buffer = r.buffer[excess:]
	}
}

// Snapshot returns a copy of the most recently captured audio, up to the
// recorder's configured window length.
func (r *Recorder) Snapshot() []float32 {
	out := make([]float32, len(r.buffer))
	copy(out, r.buffer)
	return out
}

// Close stops the stream and releases PortAudio resources.
func (r *Recorder) Close() error {
	if r.stream == nil {
		return nil
	}
	if err := r.stream.Stop(); err != nil {
		return fmt.Errorf("stopping stream: %w", err)
	}
	if err := r.stream.Close(); err != nil {
		return fmt.Errorf("closing stream: %w", err)
	}
	return portaudio.Terminate()
}
