package sonar

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// dbFloor is added inside the log to avoid taking log(0) for silent frames.
const dbFloor = 1e-10

// hannWindow returns a periodic Hann window of length n, i.e. the first n
// samples of an (n+1)-point symmetric Hann window. Using the periodic form
// (dividing by n, not n-1) keeps successive overlapping frames consistent.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := 0; i < n; i++ {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n)))
	}
	return w
}

// fftReal computes the complex spectrum of a real-valued frame.
func fftReal(frame []float64) []complex128 {
	return fft.FFTReal(frame)
}

// powerSpectrumDB keeps the one-sided half (bins 0..n/2) of a full complex
// FFT spectrum and converts it into a power spectrum expressed in dB, with a
// floor to keep silent bins finite.
func powerSpectrumDB(spectrum []complex128) []float64 {
	half := len(spectrum)/2 + 1
	db := make([]float64, half)
	for i := 0; i < half; i++ {
		power := cmplx.Abs(spectrum[i])
		power *= power
		db[i] = 10 * math.Log10(power+dbFloor)
	}
	return db
}

// Spectrogram is the magnitude-in-dB output of the STFT stage: frames[t][f]
// is the power, in dB, of frequency bin f at time frame t.
type Spectrogram struct {
	Frames     [][]float64
	SampleRate int
	WindowSize int
	HopSize    int
}

// computeSpectrogram runs a Hann-windowed STFT over samples and returns the
// per-frame power spectrum in dB. It returns ErrInputTooShort if samples
// does not fill at least one window.
func computeSpectrogram(samples []float32, sampleRate, windowSize, hopSize int) (*Spectrogram, error) {
	if len(samples) < windowSize {
		return nil, ErrInputTooShort
	}

	window := hannWindow(windowSize)
	frame := make([]float64, windowSize)

	var frames [][]float64
	for start := 0; start+windowSize <= len(samples); start += hopSize {
		for i := 0; i < windowSize; i++ {
			frame[i] = float64(samples[start+i]) * window[i]
		}
		spectrum := fftReal(frame)
		frames = append(frames, powerSpectrumDB(spectrum))
	}

	if len(frames) == 0 {
		return nil, fmt.Errorf("sonar: no frames produced for %d samples at window %d hop %d", len(samples), windowSize, hopSize)
	}

	return &Spectrogram{
		Frames:     frames,
		SampleRate: sampleRate,
		WindowSize: windowSize,
		HopSize:    hopSize,
	}, nil
}
