package waveform

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"
)

// spectrumFloorDB clamps empty bins instead of emitting -Inf.
const spectrumFloorDB = -150.0

// PowerSpectrumDB returns the single-sided power spectrum of a real
// waveform in dB relative to a full-scale tone. The input is Hann
// windowed; bin i covers frequency i*sampleRate/len(samples).
func PowerSpectrumDB(samples []float64) []float64 {
	if len(samples) == 0 {
		return nil
	}

	win := window.Hann(len(samples))
	buf := make([]float64, len(samples))
	var winSum float64
	for i, s := range samples {
		buf[i] = s * win[i]
		winSum += win[i]
	}

	spectrum := fft.FFTReal(buf)
	half := len(spectrum)/2 + 1
	ref := winSum / 2 // peak bin magnitude of a unit tone after windowing

	out := make([]float64, half)
	for i := 0; i < half; i++ {
		mag := cmplx.Abs(spectrum[i])
		if mag <= 0 {
			out[i] = spectrumFloorDB
			continue
		}
		db := 20 * math.Log10(mag/ref)
		if db < spectrumFloorDB {
			db = spectrumFloorDB
		}
		out[i] = db
	}
	return out
}

// PeakBin returns the index of the strongest spectral bin.
func PeakBin(spectrumDB []float64) int {
	peak := 0
	for i, v := range spectrumDB {
		if v > spectrumDB[peak] {
			peak = i
		}
	}
	return peak
}
