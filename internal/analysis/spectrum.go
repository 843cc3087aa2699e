// Package analysis extracts frequency content from run histories, mainly to
// estimate orbital periods from a stored coordinate or energy trace.
package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude spectrum of the series after Hann
// windowing. Only the first half (the non-mirrored bins) is returned.
func PowerSpectrum(series []float64) []float64 {
	n := len(series)
	if n < 2 {
		return nil
	}

	windowed := make([]float64, n)
	for i, v := range series {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = v * w
	}

	spectrum := fft.FFTReal(windowed)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the strongest non-DC frequency in hertz of a
// series sampled every dt, and its spectral power. Returns zeros when the
// series is too short to resolve anything.
func DominantFrequency(series []float64, dt float64) (freq, power float64) {
	ps := PowerSpectrum(series)
	if len(ps) < 2 || dt <= 0 {
		return 0, 0
	}

	peak := 1 // skip DC
	for i := 2; i < len(ps); i++ {
		if ps[i] > ps[peak] {
			peak = i
		}
	}

	n := len(series)
	return float64(peak) / (float64(n) * dt), ps[peak]
}
