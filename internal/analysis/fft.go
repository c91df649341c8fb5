// Package analysis post-processes conserved-moment profiles: Fourier
// spectra, mode tracking across snapshots and shock indicators.
package analysis

import (
	"math"
	"math/cmplx"
)

func FFT(data []float64) []complex128 {
	n := len(data)
	if n <= 1 {
		result := make([]complex128, n)
		for i := range data {
			result[i] = complex(data[i], 0)
		}
		return result
	}

	if n%2 != 0 {
		panic("analysis: fft length must be a power of two")
	}

	even := make([]float64, n/2)
	odd := make([]float64, n/2)

	for i := 0; i < n/2; i++ {
		even[i] = data[2*i]
		odd[i] = data[2*i+1]
	}

	feven := FFT(even)
	fodd := FFT(odd)

	result := make([]complex128, n)
	for k := 0; k < n/2; k++ {
		w := cmplx.Exp(complex(0, -2*math.Pi*float64(k)/float64(n)))
		result[k] = feven[k] + w*fodd[k]
		result[k+n/2] = feven[k] - w*fodd[k]
	}

	return result
}

// PowerSpectrum returns the modulus of the first half of the spectrum.
// Profiles longer than a power of two are truncated to the largest one
// that fits.
func PowerSpectrum(profile []float64) []float64 {
	if len(profile) == 0 {
		return nil
	}
	n := 1
	for 2*n <= len(profile) {
		n *= 2
	}
	fft := FFT(profile[:n])
	ps := make([]float64, n/2)

	for i := range ps {
		ps[i] = cmplx.Abs(fft[i])
	}

	return ps
}

// DominantMode returns the wavenumber with the largest power, ignoring
// the mean.
func DominantMode(profile []float64) int {
	ps := PowerSpectrum(profile)
	best, bestVal := 0, 0.0
	for k := 1; k < len(ps); k++ {
		if ps[k] > bestVal {
			best, bestVal = k, ps[k]
		}
	}
	return best
}

// ModeAmplitude tracks the amplitude of one Fourier mode of a conserved
// moment across snapshots.
func ModeAmplitude(snapshots [][][]float64, moment, mode int) []float64 {
	amps := make([]float64, len(snapshots))
	for i, snap := range snapshots {
		ps := PowerSpectrum(snap[moment])
		if mode < len(ps) {
			amps[i] = ps[mode]
		}
	}
	return amps
}

// DecayRate fits ln(amp) = a + rate*t by least squares. Amplitudes that
// are not positive are skipped.
func DecayRate(times, amps []float64) float64 {
	n := 0
	var st, sy, stt, sty float64
	for i := range times {
		if i >= len(amps) || amps[i] <= 0 {
			continue
		}
		t, y := times[i], math.Log(amps[i])
		st += t
		sy += y
		stt += t * t
		sty += t * y
		n++
	}
	if n < 2 {
		return 0
	}
	den := float64(n)*stt - st*st
	if den == 0 {
		return 0
	}
	return (float64(n)*sty - st*sy) / den
}

// TotalVariation sums |u[i+1]-u[i]| over a profile, a cheap shock
// indicator for scalar conservation laws.
func TotalVariation(profile []float64) float64 {
	tv := 0.0
	for i := 1; i < len(profile); i++ {
		tv += math.Abs(profile[i] - profile[i-1])
	}
	return tv
}
