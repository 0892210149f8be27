// Package channel models the additive white Gaussian noise channel used
// by the simulator. Noise levels are derived from a per-bit SNR so that
// schemes of different spectral efficiency compare fairly.
package channel

import (
	"math"
	"math/rand"

	"github.com/modsim-lab/modsim/internal/modem"
	"github.com/modsim-lab/modsim/internal/sigmath"
)

// NoiseVariance returns the total complex noise variance for the given
// Eb/N0 under unit average symbol energy. With Es = k*Eb the variance
// is 1/(Es/N0) in linear scale.
func NoiseVariance(ebN0dB float64, mod modem.Modulation) float64 {
	esN0 := sigmath.DBToLinear(ebN0dB) * float64(mod.BitsPerSymbol())
	return 1 / esN0
}

// EsN0DB converts a per-bit SNR to the per-symbol SNR in dB.
func EsN0DB(ebN0dB float64, mod modem.Modulation) float64 {
	return ebN0dB + 10*math.Log10(float64(mod.BitsPerSymbol()))
}

// EbN0DB converts a per-symbol SNR to the per-bit SNR in dB.
func EbN0DB(esN0dB float64, mod modem.Modulation) float64 {
	return esN0dB - 10*math.Log10(float64(mod.BitsPerSymbol()))
}

// Channel adds white Gaussian noise to transmitted symbols.
type Channel struct {
	rng *rand.Rand
}

// New creates a channel with its own deterministic noise source.
func New(seed int64) *Channel {
	return &Channel{rng: rand.New(rand.NewSource(seed))}
}

// NewFromRand creates a channel drawing noise from rng. Sessions use
// this to share one stream between data and noise generation.
func NewFromRand(rng *rand.Rand) *Channel {
	return &Channel{rng: rng}
}

// AddNoise returns a new slice with one independent complex Gaussian
// draw added per symbol. An infinite Eb/N0 passes symbols through
// unchanged.
func (ch *Channel) AddNoise(symbols []complex128, ebN0dB float64, mod modem.Modulation) []complex128 {
	variance := NoiseVariance(ebN0dB, mod)
	out := make([]complex128, len(symbols))
	for i, s := range symbols {
		out[i] = s + sigmath.ComplexGaussian(ch.rng, variance)
	}
	return out
}
