// Package waveform renders baseband symbols as a passband time series
// for display. One rectangular pulse per symbol; pulse shaping beyond
// that is out of scope here.
package waveform

import "math"

// Generator turns complex baseband symbols into a real carrier
// waveform.
type Generator struct {
	SampleRate float64 // samples per second
	SymbolRate float64 // symbols per second
	CarrierHz  float64
}

// NewGenerator creates a generator. Rates must be positive and the
// sample rate at least the symbol rate; the usual teaching setup is a
// handful of carrier cycles per symbol.
func NewGenerator(sampleRate, symbolRate, carrierHz float64) *Generator {
	return &Generator{SampleRate: sampleRate, SymbolRate: symbolRate, CarrierHz: carrierHz}
}

// SamplesPerSymbol returns how many output samples one symbol spans.
func (g *Generator) SamplesPerSymbol() int {
	return int(g.SampleRate / g.SymbolRate)
}

// Samples renders s(t) = I*cos(2*pi*f*t) - Q*sin(2*pi*f*t), holding
// each symbol for one symbol interval.
func (g *Generator) Samples(symbols []complex128) []float64 {
	spb := g.SamplesPerSymbol()
	out := make([]float64, 0, len(symbols)*spb)

	n := 0
	for _, sym := range symbols {
		for k := 0; k < spb; k++ {
			t := float64(n) / g.SampleRate
			phase := 2 * math.Pi * g.CarrierHz * t
			out = append(out, real(sym)*math.Cos(phase)-imag(sym)*math.Sin(phase))
			n++
		}
	}
	return out
}
