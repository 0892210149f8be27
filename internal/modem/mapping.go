package modem

import (
	"fmt"
	"math"

	"github.com/modsim-lab/modsim/internal/sigmath"
)

// Modulate maps a 0/1 bit stream onto constellation symbols. Bits are
// consumed in groups of BitsPerSymbol; a trailing partial group is
// dropped.
func (c *Constellation) Modulate(bits []byte) ([]complex128, error) {
	bps := c.Mod.BitsPerSymbol()
	numSymbols := len(bits) / bps
	symbols := make([]complex128, numSymbols)

	for i := 0; i < numSymbols; i++ {
		group := bits[i*bps : (i+1)*bps]
		pi := c.index[bitsToIndex(group)]
		if pi < 0 {
			return nil, fmt.Errorf("%w: group %s", ErrNoConstellationMatch, labelString(group))
		}
		symbols[i] = c.points[pi].Symbol
	}
	return symbols, nil
}

// Demodulate recovers the bit stream from received samples by
// minimum-distance detection. An exact tie keeps the earliest point in
// generation order.
func (c *Constellation) Demodulate(samples []complex128) []byte {
	bps := c.Mod.BitsPerSymbol()
	bits := make([]byte, 0, len(samples)*bps)

	for _, s := range samples {
		label := c.points[c.nearest(s)].Bits
		for j := 0; j < len(label); j++ {
			bits = append(bits, label[j]-'0')
		}
	}
	return bits
}

// Nearest returns the constellation point closest to s.
func (c *Constellation) Nearest(s complex128) Point {
	return c.points[c.nearest(s)]
}

// SymbolBits returns the bit label of the constellation point nearest
// to s. Fed an exact constellation point it is a plain label lookup.
func (c *Constellation) SymbolBits(s complex128) string {
	return c.points[c.nearest(s)].Bits
}

func (c *Constellation) nearest(s complex128) int {
	minDist := math.MaxFloat64
	minIdx := 0

	for i := range c.points {
		d := sigmath.SqDistance(s, c.points[i].Symbol)
		if d < minDist {
			minDist = d
			minIdx = i
		}
	}
	return minIdx
}

// CountBitErrors returns the Hamming distance between two bit strings
// of equal length.
func CountBitErrors(a, b string) (int, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d vs %d bits", ErrLengthMismatch, len(a), len(b))
	}
	errs := 0
	for i := 0; i < len(a); i++ {
		if a[i] != b[i] {
			errs++
		}
	}
	return errs, nil
}

func labelString(bits []byte) string {
	buf := make([]byte, len(bits))
	for i, b := range bits {
		buf[i] = '0' + (b & 1)
	}
	return string(buf)
}
