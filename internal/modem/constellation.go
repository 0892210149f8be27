package modem

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

// Modulation represents a linear modulation scheme. The value is the
// number of bits carried per symbol.
type Modulation int

const (
	ModBPSK  Modulation = 1 // 1 bit per symbol
	ModQPSK  Modulation = 2 // 2 bits per symbol
	Mod8PSK  Modulation = 3 // 3 bits per symbol
	Mod16QAM Modulation = 4 // 4 bits per symbol
	Mod64QAM Modulation = 6 // 6 bits per symbol
)

// Schemes lists the supported modulations in ascending spectral
// efficiency.
func Schemes() []Modulation {
	return []Modulation{ModBPSK, ModQPSK, Mod8PSK, Mod16QAM, Mod64QAM}
}

// BitsPerSymbol returns the number of bits per constellation symbol.
func (m Modulation) BitsPerSymbol() int {
	return int(m)
}

// Order returns the constellation size 2^k.
func (m Modulation) Order() int {
	return 1 << uint(m)
}

// String returns the modulation name.
func (m Modulation) String() string {
	switch m {
	case ModBPSK:
		return "BPSK"
	case ModQPSK:
		return "QPSK"
	case Mod8PSK:
		return "8-PSK"
	case Mod16QAM:
		return "16-QAM"
	case Mod64QAM:
		return "64-QAM"
	default:
		return "Unknown"
	}
}

// ParseModulation resolves a scheme name such as "QPSK" or "16-QAM".
// Matching is case-insensitive and tolerates a missing hyphen.
func ParseModulation(s string) (Modulation, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BPSK":
		return ModBPSK, nil
	case "QPSK":
		return ModQPSK, nil
	case "8-PSK", "8PSK":
		return Mod8PSK, nil
	case "16-QAM", "16QAM":
		return Mod16QAM, nil
	case "64-QAM", "64QAM":
		return Mod64QAM, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownModulation, s)
	}
}

// Point is one constellation symbol together with its Gray-coded bit
// label.
type Point struct {
	Symbol complex128
	Bits   string
}

// Constellation holds the labeled points of one modulation scheme,
// normalized to unit average symbol energy.
type Constellation struct {
	Mod    Modulation
	points []Point
	index  []int   // bit pattern value -> point index
	scale  float64 // normalization factor for unit average power
}

// NewConstellation creates the constellation for the given modulation.
// It panics on a Modulation value outside the supported set; use
// ParseModulation to screen untrusted scheme names.
func NewConstellation(mod Modulation) *Constellation {
	c := &Constellation{Mod: mod}
	switch mod {
	case ModBPSK:
		c.generateBPSK()
	case ModQPSK:
		c.generateQPSK()
	case Mod8PSK:
		c.generatePSK(8)
	case Mod16QAM:
		c.generateQAM(4) // 4x4
	case Mod64QAM:
		c.generateQAM(8) // 8x8
	default:
		panic(fmt.Sprintf("modem: unsupported modulation %d", int(mod)))
	}
	c.normalize()
	c.buildIndex()
	return c
}

func (c *Constellation) generateBPSK() {
	// Antipodal pair on the real axis: 0 -> +1, 1 -> -1.
	c.points = []Point{
		{Symbol: complex(1, 0), Bits: "0"},
		{Symbol: complex(-1, 0), Bits: "1"},
	}
}

func (c *Constellation) generateQPSK() {
	// Gray-coded QPSK quadrants: 00, 01, 11, 10
	c.points = []Point{
		{Symbol: complex(1, 1), Bits: "00"},
		{Symbol: complex(-1, 1), Bits: "01"},
		{Symbol: complex(-1, -1), Bits: "11"},
		{Symbol: complex(1, -1), Bits: "10"},
	}
}

func (c *Constellation) generatePSK(order int) {
	// Evenly spaced points on the unit circle, labeled with a Gray
	// ring so angular neighbors differ in exactly one bit.
	width := log2(order)
	c.points = make([]Point, order)
	for i := 0; i < order; i++ {
		angle := 2 * math.Pi * float64(i) / float64(order)
		c.points[i] = Point{
			Symbol: cmplx.Rect(1, angle),
			Bits:   grayLabel(i, width),
		}
	}
}

func (c *Constellation) generateQAM(order int) {
	// Square QAM grid, each axis independently Gray-coded. The point
	// label is the I-axis code followed by the Q-axis code.
	width := log2(order)
	c.points = make([]Point, 0, order*order)
	for col := 0; col < order; col++ {
		for row := 0; row < order; row++ {
			x := float64(2*col - order + 1) // odd levels: -3, -1, 1, 3 for 16-QAM
			y := float64(2*row - order + 1)
			c.points = append(c.points, Point{
				Symbol: complex(x, y),
				Bits:   grayLabel(col, width) + grayLabel(row, width),
			})
		}
	}
}

func (c *Constellation) normalize() {
	// Calculate average power
	var avgPower float64
	for _, p := range c.points {
		avgPower += real(p.Symbol)*real(p.Symbol) + imag(p.Symbol)*imag(p.Symbol)
	}
	avgPower /= float64(len(c.points))

	// Normalize to unit average power
	c.scale = 1.0 / math.Sqrt(avgPower)
	for i := range c.points {
		c.points[i].Symbol *= complex(c.scale, 0)
	}
}

func (c *Constellation) buildIndex() {
	c.index = make([]int, c.Mod.Order())
	for i := range c.index {
		c.index[i] = -1
	}
	for i, p := range c.points {
		c.index[labelValue(p.Bits)] = i
	}
}

// Points returns the constellation points in generation order. The
// returned slice is shared; callers must not modify it.
func (c *Constellation) Points() []Point {
	return c.points
}

// Size returns the number of constellation points.
func (c *Constellation) Size() int {
	return len(c.points)
}

// Scale returns the amplitude factor applied to reach unit average
// symbol energy.
func (c *Constellation) Scale() float64 {
	return c.scale
}

func bitsToIndex(bits []byte) int {
	idx := 0
	for _, b := range bits {
		idx = (idx << 1) | int(b&1)
	}
	return idx
}

func indexToBits(idx, numBits int) []byte {
	bits := make([]byte, numBits)
	for i := numBits - 1; i >= 0; i-- {
		bits[i] = byte(idx & 1)
		idx >>= 1
	}
	return bits
}

func labelValue(label string) int {
	v := 0
	for i := 0; i < len(label); i++ {
		v = (v << 1) | int(label[i]-'0')
	}
	return v
}

func grayLabel(idx, width int) string {
	g := idx ^ (idx >> 1)
	buf := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		buf[i] = '0' + byte(g&1)
		g >>= 1
	}
	return string(buf)
}

func log2(n int) int {
	bits := 0
	for v := n; v > 1; v >>= 1 {
		bits++
	}
	return bits
}
