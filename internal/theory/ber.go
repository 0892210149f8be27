// Package theory evaluates closed-form error-rate expressions for the
// supported modulation schemes over the AWGN channel. The non-binary
// forms are the standard Gray-coding approximations, tight above a few
// dB and the usual reference curves for validating simulated results.
package theory

import (
	"fmt"
	"math"

	"github.com/modsim-lab/modsim/internal/modem"
	"github.com/modsim-lab/modsim/internal/sigmath"
)

// BER returns the theoretical bit error rate at the given Eb/N0.
func BER(mod modem.Modulation, ebN0dB float64) float64 {
	g := sigmath.DBToLinear(ebN0dB)
	switch mod {
	case modem.ModBPSK, modem.ModQPSK:
		// Identical per-bit performance: QPSK is two orthogonal BPSK axes.
		return sigmath.Q(math.Sqrt(2 * g))
	case modem.Mod8PSK:
		return 2.0 / 3.0 * sigmath.Q(math.Sqrt(6*g)*math.Sin(math.Pi/8))
	case modem.Mod16QAM:
		return 0.75 * sigmath.Q(math.Sqrt(0.8*g))
	case modem.Mod64QAM:
		return 7.0 / 12.0 * sigmath.Q(math.Sqrt(2.0/7.0*g))
	default:
		panic(fmt.Sprintf("theory: unsupported modulation %d", int(mod)))
	}
}

// SER returns the theoretical symbol error rate at the given Eb/N0.
func SER(mod modem.Modulation, ebN0dB float64) float64 {
	g := sigmath.DBToLinear(ebN0dB)
	switch mod {
	case modem.ModBPSK:
		return sigmath.Q(math.Sqrt(2 * g))
	case modem.ModQPSK:
		// Exact: either quadrature axis in error.
		p := sigmath.Q(math.Sqrt(2 * g))
		return 2*p - p*p
	case modem.Mod8PSK:
		return 2 * sigmath.Q(math.Sqrt(6*g)*math.Sin(math.Pi/8))
	case modem.Mod16QAM:
		p := 1.5 * sigmath.Q(math.Sqrt(0.8*g))
		return 1 - (1-p)*(1-p)
	case modem.Mod64QAM:
		p := 1.75 * sigmath.Q(math.Sqrt(2.0/7.0*g))
		return 1 - (1-p)*(1-p)
	default:
		panic(fmt.Sprintf("theory: unsupported modulation %d", int(mod)))
	}
}
