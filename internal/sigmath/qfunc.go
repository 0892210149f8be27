// Package sigmath provides the numeric primitives shared by the
// modulation, channel and analysis packages: the Gaussian tail
// probability and its inverse, decibel conversions, and seeded
// complex-Gaussian sampling.
package sigmath

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidProbability is returned by QInv for arguments outside (0, 1).
var ErrInvalidProbability = errors.New("sigmath: probability must be in (0, 1)")

// Abramowitz & Stegun 26.2.17 polynomial for the standard normal tail.
const qFuncT = 0.2316419

var qFuncCoeff = [5]float64{0.319381530, -0.356563782, 1.781477937, -1.821255978, 1.330274429}

// Q returns the Gaussian tail probability P(Z > x) for a standard normal
// variable Z. Accuracy is about 7.5e-8 absolute over the real line.
func Q(x float64) float64 {
	if x < 0 {
		return 1 - Q(-x)
	}
	if x > 8 {
		return 0
	}
	t := 1 / (1 + qFuncT*x)
	poly := t * (qFuncCoeff[0] + t*(qFuncCoeff[1] + t*(qFuncCoeff[2] + t*(qFuncCoeff[3] + t*qFuncCoeff[4]))))
	return normPDF(x) * poly
}

// QInv returns the x with Q(x) = p. The argument must lie strictly
// between 0 and 1.
func QInv(p float64) (float64, error) {
	if p <= 0 || p >= 1 {
		return 0, fmt.Errorf("%w: got %v", ErrInvalidProbability, p)
	}
	if p > 0.5 {
		x, err := QInv(1 - p)
		return -x, err
	}
	// Tail seed, then Newton refinement against Q itself.
	x := math.Sqrt(-2 * math.Log(p))
	for i := 0; i < 10; i++ {
		x += (Q(x) - p) / normPDF(x)
	}
	return x, nil
}

// normPDF is the standard normal density.
func normPDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}
