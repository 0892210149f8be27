package sigmath

import (
	"math"
	"math/cmplx"
)

// SqDistance returns the squared Euclidean distance between two complex
// samples. Detection loops compare squared distances to skip the square
// root.
func SqDistance(a, b complex128) float64 {
	dr := real(a) - real(b)
	di := imag(a) - imag(b)
	return dr*dr + di*di
}

// Distance returns the Euclidean distance between two complex samples.
func Distance(a, b complex128) float64 {
	return math.Sqrt(SqDistance(a, b))
}

// Polar builds a complex sample from a magnitude and a phase in radians.
func Polar(mag, phase float64) complex128 {
	return cmplx.Rect(mag, phase)
}

// Power returns the instantaneous power |s|^2 of a sample.
func Power(s complex128) float64 {
	return real(s)*real(s) + imag(s)*imag(s)
}
