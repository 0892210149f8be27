package sigmath

import (
	"math"
	"math/rand"
)

// minUniform keeps the Box-Muller log argument away from zero.
const minUniform = 1e-300

// ComplexGaussian draws one circularly symmetric complex Gaussian sample
// with the given total variance, split evenly between the real and
// imaginary axes. A non-positive variance yields zero.
func ComplexGaussian(rng *rand.Rand, variance float64) complex128 {
	if variance <= 0 {
		return 0
	}
	sigma := math.Sqrt(variance / 2)
	u1 := rng.Float64()
	if u1 < minUniform {
		u1 = minUniform
	}
	u2 := rng.Float64()
	r := math.Sqrt(-2 * math.Log(u1))
	return complex(sigma*r*math.Cos(2*math.Pi*u2), sigma*r*math.Sin(2*math.Pi*u2))
}

// RandomBits returns n independent uniform bits as 0/1 bytes.
func RandomBits(rng *rand.Rand, n int) []byte {
	bits := make([]byte, n)
	for i := range bits {
		bits[i] = byte(rng.Intn(2))
	}
	return bits
}
