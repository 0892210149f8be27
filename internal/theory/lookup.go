package theory

import (
	"math"

	"github.com/modsim-lab/modsim/internal/modem"
)

// Search window and resolution for the inverse BER lookup.
const (
	searchLowDB  = -10.0
	searchHighDB = 30.0
	searchStepDB = 0.01
)

// RequiredEbN0 returns the lowest Eb/N0 in dB at which the scheme meets
// the target BER, resolved by bisection to 0.01 dB. It returns +Inf
// when the target is unreachable below 30 dB, and the -10 dB floor when
// the target is already met there.
func RequiredEbN0(mod modem.Modulation, targetBER float64) float64 {
	if BER(mod, searchHighDB) > targetBER {
		return math.Inf(1)
	}
	if BER(mod, searchLowDB) <= targetBER {
		return searchLowDB
	}

	lo, hi := searchLowDB, searchHighDB
	for hi-lo > searchStepDB {
		mid := (lo + hi) / 2
		if BER(mod, mid) > targetBER {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}

// SNRPenalty returns how many more dB of Eb/N0 the scheme b needs than
// the scheme a to reach the same target BER.
func SNRPenalty(a, b modem.Modulation, targetBER float64) float64 {
	return RequiredEbN0(b, targetBER) - RequiredEbN0(a, targetBER)
}
