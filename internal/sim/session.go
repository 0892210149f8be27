// Package sim drives the Monte-Carlo link simulation: random data is
// modulated, pushed through the AWGN channel, detected, and compared
// bit-for-bit against what was sent.
package sim

import (
	"math/rand"

	"github.com/modsim-lab/modsim/internal/channel"
	"github.com/modsim-lab/modsim/internal/modem"
	"github.com/modsim-lab/modsim/internal/sigmath"
)

// Stats holds the running error counters of one simulation session.
type Stats struct {
	Scheme    modem.Modulation
	EbN0DB    float64
	Symbols   int64
	Bits      int64
	BitErrors int64
}

// BER returns the empirical bit error rate, zero before any bits have
// been simulated.
func (s Stats) BER() float64 {
	if s.Bits == 0 {
		return 0
	}
	return float64(s.BitErrors) / float64(s.Bits)
}

// ReceivedSample pairs one noisy received symbol with its transmitted
// and detected bit labels, for scatter displays and captures.
type ReceivedSample struct {
	Symbol complex128
	TxBits string
	RxBits string
	Err    bool
}

// Session owns one modulate/noise/detect loop and its statistics. A
// session is not safe for concurrent use; hosts serialize access.
type Session struct {
	constellation *modem.Constellation
	ch            *channel.Channel
	rng           *rand.Rand
	stats         Stats
}

// NewSession creates a session for the given scheme and per-bit SNR.
// The seed fixes both the data and the noise stream, so equal seeds
// reproduce runs exactly.
func NewSession(mod modem.Modulation, ebN0dB float64, seed int64) *Session {
	rng := rand.New(rand.NewSource(seed))
	return &Session{
		constellation: modem.NewConstellation(mod),
		ch:            channel.NewFromRand(rng),
		rng:           rng,
		stats:         Stats{Scheme: mod, EbN0DB: ebN0dB},
	}
}

// Step simulates numSymbols fresh random symbols at the current scheme
// and SNR, folds the outcome into the running counters and returns one
// ReceivedSample per symbol. A non-positive count is a no-op.
func (s *Session) Step(numSymbols int) ([]ReceivedSample, error) {
	if numSymbols <= 0 {
		return nil, nil
	}
	bps := s.stats.Scheme.BitsPerSymbol()

	bits := sigmath.RandomBits(s.rng, numSymbols*bps)
	tx, err := s.constellation.Modulate(bits)
	if err != nil {
		return nil, err
	}
	rx := s.ch.AddNoise(tx, s.stats.EbN0DB, s.stats.Scheme)

	samples := make([]ReceivedSample, len(rx))
	for i := range rx {
		txBits := s.constellation.SymbolBits(tx[i])
		rxBits := s.constellation.SymbolBits(rx[i])
		n, err := modem.CountBitErrors(txBits, rxBits)
		if err != nil {
			return nil, err
		}
		samples[i] = ReceivedSample{Symbol: rx[i], TxBits: txBits, RxBits: rxBits, Err: n > 0}

		s.stats.Symbols++
		s.stats.Bits += int64(bps)
		s.stats.BitErrors += int64(n)
	}
	return samples, nil
}

// Stats returns a copy of the running counters.
func (s *Session) Stats() Stats {
	return s.stats
}

// Constellation exposes the active constellation for display layers.
func (s *Session) Constellation() *modem.Constellation {
	return s.constellation
}

// Reset zeroes the counters, keeping scheme, SNR and random state.
func (s *Session) Reset() {
	s.stats.Symbols = 0
	s.stats.Bits = 0
	s.stats.BitErrors = 0
}

// SetScheme switches the modulation scheme. Counters reset because
// rates across schemes are not comparable.
func (s *Session) SetScheme(mod modem.Modulation) {
	if mod == s.stats.Scheme {
		return
	}
	s.constellation = modem.NewConstellation(mod)
	s.stats.Scheme = mod
	s.Reset()
}

// SetEbN0DB retunes the channel SNR. Counters keep accumulating so the
// effect of turning the knob mid-run stays visible.
func (s *Session) SetEbN0DB(db float64) {
	s.stats.EbN0DB = db
}
