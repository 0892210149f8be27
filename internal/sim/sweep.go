package sim

import (
	"math"

	"github.com/modsim-lab/modsim/internal/modem"
	"github.com/modsim-lab/modsim/internal/theory"
)

// DefaultBatchSymbols is the per-iteration batch size for sweep runs.
const DefaultBatchSymbols = 400

// SweepPoint is one measured row of an SNR sweep, paired with the
// closed-form prediction at the same operating point.
type SweepPoint struct {
	Scheme         modem.Modulation
	EbN0DB         float64
	TheoreticalBER float64
	SimulatedBER   float64
	Bits           int64
	BitErrors      int64
}

// SimulateBERAtSNR runs batches of batchSymbols through a fresh session
// until bitsTarget bits have been simulated. The last batch shrinks so
// the count never overshoots; a target that is not a whole number of
// symbols stops just under it. A batch size under 1 falls back to
// DefaultBatchSymbols.
func SimulateBERAtSNR(mod modem.Modulation, ebN0dB float64, bitsTarget int64, batchSymbols int, seed int64) (SweepPoint, error) {
	if batchSymbols <= 0 {
		batchSymbols = DefaultBatchSymbols
	}
	sess := NewSession(mod, ebN0dB, seed)
	bps := int64(mod.BitsPerSymbol())

	for sess.stats.Bits < bitsTarget {
		want := (bitsTarget - sess.stats.Bits) / bps
		if want == 0 {
			break
		}
		batch := int64(batchSymbols)
		if batch > want {
			batch = want
		}
		if _, err := sess.Step(int(batch)); err != nil {
			return SweepPoint{}, err
		}
	}

	st := sess.Stats()
	return SweepPoint{
		Scheme:         mod,
		EbN0DB:         ebN0dB,
		TheoreticalBER: theory.BER(mod, ebN0dB),
		SimulatedBER:   st.BER(),
		Bits:           st.Bits,
		BitErrors:      st.BitErrors,
	}, nil
}

// Sweep measures the simulated BER across [startDB, stopDB] at stepDB
// spacing. Every point gets its own seeded session, derived from seed,
// so a sweep is reproducible end to end. A non-positive step falls
// back to 1 dB.
func Sweep(mod modem.Modulation, startDB, stopDB, stepDB float64, bitsTarget int64, seed int64) ([]SweepPoint, error) {
	if stepDB <= 0 {
		stepDB = 1
	}
	if stopDB < startDB {
		startDB, stopDB = stopDB, startDB
	}

	points := make([]SweepPoint, 0, int((stopDB-startDB)/stepDB)+1)
	i := int64(0)
	for db := startDB; db <= stopDB+1e-9; db += stepDB {
		pt, err := SimulateBERAtSNR(mod, db, bitsTarget, DefaultBatchSymbols, seed+i)
		if err != nil {
			return nil, err
		}
		points = append(points, pt)
		i++
	}
	return points, nil
}

// StdError returns the standard error of a measured error rate p over
// n trials, the usual binomial confidence half-width at one sigma.
func StdError(p float64, n int64) float64 {
	if n <= 0 {
		return 0
	}
	return math.Sqrt(p * (1 - p) / float64(n))
}
