package report

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/modsim-lab/modsim/internal/modem"
	"github.com/modsim-lab/modsim/internal/sim"
)

// RunSummary aggregates repeated measurements of one sweep point.
type RunSummary struct {
	Scheme  modem.Modulation
	EbN0DB  float64
	MeanBER float64
	StdDev  float64
	Runs    int
}

// SummarizeRuns merges several sweep runs point by point into mean and
// spread per SNR. All runs must cover the same grid in the same order.
func SummarizeRuns(runs [][]sim.SweepPoint) ([]RunSummary, error) {
	if len(runs) == 0 {
		return nil, nil
	}
	n := len(runs[0])
	for i, r := range runs[1:] {
		if len(r) != n {
			return nil, fmt.Errorf("report: run %d has %d points, run 0 has %d", i+1, len(r), n)
		}
	}

	out := make([]RunSummary, n)
	bers := make([]float64, len(runs))
	for i := 0; i < n; i++ {
		for j, r := range runs {
			bers[j] = r[i].SimulatedBER
		}
		mean, std := stat.MeanStdDev(bers, nil)
		if len(runs) == 1 {
			std = 0
		}
		out[i] = RunSummary{
			Scheme:  runs[0][i].Scheme,
			EbN0DB:  runs[0][i].EbN0DB,
			MeanBER: mean,
			StdDev:  std,
			Runs:    len(runs),
		}
	}
	return out, nil
}
