package sim

import (
	"encoding/csv"
	"fmt"
	"io"
)

// csvHeader is the column layout of a sweep export.
var csvHeader = []string{"scheme", "snr_db", "theoretical_ber", "simulated_ber", "bit_count", "error_count"}

// WriteCSV writes sweep rows as CSV: one header line, then one row per
// point with the SNR at one decimal and both rates in exponential
// notation with six fraction digits.
func WriteCSV(w io.Writer, points []SweepPoint) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, p := range points {
		row := []string{
			p.Scheme.String(),
			fmt.Sprintf("%.1f", p.EbN0DB),
			fmt.Sprintf("%.6e", p.TheoreticalBER),
			fmt.Sprintf("%.6e", p.SimulatedBER),
			fmt.Sprintf("%d", p.Bits),
			fmt.Sprintf("%d", p.BitErrors),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
