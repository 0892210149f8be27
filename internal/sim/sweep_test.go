package sim

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/modsim-lab/modsim/internal/modem"
	"github.com/modsim-lab/modsim/internal/theory"
)

func TestSimulateBERAtSNRBitTarget(t *testing.T) {
	// Target divisible by bits per symbol: lands exactly.
	pt, err := SimulateBERAtSNR(modem.ModQPSK, 8, 1000, 400, 1)
	if err != nil {
		t.Fatal(err)
	}
	if pt.Bits != 1000 {
		t.Errorf("QPSK bits = %d, want 1000", pt.Bits)
	}

	// 8-PSK carries 3 bits per symbol: 1000 stops just under at 999.
	pt, err = SimulateBERAtSNR(modem.Mod8PSK, 8, 1000, 400, 1)
	if err != nil {
		t.Fatal(err)
	}
	if pt.Bits != 999 {
		t.Errorf("8-PSK bits = %d, want 999", pt.Bits)
	}
}

func TestSimulateBERAtSNRBatchFallback(t *testing.T) {
	pt, err := SimulateBERAtSNR(modem.ModBPSK, 6, 2000, 0, 5)
	if err != nil {
		t.Fatal(err)
	}
	if pt.Bits != 2000 {
		t.Errorf("bits = %d, want 2000", pt.Bits)
	}
}

func TestSimulatedBERTracksTheory(t *testing.T) {
	// With 200k bits the binomial spread is tight; stay within four
	// standard errors of the closed form.
	cases := []struct {
		mod    modem.Modulation
		ebN0dB float64
		seed   int64
	}{
		{modem.ModBPSK, 4, 11},
		{modem.ModQPSK, 6, 12},
		{modem.Mod16QAM, 10, 13},
	}
	const bits = 200000

	for _, tc := range cases {
		pt, err := SimulateBERAtSNR(tc.mod, tc.ebN0dB, bits, DefaultBatchSymbols, tc.seed)
		if err != nil {
			t.Fatal(err)
		}
		want := theory.BER(tc.mod, tc.ebN0dB)
		tol := 4 * StdError(want, bits)
		if diff := pt.SimulatedBER - want; diff > tol || diff < -tol {
			t.Errorf("%s at %v dB: simulated %v vs theoretical %v (tolerance %v)",
				tc.mod, tc.ebN0dB, pt.SimulatedBER, want, tol)
		}
	}
}

func TestSweep(t *testing.T) {
	points, err := Sweep(modem.ModQPSK, 0, 4, 1, 10000, 21)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 5 {
		t.Fatalf("got %d points, want 5", len(points))
	}
	for i, pt := range points {
		if pt.EbN0DB != float64(i) {
			t.Errorf("point %d at %v dB, want %d", i, pt.EbN0DB, i)
		}
		if pt.Bits != 10000 {
			t.Errorf("point %d ran %d bits, want 10000", i, pt.Bits)
		}
		if i > 0 && pt.TheoreticalBER >= points[i-1].TheoreticalBER {
			t.Errorf("theoretical BER not decreasing at point %d", i)
		}
	}
}

func TestSweepDeterministic(t *testing.T) {
	a, err := Sweep(modem.Mod16QAM, 2, 6, 2, 5000, 9)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Sweep(modem.Mod16QAM, 2, 6, 2, 5000, 9)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed diverged (-a +b):\n%s", diff)
	}
}

func TestWriteCSV(t *testing.T) {
	points := []SweepPoint{
		{Scheme: modem.ModQPSK, EbN0DB: 6, TheoreticalBER: 0.0023, SimulatedBER: 0.00225, Bits: 200000, BitErrors: 450},
		{Scheme: modem.Mod64QAM, EbN0DB: 10.5, TheoreticalBER: 0.0123456789, SimulatedBER: 0, Bits: 60000, BitErrors: 0},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, points); err != nil {
		t.Fatal(err)
	}

	want := "scheme,snr_db,theoretical_ber,simulated_ber,bit_count,error_count\n" +
		"QPSK,6.0,2.300000e-03,2.250000e-03,200000,450\n" +
		"64-QAM,10.5,1.234568e-02,0.000000e+00,60000,0\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("CSV mismatch (-want +got):\n%s", diff)
	}
}

func TestStdError(t *testing.T) {
	if got := StdError(0.5, 100); math.Abs(got-0.05) > 1e-12 {
		t.Errorf("StdError(0.5, 100) = %v, want 0.05", got)
	}
	if got := StdError(0.1, 0); got != 0 {
		t.Errorf("StdError with zero trials = %v, want 0", got)
	}
}
