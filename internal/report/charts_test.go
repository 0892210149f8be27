package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/modsim-lab/modsim/internal/modem"
	"github.com/modsim-lab/modsim/internal/sim"
)

func testSamples() []sim.ReceivedSample {
	return []sim.ReceivedSample{
		{Symbol: complex(0.71, 0.70), TxBits: "00", RxBits: "00"},
		{Symbol: complex(-0.65, 0.72), TxBits: "01", RxBits: "01"},
		{Symbol: complex(0.05, -0.69), TxBits: "11", RxBits: "10", Err: true},
	}
}

func testSweepPoints() []sim.SweepPoint {
	return []sim.SweepPoint{
		{Scheme: modem.ModQPSK, EbN0DB: 0, TheoreticalBER: 7.86e-2, SimulatedBER: 7.9e-2, Bits: 10000, BitErrors: 790},
		{Scheme: modem.ModQPSK, EbN0DB: 4, TheoreticalBER: 1.25e-2, SimulatedBER: 1.3e-2, Bits: 10000, BitErrors: 130},
		{Scheme: modem.ModQPSK, EbN0DB: 8, TheoreticalBER: 1.91e-4, SimulatedBER: 0, Bits: 10000, BitErrors: 0},
		{Scheme: modem.Mod16QAM, EbN0DB: 0, TheoreticalBER: 1.4e-1, SimulatedBER: 1.39e-1, Bits: 10000, BitErrors: 1390},
		{Scheme: modem.Mod16QAM, EbN0DB: 4, TheoreticalBER: 5.9e-2, SimulatedBER: 6.0e-2, Bits: 10000, BitErrors: 600},
		{Scheme: modem.Mod16QAM, EbN0DB: 8, TheoreticalBER: 1.1e-2, SimulatedBER: 1.0e-2, Bits: 10000, BitErrors: 100},
	}
}

func TestConstellationHTML(t *testing.T) {
	c := modem.NewConstellation(modem.ModQPSK)

	var buf bytes.Buffer
	if err := ConstellationHTML(&buf, c, testSamples()); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	if len(out) == 0 {
		t.Fatal("empty render")
	}
	for _, want := range []string{"QPSK Constellation", "ideal", "received", "errors"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
}

func TestConstellationHTMLNoSamples(t *testing.T) {
	c := modem.NewConstellation(modem.Mod64QAM)
	var buf bytes.Buffer
	if err := ConstellationHTML(&buf, c, nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "64-QAM Constellation") {
		t.Error("render missing title")
	}
}

func TestBERCurveHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := BERCurveHTML(&buf, testSweepPoints()); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{"QPSK simulated", "QPSK theoretical", "16-QAM simulated", "Eb/N0 (dB)"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q", want)
		}
	}
	// The zero-rate point must come out as a gap marker, not a zero.
	if !strings.Contains(out, `"-"`) {
		t.Error("zero BER should render as a log-axis gap")
	}
}

func TestLogAxisValue(t *testing.T) {
	if got := logAxisValue(0); got != "-" {
		t.Errorf("zero rate = %v, want gap", got)
	}
	if got := logAxisValue(1e-5); got != 1e-5 {
		t.Errorf("positive rate = %v, want 1e-5", got)
	}
}
