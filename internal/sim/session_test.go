package sim

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/modsim-lab/modsim/internal/modem"
)

func TestSessionInitialState(t *testing.T) {
	s := NewSession(modem.ModQPSK, 8, 1)
	st := s.Stats()

	if st.Scheme != modem.ModQPSK || st.EbN0DB != 8 {
		t.Errorf("unexpected config: %+v", st)
	}
	if st.Symbols != 0 || st.Bits != 0 || st.BitErrors != 0 {
		t.Errorf("counters not zero: %+v", st)
	}
	if st.BER() != 0 {
		t.Errorf("BER before any bits = %v, want 0", st.BER())
	}
}

func TestStepNoiselessAccumulation(t *testing.T) {
	// Infinite SNR turns the channel off, so every symbol decodes
	// cleanly and only the counters move.
	s := NewSession(modem.ModQPSK, math.Inf(1), 1)

	samples, err := s.Step(100)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 100 {
		t.Fatalf("got %d samples, want 100", len(samples))
	}
	for i, smp := range samples {
		if smp.Err {
			t.Fatalf("sample %d flagged as error without noise", i)
		}
		if smp.TxBits != smp.RxBits {
			t.Fatalf("sample %d: tx %q != rx %q", i, smp.TxBits, smp.RxBits)
		}
		if len(smp.TxBits) != 2 {
			t.Fatalf("sample %d: label width %d, want 2", i, len(smp.TxBits))
		}
	}

	if _, err := s.Step(50); err != nil {
		t.Fatal(err)
	}
	st := s.Stats()
	if st.Symbols != 150 || st.Bits != 300 || st.BitErrors != 0 {
		t.Errorf("counters = %+v, want 150 symbols / 300 bits / 0 errors", st)
	}
}

func TestStepNonPositiveCount(t *testing.T) {
	s := NewSession(modem.ModBPSK, 4, 1)
	for _, n := range []int{0, -3} {
		samples, err := s.Step(n)
		if err != nil {
			t.Fatal(err)
		}
		if samples != nil {
			t.Errorf("Step(%d) returned %d samples", n, len(samples))
		}
	}
	if st := s.Stats(); st.Symbols != 0 {
		t.Errorf("counters moved: %+v", st)
	}
}

func TestStepNoisyProducesErrors(t *testing.T) {
	// 64-QAM at -10 dB is essentially guesswork; a thousand symbols
	// cannot come through clean.
	s := NewSession(modem.Mod64QAM, -10, 7)
	if _, err := s.Step(1000); err != nil {
		t.Fatal(err)
	}
	st := s.Stats()
	if st.BitErrors == 0 {
		t.Error("no bit errors at -10 dB")
	}
	if st.BitErrors > st.Bits {
		t.Errorf("errors %d exceed bits %d", st.BitErrors, st.Bits)
	}
	if got := st.BER(); got <= 0 || got > 1 {
		t.Errorf("BER = %v out of range", got)
	}
}

func TestReset(t *testing.T) {
	s := NewSession(modem.Mod16QAM, 12, 3)
	if _, err := s.Step(200); err != nil {
		t.Fatal(err)
	}
	s.Reset()

	st := s.Stats()
	if st.Symbols != 0 || st.Bits != 0 || st.BitErrors != 0 {
		t.Errorf("counters after reset: %+v", st)
	}
	if st.Scheme != modem.Mod16QAM || st.EbN0DB != 12 {
		t.Errorf("config lost on reset: %+v", st)
	}
}

func TestSetSchemeResetsCounters(t *testing.T) {
	s := NewSession(modem.ModQPSK, 10, 3)
	if _, err := s.Step(100); err != nil {
		t.Fatal(err)
	}

	s.SetScheme(modem.Mod8PSK)
	st := s.Stats()
	if st.Scheme != modem.Mod8PSK {
		t.Errorf("scheme = %v, want 8-PSK", st.Scheme)
	}
	if st.Bits != 0 {
		t.Errorf("counters survived scheme switch: %+v", st)
	}
	if got := s.Constellation().Mod; got != modem.Mod8PSK {
		t.Errorf("constellation not rebuilt: %v", got)
	}

	// Re-selecting the current scheme must not clear progress.
	if _, err := s.Step(10); err != nil {
		t.Fatal(err)
	}
	s.SetScheme(modem.Mod8PSK)
	if st := s.Stats(); st.Symbols != 10 {
		t.Errorf("no-op scheme switch cleared counters: %+v", st)
	}
}

func TestSetEbN0DBKeepsCounters(t *testing.T) {
	s := NewSession(modem.ModQPSK, 10, 3)
	if _, err := s.Step(100); err != nil {
		t.Fatal(err)
	}

	s.SetEbN0DB(2)
	st := s.Stats()
	if st.EbN0DB != 2 {
		t.Errorf("EbN0DB = %v, want 2", st.EbN0DB)
	}
	if st.Symbols != 100 {
		t.Errorf("SNR change cleared counters: %+v", st)
	}
}

func TestSessionDeterministic(t *testing.T) {
	run := func() ([]ReceivedSample, Stats) {
		s := NewSession(modem.Mod16QAM, 9, 42)
		var all []ReceivedSample
		for i := 0; i < 3; i++ {
			samples, err := s.Step(64)
			if err != nil {
				t.Fatal(err)
			}
			all = append(all, samples...)
		}
		return all, s.Stats()
	}

	samplesA, statsA := run()
	samplesB, statsB := run()

	if diff := cmp.Diff(samplesA, samplesB); diff != "" {
		t.Errorf("samples diverged (-a +b):\n%s", diff)
	}
	if diff := cmp.Diff(statsA, statsB); diff != "" {
		t.Errorf("stats diverged (-a +b):\n%s", diff)
	}
}
